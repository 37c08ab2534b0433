package wallet

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// GetWalletUseCase loads a wallet with its derived balance map. An
// optional currency narrows the map to that single currency.
type GetWalletUseCase struct {
	walletRepo ports.WalletRepository
	view       *View
}

// NewGetWalletUseCase creates the use case.
func NewGetWalletUseCase(walletRepo ports.WalletRepository, view *View) *GetWalletUseCase {
	return &GetWalletUseCase{walletRepo: walletRepo, view: view}
}

// Execute loads the wallet.
func (uc *GetWalletUseCase) Execute(ctx context.Context, authz *auth.Authorization, walletID string, currency string) (*dtos.WalletDTO, error) {
	id, err := uuid.Parse(walletID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	wallet, err := uc.walletRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	// End users may only read their own wallets.
	if authz.IsUser() && wallet.UserID() != authz.UserID {
		return nil, errors.NewAuthorizationError("read wallet", string(authz.Issuer))
	}

	// Empty currency means "all of them"; the sentinel never keys a map.
	if valueobjects.IsCurrencyNone(currency) {
		currency = ""
	} else {
		currency = valueobjects.NormalizeCurrency(currency)
	}
	balance, err := uc.view.BalanceMap(ctx, wallet, currency)
	if err != nil {
		return nil, err
	}

	dto := dtos.ToWalletDTOWithBalance(wallet, balance)
	return &dto, nil
}
