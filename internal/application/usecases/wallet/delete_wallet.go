package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// DeleteWalletUseCase soft-deletes a wallet.
//
// A wallet can only be deleted while every finite balance is zero; funds
// would otherwise vanish from the books. The unbounded main-currency
// balance of an app_income wallet never blocks deletion, there is nothing
// to lose.
type DeleteWalletUseCase struct {
	walletRepo     ports.WalletRepository
	view           *View
	eventPublisher ports.EventPublisher
}

// NewDeleteWalletUseCase creates the use case.
func NewDeleteWalletUseCase(walletRepo ports.WalletRepository, view *View, eventPublisher ports.EventPublisher) *DeleteWalletUseCase {
	return &DeleteWalletUseCase{
		walletRepo:     walletRepo,
		view:           view,
		eventPublisher: eventPublisher,
	}
}

// Execute deletes the wallet.
func (uc *DeleteWalletUseCase) Execute(ctx context.Context, authz *auth.Authorization, walletID string) error {
	if !authz.CanManage() {
		return errors.NewAuthorizationError("delete wallet", string(authz.Issuer))
	}

	id, err := uuid.Parse(walletID)
	if err != nil {
		return errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	wallet, err := uc.walletRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return err
	}

	currencies, err := uc.view.Currencies(ctx, wallet)
	if err != nil {
		return err
	}
	for _, currency := range currencies {
		balance, err := uc.view.Balance(ctx, wallet, currency)
		if err != nil {
			return err
		}
		if balance.IsUnbounded() {
			continue
		}
		if !balance.IsZero() {
			return errors.NewDomainError(errors.CodeNotEmpty,
				fmt.Sprintf("wallet holds %s %s", balance, currency),
				errors.ErrWalletNotEmpty)
		}
	}

	wallet.MarkDeleted()
	if err := uc.walletRepo.Save(ctx, wallet); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}

	_ = uc.eventPublisher.Publish(ctx, events.NewWalletDeleted(wallet.UID(), wallet.BusinessName()))
	return nil
}
