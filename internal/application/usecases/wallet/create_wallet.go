package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// CreateWalletUseCase creates a wallet for a user within the tenant.
//
// Scenario:
// 1. Authorize: only business/app issuers may create wallets
// 2. Create the domain entity (validates type, app_income currency rule)
// 3. Save
// 4. Publish WalletCreated (best-effort)
type CreateWalletUseCase struct {
	walletRepo     ports.WalletRepository
	eventPublisher ports.EventPublisher
}

// NewCreateWalletUseCase creates the use case.
func NewCreateWalletUseCase(walletRepo ports.WalletRepository, eventPublisher ports.EventPublisher) *CreateWalletUseCase {
	return &CreateWalletUseCase{
		walletRepo:     walletRepo,
		eventPublisher: eventPublisher,
	}
}

// Execute creates the wallet.
func (uc *CreateWalletUseCase) Execute(ctx context.Context, authz *auth.Authorization, cmd dtos.CreateWalletCommand) (*dtos.WalletDTO, error) {
	if !authz.CanManage() {
		return nil, errors.NewAuthorizationError("create wallet", string(authz.Issuer))
	}

	userID, err := uuid.Parse(cmd.UserID)
	if err != nil {
		return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID format"}
	}

	wallet, err := entities.NewWallet(
		authz.BusinessName(),
		userID,
		entities.WalletType(cmd.WalletType),
		cmd.MainCurrency,
		cmd.Metadata,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.walletRepo.Save(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to save wallet: %w", err)
	}

	// Best-effort: a lost event never fails the creation.
	_ = uc.eventPublisher.Publish(ctx, events.NewWalletCreated(
		wallet.UID(), wallet.BusinessName(), wallet.UserID(),
		string(wallet.WalletType()), wallet.MainCurrency(),
	))

	dto := dtos.ToWalletDTO(wallet)
	return &dto, nil
}
