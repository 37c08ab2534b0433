// Package hold contains use cases for wallet holds: reservations that
// reduce spendable balance without moving funds.
package hold

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// CreateHoldUseCase places a hold on a wallet.
//
// Scenario:
// 1. Authorize: end users cannot place holds
// 2. Load the wallet to verify it exists within the tenant
// 3. Create the hold entity and save it
// 4. Publish HoldCreated (best-effort)
//
// The hold does not check spendable balance: over-holding is allowed and
// simply drives spendable negative until resolved.
type CreateHoldUseCase struct {
	holdRepo       ports.HoldRepository
	walletRepo     ports.WalletRepository
	eventPublisher ports.EventPublisher
}

// NewCreateHoldUseCase creates the use case.
func NewCreateHoldUseCase(holdRepo ports.HoldRepository, walletRepo ports.WalletRepository, eventPublisher ports.EventPublisher) *CreateHoldUseCase {
	return &CreateHoldUseCase{
		holdRepo:       holdRepo,
		walletRepo:     walletRepo,
		eventPublisher: eventPublisher,
	}
}

// Execute places the hold.
func (uc *CreateHoldUseCase) Execute(ctx context.Context, authz *auth.Authorization, cmd dtos.CreateHoldCommand) (*dtos.HoldDTO, error) {
	if !authz.CanManage() {
		return nil, errors.NewAuthorizationError("create hold", string(authz.Issuer))
	}

	walletID, err := uuid.Parse(cmd.WalletID)
	if err != nil {
		return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID format"}
	}
	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return nil, errors.ValidationError{Field: "amount", Message: "invalid decimal"}
	}
	currency := valueobjects.NormalizeCurrency(cmd.Currency)
	if valueobjects.IsCurrencyNone(currency) {
		return nil, errors.ValidationError{Field: "currency", Message: "currency is required"}
	}

	wallet, err := uc.walletRepo.FindByID(ctx, authz.BusinessName(), walletID)
	if err != nil {
		return nil, err
	}

	// The hold is attributed to the wallet owner unless the caller names
	// someone else.
	userID := wallet.UserID()
	if cmd.UserID != "" {
		userID, err = uuid.Parse(cmd.UserID)
		if err != nil {
			return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID format"}
		}
	}

	hold, err := entities.NewWalletHold(
		authz.BusinessName(),
		userID,
		wallet.UID(),
		amount,
		currency,
		cmd.ExpiresAt,
		entities.HoldStatus(cmd.Status),
		cmd.Description,
		cmd.Metadata,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.holdRepo.Save(ctx, hold); err != nil {
		return nil, fmt.Errorf("failed to save hold: %w", err)
	}

	_ = uc.eventPublisher.Publish(ctx, events.NewHoldCreated(
		hold.UID(), hold.WalletID(), hold.Currency(), hold.Amount().String(),
	))

	dto := dtos.ToHoldDTO(hold)
	return &dto, nil
}
