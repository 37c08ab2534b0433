package hold

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

// UpdateHoldUseCase patches a hold. Only expiry, status, description and
// metadata are patchable; amount and currency are frozen at creation, a
// different reservation is a new hold.
type UpdateHoldUseCase struct {
	holdRepo       ports.HoldRepository
	eventPublisher ports.EventPublisher
}

// NewUpdateHoldUseCase creates the use case.
func NewUpdateHoldUseCase(holdRepo ports.HoldRepository, eventPublisher ports.EventPublisher) *UpdateHoldUseCase {
	return &UpdateHoldUseCase{holdRepo: holdRepo, eventPublisher: eventPublisher}
}

// Execute patches the hold.
func (uc *UpdateHoldUseCase) Execute(ctx context.Context, authz *auth.Authorization, holdID string, cmd dtos.UpdateHoldCommand) (*dtos.HoldDTO, error) {
	if !authz.CanManage() {
		return nil, errors.NewAuthorizationError("update hold", string(authz.Issuer))
	}

	id, err := uuid.Parse(holdID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	hold, err := uc.holdRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	if cmd.ExpiresAt != nil {
		hold.SetExpiresAt(*cmd.ExpiresAt)
	}
	if cmd.Status != nil {
		if err := hold.SetStatus(entities.HoldStatus(*cmd.Status)); err != nil {
			return nil, err
		}
	}
	if cmd.Description != nil {
		hold.SetDescription(*cmd.Description)
	}
	if cmd.Metadata != nil {
		hold.SetMetadata(cmd.Metadata)
	}

	if err := uc.holdRepo.Save(ctx, hold); err != nil {
		return nil, fmt.Errorf("failed to save hold: %w", err)
	}

	_ = uc.eventPublisher.Publish(ctx, events.NewHoldUpdated(
		hold.UID(), hold.WalletID(), string(hold.Status()),
	))

	dto := dtos.ToHoldDTO(hold)
	return &dto, nil
}
