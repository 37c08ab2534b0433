package hold

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// GetHoldUseCase loads a single hold by uid.
type GetHoldUseCase struct {
	holdRepo ports.HoldRepository
}

// NewGetHoldUseCase creates the use case.
func NewGetHoldUseCase(holdRepo ports.HoldRepository) *GetHoldUseCase {
	return &GetHoldUseCase{holdRepo: holdRepo}
}

// Execute loads the hold.
func (uc *GetHoldUseCase) Execute(ctx context.Context, authz *auth.Authorization, holdID string) (*dtos.HoldDTO, error) {
	id, err := uuid.Parse(holdID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	hold, err := uc.holdRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	if authz.IsUser() && hold.UserID() != authz.UserID {
		return nil, errors.NewAuthorizationError("read hold", string(authz.Issuer))
	}

	dto := dtos.ToHoldDTO(hold)
	return &dto, nil
}
