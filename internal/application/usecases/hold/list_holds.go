package hold

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// ListHoldsUseCase lists holds.
//
// Window semantics: without From/To the listing answers "what is live
// now" and only returns unexpired holds; with a window it answers "what
// was created inside it" and the expiry constraint is dropped.
type ListHoldsUseCase struct {
	holdRepo ports.HoldRepository
}

// NewListHoldsUseCase creates the use case.
func NewListHoldsUseCase(holdRepo ports.HoldRepository) *ListHoldsUseCase {
	return &ListHoldsUseCase{holdRepo: holdRepo}
}

// Execute lists the holds.
func (uc *ListHoldsUseCase) Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListHoldsQuery, paging dtos.Paging) (*dtos.HoldListDTO, error) {
	filter := ports.HoldFilter{
		BusinessName: authz.BusinessName(),
		From:         query.From,
		To:           query.To,
		Now:          time.Now(),
	}

	if authz.IsUser() {
		userID := authz.UserID
		filter.UserID = &userID
	}

	if query.WalletID != "" {
		walletID, err := uuid.Parse(query.WalletID)
		if err != nil {
			return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID format"}
		}
		filter.WalletID = &walletID
	}
	if query.Currency != "" {
		currency := valueobjects.NormalizeCurrency(query.Currency)
		filter.Currency = &currency
	}
	if query.Status != "" {
		status := entities.HoldStatus(query.Status)
		if !status.IsValid() {
			return nil, errors.ValidationError{Field: "status", Message: "unknown hold status"}
		}
		filter.Status = &status
	}

	holds, total, err := uc.holdRepo.List(ctx, filter, paging.Offset, paging.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list holds: %w", err)
	}

	return &dtos.HoldListDTO{
		Items:  dtos.ToHoldDTOList(holds),
		Total:  total,
		Offset: paging.Offset,
		Limit:  paging.Limit,
	}, nil
}
