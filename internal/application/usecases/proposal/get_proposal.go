package proposal

import (
	"context"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// GetProposalUseCase loads a single proposal by uid.
type GetProposalUseCase struct {
	proposalRepo ports.ProposalRepository
}

// NewGetProposalUseCase creates the use case.
func NewGetProposalUseCase(proposalRepo ports.ProposalRepository) *GetProposalUseCase {
	return &GetProposalUseCase{proposalRepo: proposalRepo}
}

// Execute loads the proposal.
func (uc *GetProposalUseCase) Execute(ctx context.Context, authz *auth.Authorization, proposalID string) (*dtos.ProposalDTO, error) {
	id, err := uuid.Parse(proposalID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	p, err := uc.proposalRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	if authz.IsUser() && p.UserID() != authz.UserID {
		return nil, errors.NewAuthorizationError("read proposal", string(authz.Issuer))
	}

	dto := dtos.ToProposalDTO(p)
	return &dto, nil
}
