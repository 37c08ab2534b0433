package proposal

import (
	"context"
	"fmt"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// ListProposalsUseCase lists proposals, newest first.
type ListProposalsUseCase struct {
	proposalRepo ports.ProposalRepository
}

// NewListProposalsUseCase creates the use case.
func NewListProposalsUseCase(proposalRepo ports.ProposalRepository) *ListProposalsUseCase {
	return &ListProposalsUseCase{proposalRepo: proposalRepo}
}

// Execute lists the proposals.
func (uc *ListProposalsUseCase) Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListProposalsQuery, paging dtos.Paging) (*dtos.ProposalListDTO, error) {
	filter := ports.ProposalFilter{BusinessName: authz.BusinessName()}

	if authz.IsUser() {
		userID := authz.UserID
		filter.UserID = &userID
	}
	if query.TaskStatus != "" {
		status := entities.TaskStatus(query.TaskStatus)
		if !status.IsValid() {
			return nil, errors.ValidationError{Field: "task_status", Message: "unknown task status"}
		}
		filter.TaskStatus = &status
	}

	proposals, total, err := uc.proposalRepo.List(ctx, filter, paging.Offset, paging.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list proposals: %w", err)
	}

	return &dtos.ProposalListDTO{
		Items:  dtos.ToProposalDTOList(proposals),
		Total:  total,
		Offset: paging.Offset,
		Limit:  paging.Limit,
	}, nil
}
