package proposal

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// StartProposalUseCase pushes an init proposal through processing.
//
// Status handling:
//   - terminal (completed/error): returned as-is, the call is an observe
//   - draft: invalid-status, the owner must flip it to init first
//   - processing: conflict, somebody else holds the claim
//   - init: process now
type StartProposalUseCase struct {
	proposalRepo ports.ProposalRepository
	processor    *Processor
}

// NewStartProposalUseCase creates the use case.
func NewStartProposalUseCase(proposalRepo ports.ProposalRepository, processor *Processor) *StartProposalUseCase {
	return &StartProposalUseCase{proposalRepo: proposalRepo, processor: processor}
}

// Execute starts processing.
func (uc *StartProposalUseCase) Execute(ctx context.Context, authz *auth.Authorization, proposalID string) (*dtos.ProposalDTO, error) {
	if !authz.CanManage() {
		return nil, errors.NewAuthorizationError("start proposal", string(authz.Issuer))
	}

	id, err := uuid.Parse(proposalID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	p, err := uc.proposalRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	switch {
	case p.TaskStatus().IsTerminal():
		dto := dtos.ToProposalDTO(p)
		return &dto, nil
	case p.TaskStatus() == entities.TaskStatusDraft:
		return nil, errors.NewDomainError(errors.CodeInvalidStatus,
			"proposal is still a draft", errors.ErrInvalidTaskStatus)
	case p.TaskStatus() == entities.TaskStatusProcessing:
		return nil, errors.NewConflictError("Proposal", p.UID().String(),
			"proposal is being processed", errors.ErrAlreadyProcessed)
	}

	p, err = uc.processor.Process(ctx, authz.Business, p)
	if err != nil {
		return nil, fmt.Errorf("failed to process proposal: %w", err)
	}

	dto := dtos.ToProposalDTO(p)
	return &dto, nil
}
