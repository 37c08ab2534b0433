package proposal

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
)

// UpdateProposalUseCase patches a draft proposal. Setting task_status=init
// in the patch hands the proposal to the processor immediately.
type UpdateProposalUseCase struct {
	proposalRepo ports.ProposalRepository
	processor    *Processor
}

// NewUpdateProposalUseCase creates the use case.
func NewUpdateProposalUseCase(proposalRepo ports.ProposalRepository, processor *Processor) *UpdateProposalUseCase {
	return &UpdateProposalUseCase{proposalRepo: proposalRepo, processor: processor}
}

// Execute patches the proposal.
func (uc *UpdateProposalUseCase) Execute(ctx context.Context, authz *auth.Authorization, proposalID string, cmd dtos.UpdateProposalCommand) (*dtos.ProposalDTO, error) {
	if !authz.CanManage() {
		return nil, errors.NewAuthorizationError("update proposal", string(authz.Issuer))
	}

	id, err := uuid.Parse(proposalID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	p, err := uc.proposalRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	patch, err := buildPatch(cmd)
	if err != nil {
		return nil, err
	}
	if err := p.PatchDraft(patch); err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}

	if p.TaskStatus() == entities.TaskStatusInit {
		p, err = uc.processor.Process(ctx, authz.Business, p)
		if err != nil {
			return nil, err
		}
	}

	dto := dtos.ToProposalDTO(p)
	return &dto, nil
}

// buildPatch converts the wire command into a domain patch.
func buildPatch(cmd dtos.UpdateProposalCommand) (entities.ProposalPatch, error) {
	patch := entities.ProposalPatch{
		Currency:    cmd.Currency,
		Description: cmd.Description,
		Note:        cmd.Note,
		Metadata:    cmd.Metadata,
	}

	if cmd.Amount != nil {
		amount, err := decimal.NewFromString(*cmd.Amount)
		if err != nil {
			return entities.ProposalPatch{}, errors.ValidationError{Field: "amount", Message: "invalid decimal"}
		}
		patch.Amount = &amount
	}
	if cmd.TaskStatus != nil {
		status := entities.TaskStatus(*cmd.TaskStatus)
		patch.TaskStatus = &status
	}
	if cmd.Participants != nil {
		participants, err := parseParticipants(cmd.Participants)
		if err != nil {
			return entities.ProposalPatch{}, err
		}
		patch.Participants = participants
	}
	return patch, nil
}
