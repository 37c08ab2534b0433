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
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// CreateProposalUseCase creates a proposal. A proposal created directly in
// init is handed to the processor before the call returns; the caller
// reads the terminal status off the DTO.
type CreateProposalUseCase struct {
	proposalRepo   ports.ProposalRepository
	processor      *Processor
	eventPublisher ports.EventPublisher
}

// NewCreateProposalUseCase creates the use case.
func NewCreateProposalUseCase(proposalRepo ports.ProposalRepository, processor *Processor, eventPublisher ports.EventPublisher) *CreateProposalUseCase {
	return &CreateProposalUseCase{
		proposalRepo:   proposalRepo,
		processor:      processor,
		eventPublisher: eventPublisher,
	}
}

// Execute creates the proposal.
func (uc *CreateProposalUseCase) Execute(ctx context.Context, authz *auth.Authorization, cmd dtos.CreateProposalCommand) (*dtos.ProposalDTO, error) {
	if !authz.CanManage() {
		return nil, errors.NewAuthorizationError("create proposal", string(authz.Issuer))
	}

	amount, err := decimal.NewFromString(cmd.Amount)
	if err != nil {
		return nil, errors.ValidationError{Field: "amount", Message: "invalid decimal"}
	}
	participants, err := parseParticipants(cmd.Participants)
	if err != nil {
		return nil, err
	}

	userID := authz.UserID
	if cmd.UserID != "" {
		userID, err = uuid.Parse(cmd.UserID)
		if err != nil {
			return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID format"}
		}
	}

	p, err := entities.NewProposal(
		authz.BusinessName(),
		userID,
		authz.Issuer,
		issuerID(authz),
		amount,
		cmd.Currency,
		cmd.Description,
		cmd.Note,
		entities.TaskStatus(cmd.TaskStatus),
		participants,
		cmd.Metadata,
	)
	if err != nil {
		return nil, err
	}

	if err := uc.proposalRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save proposal: %w", err)
	}
	_ = uc.eventPublisher.Publish(ctx, events.NewProposalCreated(p.UID(), p.BusinessName(), string(p.TaskStatus())))

	// Created straight in init: process now.
	if p.TaskStatus() == entities.TaskStatusInit {
		p, err = uc.processor.Process(ctx, authz.Business, p)
		if err != nil {
			return nil, err
		}
	}

	dto := dtos.ToProposalDTO(p)
	return &dto, nil
}

// parseParticipants converts wire participants to domain pairs.
func parseParticipants(inputs []dtos.ParticipantInput) ([]entities.Participant, error) {
	participants := make([]entities.Participant, len(inputs))
	for i, in := range inputs {
		walletID, err := uuid.Parse(in.WalletID)
		if err != nil {
			return nil, errors.ValidationError{
				Field:   fmt.Sprintf("participants[%d].wallet_id", i),
				Message: "invalid UUID format",
			}
		}
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			return nil, errors.ValidationError{
				Field:   fmt.Sprintf("participants[%d].amount", i),
				Message: "invalid decimal",
			}
		}
		participants[i] = entities.Participant{WalletID: walletID, Amount: amount}
	}
	return participants, nil
}

// issuerID resolves the acting identity for the issuer kind.
func issuerID(authz *auth.Authorization) uuid.UUID {
	switch authz.Issuer {
	case entities.IssuerBusiness:
		if authz.Business != nil {
			return authz.Business.UID()
		}
	case entities.IssuerApp:
		if id, err := uuid.Parse(authz.AppID); err == nil {
			return id
		}
	case entities.IssuerUser:
		return authz.UserID
	}
	return authz.UserID
}
