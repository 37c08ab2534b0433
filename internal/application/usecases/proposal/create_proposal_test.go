package proposal

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

func newCreateUseCase(h *harness) *CreateProposalUseCase {
	return NewCreateProposalUseCase(fakeProposals{h.store}, h.processor, h.events)
}

func TestCreateProposal_Draft(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	income := h.newWallet(entities.WalletTypeAppIncome, "USD")
	uc := newCreateUseCase(h)

	cmd := dtos.CreateProposalCommand{
		Amount:   "100",
		Currency: "usd",
		Participants: []dtos.ParticipantInput{
			{WalletID: w1.UID().String(), Amount: "100"},
			{WalletID: income.UID().String(), Amount: "-100"},
		},
	}

	// Act
	dto, err := uc.Execute(ctx, businessAuthz(h.business), cmd)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dto.TaskStatus != string(entities.TaskStatusDraft) {
		t.Errorf("Expected draft status, got %s", dto.TaskStatus)
	}
	if dto.Currency != "USD" {
		t.Errorf("Expected normalized currency USD, got %s", dto.Currency)
	}
	// A draft never touches the ledger.
	if len(h.store.ledger) != 0 {
		t.Errorf("Expected no ledger rows, got %d", len(h.store.ledger))
	}
	if len(h.events.publishedEvents) != 1 ||
		h.events.publishedEvents[0].EventType() != events.EventTypeProposalCreated {
		t.Errorf("Expected a single proposal.created event")
	}
}

func TestCreateProposal_InitProcessesImmediately(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	income := h.newWallet(entities.WalletTypeAppIncome, "USD")
	uc := newCreateUseCase(h)

	cmd := dtos.CreateProposalCommand{
		Amount:     "100",
		Currency:   "USD",
		TaskStatus: "init",
		Participants: []dtos.ParticipantInput{
			{WalletID: w1.UID().String(), Amount: "100"},
			{WalletID: income.UID().String(), Amount: "-100"},
		},
	}

	dto, err := uc.Execute(ctx, businessAuthz(h.business), cmd)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dto.TaskStatus != string(entities.TaskStatusCompleted) {
		t.Fatalf("Expected completed status, got %s (report: %s)", dto.TaskStatus, dto.Report)
	}
	if len(h.store.ledger) != 2 {
		t.Errorf("Expected 2 ledger rows, got %d", len(h.store.ledger))
	}
	// created, then completed
	if len(h.events.publishedEvents) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(h.events.publishedEvents))
	}
	if h.events.publishedEvents[1].EventType() != events.EventTypeProposalCompleted {
		t.Errorf("Expected proposal.completed, got %s", h.events.publishedEvents[1].EventType())
	}
}

func TestCreateProposal_InitRejectionSurfacesAsErrorStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	w2 := h.newWallet(entities.WalletTypeUser, "USD")
	uc := newCreateUseCase(h)

	cmd := dtos.CreateProposalCommand{
		Amount:     "100",
		Currency:   "USD",
		TaskStatus: "init",
		Participants: []dtos.ParticipantInput{
			{WalletID: w1.UID().String(), Amount: "100"},
			{WalletID: w2.UID().String(), Amount: "-100"},
		},
	}

	dto, err := uc.Execute(ctx, businessAuthz(h.business), cmd)

	if err != nil {
		t.Fatalf("Business rejection must not be an error, got: %v", err)
	}
	if dto.TaskStatus != string(entities.TaskStatusError) {
		t.Fatalf("Expected error status, got %s", dto.TaskStatus)
	}
	if dto.Report == "" {
		t.Errorf("Expected a failure report")
	}
}

func TestCreateProposal_UserForbidden(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	uc := newCreateUseCase(h)

	_, err := uc.Execute(ctx, userAuthz(h.business, uuid.New()), dtos.CreateProposalCommand{
		Amount:       "100",
		Currency:     "USD",
		Participants: []dtos.ParticipantInput{{WalletID: uuid.NewString(), Amount: "100"}},
	})

	if !errors.IsAuthorization(err) {
		t.Fatalf("Expected authorization error, got %v", err)
	}
}

func TestCreateProposal_Validation(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	uc := newCreateUseCase(h)
	authz := businessAuthz(h.business)

	tests := []struct {
		name string
		cmd  dtos.CreateProposalCommand
	}{
		{
			name: "bad amount",
			cmd: dtos.CreateProposalCommand{
				Amount:       "lots",
				Currency:     "USD",
				Participants: []dtos.ParticipantInput{{WalletID: uuid.NewString(), Amount: "100"}},
			},
		},
		{
			name: "bad participant wallet id",
			cmd: dtos.CreateProposalCommand{
				Amount:       "100",
				Currency:     "USD",
				Participants: []dtos.ParticipantInput{{WalletID: "not-a-uuid", Amount: "100"}},
			},
		},
		{
			name: "bad participant amount",
			cmd: dtos.CreateProposalCommand{
				Amount:       "100",
				Currency:     "USD",
				Participants: []dtos.ParticipantInput{{WalletID: uuid.NewString(), Amount: "1oo"}},
			},
		},
		{
			name: "bad user id",
			cmd: dtos.CreateProposalCommand{
				Amount:       "100",
				Currency:     "USD",
				UserID:       "42",
				Participants: []dtos.ParticipantInput{{WalletID: uuid.NewString(), Amount: "100"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(ctx, authz, tt.cmd)
			if !errors.IsValidation(err) {
				t.Errorf("Expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateProposal_OwnerAndIssuerAttribution(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	uc := newCreateUseCase(h)
	owner := uuid.New()

	dto, err := uc.Execute(ctx, businessAuthz(h.business), dtos.CreateProposalCommand{
		Amount:       "100",
		Currency:     "USD",
		UserID:       owner.String(),
		Participants: []dtos.ParticipantInput{{WalletID: w1.UID().String(), Amount: "100"}},
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dto.UserID != owner.String() {
		t.Errorf("Expected owner %s, got %s", owner, dto.UserID)
	}
	if dto.Issuer != string(entities.IssuerBusiness) {
		t.Errorf("Expected business issuer, got %s", dto.Issuer)
	}
	if dto.IssuerID != h.business.UID().String() {
		t.Errorf("Expected issuer id %s, got %s", h.business.UID(), dto.IssuerID)
	}
}
