package proposal

import (
	"context"
	goerrors "errors"
	"testing"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

func newStartUseCase(h *harness) *StartProposalUseCase {
	return NewStartProposalUseCase(fakeProposals{h.store}, h.processor)
}

func TestStartProposal_ProcessesInit(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	income := h.newWallet(entities.WalletTypeAppIncome, "USD")
	p := h.initProposal("100", []entities.Participant{
		part(w1, "100"), part(income, "-100"),
	}, "")
	uc := newStartUseCase(h)

	// Act
	dto, err := uc.Execute(ctx, businessAuthz(h.business), p.UID().String())

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dto.TaskStatus != string(entities.TaskStatusCompleted) {
		t.Fatalf("Expected completed, got %s (report: %s)", dto.TaskStatus, dto.Report)
	}
	if rows := h.store.rowsFor(p.UID()); len(rows) != 2 {
		t.Errorf("Expected 2 ledger rows, got %d", len(rows))
	}
}

func TestStartProposal_TerminalIsAnObserve(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	income := h.newWallet(entities.WalletTypeAppIncome, "USD")
	p := h.initProposal("100", []entities.Participant{
		part(w1, "100"), part(income, "-100"),
	}, "")
	uc := newStartUseCase(h)

	if _, err := uc.Execute(ctx, businessAuthz(h.business), p.UID().String()); err != nil {
		t.Fatalf("First start failed: %v", err)
	}
	appendsAfterFirst := h.store.appendCalls

	// Second start observes the terminal status without reprocessing.
	dto, err := uc.Execute(ctx, businessAuthz(h.business), p.UID().String())

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dto.TaskStatus != string(entities.TaskStatusCompleted) {
		t.Errorf("Expected completed, got %s", dto.TaskStatus)
	}
	if h.store.appendCalls != appendsAfterFirst {
		t.Errorf("Expected no new ledger writes on observe")
	}
}

func TestStartProposal_DraftRejected(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	p := h.draftProposal("100", []entities.Participant{part(w1, "100")})
	uc := newStartUseCase(h)

	_, err := uc.Execute(ctx, businessAuthz(h.business), p.UID().String())

	if !goerrors.Is(err, errors.ErrInvalidTaskStatus) {
		t.Fatalf("Expected ErrInvalidTaskStatus, got %v", err)
	}
}

func TestStartProposal_ProcessingConflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	income := h.newWallet(entities.WalletTypeAppIncome, "USD")
	p := h.initProposal("100", []entities.Participant{
		part(w1, "100"), part(income, "-100"),
	}, "")
	_ = p.MarkProcessing()
	uc := newStartUseCase(h)

	_, err := uc.Execute(ctx, businessAuthz(h.business), p.UID().String())

	if !errors.IsConflict(err) {
		t.Fatalf("Expected conflict, got %v", err)
	}
	if !goerrors.Is(err, errors.ErrAlreadyProcessed) {
		t.Fatalf("Expected ErrAlreadyProcessed, got %v", err)
	}
}

func TestStartProposal_Errors(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	uc := newStartUseCase(h)

	if _, err := uc.Execute(ctx, businessAuthz(h.business), "nope"); !errors.IsValidation(err) {
		t.Errorf("Expected validation error for malformed uid, got %v", err)
	}
	if _, err := uc.Execute(ctx, businessAuthz(h.business), uuid.NewString()); !errors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
	if _, err := uc.Execute(ctx, userAuthz(h.business, uuid.New()), uuid.NewString()); !errors.IsAuthorization(err) {
		t.Errorf("Expected authorization error, got %v", err)
	}
}
