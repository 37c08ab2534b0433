package proposal

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

func TestGetProposal_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	p := h.draftProposal("100", []entities.Participant{part(w1, "100")})
	uc := NewGetProposalUseCase(fakeProposals{h.store})

	// Act
	dto, err := uc.Execute(ctx, businessAuthz(h.business), p.UID().String())

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if dto.UID != p.UID().String() {
		t.Errorf("Expected uid %s, got %s", p.UID(), dto.UID)
	}
	if len(dto.Participants) != 1 || dto.Participants[0].WalletID != w1.UID().String() {
		t.Errorf("Expected the participant leg on the DTO")
	}
}

func TestGetProposal_OwnerMayRead(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	w1 := h.newWallet(entities.WalletTypeUser, "USD")
	p := h.draftProposal("100", []entities.Participant{part(w1, "100")})
	uc := NewGetProposalUseCase(fakeProposals{h.store})

	if _, err := uc.Execute(ctx, userAuthz(h.business, p.UserID()), p.UID().String()); err != nil {
		t.Errorf("Expected the owner to read their proposal, got: %v", err)
	}

	_, err := uc.Execute(ctx, userAuthz(h.business, uuid.New()), p.UID().String())
	if !errors.IsAuthorization(err) {
		t.Errorf("Expected authorization error for a foreign user, got %v", err)
	}
}

func TestGetProposal_Errors(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	uc := NewGetProposalUseCase(fakeProposals{h.store})

	if _, err := uc.Execute(ctx, businessAuthz(h.business), "nope"); !errors.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
	if _, err := uc.Execute(ctx, businessAuthz(h.business), uuid.NewString()); !errors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestListProposals_UserScoped(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	userID := uuid.New()
	uc := NewListProposalsUseCase(fakeProposals{h.store})

	_, err := uc.Execute(ctx, userAuthz(h.business, userID), dtos.ListProposalsQuery{}, dtos.Paging{Limit: 20})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	filter := h.store.lastProposalFilter
	if filter.BusinessName != "acme" {
		t.Errorf("Expected tenant scope acme, got %s", filter.BusinessName)
	}
	if filter.UserID == nil || *filter.UserID != userID {
		t.Errorf("Expected the listing pinned to the caller")
	}
}

func TestListProposals_StatusFilter(t *testing.T) {
	ctx := context.Background()
	h := newHarness()
	uc := NewListProposalsUseCase(fakeProposals{h.store})

	_, err := uc.Execute(ctx, businessAuthz(h.business),
		dtos.ListProposalsQuery{TaskStatus: "completed"}, dtos.Paging{Limit: 20})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	filter := h.store.lastProposalFilter
	if filter.TaskStatus == nil || *filter.TaskStatus != entities.TaskStatusCompleted {
		t.Errorf("Expected completed status filter")
	}
	if filter.UserID != nil {
		t.Errorf("Expected no user pinning for a manager")
	}

	_, err = uc.Execute(ctx, businessAuthz(h.business),
		dtos.ListProposalsQuery{TaskStatus: "instant"}, dtos.Paging{Limit: 20})
	if !errors.IsValidation(err) {
		t.Errorf("Expected validation error for unknown status, got %v", err)
	}
}
