package hold

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// TestCreateHoldUseCase_Success tests the happy path.
func TestCreateHoldUseCase_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	wallet, _ := entities.NewWallet("acme", uuid.New(), entities.WalletTypeUser, "USD", nil)

	holdRepo := &mockHoldRepo{}
	walletRepo := &mockWalletRepo{
		findByIDFunc: func(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
			return wallet, nil
		},
	}
	eventPublisher := &mockEventPublisher{}
	useCase := NewCreateHoldUseCase(holdRepo, walletRepo, eventPublisher)

	cmd := dtos.CreateHoldCommand{
		WalletID:  wallet.UID().String(),
		Currency:  "usd",
		Amount:    "80.00",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	// Act
	result, err := useCase.Execute(ctx, businessAuth("acme"), cmd)

	// Assert
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Currency != "USD" {
		t.Errorf("Expected normalized currency USD, got %s", result.Currency)
	}
	if result.Status != string(entities.HoldStatusActive) {
		t.Errorf("Expected default status active, got %s", result.Status)
	}
	if result.UserID != wallet.UserID().String() {
		t.Errorf("Expected hold attributed to wallet owner")
	}
	if len(holdRepo.saved) != 1 {
		t.Fatalf("Expected 1 saved hold, got %d", len(holdRepo.saved))
	}
	if len(eventPublisher.publishedEvents) != 1 ||
		eventPublisher.publishedEvents[0].EventType() != events.EventTypeHoldCreated {
		t.Errorf("Expected hold.created event")
	}
}

// TestCreateHoldUseCase_UserIssuerForbidden tests the issuer gate.
func TestCreateHoldUseCase_UserIssuerForbidden(t *testing.T) {
	ctx := context.Background()
	useCase := NewCreateHoldUseCase(&mockHoldRepo{}, &mockWalletRepo{}, &mockEventPublisher{})

	cmd := dtos.CreateHoldCommand{
		WalletID:  uuid.New().String(),
		Currency:  "USD",
		Amount:    "10",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	_, err := useCase.Execute(ctx, userAuth("acme", uuid.New()), cmd)

	if !domainErrors.IsAuthorization(err) {
		t.Errorf("Expected AuthorizationError, got %T: %v", err, err)
	}
}

// TestCreateHoldUseCase_WalletNotFound tests the missing wallet case.
func TestCreateHoldUseCase_WalletNotFound(t *testing.T) {
	ctx := context.Background()
	useCase := NewCreateHoldUseCase(&mockHoldRepo{}, &mockWalletRepo{}, &mockEventPublisher{})

	cmd := dtos.CreateHoldCommand{
		WalletID:  uuid.New().String(),
		Currency:  "USD",
		Amount:    "10",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	_, err := useCase.Execute(ctx, businessAuth("acme"), cmd)

	if !domainErrors.IsNotFound(err) {
		t.Errorf("Expected NotFound, got %v", err)
	}
}

// TestCreateHoldUseCase_Validation tests input validation.
func TestCreateHoldUseCase_Validation(t *testing.T) {
	ctx := context.Background()
	wallet, _ := entities.NewWallet("acme", uuid.New(), entities.WalletTypeUser, "USD", nil)
	walletRepo := &mockWalletRepo{
		findByIDFunc: func(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
			return wallet, nil
		},
	}

	tests := []struct {
		name    string
		cmd     dtos.CreateHoldCommand
		wantErr error
	}{
		{
			name: "negative amount",
			cmd: dtos.CreateHoldCommand{
				WalletID: wallet.UID().String(), Currency: "USD",
				Amount: "-5", ExpiresAt: time.Now().Add(time.Hour),
			},
			wantErr: domainErrors.ErrNegativeHoldAmount,
		},
		{
			name: "unknown status",
			cmd: dtos.CreateHoldCommand{
				WalletID: wallet.UID().String(), Currency: "USD",
				Amount: "5", ExpiresAt: time.Now().Add(time.Hour), Status: "paused",
			},
			wantErr: domainErrors.ErrInvalidHoldStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCase := NewCreateHoldUseCase(&mockHoldRepo{}, walletRepo, &mockEventPublisher{})

			_, err := useCase.Execute(ctx, businessAuth("acme"), tt.cmd)

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("missing currency", func(t *testing.T) {
		useCase := NewCreateHoldUseCase(&mockHoldRepo{}, walletRepo, &mockEventPublisher{})

		_, err := useCase.Execute(ctx, businessAuth("acme"), dtos.CreateHoldCommand{
			WalletID: wallet.UID().String(), Amount: "5", ExpiresAt: time.Now().Add(time.Hour),
		})

		if !domainErrors.IsValidation(err) {
			t.Errorf("Expected ValidationError, got %T: %v", err, err)
		}
	})
}

// TestCreateHoldUseCase_ZeroAmountAllowed tests that a zero hold is legal.
func TestCreateHoldUseCase_ZeroAmountAllowed(t *testing.T) {
	ctx := context.Background()
	wallet, _ := entities.NewWallet("acme", uuid.New(), entities.WalletTypeUser, "USD", nil)
	walletRepo := &mockWalletRepo{
		findByIDFunc: func(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
			return wallet, nil
		},
	}
	useCase := NewCreateHoldUseCase(&mockHoldRepo{}, walletRepo, &mockEventPublisher{})

	result, err := useCase.Execute(ctx, businessAuth("acme"), dtos.CreateHoldCommand{
		WalletID: wallet.UID().String(), Currency: "USD",
		Amount: "0", ExpiresAt: time.Now().Add(time.Hour),
	})

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if result.Amount != "0" {
		t.Errorf("Expected amount 0, got %s", result.Amount)
	}
}
