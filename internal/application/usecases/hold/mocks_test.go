package hold

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

type mockHoldRepo struct {
	saveFunc     func(ctx context.Context, hold *entities.WalletHold) error
	findByIDFunc func(ctx context.Context, businessName string, id uuid.UUID) (*entities.WalletHold, error)
	listFunc     func(ctx context.Context, filter ports.HoldFilter, offset, limit int) ([]*entities.WalletHold, int, error)

	saved []*entities.WalletHold
}

func (m *mockHoldRepo) Save(ctx context.Context, hold *entities.WalletHold) error {
	m.saved = append(m.saved, hold)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, hold)
	}
	return nil
}

func (m *mockHoldRepo) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.WalletHold, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, businessName, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockHoldRepo) List(ctx context.Context, filter ports.HoldFilter, offset, limit int) ([]*entities.WalletHold, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockHoldRepo) ActiveSum(ctx context.Context, walletID uuid.UUID, currency string, now time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type mockWalletRepo struct {
	findByIDFunc func(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error)
}

func (m *mockWalletRepo) Save(ctx context.Context, wallet *entities.Wallet) error { return nil }

func (m *mockWalletRepo) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, businessName, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, int, error) {
	return nil, 0, nil
}

func (m *mockWalletRepo) LockForCommit(ctx context.Context, walletIDs []uuid.UUID) error {
	return nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, event)
	return nil
}

func (m *mockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func businessAuth(name string) *auth.Authorization {
	business := entities.NewBusiness(name, name+".example.com", uuid.New(),
		entities.BusinessConfig{DefaultCurrency: "USD"}, nil)
	return &auth.Authorization{Issuer: entities.IssuerBusiness, Business: business}
}

func userAuth(name string, userID uuid.UUID) *auth.Authorization {
	a := businessAuth(name)
	a.Issuer = entities.IssuerUser
	a.UserID = userID
	return a
}
