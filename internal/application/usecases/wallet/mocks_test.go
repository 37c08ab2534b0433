package wallet

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

// Mock repositories with overridable behaviour per test.

type mockWalletRepo struct {
	saveFunc     func(ctx context.Context, wallet *entities.Wallet) error
	findByIDFunc func(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error)
	listFunc     func(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, int, error)

	saved []*entities.Wallet
}

func (m *mockWalletRepo) Save(ctx context.Context, wallet *entities.Wallet) error {
	m.saved = append(m.saved, wallet)
	if m.saveFunc != nil {
		return m.saveFunc(ctx, wallet)
	}
	return nil
}

func (m *mockWalletRepo) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, businessName, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockWalletRepo) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockWalletRepo) LockForCommit(ctx context.Context, walletIDs []uuid.UUID) error {
	return nil
}

type mockLedgerRepo struct {
	latestBalanceFunc      func(ctx context.Context, walletID uuid.UUID, currency string) (decimal.Decimal, error)
	distinctCurrenciesFunc func(ctx context.Context, walletID uuid.UUID) ([]string, error)
}

func (m *mockLedgerRepo) Append(ctx context.Context, tx *entities.Transaction) error { return nil }

func (m *mockLedgerRepo) LatestBalance(ctx context.Context, walletID uuid.UUID, currency string) (decimal.Decimal, error) {
	if m.latestBalanceFunc != nil {
		return m.latestBalanceFunc(ctx, walletID, currency)
	}
	return decimal.Zero, nil
}

func (m *mockLedgerRepo) DistinctCurrencies(ctx context.Context, walletID uuid.UUID) ([]string, error) {
	if m.distinctCurrenciesFunc != nil {
		return m.distinctCurrenciesFunc(ctx, walletID)
	}
	return nil, nil
}

func (m *mockLedgerRepo) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Transaction, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockLedgerRepo) FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entities.Transaction, error) {
	return nil, nil
}

func (m *mockLedgerRepo) List(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, int, error) {
	return nil, 0, nil
}

type mockHoldRepo struct {
	activeSumFunc func(ctx context.Context, walletID uuid.UUID, currency string, now time.Time) (decimal.Decimal, error)
}

func (m *mockHoldRepo) Save(ctx context.Context, hold *entities.WalletHold) error { return nil }

func (m *mockHoldRepo) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.WalletHold, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockHoldRepo) List(ctx context.Context, filter ports.HoldFilter, offset, limit int) ([]*entities.WalletHold, int, error) {
	return nil, 0, nil
}

func (m *mockHoldRepo) ActiveSum(ctx context.Context, walletID uuid.UUID, currency string, now time.Time) (decimal.Decimal, error) {
	if m.activeSumFunc != nil {
		return m.activeSumFunc(ctx, walletID, currency, now)
	}
	return decimal.Zero, nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, event events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, event)
	if m.publishFunc != nil {
		return m.publishFunc(ctx, event)
	}
	return nil
}

func (m *mockEventPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// Authorization fixtures.

func businessAuth(name, defaultCurrency string) *auth.Authorization {
	business := entities.NewBusiness(name, name+".example.com", uuid.New(),
		entities.BusinessConfig{DefaultCurrency: defaultCurrency}, nil)
	return &auth.Authorization{
		Issuer:   entities.IssuerBusiness,
		Business: business,
	}
}

func userAuth(name, defaultCurrency string, userID uuid.UUID) *auth.Authorization {
	a := businessAuth(name, defaultCurrency)
	a.Issuer = entities.IssuerUser
	a.UserID = userID
	return a
}
