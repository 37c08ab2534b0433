package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

type mockLedgerRepo struct {
	findByIDFunc func(ctx context.Context, businessName string, id uuid.UUID) (*entities.Transaction, error)
	listFunc     func(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, int, error)
}

func (m *mockLedgerRepo) Append(ctx context.Context, tx *entities.Transaction) error { return nil }

func (m *mockLedgerRepo) LatestBalance(ctx context.Context, walletID uuid.UUID, currency string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockLedgerRepo) DistinctCurrencies(ctx context.Context, walletID uuid.UUID) ([]string, error) {
	return nil, nil
}

func (m *mockLedgerRepo) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Transaction, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, businessName, id)
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (m *mockLedgerRepo) FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entities.Transaction, error) {
	return nil, nil
}

func (m *mockLedgerRepo) List(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, int, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, filter, offset, limit)
	}
	return nil, 0, nil
}

type mockNoteRepo struct {
	appendFunc func(ctx context.Context, note *entities.TransactionNote) error
	latestFunc func(ctx context.Context, transactionID uuid.UUID) (*entities.TransactionNote, error)

	appended []*entities.TransactionNote
}

func (m *mockNoteRepo) Append(ctx context.Context, note *entities.TransactionNote) error {
	m.appended = append(m.appended, note)
	if m.appendFunc != nil {
		return m.appendFunc(ctx, note)
	}
	return nil
}

func (m *mockNoteRepo) Latest(ctx context.Context, transactionID uuid.UUID) (*entities.TransactionNote, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx, transactionID)
	}
	return nil, domainErrors.ErrEntityNotFound
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

func ledgerEntry(userID uuid.UUID) *entities.Transaction {
	return entities.NewParticipantTransaction(
		"acme", userID, uuid.New(), uuid.New(),
		decimal.RequireFromString("25"), "USD",
		decimal.RequireFromString("125"), "", nil,
	)
}
