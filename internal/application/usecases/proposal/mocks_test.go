package proposal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	usecasewallet "github.com/Haleralex/ledgerhub/internal/application/usecases/wallet"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// fakeStore is an in-memory stand-in for the whole persistence layer. It
// implements the wallet, ledger, note and proposal ports over slices and
// maps, including the init -> processing CAS and unit-of-work rollback,
// so processor tests exercise the real pipeline end to end.
type fakeStore struct {
	wallets   map[uuid.UUID]*entities.Wallet
	ledger    []*entities.Transaction
	notes     []*entities.TransactionNote
	proposals map[uuid.UUID]entities.TaskStatus // Persisted status per uid

	savedProposals []*entities.Proposal
	lockedWallets  []uuid.UUID

	lastProposalFilter ports.ProposalFilter

	appendErr     error // Injected fault: fails the n-th Append when set
	appendErrAt   int
	appendCalls   int
	walletFindErr error // Injected fault: every FindByID fails when set
	activeSum     func(walletID uuid.UUID, currency string) decimal.Decimal
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		wallets:   make(map[uuid.UUID]*entities.Wallet),
		proposals: make(map[uuid.UUID]entities.TaskStatus),
	}
}

func (f *fakeStore) addWallet(w *entities.Wallet) { f.wallets[w.UID()] = w }

// seedBalance appends a funding row so the wallet starts with the given
// balance.
func (f *fakeStore) seedBalance(w *entities.Wallet, currency, amount string) {
	d := decimal.RequireFromString(amount)
	f.ledger = append(f.ledger, entities.NewParticipantTransaction(
		w.BusinessName(), w.UserID(), uuid.New(), w.UID(), d, currency, d, "seed", nil,
	))
}

// rowsFor returns the ledger rows a proposal produced.
func (f *fakeStore) rowsFor(proposalID uuid.UUID) []*entities.Transaction {
	var rows []*entities.Transaction
	for _, tx := range f.ledger {
		if tx.ProposalID() == proposalID {
			rows = append(rows, tx)
		}
	}
	return rows
}

// --- WalletRepository ---

func (f *fakeStore) Save(ctx context.Context, w *entities.Wallet) error { return nil }

func (f *fakeStore) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
	if f.walletFindErr != nil {
		return nil, f.walletFindErr
	}
	w, ok := f.wallets[id]
	if !ok || w.IsDeleted() || !w.BelongsTo(businessName) {
		return nil, domainErrors.ErrEntityNotFound
	}
	return w, nil
}

func (f *fakeStore) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, int, error) {
	return nil, 0, nil
}

func (f *fakeStore) LockForCommit(ctx context.Context, walletIDs []uuid.UUID) error {
	f.lockedWallets = append(f.lockedWallets, walletIDs...)
	return nil
}

// --- LedgerRepository (wrapped below to avoid method clashes) ---

type fakeLedger struct{ s *fakeStore }

func (l fakeLedger) Append(ctx context.Context, tx *entities.Transaction) error {
	l.s.appendCalls++
	if l.s.appendErr != nil && l.s.appendCalls == l.s.appendErrAt {
		return l.s.appendErr
	}
	l.s.ledger = append(l.s.ledger, tx)
	return nil
}

func (l fakeLedger) LatestBalance(ctx context.Context, walletID uuid.UUID, currency string) (decimal.Decimal, error) {
	latest := decimal.Zero
	for _, tx := range l.s.ledger {
		if tx.WalletID() == walletID && tx.Currency() == currency {
			latest = tx.Balance()
		}
	}
	return latest, nil
}

func (l fakeLedger) DistinctCurrencies(ctx context.Context, walletID uuid.UUID) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, tx := range l.s.ledger {
		if tx.WalletID() == walletID {
			if _, ok := seen[tx.Currency()]; !ok {
				seen[tx.Currency()] = struct{}{}
				out = append(out, tx.Currency())
			}
		}
	}
	return out, nil
}

func (l fakeLedger) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Transaction, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (l fakeLedger) FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entities.Transaction, error) {
	return l.s.rowsFor(proposalID), nil
}

func (l fakeLedger) List(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, int, error) {
	return nil, 0, nil
}

// --- HoldRepository ---

type fakeHolds struct{ s *fakeStore }

func (h fakeHolds) Save(ctx context.Context, hold *entities.WalletHold) error { return nil }

func (h fakeHolds) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.WalletHold, error) {
	return nil, domainErrors.ErrEntityNotFound
}

func (h fakeHolds) List(ctx context.Context, filter ports.HoldFilter, offset, limit int) ([]*entities.WalletHold, int, error) {
	return nil, 0, nil
}

func (h fakeHolds) ActiveSum(ctx context.Context, walletID uuid.UUID, currency string, now time.Time) (decimal.Decimal, error) {
	if h.s.activeSum != nil {
		return h.s.activeSum(walletID, currency), nil
	}
	return decimal.Zero, nil
}

// --- NoteRepository ---

type fakeNotes struct{ s *fakeStore }

func (n fakeNotes) Append(ctx context.Context, note *entities.TransactionNote) error {
	n.s.notes = append(n.s.notes, note)
	return nil
}

func (n fakeNotes) Latest(ctx context.Context, transactionID uuid.UUID) (*entities.TransactionNote, error) {
	return nil, domainErrors.ErrEntityNotFound
}

// --- ProposalRepository ---

type fakeProposals struct{ s *fakeStore }

func (p fakeProposals) Save(ctx context.Context, proposal *entities.Proposal) error {
	p.s.proposals[proposal.UID()] = proposal.TaskStatus()
	p.s.savedProposals = append(p.s.savedProposals, proposal)
	return nil
}

func (p fakeProposals) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Proposal, error) {
	for i := len(p.s.savedProposals) - 1; i >= 0; i-- {
		if sp := p.s.savedProposals[i]; sp.UID() == id && sp.BusinessName() == businessName {
			return sp, nil
		}
	}
	return nil, domainErrors.ErrEntityNotFound
}

func (p fakeProposals) List(ctx context.Context, filter ports.ProposalFilter, offset, limit int) ([]*entities.Proposal, int, error) {
	p.s.lastProposalFilter = filter
	return p.s.savedProposals, len(p.s.savedProposals), nil
}

func (p fakeProposals) ClaimProcessing(ctx context.Context, id uuid.UUID) error {
	if p.s.proposals[id] != entities.TaskStatusInit {
		return domainErrors.ErrAlreadyProcessed
	}
	p.s.proposals[id] = entities.TaskStatusProcessing
	return nil
}

// --- UnitOfWork with rollback ---

type fakeUoW struct{ s *fakeStore }

func (u fakeUoW) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	ledgerMark := len(u.s.ledger)
	notesMark := len(u.s.notes)
	savedMark := len(u.s.savedProposals)
	if err := fn(ctx); err != nil {
		u.s.ledger = u.s.ledger[:ledgerMark]
		u.s.notes = u.s.notes[:notesMark]
		u.s.savedProposals = u.s.savedProposals[:savedMark]
		return err
	}
	return nil
}

// --- EventPublisher ---

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

// --- Wiring ---

type harness struct {
	store     *fakeStore
	processor *Processor
	events    *mockEventPublisher
	business  *entities.Business
}

func newHarness() *harness {
	store := newFakeStore()
	eventPublisher := &mockEventPublisher{}
	view := usecasewallet.NewView(fakeLedger{store}, fakeHolds{store})
	processor := NewProcessor(
		fakeProposals{store},
		store,
		fakeLedger{store},
		fakeNotes{store},
		fakeUoW{store},
		view,
		eventPublisher,
	)
	business := entities.NewBusiness("acme", "acme.example.com", uuid.New(),
		entities.BusinessConfig{DefaultCurrency: "USD"}, nil)
	return &harness{store: store, processor: processor, events: eventPublisher, business: business}
}

func (h *harness) newWallet(walletType entities.WalletType, mainCurrency string) *entities.Wallet {
	w, err := entities.NewWallet("acme", uuid.New(), walletType, mainCurrency, nil)
	if err != nil {
		panic(err)
	}
	h.store.addWallet(w)
	return w
}

// initProposal creates and "persists" an init proposal over the given
// participants.
func (h *harness) initProposal(amount string, participants []entities.Participant, note string) *entities.Proposal {
	p, err := entities.NewProposal(
		"acme", uuid.New(), entities.IssuerBusiness, h.business.UID(),
		decimal.RequireFromString(amount), "USD", "test transfer", note,
		entities.TaskStatusInit, participants, nil,
	)
	if err != nil {
		panic(err)
	}
	h.store.proposals[p.UID()] = p.TaskStatus()
	h.store.savedProposals = append(h.store.savedProposals, p)
	return p
}

// draftProposal creates and "persists" a draft proposal.
func (h *harness) draftProposal(amount string, participants []entities.Participant) *entities.Proposal {
	p, err := entities.NewProposal(
		"acme", uuid.New(), entities.IssuerBusiness, h.business.UID(),
		decimal.RequireFromString(amount), "USD", "test transfer", "",
		entities.TaskStatusDraft, participants, nil,
	)
	if err != nil {
		panic(err)
	}
	h.store.proposals[p.UID()] = p.TaskStatus()
	h.store.savedProposals = append(h.store.savedProposals, p)
	return p
}

func part(w *entities.Wallet, amount string) entities.Participant {
	return entities.Participant{WalletID: w.UID(), Amount: decimal.RequireFromString(amount)}
}

func businessAuthz(business *entities.Business) *auth.Authorization {
	return &auth.Authorization{Issuer: entities.IssuerBusiness, Business: business}
}

func userAuthz(business *entities.Business, userID uuid.UUID) *auth.Authorization {
	return &auth.Authorization{Issuer: entities.IssuerUser, UserID: userID, Business: business}
}
