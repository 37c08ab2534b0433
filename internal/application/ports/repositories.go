// Package ports defines the interfaces the application layer consumes.
// Infrastructure provides the implementations.
//
// Pattern: Repository Pattern + Ports & Adapters (Hexagonal Architecture)
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/domain/entities"
)

// WalletRepository stores wallet rows. Balance never lives here; it is
// derived from the ledger.
type WalletRepository interface {
	// Save persists a wallet (insert or update by uid).
	Save(ctx context.Context, wallet *entities.Wallet) error

	// FindByID loads a non-deleted wallet scoped to a tenant.
	// Returns ErrEntityNotFound when absent or soft-deleted.
	FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error)

	// List returns wallets matching the filter plus the total count.
	List(ctx context.Context, filter WalletFilter, offset, limit int) ([]*entities.Wallet, int, error)

	// LockForCommit takes row locks on the given wallets in ascending uid
	// order. Must be called inside a unit of work; the locks serialize
	// concurrent proposal commits touching the same source wallets.
	LockForCommit(ctx context.Context, walletIDs []uuid.UUID) error
}

// WalletFilter narrows wallet listings. Nil pointer fields are ignored.
type WalletFilter struct {
	BusinessName string
	UserID       *uuid.UUID
	WalletType   *entities.WalletType
}

// LedgerRepository is the append-only transaction store. There is no
// update and no delete: rows are immutable at the storage boundary.
type LedgerRepository interface {
	// Append inserts a ledger row. A row with the same uid already present
	// yields ErrTransactionImmutable.
	Append(ctx context.Context, tx *entities.Transaction) error

	// LatestBalance returns the balance of the most recent row for the
	// (wallet, currency) pair, ordered by created_at then uid, or zero
	// when the pair has no rows yet.
	LatestBalance(ctx context.Context, walletID uuid.UUID, currency string) (decimal.Decimal, error)

	// DistinctCurrencies returns the set of currencies the wallet has
	// ledger rows in.
	DistinctCurrencies(ctx context.Context, walletID uuid.UUID) ([]string, error)

	// FindByID loads a single transaction scoped to a tenant.
	FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Transaction, error)

	// FindByProposalID returns every row a proposal produced.
	FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entities.Transaction, error)

	// List returns rows matching the filter, created_at descending, plus
	// the total count.
	List(ctx context.Context, filter TransactionFilter, offset, limit int) ([]*entities.Transaction, int, error)
}

// TransactionFilter narrows ledger listings. From and To are inclusive;
// an unset To defaults to "now" at query entry.
type TransactionFilter struct {
	BusinessName string
	UserID       *uuid.UUID
	WalletID     *uuid.UUID
	Currency     *string
	From         *time.Time
	To           *time.Time
}

// HoldRepository stores wallet holds.
type HoldRepository interface {
	// Save persists a hold (insert or update by uid).
	Save(ctx context.Context, hold *entities.WalletHold) error

	// FindByID loads a non-deleted hold scoped to a tenant.
	FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.WalletHold, error)

	// List returns holds matching the filter plus the total count.
	List(ctx context.Context, filter HoldFilter, offset, limit int) ([]*entities.WalletHold, int, error)

	// ActiveSum returns the total amount held on a wallet for a currency:
	// non-deleted rows with status=active and expires_at > now.
	ActiveSum(ctx context.Context, walletID uuid.UUID, currency string, now time.Time) (decimal.Decimal, error)
}

// HoldFilter narrows hold listings.
//
// Window semantics: when From and To are both unset the query asks "what
// is live now" and additionally constrains expires_at > Now. When either
// is set the window applies to created_at and the expiry constraint is
// dropped.
type HoldFilter struct {
	BusinessName string
	UserID       *uuid.UUID
	WalletID     *uuid.UUID
	Currency     *string
	Status       *entities.HoldStatus
	From         *time.Time
	To           *time.Time
	Now          time.Time
}

// ProposalRepository stores proposals and owns the status CAS that makes
// processing single-entry.
type ProposalRepository interface {
	// Save persists a proposal (insert or update by uid).
	Save(ctx context.Context, proposal *entities.Proposal) error

	// FindByID loads a non-deleted proposal scoped to a tenant.
	FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Proposal, error)

	// List returns proposals matching the filter plus the total count.
	List(ctx context.Context, filter ProposalFilter, offset, limit int) ([]*entities.Proposal, int, error)

	// ClaimProcessing performs the conditional update
	// task_status: init -> processing and succeeds only when exactly one
	// row was affected. Concurrent claimers get ErrAlreadyProcessed.
	// This is the serialization point: at most one commit phase per
	// proposal ever runs.
	ClaimProcessing(ctx context.Context, id uuid.UUID) error
}

// ProposalFilter narrows proposal listings.
type ProposalFilter struct {
	BusinessName string
	UserID       *uuid.UUID
	TaskStatus   *entities.TaskStatus
}

// NoteRepository is the append-only note log.
type NoteRepository interface {
	// Append inserts a note row.
	Append(ctx context.Context, note *entities.TransactionNote) error

	// Latest returns the most recent note for a transaction, or
	// ErrEntityNotFound when it has none.
	Latest(ctx context.Context, transactionID uuid.UUID) (*entities.TransactionNote, error)
}

// BusinessRepository is the tenant directory.
type BusinessRepository interface {
	// Save persists a business (insert or update by uid).
	Save(ctx context.Context, business *entities.Business) error

	// FindByName loads a tenant by its name key.
	FindByName(ctx context.Context, name string) (*entities.Business, error)

	// FindByDomain loads a tenant by its serving domain.
	FindByDomain(ctx context.Context, domain string) (*entities.Business, error)
}

// BusinessCache is a small read-through cache in front of the tenant
// directory. A miss returns (nil, nil); errors are advisory, callers fall
// back to the repository.
type BusinessCache interface {
	Get(ctx context.Context, name string) (*entities.Business, error)
	Set(ctx context.Context, business *entities.Business) error
	Invalidate(ctx context.Context, name string) error
}
