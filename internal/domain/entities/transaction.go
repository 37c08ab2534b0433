// Package entities - Transaction is an immutable ledger entry stamped with
// the running balance of its wallet and currency.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// Transaction represents one participant's movement within one committed
// proposal. Once written it never changes; the storage layer rejects
// updates, not just this package.
type Transaction struct {
	Envelope
	Tenancy
	proposalID  uuid.UUID
	walletID    uuid.UUID
	amount      decimal.Decimal
	currency    string
	balance     decimal.Decimal // Running balance after this entry
	description string
}

// NewTransaction creates a ledger entry.
//
// Invariants:
// - amount may be negative (source) or positive (recipient) but never zero
//   for standalone entries; zero-amount participant rows are created through
//   NewParticipantTransaction which preserves the audit trail
// - balance must equal the previous balance for (wallet, currency) plus amount;
//   the proposal processor is the only writer and maintains that chain
func NewTransaction(
	businessName string,
	userID uuid.UUID,
	proposalID uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	balance decimal.Decimal,
	description string,
	metadata map[string]any,
) (*Transaction, error) {
	if amount.IsZero() {
		return nil, errors.ErrZeroAmount
	}
	return newTransaction(businessName, userID, proposalID, walletID, amount, currency, balance, description, metadata), nil
}

// NewParticipantTransaction creates a ledger entry for a proposal
// participant. Zero amounts are allowed here: a zero-amount row records
// that the wallet was involved without moving funds.
func NewParticipantTransaction(
	businessName string,
	userID uuid.UUID,
	proposalID uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	balance decimal.Decimal,
	description string,
	metadata map[string]any,
) *Transaction {
	return newTransaction(businessName, userID, proposalID, walletID, amount, currency, balance, description, metadata)
}

func newTransaction(
	businessName string,
	userID uuid.UUID,
	proposalID uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	balance decimal.Decimal,
	description string,
	metadata map[string]any,
) *Transaction {
	return &Transaction{
		Envelope:    NewEnvelope(metadata),
		Tenancy:     NewTenancy(businessName, userID),
		proposalID:  proposalID,
		walletID:    walletID,
		amount:      amount,
		currency:    currency,
		balance:     balance,
		description: description,
	}
}

// ReconstructTransaction rebuilds a Transaction from stored data.
func ReconstructTransaction(
	uid uuid.UUID,
	businessName string,
	userID uuid.UUID,
	proposalID uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	balance decimal.Decimal,
	description string,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	isDeleted bool,
) *Transaction {
	return &Transaction{
		Envelope:    ReconstructEnvelope(uid, createdAt, updatedAt, isDeleted, metadata),
		Tenancy:     NewTenancy(businessName, userID),
		proposalID:  proposalID,
		walletID:    walletID,
		amount:      amount,
		currency:    currency,
		balance:     balance,
		description: description,
	}
}

func (t *Transaction) ProposalID() uuid.UUID    { return t.proposalID }
func (t *Transaction) WalletID() uuid.UUID      { return t.walletID }
func (t *Transaction) Amount() decimal.Decimal  { return t.amount }
func (t *Transaction) Currency() string         { return t.currency }
func (t *Transaction) Balance() decimal.Decimal { return t.balance }
func (t *Transaction) Description() string      { return t.description }
