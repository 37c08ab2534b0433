package entities

import (
	"time"

	"github.com/google/uuid"
)

// TransactionNote is an append-only annotation on a ledger entry.
// A transaction's "note" (singular) is the latest row by created_at;
// updating a note means appending a new row, the log is never rewritten.
type TransactionNote struct {
	Envelope
	Tenancy
	transactionID uuid.UUID
	note          string
}

// NewTransactionNote creates a note for a transaction.
func NewTransactionNote(businessName string, userID uuid.UUID, transactionID uuid.UUID, note string, metadata map[string]any) *TransactionNote {
	return &TransactionNote{
		Envelope:      NewEnvelope(metadata),
		Tenancy:       NewTenancy(businessName, userID),
		transactionID: transactionID,
		note:          note,
	}
}

// ReconstructTransactionNote rebuilds a TransactionNote from stored data.
func ReconstructTransactionNote(
	uid uuid.UUID,
	businessName string,
	userID uuid.UUID,
	transactionID uuid.UUID,
	note string,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	isDeleted bool,
) *TransactionNote {
	return &TransactionNote{
		Envelope:      ReconstructEnvelope(uid, createdAt, updatedAt, isDeleted, metadata),
		Tenancy:       NewTenancy(businessName, userID),
		transactionID: transactionID,
		note:          note,
	}
}

func (n *TransactionNote) TransactionID() uuid.UUID { return n.transactionID }
func (n *TransactionNote) Note() string             { return n.note }
