// Package events defines domain events that represent significant business
// occurrences. Events are immutable facts about what happened in the past.
//
// Pattern: Domain Events (Observer Pattern foundation)
// - Events are raised after state changes commit
// - Handlers can react asynchronously
// - Enables loose coupling between domain modules
package events

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID // ID of the entity that raised this event
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	eventID     uuid.UUID
	eventType   string
	occurredAt  time.Time
	aggregateID uuid.UUID
}

func newBaseEvent(eventType string, aggregateID uuid.UUID) BaseEvent {
	return BaseEvent{
		eventID:     uuid.New(),
		eventType:   eventType,
		occurredAt:  time.Now(),
		aggregateID: aggregateID,
	}
}

func (e BaseEvent) EventID() uuid.UUID     { return e.eventID }
func (e BaseEvent) EventType() string      { return e.eventType }
func (e BaseEvent) OccurredAt() time.Time  { return e.occurredAt }
func (e BaseEvent) AggregateID() uuid.UUID { return e.aggregateID }

// Event Types (constants for type checking)
const (
	EventTypeWalletCreated        = "wallet.created"
	EventTypeWalletDeleted        = "wallet.deleted"
	EventTypeHoldCreated          = "hold.created"
	EventTypeHoldUpdated          = "hold.updated"
	EventTypeProposalCreated      = "proposal.created"
	EventTypeProposalCompleted    = "proposal.completed"
	EventTypeProposalFailed       = "proposal.failed"
	EventTypeTransactionNoteAdded = "transaction.note_added"
)

// ===== Wallet Events =====

// WalletCreated is raised when a new wallet is created.
type WalletCreated struct {
	BaseEvent
	BusinessName string
	UserID       uuid.UUID
	WalletType   string
	MainCurrency string
}

func NewWalletCreated(walletID uuid.UUID, businessName string, userID uuid.UUID, walletType, mainCurrency string) *WalletCreated {
	return &WalletCreated{
		BaseEvent:    newBaseEvent(EventTypeWalletCreated, walletID),
		BusinessName: businessName,
		UserID:       userID,
		WalletType:   walletType,
		MainCurrency: mainCurrency,
	}
}

// WalletDeleted is raised when a wallet is soft-deleted.
type WalletDeleted struct {
	BaseEvent
	BusinessName string
}

func NewWalletDeleted(walletID uuid.UUID, businessName string) *WalletDeleted {
	return &WalletDeleted{
		BaseEvent:    newBaseEvent(EventTypeWalletDeleted, walletID),
		BusinessName: businessName,
	}
}

// ===== Hold Events =====

// HoldCreated is raised when a hold is placed on a wallet.
type HoldCreated struct {
	BaseEvent
	WalletID uuid.UUID
	Currency string
	Amount   string // Decimal string; events cross process boundaries
}

func NewHoldCreated(holdID, walletID uuid.UUID, currency, amount string) *HoldCreated {
	return &HoldCreated{
		BaseEvent: newBaseEvent(EventTypeHoldCreated, holdID),
		WalletID:  walletID,
		Currency:  currency,
		Amount:    amount,
	}
}

// HoldUpdated is raised when a hold is patched (status, expiry, description).
type HoldUpdated struct {
	BaseEvent
	WalletID uuid.UUID
	Status   string
}

func NewHoldUpdated(holdID, walletID uuid.UUID, status string) *HoldUpdated {
	return &HoldUpdated{
		BaseEvent: newBaseEvent(EventTypeHoldUpdated, holdID),
		WalletID:  walletID,
		Status:    status,
	}
}

// ===== Proposal Events =====

// ProposalCreated is raised when a proposal is first persisted.
type ProposalCreated struct {
	BaseEvent
	BusinessName string
	TaskStatus   string
}

func NewProposalCreated(proposalID uuid.UUID, businessName, taskStatus string) *ProposalCreated {
	return &ProposalCreated{
		BaseEvent:    newBaseEvent(EventTypeProposalCreated, proposalID),
		BusinessName: businessName,
		TaskStatus:   taskStatus,
	}
}

// ProposalCompleted is raised after a proposal commit succeeds. The ledger
// rows are already durable when this event is published.
type ProposalCompleted struct {
	BaseEvent
	BusinessName     string
	Currency         string
	Amount           string
	TransactionCount int
}

func NewProposalCompleted(proposalID uuid.UUID, businessName, currency, amount string, transactionCount int) *ProposalCompleted {
	return &ProposalCompleted{
		BaseEvent:        newBaseEvent(EventTypeProposalCompleted, proposalID),
		BusinessName:     businessName,
		Currency:         currency,
		Amount:           amount,
		TransactionCount: transactionCount,
	}
}

// ProposalFailed is raised when processing terminates in error.
type ProposalFailed struct {
	BaseEvent
	BusinessName string
	Reason       string
}

func NewProposalFailed(proposalID uuid.UUID, businessName, reason string) *ProposalFailed {
	return &ProposalFailed{
		BaseEvent:    newBaseEvent(EventTypeProposalFailed, proposalID),
		BusinessName: businessName,
		Reason:       reason,
	}
}

// ===== Note Events =====

// TransactionNoteAdded is raised when a note is appended to a transaction.
type TransactionNoteAdded struct {
	BaseEvent
	TransactionID uuid.UUID
}

func NewTransactionNoteAdded(noteID, transactionID uuid.UUID) *TransactionNoteAdded {
	return &TransactionNoteAdded{
		BaseEvent:     newBaseEvent(EventTypeTransactionNoteAdded, noteID),
		TransactionID: transactionID,
	}
}
