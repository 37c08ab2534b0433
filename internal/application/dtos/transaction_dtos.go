package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// AddTransactionNoteCommand appends a note to a transaction. The note log
// is append-only; the latest row is surfaced as "the" note.
type AddTransactionNoteCommand struct {
	Note string `json:"note" validate:"required"`
}

// ListTransactionsQuery filters ledger listings. From and To are
// inclusive; an unset To defaults to now.
type ListTransactionsQuery struct {
	WalletID string     `json:"wallet_id,omitempty"`
	Currency string     `json:"currency,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
}

// ============================================
// DTOs (read models)
// ============================================

// TransactionDTO is the wire representation of a ledger entry. Balance is
// the running balance after this entry for (wallet, currency).
type TransactionDTO struct {
	UID          string         `json:"uid"`
	BusinessName string         `json:"business_name"`
	UserID       string         `json:"user_id"`
	ProposalID   string         `json:"proposal_id"`
	WalletID     string         `json:"wallet_id"`
	Amount       string         `json:"amount"`
	Currency     string         `json:"currency"`
	Balance      string         `json:"balance"`
	Description  string         `json:"description,omitempty"`
	Note         string         `json:"note,omitempty"` // Latest note, when loaded
	Metadata     map[string]any `json:"meta_data,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TransactionListDTO is a paginated ledger listing.
type TransactionListDTO struct {
	Items  []TransactionDTO `json:"items"`
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
}
