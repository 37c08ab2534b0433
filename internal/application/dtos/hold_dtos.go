package dtos

import "time"

// ============================================
// Commands (write operations)
// ============================================

// CreateHoldCommand places a hold on a wallet for one currency.
type CreateHoldCommand struct {
	WalletID    string         `json:"wallet_id" validate:"required,uuid"`
	Currency    string         `json:"currency" validate:"required"`
	Amount      string         `json:"amount" validate:"required,decimal"` // Decimal string: "80.00"
	ExpiresAt   time.Time      `json:"expires_at" validate:"required"`
	Status      string         `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	UserID      string         `json:"user_id,omitempty" validate:"omitempty,uuid"`
	Description string         `json:"description,omitempty"`
	Metadata    map[string]any `json:"meta_data,omitempty"`
}

// UpdateHoldCommand patches a hold. Only expiry, status, description and
// metadata are patchable; amount and currency are frozen at creation.
type UpdateHoldCommand struct {
	ExpiresAt   *time.Time     `json:"expires_at,omitempty"`
	Status      *string        `json:"status,omitempty" validate:"omitempty,oneof=active inactive suspended"`
	Description *string        `json:"description,omitempty"`
	Metadata    map[string]any `json:"meta_data,omitempty"`
}

// ListHoldsQuery filters hold listings. With no window set the listing
// returns what is live now; with a window it returns what was created
// inside it.
type ListHoldsQuery struct {
	WalletID string     `json:"wallet_id,omitempty"`
	Currency string     `json:"currency,omitempty"`
	Status   string     `json:"status,omitempty"`
	From     *time.Time `json:"from,omitempty"`
	To       *time.Time `json:"to,omitempty"`
}

// ============================================
// DTOs (read models)
// ============================================

// HoldDTO is the wire representation of a wallet hold.
type HoldDTO struct {
	UID          string         `json:"uid"`
	BusinessName string         `json:"business_name"`
	UserID       string         `json:"user_id"`
	WalletID     string         `json:"wallet_id"`
	Currency     string         `json:"currency"`
	Amount       string         `json:"amount"`
	ExpiresAt    time.Time      `json:"expires_at"`
	Status       string         `json:"status"`
	Description  string         `json:"description,omitempty"`
	Metadata     map[string]any `json:"meta_data,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// HoldListDTO is a paginated hold listing.
type HoldListDTO struct {
	Items  []HoldDTO `json:"items"`
	Total  int       `json:"total"`
	Offset int       `json:"offset"`
	Limit  int       `json:"limit"`
}
