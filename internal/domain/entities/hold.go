// Package entities - WalletHold is a time-bounded, status-gated reservation
// that reduces spendable balance without moving funds.
package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// HoldStatus represents the lifecycle status of a hold.
type HoldStatus string

const (
	HoldStatusActive    HoldStatus = "active"
	HoldStatusInactive  HoldStatus = "inactive"
	HoldStatusSuspended HoldStatus = "suspended"
)

// IsValid checks if the hold status is valid.
func (s HoldStatus) IsValid() bool {
	switch s {
	case HoldStatusActive, HoldStatusInactive, HoldStatusSuspended:
		return true
	default:
		return false
	}
}

// WalletHold reserves part of a wallet's balance for one currency.
// A hold counts against spendable balance only while it is active,
// unexpired and not deleted; expiry needs no write, spendable simply
// increases the instant now passes expires_at.
type WalletHold struct {
	Envelope
	Tenancy
	walletID    uuid.UUID
	amount      decimal.Decimal
	currency    string
	expiresAt   time.Time
	status      HoldStatus
	description string
}

// NewWalletHold creates a hold.
//
// Business Rules:
// - amount must be non-negative
// - status must be a known value; empty defaults to active
func NewWalletHold(
	businessName string,
	userID uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	expiresAt time.Time,
	status HoldStatus,
	description string,
	metadata map[string]any,
) (*WalletHold, error) {
	if amount.IsNegative() {
		return nil, errors.ErrNegativeHoldAmount
	}
	if status == "" {
		status = HoldStatusActive
	}
	if !status.IsValid() {
		return nil, errors.ErrInvalidHoldStatus
	}

	return &WalletHold{
		Envelope:    NewEnvelope(metadata),
		Tenancy:     NewTenancy(businessName, userID),
		walletID:    walletID,
		amount:      amount,
		currency:    currency,
		expiresAt:   expiresAt,
		status:      status,
		description: description,
	}, nil
}

// ReconstructWalletHold rebuilds a WalletHold from stored data.
func ReconstructWalletHold(
	uid uuid.UUID,
	businessName string,
	userID uuid.UUID,
	walletID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	expiresAt time.Time,
	status HoldStatus,
	description string,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	isDeleted bool,
) *WalletHold {
	return &WalletHold{
		Envelope:    ReconstructEnvelope(uid, createdAt, updatedAt, isDeleted, metadata),
		Tenancy:     NewTenancy(businessName, userID),
		walletID:    walletID,
		amount:      amount,
		currency:    currency,
		expiresAt:   expiresAt,
		status:      status,
		description: description,
	}
}

func (h *WalletHold) WalletID() uuid.UUID     { return h.walletID }
func (h *WalletHold) Amount() decimal.Decimal { return h.amount }
func (h *WalletHold) Currency() string        { return h.currency }
func (h *WalletHold) ExpiresAt() time.Time    { return h.expiresAt }
func (h *WalletHold) Status() HoldStatus      { return h.status }
func (h *WalletHold) Description() string     { return h.description }

// IsActiveAt reports whether the hold counts against spendable balance
// at the given instant.
func (h *WalletHold) IsActiveAt(now time.Time) bool {
	return !h.IsDeleted() && h.status == HoldStatusActive && h.expiresAt.After(now)
}

// SetExpiresAt moves the expiry.
func (h *WalletHold) SetExpiresAt(expiresAt time.Time) {
	h.expiresAt = expiresAt
	h.touch()
}

// SetStatus transitions the hold status.
func (h *WalletHold) SetStatus(status HoldStatus) error {
	if !status.IsValid() {
		return errors.ErrInvalidHoldStatus
	}
	h.status = status
	h.touch()
	return nil
}

// SetDescription replaces the description.
func (h *WalletHold) SetDescription(description string) {
	h.description = description
	h.touch()
}
