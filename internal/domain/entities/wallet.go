// Package entities - Wallet is a per-(business, user) container of currency
// balances. Balance is always derived from the ledger, never stored on the
// wallet row.
package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// WalletType represents the kind of wallet.
type WalletType string

const (
	WalletTypeUser           WalletType = "user"            // Default per-user wallet
	WalletTypeBusiness       WalletType = "business"        // Business-owned wallet
	WalletTypeApp            WalletType = "app"             // Application wallet
	WalletTypeAppOperational WalletType = "app_operational" // Application operational wallet
	WalletTypeAppIncome      WalletType = "app_income"      // Infinite source for its main currency
)

// IsValid checks if the wallet type is valid.
func (t WalletType) IsValid() bool {
	switch t {
	case WalletTypeUser, WalletTypeBusiness, WalletTypeApp, WalletTypeAppOperational, WalletTypeAppIncome:
		return true
	default:
		return false
	}
}

// Wallet represents an account scoped to a business tenant and a user.
//
// Entity Pattern:
// - Has identity (uid) unique within the tenant
// - Balance is derived from the transaction log, the row stores none
// - app_income wallets are an infinite source for their main currency
//   and are excluded from currency enumeration
type Wallet struct {
	Envelope
	Tenancy
	walletType   WalletType
	mainCurrency string
}

// NewWallet creates a new wallet.
//
// Business Rules:
// - Wallet type must be one of the known kinds
// - app_income wallets must name a real main currency (the infinite
//   source needs a denomination)
func NewWallet(businessName string, userID uuid.UUID, walletType WalletType, mainCurrency string, metadata map[string]any) (*Wallet, error) {
	if !walletType.IsValid() {
		return nil, errors.ErrInvalidWalletType
	}

	mainCurrency = valueobjects.NormalizeCurrency(mainCurrency)
	if walletType == WalletTypeAppIncome && valueobjects.IsCurrencyNone(mainCurrency) {
		return nil, errors.ErrMainCurrencyRequired
	}

	return &Wallet{
		Envelope:     NewEnvelope(metadata),
		Tenancy:      NewTenancy(businessName, userID),
		walletType:   walletType,
		mainCurrency: mainCurrency,
	}, nil
}

// ReconstructWallet rebuilds a Wallet from stored data.
func ReconstructWallet(
	uid uuid.UUID,
	businessName string,
	userID uuid.UUID,
	walletType WalletType,
	mainCurrency string,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	isDeleted bool,
) *Wallet {
	return &Wallet{
		Envelope:     ReconstructEnvelope(uid, createdAt, updatedAt, isDeleted, metadata),
		Tenancy:      NewTenancy(businessName, userID),
		walletType:   walletType,
		mainCurrency: mainCurrency,
	}
}

func (w *Wallet) WalletType() WalletType { return w.walletType }
func (w *Wallet) MainCurrency() string   { return w.mainCurrency }

// IsIncome reports whether the wallet is an infinite source.
func (w *Wallet) IsIncome() bool {
	return w.walletType == WalletTypeAppIncome
}

// HasMainCurrency reports whether a real main currency is configured.
func (w *Wallet) HasMainCurrency() bool {
	return !valueobjects.IsCurrencyNone(w.mainCurrency)
}
