package dtos

import (
	"time"

	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// ============================================
// Commands (write operations)
// ============================================

// CreateWalletCommand creates a wallet for a user within the tenant.
type CreateWalletCommand struct {
	UserID       string         `json:"user_id" validate:"required,uuid"`
	WalletType   string         `json:"wallet_type" validate:"required,oneof=user business app app_operational app_income"`
	MainCurrency string         `json:"main_currency,omitempty"`
	Metadata     map[string]any `json:"meta_data,omitempty"`
}

// ListWalletsQuery filters wallet listings. End users are always scoped
// to their own wallets regardless of UserID.
type ListWalletsQuery struct {
	UserID     string `json:"user_id,omitempty"`
	WalletType string `json:"wallet_type,omitempty"`
}

// ============================================
// DTOs (read models)
// ============================================

// WalletDTO is the wire representation of a wallet. Balance is derived on
// read; app_income wallets report "inf" for their main currency.
type WalletDTO struct {
	UID          string                           `json:"uid"`
	BusinessName string                           `json:"business_name"`
	UserID       string                           `json:"user_id"`
	WalletType   string                           `json:"wallet_type"`
	MainCurrency string                           `json:"main_currency"`
	Balance      map[string]valueobjects.Balance `json:"balance,omitempty"`
	Metadata     map[string]any                   `json:"meta_data,omitempty"`
	CreatedAt    time.Time                        `json:"created_at"`
	UpdatedAt    time.Time                        `json:"updated_at"`
}

// WalletListDTO is a paginated wallet listing.
type WalletListDTO struct {
	Items  []WalletDTO `json:"items"`
	Total  int         `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}
