package entities

import (
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// BusinessConfig carries tenant-level accounting settings.
type BusinessConfig struct {
	// DefaultCurrency denominates default user wallets created on first list.
	DefaultCurrency string `json:"default_currency"`
}

// Business is a tenant. Wallets, holds, transactions and proposals are all
// scoped to exactly one business by name; the name is the tenant key.
type Business struct {
	Envelope
	name    string
	domain  string
	ownerID uuid.UUID
	config  BusinessConfig
}

// NewBusiness creates a tenant.
func NewBusiness(name, domain string, ownerID uuid.UUID, config BusinessConfig, metadata map[string]any) *Business {
	if valueobjects.IsCurrencyNone(config.DefaultCurrency) {
		config.DefaultCurrency = valueobjects.CurrencyNone
	} else {
		config.DefaultCurrency = valueobjects.NormalizeCurrency(config.DefaultCurrency)
	}
	return &Business{
		Envelope: NewEnvelope(metadata),
		name:     name,
		domain:   domain,
		ownerID:  ownerID,
		config:   config,
	}
}

// ReconstructBusiness rebuilds a Business from stored data.
func ReconstructBusiness(
	uid uuid.UUID,
	name, domain string,
	ownerID uuid.UUID,
	config BusinessConfig,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	isDeleted bool,
) *Business {
	return &Business{
		Envelope: ReconstructEnvelope(uid, createdAt, updatedAt, isDeleted, metadata),
		name:     name,
		domain:   domain,
		ownerID:  ownerID,
		config:   config,
	}
}

func (b *Business) Name() string           { return b.name }
func (b *Business) Domain() string         { return b.domain }
func (b *Business) OwnerID() uuid.UUID     { return b.ownerID }
func (b *Business) Config() BusinessConfig { return b.config }
