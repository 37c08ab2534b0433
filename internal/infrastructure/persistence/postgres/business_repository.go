// Package postgres - BusinessRepository implementation (tenant directory).
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// Compile-time check
var _ ports.BusinessRepository = (*BusinessRepository)(nil)

// BusinessRepository stores tenants. The name column is the tenant key
// and is unique.
type BusinessRepository struct {
	pool *pgxpool.Pool
}

// NewBusinessRepository creates a BusinessRepository.
func NewBusinessRepository(pool *pgxpool.Pool) *BusinessRepository {
	return &BusinessRepository{pool: pool}
}

func (r *BusinessRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const businessColumns = `uid, name, domain, owner_id, config,
       meta_data, created_at, updated_at, is_deleted`

// Save persists a business, insert or update by uid.
func (r *BusinessRepository) Save(ctx context.Context, business *entities.Business) error {
	q := r.getQuerier(ctx)

	config, err := json.Marshal(business.Config())
	if err != nil {
		return fmt.Errorf("failed to marshal business config: %w", err)
	}
	metadata, err := marshalMetadata(business.Metadata())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO businesses (
			uid, name, domain, owner_id, config,
			meta_data, created_at, updated_at, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (uid) DO UPDATE SET
			domain     = EXCLUDED.domain,
			owner_id   = EXCLUDED.owner_id,
			config     = EXCLUDED.config,
			meta_data  = EXCLUDED.meta_data,
			updated_at = EXCLUDED.updated_at,
			is_deleted = EXCLUDED.is_deleted
	`

	_, err = q.Exec(ctx, query,
		business.UID(),
		business.Name(),
		business.Domain(),
		business.OwnerID(),
		config,
		metadata,
		business.CreatedAt(),
		business.UpdatedAt(),
		business.IsDeleted(),
	)
	if err != nil {
		if isUniqueViolation(err, "businesses_name_key") {
			return domainErrors.NewConflictError("Business", business.Name(),
				"business name already taken", err)
		}
		return fmt.Errorf("failed to save business: %w", err)
	}
	return nil
}

// FindByName loads a tenant by its name key.
func (r *BusinessRepository) FindByName(ctx context.Context, name string) (*entities.Business, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE name = $1 AND is_deleted = FALSE
	`

	return scanBusiness(q.QueryRow(ctx, query, name))
}

// FindByDomain loads a tenant by its serving domain.
func (r *BusinessRepository) FindByDomain(ctx context.Context, domain string) (*entities.Business, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + businessColumns + `
		FROM businesses
		WHERE domain = $1 AND is_deleted = FALSE
	`

	return scanBusiness(q.QueryRow(ctx, query, domain))
}

// scanBusiness hydrates a Business from a row with businessColumns.
func scanBusiness(row pgx.Row) (*entities.Business, error) {
	var (
		uid, ownerID         uuid.UUID
		name, domain         string
		rawConfig            []byte
		rawMetadata          []byte
		createdAt, updatedAt time.Time
		isDeleted            bool
	)

	err := row.Scan(&uid, &name, &domain, &ownerID, &rawConfig,
		&rawMetadata, &createdAt, &updatedAt, &isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan business: %w", err)
	}

	var config entities.BusinessConfig
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal business config: %w", err)
		}
	}
	metadata, err := unmarshalMetadata(rawMetadata)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructBusiness(
		uid, name, domain, ownerID, config,
		metadata, createdAt, updatedAt, isDeleted,
	), nil
}
