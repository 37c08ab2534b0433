// Package postgres - HoldRepository implementation.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainErrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// Compile-time check
var _ ports.HoldRepository = (*HoldRepository)(nil)

// HoldRepository stores wallet holds. Expiry is purely temporal: no
// background job flips expired holds, ActiveSum simply stops counting
// them once expires_at has passed.
type HoldRepository struct {
	pool *pgxpool.Pool
}

// NewHoldRepository creates a HoldRepository.
func NewHoldRepository(pool *pgxpool.Pool) *HoldRepository {
	return &HoldRepository{pool: pool}
}

func (r *HoldRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const holdColumns = `uid, business_name, user_id, wallet_id, amount::text,
       currency, expires_at, status, description,
       meta_data, created_at, updated_at, is_deleted`

// Save persists a hold, insert or update by uid.
func (r *HoldRepository) Save(ctx context.Context, hold *entities.WalletHold) error {
	q := r.getQuerier(ctx)

	metadata, err := marshalMetadata(hold.Metadata())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO wallet_holds (
			uid, business_name, user_id, wallet_id, amount,
			currency, expires_at, status, description,
			meta_data, created_at, updated_at, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (uid) DO UPDATE SET
			expires_at  = EXCLUDED.expires_at,
			status      = EXCLUDED.status,
			description = EXCLUDED.description,
			meta_data   = EXCLUDED.meta_data,
			updated_at  = EXCLUDED.updated_at,
			is_deleted  = EXCLUDED.is_deleted
	`

	_, err = q.Exec(ctx, query,
		hold.UID(),
		hold.BusinessName(),
		hold.UserID(),
		hold.WalletID(),
		hold.Amount().String(),
		hold.Currency(),
		hold.ExpiresAt(),
		string(hold.Status()),
		hold.Description(),
		metadata,
		hold.CreatedAt(),
		hold.UpdatedAt(),
		hold.IsDeleted(),
	)
	if err != nil {
		return fmt.Errorf("failed to save hold: %w", err)
	}
	return nil
}

// FindByID loads a non-deleted hold scoped to a tenant.
func (r *HoldRepository) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.WalletHold, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + holdColumns + `
		FROM wallet_holds
		WHERE uid = $1 AND business_name = $2 AND is_deleted = FALSE
	`

	return scanHold(q.QueryRow(ctx, query, id, businessName))
}

// List returns holds matching the filter plus the total count.
//
// Window semantics: with no From/To the listing answers "what is live
// now" and constrains expires_at > Now; with a window set the listing is
// historical over created_at and the expiry constraint is dropped.
func (r *HoldRepository) List(ctx context.Context, filter ports.HoldFilter, offset, limit int) ([]*entities.WalletHold, int, error) {
	q := r.getQuerier(ctx)

	where := " WHERE business_name = $1 AND is_deleted = FALSE"
	args := []any{filter.BusinessName}
	argNum := 2

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *filter.UserID)
		argNum++
	}
	if filter.WalletID != nil {
		where += fmt.Sprintf(" AND wallet_id = $%d", argNum)
		args = append(args, *filter.WalletID)
		argNum++
	}
	if filter.Currency != nil {
		where += fmt.Sprintf(" AND currency = $%d", argNum)
		args = append(args, *filter.Currency)
		argNum++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(*filter.Status))
		argNum++
	}
	if filter.From == nil && filter.To == nil {
		where += fmt.Sprintf(" AND expires_at > $%d", argNum)
		args = append(args, filter.Now)
		argNum++
	} else {
		if filter.From != nil {
			where += fmt.Sprintf(" AND created_at >= $%d", argNum)
			args = append(args, *filter.From)
			argNum++
		}
		if filter.To != nil {
			where += fmt.Sprintf(" AND created_at <= $%d", argNum)
			args = append(args, *filter.To)
			argNum++
		}
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM wallet_holds"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count holds: %w", err)
	}

	query := "SELECT " + holdColumns + " FROM wallet_holds" + where +
		fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list holds: %w", err)
	}
	defer rows.Close()

	var holds []*entities.WalletHold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, 0, err
		}
		holds = append(holds, h)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating hold rows: %w", err)
	}
	return holds, total, nil
}

// ActiveSum returns the total held on (wallet, currency): non-deleted
// active holds that have not expired at the given instant.
func (r *HoldRepository) ActiveSum(ctx context.Context, walletID uuid.UUID, currency string, now time.Time) (decimal.Decimal, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT COALESCE(SUM(amount), 0)::text
		FROM wallet_holds
		WHERE wallet_id = $1
		  AND currency = $2
		  AND status = 'active'
		  AND is_deleted = FALSE
		  AND expires_at > $3
	`

	var raw string
	if err := q.QueryRow(ctx, query, walletID, currency, now).Scan(&raw); err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to sum holds: %w", err)
	}
	return parseNumeric(raw)
}

// scanHold hydrates a WalletHold from a row with holdColumns.
func scanHold(row pgx.Row) (*entities.WalletHold, error) {
	var (
		uid, userID, walletID uuid.UUID
		businessName          string
		rawAmount             string
		currency, status      string
		description           string
		expiresAt             time.Time
		rawMetadata           []byte
		createdAt, updatedAt  time.Time
		isDeleted             bool
	)

	err := row.Scan(&uid, &businessName, &userID, &walletID, &rawAmount,
		&currency, &expiresAt, &status, &description,
		&rawMetadata, &createdAt, &updatedAt, &isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan hold: %w", err)
	}

	amount, err := parseNumeric(rawAmount)
	if err != nil {
		return nil, err
	}
	metadata, err := unmarshalMetadata(rawMetadata)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructWalletHold(
		uid, businessName, userID, walletID,
		amount, currency, expiresAt,
		entities.HoldStatus(status), description,
		metadata, createdAt, updatedAt, isDeleted,
	), nil
}
