// Package postgres - WalletRepository implementation.
package postgres

import (
	"context"
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
var _ ports.WalletRepository = (*WalletRepository)(nil)

// WalletRepository stores wallet rows. The row carries no balance; the
// ledger is the source of truth.
type WalletRepository struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a WalletRepository.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepository {
	return &WalletRepository{pool: pool}
}

func (r *WalletRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const walletColumns = `uid, business_name, user_id, wallet_type, main_currency,
       meta_data, created_at, updated_at, is_deleted`

// Save persists a wallet, insert or update by uid.
func (r *WalletRepository) Save(ctx context.Context, wallet *entities.Wallet) error {
	q := r.getQuerier(ctx)

	metadata, err := marshalMetadata(wallet.Metadata())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO wallets (
			uid, business_name, user_id, wallet_type, main_currency,
			meta_data, created_at, updated_at, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (uid) DO UPDATE SET
			wallet_type   = EXCLUDED.wallet_type,
			main_currency = EXCLUDED.main_currency,
			meta_data     = EXCLUDED.meta_data,
			updated_at    = EXCLUDED.updated_at,
			is_deleted    = EXCLUDED.is_deleted
	`

	_, err = q.Exec(ctx, query,
		wallet.UID(),
		wallet.BusinessName(),
		wallet.UserID(),
		string(wallet.WalletType()),
		wallet.MainCurrency(),
		metadata,
		wallet.CreatedAt(),
		wallet.UpdatedAt(),
		wallet.IsDeleted(),
	)
	if err != nil {
		return fmt.Errorf("failed to save wallet: %w", err)
	}
	return nil
}

// FindByID loads a non-deleted wallet scoped to a tenant.
func (r *WalletRepository) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Wallet, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + walletColumns + `
		FROM wallets
		WHERE uid = $1 AND business_name = $2 AND is_deleted = FALSE
	`

	return scanWallet(q.QueryRow(ctx, query, id, businessName))
}

// List returns wallets matching the filter plus the total count.
func (r *WalletRepository) List(ctx context.Context, filter ports.WalletFilter, offset, limit int) ([]*entities.Wallet, int, error) {
	q := r.getQuerier(ctx)

	where := " WHERE business_name = $1 AND is_deleted = FALSE"
	args := []any{filter.BusinessName}
	argNum := 2

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *filter.UserID)
		argNum++
	}
	if filter.WalletType != nil {
		where += fmt.Sprintf(" AND wallet_type = $%d", argNum)
		args = append(args, string(*filter.WalletType))
		argNum++
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM wallets"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count wallets: %w", err)
	}

	query := "SELECT " + walletColumns + " FROM wallets" + where +
		fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list wallets: %w", err)
	}
	defer rows.Close()

	var wallets []*entities.Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, 0, err
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating wallet rows: %w", err)
	}
	return wallets, total, nil
}

// LockForCommit takes FOR UPDATE row locks on the given wallets. The
// ORDER BY uid makes concurrent commits acquire locks in the same order,
// which rules out lock-order deadlocks between proposals.
func (r *WalletRepository) LockForCommit(ctx context.Context, walletIDs []uuid.UUID) error {
	if len(walletIDs) == 0 {
		return nil
	}
	q := r.getQuerier(ctx)

	query := `
		SELECT uid FROM wallets
		WHERE uid = ANY($1)
		ORDER BY uid
		FOR UPDATE
	`

	rows, err := q.Query(ctx, query, walletIDs)
	if err != nil {
		return fmt.Errorf("failed to lock wallets: %w", err)
	}
	defer rows.Close()

	locked := 0
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan locked wallet: %w", err)
		}
		locked++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error locking wallets: %w", err)
	}
	if locked != len(walletIDs) {
		return domainErrors.ErrEntityNotFound
	}
	return nil
}

// scanWallet hydrates a Wallet from a row with walletColumns.
func scanWallet(row pgx.Row) (*entities.Wallet, error) {
	var (
		uid, userID          uuid.UUID
		businessName         string
		walletType, currency string
		rawMetadata          []byte
		createdAt, updatedAt time.Time
		isDeleted            bool
	)

	err := row.Scan(&uid, &businessName, &userID, &walletType, &currency,
		&rawMetadata, &createdAt, &updatedAt, &isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan wallet: %w", err)
	}

	metadata, err := unmarshalMetadata(rawMetadata)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructWallet(
		uid, businessName, userID,
		entities.WalletType(walletType), currency,
		metadata, createdAt, updatedAt, isDeleted,
	), nil
}
