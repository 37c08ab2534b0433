// Package postgres - LedgerRepository implementation.
//
// The transactions table is append-only: there is no UPDATE or DELETE
// statement in this file, and the schema backs that up with a trigger
// that rejects both.
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
var _ ports.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository is the append-only transaction store.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

func (r *LedgerRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const transactionColumns = `uid, business_name, user_id, proposal_id, wallet_id,
       amount::text, currency, balance::text, description,
       meta_data, created_at, updated_at, is_deleted`

// Append inserts a ledger row. Re-inserting an existing uid yields
// ErrTransactionImmutable.
func (r *LedgerRepository) Append(ctx context.Context, tx *entities.Transaction) error {
	q := r.getQuerier(ctx)

	metadata, err := marshalMetadata(tx.Metadata())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transactions (
			uid, business_name, user_id, proposal_id, wallet_id,
			amount, currency, balance, description,
			meta_data, created_at, updated_at, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err = q.Exec(ctx, query,
		tx.UID(),
		tx.BusinessName(),
		tx.UserID(),
		tx.ProposalID(),
		tx.WalletID(),
		tx.Amount().String(),
		tx.Currency(),
		tx.Balance().String(),
		tx.Description(),
		metadata,
		tx.CreatedAt(),
		tx.UpdatedAt(),
		tx.IsDeleted(),
	)
	if err != nil {
		// Duplicate uid or the immutability trigger both mean somebody
		// tried to rewrite history.
		if isUniqueViolation(err, "") || isPgError(err, pgRaiseException) {
			return domainErrors.ErrTransactionImmutable
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

// LatestBalance returns the stamped balance of the newest row for the
// (wallet, currency) pair, or zero when the pair has no rows.
func (r *LedgerRepository) LatestBalance(ctx context.Context, walletID uuid.UUID, currency string) (decimal.Decimal, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT balance::text
		FROM transactions
		WHERE wallet_id = $1 AND currency = $2
		ORDER BY created_at DESC, uid DESC
		LIMIT 1
	`

	var raw string
	err := q.QueryRow(ctx, query, walletID, currency).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, fmt.Errorf("failed to query latest balance: %w", err)
	}
	return parseNumeric(raw)
}

// DistinctCurrencies returns the currencies the wallet has rows in.
func (r *LedgerRepository) DistinctCurrencies(ctx context.Context, walletID uuid.UUID) ([]string, error) {
	q := r.getQuerier(ctx)

	rows, err := q.Query(ctx,
		`SELECT DISTINCT currency FROM transactions WHERE wallet_id = $1`, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}

// FindByID loads a transaction scoped to a tenant.
func (r *LedgerRepository) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Transaction, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE uid = $1 AND business_name = $2
	`

	return scanTransaction(q.QueryRow(ctx, query, id, businessName))
}

// FindByProposalID returns every row a proposal produced, in insertion
// order.
func (r *LedgerRepository) FindByProposalID(ctx context.Context, proposalID uuid.UUID) ([]*entities.Transaction, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE proposal_id = $1
		ORDER BY created_at ASC, uid ASC
	`

	rows, err := q.Query(ctx, query, proposalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query proposal transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// List returns rows matching the filter, newest first, plus the total
// count. From/To are inclusive bounds on created_at.
func (r *LedgerRepository) List(ctx context.Context, filter ports.TransactionFilter, offset, limit int) ([]*entities.Transaction, int, error) {
	q := r.getQuerier(ctx)

	where := " WHERE business_name = $1"
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

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := "SELECT " + transactionColumns + " FROM transactions" + where +
		fmt.Sprintf(" ORDER BY created_at DESC, uid DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs, err := scanTransactions(rows)
	if err != nil {
		return nil, 0, err
	}
	return txs, total, nil
}

// scanTransaction hydrates a Transaction from a row with
// transactionColumns.
func scanTransaction(row pgx.Row) (*entities.Transaction, error) {
	var (
		uid, userID           uuid.UUID
		proposalID, walletID  uuid.UUID
		businessName          string
		rawAmount, rawBalance string
		currency, description string
		rawMetadata           []byte
		createdAt, updatedAt  time.Time
		isDeleted             bool
	)

	err := row.Scan(&uid, &businessName, &userID, &proposalID, &walletID,
		&rawAmount, &currency, &rawBalance, &description,
		&rawMetadata, &createdAt, &updatedAt, &isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction: %w", err)
	}

	amount, err := parseNumeric(rawAmount)
	if err != nil {
		return nil, err
	}
	balance, err := parseNumeric(rawBalance)
	if err != nil {
		return nil, err
	}
	metadata, err := unmarshalMetadata(rawMetadata)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructTransaction(
		uid, businessName, userID, proposalID, walletID,
		amount, currency, balance, description,
		metadata, createdAt, updatedAt, isDeleted,
	), nil
}

func scanTransactions(rows pgx.Rows) ([]*entities.Transaction, error) {
	var txs []*entities.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txs, nil
}
