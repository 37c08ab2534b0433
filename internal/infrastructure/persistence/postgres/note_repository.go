// Package postgres - NoteRepository implementation. Append-only like the
// ledger: a transaction's current note is the newest row.
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
var _ ports.NoteRepository = (*NoteRepository)(nil)

// NoteRepository is the append-only note log.
type NoteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository creates a NoteRepository.
func NewNoteRepository(pool *pgxpool.Pool) *NoteRepository {
	return &NoteRepository{pool: pool}
}

func (r *NoteRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

// Append inserts a note row.
func (r *NoteRepository) Append(ctx context.Context, note *entities.TransactionNote) error {
	q := r.getQuerier(ctx)

	metadata, err := marshalMetadata(note.Metadata())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO transaction_notes (
			uid, business_name, user_id, transaction_id, note,
			meta_data, created_at, updated_at, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = q.Exec(ctx, query,
		note.UID(),
		note.BusinessName(),
		note.UserID(),
		note.TransactionID(),
		note.Note(),
		metadata,
		note.CreatedAt(),
		note.UpdatedAt(),
		note.IsDeleted(),
	)
	if err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	return nil
}

// Latest returns the newest note for a transaction.
func (r *NoteRepository) Latest(ctx context.Context, transactionID uuid.UUID) (*entities.TransactionNote, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT uid, business_name, user_id, transaction_id, note,
		       meta_data, created_at, updated_at, is_deleted
		FROM transaction_notes
		WHERE transaction_id = $1 AND is_deleted = FALSE
		ORDER BY created_at DESC, uid DESC
		LIMIT 1
	`

	var (
		uid, userID          uuid.UUID
		transactionUID       uuid.UUID
		businessName, text   string
		rawMetadata          []byte
		createdAt, updatedAt time.Time
		isDeleted            bool
	)

	err := q.QueryRow(ctx, query, transactionID).Scan(
		&uid, &businessName, &userID, &transactionUID, &text,
		&rawMetadata, &createdAt, &updatedAt, &isDeleted,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to query latest note: %w", err)
	}

	metadata, err := unmarshalMetadata(rawMetadata)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructTransactionNote(
		uid, businessName, userID, transactionUID, text,
		metadata, createdAt, updatedAt, isDeleted,
	), nil
}
