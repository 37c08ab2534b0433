// Package postgres - ProposalRepository implementation.
//
// ClaimProcessing is the concurrency keystone: a conditional UPDATE that
// flips task_status init -> processing and reports how many rows it
// touched. Exactly one concurrent caller sees rows_affected = 1.
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
var _ ports.ProposalRepository = (*ProposalRepository)(nil)

// ProposalRepository stores proposals with participants as JSONB.
type ProposalRepository struct {
	pool *pgxpool.Pool
}

// NewProposalRepository creates a ProposalRepository.
func NewProposalRepository(pool *pgxpool.Pool) *ProposalRepository {
	return &ProposalRepository{pool: pool}
}

func (r *ProposalRepository) getQuerier(ctx context.Context) querier {
	if tx := extractTx(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const proposalColumns = `uid, business_name, user_id, issuer, issuer_id,
       amount::text, currency, description, note, task_status, report,
       participants, meta_data, created_at, updated_at, is_deleted`

// Save persists a proposal, insert or update by uid.
func (r *ProposalRepository) Save(ctx context.Context, proposal *entities.Proposal) error {
	q := r.getQuerier(ctx)

	participants, err := json.Marshal(proposal.Participants())
	if err != nil {
		return fmt.Errorf("failed to marshal participants: %w", err)
	}
	metadata, err := marshalMetadata(proposal.Metadata())
	if err != nil {
		return err
	}

	query := `
		INSERT INTO proposals (
			uid, business_name, user_id, issuer, issuer_id,
			amount, currency, description, note, task_status, report,
			participants, meta_data, created_at, updated_at, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (uid) DO UPDATE SET
			amount       = EXCLUDED.amount,
			currency     = EXCLUDED.currency,
			description  = EXCLUDED.description,
			note         = EXCLUDED.note,
			task_status  = EXCLUDED.task_status,
			report       = EXCLUDED.report,
			participants = EXCLUDED.participants,
			meta_data    = EXCLUDED.meta_data,
			updated_at   = EXCLUDED.updated_at,
			is_deleted   = EXCLUDED.is_deleted
	`

	_, err = q.Exec(ctx, query,
		proposal.UID(),
		proposal.BusinessName(),
		proposal.UserID(),
		string(proposal.Issuer()),
		proposal.IssuerID(),
		proposal.Amount().String(),
		proposal.Currency(),
		proposal.Description(),
		proposal.Note(),
		string(proposal.TaskStatus()),
		proposal.Report(),
		participants,
		metadata,
		proposal.CreatedAt(),
		proposal.UpdatedAt(),
		proposal.IsDeleted(),
	)
	if err != nil {
		return fmt.Errorf("failed to save proposal: %w", err)
	}
	return nil
}

// FindByID loads a non-deleted proposal scoped to a tenant.
func (r *ProposalRepository) FindByID(ctx context.Context, businessName string, id uuid.UUID) (*entities.Proposal, error) {
	q := r.getQuerier(ctx)

	query := `
		SELECT ` + proposalColumns + `
		FROM proposals
		WHERE uid = $1 AND business_name = $2 AND is_deleted = FALSE
	`

	return scanProposal(q.QueryRow(ctx, query, id, businessName))
}

// List returns proposals matching the filter, newest first, plus the
// total count.
func (r *ProposalRepository) List(ctx context.Context, filter ports.ProposalFilter, offset, limit int) ([]*entities.Proposal, int, error) {
	q := r.getQuerier(ctx)

	where := " WHERE business_name = $1 AND is_deleted = FALSE"
	args := []any{filter.BusinessName}
	argNum := 2

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *filter.UserID)
		argNum++
	}
	if filter.TaskStatus != nil {
		where += fmt.Sprintf(" AND task_status = $%d", argNum)
		args = append(args, string(*filter.TaskStatus))
		argNum++
	}

	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM proposals"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count proposals: %w", err)
	}

	query := "SELECT " + proposalColumns + " FROM proposals" + where +
		fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, offset, limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list proposals: %w", err)
	}
	defer rows.Close()

	var proposals []*entities.Proposal
	for rows.Next() {
		p, err := scanProposal(rows)
		if err != nil {
			return nil, 0, err
		}
		proposals = append(proposals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating proposal rows: %w", err)
	}
	return proposals, total, nil
}

// ClaimProcessing performs the init -> processing CAS. It runs on the
// pool even when the context carries a transaction: the claim must
// commit on its own so a losing racer observes it immediately.
func (r *ProposalRepository) ClaimProcessing(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE proposals
		SET task_status = 'processing', updated_at = NOW()
		WHERE uid = $1 AND task_status = 'init' AND is_deleted = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to claim proposal: %w", err)
	}
	if tag.RowsAffected() != 1 {
		return domainErrors.ErrAlreadyProcessed
	}
	return nil
}

// scanProposal hydrates a Proposal from a row with proposalColumns.
func scanProposal(row pgx.Row) (*entities.Proposal, error) {
	var (
		uid, userID, issuerID uuid.UUID
		businessName, issuer  string
		rawAmount, currency   string
		description, note     string
		taskStatus, report    string
		rawParticipants       []byte
		rawMetadata           []byte
		createdAt, updatedAt  time.Time
		isDeleted             bool
	)

	err := row.Scan(&uid, &businessName, &userID, &issuer, &issuerID,
		&rawAmount, &currency, &description, &note, &taskStatus, &report,
		&rawParticipants, &rawMetadata, &createdAt, &updatedAt, &isDeleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrEntityNotFound
		}
		return nil, fmt.Errorf("failed to scan proposal: %w", err)
	}

	amount, err := parseNumeric(rawAmount)
	if err != nil {
		return nil, err
	}
	var participants []entities.Participant
	if err := json.Unmarshal(rawParticipants, &participants); err != nil {
		return nil, fmt.Errorf("failed to unmarshal participants: %w", err)
	}
	metadata, err := unmarshalMetadata(rawMetadata)
	if err != nil {
		return nil, err
	}

	return entities.ReconstructProposal(
		uid, businessName, userID,
		entities.Issuer(issuer), issuerID,
		amount, currency, description, note,
		entities.TaskStatus(taskStatus), report,
		participants, metadata,
		createdAt, updatedAt, isDeleted,
	), nil
}
