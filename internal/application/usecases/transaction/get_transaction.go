package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
)

// GetTransactionUseCase loads a single ledger entry with its latest note.
type GetTransactionUseCase struct {
	ledgerRepo ports.LedgerRepository
	noteRepo   ports.NoteRepository
}

// NewGetTransactionUseCase creates the use case.
func NewGetTransactionUseCase(ledgerRepo ports.LedgerRepository, noteRepo ports.NoteRepository) *GetTransactionUseCase {
	return &GetTransactionUseCase{ledgerRepo: ledgerRepo, noteRepo: noteRepo}
}

// Execute loads the transaction.
func (uc *GetTransactionUseCase) Execute(ctx context.Context, authz *auth.Authorization, transactionID string) (*dtos.TransactionDTO, error) {
	id, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}

	tx, err := uc.ledgerRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	if authz.IsUser() && tx.UserID() != authz.UserID {
		return nil, errors.NewAuthorizationError("read transaction", string(authz.Issuer))
	}

	dto := dtos.ToTransactionDTO(tx)

	// The latest note row is "the" note of the transaction; having none is
	// the normal case.
	note, err := uc.noteRepo.Latest(ctx, tx.UID())
	switch {
	case err == nil:
		dto.Note = note.Note()
	case errors.IsNotFound(err):
	default:
		return nil, fmt.Errorf("failed to load transaction note: %w", err)
	}

	return &dto, nil
}
