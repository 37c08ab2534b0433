package transaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// AddNoteUseCase appends a note to a ledger entry. The ledger row itself
// never changes; annotation happens in the append-only note log and the
// latest row wins.
type AddNoteUseCase struct {
	ledgerRepo     ports.LedgerRepository
	noteRepo       ports.NoteRepository
	eventPublisher ports.EventPublisher
}

// NewAddNoteUseCase creates the use case.
func NewAddNoteUseCase(ledgerRepo ports.LedgerRepository, noteRepo ports.NoteRepository, eventPublisher ports.EventPublisher) *AddNoteUseCase {
	return &AddNoteUseCase{
		ledgerRepo:     ledgerRepo,
		noteRepo:       noteRepo,
		eventPublisher: eventPublisher,
	}
}

// Execute appends the note and returns the annotated transaction.
func (uc *AddNoteUseCase) Execute(ctx context.Context, authz *auth.Authorization, transactionID string, cmd dtos.AddTransactionNoteCommand) (*dtos.TransactionDTO, error) {
	id, err := uuid.Parse(transactionID)
	if err != nil {
		return nil, errors.ValidationError{Field: "uid", Message: "invalid UUID format"}
	}
	if strings.TrimSpace(cmd.Note) == "" {
		return nil, errors.ValidationError{Field: "note", Message: "note must not be empty"}
	}

	tx, err := uc.ledgerRepo.FindByID(ctx, authz.BusinessName(), id)
	if err != nil {
		return nil, err
	}

	// End users may annotate their own transactions; that is the one write
	// operation open to them.
	if authz.IsUser() && tx.UserID() != authz.UserID {
		return nil, errors.NewAuthorizationError("annotate transaction", string(authz.Issuer))
	}

	note := entities.NewTransactionNote(authz.BusinessName(), authz.UserID, tx.UID(), cmd.Note, nil)
	if err := uc.noteRepo.Append(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to append note: %w", err)
	}

	_ = uc.eventPublisher.Publish(ctx, events.NewTransactionNoteAdded(note.UID(), tx.UID()))

	dto := dtos.ToTransactionDTO(tx)
	dto.Note = note.Note()
	return &dto, nil
}
