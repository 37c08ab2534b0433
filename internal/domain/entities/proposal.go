// Package entities - Proposal is a request to move funds atomically among
// participants of one business tenant. It owns (by reference) the ledger
// rows its commit produces.
package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// Issuer represents the authorization category of the caller that created
// the proposal.
type Issuer string

const (
	IssuerUser     Issuer = "user"
	IssuerBusiness Issuer = "business"
	IssuerApp      Issuer = "app"
)

// IsValid checks if the issuer kind is valid.
func (i Issuer) IsValid() bool {
	switch i {
	case IssuerUser, IssuerBusiness, IssuerApp:
		return true
	default:
		return false
	}
}

// TaskStatus represents the processing status of a proposal.
//
// State machine:
//
//	draft ──▶ init ──▶ processing ──▶ completed
//	                        └──▶ error
type TaskStatus string

const (
	TaskStatusDraft      TaskStatus = "draft"
	TaskStatusInit       TaskStatus = "init"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusError      TaskStatus = "error"
)

// IsValid checks if the task status is valid.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusDraft, TaskStatusInit, TaskStatusProcessing, TaskStatusCompleted, TaskStatusError:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status allows no further transition.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// Participant is a (wallet, signed amount) pair within a proposal.
// Positive amounts receive funds, negative amounts are sources.
// Zero amounts are allowed and produce a zero-amount ledger row so the
// audit trail records that the wallet was involved.
type Participant struct {
	WalletID uuid.UUID       `json:"wallet_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Proposal is the unit of atomic multi-party transfer.
type Proposal struct {
	Envelope
	Tenancy
	issuer       Issuer
	issuerID     uuid.UUID
	amount       decimal.Decimal // Declared total: must equal the sum of positive amounts
	currency     string
	description  string
	note         string
	taskStatus   TaskStatus
	report       string
	participants []Participant
}

// NewProposal creates a proposal in draft or init status.
//
// Business Rules:
// - declared amount must be positive
// - participants must be non-empty
// - only draft and init are accepted as the initial status
//
// Amount consistency across participants is checked by the processor, not
// here: a draft is allowed to be temporarily unbalanced while its owner
// edits it.
func NewProposal(
	businessName string,
	userID uuid.UUID,
	issuer Issuer,
	issuerID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	description, note string,
	taskStatus TaskStatus,
	participants []Participant,
	metadata map[string]any,
) (*Proposal, error) {
	if !issuer.IsValid() {
		return nil, errors.ValidationError{Field: "issuer", Message: "unknown issuer kind"}
	}
	if !amount.IsPositive() {
		return nil, errors.ErrNonPositiveAmount
	}
	if len(participants) == 0 {
		return nil, errors.ErrEmptyParticipants
	}
	if taskStatus == "" {
		taskStatus = TaskStatusDraft
	}
	if taskStatus != TaskStatusDraft && taskStatus != TaskStatusInit {
		return nil, errors.NewDomainError(errors.CodeInvalidStatus,
			fmt.Sprintf("proposal cannot be created in status %q", taskStatus),
			errors.ErrInvalidTaskStatus)
	}

	return &Proposal{
		Envelope:     NewEnvelope(metadata),
		Tenancy:      NewTenancy(businessName, userID),
		issuer:       issuer,
		issuerID:     issuerID,
		amount:       amount,
		currency:     valueobjects.NormalizeCurrency(currency),
		description:  description,
		note:         note,
		taskStatus:   taskStatus,
		participants: participants,
	}, nil
}

// ReconstructProposal rebuilds a Proposal from stored data.
func ReconstructProposal(
	uid uuid.UUID,
	businessName string,
	userID uuid.UUID,
	issuer Issuer,
	issuerID uuid.UUID,
	amount decimal.Decimal,
	currency string,
	description, note string,
	taskStatus TaskStatus,
	report string,
	participants []Participant,
	metadata map[string]any,
	createdAt, updatedAt time.Time,
	isDeleted bool,
) *Proposal {
	return &Proposal{
		Envelope:     ReconstructEnvelope(uid, createdAt, updatedAt, isDeleted, metadata),
		Tenancy:      NewTenancy(businessName, userID),
		issuer:       issuer,
		issuerID:     issuerID,
		amount:       amount,
		currency:     currency,
		description:  description,
		note:         note,
		taskStatus:   taskStatus,
		report:       report,
		participants: participants,
	}
}

func (p *Proposal) Issuer() Issuer              { return p.issuer }
func (p *Proposal) IssuerID() uuid.UUID         { return p.issuerID }
func (p *Proposal) Amount() decimal.Decimal     { return p.amount }
func (p *Proposal) Currency() string            { return p.currency }
func (p *Proposal) Description() string         { return p.description }
func (p *Proposal) Note() string                { return p.note }
func (p *Proposal) TaskStatus() TaskStatus      { return p.taskStatus }
func (p *Proposal) Report() string              { return p.report }
func (p *Proposal) Participants() []Participant { return p.participants }

// SumPositive returns the sum of recipient amounts (S+).
func (p *Proposal) SumPositive() decimal.Decimal {
	total := decimal.Zero
	for _, pt := range p.participants {
		if pt.Amount.IsPositive() {
			total = total.Add(pt.Amount)
		}
	}
	return total
}

// SumAll returns the sum over all participant amounts (S0).
func (p *Proposal) SumAll() decimal.Decimal {
	total := decimal.Zero
	for _, pt := range p.participants {
		total = total.Add(pt.Amount)
	}
	return total
}

// CheckAmounts validates the conservation invariants: the participant
// amounts must cancel out and the positive side must equal the declared
// total. Together these imply the negative side equals -amount.
func (p *Proposal) CheckAmounts() error {
	if len(p.participants) == 0 {
		return errors.ErrEmptyParticipants
	}
	if sumAll := p.SumAll(); !sumAll.IsZero() {
		return fmt.Errorf("%w: participants sum to %s", errors.ErrUnbalancedProposal, sumAll)
	}
	if sumPos := p.SumPositive(); !sumPos.Equal(p.amount) {
		return fmt.Errorf("%w: recipients total %s, declared %s", errors.ErrAmountMismatch, sumPos, p.amount)
	}
	return nil
}

// PatchDraft applies owner edits while the proposal is still a draft.
// Only draft proposals may change; a patched status, when present, must be
// init and flips the proposal into the processing queue.
func (p *Proposal) PatchDraft(patch ProposalPatch) error {
	if p.taskStatus != TaskStatusDraft {
		return errors.NewDomainError(errors.CodeInvalidStatus,
			fmt.Sprintf("cannot update proposal in status %q", p.taskStatus),
			errors.ErrProposalNotDraft)
	}
	if patch.TaskStatus != nil && *patch.TaskStatus != TaskStatusInit {
		return errors.NewDomainError(errors.CodeInvalidStatus,
			fmt.Sprintf("draft can only transition to %q, got %q", TaskStatusInit, *patch.TaskStatus),
			errors.ErrInvalidTaskStatus)
	}

	if patch.Amount != nil {
		if !patch.Amount.IsPositive() {
			return errors.ErrNonPositiveAmount
		}
		p.amount = *patch.Amount
	}
	if patch.Currency != nil {
		p.currency = valueobjects.NormalizeCurrency(*patch.Currency)
	}
	if patch.Description != nil {
		p.description = *patch.Description
	}
	if patch.Note != nil {
		p.note = *patch.Note
	}
	if patch.Participants != nil {
		if len(patch.Participants) == 0 {
			return errors.ErrEmptyParticipants
		}
		p.participants = patch.Participants
	}
	if patch.Metadata != nil {
		p.SetMetadata(patch.Metadata)
	}
	if patch.TaskStatus != nil {
		p.taskStatus = *patch.TaskStatus
	}
	p.touch()
	return nil
}

// ProposalPatch is the set of fields an owner may change on a draft.
type ProposalPatch struct {
	Amount       *decimal.Decimal
	Currency     *string
	Description  *string
	Note         *string
	TaskStatus   *TaskStatus
	Participants []Participant
	Metadata     map[string]any
}

// MarkProcessing transitions init -> processing. The persisted CAS in the
// proposal repository is the real serialization point; this mirrors it on
// the in-memory entity.
func (p *Proposal) MarkProcessing() error {
	if p.taskStatus != TaskStatusInit {
		return fmt.Errorf("%w: status is %q", errors.ErrAlreadyProcessed, p.taskStatus)
	}
	p.taskStatus = TaskStatusProcessing
	p.touch()
	return nil
}

// MarkCompleted records a successful commit with its report.
func (p *Proposal) MarkCompleted(report string) {
	p.taskStatus = TaskStatusCompleted
	p.report = report
	p.touch()
}

// MarkFailed records a failed commit with the failure message.
func (p *Proposal) MarkFailed(report string) {
	p.taskStatus = TaskStatusError
	p.report = report
	p.touch()
}
