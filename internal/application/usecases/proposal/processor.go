// Package proposal contains the use cases around atomic multi-party
// transfers: creation, draft editing, and the processor that turns an
// accepted proposal into ledger rows.
package proposal

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/application/usecases/wallet"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// PolicyFunc is an overridable per-participant predicate. A false verdict
// fails the whole proposal. The default accepts everyone.
type PolicyFunc func(w *entities.Wallet, business *entities.Business) bool

// AcceptAll is the default participant policy.
func AcceptAll(*entities.Wallet, *entities.Business) bool { return true }

// Processor drives an accepted proposal to a terminal status.
//
// Pipeline:
//  1. Claim: the persisted CAS init -> processing; losers get
//     ErrAlreadyProcessed. At most one commit phase per proposal ever runs.
//  2. Validate: wallet resolution, amount conservation, source solvency,
//     participant policy. A failure here marks the proposal error and is
//     NOT an error of Process itself; callers read the terminal status.
//  3. Commit: inside one unit of work, lock the participant wallets in
//     ascending uid order, re-check source solvency under the locks, append one
//     ledger row per participant with chained running balances, append
//     proposal notes, and persist the completed proposal.
//
// A failure inside the unit rolls everything back; the error status is
// then written in a separate transaction so an aborted proposal leaves
// zero ledger rows.
type Processor struct {
	proposalRepo   ports.ProposalRepository
	walletRepo     ports.WalletRepository
	ledgerRepo     ports.LedgerRepository
	noteRepo       ports.NoteRepository
	uow            ports.UnitOfWork
	view           *wallet.View
	eventPublisher ports.EventPublisher
	policy         PolicyFunc
}

// NewProcessor creates a processor with the default accept-all policy.
func NewProcessor(
	proposalRepo ports.ProposalRepository,
	walletRepo ports.WalletRepository,
	ledgerRepo ports.LedgerRepository,
	noteRepo ports.NoteRepository,
	uow ports.UnitOfWork,
	view *wallet.View,
	eventPublisher ports.EventPublisher,
) *Processor {
	return &Processor{
		proposalRepo:   proposalRepo,
		walletRepo:     walletRepo,
		ledgerRepo:     ledgerRepo,
		noteRepo:       noteRepo,
		uow:            uow,
		view:           view,
		eventPublisher: eventPublisher,
		policy:         AcceptAll,
	}
}

// SetPolicy overrides the participant policy.
func (pr *Processor) SetPolicy(policy PolicyFunc) {
	if policy != nil {
		pr.policy = policy
	}
}

// Process runs the proposal to a terminal status and returns it. The
// returned error is reserved for infrastructure failures and lost claim
// races; business rejections surface as task_status=error with the reason
// in the report.
func (pr *Processor) Process(ctx context.Context, business *entities.Business, p *entities.Proposal) (*entities.Proposal, error) {
	if p.TaskStatus() != entities.TaskStatusInit {
		return nil, errors.NewConflictError("Proposal", p.UID().String(),
			fmt.Sprintf("cannot process proposal in status %q", p.TaskStatus()),
			errors.ErrAlreadyProcessed)
	}

	// Serialization point: the CAS commits on its own, before the atomic
	// unit. Exactly one caller per proposal gets past this line.
	if err := pr.proposalRepo.ClaimProcessing(ctx, p.UID()); err != nil {
		return nil, err
	}
	_ = p.MarkProcessing()

	// Past the claim every outcome must be terminal: a proposal left at
	// processing can never be retried, so even storage faults during
	// validation are recorded as error.
	wallets, err := pr.validate(ctx, business, p)
	if err != nil {
		return pr.fail(ctx, p, err)
	}

	var committed []*entities.Transaction
	commitErr := pr.uow.Execute(ctx, func(txCtx context.Context) error {
		var err error
		committed, err = pr.commit(txCtx, p, wallets)
		return err
	})
	if commitErr != nil {
		// The unit rolled back; record the failure outside it.
		return pr.fail(ctx, p, commitErr)
	}

	_ = pr.eventPublisher.Publish(ctx, events.NewProposalCompleted(
		p.UID(), p.BusinessName(), p.Currency(), p.Amount().String(), len(committed),
	))
	return p, nil
}

// validate runs the ordered validation pipeline and returns the resolved
// participant wallets keyed by uid.
func (pr *Processor) validate(ctx context.Context, business *entities.Business, p *entities.Proposal) (map[uuid.UUID]*entities.Wallet, error) {
	if business == nil || business.Name() != p.BusinessName() {
		return nil, errors.NewDomainError(errors.CodeItemNotFound,
			fmt.Sprintf("business %q not resolved", p.BusinessName()),
			errors.ErrEntityNotFound)
	}

	// Wallet resolution. Absent, soft-deleted or foreign wallets fail.
	wallets := make(map[uuid.UUID]*entities.Wallet)
	for _, pt := range p.Participants() {
		if _, ok := wallets[pt.WalletID]; ok {
			continue
		}
		w, err := pr.walletRepo.FindByID(ctx, p.BusinessName(), pt.WalletID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, errors.NewDomainError(errors.CodeItemNotFound,
					fmt.Sprintf("wallet %s not found", pt.WalletID), err)
			}
			return nil, errors.NewStorageError("resolve participant wallet", err)
		}
		if !w.BelongsTo(p.BusinessName()) {
			return nil, errors.NewDomainError(errors.CodeItemNotFound,
				fmt.Sprintf("wallet %s belongs to another business", pt.WalletID),
				errors.ErrEntityNotFound)
		}
		wallets[pt.WalletID] = w
	}

	// Amount conservation, exact decimal arithmetic.
	if err := p.CheckAmounts(); err != nil {
		return nil, err
	}

	// Source solvency. Unbounded sources trivially pass inside Covers.
	for _, pt := range p.Participants() {
		if !pt.Amount.IsNegative() {
			continue
		}
		w := wallets[pt.WalletID]
		spendable, err := pr.view.Spendable(ctx, w, p.Currency())
		if err != nil {
			return nil, errors.NewStorageError("compute spendable", err)
		}
		if !spendable.Covers(pt.Amount.Neg()) {
			return nil, fmt.Errorf("%w: wallet %s spendable %s, needs %s",
				errors.ErrInsufficientBalance, w.UID(), spendable, pt.Amount.Neg())
		}
	}

	// Participant policy hook.
	for _, w := range wallets {
		if !pr.policy(w, business) {
			return nil, fmt.Errorf("%w: wallet %s", errors.ErrParticipantRejected, w.UID())
		}
	}

	return wallets, nil
}

// commit runs inside the unit of work: locks, re-checks, appends.
func (pr *Processor) commit(ctx context.Context, p *entities.Proposal, wallets map[uuid.UUID]*entities.Wallet) ([]*entities.Transaction, error) {
	// Row locks on every participant wallet, ascending uid to avoid
	// deadlocks between concurrent commits. Recipients are locked too:
	// their rows chain off LatestBalance just like source rows, and two
	// concurrent credits to one wallet must serialize.
	lockIDs := pr.participantWalletIDs(p)
	if err := pr.walletRepo.LockForCommit(ctx, lockIDs); err != nil {
		return nil, fmt.Errorf("failed to lock participant wallets: %w", err)
	}

	// Another proposal may have spent from a source between the check
	// and the lock; recompute under the lock.
	for _, pt := range p.Participants() {
		if !pt.Amount.IsNegative() {
			continue
		}
		w := wallets[pt.WalletID]
		if w.IsIncome() {
			continue
		}
		spendable, err := pr.view.Spendable(ctx, w, p.Currency())
		if err != nil {
			return nil, err
		}
		if !spendable.Covers(pt.Amount.Neg()) {
			return nil, fmt.Errorf("%w: wallet %s spendable %s under lock, needs %s",
				errors.ErrInsufficientBalance, w.UID(), spendable, pt.Amount.Neg())
		}
	}

	// Balance chaining: first encounter reads the latest committed
	// balance, repeats within the unit continue from the in-unit value.
	// The same wallet twice in one proposal yields two rows that chain.
	cur := make(map[uuid.UUID]decimal.Decimal)
	committed := make([]*entities.Transaction, 0, len(p.Participants()))
	for _, pt := range p.Participants() {
		w := wallets[pt.WalletID]
		if _, ok := cur[pt.WalletID]; !ok {
			b0, err := pr.ledgerRepo.LatestBalance(ctx, pt.WalletID, p.Currency())
			if err != nil {
				return nil, fmt.Errorf("failed to read balance of %s: %w", pt.WalletID, err)
			}
			cur[pt.WalletID] = b0
		}
		newBalance := cur[pt.WalletID].Add(pt.Amount)

		tx := entities.NewParticipantTransaction(
			p.BusinessName(),
			w.UserID(),
			p.UID(),
			pt.WalletID,
			pt.Amount,
			p.Currency(),
			newBalance,
			p.Description(),
			w.Metadata(),
		)
		if err := pr.ledgerRepo.Append(ctx, tx); err != nil {
			return nil, fmt.Errorf("failed to append ledger row: %w", err)
		}
		cur[pt.WalletID] = newBalance
		committed = append(committed, tx)
	}

	// Proposal-level note fans out to every new row, inside the same unit.
	if p.Note() != "" {
		for _, tx := range committed {
			note := entities.NewTransactionNote(p.BusinessName(), tx.UserID(), tx.UID(), p.Note(), nil)
			if err := pr.noteRepo.Append(ctx, note); err != nil {
				return nil, fmt.Errorf("failed to append proposal note: %w", err)
			}
		}
	}

	p.MarkCompleted(fmt.Sprintf("committed %d transactions", len(committed)))
	if err := pr.proposalRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to persist completed proposal: %w", err)
	}
	return committed, nil
}

// participantWalletIDs returns the unique participant wallets, ascending.
func (pr *Processor) participantWalletIDs(p *entities.Proposal) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(p.Participants()))
	for _, pt := range p.Participants() {
		if _, ok := seen[pt.WalletID]; ok {
			continue
		}
		seen[pt.WalletID] = struct{}{}
		ids = append(ids, pt.WalletID)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// fail writes the terminal error status outside the aborted unit.
func (pr *Processor) fail(ctx context.Context, p *entities.Proposal, cause error) (*entities.Proposal, error) {
	p.MarkFailed(cause.Error())
	if err := pr.proposalRepo.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to record proposal failure: %w", err)
	}
	_ = pr.eventPublisher.Publish(ctx, events.NewProposalFailed(p.UID(), p.BusinessName(), cause.Error()))
	return p, nil
}
