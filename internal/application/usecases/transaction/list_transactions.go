// Package transaction contains read-side use cases over the append-only
// ledger plus the note log. The ledger has no write use case on purpose:
// the proposal processor is the only writer.
package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// ListTransactionsUseCase lists ledger entries, newest first.
type ListTransactionsUseCase struct {
	ledgerRepo ports.LedgerRepository
}

// NewListTransactionsUseCase creates the use case.
func NewListTransactionsUseCase(ledgerRepo ports.LedgerRepository) *ListTransactionsUseCase {
	return &ListTransactionsUseCase{ledgerRepo: ledgerRepo}
}

// Execute lists the transactions.
func (uc *ListTransactionsUseCase) Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListTransactionsQuery, paging dtos.Paging) (*dtos.TransactionListDTO, error) {
	filter := ports.TransactionFilter{
		BusinessName: authz.BusinessName(),
		From:         query.From,
		To:           query.To,
	}
	// An open upper bound closes at query entry.
	if filter.To == nil {
		now := time.Now().UTC()
		filter.To = &now
	}

	if authz.IsUser() {
		userID := authz.UserID
		filter.UserID = &userID
	}

	if query.WalletID != "" {
		walletID, err := uuid.Parse(query.WalletID)
		if err != nil {
			return nil, errors.ValidationError{Field: "wallet_id", Message: "invalid UUID format"}
		}
		filter.WalletID = &walletID
	}
	if query.Currency != "" {
		currency := valueobjects.NormalizeCurrency(query.Currency)
		filter.Currency = &currency
	}

	txs, total, err := uc.ledgerRepo.List(ctx, filter, paging.Offset, paging.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return &dtos.TransactionListDTO{
		Items:  dtos.ToTransactionDTOList(txs),
		Total:  total,
		Offset: paging.Offset,
		Limit:  paging.Limit,
	}, nil
}
