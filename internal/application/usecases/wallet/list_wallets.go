package wallet

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/application/dtos"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/domain/events"
)

// ListWalletsUseCase lists wallets with derived balances.
//
// Scenario:
// 1. Scope the filter: end users see only their own wallets, managers may
//    filter by user and wallet type
// 2. For an end user with no wallets yet, create the default user wallet
//    denominated in the tenant's default currency before listing
// 3. Attach the balance map to every item
type ListWalletsUseCase struct {
	walletRepo     ports.WalletRepository
	view           *View
	eventPublisher ports.EventPublisher
}

// NewListWalletsUseCase creates the use case.
func NewListWalletsUseCase(walletRepo ports.WalletRepository, view *View, eventPublisher ports.EventPublisher) *ListWalletsUseCase {
	return &ListWalletsUseCase{
		walletRepo:     walletRepo,
		view:           view,
		eventPublisher: eventPublisher,
	}
}

// Execute lists the wallets.
func (uc *ListWalletsUseCase) Execute(ctx context.Context, authz *auth.Authorization, query dtos.ListWalletsQuery, paging dtos.Paging) (*dtos.WalletListDTO, error) {
	filter := ports.WalletFilter{BusinessName: authz.BusinessName()}

	if authz.IsUser() {
		userID := authz.UserID
		filter.UserID = &userID
		if err := uc.ensureDefaultWallet(ctx, authz); err != nil {
			return nil, err
		}
	} else {
		if query.UserID != "" {
			userID, err := uuid.Parse(query.UserID)
			if err != nil {
				return nil, errors.ValidationError{Field: "user_id", Message: "invalid UUID format"}
			}
			filter.UserID = &userID
		}
		if query.WalletType != "" {
			wt := entities.WalletType(query.WalletType)
			if !wt.IsValid() {
				return nil, errors.ValidationError{Field: "wallet_type", Message: "unknown wallet type"}
			}
			filter.WalletType = &wt
		}
	}

	wallets, total, err := uc.walletRepo.List(ctx, filter, paging.Offset, paging.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}

	items := make([]dtos.WalletDTO, len(wallets))
	for i, w := range wallets {
		balance, err := uc.view.BalanceMap(ctx, w, "")
		if err != nil {
			return nil, err
		}
		items[i] = dtos.ToWalletDTOWithBalance(w, balance)
	}

	return &dtos.WalletListDTO{
		Items:  items,
		Total:  total,
		Offset: paging.Offset,
		Limit:  paging.Limit,
	}, nil
}

// ensureDefaultWallet lazily provisions the per-user wallet on first
// contact. The default wallet is of type user and denominated in the
// tenant's default currency.
func (uc *ListWalletsUseCase) ensureDefaultWallet(ctx context.Context, authz *auth.Authorization) error {
	userID := authz.UserID
	existing, _, err := uc.walletRepo.List(ctx, ports.WalletFilter{
		BusinessName: authz.BusinessName(),
		UserID:       &userID,
	}, 0, 1)
	if err != nil {
		return fmt.Errorf("failed to check user wallets: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	defaultCurrency := ""
	if authz.Business != nil {
		defaultCurrency = authz.Business.Config().DefaultCurrency
	}

	wallet, err := entities.NewWallet(authz.BusinessName(), userID, entities.WalletTypeUser, defaultCurrency, nil)
	if err != nil {
		return fmt.Errorf("failed to create default wallet: %w", err)
	}
	if err := uc.walletRepo.Save(ctx, wallet); err != nil {
		return fmt.Errorf("failed to save default wallet: %w", err)
	}

	_ = uc.eventPublisher.Publish(ctx, events.NewWalletCreated(
		wallet.UID(), wallet.BusinessName(), wallet.UserID(),
		string(wallet.WalletType()), wallet.MainCurrency(),
	))
	return nil
}
