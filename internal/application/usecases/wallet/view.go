// Package wallet - read-side derivations and lifecycle use cases for
// wallets. Balances are computed from the ledger on every read; the wallet
// row itself never stores an amount.
package wallet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	"github.com/Haleralex/ledgerhub/internal/domain/valueobjects"
)

// View derives balances, currency sets and spendable amounts for a wallet.
//
// Derivation rules:
//   - currencies: main currency plus every currency the ledger has seen,
//     sentinel removed, sorted ascending. app_income wallets report only
//     their main currency and skip the ledger scan.
//   - balance: latest ledger row's running balance, zero when none.
//     app_income wallets are unbounded in their main currency and zero in
//     any other.
//   - spendable: balance minus the active hold sum. Monotone in committed
//     transactions and active holds only; hold expiry raises spendable
//     without any write.
type View struct {
	ledger ports.LedgerRepository
	holds  ports.HoldRepository
}

// NewView creates a wallet view over the ledger and hold stores.
func NewView(ledger ports.LedgerRepository, holds ports.HoldRepository) *View {
	return &View{ledger: ledger, holds: holds}
}

// Currencies returns the sorted currency set of a wallet.
func (v *View) Currencies(ctx context.Context, w *entities.Wallet) ([]string, error) {
	if w.IsIncome() {
		return []string{w.MainCurrency()}, nil
	}

	seen := make(map[string]struct{})
	if w.HasMainCurrency() {
		seen[w.MainCurrency()] = struct{}{}
	}

	ledgerCurrencies, err := v.ledger.DistinctCurrencies(ctx, w.UID())
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger currencies: %w", err)
	}
	for _, c := range ledgerCurrencies {
		if !valueobjects.IsCurrencyNone(c) {
			seen[c] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// Balance returns the wallet's balance in one currency.
func (v *View) Balance(ctx context.Context, w *entities.Wallet, currency string) (valueobjects.Balance, error) {
	if w.IsIncome() {
		if currency == w.MainCurrency() {
			return valueobjects.UnboundedBalance(), nil
		}
		return valueobjects.ZeroBalance(), nil
	}

	latest, err := v.ledger.LatestBalance(ctx, w.UID(), currency)
	if err != nil {
		return valueobjects.Balance{}, fmt.Errorf("failed to read latest balance: %w", err)
	}
	return valueobjects.NewBalance(latest), nil
}

// BalanceMap returns the balance per currency. With a currency given the
// map has exactly one entry; otherwise it covers the wallet's currency set.
func (v *View) BalanceMap(ctx context.Context, w *entities.Wallet, currency string) (map[string]valueobjects.Balance, error) {
	if currency != "" {
		b, err := v.Balance(ctx, w, currency)
		if err != nil {
			return nil, err
		}
		return map[string]valueobjects.Balance{currency: b}, nil
	}

	currencies, err := v.Currencies(ctx, w)
	if err != nil {
		return nil, err
	}
	out := make(map[string]valueobjects.Balance, len(currencies))
	for _, c := range currencies {
		b, err := v.Balance(ctx, w, c)
		if err != nil {
			return nil, err
		}
		out[c] = b
	}
	return out, nil
}

// HeldAmount returns the total of active holds on the wallet for a currency.
func (v *View) HeldAmount(ctx context.Context, w *entities.Wallet, currency string) (decimal.Decimal, error) {
	held, err := v.holds.ActiveSum(ctx, w.UID(), currency, time.Now())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to sum active holds: %w", err)
	}
	return held, nil
}

// Spendable returns balance minus active holds. Unbounded for app_income
// wallets in their main currency.
func (v *View) Spendable(ctx context.Context, w *entities.Wallet, currency string) (valueobjects.Balance, error) {
	balance, err := v.Balance(ctx, w, currency)
	if err != nil {
		return valueobjects.Balance{}, err
	}
	if balance.IsUnbounded() {
		return balance, nil
	}

	held, err := v.HeldAmount(ctx, w, currency)
	if err != nil {
		return valueobjects.Balance{}, err
	}
	return balance.Sub(held), nil
}
