// Package valueobjects - Balance is a discriminated decimal:
// either a finite exact amount or the unbounded sentinel used by
// app-income wallets.
//
// Why not a plain decimal with +Inf? shopspring decimals are always finite,
// and an explicit Finite|Unbounded union serializes unambiguously.
package valueobjects

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// unboundedJSON is the wire representation of an unbounded balance.
const unboundedJSON = "inf"

// Balance is the running total of a wallet for one currency.
// The zero value is a finite zero balance.
type Balance struct {
	amount    decimal.Decimal
	unbounded bool
}

// NewBalance creates a finite balance.
func NewBalance(amount decimal.Decimal) Balance {
	return Balance{amount: amount}
}

// ZeroBalance returns a finite zero balance.
func ZeroBalance() Balance {
	return Balance{}
}

// UnboundedBalance returns the infinite balance of an app-income wallet.
func UnboundedBalance() Balance {
	return Balance{unbounded: true}
}

// IsUnbounded reports whether the balance is infinite.
func (b Balance) IsUnbounded() bool {
	return b.unbounded
}

// Amount returns the finite amount. For unbounded balances ok is false and
// the returned decimal must not be used.
func (b Balance) Amount() (amount decimal.Decimal, ok bool) {
	if b.unbounded {
		return decimal.Decimal{}, false
	}
	return b.amount, true
}

// Add returns the balance increased by d. Unbounded absorbs any addition.
func (b Balance) Add(d decimal.Decimal) Balance {
	if b.unbounded {
		return b
	}
	return Balance{amount: b.amount.Add(d)}
}

// Sub returns the balance decreased by d. Unbounded absorbs any subtraction.
func (b Balance) Sub(d decimal.Decimal) Balance {
	if b.unbounded {
		return b
	}
	return Balance{amount: b.amount.Sub(d)}
}

// Covers reports whether the balance is at least d.
// An unbounded balance covers every amount.
func (b Balance) Covers(d decimal.Decimal) bool {
	if b.unbounded {
		return true
	}
	return b.amount.GreaterThanOrEqual(d)
}

// IsZero reports whether the balance is finite zero.
func (b Balance) IsZero() bool {
	return !b.unbounded && b.amount.IsZero()
}

// String renders the balance for logs and reports.
func (b Balance) String() string {
	if b.unbounded {
		return unboundedJSON
	}
	return b.amount.String()
}

// MarshalJSON encodes finite balances as decimal strings and unbounded
// balances as the string "inf".
func (b Balance) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts a decimal string, a bare JSON number, or "inf".
func (b *Balance) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Bare number form.
		var d decimal.Decimal
		if derr := json.Unmarshal(data, &d); derr != nil {
			return fmt.Errorf("invalid balance %q: %w", string(data), err)
		}
		*b = NewBalance(d)
		return nil
	}
	if s == unboundedJSON {
		*b = UnboundedBalance()
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", s, err)
	}
	*b = NewBalance(d)
	return nil
}
