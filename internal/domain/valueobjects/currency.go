// Package valueobjects contains immutable value types shared by the domain.
package valueobjects

import "strings"

// CurrencyNone is the sentinel for "no main currency configured".
// It never appears in balance maps or in the currency set of a wallet.
const CurrencyNone = "none"

// NormalizeCurrency trims and uppercases a currency code, preserving the
// sentinel. Currency codes are free-form names ("USD", "GOLD", "CREDITS");
// the system does not maintain a closed registry, tenants define their own.
func NormalizeCurrency(code string) string {
	code = strings.TrimSpace(code)
	if IsCurrencyNone(code) {
		return CurrencyNone
	}
	return strings.ToUpper(code)
}

// IsCurrencyNone reports whether the code is empty or the sentinel value.
func IsCurrencyNone(code string) bool {
	return code == "" || strings.EqualFold(code, CurrencyNone)
}
