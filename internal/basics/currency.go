package basics

import "fmt"

// Currency is an ISO-4217 currency code.
type Currency string

// CurrencyOf validates an ISO code and returns it as a Currency.
func CurrencyOf(code string) (Currency, error) {
	if len(code) != 3 {
		return "", fmt.Errorf("invalid currency code '%s': must be three letters", code)
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", fmt.Errorf("invalid currency code '%s': must be three upper-case letters", code)
		}
	}
	return Currency(code), nil
}
