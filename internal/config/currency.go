package config

import "strings"

// Currency describes how money amounts are displayed.
type Currency struct {
	Code   string
	Symbol string
}

// currencies maps ISO codes to display symbols. INR is the default since
// mess subscriptions are typically billed in rupees.
var currencies = map[string]Currency{
	"INR": {Code: "INR", Symbol: "₹"},
	"USD": {Code: "USD", Symbol: "$"},
	"EUR": {Code: "EUR", Symbol: "€"},
	"GBP": {Code: "GBP", Symbol: "£"},
	"BDT": {Code: "BDT", Symbol: "৳"},
	"NPR": {Code: "NPR", Symbol: "Rs"},
	"PKR": {Code: "PKR", Symbol: "Rs"},
	"LKR": {Code: "LKR", Symbol: "Rs"},
}

// LookupCurrency returns the currency for an ISO code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// CurrencySymbol returns the symbol for code, falling back to the code itself.
func CurrencySymbol(code string) string {
	if c, ok := LookupCurrency(code); ok {
		return c.Symbol
	}
	return code
}
