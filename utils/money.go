package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency is one selectable ISO 4217 currency.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies lists the currencies offered by the business form.
var Currencies = []Currency{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "CHF", Symbol: "Fr", Name: "Swiss Franc"},
	{Code: "AED", Symbol: "د.إ", Name: "UAE Dirham"},
}

// CurrencySymbol returns the display symbol for code, or the upper-cased
// code itself when it is not in Currencies.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c.Symbol
		}
	}
	if code == "" {
		return "$"
	}
	return code + " "
}

// FormatMoney renders amount rounded to two places with the currency symbol.
// Negative amounts keep their sign in front of the symbol.
func FormatMoney(amount decimal.Decimal, currency string) string {
	return FormatMoneyWithSymbol(amount, CurrencySymbol(currency))
}

// FormatMoneyWithSymbol is FormatMoney with an explicit symbol.
func FormatMoneyWithSymbol(amount decimal.Decimal, symbol string) string {
	if amount.IsNegative() {
		return "-" + symbol + amount.Neg().StringFixed(2)
	}
	return symbol + amount.StringFixed(2)
}

// FormatQuantity drops trailing zeros: 2 -> "2", 1.50 -> "1.5".
func FormatQuantity(value float64) string {
	return decimal.NewFromFloat(value).Round(2).String()
}
