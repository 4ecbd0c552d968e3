package sbudesk

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultCurrency is the currency amounts are displayed in when none is configured.
const DefaultCurrency = "NGN"

var printer = message.NewPrinter(language.AmericanEnglish)

// Symbol returns the display symbol of a currency code, e.g. "₦" for NGN.
// Unknown codes are returned as is, followed by a space.
func Symbol(code string) string {
	cur := money.GetCurrency(code)
	if cur == nil || cur.Grapheme == "" {
		return code + " "
	}
	return cur.Grapheme
}

// FormatAmount formats d rounded to units with en-US digit grouping and the
// currency symbol, e.g. "₦1,234" or "-₦50".
func FormatAmount(d decimal.Decimal, code string) string {
	n := roundHalfUp(d).IntPart()
	sign := ""
	if n < 0 {
		sign, n = "-", -n
	}
	return sign + Symbol(code) + FormatNumber(n)
}

// FormatNumber formats n with en-US digit grouping.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}
