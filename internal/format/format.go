// Package format holds the pure display helpers: currency and date
// rendering plus field-name prettifying for table headers.
package format

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

var symbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
}

// Currency renders an amount with thousands grouping and two decimals,
// prefixed with the commodity symbol when one is known.
func Currency(amount float64, commodity string) string {
	return CurrencyPrec(amount, commodity, 2)
}

// CurrencyPrec renders an amount at a given precision. Commodities without a
// known symbol are suffixed instead, ledger style.
func CurrencyPrec(amount float64, commodity string, precision int) string {
	n := printer.Sprint(number.Decimal(amount,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision)))
	if sym, ok := symbols[commodity]; ok {
		if strings.HasPrefix(n, "-") {
			return "-" + sym + n[1:]
		}
		return sym + n
	}
	if commodity == "" {
		return n
	}
	return n + " " + commodity
}

var (
	lowerUpper   = regexp.MustCompile(`([a-z])([A-Z])`)
	acronymBound = regexp.MustCompile(`\b([A-Z]+)([A-Z])([a-z])`)
)

// TitleCase converts a camelCase field name to a spaced title:
// "merchantName" becomes "Merchant Name", "visibleTS" becomes "Visible TS".
func TitleCase(s string) string {
	s = lowerUpper.ReplaceAllString(s, "$1 $2")
	s = acronymBound.ReplaceAllString(s, "$1 $2$3")
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
