package renderer

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// maxPriceDigits is the most fraction digits displayed for a price per share.
const maxPriceDigits = 6

// Money renders an amount in the given currency, rounded to the currency minor unit.
// Unknown currencies are rendered as a plain number followed by the code.
func Money(currency string, amount float64) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return decimal.NewFromFloat(amount).StringFixed(2) + " " + currency
	}
	minor := decimal.NewFromFloat(amount).Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// Price renders a price per share. Unlike Money it keeps the digits below the
// currency minor unit, up to maxPriceDigits.
func Price(currency string, p float64) string {
	d := decimal.NewFromFloat(p).Round(maxPriceDigits)
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.String() + " " + currency
	}
	digits := cur.Fraction
	if _, frac, ok := strings.Cut(d.String(), "."); ok {
		digits = max(digits, len(frac))
	}
	f := money.NewFormatter(digits, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(d.Shift(int32(digits)).IntPart())
}
