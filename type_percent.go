package captable

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is an ownership fraction: 1 is the whole company.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 1e-9
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String renders the fraction as a percentage with 2 decimals, half rounded away from zero.
func (p Percent) String() string {
	return decimal.NewFromFloat(float64(p)).Shift(2).StringFixed(2) + "%"
}

// GoString is used by %#v in test failures.
func (p Percent) GoString() string { return fmt.Sprintf("Percent(%g)", float64(p)) }
