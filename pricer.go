package captable

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinRoundPrice is the price used in place of a round price that is zero or negative.
//
// TODO(product): the floor has no documented business rule, it only keeps the
// conversion defined. Confirm the expected behavior for unpriced rounds.
const MinRoundPrice = 1e-6

// ConversionReason tells which term set the conversion price.
type ConversionReason int

const (
	// ByPrice means the round price applied.
	ByPrice ConversionReason = iota
	// ByCap means the valuation cap applied.
	ByCap
	// ByDiscount means the discounted round price applied.
	ByDiscount
)

func (r ConversionReason) String() string {
	switch r {
	case ByPrice:
		return "price"
	case ByCap:
		return "cap"
	case ByDiscount:
		return "discount"
	default:
		panic(fmt.Sprintf("unknown conversion reason %d", r))
	}
}

func (r ConversionReason) MarshalJSON() ([]byte, error) { return json.Marshal(r.String()) }

// Conversion is the outcome of converting one SAFE at a priced round.
type Conversion struct {
	SAFEID           string           `json:"safeId,omitempty"`
	StakeholderID    string           `json:"stakeholderId,omitempty"`
	Price            float64          `json:"price"`
	Reason           ConversionReason `json:"reason"`
	Shares           int64            `json:"shares"`
	InvestmentAmount float64          `json:"investmentAmount"`
}

// Pricer computes SAFE conversions.
//
// Candidates are the round price, the cap price and the discounted price, in that
// order. The lowest positive candidate wins and ties keep the earliest one.
// The discount is the ratio of the round price the investor pays: 0.8 converts at
// 80% of the round price, ratios of 1 or more never win.
type Pricer interface {
	Convert(s SAFE, roundPrice float64, outstanding int64, postMoney bool) Conversion
}

// FloatPricer prices conversions in float64.
type FloatPricer struct{}

// DecimalPricer prices conversions with exact decimal arithmetic.
type DecimalPricer struct{}

var (
	_ Pricer = FloatPricer{}
	_ Pricer = DecimalPricer{}
)

// ConvertSAFE converts s with the default FloatPricer.
func ConvertSAFE(s SAFE, roundPrice float64, outstanding int64, postMoney bool) Conversion {
	return FloatPricer{}.Convert(s, roundPrice, outstanding, postMoney)
}

func (FloatPricer) Convert(s SAFE, roundPrice float64, outstanding int64, postMoney bool) Conversion {
	if roundPrice <= 0 {
		roundPrice = MinRoundPrice
	}
	price, reason := roundPrice, ByPrice

	if s.Cap != nil && outstanding > 0 {
		capPrice := *s.Cap / float64(outstanding)
		if postMoney {
			capPrice = (*s.Cap - s.Amount) / float64(outstanding)
		}
		if capPrice > 0 && capPrice < price {
			price, reason = capPrice, ByCap
		}
	}

	if s.Discount != nil && *s.Discount > 0 {
		discounted := roundPrice * *s.Discount
		if discounted < price {
			price, reason = discounted, ByDiscount
		}
	}

	return Conversion{
		SAFEID:           s.ID,
		StakeholderID:    s.StakeholderID,
		Price:            price,
		Reason:           reason,
		Shares:           floatShares(s.Amount / price),
		InvestmentAmount: s.Amount,
	}
}

func (DecimalPricer) Convert(s SAFE, roundPrice float64, outstanding int64, postMoney bool) Conversion {
	round := decimal.NewFromFloat(roundPrice)
	if !round.IsPositive() {
		round = decimal.NewFromFloat(MinRoundPrice)
	}
	amount := decimal.NewFromFloat(s.Amount)
	price, reason := round, ByPrice

	if s.Cap != nil && outstanding > 0 {
		numerator := decimal.NewFromFloat(*s.Cap)
		if postMoney {
			numerator = numerator.Sub(amount)
		}
		capPrice := numerator.Div(decimal.NewFromInt(outstanding))
		if capPrice.IsPositive() && capPrice.LessThan(price) {
			price, reason = capPrice, ByCap
		}
	}

	if s.Discount != nil && *s.Discount > 0 {
		discounted := round.Mul(decimal.NewFromFloat(*s.Discount))
		if discounted.LessThan(price) {
			price, reason = discounted, ByDiscount
		}
	}

	return Conversion{
		SAFEID:           s.ID,
		StakeholderID:    s.StakeholderID,
		Price:            price.InexactFloat64(),
		Reason:           reason,
		Shares:           decimalShares(amount.Div(price)),
		InvestmentAmount: s.Amount,
	}
}

// floatShares floors q to a share count, saturated at math.MaxInt64.
func floatShares(q float64) int64 {
	if q >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Floor(q))
}

var maxShares = decimal.NewFromInt(math.MaxInt64)

// decimalShares floors q to a share count, saturated at math.MaxInt64.
func decimalShares(q decimal.Decimal) int64 {
	if q.GreaterThanOrEqual(maxShares) {
		return math.MaxInt64
	}
	return q.Floor().IntPart()
}

// ConvertAll converts every SAFE of the record at roundPrice, using the issued plus
// vested options outstanding count of the cap table as the pre-conversion share count.
// Each SAFE uses its own post-money flag.
func ConvertAll(p Pricer, r *Record, ct CapTable, roundPrice float64) []Conversion {
	conversions := make([]Conversion, 0, len(r.SAFEs))
	for _, s := range r.SAFEs {
		conversions = append(conversions, p.Convert(s, roundPrice, ct.Totals.Outstanding, s.PostMoney))
	}
	return conversions
}
