package captable

import "github.com/etnz/captable/date"

// VestedQty returns how many of total units are vested on asOf under schedule v.
//
// Nothing vests before the cliff (nor before the start, where elapsed months are
// negative). After the cliff, vesting is linear by whole months and capped at total.
// The result is floored and never decreases as asOf moves forward.
//
// A zero-length schedule is rejected by validation; here it is treated as fully
// vested once the start is reached, to avoid a division by zero.
func VestedQty(asOf date.Date, total int64, v Vesting) int64 {
	elapsed := asOf.MonthsSince(v.Start)
	if elapsed < v.CliffMonths {
		return 0
	}
	if v.MonthsTotal <= 0 {
		if elapsed < 0 {
			return 0
		}
		return total
	}
	months := min(elapsed, v.MonthsTotal)
	return total * int64(months) / int64(v.MonthsTotal)
}

// Vested returns the vested quantity of the grant on asOf.
// A grant without a vesting schedule is fully vested.
func (g OptionGrant) Vested(asOf date.Date) int64 {
	if g.Vesting == nil {
		return g.Quantity
	}
	return VestedQty(asOf, g.Quantity, *g.Vesting)
}
