package renderer

import (
	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
)

// Vesting is the data of a vesting report of option grants.
type Vesting struct {
	Company       string         `json:"company"`
	AsOf          date.Date      `json:"asOf"`
	Grants        []VestingGrant `json:"grants"`
	TotalGranted  int64          `json:"totalGranted"`
	TotalVested   int64          `json:"totalVested"`
	TotalUnvested int64          `json:"totalUnvested"`
}

// VestingGrant is the vesting state of a single grant.
type VestingGrant struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Granted       int64             `json:"granted"`
	Vested        int64             `json:"vested"`
	Unvested      int64             `json:"unvested"`
	PctVested     captable.Percent  `json:"pctVested"`
	Schedule      *captable.Vesting `json:"schedule,omitempty"`
	CliffDate     date.Date         `json:"cliffDate"`
	FullyVestedOn date.Date         `json:"fullyVestedOn"`
}

// NewVesting builds the vesting report of grants on asOf.
// Grants without a schedule are fully vested from their grant date.
func NewVesting(r *captable.Record, asOf date.Date, grants []captable.OptionGrant) *Vesting {
	v := &Vesting{
		Company: r.Company.Name,
		AsOf:    asOf,
		Grants:  make([]VestingGrant, 0, len(grants)),
	}
	for _, g := range grants {
		vested := g.Vested(asOf)
		vg := VestingGrant{
			ID:            g.ID,
			Name:          g.StakeholderID,
			Granted:       g.Quantity,
			Vested:        vested,
			Unvested:      g.Quantity - vested,
			Schedule:      g.Vesting,
			CliffDate:     g.GrantDate,
			FullyVestedOn: g.GrantDate,
		}
		if sh := r.Stakeholder(g.StakeholderID); sh != nil {
			vg.Name = sh.Name
		}
		if g.Quantity > 0 {
			vg.PctVested = captable.Percent(float64(vested) / float64(g.Quantity))
		}
		if s := g.Vesting; s != nil {
			vg.CliffDate = s.Start.Anniversary(s.CliffMonths)
			vg.FullyVestedOn = s.Start.Anniversary(s.MonthsTotal)
		}
		v.Grants = append(v.Grants, vg)
		v.TotalGranted += vg.Granted
		v.TotalVested += vg.Vested
		v.TotalUnvested += vg.Unvested
	}
	return v
}

// VestingMarkdown renders the vesting report.
func VestingMarkdown(v *Vesting) string {
	return renderTemplate("vesting", "vesting.md", nil, v)
}
