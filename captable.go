package captable

import "github.com/etnz/captable/date"

// CapTable is an ownership snapshot on a given date. It is derived from a Record
// and never persisted.
type CapTable struct {
	AsOf   date.Date `json:"asOf"`
	Rows   []Row     `json:"rows"`
	Totals Totals    `json:"totals"`
}

// Row is the holdings of a single stakeholder.
type Row struct {
	StakeholderID   string  `json:"stakeholderId"`
	Name            string  `json:"name"`
	Issued          int64   `json:"issued"`
	VestedOptions   int64   `json:"vestedOptions"`
	UnvestedOptions int64   `json:"unvestedOptions"`
	Granted         int64   `json:"granted"`
	Outstanding     int64   `json:"outstanding"`
	FullyDiluted    int64   `json:"fullyDiluted"`
	PctOutstanding  Percent `json:"pctOutstanding"`
	PctFullyDiluted Percent `json:"pctFullyDiluted"`
}

// Totals are the company-wide sums of a CapTable.
type Totals struct {
	Issued          int64        `json:"issued"`
	VestedOptions   int64        `json:"vestedOptions"`
	UnvestedOptions int64        `json:"unvestedOptions"`
	Outstanding     int64        `json:"outstanding"`
	FullyDiluted    FullyDiluted `json:"fd"`
}

// FullyDiluted breaks down the fully diluted share count.
//
// PoolRemaining is not floored: an over-granted pool shows up negative here and as
// an error in validation.
type FullyDiluted struct {
	Issued        int64 `json:"issued"`
	Grants        int64 `json:"grants"`
	PoolRemaining int64 `json:"poolRemaining"`
	TotalFD       int64 `json:"totalFD"`
}

// holdings accumulates per stakeholder quantities.
type holdings struct {
	issued, vested, unvested, granted int64
}

// CalcCap computes the cap table of r on asOf.
//
// Issuances into option pools are ignored, option grants count as outstanding once
// vested and as fully diluted as soon as granted. Rows follow the stakeholders order
// of the record; holdings of ids missing from the stakeholder list come last in the
// order they are first seen. Stakeholders with nothing outstanding and nothing fully
// diluted get no row.
func CalcCap(r *Record, asOf date.Date) CapTable {
	byID := make(map[string]*holdings)
	order := make([]string, 0, len(r.Stakeholders))
	get := func(id string) *holdings {
		h, ok := byID[id]
		if !ok {
			h = new(holdings)
			byID[id] = h
			order = append(order, id)
		}
		return h
	}
	for _, s := range r.Stakeholders {
		get(s.ID)
	}

	pools := make(map[string]bool)
	for _, c := range r.SecurityClasses {
		if c.IsPool() {
			pools[c.ID] = true
		}
	}

	var totals Totals
	for _, is := range r.Issuances {
		if pools[is.SecurityClassID] {
			continue
		}
		get(is.StakeholderID).issued += is.Quantity
		totals.Issued += is.Quantity
	}

	for _, g := range r.OptionGrants {
		vested := g.Vested(asOf)
		h := get(g.StakeholderID)
		h.vested += vested
		h.unvested += g.Quantity - vested
		h.granted += g.Quantity
		totals.VestedOptions += vested
		totals.UnvestedOptions += g.Quantity - vested
		totals.FullyDiluted.Grants += g.Quantity
	}

	totals.Outstanding = totals.Issued + totals.VestedOptions
	fd := &totals.FullyDiluted
	fd.Issued = totals.Issued
	fd.PoolRemaining = r.PoolAuthorized() - fd.Grants
	fd.TotalFD = fd.Issued + fd.Grants + fd.PoolRemaining

	rows := make([]Row, 0, len(order))
	for _, id := range order {
		h := byID[id]
		row := Row{
			StakeholderID:   id,
			Issued:          h.issued,
			VestedOptions:   h.vested,
			UnvestedOptions: h.unvested,
			Granted:         h.granted,
			Outstanding:     h.issued + h.vested,
			FullyDiluted:    h.issued + h.granted,
		}
		if row.Outstanding == 0 && row.FullyDiluted == 0 {
			continue
		}
		if s := r.Stakeholder(id); s != nil {
			row.Name = s.Name
		}
		row.PctOutstanding = ratio(row.Outstanding, totals.Outstanding)
		row.PctFullyDiluted = ratio(row.FullyDiluted, fd.TotalFD)
		rows = append(rows, row)
	}

	return CapTable{AsOf: asOf, Rows: rows, Totals: totals}
}

// ratio returns part/whole, or 0 when whole is 0.
func ratio(part, whole int64) Percent {
	if whole == 0 {
		return 0
	}
	return Percent(float64(part) / float64(whole))
}
