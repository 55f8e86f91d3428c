package renderer

import (
	"github.com/etnz/captable"
)

// CapTable is the data of a cap table report.
type CapTable struct {
	// Company is the company name.
	Company string `json:"company"`
	// Currency is the company currency.
	Currency string `json:"currency"`
	captable.CapTable
	// Classes summarizes each security class.
	Classes []Class `json:"classes"`
}

// Class is the usage of a security class. For an option pool Used is the total
// granted out of all pools.
type Class struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Kind       string   `json:"kind"`
	Authorized int64    `json:"authorized"`
	Used       int64    `json:"used"`
	ParValue   *float64 `json:"parValue,omitempty"`
}

// NewCapTable builds the cap table report of r from a computed cap table.
func NewCapTable(r *captable.Record, ct captable.CapTable) *CapTable {
	c := &CapTable{
		Company:  r.Company.Name,
		Currency: r.Company.Currency,
		CapTable: ct,
		Classes:  make([]Class, 0, len(r.SecurityClasses)),
	}

	issued := make(map[string]int64)
	for _, is := range r.Issuances {
		issued[is.SecurityClassID] += is.Quantity
	}
	for _, sc := range r.SecurityClasses {
		used := issued[sc.ID]
		if sc.IsPool() {
			used = ct.Totals.FullyDiluted.Grants
		}
		c.Classes = append(c.Classes, Class{
			ID:         sc.ID,
			Label:      sc.Label,
			Kind:       sc.Kind.String(),
			Authorized: sc.Authorized,
			Used:       used,
			ParValue:   sc.ParValue,
		})
	}
	return c
}

// CapTableMarkdown renders the cap table report.
func CapTableMarkdown(c *CapTable) string {
	partials := map[string]string{
		"captable_classes": "captable_classes.md",
	}
	return renderTemplate("captable", "captable.md", partials, c)
}
