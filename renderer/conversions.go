package renderer

import (
	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
)

// Conversions is the data of a SAFE conversion report at a priced round.
type Conversions struct {
	Company     string          `json:"company"`
	Currency    string          `json:"currency"`
	AsOf        date.Date       `json:"asOf"`
	RoundPrice  float64         `json:"roundPrice"`
	Outstanding int64           `json:"outstanding"`
	Rows        []ConversionRow `json:"conversions"`
	TotalAmount float64         `json:"totalAmount"`
	TotalShares int64           `json:"totalShares"`
}

// ConversionRow is a single SAFE conversion with the SAFE terms.
type ConversionRow struct {
	captable.Conversion
	Name      string   `json:"name"`
	Cap       *float64 `json:"cap,omitempty"`
	Discount  *float64 `json:"discount,omitempty"`
	PostMoney bool     `json:"postMoney,omitempty"`
}

// NewConversions builds the conversion report of the SAFEs of r. outstanding is the
// share count conversions were priced against.
func NewConversions(r *captable.Record, asOf date.Date, roundPrice float64, outstanding int64, convs []captable.Conversion) *Conversions {
	c := &Conversions{
		Company:     r.Company.Name,
		Currency:    r.Company.Currency,
		AsOf:        asOf,
		RoundPrice:  roundPrice,
		Outstanding: outstanding,
		Rows:        make([]ConversionRow, 0, len(convs)),
	}
	for _, cv := range convs {
		row := ConversionRow{Conversion: cv, Name: cv.StakeholderID}
		if sh := r.Stakeholder(cv.StakeholderID); sh != nil {
			row.Name = sh.Name
		}
		if s := r.SAFE(cv.SAFEID); s != nil {
			row.Cap, row.Discount, row.PostMoney = s.Cap, s.Discount, s.PostMoney
		}
		c.Rows = append(c.Rows, row)
		c.TotalAmount += cv.InvestmentAmount
		c.TotalShares += cv.Shares
	}
	return c
}

// ConversionsMarkdown renders the conversion report.
func ConversionsMarkdown(c *Conversions) string {
	return renderTemplate("conversions", "conversions.md", nil, c)
}
