package captable

import "github.com/etnz/captable/date"

// f64 is a helper for test to set optional numbers.
func f64(v float64) *float64 { return &v }

// D is a helper for test to create dates from const.
func D(s string) date.Date { return date.MustParse(s) }

// newTestRecord returns a small valid record: two founders on common stock, an
// employee with a vesting grant, an investor with a SAFE.
func newTestRecord() *Record {
	r := NewRecord(Company{
		ID:            "co_acme",
		Name:          "Acme Inc.",
		FormationDate: D("2024-01-01"),
		EntityType:    CCorp,
		Jurisdiction:  "DE",
		Currency:      "USD",
	})
	r.Stakeholders = []Stakeholder{
		{ID: "sh_alice", Name: "Alice", Email: "alice@acme.test", Kind: Person},
		{ID: "sh_bob", Name: "Bob", Kind: Person},
		{ID: "sh_carol", Name: "Carol", Kind: Person},
		{ID: "sh_fund", Name: "Seed Fund", Kind: Entity},
	}
	r.SecurityClasses = []SecurityClass{
		{ID: "sc_common", Kind: Common, Label: "Common", Authorized: 10_000_000, ParValue: f64(0.0001)},
		{ID: "sc_pool", Kind: OptionPool, Label: "2024 Plan", Authorized: 1_000_000},
	}
	r.Issuances = []Issuance{
		{ID: "is_1", StakeholderID: "sh_alice", SecurityClassID: "sc_common", Quantity: 4_000_000, Date: D("2024-01-02")},
		{ID: "is_2", StakeholderID: "sh_bob", SecurityClassID: "sc_common", Quantity: 4_000_000, Date: D("2024-01-02")},
	}
	r.OptionGrants = []OptionGrant{
		{
			ID: "og_1", StakeholderID: "sh_carol", Quantity: 480_000, ExercisePrice: 0.1, GrantDate: D("2024-03-01"),
			Vesting: &Vesting{Start: D("2024-03-01"), MonthsTotal: 48, CliffMonths: 12},
		},
	}
	r.SAFEs = []SAFE{
		{ID: "safe_1", StakeholderID: "sh_fund", Amount: 500_000, Cap: f64(8_000_000), Discount: f64(0.8), Date: D("2024-06-01")},
	}
	r.Valuations = []Valuation{
		{ID: "val_1", Date: D("2024-06-01"), Type: "409A", SharePrice: f64(0.1), Provider: "Carta"},
	}
	return r
}
