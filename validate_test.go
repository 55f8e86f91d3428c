package captable

import (
	"strings"
	"testing"

	"github.com/etnz/captable/date"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// codes returns the codes of the issues, in order.
func codes(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Code)
	}
	return out
}

func TestValidateExtended_Valid(t *testing.T) {
	res := ValidateExtended(newTestRecord())

	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.NoError(t, res.Err())
}

func TestValidateExtended_PoolExceeded(t *testing.T) {
	r := newTestRecord()
	r.SecurityClasses[1].Authorized = 1_000
	r.OptionGrants = []OptionGrant{{ID: "og_1", StakeholderID: "sh_carol", Quantity: 2_000, GrantDate: D("2024-03-01")}}

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, CodePoolCapacity, res.Errors[0].Code)
	assert.Contains(t, res.Errors[0].Message, "exceed option pool")
	assert.ErrorContains(t, res.Err(), "exceed option pool")
}

func TestValidateExtended_Version(t *testing.T) {
	tests := []struct {
		version      int
		valid        bool
		wantError    string
		wantWarnings int
	}{
		{0, false, "too old", 0},
		{MinSchemaVersion, true, "", 1},
		{CurrentSchemaVersion, true, "", 0},
		{MaxSchemaVersion + 1, false, "newer than supported", 0},
	}
	for _, tt := range tests {
		r := newTestRecord()
		r.SchemaVersion = tt.version
		res := ValidateExtended(r)

		assert.Equal(t, tt.valid, res.Valid, "version %d", tt.version)
		assert.Len(t, res.Warnings, tt.wantWarnings, "version %d", tt.version)
		if tt.wantError != "" {
			require.NotEmpty(t, res.Errors, "version %d", tt.version)
			assert.Equal(t, CodeVersion, res.Errors[0].Code)
			assert.Contains(t, res.Errors[0].Message, tt.wantError)
		}
	}
}

func TestCheckSchemaVersion(t *testing.T) {
	assert.NoError(t, CheckSchemaVersion(CurrentSchemaVersion))
	assert.NoError(t, CheckSchemaVersion(MinSchemaVersion))
	assert.ErrorIs(t, CheckSchemaVersion(MinSchemaVersion-1), ErrSchemaVersion)
	assert.ErrorIs(t, CheckSchemaVersion(MaxSchemaVersion+1), ErrSchemaVersion)
}

func TestValidateExtended_References(t *testing.T) {
	r := newTestRecord()
	r.Issuances[1].StakeholderID = "sh_nobody"
	r.Issuances[0].SecurityClassID = "sc_nothing"
	r.OptionGrants[0].StakeholderID = "sh_ghost"
	r.SAFEs[0].StakeholderID = "sh_phantom"

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	assert.Equal(t, []string{CodeInvalidReference, CodeInvalidReference, CodeInvalidReference, CodeInvalidReference}, codes(res.Errors))
	assert.Equal(t, "/issuances/0/securityClassId", res.Errors[0].Path)
	assert.Contains(t, res.Errors[1].Message, "issuances[1].stakeholderId")
	assert.Contains(t, res.Errors[2].Message, "optionGrants[0].stakeholderId")
	assert.Contains(t, res.Errors[3].Message, "safes[0].stakeholderId")
	// bob and carol hold nothing anymore that resolves to them, nor does the fund
	assert.Equal(t, []string{CodeNoEquity, CodeNoEquity, CodeNoEquity}, codes(res.Warnings))
}

func TestValidateExtended_DuplicateAndMalformedIDs(t *testing.T) {
	r := newTestRecord()
	r.Issuances[1].ID = "is_1"
	r.Valuations[0].ID = "sh_alice"

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	assert.Equal(t, []string{CodeDuplicateID, CodeIDFormat, CodeDuplicateID}, codes(res.Errors))
	assert.Equal(t, "/issuances/1/id", res.Errors[0].Path)
	assert.Contains(t, res.Errors[0].Message, "/issuances/0/id")
	assert.Equal(t, "/valuations/0/id", res.Errors[1].Path)
}

func TestValidateExtended_Capacity(t *testing.T) {
	r := newTestRecord()
	r.Issuances = append(r.Issuances,
		Issuance{ID: "is_3", StakeholderID: "sh_fund", SecurityClassID: "sc_common", Quantity: 2_500_000, Date: D("2024-06-01")},
		Issuance{ID: "is_4", StakeholderID: "sh_fund", SecurityClassID: "sc_pool", Quantity: 10, Date: D("2024-06-01")},
	)

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	assert.Equal(t, []string{CodePoolIssuance, CodeClassCapacity}, codes(res.Errors))
	assert.Contains(t, res.Errors[1].Message, "issued 10500000 exceeds authorized 10000000")
}

func TestValidateExtended_Schema(t *testing.T) {
	r := newTestRecord()
	r.Company.Currency = "dollars"
	r.OptionGrants[0].Vesting.MonthsTotal = 0
	r.Issuances[0].Quantity = -5
	r.SAFEs[0].Discount = f64(1.5)
	r.Stakeholders[0].Kind = StakeholderKind(9)

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	paths := make([]string, 0)
	for _, i := range res.Errors {
		if i.Code == CodeSchema {
			paths = append(paths, i.Path)
		}
	}
	assert.ElementsMatch(t, []string{
		"/company/currency",
		"/stakeholders/0/type",
		"/issuances/0/qty",
		"/optionGrants/0/vesting/monthsTotal",
		"/safes/0/discount",
	}, paths)
	// a zero length schedule is also shorter than its cliff
	assert.Contains(t, codes(res.Errors), CodeVesting)
}

func TestValidateExtended_MissingDates(t *testing.T) {
	r := newTestRecord()
	r.Company.FormationDate = date.Date{}
	r.Issuances[0].Date = date.Date{}

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	require.Equal(t, []string{CodeSchema, CodeSchema}, codes(res.Errors))
	byPath := map[string]string{}
	for _, i := range res.Errors {
		byPath[i.Path] = i.Message
	}
	assert.Contains(t, byPath["/company"], "formationDate")
	assert.Contains(t, byPath["/issuances/0"], "date")
	for _, i := range res.Errors {
		assert.NotContains(t, i.Message, "pattern")
	}
	assert.NotContains(t, codes(res.Warnings), CodeBeforeFormation)
}

func TestValidateExtended_CliffLongerThanSchedule(t *testing.T) {
	r := newTestRecord()
	r.OptionGrants[0].Vesting.CliffMonths = 60

	res := ValidateExtended(r)

	require.False(t, res.Valid)
	assert.Equal(t, []string{CodeVesting}, codes(res.Errors))
	assert.Equal(t, "/optionGrants/0/vesting", res.Errors[0].Path)
}

func TestValidateExtended_Warnings(t *testing.T) {
	r := newTestRecord()
	r.Stakeholders = append(r.Stakeholders, Stakeholder{ID: "sh_idle", Name: "Idle", Kind: Person})
	r.SAFEs[0].Cap, r.SAFEs[0].Discount = nil, nil
	r.Issuances[0].Date = D("2023-12-15")
	r.OptionGrants[0].GrantDate = D("2023-12-20")
	r.OptionGrants[0].Vesting.Start = D("2023-12-01")

	res := ValidateExtended(r)

	assert.True(t, res.Valid, "errors: %v", res.Errors)
	assert.Equal(t, []string{CodeNoEquity, CodeSAFETerms, CodeVestingStart, CodeBeforeFormation, CodeBeforeFormation}, codes(res.Warnings))
	for _, w := range res.Warnings {
		assert.NotEmpty(t, w.Path)
	}
}

func TestValidateExtended_OlderFormation(t *testing.T) {
	r := newTestRecord()
	r.Company.FormationDate = D("1990-01-01")
	r.Issuances[0].Date = D("1999-01-01")

	res := ValidateExtended(r)

	assert.True(t, res.Valid)
	assert.Empty(t, res.Warnings)
}

func TestIssueString(t *testing.T) {
	i := Issue{Code: CodeDuplicateID, Path: "/safes/0/id", Message: "duplicate"}
	assert.Equal(t, "duplicate_id: /safes/0/id: duplicate", i.String())
	assert.True(t, strings.HasPrefix(Issue{Code: "x", Message: "y"}.String(), "x: y"))
}

func TestCheckID(t *testing.T) {
	assert.NoError(t, CheckID(StakeholderPrefix, "sh_1"))
	for _, id := range []string{"", "sh_", "sc_1", "SH_1"} {
		err := CheckID(StakeholderPrefix, id)
		var ife *IDFormatError
		if assert.ErrorAs(t, err, &ife, "id %q", id) {
			assert.Equal(t, id, ife.ID)
		}
	}
}
