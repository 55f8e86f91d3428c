package captable

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Issue codes reported by ValidateExtended.
const (
	CodeVersion          = "version"
	CodeSchema           = "schema"
	CodeIDFormat         = "id_format"
	CodeVesting          = "vesting"
	CodeDuplicateID      = "duplicate_id"
	CodeInvalidReference = "invalid_reference"
	CodePoolIssuance     = "pool_issuance"
	CodeClassCapacity    = "class_capacity"
	CodePoolCapacity     = "pool_capacity"
	CodeNoEquity         = "no_equity"
	CodeSAFETerms        = "safe_terms"
	CodeVestingStart     = "vesting_start"
	CodeBeforeFormation  = "before_formation"
)

// Issue is a single validation finding.
type Issue struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"` // JSON pointer into the record
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Code + ": " + i.Message
	}
	return fmt.Sprintf("%s: %s: %s", i.Code, i.Path, i.Message)
}

// ValidationResult collects every error and warning found in a record.
// Warnings never make a record invalid.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

func (v *ValidationResult) errorf(code, path, format string, args ...any) {
	v.Errors = append(v.Errors, Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

func (v *ValidationResult) warnf(code, path, format string, args ...any) {
	v.Warnings = append(v.Warnings, Issue{Code: code, Path: path, Message: fmt.Sprintf(format, args...)})
}

// Err returns nil for a valid result, and an error joining all the errors otherwise.
func (v ValidationResult) Err() error {
	if v.Valid {
		return nil
	}
	errs := make([]error, 0, len(v.Errors))
	for _, i := range v.Errors {
		errs = append(errs, errors.New(i.String()))
	}
	return errors.Join(errs...)
}

// ValidateExtended checks the structure of r and its cross-entity rules.
//
// Checks never stop at the first failure: schema version, structure, ids, references,
// class capacity, pool capacity, then business-rule warnings.
func ValidateExtended(r *Record) ValidationResult {
	var v ValidationResult
	checkVersion(&v, r)
	checkSchema(&v, r)
	checkIDs(&v, r)
	checkReferences(&v, r)
	checkClassCapacity(&v, r)
	checkPoolCapacity(&v, r)
	checkWarnings(&v, r)
	v.Valid = len(v.Errors) == 0
	return v
}

// ErrSchemaVersion reports a record that must be migrated before any computation.
var ErrSchemaVersion = errors.New("unsupported schema version")

// CheckSchemaVersion returns an error wrapping ErrSchemaVersion when records at
// version v cannot be processed.
func CheckSchemaVersion(v int) error {
	switch {
	case v < MinSchemaVersion:
		return fmt.Errorf("%w: %d is too old, minimum supported is %d", ErrSchemaVersion, v, MinSchemaVersion)
	case v > MaxSchemaVersion:
		return fmt.Errorf("%w: %d is newer than supported %d", ErrSchemaVersion, v, MaxSchemaVersion)
	}
	return nil
}

func checkVersion(v *ValidationResult, r *Record) {
	if err := CheckSchemaVersion(r.SchemaVersion); err != nil {
		v.errorf(CodeVersion, "/schemaVersion", "%v", err)
		return
	}
	if r.SchemaVersion != CurrentSchemaVersion {
		v.warnf(CodeVersion, "/schemaVersion", "schema version %d is supported but not current (%d), consider migrating", r.SchemaVersion, CurrentSchemaVersion)
	}
}

//go:embed schema/record.schema.json
var recordSchemaJSON string

const recordSchemaURL = "https://captable.local/record.schema.json"

// recordSchema is compiled once, the embedded schema is a constant of the binary.
var recordSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(recordSchemaURL, strings.NewReader(recordSchemaJSON)); err != nil {
		panic(fmt.Sprintf("record schema load failed: %v", err))
	}
	s, err := c.Compile(recordSchemaURL)
	if err != nil {
		panic(fmt.Sprintf("record schema compile failed: %v", err))
	}
	return s
}

// checkSchema validates the json form of the record against the embedded schema,
// and the vesting rules a schema cannot express.
func checkSchema(v *ValidationResult, r *Record) {
	raw, err := json.Marshal(r)
	if err != nil {
		v.errorf(CodeSchema, "", "record cannot be encoded: %v", err)
		return
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		v.errorf(CodeSchema, "", "record cannot be decoded: %v", err)
		return
	}
	if err := recordSchema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			v.errorf(CodeSchema, "", "%v", err)
		} else {
			for _, leaf := range leaves(ve) {
				v.errorf(CodeSchema, leaf.InstanceLocation, "%s", leaf.Message)
			}
		}
	}

	for i, g := range r.OptionGrants {
		if g.Vesting != nil && g.Vesting.CliffMonths > g.Vesting.MonthsTotal {
			v.errorf(CodeVesting, fmt.Sprintf("/optionGrants/%d/vesting", i),
				"cliff of %d months is longer than the %d months schedule", g.Vesting.CliffMonths, g.Vesting.MonthsTotal)
		}
	}
}

// leaves returns the most specific causes of a schema validation error.
func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

// checkIDs reports malformed ids and ids used more than once across all collections.
func checkIDs(v *ValidationResult, r *Record) {
	seen := make(map[string]string) // id -> path of first use
	visit := func(prefix, path, id string) {
		if err := CheckID(prefix, id); err != nil {
			v.errorf(CodeIDFormat, path, "%v", err)
		}
		if first, ok := seen[id]; ok {
			v.errorf(CodeDuplicateID, path, "duplicate id %q, already used by %s", id, first)
			return
		}
		seen[id] = path
	}

	if r.Company.ID != "" {
		visit(CompanyPrefix, "/company/id", r.Company.ID)
	}
	for i, x := range r.Stakeholders {
		visit(StakeholderPrefix, fmt.Sprintf("/stakeholders/%d/id", i), x.ID)
	}
	for i, x := range r.SecurityClasses {
		visit(SecurityClassPrefix, fmt.Sprintf("/securityClasses/%d/id", i), x.ID)
	}
	for i, x := range r.Issuances {
		visit(IssuancePrefix, fmt.Sprintf("/issuances/%d/id", i), x.ID)
	}
	for i, x := range r.OptionGrants {
		visit(OptionGrantPrefix, fmt.Sprintf("/optionGrants/%d/id", i), x.ID)
	}
	for i, x := range r.SAFEs {
		visit(SAFEPrefix, fmt.Sprintf("/safes/%d/id", i), x.ID)
	}
	for i, x := range r.Valuations {
		visit(ValuationPrefix, fmt.Sprintf("/valuations/%d/id", i), x.ID)
	}
}

func checkReferences(v *ValidationResult, r *Record) {
	stakeholders := make(map[string]bool, len(r.Stakeholders))
	for _, s := range r.Stakeholders {
		stakeholders[s.ID] = true
	}
	classes := make(map[string]bool, len(r.SecurityClasses))
	for _, c := range r.SecurityClasses {
		classes[c.ID] = true
	}

	ref := func(ok bool, collection string, i int, field, id string) {
		if !ok {
			v.errorf(CodeInvalidReference, fmt.Sprintf("/%s/%d/%s", collection, i, field),
				"invalid reference %s[%d].%s: %q does not exist", collection, i, field, id)
		}
	}
	for i, is := range r.Issuances {
		ref(stakeholders[is.StakeholderID], "issuances", i, "stakeholderId", is.StakeholderID)
		ref(classes[is.SecurityClassID], "issuances", i, "securityClassId", is.SecurityClassID)
	}
	for i, g := range r.OptionGrants {
		ref(stakeholders[g.StakeholderID], "optionGrants", i, "stakeholderId", g.StakeholderID)
	}
	for i, s := range r.SAFEs {
		ref(stakeholders[s.StakeholderID], "safes", i, "stakeholderId", s.StakeholderID)
	}
}

// checkClassCapacity checks issued against authorized quantities per class, and
// that no shares are issued directly out of an option pool.
func checkClassCapacity(v *ValidationResult, r *Record) {
	issued := make(map[string]int64)
	for i, is := range r.Issuances {
		c := r.SecurityClass(is.SecurityClassID)
		if c == nil {
			continue // reported as an invalid reference
		}
		if c.IsPool() {
			v.errorf(CodePoolIssuance, fmt.Sprintf("/issuances/%d/securityClassId", i),
				"issuance %q targets option pool %q, pools only back option grants", is.ID, c.ID)
			continue
		}
		issued[c.ID] += is.Quantity
	}
	for i, c := range r.SecurityClasses {
		if c.IsPool() {
			continue
		}
		if issued[c.ID] > c.Authorized {
			v.errorf(CodeClassCapacity, fmt.Sprintf("/securityClasses/%d", i),
				"issued %d exceeds authorized %d for security class %q", issued[c.ID], c.Authorized, c.ID)
		}
	}
}

func checkPoolCapacity(v *ValidationResult, r *Record) {
	granted, authorized := r.GrantedTotal(), r.PoolAuthorized()
	if granted > authorized {
		v.errorf(CodePoolCapacity, "/optionGrants",
			"option grants total %d exceed option pool authorized %d", granted, authorized)
	}
}

func checkWarnings(v *ValidationResult, r *Record) {
	holders := make(map[string]bool)
	for _, is := range r.Issuances {
		holders[is.StakeholderID] = true
	}
	for _, g := range r.OptionGrants {
		holders[g.StakeholderID] = true
	}
	for _, s := range r.SAFEs {
		holders[s.StakeholderID] = true
	}
	for i, s := range r.Stakeholders {
		if !holders[s.ID] {
			v.warnf(CodeNoEquity, fmt.Sprintf("/stakeholders/%d", i), "stakeholder %q holds no equity", s.ID)
		}
	}

	for i, s := range r.SAFEs {
		if s.Cap == nil && s.Discount == nil {
			v.warnf(CodeSAFETerms, fmt.Sprintf("/safes/%d", i), "SAFE %q has neither a valuation cap nor a discount", s.ID)
		}
	}

	for i, g := range r.OptionGrants {
		if g.Vesting != nil && g.Vesting.Start.Before(g.GrantDate) {
			v.warnf(CodeVestingStart, fmt.Sprintf("/optionGrants/%d/vesting/start", i),
				"grant %q vesting starts on %s, before its grant date %s", g.ID, g.Vesting.Start, g.GrantDate)
		}
	}

	// a missing formation date is a schema error, the zero date precedes every date.
	formed := r.Company.FormationDate
	for i, is := range r.Issuances {
		if is.Date.Before(formed) {
			v.warnf(CodeBeforeFormation, fmt.Sprintf("/issuances/%d/date", i),
				"issuance %q is dated %s, before company formation on %s", is.ID, is.Date, formed)
		}
	}
	for i, g := range r.OptionGrants {
		if g.GrantDate.Before(formed) {
			v.warnf(CodeBeforeFormation, fmt.Sprintf("/optionGrants/%d/grantDate", i),
				"grant %q is dated %s, before company formation on %s", g.ID, g.GrantDate, formed)
		}
	}
}
