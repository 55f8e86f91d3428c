package captable

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/captable/date"
)

// Schema versions of the persisted record this package understands.
const (
	MinSchemaVersion     = 1
	CurrentSchemaVersion = 2
	MaxSchemaVersion     = CurrentSchemaVersion
)

// Record is the root aggregate holding every capitalization record of one company.
//
// Functions of this package only read a Record. Callers must not mutate it while a
// computation over it is in flight.
type Record struct {
	SchemaVersion   int             `json:"schemaVersion"`
	Company         Company         `json:"company"`
	Stakeholders    []Stakeholder   `json:"stakeholders"`
	SecurityClasses []SecurityClass `json:"securityClasses"`
	Issuances       []Issuance      `json:"issuances"`
	OptionGrants    []OptionGrant   `json:"optionGrants"`
	SAFEs           []SAFE          `json:"safes"`
	Valuations      []Valuation     `json:"valuations"`
	Audit           []AuditEntry    `json:"audit"`
}

// NewRecord returns an empty record at the current schema version.
func NewRecord(c Company) *Record {
	return &Record{
		SchemaVersion:   CurrentSchemaVersion,
		Company:         c,
		Stakeholders:    make([]Stakeholder, 0),
		SecurityClasses: make([]SecurityClass, 0),
		Issuances:       make([]Issuance, 0),
		OptionGrants:    make([]OptionGrant, 0),
		SAFEs:           make([]SAFE, 0),
		Valuations:      make([]Valuation, 0),
		Audit:           make([]AuditEntry, 0),
	}
}

// Company describes the issuer.
type Company struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	FormationDate date.Date  `json:"formationDate,omitzero"`
	EntityType    EntityType `json:"entityType"`
	Jurisdiction  string     `json:"jurisdiction"`
	Currency      string     `json:"currency"`
}

// Stakeholder is a person or an entity that may hold equity.
type Stakeholder struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email,omitempty"`
	Kind  StakeholderKind `json:"type"`
}

// SecurityClass is a class of shares, or an option pool when Kind is OptionPool.
type SecurityClass struct {
	ID         string    `json:"id"`
	Kind       ClassKind `json:"kind"`
	Label      string    `json:"label"`
	Authorized int64     `json:"authorized"`
	ParValue   *float64  `json:"parValue,omitempty"`
}

// IsPool reports whether the class is an option pool.
func (c SecurityClass) IsPool() bool { return c.Kind == OptionPool }

// Issuance records shares of a class issued to a stakeholder.
type Issuance struct {
	ID              string    `json:"id"`
	StakeholderID   string    `json:"stakeholderId"`
	SecurityClassID string    `json:"securityClassId"`
	Quantity        int64     `json:"qty"`
	PricePerShare   *float64  `json:"pps,omitempty"`
	Date            date.Date `json:"date,omitzero"`
	Certificate     string    `json:"cert,omitempty"`
}

// Vesting is a monthly vesting schedule with a cliff.
type Vesting struct {
	Start       date.Date `json:"start,omitzero"`
	MonthsTotal int       `json:"monthsTotal"`
	CliffMonths int       `json:"cliffMonths"`
}

// OptionGrant records options granted to a stakeholder out of the option pools.
//
// Grants are not linked to a particular pool: capacity is checked against the sum of
// all pools, so a company with several pools cannot see per-pool remaining capacity.
type OptionGrant struct {
	ID            string    `json:"id"`
	StakeholderID string    `json:"stakeholderId"`
	Quantity      int64     `json:"qty"`
	ExercisePrice float64   `json:"exercise"`
	GrantDate     date.Date `json:"grantDate,omitzero"`
	Vesting       *Vesting  `json:"vesting,omitempty"`
}

// SAFE is a simple agreement for future equity.
type SAFE struct {
	ID            string    `json:"id"`
	StakeholderID string    `json:"stakeholderId"`
	Amount        float64   `json:"amount"`
	Cap           *float64  `json:"cap,omitempty"`
	Discount      *float64  `json:"discount,omitempty"`
	PostMoney     bool      `json:"postMoney,omitempty"`
	Date          date.Date `json:"date,omitzero"`
	Note          string    `json:"note,omitempty"`
}

// Valuation is a point-in-time valuation of the company.
type Valuation struct {
	ID          string    `json:"id"`
	Date        date.Date `json:"date,omitzero"`
	Type        string    `json:"type"`
	PreMoney    *float64  `json:"preMoney,omitempty"`
	PostMoney   *float64  `json:"postMoney,omitempty"`
	SharePrice  *float64  `json:"sharePrice,omitempty"`
	Methodology string    `json:"methodology,omitempty"`
	Provider    string    `json:"provider,omitempty"`
}

// AuditEntry is an append-only trace of a mutation.
type AuditEntry struct {
	Timestamp string         `json:"ts"`
	Actor     string         `json:"by"`
	Action    string         `json:"action"`
	Data      map[string]any `json:"data,omitempty"`
}

// Stakeholder returns the stakeholder with this id, or nil if unknown.
func (r *Record) Stakeholder(id string) *Stakeholder {
	for i := range r.Stakeholders {
		if r.Stakeholders[i].ID == id {
			return &r.Stakeholders[i]
		}
	}
	return nil
}

// SecurityClass returns the security class with this id, or nil if unknown.
func (r *Record) SecurityClass(id string) *SecurityClass {
	for i := range r.SecurityClasses {
		if r.SecurityClasses[i].ID == id {
			return &r.SecurityClasses[i]
		}
	}
	return nil
}

// OptionGrant returns the grant with this id, or nil if unknown.
func (r *Record) OptionGrant(id string) *OptionGrant {
	for i := range r.OptionGrants {
		if r.OptionGrants[i].ID == id {
			return &r.OptionGrants[i]
		}
	}
	return nil
}

// SAFE returns the SAFE with this id, or nil if unknown.
func (r *Record) SAFE(id string) *SAFE {
	for i := range r.SAFEs {
		if r.SAFEs[i].ID == id {
			return &r.SAFEs[i]
		}
	}
	return nil
}

// PoolAuthorized returns the sum of authorized quantities over all option pools.
func (r *Record) PoolAuthorized() int64 {
	var total int64
	for _, c := range r.SecurityClasses {
		if c.IsPool() {
			total += c.Authorized
		}
	}
	return total
}

// GrantedTotal returns the sum of all option grants quantities.
func (r *Record) GrantedTotal() int64 {
	var total int64
	for _, g := range r.OptionGrants {
		total += g.Quantity
	}
	return total
}

// ID prefixes by entity type.
const (
	CompanyPrefix       = "co_"
	StakeholderPrefix   = "sh_"
	SecurityClassPrefix = "sc_"
	IssuancePrefix      = "is_"
	OptionGrantPrefix   = "og_"
	SAFEPrefix          = "safe_"
	ValuationPrefix     = "val_"
)

// IDFormatError is returned for an id that does not carry the expected prefix.
type IDFormatError struct {
	ID     string
	Prefix string
}

func (e *IDFormatError) Error() string {
	return fmt.Sprintf("malformed id %q: want prefix %q followed by at least one character", e.ID, e.Prefix)
}

// CheckID returns an *IDFormatError unless id is prefix followed by a non-empty suffix.
func CheckID(prefix, id string) error {
	if !strings.HasPrefix(id, prefix) || len(id) == len(prefix) {
		return &IDFormatError{ID: id, Prefix: prefix}
	}
	return nil
}

// EntityType is the legal form of the company.
type EntityType int

const (
	CCorp EntityType = iota
	SCorp
	LLC
)

func (e EntityType) String() string {
	switch e {
	case CCorp:
		return "C_CORP"
	case SCorp:
		return "S_CORP"
	case LLC:
		return "LLC"
	default:
		return fmt.Sprintf("EntityType(%d)", int(e))
	}
}

// ParseEntityType parses a string into an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	switch s {
	case "C_CORP":
		return CCorp, nil
	case "S_CORP":
		return SCorp, nil
	case "LLC":
		return LLC, nil
	default:
		return 0, fmt.Errorf("unknown entity type: %q", s)
	}
}

func (e EntityType) MarshalJSON() ([]byte, error) { return json.Marshal(e.String()) }
func (e *EntityType) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, e, ParseEntityType)
}

// StakeholderKind tells people from organizations.
type StakeholderKind int

const (
	Person StakeholderKind = iota
	Entity
)

func (k StakeholderKind) String() string {
	switch k {
	case Person:
		return "person"
	case Entity:
		return "entity"
	default:
		return fmt.Sprintf("StakeholderKind(%d)", int(k))
	}
}

// ParseStakeholderKind parses a string into a StakeholderKind.
func ParseStakeholderKind(s string) (StakeholderKind, error) {
	switch s {
	case "person":
		return Person, nil
	case "entity":
		return Entity, nil
	default:
		return 0, fmt.Errorf("unknown stakeholder kind: %q", s)
	}
}

func (k StakeholderKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }
func (k *StakeholderKind) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, k, ParseStakeholderKind)
}

// ClassKind is the kind of a security class.
type ClassKind int

const (
	Common ClassKind = iota
	Preferred
	OptionPool
)

func (k ClassKind) String() string {
	switch k {
	case Common:
		return "COMMON"
	case Preferred:
		return "PREF"
	case OptionPool:
		return "OPTION_POOL"
	default:
		return fmt.Sprintf("ClassKind(%d)", int(k))
	}
}

// ParseClassKind parses a string into a ClassKind.
func ParseClassKind(s string) (ClassKind, error) {
	switch s {
	case "COMMON":
		return Common, nil
	case "PREF":
		return Preferred, nil
	case "OPTION_POOL":
		return OptionPool, nil
	default:
		return 0, fmt.Errorf("unknown security class kind: %q", s)
	}
}

func (k ClassKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }
func (k *ClassKind) UnmarshalJSON(b []byte) error {
	return unmarshalEnum(b, k, ParseClassKind)
}

// unmarshalEnum decodes a json string with the given parser.
func unmarshalEnum[T any](b []byte, dst *T, parse func(string) (T, error)) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := parse(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
