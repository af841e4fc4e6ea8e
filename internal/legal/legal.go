// Package legal holds the shared vocabulary of the rental-law domain: case
// categories, risk and priority scales, contract data and statute citations.
package legal

import (
	"errors"
	"fmt"
	"strings"
)

type Category string

const (
	CategoryRentReduction    Category = "rent_reduction"
	CategoryRentIncrease     Category = "rent_increase"
	CategoryRentCap          Category = "rent_cap"
	CategoryDeposit          Category = "deposit"
	CategoryUtilityCosts     Category = "utility_costs"
	CategoryRepairs          Category = "repairs"
	CategoryModernization    Category = "modernization"
	CategoryTermination      Category = "termination"
	CategoryEviction         Category = "eviction"
	CategoryLandlordConflict Category = "landlord_conflict"
	CategoryNeighborDispute  Category = "neighbor_dispute"
	CategoryDiscrimination   Category = "discrimination"
	CategoryGeneral          Category = "general"
)

// Categories lists every known category in a stable order.
var Categories = []Category{
	CategoryRentReduction,
	CategoryRentIncrease,
	CategoryRentCap,
	CategoryDeposit,
	CategoryUtilityCosts,
	CategoryRepairs,
	CategoryModernization,
	CategoryTermination,
	CategoryEviction,
	CategoryLandlordConflict,
	CategoryNeighborDispute,
	CategoryDiscrimination,
	CategoryGeneral,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ConflictOriented reports whether cases of this category involve an
// adversarial relationship that calls for de-escalation.
func (c Category) ConflictOriented() bool {
	switch c {
	case CategoryEviction, CategoryLandlordConflict, CategoryNeighborDispute, CategoryDiscrimination:
		return true
	default:
		return false
	}
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	default:
		return false
	}
}

type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Rank orders severities; higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 3
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 1
	default:
		return 0
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities; higher is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type IssueType string

const (
	IssueExcessiveRent      IssueType = "excessive_rent"
	IssueExcessiveDeposit   IssueType = "excessive_deposit"
	IssueMissingInformation IssueType = "missing_information"
	IssueInvalidValue       IssueType = "invalid_value"
)

type UserRole string

const (
	RoleTenant   UserRole = "tenant"
	RoleLandlord UserRole = "landlord"
)

func (r UserRole) Valid() bool {
	return r == RoleTenant || r == RoleLandlord
}

// ParseUserRole normalizes a role string. Unknown values yield "".
func ParseUserRole(raw string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(raw)))
	if role.Valid() {
		return role
	}
	return ""
}

// Classification is the upstream assessment of a user's situation.
type Classification struct {
	Category              Category   `json:"category"`
	Confidence            float64    `json:"confidence"`
	RiskLevel             RiskLevel  `json:"riskLevel"`
	EscalationRecommended bool       `json:"escalationRecommended"`
	EstimatedComplexity   Complexity `json:"estimatedComplexity"`
}

// ErrInvalidClassification is returned by Classification.Validate.
var ErrInvalidClassification = errors.New("invalid classification")

// Validate checks the enum values and the confidence range. An empty
// complexity is accepted.
func (c Classification) Validate() error {
	switch {
	case !c.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidClassification, c.Category)
	case !c.RiskLevel.Valid():
		return fmt.Errorf("%w: unknown riskLevel %q", ErrInvalidClassification, c.RiskLevel)
	case c.EstimatedComplexity != "" && !c.EstimatedComplexity.Valid():
		return fmt.Errorf("%w: unknown estimatedComplexity %q", ErrInvalidClassification, c.EstimatedComplexity)
	case c.Confidence < 0 || c.Confidence > 1:
		return fmt.Errorf("%w: confidence %v outside [0,1]", ErrInvalidClassification, c.Confidence)
	}
	return nil
}

// ExtractedContractData holds fields read from a rental contract. Nil means
// the field could not be found.
type ExtractedContractData struct {
	LandlordName *string  `json:"landlordName,omitempty"`
	TenantName   *string  `json:"tenantName,omitempty"`
	Address      *string  `json:"address,omitempty"`
	RentAmount   *float64 `json:"rentAmount,omitempty"`
	SquareMeters *float64 `json:"squareMeters,omitempty"`
	Deposit      *float64 `json:"deposit,omitempty"`
}

// IsEmpty reports whether no field was extracted.
func (d ExtractedContractData) IsEmpty() bool {
	return d.LandlordName == nil && d.TenantName == nil && d.Address == nil &&
		d.RentAmount == nil && d.SquareMeters == nil && d.Deposit == nil
}

type Issue struct {
	Type       IssueType `json:"type"`
	Severity   Severity  `json:"severity"`
	LegalBasis string    `json:"legalBasis,omitempty"`
	Details    string    `json:"details,omitempty"`
	Field      string    `json:"field,omitempty"`
}

type ActionRecommendation struct {
	Action   string   `json:"action"`
	Priority Priority `json:"priority"`
	Details  string   `json:"details,omitempty"`
}

// String and Float build optional contract values.
func String(v string) *string { return &v }

func Float(v float64) *float64 { return &v }
