// Package rules evaluates extracted rental contract data against statutory
// thresholds and completeness requirements.
package rules

import (
	"fmt"
	"sort"

	"mietrecht-backend/internal/legal"
)

// Field names reported on issues.
const (
	FieldLandlordName = "landlordName"
	FieldTenantName   = "tenantName"
	FieldAddress      = "address"
	FieldRentAmount   = "rentAmount"
	FieldSquareMeters = "squareMeters"
	FieldDeposit      = "deposit"
)

// validity records which numeric fields may feed threshold checks.
type validity struct {
	rent    bool
	sqm     bool
	deposit bool
}

// Evaluate returns all issues found in data. Output is sorted by severity
// (most severe first), then type, then field.
func Evaluate(data legal.ExtractedContractData, t Thresholds) []legal.Issue {
	issues := make([]legal.Issue, 0, 8)
	issues = append(issues, missingInformation(data)...)
	invalid, ok := invalidValues(data)
	issues = append(issues, invalid...)
	issues = append(issues, excessiveDeposit(data, ok, t)...)
	issues = append(issues, excessiveRent(data, ok, t)...)
	sortIssues(issues)
	return issues
}

func missingInformation(data legal.ExtractedContractData) []legal.Issue {
	var out []legal.Issue
	missing := func(field string, severity legal.Severity, details string) {
		out = append(out, legal.Issue{
			Type:     legal.IssueMissingInformation,
			Severity: severity,
			Field:    field,
			Details:  details,
		})
	}
	if blank(data.LandlordName) {
		missing(FieldLandlordName, legal.SeverityInfo, "Landlord name could not be found in the contract.")
	}
	if blank(data.TenantName) {
		missing(FieldTenantName, legal.SeverityInfo, "Tenant name could not be found in the contract.")
	}
	if blank(data.Address) {
		missing(FieldAddress, legal.SeverityInfo, "Address of the rented property could not be found in the contract.")
	}
	if data.RentAmount == nil {
		missing(FieldRentAmount, legal.SeverityWarning, "Monthly rent could not be found; rent and deposit limits cannot be checked.")
	}
	return out
}

func invalidValues(data legal.ExtractedContractData) ([]legal.Issue, validity) {
	ok := validity{
		rent:    data.RentAmount != nil,
		sqm:     data.SquareMeters != nil,
		deposit: data.Deposit != nil,
	}
	var out []legal.Issue
	invalid := func(field, details string) {
		out = append(out, legal.Issue{
			Type:     legal.IssueInvalidValue,
			Severity: legal.SeverityError,
			Field:    field,
			Details:  details,
		})
	}
	if data.RentAmount != nil && *data.RentAmount <= 0 {
		ok.rent = false
		invalid(FieldRentAmount, fmt.Sprintf("Monthly rent must be positive, found %.2f EUR.", *data.RentAmount))
	}
	if data.SquareMeters != nil && *data.SquareMeters <= 0 {
		ok.sqm = false
		invalid(FieldSquareMeters, fmt.Sprintf("Living space must be positive, found %.2f m².", *data.SquareMeters))
	}
	if data.Deposit != nil && *data.Deposit < 0 {
		ok.deposit = false
		invalid(FieldDeposit, fmt.Sprintf("Deposit must not be negative, found %.2f EUR.", *data.Deposit))
	}
	return out, ok
}

func excessiveDeposit(data legal.ExtractedContractData, ok validity, t Thresholds) []legal.Issue {
	if !ok.rent || !ok.deposit {
		return nil
	}
	limit := t.Deposit.MaxMonthsRent * *data.RentAmount
	if *data.Deposit <= limit {
		return nil
	}
	return []legal.Issue{{
		Type:       legal.IssueExcessiveDeposit,
		Severity:   legal.SeverityWarning,
		LegalBasis: legal.BGB551,
		Field:      FieldDeposit,
		Details: fmt.Sprintf("Deposit of %.2f EUR exceeds the limit of %g monthly rents (%.2f EUR).",
			*data.Deposit, t.Deposit.MaxMonthsRent, limit),
	}}
}

func excessiveRent(data legal.ExtractedContractData, ok validity, t Thresholds) []legal.Issue {
	if !ok.rent {
		return nil
	}
	// A present but invalid living space makes the per-m² ceiling meaningless.
	if data.SquareMeters != nil && !ok.sqm {
		return nil
	}
	ceiling := t.RentCeiling(data.SquareMeters)
	if *data.RentAmount <= ceiling {
		return nil
	}
	details := fmt.Sprintf("Monthly rent of %.2f EUR exceeds the permissible ceiling of %.2f EUR.", *data.RentAmount, ceiling)
	if data.SquareMeters != nil {
		details = fmt.Sprintf("Monthly rent of %.2f EUR exceeds the comparative rent for %.2f m² plus %.0f%% (%.2f EUR).",
			*data.RentAmount, *data.SquareMeters, t.Rent.MaxExcessRatio*100, ceiling)
	}
	return []legal.Issue{{
		Type:       legal.IssueExcessiveRent,
		Severity:   legal.SeverityWarning,
		LegalBasis: legal.BGB556d,
		Field:      FieldRentAmount,
		Details:    details,
	}}
}

func blank(v *string) bool {
	if v == nil {
		return true
	}
	for _, r := range *v {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}

func sortIssues(items []legal.Issue) {
	sort.SliceStable(items, func(i, j int) bool {
		a := items[i]
		b := items[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Type != b.Type {
			return a.Type < b.Type
		}
		return a.Field < b.Field
	})
}
