// Package diagnostics reports data-quality problems on a workpaper.
//
// Evaluate only reports; it never blocks anything itself. Callers decide what
// a blocking finding means for them.
package diagnostics

import (
	"fmt"

	"github.com/Net-Advantage/ai-showcase/rental/internal/models"
)

// Severity ranks a finding.
type Severity string

// Finding severities.
const (
	SeverityBlocking Severity = "blocking"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Finding codes.
const (
	CodeIncomeMissing       = "income_missing"
	CodeDaysRentedMissing   = "days_rented_missing"
	CodeDaysRentedExceeded  = "days_rented_exceeds_year"
	CodeDaysPrivateMissing  = "days_private_missing"
	CodeDaysPrivateExceeded = "days_private_exceeds_year"
	CodeTotalDaysExceeded   = "total_days_exceed_year"
	CodeMixedUseActive      = "mixed_use_active"
	CodeCapitalExcluded     = "capital_excluded"
	CodeMissingEvidence     = "missing_evidence"
	CodeNotYetCalculated    = "not_yet_calculated"
)

// DaysInYear caps the day counts of a single tax year.
const DaysInYear = 365

// Finding is one diagnostic result.
type Finding struct {
	Severity Severity `json:"level"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Evaluate runs every rule against wp. evidence holds the existing evidence
// records that the workpaper's lines may cite; citations of anything else
// count as missing. Rules are independent and all applicable ones fire.
func Evaluate(wp *models.Workpaper, evidence []models.Evidence) []Finding {
	findings := []Finding{}
	if wp == nil {
		return findings
	}

	add := func(severity Severity, code, message string) {
		findings = append(findings, Finding{Severity: severity, Code: code, Message: message})
	}

	if !(wp.GrossRentalIncome > 0) {
		add(SeverityBlocking, CodeIncomeMissing, "Gross rental income is missing or zero.")
	}
	if wp.DaysRented <= 0 {
		add(SeverityBlocking, CodeDaysRentedMissing, "Days rented is missing or zero.")
	}
	if wp.DaysRented > DaysInYear {
		add(SeverityBlocking, CodeDaysRentedExceeded, "Days rented exceeds 365.")
	}
	if wp.MixedUse {
		if wp.DaysPrivate <= 0 {
			add(SeverityBlocking, CodeDaysPrivateMissing, "Mixed use is enabled but days private is missing or zero.")
		}
		if wp.DaysPrivate > DaysInYear {
			add(SeverityBlocking, CodeDaysPrivateExceeded, "Days private exceeds 365.")
		}
		if wp.DaysRented+wp.DaysPrivate > DaysInYear {
			add(SeverityBlocking, CodeTotalDaysExceeded, "Total days (rented + private) exceeds 365.")
		}
	}

	if wp.MixedUse {
		add(SeverityWarning, CodeMixedUseActive, "Mixed-use apportionment is active.")
	}
	if hasCapital(wp.ExpenseLines) {
		add(SeverityWarning, CodeCapitalExcluded, "Capital expenses are present and excluded from deductions.")
	}
	if missing := countUnevidenced(wp.ExpenseLines, evidence); missing > 0 {
		add(SeverityWarning, CodeMissingEvidence, fmt.Sprintf("%d expense line(s) have no linked evidence.", missing))
	}

	if wp.Status == models.StatusNotStarted {
		add(SeverityInfo, CodeNotYetCalculated, "Workpaper has not yet been calculated.")
	}

	return findings
}

// HasSeverity reports whether any finding has one of the given severities.
func HasSeverity(findings []Finding, severities ...Severity) bool {
	for _, f := range findings {
		for _, s := range severities {
			if f.Severity == s {
				return true
			}
		}
	}
	return false
}

// Blocking returns only the blocking findings.
func Blocking(findings []Finding) []Finding {
	blocking := []Finding{}
	for _, f := range findings {
		if f.Severity == SeverityBlocking {
			blocking = append(blocking, f)
		}
	}
	return blocking
}

func hasCapital(lines models.ExpenseLines) bool {
	for _, l := range lines {
		if l.IsCapital {
			return true
		}
	}
	return false
}

// countUnevidenced counts lines none of whose evidence IDs resolve.
func countUnevidenced(lines models.ExpenseLines, evidence []models.Evidence) int {
	existing := make(map[string]struct{}, len(evidence))
	for _, e := range evidence {
		existing[e.ID] = struct{}{}
	}

	count := 0
	for _, l := range lines {
		resolved := false
		for _, id := range l.EvidenceIDs {
			if _, ok := existing[id]; ok {
				resolved = true
				break
			}
		}
		if !resolved {
			count++
		}
	}
	return count
}
