package lease

import (
	"fmt"
	"io"
	"strings"
)

// csvHeaders is the fixed header row for the CSV export artifact.
var csvHeaders = []string{
	"Start Date", "End Date", "Rent Amount", "Landlord", "Tenant",
	"Property Address", "Clauses Detected", "Flagged Issues",
	"Risk Score", "Risk Justification", "Policy Deviations",
	"AI Summary", "AI Analysis Notes", "Internal Notes",
}

// WriteCSV writes the record as a two-row CSV: one header row and one data
// row. Every field is double-quote wrapped with embedded quotes doubled, and
// list fields are joined with "; ".
func (r *Record) WriteCSV(w io.Writer) error {
	row := []string{
		r.StartDate,
		r.EndDate,
		r.RentAmount,
		r.Landlord,
		r.Tenant,
		r.PropertyAddress,
		strings.Join(r.ClausesDetected, "; "),
		strings.Join(r.FlaggedIssues, "; "),
		string(r.RiskScore),
		r.RiskJustification,
		strings.Join(r.PolicyDeviations, "; "),
		r.Summary,
		r.AnalysisNotes,
		r.InternalNotes,
	}

	if _, err := fmt.Fprintln(w, strings.Join(csvHeaders, ",")); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	quoted := make([]string, len(row))
	for i, field := range row {
		quoted[i] = `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	if _, err := fmt.Fprintln(w, strings.Join(quoted, ",")); err != nil {
		return fmt.Errorf("failed to write CSV row: %w", err)
	}
	return nil
}
