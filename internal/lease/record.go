// Package lease defines the canonical analysis record for a single lease
// document and the validation that turns an untrusted model payload into one.
package lease

// RiskScore is the model's compliance risk assessment. The producing model
// is untrusted, so values outside the recognized set are passed through
// verbatim rather than rejected or coerced.
type RiskScore string

const (
	RiskLow      RiskScore = "Low"
	RiskModerate RiskScore = "Moderate"
	RiskHigh     RiskScore = "High"
	RiskNA       RiskScore = "N/A"
)

// Recognized reports whether the score is one of the documented values.
func (r RiskScore) Recognized() bool {
	switch r {
	case RiskLow, RiskModerate, RiskHigh, RiskNA:
		return true
	}
	return false
}

// Record is the structured result of analyzing one lease document.
//
// The three list fields are always non-nil, possibly empty, slices; Validate
// enforces this so display and export code never branch on shape. A record
// replaces any prior record wholesale on re-analysis; there is no field-level
// merge.
type Record struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	RentAmount      string `json:"rentAmount"`
	Landlord        string `json:"landlord"`
	Tenant          string `json:"tenant"`
	PropertyAddress string `json:"propertyAddress"`

	ClausesDetected  []string `json:"clausesDetected"`
	FlaggedIssues    []string `json:"flaggedIssues"`
	PolicyDeviations []string `json:"policyDeviations"`

	RiskScore         RiskScore `json:"riskScore"`
	RiskJustification string    `json:"riskJustification"`
	Summary           string    `json:"summary"`
	AnalysisNotes     string    `json:"analysisNotes"`

	// InternalNotes is never produced by the model. It is attached after
	// publication, mutated only by explicit user edit, and survives until
	// the record itself is replaced.
	InternalNotes string `json:"internalNotes,omitempty"`
}
