package lease

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrInvalidSchema indicates a payload that parses as JSON but does not have
// the minimum shape of an analysis record.
var ErrInvalidSchema = errors.New("payload does not match record schema")

// recordGateSchema is the structural gate for model payloads. Only presence
// of the two anchor fields is required; everything else is normalized, not
// rejected, because the model routinely omits or malforms optional fields.
const recordGateSchema = `{
	"type": "object",
	"required": ["startDate", "riskScore"]
}`

var recordGate = jsonschema.MustCompileString("record.json", recordGateSchema)

// Validate checks that payload is a usable record and normalizes it.
//
// The structural gate fails with ErrInvalidSchema when the payload is not an
// object or lacks startDate/riskScore. Past the gate, Validate is total:
// list fields that are absent or not arrays become empty slices, string
// scalars pass through verbatim, and non-string scalars are dropped rather
// than coerced (the display layer presents missing values).
func Validate(payload json.RawMessage) (*Record, error) {
	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	if err := recordGate.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	fields := doc.(map[string]any)
	rec := &Record{
		StartDate:         stringField(fields, "startDate"),
		EndDate:           stringField(fields, "endDate"),
		RentAmount:        stringField(fields, "rentAmount"),
		Landlord:          stringField(fields, "landlord"),
		Tenant:            stringField(fields, "tenant"),
		PropertyAddress:   stringField(fields, "propertyAddress"),
		ClausesDetected:   listField(fields, "clausesDetected"),
		FlaggedIssues:     listField(fields, "flaggedIssues"),
		PolicyDeviations:  listField(fields, "policyDeviations"),
		RiskScore:         RiskScore(stringField(fields, "riskScore")),
		RiskJustification: stringField(fields, "riskJustification"),
		Summary:           stringField(fields, "summary"),
		AnalysisNotes:     stringField(fields, "analysisNotes"),
	}
	return rec, nil
}

// stringField returns the string value for key, or "" when the key is absent
// or holds a non-string value.
func stringField(fields map[string]any, key string) string {
	s, _ := fields[key].(string)
	return s
}

// listField returns the string elements for key. Absent keys and non-array
// values become an empty slice; non-string elements within an array are
// skipped. The result is never nil.
func listField(fields map[string]any, key string) []string {
	items, ok := fields[key].([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
