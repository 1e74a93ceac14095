package sanitize

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestSanitize_PlainJSON(t *testing.T) {
	got, err := Sanitize(`{"startDate":"2024-01-01","riskScore":"Low"}`)
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	if parsed["startDate"] != "2024-01-01" {
		t.Errorf("startDate = %v, want 2024-01-01", parsed["startDate"])
	}
}

func TestSanitize_FencedJSON(t *testing.T) {
	cases := map[string]string{
		"with language tag":    "```json\n{\"startDate\":\"2024-01-01\",\"riskScore\":\"Low\"}\n```",
		"without language tag": "```\n{\"startDate\":\"2024-01-01\",\"riskScore\":\"Low\"}\n```",
		"surrounding space":    "  \n```json\n{\"startDate\":\"2024-01-01\",\"riskScore\":\"Low\"}\n```\n  ",
		"closing fence on last body line": "```json\n{\"startDate\":\"2024-01-01\",\"riskScore\":\"Low\"}```",
	}

	want, err := Sanitize(`{"startDate":"2024-01-01","riskScore":"Low"}`)
	if err != nil {
		t.Fatalf("Sanitize(plain) error = %v", err)
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := Sanitize(input)
			if err != nil {
				t.Fatalf("Sanitize() error = %v", err)
			}
			if string(got) != string(want) {
				t.Errorf("fenced result %s differs from plain result %s", got, want)
			}
		})
	}
}

func TestSanitize_MultilineFencedBody(t *testing.T) {
	input := "```json\n{\n  \"startDate\": \"2024-01-01\",\n  \"clausesDetected\": [\"a\", \"b\"]\n}\n```"
	got, err := Sanitize(input)
	if err != nil {
		t.Fatalf("Sanitize() error = %v", err)
	}

	var parsed map[string]any
	if err := json.Unmarshal(got, &parsed); err != nil {
		t.Fatalf("result is not valid JSON: %v", err)
	}
	clauses, ok := parsed["clausesDetected"].([]any)
	if !ok || len(clauses) != 2 {
		t.Errorf("clausesDetected = %v, want 2 entries", parsed["clausesDetected"])
	}
}

func TestSanitize_ConversationalTextFails(t *testing.T) {
	_, err := Sanitize("Sorry, I can't help.")
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestSanitize_BrokenJSONFails(t *testing.T) {
	cases := map[string]string{
		"missing comma":    `{"a":"1" "b":"2"}`,
		"trailing comma":   `{"a":"1",}`,
		"unclosed object":  `{"a":"1"`,
		"empty input":      "",
		"whitespace only":  "   \n\t ",
		"fenced non-json":  "```json\nnot json at all\n```",
		"commentary first": `Here is your JSON: {"a":"1"}`,
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Sanitize(input); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("Sanitize(%q) error = %v, want ErrMalformedResponse", input, err)
			}
		})
	}
}

func TestSanitize_ErrorExcerptBounded(t *testing.T) {
	long := "not json " + strings.Repeat("x", 2000)
	_, err := Sanitize(long)
	if err == nil {
		t.Fatal("expected error for non-JSON input")
	}
	if len(err.Error()) > maxExcerptLen+100 {
		t.Errorf("error message length %d not bounded", len(err.Error()))
	}
	if !strings.HasSuffix(err.Error(), "...") {
		t.Errorf("truncated excerpt should end with ellipsis: %q", err.Error())
	}
}

func TestSanitize_NonObjectJSONStillParses(t *testing.T) {
	// Arrays and scalars parse here; rejecting them is the validator's job.
	for _, input := range []string{`[1,2,3]`, `"just a string"`, `42`} {
		if _, err := Sanitize(input); err != nil {
			t.Errorf("Sanitize(%q) error = %v, want nil", input, err)
		}
	}
}
