package result

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// Statuses written into the shared results document. The workflow
// orchestrator reads these to decide what happens to the submission next.
const (
	StatusValidated = "VALIDATED"
	StatusScored    = "SCORED"
	StatusInvalid   = "INVALID"
)

// Keys owned by the harness. Anything else in the document belongs to
// other workflow steps and must survive a read-modify-write cycle.
const (
	KeyValidationStatus = "validation_status"
	KeyValidationErrors = "validation_errors"
	KeyScoreStatus      = "score_status"
	KeyScoreErrors      = "score_errors"
)

const (
	maxErrorChars = 500
	fileMode      = 0600
)

// Document is the results JSON document shared between the validation
// and scoring steps of the workflow.
type Document struct {
	path   string
	fields map[string]any
}

// Load reads the document at path. A missing file yields an empty
// document so the first workflow step can create it on Save.
func Load(path string) (*Document, error) {
	if path == "" {
		return nil, errors.New("results file path required")
	}

	d := &Document{
		path:   path,
		fields: make(map[string]any),
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return d, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading results file: %s", path)
	}
	if err := json.Unmarshal(b, &d.fields); err != nil {
		return nil, errors.Wrapf(err, "error parsing results file: %s", path)
	}

	return d, nil
}

// Set merges a single field into the document.
func (d *Document) Set(key string, val any) {
	d.fields[key] = val
}

// SetError merges an error message field, truncated to the document limit.
func (d *Document) SetError(key, msg string) {
	d.fields[key] = Truncate(msg)
}

// Get returns the raw field value.
func (d *Document) Get(key string) (any, bool) {
	v, ok := d.fields[key]
	return v, ok
}

// String returns the field value as a string, or "" when the field is
// absent or not a string.
func (d *Document) String(key string) string {
	v, ok := d.fields[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Validated reports whether the validation step marked the submission
// ready for scoring. An absent status means validation never ran, which
// fails the gate.
func (d *Document) Validated() bool {
	return d.String(KeyValidationStatus) == StatusValidated
}

// Save overwrites the document file with the merged fields.
func (d *Document) Save() error {
	b, err := json.Marshal(d.fields)
	if err != nil {
		return errors.Wrap(err, "error encoding results document")
	}
	if err := os.WriteFile(d.path, b, fileMode); err != nil {
		return errors.Wrapf(err, "error writing results file: %s", d.path)
	}
	return nil
}

// Truncate caps an error message to under 500 characters, marking the
// cut with an ellipsis.
func Truncate(msg string) string {
	if len(msg) < maxErrorChars {
		return msg
	}
	return msg[:maxErrorChars-4] + "..."
}
