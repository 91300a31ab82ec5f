package validator

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/arcanaland/cardcheck/internal/card"
	"github.com/arcanaland/cardcheck/internal/schema"
)

// Issue is a single problem found in a card record
type Issue struct {
	// Path is empty for record-level problems and "root" for schema
	// violations that apply to the whole record.
	Path    string `json:"path,omitempty" yaml:"path,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("Validation error at '%s': %s", i.Path, i.Message)
}

// Validator checks card records against the schema for their category
type Validator struct {
	schemas *schema.Set
	printer *message.Printer
}

func NewValidator(schemas *schema.Set) *Validator {
	return &Validator{
		schemas: schemas,
		printer: message.NewPrinter(language.English),
	}
}

// ValidateFile validates the card record stored at path
func (v *Validator) ValidateFile(path string) []Issue {
	data, err := os.ReadFile(path)
	if err != nil {
		return []Issue{{Message: fmt.Sprintf("Error loading file: %v", err)}}
	}
	return v.ValidateBytes(data)
}

// ValidateBytes decodes a card record and validates it
func (v *Validator) ValidateBytes(data []byte) []Issue {
	rec, err := Decode(data)
	if err != nil {
		return []Issue{{Message: fmt.Sprintf("JSON parse error: %v", err)}}
	}
	return v.ValidateRecord(rec)
}

// ValidateRecord classifies a record and validates it against its schema
func (v *Validator) ValidateRecord(rec card.Record) []Issue {
	category := card.Classify(rec)
	if category == card.Unknown {
		return []Issue{{Message: fmt.Sprintf("Unknown card type: %s", rec.DescribeCardType())}}
	}
	return v.ValidateAs(rec, category)
}

// ValidateAs validates a record against the schema of the given category,
// skipping classification
func (v *Validator) ValidateAs(rec card.Record, category card.Category) []Issue {
	sch, err := v.schemas.Lookup(category)
	if err != nil {
		var ce *schema.CompileError
		if errors.As(err, &ce) {
			return []Issue{{Message: fmt.Sprintf("Schema error: %v", ce.Err)}}
		}
		return []Issue{{Message: fmt.Sprintf("No schema loaded for type: %s", category)}}
	}

	err = sch.Validate(map[string]any(rec))
	if err == nil {
		return nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []Issue{{Path: "root", Message: err.Error()}}
	}
	return v.collect(ve, nil)
}

// collect flattens the validation error tree into its leaf violations
func (v *Validator) collect(ve *jsonschema.ValidationError, issues []Issue) []Issue {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			issues = v.collect(cause, issues)
		}
		return issues
	}

	// Point required violations at the missing property itself
	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, prop := range req.Missing {
			location := append(append([]string{}, ve.InstanceLocation...), prop)
			issues = append(issues, Issue{
				Path:    FormatPath(location),
				Message: fmt.Sprintf("missing required property '%s'", prop),
			})
		}
		return issues
	}

	return append(issues, Issue{
		Path:    FormatPath(ve.InstanceLocation),
		Message: ve.ErrorKind.LocalizedString(v.printer),
	})
}

// FormatPath renders instance location tokens as a dotted/indexed path,
// e.g. attacks[0].damage. An empty location is "root".
func FormatPath(location []string) string {
	if len(location) == 0 {
		return "root"
	}

	var b strings.Builder
	for _, token := range location {
		if _, err := strconv.Atoi(token); err == nil {
			b.WriteString("[" + token + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteString(".")
		}
		b.WriteString(token)
	}
	return b.String()
}

// Decode parses a card record, keeping numbers as json.Number
func Decode(data []byte) (card.Record, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, got %s", describe(doc))
	}
	return card.Record(obj), nil
}

func describe(doc any) string {
	switch doc.(type) {
	case nil:
		return "null"
	case []any:
		return "an array"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	default:
		return "a number"
	}
}
