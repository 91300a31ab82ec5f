package aggregator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/cardcheck/internal/schema"
)

// Format selects how a Summary is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// MaxWidth caps the width of banner rules in the text report
const MaxWidth = 70

// ParseFormat maps a --format value to a Format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text, json or yaml)", s)
	}
}

// Write renders the summary in the given format
func Write(w io.Writer, s *Summary, format Format, width int) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, s)
	case FormatYAML:
		return WriteYAML(w, s)
	default:
		return WriteText(w, s, width)
	}
}

// WriteJSON renders the summary as indented JSON
func WriteJSON(w io.Writer, s *Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteYAML renders the summary as YAML
func WriteYAML(w io.Writer, s *Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return err
	}
	return enc.Close()
}

// WriteText renders the human-readable report
func WriteText(w io.Writer, s *Summary, width int) error {
	if width <= 0 || width > MaxWidth {
		width = MaxWidth
	}
	rule := strings.Repeat("=", width)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)
	ok := color.New(color.FgGreen)
	heading := color.New(color.FgCyan, color.Bold)

	var b strings.Builder

	fmt.Fprintln(&b, rule)
	heading.Fprintln(&b, "Pokemon TCG Card Data Validator")
	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b)

	// Schemas
	fmt.Fprintln(&b, "Loading schemas...")
	for _, st := range s.Schemas {
		switch st.State {
		case schema.Loaded:
			fmt.Fprintf(&b, "  Loaded: %s\n", st.Category)
			if st.SchemaError != "" {
				fail.Fprintf(&b, "    Schema error: %s\n", st.SchemaError)
			}
		case schema.Missing:
			warn.Fprintf(&b, "  WARNING: Schema not found: %s\n", st.Path)
		case schema.Failed:
			fail.Fprintf(&b, "  ERROR loading %s: %s\n", st.Category, st.Error)
		}
	}
	fmt.Fprintln(&b)

	// Sets
	for _, set := range s.Sets {
		if set.Missing {
			warn.Fprintf(&b, "WARNING: Set directory not found: %s\n", set.Dir)
			continue
		}

		fmt.Fprintf(&b, "Validating %s...\n", set.Name)
		switch {
		case set.Error != "":
			fail.Fprintf(&b, "  ERROR: %s\n", set.Error)
		case len(set.Errors) > 0:
			fail.Fprintf(&b, "  Found %d error(s) in %s\n", len(set.Errors), set.Name)
		default:
			ok.Fprintf(&b, "  All %d cards valid\n", set.Total)
		}
	}

	// Summary
	fmt.Fprintln(&b)
	fmt.Fprintln(&b, rule)
	heading.Fprintln(&b, "VALIDATION SUMMARY")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Total cards checked: %d\n", s.Total)
	fmt.Fprintf(&b, "Valid cards: %d\n", s.Valid)
	fmt.Fprintf(&b, "Invalid cards: %d\n", s.Invalid)
	fmt.Fprintln(&b)

	errs := s.Errors()
	if len(errs) > 0 {
		fail.Fprintln(&b, "ERRORS FOUND:")
		fmt.Fprintln(&b, strings.Repeat("-", width))
		for _, e := range errs {
			fmt.Fprintf(&b, "  %s\n", e)
		}
		fmt.Fprintln(&b)
	} else {
		ok.Fprintln(&b, "All cards passed validation!")
	}

	if s.MissingResources > 0 {
		warn.Fprintf(&b, "%d configured resource(s) could not be found\n", s.MissingResources)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
