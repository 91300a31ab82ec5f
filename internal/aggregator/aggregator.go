// Package aggregator runs the validator over every configured set directory
// and collects the results of one run.
package aggregator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/arcanaland/cardcheck/internal/config"
	"github.com/arcanaland/cardcheck/internal/schema"
	"github.com/arcanaland/cardcheck/internal/validator"
)

// FileError is one validation issue attributed to a card file
type FileError struct {
	File    string `json:"file" yaml:"file"`
	Message string `json:"message" yaml:"message"`
}

func (e FileError) String() string {
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// SetResult holds the tallies for one set directory
type SetResult struct {
	Name    string      `json:"name" yaml:"name"`
	Dir     string      `json:"dir" yaml:"dir"`
	Missing bool        `json:"missing,omitempty" yaml:"missing,omitempty"`
	Error   string      `json:"error,omitempty" yaml:"error,omitempty"`
	Total   int         `json:"total" yaml:"total"`
	Valid   int         `json:"valid" yaml:"valid"`
	Invalid int         `json:"invalid" yaml:"invalid"`
	Errors  []FileError `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Summary is the outcome of one validation run
type Summary struct {
	Schemas          []schema.Status `json:"schemas" yaml:"schemas"`
	Sets             []SetResult     `json:"sets" yaml:"sets"`
	Total            int             `json:"total" yaml:"total"`
	Valid            int             `json:"valid" yaml:"valid"`
	Invalid          int             `json:"invalid" yaml:"invalid"`
	MissingResources int             `json:"missingResources" yaml:"missingResources"`
}

// OK reports whether every record validated and every resource was found
func (s *Summary) OK() bool {
	return s.Invalid == 0 && s.MissingResources == 0
}

// Errors returns every file error in set order
func (s *Summary) Errors() []FileError {
	var all []FileError
	for _, set := range s.Sets {
		all = append(all, set.Errors...)
	}
	return all
}

// Aggregator validates the card files of each set in a stable order
type Aggregator struct {
	validator *validator.Validator
	pattern   string
	logger    zerolog.Logger
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithPattern sets the doublestar pattern card files must match,
// relative to the set directory
func WithPattern(pattern string) Option {
	return func(a *Aggregator) {
		a.pattern = pattern
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

func NewAggregator(v *validator.Validator, opts ...Option) *Aggregator {
	a := &Aggregator{
		validator: v,
		pattern:   config.DefaultPattern,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run validates every set and returns the run summary. Problems are
// collected into the summary, never returned.
func (a *Aggregator) Run(schemas []schema.Status, sets []config.Set) *Summary {
	summary := &Summary{Schemas: schemas}

	for _, st := range schemas {
		switch st.State {
		case schema.Missing:
			a.logger.Warn().Str("path", st.Path).Msg("schema not found")
			summary.MissingResources++
		case schema.Failed:
			a.logger.Warn().Str("category", string(st.Category)).Str("error", st.Error).Msg("schema could not be loaded")
			summary.MissingResources++
		}
	}

	for _, set := range sets {
		result := a.runSet(set)
		if result.Missing || result.Error != "" {
			summary.MissingResources++
		}
		summary.Total += result.Total
		summary.Valid += result.Valid
		summary.Invalid += result.Invalid
		summary.Sets = append(summary.Sets, result)
	}

	return summary
}

func (a *Aggregator) runSet(set config.Set) SetResult {
	result := SetResult{Name: set.Name, Dir: set.Path}
	if result.Name == "" {
		result.Name = config.SetName(set.Path)
	}

	info, err := os.Stat(set.Path)
	if err != nil || !info.IsDir() {
		a.logger.Warn().Str("path", set.Path).Msg("set directory not found")
		result.Missing = true
		return result
	}

	files, err := a.ListFiles(set.Path)
	if err != nil {
		a.logger.Warn().Err(err).Str("path", set.Path).Msg("could not list set directory")
		result.Error = err.Error()
		return result
	}

	a.logger.Debug().Str("set", result.Name).Int("files", len(files)).Msg("validating set")

	for _, file := range files {
		result.Total++
		issues := a.validator.ValidateFile(filepath.Join(set.Path, filepath.FromSlash(file)))

		if len(issues) == 0 {
			result.Valid++
			a.logger.Debug().Str("file", file).Msg("valid")
			continue
		}

		result.Invalid++
		a.logger.Debug().Str("file", file).Int("issues", len(issues)).Msg("invalid")
		for _, issue := range issues {
			result.Errors = append(result.Errors, FileError{File: file, Message: issue.String()})
		}
	}

	return result
}

// ListFiles returns the card files under dir matching the pattern, as
// slash-separated paths relative to dir, in lexicographic order
func (a *Aggregator) ListFiles(dir string) ([]string, error) {
	files, err := doublestar.Glob(os.DirFS(dir), a.pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("error matching %q in %s: %w", a.pattern, dir, err)
	}
	sort.Strings(files)
	return files, nil
}
