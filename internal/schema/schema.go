// Package schema loads the per-category card schemas and compiles them once per run.
package schema

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/muhammadmuzzammil1998/jsonc"
	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/arcanaland/cardcheck/internal/card"
)

//go:embed schemas/*.json
var embedded embed.FS

// ErrNotLoaded is returned by Lookup when no document was loaded for a category
var ErrNotLoaded = errors.New("no schema loaded")

// State describes the outcome of loading one schema file
type State string

const (
	Loaded  State = "loaded"
	Missing State = "missing"
	Failed  State = "failed"
)

// Status reports how a category's schema document was loaded
type Status struct {
	Category card.Category `json:"category" yaml:"category"`
	Path     string        `json:"path" yaml:"path"`
	State    State         `json:"state" yaml:"state"`
	Error    string        `json:"error,omitempty" yaml:"error,omitempty"`
	// SchemaError is set when the document decoded but does not compile
	SchemaError string `json:"schemaError,omitempty" yaml:"schemaError,omitempty"`
}

// CompileError wraps a schema document that decoded but is not a valid schema
type CompileError struct {
	Category card.Category
	Err      error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("schema %s: %v", e.Category, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Set holds the compiled schemas for one run. It is immutable once loaded.
type Set struct {
	schemas     map[card.Category]*jsonschema.Schema
	compileErrs map[card.Category]error
	statuses    []Status
}

// FileName returns the schema file name for a category
func FileName(c card.Category) string {
	return string(c) + "-card-schema.json"
}

// Load reads the four schema files from a directory
func Load(dir string) *Set {
	return LoadFS(os.DirFS(dir), func(name string) string {
		return filepath.Join(dir, name)
	})
}

// LoadEmbedded loads the schemas bundled with the binary
func LoadEmbedded() *Set {
	sub, err := fs.Sub(embedded, "schemas")
	if err != nil {
		// embed paths are fixed at build time
		panic(err)
	}
	return LoadFS(sub, func(name string) string {
		return "embedded:" + name
	})
}

// LoadFS loads schema files from fsys. display turns a file name into the
// path shown in statuses.
func LoadFS(fsys fs.FS, display func(name string) string) *Set {
	s := &Set{
		schemas:     make(map[card.Category]*jsonschema.Schema),
		compileErrs: make(map[card.Category]error),
	}

	compiler := jsonschema.NewCompiler()
	var added []card.Category

	for _, c := range card.Categories {
		name := FileName(c)
		status := Status{Category: c, Path: display(name)}

		doc, err := readDocument(fsys, name)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			status.State = Missing
		case err != nil:
			status.State = Failed
			status.Error = err.Error()
		default:
			if err := compiler.AddResource(resourceURL(c), doc); err != nil {
				status.State = Failed
				status.Error = fmt.Sprintf("register schema: %v", err)
			} else {
				status.State = Loaded
				added = append(added, c)
			}
		}

		s.statuses = append(s.statuses, status)
	}

	// Compile after every resource is registered so cross-file $refs resolve
	for _, c := range added {
		sch, err := compiler.Compile(resourceURL(c))
		if err != nil {
			s.compileErrs[c] = err
			s.setSchemaError(c, err)
			continue
		}
		s.schemas[c] = sch
	}

	return s
}

func readDocument(fsys fs.FS, name string) (any, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(jsonc.ToJSON(data)))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return doc, nil
}

func resourceURL(c card.Category) string {
	return "mem://cardcheck/" + FileName(c)
}

func (s *Set) setSchemaError(c card.Category, err error) {
	for i := range s.statuses {
		if s.statuses[i].Category == c {
			s.statuses[i].SchemaError = err.Error()
		}
	}
}

// Lookup returns the compiled schema for a category. It returns ErrNotLoaded
// when no document was loaded and a *CompileError when the document is broken.
func (s *Set) Lookup(c card.Category) (*jsonschema.Schema, error) {
	if sch, ok := s.schemas[c]; ok {
		return sch, nil
	}
	if err, ok := s.compileErrs[c]; ok {
		return nil, &CompileError{Category: c, Err: err}
	}
	return nil, fmt.Errorf("%w for type: %s", ErrNotLoaded, c)
}

// Statuses returns the load status of every category in reporting order
func (s *Set) Statuses() []Status {
	out := make([]Status, len(s.statuses))
	copy(out, s.statuses)
	return out
}

// MissingCount counts categories whose document could not be loaded
func (s *Set) MissingCount() int {
	n := 0
	for _, st := range s.statuses {
		if st.State != Loaded {
			n++
		}
	}
	return n
}
