package cmd

import (
	"errors"
	"os"

	"golang.org/x/term"

	"github.com/arcanaland/cardcheck/internal/aggregator"
	"github.com/arcanaland/cardcheck/internal/schema"
)

var errValidationFailed = errors.New("validation failed")

// loadSchemas loads the schema set selected by the configuration
func loadSchemas() (*schema.Set, error) {
	dir, err := cfg.ResolveSchemaDir()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		logger.Debug().Msg("using embedded schemas")
		return schema.LoadEmbedded(), nil
	}
	logger.Debug().Str("dir", dir).Msg("loading schemas")
	return schema.Load(dir), nil
}

// terminalWidth returns the width of stdout, or the report width when
// stdout is not a terminal
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return aggregator.MaxWidth
	}
	return width
}
