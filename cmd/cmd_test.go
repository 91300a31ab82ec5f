package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardcheck/internal/aggregator"
	"github.com/arcanaland/cardcheck/internal/card"
	"github.com/arcanaland/cardcheck/internal/schema"
	"github.com/arcanaland/cardcheck/internal/validator"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestValidateCommand(t *testing.T) {
	root := t.TempDir()

	schemaDir := filepath.Join(root, "schemas")
	writeFile(t, filepath.Join(schemaDir, schema.FileName(card.Pokemon)),
		`{"type": "object", "required": ["name"]}`)
	writeFile(t, filepath.Join(schemaDir, schema.FileName(card.TrainerItem)), `{"type": "object"}`)
	writeFile(t, filepath.Join(schemaDir, schema.FileName(card.TrainerSupport)), `{"type": "object"}`)
	writeFile(t, filepath.Join(schemaDir, schema.FileName(card.Energy)), `{"type": "object"}`)

	set := filepath.Join(root, "01 - Base Set 1 (BS)", "card_details")
	writeFile(t, filepath.Join(set, "058-pikachu.json"), `{"cardType": "Pokemon", "name": "Pikachu"}`)
	writeFile(t, filepath.Join(set, "010-mewtwo.json"), `{"cardType": "Pokemon"}`)

	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs([]string{
		"validate",
		"--config", filepath.Join(root, "missing.toml"),
		"--schemas", schemaDir,
		"--set", set,
		"--format", "json",
	})
	t.Cleanup(func() {
		RootCmd.SetOut(nil)
		RootCmd.SetErr(nil)
		RootCmd.SetArgs(nil)
	})

	err := RootCmd.Execute()
	assert.ErrorIs(t, err, errValidationFailed)

	var summary aggregator.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 1, summary.Valid)
	assert.Equal(t, 1, summary.Invalid)
	assert.Zero(t, summary.MissingResources)
	require.Len(t, summary.Sets, 1)
	assert.Equal(t, "01 - Base Set 1 (BS)", summary.Sets[0].Name)
}

func TestSetsFromFlags(t *testing.T) {
	sets, err := setsFromFlags([]string{"relative/card_details"})
	require.NoError(t, err)
	require.Len(t, sets, 1)
	assert.True(t, filepath.IsAbs(sets[0].Path))
	assert.True(t, strings.HasSuffix(sets[0].Path, filepath.Join("relative", "card_details")))
}

func TestCardInfo(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	rec := card.Record{
		"cardType":  "Pokemon",
		"supertype": "Pokémon",
		"name":      "Pikachu",
		"subtypes":  []any{"Basic"},
		"hp":        40,
	}

	t.Run("valid", func(t *testing.T) {
		lines := cardInfo("058-pikachu.json", rec, card.Pokemon, nil, 60)
		text := strings.Join(lines, "\n")
		assert.Contains(t, text, "Card:     Pikachu")
		assert.Contains(t, text, "File:     058-pikachu.json")
		assert.Contains(t, text, "Category: pokemon")
		assert.Contains(t, text, "Subtypes: Basic")
		assert.Contains(t, text, "HP:       40")
		assert.Contains(t, text, "valid")
	})

	t.Run("issues", func(t *testing.T) {
		issues := []validator.Issue{{Path: "hp", Message: "got string, want integer"}}
		lines := cardInfo("058-pikachu.json", rec, card.Pokemon, issues, 60)
		text := strings.Join(lines, "\n")
		assert.Contains(t, text, "1 issue(s)")
		assert.Contains(t, text, "  - Validation error at 'hp': got string, want integer")
	})

	t.Run("unknown category", func(t *testing.T) {
		lines := cardInfo("x.json", card.Record{}, card.Unknown, nil, 60)
		text := strings.Join(lines, "\n")
		assert.Contains(t, text, "(unnamed)")
		assert.Contains(t, text, "unknown (missing)")
	})
}
