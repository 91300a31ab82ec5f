package validator

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/cardcheck/internal/card"
	"github.com/arcanaland/cardcheck/internal/schema"
)

const pokemonSchema = `{
	"type": "object",
	"required": ["name", "cardType"],
	"properties": {
		"name": {"type": "string"},
		"hp": {"type": "integer"},
		"attacks": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {"damage": {"type": "string"}}
			}
		}
	}
}`

const trainerItemSchema = `{"type": "object", "maxProperties": 3}`

const trainerSupportSchema = `{
	"type": "object",
	"required": ["subtypes"],
	"properties": {
		"subtypes": {"type": "array", "contains": {"const": "Supporter"}}
	}
}`

func testValidator(t *testing.T, files map[string]string) *Validator {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	return NewValidator(schema.LoadFS(fsys, func(name string) string { return name }))
}

func defaultValidator(t *testing.T) *Validator {
	return testValidator(t, map[string]string{
		schema.FileName(card.Pokemon):        pokemonSchema,
		schema.FileName(card.TrainerItem):    trainerItemSchema,
		schema.FileName(card.TrainerSupport): trainerSupportSchema,
	})
}

func TestValidateBytes(t *testing.T) {
	v := defaultValidator(t)

	tests := []struct {
		name   string
		record string
		want   []Issue
	}{
		{
			name:   "valid pokemon",
			record: `{"cardType": "Pokemon", "name": "Pikachu", "hp": 60}`,
			want:   nil,
		},
		{
			name:   "pokemon missing name",
			record: `{"cardType": "Pokemon", "hp": 60}`,
			want:   []Issue{{Path: "name", Message: "missing required property 'name'"}},
		},
		{
			name:   "supporter validated against trainer-support",
			record: `{"cardType": "trainer", "subtypes": ["Supporter"]}`,
			want:   nil,
		},
		{
			name:   "unknown card type",
			record: `{"cardType": "Stadium"}`,
			want:   []Issue{{Message: "Unknown card type: Stadium"}},
		},
		{
			name:   "missing card type",
			record: `{"name": "Bill"}`,
			want:   []Issue{{Message: "Unknown card type: missing"}},
		},
		{
			name:   "no schema loaded",
			record: `{"cardType": "energy"}`,
			want:   []Issue{{Message: "No schema loaded for type: energy"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ValidateBytes([]byte(tt.record)))
		})
	}
}

func TestValidateBytesFieldPaths(t *testing.T) {
	v := defaultValidator(t)

	t.Run("wrong type", func(t *testing.T) {
		issues := v.ValidateBytes([]byte(`{"cardType": "pokemon", "name": "Pikachu", "hp": "sixty"}`))
		require.Len(t, issues, 1)
		assert.Equal(t, "hp", issues[0].Path)
		assert.Contains(t, issues[0].Message, "integer")
		assert.True(t, strings.HasPrefix(issues[0].String(), "Validation error at 'hp': "))
	})

	t.Run("whole record", func(t *testing.T) {
		issues := v.ValidateBytes([]byte(`{"cardType": "trainer", "a": 1, "b": 2, "c": 3}`))
		require.Len(t, issues, 1)
		assert.Equal(t, "root", issues[0].Path)
	})

	t.Run("nested array element", func(t *testing.T) {
		issues := v.ValidateBytes([]byte(`{"cardType": "pokemon", "name": "Raichu", "attacks": [{"damage": 30}]}`))
		require.Len(t, issues, 1)
		assert.Equal(t, "attacks[0].damage", issues[0].Path)
	})

	t.Run("every violation reported", func(t *testing.T) {
		issues := v.ValidateBytes([]byte(`{"cardType": "pokemon", "hp": 1.5}`))
		require.Len(t, issues, 2)
		paths := []string{issues[0].Path, issues[1].Path}
		assert.ElementsMatch(t, []string{"name", "hp"}, paths)
	})
}

func TestValidateBytesParseErrors(t *testing.T) {
	v := defaultValidator(t)

	for _, input := range []string{`{"cardType":`, ``, `[1, 2]`, `"pokemon"`} {
		issues := v.ValidateBytes([]byte(input))
		require.Len(t, issues, 1, input)
		assert.True(t, strings.HasPrefix(issues[0].Message, "JSON parse error: "), issues[0].Message)
		assert.Empty(t, issues[0].Path)
	}
}

func TestValidateIdempotent(t *testing.T) {
	v := defaultValidator(t)
	data := []byte(`{"cardType": "pokemon", "hp": "sixty", "attacks": [{"damage": 10}]}`)

	first := v.ValidateBytes(data)
	second := v.ValidateBytes(data)
	assert.NotEmpty(t, first)
	assert.Equal(t, first, second)
}

func TestValidateSchemaError(t *testing.T) {
	v := testValidator(t, map[string]string{
		schema.FileName(card.Pokemon): `{"type": 12}`,
	})

	issues := v.ValidateBytes([]byte(`{"cardType": "pokemon", "name": "Mew"}`))
	require.Len(t, issues, 1)
	assert.True(t, strings.HasPrefix(issues[0].Message, "Schema error: "), issues[0].Message)
}

func TestValidateAs(t *testing.T) {
	v := defaultValidator(t)

	rec, err := Decode([]byte(`{"cardType": "Stadium"}`))
	require.NoError(t, err)

	issues := v.ValidateAs(rec, card.TrainerSupport)
	assert.Equal(t, []Issue{{Path: "subtypes", Message: "missing required property 'subtypes'"}}, issues)
}

func TestValidateFile(t *testing.T) {
	v := defaultValidator(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "base1-58.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cardType": "Pokemon", "name": "Pikachu"}`), 0o644))
	assert.Empty(t, v.ValidateFile(path))

	issues := v.ValidateFile(filepath.Join(dir, "missing.json"))
	require.Len(t, issues, 1)
	assert.True(t, strings.HasPrefix(issues[0].Message, "Error loading file: "))
}

func TestFormatPath(t *testing.T) {
	assert.Equal(t, "root", FormatPath(nil))
	assert.Equal(t, "name", FormatPath([]string{"name"}))
	assert.Equal(t, "attacks[1].cost[0]", FormatPath([]string{"attacks", "1", "cost", "0"}))
	assert.Equal(t, "[2]", FormatPath([]string{"2"}))
}

func TestIssueString(t *testing.T) {
	assert.Equal(t, "Unknown card type: Stadium", Issue{Message: "Unknown card type: Stadium"}.String())
	assert.Equal(t, "Validation error at 'root': too many properties", Issue{Path: "root", Message: "too many properties"}.String())
}
