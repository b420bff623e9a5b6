package curlwriter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

func newGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	g, err := New(opts, logging.Discard())
	require.NoError(t, err)
	return g
}

func document(name string) types.Document {
	return types.Document{
		ApplicationName: "ENGINE",
		FormName:        "FORM",
		Locale:          "en",
		Fields:          []types.FieldEntry{{FieldName: "A", Values: []string{name}}},
	}
}

func TestCommand(t *testing.T) {
	g := newGenerator(t, Options{Endpoint: "https://api.example.com/documents"})

	cmd, err := g.Command(types.Payload{Documents: []types.Document{document("1")}})
	require.NoError(t, err)

	want := `curl \
  --url 'https://api.example.com/documents' \
  -X POST \
  -H 'Content-Type: application/json' \
  --data '{
    "Document": [
      {
        "applicationName": "ENGINE",
        "formName": "FORM",
        "phase": "",
        "locale": "en",
        "Fields": [
          {
            "fieldName": "A",
            "values": [
              "1"
            ]
          }
        ]
      }
    ]
  }'`
	assert.Equal(t, want, cmd)
}

func TestCommandAuthorization(t *testing.T) {
	p := types.Payload{Documents: []types.Document{document("1")}}

	g := newGenerator(t, Options{Endpoint: "https://x", Username: "user", Password: "pass"})
	cmd, err := g.Command(p)
	require.NoError(t, err)
	assert.Contains(t, cmd, "  -H 'Content-Type: application/json' \\\n  -H 'Authorization: Basic dXNlcjpwYXNz' \\\n  --data '{")

	for _, opts := range []Options{
		{Endpoint: "https://x", Username: "user"},
		{Endpoint: "https://x", Password: "pass"},
	} {
		cmd, err := newGenerator(t, opts).Command(p)
		require.NoError(t, err)
		assert.NotContains(t, cmd, "Authorization")
	}
}

func TestCommandQuotesSingleQuotes(t *testing.T) {
	g := newGenerator(t, Options{Endpoint: "https://x/it's"})

	cmd, err := g.Command(types.Payload{Documents: []types.Document{document("O'Brien")}})
	require.NoError(t, err)
	assert.Contains(t, cmd, `--url 'https://x/it'\''s'`)
	assert.Contains(t, cmd, `"O'\''Brien"`)
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `'plain'`, quote("plain"))
	assert.Equal(t, `''`, quote(""))
	assert.Equal(t, `'a'\''b'\'''`, quote("a'b'"))
}

func TestEmit(t *testing.T) {
	p := types.Payload{Documents: []types.Document{document("1"), document("2"), document("3")}}

	single, err := newGenerator(t, Options{Endpoint: "https://x"}).Emit(p)
	require.NoError(t, err)
	require.Len(t, single, 1)
	assert.Equal(t, 3, strings.Count(single[0], `"applicationName"`))

	perDoc, err := newGenerator(t, Options{Endpoint: "https://x", Batching: BatchPerDocument}).Emit(p)
	require.NoError(t, err)
	require.Len(t, perDoc, 3)
	for i, cmd := range perDoc {
		assert.Equal(t, 1, strings.Count(cmd, `"applicationName"`))
		assert.Contains(t, cmd, `"`+[]string{"1", "2", "3"}[i]+`"`)
	}

	empty, err := newGenerator(t, Options{Endpoint: "https://x"}).Emit(types.Payload{})
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestNewRejectsUnknownBatching(t *testing.T) {
	_, err := New(Options{Batching: "sometimes"}, nil)
	assert.ErrorIs(t, err, types.ErrFormat)

	g, err := New(Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, BatchSingle, g.opts.Batching)
}

func TestScript(t *testing.T) {
	got := Script([]string{"curl one", "curl two"})
	assert.Equal(t, "#!/bin/bash\n# Generated API calls\n\n# API Call 1\ncurl one\n\n# API Call 2\ncurl two\n\n", got)

	assert.Equal(t, "#!/bin/bash\n# Generated API calls\n\n", Script(nil))
}

func TestSave(t *testing.T) {
	g := newGenerator(t, Options{Endpoint: "https://x"})
	path := filepath.Join(t.TempDir(), "out", "calls.sh")

	require.NoError(t, g.Save([]string{"curl one"}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, Script([]string{"curl one"}), string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestSaveNothing(t *testing.T) {
	g := newGenerator(t, Options{Endpoint: "https://x"})
	path := filepath.Join(t.TempDir(), "calls.sh")

	require.NoError(t, g.Save(nil, path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no file is written for zero commands")
}

func TestSaveFailure(t *testing.T) {
	g := newGenerator(t, Options{Endpoint: "https://x"})
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := g.Save([]string{"curl"}, filepath.Join(blocker, "calls.sh"))
	assert.ErrorIs(t, err, types.ErrIO)
}
