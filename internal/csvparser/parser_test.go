package csvparser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

func TestCleanHeaders(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"trimmed", []string{" Name ", "Age"}, []string{"Name", "Age"}},
		{"empty", []string{"Name", "", " "}, []string{"Name", "Column_2", "Column_3"}},
		{"duplicates", []string{"a", "a", "a"}, []string{"a", "a.1", "a.2"}},
		{"suffix already taken", []string{"a", "a", "a.1"}, []string{"a", "a.2", "a.1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanHeaders(tt.in))
		})
	}
}

func TestRead(t *testing.T) {
	input := "Name, Age ,City\nAlice,30,Paris\nBob,,\nCarol\n"

	table, err := Read(strings.NewReader(input), "people", DefaultSettings())
	require.NoError(t, err)

	assert.Equal(t, "people", table.Name)
	assert.Equal(t, []string{"Name", "Age", "City"}, table.Columns)
	require.Len(t, table.Rows, 3)

	age, _ := table.Rows[0].Get("Age")
	assert.Equal(t, types.Text("30"), age)

	city, _ := table.Rows[1].Get("City")
	assert.Equal(t, types.Text(""), city, "blank cells are normalized later")

	city, ok := table.Rows[2].Get("City")
	require.True(t, ok, "short rows are padded")
	assert.Equal(t, types.Missing{}, city)
}

func TestReadHeaderRowAndDelimiter(t *testing.T) {
	input := "exported by tool\nid|name\n1|widget\n"

	table, err := Read(strings.NewReader(input), "items", Settings{Delimiter: "pipe", HeaderRow: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "name"}, table.Columns)
	require.Len(t, table.Rows, 1)
	name, _ := table.Rows[0].Get("name")
	assert.Equal(t, types.Text("widget"), name)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(""), "x", DefaultSettings())
	assert.ErrorContains(t, err, "empty")

	_, err = Read(strings.NewReader("a,b\n"), "x", Settings{Delimiter: ",", HeaderRow: 3})
	assert.ErrorContains(t, err, "header row 3")

	_, err = Read(strings.NewReader("a,b\n1,2,3\n"), "x", DefaultSettings())
	assert.ErrorContains(t, err, "line 2: expected 2 fields, saw 3")
}

func TestParse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,total\n1,9.50\n"), 0o644))

	table, err := Parse(path, DefaultSettings())
	require.NoError(t, err)
	assert.Equal(t, "orders", table.Name)
	assert.Len(t, table.Rows, 1)

	_, err = Parse(filepath.Join(dir, "absent.csv"), DefaultSettings())
	assert.ErrorIs(t, err, types.ErrNotFound)

	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("a\n1,2\n"), 0o644))
	_, err = Parse(bad, DefaultSettings())
	assert.ErrorIs(t, err, types.ErrFormat)
}

func TestConfigureReaderDelimiters(t *testing.T) {
	for delim, want := range map[string]string{
		"tab": "\t", "\\t": "\t", "pipe": "|", "semicolon": ";", ";": ";", "": ",", ",": ",",
	} {
		table, err := Read(strings.NewReader("a"+want+"b\n1"+want+"2\n"), "x", Settings{Delimiter: delim})
		require.NoError(t, err, delim)
		assert.Equal(t, []string{"a", "b"}, table.Columns, delim)
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "report", Stem("/data/in/report.csv"))
	assert.Equal(t, "report.final", Stem("/data/in/report.final.csv"))
}
