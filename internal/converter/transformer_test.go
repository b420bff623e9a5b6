package converter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

func mappedWorkbook() *types.Workbook {
	return &types.Workbook{Tables: []*types.Table{{
		Name:    "fields",
		Columns: []string{"ENGINE_FIELD_NAME", "ENGINE_MAX_LENGTH", "ENGINE_HELP_TEXT", "ENGINE_OPTIONS"},
		Rows: []types.Row{
			types.NewRow(
				types.Cell{Column: "ENGINE_FIELD_NAME", Value: types.Text("F1")},
				types.Cell{Column: "ENGINE_MAX_LENGTH", Value: types.Number(30)},
				types.Cell{Column: "ENGINE_HELP_TEXT", Value: types.Missing{}},
				types.Cell{Column: "ENGINE_OPTIONS", Value: types.List{types.Text("a"), types.Missing{}, types.Text("b")}},
			),
			types.NewRow(
				types.Cell{Column: "ENGINE_FIELD_NAME", Value: types.Text("F2")},
				types.Cell{Column: "ENGINE_MAX_LENGTH", Value: types.Missing{}},
				types.Cell{Column: "ENGINE_HELP_TEXT", Value: types.Text("Help")},
				types.Cell{Column: "ENGINE_OPTIONS", Value: types.Boolean(true)},
			),
		},
	}}}
}

func TestBuild(t *testing.T) {
	tr := NewTransformer(DocumentSettings{}, logging.Discard())

	p := tr.Build(mappedWorkbook(), "fields")
	require.Len(t, p.Documents, 2)

	first := p.Documents[0]
	assert.Equal(t, DefaultApplicationName, first.ApplicationName)
	assert.Equal(t, DefaultFormName, first.FormName)
	assert.Equal(t, DefaultLocale, first.Locale)
	assert.Equal(t, "", first.Phase)
	assert.Equal(t, []types.FieldEntry{
		{FieldName: "ENGINE_FIELD_NAME", Values: []string{"F1"}},
		{FieldName: "ENGINE_MAX_LENGTH", Values: []string{"30"}},
		{FieldName: "ENGINE_HELP_TEXT"},
		{FieldName: "ENGINE_OPTIONS", Values: []string{"a", "b"}},
	}, first.Fields)

	second := p.Documents[1]
	assert.Equal(t, []types.FieldEntry{
		{FieldName: "ENGINE_FIELD_NAME", Values: []string{"F2"}},
		{FieldName: "ENGINE_MAX_LENGTH"},
		{FieldName: "ENGINE_HELP_TEXT", Values: []string{"Help"}},
		{FieldName: "ENGINE_OPTIONS", Values: []string{"true"}},
	}, second.Fields)
}

func TestBuildCustomSettings(t *testing.T) {
	tr := NewTransformer(DocumentSettings{ApplicationName: "APP", FormName: "FORM", Locale: "de"}, nil)

	doc := tr.BuildDocument(types.NewRow(types.Cell{Column: "X", Value: types.Text("1")}))
	assert.Equal(t, "APP", doc.ApplicationName)
	assert.Equal(t, "FORM", doc.FormName)
	assert.Equal(t, "de", doc.Locale)
}

func TestBuildMissingSheet(t *testing.T) {
	tr := NewTransformer(DocumentSettings{}, nil)

	p := tr.Build(mappedWorkbook(), "absent")
	assert.NotNil(t, p.Documents)
	assert.Empty(t, p.Documents)
}

func TestBuildEmptyRow(t *testing.T) {
	doc := NewTransformer(DocumentSettings{}, nil).BuildDocument(types.Row{})
	assert.NotNil(t, doc.Fields)
	assert.Empty(t, doc.Fields)
}
