package converter

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-api-generator/internal/curlwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/jsonwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/mapper"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
	"github.com/ginjaninja78/excel-api-generator/internal/xlsxparser"
)

// writeFieldWorkbook saves a workbook with a "fields" sheet and a second
// "notes" sheet.
func writeFieldWorkbook(t *testing.T, fieldRows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", "fields"))
	require.NoError(t, f.SetSheetRow("fields", "A1", &[]any{"field_id", "field_name", "max_length", "help_text"}))
	for i, row := range fieldRows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("fields", cell, &row))
	}

	_, err := f.NewSheet("notes")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("notes", "A1", &[]any{"note"}))
	require.NoError(t, f.SetSheetRow("notes", "A2", &[]any{"  keep me  "}))

	path := filepath.Join(t.TempDir(), "fields.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func defaultRows() [][]any {
	return [][]any{
		{"F1", "First Field", 30, "Help for F1"},
		{"F2", "Second Field", nil, "N/A"},
		{nil, nil, nil, nil},
	}
}

func apiConverter(t *testing.T, batching string) *Converter {
	t.Helper()
	logger := logging.Discard()

	curl, err := curlwriter.New(curlwriter.Options{
		Endpoint: "https://api.example.com/documents",
		Username: "user",
		Password: "pass",
		Batching: batching,
	}, logger)
	require.NoError(t, err)

	return New(Components{
		Parser: xlsxparser.New(xlsxparser.Options{}, logger),
		Mapper: mapper.NewWithMapping(map[string]string{
			"field_id":   "ENGINE_FIELD_NAME",
			"field_name": "ENGINE_FIELD_LABEL",
			"max_length": "ENGINE_MAX_LENGTH",
			"help_text":  "ENGINE_HELP_TEXT",
		}, logger),
		Transformer: NewTransformer(DocumentSettings{}, logger),
		Curl:        curl,
	}, logger)
}

// --- Plain conversion ---

func TestRunJSON(t *testing.T) {
	source := writeFieldWorkbook(t, defaultRows())
	output := filepath.Join(t.TempDir(), "out.json")

	writer, err := jsonwriter.New(jsonwriter.DefaultOptions(), nil)
	require.NoError(t, err)
	conv := New(Components{Parser: xlsxparser.New(xlsxparser.Options{}, nil), JSON: writer}, nil)

	result := conv.RunJSON(context.Background(), source, types.AllSheets(), output)
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, output, result.OutputFile)
	assert.Equal(t, 2, result.Stats.SheetsProcessed)
	assert.Equal(t, 3, result.Stats.RowsProcessed)
	assert.Positive(t, result.Stats.ProcessingTime)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, result.Text, string(written))

	assert.JSONEq(t, `{
		"fields": [
			{"field_id": "F1", "field_name": "First Field", "max_length": 30, "help_text": "Help for F1"},
			{"field_id": "F2", "field_name": "Second Field", "max_length": null, "help_text": null}
		],
		"notes": [{"note": "keep me"}]
	}`, result.Text)

	// Sheet order follows the workbook.
	assert.Less(t, strings.Index(result.Text, `"fields"`), strings.Index(result.Text, `"notes"`))
}

func TestRunJSONSingleSheetNoWrite(t *testing.T) {
	source := writeFieldWorkbook(t, defaultRows())

	writer, err := jsonwriter.New(jsonwriter.Options{Indent: 0}, nil)
	require.NoError(t, err)
	conv := New(Components{Parser: xlsxparser.New(xlsxparser.Options{}, nil), JSON: writer}, nil)

	result := conv.RunJSON(context.Background(), source, types.SheetByIndex(1), "")
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Empty(t, result.OutputFile)
	assert.Equal(t, `{"notes":[{"note":"keep me"}]}`, result.Text)
}

func TestRunJSONFailures(t *testing.T) {
	writer, err := jsonwriter.New(jsonwriter.DefaultOptions(), nil)
	require.NoError(t, err)
	conv := New(Components{Parser: xlsxparser.New(xlsxparser.Options{}, nil), JSON: writer}, nil)

	result := conv.RunJSON(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"), types.AllSheets(), "")
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, types.ErrNotFound)

	source := writeFieldWorkbook(t, defaultRows())
	result = conv.RunJSON(context.Background(), source, types.SheetByName("missing"), "")
	assert.ErrorIs(t, result.Error, types.ErrNotFound)

	result = New(Components{}, nil).RunJSON(context.Background(), source, types.AllSheets(), "")
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}

func TestRunJSONCancelled(t *testing.T) {
	source := writeFieldWorkbook(t, defaultRows())
	writer, err := jsonwriter.New(jsonwriter.DefaultOptions(), nil)
	require.NoError(t, err)
	conv := New(Components{Parser: xlsxparser.New(xlsxparser.Options{}, nil), JSON: writer}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := conv.RunJSON(ctx, source, types.AllSheets(), "")
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, context.Canceled)
}

// --- API generation ---

func TestRunAPI(t *testing.T) {
	source := writeFieldWorkbook(t, defaultRows())
	output := filepath.Join(t.TempDir(), "calls.sh")

	result := apiConverter(t, curlwriter.BatchSingle).RunAPI(context.Background(), source, output)
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, output, result.OutputFile)
	assert.Equal(t, 1, result.Stats.SheetsProcessed)
	assert.Equal(t, 2, result.Stats.RowsProcessed)
	assert.Equal(t, 2, result.Stats.DocumentsCreated)
	assert.Equal(t, 1, result.Stats.CallsGenerated)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	script := string(data)

	assert.True(t, strings.HasPrefix(script, "#!/bin/bash\n# Generated API calls\n\n# API Call 1\ncurl \\\n"))
	assert.NotContains(t, script, "# API Call 2")
	assert.Contains(t, script, "--url 'https://api.example.com/documents'")
	assert.Contains(t, script, "-H 'Authorization: Basic dXNlcjpwYXNz'")

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	// The --data body is the payload.
	start := strings.Index(script, "--data '") + len("--data '")
	end := strings.LastIndex(script, "'")
	var payload types.Payload
	require.NoError(t, json.Unmarshal([]byte(script[start:end]), &payload))

	require.Len(t, payload.Documents, 2)
	assert.Equal(t, "ENGINE", payload.Documents[0].ApplicationName)
	assert.Equal(t, "ENGINE_FIELD_SETTINGS", payload.Documents[0].FormName)
	assert.Equal(t, []types.FieldEntry{
		{FieldName: "ENGINE_FIELD_NAME", Values: []string{"F1"}},
		{FieldName: "ENGINE_FIELD_LABEL", Values: []string{"First Field"}},
		{FieldName: "ENGINE_MAX_LENGTH", Values: []string{"30"}},
		{FieldName: "ENGINE_HELP_TEXT", Values: []string{"Help for F1"}},
	}, payload.Documents[0].Fields)
	assert.Equal(t, []types.FieldEntry{
		{FieldName: "ENGINE_FIELD_NAME", Values: []string{"F2"}},
		{FieldName: "ENGINE_FIELD_LABEL", Values: []string{"Second Field"}},
		{FieldName: "ENGINE_MAX_LENGTH"},
		{FieldName: "ENGINE_HELP_TEXT"},
	}, payload.Documents[1].Fields)
}

func TestRunAPIPerDocument(t *testing.T) {
	source := writeFieldWorkbook(t, defaultRows())
	output := filepath.Join(t.TempDir(), "calls.sh")

	result := apiConverter(t, curlwriter.BatchPerDocument).RunAPI(context.Background(), source, output)
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Equal(t, 2, result.Stats.CallsGenerated)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# API Call 2\ncurl")
}

func TestRunAPINoRows(t *testing.T) {
	source := writeFieldWorkbook(t, nil)
	output := filepath.Join(t.TempDir(), "calls.sh")

	result := apiConverter(t, curlwriter.BatchSingle).RunAPI(context.Background(), source, output)
	require.True(t, result.Success, "error: %v", result.Error)
	assert.Empty(t, result.OutputFile)
	assert.Zero(t, result.Stats.DocumentsCreated)
	assert.Zero(t, result.Stats.CallsGenerated)

	_, err := os.Stat(output)
	assert.True(t, os.IsNotExist(err))
}

func TestRunAPIValidationFailure(t *testing.T) {
	// A column mapped to an empty field name produces an invalid FieldEntry.
	source := writeFieldWorkbook(t, defaultRows())
	output := filepath.Join(t.TempDir(), "calls.sh")

	curl, err := curlwriter.New(curlwriter.Options{Endpoint: "https://x"}, nil)
	require.NoError(t, err)
	conv := New(Components{
		Parser:      xlsxparser.New(xlsxparser.Options{}, nil),
		Mapper:      mapper.NewWithMapping(map[string]string{"help_text": ""}, nil),
		Transformer: NewTransformer(DocumentSettings{}, nil),
		Curl:        curl,
	}, nil)

	result := conv.RunAPI(context.Background(), source, output)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, types.ErrValidation)

	_, err = os.Stat(output)
	assert.True(t, os.IsNotExist(err), "nothing is written when validation fails")
}

func TestRunAPIMissingSheet(t *testing.T) {
	source := writeFieldWorkbook(t, defaultRows())

	conv := apiConverter(t, curlwriter.BatchSingle)
	conv.apiSheet = "absent"

	result := conv.RunAPI(context.Background(), source, filepath.Join(t.TempDir(), "calls.sh"))
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Error, types.ErrNotFound)
}

func TestRunAPIMissingStage(t *testing.T) {
	result := New(Components{}, nil).RunAPI(context.Background(), "x.xlsx", "out.sh")
	assert.False(t, result.Success)
	assert.Error(t, result.Error)
}
