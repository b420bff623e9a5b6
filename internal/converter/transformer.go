// =============================================================================
// Excel API Generator - Document Builder
// =============================================================================
//
// This module turns mapped rows into the API Document model. Each row of the
// field sheet becomes one Document; each column of the row becomes one
// FieldEntry, in column order.
//
// EXAMPLE:
//   Row:       {"ENGINE_FIELD_NAME": "F1", "ENGINE_MAX_LENGTH": 30, "ENGINE_HELP_TEXT": <missing>}
//   Document:  {
//                "applicationName": "ENGINE",
//                "formName": "ENGINE_FIELD_SETTINGS",
//                "phase": "",
//                "locale": "en",
//                "Fields": [
//                  {"fieldName": "ENGINE_FIELD_NAME", "values": ["F1"]},
//                  {"fieldName": "ENGINE_MAX_LENGTH", "values": ["30"]},
//                  {"fieldName": "ENGINE_HELP_TEXT"}
//                ]
//              }
//
// CUSTOMIZATION:
//   - applicationName, formName and locale come from the api config section
//
// =============================================================================

package converter

import (
	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// Document header defaults.
const (
	DefaultApplicationName = "ENGINE"
	DefaultFormName        = "ENGINE_FIELD_SETTINGS"
	DefaultLocale          = "en"
	DefaultSheet           = "fields"
)

// DocumentSettings are stamped on every Document.
type DocumentSettings struct {
	ApplicationName string
	FormName        string
	Locale          string
}

// Transformer builds Payloads from mapped workbooks.
type Transformer struct {
	settings DocumentSettings
	logger   logging.Logger
}

// NewTransformer creates a Transformer. Empty settings fall back to the
// defaults above.
func NewTransformer(settings DocumentSettings, logger logging.Logger) *Transformer {
	if settings.ApplicationName == "" {
		settings.ApplicationName = DefaultApplicationName
	}
	if settings.FormName == "" {
		settings.FormName = DefaultFormName
	}
	if settings.Locale == "" {
		settings.Locale = DefaultLocale
	}
	return &Transformer{settings: settings, logger: logging.OrDiscard(logger)}
}

// Build converts every row of the named sheet into a Document.
//
// PARAMETERS:
//   - wb: The cleaned and mapped workbook.
//   - sheetName: The sheet holding one field definition per row.
//
// RETURNS:
//   - The payload. When the sheet is absent an empty payload is returned
//     and a warning is logged.
func (t *Transformer) Build(wb *types.Workbook, sheetName string) types.Payload {
	table, ok := wb.Sheet(sheetName)
	if !ok {
		t.logger.Warn("sheet not found, no documents built", "sheet", sheetName, "available", wb.Names())
		return types.Payload{Documents: []types.Document{}}
	}

	docs := make([]types.Document, 0, len(table.Rows))
	for _, row := range table.Rows {
		docs = append(docs, t.BuildDocument(row))
	}

	t.logger.Debug("built documents", "sheet", sheetName, "documents", len(docs))
	return types.Payload{Documents: docs}
}

// BuildDocument converts a single row into a Document.
func (t *Transformer) BuildDocument(row types.Row) types.Document {
	cells := row.Cells()
	fields := make([]types.FieldEntry, 0, len(cells))
	for _, c := range cells {
		fields = append(fields, buildField(c))
	}

	return types.Document{
		ApplicationName: t.settings.ApplicationName,
		FormName:        t.settings.FormName,
		Phase:           "",
		Locale:          t.settings.Locale,
		Fields:          fields,
	}
}

// buildField renders a cell. Missing cells produce an entry without values.
func buildField(c types.Cell) types.FieldEntry {
	entry := types.FieldEntry{FieldName: c.Column}
	if values, ok := types.Strings(c.Value); ok {
		entry.Values = values
	}
	return entry
}
