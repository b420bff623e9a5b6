// =============================================================================
// Excel API Generator - Field Mapper
// =============================================================================
//
// The field mapper renames spreadsheet columns to API field names using an
// external mapping file:
//
//   {
//     "Field Name": "ENGINE_FIELD_NAME",
//     "Help Text":  "ENGINE_HELP_TEXT"
//   }
//
// Columns without an entry keep their name. Values and row order are never
// touched, and a renamed column stays in its original position.
//
// The mapping file may be JSON or YAML but must be a flat object whose
// values are all strings.
//
// =============================================================================

package mapper

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// Mapper holds a loaded mapping. The mapping is read-only once loaded.
type Mapper struct {
	mapping map[string]string
	logger  logging.Logger
}

// New creates a Mapper with no mapping loaded. A nil logger discards log
// output.
func New(logger logging.Logger) *Mapper {
	return &Mapper{logger: logging.OrDiscard(logger)}
}

// NewWithMapping creates a Mapper from an in-memory mapping. The map is
// copied.
func NewWithMapping(mapping map[string]string, logger logging.Logger) *Mapper {
	m := New(logger)
	m.mapping = maps.Clone(mapping)
	if m.mapping == nil {
		m.mapping = map[string]string{}
	}
	return m
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the mapping file and stores it on the mapper.
//
// PARAMETERS:
//   - path: A JSON (".json") or YAML file holding a flat string -> string
//     object.
//
// RETURNS:
//   - A copy of the loaded mapping.
//   - A NotFound error if the file does not exist.
//   - A Format error if it is not a flat object of strings.
func (m *Mapper) Load(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.ErrNotFound, "load mapping", path, err)
		}
		return nil, types.NewError(types.ErrIO, "load mapping", path, err)
	}

	var mapping map[string]string
	if strings.EqualFold(filepath.Ext(path), ".json") {
		mapping, err = decodeJSON(data)
	} else {
		mapping, err = decodeYAML(data)
	}
	if err != nil {
		return nil, types.NewError(types.ErrFormat, "load mapping", path, err)
	}

	m.mapping = mapping
	m.logger.Info("loaded field mapping", "path", path, "entries", len(mapping))
	return maps.Clone(mapping), nil
}

// decodeJSON accepts only an object whose values are all strings.
func decodeJSON(data []byte) (map[string]string, error) {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("mapping must be an object, got %s", jsonKind(raw))
	}

	mapping := make(map[string]string, len(obj))
	for k, v := range obj {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("mapping value for '%s' must be a string, got %s", k, jsonKind(v))
		}
		mapping[k] = s
	}
	return mapping, nil
}

// decodeYAML walks the document node so that non-string scalars (numbers,
// booleans, null) are rejected instead of being coerced.
func decodeYAML(data []byte) (map[string]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("mapping file is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("mapping must be an object")
	}

	mapping := make(map[string]string, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if val.Kind != yaml.ScalarNode || val.Tag != "!!str" {
			return nil, fmt.Errorf("mapping value for '%s' must be a string (line %d)", key.Value, val.Line)
		}
		mapping[key.Value] = val.Value
	}
	return mapping, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// =============================================================================
// APPLYING
// =============================================================================

// Mapping returns a copy of the loaded mapping, or nil if none is loaded.
func (m *Mapper) Mapping() map[string]string {
	return maps.Clone(m.mapping)
}

// Target returns the field name for column: the mapped name, or column
// itself when unmapped.
func (m *Mapper) Target(column string) string {
	if target, ok := m.mapping[column]; ok {
		return target
	}
	return column
}

// Apply renames the columns of every row in the sheet called sheetName.
//
// PARAMETERS:
//   - wb: The cleaned workbook.
//   - sheetName: The sheet to rewrite. Other sheets are shared unchanged.
//
// RETURNS:
//   - A new workbook with the sheet's rows renamed. When no mapping is
//     loaded or the sheet is absent, wb itself is returned and a warning
//     is logged.
//
// Two columns mapped to the same target collapse into one key holding the
// later column's value, at the earlier column's position.
func (m *Mapper) Apply(wb *types.Workbook, sheetName string) *types.Workbook {
	if m.mapping == nil {
		m.logger.Warn("no field mapping loaded, returning data unchanged")
		return wb
	}

	table, ok := wb.Sheet(sheetName)
	if !ok {
		m.logger.Warn("sheet not found, returning data unchanged", "sheet", sheetName, "available", wb.Names())
		return wb
	}

	mapped := &types.Table{
		Name:    table.Name,
		Columns: dedupe(m.targets(table.Columns)),
		Rows:    make([]types.Row, len(table.Rows)),
	}
	for i, row := range table.Rows {
		cells := row.Cells()
		for j := range cells {
			cells[j].Column = m.Target(cells[j].Column)
		}
		mapped.Rows[i] = types.NewRow(cells...)
	}

	m.logger.Debug("applied field mapping", "sheet", sheetName, "rows", len(mapped.Rows))
	return wb.Replace(mapped)
}

func (m *Mapper) targets(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = m.Target(c)
	}
	return out
}

// dedupe drops repeated names, keeping the first position.
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
