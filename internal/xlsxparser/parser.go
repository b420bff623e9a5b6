// =============================================================================
// Excel API Generator - Workbook Loader
// =============================================================================
//
// This module reads spreadsheet sources into the shared Workbook model.
// Supported sources:
//   - Excel workbooks (.xlsx, .xlsm, .xltx, .xltm), read with excelize
//   - CSV files (.csv), delegated to the csvparser package
//
// SHEET STRUCTURE (Expected Layout):
//   One row holds the column names (row 0 unless configured otherwise) and
//   every row below it is a data row. Rows above the header are ignored.
//
//   | Column A   | Column B  | Column C     |
//   |------------|-----------|--------------|
//   | field_name | label     | max_length   |   <- header row
//   | F1         | First     | 30           |
//   | F2         | Second    |              |
//
// CELL TYPING:
//   Excel cells keep their type. Booleans become Boolean, numbers become
//   Number unless the cell carries a date number format (then Temporal),
//   error cells become Missing, everything else is Text.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/excel-api-generator/internal/csvparser"
	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// =============================================================================
// PARSER CONFIGURATION
// =============================================================================

// Options configures a Parser.
type Options struct {
	// HeaderRow is the 0-based row holding column names.
	// Default: 0 (Row 1)
	HeaderRow int

	// RequiredColumns are checked by Validate. Absent columns are reported
	// as findings, never silently ignored.
	RequiredColumns []string

	// Strict makes Parse fail when Validate reports findings.
	Strict bool

	// CSV holds settings used when the source is a CSV file.
	// HeaderRow above overrides CSV.HeaderRow.
	CSV csvparser.Settings
}

// Parser loads, validates and cleans tabular sources.
type Parser struct {
	opts   Options
	logger logging.Logger
}

// New creates a Parser. A nil logger discards log output.
func New(opts Options, logger logging.Logger) *Parser {
	if opts.CSV.Delimiter == "" {
		opts.CSV.Delimiter = csvparser.DefaultSettings().Delimiter
	}
	opts.CSV.HeaderRow = opts.HeaderRow
	return &Parser{opts: opts, logger: logging.OrDiscard(logger)}
}

// excelExtensions lists the workbook formats excelize can open.
var excelExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the source into a Workbook.
//
// PARAMETERS:
//   - source: Path to a workbook or CSV file.
//   - sheet: Which sheet(s) to read. The zero selector reads every sheet in
//     workbook order. A single selected sheet is still returned as a
//     one-table Workbook keyed by its resolved name.
//
// RETURNS:
//   - The loaded Workbook. Cells are typed but not yet cleaned.
//   - A NotFound error when the file or the selected sheet does not exist.
//   - A Format error when the source cannot be read as tabular data.
func (p *Parser) Load(source string, sheet types.SheetSelector) (*types.Workbook, error) {
	if _, err := os.Stat(source); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.ErrNotFound, "load", source, err)
		}
		return nil, types.NewError(types.ErrIO, "load", source, err)
	}

	ext := strings.ToLower(filepath.Ext(source))
	switch {
	case ext == ".csv":
		return p.loadCSV(source, sheet)
	case excelExtensions[ext]:
		return p.loadExcel(source, sheet)
	default:
		return nil, types.Errorf(types.ErrFormat, "load", source, "unsupported file extension %q", ext)
	}
}

// loadCSV wraps the single CSV table in a Workbook.
func (p *Parser) loadCSV(source string, sheet types.SheetSelector) (*types.Workbook, error) {
	table, err := csvparser.Parse(source, p.opts.CSV)
	if err != nil {
		return nil, err
	}

	if !sheet.All() {
		if _, ok := sheet.Resolve([]string{table.Name}); !ok {
			return nil, types.Errorf(types.ErrNotFound, "load", source, "sheet %s not found", sheet)
		}
	}

	p.logger.Debug("loaded csv source", "source", source, "rows", len(table.Rows), "columns", len(table.Columns))
	return &types.Workbook{Tables: []*types.Table{table}}, nil
}

// loadExcel reads the selected sheets of a workbook.
func (p *Parser) loadExcel(source string, sheet types.SheetSelector) (*types.Workbook, error) {
	f, err := excelize.OpenFile(source)
	if err != nil {
		return nil, types.NewError(types.ErrFormat, "load", source, fmt.Errorf("failed to open workbook: %w", err))
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, types.Errorf(types.ErrFormat, "load", source, "workbook has no sheets")
	}

	selected := names
	if !sheet.All() {
		name, ok := sheet.Resolve(names)
		if !ok {
			return nil, types.Errorf(types.ErrNotFound, "load", source,
				"sheet %s not found (available: %s)", sheet, strings.Join(names, ", "))
		}
		selected = []string{name}
	}

	reader := newSheetReader(f)

	wb := &types.Workbook{}
	for _, name := range selected {
		table, err := reader.readSheet(name, p.opts.HeaderRow)
		if err != nil {
			return nil, types.NewError(types.ErrFormat, "load", source,
				fmt.Errorf("error reading sheet '%s': %w", name, err))
		}
		p.logger.Debug("loaded sheet", "source", source, "sheet", name,
			"rows", len(table.Rows), "columns", len(table.Columns))
		wb.Tables = append(wb.Tables, table)
	}

	return wb, nil
}

// =============================================================================
// SHEET READING
// =============================================================================

// sheetReader converts the cells of one open workbook into typed values.
// Style lookups are cached per style index.
type sheetReader struct {
	f        *excelize.File
	date1904 bool
	isDate   map[int]bool
}

func newSheetReader(f *excelize.File) *sheetReader {
	r := &sheetReader{f: f, isDate: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		r.date1904 = *props.Date1904
	}
	return r
}

// readSheet reads one sheet into a Table. The header row is padded to the
// widest data row so that every value has a column.
func (r *sheetReader) readSheet(sheet string, headerRow int) (*types.Table, error) {
	rows, err := r.f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	table := &types.Table{Name: sheet}
	if len(rows) == 0 {
		return table, nil
	}
	if headerRow < 0 || headerRow >= len(rows) {
		return nil, fmt.Errorf("header row %d is beyond the last row (%d rows)", headerRow, len(rows))
	}

	width := len(rows[headerRow])
	for _, row := range rows[headerRow+1:] {
		if len(row) > width {
			width = len(row)
		}
	}

	header := make([]string, width)
	copy(header, rows[headerRow])
	table.Columns = csvparser.CleanHeaders(header)

	for i := headerRow + 1; i < len(rows); i++ {
		raw := rows[i]
		cells := make([]types.Cell, width)
		for col := 0; col < width; col++ {
			var v types.Value = types.Missing{}
			if col < len(raw) && raw[col] != "" {
				v, err = r.cellValue(sheet, col+1, i+1, raw[col])
				if err != nil {
					return nil, err
				}
			}
			cells[col] = types.Cell{Column: table.Columns[col], Value: v}
		}
		table.Rows = append(table.Rows, types.NewRow(cells...))
	}

	return table, nil
}

// cellValue types a single non-empty raw cell. col and row are 1-based.
func (r *sheetReader) cellValue(sheet string, col, row int, raw string) (types.Value, error) {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}

	cellType, err := r.f.GetCellType(sheet, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell %s: %w", ref, err)
	}

	switch cellType {
	case excelize.CellTypeBool:
		return parseBool(raw), nil
	case excelize.CellTypeError:
		return types.Missing{}, nil
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return types.Temporal{Time: t}, nil
		}
		return types.Text(raw), nil
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return types.Text(raw), nil
	}

	// Unset or numeric: the raw value is a number unless it fails to parse.
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Text(raw), nil
	}

	if r.dateFormatted(sheet, ref) {
		t, err := excelize.ExcelDateToTime(n, r.date1904)
		if err == nil {
			return types.Temporal{Time: t}, nil
		}
	}
	return types.Number(n), nil
}

// dateFormatted reports whether the cell's number format renders a date.
func (r *sheetReader) dateFormatted(sheet, ref string) bool {
	idx, err := r.f.GetCellStyle(sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := r.isDate[idx]; ok {
		return v
	}

	style, err := r.f.GetStyle(idx)
	v := false
	if err == nil && style != nil {
		if style.CustomNumFmt != nil {
			v = IsDateFormat(*style.CustomNumFmt)
		} else {
			v = IsDateNumFmt(style.NumFmt)
		}
	}
	r.isDate[idx] = v
	return v
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseBool reads a boolean cell in either raw ("1") or display ("TRUE") form.
func parseBool(raw string) types.Value {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1", "TRUE":
		return types.Boolean(true)
	case "0", "FALSE":
		return types.Boolean(false)
	default:
		return types.Text(raw)
	}
}

// IsDateNumFmt reports whether a built-in number format id is a date or
// time format.
func IsDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// IsDateFormat reports whether a custom number format code renders a date
// or time. Quoted literals, escaped characters and bracketed colour or
// locale sections are ignored; elapsed-time brackets ([h], [mm], [ss]) count.
func IsDateFormat(code string) bool {
	// Only the first section (positive numbers) decides.
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}

	var b strings.Builder
	inQuote := false
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch {
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case c == '"':
			inQuote = true
		case c == '\\' || c == '_' || c == '*':
			i++
		case c == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				i = len(code)
				continue
			}
			inner := strings.ToLower(code[i+1 : i+end])
			if strings.Trim(inner, "hms") == "" {
				b.WriteString(inner)
			}
			i += end
		default:
			b.WriteByte(c)
		}
	}

	clean := strings.ToLower(b.String())
	return strings.ContainsAny(clean, "ydhs")
}
