// =============================================================================
// Excel API Generator - CSV Parser Module
// =============================================================================
//
// This module reads delimited text exports into the shared Table model so
// that a CSV file can be fed through the same pipeline as a workbook. A CSV
// file always yields exactly one table, named after the file stem.
//
// FEATURES:
//   - Configurable delimiter (comma, pipe, tab, semicolon)
//   - Configurable header row (rows above it are ignored)
//   - Empty headers become "Column_N", duplicate headers get ".1", ".2" ...
//   - Short rows are padded with missing cells
//
// Cells are read as Text. Blank cells and not-available markers are left
// as-is here and normalized to Missing by the cleaning step.
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls CSV parsing.
type Settings struct {
	// Delimiter separates fields. Accepts a single character or one of
	// "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string

	// HeaderRow is the 0-based row holding column names.
	// Default: 0
	HeaderRow int
}

// DefaultSettings returns comma-delimited settings with the header on row 0.
func DefaultSettings() Settings {
	return Settings{Delimiter: ",", HeaderRow: 0}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns it as a single table.
//
// PARAMETERS:
//   - filePath: The path to the CSV file.
//   - settings: Delimiter and header row settings.
//
// RETURNS:
//   - A Table named after the file stem.
//   - A NotFound error if the file does not exist, or a Format error if the
//     file is empty, malformed, or has no row at the header position.
func Parse(filePath string, settings Settings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, types.NewError(types.ErrNotFound, "load", filePath, err)
		}
		return nil, types.NewError(types.ErrIO, "load", filePath, err)
	}
	defer file.Close()

	table, err := Read(bufio.NewReader(file), Stem(filePath), settings)
	if err != nil {
		return nil, types.NewError(types.ErrFormat, "load", filePath, err)
	}
	return table, nil
}

// Read parses CSV text from r into a table called name.
func Read(r io.Reader, name string, settings Settings) (*types.Table, error) {
	csvReader := csv.NewReader(r)
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, fmt.Errorf("CSV file is empty")
	}
	if settings.HeaderRow < 0 || settings.HeaderRow >= len(allRows) {
		return nil, fmt.Errorf("header row %d is beyond the end of the file (%d rows)",
			settings.HeaderRow, len(allRows))
	}

	headers := CleanHeaders(allRows[settings.HeaderRow])

	table := &types.Table{Name: name, Columns: headers}
	for i, record := range allRows[settings.HeaderRow+1:] {
		if len(record) > len(headers) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d",
				settings.HeaderRow+i+2, len(headers), len(record))
		}
		table.Rows = append(table.Rows, buildRow(headers, record))
	}

	return table, nil
}

// configureReader applies the delimiter and the lenient parsing options.
func configureReader(reader *csv.Reader, settings Settings) {
	switch settings.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		reader.Comma = '\t'
	case "|", "pipe", "PIPE":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	default:
		if len(settings.Delimiter) > 0 {
			reader.Comma = rune(settings.Delimiter[0])
		} else {
			reader.Comma = ','
		}
	}

	// Rows may be shorter than the header; they are padded.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
}

// buildRow pairs each header with its cell. Missing trailing cells become
// Missing values.
func buildRow(headers, record []string) types.Row {
	cells := make([]types.Cell, len(headers))
	for i, h := range headers {
		var v types.Value = types.Missing{}
		if i < len(record) {
			v = types.Text(record[i])
		}
		cells[i] = types.Cell{Column: h, Value: v}
	}
	return types.NewRow(cells...)
}

// =============================================================================
// HEADER HELPERS
// =============================================================================

// CleanHeaders trims header values, names empty headers "Column_N"
// (1-based position), and disambiguates duplicates by suffixing ".1",
// ".2" and so on. The first occurrence keeps the bare name.
func CleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	seen := make(map[string]int, len(headers))
	taken := make(map[string]bool, len(headers))

	for i, header := range headers {
		header = strings.TrimSpace(header)
		if header == "" {
			header = fmt.Sprintf("Column_%d", i+1)
		}
		taken[header] = true
		cleaned[i] = header
	}

	for i, header := range cleaned {
		n, dup := seen[header]
		seen[header] = n + 1
		if !dup {
			continue
		}
		name := header + "." + strconv.Itoa(n)
		for taken[name] {
			n++
			seen[header] = n + 1
			name = header + "." + strconv.Itoa(n)
		}
		taken[name] = true
		cleaned[i] = name
	}

	return cleaned
}

// Stem returns the file name without directory or extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
