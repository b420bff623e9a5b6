package xlsxparser

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// =============================================================================
// VALIDATION
// =============================================================================

// Finding is one advisory validation result.
type Finding struct {
	// Sheet is the table the finding applies to.
	Sheet string

	// Column is the missing required column, empty for row-count findings.
	Column string

	// Message is a human-readable description.
	Message string
}

func (f Finding) String() string { return f.Message }

// Check returns every advisory finding for wb: tables without rows and
// required columns absent from a table.
func (p *Parser) Check(wb *types.Workbook) []Finding {
	var findings []Finding
	for _, t := range wb.Tables {
		if len(t.Rows) == 0 {
			findings = append(findings, Finding{
				Sheet:   t.Name,
				Message: fmt.Sprintf("sheet '%s' is empty", t.Name),
			})
		}
		for _, col := range p.opts.RequiredColumns {
			if !t.HasColumn(col) {
				findings = append(findings, Finding{
					Sheet:   t.Name,
					Column:  col,
					Message: fmt.Sprintf("sheet '%s' is missing required column '%s'", t.Name, col),
				})
			}
		}
	}
	return findings
}

// Validate logs each finding from Check as a warning and reports whether
// the workbook is clean. It never fails.
func (p *Parser) Validate(wb *types.Workbook) bool {
	findings := p.Check(wb)
	for _, f := range findings {
		p.logger.Warn("validation finding", "sheet", f.Sheet, "column", f.Column, "message", f.Message)
	}
	return len(findings) == 0
}

// =============================================================================
// CLEANING
// =============================================================================

// Clean returns a new workbook in which every table has had all-missing
// rows dropped, column names and string cells trimmed, and blank or
// not-available cells replaced by Missing. Tables are cleaned in parallel;
// the output keeps the input order. wb is not modified.
func (p *Parser) Clean(ctx context.Context, wb *types.Workbook) (*types.Workbook, error) {
	out := &types.Workbook{Tables: make([]*types.Table, len(wb.Tables))}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, t := range wb.Tables {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out.Tables[i] = cleanTable(t)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, t := range out.Tables {
		if dropped := len(wb.Tables[i].Rows) - len(t.Rows); dropped > 0 {
			p.logger.Debug("dropped empty rows", "sheet", t.Name, "count", dropped)
		}
	}
	return out, nil
}

// cleanTable builds the cleaned copy of one table.
func cleanTable(t *types.Table) *types.Table {
	out := &types.Table{
		Name:    t.Name,
		Columns: make([]string, len(t.Columns)),
		Rows:    make([]types.Row, 0, len(t.Rows)),
	}
	for i, c := range t.Columns {
		out.Columns[i] = strings.TrimSpace(c)
	}

	for _, row := range t.Rows {
		if row.AllMissing() {
			continue
		}
		cells := row.Cells()
		for i := range cells {
			cells[i].Column = strings.TrimSpace(cells[i].Column)
			cells[i].Value = types.Normalize(cells[i].Value)
		}
		out.Rows = append(out.Rows, types.NewRow(cells...))
	}
	return out
}

// =============================================================================
// FULL PARSE
// =============================================================================

// Parse runs the loader end to end: Load, Validate, Clean.
//
// PARAMETERS:
//   - ctx: Cancels the parallel cleaning step.
//   - source: Path to a workbook or CSV file.
//   - sheet: Which sheet(s) to read.
//
// RETURNS:
//   - The cleaned Workbook, tables and rows in source order.
//   - Any Load error unchanged. When Strict is set, a Validation error
//     listing every finding if Validate reports problems.
func (p *Parser) Parse(ctx context.Context, source string, sheet types.SheetSelector) (*types.Workbook, error) {
	wb, err := p.Load(source, sheet)
	if err != nil {
		return nil, err
	}

	if !p.Validate(wb) && p.opts.Strict {
		msgs := make([]string, 0)
		for _, f := range p.Check(wb) {
			msgs = append(msgs, f.Message)
		}
		return nil, types.Errorf(types.ErrValidation, "parse", source, "%s", strings.Join(msgs, "; "))
	}

	cleaned, err := p.Clean(ctx, wb)
	if err != nil {
		return nil, err
	}

	p.logger.Info("parsed source", "source", source, "sheets", len(cleaned.Tables), "rows", cleaned.RowCount())
	return cleaned, nil
}
