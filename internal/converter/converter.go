// =============================================================================
// Excel API Generator - Converter Module
// =============================================================================
//
// This module orchestrates the two conversion paths for a single input file.
//
// PLAIN CONVERSION PIPELINE (RunJSON):
//   1. Parse the spreadsheet (load, validate, clean)
//   2. Render the workbook as JSON (clean, flatten, serialize, reparse)
//   3. Write the output file
//
// API GENERATION PIPELINE (RunAPI):
//   1. Parse the field sheet of the spreadsheet
//   2. Rename columns with the field mapping
//   3. Build one Document per row
//   4. Validate the payload (fatal)
//   5. Render curl commands
//   6. Write the shell script
//
// Both paths share the loader and the Row model and never interact.
// Cancellation of the context is checked between steps.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/excel-api-generator/internal/curlwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/jsonwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/mapper"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
	"github.com/ginjaninja78/excel-api-generator/internal/validation"
	"github.com/ginjaninja78/excel-api-generator/internal/xlsxparser"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of processing a single file.
type Result struct {
	// FilePath is the path to the input file that was processed.
	FilePath string

	// OutputFile is the path to the generated artifact.
	// This is empty if processing failed or nothing was written.
	OutputFile string

	// Text is the rendered JSON of a plain conversion.
	Text string

	// Success indicates whether the processing was successful.
	Success bool

	// Error contains the error if processing failed.
	Error error

	// Stats contains processing statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the processing.
type ProcessingStats struct {
	// SheetsProcessed is the number of sheets loaded.
	SheetsProcessed int

	// RowsProcessed is the number of data rows left after cleaning.
	RowsProcessed int

	// DocumentsCreated is the number of API Documents built.
	DocumentsCreated int

	// CallsGenerated is the number of curl commands generated.
	CallsGenerated int

	// ProcessingTime is the time taken to process the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the conversion pipelines. The components are built once
// and reused across runs.
type Converter struct {
	parser      *xlsxparser.Parser
	mapper      *mapper.Mapper
	transformer *Transformer
	json        *jsonwriter.Writer
	curl        *curlwriter.Generator

	// apiSheet is the sheet the API path reads.
	apiSheet string

	logger logging.Logger
}

// Components groups the stages a Converter composes. Mapper, Transformer
// and Curl are only needed by RunAPI; JSON only by RunJSON.
type Components struct {
	Parser      *xlsxparser.Parser
	Mapper      *mapper.Mapper
	Transformer *Transformer
	JSON        *jsonwriter.Writer
	Curl        *curlwriter.Generator

	// APISheet is the sheet holding field rows.
	// Default: "fields"
	APISheet string
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - c: The pipeline stages.
//   - logger: Receives progress and warnings. Nil discards.
//
// RETURNS:
//   - A new Converter instance.
func New(c Components, logger logging.Logger) *Converter {
	if c.APISheet == "" {
		c.APISheet = DefaultSheet
	}
	return &Converter{
		parser:      c.Parser,
		mapper:      c.Mapper,
		transformer: c.Transformer,
		json:        c.JSON,
		curl:        c.Curl,
		apiSheet:    c.APISheet,
		logger:      logging.OrDiscard(logger),
	}
}

// =============================================================================
// PLAIN CONVERSION
// =============================================================================

// RunJSON converts a spreadsheet into a JSON document.
//
// PARAMETERS:
//   - ctx: Cancels the run between steps.
//   - source: The input spreadsheet.
//   - sheet: Which sheet(s) to convert.
//   - outputPath: Where to write the JSON. Empty means do not write.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing.
func (c *Converter) RunJSON(ctx context.Context, source string, sheet types.SheetSelector, outputPath string) (result Result) {
	startTime := time.Now()
	result = Result{FilePath: source}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	if c.parser == nil || c.json == nil {
		return c.fail(&result, fmt.Errorf("converter is missing the parser or json writer"))
	}

	c.logger.Info("converting to json", "source", source, "sheet", sheet.String())

	// =========================================================================
	// STEP 1: PARSE SPREADSHEET
	// =========================================================================

	wb, err := c.parser.Parse(ctx, source, sheet)
	if err != nil {
		return c.fail(&result, err)
	}
	result.Stats.SheetsProcessed = len(wb.Tables)
	result.Stats.RowsProcessed = wb.RowCount()

	if err := ctx.Err(); err != nil {
		return c.fail(&result, err)
	}

	// =========================================================================
	// STEP 2 + 3: RENDER AND WRITE JSON
	// =========================================================================

	text, err := c.json.Process(wb, outputPath)
	if err != nil {
		return c.fail(&result, err)
	}
	result.Text = text

	result.OutputFile = outputPath
	result.Success = true
	c.logger.Info("json conversion finished", "source", source, "output", outputPath,
		"sheets", result.Stats.SheetsProcessed, "rows", result.Stats.RowsProcessed)
	return result
}

// =============================================================================
// API GENERATION
// =============================================================================

// RunAPI converts the field sheet of a spreadsheet into a curl script.
//
// PARAMETERS:
//   - ctx: Cancels the run between steps.
//   - source: The input spreadsheet.
//   - outputPath: Where to write the script.
//
// RETURNS:
//   - A Result struct containing the outcome of the processing. A payload
//     that fails validation aborts the run before anything is written.
func (c *Converter) RunAPI(ctx context.Context, source, outputPath string) (result Result) {
	startTime := time.Now()
	result = Result{FilePath: source}
	defer func() { result.Stats.ProcessingTime = time.Since(startTime) }()

	if c.parser == nil || c.mapper == nil || c.transformer == nil || c.curl == nil {
		return c.fail(&result, fmt.Errorf("converter is missing an API pipeline stage"))
	}

	c.logger.Info("generating API calls", "source", source, "sheet", c.apiSheet)

	// =========================================================================
	// STEP 1: PARSE FIELD SHEET
	// =========================================================================

	wb, err := c.parser.Parse(ctx, source, types.SheetByName(c.apiSheet))
	if err != nil {
		return c.fail(&result, err)
	}
	result.Stats.SheetsProcessed = len(wb.Tables)
	result.Stats.RowsProcessed = wb.RowCount()

	if err := ctx.Err(); err != nil {
		return c.fail(&result, err)
	}

	// =========================================================================
	// STEP 2: APPLY FIELD MAPPING
	// =========================================================================

	wb = c.mapper.Apply(wb, c.apiSheet)

	// =========================================================================
	// STEP 3: BUILD DOCUMENTS
	// =========================================================================

	payload := c.transformer.Build(wb, c.apiSheet)
	result.Stats.DocumentsCreated = len(payload.Documents)

	// =========================================================================
	// STEP 4: VALIDATE PAYLOAD
	// =========================================================================

	if err := validation.ValidatePayload(payload); err != nil {
		return c.fail(&result, err)
	}

	if err := ctx.Err(); err != nil {
		return c.fail(&result, err)
	}

	// =========================================================================
	// STEP 5: RENDER CURL COMMANDS
	// =========================================================================

	commands, err := c.curl.Emit(payload)
	if err != nil {
		return c.fail(&result, err)
	}
	result.Stats.CallsGenerated = len(commands)

	// =========================================================================
	// STEP 6: WRITE SCRIPT
	// =========================================================================

	if err := c.curl.Save(commands, outputPath); err != nil {
		return c.fail(&result, err)
	}

	if len(commands) > 0 {
		result.OutputFile = outputPath
	}
	result.Success = true
	c.logger.Info("API generation finished", "source", source, "output", result.OutputFile,
		"documents", result.Stats.DocumentsCreated, "calls", result.Stats.CallsGenerated)
	return result
}

// fail records err on the result and logs it.
func (c *Converter) fail(result *Result, err error) Result {
	result.Error = err
	result.Success = false
	c.logger.Error("conversion failed", "source", result.FilePath, "error", err)
	return *result
}
