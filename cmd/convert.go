// =============================================================================
// Excel API Generator - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which turns a spreadsheet into a
// normalized JSON document.
//
// COMMAND USAGE:
//   xl2api convert --excel FILE [--output FILE] [--sheet NAME|INDEX]
//
// FLAGS:
//   --excel, -e   : Spreadsheet to convert (.xlsx, .xlsm, .csv, ...)
//   --output, -o  : JSON file to write. Default: a generated name in the
//                   configured output directory
//   --sheet, -s   : Sheet name or 0-based index. Default: all sheets
//   --stdout      : Print the JSON instead of writing a file
//
// OUTPUT SHAPE:
//   {"<sheet>": [{"<column>": <value>, ...}, ...], ...}
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-api-generator/internal/converter"
	"github.com/ginjaninja78/excel-api-generator/internal/jsonwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
	"github.com/ginjaninja78/excel-api-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	convertExcel  string
	convertOutput string
	convertSheet  string
	convertStdout bool
)

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a spreadsheet to JSON",
	Long: `The convert command reads every sheet (or the one selected with --sheet),
drops empty rows, trims text, normalizes blank and N/A cells to null, and writes
the result as JSON keyed by sheet name.

Indentation, date format and flattening are taken from the converter section
of the configuration file.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertExcel, "excel", "e", "", "Path to the spreadsheet")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Path to save the JSON output")
	convertCmd.Flags().StringVarP(&convertSheet, "sheet", "s", "", "Sheet name or 0-based index (default: all sheets)")
	convertCmd.Flags().BoolVar(&convertStdout, "stdout", false, "Print the JSON to stdout instead of writing a file")

	convertCmd.MarkFlagRequired("excel")
}

// =============================================================================
// CONVERT EXECUTION
// =============================================================================

func runConvert(cmd *cobra.Command) error {
	cfg := appConfig

	sheet := cfg.Parser.Sheet
	if cmd.Flags().Changed("sheet") {
		sheet = types.ParseSheetSelector(convertSheet)
	}

	output := convertOutput
	if output == "" && !convertStdout {
		output = utils.OutputPath(cfg.Output.Dir, cfg.Output.NameFormat, convertExcel, "json")
	}
	if convertStdout {
		output = ""
	}

	writer, err := jsonwriter.New(jsonwriter.Options{
		Indent:     cfg.Converter.IndentWidth(),
		DateFormat: cfg.Converter.DateFormat,
		Flatten:    cfg.Converter.Flatten,
		Separator:  cfg.Converter.Separator,
	}, logger)
	if err != nil {
		return err
	}

	conv := converter.New(converter.Components{
		Parser: newParser(cfg),
		JSON:   writer,
	}, logger)

	result := conv.RunJSON(cmd.Context(), convertExcel, sheet, output)
	if !result.Success {
		return result.Error
	}

	if convertStdout {
		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d sheet(s), %d row(s)) in %s\n",
		result.OutputFile, result.Stats.SheetsProcessed, result.Stats.RowsProcessed,
		result.Stats.ProcessingTime.Round(time.Millisecond))
	return nil
}
