// =============================================================================
// Excel API Generator - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which turns the field sheet of a
// spreadsheet into a shell script of curl API calls.
//
// COMMAND USAGE:
//   xl2api generate --excel FILE --mapping FILE --endpoint URL [flags]
//
// FLAGS:
//   --excel, -e     : Spreadsheet holding one field definition per row
//   --mapping, -m   : Column -> API field name mapping (JSON or YAML)
//   --endpoint      : URL the generated calls target
//   --output, -o    : Script to write. Default: a generated name in the
//                     configured output directory
//   --username      : Basic auth user (or XL2API_USERNAME)
//   --password      : Basic auth password (or XL2API_PASSWORD)
//   --sheet, -s     : Field sheet name. Default: "fields"
//   --batching      : "single" or "per-document". Default: "single"
//
// Precedence: flags, then XL2API_* environment variables, then the api
// section of the configuration file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-api-generator/internal/converter"
	"github.com/ginjaninja78/excel-api-generator/internal/curlwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/mapper"
	"github.com/ginjaninja78/excel-api-generator/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	generateExcel    string
	generateMapping  string
	generateEndpoint string
	generateOutput   string
	generateUsername string
	generatePassword string
	generateSheet    string
	generateBatching string
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate curl API calls from a field spreadsheet",
	Long: `The generate command reads the field sheet of a spreadsheet, renames its
columns with the mapping file, builds one API Document per row, validates the
payload, and writes the curl calls into an executable shell script.

Nothing is sent. Review the script, then run it to submit the Documents.

Example:
  xl2api generate -e fields.xlsx -m mapping.json \
      --endpoint https://api.example.com/documents \
      --username svc --password secret -o calls.sh`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)

	flags := generateCmd.Flags()
	flags.StringVarP(&generateExcel, "excel", "e", "", "Path to the spreadsheet")
	flags.StringVarP(&generateMapping, "mapping", "m", "", "Path to the field mapping file")
	flags.StringVar(&generateEndpoint, "endpoint", "", "API endpoint URL")
	flags.StringVarP(&generateOutput, "output", "o", "", "Path to save the curl script")
	flags.StringVar(&generateUsername, "username", "", "Username for Basic authentication")
	flags.StringVar(&generatePassword, "password", "", "Password for Basic authentication")
	flags.StringVarP(&generateSheet, "sheet", "s", "", "Field sheet name (default: fields)")
	flags.StringVar(&generateBatching, "batching", "", "Call batching: single or per-document")

	generateCmd.MarkFlagRequired("excel")
}

// =============================================================================
// GENERATE EXECUTION
// =============================================================================

func runGenerate(cmd *cobra.Command) error {
	api := appConfig.API

	override := func(flag string, dst *string, value string) {
		if cmd.Flags().Changed(flag) {
			*dst = value
		}
	}
	override("mapping", &api.MappingFile, generateMapping)
	override("endpoint", &api.Endpoint, generateEndpoint)
	override("username", &api.Username, generateUsername)
	override("password", &api.Password, generatePassword)
	override("sheet", &api.Sheet, generateSheet)
	override("batching", &api.Batching, generateBatching)

	if api.MappingFile == "" {
		return fmt.Errorf("a mapping file is required (--mapping or api.mappingFile)")
	}
	if api.Endpoint == "" {
		return fmt.Errorf("an endpoint is required (--endpoint, api.endpoint or XL2API_ENDPOINT)")
	}

	if (api.Username == "") != (api.Password == "") {
		logger.Warn("only one of username and password is set, calls carry no Authorization header")
	}

	output := generateOutput
	if output == "" {
		output = utils.OutputPath(appConfig.Output.Dir, appConfig.Output.NameFormat, generateExcel, "sh")
	}

	fieldMapper := mapper.New(logger)
	if _, err := fieldMapper.Load(api.MappingFile); err != nil {
		return err
	}

	curl, err := curlwriter.New(curlwriter.Options{
		Endpoint: api.Endpoint,
		Username: api.Username,
		Password: api.Password,
		Batching: api.Batching,
	}, logger)
	if err != nil {
		return err
	}

	conv := converter.New(converter.Components{
		Parser: newParser(appConfig),
		Mapper: fieldMapper,
		Transformer: converter.NewTransformer(converter.DocumentSettings{
			ApplicationName: api.ApplicationName,
			FormName:        api.FormName,
			Locale:          api.Locale,
		}, logger),
		Curl:     curl,
		APISheet: api.Sheet,
	}, logger)

	result := conv.RunAPI(cmd.Context(), generateExcel, output)
	if !result.Success {
		return result.Error
	}

	if result.OutputFile == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "No API calls generated: sheet %q has no rows\n", api.Sheet)
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d document(s), %d call(s)) in %s\n",
		result.OutputFile, result.Stats.DocumentsCreated, result.Stats.CallsGenerated,
		result.Stats.ProcessingTime.Round(time.Millisecond))
	return nil
}
