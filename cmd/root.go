// =============================================================================
// Excel API Generator - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (xl2api)
//   ├── convertCmd  (xl2api convert)
//   ├── generateCmd (xl2api generate)
//   └── versionCmd  (xl2api version)
//
// CONFIGURATION:
//   Before any subcommand runs, the root command:
//   1. Loads the configuration file (--config)
//   2. Applies XL2API_* environment overrides, optionally from --env-file
//   3. Sets up structured logging (--verbose forces debug level)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/excel-api-generator/internal/config"
	"github.com/ginjaninja78/excel-api-generator/internal/csvparser"
	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/xlsxparser"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// envFile holds the path to the optional dotenv file.
var envFile string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig and logger are initialized before any subcommand runs.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "xl2api",
	Short: "Excel to JSON and API-call generator",
	Long: `xl2api turns spreadsheet data into two kinds of artifacts:

  - a normalized JSON document of every sheet (convert)
  - an executable shell script of curl calls that submit one API Document
    per spreadsheet row (generate)

No network calls are made. The generated script is meant to be reviewed and
run separately.

Example Usage:
  xl2api convert --excel data.xlsx --output data.json
  xl2api generate --excel fields.xlsx --mapping mapping.json \
      --endpoint https://api.example.com/documents --output calls.sh`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		if logger != nil {
			logger.Error("command failed", "error", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgFile,
		"config",
		"c",
		"config.yaml",
		"Path to the configuration file (YAML or JSON)",
	)

	rootCmd.PersistentFlags().StringVar(
		&envFile,
		"env-file",
		".env",
		"Path to a dotenv file with XL2API_* credentials",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}

// initConfig loads the configuration and sets up logging. A missing
// default config file is fine; a missing file named with --config is not.
func initConfig(cmd *cobra.Command) error {
	var err error
	if cmd.Flags().Changed("config") {
		appConfig, err = config.Load(cfgFile)
	} else {
		appConfig, err = config.LoadOrDefault(cfgFile)
	}
	if err != nil {
		return err
	}

	if err := appConfig.ApplyEnv(envFile); err != nil {
		return err
	}

	level := appConfig.Logging.Level
	if verbose {
		level = "debug"
	}
	logger = logging.Setup(level, appConfig.Logging.Format)
	logger.Debug("configuration loaded", "config", cfgFile, "explicit", cmd.Flags().Changed("config"))
	return nil
}

// newParser builds the loader from the parser config section.
func newParser(cfg *config.Config) *xlsxparser.Parser {
	return xlsxparser.New(xlsxparser.Options{
		HeaderRow:       cfg.Parser.HeaderRow,
		RequiredColumns: cfg.Parser.RequiredColumns,
		Strict:          cfg.Parser.Strict,
		CSV:             csvparser.DefaultSettings(),
	}, logger)
}
