// =============================================================================
// Excel API Generator - Main Entry Point
// =============================================================================
//
// This is the main entry point for the xl2api CLI application. It delegates
// command execution to the cmd package.
//
// USAGE:
//   xl2api convert    - Convert a spreadsheet to JSON
//   xl2api generate   - Generate curl API calls from a field spreadsheet
//   xl2api version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : CLI command definitions (Cobra)
//   - internal/      : Loader, mapper, document builder, writers
//   - pkg/           : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/excel-api-generator/cmd"
)

func main() {
	cmd.Execute()
}
