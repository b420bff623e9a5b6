// =============================================================================
// Excel API Generator - curl Script Writer
// =============================================================================
//
// This module renders API payloads as curl command text and writes them into
// an executable shell script. Nothing is sent over the network; the script is
// meant to be reviewed and run by an operator.
//
// COMMAND LAYOUT:
//
//   curl \
//     --url 'https://host/api/documents' \
//     -X POST \
//     -H 'Content-Type: application/json' \
//     -H 'Authorization: Basic dXNlcjpwYXNz' \
//     --data '{
//       "Document": [
//         ...
//       ]
//     }'
//
// The Authorization header is only present when both a username and a
// password are configured.
//
// SCRIPT LAYOUT:
//
//   #!/bin/bash
//   # Generated API calls
//
//   # API Call 1
//   curl ...
//
//   # API Call 2
//   curl ...
//
// =============================================================================

package curlwriter

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/ginjaninja78/excel-api-generator/internal/jsonwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
	"github.com/ginjaninja78/excel-api-generator/pkg/utils"
)

// Batching modes.
const (
	// BatchSingle emits one call carrying the whole payload.
	BatchSingle = "single"

	// BatchPerDocument emits one call per Document.
	BatchPerDocument = "per-document"
)

// partSeparator joins the parts of one command: a line continuation
// followed by a two-space indent.
const partSeparator = " \\\n  "

// Options configures a Generator.
type Options struct {
	// Endpoint is the URL every call targets.
	Endpoint string

	// Username and Password enable Basic authentication when both are set.
	Username string
	Password string

	// Batching is BatchSingle (default) or BatchPerDocument.
	Batching string
}

// Generator renders payloads as curl commands.
type Generator struct {
	opts   Options
	logger logging.Logger
}

// New creates a Generator. An unknown batching mode is rejected with a
// Format error.
func New(opts Options, logger logging.Logger) (*Generator, error) {
	switch opts.Batching {
	case "":
		opts.Batching = BatchSingle
	case BatchSingle, BatchPerDocument:
	default:
		return nil, types.Errorf(types.ErrFormat, "curl options", "", "unknown batching mode %q", opts.Batching)
	}
	return &Generator{opts: opts, logger: logging.OrDiscard(logger)}, nil
}

// =============================================================================
// COMMAND GENERATION
// =============================================================================

// Emit renders p as curl commands.
//
// RETURNS:
//   - One command for the whole payload (single batching), or one per
//     Document (per-document batching). A payload without Documents yields
//     an empty slice and a warning.
func (g *Generator) Emit(p types.Payload) ([]string, error) {
	if len(p.Documents) == 0 {
		g.logger.Warn("payload has no documents, no API calls generated")
		return []string{}, nil
	}

	var bodies []types.Payload
	if g.opts.Batching == BatchPerDocument {
		for _, d := range p.Documents {
			bodies = append(bodies, types.Payload{Documents: []types.Document{d}})
		}
	} else {
		bodies = []types.Payload{p}
	}

	commands := make([]string, 0, len(bodies))
	for _, body := range bodies {
		cmd, err := g.Command(body)
		if err != nil {
			return nil, err
		}
		commands = append(commands, cmd)
	}

	g.logger.Debug("generated API calls", "calls", len(commands), "documents", len(p.Documents), "batching", g.opts.Batching)
	return commands, nil
}

// Command renders a single curl command whose body is p.
func (g *Generator) Command(p types.Payload) (string, error) {
	body, err := jsonwriter.Marshal(jsonwriter.FromPayload(p), 2)
	if err != nil {
		return "", err
	}
	// Continuation lines of the body line up under --data.
	body = strings.ReplaceAll(body, "\n", "\n  ")

	parts := []string{
		"curl",
		"--url " + quote(g.opts.Endpoint),
		"-X POST",
		"-H " + quote("Content-Type: application/json"),
	}
	if header, ok := g.authorization(); ok {
		parts = append(parts, "-H "+quote(header))
	}
	parts = append(parts, "--data "+quote(body))

	return strings.Join(parts, partSeparator), nil
}

// authorization returns the Basic auth header when both credentials are set.
func (g *Generator) authorization() (string, bool) {
	if g.opts.Username == "" || g.opts.Password == "" {
		return "", false
	}
	token := base64.StdEncoding.EncodeToString([]byte(g.opts.Username + ":" + g.opts.Password))
	return "Authorization: Basic " + token, true
}

// quote wraps s in single quotes for the shell. Embedded single quotes are
// closed, escaped and reopened.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// =============================================================================
// SCRIPT OUTPUT
// =============================================================================

// Script renders commands as the text of a bash script.
func Script(commands []string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("# Generated API calls\n\n")
	for i, cmd := range commands {
		fmt.Fprintf(&b, "# API Call %d\n", i+1)
		b.WriteString(cmd)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Save writes commands to an executable script at path.
//
// PARAMETERS:
//   - commands: The rendered curl commands.
//   - path: The script file. Parent directories are created.
//
// RETURNS:
//   - An IO error if the file cannot be written. When commands is empty
//     nothing is written and a warning is logged.
func (g *Generator) Save(commands []string, path string) error {
	if len(commands) == 0 {
		g.logger.Warn("no commands to save", "path", path)
		return nil
	}

	if err := utils.WriteFileAtomic(path, []byte(Script(commands)), 0755); err != nil {
		return types.NewError(types.ErrIO, "save", path, err)
	}

	g.logger.Info("saved API calls", "path", path, "calls", len(commands))
	return nil
}
