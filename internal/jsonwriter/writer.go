package jsonwriter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lestrrat-go/strftime"

	"github.com/ginjaninja78/excel-api-generator/internal/logging"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
	"github.com/ginjaninja78/excel-api-generator/pkg/utils"
)

// =============================================================================
// JSON GENERATION OPTIONS
// =============================================================================

// Options contains options for JSON generation.
type Options struct {
	// Indent is the number of spaces per nesting level. 0 renders compact
	// output on a single line.
	// Default: 2
	Indent int

	// DateFormat is the strftime pattern for Temporal values.
	// Default: "%Y-%m-%d"
	DateFormat string

	// Flatten collapses nested objects before serialization.
	// Default: false
	Flatten bool

	// Separator joins flattened keys.
	// Default: "_"
	Separator string
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		Indent:     2,
		DateFormat: "%Y-%m-%d",
		Separator:  "_",
	}
}

// Writer renders trees to JSON text and writes the artifact.
type Writer struct {
	opts   Options
	date   *strftime.Strftime
	logger logging.Logger
}

// New creates a Writer. It fails with a Format error when DateFormat is
// not a valid strftime pattern.
func New(opts Options, logger logging.Logger) (*Writer, error) {
	if opts.DateFormat == "" {
		opts.DateFormat = DefaultOptions().DateFormat
	}
	if opts.Separator == "" {
		opts.Separator = DefaultOptions().Separator
	}
	if opts.Indent < 0 {
		opts.Indent = 0
	}

	date, err := strftime.New(opts.DateFormat)
	if err != nil {
		return nil, types.NewError(types.ErrFormat, "date format", "", err)
	}

	return &Writer{opts: opts, date: date, logger: logging.OrDiscard(logger)}, nil
}

// =============================================================================
// PROCESSING
// =============================================================================

// Process runs the artifact pipeline over data.
//
// PARAMETERS:
//   - data: Anything FromValue accepts (typically a *types.Workbook).
//   - outputPath: Where to write the artifact. Empty means do not write.
//
// RETURNS:
//   - The serialized JSON text.
//   - A Serialization error if data cannot be rendered or the rendered text
//     does not parse back as JSON; an IO error if the write fails.
//
// PIPELINE:
//   1. Build the tree
//   2. Clean (drop null keys and null array elements, missing becomes null)
//   3. Flatten, if configured
//   4. Serialize
//   5. Reparse to confirm the text is valid JSON
//   6. Write atomically, creating parent directories
func (w *Writer) Process(data any, outputPath string) (string, error) {
	node, err := FromValue(data)
	if err != nil {
		return "", err
	}

	node = Clean(node)
	if w.opts.Flatten {
		node = Flatten(node, w.opts.Separator)
	}

	out, err := w.Serialize(node)
	if err != nil {
		return "", err
	}

	if !json.Valid([]byte(out)) {
		return "", types.Errorf(types.ErrSerialization, "serialize", outputPath, "generated text is not valid JSON")
	}

	if outputPath != "" {
		if err := w.Save(out, outputPath); err != nil {
			return "", err
		}
	}

	return out, nil
}

// Save writes text to path. Parent directories are created and the file is
// replaced atomically.
func (w *Writer) Save(text, path string) error {
	if err := utils.WriteFileAtomic(path, []byte(text), 0644); err != nil {
		return types.NewError(types.ErrIO, "save", path, err)
	}
	w.logger.Info("saved json", "path", path, "bytes", len(text))
	return nil
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// Serialize renders node as JSON. Non-ASCII text is written as UTF-8 and
// HTML characters are not escaped. Temporal values use the configured date
// format and Missing values render as null.
func (w *Writer) Serialize(node Node) (string, error) {
	var buf bytes.Buffer
	if err := w.writeNode(&buf, node, 0); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeNode writes node at the given nesting level.
func (w *Writer) writeNode(buf *bytes.Buffer, node Node, level int) error {
	switch x := node.(type) {
	case nil, Null:
		buf.WriteString("null")
		return nil
	case Scalar:
		return w.writeScalar(buf, x.Value, level)
	case Integer:
		buf.WriteString(string(x))
		return nil
	case Array:
		if len(x) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			w.newline(buf, level+1)
			if err := w.writeNode(buf, e, level+1); err != nil {
				return err
			}
		}
		w.newline(buf, level)
		buf.WriteByte(']')
		return nil
	case *Object:
		if len(x.Members) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteByte('{')
		for i, m := range x.Members {
			if i > 0 {
				buf.WriteByte(',')
			}
			w.newline(buf, level+1)
			if m.NullKey {
				buf.WriteString(`"null"`)
			} else {
				writeString(buf, m.Key)
			}
			buf.WriteByte(':')
			if w.opts.Indent > 0 {
				buf.WriteByte(' ')
			}
			if err := w.writeNode(buf, m.Value, level+1); err != nil {
				return err
			}
		}
		w.newline(buf, level)
		buf.WriteByte('}')
		return nil
	}
	return types.Errorf(types.ErrSerialization, "serialize", "", "unsupported node %s", kindOf(node))
}

// newline starts a new indented line. It writes nothing in compact mode.
func (w *Writer) newline(buf *bytes.Buffer, level int) {
	if w.opts.Indent <= 0 {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", level*w.opts.Indent))
}

func (w *Writer) writeScalar(buf *bytes.Buffer, v types.Value, level int) error {
	switch x := v.(type) {
	case nil, types.Missing:
		buf.WriteString("null")
	case types.Text:
		writeString(buf, string(x))
	case types.Boolean:
		if x {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case types.Number:
		b, err := json.Marshal(float64(x))
		if err != nil {
			return types.NewError(types.ErrSerialization, "serialize", "", err)
		}
		buf.Write(b)
	case types.Temporal:
		writeString(buf, w.date.FormatString(x.Time))
	case types.List:
		arr := make(Array, len(x))
		for i, e := range x {
			arr[i] = Scalar{Value: e}
		}
		return w.writeNode(buf, arr, level)
	default:
		return types.Errorf(types.ErrSerialization, "serialize", "", "unsupported value %T", v)
	}
	return nil
}

// writeString writes s as a JSON string literal without HTML escaping.
func writeString(buf *bytes.Buffer, s string) {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a Go string cannot fail.
		panic(fmt.Sprintf("jsonwriter: encode string: %v", err))
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
}

// Marshal renders node with the default options and the given indent.
func Marshal(node Node, indent int) (string, error) {
	opts := DefaultOptions()
	opts.Indent = indent
	w, err := New(opts, nil)
	if err != nil {
		return "", err
	}
	return w.Serialize(node)
}
