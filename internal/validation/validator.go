// =============================================================================
// Excel API Generator - Document Validation
// =============================================================================
//
// This module is the structural gate every API payload passes before any
// call text is generated. It checks the JSON form of the payload, not the
// Go structs, so it validates exactly what will be sent:
//
//   {"Document": [ {applicationName, formName, Fields: [ {fieldName, values?} ]} ]}
//
// RULES:
//   1. "Document" must exist and be an array
//   2. Every Document must have applicationName, formName and Fields
//   3. Fields must be an array
//   4. Every FieldEntry must have a non-empty string fieldName
//   5. values, when present, must be a non-empty array of strings
//
// ERROR HANDLING:
//   - Findings are collected, not returned on the first failure
//   - Each finding carries the JSON path of the offending element
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/ginjaninja78/excel-api-generator/internal/jsonwriter"
	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single structural finding.
type ValidationError struct {
	// Path is the gjson path of the offending element, e.g. "Document.0.Fields.2".
	Path string

	// Rule is the violated rule, e.g. "required", "type", "non-empty".
	Rule string

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// =============================================================================
// VALIDATION FUNCTIONS
// =============================================================================

// Validate reports whether raw is a structurally valid payload.
func Validate(raw []byte) bool {
	return len(Check(raw)) == 0
}

// Check returns every structural finding for raw, in document order.
//
// PARAMETERS:
//   - raw: The JSON text of a payload.
//
// RETURNS:
//   - The findings. Empty means the payload is valid.
func Check(raw []byte) []*ValidationError {
	if !gjson.ValidBytes(raw) {
		return []*ValidationError{{Path: "$", Rule: "syntax", Message: "payload is not valid JSON"}}
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return []*ValidationError{{Path: "$", Rule: "type", Message: "payload must be an object"}}
	}

	docs := root.Get(types.ContainerKey)
	if !docs.Exists() {
		return []*ValidationError{{Path: types.ContainerKey, Rule: "required", Message: "missing key"}}
	}
	if !docs.IsArray() {
		return []*ValidationError{{Path: types.ContainerKey, Rule: "type", Message: "must be an array"}}
	}

	var errs []*ValidationError
	for i, doc := range docs.Array() {
		errs = append(errs, checkDocument(fmt.Sprintf("%s.%d", types.ContainerKey, i), doc)...)
	}
	return errs
}

// checkDocument applies rules 2 to 5 to one Document.
func checkDocument(path string, doc gjson.Result) []*ValidationError {
	if !doc.IsObject() {
		return []*ValidationError{{Path: path, Rule: "type", Message: "document must be an object"}}
	}

	var errs []*ValidationError
	for _, key := range []string{"applicationName", "formName", "Fields"} {
		if !doc.Get(key).Exists() {
			errs = append(errs, &ValidationError{Path: path + "." + key, Rule: "required", Message: "missing key"})
		}
	}

	fields := doc.Get("Fields")
	if !fields.Exists() {
		return errs
	}
	if !fields.IsArray() {
		return append(errs, &ValidationError{Path: path + ".Fields", Rule: "type", Message: "must be an array"})
	}

	for j, field := range fields.Array() {
		errs = append(errs, checkField(fmt.Sprintf("%s.Fields.%d", path, j), field)...)
	}
	return errs
}

// checkField applies rules 4 and 5 to one FieldEntry.
func checkField(path string, field gjson.Result) []*ValidationError {
	if !field.IsObject() {
		return []*ValidationError{{Path: path, Rule: "type", Message: "field entry must be an object"}}
	}

	var errs []*ValidationError

	name := field.Get("fieldName")
	switch {
	case !name.Exists():
		errs = append(errs, &ValidationError{Path: path + ".fieldName", Rule: "required", Message: "missing key"})
	case name.Type != gjson.String:
		errs = append(errs, &ValidationError{Path: path + ".fieldName", Rule: "type", Message: "must be a string"})
	case name.Str == "":
		errs = append(errs, &ValidationError{Path: path + ".fieldName", Rule: "non-empty", Message: "must not be empty"})
	}

	values := field.Get("values")
	if !values.Exists() {
		return errs
	}
	if !values.IsArray() {
		return append(errs, &ValidationError{Path: path + ".values", Rule: "type", Message: "must be an array"})
	}
	items := values.Array()
	if len(items) == 0 {
		return append(errs, &ValidationError{Path: path + ".values", Rule: "non-empty", Message: "must not be empty"})
	}
	for k, v := range items {
		if v.Type != gjson.String {
			errs = append(errs, &ValidationError{
				Path:    fmt.Sprintf("%s.values.%d", path, k),
				Rule:    "type",
				Message: "must be a string",
			})
		}
	}
	return errs
}

// ValidatePayload serializes p and checks it.
//
// RETURNS:
//   - nil if the payload is valid.
//   - A Validation error listing every finding otherwise.
func ValidatePayload(p types.Payload) error {
	raw, err := jsonwriter.Marshal(jsonwriter.FromPayload(p), 0)
	if err != nil {
		return err
	}

	errs := Check([]byte(raw))
	if len(errs) == 0 {
		return nil
	}
	return types.Errorf(types.ErrValidation, "validate", "", "%d problem(s): %s", len(errs), FormatErrors(errs))
}

// FormatErrors joins findings into a single line.
func FormatErrors(errs []*ValidationError) string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}
