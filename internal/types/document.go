package types

// =============================================================================
// API DOCUMENT TYPES
// =============================================================================
//
// The API payload has this shape:
//
//   {
//     "Document": [
//       {
//         "applicationName": "ENGINE",
//         "formName": "ENGINE_FIELD_SETTINGS",
//         "phase": "",
//         "locale": "en",
//         "Fields": [
//           {"fieldName": "ENGINE_FIELD_NAME", "values": ["F1"]},
//           {"fieldName": "ENGINE_HELP_TEXT"}
//         ]
//       }
//     ]
//   }
//
// Struct field order matches the key order above.

// ContainerKey is the top-level key holding the document list.
const ContainerKey = "Document"

// Payload is the body submitted to the API.
type Payload struct {
	Documents []Document `json:"Document"`
}

// Document is the API record built from one row.
type Document struct {
	ApplicationName string       `json:"applicationName"`
	FormName        string       `json:"formName"`
	Phase           string       `json:"phase"`
	Locale          string       `json:"locale"`
	Fields          []FieldEntry `json:"Fields"`
}

// FieldEntry is one named field of a Document. Values is nil when the
// source cell was missing, and is then omitted from the JSON form.
type FieldEntry struct {
	FieldName string   `json:"fieldName"`
	Values    []string `json:"values,omitempty"`
}

// HasValues reports whether the entry carries values.
func (f FieldEntry) HasValues() bool { return f.Values != nil }
