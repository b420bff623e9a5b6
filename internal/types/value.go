// =============================================================================
// Excel API Generator - Cell Values
// =============================================================================
//
// A spreadsheet cell is modelled as a closed set of value kinds rather than an
// untyped interface{}. Every stage that has to decide "is this cell empty?"
// does so with IsMissing, and every stage that has to render a cell does so
// with Value.String, so the missing / non-missing branch is an exhaustive
// switch over Kind.
//
// VALUE KINDS:
//   Text      - a string cell
//   Number    - a numeric cell (float64)
//   Boolean   - a TRUE/FALSE cell
//   Temporal  - a date or date-time cell
//   Missing   - the normalized absence-of-data marker
//   List      - a multi-value cell (ordered scalars)
//
// =============================================================================

package types

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	KindMissing Kind = iota
	KindText
	KindNumber
	KindBoolean
	KindTemporal
	KindList
)

// String returns the kind name used in log and error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindTemporal:
		return "temporal"
	case KindList:
		return "list"
	default:
		return "missing"
	}
}

// TemporalLayout is the layout used when a Temporal is rendered as a field value.
const TemporalLayout = "2006-01-02 15:04:05"

// Value is a single cell value. The set of implementations is closed: Text,
// Number, Boolean, Temporal, Missing and List.
type Value interface {
	Kind() Kind
	String() string
	isValue()
}

// Text is a string cell.
type Text string

// Number is a numeric cell.
type Number float64

// Boolean is a TRUE/FALSE cell.
type Boolean bool

// Temporal is a date or date-time cell.
type Temporal struct {
	Time time.Time
}

// Missing marks a cell with no usable data.
type Missing struct{}

// List is a multi-value cell.
type List []Value

func (Text) Kind() Kind     { return KindText }
func (Number) Kind() Kind   { return KindNumber }
func (Boolean) Kind() Kind  { return KindBoolean }
func (Temporal) Kind() Kind { return KindTemporal }
func (Missing) Kind() Kind  { return KindMissing }
func (List) Kind() Kind     { return KindList }

func (Text) isValue()     {}
func (Number) isValue()   {}
func (Boolean) isValue()  {}
func (Temporal) isValue() {}
func (Missing) isValue()  {}
func (List) isValue()     {}

func (t Text) String() string { return string(t) }

// String renders the shortest decimal representation ("30", "1200.5").
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// String renders lowercase "true" or "false", matching the JSON literals.
func (b Boolean) String() string { return strconv.FormatBool(bool(b)) }

func (t Temporal) String() string { return t.Time.Format(TemporalLayout) }

func (Missing) String() string { return "" }

// String joins the rendered elements with ", ".
func (l List) String() string {
	return strings.Join(l.Strings(), ", ")
}

// Strings renders every non-missing element, in order.
func (l List) Strings() []string {
	out := make([]string, 0, len(l))
	for _, v := range l {
		if IsMissing(v) {
			continue
		}
		out = append(out, v.String())
	}
	return out
}

// =============================================================================
// MISSING VALUE DETECTION
// =============================================================================

// naSentinels are the string spellings treated as "not available".
// This matches the set most spreadsheet exports and pandas use.
var naSentinels = map[string]struct{}{
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
	"-NaN":     {},
	"-nan":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"<NA>":     {},
	"N/A":      {},
	"NA":       {},
	"NULL":     {},
	"NaN":      {},
	"None":     {},
	"n/a":      {},
	"nan":      {},
	"null":     {},
}

// IsNASentinel reports whether s (already trimmed) is a not-available marker.
func IsNASentinel(s string) bool {
	_, ok := naSentinels[s]
	return ok
}

// IsMissing reports whether v is a MissingValue: nil, Missing, blank Text,
// a not-available sentinel, a NaN Number, or a List with no usable element.
func IsMissing(v Value) bool {
	if v == nil {
		return true
	}
	switch x := v.(type) {
	case Missing:
		return true
	case Text:
		s := strings.TrimSpace(string(x))
		return s == "" || IsNASentinel(s)
	case Number:
		return math.IsNaN(float64(x))
	case Temporal:
		return x.Time.IsZero()
	case List:
		for _, e := range x {
			if !IsMissing(e) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Normalize returns the cleaned form of v: text is trimmed, anything missing
// becomes Missing{}, and list elements are normalized one by one.
func Normalize(v Value) Value {
	if IsMissing(v) {
		return Missing{}
	}
	switch x := v.(type) {
	case Text:
		return Text(strings.TrimSpace(string(x)))
	case List:
		out := make(List, 0, len(x))
		for _, e := range x {
			out = append(out, Normalize(e))
		}
		return out
	default:
		return v
	}
}

// Strings renders v as the ordered string list carried by a FieldEntry.
// Scalars become a single-element list and lists render element-wise.
// The second result is false when v is missing.
func Strings(v Value) ([]string, bool) {
	if IsMissing(v) {
		return nil, false
	}
	if l, ok := v.(List); ok {
		return l.Strings(), true
	}
	return []string{v.String()}, true
}
