// =============================================================================
// Excel API Generator - JSON Tree
// =============================================================================
//
// Artifacts are rendered from a small tagged tree rather than from Go maps so
// that key order is kept exactly as the source produced it:
//
//   Object  - ordered members; a member may carry a null key
//   Array   - ordered elements
//   Scalar  - a cell value (Text, Number, Boolean, Temporal, Missing)
//   Integer - a native Go integer, kept as its decimal digits
//   Null    - JSON null
//
// The tree is immutable once built; Clean and Flatten return new trees.
//
// =============================================================================

package jsonwriter

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/ginjaninja78/excel-api-generator/internal/types"
)

// Node is one element of a JSON tree. The set of implementations is
// closed: *Object, Array, Scalar, Integer and Null.
type Node interface {
	isNode()
}

// Member is one key/value pair of an Object.
type Member struct {
	// Key is the member name. Ignored when NullKey is set.
	Key string

	// NullKey marks a member whose key is null. Clean removes such members.
	NullKey bool

	Value Node
}

// Object is an ordered JSON object.
type Object struct {
	Members []Member
}

// Array is an ordered JSON array.
type Array []Node

// Scalar wraps a single cell value.
type Scalar struct {
	Value types.Value
}

// Integer is a native Go integer held as decimal digits, so values beyond
// the float64 mantissa serialize exactly.
type Integer string

// Null is JSON null.
type Null struct{}

func (*Object) isNode() {}
func (Array) isNode()   {}
func (Scalar) isNode()  {}
func (Integer) isNode() {}
func (Null) isNode()    {}

// Set appends key/value, or replaces the value in place when key already
// exists.
func (o *Object) Set(key string, value Node) {
	for i := range o.Members {
		if !o.Members[i].NullKey && o.Members[i].Key == key {
			o.Members[i].Value = value
			return
		}
	}
	o.Members = append(o.Members, Member{Key: key, Value: value})
}

// =============================================================================
// TREE CONSTRUCTION
// =============================================================================

// FromWorkbook builds {sheet: [{column: value, ...}, ...], ...} with sheets,
// rows and columns in workbook order.
func FromWorkbook(wb *types.Workbook) *Object {
	root := &Object{}
	for _, t := range wb.Tables {
		records := make(Array, 0, len(t.Rows))
		for _, row := range t.Rows {
			records = append(records, FromRow(row))
		}
		root.Set(t.Name, records)
	}
	return root
}

// FromRow builds an object with one member per cell, in column order.
func FromRow(row types.Row) *Object {
	cells := row.Cells()
	obj := &Object{Members: make([]Member, 0, len(cells))}
	for _, c := range cells {
		obj.Members = append(obj.Members, Member{Key: c.Column, Value: fromCell(c.Value)})
	}
	return obj
}

// FromPayload builds the tree of an API payload. FieldEntries without
// values have no "values" member.
func FromPayload(p types.Payload) *Object {
	docs := make(Array, 0, len(p.Documents))
	for _, d := range p.Documents {
		docs = append(docs, FromDocument(d))
	}
	root := &Object{}
	root.Set(types.ContainerKey, docs)
	return root
}

// FromDocument builds the tree of a single Document.
func FromDocument(d types.Document) *Object {
	fields := make(Array, 0, len(d.Fields))
	for _, f := range d.Fields {
		entry := &Object{}
		entry.Set("fieldName", text(f.FieldName))
		if f.HasValues() {
			values := make(Array, len(f.Values))
			for i, v := range f.Values {
				values[i] = text(v)
			}
			entry.Set("values", values)
		}
		fields = append(fields, entry)
	}

	doc := &Object{}
	doc.Set("applicationName", text(d.ApplicationName))
	doc.Set("formName", text(d.FormName))
	doc.Set("phase", text(d.Phase))
	doc.Set("locale", text(d.Locale))
	doc.Set("Fields", fields)
	return doc
}

func text(s string) Node { return Scalar{Value: types.Text(s)} }

// fromCell converts a cell value; lists become arrays.
func fromCell(v types.Value) Node {
	switch x := v.(type) {
	case nil:
		return Scalar{Value: types.Missing{}}
	case types.List:
		arr := make(Array, len(x))
		for i, e := range x {
			arr[i] = fromCell(e)
		}
		return arr
	default:
		return Scalar{Value: v}
	}
}

// FromValue converts an arbitrary Go value into a tree.
//
// Supported inputs: nil, Node, types.Value, *types.Workbook, types.Payload,
// types.Document, time.Time, strings, booleans, integers (kept exact),
// floats (NaN becomes Missing), slices and arrays, and maps whose keys are strings,
// booleans or numbers. A nil key in a map[any]... produces a null-key member.
// Map members are emitted in sorted key order.
//
// Any other type fails with a Serialization error.
func FromValue(v any) (Node, error) {
	switch x := v.(type) {
	case nil:
		return Null{}, nil
	case Node:
		return x, nil
	case types.Value:
		return fromCell(x), nil
	case *types.Workbook:
		return FromWorkbook(x), nil
	case types.Payload:
		return FromPayload(x), nil
	case *types.Payload:
		return FromPayload(*x), nil
	case types.Document:
		return FromDocument(x), nil
	case time.Time:
		return Scalar{Value: types.Temporal{Time: x}}, nil
	case string:
		return Scalar{Value: types.Text(x)}, nil
	case bool:
		return Scalar{Value: types.Boolean(x)}, nil
	case float64:
		return number(x), nil
	case float32:
		return number(float64(x)), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Integer(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return FromValue(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null{}, nil
		}
		arr := make(Array, rv.Len())
		for i := range arr {
			n, err := FromValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			arr[i] = n
		}
		return arr, nil
	case reflect.Map:
		return fromMap(rv)
	}

	return nil, types.Errorf(types.ErrSerialization, "serialize", "", "unsupported type %T", v)
}

func number(f float64) Node {
	if math.IsNaN(f) {
		return Scalar{Value: types.Missing{}}
	}
	return Scalar{Value: types.Number(f)}
}

// fromMap converts a map with sorted keys.
func fromMap(rv reflect.Value) (Node, error) {
	if rv.IsNil() {
		return Null{}, nil
	}

	type entry struct {
		key     string
		nullKey bool
		value   reflect.Value
	}
	entries := make([]entry, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key, nullKey, err := mapKey(iter.Key())
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{key: key, nullKey: nullKey, value: iter.Value()})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].nullKey != entries[j].nullKey {
			return entries[j].nullKey
		}
		return entries[i].key < entries[j].key
	})

	obj := &Object{Members: make([]Member, 0, len(entries))}
	for _, e := range entries {
		n, err := FromValue(e.value.Interface())
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, Member{Key: e.key, NullKey: e.nullKey, Value: n})
	}
	return obj, nil
}

// mapKey renders a map key the way JSON encoders coerce keys.
func mapKey(k reflect.Value) (string, bool, error) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "", true, nil
		}
		k = k.Elem()
	}
	switch k.Kind() {
	case reflect.String:
		return k.String(), false, nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), false, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(k.Uint(), 10), false, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'f', -1, 64), false, nil
	}
	return "", false, types.Errorf(types.ErrSerialization, "serialize", "", "unsupported map key type %s", k.Type())
}

// =============================================================================
// TREE TRANSFORMS
// =============================================================================

// Clean returns a copy of n in which null-key members and null array
// elements are removed, and missing scalars become Null. A missing array
// element is kept as null.
func Clean(n Node) Node {
	switch x := n.(type) {
	case *Object:
		out := &Object{Members: make([]Member, 0, len(x.Members))}
		for _, m := range x.Members {
			if m.NullKey {
				continue
			}
			out.Members = append(out.Members, Member{Key: m.Key, Value: Clean(m.Value)})
		}
		return out
	case Array:
		out := make(Array, 0, len(x))
		for _, e := range x {
			switch e.(type) {
			case nil, Null:
				continue
			}
			out = append(out, Clean(e))
		}
		return out
	case Scalar:
		if types.IsMissing(x.Value) {
			return Null{}
		}
		return x
	case nil:
		return Null{}
	default:
		return n
	}
}

// Flatten collapses nested objects and arrays into a single level. Nested
// keys are joined with sep; array elements use their index as the key part.
// An empty nested object or array contributes no keys.
//
// Applied to an object, the object is flattened. Applied to an array whose
// elements are all objects, each element is flattened. Anything else is
// returned unchanged.
//
// Example with sep "_": {"a": {"b": 1}, "c": [{"d": 2}, [3]]} becomes
// {"a_b": 1, "c_0_d": 2, "c_1_0": 3}.
func Flatten(n Node, sep string) Node {
	switch x := n.(type) {
	case *Object:
		out := &Object{}
		flattenInto(out, x, "", sep)
		return out
	case Array:
		for _, e := range x {
			if _, ok := e.(*Object); !ok {
				return n
			}
		}
		out := make(Array, len(x))
		for i, e := range x {
			flat := &Object{}
			flattenInto(flat, e, "", sep)
			out[i] = flat
		}
		return out
	default:
		return n
	}
}

// flattenInto adds n to out under key, descending into objects per member
// and arrays per index.
func flattenInto(out *Object, n Node, key, sep string) {
	join := func(part string) string {
		if key == "" {
			return part
		}
		return key + sep + part
	}

	switch v := n.(type) {
	case *Object:
		for _, m := range v.Members {
			flattenInto(out, m.Value, join(m.Key), sep)
		}
	case Array:
		for i, e := range v {
			flattenInto(out, e, join(strconv.Itoa(i)), sep)
		}
	default:
		out.Set(key, n)
	}
}

// kindOf names the node kind for error messages.
func kindOf(n Node) string {
	switch n.(type) {
	case *Object:
		return "object"
	case Array:
		return "array"
	case Scalar:
		return "scalar"
	case Integer:
		return "integer"
	case Null:
		return "null"
	}
	return fmt.Sprintf("%T", n)
}
