package types

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// SHEET SELECTOR
// =============================================================================

// SheetSelector picks which sheet(s) a loader returns. The zero value
// selects every sheet; otherwise exactly one sheet is selected either by
// name or by 0-based position.
type SheetSelector struct {
	name    string
	index   int
	byIndex bool
	byName  bool
}

// AllSheets selects every sheet in the source.
func AllSheets() SheetSelector { return SheetSelector{} }

// SheetByName selects the sheet called name.
func SheetByName(name string) SheetSelector {
	return SheetSelector{name: name, byName: true}
}

// SheetByIndex selects the sheet at 0-based position i.
func SheetByIndex(i int) SheetSelector {
	return SheetSelector{index: i, byIndex: true}
}

// ParseSheetSelector interprets a command-line value. An empty string
// selects all sheets; a non-negative integer selects by position; anything
// else selects by name.
func ParseSheetSelector(s string) SheetSelector {
	if s == "" {
		return AllSheets()
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 0 {
		return SheetByIndex(i)
	}
	return SheetByName(s)
}

// All reports whether every sheet is selected.
func (s SheetSelector) All() bool { return !s.byName && !s.byIndex }

// Name returns the selected sheet name, if selecting by name.
func (s SheetSelector) Name() (string, bool) { return s.name, s.byName }

// Index returns the selected position, if selecting by index.
func (s SheetSelector) Index() (int, bool) { return s.index, s.byIndex }

// Resolve returns the sheet name the selector picks out of names.
// ok is false when the selector names a sheet that does not exist.
// Resolve must not be called on an all-sheets selector.
func (s SheetSelector) Resolve(names []string) (string, bool) {
	if s.byIndex {
		if s.index < 0 || s.index >= len(names) {
			return "", false
		}
		return names[s.index], true
	}
	for _, n := range names {
		if n == s.name {
			return n, true
		}
	}
	return "", false
}

func (s SheetSelector) String() string {
	switch {
	case s.byName:
		return strconv.Quote(s.name)
	case s.byIndex:
		return "#" + strconv.Itoa(s.index)
	default:
		return "all"
	}
}

// UnmarshalYAML accepts either a string (sheet name) or an integer (index).
func (s *SheetSelector) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("sheet must be a name or an index, got %s", nodeKind(node))
	}
	if node.Tag == "!!int" {
		i, err := strconv.Atoi(node.Value)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid sheet index %q", node.Value)
		}
		*s = SheetByIndex(i)
		return nil
	}
	if node.Tag == "!!null" {
		*s = AllSheets()
		return nil
	}
	*s = SheetByName(node.Value)
	return nil
}

// UnmarshalJSON accepts either a string (sheet name) or an integer (index).
func (s *SheetSelector) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*s = AllSheets()
	case string:
		*s = SheetByName(x)
	case float64:
		if x < 0 || x != float64(int(x)) {
			return fmt.Errorf("invalid sheet index %v", x)
		}
		*s = SheetByIndex(int(x))
	default:
		return fmt.Errorf("sheet must be a name or an index, got %T", v)
	}
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	default:
		return "alias"
	}
}
