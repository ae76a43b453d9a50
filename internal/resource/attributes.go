package resource

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// nestedSuffix marks nested-attribute keys, as in "elementList_attributes".
const nestedSuffix = "_attributes"

// SetAttributes assigns a mapping of property names to values.
//
// Keys naming a declared property are set through that property's Term.
// "<name>_attributes" keys are honored for properties that accept nested
// attributes: each entry builds a new child through Term.Build. Other keys
// are ignored. Properties are visited in declaration order so assignment
// is deterministic.
func (r *Resource) SetAttributes(attrs any) error {
	values, err := attributeMap(attrs)
	if err != nil {
		return err
	}
	for _, p := range r.class.properties {
		if v, ok := values[p.Name]; ok {
			if err := r.SetValue(p.Name, v); err != nil {
				return err
			}
		}
		if !r.class.AcceptsNested(p.Name) {
			continue
		}
		if v, ok := values[p.Name+nestedSuffix]; ok {
			if err := r.assignNested(p.Name, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Resource) assignNested(name string, value any) error {
	entries, _, err := nestedEntries(value)
	if err != nil {
		return fmt.Errorf("%s%s: %w", name, nestedSuffix, err)
	}
	t, err := r.Term(name)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if _, err := t.Build(e.attrs); err != nil {
			return err
		}
	}
	return nil
}

// nestedEntry is one child's attributes. index is set when the entries
// came from a position-keyed mapping.
type nestedEntry struct {
	index int
	attrs map[string]any
}

// nestedEntries accepts a slice of mappings, a mapping keyed by position
// ("0", "1", ...), or a single mapping. indexed reports the second form.
func nestedEntries(value any) (entries []nestedEntry, indexed bool, err error) {
	if items, ok := value.([]any); ok {
		out := make([]nestedEntry, 0, len(items))
		for i, item := range items {
			if item == nil {
				out = append(out, nestedEntry{index: i, attrs: map[string]any{}})
				continue
			}
			attrs, err := attributeMap(item)
			if err != nil {
				return nil, false, err
			}
			out = append(out, nestedEntry{index: i, attrs: attrs})
		}
		return out, false, nil
	}

	m, err := attributeMap(value)
	if err != nil {
		return nil, false, err
	}
	if byIndex, ok := indexedEntries(m); ok {
		return byIndex, true, nil
	}
	return []nestedEntry{{attrs: m}}, false, nil
}

// indexedEntries reports whether every key of m is a non-negative integer
// and, if so, returns the entries in index order.
func indexedEntries(m map[string]any) ([]nestedEntry, bool) {
	if len(m) == 0 {
		return nil, false
	}
	out := make([]nestedEntry, 0, len(m))
	for k, v := range m {
		i, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || i < 0 {
			return nil, false
		}
		attrs := map[string]any{}
		if v != nil {
			m, err := attributeMap(v)
			if err != nil {
				return nil, false
			}
			attrs = m
		}
		out = append(out, nestedEntry{index: i, attrs: attrs})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].index < out[b].index })
	return out, true
}

// attributeMap converts the mapping shapes produced by Go callers and YAML
// decoding into map[string]any. Anything else, nil included, is an
// ErrCodeInvalidAttributes error.
func attributeMap(attrs any) (map[string]any, error) {
	switch m := attrs.(type) {
	case map[string]any:
		return m, nil
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[k] = v
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, nil
	case map[int]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[strconv.Itoa(k)] = v
		}
		return out, nil
	default:
		return nil, &Error{
			Code:    ErrCodeInvalidAttributes,
			Message: fmt.Sprintf("attributes must be a mapping, got %T", attrs),
		}
	}
}
