package normalize

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/go-openapi/jsonpointer"
	"github.com/spf13/cast"
)

// document wraps a decoded, untyped payload and resolves table fields
// against it. No lookup fails: unresolvable paths yield the field fallback.
type document struct {
	root any
}

// resolve walks the pointer one token at a time. A missing key, a null
// value or a non-object segment ends the walk with nil.
func (d document) resolve(p jsonpointer.Pointer) any {
	node := d.root
	for _, token := range p.DecodedTokens() {
		if _, ok := node.(map[string]any); !ok {
			return nil
		}
		next, _, err := jsonpointer.GetForToken(node, token)
		if err != nil {
			return nil
		}
		node = next
	}
	return node
}

// present mirrors the service contract: null, empty strings, zero numbers and
// false all count as "not sent".
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err == nil && f != 0
	case map[string]any, []any:
		return true
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return true
		}
		return f != 0
	}
}

func (d document) text(f textField) string {
	v := d.resolve(f.pointer)
	if !present(v) {
		return f.fallback
	}
	s, err := stringify(v)
	if err != nil {
		return f.fallback
	}
	return s
}

// raw renders the value as sent, including zero values. Only an absent or
// null value is replaced, always with NotAvailable.
func (d document) raw(f textField) string {
	v := d.resolve(f.pointer)
	if v == nil {
		return NotAvailable
	}
	s, err := stringify(v)
	if err != nil {
		return NotAvailable
	}
	return s
}

func (d document) number(f numberField) float64 {
	v := d.resolve(f.pointer)
	if !present(v) {
		return 0
	}
	n, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// list keeps the array's scalar elements as text. Anything that is not an
// array becomes an empty list.
func (d document) list(f listField) []string {
	items, ok := d.resolve(f.pointer).([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		s, err := stringify(item)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}

func (d document) has(p jsonpointer.Pointer) bool {
	return present(d.resolve(p))
}

func stringify(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", errNotScalar
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(s), nil
}
