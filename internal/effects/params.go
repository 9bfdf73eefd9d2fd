package effects

import (
	"fmt"
	"math"

	simerr "github.com/ShiJbey/neighborly/internal/errors"
)

// Params are the type-specific fields of an authored effect or precondition
// record, as decoded from YAML
type Params map[string]any

// Type returns the record's "type" field
func (p Params) Type() (string, error) {
	return p.String("type")
}

// Has reports whether key is present
func (p Params) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns a required string field
func (p Params) String(key string) (string, error) {
	v, ok := p[key]
	if !ok {
		return "", missing(key)
	}
	s, ok := v.(string)
	if !ok {
		return "", wrongType(key, "string", v)
	}
	return s, nil
}

// StringOr returns an optional string field
func (p Params) StringOr(key, def string) (string, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.String(key)
}

// Float returns a required numeric field. Integers are accepted; NaN and
// infinities are not.
func (p Params) Float(key string) (float64, error) {
	v, ok := p[key]
	if !ok {
		return 0, missing(key)
	}

	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	default:
		return 0, wrongType(key, "number", v)
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, simerr.Validationf("field %q must be a finite number, got %v", key, f).
			WithMeta("field", key)
	}
	return f, nil
}

// FloatOr returns an optional numeric field
func (p Params) FloatOr(key string, def float64) (float64, error) {
	if !p.Has(key) {
		return def, nil
	}
	return p.Float(key)
}

// Int returns a required whole-number field
func (p Params) Int(key string) (int, error) {
	f, err := p.Float(key)
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, wrongType(key, "integer", p[key])
	}
	return int(f), nil
}

// Strings returns an optional list of strings. A missing key is an empty list.
func (p Params) Strings(key string) ([]string, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(key, "list", v)
	}

	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, simerr.Validationf("%s[%d] must be a string, got %s", key, i, describe(item)).
				WithMeta("field", key)
		}
		out = append(out, s)
	}
	return out, nil
}

// List returns a list of nested records. A missing key is an empty list.
func (p Params) List(key string) ([]Params, error) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, wrongType(key, "list", v)
	}

	out := make([]Params, 0, len(items))
	for i, item := range items {
		switch m := item.(type) {
		case map[string]any:
			out = append(out, Params(m))
		case Params:
			out = append(out, m)
		default:
			return nil, simerr.Validationf("%s[%d] must be a mapping, got %T", key, i, item).
				WithMeta("field", key)
		}
	}
	return out, nil
}

func missing(key string) error {
	return simerr.Validationf("missing required field %q", key).WithMeta("field", key)
}

func wrongType(key, want string, got any) error {
	return simerr.Validationf("field %q must be a %s, got %s", key, want, describe(got)).
		WithMeta("field", key)
}

func describe(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%T", v)
}
