package llmjson

// Value is a tagged untrusted structured value decoded from an agent response.
// Missing fields, nulls, and wrong-typed fields are all permissible: every
// accessor takes an explicit default and never panics. The zero Value behaves
// as nil everywhere.
type Value struct {
	v interface{}
}

// Of wraps an already-decoded JSON value (map, slice, string, float64, ...).
func Of(v interface{}) Value {
	return Value{v: v}
}

// IsNil reports whether the value is absent or JSON null.
func (v Value) IsNil() bool {
	return v.v == nil
}

// Raw returns the underlying decoded value.
func (v Value) Raw() interface{} {
	return v.v
}

// Field returns the named field of an object value. Non-object values and
// missing keys yield the nil Value.
func (v Value) Field(key string) Value {
	m, ok := v.v.(map[string]interface{})
	if !ok {
		return Value{}
	}
	return Value{v: m[key]}
}

// FirstOf returns the first named field that is present and non-null.
func (v Value) FirstOf(keys ...string) Value {
	for _, key := range keys {
		if f := v.Field(key); !f.IsNil() {
			return f
		}
	}
	return Value{}
}

// Str returns the value as a string, or def if it is not a string.
func (v Value) Str(def string) string {
	s, ok := v.v.(string)
	if !ok {
		return def
	}
	return s
}

// Int returns the value as an int, or def if it is not numeric.
// JSON numbers decode as float64; integral conversion truncates.
func (v Value) Int(def int) int {
	switch n := v.v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

// Float returns the value as a float64, or def if it is not numeric.
func (v Value) Float(def float64) float64 {
	switch n := v.v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return def
	}
}

// Bool returns the value as a bool, or def if it is not a bool.
func (v Value) Bool(def bool) bool {
	b, ok := v.v.(bool)
	if !ok {
		return def
	}
	return b
}

// Items returns the elements of an array value. Non-array values yield nil.
func (v Value) Items() []Value {
	arr, ok := v.v.([]interface{})
	if !ok {
		return nil
	}
	items := make([]Value, len(arr))
	for i, e := range arr {
		items[i] = Value{v: e}
	}
	return items
}

// StrSlice returns the string elements of an array value, skipping anything
// that is not a string. Non-array values yield an empty slice.
func (v Value) StrSlice() []string {
	arr, ok := v.v.([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// IsArray reports whether the value is a JSON array.
func (v Value) IsArray() bool {
	_, ok := v.v.([]interface{})
	return ok
}

// IsObject reports whether the value is a JSON object.
func (v Value) IsObject() bool {
	_, ok := v.v.(map[string]interface{})
	return ok
}
