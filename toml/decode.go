package toml

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

var (
	ErrUnknownKey = errors.New("unknown key")
	ErrType       = errors.New("type mismatch")
)

// DecodeError locates a decoding failure by dotted key path
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Path == "" {
		return "toml: " + e.Err.Error()
	}
	return fmt.Sprintf("toml: %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Unmarshal parses data into v, keys without a matching field are ignored
func Unmarshal(data []byte, v any) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	return Decode(doc, v)
}

// UnmarshalStrict is Unmarshal with unknown keys reported as ErrUnknownKey
func UnmarshalStrict(data []byte, v any) error {
	doc, err := Parse(data)
	if err != nil {
		return err
	}
	return DecodeStrict(doc, v)
}

// Decode maps a parsed document onto v
// Fields absent from the document keep their current values, so v may be pre-filled with defaults
func Decode(doc map[string]any, v any) error {
	return (&decoder{}).root(doc, v)
}

// DecodeStrict is Decode with unknown keys rejected
func DecodeStrict(doc map[string]any, v any) error {
	return (&decoder{strict: true}).root(doc, v)
}

type decoder struct {
	strict bool
}

func (d *decoder) root(doc map[string]any, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DecodeError{Err: fmt.Errorf("target must be a non-nil pointer, got %T", v)}
	}
	return d.value("", doc, rv.Elem())
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func mismatch(path string, want string, got any) error {
	return &DecodeError{Path: path, Err: fmt.Errorf("%w: want %s, got %T", ErrType, want, got)}
}

func (d *decoder) value(path string, data any, rv reflect.Value) error {
	if data == nil {
		return nil
	}

	switch rv.Kind() {
	case reflect.Pointer:
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.value(path, data, rv.Elem())

	case reflect.Struct:
		m, ok := data.(map[string]any)
		if !ok {
			return mismatch(path, "table", data)
		}
		return d.structFields(path, m, rv)

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return &DecodeError{Path: path, Err: fmt.Errorf("%w: map key must be string", ErrType)}
		}
		m, ok := data.(map[string]any)
		if !ok {
			return mismatch(path, "table", data)
		}
		if rv.IsNil() {
			rv.Set(reflect.MakeMapWithSize(rv.Type(), len(m)))
		}
		for _, k := range sortedKeys(m) {
			elem := reflect.New(rv.Type().Elem()).Elem()
			// Existing entries act as defaults for the decoded value
			if cur := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())); cur.IsValid() {
				elem.Set(cur)
			}
			if err := d.value(join(path, k), m[k], elem); err != nil {
				return err
			}
			rv.SetMapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()), elem)
		}

	case reflect.Slice:
		items, ok := asList(data)
		if !ok {
			return mismatch(path, "array", data)
		}
		out := reflect.MakeSlice(rv.Type(), len(items), len(items))
		for i, item := range items {
			if err := d.value(fmt.Sprintf("%s[%d]", path, i), item, out.Index(i)); err != nil {
				return err
			}
		}
		rv.Set(out)

	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return &DecodeError{Path: path, Err: fmt.Errorf("%w: non-empty interface %s", ErrType, rv.Type())}
		}
		rv.Set(reflect.ValueOf(data))

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, ok := asInt(data)
		if !ok {
			return mismatch(path, "integer", data)
		}
		if rv.OverflowInt(n) {
			return &DecodeError{Path: path, Err: fmt.Errorf("%w: %d overflows %s", ErrType, n, rv.Type())}
		}
		rv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, ok := asInt(data)
		if !ok || n < 0 || rv.OverflowUint(uint64(n)) {
			return mismatch(path, "non-negative integer", data)
		}
		rv.SetUint(uint64(n))

	case reflect.Float32, reflect.Float64:
		f, ok := asFloat(data)
		if !ok {
			return mismatch(path, "number", data)
		}
		rv.SetFloat(f)

	case reflect.String:
		s, ok := data.(string)
		if !ok {
			return mismatch(path, "string", data)
		}
		rv.SetString(s)

	case reflect.Bool:
		b, ok := data.(bool)
		if !ok {
			return mismatch(path, "bool", data)
		}
		rv.SetBool(b)

	default:
		return &DecodeError{Path: path, Err: fmt.Errorf("%w: unsupported kind %s", ErrType, rv.Kind())}
	}
	return nil
}

// fieldKey returns the document key for a struct field, "" when skipped
func fieldKey(f reflect.StructField) string {
	if !f.IsExported() {
		return ""
	}
	tag := f.Tag.Get("toml")
	name, _, _ := strings.Cut(tag, ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

func (d *decoder) structFields(path string, m map[string]any, rv reflect.Value) error {
	typ := rv.Type()
	seen := make(map[string]bool, len(m))

	for i := 0; i < typ.NumField(); i++ {
		key := fieldKey(typ.Field(i))
		if key == "" {
			continue
		}
		data, ok := m[key]
		if !ok {
			continue
		}
		seen[key] = true
		if err := d.value(join(path, key), data, rv.Field(i)); err != nil {
			return err
		}
	}

	if d.strict {
		for _, k := range sortedKeys(m) {
			if !seen[k] {
				return &DecodeError{Path: join(path, k), Err: ErrUnknownKey}
			}
		}
	}
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asList(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out, true
	}
	return nil, false
}

func asInt(data any) (int64, bool) {
	switch v := data.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		// Integral floats are accepted for integer fields
		if v == math.Trunc(v) && math.Abs(v) < 1<<53 {
			return int64(v), true
		}
	}
	return 0, false
}

func asFloat(data any) (float64, bool) {
	switch v := data.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	case int:
		return float64(v), true
	}
	return 0, false
}
