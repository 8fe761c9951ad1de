package toml

import (
	"bytes"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Marshal encodes a struct or string-keyed map as TOML
//
// Layout rules:
//   - Scalars and inline arrays of a table come before its sub-tables
//   - Struct fields keep declaration order, map keys are sorted
//   - Slices of structs or maps become [[array]] tables
//   - Nil pointers, nil interfaces and `omitempty` zero fields are skipped
func Marshal(v any) ([]byte, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("toml: cannot marshal nil pointer")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct && rv.Kind() != reflect.Map {
		return nil, fmt.Errorf("toml: root must be a struct or map, got %s", rv.Kind())
	}

	var buf bytes.Buffer
	if err := writeTable(&buf, rv, ""); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type entry struct {
	key string
	val reflect.Value
}

// entries lists the present key/value pairs of a struct or map
func entries(rv reflect.Value) ([]entry, error) {
	var out []entry
	switch rv.Kind() {
	case reflect.Struct:
		typ := rv.Type()
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			key := fieldKey(f)
			if key == "" {
				continue
			}
			val := rv.Field(i)
			if strings.Contains(f.Tag.Get("toml"), ",omitempty") && val.IsZero() {
				continue
			}
			out = append(out, entry{key, val})
		}
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("toml: map key must be string, got %s", rv.Type().Key())
		}
		keys := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = append(out, entry{k, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))})
		}
	}

	// Resolve pointers and interfaces, drop nils
	kept := out[:0]
	for _, e := range out {
		for e.val.Kind() == reflect.Pointer || e.val.Kind() == reflect.Interface {
			if e.val.IsNil() {
				break
			}
			e.val = e.val.Elem()
		}
		if (e.val.Kind() == reflect.Pointer || e.val.Kind() == reflect.Interface) && e.val.IsNil() {
			continue
		}
		kept = append(kept, e)
	}
	return kept, nil
}

func isTable(v reflect.Value) bool {
	return v.Kind() == reflect.Struct || v.Kind() == reflect.Map
}

// isTableArray reports a non-empty slice whose elements encode as tables
func isTableArray(v reflect.Value) bool {
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	if v.Len() == 0 {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		e := v.Index(i)
		for e.Kind() == reflect.Pointer || e.Kind() == reflect.Interface {
			if e.IsNil() {
				return false
			}
			e = e.Elem()
		}
		if !isTable(e) {
			return false
		}
	}
	return true
}

func writeTable(buf *bytes.Buffer, rv reflect.Value, prefix string) error {
	list, err := entries(rv)
	if err != nil {
		return err
	}

	var nested []entry
	for _, e := range list {
		if isTable(e.val) || isTableArray(e.val) {
			nested = append(nested, e)
			continue
		}
		buf.WriteString(quoteKey(e.key))
		buf.WriteString(" = ")
		if err := writeValue(buf, e.val); err != nil {
			return fmt.Errorf("toml: %s: %w", join(prefix, e.key), err)
		}
		buf.WriteByte('\n')
	}

	for _, e := range nested {
		path := join(prefix, quoteKey(e.key))
		if isTable(e.val) {
			fmt.Fprintf(buf, "\n[%s]\n", path)
			if err := writeTable(buf, e.val, path); err != nil {
				return err
			}
			continue
		}
		for i := 0; i < e.val.Len(); i++ {
			elem := e.val.Index(i)
			for elem.Kind() == reflect.Pointer || elem.Kind() == reflect.Interface {
				elem = elem.Elem()
			}
			fmt.Fprintf(buf, "\n[[%s]]\n", path)
			if err := writeTable(buf, elem, path); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeValue(buf *bytes.Buffer, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		buf.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.String:
		buf.WriteString(strconv.Quote(v.String()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		buf.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		switch {
		case math.IsNaN(f):
			buf.WriteString("nan")
		case math.IsInf(f, 1):
			buf.WriteString("inf")
		case math.IsInf(f, -1):
			buf.WriteString("-inf")
		default:
			s := strconv.FormatFloat(f, 'g', -1, 64)
			// Keep floats distinguishable from integers on the way back in
			if !strings.ContainsAny(s, ".eE") {
				s += ".0"
			}
			buf.WriteString(s)
		}
	case reflect.Slice, reflect.Array:
		buf.WriteByte('[')
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				buf.WriteString(", ")
			}
			e := v.Index(i)
			for e.Kind() == reflect.Pointer || e.Kind() == reflect.Interface {
				if e.IsNil() {
					return fmt.Errorf("nil element at index %d", i)
				}
				e = e.Elem()
			}
			if err := writeValue(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported kind %s", v.Kind())
	}
	return nil
}

// quoteKey leaves valid bare keys alone and quotes everything else
func quoteKey(k string) string {
	if k == "" || k == "true" || k == "false" {
		return strconv.Quote(k)
	}
	allDigits := true
	for _, r := range k {
		if !isWordRune(r) {
			return strconv.Quote(k)
		}
		if !isDigit(r) {
			allDigits = false
		}
	}
	// Digit-leading keys would lex as numbers
	if allDigits || isDigit(rune(k[0])) || k[0] == '-' {
		return strconv.Quote(k)
	}
	return k
}
