// Package attrs bridges between flat state mappings (map[string]any) and
// typed attribute structs using `attr` struct tags.
//
// Pointer fields model absent values: a nil pointer exports as no key at
// all, and a missing key restores as a nil pointer. This keeps absent
// round-tripping to absent instead of a zero-value sentinel.
//
// Usage:
//
//	type tokenAttrs struct {
//	    Lemma  *string  `attr:"lemma"`
//	    IsVerb *bool    `attr:"is_verb"`
//	    Score  *float64 `attr:"score"`
//	}
//
//	// Export: struct → map (nil pointers omitted)
//	state := attrs.From(&t.attrs)
//
//	// Restore: map → struct, rejecting unknown keys
//	err := attrs.ScanStrict(state, &t.attrs)
package attrs

import (
	"reflect"
	"strings"

	"github.com/teranos/ANNX/errors"
)

// Scan reads values from a map into a struct using `attr` tags. Keys with
// no matching field are ignored; fields with no matching key keep their
// current value. Numeric coercion follows decoded-form conventions
// (float64 → int, int → float64).
func Scan(m map[string]any, dst any) error {
	return scan(m, dst, false)
}

// ScanStrict is Scan but every key in the map must match a tagged field and
// every value must be coercible, otherwise the scan fails with
// errors.ErrSerialization. Restore paths use this so corrupt state cannot
// load silently.
func ScanStrict(m map[string]any, dst any) error {
	return scan(m, dst, true)
}

// From converts a struct into a map using `attr` tags. Nil pointer fields
// (absent values) produce no key; set pointers are dereferenced. Non-pointer
// fields tagged ",omitempty" are skipped at their zero value.
func From(src any) map[string]any {
	v := reflect.ValueOf(src)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return map[string]any{}
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return map[string]any{}
	}

	t := v.Type()
	m := make(map[string]any)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		key, omitempty := tagOf(field)
		if key == "" {
			continue
		}

		fv := v.Field(i)
		if fv.Kind() == reflect.Pointer {
			if fv.IsNil() {
				continue // absent
			}
			fv = fv.Elem()
		} else if omitempty && fv.IsZero() {
			continue
		}

		m[key] = fv.Interface()
	}

	return m
}

func scan(m map[string]any, dst any, strict bool) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return errors.AssertionFailedf("attrs.Scan destination must be a non-nil struct pointer")
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return errors.AssertionFailedf("attrs.Scan destination must be a struct pointer")
	}

	t := v.Type()
	fields := make(map[string]reflect.Value, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		key, _ := tagOf(t.Field(i))
		if key != "" {
			fields[key] = v.Field(i)
		}
	}

	for key, val := range m {
		fv, ok := fields[key]
		if !ok {
			if strict {
				return errors.NewSerialization("unknown state key %q", key)
			}
			continue
		}
		if val == nil {
			continue
		}
		if err := setField(fv, val); err != nil {
			if strict {
				return errors.Wrapf(err, "state key %q", key)
			}
		}
	}
	return nil
}

func tagOf(f reflect.StructField) (key string, omitempty bool) {
	tag := f.Tag.Get("attr")
	if tag == "" || tag == "-" {
		return "", false
	}
	parts := strings.SplitN(tag, ",", 2)
	key = parts[0]
	omitempty = len(parts) > 1 && parts[1] == "omitempty"
	return key, omitempty
}

func setField(fv reflect.Value, val any) error {
	// Allocate through pointer fields so absent becomes present.
	if fv.Kind() == reflect.Pointer {
		elem := reflect.New(fv.Type().Elem())
		if err := setField(elem.Elem(), val); err != nil {
			return err
		}
		fv.Set(elem)
		return nil
	}

	switch fv.Kind() {
	case reflect.String:
		if s, ok := val.(string); ok {
			fv.SetString(s)
			return nil
		}

	case reflect.Int, reflect.Int64:
		switch n := val.(type) {
		case float64:
			fv.SetInt(int64(n))
			return nil
		case int:
			fv.SetInt(int64(n))
			return nil
		case int64:
			fv.SetInt(n)
			return nil
		case uint64:
			fv.SetInt(int64(n))
			return nil
		}

	case reflect.Float64:
		switch n := val.(type) {
		case float64:
			fv.SetFloat(n)
			return nil
		case int:
			fv.SetFloat(float64(n))
			return nil
		case int64:
			fv.SetFloat(float64(n))
			return nil
		}

	case reflect.Bool:
		if b, ok := val.(bool); ok {
			fv.SetBool(b)
			return nil
		}
	}

	return errors.NewSerialization("cannot store %T into %s", val, fv.Type())
}
