package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"strings"
	"time"
)

// IsMeaningful reports whether v carries user content. It gates every
// registry write that originates from autosave.
//
//   - nil is never meaningful
//   - strings are meaningful when non-blank after trimming
//   - numbers are meaningful when non-zero
//   - booleans are meaningful when true
//   - times are meaningful when set
//   - slices are meaningful when any element is
//   - maps are meaningful when any value is
func IsMeaningful(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case bool:
		return x
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return f != 0
		}
		return strings.TrimSpace(string(x)) != ""
	case time.Time:
		return !x.IsZero()
	case *time.Time:
		return x != nil && !x.IsZero()
	case FormData:
		return anyMeaningful(x)
	case map[string]any:
		return anyMeaningful(x)
	case []any:
		for _, e := range x {
			if IsMeaningful(e) {
				return true
			}
		}
		return false
	}
	return reflectMeaningful(reflect.ValueOf(v))
}

func anyMeaningful(m map[string]any) bool {
	for _, v := range m {
		if IsMeaningful(v) {
			return true
		}
	}
	return false
}

func reflectMeaningful(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Invalid:
		return false
	case reflect.String:
		return strings.TrimSpace(rv.String()) != ""
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if IsMeaningful(rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if IsMeaningful(iter.Value().Interface()) {
				return true
			}
		}
		return false
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return IsMeaningful(rv.Elem().Interface())
	case reflect.Struct:
		if t, ok := rv.Interface().(time.Time); ok {
			return !t.IsZero()
		}
		return !rv.IsZero()
	default:
		return false
	}
}

// FormDataEqual reports whether a and b hold the same document. Values are
// compared through their JSON encoding, so an int decoded as float64 still
// equals the original int, and nil equals an empty document.
func FormDataEqual(a, b FormData) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	ea, errA := json.Marshal(a)
	eb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ea, eb)
}
