package realtime

import (
	"math"
	"reflect"
	"strconv"
	"strings"
)

// checkShape walks a generic JSON value alongside the wire struct type t.
// Keys match exactly, so a differently cased key counts as unknown. A
// present value of the wrong kind, including an explicit null, is an issue
// at its indexed path. The returned value holds only the exact-case keys the
// wire structs know, so a later typed decode cannot pick up anything else.
func checkShape(v any, t reflect.Type, path string, issues *[]Issue) any {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if v == nil {
		*issues = append(*issues, Issue{Path: displayPath(path), Expected: kindName(t)})
		return nil
	}

	switch t.Kind() {
	case reflect.Struct:
		obj, ok := v.(map[string]any)
		if !ok {
			break
		}
		out := make(map[string]any, t.NumField())
		for i := 0; i < t.NumField(); i++ {
			name := jsonName(t.Field(i))
			if name == "" {
				continue
			}
			val, present := obj[name]
			if !present {
				continue
			}
			out[name] = checkShape(val, t.Field(i).Type, joinPath(path, name), issues)
		}
		return out
	case reflect.Slice:
		arr, ok := v.([]any)
		if !ok {
			break
		}
		out := make([]any, len(arr))
		for i, elem := range arr {
			out[i] = checkShape(elem, t.Elem(), path+"["+strconv.Itoa(i)+"]", issues)
		}
		return out
	case reflect.String:
		if _, ok := v.(string); ok {
			return v
		}
	case reflect.Bool:
		if _, ok := v.(bool); ok {
			return v
		}
	case reflect.Int:
		if f, ok := v.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			return v
		}
	default:
		return v
	}

	*issues = append(*issues, Issue{Path: displayPath(path), Expected: kindName(t)})
	return nil
}

func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

func displayPath(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
