// Package mcputils binds loosely typed MCP tool arguments to Go structs.
package mcputils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// ArgumentGetter is implemented by MCP requests.
type ArgumentGetter interface {
	GetArguments() map[string]any
}

// CoerceBindArguments decodes request arguments into target using the
// target's json tags. MCP clients often send every argument as a string,
// so JSON-encoded arrays, objects, booleans and numbers inside strings are
// decoded to the field's type, and plain strings split on commas for slices.
func CoerceBindArguments[T any](request ArgumentGetter, target *T) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			jsonStringHook,
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result:  target,
		TagName: "json",
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(request.GetArguments()); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// Bind is CoerceBindArguments returning the decoded value.
func Bind[T any](request ArgumentGetter) (T, error) {
	var out T
	err := CoerceBindArguments(request, &out)
	return out, err
}

// jsonStringHook decodes JSON carried inside string arguments. Strings that
// are not valid JSON for the target kind pass through unchanged.
func jsonStringHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}

	raw := strings.TrimSpace(data.(string))
	if raw == "" {
		return data, nil
	}

	switch to.Kind() {
	case reflect.Slice:
		if looksLikeJSON(raw, '[', ']') {
			ptr := reflect.New(to)
			if err := json.Unmarshal([]byte(raw), ptr.Interface()); err == nil {
				return ptr.Elem().Interface(), nil
			}
		}

	case reflect.Map, reflect.Struct:
		if looksLikeJSON(raw, '{', '}') {
			var generic map[string]any
			if err := json.Unmarshal([]byte(raw), &generic); err == nil {
				return generic, nil
			}
		}

	case reflect.Bool:
		if raw == "true" || raw == "false" {
			return raw == "true", nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		var n json.Number
		if err := json.Unmarshal([]byte(raw), &n); err == nil {
			return n, nil
		}
	}

	return data, nil
}

func looksLikeJSON(s string, opening, closing byte) bool {
	return len(s) >= 2 && s[0] == opening && s[len(s)-1] == closing
}
