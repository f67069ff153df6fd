package mobileservice

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// idFieldCache memoizes identifier field resolution per target type.
var idFieldCache sync.Map // reflect.Type -> string

// ParseResults deserializes a server payload into entities of type T,
// reconciling the backend's reserved "id" property with whatever field
// the target type uses for it. Array payloads yield one entity per
// element in order; an object payload yields a single entity; anything
// else is deserialized as-is into a one-element slice.
func ParseResults[T any](data []byte) ([]T, error) {
	idField := resolveIDField(reflect.TypeOf((*T)(nil)).Elem())

	if isJSONArray(data) {
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return nil, fmt.Errorf("malformed results array: %w", err)
		}
		out := make([]T, 0, len(elements))
		for i, element := range elements {
			entity, err := parseEntity[T](element, idField)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, entity)
		}
		return out, nil
	}

	entity, err := parseEntity[T](data, idField)
	if err != nil {
		return nil, err
	}
	return []T{entity}, nil
}

func parseEntity[T any](data []byte, idField string) (T, error) {
	var entity T
	normalized, err := renameIDProperty(data, idField)
	if err != nil {
		return entity, err
	}
	if err := json.Unmarshal(normalized, &entity); err != nil {
		return entity, fmt.Errorf("cannot deserialize entity: %w", err)
	}
	return entity, nil
}

// renameIDProperty moves the "id" property of a JSON object to the
// resolved identifier field name. A name of "" or literally "id" is a
// no-op, as is a non-object payload. An object lacking an "id"
// property is left untouched rather than failing the parse.
func renameIDProperty(data []byte, idField string) (json.RawMessage, error) {
	if idField == "" || idField == "id" {
		return data, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return data, nil
	}

	value, ok := obj["id"]
	if !ok {
		return data, nil
	}
	delete(obj, "id")
	obj[idField] = value

	return json.Marshal(obj)
}

// resolveIDField computes the on-wire name of the identifier field for
// a target type: the first struct field whose JSON tag
// case-insensitively equals "id", else the first whose Go name does.
// The result is the field's JSON tag when present, otherwise its name.
// Empty means the type declares no identifier and no normalization
// applies. Resolution runs once per type.
func resolveIDField(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return ""
	}
	if cached, ok := idFieldCache.Load(t); ok {
		return cached.(string)
	}

	name := scanIDField(t)
	idFieldCache.Store(t, name)
	return name
}

func scanIDField(t reflect.Type) string {
	for i := 0; i < t.NumField(); i++ {
		if alias := jsonTagName(t.Field(i)); strings.EqualFold(alias, "id") {
			return alias
		}
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !strings.EqualFold(field.Name, "id") {
			continue
		}
		if alias := jsonTagName(field); alias != "" {
			return alias
		}
		return field.Name
	}
	return ""
}

// jsonTagName returns a field's serialization alias, or "" when the
// field has no usable json tag.
func jsonTagName(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" || name == "-" {
		return ""
	}
	return name
}

func isJSONArray(data []byte) bool {
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.HasPrefix(trimmed, "[")
}
