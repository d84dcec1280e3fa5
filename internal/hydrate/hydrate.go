// Package hydrate turns untyped decoded values (or their JSON text) into typed
// record trees.
//
// Every record type implements Record by assigning its declared fields from a
// Source. Nested fields are filled with One, Many and Keyed, which recursively
// hydrate a single record, an ordered sequence of records and a string-keyed
// map of records. Hydration never validates: missing keys yield zero values,
// unknown keys are ignored and mismatched scalar kinds are dropped to zero.
package hydrate

import "reflect"

// Record is implemented by every hydratable shape.
type Record interface {
	HydrateFields(src Source)
}

// recordPtr pins a record type to its pointer receiver so a fresh zero value
// can be allocated and filled.
type recordPtr[T any] interface {
	*T
	Record
}

// Source is a read-only view over one decoded mapping.
type Source struct {
	fields map[string]any
}

// Get returns the raw value stored under key, or nil when absent.
func (s Source) Get(key string) any {
	if s.fields == nil {
		return nil
	}
	return s.fields[key]
}

// Hydrate builds a *T from raw. raw may be JSON text (string, []byte or any
// byte-slice type such as json.RawMessage) or an already decoded value.
func Hydrate[T any, P recordPtr[T]](raw any) (*T, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return into[T, P](v), nil
}

// HydrateSlice is the entry point for sequence-shaped results.
func HydrateSlice[T any, P recordPtr[T]](raw any) ([]*T, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Many[T, P](v), nil
}

// HydrateMap is the entry point for map-shaped results.
func HydrateMap[T any, P recordPtr[T]](raw any) (map[string]*T, error) {
	v, err := Decode(raw)
	if err != nil {
		return nil, err
	}
	return Keyed[T, P](v), nil
}

// One hydrates a single nested record. Sequences and non-mapping values
// cannot be held by a typed record field and come back as nil.
func One[T any, P recordPtr[T]](v any) *T {
	if rec, ok := v.(*T); ok {
		return rec
	}
	if v == nil || isSequence(v) {
		return nil
	}
	if _, ok := asMapping(v); !ok {
		return nil
	}
	return into[T, P](v)
}

// Many hydrates every element of a sequence, keeping order and length. An
// empty sequence gives an empty, non-nil slice; anything else gives nil.
func Many[T any, P recordPtr[T]](v any) []*T {
	return List(v, into[T, P])
}

// Keyed hydrates every value of a string-keyed mapping, keeping all keys.
//
// When v is a map[string]any the caller hands it over: each entry is replaced
// in place with its hydrated record, so the raw map and the returned map hold
// the same records afterwards.
func Keyed[T any, P recordPtr[T]](v any) map[string]*T {
	if raw, ok := v.(map[string]any); ok {
		out := make(map[string]*T, len(raw))
		for k, item := range raw {
			rec := into[T, P](item)
			raw[k] = rec
			out[k] = rec
		}
		return out
	}
	return Dict(v, into[T, P])
}

// List converts each element of a sequence with conv.
func List[T any](v any, conv func(any) T) []T {
	if raw, ok := v.([]any); ok {
		out := make([]T, len(raw))
		for i, item := range raw {
			out[i] = conv(item)
		}
		return out
	}
	if !isSequence(v) {
		return nil
	}
	rv := reflect.ValueOf(v)
	out := make([]T, rv.Len())
	for i := range out {
		out[i] = conv(rv.Index(i).Interface())
	}
	return out
}

// Dict converts each value of a string-keyed mapping with conv.
func Dict[T any](v any, conv func(any) T) map[string]T {
	if v == nil || isSequence(v) {
		return nil
	}
	m, ok := asMapping(v)
	if !ok {
		return nil
	}
	out := make(map[string]T, len(m))
	for k, item := range m {
		out[k] = conv(item)
	}
	return out
}

// into hydrates one record. Nested JSON text is parsed like top-level input;
// malformed nested text yields a zero record.
func into[T any, P recordPtr[T]](v any) *T {
	if rec, ok := v.(*T); ok {
		return rec
	}
	raw, err := Decode(v)
	if err != nil {
		raw = nil
	}
	out := new(T)
	P(out).HydrateFields(sourceOf(raw))
	return out
}

func sourceOf(v any) Source {
	if v == nil || isSequence(v) {
		return Source{}
	}
	m, _ := asMapping(v)
	return Source{fields: m}
}

// isSequence reports whether v can be iterated as an ordered sequence. Byte
// slices are text or blobs, never record sequences.
func isSequence(v any) bool {
	switch v.(type) {
	case nil:
		return false
	case []any:
		return true
	case []byte:
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		return rv.Type().Elem().Kind() != reflect.Uint8
	case reflect.Array:
		return true
	}
	return false
}

// asMapping exposes any string-keyed map as map[string]any. Records that were
// already hydrated are not mappings.
func asMapping(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}
