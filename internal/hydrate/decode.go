package hydrate

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
)

var errMalformed = errors.New("malformed JSON text")

// DecodeError is returned when textual input is not a well-formed JSON value.
// It is the only error hydration produces.
type DecodeError struct {
	Input string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("hydrate: cannot decode %q: %v", e.Input, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses textual input and passes decoded values through untouched.
// Numbers in text are kept as json.Number so 64-bit counters survive intact.
func Decode(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return parse([]byte(v))
	case []byte:
		return parse(v)
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
		return parse(rv.Bytes())
	}
	return raw, nil
}

func parse(text []byte) (any, error) {
	if !json.Valid(text) {
		var probe any
		err := json.Unmarshal(text, &probe)
		if err == nil {
			err = errMalformed
		}
		return nil, &DecodeError{Input: preview(text), Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &DecodeError{Input: preview(text), Err: err}
	}
	return v, nil
}

func preview(text []byte) string {
	const limit = 64
	if len(text) > limit {
		return string(text[:limit]) + "..."
	}
	return string(text)
}
