package catalog

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Candidate field names, matching the persisted JSON shape.
const (
	FieldName       = "name"
	FieldAuthor     = "author"
	FieldUserRating = "userRating"
	FieldReviews    = "reviews"
	FieldPrice      = "price"
	FieldYear       = "year"
	FieldGenre      = "genre"
)

// Fields lists every candidate field in declaration order. Validation errors
// are always reported in this order.
var Fields = []string{
	FieldName,
	FieldAuthor,
	FieldUserRating,
	FieldReviews,
	FieldPrice,
	FieldYear,
	FieldGenre,
}

// RawCandidate is an untyped book record as received from a form, a JSON
// body, a chat tool call or a CSV row. Values may be strings, json.Number,
// any Go numeric type, or nil. Missing keys are treated like nil.
type RawCandidate map[string]any

var (
	errUnsupportedType = errors.New("unsupported value type")
	errNotFinite       = errors.New("value is not a finite number")
	errMalformed       = errors.New("malformed number")
)

// decimalRX accepts plain decimal notation with an optional exponent.
// Hex floats, digit separators, "Inf" and "NaN" are rejected.
var decimalRX = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// CoerceText converts a raw value into trimmed text. Empty, whitespace-only
// and nil values are absent (nil, nil).
func CoerceText(field string, raw any) (*string, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case json.Number:
		s = v.String()
	default:
		if !isNumeric(raw) {
			return nil, &CoercionError{Field: field, Want: "text", Raw: raw, Err: errUnsupportedType}
		}
		converted, err := cast.ToStringE(raw)
		if err != nil {
			return nil, &CoercionError{Field: field, Want: "text", Raw: raw, Err: err}
		}
		s = converted
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// CoerceNumber converts a raw value into a finite float64. Empty strings and
// nil are absent (nil, nil), never zero. Native numbers pass through unchanged.
func CoerceNumber(field string, raw any) (*float64, error) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil, nil
		}
		parsed, err := parseDecimal(s)
		if err != nil {
			return nil, &CoercionError{Field: field, Want: "a number", Raw: raw, Err: err}
		}
		f = parsed
	case json.Number:
		parsed, err := parseDecimal(v.String())
		if err != nil {
			return nil, &CoercionError{Field: field, Want: "a number", Raw: raw, Err: err}
		}
		f = parsed
	default:
		if !isNumeric(raw) {
			return nil, &CoercionError{Field: field, Want: "a number", Raw: raw, Err: errUnsupportedType}
		}
		converted, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, &CoercionError{Field: field, Want: "a number", Raw: raw, Err: err}
		}
		f = converted
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &CoercionError{Field: field, Want: "a number", Raw: raw, Err: errNotFinite}
	}
	return &f, nil
}

func parseDecimal(s string) (float64, error) {
	if !decimalRX.MatchString(s) {
		return 0, errMalformed
	}
	return strconv.ParseFloat(s, 64)
}

func isNumeric(v any) bool {
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
