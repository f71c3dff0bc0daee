// Package normalizer turns procurement backend responses into the canonical view types.
//
// The backend does not commit to one response shape: some endpoints answer with a flat array,
// others with the standard envelope {success, statusCode, message, data, timestamp}, and the
// paginated ones nest the items one level deeper under data.<entity>. Field names drift too
// (title/name/project_name, benchmark_value/benchmarkValue, trust_score/complianceScore).
// All of that is absorbed here, once, so nothing downstream ever coalesces fields again.
package normalizer

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/transparentprocure/oversight-service/exception"
)

// Unwrap extracts the entity array from body. The returned slice is never nil; when the shape is
// not recognised the slice is empty and the error is a MalformedResponse CustomError.
func Unwrap(body []byte, entityName string) ([]gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return []gjson.Result{}, malformed(entityName, "body is not valid JSON")
	}
	root := gjson.ParseBytes(body)
	if root.IsArray() {
		return nonNil(root.Array()), nil
	}
	if !root.IsObject() {
		return []gjson.Result{}, malformed(entityName, "top level is neither array nor object")
	}

	data := root.Get("data")
	switch {
	case data.IsArray():
		return nonNil(data.Array()), nil
	case data.IsObject():
		if entityName != "" {
			nested := data.Get(entityName)
			if nested.IsArray() {
				return nonNil(nested.Array()), nil
			}
		}
		return []gjson.Result{}, malformed(entityName, "data object has no "+entityName+" array")
	}
	return []gjson.Result{}, malformed(entityName, "no data field")
}

func nonNil(records []gjson.Result) []gjson.Result {
	if records == nil {
		return []gjson.Result{}
	}
	return records
}

func malformed(entityName string, debug string) error {
	return &exception.CustomError{
		Status:  http.StatusBadGateway,
		Code:    exception.MalformedResponse,
		Message: exception.MalformedResponseMsg,
		Params:  map[string]interface{}{"entity": entityName},
		Debug:   debug,
	}
}

// CoerceField returns the first candidate key that is present and non-empty, else def.
// Numbers and booleans are rendered in their JSON text form.
func CoerceField(record gjson.Result, candidateKeys []string, def string) string {
	for _, key := range candidateKeys {
		value := record.Get(key)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		var s string
		if value.Type == gjson.String {
			s = strings.TrimSpace(value.Str)
		} else {
			s = value.Raw
		}
		if s != "" {
			return s
		}
	}
	return def
}

// coerceNumber follows the loose numeric parsing the dashboard relied on: finite numbers and
// numeric strings parse, everything else (including NaN, Inf and out-of-range literals) is absent.
func coerceNumber(record gjson.Result, candidateKeys ...string) (float64, bool) {
	for _, key := range candidateKeys {
		value := record.Get(key)
		switch value.Type {
		case gjson.Number:
			if isFinite(value.Num) {
				return value.Num, true
			}
		case gjson.String:
			f, err := strconv.ParseFloat(strings.TrimSpace(value.Str), 64)
			if err == nil && isFinite(f) {
				return f, true
			}
		}
	}
	return 0, false
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func coerceBool(record gjson.Result, candidateKeys ...string) bool {
	for _, key := range candidateKeys {
		value := record.Get(key)
		if value.Exists() && value.Type != gjson.Null {
			return value.Bool()
		}
	}
	return false
}

func coerceInt(record gjson.Result, candidateKeys ...string) int {
	for _, key := range candidateKeys {
		value := record.Get(key)
		switch {
		case value.Type == gjson.Number:
			return int(value.Int())
		case value.IsArray():
			// comments are sometimes shipped as the list itself
			return len(value.Array())
		}
	}
	return 0
}

// coerceStrings accepts either a JSON array of strings or a single string.
func coerceStrings(record gjson.Result, candidateKeys ...string) []string {
	for _, key := range candidateKeys {
		value := record.Get(key)
		if value.IsArray() {
			var result []string
			for _, item := range value.Array() {
				if s := strings.TrimSpace(item.String()); s != "" {
					result = append(result, s)
				}
			}
			return result
		}
		if value.Type == gjson.String && strings.TrimSpace(value.Str) != "" {
			return []string{strings.TrimSpace(value.Str)}
		}
	}
	return nil
}
