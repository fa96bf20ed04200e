/*
 *   Copyright 2023 Martin Proffitt <mproffitt@choclab.net>
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *      http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/notapipeline/sealer/pkg/types"
)

// numeric is tested only after JSON parsing has failed, so it catches forms
// such as "01", "1.", ".5" or "+2" which are valid floats but not valid JSON.
var numeric = regexp.MustCompile(`^[-+]?(?:\d+\.?\d*|\.\d+)(?:[eE][-+]?\d+)?$`)

// Encode renders value as the text which will be encrypted.
//
// Strings are used verbatim, numbers and booleans use their canonical text
// form and everything object shaped (maps, structs, slices, arrays) is
// serialized as JSON. A nil value fails with types.ErrConfig and anything
// else (funcs, channels, complex numbers) fails with types.ErrUnsupportedType.
func Encode(value interface{}) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", fmt.Errorf("%w: no data provided", types.ErrConfig)
	case string:
		return v, nil
	case bool:
		return strconv.FormatBool(v), nil
	case types.Value:
		return v.String(), nil
	case *types.Value:
		if v == nil {
			return "", fmt.Errorf("%w: no data provided", types.ErrConfig)
		}
		return v.String(), nil
	case json.Number:
		return v.String(), nil
	case json.RawMessage:
		return string(v), nil
	}

	var rv reflect.Value = reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return "", fmt.Errorf("%w: no data provided", types.ErrConfig)
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return types.FormatNumber(float64(float32(rv.Float()))), nil
	case reflect.Float64:
		return types.FormatNumber(rv.Float()), nil
	case reflect.Map, reflect.Struct, reflect.Slice, reflect.Array:
		b, err := json.Marshal(rv.Interface())
		if err != nil {
			var unsupported *json.UnsupportedTypeError
			if errors.As(err, &unsupported) {
				return "", fmt.Errorf("%w: %v", types.ErrUnsupportedType, err)
			}
			return "", fmt.Errorf("failed to serialize object: %w", err)
		}
		return string(b), nil
	}
	return "", fmt.Errorf("%w: %s, only object, string, number and boolean values are allowed",
		types.ErrUnsupportedType, rv.Kind())
}

// Decode recovers a typed value from decrypted text.
//
// The order of the checks matters and is relied upon for round trips:
//
//  1. "true" or "false" in any case is a boolean
//  2. anything JSON can parse is returned as parsed
//  3. text matching the numeric pattern that parses as a float is a number
//  4. everything else is returned as the original string
//
// This is a heuristic. The string "42" encrypted as a string comes back as
// the number 42, and "NaN" or "Infinity" come back as strings.
func Decode(text string) types.Value {
	if lower := strings.ToLower(text); lower == "true" || lower == "false" {
		return types.BoolValue(lower == "true")
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		switch p := parsed.(type) {
		case bool:
			return types.BoolValue(p)
		case float64:
			return types.NumberValue(p)
		case string:
			return types.StringValue(p)
		}
		return types.ObjectValue(parsed)
	}

	if numeric.MatchString(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil || errors.Is(err, strconv.ErrRange) {
			return types.NumberValue(f)
		}
	}
	return types.StringValue(text)
}
