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
	"math"
	"testing"

	"github.com/kylelemons/godebug/pretty"
	"github.com/notapipeline/sealer/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type user struct {
	User string `json:"user"`
	ID   int    `json:"id"`
}

func TestEncode(t *testing.T) {
	var (
		s   string = "pointer"
		one        = 1
	)

	tests := []struct {
		name     string
		value    interface{}
		expected string
	}{
		{name: "string", value: "hello", expected: "hello"},
		{name: "empty string", value: "", expected: ""},
		{name: "true", value: true, expected: "true"},
		{name: "false", value: false, expected: "false"},
		{name: "int", value: 42, expected: "42"},
		{name: "negative int", value: int64(-7), expected: "-7"},
		{name: "uint", value: uint8(255), expected: "255"},
		{name: "float", value: 1.5, expected: "1.5"},
		{name: "whole float", value: 3.0, expected: "3"},
		{name: "float32", value: float32(0.25), expected: "0.25"},
		{name: "large float", value: 1e21, expected: "1e+21"},
		{name: "small float", value: 1e-7, expected: "1e-7"},
		{name: "NaN", value: math.NaN(), expected: "NaN"},
		{name: "infinity", value: math.Inf(1), expected: "Infinity"},
		{name: "negative infinity", value: math.Inf(-1), expected: "-Infinity"},
		{name: "map", value: map[string]interface{}{"a": 1}, expected: `{"a":1}`},
		{name: "struct", value: user{User: "alice", ID: 7}, expected: `{"user":"alice","id":7}`},
		{name: "struct pointer", value: &user{User: "bob", ID: 1}, expected: `{"user":"bob","id":1}`},
		{name: "slice", value: []int{1, 2, 3}, expected: "[1,2,3]"},
		{name: "array", value: [2]string{"a", "b"}, expected: `["a","b"]`},
		{name: "string pointer", value: &s, expected: "pointer"},
		{name: "int pointer", value: &one, expected: "1"},
		{name: "value", value: types.NumberValue(7), expected: "7"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := Encode(test.value)
			require.NoError(t, err)
			assert.Equal(t, test.expected, out)
		})
	}
}

func TestEncodeRejects(t *testing.T) {
	var (
		nilMap  map[string]int
		nilUser *user
	)

	tests := []struct {
		name     string
		value    interface{}
		expected error
	}{
		{name: "nil", value: nil, expected: types.ErrConfig},
		{name: "nil pointer", value: nilUser, expected: types.ErrConfig},
		{name: "func", value: func() {}, expected: types.ErrUnsupportedType},
		{name: "channel", value: make(chan int), expected: types.ErrUnsupportedType},
		{name: "complex", value: complex(1, 2), expected: types.ErrUnsupportedType},
		{name: "object holding a func", value: map[string]interface{}{"f": func() {}}, expected: types.ErrUnsupportedType},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Encode(test.value)
			assert.ErrorIs(t, err, test.expected)
		})
	}

	// a nil map is still an object and serializes as JSON null
	out, err := Encode(nilMap)
	require.NoError(t, err)
	assert.Equal(t, "null", out)
}

func TestDecodePrecedence(t *testing.T) {
	tests := []struct {
		text     string
		expected types.Value
	}{
		{text: "true", expected: types.BoolValue(true)},
		{text: "TRUE", expected: types.BoolValue(true)},
		{text: "False", expected: types.BoolValue(false)},
		{text: "42", expected: types.NumberValue(42)},
		{text: "-1.5e3", expected: types.NumberValue(-1500)},
		{text: `"quoted"`, expected: types.StringValue("quoted")},
		{text: "hello", expected: types.StringValue("hello")},
		{text: "", expected: types.StringValue("")},
		{text: "01", expected: types.NumberValue(1)},
		{text: "1.", expected: types.NumberValue(1)},
		{text: ".5", expected: types.NumberValue(0.5)},
		{text: "+2", expected: types.NumberValue(2)},
		{text: "1E2", expected: types.NumberValue(100)},
		{text: "1.2.3", expected: types.StringValue("1.2.3")},
		{text: "NaN", expected: types.StringValue("NaN")},
		{text: "Infinity", expected: types.StringValue("Infinity")},
		{text: "-Infinity", expected: types.StringValue("-Infinity")},
		{text: "12abc", expected: types.StringValue("12abc")},
		{text: "falsey", expected: types.StringValue("falsey")},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			out := Decode(test.text)
			assert.Equal(t, test.expected.Kind(), out.Kind())
			assert.Equal(t, test.expected.Interface(), out.Interface())
		})
	}
}

func TestDecodeOutOfRangeNumber(t *testing.T) {
	out := Decode("1e400")
	n, ok := out.Number()
	require.True(t, ok)
	assert.True(t, math.IsInf(n, 1))
}

func TestDecodeObjects(t *testing.T) {
	tests := []struct {
		text     string
		expected interface{}
	}{
		{
			text:     `{"a":1}`,
			expected: map[string]interface{}{"a": float64(1)},
		},
		{
			text: `{"user":"alice","id":7,"tags":["x","y"],"nested":{"ok":true}}`,
			expected: map[string]interface{}{
				"user":   "alice",
				"id":     float64(7),
				"tags":   []interface{}{"x", "y"},
				"nested": map[string]interface{}{"ok": true},
			},
		},
		{
			text:     `[1,"two",false]`,
			expected: []interface{}{float64(1), "two", false},
		},
		{
			text:     "null",
			expected: nil,
		},
	}

	for _, test := range tests {
		t.Run(test.text, func(t *testing.T) {
			out := Decode(test.text)
			require.Equal(t, types.KindObject, out.Kind())
			obj, _ := out.Object()
			if diff := pretty.Compare(test.expected, obj); diff != "" {
				t.Errorf("decoded object mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripThroughText(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		kind  types.Kind
	}{
		{name: "string", value: "hello world", kind: types.KindString},
		{name: "number", value: 3.25, kind: types.KindNumber},
		{name: "boolean", value: true, kind: types.KindBoolean},
		{name: "object", value: map[string]interface{}{"user": "alice", "id": float64(7)}, kind: types.KindObject},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			text, err := Encode(test.value)
			require.NoError(t, err)

			out := Decode(text)
			assert.Equal(t, test.kind, out.Kind())
			if diff := pretty.Compare(test.value, out.Interface()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
