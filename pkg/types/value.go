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
package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Kind identifies which shape a decoded Value holds
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBoolean
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindObject:
		return "object"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Value is the result of decrypting an envelope. Exactly one of the four
// shapes is held, as reported by Kind.
//
// Object values hold whatever encoding/json produces when decoding into an
// interface: map[string]interface{}, []interface{} or nil for JSON null.
type Value struct {
	kind Kind
	str  string
	num  float64
	b    bool
	obj  interface{}
}

func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

func BoolValue(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

func ObjectValue(o interface{}) Value {
	return Value{kind: KindObject, obj: o}
}

// Kind returns the shape held by the value
func (v Value) Kind() Kind {
	return v.kind
}

// Str returns the string held, ok is false for other kinds
func (v Value) Str() (s string, ok bool) {
	return v.str, v.kind == KindString
}

// Number returns the number held, ok is false for other kinds
func (v Value) Number() (n float64, ok bool) {
	return v.num, v.kind == KindNumber
}

// Bool returns the boolean held, ok is false for other kinds
func (v Value) Bool() (b bool, ok bool) {
	return v.b, v.kind == KindBoolean
}

// Object returns the JSON shaped object held, ok is false for other kinds
func (v Value) Object() (o interface{}, ok bool) {
	return v.obj, v.kind == KindObject
}

// Interface returns the held value as a plain Go value
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindBoolean:
		return v.b
	case KindObject:
		return v.obj
	}
	return v.str
}

// String renders the value the same way it was rendered before encryption.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return FormatNumber(v.num)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	case KindObject:
		b, err := json.Marshal(v.obj)
		if err != nil {
			return fmt.Sprintf("%v", v.obj)
		}
		return string(b)
	}
	return v.str
}

// MarshalJSON - encode the held value as JSON
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// Unmarshal binds the held value onto dst, typically a pointer to a struct
// for Object values.
func (v Value) Unmarshal(dst interface{}) error {
	b, err := v.MarshalJSON()
	if err != nil {
		return err
	}
	return json.Unmarshal(b, dst)
}

// FormatNumber renders f the way a JavaScript Number is rendered as text:
// plain decimal notation between 1e-6 and 1e21, exponent notation outside
// that range, and NaN, Infinity or -Infinity for the non-finite values.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	var format byte = 'f'
	if abs := math.Abs(f); abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}

	s := strconv.FormatFloat(f, format, -1, 64)
	if format == 'e' {
		// 1e-07 becomes 1e-7
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}
