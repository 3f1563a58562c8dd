// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jsonvalue

import (
	"encoding/json"
	"math"
	"math/big"
	"strings"
)

// floatEpsilon is the relative tolerance used by [MultipleOf] when either
// operand is a binary floating point value.
const floatEpsilon = 1e-15

// Rat returns the exact rational value of a JSON number.
// It returns false for non-numbers, booleans, NaN and infinities.
func Rat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case json.Number:
		r, ok := new(big.Rat).SetString(string(n))
		return r, ok
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false
		}
		return new(big.Rat).SetFloat64(f), true
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int8:
		return new(big.Rat).SetInt64(int64(n)), true
	case int16:
		return new(big.Rat).SetInt64(int64(n)), true
	case int32:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	case uint:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(uint64(n))), true
	case uint8:
		return new(big.Rat).SetInt64(int64(n)), true
	case uint16:
		return new(big.Rat).SetInt64(int64(n)), true
	case uint32:
		return new(big.Rat).SetInt64(int64(n)), true
	case uint64:
		return new(big.Rat).SetInt(new(big.Int).SetUint64(n)), true
	default:
		return nil, false
	}
}

// Float returns a JSON number as float64. Precision may be lost.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			r, ok := Rat(n)
			if !ok {
				return 0, false
			}
			f, _ = r.Float64()
		}
		return f, true
	}

	r, ok := Rat(v)
	if !ok {
		return 0, false
	}
	f, _ := r.Float64()

	return f, true
}

// IsIntegerLiteral reports whether v was written as an integer: a Go integer type
// or a json.Number without fraction or exponent. Go floats never qualify, even 1.0.
func IsIntegerLiteral(v any) bool {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	case json.Number:
		if strings.ContainsAny(string(n), ".eE") {
			return false
		}
		_, ok := Rat(n)
		return ok
	default:
		return false
	}
}

// IsIntegral reports whether v is a number with no fractional part, however it
// was written. 1.0, 1e2 and 7 are all integral.
func IsIntegral(v any) bool {
	r, ok := Rat(v)
	return ok && r.IsInt()
}

// IsFloat reports whether v is a binary floating point Go value.
func IsFloat(v any) bool {
	switch v.(type) {
	case float32, float64:
		return true
	default:
		return false
	}
}

// Compare compares two JSON numbers exactly. It returns -1, 0 or +1, and false
// when either operand is not a finite number.
func Compare(a, b any) (int, bool) {
	ra, ok := Rat(a)
	if !ok {
		return 0, false
	}
	rb, ok := Rat(b)
	if !ok {
		return 0, false
	}

	return ra.Cmp(rb), true
}

// MultipleOf reports whether v is an integer multiple of divisor.
//
// When both operands are exact (integers or json.Number) the check is exact.
// When either is a Go float the quotient is computed in float64 and accepted
// within a relative tolerance of 1e-15.
func MultipleOf(v, divisor any) bool {
	if IsFloat(v) || IsFloat(divisor) {
		fv, ok := Float(v)
		if !ok {
			return false
		}
		fd, ok := Float(divisor)
		if !ok || fd == 0 {
			return false
		}
		q := fv / fd
		if math.IsInf(q, 0) || math.IsNaN(q) {
			return false
		}

		return math.Abs(q-math.Round(q)) <= floatEpsilon*math.Max(1, math.Abs(q))
	}

	rv, ok := Rat(v)
	if !ok {
		return false
	}
	rd, ok := Rat(divisor)
	if !ok || rd.Sign() == 0 {
		return false
	}

	return new(big.Rat).Quo(rv, rd).IsInt()
}

// Int returns v as an int when it is an integral number that fits.
func Int(v any) (int, bool) {
	r, ok := Rat(v)
	if !ok || !r.IsInt() {
		return 0, false
	}
	n := r.Num()
	if !n.IsInt64() {
		return 0, false
	}
	i := n.Int64()
	if i > math.MaxInt || i < math.MinInt {
		return 0, false
	}

	return int(i), true
}
