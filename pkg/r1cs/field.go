// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package r1cs implements the constraint-simplification core for
// arithmetic-circuit compilers: algebra over a runtime-configured prime
// field, R1CS constraints and substitutions, constant-deduplicating
// storage, and the linear/non-linear simplification pipeline that reduces
// a large constraint system to an equivalent, smaller one.
package r1cs

import (
	"errors"
	"math/big"
)

// Errors returned by the field layer.  These propagate unchanged to
// callers per the error handling design: arithmetic failures are never
// swallowed by the simplifier.
var (
	// ErrDivisionByZero occurs when dividing by the additive identity.
	ErrDivisionByZero = errors.New("r1cs: division by zero")
	// ErrNotInvertible occurs when a divisor shares a factor with the
	// modulus and therefore has no multiplicative inverse.
	ErrNotInvertible = errors.New("r1cs: divisor not invertible mod p")
	// ErrShiftOutOfRange occurs when a shift amount cannot be represented
	// as a native machine shift count.
	ErrShiftOutOfRange = errors.New("r1cs: shift amount out of range")
	// ErrNotRepresentable occurs when an operation would need to produce
	// an expression whose non-linear structure exceeds what a single
	// quadratic term can hold (e.g. substituting a quadratic expression
	// into an already-quadratic constraint part).
	ErrNotRepresentable = errors.New("r1cs: result is not representable as a constraint")
)

var (
	bigZero = big.NewInt(0)
	bigOne  = big.NewInt(1)
)

// Field bundles the modulus for one simplification run.  All field
// elements are *big.Int, always held canonically reduced to [0, p).  A
// Field is immutable once constructed and safe for concurrent use by
// multiple goroutines, since every method takes its operands by value and
// allocates fresh results.
type Field struct {
	modulus *big.Int
}

// NewField constructs a field of characteristic p.  The modulus is cloned
// so the caller may mutate its own copy afterwards without affecting the
// field.
func NewField(p *big.Int) Field {
	return Field{modulus: new(big.Int).Set(p)}
}

// Modulus returns the characteristic of this field.
func (f Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// canon reduces x to its canonical representative in [0, p).
func (f Field) canon(x *big.Int) *big.Int {
	r := new(big.Int).Mod(x, f.modulus)
	//
	return r
}

// Add returns x+y mod p.
func (f Field) Add(x, y *big.Int) *big.Int {
	return f.canon(new(big.Int).Add(x, y))
}

// Sub returns x-y mod p.
func (f Field) Sub(x, y *big.Int) *big.Int {
	return f.canon(new(big.Int).Sub(x, y))
}

// Mul returns x*y mod p.
func (f Field) Mul(x, y *big.Int) *big.Int {
	return f.canon(new(big.Int).Mul(x, y))
}

// Inverse returns the multiplicative inverse of x mod p, or
// ErrNotInvertible if x shares a common factor with p (including x=0).
func (f Field) Inverse(x *big.Int) (*big.Int, error) {
	xc := f.canon(x)
	if xc.Sign() == 0 {
		return nil, ErrNotInvertible
	}
	//
	inv := new(big.Int).ModInverse(xc, f.modulus)
	if inv == nil {
		return nil, ErrNotInvertible
	}
	//
	return inv, nil
}

// Div returns x/y mod p.
func (f Field) Div(x, y *big.Int) (*big.Int, error) {
	if f.canon(y).Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	//
	inv, err := f.Inverse(y)
	if err != nil {
		return nil, err
	}
	//
	return f.Mul(x, inv), nil
}

// IDiv returns the integer quotient of the canonical representatives of x
// and y (not a modular division).
func (f Field) IDiv(x, y *big.Int) (*big.Int, error) {
	xc, yc := f.canon(x), f.canon(y)
	if yc.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	//
	return f.canon(new(big.Int).Div(xc, yc)), nil
}

// Mod returns the canonical representative of x modulo the canonical
// representative of y.
func (f Field) Mod(x, y *big.Int) (*big.Int, error) {
	xc, yc := f.canon(x), f.canon(y)
	if yc.Sign() == 0 {
		return nil, ErrDivisionByZero
	}
	//
	return f.canon(new(big.Int).Mod(xc, yc)), nil
}

// Pow returns x^n mod p, where n is the canonical representative of the
// exponent (treated as a non-negative integer).
func (f Field) Pow(x, n *big.Int) *big.Int {
	return f.canon(new(big.Int).Exp(f.canon(x), f.canon(n), f.modulus))
}

// ShiftL returns x << n mod p, where n must be at most 2^32.
func (f Field) ShiftL(x, n *big.Int) (*big.Int, error) {
	shift, err := shiftAmount(f.canon(n))
	if err != nil {
		return nil, err
	}
	//
	return f.canon(new(big.Int).Lsh(f.canon(x), shift)), nil
}

// ShiftR returns x >> n mod p, where n must be at most 2^32.
func (f Field) ShiftR(x, n *big.Int) (*big.Int, error) {
	shift, err := shiftAmount(f.canon(n))
	if err != nil {
		return nil, err
	}
	//
	return f.canon(new(big.Int).Rsh(f.canon(x), shift)), nil
}

func shiftAmount(n *big.Int) (uint, error) {
	if !n.IsUint64() || n.Uint64() > (1<<32) {
		return 0, ErrShiftOutOfRange
	}
	//
	return uint(n.Uint64()), nil
}

// And returns the bitwise AND of the canonical representatives of x, y.
func (f Field) And(x, y *big.Int) *big.Int {
	return f.canon(new(big.Int).And(f.canon(x), f.canon(y)))
}

// Or returns the bitwise OR of the canonical representatives of x, y.
func (f Field) Or(x, y *big.Int) *big.Int {
	return f.canon(new(big.Int).Or(f.canon(x), f.canon(y)))
}

// Xor returns the bitwise XOR of the canonical representatives of x, y.
func (f Field) Xor(x, y *big.Int) *big.Int {
	return f.canon(new(big.Int).Xor(f.canon(x), f.canon(y)))
}

// twoPow256 is 2^256, used to bound the operand of Complement256.
var twoPow256 = new(big.Int).Lsh(bigOne, 256)

// Complement256 returns the bitwise NOT of x restricted to its low 256
// bits, preserving parity with Ethereum-style circuit semantics (the
// result is (2^256 - 1) - (x mod 2^256), reduced mod p).
func (f Field) Complement256(x *big.Int) *big.Int {
	bounded := new(big.Int).Mod(f.canon(x), twoPow256)
	mask := new(big.Int).Sub(twoPow256, bigOne)
	//
	return f.canon(new(big.Int).Xor(bounded, mask))
}

// Not is the boolean negation of a field element treated as a boolean (0
// or any non-zero value), returning a canonical 0 or 1.
func (f Field) Not(x *big.Int) *big.Int {
	if f.AsBool(x) {
		return new(big.Int).Set(bigZero)
	}
	//
	return new(big.Int).Set(bigOne)
}

// AsBool interprets a field element as a boolean: zero is false, any
// other canonical value is true.
func (f Field) AsBool(x *big.Int) bool {
	return f.canon(x).Sign() != 0
}

func (f Field) boolElem(v bool) *big.Int {
	if v {
		return new(big.Int).Set(bigOne)
	}
	//
	return new(big.Int).Set(bigZero)
}

// BoolAnd returns the field-encoded logical AND of x, y (each treated as a
// boolean via AsBool).
func (f Field) BoolAnd(x, y *big.Int) *big.Int {
	return f.boolElem(f.AsBool(x) && f.AsBool(y))
}

// BoolOr returns the field-encoded logical OR of x, y.
func (f Field) BoolOr(x, y *big.Int) *big.Int {
	return f.boolElem(f.AsBool(x) || f.AsBool(y))
}

// Eq returns 1 if the canonical representatives of x and y are equal, 0
// otherwise.
func (f Field) Eq(x, y *big.Int) *big.Int {
	return f.boolElem(f.canon(x).Cmp(f.canon(y)) == 0)
}

// NotEq returns 1 if x and y differ, 0 otherwise.
func (f Field) NotEq(x, y *big.Int) *big.Int {
	return f.boolElem(f.canon(x).Cmp(f.canon(y)) != 0)
}

// Lesser returns 1 if the canonical representative of x is strictly less
// than that of y, 0 otherwise.
func (f Field) Lesser(x, y *big.Int) *big.Int {
	return f.boolElem(f.canon(x).Cmp(f.canon(y)) < 0)
}

// LesserEq returns 1 if x <= y (canonical representatives), 0 otherwise.
func (f Field) LesserEq(x, y *big.Int) *big.Int {
	return f.boolElem(f.canon(x).Cmp(f.canon(y)) <= 0)
}

// Greater returns 1 if x > y (canonical representatives), 0 otherwise.
func (f Field) Greater(x, y *big.Int) *big.Int {
	return f.boolElem(f.canon(x).Cmp(f.canon(y)) > 0)
}

// GreaterEq returns 1 if x >= y (canonical representatives), 0 otherwise.
func (f Field) GreaterEq(x, y *big.Int) *big.Int {
	return f.boolElem(f.canon(x).Cmp(f.canon(y)) >= 0)
}
