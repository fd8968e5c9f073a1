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

package r1cs

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// bn254Scalar is the scalar field modulus of BN254, used across these
// tests as a representative large prime rather than a toy modulus.
var bn254Scalar, _ = new(big.Int).SetString("21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

func testField() Field {
	return NewField(bn254Scalar)
}

func TestFieldAddSubRoundtrip(t *testing.T) {
	f := testField()
	a := big.NewInt(10)
	b := big.NewInt(7)
	//
	sum := f.Add(a, b)
	require.Equal(t, big.NewInt(17), sum)
	//
	back := f.Sub(sum, b)
	require.Equal(t, 0, back.Cmp(a))
}

func TestFieldWrapsModulus(t *testing.T) {
	f := testField()
	//
	r := f.Add(f.Modulus(), big.NewInt(5))
	require.Equal(t, big.NewInt(5), r)
}

func TestFieldInverseDiv(t *testing.T) {
	f := testField()
	//
	x := big.NewInt(123456)
	inv, err := f.Inverse(x)
	require.NoError(t, err)
	//
	one := f.Mul(x, inv)
	require.Equal(t, big.NewInt(1), one)
	//
	_, err = f.Inverse(big.NewInt(0))
	require.ErrorIs(t, err, ErrNotInvertible)
}

func TestFieldDivByZero(t *testing.T) {
	f := testField()
	//
	_, err := f.Div(big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestFieldComparisons(t *testing.T) {
	f := testField()
	//
	require.Equal(t, big.NewInt(1), f.Lesser(big.NewInt(3), big.NewInt(5)))
	require.Equal(t, big.NewInt(0), f.Lesser(big.NewInt(5), big.NewInt(3)))
	require.Equal(t, big.NewInt(1), f.Eq(big.NewInt(9), big.NewInt(9)))
	require.Equal(t, big.NewInt(0), f.NotEq(big.NewInt(9), big.NewInt(9)))
}

func TestFieldPow(t *testing.T) {
	f := testField()
	//
	require.Equal(t, big.NewInt(8), f.Pow(big.NewInt(2), big.NewInt(3)))
}

func TestFieldShift(t *testing.T) {
	f := testField()
	//
	l, err := f.ShiftL(big.NewInt(1), big.NewInt(4))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(16), l)
	//
	r, err := f.ShiftR(big.NewInt(16), big.NewInt(4))
	require.NoError(t, err)
	require.Equal(t, big.NewInt(1), r)
}

func TestFieldBoolOps(t *testing.T) {
	f := testField()
	//
	require.True(t, f.AsBool(big.NewInt(1)))
	require.False(t, f.AsBool(big.NewInt(0)))
	require.Equal(t, big.NewInt(1), f.BoolAnd(big.NewInt(3), big.NewInt(7)))
	require.Equal(t, big.NewInt(0), f.BoolAnd(big.NewInt(0), big.NewInt(7)))
	require.Equal(t, big.NewInt(0), f.Not(big.NewInt(5)))
	require.Equal(t, big.NewInt(1), f.Not(big.NewInt(0)))
}
