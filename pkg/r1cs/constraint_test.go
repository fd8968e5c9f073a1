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

func TestConstraintOffset(t *testing.T) {
	c := NewConstraint(
		CoeffMap{1: big.NewInt(2)},
		CoeffMap{2: big.NewInt(3)},
		CoeffMap{ConstKey: big.NewInt(1), 3: big.NewInt(1)},
	)
	//
	shifted := c.ApplyOffset(10)
	require.Equal(t, big.NewInt(2), shifted.A[11])
	require.Equal(t, big.NewInt(3), shifted.B[12])
	require.Equal(t, big.NewInt(1), shifted.C[13])
	require.Equal(t, big.NewInt(1), shifted.C[ConstKey])
}

func TestConstraintClearSignal(t *testing.T) {
	f := testField()
	//
	// 2*s1 + 3*s2 - 5 = 0 encoded as a linear constraint: A,B empty,
	// C = {1: 2, 2: 3, const: -5}.
	c := Constraint{
		A: CoeffMap{},
		B: CoeffMap{},
		C: CoeffMap{1: big.NewInt(2), 2: big.NewInt(3), ConstKey: f.Sub(new(big.Int), big.NewInt(5))},
	}
	//
	sub, ok, err := c.ClearSignal(f, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uint64(1), sub.From)
	//
	// s1 = (5 - 3*s2) / 2; verify via witness substitution.
	witness := map[uint64]*big.Int{2: big.NewInt(3)}
	got := sub.ApplyWitness(f, witness)
	//
	expected, err := f.Div(f.Sub(big.NewInt(5), f.Mul(big.NewInt(3), big.NewInt(3))), big.NewInt(2))
	require.NoError(t, err)
	require.Equal(t, expected, got)
}

func TestConstraintClearSignalNotLinearFails(t *testing.T) {
	f := testField()
	//
	c := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{}}
	_, ok, err := c.ClearSignal(f, 1)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestConstraintApplySubstitution(t *testing.T) {
	f := testField()
	//
	// Constraint: s1*s2 - s3 = 0.
	c := Constraint{
		A: CoeffMap{1: big.NewInt(1)},
		B: CoeffMap{2: big.NewInt(1)},
		C: CoeffMap{3: big.NewInt(1)},
	}
	//
	// Substitute s1 -> 2 (a constant).
	sub, ok, err := NewSubstitution(1, NewNumber(big.NewInt(2)))
	require.NoError(t, err)
	require.True(t, ok)
	//
	// A becomes the constant 2, so the constraint turns linear with
	// C = C - 2*B = s3 - 2*s2.
	result, err := c.ApplySubstitution(f, sub)
	require.NoError(t, err)
	require.True(t, result.IsLinear())
	require.Equal(t, f.Sub(new(big.Int), big.NewInt(2)), result.C[2])
	require.Equal(t, big.NewInt(1), result.C[3])
}

func TestConstraintHasConstantCoefficientChecksAllParts(t *testing.T) {
	withConstInC := Constraint{A: CoeffMap{}, B: CoeffMap{}, C: CoeffMap{ConstKey: big.NewInt(1)}}
	require.True(t, withConstInC.HasConstantCoefficient())
	//
	withConstInA := Constraint{A: CoeffMap{ConstKey: big.NewInt(1)}, B: CoeffMap{1: big.NewInt(1)}, C: CoeffMap{}}
	require.True(t, withConstInA.HasConstantCoefficient())
	//
	withoutConst := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{3: big.NewInt(1)}}
	require.False(t, withoutConst.HasConstantCoefficient())
}

func TestConstraintClassification(t *testing.T) {
	empty := EmptyConstraint()
	require.True(t, empty.IsEmpty())
	require.True(t, empty.IsLinear())
	//
	quadEq := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{}}
	require.True(t, quadEq.IsQuadraticEquality())
	require.False(t, quadEq.IsLinear())
	//
	constEq := Constraint{A: CoeffMap{}, B: CoeffMap{}, C: CoeffMap{1: big.NewInt(1), ConstKey: big.NewInt(5)}}
	require.True(t, constEq.IsConstantEquality())
}

func TestTakeClonedMonomials(t *testing.T) {
	f := testField()
	//
	c := Constraint{
		A: CoeffMap{1: big.NewInt(2)},
		B: CoeffMap{2: big.NewInt(3)},
		C: CoeffMap{},
	}
	//
	monos := c.TakeClonedMonomials(f)
	require.Equal(t, big.NewInt(6), monos[newMonomial(1, 2)])
}

func TestHashConstraintCommutesOverAB(t *testing.T) {
	f := testField()
	//
	c1 := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{}}
	c2 := Constraint{A: CoeffMap{2: big.NewInt(1)}, B: CoeffMap{1: big.NewInt(1)}, C: CoeffMap{}}
	require.Equal(t, GetHashConstraint(f, c1), GetHashConstraint(f, c2))
	//
	// s1*s2 - s3 = 0 is a genuinely different equation from s1*s2 = 0.
	c3 := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{3: big.NewInt(1)}}
	require.NotEqual(t, GetHashConstraint(f, c1), GetHashConstraint(f, c3))
}

// TestHashConstraintCommutesOverScalarMultiple exercises the scenario the
// A/B-only canonicalization missed: s1*(2*s2) = 0 and s1*s2 = 0 have the
// same solution set (B is scaled by a non-zero constant, which does not
// change where the product is zero), so normalization must collapse them
// to the same representative before hashing.
func TestHashConstraintCommutesOverScalarMultiple(t *testing.T) {
	f := testField()
	//
	c1 := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{}}
	c2 := Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(2)}, C: CoeffMap{}}
	require.Equal(t, GetHashConstraint(f, c1), GetHashConstraint(f, c2))
	//
	// scaling the whole linear equation s1 - s2 = 0 by 3 must also hash
	// identically to the unscaled original.
	linear1 := Constraint{C: CoeffMap{1: big.NewInt(1), 2: f.Sub(new(big.Int), big.NewInt(1))}}
	linear2 := Constraint{C: CoeffMap{1: big.NewInt(3), 2: f.Sub(new(big.Int), big.NewInt(3))}}
	require.Equal(t, GetHashConstraint(f, linear1), GetHashConstraint(f, linear2))
}
