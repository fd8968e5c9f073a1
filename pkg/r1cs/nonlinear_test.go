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

func TestComputeZeroConstraintsCascadesSingletonMonomials(t *testing.T) {
	f := testField()
	s := NewStorage()
	//
	// s1*s2-s3=0 and s1*s2-s4=0 share monomial (1,2).
	c1 := s.Add(Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{3: big.NewInt(1)}})
	c2 := s.Add(Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{4: big.NewInt(1)}})
	// s5*s6-s7=0 has a monomial nothing else references.
	c3 := s.Add(Constraint{A: CoeffMap{5: big.NewInt(1)}, B: CoeffMap{6: big.NewInt(1)}, C: CoeffMap{7: big.NewInt(1)}})
	//
	clusters := ObtainNonLinearClusters(f, s, s.GetIDs())
	require.Len(t, clusters, 1)
	require.ElementsMatch(t, []ConstraintID{c1, c2}, clusters[0].Items())
	//
	_ = c3
}

func TestDeduceLinearConstraintsFindsSharedProduct(t *testing.T) {
	f := testField()
	s := NewStorage()
	//
	c1 := s.Add(Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{3: big.NewInt(1)}})
	c2 := s.Add(Constraint{A: CoeffMap{1: big.NewInt(1)}, B: CoeffMap{2: big.NewInt(1)}, C: CoeffMap{4: big.NewInt(1)}})
	//
	clusters := ObtainNonLinearClusters(f, s, s.GetIDs())
	require.Len(t, clusters, 1)
	//
	newIDs, toDelete, err := DeduceLinearConstraints(f, s, clusters[0])
	require.NoError(t, err)
	require.Len(t, newIDs, 1)
	require.Contains(t, toDelete, c1)
	//
	deduced, ok := s.Read(newIDs[0])
	require.True(t, ok)
	require.True(t, deduced.IsLinear())
	//
	// The deduction must state s3 and s4 are equal (up to sign), since
	// both constraints assert s1*s2 equals a different signal.
	require.Len(t, deduced.C, 2)
	v3, has3 := deduced.C[3]
	v4, has4 := deduced.C[4]
	require.True(t, has3)
	require.True(t, has4)
	require.Equal(t, 0, new(big.Int).Add(v3, v4).Mod(new(big.Int).Add(v3, v4), f.Modulus()).Sign())
	//
	_ = c2
}
