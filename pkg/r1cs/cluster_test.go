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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestArenaMergeChains(t *testing.T) {
	arena := NewArena[int]()
	//
	a := arena.NewSlot(1)
	b := arena.NewSlot(2)
	c := arena.NewSlot(3)
	//
	arena.Merge(a, b)
	arena.Merge(b, c)
	//
	require.Equal(t, arena.Find(a), arena.Find(c))
	require.ElementsMatch(t, []int{1, 2, 3}, arena.Cluster(a).Items())
	require.Len(t, arena.Roots(), 1)
}

func TestArenaIndependentClustersStayApart(t *testing.T) {
	arena := NewArena[int]()
	//
	a := arena.NewSlot(1)
	b := arena.NewSlot(2)
	//
	require.NotEqual(t, arena.Find(a), arena.Find(b))
	require.Len(t, arena.Roots(), 2)
}

func TestArenaMergeIsIdempotent(t *testing.T) {
	arena := NewArena[int]()
	//
	a := arena.NewSlot(1)
	b := arena.NewSlot(2)
	//
	r1 := arena.Merge(a, b)
	r2 := arena.Merge(a, b)
	require.Equal(t, r1, r2)
	require.Len(t, arena.Cluster(a).Items(), 2)
}
