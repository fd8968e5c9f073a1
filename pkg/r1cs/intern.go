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

import "math/big"

// Intern is an order-preserving, first-seen interning table for field
// constants.  Constraint systems emitted by circuit compilers tend to
// reuse a small set of coefficients (0, 1, -1 and a handful of domain
// constants) across millions of constraints; Storage stores every
// coefficient as a reference into this table rather than as an
// independent *big.Int, so a constant repeated across many constraints
// is held in memory exactly once.
type Intern struct {
	values []*big.Int
	index  map[string]int
}

// NewIntern constructs an empty interning table.
func NewIntern() *Intern {
	return &Intern{index: make(map[string]int)}
}

// Intern records v if it has not been seen before and returns its stable
// id, the order in which it was first seen.
func (t *Intern) Intern(v *big.Int) int {
	key := v.String()
	if id, ok := t.index[key]; ok {
		return id
	}
	//
	id := len(t.values)
	t.values = append(t.values, new(big.Int).Set(v))
	t.index[key] = id
	//
	return id
}

// Get returns the interned value for id.
func (t *Intern) Get(id int) *big.Int {
	return new(big.Int).Set(t.values[id])
}

// Len returns the number of distinct constants interned so far.
func (t *Intern) Len() int {
	return len(t.values)
}

// coeffEntry is one (signal-id, constant-id) pair of a compressed
// coefficient map: the signal a coefficient applies to (ConstKey for the
// constant term), and the id under which its value is interned.
type coeffEntry struct {
	Signal  uint64
	ConstID int
}

// compressedCoeffMap is the compressed, storage-resident form of a
// CoeffMap: a vector of (signal-id, constant-id) pairs referencing a
// shared Intern, rather than a map of independently-allocated *big.Int
// values.
type compressedCoeffMap []coeffEntry

// compressedConstraint is the compressed, storage-resident form of a
// Constraint.
type compressedConstraint struct {
	A, B, C compressedCoeffMap
}

// compress interns every coefficient of m into t and returns its
// compressed form.
func compress(t *Intern, m CoeffMap) compressedCoeffMap {
	out := make(compressedCoeffMap, 0, len(m))
	for sig, v := range m {
		out = append(out, coeffEntry{Signal: sig, ConstID: t.Intern(v)})
	}
	//
	return out
}

// expand reconstructs a CoeffMap from its compressed form by looking up
// each entry's interned value in t.
func expand(t *Intern, cm compressedCoeffMap) CoeffMap {
	out := make(CoeffMap, len(cm))
	for _, e := range cm {
		out[e.Signal] = t.Get(e.ConstID)
	}
	//
	return out
}

// compressConstraint compresses every part of c against t.
func compressConstraint(t *Intern, c Constraint) compressedConstraint {
	return compressedConstraint{A: compress(t, c.A), B: compress(t, c.B), C: compress(t, c.C)}
}

// expandConstraint reconstructs a Constraint from its compressed form.
func expandConstraint(t *Intern, c compressedConstraint) Constraint {
	return Constraint{A: expand(t, c.A), B: expand(t, c.B), C: expand(t, c.C)}
}
