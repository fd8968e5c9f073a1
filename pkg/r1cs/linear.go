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

import "sort"

// BuildLinearClusters groups every linear, non-empty constraint in ids by
// shared signal: two constraints land in the same cluster iff there is a
// chain of constraints, each sharing at least one signal with the next,
// connecting them.  Constraints that are not linear, or already empty,
// are skipped (they belong to the non-linear clustering pass instead).
func BuildLinearClusters(storage *Storage, ids []ConstraintID) []*Cluster[ConstraintID] {
	arena := NewArena[ConstraintID]()
	signalSlot := make(map[uint64]int)
	//
	for _, id := range ids {
		c, ok := storage.Read(id)
		if !ok || c.IsEmpty() || !c.IsLinear() {
			continue
		}
		//
		slot := arena.NewSlot(id)
		for sig := range c.TakeSignals() {
			if existing, has := signalSlot[sig]; has {
				slot = arena.Merge(slot, existing)
			} else {
				signalSlot[sig] = slot
			}
		}
	}
	//
	var clusters []*Cluster[ConstraintID]
	for _, root := range arena.Roots() {
		clusters = append(clusters, arena.Cluster(root))
	}
	//
	return clusters
}

// choosePivot selects a signal from c.C to eliminate, preferring the
// smallest non-forbidden signal id, so elimination order is deterministic
// across runs.  ok is false if every signal in c.C is forbidden.
func choosePivot(c Constraint, forbidden map[uint64]struct{}) (uint64, bool) {
	var candidates []uint64
	for sig := range c.C {
		if sig == ConstKey {
			continue
		}
		//
		if _, isForbidden := forbidden[sig]; isForbidden {
			continue
		}
		//
		candidates = append(candidates, sig)
	}
	//
	if len(candidates) == 0 {
		return 0, false
	}
	//
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	//
	return candidates[0], true
}

// FullSimplification runs Gauss-like elimination over one linear
// cluster: repeatedly picks a constraint with an eliminable pivot signal,
// isolates it into a substitution, rewrites every other constraint in the
// cluster to remove that signal, and replaces the pivot constraint with
// the empty constraint in storage.  It returns every substitution
// discovered, in discovery order.  Constraints whose only signals are all
// forbidden are left untouched (no substitution can legally eliminate
// them).
func FullSimplification(f Field, storage *Storage, ids []ConstraintID, forbidden map[uint64]struct{}) ([]Substitution, error) {
	var subs []Substitution
	//
	for {
		progressed := false
		//
		for _, id := range ids {
			c, ok := storage.Read(id)
			if !ok || c.IsEmpty() || !c.IsLinear() {
				continue
			}
			//
			pivot, found := choosePivot(c, forbidden)
			if !found {
				continue
			}
			//
			sub, ok, err := c.ClearSignal(f, pivot)
			if err != nil {
				return nil, err
			} else if !ok {
				continue
			}
			//
			for _, other := range ids {
				if other == id {
					continue
				}
				//
				oc, ok := storage.Read(other)
				if !ok || oc.IsEmpty() || !oc.IsLinear() {
					continue
				}
				//
				if _, present := oc.C[pivot]; !present {
					continue
				}
				//
				rewritten, err := oc.ApplySubstitution(f, sub)
				if err != nil {
					return nil, err
				}
				//
				storage.Replace(other, rewritten)
			}
			//
			storage.Replace(id, EmptyConstraint())
			subs = append(subs, sub)
			progressed = true
		}
		//
		if !progressed {
			break
		}
	}
	//
	return subs, nil
}
