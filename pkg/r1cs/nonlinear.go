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

// monomialIndex cross-references which surviving constraints reference
// which monomial, maintained incrementally as constraints are excluded
// from non-linear clustering.
type monomialIndex struct {
	monoToConstraints map[Monomial]map[ConstraintID]struct{}
	constraintToMono  map[ConstraintID]map[Monomial]struct{}
}

// buildMonomialIndex indexes every non-empty constraint in ids by the
// (possibly-shared) monomials TakePossibleClonedMonomials reports for it:
// the A*B pairs plus a (ConstKey, signal) pair for every signal of C.
func buildMonomialIndex(storage *Storage, ids []ConstraintID) *monomialIndex {
	idx := &monomialIndex{
		monoToConstraints: make(map[Monomial]map[ConstraintID]struct{}),
		constraintToMono:  make(map[ConstraintID]map[Monomial]struct{}),
	}
	//
	for _, id := range ids {
		c, ok := storage.Read(id)
		if !ok || c.IsEmpty() {
			continue
		}
		//
		monos := c.TakePossibleClonedMonomials()
		if len(monos) == 0 {
			continue
		}
		//
		idx.constraintToMono[id] = monos
		for m := range monos {
			if idx.monoToConstraints[m] == nil {
				idx.monoToConstraints[m] = make(map[ConstraintID]struct{})
			}
			//
			idx.monoToConstraints[m][id] = struct{}{}
		}
	}
	//
	return idx
}

// removeConstraintFromIndex excises id from idx entirely, returning the
// monomials that just became singleton (candidates for the next cascade
// step).
func removeConstraintFromIndex(idx *monomialIndex, id ConstraintID) []Monomial {
	monos, ok := idx.constraintToMono[id]
	if !ok {
		return nil
	}
	//
	delete(idx.constraintToMono, id)
	//
	var freshlySingleton []Monomial
	for m := range monos {
		set, ok := idx.monoToConstraints[m]
		if !ok {
			continue
		}
		//
		delete(set, id)
		if len(set) == 0 {
			delete(idx.monoToConstraints, m)
		} else if len(set) == 1 {
			freshlySingleton = append(freshlySingleton, m)
		}
	}
	//
	return freshlySingleton
}

// computeZeroConstraints cascades exclusion of every constraint that owns
// a monomial no other surviving constraint references and whose
// coefficient in that constraint's A*B product is non-zero: such a
// constraint's non-linear term can never be cancelled by combination with
// another, so it has nothing to contribute to non-linear deduction and is
// dropped from the index (not from storage).
func computeZeroConstraints(f Field, storage *Storage, idx *monomialIndex) {
	queue := make([]Monomial, 0, len(idx.monoToConstraints))
	for m, set := range idx.monoToConstraints {
		if len(set) == 1 {
			queue = append(queue, m)
		}
	}
	//
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		//
		set, ok := idx.monoToConstraints[m]
		if !ok || len(set) != 1 {
			continue
		}
		//
		var theID ConstraintID
		for id := range set {
			theID = id
		}
		//
		c, ok := storage.Read(theID)
		if !ok {
			continue
		}
		//
		coeffs := c.TakeClonedMonomials(f)
		val, present := coeffs[m]
		if !present || val.Sign() == 0 {
			continue
		}
		//
		queue = append(queue, removeConstraintFromIndex(idx, theID)...)
	}
}

// computeClustersConstraints groups the constraints still present in idx
// by shared monomial, using the same union-find machinery as linear
// clustering.
func computeClustersConstraints(idx *monomialIndex) []*Cluster[ConstraintID] {
	ids := make([]ConstraintID, 0, len(idx.constraintToMono))
	for id := range idx.constraintToMono {
		ids = append(ids, id)
	}
	//
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	//
	arena := NewArena[ConstraintID]()
	monoSlot := make(map[Monomial]int)
	//
	for _, id := range ids {
		slot := arena.NewSlot(id)
		for m := range idx.constraintToMono[id] {
			if existing, has := monoSlot[m]; has {
				slot = arena.Merge(slot, existing)
			} else {
				monoSlot[m] = slot
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

// ObtainNonLinearClusters runs stages A-B of non-linear deduction: build
// the monomial index, cascade away constraints that can never cancel,
// then group the remainder into clusters by shared monomial.
func ObtainNonLinearClusters(f Field, storage *Storage, ids []ConstraintID) []*Cluster[ConstraintID] {
	idx := buildMonomialIndex(storage, ids)
	computeZeroConstraints(f, storage, idx)
	//
	return computeClustersConstraints(idx)
}

// synthVar maps a real constraint id to the reserved coefficient-map key
// used for it inside the synthetic elimination system: cid+1, so key 0
// stays free to mean "the constant term" and is never mistaken for
// constraint 0's variable.
func synthVar(id ConstraintID) uint64 {
	return uint64(id) + 1
}

func synthVarToID(key uint64) ConstraintID {
	return ConstraintID(key - 1)
}

// generateSystemCluster builds one synthetic linear constraint per
// monomial appearing in cluster: sum over the cluster's real constraints
// c of (coefficient of that monomial in c) * synthVar(c) = 0.  A
// non-trivial solution of this system is exactly a linear combination of
// the real constraints whose quadratic terms cancel.
func generateSystemCluster(f Field, storage *Storage, cluster *Cluster[ConstraintID]) (*Storage, []ConstraintID) {
	perMonomial := make(map[Monomial]CoeffMap)
	//
	for _, id := range cluster.Items() {
		c, ok := storage.Read(id)
		if !ok {
			continue
		}
		//
		for m, coef := range c.TakeClonedMonomials(f) {
			if coef.Sign() == 0 {
				continue
			}
			//
			if perMonomial[m] == nil {
				perMonomial[m] = make(CoeffMap)
			}
			//
			perMonomial[m][synthVar(id)] = coef
		}
	}
	//
	synth := NewStorage()
	var synthIDs []ConstraintID
	//
	for _, m := range sortedMonomials(perMonomial) {
		id := synth.Add(Constraint{A: CoeffMap{}, B: CoeffMap{}, C: perMonomial[m]})
		synthIDs = append(synthIDs, id)
	}
	//
	return synth, synthIDs
}

func sortedMonomials(m map[Monomial]CoeffMap) []Monomial {
	out := make([]Monomial, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	//
	sort.Slice(out, func(i, j int) bool {
		if out[i].First != out[j].First {
			return out[i].First < out[j].First
		}
		//
		return out[i].Second < out[j].Second
	})
	//
	return out
}

// DeduceLinearConstraints runs stages C-D of non-linear deduction over
// one cluster (stage E, deduplication, happens in Simplify): it builds
// the synthetic cancellation system, eliminates
// it with FullSimplification (forbidding nothing, since synthetic
// variables have no meaning outside this system), and from every
// resulting substitution derives a new, purely linear constraint that
// replaces the original non-linear one.  It returns the ids of the newly
// stored linear constraints together with the ids of the original
// constraints they replace.
func DeduceLinearConstraints(f Field, storage *Storage, cluster *Cluster[ConstraintID]) (newIDs []ConstraintID, toDelete []ConstraintID, err error) {
	synth, synthIDs := generateSystemCluster(f, storage, cluster)
	//
	subs, err := FullSimplification(f, synth, synthIDs, map[uint64]struct{}{})
	if err != nil {
		return nil, nil, err
	}
	//
	for _, sub := range subs {
		if sub.From == ConstKey {
			continue
		}
		//
		targetID := synthVarToID(sub.From)
		target, ok := storage.Read(targetID)
		if !ok {
			continue
		}
		//
		newC := target.C.Clone()
		//
		coeffs := sub.To.AsCoeffs()
		contribKeys := make([]uint64, 0, len(coeffs))
		for k := range coeffs {
			contribKeys = append(contribKeys, k)
		}
		//
		sort.Slice(contribKeys, func(i, j int) bool { return contribKeys[i] < contribKeys[j] })
		//
		for _, key := range contribKeys {
			if key == ConstKey {
				continue
			}
			//
			val := coeffs[key]
			if val.Sign() == 0 {
				continue
			}
			//
			contributorID := synthVarToID(key)
			contributorConstraint, ok := storage.Read(contributorID)
			if !ok {
				continue
			}
			//
			scaled := multiplyCoeffsByConstant(f, contributorConstraint.C, val)
			newC = addCoeffsToCoeffs(f, newC, scaled)
			toDelete = append(toDelete, contributorID)
		}
		//
		replacement := Constraint{A: CoeffMap{}, B: CoeffMap{}, C: NewLinear(newC).AsCoeffs()}
		newID := storage.AddWithPrevID(replacement, targetID)
		//
		newIDs = append(newIDs, newID)
		toDelete = append(toDelete, targetID)
	}
	//
	return newIDs, toDelete, nil
}
