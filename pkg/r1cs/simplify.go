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

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/zkproofs/r1cs-simplify/pkg/util"
)

// Stats summarizes one Simplify run, logged at Info level on completion
// and otherwise useful to callers that want to report progress.
type Stats struct {
	RunID               string
	ConstraintsBefore   int
	ConstraintsAfter    int
	IterationsLinear    int
	IterationsNonLinear int
	DeducedConstraints  int
	TotalEliminated     int
}

// clusterDeduction is the per-cluster result of a non-linear deduction
// round, returned through the bounded worker pool.
type clusterDeduction struct {
	newIDs   []ConstraintID
	toDelete []ConstraintID
}

// propagateSubstitution rewrites every surviving constraint in storage
// that mentions sub.From, including quadratic ones that FullSimplification
// never touches because they never join a linear cluster.
func propagateSubstitution(f Field, storage *Storage, sub Substitution) error {
	for _, id := range storage.GetIDs() {
		c, ok := storage.Read(id)
		if !ok || c.IsEmpty() {
			continue
		}
		//
		if _, inA := c.A[sub.From]; !inA {
			if _, inB := c.B[sub.From]; !inB {
				if _, inC := c.C[sub.From]; !inC {
					continue
				}
			}
		}
		//
		rewritten, err := c.ApplySubstitution(f, sub)
		if err != nil {
			return err
		}
		//
		storage.Replace(id, rewritten)
	}
	//
	return nil
}

// Simplify reduces storage to an equivalent, smaller system by
// alternating linear-cluster elimination and non-linear-cluster
// deduction until neither makes further progress, then removing
// duplicate and empty constraints.  forbidden lists signals that must
// never be chosen as an elimination pivot (typically public inputs and
// outputs, whose ids the caller wants to keep stable).  witness holds
// the pre-simplification assignment keyed by signal id; Simplify folds
// witness filtering into the driver itself, compacting signal ids with
// RebuildSignalMap and re-keying witness with FilterWitness before
// returning, rather than leaving that bookkeeping to the caller.  It
// returns the signal map from old to compacted ids and the rebuilt
// witness alongside run statistics.
func Simplify(
	f Field, storage *Storage, forbidden map[uint64]struct{}, witness map[uint64]*big.Int, logger *log.Logger,
) (SignalMap, map[uint64]*big.Int, Stats, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	//
	allSignals := storage.TakeSignals()
	stats := Stats{RunID: uuid.NewString(), ConstraintsBefore: storage.Len()}
	entry := logger.WithField("run_id", stats.RunID)
	perf := util.NewPerfStats()
	//
	deletedSignals := make(map[uint64]struct{})
	seenDeductionHashes := make(map[HashConstraint]struct{})
	//
	runLinearRounds := func() (bool, error) {
		any := false
		//
		for {
			ids := storage.GetIDs()
			clusters := BuildLinearClusters(storage, ids)
			if len(clusters) == 0 {
				return any, nil
			}
			//
			subsLists, err := RunBounded(clusters, func(cl *Cluster[ConstraintID]) ([]Substitution, error) {
				return FullSimplification(f, storage, cl.Items(), forbidden)
			})
			if err != nil {
				return any, err
			}
			//
			roundChanged := false
			for _, subs := range subsLists {
				for _, sub := range subs {
					deletedSignals[sub.From] = struct{}{}
					roundChanged = true
					//
					// FullSimplification only rewrites constraints that
					// share the pivot's cluster; constraints outside it
					// (in particular every quadratic constraint, which
					// never enters a linear cluster) can still mention
					// the eliminated signal and must be rewritten too.
					if err := propagateSubstitution(f, storage, sub); err != nil {
						return any, err
					}
				}
			}
			//
			removed := storage.ExtractWith(func(c Constraint) bool { return c.IsEmpty() })
			stats.TotalEliminated += len(removed)
			stats.IterationsLinear++
			//
			entry.Debugf("linear round %d: %d clusters, %d constraints eliminated", stats.IterationsLinear, len(clusters), len(removed))
			//
			if !roundChanged {
				return any, nil
			}
			//
			any = true
		}
	}
	//
	runNonLinearRound := func() (bool, error) {
		ids := storage.GetIDs()
		clusters := ObtainNonLinearClusters(f, storage, ids)
		if len(clusters) == 0 {
			return false, nil
		}
		//
		results, err := RunBounded(clusters, func(cl *Cluster[ConstraintID]) (clusterDeduction, error) {
			newIDs, toDelete, err := DeduceLinearConstraints(f, storage, cl)
			//
			return clusterDeduction{newIDs: newIDs, toDelete: toDelete}, err
		})
		if err != nil {
			return false, err
		}
		//
		changed := false
		//
		for _, r := range results {
			for _, newID := range r.newIDs {
				c, ok := storage.Read(newID)
				if !ok {
					continue
				}
				//
				h := GetHashConstraint(f, c)
				if _, dup := seenDeductionHashes[h]; dup || c.IsEmpty() {
					storage.Remove(newID)
					continue
				}
				//
				seenDeductionHashes[h] = struct{}{}
				stats.DeducedConstraints++
				changed = true
			}
			//
			for _, delID := range r.toDelete {
				storage.Remove(delID)
			}
		}
		//
		stats.IterationsNonLinear++
		entry.Debugf("non-linear round %d: %d clusters, %d deductions kept", stats.IterationsNonLinear, len(clusters), stats.DeducedConstraints)
		//
		return changed, nil
	}
	//
	if _, err := runLinearRounds(); err != nil {
		return nil, nil, stats, err
	}
	//
	for {
		nlChanged, err := runNonLinearRound()
		if err != nil {
			return nil, nil, stats, err
		}
		//
		linChanged, err := runLinearRounds()
		if err != nil {
			return nil, nil, stats, err
		}
		//
		if !nlChanged && !linChanged {
			break
		}
	}
	//
	finalHashes := make(map[HashConstraint]struct{})
	redundant := storage.ExtractWith(func(c Constraint) bool {
		if c.IsEmpty() {
			return true
		}
		//
		h := GetHashConstraint(f, c)
		if _, dup := finalHashes[h]; dup {
			return true
		}
		//
		finalHashes[h] = struct{}{}
		//
		return false
	})
	stats.TotalEliminated += len(redundant)
	stats.ConstraintsAfter = storage.Len()
	//
	improvement := 0.0
	if stats.ConstraintsBefore > 0 {
		improvement = 100.0 * float64(stats.ConstraintsBefore-stats.ConstraintsAfter) / float64(stats.ConstraintsBefore)
	}
	//
	entry.WithFields(log.Fields{
		"constraints_before":    stats.ConstraintsBefore,
		"constraints_after":     stats.ConstraintsAfter,
		"iterations_linear":     stats.IterationsLinear,
		"iterations_non_linear": stats.IterationsNonLinear,
		"deduced_constraints":   stats.DeducedConstraints,
		"improvement_pct":       improvement,
	}).Info("r1cs simplification complete")
	perf.Log("r1cs simplification")
	//
	signalMap := RebuildSignalMap(allSignals, deletedSignals)
	rebuiltWitness := FilterWitness(witness, signalMap)
	//
	return signalMap, rebuiltWitness, stats, nil
}
