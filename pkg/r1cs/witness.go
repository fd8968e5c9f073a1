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

// SignalMap maps every signal id that existed before simplification to
// its (possibly different) id afterward, once deleted signals have been
// compacted out.
type SignalMap map[uint64]uint64

// RebuildSignalMap compacts allSignals (every signal id that existed
// before simplification, in ascending order) against the set deleted by
// substitution, reusing each freed slot for the next surviving signal
// rather than leaving gaps.  This reproduces the original free-slot
// bookkeeping: when a surviving signal takes the oldest freed slot, the
// id it vacates is pushed onto the free list in turn, so every survivor
// after the first deletion moves down and the survivors are packed, in
// order, onto the lowest of the walked ids.
func RebuildSignalMap(allSignals []uint64, deleted map[uint64]struct{}) SignalMap {
	signalMap := make(SignalMap, len(allSignals))
	free := make([]uint64, 0)
	//
	for _, signal := range allSignals {
		if _, isDeleted := deleted[signal]; isDeleted {
			free = append(free, signal)
			continue
		}
		//
		if len(free) > 0 {
			newPos := free[0]
			free = free[1:]
			//
			signalMap[signal] = newPos
			free = append(free, signal)
		} else {
			signalMap[signal] = signal
		}
	}
	//
	return signalMap
}

// FilterWitness re-keys witness from old signal ids to new ones according
// to signalMap, dropping any witness entry whose signal no longer appears
// in the map (i.e. was deleted outright rather than renumbered).
func FilterWitness(witness map[uint64]*big.Int, signalMap SignalMap) map[uint64]*big.Int {
	out := make(map[uint64]*big.Int, len(signalMap))
	//
	for oldSignal, newSignal := range signalMap {
		if v, ok := witness[oldSignal]; ok {
			out[newSignal] = new(big.Int).Set(v)
		}
	}
	//
	return out
}
