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

// Substitution records that signal From should be replaced everywhere by
// expression To.  Construction can fail (not error) when From occurs
// within To, since substituting a signal for an expression that mentions
// itself has no well-defined meaning here; NewSubstitution reports this
// via its bool return rather than an error, matching the "none" outcome
// of the original constructor.
type Substitution struct {
	From uint64
	To   *Expr
}

// NewSubstitution builds a Substitution, returning ok=false if from
// appears among to's signals.
func NewSubstitution(from uint64, to *Expr) (Substitution, bool, error) {
	if !to.IsLinearOrSimpler() {
		return Substitution{}, false, nil
	}
	//
	coeffs := to.AsCoeffs()
	if _, present := coeffs[from]; present {
		return Substitution{}, false, nil
	}
	//
	return Substitution{From: from, To: to}, true, nil
}

// Decompose returns the (from, to) pair of the substitution.
func (s Substitution) Decompose() (uint64, *Expr) { return s.From, s.To }

// TakeSignals returns every signal mentioned by s: From plus every
// non-constant signal in To.
func (s Substitution) TakeSignals() map[uint64]struct{} {
	out := map[uint64]struct{}{s.From: {}}
	signalsOf(s.To.AsCoeffs(), out)
	//
	return out
}

// ApplyOffset shifts every signal id in s (both From and the signals
// inside To) by offset.
func (s Substitution) ApplyOffset(offset uint64) Substitution {
	shifted := NewLinear(offsetCoeffs(s.To.AsCoeffs(), offset))
	//
	return Substitution{From: s.From + offset, To: shifted}
}

// RemoveZeroCoefficients strips any explicitly-stored zero coefficients
// from s.To.
func (s Substitution) RemoveZeroCoefficients() Substitution {
	return Substitution{From: s.From, To: NewLinear(s.To.AsCoeffs())}
}

// ApplyCorrespondence renames s.From and every signal in s.To according
// to table.
func (s Substitution) ApplyCorrespondence(table map[uint64]uint64) Substitution {
	from, ok := table[s.From]
	if !ok {
		from = s.From
	}
	//
	to, _ := correspondCoeffs(s.To.AsCoeffs(), table, false)
	//
	return Substitution{From: from, To: NewLinear(to)}
}

// ApplyWitness evaluates s.To under a complete assignment (signal id ->
// field value), used only for sanity-checking a simplification against an
// existing witness, never during simplification itself.
func (s Substitution) ApplyWitness(f Field, witness map[uint64]*big.Int) *big.Int {
	coeffs := s.To.AsCoeffs()
	acc := coeffs.Get(ConstKey)
	for sig, coef := range coeffs {
		if sig == ConstKey {
			continue
		}
		//
		val, ok := witness[sig]
		if !ok {
			val = new(big.Int)
		}
		//
		acc = f.Add(acc, f.Mul(coef, val))
	}
	//
	return acc
}
