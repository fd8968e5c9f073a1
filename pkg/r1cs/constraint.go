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

// Constraint is an R1CS constraint A*B-C=0 over coefficient maps.  Unlike
// Expr, a Constraint's three parts are always plain CoeffMaps: a
// constraint is constructed only from already-linear components.
type Constraint struct {
	A, B, C CoeffMap
}

// NewConstraint builds a Constraint from three coefficient maps, cloning
// each so the caller may mutate its originals afterwards.
func NewConstraint(a, b, c CoeffMap) Constraint {
	return Constraint{A: a.Clone(), B: b.Clone(), C: c.Clone()}
}

// EmptyConstraint returns the trivial constraint 0*0-0=0.
func EmptyConstraint() Constraint {
	return Constraint{A: CoeffMap{}, B: CoeffMap{}, C: CoeffMap{}}
}

// IsEmpty reports whether every part of c is the zero map.
func (c Constraint) IsEmpty() bool {
	return len(c.A) == 0 && len(c.B) == 0 && len(c.C) == 0
}

// IsLinear reports whether c carries no quadratic term, i.e. A and B are
// both empty (so the constraint reduces to -C=0).
func (c Constraint) IsLinear() bool {
	return len(c.A) == 0 && len(c.B) == 0
}

// HasConstantCoefficient reports whether any of A, B or C carries a
// constant term.  The original Rust implementation checked `a` three
// times and never examined `c`; this is the corrected version per the
// documented fix.
func (c Constraint) HasConstantCoefficient() bool {
	_, inA := c.A[ConstKey]
	_, inB := c.B[ConstKey]
	_, inC := c.C[ConstKey]
	//
	return inA || inB || inC
}

// signalsOf appends every non-constant signal key of m into out.
func signalsOf(m CoeffMap, out map[uint64]struct{}) {
	for k := range m {
		if k != ConstKey {
			out[k] = struct{}{}
		}
	}
}

// TakeSignals returns the set of every non-constant signal appearing in
// c's three parts.
func (c Constraint) TakeSignals() map[uint64]struct{} {
	out := make(map[uint64]struct{})
	signalsOf(c.A, out)
	signalsOf(c.B, out)
	signalsOf(c.C, out)
	//
	return out
}

// Monomial identifies one product of two signals appearing in a
// quadratic constraint: (first, second) with first <= second.
type Monomial struct {
	First, Second uint64
}

func newMonomial(a, b uint64) Monomial {
	if a <= b {
		return Monomial{First: a, Second: b}
	}
	//
	return Monomial{First: b, Second: a}
}

// TakeClonedMonomials returns every (signal, signal) pair appearing as a
// product in c's quadratic term, together with its coefficient in the
// field, i.e. A[i]*B[j] for every non-zero A[i], B[j].  Constant-times-
// signal products are folded in as (ConstKey, signal).
func (c Constraint) TakeClonedMonomials(f Field) map[Monomial]*big.Int {
	out := make(map[Monomial]*big.Int)
	for ka, va := range c.A {
		for kb, vb := range c.B {
			m := newMonomial(ka, kb)
			out[m] = f.Add(monomialMapGet(out, m), f.Mul(va, vb))
		}
	}
	//
	return out
}

func monomialMapGet(m map[Monomial]*big.Int, k Monomial) *big.Int {
	if v, ok := m[k]; ok {
		return v
	}
	//
	return new(big.Int)
}

// TakePossibleClonedMonomials returns the (non-strict) monomial set of c:
// every pairing of a signal from A with a signal from B, plus every
// signal appearing alone in C (paired with ConstKey), used by the
// non-linear clustering stage to decide which constraints share
// structure.
func (c Constraint) TakePossibleClonedMonomials() map[Monomial]struct{} {
	out := make(map[Monomial]struct{})
	for ka := range c.A {
		for kb := range c.B {
			out[newMonomial(ka, kb)] = struct{}{}
		}
	}
	for k := range c.C {
		out[newMonomial(ConstKey, k)] = struct{}{}
	}
	//
	return out
}

// TakePossibleClonedStrictMonomials is TakePossibleClonedMonomials
// restricted to monomials formed from two non-constant signals (a signal
// paired with itself is kept), i.e. excluding anything touching ConstKey.
func (c Constraint) TakePossibleClonedStrictMonomials() map[Monomial]struct{} {
	out := make(map[Monomial]struct{})
	for m := range c.TakePossibleClonedMonomials() {
		if m.First != ConstKey {
			out[m] = struct{}{}
		}
	}
	//
	return out
}

// IsEquality reports whether c is linear and has no non-constant signal
// on either side but C, i.e. 0 = -C (a pure linear equation over signals).
func (c Constraint) IsEquality() bool {
	return c.IsLinear()
}

// IsConstantEquality reports whether c is linear, touches exactly one
// signal and that signal's coefficient is such that the equation fully
// determines a constant value, i.e. C has at most the constant term plus
// one signal.
func (c Constraint) IsConstantEquality() bool {
	if !c.IsLinear() {
		return false
	}
	//
	signals := 0
	for k := range c.C {
		if k != ConstKey {
			signals++
		}
	}
	//
	return signals == 1
}

// IsQuadraticEquality reports whether c has a non-trivial A*B term and an
// empty C, i.e. the equation states the product of two linear expressions
// is zero.
func (c Constraint) IsQuadraticEquality() bool {
	return len(c.A) > 0 && len(c.B) > 0 && len(c.C) == 0
}

// TakeSignalsQuadraticEquality returns the signal set of a quadratic
// equality constraint's A and B parts, used to seed quadratic-equality
// clustering.
func (c Constraint) TakeSignalsQuadraticEquality() map[uint64]struct{} {
	out := make(map[uint64]struct{})
	signalsOf(c.A, out)
	signalsOf(c.B, out)
	//
	return out
}

// ClearSignal eliminates signal from a linear constraint by isolating its
// coefficient in C, dividing through, and re-expressing C without that
// signal: given -C=0 with C[s]!=0, returns the substitution s -> (the
// remaining linear expression with sign flipped and scaled by 1/C[s]).
// Only valid when c is linear and C[signal] is non-zero; ok is false
// otherwise.
func (c Constraint) ClearSignal(f Field, signal uint64) (Substitution, bool, error) {
	if !c.IsLinear() {
		return Substitution{}, false, nil
	}
	//
	coef, present := c.C[signal]
	if !present || coef.Sign() == 0 {
		return Substitution{}, false, nil
	}
	//
	rest := c.C.Clone()
	delete(rest, signal)
	//
	negInvCoef, err := f.Inverse(coef)
	if err != nil {
		return Substitution{}, false, err
	}
	negInvCoef = f.Mul(negInvCoef, new(big.Int).Sub(f.Modulus(), bigOne))
	//
	scaled := multiplyCoeffsByConstant(f, rest, negInvCoef)
	//
	return NewSubstitution(signal, NewLinear(scaled))
}

// ApplySubstitution replaces every occurrence of sub.From in c with
// sub.To, re-deriving the constraint's quadratic/linear shape from
// scratch via the expression algebra.  Zero coefficients introduced by
// cancellation are always stripped, and an A or B that becomes constant
// turns the result into a linear constraint.  There is no separate
// normalizing variant: constant terms inside an A and B that both stay
// non-constant are not folded into C.
func (c Constraint) ApplySubstitution(f Field, sub Substitution) (Constraint, error) {
	aExpr, err := applySubstitutionToCoeffs(f, c.A, sub)
	if err != nil {
		return Constraint{}, err
	}
	//
	bExpr, err := applySubstitutionToCoeffs(f, c.B, sub)
	if err != nil {
		return Constraint{}, err
	}
	//
	cExpr, err := applySubstitutionToCoeffs(f, c.C, sub)
	if err != nil {
		return Constraint{}, err
	}
	//
	prod := Mul(f, aExpr, bExpr)
	full := Sub(f, prod, cExpr)
	//
	a, b, cc, ok := full.ToConstraintForm(f)
	if !ok {
		return Constraint{}, ErrNotRepresentable
	}
	//
	return Constraint{A: a.AsCoeffs(), B: b.AsCoeffs(), C: cc.AsCoeffs()}, nil
}

func applySubstitutionToCoeffs(f Field, m CoeffMap, sub Substitution) (*Expr, error) {
	coef, present := m[sub.From]
	if !present || coef.Sign() == 0 {
		return NewLinear(m), nil
	}
	//
	rest := m.Clone()
	delete(rest, sub.From)
	//
	scaled := Mul(f, NewNumber(coef), sub.To)
	if scaled.IsNonQuadratic() {
		return nil, ErrNotRepresentable
	}
	//
	return Add(f, NewLinear(rest), scaled), nil
}

// RemoveZeroCoefficients returns a copy of c with any explicitly-stored
// zero entries stripped from its three coefficient maps; c itself is not
// modified.
func (c Constraint) RemoveZeroCoefficients() Constraint {
	return Constraint{
		A: NewLinear(c.A).AsCoeffs(),
		B: NewLinear(c.B).AsCoeffs(),
		C: NewLinear(c.C).AsCoeffs(),
	}
}

// ApplyOffset shifts every non-constant signal id in c by offset,
// matching apply_offset: used when merging two previously-independent
// signal spaces.
func (c Constraint) ApplyOffset(offset uint64) Constraint {
	return Constraint{A: offsetCoeffs(c.A, offset), B: offsetCoeffs(c.B, offset), C: offsetCoeffs(c.C, offset)}
}

func offsetCoeffs(m CoeffMap, offset uint64) CoeffMap {
	out := make(CoeffMap, len(m))
	for k, v := range m {
		if k == ConstKey {
			out[ConstKey] = new(big.Int).Set(v)
		} else {
			out[k+offset] = new(big.Int).Set(v)
		}
	}
	//
	return out
}

// ApplyCorrespondence renames every signal in c according to table,
// dropping the constraint entirely (ok=false) if dropMissing is true and
// some signal has no entry.
func (c Constraint) ApplyCorrespondence(table map[uint64]uint64, dropMissing bool) (Constraint, bool) {
	a, ok := correspondCoeffs(c.A, table, dropMissing)
	if !ok {
		return Constraint{}, false
	}
	//
	b, ok := correspondCoeffs(c.B, table, dropMissing)
	if !ok {
		return Constraint{}, false
	}
	//
	cc, ok := correspondCoeffs(c.C, table, dropMissing)
	if !ok {
		return Constraint{}, false
	}
	//
	return Constraint{A: a, B: b, C: cc}, true
}

func correspondCoeffs(m CoeffMap, table map[uint64]uint64, dropMissing bool) (CoeffMap, bool) {
	out := make(CoeffMap, len(m))
	for k, v := range m {
		if k == ConstKey {
			out[ConstKey] = new(big.Int).Set(v)
			continue
		}
		//
		nk, present := table[k]
		if !present {
			if dropMissing {
				return nil, false
			}
			//
			nk = k
		}
		//
		out[nk] = new(big.Int).Set(v)
	}
	//
	return out, true
}
