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
	"crypto/sha256"
	"math/big"
	"sort"
)

// HashConstraint is a content hash of a constraint's normalized form,
// used to detect and remove duplicate constraints cheaply: constraints
// that are scalar multiples of one another, or differ only in which of
// A/B carries which factor, normalize to the same form and therefore
// hash identically.
type HashConstraint [sha256.Size]byte

// GetHashConstraint returns a hash of c's normalized form, matching
// normalize: a constraint with an all-zero A or B collapses to its
// (scaled) C alone; a constraint where A or B is constant-only folds
// that constant into C and drops both A and B; a genuinely quadratic
// constraint has its cross-constant terms folded into C, A and B ordered
// canonically by their sorted key sequence, then A and B each scaled by
// the inverse of their own smallest-signal coefficient and C divided by
// both of those coefficients.  Two
// constraints denoting the same equation up to a non-zero field scalar
// therefore hash identically.
func GetHashConstraint(f Field, c Constraint) HashConstraint {
	n := normalizeConstraint(f, c)
	//
	h := sha256.New()
	writeCoeffMap(h, n.A)
	h.Write([]byte{0})
	writeCoeffMap(h, n.B)
	h.Write([]byte{0})
	writeCoeffMap(h, n.C)
	//
	var out HashConstraint
	copy(out[:], h.Sum(nil))
	//
	return out
}

// normalizeConstraint reduces c to a canonical representative of its
// equivalence class under scalar multiplication and A/B commutativity,
// matching the original implementation's normalize: a constraint with an
// all-zero A or B (including the fully linear case, where both are
// empty) is purely linear and normalizes to its C part scaled by the
// inverse of C's smallest-signal coefficient; a constraint where A or B
// is constant-only folds that constant times the other factor into C
// (negated) and drops A and B entirely, since const*B-C=0 is itself
// linear; otherwise the constraint is genuinely quadratic, and any
// constant terms still present in A or B contribute cross terms into C
// before A, B and C are each scaled down by the relevant smallest-signal
// coefficient.
func normalizeConstraint(f Field, c Constraint) Constraint {
	a, b, cc := c.A.Clone(), c.B.Clone(), c.C.Clone()
	//
	switch {
	case isZeroExpression(a) || isZeroExpression(b):
		return Constraint{A: CoeffMap{}, B: CoeffMap{}, C: scaleToCanonical(f, cc)}.RemoveZeroCoefficients()
	case isConstantExpression(a):
		constCoef := a.Get(ConstKey)
		fold := multiplyCoeffsByConstant(f, b, constCoef)
		fold = multiplyCoeffsByConstant(f, fold, fieldNegOne(f))
		newC := addCoeffsToCoeffs(f, cc, fold)
		//
		return Constraint{A: CoeffMap{}, B: CoeffMap{}, C: scaleToCanonical(f, newC)}.RemoveZeroCoefficients()
	case isConstantExpression(b):
		constCoef := b.Get(ConstKey)
		fold := multiplyCoeffsByConstant(f, a, constCoef)
		fold = multiplyCoeffsByConstant(f, fold, fieldNegOne(f))
		newC := addCoeffsToCoeffs(f, cc, fold)
		//
		return Constraint{A: CoeffMap{}, B: CoeffMap{}, C: scaleToCanonical(f, newC)}.RemoveZeroCoefficients()
	default:
		addC, a, b := foldConstantCrossTerms(f, a, b)
		addC = multiplyCoeffsByConstant(f, addC, fieldNegOne(f))
		newC := addCoeffsToCoeffs(f, cc, addC)
		//
		if sortedKeysGreater(a, b) {
			a, b = b, a
		}
		//
		if fa := smallestSignalCoefficient(a); fa.Sign() != 0 {
			if da, err := divideCoeffsByConstant(f, a, fa); err == nil {
				a = da
			}
			//
			if dc, err := divideCoeffsByConstant(f, newC, fa); err == nil {
				newC = dc
			}
		}
		//
		if fb := smallestSignalCoefficient(b); fb.Sign() != 0 {
			if db, err := divideCoeffsByConstant(f, b, fb); err == nil {
				b = db
			}
			//
			if dc, err := divideCoeffsByConstant(f, newC, fb); err == nil {
				newC = dc
			}
		}
		//
		return Constraint{A: a, B: b, C: newC}.RemoveZeroCoefficients()
	}
}

// scaleToCanonical divides m by its own smallest-signal coefficient, so
// every scalar multiple of the same linear expression normalizes to the
// same representative.  A zero expression is left untouched (there is no
// scalar to divide by).
func scaleToCanonical(f Field, m CoeffMap) CoeffMap {
	fc := smallestSignalCoefficient(m)
	if fc.Sign() == 0 {
		return m
	}
	//
	scaled, err := divideCoeffsByConstant(f, m, fc)
	if err != nil {
		return m
	}
	//
	return scaled
}

// foldConstantCrossTerms extracts the constant term of a and b (if any)
// as a cross term against the other side, returning the combined cross
// contribution (to be subtracted into C) along with a and b stripped of
// their constant terms.  Matches get_linear_coefficients_ab: a's
// constant (if non-zero) contributes const(a)*b first, and only then is
// b's constant (read before a touched it) folded in as const(b)*a using
// the already-stripped a.
func foldConstantCrossTerms(f Field, a, b CoeffMap) (addC, newA, newB CoeffMap) {
	newA, newB = a.Clone(), b.Clone()
	addC = CoeffMap{}
	//
	if av := newA.Get(ConstKey); av.Sign() != 0 {
		addC = addCoeffsToCoeffs(f, addC, multiplyCoeffsByConstant(f, newB, av))
		delete(newA, ConstKey)
	}
	//
	if bv := newB.Get(ConstKey); bv.Sign() != 0 {
		addC = addCoeffsToCoeffs(f, addC, multiplyCoeffsByConstant(f, newA, bv))
		delete(newB, ConstKey)
	}
	//
	return addC, newA, newB
}

// smallestSignalCoefficient returns the first non-zero coefficient of m
// in ascending key order, or zero if m has no non-zero coefficient.
func smallestSignalCoefficient(m CoeffMap) *big.Int {
	for _, k := range sortedKeys(m) {
		if v := m[k]; v.Sign() != 0 {
			return new(big.Int).Set(v)
		}
	}
	//
	return new(big.Int)
}

// isZeroExpression reports whether every coefficient of m is zero.
func isZeroExpression(m CoeffMap) bool {
	return smallestSignalCoefficient(m).Sign() == 0
}

// isConstantExpression reports whether m carries no non-zero coefficient
// other than (possibly) its constant term.
func isConstantExpression(m CoeffMap) bool {
	for k, v := range m {
		if k != ConstKey && v.Sign() != 0 {
			return false
		}
	}
	//
	return true
}

func sortedKeys(m CoeffMap) []uint64 {
	keys := make([]uint64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	//
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	//
	return keys
}

// sortedKeysGreater reports whether a's sorted key sequence is
// lexicographically greater than b's, comparing element-wise and
// treating a shorter sequence that is a prefix of the other as smaller
// (matching Rust's derived Vec ordering).
func sortedKeysGreater(a, b CoeffMap) bool {
	ak, bk := sortedKeys(a), sortedKeys(b)
	//
	n := len(ak)
	if len(bk) < n {
		n = len(bk)
	}
	//
	for i := 0; i < n; i++ {
		if ak[i] != bk[i] {
			return ak[i] > bk[i]
		}
	}
	//
	return len(ak) > len(bk)
}

func writeCoeffMap(h interface{ Write([]byte) (int, error) }, m CoeffMap) {
	for _, k := range sortedKeys(m) {
		writeUint64(h, k)
		h.Write([]byte(m[k].String()))
		h.Write([]byte{','})
	}
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (8 * i))
	}
	//
	h.Write(buf)
}
