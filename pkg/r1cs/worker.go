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
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RunBounded evaluates fn over every element of items, running at most
// GOMAXPROCS(0) calls concurrently, and returns their results in the
// original order.  Unlike a goroutine-per-item fan-out, this never
// oversubscribes the scheduler when a cluster list is much larger than
// the number of cores.  The first error returned by any fn call is
// propagated to the caller; the remaining calls are not cancelled and
// still run to completion.
func RunBounded[T, R any](items []T, fn func(T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	//
	g := new(errgroup.Group)
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))
	//
	for i, item := range items {
		i, item := i, item
		//
		g.Go(func() error {
			r, err := fn(item)
			if err != nil {
				return err
			}
			//
			results[i] = r
			//
			return nil
		})
	}
	//
	if err := g.Wait(); err != nil {
		return nil, err
	}
	//
	return results, nil
}
