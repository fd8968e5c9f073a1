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

// Command r1cs-simplify demonstrates the simplification pipeline against a
// small synthetic R1CS system built in-process.  It is not a circuit
// compiler front-end, an R1CS writer, or a witness evaluator: those remain
// collaborators outside this module, reached only through the library
// interfaces in pkg/r1cs.
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/zkproofs/r1cs-simplify/pkg/r1cs"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version can be set at link time (-ldflags "-X main.Version=...");
// it is empty otherwise.
var Version string

// bn254ScalarField is the BN254 scalar field modulus used
// for the demonstration system; a real caller supplies whatever modulus
// its own circuit is defined over.
var bn254ScalarField, _ = new(big.Int).SetString(
	"21888242871839275222246405745257275088548364400416034343698204186575808495617", 10)

var rootCmd = &cobra.Command{
	Use:   "r1cs-simplify",
	Short: "Demonstrate R1CS constraint simplification.",
	Long: `Run the linear/non-linear simplification pipeline against a small
synthetic R1CS system and report how much it shrank.`,
	Run: runSimplify,
}

func init() {
	rootCmd.Flags().BoolP("verbose", "v", false, "enable debug-level progress logging")
	rootCmd.Flags().Bool("version", false, "print version information")
}

func runSimplify(cmd *cobra.Command, _ []string) {
	if getFlag(cmd, "version") {
		printVersion()
		return
	}
	//
	if getFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
	//
	field := r1cs.NewField(bn254ScalarField)
	storage, forbidden, witness := buildSyntheticSystem(field)
	//
	signalMap, rebuiltWitness, stats, err := r1cs.Simplify(field, storage, forbidden, witness, log.StandardLogger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "r1cs-simplify: %s\n", err)
		os.Exit(1)
	}
	//
	fmt.Printf("constraints: %d -> %d (%d signals remain, %d witness entries kept)\n",
		stats.ConstraintsBefore, stats.ConstraintsAfter, len(signalMap), len(rebuiltWitness))
}

// buildSyntheticSystem assembles a small system combining a linear chain
// (s2 and s3 both determined from s1 and constants) with a pair of
// quadratic constraints that assert the same product against two
// different signals, so both the linear and non-linear stages have
// something to do. s1 is marked forbidden, standing in for a public input
// that must keep its original id.  The accompanying witness assigns a
// satisfying value to every signal, standing in for the assignment a
// real caller would have computed while evaluating the circuit.
func buildSyntheticSystem(f r1cs.Field) (*r1cs.Storage, map[uint64]struct{}, map[uint64]*big.Int) {
	storage := r1cs.NewStorage()
	//
	// s2 - s1 - 5 = 0
	storage.Add(r1cs.NewConstraint(nil, nil, r1cs.CoeffMap{
		2: big.NewInt(1), 1: f.Sub(new(big.Int), big.NewInt(1)), r1cs.ConstKey: f.Sub(new(big.Int), big.NewInt(5)),
	}))
	// s3 - s2 = 0
	storage.Add(r1cs.NewConstraint(nil, nil, r1cs.CoeffMap{
		3: big.NewInt(1), 2: f.Sub(new(big.Int), big.NewInt(1)),
	}))
	// s1*s3 - s4 = 0
	storage.Add(r1cs.NewConstraint(
		r1cs.CoeffMap{1: big.NewInt(1)}, r1cs.CoeffMap{3: big.NewInt(1)}, r1cs.CoeffMap{4: big.NewInt(1)}))
	// s1*s3 - s5 = 0
	storage.Add(r1cs.NewConstraint(
		r1cs.CoeffMap{1: big.NewInt(1)}, r1cs.CoeffMap{3: big.NewInt(1)}, r1cs.CoeffMap{5: big.NewInt(1)}))
	//
	witness := map[uint64]*big.Int{
		1: big.NewInt(7), 2: big.NewInt(12), 3: big.NewInt(12), 4: big.NewInt(84), 5: big.NewInt(84),
	}
	//
	return storage, map[uint64]struct{}{1: {}}, witness
}

func printVersion() {
	fmt.Print("r1cs-simplify ")
	//
	if Version != "" {
		fmt.Print(Version)
	} else {
		fmt.Print("(unknown version)")
	}
	//
	fmt.Println()
}

func getFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "r1cs-simplify: %s\n", err)
		os.Exit(1)
	}
	//
	return v
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
