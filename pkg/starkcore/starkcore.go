// Package starkcore is the public facade over the proving pipeline: it
// re-exports the types a caller needs (proof options, claims, proofs, the
// AIR contract) and a single Prove entry point, keeping the internal
// prover packages unimportable from outside the module.
package starkcore

import (
	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/pipeline"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/starkconfig"
)

// AIR is the contract an arithmetization must satisfy to be provable.
type AIR = air.AIR

// Constraint pairs a constraint expression with its vanishing divisor.
type Constraint = air.Constraint

// Expression constructors for building an AIR's constraints.
var (
	X          = air.X
	Trace      = air.Trace
	Challenge  = air.Challenge
	Hint       = air.Hint
	Const      = air.Const
	ConstBase  = air.ConstBase
	Add        = air.Add
	Sub        = air.Sub
	Mul        = air.Mul
	Pow        = air.Pow
)

// Divisor kinds a Constraint can vanish against.
const (
	DivisorBoundary    = air.DivisorBoundary
	DivisorConsistency = air.DivisorConsistency
	DivisorTransition  = air.DivisorTransition
	DivisorTerminal    = air.DivisorTerminal
)

// ProofOptions controls the prover's soundness/performance tradeoff.
type ProofOptions = starkconfig.ProofOptions

// DefaultProofOptions returns starkconfig's default proof options.
func DefaultProofOptions() ProofOptions { return starkconfig.DefaultProofOptions() }

// Claim is the public statement a Proof attests to.
type Claim = proof.Claim

// NewClaim builds a Claim at the current wire version.
func NewClaim(programDigest [5]uint64) *Claim { return proof.NewClaim(programDigest) }

// Proof is the prover's wire output.
type Proof = proof.Proof

// Element is a base-field value.
type Element = field.Element

// DefaultField is the Goldilocks-shaped prime field every bundled example
// AIR and the CLI use when no other modulus is configured.
var DefaultField = field.DefaultField

// Prove runs the complete proving pipeline for an AIR against a base
// execution trace, producing a Proof attesting to claim.
func Prove(a AIR, baseTrace [][]*Element, claim *Claim, opts ProofOptions) (*Proof, error) {
	return pipeline.Prove(a, baseTrace, claim, opts)
}
