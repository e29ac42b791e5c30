// Package starkconfig validates and carries the prover's tunable proof
// options, generalizing the reference prover's utils.Config builder pattern
// onto the parameter set spec.md's external-interfaces section names.
package starkconfig

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// ProofOptions controls the prover's soundness/performance tradeoff.
type ProofOptions struct {
	NumQueries          int
	BlowupFactor        int // LDE expansion factor, a power of two >= 2
	GrindingFactor      int // proof-of-work bits
	FRIFoldingFactor    int // phi, a power of two >= 2
	FRIMaxRemainderSize int // stop folding once the layer is this small
	NumTraceRandomizers int // zero-knowledge padding rows
}

// DefaultProofOptions returns the prover's defaults: 80 FRI queries, a 4x
// blowup, 16 grinding bits and binary FRI folding (SecurityBits estimates
// 96 bits for these).
func DefaultProofOptions() ProofOptions {
	return ProofOptions{
		NumQueries:          80,
		BlowupFactor:        4,
		GrindingFactor:      16,
		FRIFoldingFactor:    2,
		FRIMaxRemainderSize: 16,
		NumTraceRandomizers: 1,
	}
}

// Validate checks every field is in an internally consistent range, failing
// with a CodeConfig error rather than silently clamping — the reference
// prover's Validate() does the equivalent check for STARKParameters.
func (o ProofOptions) Validate() error {
	if o.NumQueries <= 0 {
		return starkerr.New(starkerr.CodeConfig, "num_queries must be positive")
	}
	if !field.IsPowerOfTwo(o.BlowupFactor) || o.BlowupFactor < 2 {
		return starkerr.New(starkerr.CodeConfig, "blowup_factor must be a power of two >= 2")
	}
	if o.GrindingFactor < 0 || o.GrindingFactor > 32 {
		return starkerr.New(starkerr.CodeConfig, "grinding_factor must be in [0,32]")
	}
	if !field.IsPowerOfTwo(o.FRIFoldingFactor) || o.FRIFoldingFactor < 2 {
		return starkerr.New(starkerr.CodeConfig, "fri_folding_factor must be a power of two >= 2")
	}
	if !field.IsPowerOfTwo(o.FRIMaxRemainderSize) || o.FRIMaxRemainderSize < 1 {
		return starkerr.New(starkerr.CodeConfig, "fri_max_remainder_size must be a power of two")
	}
	if o.NumTraceRandomizers < 0 {
		return starkerr.New(starkerr.CodeConfig, "num_trace_randomizers must be non-negative")
	}
	return nil
}

// WithNumQueries returns a copy of o with NumQueries changed.
func (o ProofOptions) WithNumQueries(n int) ProofOptions { o.NumQueries = n; return o }

// WithGrindingFactor returns a copy of o with GrindingFactor changed.
func (o ProofOptions) WithGrindingFactor(bits int) ProofOptions { o.GrindingFactor = bits; return o }

// SecurityBits estimates the achieved soundness, combining query and
// grinding contributions the way the reference prover's
// ComputeSecurityLevel folds FRI-query soundness and proof-of-work
// together: roughly log2(foldingFactor)*queries + grindingBits.
func (o ProofOptions) SecurityBits() int {
	perQuery := field.Log2(o.FRIFoldingFactor)
	if perQuery < 1 {
		perQuery = 1
	}
	return perQuery*o.NumQueries + o.GrindingFactor
}

// TraceInfo describes the shapes the prover needs to derive domains before
// it ever sees row data: trace length (un-padded), column counts for the
// base and (optional) extension tables, and the AIR's maximum constraint
// degree.
type TraceInfo struct {
	Length            int
	BaseWidth         int
	ExtensionWidth    int
	MaxConstraintDeg  int
}

// Validate checks the trace shape is usable.
func (t TraceInfo) Validate() error {
	if t.Length <= 0 {
		return starkerr.New(starkerr.CodeInvalidTrace, "trace length must be positive")
	}
	if t.BaseWidth <= 0 {
		return starkerr.New(starkerr.CodeInvalidTrace, "base trace must have at least one column")
	}
	if t.MaxConstraintDeg < 1 {
		return fmt.Errorf("%w", starkerr.New(starkerr.CodeInvalidTrace, "max constraint degree must be >= 1"))
	}
	return nil
}
