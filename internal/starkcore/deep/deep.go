// Package deep implements DEEP (Domain Extension for Eliminating Pretenders)
// quotienting: it takes every committed polynomial's evaluations over the
// LDE domain plus their out-of-domain evaluations at a random point z (and,
// for trace columns, at z times the trace generator, for the "next row"
// opening) and produces a single low-degree codeword the FRI prover can
// fold, via `(f(x) - f(z)) / (x - z)`.
//
// This generalizes the reference prover's single-quotient prover.go:applyDEEP
// step, and completes the multi-column, two-point construction the
// reference prover's experimental deep_ali.go (explicitly marked
// not-production-ready) only partially sketches.
package deep

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

// Opening bundles one polynomial's LDE evaluations with its out-of-domain
// evaluation(s), tagging which opening point(s) it needs.
type Opening struct {
	Name          string
	LDE           []*field.Element // base-field LDE evaluations
	OODCurrent    *field.Ext       // f(z)
	OODNext       *field.Ext       // f(z*g); nil if this column has no next-row opening
	Weight        *field.Ext       // random weight for the current-row term
	WeightNext    *field.Ext       // random weight for the next-row term; nil if OODNext is nil
}

// CompositionOpening is a composition-segment opening: the segment's LDE
// evaluations (already Fq-valued, since the composition polynomial's
// coefficients live in Fq) plus its value at z^m (m = number of segments the
// composition polynomial was split into for degree reasons).
type CompositionOpening struct {
	Name   string
	LDE    []*field.Ext
	OOD    *field.Ext
	Weight *field.Ext
}

// Compose builds the DEEP codeword over the LDE domain. z is the
// out-of-domain point, zNext = z * traceDomain.Generator, zSeg = z^segments.
func Compose(ldeDomain *field.Domain, z, zNext, zSeg *field.Ext, traceOpenings []Opening, compositionOpenings []CompositionOpening) ([]*field.Ext, error) {
	n := ldeDomain.Length
	out := make([]*field.Ext, n)
	fld := ldeDomain.Offset.Field()
	for i := range out {
		out[i] = field.ZeroExt(fld)
	}

	for _, op := range traceOpenings {
		if len(op.LDE) != n {
			return nil, fmt.Errorf("deep: opening %q has %d LDE evaluations, want %d", op.Name, len(op.LDE), n)
		}
		if err := accumulateQuotient(out, ldeDomain, liftAll(op.LDE), z, op.OODCurrent, op.Weight); err != nil {
			return nil, fmt.Errorf("deep: opening %q (current row): %w", op.Name, err)
		}
		if op.OODNext != nil {
			if err := accumulateQuotient(out, ldeDomain, liftAll(op.LDE), zNext, op.OODNext, op.WeightNext); err != nil {
				return nil, fmt.Errorf("deep: opening %q (next row): %w", op.Name, err)
			}
		}
	}
	for _, op := range compositionOpenings {
		if len(op.LDE) != n {
			return nil, fmt.Errorf("deep: composition opening %q has %d LDE evaluations, want %d", op.Name, len(op.LDE), n)
		}
		if err := accumulateQuotient(out, ldeDomain, op.LDE, zSeg, op.OOD, op.Weight); err != nil {
			return nil, fmt.Errorf("deep: composition opening %q: %w", op.Name, err)
		}
	}
	return out, nil
}

func liftAll(lde []*field.Element) []*field.Ext {
	out := make([]*field.Ext, len(lde))
	for i, v := range lde {
		out[i] = field.LiftExt(v)
	}
	return out
}

// accumulateQuotient adds weight * (f(x) - fz) / (x - point) into acc, for
// every domain point x, in place.
func accumulateQuotient(acc []*field.Ext, domain *field.Domain, lde []*field.Ext, point, fz, weight *field.Ext) error {
	for i := 0; i < domain.Length; i++ {
		x := field.LiftExt(domain.Element(i))
		denom := x.Sub(point)
		denomInv, err := denom.Inv()
		if err != nil {
			return fmt.Errorf("out-of-domain point collided with an LDE domain element: %w", err)
		}
		numerator := lde[i].Sub(fz)
		term := numerator.Mul(denomInv).Mul(weight)
		acc[i] = acc[i].Add(term)
	}
	return nil
}
