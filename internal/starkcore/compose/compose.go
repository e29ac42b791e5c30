// Package compose implements the constraint composer: it evaluates every
// constraint of an AIR over the LDE domain, divides each by its declared
// vanishing polynomial, and combines the quotients into a single
// composition polynomial using Fiat-Shamir-sampled random weights with
// per-constraint degree adjustment, following the
// `C(x) = sum_i (alpha_i + beta_i*x^{d_i}) * C_i(x) / Z_i(x)` construction.
//
// This generalizes the reference prover's AIRConstraints.EvaluateComposition
// and ComputeQuotientPolynomials (which divide one pre-summed polynomial by
// a single global X^n-1 divisor and only log a warning on a non-zero
// remainder) into per-constraint divisors matching each constraint's own
// kind, and turns a non-vanishing constraint into a hard InvalidConstraint
// error instead of a logged warning.
package compose

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
)

// Weights holds the two Fiat-Shamir-sampled coefficients the composer needs
// per constraint: alpha (the base weight) and beta (the degree-adjustment
// weight).
type Weights struct {
	Alpha *field.Ext
	Beta  *field.Ext
}

// Composer evaluates and combines an AIR's constraints over an LDE domain.
type Composer struct {
	a            air.AIR
	traceDomain  *field.Domain
	ldeDomain    *field.Domain
	targetDegree int
}

// New builds a Composer. targetDegree is the composition polynomial's
// intended degree bound, typically the next power of two at or above
// air.MaxDegree(a) * traceDomain.Length.
func New(a air.AIR, traceDomain, ldeDomain *field.Domain, targetDegree int) (*Composer, error) {
	if err := air.Validate(a); err != nil {
		return nil, starkerr.Wrap(starkerr.CodeInvalidConstraint, "compose: AIR failed validation", err)
	}
	return &Composer{a: a, traceDomain: traceDomain, ldeDomain: ldeDomain, targetDegree: targetDegree}, nil
}

// Columns bundles a trace's column-major LDE evaluations together with the
// same columns' evaluations shifted by one trace-domain step (x -> x*g),
// which transition constraints need to read the "next row" at every LDE
// point.
type Columns struct {
	Current [][]*field.Element // [col][ldeIndex]
	Next    [][]*field.Element // [col][ldeIndex], evaluated at x*traceDomain.Generator
}

// Evaluate computes the composition polynomial's evaluations over the LDE
// domain. base and ext are the base and (possibly empty) extension trace
// columns; weights must have one entry per constraint, in the order
// air.AllConstraints returns them.
func (c *Composer) Evaluate(base, ext Columns, challenges []*field.Ext, hints []*field.Ext, weights []Weights) ([]*field.Ext, error) {
	constraints := air.AllConstraints(c.a)
	if len(weights) != len(constraints) {
		return nil, fmt.Errorf("compose: got %d weights for %d constraints", len(weights), len(constraints))
	}

	divisors := make([]*field.Polynomial, len(constraints))
	adjustExp := make([]uint64, len(constraints))
	for i, cst := range constraints {
		dp, err := air.VanishingPolynomial(cst.Divisor, c.traceDomain)
		if err != nil {
			return nil, fmt.Errorf("compose: constraint %q: %w", cst.Name, err)
		}
		divisors[i] = dp
		// baseDegree must be the trace column's *actual* polynomial degree
		// (traceDomain.Length-1, the same quantity air.MaxDegree/pipeline.go
		// scale targetDegree by), not the symbolic per-column degree of 1 —
		// otherwise quotDeg undercounts and adjustExp overshoots the real
		// degree of the weighted quotient term.
		numDeg := cst.Expr.Degree(func(int) int { return c.traceDomain.Length - 1 })
		quotDeg := numDeg - dp.Degree()
		if quotDeg < 0 {
			quotDeg = 0
		}
		if c.targetDegree-1 < quotDeg {
			return nil, starkerr.InvalidConstraint("constraint %q has quotient degree %d exceeding target degree %d", cst.Name, quotDeg, c.targetDegree-1)
		}
		adjustExp[i] = uint64(c.targetDegree - 1 - quotDeg)
	}

	fld := c.ldeDomain.Offset.Field()
	out := make([]*field.Ext, c.ldeDomain.Length)
	for idx := 0; idx < c.ldeDomain.Length; idx++ {
		x := c.ldeDomain.Element(idx)
		xExt := field.LiftExt(x)

		row := air.Row{
			X:          xExt,
			Challenges: challenges,
			Hints:      hints,
		}
		row.Current = rowAt(base.Current, ext.Current, idx)
		row.Next = rowAt(base.Next, ext.Next, idx)

		acc := field.ZeroExt(fld)
		for i, cst := range constraints {
			numerator, err := cst.Expr.Eval(row)
			if err != nil {
				return nil, fmt.Errorf("compose: constraint %q: %w", cst.Name, err)
			}
			zVal := divisors[i].Eval(x)
			if zVal.IsZero() {
				return nil, starkerr.DebugAssertion("constraint %q: divisor vanishes inside the LDE domain at index %d", cst.Name, idx)
			}
			zInv, err := zVal.Inv()
			if err != nil {
				return nil, fmt.Errorf("compose: constraint %q: %w", cst.Name, err)
			}
			quotient := numerator.MulBase(zInv)

			weight := weights[i].Alpha.Add(weights[i].Beta.Mul(field.LiftExt(x.ExpUint64(adjustExp[i]))))
			acc = acc.Add(quotient.Mul(weight))
		}
		out[idx] = acc
	}
	return out, nil
}

func rowAt(base, ext [][]*field.Element, idx int) []*field.Element {
	row := make([]*field.Element, len(base)+len(ext))
	for i, col := range base {
		row[i] = col[idx]
	}
	for i, col := range ext {
		row[len(base)+i] = col[idx]
	}
	return row
}

// CheckDegree interpolates the composition polynomial's base-field
// projection back to coefficients and fails with InvalidConstraint if its
// degree exceeds targetDegree-1. Interpolation only works directly on
// base-field evaluations, so callers run this once per Fq coordinate (the
// three coordinates of the Ext composition) when they want the hard
// degree-bound check spec.md requires instead of the reference prover's
// logged-warning remainder check.
func CheckDegree(ldeDomain *field.Domain, evaluations []*field.Element, targetDegree int) error {
	poly, err := ldeDomain.Interpolate(evaluations)
	if err != nil {
		return fmt.Errorf("compose: interpolating composition coordinate: %w", err)
	}
	if poly.Degree() >= targetDegree && !poly.IsZero() {
		return starkerr.InvalidConstraint("composition polynomial has degree %d, expected < %d", poly.Degree(), targetDegree)
	}
	return nil
}

// CheckDegreeExt runs CheckDegree independently against each of the three
// Fq coordinates of an extension-field-valued LDE, since the degree bound
// must hold coordinate-wise for the combined element to be low-degree.
func CheckDegreeExt(ldeDomain *field.Domain, evaluations []*field.Ext, targetDegree int) error {
	for coord := 0; coord < 3; coord++ {
		col := make([]*field.Element, len(evaluations))
		for i, v := range evaluations {
			col[i] = v.Coords()[coord]
		}
		if err := CheckDegree(ldeDomain, col, targetDegree); err != nil {
			return fmt.Errorf("compose: coordinate %d: %w", coord, err)
		}
	}
	return nil
}
