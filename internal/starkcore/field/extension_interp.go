package field

import "fmt"

// InterpolateExtAt recovers the unique polynomial of degree < len(xs)
// through (xs[i], ys[i]) — all in Fq — and evaluates it at `at`, via direct
// Lagrange-basis summation. Used by FRI's generalized phi-ary fold, where
// phi is small enough (typically 2-8) that the O(phi^2) cost is immaterial.
func InterpolateExtAt(xs, ys []*Ext, at *Ext) (*Ext, error) {
	if len(xs) != len(ys) || len(xs) == 0 {
		return nil, fmt.Errorf("field: mismatched or empty extension interpolation points")
	}
	result := ZeroExt(xs[0].Coords()[0].Field())
	for i := range xs {
		num := LiftExt(xs[0].Coords()[0].Field().One())
		den := LiftExt(xs[0].Coords()[0].Field().One())
		for j := range xs {
			if j == i {
				continue
			}
			num = num.Mul(at.Sub(xs[j]))
			den = den.Mul(xs[i].Sub(xs[j]))
		}
		denInv, err := den.Inv()
		if err != nil {
			return nil, fmt.Errorf("field: extension interpolation points are not distinct: %w", err)
		}
		term := num.Mul(denInv).Mul(ys[i])
		result = result.Add(term)
	}
	return result, nil
}
