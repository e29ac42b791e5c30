package field

import "fmt"

// nonResidue is the cubic non-residue the extension tower is built over:
// Fq = Fp[X]/(X^3 - nonResidue), the same construction Goldilocks-based
// provers in the retrieved corpus use for their challenge field.
const nonResidue = 7

// Ext is an element of the degree-3 extension Fq = Fp[X]/(X^3 - 7), used for
// Fiat-Shamir challenges, out-of-domain evaluation points, and anywhere
// spec.md's data model calls for values drawn from "a field extension large
// enough to make guessing negligible".
type Ext struct {
	base   *Field
	coeffs [3]*Element // a0 + a1*X + a2*X^2
}

// NewExt builds an extension element from its three base-field coordinates.
func NewExt(a0, a1, a2 *Element) (*Ext, error) {
	base := a0.Field()
	if !a1.Field().Equals(base) || !a2.Field().Equals(base) {
		return nil, fmt.Errorf("field: extension coordinates from different fields")
	}
	return &Ext{base: base, coeffs: [3]*Element{a0, a1, a2}}, nil
}

// LiftExt embeds a base-field element as a degree-0 extension element.
func LiftExt(a *Element) *Ext {
	f := a.Field()
	e, _ := NewExt(a, f.Zero(), f.Zero())
	return e
}

// ZeroExt returns the zero element of Fq over f.
func ZeroExt(f *Field) *Ext {
	return LiftExt(f.Zero())
}

// Coords returns a copy of the three base-field coordinates.
func (x *Ext) Coords() [3]*Element { return x.coeffs }

// IsBase reports whether x lies in the embedded base field (a1 == a2 == 0).
func (x *Ext) IsBase() bool {
	return x.coeffs[1].IsZero() && x.coeffs[2].IsZero()
}

// Add returns x + y.
func (x *Ext) Add(y *Ext) *Ext {
	return &Ext{base: x.base, coeffs: [3]*Element{
		x.coeffs[0].Add(y.coeffs[0]),
		x.coeffs[1].Add(y.coeffs[1]),
		x.coeffs[2].Add(y.coeffs[2]),
	}}
}

// Sub returns x - y.
func (x *Ext) Sub(y *Ext) *Ext {
	return &Ext{base: x.base, coeffs: [3]*Element{
		x.coeffs[0].Sub(y.coeffs[0]),
		x.coeffs[1].Sub(y.coeffs[1]),
		x.coeffs[2].Sub(y.coeffs[2]),
	}}
}

// Mul returns x * y reduced modulo X^3 - nonResidue.
func (x *Ext) Mul(y *Ext) *Ext {
	a, b := x.coeffs, y.coeffs
	f := x.base
	nr := f.NewElementFromInt64(nonResidue)

	// Schoolbook product of (a0+a1 X+a2 X^2)(b0+b1 X+b2 X^2), then reduce
	// X^3 -> nonResidue, X^4 -> nonResidue*X.
	c0 := a[0].Mul(b[0])
	c1 := a[0].Mul(b[1]).Add(a[1].Mul(b[0]))
	c2 := a[0].Mul(b[2]).Add(a[1].Mul(b[1])).Add(a[2].Mul(b[0]))
	c3 := a[1].Mul(b[2]).Add(a[2].Mul(b[1]))
	c4 := a[2].Mul(b[2])

	r0 := c0.Add(c3.Mul(nr))
	r1 := c1.Add(c4.Mul(nr))
	r2 := c2

	return &Ext{base: f, coeffs: [3]*Element{r0, r1, r2}}
}

// MulBase scales x by a base-field scalar.
func (x *Ext) MulBase(s *Element) *Ext {
	return &Ext{base: x.base, coeffs: [3]*Element{
		x.coeffs[0].Mul(s), x.coeffs[1].Mul(s), x.coeffs[2].Mul(s),
	}}
}

// IsZero reports whether x is the additive identity.
func (x *Ext) IsZero() bool {
	return x.coeffs[0].IsZero() && x.coeffs[1].IsZero() && x.coeffs[2].IsZero()
}

// Equal reports coordinate-wise equality.
func (x *Ext) Equal(y *Ext) bool {
	return x.coeffs[0].Equal(y.coeffs[0]) && x.coeffs[1].Equal(y.coeffs[1]) && x.coeffs[2].Equal(y.coeffs[2])
}

// Inv computes the multiplicative inverse via the norm map down to Fp: for
// cubic extensions x^-1 = conj(x) / N(x), computed here by brute-force
// solving the 3x3 linear system implied by x * y = 1 using Cramer's rule
// over Fp, which is cheap at this fixed small size.
func (x *Ext) Inv() (*Ext, error) {
	if x.IsZero() {
		return nil, fmt.Errorf("field: inverse of zero extension element")
	}
	f := x.base
	nr := f.NewElementFromInt64(nonResidue)
	a0, a1, a2 := x.coeffs[0], x.coeffs[1], x.coeffs[2]

	// Cofactors of the multiplication-by-x matrix in the basis {1, X, X^2}
	// under X^3 = nr; together they give the adjugate's first column, which
	// divided by the determinant is x's inverse.
	t0 := a0.Mul(a0).Sub(a1.Mul(a2).Mul(nr))
	t1 := a2.Mul(a2).Mul(nr).Sub(a0.Mul(a1))
	t2 := a1.Mul(a1).Sub(a0.Mul(a2))
	det := a0.Mul(t0).Add(a2.Mul(nr).Mul(t1)).Add(a1.Mul(nr).Mul(t2))
	detInv, err := det.Inv()
	if err != nil {
		return nil, fmt.Errorf("field: extension element has no inverse: %w", err)
	}
	return &Ext{base: f, coeffs: [3]*Element{
		t0.Mul(detInv), t1.Mul(detInv), t2.Mul(detInv),
	}}, nil
}

// String renders a0 + a1*u + a2*u^2 for debugging and proof dumps.
func (x *Ext) String() string {
	return fmt.Sprintf("(%s + %s*u + %s*u^2)", x.coeffs[0], x.coeffs[1], x.coeffs[2])
}
