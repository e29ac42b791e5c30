package field

import "fmt"

// Polynomial holds coefficients in ascending degree order over a single
// Field.
type Polynomial struct {
	coefficients []*Element
	field        *Field
}

// NewPolynomial builds a polynomial, trimming leading (high-degree) zero
// coefficients.
func NewPolynomial(coefficients []*Element) (*Polynomial, error) {
	if len(coefficients) == 0 {
		return nil, fmt.Errorf("field: polynomial needs at least one coefficient")
	}
	fld := coefficients[0].Field()
	for i, c := range coefficients {
		if !c.Field().Equals(fld) {
			return nil, fmt.Errorf("field: coefficient %d is from a different field", i)
		}
	}
	trimmed := coefficients
	for len(trimmed) > 1 && trimmed[len(trimmed)-1].IsZero() {
		trimmed = trimmed[:len(trimmed)-1]
	}
	out := make([]*Element, len(trimmed))
	copy(out, trimmed)
	return &Polynomial{coefficients: out, field: fld}, nil
}

// Zero returns the zero polynomial over f.
func Zero(f *Field) *Polynomial {
	p, _ := NewPolynomial([]*Element{f.Zero()})
	return p
}

// Degree is len(coefficients)-1; the zero polynomial has degree 0 by this
// convention (matching Coefficient/LeadingCoefficient indexing below).
func (p *Polynomial) Degree() int { return len(p.coefficients) - 1 }

// IsZero reports whether p is the zero polynomial.
func (p *Polynomial) IsZero() bool {
	return len(p.coefficients) == 1 && p.coefficients[0].IsZero()
}

// Field returns the field p is defined over.
func (p *Polynomial) Field() *Field { return p.field }

// Coefficient returns the coefficient of x^degree, or zero if out of range.
func (p *Polynomial) Coefficient(degree int) *Element {
	if degree < 0 || degree >= len(p.coefficients) {
		return p.field.Zero()
	}
	return p.coefficients[degree]
}

// LeadingCoefficient returns the coefficient of the highest-degree term.
func (p *Polynomial) LeadingCoefficient() *Element {
	return p.coefficients[len(p.coefficients)-1]
}

// Coefficients returns a defensive copy of the coefficient slice.
func (p *Polynomial) Coefficients() []*Element {
	out := make([]*Element, len(p.coefficients))
	copy(out, p.coefficients)
	return out
}

// Eval evaluates p at x by Horner's method.
func (p *Polynomial) Eval(x *Element) *Element {
	result := p.field.Zero()
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p.coefficients[i])
	}
	return result
}

// EvalExt evaluates p (whose coefficients live in Fp) at an out-of-domain
// point in Fq, by Horner's method using Ext arithmetic throughout.
func (p *Polynomial) EvalExt(x *Ext) *Ext {
	result := ZeroExt(p.field)
	for i := len(p.coefficients) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(LiftExt(p.coefficients[i]))
	}
	return result
}

// Add returns p + other.
func (p *Polynomial) Add(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("field: cannot add polynomials from different fields")
	}
	n := max(len(p.coefficients), len(other.coefficients))
	out := make([]*Element, n)
	for i := 0; i < n; i++ {
		out[i] = p.Coefficient(i).Add(other.Coefficient(i))
	}
	return NewPolynomial(out)
}

// Sub returns p - other.
func (p *Polynomial) Sub(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("field: cannot subtract polynomials from different fields")
	}
	n := max(len(p.coefficients), len(other.coefficients))
	out := make([]*Element, n)
	for i := 0; i < n; i++ {
		out[i] = p.Coefficient(i).Sub(other.Coefficient(i))
	}
	return NewPolynomial(out)
}

// Mul returns p * other via schoolbook convolution.
func (p *Polynomial) Mul(other *Polynomial) (*Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, fmt.Errorf("field: cannot multiply polynomials from different fields")
	}
	out := make([]*Element, p.Degree()+other.Degree()+1)
	for i := range out {
		out[i] = p.field.Zero()
	}
	for i, a := range p.coefficients {
		if a.IsZero() {
			continue
		}
		for j, b := range other.coefficients {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return NewPolynomial(out)
}

// MulScalar returns p scaled by a single field element.
func (p *Polynomial) MulScalar(scalar *Element) (*Polynomial, error) {
	if !scalar.Field().Equals(p.field) {
		return nil, fmt.Errorf("field: scalar from a different field")
	}
	out := make([]*Element, len(p.coefficients))
	for i, c := range p.coefficients {
		out[i] = c.Mul(scalar)
	}
	return NewPolynomial(out)
}

// ShiftUp multiplies p by x^degrees, prepending zero coefficients.
func (p *Polynomial) ShiftUp(degrees int) (*Polynomial, error) {
	if degrees < 0 {
		return nil, fmt.Errorf("field: negative shift")
	}
	if degrees == 0 {
		return NewPolynomial(p.coefficients)
	}
	out := make([]*Element, degrees+len(p.coefficients))
	for i := 0; i < degrees; i++ {
		out[i] = p.field.Zero()
	}
	copy(out[degrees:], p.coefficients)
	return NewPolynomial(out)
}

// Div performs polynomial long division, returning (quotient, remainder).
func (p *Polynomial) Div(other *Polynomial) (*Polynomial, *Polynomial, error) {
	if !p.field.Equals(other.field) {
		return nil, nil, fmt.Errorf("field: cannot divide polynomials from different fields")
	}
	if other.IsZero() {
		return nil, nil, fmt.Errorf("field: division by zero polynomial")
	}
	if other.Degree() > p.Degree() && !p.IsZero() {
		return Zero(p.field), p, nil
	}

	remainder := make([]*Element, len(p.coefficients))
	copy(remainder, p.coefficients)
	quotLen := p.Degree() - other.Degree() + 1
	if quotLen < 1 {
		quotLen = 1
	}
	quotient := make([]*Element, quotLen)
	for i := range quotient {
		quotient[i] = p.field.Zero()
	}

	leadOther, err := other.LeadingCoefficient().Inv()
	if err != nil {
		return nil, nil, fmt.Errorf("field: divisor leading coefficient not invertible: %w", err)
	}

	for deg := len(remainder) - 1; deg >= other.Degree(); deg-- {
		lead := remainder[deg]
		if lead.IsZero() {
			continue
		}
		coeff := lead.Mul(leadOther)
		shift := deg - other.Degree()
		quotient[shift] = coeff
		for j, oc := range other.coefficients {
			remainder[shift+j] = remainder[shift+j].Sub(coeff.Mul(oc))
		}
	}

	quotPoly, err := NewPolynomial(quotient)
	if err != nil {
		return nil, nil, err
	}
	remPoly, err := NewPolynomial(remainder)
	if err != nil {
		return nil, nil, err
	}
	return quotPoly, remPoly, nil
}

// DivExact divides p by other and fails if the remainder is non-zero; used
// by the constraint composer, where a non-vanishing remainder means a
// constraint does not actually vanish on its declared domain.
func (p *Polynomial) DivExact(other *Polynomial) (*Polynomial, error) {
	q, r, err := p.Div(other)
	if err != nil {
		return nil, err
	}
	if !r.IsZero() {
		return nil, fmt.Errorf("field: non-zero remainder (degree %d) dividing by divisor of degree %d", r.Degree(), other.Degree())
	}
	return q, nil
}

// InterpolateLagrange recovers the unique polynomial of degree < len(xs)
// passing through (xs[i], ys[i]), by direct Lagrange-basis summation. O(n^2);
// callers with a power-of-two domain should prefer Domain.Interpolate.
func InterpolateLagrange(f *Field, xs, ys []*Element) (*Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("field: mismatched interpolation point counts")
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("field: cannot interpolate zero points")
	}
	result := Zero(f)
	for i := range xs {
		basis, err := lagrangeBasis(f, xs, i)
		if err != nil {
			return nil, err
		}
		term, err := basis.MulScalar(ys[i])
		if err != nil {
			return nil, err
		}
		result, err = result.Add(term)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func lagrangeBasis(f *Field, xs []*Element, i int) (*Polynomial, error) {
	numerator, err := NewPolynomial([]*Element{f.One()})
	if err != nil {
		return nil, err
	}
	denom := f.One()
	for j, xj := range xs {
		if j == i {
			continue
		}
		factor, err := NewPolynomial([]*Element{xj.Neg(), f.One()}) // (x - xj)
		if err != nil {
			return nil, err
		}
		numerator, err = numerator.Mul(factor)
		if err != nil {
			return nil, err
		}
		denom = denom.Mul(xs[i].Sub(xj))
	}
	denomInv, err := denom.Inv()
	if err != nil {
		return nil, fmt.Errorf("field: interpolation points are not distinct: %w", err)
	}
	return numerator.MulScalar(denomInv)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
