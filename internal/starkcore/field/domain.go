package field

import (
	"fmt"
	"math/big"
)

// Domain is a coset of a multiplicative subgroup: {offset * generator^i : i
// in [0, length)}. Generator must have order exactly length.
type Domain struct {
	Offset    *Element
	Generator *Element
	Length    int
}

// NewDomain builds a domain of the given power-of-two length, deriving a
// generator of that exact order from the field.
func NewDomain(f *Field, offset *Element, length int) (*Domain, error) {
	if length <= 0 || length&(length-1) != 0 {
		return nil, fmt.Errorf("field: domain length %d must be a positive power of two", length)
	}
	gen, err := f.PrimitiveRoot(uint64(length))
	if err != nil {
		return nil, fmt.Errorf("field: deriving domain generator: %w", err)
	}
	return &Domain{Offset: offset, Generator: gen, Length: length}, nil
}

// WithOffset returns a copy of d shifted by a different coset offset.
func (d *Domain) WithOffset(offset *Element) *Domain {
	return &Domain{Offset: offset, Generator: d.Generator, Length: d.Length}
}

// Halve returns the domain of half the length, by squaring the generator —
// the domain FRI folds onto at each round.
func (d *Domain) Halve() (*Domain, error) {
	if d.Length%2 != 0 {
		return nil, fmt.Errorf("field: cannot halve domain of odd length %d", d.Length)
	}
	return &Domain{
		Offset:    d.Offset.Square(),
		Generator: d.Generator.Square(),
		Length:    d.Length / 2,
	}, nil
}

// FoldBy returns the domain FRI folds onto when combining `factor`
// consecutive coset values per output point: generator and offset raised to
// `factor`, length divided by `factor`. Halve is the `factor == 2` case.
func (d *Domain) FoldBy(factor int) (*Domain, error) {
	if factor <= 0 || d.Length%factor != 0 {
		return nil, fmt.Errorf("field: folding factor %d does not divide domain length %d", factor, d.Length)
	}
	exp := big.NewInt(int64(factor))
	return &Domain{
		Offset:    d.Offset.Exp(exp),
		Generator: d.Generator.Exp(exp),
		Length:    d.Length / factor,
	}, nil
}

// Double returns the domain of twice the length and the same offset/coset
// shape, with a generator of the doubled order.
func (d *Domain) Double() (*Domain, error) {
	gen, err := d.Generator.Field().PrimitiveRoot(uint64(d.Length * 2))
	if err != nil {
		return nil, fmt.Errorf("field: doubling domain: %w", err)
	}
	return &Domain{Offset: d.Offset, Generator: gen, Length: d.Length * 2}, nil
}

// Elements materializes every point of the domain.
func (d *Domain) Elements() []*Element {
	out := make([]*Element, d.Length)
	x := d.Offset
	for i := 0; i < d.Length; i++ {
		out[i] = x
		x = x.Mul(d.Generator)
	}
	return out
}

// Element returns the i-th point of the domain without materializing the
// rest (offset * generator^i), using repeated squaring.
func (d *Domain) Element(i int) *Element {
	return d.Offset.Mul(d.Generator.ExpUint64(uint64(i)))
}

// Evaluate evaluates poly at every point of the domain, using the NTT
// fast path when the domain's generator actually has the domain's length as
// its order (always true for domains built by NewDomain/Halve/Double) and
// poly's coefficient count fits within the domain, falling back to direct
// per-point evaluation otherwise.
func (d *Domain) Evaluate(poly *Polynomial) ([]*Element, error) {
	if len(poly.Coefficients()) <= d.Length {
		return EvaluateOverCoset(poly, d.Offset, d.Generator, d.Length)
	}
	out := make([]*Element, d.Length)
	for i := 0; i < d.Length; i++ {
		out[i] = poly.Eval(d.Element(i))
	}
	return out, nil
}

// Interpolate recovers the unique polynomial of degree < d.Length matching
// the given evaluations over d, via coset-shifted inverse NTT.
func (d *Domain) Interpolate(evaluations []*Element) (*Polynomial, error) {
	if len(evaluations) != d.Length {
		return nil, fmt.Errorf("field: expected %d evaluations, got %d", d.Length, len(evaluations))
	}
	coeffs, err := InverseNTT(d.Generator, evaluations)
	if err != nil {
		return nil, err
	}
	offsetInv, err := d.Offset.Inv()
	if err != nil {
		return nil, fmt.Errorf("field: domain offset not invertible: %w", err)
	}
	scale := d.Offset.Field().One()
	for i := range coeffs {
		coeffs[i] = coeffs[i].Mul(scale)
		scale = scale.Mul(offsetInv)
	}
	return NewPolynomial(coeffs)
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool { return n > 0 && n&(n-1) == 0 }

// NextPowerOfTwo rounds n up to the next power of two (n itself if already
// one).
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Log2 returns floor(log2(n)) for a positive power-of-two n.
func Log2(n int) int {
	l := 0
	for n > 1 {
		n >>= 1
		l++
	}
	return l
}
