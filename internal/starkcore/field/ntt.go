package field

import "fmt"

// NTT evaluates a polynomial's coefficients over the multiplicative subgroup
// generated by omega (|omega| == len(coefficients), a power of two), via
// iterative radix-2 Cooley-Tukey, generalizing the twiddle-factor
// precompute/apply split used for the field's circle-FFT variant to the
// plain 2-adic subgroup case the prover's arithmetic domains use.
func NTT(omega *Element, coefficients []*Element) ([]*Element, error) {
	n := len(coefficients)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("field: NTT length %d is not a power of two", n)
	}
	values := bitReverseCopy(coefficients)
	if err := nttInPlace(omega, values); err != nil {
		return nil, err
	}
	return values, nil
}

// InverseNTT recovers coefficients from evaluations over the subgroup
// generated by omega, by running NTT with omega^-1 and scaling by 1/n.
func InverseNTT(omega *Element, evaluations []*Element) ([]*Element, error) {
	n := len(evaluations)
	if n == 0 || n&(n-1) != 0 {
		return nil, fmt.Errorf("field: inverse NTT length %d is not a power of two", n)
	}
	omegaInv, err := omega.Inv()
	if err != nil {
		return nil, fmt.Errorf("field: subgroup generator not invertible: %w", err)
	}
	values := bitReverseCopy(evaluations)
	if err := nttInPlace(omegaInv, values); err != nil {
		return nil, err
	}
	fld := omega.Field()
	nInv, err := fld.NewElementFromUint64(uint64(n)).Inv()
	if err != nil {
		return nil, fmt.Errorf("field: domain size not invertible mod p: %w", err)
	}
	for i := range values {
		values[i] = values[i].Mul(nInv)
	}
	return values, nil
}

func bitReverseCopy(in []*Element) []*Element {
	n := len(in)
	out := make([]*Element, n)
	bits := 0
	for 1<<bits < n {
		bits++
	}
	for i := 0; i < n; i++ {
		out[reverseBits(i, bits)] = in[i]
	}
	return out
}

func reverseBits(x, bits int) int {
	r := 0
	for i := 0; i < bits; i++ {
		r = (r << 1) | (x & 1)
		x >>= 1
	}
	return r
}

func nttInPlace(omega *Element, values []*Element) error {
	n := len(values)
	for size := 2; size <= n; size <<= 1 {
		halfSize := size / 2
		stepExp := uint64(n / size)
		w := omega.ExpUint64(stepExp)
		for start := 0; start < n; start += size {
			wPow := omega.Field().One()
			for j := 0; j < halfSize; j++ {
				u := values[start+j]
				v := values[start+j+halfSize].Mul(wPow)
				values[start+j] = u.Add(v)
				values[start+j+halfSize] = u.Sub(v)
				wPow = wPow.Mul(w)
			}
		}
	}
	return nil
}

// EvaluateOverCoset evaluates a polynomial over offset * <generator> by
// scaling coefficients by offset^i before an NTT over <generator>, the
// standard coset-evaluation trick; falls back to direct Horner evaluation
// only when the domain size isn't a power of two. Otherwise the scaled
// coefficients are zero-padded to domainSize, so poly must have at most
// domainSize coefficients (Domain.Evaluate checks this before calling).
func EvaluateOverCoset(poly *Polynomial, offset, generator *Element, domainSize int) ([]*Element, error) {
	fld := generator.Field()
	n := domainSize
	if n&(n-1) != 0 {
		return directEvaluate(poly, offset, generator, domainSize), nil
	}
	coeffs := make([]*Element, n)
	scale := fld.One()
	for i := 0; i < n; i++ {
		if i < len(poly.Coefficients()) {
			coeffs[i] = poly.Coefficient(i).Mul(scale)
		} else {
			coeffs[i] = fld.Zero()
		}
		scale = scale.Mul(offset)
	}
	return NTT(generator, coeffs)
}

func directEvaluate(poly *Polynomial, offset, generator *Element, domainSize int) []*Element {
	out := make([]*Element, domainSize)
	x := offset
	for i := 0; i < domainSize; i++ {
		out[i] = poly.Eval(x)
		x = x.Mul(generator)
	}
	return out
}
