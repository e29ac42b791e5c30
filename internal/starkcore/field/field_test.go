package field

import "testing"

func TestElementArithmetic(t *testing.T) {
	f, err := NewFieldFromUint64(101)
	if err != nil {
		t.Fatalf("NewFieldFromUint64: %v", err)
	}
	a := f.NewElementFromInt64(60)
	b := f.NewElementFromInt64(70)

	if got := a.Add(b); got.Big().Int64() != 29 { // 130 mod 101
		t.Errorf("Add: got %s, want 29", got)
	}
	if got := a.Mul(b); got.Big().Int64() != 59 { // 4200 mod 101
		t.Errorf("Mul: got %s, want 59", got)
	}

	inv, err := a.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	if prod := a.Mul(inv); !prod.IsOne() {
		t.Errorf("a * a^-1 = %s, want 1", prod)
	}
}

func TestInvZeroFails(t *testing.T) {
	f, _ := NewFieldFromUint64(101)
	if _, err := f.Zero().Inv(); err == nil {
		t.Fatal("expected an error inverting zero")
	}
}

func TestExtensionRoundTrip(t *testing.T) {
	f := DefaultField
	x, err := NewExt(f.NewElementFromInt64(3), f.NewElementFromInt64(5), f.NewElementFromInt64(7))
	if err != nil {
		t.Fatalf("NewExt: %v", err)
	}
	inv, err := x.Inv()
	if err != nil {
		t.Fatalf("Inv: %v", err)
	}
	if prod := x.Mul(inv); !prod.Equal(LiftExt(f.One())) {
		t.Errorf("x * x^-1 = %s, want 1", prod)
	}
}

func TestDomainInterpolateRoundTrip(t *testing.T) {
	f := DefaultField
	d, err := NewDomain(f, f.One(), 8)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	coeffs := make([]*Element, 8)
	for i := range coeffs {
		coeffs[i] = f.NewElementFromInt64(int64(i + 1))
	}
	poly, err := NewPolynomial(coeffs)
	if err != nil {
		t.Fatalf("NewPolynomial: %v", err)
	}

	evals, err := d.Evaluate(poly)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	recovered, err := d.Interpolate(evals)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i, c := range coeffs {
		if !recovered.Coefficient(i).Equal(c) {
			t.Errorf("coefficient %d: got %s, want %s", i, recovered.Coefficient(i), c)
		}
	}
}

func TestDomainCosetInterpolateRoundTrip(t *testing.T) {
	f := DefaultField
	offset := f.NewElementFromInt64(7)
	d, err := NewDomain(f, offset, 8)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	coeffs := make([]*Element, 8)
	for i := range coeffs {
		coeffs[i] = f.NewElementFromInt64(int64(2*i + 1))
	}
	poly, err := NewPolynomial(coeffs)
	if err != nil {
		t.Fatalf("NewPolynomial: %v", err)
	}

	evals, err := d.Evaluate(poly)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	recovered, err := d.Interpolate(evals)
	if err != nil {
		t.Fatalf("Interpolate: %v", err)
	}
	for i, c := range coeffs {
		if !recovered.Coefficient(i).Equal(c) {
			t.Errorf("coefficient %d: got %s, want %s", i, recovered.Coefficient(i), c)
		}
	}
}

func TestInterpolateExtAt(t *testing.T) {
	f := DefaultField
	xs := []*Ext{LiftExt(f.NewElementFromInt64(1)), LiftExt(f.NewElementFromInt64(2)), LiftExt(f.NewElementFromInt64(3))}
	ys := []*Ext{LiftExt(f.NewElementFromInt64(1)), LiftExt(f.NewElementFromInt64(4)), LiftExt(f.NewElementFromInt64(9))}

	got, err := InterpolateExtAt(xs, ys, LiftExt(f.NewElementFromInt64(4)))
	if err != nil {
		t.Fatalf("InterpolateExtAt: %v", err)
	}
	if want := LiftExt(f.NewElementFromInt64(16)); !got.Equal(want) {
		t.Errorf("InterpolateExtAt(4) = %s, want %s", got, want)
	}
}
