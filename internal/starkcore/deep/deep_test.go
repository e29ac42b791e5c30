package deep

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

func TestComposeLinearPolynomialQuotientIsConstant(t *testing.T) {
	f := field.DefaultField
	ldeDomain, err := field.NewDomain(f, f.NewElementFromInt64(7), 16)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}

	// f(x) = x, so (f(x)-f(z))/(x-z) == 1 everywhere z is not itself a
	// domain point.
	lde := ldeDomain.Elements()
	z, err := field.NewExt(f.NewElementFromInt64(99), f.NewElementFromInt64(1), f.Zero())
	if err != nil {
		t.Fatalf("NewExt: %v", err)
	}
	fz := z // f(z) = z for the identity polynomial

	weight, err := field.NewExt(f.NewElementFromInt64(3), f.NewElementFromInt64(0), f.NewElementFromInt64(0))
	if err != nil {
		t.Fatalf("NewExt: %v", err)
	}

	opening := Opening{Name: "identity", LDE: lde, OODCurrent: fz, Weight: weight}
	out, err := Compose(ldeDomain, z, z, z, []Opening{opening}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	for i, v := range out {
		if !v.Equal(weight) {
			t.Fatalf("index %d: got %s, want %s", i, v, weight)
		}
	}
}

func TestComposeRejectsMismatchedLDELength(t *testing.T) {
	f := field.DefaultField
	ldeDomain, err := field.NewDomain(f, f.NewElementFromInt64(7), 16)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	z := field.LiftExt(f.One())
	opening := Opening{Name: "short", LDE: []*field.Element{f.One()}, OODCurrent: z, Weight: z}
	if _, err := Compose(ldeDomain, z, z, z, []Opening{opening}, nil); err == nil {
		t.Fatal("expected an error for a mismatched LDE evaluation count")
	}
}

func TestComposeWithNextRowOpening(t *testing.T) {
	f := field.DefaultField
	ldeDomain, err := field.NewDomain(f, f.NewElementFromInt64(7), 16)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	lde := ldeDomain.Elements()
	z := field.LiftExt(f.NewElementFromInt64(99))
	zNext := field.LiftExt(f.NewElementFromInt64(101))
	one := field.LiftExt(f.One())

	opening := Opening{
		Name:       "identity",
		LDE:        lde,
		OODCurrent: z, Weight: one,
		OODNext: zNext, WeightNext: one,
	}
	out, err := Compose(ldeDomain, z, zNext, z, []Opening{opening}, nil)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	two := one.Add(one)
	for i, v := range out {
		if !v.Equal(two) {
			t.Fatalf("index %d: got %s, want %s (current + next contribution)", i, v, two)
		}
	}
}
