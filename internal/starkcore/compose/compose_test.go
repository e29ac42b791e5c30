package compose

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/field"
)

// boundaryOnlyAIR has a single column and a single boundary constraint
// a(0) - 1 = 0, just enough to exercise the composer's divisor and
// degree-adjustment plumbing.
type boundaryOnlyAIR struct{}

func (boundaryOnlyAIR) BaseWidth() int      { return 1 }
func (boundaryOnlyAIR) ExtensionWidth() int { return 0 }
func (boundaryOnlyAIR) NumChallenges() int  { return 0 }
func (boundaryOnlyAIR) NumHints() int       { return 0 }
func (boundaryOnlyAIR) TraceLength() int    { return 8 }
func (boundaryOnlyAIR) ComputeExtensionColumns(challenges []*field.Ext, base [][]*field.Element) ([][]*field.Element, error) {
	return nil, nil
}
func (boundaryOnlyAIR) GenHints(challenges []*field.Ext, trace [][]*field.Element) ([]*field.Ext, error) {
	return nil, nil
}
func (boundaryOnlyAIR) BoundaryConstraints() []air.Constraint {
	one := field.DefaultField.One()
	return []air.Constraint{{
		Name:    "a0_is_one",
		Expr:    air.Sub(air.Trace(0, 0), air.ConstBase(one)),
		Divisor: air.DivisorBoundary,
	}}
}
func (boundaryOnlyAIR) ConsistencyConstraints() []air.Constraint { return nil }
func (boundaryOnlyAIR) TransitionConstraints() []air.Constraint { return nil }
func (boundaryOnlyAIR) TerminalConstraints() []air.Constraint  { return nil }

func buildDomains(t *testing.T) (*field.Domain, *field.Domain) {
	t.Helper()
	f := field.DefaultField
	traceDomain, err := field.NewDomain(f, f.One(), 8)
	if err != nil {
		t.Fatalf("NewDomain(trace): %v", err)
	}
	ldeDomain, err := field.NewDomain(f, f.NewElementFromInt64(7), 32)
	if err != nil {
		t.Fatalf("NewDomain(lde): %v", err)
	}
	return traceDomain, ldeDomain
}

func constantColumns(f *field.Field, value *field.Element, width, n int) Columns {
	cur := make([][]*field.Element, width)
	next := make([][]*field.Element, width)
	for c := 0; c < width; c++ {
		col := make([]*field.Element, n)
		for i := range col {
			col[i] = value
		}
		cur[c] = col
		next[c] = col
	}
	return Columns{Current: cur, Next: next}
}

func TestEvaluateVanishingConstraintYieldsZero(t *testing.T) {
	f := field.DefaultField
	traceDomain, ldeDomain := buildDomains(t)

	composer, err := New(boundaryOnlyAIR{}, traceDomain, ldeDomain, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	base := constantColumns(f, f.One(), 1, ldeDomain.Length)
	weights := []Weights{{Alpha: field.LiftExt(f.One()), Beta: field.ZeroExt(f)}}

	out, err := composer.Evaluate(base, Columns{}, nil, nil, weights)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	for i, v := range out {
		if !v.IsZero() {
			t.Fatalf("index %d: got %s, want 0 (constraint is satisfied everywhere)", i, v)
		}
	}
}

func TestEvaluateRejectsWrongWeightCount(t *testing.T) {
	f := field.DefaultField
	traceDomain, ldeDomain := buildDomains(t)
	composer, err := New(boundaryOnlyAIR{}, traceDomain, ldeDomain, 8)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	base := constantColumns(f, f.One(), 1, ldeDomain.Length)
	if _, err := composer.Evaluate(base, Columns{}, nil, nil, nil); err == nil {
		t.Fatal("expected an error for a weights slice of the wrong length")
	}
}

func TestEvaluateRejectsQuotientDegreeAboveTarget(t *testing.T) {
	f := field.DefaultField
	traceDomain, ldeDomain := buildDomains(t)
	// targetDegree 0 makes every constraint's quotient degree bound
	// impossible to satisfy (targetDegree-1 < 0 <= quotDeg).
	composer, err := New(boundaryOnlyAIR{}, traceDomain, ldeDomain, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	base := constantColumns(f, f.One(), 1, ldeDomain.Length)
	weights := []Weights{{Alpha: field.LiftExt(f.One()), Beta: field.ZeroExt(f)}}
	if _, err := composer.Evaluate(base, Columns{}, nil, nil, weights); err == nil {
		t.Fatal("expected an InvalidConstraint error for an unmeetable degree bound")
	}
}

func TestCheckDegreeAcceptsLowDegreeEvaluations(t *testing.T) {
	_, ldeDomain := buildDomains(t)
	f := field.DefaultField
	evals := make([]*field.Element, ldeDomain.Length)
	for i := range evals {
		evals[i] = f.Zero()
	}
	if err := CheckDegree(ldeDomain, evals, 8); err != nil {
		t.Fatalf("CheckDegree: %v", err)
	}
}

func TestCheckDegreeExtRejectsHighDegree(t *testing.T) {
	_, ldeDomain := buildDomains(t)
	f := field.DefaultField
	// x^(ldeDomain.Length-1), a polynomial whose degree exceeds any small
	// targetDegree.
	coeffs := make([]*field.Element, ldeDomain.Length)
	for i := range coeffs {
		coeffs[i] = f.Zero()
	}
	coeffs[ldeDomain.Length-1] = f.One()
	poly, err := field.NewPolynomial(coeffs)
	if err != nil {
		t.Fatalf("NewPolynomial: %v", err)
	}
	evals, err := ldeDomain.Evaluate(poly)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	extEvals := make([]*field.Ext, len(evals))
	for i, e := range evals {
		extEvals[i] = field.LiftExt(e)
	}
	if err := CheckDegreeExt(ldeDomain, extEvals, 4); err == nil {
		t.Fatal("expected an error for a composition polynomial above the target degree")
	}
}
