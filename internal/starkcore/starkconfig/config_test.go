package starkconfig

import "testing"

func TestDefaultProofOptionsValidate(t *testing.T) {
	if err := DefaultProofOptions().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsNonPowerOfTwoBlowup(t *testing.T) {
	o := DefaultProofOptions()
	o.BlowupFactor = 3
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for a non-power-of-two blowup factor")
	}
}

func TestValidateRejectsOutOfRangeGrindingFactor(t *testing.T) {
	o := DefaultProofOptions()
	o.GrindingFactor = 33
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for a grinding factor above 32")
	}
}

func TestValidateRejectsNonPositiveQueries(t *testing.T) {
	o := DefaultProofOptions()
	o.NumQueries = 0
	if err := o.Validate(); err == nil {
		t.Fatal("expected an error for zero queries")
	}
}

func TestWithHelpersReturnCopies(t *testing.T) {
	base := DefaultProofOptions()
	withQ := base.WithNumQueries(40)
	withG := base.WithGrindingFactor(4)
	if base.NumQueries == withQ.NumQueries {
		t.Error("WithNumQueries should not mutate the receiver in place")
	}
	if withQ.NumQueries != 40 {
		t.Errorf("WithNumQueries: got %d, want 40", withQ.NumQueries)
	}
	if withG.GrindingFactor != 4 {
		t.Errorf("WithGrindingFactor: got %d, want 4", withG.GrindingFactor)
	}
}

func TestSecurityBitsCombinesQueriesAndGrinding(t *testing.T) {
	o := ProofOptions{NumQueries: 80, FRIFoldingFactor: 2, GrindingFactor: 16}
	if got, want := o.SecurityBits(), 80+16; got != want {
		t.Errorf("SecurityBits() = %d, want %d", got, want)
	}
}

func TestTraceInfoValidate(t *testing.T) {
	good := TraceInfo{Length: 8, BaseWidth: 2, MaxConstraintDeg: 2}
	if err := good.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	bad := TraceInfo{Length: 0, BaseWidth: 2, MaxConstraintDeg: 2}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected an error for a zero-length trace")
	}
}
