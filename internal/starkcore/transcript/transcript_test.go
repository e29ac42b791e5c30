package transcript

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

func TestSqueezeIndicesDistinct(t *testing.T) {
	ch := New(field.DefaultField, "test")
	ch.AbsorbUint64(42)
	indices, err := ch.SqueezeIndices(10, 64)
	if err != nil {
		t.Fatalf("SqueezeIndices: %v", err)
	}
	seen := make(map[int]bool)
	for _, idx := range indices {
		if idx < 0 || idx >= 64 {
			t.Fatalf("index %d out of range [0,64)", idx)
		}
		if seen[idx] {
			t.Fatalf("duplicate index %d", idx)
		}
		seen[idx] = true
	}
}

func TestSqueezeIndicesRejectsTooManyQueries(t *testing.T) {
	ch := New(field.DefaultField, "test")
	if _, err := ch.SqueezeIndices(65, 64); err == nil {
		t.Fatal("expected an error when count exceeds domain size")
	}
}

func TestGrindProducesVerifiableNonce(t *testing.T) {
	ch := New(field.DefaultField, "test")
	ch.AbsorbUint64(7)
	before := ch.State()
	nonce, err := ch.Grind(8)
	if err != nil {
		t.Fatalf("Grind: %v", err)
	}
	if !VerifyGrind(before, nonce, 8) {
		t.Error("VerifyGrind rejected the nonce Grind produced")
	}
}

func TestTwoChannelsWithDifferentLabelsDiverge(t *testing.T) {
	a := New(field.DefaultField, "alpha")
	b := New(field.DefaultField, "beta")
	if a.SqueezeElement().Equal(b.SqueezeElement()) {
		t.Error("channels with different labels produced the same first squeeze")
	}
}

func TestAbsorbChangesSqueezeOutput(t *testing.T) {
	ch := New(field.DefaultField, "test")
	before := ch.SqueezeElement()
	ch.AbsorbUint64(1)
	after := ch.SqueezeElement()
	if before.Equal(after) {
		t.Error("absorbing a value did not change the squeeze output")
	}
}
