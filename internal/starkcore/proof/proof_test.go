package proof

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
)

func TestValidateRejectsEmptyProof(t *testing.T) {
	p := New()
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for a proof with no Merkle roots")
	}
}

func TestValidateRejectsMissingFinalPolynomial(t *testing.T) {
	p := New()
	p.AddMerkleRoot(merkle.Digest{1})
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error for a proof missing the FRI final polynomial")
	}
}

func TestValidateRejectsMismatchedQueryAuthPaths(t *testing.T) {
	p := New()
	p.AddMerkleRoot(merkle.Digest{1})
	p.AddFRIRoot(merkle.Digest{2})
	p.AddFRIRoot(merkle.Digest{3})
	p.AddFRIFinalPolynomial([]*field.Ext{field.LiftExt(field.DefaultField.One())})
	p.AddQueryOpening(QueryOpening{Index: 0, FRIValues: [][]*field.Ext{{}}, FRIAuth: [][][]merkle.PathNode{{}}})
	if err := p.Validate(); err == nil {
		t.Fatal("expected an error when a query opening's FRI auth count doesn't match the layer count")
	}
}

func TestValidateAcceptsWellFormedProof(t *testing.T) {
	p := New()
	p.AddMerkleRoot(merkle.Digest{1})
	p.AddFRIRoot(merkle.Digest{2})
	p.AddFRIFinalPolynomial([]*field.Ext{field.LiftExt(field.DefaultField.One())})
	p.AddQueryOpening(QueryOpening{Index: 0, FRIValues: [][]*field.Ext{{}}, FRIAuth: [][][]merkle.PathNode{{}}})
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.Size() != 4 {
		t.Errorf("Size() = %d, want 4", p.Size())
	}
	if len(p.MerkleRoots()) != 2 {
		t.Errorf("MerkleRoots() = %d, want 2", len(p.MerkleRoots()))
	}
}

func TestIncludeInFiatShamir(t *testing.T) {
	if !ItemMerkleRoot.IncludeInFiatShamir() {
		t.Error("ItemMerkleRoot must be absorbed")
	}
	if ItemQueryOpening.IncludeInFiatShamir() {
		t.Error("ItemQueryOpening must not be absorbed")
	}
	if ItemGrindingNonce.IncludeInFiatShamir() {
		t.Error("ItemGrindingNonce must not be absorbed")
	}
}

func TestClaimValidate(t *testing.T) {
	c := NewClaim([5]uint64{1, 2, 3, 4, 5})
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	c.Version = CurrentVersion + 1
	if err := c.Validate(); err == nil {
		t.Fatal("expected an error for an unsupported claim version")
	}
}
