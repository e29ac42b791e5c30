package fri

import (
	"testing"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

func TestFoldOnceOfIdentityCodewordYieldsAlphaEverywhere(t *testing.T) {
	f := field.DefaultField
	domain, err := field.NewDomain(f, f.NewElementFromInt64(7), 8)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	codeword := make([]*field.Ext, domain.Length)
	for i := range codeword {
		codeword[i] = field.LiftExt(domain.Element(i))
	}
	alpha := field.LiftExt(f.NewElementFromInt64(42))

	folded, foldedDomain, err := foldOnce(codeword, domain, 2, alpha)
	if err != nil {
		t.Fatalf("foldOnce: %v", err)
	}
	if foldedDomain.Length != 4 {
		t.Fatalf("folded domain length = %d, want 4", foldedDomain.Length)
	}
	for j, v := range folded {
		if !v.Equal(alpha) {
			t.Errorf("folded[%d] = %s, want %s", j, v, alpha)
		}
	}
}

func TestVerifyFoldMatchesManualFold(t *testing.T) {
	f := field.DefaultField
	domain, err := field.NewDomain(f, f.NewElementFromInt64(7), 8)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	codeword := make([]*field.Ext, domain.Length)
	for i := range codeword {
		codeword[i] = field.LiftExt(domain.Element(i))
	}
	alpha := field.LiftExt(f.NewElementFromInt64(42))
	folded, _, err := foldOnce(codeword, domain, 2, alpha)
	if err != nil {
		t.Fatalf("foldOnce: %v", err)
	}

	m := domain.Length / 2
	for j := 0; j < m; j++ {
		siblings := []*field.Ext{codeword[j], codeword[j+m]}
		if err := VerifyFold(domain, 2, alpha, j, siblings, folded[j]); err != nil {
			t.Errorf("VerifyFold(%d): %v", j, err)
		}
	}

	// Tampering with the expected value must be caught.
	if err := VerifyFold(domain, 2, alpha, 0, []*field.Ext{codeword[0], codeword[m]}, alpha.Add(field.LiftExt(f.One()))); err == nil {
		t.Error("VerifyFold accepted a mismatched expected value")
	}
}

func TestCommitFoldsConstantCodewordDownToRemainder(t *testing.T) {
	f := field.DefaultField
	domain, err := field.NewDomain(f, f.NewElementFromInt64(7), 16)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	c := field.LiftExt(f.NewElementFromInt64(5))
	codeword := make([]*field.Ext, domain.Length)
	for i := range codeword {
		codeword[i] = c
	}

	ch := transcript.New(f, "fri-test")
	p := proof.New()
	params := Params{FoldingFactor: 2, MaxRemainderSize: 4, NumQueries: 4}

	result, err := Commit(codeword, domain, params, ch, p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(result.Layers) != 2 {
		t.Fatalf("got %d layers, want 2 (16 -> 8 -> 4)", len(result.Layers))
	}
	if len(result.FinalExt) != 4 {
		t.Fatalf("final codeword length = %d, want 4", len(result.FinalExt))
	}
	for i, v := range result.FinalExt {
		if !v.Equal(c) {
			t.Errorf("final[%d] = %s, want %s (constant codeword folds to itself)", i, v, c)
		}
	}
	if len(p.MerkleRoots()) != 2 {
		t.Errorf("proof recorded %d Merkle roots, want 2", len(p.MerkleRoots()))
	}
}

// TestOpenQueryFullCosetVerifiesAndFolds checks that OpenQuery's returned
// sibling coset is both individually authenticated against its layer's root
// and sufficient, on its own, to replay the fold: it recovers each layer's
// folding challenge by replaying the same absorb-root/squeeze-alpha sequence
// Commit used, then feeds the opened coset straight into VerifyFold.
func TestOpenQueryFullCosetVerifiesAndFolds(t *testing.T) {
	f := field.DefaultField
	domain, err := field.NewDomain(f, f.NewElementFromInt64(7), 16)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}
	codeword := make([]*field.Ext, domain.Length)
	for i := range codeword {
		codeword[i] = field.LiftExt(domain.Element(i))
	}
	ch := transcript.New(f, "fri-test")
	p := proof.New()
	params := Params{FoldingFactor: 2, MaxRemainderSize: 4, NumQueries: 4}
	result, err := Commit(codeword, domain, params, ch, p)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}

	openings, err := OpenQuery(result, 3, params.FoldingFactor)
	if err != nil {
		t.Fatalf("OpenQuery: %v", err)
	}
	if len(openings) != len(result.Layers) {
		t.Fatalf("got %d openings, want %d", len(openings), len(result.Layers))
	}

	verifyCh := transcript.New(f, "fri-test")
	for i, o := range openings {
		layer := result.Layers[i]
		root := layer.Tree.Root()
		m := layer.Domain.Length / params.FoldingFactor
		if len(o.Values) != params.FoldingFactor || len(o.Paths) != params.FoldingFactor {
			t.Fatalf("layer %d: got %d values and %d paths, want %d", i, len(o.Values), len(o.Paths), params.FoldingFactor)
		}
		for k, v := range o.Values {
			idx := o.SiblingIndex + k*m
			if !merkle.Verify(root, extToBytes(v), o.Paths[k], idx) {
				t.Errorf("layer %d sibling %d: authentication path failed to verify", i, k)
			}
		}

		verifyCh.AbsorbDigest(root)
		alpha := verifyCh.SqueezeExt()

		var expectedNext *field.Ext
		if i+1 < len(result.Layers) {
			expectedNext = result.Layers[i+1].Codeword[openings[i+1].Index]
		} else {
			expectedNext = result.FinalExt[o.SiblingIndex]
		}
		if err := VerifyFold(layer.Domain, params.FoldingFactor, alpha, o.SiblingIndex, o.Values, expectedNext); err != nil {
			t.Errorf("layer %d: VerifyFold: %v", i, err)
		}
	}
}
