// Package fri implements the FRI (Fast Reed-Solomon IOP of Proximity)
// commit and query phases: repeatedly folding a codeword down by a
// configurable power-of-two factor, committing each intermediate layer with
// a Merkle tree, and finally opening channel-derived query positions with
// authentication paths so the verifier can replay the fold at each layer.
//
// Grounded on the reference prover's fri.go (fold-and-halve structure) and
// fri_query.go (round-consistency testing), generalized from a hardwired
// binary fold to a configurable folding factor via phi-ary Lagrange
// interpolation over each fold coset, and fixed to draw query positions from
// the transcript instead of fri_query.go's flawed `sampleRandomPoint`
// (which just returned domain[0]).
package fri

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// Params controls the FRI commit/query phases.
type Params struct {
	FoldingFactor    int // phi, a power of two >= 2
	MaxRemainderSize int // stop folding once the layer's length is <= this
	NumQueries       int
}

// Layer is one commit-phase round, kept prover-side so the query phase can
// open authentication paths into it; only its Merkle root is sent to the
// verifier.
type Layer struct {
	Domain   *field.Domain
	Tree     *merkle.Tree
	Codeword []*field.Ext
}

// CommitResult is the complete FRI commit phase transcript.
type CommitResult struct {
	Layers          []Layer
	FinalPolynomial *field.Polynomial // not set by Commit: the final layer is Fq-valued; see FinalExt
	FinalExt        []*field.Ext
}

func extToBytes(x *field.Ext) []byte {
	coords := x.Coords()
	var out []byte
	for _, c := range coords {
		b := c.Bytes()
		padded := make([]byte, 32)
		copy(padded[32-len(b):], b)
		out = append(out, padded...)
	}
	return out
}

func buildTree(codeword []*field.Ext) (*merkle.Tree, error) {
	rows := make([][]byte, len(codeword))
	for i, v := range codeword {
		rows[i] = extToBytes(v)
	}
	return merkle.Build(rows)
}

// Commit runs the FRI commit phase over an initial codeword/domain pair,
// absorbing each layer's root into ch before squeezing that layer's folding
// challenge, then absorbing the final layer's values, and recording each
// root plus the final layer in p.
func Commit(codeword []*field.Ext, domain *field.Domain, params Params, ch *transcript.Channel, p *proof.Proof) (*CommitResult, error) {
	if params.FoldingFactor < 2 || params.FoldingFactor&(params.FoldingFactor-1) != 0 {
		return nil, fmt.Errorf("fri: folding factor must be a power of two >= 2")
	}
	cur := codeword
	curDomain := domain
	var layers []Layer

	for curDomain.Length > params.MaxRemainderSize {
		tree, err := buildTree(cur)
		if err != nil {
			return nil, fmt.Errorf("fri: committing layer of length %d: %w", curDomain.Length, err)
		}
		ch.AbsorbDigest(tree.Root())
		p.AddFRIRoot(tree.Root())
		layers = append(layers, Layer{Domain: curDomain, Tree: tree, Codeword: cur})

		alpha := ch.SqueezeExt()
		folded, foldedDomain, err := foldOnce(cur, curDomain, params.FoldingFactor, alpha)
		if err != nil {
			return nil, fmt.Errorf("fri: folding layer of length %d: %w", curDomain.Length, err)
		}
		cur, curDomain = folded, foldedDomain
	}

	for _, v := range cur {
		ch.AbsorbExt(v)
	}
	p.AddFRIFinalPolynomial(cur)
	return &CommitResult{Layers: layers, FinalExt: cur}, nil
}

// foldOnce combines `factor` consecutive-coset codeword values into one,
// per the phi-ary FRI fold: for each output index j, interpolate the
// polynomial of degree < factor through the `factor` points sharing the
// same x^factor, and evaluate it at alpha.
func foldOnce(codeword []*field.Ext, domain *field.Domain, factor int, alpha *field.Ext) ([]*field.Ext, *field.Domain, error) {
	n := domain.Length
	if n%factor != 0 {
		return nil, nil, fmt.Errorf("fri: folding factor %d does not divide domain length %d", factor, n)
	}
	m := n / factor
	folded := make([]*field.Ext, m)
	for j := 0; j < m; j++ {
		xs := make([]*field.Ext, factor)
		ys := make([]*field.Ext, factor)
		for k := 0; k < factor; k++ {
			idx := j + k*m
			xs[k] = field.LiftExt(domain.Element(idx))
			ys[k] = codeword[idx]
		}
		val, err := field.InterpolateExtAt(xs, ys, alpha)
		if err != nil {
			return nil, nil, err
		}
		folded[j] = val
	}
	foldedDomain, err := domain.FoldBy(factor)
	if err != nil {
		return nil, nil, err
	}
	return folded, foldedDomain, nil
}

// QueryPositions draws the channel-derived, channel-derived query positions
// over the first (largest) layer's domain.
func QueryPositions(ch *transcript.Channel, params Params, firstDomainLength int) ([]int, error) {
	return ch.SqueezeIndices(params.NumQueries, firstDomainLength)
}

// Opening is one query position's full sibling coset at a single FRI layer:
// the `factor` codeword values VerifyFold needs to replay the fold, each
// with its own authentication path. Values[k]/Paths[k] is the leaf at
// domain index SiblingIndex + k*(layer.Domain.Length/factor).
type Opening struct {
	Index        int // the queried index within this layer's domain
	SiblingIndex int // Index's residue mod the folded domain's length
	Values       []*field.Ext
	Paths        [][]merkle.PathNode
}

// OpenQuery opens a single top-level query position across every layer,
// following the coset-folding index map (index mod nextLayerLength) down to
// the final remainder. At each layer it opens the entire phi-ary sibling
// coset, not just the queried leaf, since VerifyFold needs every sibling
// value to recompute the fold.
func OpenQuery(result *CommitResult, topIndex int, foldingFactor int) ([]Opening, error) {
	openings := make([]Opening, 0, len(result.Layers))
	idx := topIndex
	for _, layer := range result.Layers {
		n := layer.Domain.Length
		if idx >= n {
			return nil, fmt.Errorf("fri: query index %d out of range for layer of length %d", idx, n)
		}
		m := n / foldingFactor
		siblingIndex := idx % m
		indices := make([]int, foldingFactor)
		for k := 0; k < foldingFactor; k++ {
			indices[k] = siblingIndex + k*m
		}
		paths, err := layer.Tree.OpenMany(indices)
		if err != nil {
			return nil, fmt.Errorf("fri: opening layer: %w", err)
		}
		values := make([]*field.Ext, foldingFactor)
		orderedPaths := make([][]merkle.PathNode, foldingFactor)
		for k, i := range indices {
			values[k] = layer.Codeword[i]
			orderedPaths[k] = paths[i]
		}
		openings = append(openings, Opening{Index: idx, SiblingIndex: siblingIndex, Values: values, Paths: orderedPaths})
		idx = siblingIndex
	}
	return openings, nil
}

// VerifyFold checks that folding the `factor` sibling values at a layer
// (read from openings, not recomputed) via the recorded challenge alpha
// actually produces the next layer's opened value — the round-consistency
// check the reference prover's fri_query.go performs, adapted to the
// phi-ary fold.
func VerifyFold(domain *field.Domain, factor int, alpha *field.Ext, siblingIndex int, siblingValues []*field.Ext, expectedNext *field.Ext) error {
	m := domain.Length / factor
	xs := make([]*field.Ext, factor)
	for k := 0; k < factor; k++ {
		idx := siblingIndex + k*m
		xs[k] = field.LiftExt(domain.Element(idx))
	}
	got, err := field.InterpolateExtAt(xs, siblingValues, alpha)
	if err != nil {
		return err
	}
	if !got.Equal(expectedNext) {
		return fmt.Errorf("fri: fold consistency check failed at index %d", siblingIndex)
	}
	return nil
}
