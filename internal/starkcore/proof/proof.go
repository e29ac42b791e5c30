// Package proof defines the STARK proof's wire representation: an ordered
// list of typed items, mirroring the reference prover's ProofItem/ProofItemType
// design, extended with the item kinds spec.md's external interface section
// names that the reference prover didn't yet carry (grinding nonce,
// extension-trace presence, query openings with authentication paths).
package proof

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
)

// ItemType discriminates the kind of data held by a proof Item.
type ItemType int

const (
	ItemMerkleRoot ItemType = iota
	ItemLog2PaddedHeight
	ItemHasExtensionTrace
	ItemOODBaseRow
	ItemOODExtRow
	ItemOODQuotientEvaluations
	ItemFRIRoot
	ItemFRIFinalPolynomial
	ItemGrindingNonce
	ItemQueryOpening
	ItemFieldElements
)

// Item is one entry of the proof stream.
type Item struct {
	Type ItemType
	Data any
}

// QueryOpening bundles a single query position's revealed leaf rows and
// authentication paths across every committed table (base trace, extension
// trace, quotient codeword, each FRI layer).
type QueryOpening struct {
	Index          int
	BaseRow        []*field.Element
	BaseAuth       []merkle.PathNode
	ExtRow         []*field.Element
	ExtAuth        []merkle.PathNode
	QuotientValues []*field.Element
	QuotientAuth   []merkle.PathNode
	// FRIValues and FRIAuth both have one entry per FRI layer; within a
	// layer, FRIValues[layer] holds the full phi-ary sibling coset's
	// codeword values and FRIAuth[layer] the matching per-value
	// authentication paths, in the same order, so the verifier can replay
	// fri.VerifyFold at every layer.
	FRIValues [][]*field.Ext
	FRIAuth   [][][]merkle.PathNode
}

// IncludeInFiatShamir reports whether an item of this type must be absorbed
// into the transcript. Only commitments, out-of-domain evaluations, and
// bare scalars go in; authentication paths and raw table rows are implied
// by roots already absorbed and must never be absorbed themselves, or the
// transcript would depend on values the verifier hasn't received yet.
func (t ItemType) IncludeInFiatShamir() bool {
	switch t {
	case ItemMerkleRoot, ItemLog2PaddedHeight, ItemHasExtensionTrace,
		ItemOODBaseRow, ItemOODExtRow, ItemOODQuotientEvaluations,
		ItemFRIRoot, ItemFRIFinalPolynomial, ItemFieldElements:
		return true
	case ItemGrindingNonce, ItemQueryOpening:
		return false
	default:
		return false
	}
}

// Proof is the full ordered item list the prover emits.
type Proof struct {
	Items []Item
}

// New returns an empty proof.
func New() *Proof { return &Proof{} }

// Add appends a raw item.
func (p *Proof) Add(t ItemType, data any) {
	p.Items = append(p.Items, Item{Type: t, Data: data})
}

// AddMerkleRoot records a commitment root.
func (p *Proof) AddMerkleRoot(d merkle.Digest) { p.Add(ItemMerkleRoot, d) }

// AddLog2PaddedHeight records the padded trace length's log2.
func (p *Proof) AddLog2PaddedHeight(h int) { p.Add(ItemLog2PaddedHeight, h) }

// AddHasExtensionTrace records whether the AIR used randomized-extension
// columns (permutation/lookup arguments), which the verifier must know
// before it can derive domains consistently.
func (p *Proof) AddHasExtensionTrace(has bool) { p.Add(ItemHasExtensionTrace, has) }

// AddOODBaseRow records the base trace's out-of-domain evaluation row.
func (p *Proof) AddOODBaseRow(row []*field.Element) { p.Add(ItemOODBaseRow, row) }

// AddOODExtRow records the extension trace's out-of-domain evaluation row.
func (p *Proof) AddOODExtRow(row []*field.Element) { p.Add(ItemOODExtRow, row) }

// AddOODQuotientEvaluations records the composition quotient's segment
// evaluations at the out-of-domain point.
func (p *Proof) AddOODQuotientEvaluations(vals []*field.Element) {
	p.Add(ItemOODQuotientEvaluations, vals)
}

// AddFRIRoot records one FRI commit-phase layer's Merkle root.
func (p *Proof) AddFRIRoot(d merkle.Digest) { p.Add(ItemFRIRoot, d) }

// AddFRIFinalPolynomial records the FRI protocol's final, fully-folded
// layer. fri.Commit passes that layer's codeword values over the final
// folded domain (evaluations, not coefficients); FRI folds the
// (extension-field) DEEP codeword, so the values live in Fq, not Fp.
func (p *Proof) AddFRIFinalPolynomial(coeffs []*field.Ext) {
	p.Add(ItemFRIFinalPolynomial, coeffs)
}

// AddGrindingNonce records the proof-of-work nonce found during grinding.
func (p *Proof) AddGrindingNonce(nonce uint64) { p.Add(ItemGrindingNonce, nonce) }

// AddQueryOpening records one query position's revealed rows and paths.
func (p *Proof) AddQueryOpening(o QueryOpening) { p.Add(ItemQueryOpening, o) }

// AddFieldElements records a bare list of scalars (e.g. composition weights
// the verifier needs to recompute but that are cheaper to just ship).
func (p *Proof) AddFieldElements(elements []*field.Element) {
	p.Add(ItemFieldElements, elements)
}

// MerkleRoots returns every recorded Merkle root, in stream order.
func (p *Proof) MerkleRoots() []merkle.Digest {
	var out []merkle.Digest
	for _, item := range p.Items {
		if item.Type == ItemMerkleRoot || item.Type == ItemFRIRoot {
			out = append(out, item.Data.(merkle.Digest))
		}
	}
	return out
}

// Validate does a minimal structural check: at least a base-trace root and
// an FRI final polynomial must be present, and every query opening's
// per-layer authentication-path count must match the number of FRI roots.
func (p *Proof) Validate() error {
	traceRoots := 0
	friLayers := 0
	haveFinalPoly := false
	for _, item := range p.Items {
		switch item.Type {
		case ItemMerkleRoot:
			traceRoots++
		case ItemFRIRoot:
			friLayers++
		case ItemFRIFinalPolynomial:
			haveFinalPoly = true
		}
	}
	if traceRoots == 0 {
		return fmt.Errorf("proof: no Merkle roots present")
	}
	if !haveFinalPoly {
		return fmt.Errorf("proof: missing FRI final polynomial")
	}
	for _, item := range p.Items {
		if item.Type != ItemQueryOpening {
			continue
		}
		o := item.Data.(QueryOpening)
		if len(o.FRIAuth) != friLayers {
			return fmt.Errorf("proof: query opening at index %d carries %d FRI auth paths, want %d", o.Index, len(o.FRIAuth), friLayers)
		}
		if len(o.FRIValues) != friLayers {
			return fmt.Errorf("proof: query opening at index %d carries %d FRI value sets, want %d", o.Index, len(o.FRIValues), friLayers)
		}
		for layer, values := range o.FRIValues {
			if len(values) != len(o.FRIAuth[layer]) {
				return fmt.Errorf("proof: query opening at index %d layer %d carries %d values but %d auth paths", o.Index, layer, len(values), len(o.FRIAuth[layer]))
			}
		}
	}
	return nil
}

// Size returns the number of items in the proof stream.
func (p *Proof) Size() int { return len(p.Items) }
