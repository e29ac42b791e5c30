// Package pipeline orchestrates the full proving pipeline: trace
// commitment, challenge sampling, constraint composition, out-of-domain
// evaluation, DEEP quotienting, FRI folding, grinding, and query-position
// opening, in the order spec.md's component design lays out.
//
// Grounded directly on the original Rust prover's `generate_proof` (the
// ancestor this module's spec was distilled from), which the reference
// Go prover's protocols/prover.go:Prove already mirrors step-for-step;
// this keeps that same step numbering and `fmt.Errorf("...: %w", err)`
// wrapping idiom at every stage.
package pipeline

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/air"
	"github.com/vybium/starkcore/internal/starkcore/compose"
	"github.com/vybium/starkcore/internal/starkcore/deep"
	"github.com/vybium/starkcore/internal/starkcore/field"
	"github.com/vybium/starkcore/internal/starkcore/fri"
	"github.com/vybium/starkcore/internal/starkcore/merkle"
	"github.com/vybium/starkcore/internal/starkcore/proof"
	"github.com/vybium/starkcore/internal/starkcore/starkconfig"
	"github.com/vybium/starkcore/internal/starkcore/starkerr"
	"github.com/vybium/starkcore/internal/starkcore/transcript"
)

// cosetOffset is the fixed non-subgroup element LDE domains are shifted by.
// 7 is a standard choice (a small non-residue) shared with the degree-3
// extension's irreducible polynomial constant, reused here purely for
// convenience, not because the two need to match.
var cosetOffset = field.DefaultField.NewElementFromInt64(7)

// Prove runs the complete pipeline for an AIR against a base execution
// trace, producing a Proof attesting to claim.
func Prove(a air.AIR, baseTrace [][]*field.Element, claim *proof.Claim, opts starkconfig.ProofOptions) (*proof.Proof, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := air.Validate(a); err != nil {
		return nil, starkerr.Wrap(starkerr.CodeInvalidConstraint, "pipeline: AIR failed validation", err)
	}
	if len(baseTrace) != a.BaseWidth() {
		return nil, starkerr.New(starkerr.CodeInvalidTrace, fmt.Sprintf("trace has %d columns, AIR declares %d", len(baseTrace), a.BaseWidth()))
	}
	rowCount := len(baseTrace[0])
	for i, col := range baseTrace {
		if len(col) != rowCount {
			return nil, starkerr.New(starkerr.CodeInvalidTrace, fmt.Sprintf("column %d has %d rows, column 0 has %d", i, len(col), rowCount))
		}
	}

	fld := cosetOffset.Field()
	p := proof.New()

	// Step 1: derive domains.
	traceLen := field.NextPowerOfTwo(rowCount + opts.NumTraceRandomizers)
	traceDomain, err := field.NewDomain(fld, fld.One(), traceLen)
	if err != nil {
		return nil, fmt.Errorf("pipeline: deriving trace domain: %w", err)
	}
	maxDeg := air.MaxDegree(a)
	if maxDeg < 1 {
		maxDeg = 1
	}
	// targetDegree bounds the composition polynomial; the LDE domain must
	// be large enough to hold evaluations of every committed polynomial up
	// to that degree, further expanded by the blowup factor for FRI
	// soundness.
	targetDegree := field.NextPowerOfTwo(maxDeg * traceLen)
	ldeLen := field.NextPowerOfTwo(targetDegree) * opts.BlowupFactor
	ldeDomain, err := field.NewDomain(fld, cosetOffset, ldeLen)
	if err != nil {
		return nil, fmt.Errorf("pipeline: deriving LDE domain: %w", err)
	}

	// Step 2: pad the trace with random rows (zero-knowledge randomizers)
	// up to traceDomain.Length, then interpolate and low-degree-extend.
	paddedBase, err := padWithRandomizers(fld, baseTrace, traceDomain.Length)
	if err != nil {
		return nil, fmt.Errorf("pipeline: padding trace: %w", err)
	}
	baseLDE, baseNextLDE, basePolys, err := interpolateAndExtend(paddedBase, traceDomain, ldeDomain)
	if err != nil {
		return nil, fmt.Errorf("pipeline: extending base trace: %w", err)
	}

	// Step 3: commit to the base trace.
	baseTree, err := buildRowMerkle(baseLDE)
	if err != nil {
		return nil, fmt.Errorf("pipeline: committing base trace: %w", err)
	}
	ch := transcript.New(fld, claimLabel(claim))
	ch.AbsorbUint64(uint64(field.Log2(traceDomain.Length)))
	p.AddLog2PaddedHeight(field.Log2(traceDomain.Length))
	ch.AbsorbDigest(baseTree.Root())
	p.AddMerkleRoot(baseTree.Root())

	// Step 4: sample challenges and derive hints / extension columns.
	challenges := ch.SqueezeElements(a.NumChallenges())
	challengesExt := liftAll(challenges)
	extCols, err := a.ComputeExtensionColumns(challengesExt, paddedBase)
	if err != nil {
		return nil, fmt.Errorf("pipeline: computing extension columns: %w", err)
	}
	p.AddHasExtensionTrace(len(extCols) > 0)

	var extLDE, extNextLDE [][]*field.Element
	var extPolys []*field.Polynomial
	var extTree *merkle.Tree
	if len(extCols) > 0 {
		extLDE, extNextLDE, extPolys, err = interpolateAndExtend(extCols, traceDomain, ldeDomain)
		if err != nil {
			return nil, fmt.Errorf("pipeline: extending extension trace: %w", err)
		}
		extTree, err = buildRowMerkle(extLDE)
		if err != nil {
			return nil, fmt.Errorf("pipeline: committing extension trace: %w", err)
		}
		ch.AbsorbDigest(extTree.Root())
		p.AddMerkleRoot(extTree.Root())
	}

	fullTrace := append(append([][]*field.Element{}, paddedBase...), extCols...)
	hints, err := a.GenHints(challengesExt, fullTrace)
	if err != nil {
		return nil, fmt.Errorf("pipeline: generating hints: %w", err)
	}

	// Step 5: sample composition weights and evaluate the composition
	// polynomial over the LDE domain.
	numConstraints := len(air.AllConstraints(a))
	weights := make([]compose.Weights, numConstraints)
	for i := range weights {
		weights[i] = compose.Weights{Alpha: ch.SqueezeExt(), Beta: ch.SqueezeExt()}
	}
	composer, err := compose.New(a, traceDomain, ldeDomain, targetDegree)
	if err != nil {
		return nil, fmt.Errorf("pipeline: building composer: %w", err)
	}
	compositionLDE, err := composer.Evaluate(
		compose.Columns{Current: baseLDE, Next: baseNextLDE},
		compose.Columns{Current: extLDE, Next: extNextLDE},
		challengesExt, hints, weights,
	)
	if err != nil {
		return nil, fmt.Errorf("pipeline: evaluating composition polynomial: %w", err)
	}
	if err := compose.CheckDegreeExt(ldeDomain, compositionLDE, targetDegree); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	// Step 6: sample the out-of-domain point and evaluate every committed
	// polynomial there (and, for trace columns, at z*g for the next row),
	// then absorb every evaluation before the DEEP weights are squeezed.
	z := ch.SqueezeExt()
	zNext := z.Mul(field.LiftExt(traceDomain.Generator))

	oodBase := evalAllExt(basePolys, z)
	p.AddOODBaseRow(extToField(oodBase))
	oodBaseNext := evalAllExt(basePolys, zNext)

	var oodExt, oodExtNext []*field.Ext
	if len(extPolys) > 0 {
		oodExt = evalAllExt(extPolys, z)
		oodExtNext = evalAllExt(extPolys, zNext)
		p.AddOODExtRow(extToField(oodExt))
	}

	oodComposition, err := evalCompositionExt(ldeDomain, compositionLDE, z)
	if err != nil {
		return nil, fmt.Errorf("pipeline: evaluating composition polynomial out of domain: %w", err)
	}
	p.AddOODQuotientEvaluations(extToField([]*field.Ext{oodComposition}))
	for _, vals := range [][]*field.Ext{oodBase, oodBaseNext, oodExt, oodExtNext, {oodComposition}} {
		for _, v := range vals {
			ch.AbsorbExt(v)
		}
	}

	// Step 7: build the DEEP codeword.
	var traceOpenings []deep.Opening
	for i, col := range baseLDE {
		traceOpenings = append(traceOpenings, deep.Opening{
			Name: fmt.Sprintf("base[%d]", i), LDE: col,
			OODCurrent: oodBase[i], OODNext: oodBaseNext[i],
			Weight: ch.SqueezeExt(), WeightNext: ch.SqueezeExt(),
		})
	}
	for i, col := range extLDE {
		traceOpenings = append(traceOpenings, deep.Opening{
			Name: fmt.Sprintf("ext[%d]", i), LDE: col,
			OODCurrent: oodExt[i], OODNext: oodExtNext[i],
			Weight: ch.SqueezeExt(), WeightNext: ch.SqueezeExt(),
		})
	}
	compositionOpenings := []deep.CompositionOpening{{
		Name: "composition", LDE: compositionLDE,
		OOD: oodComposition, Weight: ch.SqueezeExt(),
	}}
	deepCodeword, err := deep.Compose(ldeDomain, z, zNext, z, traceOpenings, compositionOpenings)
	if err != nil {
		return nil, fmt.Errorf("pipeline: composing DEEP codeword: %w", err)
	}

	// Step 8: FRI commit phase.
	friParams := fri.Params{FoldingFactor: opts.FRIFoldingFactor, MaxRemainderSize: opts.FRIMaxRemainderSize, NumQueries: opts.NumQueries}
	commitResult, err := fri.Commit(deepCodeword, ldeDomain, friParams, ch, p)
	if err != nil {
		return nil, fmt.Errorf("pipeline: FRI commit phase: %w", err)
	}

	// Step 9: grind, then derive query positions.
	nonce, err := ch.Grind(opts.GrindingFactor)
	if err != nil {
		return nil, fmt.Errorf("pipeline: grinding: %w", err)
	}
	p.AddGrindingNonce(nonce)

	positions, err := fri.QueryPositions(ch, friParams, ldeDomain.Length)
	if err != nil {
		return nil, fmt.Errorf("pipeline: sampling query positions: %w", err)
	}

	// Step 10: open every query position.
	for _, pos := range positions {
		baseAuth, err := baseTree.Open(pos)
		if err != nil {
			return nil, fmt.Errorf("pipeline: opening base trace at %d: %w", pos, err)
		}
		opening := proof.QueryOpening{
			Index:   pos,
			BaseRow: rowAtIndex(baseLDE, pos),
			BaseAuth: baseAuth,
		}
		if extTree != nil {
			extAuth, err := extTree.Open(pos)
			if err != nil {
				return nil, fmt.Errorf("pipeline: opening extension trace at %d: %w", pos, err)
			}
			opening.ExtRow = rowAtIndex(extLDE, pos)
			opening.ExtAuth = extAuth
		}
		friOpenings, err := fri.OpenQuery(commitResult, pos, opts.FRIFoldingFactor)
		if err != nil {
			return nil, fmt.Errorf("pipeline: opening FRI layers at %d: %w", pos, err)
		}
		for _, fo := range friOpenings {
			opening.FRIValues = append(opening.FRIValues, fo.Values)
			opening.FRIAuth = append(opening.FRIAuth, fo.Paths)
		}
		p.AddQueryOpening(opening)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline: assembled proof failed validation: %w", err)
	}
	return p, nil
}

func claimLabel(c *proof.Claim) string {
	return fmt.Sprintf("%v", c.ProgramDigest)
}

func liftAll(elements []*field.Element) []*field.Ext {
	out := make([]*field.Ext, len(elements))
	for i, e := range elements {
		out[i] = field.LiftExt(e)
	}
	return out
}

func extToField(exts []*field.Ext) []*field.Element {
	out := make([]*field.Element, len(exts))
	for i, e := range exts {
		out[i] = e.Coords()[0]
	}
	return out
}

// evalCompositionExt evaluates the composition polynomial at an
// out-of-domain point z, reusing the same efficient path the other OOD
// evaluations take: interpolate each of the three Fq coordinates back to
// Fp coefficients via the NTT-based ldeDomain.Interpolate (the same
// interpolation compose.CheckDegreeExt already runs), then evaluate each
// coefficient polynomial at z with Horner's method and recombine through
// the extension's {1, u, u^2} basis. This avoids re-running direct
// Lagrange interpolation over the full LDE domain for a single point.
func evalCompositionExt(ldeDomain *field.Domain, compositionLDE []*field.Ext, z *field.Ext) (*field.Ext, error) {
	fld := ldeDomain.Offset.Field()
	var coords [3]*field.Ext
	for coord := 0; coord < 3; coord++ {
		col := make([]*field.Element, len(compositionLDE))
		for i, v := range compositionLDE {
			col[i] = v.Coords()[coord]
		}
		poly, err := ldeDomain.Interpolate(col)
		if err != nil {
			return nil, fmt.Errorf("interpolating composition coordinate %d: %w", coord, err)
		}
		coords[coord] = poly.EvalExt(z)
	}
	u, err := field.NewExt(fld.Zero(), fld.One(), fld.Zero())
	if err != nil {
		return nil, err
	}
	u2, err := field.NewExt(fld.Zero(), fld.Zero(), fld.One())
	if err != nil {
		return nil, err
	}
	return coords[0].Add(coords[1].Mul(u)).Add(coords[2].Mul(u2)), nil
}

func evalAllExt(polys []*field.Polynomial, at *field.Ext) []*field.Ext {
	out := make([]*field.Ext, len(polys))
	for i, p := range polys {
		out[i] = p.EvalExt(at)
	}
	return out
}

func rowAtIndex(columns [][]*field.Element, idx int) []*field.Element {
	row := make([]*field.Element, len(columns))
	for i, col := range columns {
		row[i] = col[idx]
	}
	return row
}

// padWithRandomizers extends every column to targetLen by appending
// uniformly random field elements, the zero-knowledge trace-randomizer
// padding named in spec.md's data model.
func padWithRandomizers(fld *field.Field, columns [][]*field.Element, targetLen int) ([][]*field.Element, error) {
	out := make([][]*field.Element, len(columns))
	for i, col := range columns {
		if len(col) > targetLen {
			return nil, fmt.Errorf("pipeline: column %d has %d rows, exceeds target length %d", i, len(col), targetLen)
		}
		padded := make([]*field.Element, targetLen)
		copy(padded, col)
		for j := len(col); j < targetLen; j++ {
			r, err := fld.RandomElement()
			if err != nil {
				return nil, fmt.Errorf("pipeline: generating randomizer: %w", err)
			}
			padded[j] = r
		}
		out[i] = padded
	}
	return out, nil
}

// interpolateAndExtend interpolates every column over traceDomain, then
// evaluates the resulting polynomial over ldeDomain (current row) and over
// ldeDomain shifted by one trace step (next row), returning all three.
func interpolateAndExtend(columns [][]*field.Element, traceDomain, ldeDomain *field.Domain) ([][]*field.Element, [][]*field.Element, []*field.Polynomial, error) {
	current := make([][]*field.Element, len(columns))
	next := make([][]*field.Element, len(columns))
	polys := make([]*field.Polynomial, len(columns))
	nextOffset := ldeDomain.Offset.Mul(traceDomain.Generator)

	type result struct {
		idx                int
		cur, nxt           []*field.Element
		poly               *field.Polynomial
		err                error
	}
	results := make(chan result, len(columns))
	for i, col := range columns {
		go func(i int, col []*field.Element) {
			poly, err := traceDomain.Interpolate(col)
			if err != nil {
				results <- result{idx: i, err: fmt.Errorf("interpolating column %d: %w", i, err)}
				return
			}
			cur, err := ldeDomain.Evaluate(poly)
			if err != nil {
				results <- result{idx: i, err: fmt.Errorf("extending column %d: %w", i, err)}
				return
			}
			nxt, err := field.EvaluateOverCoset(poly, nextOffset, ldeDomain.Generator, ldeDomain.Length)
			if err != nil {
				results <- result{idx: i, err: fmt.Errorf("extending column %d (next row): %w", i, err)}
				return
			}
			results <- result{idx: i, cur: cur, nxt: nxt, poly: poly}
		}(i, col)
	}
	for range columns {
		r := <-results
		if r.err != nil {
			return nil, nil, nil, r.err
		}
		current[r.idx] = r.cur
		next[r.idx] = r.nxt
		polys[r.idx] = r.poly
	}
	return current, next, polys, nil
}

// buildRowMerkle commits to a column-major matrix by hashing each row
// (values at a fixed domain index across all columns).
func buildRowMerkle(columns [][]*field.Element) (*merkle.Tree, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("pipeline: cannot commit zero columns")
	}
	n := len(columns[0])
	rows := make([][]byte, n)
	for i := 0; i < n; i++ {
		var buf []byte
		for _, col := range columns {
			b := col[i].Bytes()
			padded := make([]byte, 32)
			copy(padded[32-len(b):], b)
			buf = append(buf, padded...)
		}
		rows[i] = buf
	}
	return merkle.Build(rows)
}
