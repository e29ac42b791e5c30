// Package air defines the constraint expression tree (AST) AIRs build their
// boundary/consistency/transition/terminal constraints from, replacing the
// reference prover's closure-based ConstraintPolynomial
// (`Evaluator func(row []field.Element) field.Element`), which cannot be
// introspected for degree or validated without executing it. The tree shape
// here follows the algebraic-item leaves used by the commented-out
// constraint validator in the original Rust prover this module's spec was
// distilled from: X, Trace(column, row-offset), Challenge(index),
// Hint(index), Constant.
package air

import (
	"fmt"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

// Op is an internal-node operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpPow
	OpInv
)

// LeafKind discriminates a leaf node.
type LeafKind int

const (
	LeafX LeafKind = iota
	LeafTrace
	LeafChallenge
	LeafHint
	LeafConstant
)

// Expr is a node in a constraint expression tree. Exactly one of (leaf
// fields) or (Op, Left, [Right]) is populated, selected by IsLeaf.
type Expr struct {
	leaf    bool
	kind    LeafKind
	col     int    // LeafTrace: column index
	offset  int    // LeafTrace: row offset (0 = current row, 1 = next row, ...)
	index   int    // LeafChallenge/LeafHint: index
	constant *field.Ext // LeafConstant

	op    Op
	left  *Expr
	right *Expr  // nil for OpInv
	power uint64 // OpPow exponent
}

// X returns the leaf representing the trace domain's evaluation point.
func X() *Expr { return &Expr{leaf: true, kind: LeafX} }

// Trace returns a leaf referencing column `col` at `offset` rows from the
// constraint's anchor row (0 = current, 1 = next row, and so on).
func Trace(col, offset int) *Expr { return &Expr{leaf: true, kind: LeafTrace, col: col, offset: offset} }

// Challenge returns a leaf referencing the i-th Fiat-Shamir challenge.
func Challenge(i int) *Expr { return &Expr{leaf: true, kind: LeafChallenge, index: i} }

// Hint returns a leaf referencing the i-th AIR-computed hint.
func Hint(i int) *Expr { return &Expr{leaf: true, kind: LeafHint, index: i} }

// Const returns a leaf holding a fixed extension-field constant.
func Const(c *field.Ext) *Expr { return &Expr{leaf: true, kind: LeafConstant, constant: c} }

// ConstBase returns a leaf holding a fixed base-field constant, lifted into
// Fq.
func ConstBase(c *field.Element) *Expr { return Const(field.LiftExt(c)) }

// Add builds a + b.
func Add(a, b *Expr) *Expr { return &Expr{op: OpAdd, left: a, right: b} }

// Sub builds a - b.
func Sub(a, b *Expr) *Expr { return &Expr{op: OpSub, left: a, right: b} }

// Mul builds a * b.
func Mul(a, b *Expr) *Expr { return &Expr{op: OpMul, left: a, right: b} }

// Pow builds a^n for a fixed non-negative integer exponent.
func Pow(a *Expr, n uint64) *Expr { return &Expr{op: OpPow, left: a, power: n} }

// Inv builds 1/a. Degree reports it as the negated degree of a. Constraint
// divisors are not built from Inv: VanishingPolynomial constructs them
// directly as field polynomials.
func Inv(a *Expr) *Expr { return &Expr{op: OpInv, left: a} }

// IsLeaf reports whether e is a leaf node.
func (e *Expr) IsLeaf() bool { return e.leaf }

// Row carries the values a constraint expression is evaluated against: the
// evaluation point x (the composer sets it to each LDE domain point; Eval
// fails on an X leaf when it is nil), the current and next trace rows, the
// sampled challenges, and the AIR's computed hints.
type Row struct {
	X          *field.Ext
	Current    []*field.Element
	Next       []*field.Element
	Challenges []*field.Ext
	Hints      []*field.Ext
}

// Eval evaluates the expression tree against a concrete Row, in Fq.
func (e *Expr) Eval(r Row) (*field.Ext, error) {
	if e.leaf {
		switch e.kind {
		case LeafX:
			if r.X == nil {
				return nil, fmt.Errorf("air: expression references X but no evaluation point was supplied")
			}
			return r.X, nil
		case LeafTrace:
			row := r.Current
			if e.offset != 0 {
				if e.offset != 1 {
					return nil, fmt.Errorf("air: trace offsets beyond the next row are not supported (got %d)", e.offset)
				}
				row = r.Next
			}
			if e.col < 0 || e.col >= len(row) {
				return nil, fmt.Errorf("air: trace column %d out of range [0,%d)", e.col, len(row))
			}
			return field.LiftExt(row[e.col]), nil
		case LeafChallenge:
			if e.index < 0 || e.index >= len(r.Challenges) {
				return nil, fmt.Errorf("air: challenge index %d out of range [0,%d)", e.index, len(r.Challenges))
			}
			return r.Challenges[e.index], nil
		case LeafHint:
			if e.index < 0 || e.index >= len(r.Hints) {
				return nil, fmt.Errorf("air: hint index %d out of range [0,%d)", e.index, len(r.Hints))
			}
			return r.Hints[e.index], nil
		case LeafConstant:
			return e.constant, nil
		}
		return nil, fmt.Errorf("air: unknown leaf kind %d", e.kind)
	}

	left, err := e.left.Eval(r)
	if err != nil {
		return nil, err
	}
	switch e.op {
	case OpAdd:
		right, err := e.right.Eval(r)
		if err != nil {
			return nil, err
		}
		return left.Add(right), nil
	case OpSub:
		right, err := e.right.Eval(r)
		if err != nil {
			return nil, err
		}
		return left.Sub(right), nil
	case OpMul:
		right, err := e.right.Eval(r)
		if err != nil {
			return nil, err
		}
		return left.Mul(right), nil
	case OpPow:
		result := field.LiftExt(left.Coords()[0].Field().One())
		base := left
		n := e.power
		for n > 0 {
			if n&1 == 1 {
				result = result.Mul(base)
			}
			base = base.Mul(base)
			n >>= 1
		}
		return result, nil
	case OpInv:
		return left.Inv()
	}
	return nil, fmt.Errorf("air: unknown operator %d", e.op)
}

// Degree computes the symbolic total degree of the expression given the
// trace's per-column degree (1 for an unextended trace; higher once a
// column has itself been raised to a power as part of an earlier
// composition step). baseDegree is consulted for every LeafTrace leaf.
func (e *Expr) Degree(baseDegree func(col int) int) int {
	if e.leaf {
		switch e.kind {
		case LeafX:
			return 1
		case LeafTrace:
			return baseDegree(e.col)
		default:
			return 0 // challenges/hints/constants are degree-0 in the trace
		}
	}
	switch e.op {
	case OpAdd, OpSub:
		l, r := e.left.Degree(baseDegree), e.right.Degree(baseDegree)
		if l > r {
			return l
		}
		return r
	case OpMul:
		return e.left.Degree(baseDegree) + e.right.Degree(baseDegree)
	case OpPow:
		return e.left.Degree(baseDegree) * int(e.power)
	case OpInv:
		return -e.left.Degree(baseDegree)
	}
	return 0
}

// Validate walks the tree checking every leaf index is within the declared
// bounds, so a malformed AIR fails fast with a precise location instead of
// an out-of-range panic deep in the composer.
func (e *Expr) Validate(numColumns, numChallenges, numHints int) error {
	if e.leaf {
		switch e.kind {
		case LeafTrace:
			if e.col < 0 || e.col >= numColumns {
				return fmt.Errorf("air: constraint references trace column %d, have %d columns", e.col, numColumns)
			}
			if e.offset != 0 && e.offset != 1 {
				return fmt.Errorf("air: constraint references row offset %d, only 0 and 1 are supported", e.offset)
			}
		case LeafChallenge:
			if e.index < 0 || e.index >= numChallenges {
				return fmt.Errorf("air: constraint references challenge %d, have %d challenges", e.index, numChallenges)
			}
		case LeafHint:
			if e.index < 0 || e.index >= numHints {
				return fmt.Errorf("air: constraint references hint %d, have %d hints", e.index, numHints)
			}
		}
		return nil
	}
	if err := e.left.Validate(numColumns, numChallenges, numHints); err != nil {
		return err
	}
	if e.right != nil {
		return e.right.Validate(numColumns, numChallenges, numHints)
	}
	return nil
}
