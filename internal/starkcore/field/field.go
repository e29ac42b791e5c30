// Package field implements the prime field Fp the prover's trace and
// constraint arithmetic run over, plus a degree-3 extension Fq used for
// Fiat-Shamir challenges and out-of-domain points.
package field

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Field is a prime field with modular arithmetic over a math/big modulus.
type Field struct {
	modulus *big.Int
}

// Element is a value in a Field.
type Element struct {
	field *Field
	value *big.Int
}

// NewField builds a prime field with the given modulus. The modulus is not
// checked for primality; callers are expected to pass a known-prime value.
func NewField(modulus *big.Int) (*Field, error) {
	if modulus.Cmp(big.NewInt(2)) <= 0 {
		return nil, fmt.Errorf("field: modulus must be greater than 2")
	}
	return &Field{modulus: new(big.Int).Set(modulus)}, nil
}

// NewFieldFromUint64 builds a prime field from a uint64 modulus.
func NewFieldFromUint64(modulus uint64) (*Field, error) {
	return NewField(new(big.Int).SetUint64(modulus))
}

// Modulus returns a copy of the field modulus.
func (f *Field) Modulus() *big.Int {
	return new(big.Int).Set(f.modulus)
}

// Equals reports whether two fields share the same modulus.
func (f *Field) Equals(other *Field) bool {
	return f.modulus.Cmp(other.modulus) == 0
}

// NewElement reduces value mod the field modulus.
func (f *Field) NewElement(value *big.Int) *Element {
	normalized := new(big.Int).Mod(value, f.modulus)
	return &Element{field: f, value: normalized}
}

// NewElementFromInt64 builds an element from an int64.
func (f *Field) NewElementFromInt64(value int64) *Element {
	return f.NewElement(big.NewInt(value))
}

// NewElementFromUint64 builds an element from a uint64.
func (f *Field) NewElementFromUint64(value uint64) *Element {
	return f.NewElement(new(big.Int).SetUint64(value))
}

// NewElementFromBytes reduces a big-endian byte string mod the modulus.
func (f *Field) NewElementFromBytes(b []byte) *Element {
	return f.NewElement(new(big.Int).SetBytes(b))
}

// RandomElement draws a uniformly random element using crypto/rand.
func (f *Field) RandomElement() (*Element, error) {
	value, err := rand.Int(rand.Reader, f.modulus)
	if err != nil {
		return nil, fmt.Errorf("field: random element: %w", err)
	}
	return f.NewElement(value), nil
}

// Zero returns the additive identity.
func (f *Field) Zero() *Element { return f.NewElement(big.NewInt(0)) }

// One returns the multiplicative identity.
func (f *Field) One() *Element { return f.NewElement(big.NewInt(1)) }

// Big returns a copy of the element's representative in [0, modulus).
func (e *Element) Big() *big.Int { return new(big.Int).Set(e.value) }

// Field returns the field this element belongs to.
func (e *Element) Field() *Field { return e.field }

func (e *Element) mustSameField(other *Element) {
	if !e.field.Equals(other.field) {
		panic("field: operands from different fields")
	}
}

// Add returns e + other.
func (e *Element) Add(other *Element) *Element {
	e.mustSameField(other)
	return e.field.NewElement(new(big.Int).Add(e.value, other.value))
}

// Sub returns e - other.
func (e *Element) Sub(other *Element) *Element {
	e.mustSameField(other)
	return e.field.NewElement(new(big.Int).Sub(e.value, other.value))
}

// Neg returns -e.
func (e *Element) Neg() *Element {
	return e.field.NewElement(new(big.Int).Neg(e.value))
}

// Mul returns e * other.
func (e *Element) Mul(other *Element) *Element {
	e.mustSameField(other)
	return e.field.NewElement(new(big.Int).Mul(e.value, other.value))
}

// Square returns e * e.
func (e *Element) Square() *Element { return e.Mul(e) }

// Inv returns the multiplicative inverse of e.
func (e *Element) Inv() (*Element, error) {
	if e.value.Sign() == 0 {
		return nil, fmt.Errorf("field: inverse of zero")
	}
	x := new(big.Int).ModInverse(e.value, e.field.modulus)
	if x == nil {
		return nil, fmt.Errorf("field: inverse does not exist")
	}
	return e.field.NewElement(x), nil
}

// Div returns e / other.
func (e *Element) Div(other *Element) (*Element, error) {
	e.mustSameField(other)
	inv, err := other.Inv()
	if err != nil {
		return nil, fmt.Errorf("field: division: %w", err)
	}
	return e.Mul(inv), nil
}

// Exp returns e raised to a non-negative exponent.
func (e *Element) Exp(exponent *big.Int) *Element {
	return e.field.NewElement(new(big.Int).Exp(e.value, exponent, e.field.modulus))
}

// ExpUint64 is the common case of Exp with a small exponent.
func (e *Element) ExpUint64(exponent uint64) *Element {
	return e.Exp(new(big.Int).SetUint64(exponent))
}

// Equal reports value equality within the same field.
func (e *Element) Equal(other *Element) bool {
	return e.field.Equals(other.field) && e.value.Cmp(other.value) == 0
}

// IsZero reports whether e is the additive identity.
func (e *Element) IsZero() bool { return e.value.Sign() == 0 }

// IsOne reports whether e is the multiplicative identity.
func (e *Element) IsOne() bool { return e.value.Cmp(big.NewInt(1)) == 0 }

// String renders the element's canonical representative.
func (e *Element) String() string { return e.value.String() }

// Bytes returns the big-endian byte representation, unpadded.
func (e *Element) Bytes() []byte { return e.value.Bytes() }

// PrimitiveRoot returns a generator of the unique multiplicative subgroup of
// the given order (order must divide modulus-1), found by raising known
// small generator candidates to (modulus-1)/order and checking the result
// actually has full order. Used to derive the 2-adic subgroup generators
// that arithmetic domains are built from.
func (f *Field) PrimitiveRoot(order uint64) (*Element, error) {
	pMinus1 := new(big.Int).Sub(f.modulus, big.NewInt(1))
	ord := new(big.Int).SetUint64(order)
	q, r := new(big.Int).QuoRem(pMinus1, ord, new(big.Int))
	if r.Sign() != 0 {
		return nil, fmt.Errorf("field: order %d does not divide modulus-1", order)
	}
	for _, cand := range []int64{2, 3, 5, 7, 11, 13, 17, 19, 23} {
		g := f.NewElementFromInt64(cand).Exp(q)
		if hasExactOrder(g, order) {
			return g, nil
		}
	}
	return nil, fmt.Errorf("field: could not find primitive root of order %d", order)
}

func hasExactOrder(g *Element, order uint64) bool {
	if !g.ExpUint64(order).IsOne() {
		return false
	}
	if order == 1 {
		return g.IsOne()
	}
	return !g.ExpUint64(order / 2).IsOne()
}

// Goldilocks-shaped default prime field used throughout the prover when a
// caller does not supply its own modulus. Matches the field size carried by
// the retrieved reference prover so existing fixtures stay comparable.
var (
	DefaultField, _     = NewFieldFromUint64(18446744069414584321) // 2^64 - 2^32 + 1
	DefaultGenerator, _ = DefaultField.PrimitiveRoot(1 << 32)
)
