package dl

import (
	"sort"
	"strings"
)

// CanonicalKey serializes an expression into an unambiguous structural key.
// It does not normalize; two syntactically different but semantically equal
// expressions get different keys. Use CanonicalForm for equality-up-to-normal-form.
func CanonicalKey(e Expression) string {
	ch := e.children()
	if len(ch) == 0 {
		return e.canonicalTag()
	}
	var b strings.Builder
	b.WriteString(e.canonicalTag())
	b.WriteByte('(')
	for i, c := range ch {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(CanonicalKey(c))
	}
	b.WriteByte(')')
	return b.String()
}

// CanonicalForm is the canonical key of the normal form. The retrieval cache
// and all duplicate filtering key on this string.
func CanonicalForm(e Expression) string {
	return CanonicalKey(NormalForm(e))
}

// StructuralEqual reports whether two expressions have identical normal forms
func StructuralEqual(a, b Expression) bool {
	return CanonicalForm(a) == CanonicalForm(b)
}

// NormalForm rewrites an expression into its canonical normal form:
// commutative operands sorted by canonical key, nested conjunctions and
// disjunctions of the same kind collapsed, identity elements removed
// (⊤ from ⊓, ⊥ from ⊔), duplicate operands merged, double negation
// eliminated, and direct clashes (C ⊓ ¬C, C ⊔ ¬C) rewritten to ⊥ / ⊤.
// NormalForm is idempotent and always returns a new or shared immutable tree.
func NormalForm(e Expression) Expression {
	switch x := e.(type) {
	case topExpr, bottomExpr, *Class:
		return e
	case *Complement:
		op := NormalForm(x.operand)
		switch y := op.(type) {
		case topExpr:
			return Nothing
		case bottomExpr:
			return Thing
		case *Complement:
			// ¬¬C → C; the inner operand is already normalized
			return y.operand
		}
		return &Complement{operand: op}
	case *Intersection:
		return normalizeNary(KindIntersection, x.operands)
	case *Union:
		return normalizeNary(KindUnion, x.operands)
	default:
		// restrictions: normalize the filler, keep the node metadata
		ch := e.children()
		nf := NormalForm(ch[0])
		if nf == ch[0] {
			return e
		}
		return e.withChildren([]Expression{nf})
	}
}

func normalizeNary(kind Kind, operands []Expression) Expression {
	identity, absorber := Thing, Nothing
	identityKind, absorberKind := KindTop, KindBottom
	if kind == KindUnion {
		identity, absorber = Nothing, Thing
		identityKind, absorberKind = KindBottom, KindTop
	}

	// Normalize and flatten nested operands of the same kind
	flat := make([]Expression, 0, len(operands))
	for _, op := range operands {
		nf := NormalForm(op)
		if nf.Kind() == kind {
			flat = append(flat, nf.children()...)
		} else {
			flat = append(flat, nf)
		}
	}

	// Drop identity elements, short-circuit on the absorbing element,
	// merge duplicates
	seen := make(map[string]Expression, len(flat))
	for _, op := range flat {
		k := op.Kind()
		if k == identityKind {
			continue
		}
		if k == absorberKind {
			return absorber
		}
		seen[CanonicalKey(op)] = op
	}

	// Direct clash: an operand and its complement together collapse the
	// whole expression (C ⊓ ¬C → ⊥, C ⊔ ¬C → ⊤)
	for _, op := range seen {
		if neg, ok := op.(*Complement); ok {
			if _, clash := seen[CanonicalKey(neg.operand)]; clash {
				return absorber
			}
		}
	}

	switch len(seen) {
	case 0:
		return identity
	case 1:
		for _, op := range seen {
			return op
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	sorted := make([]Expression, len(keys))
	for i, key := range keys {
		sorted[i] = seen[key]
	}
	if kind == KindIntersection {
		return &Intersection{operands: sorted}
	}
	return &Union{operands: sorted}
}
