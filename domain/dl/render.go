package dl

import (
	"fmt"
	"strings"
)

// Render produces the standard description-logic syntax for an expression,
// e.g. "Female ⊓ (∃ hasChild.⊤)". Class and property IRIs are shown in
// short form. Rendering is for display and reports; duplicate detection
// uses CanonicalForm instead.
func Render(e Expression) string {
	return render(e, false)
}

func render(e Expression, nested bool) string {
	switch x := e.(type) {
	case topExpr:
		return "⊤"
	case bottomExpr:
		return "⊥"
	case *Class:
		return x.iri.ShortForm()
	case *Complement:
		return "¬" + render(x.operand, true)
	case *Intersection:
		return renderNary(x.operands, " ⊓ ", nested)
	case *Union:
		return renderNary(x.operands, " ⊔ ", nested)
	case *SomeValuesFrom:
		return parenthesize(fmt.Sprintf("∃ %s.%s", x.property.ShortForm(), render(x.filler, true)), nested)
	case *AllValuesFrom:
		return parenthesize(fmt.Sprintf("∀ %s.%s", x.property.ShortForm(), render(x.filler, true)), nested)
	case *Cardinality:
		return parenthesize(fmt.Sprintf("%s %d %s.%s", x.comparator, x.n, x.property.ShortForm(), render(x.filler, true)), nested)
	default:
		return fmt.Sprintf("<%s>", e.Kind())
	}
}

func parenthesize(s string, nested bool) string {
	if nested {
		return "(" + s + ")"
	}
	return s
}

func renderNary(ops []Expression, sep string, nested bool) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = render(op, true)
	}
	s := strings.Join(parts, sep)
	if nested {
		return "(" + s + ")"
	}
	return s
}
