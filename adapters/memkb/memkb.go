// Package memkb implements the KnowledgeBase port over in-memory asserted
// facts: class memberships, a subclass hierarchy, and object-property
// assertions. It is not a reasoner; retrieval is closed-world structural
// evaluation over the asserted facts plus subclass inheritance. It backs
// the test suites, the demo CLI, and any caller that loads an ontology
// from JSON.
package memkb

import (
	"context"
	"fmt"
	"sort"

	"goconcept/domain/core"
	"goconcept/domain/dl"
	"goconcept/domain/learning"
	"goconcept/ports"
)

// KB is an in-memory knowledge base. Populate it with the Add* methods
// before use; afterwards it is safe for concurrent read-only queries.
type KB struct {
	classes     map[core.IRI]struct{}
	subClasses  map[core.IRI][]core.IRI // direct subclasses per class
	types       map[core.IRI][]core.IRI // asserted classes per individual
	relations   map[core.IRI]map[core.IRI][]core.IRI // property → subject → objects
	functional  map[core.IRI]struct{}
	individuals map[core.IRI]struct{}
}

// New creates an empty knowledge base
func New() *KB {
	return &KB{
		classes:     make(map[core.IRI]struct{}),
		subClasses:  make(map[core.IRI][]core.IRI),
		types:       make(map[core.IRI][]core.IRI),
		relations:   make(map[core.IRI]map[core.IRI][]core.IRI),
		functional:  make(map[core.IRI]struct{}),
		individuals: make(map[core.IRI]struct{}),
	}
}

// AddClass declares a named class
func (kb *KB) AddClass(class core.IRI) {
	kb.classes[class] = struct{}{}
}

// AddSubClass declares sub ⊑ super
func (kb *KB) AddSubClass(sub, super core.IRI) {
	kb.AddClass(sub)
	kb.AddClass(super)
	kb.subClasses[super] = append(kb.subClasses[super], sub)
}

// AddIndividual asserts class memberships for an individual. An individual
// may be added with no types; it then only belongs to ⊤.
func (kb *KB) AddIndividual(individual core.IRI, classes ...core.IRI) {
	kb.individuals[individual] = struct{}{}
	for _, c := range classes {
		kb.AddClass(c)
		kb.types[individual] = append(kb.types[individual], c)
	}
}

// AddRelation asserts property(subject, object)
func (kb *KB) AddRelation(subject, property, object core.IRI) {
	kb.individuals[subject] = struct{}{}
	kb.individuals[object] = struct{}{}
	m := kb.relations[property]
	if m == nil {
		m = make(map[core.IRI][]core.IRI)
		kb.relations[property] = m
	}
	m[subject] = append(m[subject], object)
}

// SetFunctional declares a property functional
func (kb *KB) SetFunctional(property core.IRI) {
	kb.functional[property] = struct{}{}
}

var _ ports.KnowledgeBase = (*KB)(nil)

// IndividualsOf retrieves the instance set of a class expression
func (kb *KB) IndividualsOf(_ context.Context, expr dl.Expression) (learning.IndividualSet, error) {
	if expr == nil {
		return nil, fmt.Errorf("nil expression")
	}
	return kb.evaluate(expr), nil
}

// IsInstance checks membership of one individual
func (kb *KB) IsInstance(_ context.Context, individual core.IRI, expr dl.Expression) (bool, error) {
	if expr == nil {
		return false, fmt.Errorf("nil expression")
	}
	return kb.evaluate(expr).Contains(individual), nil
}

// DirectSubConcepts lists the direct subclasses of a named class in a
// stable order
func (kb *KB) DirectSubConcepts(_ context.Context, class core.IRI) ([]core.IRI, error) {
	subs := append([]core.IRI(nil), kb.subClasses[class]...)
	sort.Slice(subs, func(i, j int) bool { return subs[i] < subs[j] })
	return subs, nil
}

// PropertiesWithDomain lists object properties whose asserted subjects
// overlap the instances of expr, in a stable order
func (kb *KB) PropertiesWithDomain(_ context.Context, expr dl.Expression) ([]core.IRI, error) {
	instances := kb.evaluate(expr)
	var out []core.IRI
	for prop, subjects := range kb.relations {
		for subj := range subjects {
			if instances.Contains(subj) {
				out = append(out, prop)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// IsSatisfiable reports whether the expression can have instances. Under
// the closed world of asserted facts this is approximated as "the normal
// form is not ⊥ and retrieval is non-empty", which doubles as useful
// pruning for the search engines.
func (kb *KB) IsSatisfiable(_ context.Context, expr dl.Expression) (bool, error) {
	if expr == nil {
		return false, fmt.Errorf("nil expression")
	}
	if dl.NormalForm(expr).Kind() == dl.KindBottom {
		return false, nil
	}
	return kb.evaluate(expr).Len() > 0, nil
}

// NamedClasses lists every declared class in lexicographic order
func (kb *KB) NamedClasses(_ context.Context) ([]core.IRI, error) {
	out := make([]core.IRI, 0, len(kb.classes))
	for c := range kb.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// IsFunctional reports whether a property was declared functional
func (kb *KB) IsFunctional(_ context.Context, property core.IRI) (bool, error) {
	_, ok := kb.functional[property]
	return ok, nil
}

// ---- structural evaluation ----

func (kb *KB) evaluate(expr dl.Expression) learning.IndividualSet {
	switch x := expr.(type) {
	case *dl.Class:
		return kb.classInstances(x.IRI())
	case *dl.Complement:
		inner := kb.evaluate(x.Operand())
		out := make(learning.IndividualSet)
		for ind := range kb.individuals {
			if !inner.Contains(ind) {
				out[ind] = struct{}{}
			}
		}
		return out
	case *dl.Intersection:
		ops := x.Operands()
		out := kb.evaluate(ops[0])
		for _, op := range ops[1:] {
			next := kb.evaluate(op)
			for ind := range out {
				if !next.Contains(ind) {
					delete(out, ind)
				}
			}
		}
		return out
	case *dl.Union:
		out := make(learning.IndividualSet)
		for _, op := range x.Operands() {
			for ind := range kb.evaluate(op) {
				out[ind] = struct{}{}
			}
		}
		return out
	case *dl.SomeValuesFrom:
		filler := kb.evaluate(x.Filler())
		out := make(learning.IndividualSet)
		for subj, objects := range kb.relations[x.Property()] {
			for _, obj := range objects {
				if filler.Contains(obj) {
					out[subj] = struct{}{}
					break
				}
			}
		}
		return out
	case *dl.AllValuesFrom:
		// standard semantics: individuals with no successor satisfy ∀r.C
		filler := kb.evaluate(x.Filler())
		out := make(learning.IndividualSet)
		subjects := kb.relations[x.Property()]
		for ind := range kb.individuals {
			ok := true
			for _, obj := range subjects[ind] {
				if !filler.Contains(obj) {
					ok = false
					break
				}
			}
			if ok {
				out[ind] = struct{}{}
			}
		}
		return out
	case *dl.Cardinality:
		filler := kb.evaluate(x.Filler())
		subjects := kb.relations[x.Property()]
		out := make(learning.IndividualSet)
		for ind := range kb.individuals {
			n := 0
			for _, obj := range subjects[ind] {
				if filler.Contains(obj) {
					n++
				}
			}
			match := false
			switch x.Comparator() {
			case dl.CmpMin:
				match = n >= x.Bound()
			case dl.CmpMax:
				match = n <= x.Bound()
			case dl.CmpExact:
				match = n == x.Bound()
			}
			if match {
				out[ind] = struct{}{}
			}
		}
		return out
	default:
		switch expr.Kind() {
		case dl.KindTop:
			out := make(learning.IndividualSet, len(kb.individuals))
			for ind := range kb.individuals {
				out[ind] = struct{}{}
			}
			return out
		default: // ⊥
			return make(learning.IndividualSet)
		}
	}
}

// classInstances includes individuals asserted into the class or any of its
// transitive subclasses
func (kb *KB) classInstances(class core.IRI) learning.IndividualSet {
	member := map[core.IRI]struct{}{class: {}}
	stack := []core.IRI{class}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, sub := range kb.subClasses[c] {
			if _, seen := member[sub]; !seen {
				member[sub] = struct{}{}
				stack = append(stack, sub)
			}
		}
	}
	out := make(learning.IndividualSet)
	for ind, classes := range kb.types {
		for _, c := range classes {
			if _, ok := member[c]; ok {
				out[ind] = struct{}{}
				break
			}
		}
	}
	return out
}
