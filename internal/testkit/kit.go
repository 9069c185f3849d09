// Package testkit provides shared ontology fixtures for package tests and
// the demo CLI command. The family ontology is small enough to reason about
// by hand while exercising the subclass hierarchy, object properties and
// property restrictions.
package testkit

import (
	"goconcept/adapters/memkb"
	"goconcept/domain/core"
	"goconcept/domain/learning"
)

// Namespace prefixes every IRI in the family ontology
const Namespace = "http://example.com/family#"

// Convenience IRIs for the family ontology
var (
	ClassPerson = core.IRI(Namespace + "Person")
	ClassMale   = core.IRI(Namespace + "Male")
	ClassFemale = core.IRI(Namespace + "Female")
	ClassParent = core.IRI(Namespace + "Parent")

	PropHasChild = core.IRI(Namespace + "hasChild")
)

func ind(name string) core.IRI { return core.IRI(Namespace + name) }

// FamilyKB builds the family benchmark ontology:
//
//	Male, Female, Parent ⊑ Person
//	anna, betty   — Female Parents (children heinz, gina)
//	carol, dora   — Females without children
//	ed            — Male Parent (child frank)
//	frank, george, heinz — Males
//	gina          — Female
func FamilyKB() *memkb.KB {
	kb := memkb.New()
	kb.AddSubClass(ClassMale, ClassPerson)
	kb.AddSubClass(ClassFemale, ClassPerson)
	kb.AddSubClass(ClassParent, ClassPerson)

	kb.AddIndividual(ind("anna"), ClassFemale, ClassParent)
	kb.AddIndividual(ind("betty"), ClassFemale, ClassParent)
	kb.AddIndividual(ind("carol"), ClassFemale)
	kb.AddIndividual(ind("dora"), ClassFemale)
	kb.AddIndividual(ind("ed"), ClassMale, ClassParent)
	kb.AddIndividual(ind("frank"), ClassMale)
	kb.AddIndividual(ind("george"), ClassMale)
	kb.AddIndividual(ind("heinz"), ClassMale)
	kb.AddIndividual(ind("gina"), ClassFemale)

	kb.AddRelation(ind("anna"), PropHasChild, ind("heinz"))
	kb.AddRelation(ind("betty"), PropHasChild, ind("gina"))
	kb.AddRelation(ind("ed"), PropHasChild, ind("frank"))
	kb.SetFunctional(PropHasChild)

	return kb
}

// MotherProblem targets Female ⊓ Parent: positives are the female parents,
// negatives the males plus a childless female. Neither Female nor Parent
// alone separates the examples, so an engine has to reach the conjunction.
// This is the end-to-end benchmark both engines must solve within a
// generous budget.
func MotherProblem() *learning.Problem {
	p, err := learning.NewProblem(
		[]core.IRI{ind("anna"), ind("betty")},
		[]core.IRI{ind("ed"), ind("frank"), ind("george"), ind("heinz"), ind("carol")},
	)
	if err != nil {
		panic(err) // fixture is statically valid
	}
	return p
}

// ParentProblem targets ∃ hasChild.⊤ — requires the engine to reach a
// property restriction, not just a named class.
func ParentProblem() *learning.Problem {
	p, err := learning.NewProblem(
		[]core.IRI{ind("anna"), ind("betty"), ind("ed")},
		[]core.IRI{ind("frank"), ind("george"), ind("carol"), ind("dora")},
	)
	if err != nil {
		panic(err)
	}
	return p
}

// Individual resolves a short name into the fixture namespace
func Individual(name string) core.IRI { return ind(name) }
