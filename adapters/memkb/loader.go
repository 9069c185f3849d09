package memkb

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"goconcept/domain/core"
)

// Document is the JSON form of an in-memory ontology
type Document struct {
	Classes     []string            `json:"classes"`
	SubClassOf  []SubClassAxiom     `json:"subclass_of"`
	Individuals map[string][]string `json:"individuals"`
	Relations   []RelationAssertion `json:"relations"`
	Functional  []string            `json:"functional"`
}

// SubClassAxiom declares Sub ⊑ Super
type SubClassAxiom struct {
	Sub   string `json:"sub"`
	Super string `json:"super"`
}

// RelationAssertion declares Property(Subject, Object)
type RelationAssertion struct {
	Subject  string `json:"subject"`
	Property string `json:"property"`
	Object   string `json:"object"`
}

// FromReader builds a knowledge base from a JSON ontology document
func FromReader(r io.Reader) (*KB, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode ontology document: %w", err)
	}
	return FromDocument(doc)
}

// FromFile builds a knowledge base from a JSON ontology file
func FromFile(path string) (*KB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology file: %w", err)
	}
	defer f.Close()
	return FromReader(f)
}

// FromDocument builds a knowledge base from a parsed document
func FromDocument(doc Document) (*KB, error) {
	kb := New()
	for _, c := range doc.Classes {
		iri, err := core.ParseIRI(c)
		if err != nil {
			return nil, fmt.Errorf("class: %w", err)
		}
		kb.AddClass(iri)
	}
	for _, ax := range doc.SubClassOf {
		sub, err := core.ParseIRI(ax.Sub)
		if err != nil {
			return nil, fmt.Errorf("subclass axiom: %w", err)
		}
		super, err := core.ParseIRI(ax.Super)
		if err != nil {
			return nil, fmt.Errorf("subclass axiom: %w", err)
		}
		kb.AddSubClass(sub, super)
	}
	for ind, classes := range doc.Individuals {
		iri, err := core.ParseIRI(ind)
		if err != nil {
			return nil, fmt.Errorf("individual: %w", err)
		}
		typed := make([]core.IRI, 0, len(classes))
		for _, c := range classes {
			cl, err := core.ParseIRI(c)
			if err != nil {
				return nil, fmt.Errorf("individual %s: %w", ind, err)
			}
			typed = append(typed, cl)
		}
		kb.AddIndividual(iri, typed...)
	}
	for _, rel := range doc.Relations {
		subj, err := core.ParseIRI(rel.Subject)
		if err != nil {
			return nil, fmt.Errorf("relation: %w", err)
		}
		prop, err := core.ParseIRI(rel.Property)
		if err != nil {
			return nil, fmt.Errorf("relation: %w", err)
		}
		obj, err := core.ParseIRI(rel.Object)
		if err != nil {
			return nil, fmt.Errorf("relation: %w", err)
		}
		kb.AddRelation(subj, prop, obj)
	}
	for _, p := range doc.Functional {
		prop, err := core.ParseIRI(p)
		if err != nil {
			return nil, fmt.Errorf("functional property: %w", err)
		}
		kb.SetFunctional(prop)
	}
	return kb, nil
}
