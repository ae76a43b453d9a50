// Package vocab holds the full IRIs of the vocabulary terms the mapping
// core relies on: list encoding, typing, and label lookup.
package vocab

import (
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
)

// Namespaces not shipped with the quad vocabulary packages.
const (
	OWLNS     = "http://www.w3.org/2002/07/owl#"
	SKOSNS    = "http://www.w3.org/2004/02/skos/core#"
	DCTermsNS = "http://purl.org/dc/terms/"
	XSDNS     = "http://www.w3.org/2001/XMLSchema#"
)

func init() {
	voc.RegisterPrefix("owl:", OWLNS)
	voc.RegisterPrefix("skos:", SKOSNS)
	voc.RegisterPrefix("dcterms:", DCTermsNS)
	voc.RegisterPrefix("xsd:", XSDNS)
}

var (
	Type  = quad.IRI(rdf.Type).Full()
	First = quad.IRI(rdf.NS + "first")
	Rest  = quad.IRI(rdf.NS + "rest")
	Nil   = quad.IRI(rdf.NS + "nil")
	List  = quad.IRI(rdf.NS + "List")

	Label = quad.IRI(rdfs.NS + "label")

	// Nothing pads list positions that were skipped by an index assignment.
	Nothing = quad.IRI(OWLNS + "Nothing")

	PrefLabel   = quad.IRI(SKOSNS + "prefLabel")
	AltLabel    = quad.IRI(SKOSNS + "altLabel")
	HiddenLabel = quad.IRI(SKOSNS + "hiddenLabel")
	Title       = quad.IRI(DCTermsNS + "title")

	XSDInteger  = quad.IRI(XSDNS + "integer")
	XSDDouble   = quad.IRI(XSDNS + "double")
	XSDBoolean  = quad.IRI(XSDNS + "boolean")
	XSDDateTime = quad.IRI(XSDNS + "dateTime")
)

// DefaultLabels lists the label predicates consulted, in priority order,
// after a class's own label properties.
func DefaultLabels() []quad.IRI {
	return []quad.IRI{PrefLabel, Title, Label, AltLabel, HiddenLabel}
}

// Expand turns a prefixed name such as "rdf:rest" into a full IRI using the
// given prefixes first and the globally registered ones second. Strings
// wrapped in angle brackets are unwrapped.
func Expand(s string, prefixes map[string]string) quad.IRI {
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		return quad.IRI(s[1 : len(s)-1])
	}
	if i := strings.Index(s, ":"); i > 0 {
		if ns, ok := prefixes[s[:i]]; ok {
			return quad.IRI(ns + s[i+1:])
		}
	}
	return quad.IRI(s).Full()
}
