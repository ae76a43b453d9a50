// Package schema compiles class declarations written in CUE into
// resource classes.
//
// A schema directory holds one CUE package with two top-level fields:
//
//	prefixes: {
//		mads: "http://www.loc.gov/mads/rdf/v1#"
//	}
//
//	class: Topic: {
//		type:     "mads:Topic"
//		base_uri: "http://example.org/id_namespace#"
//		label: ["name"]
//		property: {
//			name:        {predicate: "mads:authoritativeLabel", multivalue: false}
//			elementList: {predicate: "mads:elementList", class: "ElementList"}
//		}
//		nested: ["elementList"]
//	}
//
// Every class is unified with the #Class definition before it is
// compiled, so misspelled fields are reported with their CUE position.
// Prefixed names are expanded with the file's prefixes first and the
// well-known vocabulary prefixes second. Properties keep their declaration
// order, which is the order nested attributes are assigned in.
package schema
