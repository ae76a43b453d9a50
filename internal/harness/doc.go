// Package harness runs mapping scenarios against a fresh store.
//
// A scenario declares its classes with a CUE schema directory, seeds the
// store with N-Triples, drives resources and lists through a sequence of
// steps, and asserts on the resulting values and statements.
//
// # Scenario Format
//
//	name: topic_elements
//	description: "A topic builds a MADS element list"
//	schema: ../schema
//	steps:
//	  - op: new
//	    as: topic
//	    class: Topic
//	    subject: "baseball"
//	  - op: build
//	    target: topic
//	    property: elementList
//	    as: elements
//	    attributes:
//	      topicElement_attributes:
//	        - elementValue: "Baseball"
//	assertions:
//	  - type: list_classes
//	    target: elements
//	    classes: [TopicElement]
//	  - type: well_formed
//	    target: elements
//
// Values are plain YAML scalars with three string forms: "<iri>" is an
// IRI, "_:id" a blank node and "$name" a node bound by an earlier step.
//
// # Assertion Types
//
//   - value: target.property reads as the expected value
//   - count: target.property has N values
//   - list: list elements equal the expected sequence
//   - list_classes: list element classes equal the expected names
//   - well_formed: a list chain has one terminator and no cycle
//   - subject: a node's subject renders as expected
//   - statement, no_statement: a triple is present or absent
//   - store_count: a repository holds N statements
//
// # Deterministic Testing
//
// Every scenario runs with sequential blank-node ids, a logical step
// clock and an in-memory SQLite store, so the snapshot of steps and final
// statements is identical across runs and can be compared to a golden
// file.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/baseball.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness
