package resource

import (
	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/graph"
	"github.com/roach88/rdfmap/internal/vocab"
)

// recordedClass returns the registered class of the first recorded
// rdf:type of obj. The view is checked first, then the repository.
func (r *Resource) recordedClass(obj quad.Value) (*Class, bool) {
	types := r.view.Match(graph.Pattern{Subject: obj, Predicate: vocab.Type})
	if len(types) == 0 {
		if repo, ok := r.repository(); ok {
			quads, err := repo.Query(graph.Pattern{Subject: obj, Predicate: vocab.Type})
			if err != nil {
				r.mapper.logger.Warn("type lookup failed", "subject", obj.String(), "error", err)
			}
			types = quads
		}
	}
	for _, q := range types {
		iri, ok := q.Object.(quad.IRI)
		if !ok {
			continue
		}
		if class, ok := r.mapper.types.Lookup(iri); ok {
			return class, true
		}
	}
	return nil, false
}

// materialize builds the child node for obj with r as parent.
//
// The class is the recorded registered type, else static, else the default
// class. With filter set, an object whose recorded class differs from a
// non-nil static class is excluded. Built nodes are cached by object key.
func (r *Resource) materialize(obj quad.Value, static *Class, filter bool) (Node, bool) {
	recorded, hasRecorded := r.recordedClass(obj)
	if filter && static != nil && hasRecorded && recorded != static {
		return nil, false
	}

	key := graph.Key(obj)
	if node, ok := r.cache.nodes[key]; ok {
		return node, true
	}

	class := static
	if hasRecorded {
		class = recorded
	}
	if class == nil {
		class = r.mapper.defaultClass
	}
	node, err := r.mapper.NewNode(class, obj, r)
	if err != nil {
		r.mapper.logger.Warn("materialize failed", "object", obj.String(), "error", err)
		return nil, false
	}
	r.cache.nodes[key] = node
	return node, true
}
