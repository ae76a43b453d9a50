package resource

import (
	"fmt"
	"strings"

	"github.com/cayleygraph/quad"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/rdfmap/internal/graph"
)

// absolutePrefixes mark strings used as IRIs without consulting the base.
var absolutePrefixes = []string{"http://", "https://", "urn:", "info:fedora/"}

// SetSubject binds the resource to a new subject and rewrites every
// statement in the view that mentions the old one.
//
// Only blank-node subjects can move: an IRI subject yields an
// ErrCodeSubjectBound error. Values that cannot be turned into a subject,
// including empty ones, return false and change nothing.
func (r *Resource) SetSubject(v any) (bool, error) {
	if iri, ok := r.subject.(quad.IRI); ok {
		return false, &Error{
			Code:    ErrCodeSubjectBound,
			Message: "refusing to rebind a subject that is already an IRI",
			Subject: iri.String(),
		}
	}

	next, ok := r.resolveSubject(v)
	if !ok {
		return false, nil
	}

	old := r.subject
	r.subject = next
	if old != nil {
		r.rewrite(old, next)
		r.mapper.logger.Debug("rebound subject", "from", old.String(), "to", next.String())
	}
	r.cache.reset()
	return true, nil
}

// resolveSubject turns v into an IRI or blank node.
func (r *Resource) resolveSubject(v any) (quad.Value, bool) {
	var s string
	switch t := v.(type) {
	case nil:
		return nil, false
	case quad.IRI:
		return t, t != ""
	case quad.BNode:
		return t, t != ""
	case string:
		s = t
	case fmt.Stringer:
		s = t.String()
	default:
		return nil, false
	}

	if s == "" {
		return nil, false
	}
	if id, ok := strings.CutPrefix(s, "_:"); ok {
		return quad.BNode(id), id != ""
	}

	base := r.class.BaseURI
	if base == "" || strings.HasPrefix(s, base) || hasAbsolutePrefix(s) {
		return quad.IRI(s), true
	}

	sep := "/"
	if strings.HasSuffix(base, "/") || strings.HasSuffix(base, "#") {
		sep = ""
	}
	return quad.IRI(base + sep + norm.NFC.String(s)), true
}

func hasAbsolutePrefix(s string) bool {
	for _, p := range absolutePrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// rewrite replaces old with next wherever it appears as a subject or an
// object in the view.
func (r *Resource) rewrite(old, next quad.Value) {
	for _, q := range r.view.Statements() {
		moved := q
		if graph.Equal(q.Subject, old) {
			moved.Subject = next
		}
		if graph.Equal(q.Object, old) {
			moved.Object = next
		}
		if graph.QuadKey(moved) != graph.QuadKey(q) {
			r.view.Replace(q, moved)
		}
	}
}
