package graph

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cayleygraph/quad"

	"github.com/roach88/rdfmap/internal/vocab"
)

// TermKind distinguishes the three kinds of RDF term.
type TermKind string

const (
	KindIRI     TermKind = "iri"
	KindBNode   TermKind = "bnode"
	KindLiteral TermKind = "literal"
)

// EncodedTerm is the flat, storable form of a term.
// Datatype and Lang are empty for IRIs, blank nodes and plain strings.
type EncodedTerm struct {
	Kind     TermKind
	Lexical  string
	Datatype string
	Lang     string
}

// Encode flattens a term. It fails for nil and for value types it does not know.
func Encode(v quad.Value) (EncodedTerm, error) {
	switch t := v.(type) {
	case nil:
		return EncodedTerm{}, fmt.Errorf("encode term: nil value")
	case quad.IRI:
		return EncodedTerm{Kind: KindIRI, Lexical: string(t)}, nil
	case quad.BNode:
		return EncodedTerm{Kind: KindBNode, Lexical: string(t)}, nil
	case quad.String:
		return EncodedTerm{Kind: KindLiteral, Lexical: string(t)}, nil
	case quad.LangString:
		return EncodedTerm{Kind: KindLiteral, Lexical: string(t.Value), Lang: t.Lang}, nil
	case quad.TypedString:
		return EncodedTerm{Kind: KindLiteral, Lexical: string(t.Value), Datatype: string(t.Type)}, nil
	case quad.Int:
		return EncodedTerm{Kind: KindLiteral, Lexical: strconv.FormatInt(int64(t), 10), Datatype: string(vocab.XSDInteger)}, nil
	case quad.Float:
		return EncodedTerm{Kind: KindLiteral, Lexical: formatFloat(float64(t)), Datatype: string(vocab.XSDDouble)}, nil
	case quad.Bool:
		return EncodedTerm{Kind: KindLiteral, Lexical: strconv.FormatBool(bool(t)), Datatype: string(vocab.XSDBoolean)}, nil
	case quad.Time:
		return EncodedTerm{Kind: KindLiteral, Lexical: time.Time(t).UTC().Format(time.RFC3339Nano), Datatype: string(vocab.XSDDateTime)}, nil
	default:
		return EncodedTerm{}, fmt.Errorf("encode term: unsupported value type %T", v)
	}
}

// Decode rebuilds a term from its encoded form. Literals with a known XSD
// datatype decode to the matching quad type; a malformed lexical form stays
// a quad.TypedString rather than failing.
func Decode(t EncodedTerm) (quad.Value, error) {
	switch t.Kind {
	case KindIRI:
		return quad.IRI(t.Lexical), nil
	case KindBNode:
		return quad.BNode(t.Lexical), nil
	case KindLiteral:
		return decodeLiteral(t), nil
	default:
		return nil, fmt.Errorf("decode term: unknown kind %q", t.Kind)
	}
}

func decodeLiteral(t EncodedTerm) quad.Value {
	if t.Lang != "" {
		return quad.LangString{Value: quad.String(t.Lexical), Lang: t.Lang}
	}
	switch quad.IRI(t.Datatype) {
	case "":
		return quad.String(t.Lexical)
	case vocab.XSDInteger:
		if n, err := strconv.ParseInt(t.Lexical, 10, 64); err == nil {
			return quad.Int(n)
		}
	case vocab.XSDDouble:
		if f, err := strconv.ParseFloat(t.Lexical, 64); err == nil {
			return quad.Float(f)
		}
	case vocab.XSDBoolean:
		if b, err := strconv.ParseBool(t.Lexical); err == nil {
			return quad.Bool(b)
		}
	case vocab.XSDDateTime:
		if ts, err := time.Parse(time.RFC3339Nano, t.Lexical); err == nil {
			return quad.Time(ts)
		}
	}
	return quad.TypedString{Value: quad.String(t.Lexical), Type: quad.IRI(t.Datatype)}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "INF"
	}
	if math.IsInf(f, -1) {
		return "-INF"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Format renders a term in N-Triples style: <iri>, _:id, or a quoted
// literal with an optional ^^<datatype> or @lang suffix.
func Format(v quad.Value) string {
	t, err := Encode(v)
	if err != nil {
		return ""
	}
	switch t.Kind {
	case KindIRI:
		return "<" + t.Lexical + ">"
	case KindBNode:
		return "_:" + t.Lexical
	}
	var b strings.Builder
	b.WriteString(strconv.Quote(t.Lexical))
	if t.Lang != "" {
		b.WriteString("@" + t.Lang)
	} else if t.Datatype != "" {
		b.WriteString("^^<" + t.Datatype + ">")
	}
	return b.String()
}

// Key is the identity of a term. Equal terms have equal keys.
func Key(v quad.Value) string {
	return Format(v)
}

// Equal reports whether two terms denote the same RDF term.
func Equal(a, b quad.Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return Key(a) == Key(b)
}

// IsResource reports whether v names a node (IRI or blank node) rather than
// a literal.
func IsResource(v quad.Value) bool {
	switch v.(type) {
	case quad.IRI, quad.BNode:
		return true
	}
	return false
}

// IsLiteral reports whether v is one of the supported literal types.
func IsLiteral(v quad.Value) bool {
	switch v.(type) {
	case quad.String, quad.LangString, quad.TypedString, quad.Int, quad.Float, quad.Bool, quad.Time:
		return true
	}
	return false
}

// Native unwraps a literal to its Go value: string, int64, float64, bool or
// time.Time. Non-literals are returned unchanged.
func Native(v quad.Value) any {
	switch t := v.(type) {
	case quad.String:
		return string(t)
	case quad.LangString:
		return string(t.Value)
	case quad.TypedString:
		return string(t.Value)
	case quad.Int:
		return int64(t)
	case quad.Float:
		return float64(t)
	case quad.Bool:
		return bool(t)
	case quad.Time:
		return time.Time(t)
	default:
		return v
	}
}

// Literal converts a Go primitive to a literal term. Literal quad values
// pass through. It reports false for anything that is not literal-compatible.
func Literal(v any) (quad.Value, bool) {
	switch t := v.(type) {
	case string:
		return quad.String(t), true
	case bool:
		return quad.Bool(t), true
	case int:
		return quad.Int(t), true
	case int8:
		return quad.Int(t), true
	case int16:
		return quad.Int(t), true
	case int32:
		return quad.Int(t), true
	case int64:
		return quad.Int(t), true
	case uint:
		return quad.Int(t), true
	case uint8:
		return quad.Int(t), true
	case uint16:
		return quad.Int(t), true
	case uint32:
		return quad.Int(t), true
	case uint64:
		if t > math.MaxInt64 {
			return nil, false
		}
		return quad.Int(t), true
	case float32:
		return quad.Float(t), true
	case float64:
		return quad.Float(t), true
	case time.Time:
		return quad.Time(t), true
	case quad.Value:
		if IsLiteral(t) {
			return t, true
		}
	}
	return nil, false
}
