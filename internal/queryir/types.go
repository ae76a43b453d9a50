package queryir

// Query is an abstract statement query. Sealed to this package.
type Query interface {
	queryNode()
}

// Predicate is a filter condition. Sealed to this package.
type Predicate interface {
	predicateNode()
}

// Select reads rows from a table.
//
//	SELECT <bindings> FROM <from> WHERE <filter>
//
// Bindings maps source column to result name; backends emit them in sorted
// order. Filter may be nil.
type Select struct {
	From     string
	Filter   Predicate
	Bindings map[string]string
}

func (Select) queryNode() {}

// Delete removes rows from a table.
//
//	DELETE FROM <from> WHERE <filter>
//
// A nil Filter deletes every row.
type Delete struct {
	From   string
	Filter Predicate
}

func (Delete) queryNode() {}

// Equals is a column-equals-literal predicate. Value is always a string
// because every encoded term column is TEXT.
type Equals struct {
	Field string
	Value string
}

func (Equals) predicateNode() {}

// And is a conjunction. An empty And is always true.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// Conjoin builds the smallest predicate for preds: nil for none, the
// predicate itself for one, an And otherwise.
func Conjoin(preds ...Predicate) Predicate {
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return And{Predicates: preds}
	}
}
