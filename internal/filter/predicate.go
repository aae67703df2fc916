package filter

import (
	"lapmart/internal/catalog"
)

// Op tags a clause variant. The store adapter lowers each variant into its
// native query form, keeping the compiler backend-agnostic.
type Op int

const (
	// OpIn: attribute value is a member of the accepted set.
	OpIn Op = iota
	// OpContainsAny: case-insensitive substring match against any of the
	// values, OR-combined into one clause.
	OpContainsAny
	// OpContainsAll: the listing's collection contains every value. Each
	// required value must individually match some entry; this "must
	// contain all of" semantics is intentional for tags and must not be
	// unified with the any-of facets.
	OpContainsAll
	// OpGte / OpLte: inequality against Bound.
	OpGte
	OpLte
)

// Clause is one sub-predicate over a single attribute.
type Clause struct {
	Attr   catalog.Attribute
	Op     Op
	Values []string
	Bound  float64
}

// Predicate is an explicit conjunction of clauses.
type Predicate struct {
	Clauses []Clause
}

// Compile translates a normalized selection into its predicate. Clauses
// come out in attribute registry order, so compiling the same selection
// twice yields structurally identical predicates. Empty accepted sets emit
// no clause: an unconstrained facet constrains nothing.
func Compile(sel Selection) Predicate {
	var p Predicate
	for _, attr := range catalog.All() {
		switch attr.Match {
		case catalog.Range:
			if attr.Key != catalog.KeyPrice {
				continue
			}
			if sel.MinPrice != nil {
				p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpGte, Bound: *sel.MinPrice})
			}
			if sel.MaxPrice != nil {
				p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpLte, Bound: *sel.MaxPrice})
			}
		case catalog.AllOf:
			if vs := sel.Values(attr.Key); len(vs) > 0 {
				p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpContainsAll, Values: vs})
			}
		case catalog.Substring:
			if attr.Key == catalog.KeyTitle {
				// the global free-text term, independent of facets
				if sel.Term != "" {
					p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpContainsAny, Values: []string{sel.Term}})
				}
				continue
			}
			if vs := sel.Values(attr.Key); len(vs) > 0 {
				p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpContainsAny, Values: vs})
			}
		default: // catalog.Exact
			if attr.Key == catalog.KeyUserID {
				if sel.UserID != "" {
					p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpIn, Values: []string{sel.UserID}})
				}
				continue
			}
			if vs := sel.Values(attr.Key); len(vs) > 0 {
				p.Clauses = append(p.Clauses, Clause{Attr: attr, Op: OpIn, Values: vs})
			}
		}
	}
	return p
}
