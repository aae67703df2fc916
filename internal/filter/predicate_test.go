package filter_test

import (
	"reflect"
	"testing"

	"lapmart/internal/catalog"
	"lapmart/internal/filter"
)

func TestCompileIdempotent(t *testing.T) {
	min, max := 100.0, 900.0
	sel := filter.NewSelection()
	sel.Term = "gaming"
	sel.MinPrice = &min
	sel.MaxPrice = &max
	sel.Select(catalog.KeyBrand, "MSI")
	sel.Select(catalog.KeyTag, "gaming")
	sel.Select(catalog.KeyTag, "rgb")

	a := filter.Compile(sel)
	b := filter.Compile(sel)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("compiling the same selection twice produced different predicates")
	}
	if len(a.Clauses) == 0 {
		t.Fatal("no clauses compiled")
	}
}

func TestCompileClauseShapes(t *testing.T) {
	sel := filter.NewSelection()
	sel.Select(catalog.KeyRAMType, "DDR4")
	sel.Select(catalog.KeyRAMType, "DDR5")
	sel.Select(catalog.KeyBrand, "Leno")
	sel.Select(catalog.KeyTag, "gaming")
	sel.Select(catalog.KeyTag, "ultrabook")
	sel.Term = "carbon"
	sel.UserID = "u-1"
	max := 2000.0
	sel.MaxPrice = &max

	p := filter.Compile(sel)
	byKey := map[string]filter.Clause{}
	for _, cl := range p.Clauses {
		byKey[cl.Attr.Key] = cl
	}

	if cl := byKey[catalog.KeyRAMType]; cl.Op != filter.OpIn || len(cl.Values) != 2 {
		t.Fatalf("ramType clause: %+v", cl)
	}
	// brand is a fuzzy facet: values OR-combine inside one clause
	if cl := byKey[catalog.KeyBrand]; cl.Op != filter.OpContainsAny || len(cl.Values) != 1 {
		t.Fatalf("brand clause: %+v", cl)
	}
	// tags demand every value, not any
	if cl := byKey[catalog.KeyTag]; cl.Op != filter.OpContainsAll || len(cl.Values) != 2 {
		t.Fatalf("tag clause: %+v", cl)
	}
	if cl := byKey[catalog.KeyTitle]; cl.Op != filter.OpContainsAny || cl.Values[0] != "carbon" {
		t.Fatalf("term clause: %+v", cl)
	}
	if cl := byKey[catalog.KeyUserID]; cl.Op != filter.OpIn || cl.Values[0] != "u-1" {
		t.Fatalf("owner clause: %+v", cl)
	}
	if cl := byKey[catalog.KeyPrice]; cl.Op != filter.OpLte || cl.Bound != 2000 {
		t.Fatalf("price clause: %+v", cl)
	}
}

func TestCompileOrderIsStable(t *testing.T) {
	// same constraints inserted in different order compile identically
	s1 := filter.NewSelection()
	s1.Select(catalog.KeyBrand, "A")
	s1.Select(catalog.KeyRAM, "16GB")

	s2 := filter.NewSelection()
	s2.Select(catalog.KeyRAM, "16GB")
	s2.Select(catalog.KeyBrand, "A")

	if !reflect.DeepEqual(filter.Compile(s1), filter.Compile(s2)) {
		t.Fatal("clause order depends on insertion order")
	}
}
