package repos_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"lapmart/internal/catalog"
	"lapmart/internal/domain"
	"lapmart/internal/filter"
	"lapmart/internal/repos"
)

// memdb opens a seeded in-memory database; the seed catalog (4 approved
// listings, mixed brands and tags) doubles as the test fixture.
func memdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func mustSelection(t *testing.T, raw map[string][]string) filter.Selection {
	t.Helper()
	sel, err := filter.ParseSelection(raw)
	if err != nil {
		t.Fatal(err)
	}
	return sel
}

func TestFindEmptyPredicateReturnsAll(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	rows, total, err := repo.Find(context.Background(), filter.Predicate{}, 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || len(rows) != 4 {
		t.Fatalf("want the 4 seeded listings, got total=%d len=%d", total, len(rows))
	}
}

func TestFindSubstringIsCaseInsensitive(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	sel := mustSelection(t, map[string][]string{"brand": {"msi"}})
	rows, total, err := repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || rows[0].Brand != "MSI" {
		t.Fatalf("lowercase brand should match MSI, got total=%d", total)
	}

	sel = mustSelection(t, map[string][]string{"term": {"THINKPAD"}})
	_, total, err = repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 {
		t.Fatalf("uppercase term should match the ThinkPad listing, got %d", total)
	}
}

func TestFindTagsRequireEveryValue(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))

	sel := mustSelection(t, map[string][]string{"tag": {"gaming"}})
	_, total, err := repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("two seeded listings carry the gaming tag, got %d", total)
	}

	// both tags must be present on the same listing
	sel = mustSelection(t, map[string][]string{"tag": {"gaming", "rgb"}})
	rows, total, err := repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || rows[0].ID != "lap-msi-cyborg" {
		t.Fatalf("only the Cyborg has both tags, got total=%d", total)
	}
}

func TestFindMultiValueFacetUnionsWithin(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	sel := mustSelection(t, map[string][]string{"ramType": {"DDR4", "DDR5"}})
	_, total, err := repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 {
		t.Fatalf("DDR4 or DDR5 covers every seeded listing, got %d", total)
	}

	sel = mustSelection(t, map[string][]string{
		"ramType":        {"DDR4"},
		"processorBrand": {"Intel"},
	})
	rows, total, err := repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	// facets intersect across keys: DDR4 AND Intel leaves the ThinkPad
	if total != 1 || rows[0].ID != "lap-tp-x1" {
		t.Fatalf("want just the ThinkPad, got total=%d", total)
	}
}

func TestFindPriceBounds(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	sel := mustSelection(t, map[string][]string{"minPrice": {"900"}, "maxPrice": {"1000"}})
	_, total, err := repo.Find(context.Background(), filter.Compile(sel), 0, 20)
	if err != nil {
		t.Fatal(err)
	}
	if total != 2 {
		t.Fatalf("980 and 999 fall inside [900,1000], got %d", total)
	}
}

func TestNarrowingNeverGrows(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	ctx := context.Background()

	base := mustSelection(t, map[string][]string{"brand": {"Lenovo"}})
	narrower := mustSelection(t, map[string][]string{"brand": {"Lenovo"}, "ramType": {"DDR4"}})

	n1, err := repo.Count(ctx, filter.Compile(base))
	if err != nil {
		t.Fatal(err)
	}
	n2, err := repo.Count(ctx, filter.Compile(narrower))
	if err != nil {
		t.Fatal(err)
	}
	if n2 > n1 {
		t.Fatalf("adding a constraint grew the result set: %d -> %d", n1, n2)
	}
}

func TestFindPaginates(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	rows, total, err := repo.Find(context.Background(), filter.Predicate{}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if total != 4 || len(rows) != 2 {
		t.Fatalf("second page of two: total=%d len=%d", total, len(rows))
	}
}

func TestDistinctValues(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	attr, _ := catalog.Lookup(catalog.KeyBrand)
	vs, err := repo.DistinctValues(context.Background(), attr)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"Apple", "HP", "Lenovo", "MSI"}
	if !reflect.DeepEqual(vs, want) {
		t.Fatalf("distinct brands = %v, want %v", vs, want)
	}
}

func TestMinMax(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	attr, _ := catalog.Lookup(catalog.KeyPrice)

	min, max, err := repo.MinMax(context.Background(), attr, filter.Predicate{})
	if err != nil {
		t.Fatal(err)
	}
	if min != 760 || max != 1250 {
		t.Fatalf("catalog price range = [%v,%v], want [760,1250]", min, max)
	}

	// narrowed universe narrows the bounds
	sel := mustSelection(t, map[string][]string{"tag": {"ultrabook"}})
	min, max, err = repo.MinMax(context.Background(), attr, filter.Compile(sel))
	if err != nil {
		t.Fatal(err)
	}
	if min != 980 || max != 999 {
		t.Fatalf("ultrabook price range = [%v,%v], want [980,999]", min, max)
	}
}

func TestGetMissingIsNotFound(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	if _, err := repo.Get(context.Background(), "lap-nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestInsertUpdateDelete(t *testing.T) {
	repo := repos.NewListingRepo(memdb(t))
	l := domain.Listing{
		ID: "lap-test", UserID: "u-seed", Title: "Test Laptop", Brand: "Acer", Model: "Swift",
		GraphicsType: "Integrated", ProcessorBrand: "Intel", ProcessorModel: "i5-1335U",
		RAM: "16GB", RAMType: "DDR5", StorageType: "SSD", StorageCapacity: "512GB",
		ScreenSize: "14", ScreenResolution: "1920x1080", Year: 2024, Price: 700,
		Condition: "new", StockStatus: "in stock", Status: "pending",
		TagsJSON: `["ultrabook"]`, DescriptionJSON: `{"en":"Test."}`, ImagesJSON: `[]`,
	}
	if err := repo.Insert(l); err != nil {
		t.Fatal(err)
	}

	l.Price = 650
	if err := repo.Update(l); err != nil {
		t.Fatal(err)
	}
	got, err := repo.Get(context.Background(), "lap-test")
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 650 || got.UpdatedAt == "" {
		t.Fatalf("update not applied: %+v", got)
	}

	if err := repo.SetStatus("lap-test", "approved"); err != nil {
		t.Fatal(err)
	}
	got, _ = repo.Get(context.Background(), "lap-test")
	if got.Status != "approved" {
		t.Fatalf("status = %q", got.Status)
	}

	if err := repo.Delete("lap-test"); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete("lap-test"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}
