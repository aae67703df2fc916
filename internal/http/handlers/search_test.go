package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

type searchBody struct {
	Data []struct {
		ID     string `json:"id"`
		Brand  string `json:"brand"`
		Status string `json:"status"`
	} `json:"data"`
	Total     int `json:"total"`
	Page      int `json:"page"`
	Limit     int `json:"limit"`
	PageCount int `json:"pageCount"`
	Filters   *struct {
		Facets map[string][]struct {
			Value    string `json:"value"`
			Disabled bool   `json:"disabled"`
		} `json:"facets"`
		PriceRange struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"priceRange"`
	} `json:"filters"`
}

func TestSearchShowsOnlyApprovedByDefault(t *testing.T) {
	f := newFixture(t)
	f.db.MustExec(`UPDATE listings SET status='pending' WHERE id='lap-hp-victus'`)

	var body searchBody
	resp := f.do(t, httptest.NewRequest("GET", "/listings", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	decode(t, resp, &body)
	if body.Total != 3 {
		t.Fatalf("default search total = %d, want the 3 approved", body.Total)
	}

	// an explicit status constraint overrides the default
	resp = f.do(t, httptest.NewRequest("GET", "/listings?status=pending", nil))
	decode(t, resp, &body)
	if body.Total != 1 || body.Data[0].ID != "lap-hp-victus" {
		t.Fatalf("explicit pending search: %+v", body)
	}
}

func TestSearchRejectsUnknownFilter(t *testing.T) {
	f := newFixture(t)
	resp := f.do(t, httptest.NewRequest("GET", "/listings?color=red", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	decode(t, resp, &body)
	if body.Error != "validation" || body.Field != "color" {
		t.Fatalf("error body should name the field: %+v", body)
	}
}

func TestSearchPaginationParams(t *testing.T) {
	f := newFixture(t)
	var body searchBody
	resp := f.do(t, httptest.NewRequest("GET", "/listings?page=2&limit=1", nil))
	decode(t, resp, &body)
	if body.Page != 2 || body.Limit != 1 || body.PageCount != 4 || len(body.Data) != 1 {
		t.Fatalf("page 2 of 1: %+v", body)
	}
}

func TestSearchWithFilters(t *testing.T) {
	f := newFixture(t)
	var body searchBody
	resp := f.do(t, httptest.NewRequest("GET", "/listings?withFilters=1&brand=MSI", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	decode(t, resp, &body)
	if body.Total != 1 || body.Filters == nil {
		t.Fatalf("combined shape missing: %+v", body)
	}
	for _, o := range body.Filters.Facets["ramType"] {
		if o.Value == "DDR4" && !o.Disabled {
			t.Fatal("DDR4 should be disabled under brand MSI")
		}
		if o.Value == "DDR5" && o.Disabled {
			t.Fatal("DDR5 should stay enabled under brand MSI")
		}
	}
}

func TestFilterOptionsShape(t *testing.T) {
	f := newFixture(t)
	var body struct {
		Facets map[string][]struct {
			Value    string `json:"value"`
			Disabled bool   `json:"disabled"`
		} `json:"facets"`
		PriceRange struct {
			Min float64 `json:"min"`
			Max float64 `json:"max"`
		} `json:"priceRange"`
	}
	resp := f.do(t, httptest.NewRequest("GET", "/listings/filters", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	decode(t, resp, &body)
	if len(body.Facets["brand"]) != 4 {
		t.Fatalf("brand universe: %+v", body.Facets["brand"])
	}
	if body.PriceRange.Min != 760 || body.PriceRange.Max != 1250 {
		t.Fatalf("price range: %+v", body.PriceRange)
	}
}

func TestSearchStoreFailureIs503(t *testing.T) {
	f := newFixture(t)
	// a closed pool makes every store call fail
	_ = f.db.Close()

	resp := f.do(t, httptest.NewRequest("GET", "/listings", nil))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", resp.StatusCode)
	}
	var body struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}
	decode(t, resp, &body)
	if body.Error != "store_unavailable" || !body.Retryable {
		t.Fatalf("store failure body: %+v", body)
	}

	// the facet endpoint surfaces the same taxonomy
	resp = f.do(t, httptest.NewRequest("GET", "/listings/filters", nil))
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("filters status %d, want 503", resp.StatusCode)
	}
}

func TestMineScopesToSessionUser(t *testing.T) {
	f := newFixture(t)
	sid := f.login(t, "nino@lapmart.test")

	var body searchBody
	resp := f.do(t, withSID(httptest.NewRequest("GET", "/my/listings", nil), sid))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	decode(t, resp, &body)
	// the demo catalog belongs to the seed seller, not to nino
	if body.Total != 0 {
		t.Fatalf("nino owns nothing yet, got total=%d", body.Total)
	}
}
