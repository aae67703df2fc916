package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"lapmart/internal/config"
	"lapmart/internal/http/handlers"
	"lapmart/internal/repos"
	"lapmart/internal/services"
)

type fixture struct {
	app  *fiber.App
	db   *sqlx.DB
	auth *services.AuthService
}

// newFixture wires the full route surface over a seeded in-memory db,
// without the outer middleware stack (rate limits are tested separately).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	auth := &services.AuthService{Users: repos.NewUserRepo(db)}
	deps := handlers.NewDeps(db, config.Config{}, auth)
	authH := deps.AuthHandler

	app := fiber.New()
	app.Get("/listings", deps.SearchHandler.List)
	app.Get("/listings/filters", deps.SearchHandler.FilterOptions)
	app.Get("/listings/:id", deps.ListingHandler.Detail)
	app.Post("/listings", handlers.RequireUser(auth), deps.ListingHandler.Create)
	app.Patch("/listings/:id", handlers.RequireUser(auth), deps.ListingHandler.Update)
	app.Patch("/listings/:id/status", handlers.RequireAdmin(auth), deps.ListingHandler.SetStatus)
	app.Delete("/listings/:id", handlers.RequireUser(auth), deps.ListingHandler.Delete)
	app.Get("/my/listings", handlers.RequireUser(auth), deps.SearchHandler.Mine)

	app.Post("/favorites", handlers.RequireUser(auth), deps.FavoriteHandler.Save)
	app.Delete("/favorites/:id", handlers.RequireUser(auth), deps.FavoriteHandler.Unsave)
	app.Get("/favorites", handlers.RequireUser(auth), deps.FavoriteHandler.List)
	app.Get("/listings/:id/favorites/count", deps.FavoriteHandler.Count)

	app.Post("/auth/signup", authH.Signup)
	app.Post("/auth/login", authH.Login)
	app.Post("/auth/logout", authH.Logout)
	app.Get("/auth/me", handlers.RequireUser(auth), authH.Me)

	return &fixture{app: app, db: db, auth: auth}
}

func (f *fixture) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := f.app.Test(req, 5000)
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func jsonReq(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// login authenticates one of the seeded accounts and returns the sid.
func (f *fixture) login(t *testing.T, email string) string {
	t.Helper()
	resp := f.do(t, jsonReq("POST", "/auth/login", `{"email":"`+email+`","password":"Passw0rd!"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
	sid := cookieValue(resp, "sid")
	if sid == "" {
		t.Fatal("no sid cookie after login")
	}
	return sid
}

func withSID(req *http.Request, sid string) *http.Request {
	req.AddCookie(&http.Cookie{Name: "sid", Value: sid})
	return req
}
