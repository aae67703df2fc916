package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"lapmart/internal/config"
	"lapmart/internal/http/handlers"
	applog "lapmart/internal/log"
	"lapmart/internal/repos"
	"lapmart/internal/services"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// Auth wiring
	userRepo := repos.NewUserRepo(db)
	authSvc := &services.AuthService{Users: userRepo}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal"})
		},
	})
	// Global body size guard
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" {
			if u, err := authSvc.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
				c.Locals("userID", u.ID)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
	}))

	// ---------- Routes ----------
	deps := handlers.NewDeps(db, cfg, authSvc)
	api := app.Group("/api/v1")

	// The facet endpoint issues one count probe per facet value, so it
	// carries its own tighter rate limit.
	facetLimiter := limiter.New(limiter.Config{
		Max:        20,
		Expiration: 30 * time.Second,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|facets"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.facets.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded, retry soon"})
		},
	})
	api.Get("/listings", deps.SearchHandler.List)
	api.Get("/listings/filters", facetLimiter, deps.SearchHandler.FilterOptions)
	api.Get("/listings/:id", deps.ListingHandler.Detail)
	api.Get("/listings/:id/favorites/count", deps.FavoriteHandler.Count)

	// Seller paths
	api.Post("/listings", handlers.RequireUser(authSvc), deps.ListingHandler.Create)
	api.Patch("/listings/:id", handlers.RequireUser(authSvc), deps.ListingHandler.Update)
	api.Delete("/listings/:id", handlers.RequireUser(authSvc), deps.ListingHandler.Delete)
	api.Get("/my/listings", handlers.RequireUser(authSvc), deps.SearchHandler.Mine)

	// Admin paths
	api.Patch("/listings/:id/status", handlers.RequireAdmin(authSvc), deps.ListingHandler.SetStatus)

	// Favorites
	api.Post("/favorites", handlers.RequireUser(authSvc), deps.FavoriteHandler.Save)
	api.Delete("/favorites/:id", handlers.RequireUser(authSvc), deps.FavoriteHandler.Unsave)
	api.Get("/favorites", handlers.RequireUser(authSvc), deps.FavoriteHandler.List)

	// Competitor price helper
	api.Get("/scrape/prices", deps.ScrapeHandler.Prices)

	// Auth (login throttled)
	app.Post("/signup", deps.AuthHandler.Signup)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts"})
		},
	}), deps.AuthHandler.Login)
	app.Post("/logout", deps.AuthHandler.Logout)
	app.Get("/me", handlers.RequireUser(authSvc), deps.AuthHandler.Me)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
