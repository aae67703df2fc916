package handlers

import (
	"github.com/jmoiron/sqlx"

	"lapmart/internal/config"
	"lapmart/internal/filter"
	"lapmart/internal/repos"
	"lapmart/internal/services"
)

type Deps struct {
	SearchHandler   *SearchHandler
	ListingHandler  *ListingHandler
	FavoriteHandler *FavoriteHandler
	ScrapeHandler   *ScrapeHandler
	AuthHandler     *AuthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService) *Deps {
	listingRepo := repos.NewListingRepo(db)
	favRepo := repos.NewFavoriteRepo(db)

	calc := &filter.Calculator{
		Store:        listingRepo,
		Workers:      cfg.ProbeWorkers,
		ProbeTimeout: cfg.ProbeTimeout,
	}
	searchSvc := services.NewSearchService(listingRepo, calc)
	searchSvc.FetchTimeout = cfg.FetchTimeout
	listingSvc := services.NewListingService(listingRepo)
	favSvc := services.NewFavoriteService(favRepo, listingRepo)
	scrapeSvc := services.NewScrapeService(cfg.ScrapeURLs)

	return &Deps{
		SearchHandler:   &SearchHandler{Search: searchSvc},
		ListingHandler:  &ListingHandler{Listings: listingSvc},
		FavoriteHandler: &FavoriteHandler{Favs: favSvc},
		ScrapeHandler:   &ScrapeHandler{Scrape: scrapeSvc},
		AuthHandler:     &AuthHandler{Auth: auth},
	}
}
