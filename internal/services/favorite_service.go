package services

import (
	"context"

	"lapmart/internal/domain"
	"lapmart/internal/repos"
)

type FavoriteService struct {
	Favs     *repos.FavoriteRepo
	Listings *repos.ListingRepo
}

func NewFavoriteService(favs *repos.FavoriteRepo, listings *repos.ListingRepo) *FavoriteService {
	return &FavoriteService{Favs: favs, Listings: listings}
}

// Save bookmarks a listing; the listing must exist.
func (s *FavoriteService) Save(ctx context.Context, userID, listingID string) error {
	if _, err := s.Listings.Get(ctx, listingID); err != nil {
		return err
	}
	return s.Favs.Add(userID, listingID)
}

func (s *FavoriteService) Unsave(userID, listingID string) error {
	return s.Favs.Remove(userID, listingID)
}

func (s *FavoriteService) ListForUser(userID string) ([]domain.Listing, error) {
	return s.Favs.ListForUser(userID)
}

// Count reports how many users favorited listingID.
func (s *FavoriteService) Count(listingID string) (int, error) {
	return s.Favs.CountForListing(listingID)
}
