package repos

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"lapmart/internal/domain"
)

type FavoriteRepo struct{ db *sqlx.DB }

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo { return &FavoriteRepo{db: db} }

// Add bookmarks a listing for a user. Saving twice is a no-op.
func (r *FavoriteRepo) Add(userID, listingID string) error {
	_, err := r.db.Exec(`
	  INSERT INTO favorites(id, user_id, listing_id)
	  VALUES(?, ?, ?)
	  ON CONFLICT(user_id, listing_id) DO NOTHING
	`, uuid.NewString(), userID, listingID)
	return err
}

func (r *FavoriteRepo) Remove(userID, listingID string) error {
	_, err := r.db.Exec(`DELETE FROM favorites WHERE user_id=? AND listing_id=?`, userID, listingID)
	return err
}

func (r *FavoriteRepo) Find(userID, listingID string) (*domain.Favorite, error) {
	var f domain.Favorite
	err := r.db.Get(&f, `
	  SELECT id, user_id, listing_id, created_at
	  FROM favorites WHERE user_id=? AND listing_id=?`, userID, listingID)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListForUser returns the user's favorited listings, newest first.
func (r *FavoriteRepo) ListForUser(userID string) ([]domain.Listing, error) {
	var out []domain.Listing
	err := r.db.Select(&out, `
	  SELECT`+listingCols+`
	  FROM listings
	  WHERE id IN (SELECT listing_id FROM favorites WHERE user_id = ?)
	  ORDER BY created_at DESC
	`, userID)
	return out, err
}

// CountForListing reports how many users favorited a listing.
func (r *FavoriteRepo) CountForListing(listingID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM favorites WHERE listing_id=?`, listingID)
	return n, err
}
