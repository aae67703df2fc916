package domain

// User is a seller or admin account. Identity is a collaborator of the
// filter engine; the engine itself only ever sees the user id as an
// owner-scope filter value.
type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	Name      string `db:"name" json:"name"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"` // USER | ADMIN
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// Favorite bookmarks a listing for a user.
type Favorite struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"userId"`
	ListingID string `db:"listing_id" json:"listingId"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}
