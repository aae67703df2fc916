package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"lapmart/internal/catalog"
	"lapmart/internal/domain"
	"lapmart/internal/filter"
)

// ListingRepo is the catalog store adapter. It lowers the engine's clause
// tree into parameterized SQL; the engine itself never sees SQL.
type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

const listingCols = `
  id, user_id, title, short_desc, brand, model, graphics_type, gpu_brand, gpu_model, vram,
  backlight_type, processor_brand, processor_model, cores, threads, ram, ram_type,
  storage_type, storage_capacity, screen_size, screen_resolution, refresh_rate, year,
  weight, price, condition, stock_status, status, is_certified, tags_json,
  description_json, images_json, created_at, COALESCE(updated_at,'') AS updated_at`

// lower turns a predicate into a WHERE fragment plus its bind args. An
// empty predicate lowers to no conditions at all.
func lower(p filter.Predicate) (string, []any) {
	var conds []string
	var args []any
	for _, cl := range p.Clauses {
		col := cl.Attr.Column
		switch cl.Op {
		case filter.OpIn:
			ph := make([]string, len(cl.Values))
			for i, v := range cl.Values {
				ph[i] = "?"
				args = append(args, v)
			}
			conds = append(conds, fmt.Sprintf("%s IN (%s)", col, strings.Join(ph, ",")))
		case filter.OpContainsAny:
			// values OR-combine inside one condition, then AND into
			// the conjunction with everything else
			sub := make([]string, len(cl.Values))
			for i, v := range cl.Values {
				sub[i] = fmt.Sprintf("LOWER(%s) LIKE ?", col)
				args = append(args, "%"+strings.ToLower(v)+"%")
			}
			conds = append(conds, "("+strings.Join(sub, " OR ")+")")
		case filter.OpContainsAll:
			// one EXISTS per required value: the listing must carry
			// every tag, not any of them
			for _, v := range cl.Values {
				conds = append(conds, fmt.Sprintf(
					"EXISTS (SELECT 1 FROM json_each(listings.%s) WHERE json_each.value = ?)", col))
				args = append(args, v)
			}
		case filter.OpGte:
			conds = append(conds, fmt.Sprintf("%s >= ?", col))
			args = append(args, cl.Bound)
		case filter.OpLte:
			conds = append(conds, fmt.Sprintf("%s <= ?", col))
			args = append(args, cl.Bound)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Find returns the matching page plus the total match count.
func (r *ListingRepo) Find(ctx context.Context, p filter.Predicate, offset, limit int) ([]domain.Listing, int, error) {
	where, args := lower(p)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM listings`+where, args...); err != nil {
		return nil, 0, &domain.StoreError{Op: "count", Err: err}
	}

	q := `SELECT` + listingCols + ` FROM listings` + where + ` ORDER BY created_at DESC, id LIMIT ? OFFSET ?`
	var out []domain.Listing
	if err := r.db.SelectContext(ctx, &out, q, append(args, limit, offset)...); err != nil {
		return nil, 0, &domain.StoreError{Op: "find", Err: err}
	}
	return out, total, nil
}

// Count returns the number of listings matching p.
func (r *ListingRepo) Count(ctx context.Context, p filter.Predicate) (int, error) {
	where, args := lower(p)
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings`+where, args...); err != nil {
		return 0, &domain.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

// DistinctValues returns the known value universe of a facet attribute.
func (r *ListingRepo) DistinctValues(ctx context.Context, attr catalog.Attribute) ([]string, error) {
	var out []string
	q := fmt.Sprintf(`SELECT DISTINCT %s FROM listings WHERE TRIM(%s) <> '' ORDER BY %s`,
		attr.Column, attr.Column, attr.Column)
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, &domain.StoreError{Op: "distinct", Err: err}
	}
	return out, nil
}

// MinMax returns the attribute's bounds over listings matching p.
func (r *ListingRepo) MinMax(ctx context.Context, attr catalog.Attribute, p filter.Predicate) (float64, float64, error) {
	where, args := lower(p)
	var row struct {
		Min float64 `db:"min"`
		Max float64 `db:"max"`
	}
	q := fmt.Sprintf(`SELECT COALESCE(MIN(%s),0) AS min, COALESCE(MAX(%s),0) AS max FROM listings`,
		attr.Column, attr.Column) + where
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		return 0, 0, &domain.StoreError{Op: "minmax", Err: err}
	}
	return row.Min, row.Max, nil
}

// Get fetches one listing by id. domain.ErrNotFound when absent.
func (r *ListingRepo) Get(ctx context.Context, id string) (domain.Listing, error) {
	var l domain.Listing
	err := r.db.GetContext(ctx, &l, `SELECT`+listingCols+` FROM listings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return l, domain.ErrNotFound
	}
	if err != nil {
		return l, &domain.StoreError{Op: "get", Err: err}
	}
	return l, nil
}

// Insert stores a new listing.
func (r *ListingRepo) Insert(l domain.Listing) error {
	_, err := r.db.NamedExec(`
	  INSERT INTO listings(
	    id, user_id, title, short_desc, brand, model, graphics_type, gpu_brand, gpu_model, vram,
	    backlight_type, processor_brand, processor_model, cores, threads, ram, ram_type,
	    storage_type, storage_capacity, screen_size, screen_resolution, refresh_rate, year,
	    weight, price, condition, stock_status, status, is_certified, tags_json,
	    description_json, images_json
	  ) VALUES (
	    :id, :user_id, :title, :short_desc, :brand, :model, :graphics_type, :gpu_brand, :gpu_model, :vram,
	    :backlight_type, :processor_brand, :processor_model, :cores, :threads, :ram, :ram_type,
	    :storage_type, :storage_capacity, :screen_size, :screen_resolution, :refresh_rate, :year,
	    :weight, :price, :condition, :stock_status, :status, :is_certified, :tags_json,
	    :description_json, :images_json
	  )`, l)
	return err
}

// Update rewrites a listing's mutable attributes.
func (r *ListingRepo) Update(l domain.Listing) error {
	res, err := r.db.NamedExec(`
	  UPDATE listings SET
	    title=:title, short_desc=:short_desc, brand=:brand, model=:model,
	    graphics_type=:graphics_type, gpu_brand=:gpu_brand, gpu_model=:gpu_model, vram=:vram,
	    backlight_type=:backlight_type, processor_brand=:processor_brand,
	    processor_model=:processor_model, cores=:cores, threads=:threads, ram=:ram,
	    ram_type=:ram_type, storage_type=:storage_type, storage_capacity=:storage_capacity,
	    screen_size=:screen_size, screen_resolution=:screen_resolution,
	    refresh_rate=:refresh_rate, year=:year, weight=:weight, price=:price,
	    condition=:condition, stock_status=:stock_status, status=:status,
	    is_certified=:is_certified, tags_json=:tags_json, description_json=:description_json,
	    images_json=:images_json, updated_at=CURRENT_TIMESTAMP
	  WHERE id=:id`, l)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetStatus moves a listing through the approval lifecycle.
func (r *ListingRepo) SetStatus(id, status string) error {
	res, err := r.db.Exec(`UPDATE listings SET status=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a listing.
func (r *ListingRepo) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM listings WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
