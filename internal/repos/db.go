package repos

import (
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	applog "lapmart/internal/log"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if dsn == ":memory:" {
		// every new pool connection opens its own empty in-memory db
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed a browsable demo catalog if the DB is empty
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure accounts exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('USER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE RESTRICT,
  title TEXT NOT NULL,
  short_desc TEXT NOT NULL DEFAULT '',
  brand TEXT NOT NULL,
  model TEXT NOT NULL,
  graphics_type TEXT NOT NULL CHECK (graphics_type IN ('Integrated','Dedicated')),
  gpu_brand TEXT NOT NULL DEFAULT '',
  gpu_model TEXT NOT NULL DEFAULT '',
  vram TEXT NOT NULL DEFAULT '',
  backlight_type TEXT NOT NULL DEFAULT '',
  processor_brand TEXT NOT NULL CHECK (processor_brand IN ('Intel','AMD','Apple')),
  processor_model TEXT NOT NULL,
  cores INTEGER NOT NULL DEFAULT 0,
  threads INTEGER NOT NULL DEFAULT 0,
  ram TEXT NOT NULL,
  ram_type TEXT NOT NULL CHECK (ram_type IN ('DDR3','DDR4','DDR5')),
  storage_type TEXT NOT NULL CHECK (storage_type IN ('HDD','SSD','HDD + SSD')),
  storage_capacity TEXT NOT NULL,
  screen_size TEXT NOT NULL,
  screen_resolution TEXT NOT NULL,
  refresh_rate TEXT NOT NULL DEFAULT '',
  year INTEGER NOT NULL CHECK (year BETWEEN 2000 AND 2030),
  weight TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  condition TEXT NOT NULL CHECK (condition IN ('new','like-new','used','damaged')),
  stock_status TEXT NOT NULL DEFAULT 'in stock' CHECK (stock_status IN ('reserved','sold','in stock')),
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('approved','pending','rejected','archived')),
  is_certified INTEGER NOT NULL DEFAULT 0,
  tags_json TEXT NOT NULL DEFAULT '[]',
  description_json TEXT NOT NULL DEFAULT '{}',
  images_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_listings_user       ON listings(user_id);
CREATE INDEX IF NOT EXISTS idx_listings_status     ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_brand      ON listings(brand);
CREATE INDEX IF NOT EXISTS idx_listings_price      ON listings(price);
CREATE INDEX IF NOT EXISTS idx_listings_title      ON listings(LOWER(title));
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);

-- Favorites
CREATE TABLE IF NOT EXISTS favorites(
  id TEXT PRIMARY KEY,
  user_id    TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(user_id, listing_id)
);
CREATE INDEX IF NOT EXISTS idx_favorites_listing ON favorites(listing_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	applog.Event("seed.listings", map[string]any{"count": 4})

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO users(id,email,name,password_hash,role) VALUES
	  ('u-seed','seed@lapmart.test','Seed Seller','*','USER')
	  ON CONFLICT(email) DO NOTHING`)

	tx.MustExec(`INSERT INTO listings(
	  id,user_id,title,short_desc,brand,model,graphics_type,gpu_brand,gpu_model,vram,
	  backlight_type,processor_brand,processor_model,cores,threads,ram,ram_type,
	  storage_type,storage_capacity,screen_size,screen_resolution,refresh_rate,year,
	  price,condition,stock_status,status,is_certified,tags_json,description_json) VALUES
	  ('lap-msi-cyborg','u-seed','MSI Cyborg 15 Gaming Laptop','RTX gaming on a budget','MSI','Cyborg 15',
	   'Dedicated','NVIDIA','RTX 4050','6GB','RGB','Intel','i7-12650H',10,16,'16GB','DDR5',
	   'SSD','512GB','15.6','1920x1080','144Hz',2023,1250,'new','in stock','approved',1,
	   '["gaming","rgb"]','{"en":"MSI Cyborg 15 with RTX 4050.","ka":"MSI Cyborg 15."}'),
	  ('lap-tp-x1','u-seed','Lenovo ThinkPad X1 Carbon','Business ultrabook','Lenovo','X1 Carbon',
	   'Integrated','','','','White','Intel','i7-1165G7',4,8,'16GB','DDR4',
	   'SSD','1TB','14','1920x1200','60Hz',2021,980,'like-new','in stock','approved',1,
	   '["ultrabook","business"]','{"en":"ThinkPad X1 Carbon Gen 9."}'),
	  ('lap-mb-air','u-seed','Apple MacBook Air M2','Thin and silent','Apple','MacBook Air',
	   'Integrated','Apple','M2','','Backlit','Apple','M2',8,8,'8GB','DDR5',
	   'SSD','256GB','13.6','2560x1664','60Hz',2022,999,'used','in stock','approved',0,
	   '["ultrabook"]','{"en":"MacBook Air with M2 chip."}'),
	  ('lap-hp-victus','u-seed','HP Victus 16','Entry gaming machine','HP','Victus 16',
	   'Dedicated','AMD','RX 6500M','4GB','Single-zone','AMD','Ryzen 5 5600H',6,12,'8GB','DDR4',
	   'HDD + SSD','1TB','16.1','1920x1080','144Hz',2022,760,'used','reserved','approved',0,
	   '["gaming"]','{"en":"HP Victus 16 gaming laptop."}')`)

	return tx.Commit()
}

// seedUsers ensures demo seller and admin accounts exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-nino", "nino@lapmart.test", "Nino", "USER", "Passw0rd!"),
		mk("u-giorgi", "giorgi@lapmart.test", "Giorgi", "USER", "Passw0rd!"),
		mk("u-admin", "admin@lapmart.test", "Admin", "ADMIN", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}

	return tx.Commit()
}
