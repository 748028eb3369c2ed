package wallhaven

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/constants"
	"git.asdf.cafe/abs3nt/wallhaven_wallpaper/errors"
)

// CatalogEntry describes a wallpaper that has been applied at least once
type CatalogEntry struct {
	ID           string    `json:"id"`
	Path         string    `json:"path"`
	OriginalURL  string    `json:"original_url"`
	Hash         string    `json:"hash"`
	Size         int64     `json:"size"`
	Resolution   string    `json:"resolution"`
	FirstApplied time.Time `json:"first_applied"`
	LastApplied  time.Time `json:"last_applied"`
	UseCount     int       `json:"use_count"`
}

// Catalog is a SQLite log of applied wallpapers. Unlike the JSON state it
// is unbounded and only read by the history command.
type Catalog struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

// OpenCatalog opens (creating if needed) the catalog database at dbPath
func OpenCatalog(dbPath string, logger *slog.Logger) (*Catalog, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), constants.DirPermissions); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	catalog := &Catalog{db: db, logger: logger, now: time.Now}

	if err := catalog.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return catalog, nil
}

// initialize creates the database schema
func (c *Catalog) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS wallpapers (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		original_url TEXT NOT NULL,
		hash TEXT NOT NULL,
		size INTEGER NOT NULL,
		resolution TEXT,
		first_applied DATETIME NOT NULL,
		last_applied DATETIME NOT NULL,
		use_count INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS applications (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		wallpaper_id TEXT NOT NULL,
		path TEXT NOT NULL,
		applied_at DATETIME NOT NULL,
		FOREIGN KEY (wallpaper_id) REFERENCES wallpapers(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_wallpapers_last_applied ON wallpapers(last_applied);
	CREATE INDEX IF NOT EXISTS idx_applications_wallpaper_id ON applications(wallpaper_id);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Record stores that wallpaper was applied from filePath. Re-applying an id
// bumps its use count and points it at the newest file.
func (c *Catalog) Record(wallpaper *Wallpaper, filePath string) error {
	hash, size, err := CalculateFileHash(filePath)
	if err != nil {
		return fmt.Errorf("%w: failed to calculate hash: %v", errors.ErrCatalogOperation, err)
	}

	resolution := wallpaper.Resolution
	if resolution == "" {
		resolution, err = getImageResolution(filePath)
		if err != nil {
			c.logger.Debug("Failed to get image resolution", "path", filePath, "error", err)
			resolution = ""
		}
	}

	now := c.now()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: failed to begin transaction: %v", errors.ErrCatalogOperation, err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO wallpapers (id, path, original_url, hash, size, resolution, first_applied, last_applied, use_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1)
		ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			hash = excluded.hash,
			size = excluded.size,
			resolution = excluded.resolution,
			last_applied = excluded.last_applied,
			use_count = use_count + 1
	`, wallpaper.ID, filePath, wallpaper.Path, hash, size, resolution, now, now)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert wallpaper: %v", errors.ErrCatalogOperation, err)
	}

	_, err = tx.Exec(`INSERT INTO applications (wallpaper_id, path, applied_at) VALUES (?, ?, ?)`, wallpaper.ID, filePath, now)
	if err != nil {
		return fmt.Errorf("%w: failed to insert application: %v", errors.ErrCatalogOperation, err)
	}

	return tx.Commit()
}

// History returns wallpapers ordered by most recent application
func (c *Catalog) History(limit int) ([]*CatalogEntry, error) {
	rows, err := c.db.Query(`
		SELECT id, path, original_url, hash, size, COALESCE(resolution, ''),
		       first_applied, last_applied, use_count
		FROM wallpapers
		ORDER BY last_applied DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCatalogOperation, err)
	}
	defer rows.Close()

	var entries []*CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.ID, &e.Path, &e.OriginalURL, &e.Hash, &e.Size, &e.Resolution,
			&e.FirstApplied, &e.LastApplied, &e.UseCount); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrCatalogOperation, err)
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// getImageResolution returns the resolution of an image as "WIDTHxHEIGHT"
func getImageResolution(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	img, _, err := image.DecodeConfig(file)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%dx%d", img.Width, img.Height), nil
}

// CalculateFileHash calculates SHA256 hash and size of a file
func CalculateFileHash(filePath string) (string, int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", 0, err
	}
	defer file.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, file)
	if err != nil {
		return "", 0, err
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), size, nil
}
