package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"roomatch/server/internal/models"
)

type Database struct {
	db *sql.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	if err != nil {
		return nil, err
	}

	return &Database{db: db}, nil
}

func (d *Database) GetDB() *sql.DB {
	return d.db
}

func (d *Database) Close() error {
	return d.db.Close()
}

const listingColumns = `
        id,
        user_id,
        title,
        category,
        price,
        country,
        city,
        COALESCE(zone, '') as zone,
        latitude,
        longitude,
        square_meters,
        COALESCE(created_at, CURRENT_TIMESTAMP) as created_at,
        is_active`

func scanListing(scanner interface{ Scan(...interface{}) error }) (*models.Listing, error) {
	var listing models.Listing
	var lat, lon sql.NullFloat64
	var sqm sql.NullInt64

	err := scanner.Scan(
		&listing.ID,
		&listing.UserID,
		&listing.Title,
		&listing.Category,
		&listing.Price,
		&listing.Country,
		&listing.City,
		&listing.Zone,
		&lat,
		&lon,
		&sqm,
		&listing.CreatedAt,
		&listing.IsActive,
	)
	if err != nil {
		return nil, err
	}

	if lat.Valid {
		listing.Latitude = &lat.Float64
	}
	if lon.Valid {
		listing.Longitude = &lon.Float64
	}
	if sqm.Valid {
		v := int(sqm.Int64)
		listing.SquareMeters = &v
	}

	return &listing, nil
}

// GetListing returns the listing with the given ID, or (nil, nil) when it
// does not exist.
func (d *Database) GetListing(listingID int64) (*models.Listing, error) {
	row := d.db.QueryRow(`SELECT `+listingColumns+` FROM listings WHERE id = ?`, listingID)
	listing, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get listing %d: %v", listingID, err)
	}
	return listing, nil
}

// GetActiveListings returns all active listings except the excluded IDs.
func (d *Database) GetActiveListings(excludeIDs map[int64]struct{}) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE is_active = 1`
	var args []interface{}

	if len(excludeIDs) > 0 {
		placeholders := make([]string, 0, len(excludeIDs))
		for id := range excludeIDs {
			placeholders = append(placeholders, "?")
			args = append(args, id)
		}
		query += fmt.Sprintf(" AND id NOT IN (%s)", strings.Join(placeholders, ","))
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active listings: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

// SearchFilters narrows a listing search. Prices are in minor currency
// units; zero values mean "no constraint".
type SearchFilters struct {
	City     string
	Category models.Category
	MinPrice int
	MaxPrice int
}

// SearchListings returns active listings matching the filters, newest
// first. Geo narrowing (bounds/radius) is applied by the caller on top.
func (d *Database) SearchListings(filters SearchFilters) ([]models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE is_active = 1`
	var args []interface{}

	if filters.City != "" {
		query += " AND LOWER(city) LIKE ?"
		args = append(args, "%"+strings.ToLower(filters.City)+"%")
	}
	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filters.Category))
	}
	if filters.MinPrice > 0 {
		query += " AND price >= ?"
		args = append(args, filters.MinPrice)
	}
	if filters.MaxPrice > 0 {
		query += " AND price <= ?"
		args = append(args, filters.MaxPrice)
	}

	query += " ORDER BY created_at DESC, id DESC"

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %v", err)
	}
	defer rows.Close()

	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]models.Listing, error) {
	var listings []models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan listing: %v", err)
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

// CreateListing inserts a listing and fills in its assigned ID.
func (d *Database) CreateListing(listing *models.Listing) error {
	var sqm interface{}
	if listing.SquareMeters != nil {
		sqm = *listing.SquareMeters
	}
	var lat, lon interface{}
	if listing.Latitude != nil {
		lat = *listing.Latitude
	}
	if listing.Longitude != nil {
		lon = *listing.Longitude
	}

	result, err := d.db.Exec(`
        INSERT INTO listings (user_id, title, category, price, country, city, zone, latitude, longitude, square_meters, created_at, is_active)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		listing.UserID,
		listing.Title,
		string(listing.Category),
		listing.Price,
		listing.Country,
		listing.City,
		listing.Zone,
		lat,
		lon,
		sqm,
		listing.CreatedAt,
		listing.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to insert listing: %v", err)
	}

	listing.ID, err = result.LastInsertId()
	return err
}

// DeactivateListing soft-deletes a listing; rows are never physically
// removed.
func (d *Database) DeactivateListing(listingID int64) error {
	_, err := d.db.Exec(`UPDATE listings SET is_active = 0 WHERE id = ?`, listingID)
	if err != nil {
		return fmt.Errorf("failed to deactivate listing %d: %v", listingID, err)
	}
	return nil
}

// CreateUser inserts a user and fills in its assigned ID.
func (d *Database) CreateUser(user *models.User) error {
	result, err := d.db.Exec(`
        INSERT INTO users (email, name, created_at)
        VALUES (?, ?, ?)`,
		user.Email,
		user.Name,
		user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %v", err)
	}

	user.ID, err = result.LastInsertId()
	return err
}

func (d *Database) UserExists(userID int64) (bool, error) {
	var exists bool
	err := d.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)`, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user %d: %v", userID, err)
	}
	return exists, nil
}

// GetInteractionsByUser returns all recorded interactions for a user,
// oldest first.
func (d *Database) GetInteractionsByUser(userID int64) ([]models.InteractionEvent, error) {
	rows, err := d.db.Query(`
        SELECT id, user_id, listing_id, kind, COALESCE(created_at, CURRENT_TIMESTAMP) as created_at
        FROM interactions
        WHERE user_id = ?
        ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions for user %d: %v", userID, err)
	}
	defer rows.Close()

	var events []models.InteractionEvent
	for rows.Next() {
		var event models.InteractionEvent
		if err := rows.Scan(&event.ID, &event.UserID, &event.ListingID, &event.Kind, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %v", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// InsertInteraction records an interaction. Repeating the same
// (user, listing, kind) is a no-op, per the dedup constraint.
func (d *Database) InsertInteraction(event *models.InteractionEvent) error {
	_, err := d.db.Exec(`
        INSERT INTO interactions (user_id, listing_id, kind, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(user_id, listing_id, kind) DO NOTHING`,
		event.UserID,
		event.ListingID,
		string(event.Kind),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %v", err)
	}
	return nil
}

// BackfillCoordinates fills missing listing coordinates from a city-center
// lookup and returns the number of updated rows. Listings in cities the
// lookup does not know stay un-geocoded.
func (d *Database) BackfillCoordinates(centerForCity func(city string) (lat, lon float64, ok bool)) (int, error) {
	rows, err := d.db.Query(`SELECT id, city FROM listings WHERE latitude IS NULL OR longitude IS NULL`)
	if err != nil {
		return 0, fmt.Errorf("failed to query listings without coordinates: %v", err)
	}
	defer rows.Close()

	type pending struct {
		id   int64
		city string
	}
	var todo []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.id, &p.city); err != nil {
			return 0, fmt.Errorf("failed to scan listing: %v", err)
		}
		todo = append(todo, p)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	updated := 0
	for _, p := range todo {
		lat, lon, ok := centerForCity(p.city)
		if !ok {
			continue
		}
		if _, err := d.db.Exec(`UPDATE listings SET latitude = ?, longitude = ? WHERE id = ?`, lat, lon, p.id); err != nil {
			return updated, fmt.Errorf("failed to update coordinates for listing %d: %v", p.id, err)
		}
		updated++
	}

	return updated, nil
}
