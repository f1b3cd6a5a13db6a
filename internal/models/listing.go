package models

import "time"

// Category is the type of rentable unit.
type Category string

const (
	CategorySingleRoom Category = "single_room"
	CategorySharedRoom Category = "shared_room"
	CategoryStudio     Category = "studio"
	CategoryOneBedroom Category = "one_bedroom"
	CategoryOther      Category = "other"
)

// ValidCategory reports whether c is one of the known listing categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategorySingleRoom, CategorySharedRoom, CategoryStudio, CategoryOneBedroom, CategoryOther:
		return true
	}
	return false
}

type Listing struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Title        string    `json:"title"`
	Category     Category  `json:"category"`
	Price        int       `json:"price"` // minor currency units (euro cents)
	Country      string    `json:"country"`
	City         string    `json:"city"`
	Zone         string    `json:"zone,omitempty"`
	Latitude     *float64  `json:"latitude"`
	Longitude    *float64  `json:"longitude"`
	SquareMeters *int      `json:"square_meters,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	IsActive     bool      `json:"is_active"`
}

// HasCoordinates reports whether the listing is geocoded. Listings without
// coordinates never participate in map or radius filtering.
func (l *Listing) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
