package model

import "time"

const (
	// DefaultCategory is what a listing reverts to when it leaves the
	// Trending bucket without a recorded original category.
	DefaultCategory  = "General"
	TrendingCategory = "Trending"
)

// Categories a host can assign. Trending is derived from review ratings and
// is never assignable directly.
var AssignableCategories = []string{
	DefaultCategory,
	"Rooms",
	"Mountains",
	"Castles",
	"Amazing Pools",
	"Camping",
	"Farms",
	"Arctic",
}

// UserRef is the denormalized owner/guest/host contact carried on listings
// and bookings. Account management itself lives outside these services.
type UserRef struct {
	ID       string `json:"id" bson:"id" validate:"required"`
	Username string `json:"username" bson:"username" validate:"omitempty,max=100"`
	Email    string `json:"email" bson:"email" validate:"omitempty,email"`
}

// Geometry is a GeoJSON point: coordinates are [longitude, latitude].
type Geometry struct {
	Type        string    `json:"type" bson:"type" validate:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates" validate:"required,len=2"`
}

type Image struct {
	URL      string `json:"url,omitempty" bson:"url,omitempty" validate:"omitempty,url"`
	Filename string `json:"filename,omitempty" bson:"filename,omitempty"`
}

type Listing struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title       string `json:"title" bson:"title" validate:"required,min=2,max=200"`
	Description string `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=5000"`
	Image       Image  `json:"image,omitempty" bson:"image,omitempty"`

	// Price is the per-night base rate in whole currency units.
	Price      int64 `json:"price" bson:"price" validate:"required,min=1"`
	TotalRooms int   `json:"total_rooms" bson:"total_rooms" validate:"required,min=1,max=500"`

	Location string `json:"location" bson:"location" validate:"required,min=2,max=200"`
	Country  string `json:"country" bson:"country" validate:"required,min=2,max=100"`

	Category string `json:"category" bson:"category" validate:"omitempty"`
	// OriginalCategory preserves the base category while the listing sits in
	// the Trending bucket; empty otherwise.
	OriginalCategory string `json:"original_category,omitempty" bson:"original_category,omitempty"`

	Geometry Geometry `json:"geometry" bson:"geometry"`
	Owner    UserRef  `json:"owner" bson:"owner" validate:"required"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ListingUpdate struct {
	Title       string `json:"title,omitempty" validate:"omitempty,min=2,max=200"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Image       *Image `json:"image,omitempty"`
	Price       *int64 `json:"price,omitempty" validate:"omitempty,min=1"`
	TotalRooms  *int   `json:"total_rooms,omitempty" validate:"omitempty,min=1,max=500"`
	Location    string `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	Country     string `json:"country,omitempty" validate:"omitempty,min=2,max=100"`
	Category    string `json:"category,omitempty" validate:"omitempty"`
}
