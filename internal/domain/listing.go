package domain

import "time"

type ListingType string

const (
	ListingTypeSell ListingType = "sell"
	ListingTypeRent ListingType = "rent"
	ListingTypeSwap ListingType = "swap"
)

type ListingStatus string

const (
	ListingStatusAvailable ListingStatus = "available"
	ListingStatusRented    ListingStatus = "rented"
	ListingStatusSwapped   ListingStatus = "swapped"
	ListingStatusSold      ListingStatus = "sold"
)

// Listing is the read-only catalog view this backend consumes. The catalog
// service owns the full record.
type Listing struct {
	ID               int64         `json:"id"`
	OwnerID          int64         `json:"owner_id"`
	Name             string        `json:"name"`
	ListingType      ListingType   `json:"listing_type"`
	Status           ListingStatus `json:"status"`
	PricePerDayCents int64         `json:"price_per_day_cents"`
	CreatedOn        time.Time     `json:"created_on"`
}
