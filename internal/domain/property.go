package domain

import "time"

type PropertyStatus string

const (
	PropertyAvailable   PropertyStatus = "AVAILABLE"
	PropertyOccupied    PropertyStatus = "OCCUPIED"
	PropertyMaintenance PropertyStatus = "MAINTENANCE"
)

type PropertyType string

const (
	PropertyApartment PropertyType = "APARTMENT"
	PropertyHouse     PropertyType = "HOUSE"
	PropertyVilla     PropertyType = "VILLA"
	PropertyStudio    PropertyType = "STUDIO"
)

func ParsePropertyType(s string) (PropertyType, bool) {
	switch PropertyType(s) {
	case PropertyApartment, PropertyHouse, PropertyVilla, PropertyStudio:
		return PropertyType(s), true
	default:
		return "", false
	}
}

type Property struct {
	ID            string          `json:"id"`
	ManagerID     string          `json:"manager_id"`
	Title         string          `json:"title"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description"`
	Type          PropertyType    `json:"type"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	Country       string          `json:"country"`
	Bedrooms      int             `json:"bedrooms"`
	Bathrooms     int             `json:"bathrooms"`
	SquareFeet    *int            `json:"square_feet,omitempty"`
	PricePerMonth float64         `json:"price_per_month"`
	Currency      string          `json:"currency"`
	BillingPeriod string          `json:"billing_period"`
	Amenities     []string        `json:"amenities"`
	Status        PropertyStatus  `json:"status"`
	Images        []PropertyImage `json:"images,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type PropertyImage struct {
	ID           string `json:"id"`
	PropertyID   string `json:"property_id"`
	URL          string `json:"url"`
	Caption      string `json:"caption,omitempty"`
	IsPrimary    bool   `json:"is_primary"`
	DisplayOrder int    `json:"display_order"`
}

type PropertyImageReq struct {
	URL       string `json:"url"`
	Caption   string `json:"caption,omitempty"`
	IsPrimary bool   `json:"is_primary,omitempty"`
}

type PropertyReq struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Type          PropertyType       `json:"type"`
	Address       string             `json:"address"`
	City          string             `json:"city"`
	Country       string             `json:"country"`
	Bedrooms      int                `json:"bedrooms"`
	Bathrooms     int                `json:"bathrooms"`
	SquareFeet    *int               `json:"square_feet,omitempty"`
	PricePerMonth float64            `json:"price_per_month"`
	Currency      string             `json:"currency,omitempty"`
	BillingPeriod string             `json:"billing_period,omitempty"`
	Amenities     []string           `json:"amenities"`
	Images        []PropertyImageReq `json:"images"`
}

type PropertySearch struct {
	City        string
	Type        *PropertyType
	MinPrice    *float64
	MaxPrice    *float64
	MinBedrooms *int
	Limit       int
	Offset      int
}
