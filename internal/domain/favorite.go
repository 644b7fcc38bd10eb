package domain

import "time"

// Favorite marks a property as saved by a resident. A resident saves a
// property at most once.
type Favorite struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PropertyID string    `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type FavoriteToggleRes struct {
	PropertyID string `json:"property_id"`
	Favorited  bool   `json:"favorited"`
}
