package domain

import "time"

type Review struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	UserID     string    `json:"user_id"`
	AuthorName string    `json:"author_name,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

type ReviewReq struct {
	PropertyID string `json:"property_id"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}
