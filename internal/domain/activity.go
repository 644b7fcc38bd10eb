package domain

import "time"

// ActivityLog is an append-only audit record of a state-changing action.
type ActivityLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Details    string    `json:"details,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Audit actions
const (
	ActionCreateProperty    = "CREATE_PROPERTY"
	ActionUpdateProperty    = "UPDATE_PROPERTY"
	ActionDeleteProperty    = "DELETE_PROPERTY"
	ActionCreateBooking     = "CREATE_BOOKING"
	ActionUpdateBooking     = "UPDATE_BOOKING_STATUS"
	ActionConfirmPayment    = "CONFIRM_PAYMENT"
	ActionReviewApplication = "REVIEW_APPLICATION"
	ActionUpdateUserRole    = "UPDATE_USER_ROLE"
)

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactReq struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}
