package domain

import "time"

type ApplicationStatus string

const (
	ApplicationPending  ApplicationStatus = "PENDING"
	ApplicationApproved ApplicationStatus = "APPROVED"
	ApplicationRejected ApplicationStatus = "REJECTED"
)

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case ApplicationPending, ApplicationApproved, ApplicationRejected:
		return ApplicationStatus(s), true
	default:
		return "", false
	}
}

// Application is a rental application submitted by a resident, reviewed by
// an administrator.
type Application struct {
	ID         string            `json:"id"`
	PropertyID string            `json:"property_id"`
	UserID     string            `json:"user_id"`
	Message    string            `json:"message,omitempty"`
	Status     ApplicationStatus `json:"status"`
	Reason     string            `json:"reason,omitempty"`
	ReviewedBy string            `json:"reviewed_by,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

type ApplicationReq struct {
	PropertyID string `json:"property_id"`
	Message    string `json:"message,omitempty"`
}

type ApplicationReviewReq struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}
