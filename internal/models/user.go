package models

// User is the minimal projection of a service user carried inside
// registration snapshots and join requests.
type User struct {
	// UserID is the numeric service-assigned identifier
	UserID int64 `json:"user_id"`

	// LoginID is the login identifier string
	LoginID string `json:"id"`

	// Name is the display name
	Name string `json:"user_name"`

	// Email is the contact address
	Email string `json:"email"`

	// Role is the user's role within the platform
	Role string `json:"user_role"`
}
