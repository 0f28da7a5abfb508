package models

// User represents a person using the app.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// GroupIDs lists the groups the user has joined.
	GroupIDs []string `json:"groupIds,omitempty"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"createdAt,omitempty"`
}
