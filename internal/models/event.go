package models

import "time"

// Event represents a scheduled get-together inside a group.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	// GroupID is the group that owns this event.
	GroupID string `json:"groupId"`

	// Name is the title of the event (e.g., "Friday tacos").
	Name string `json:"name"`

	// Date is when the event is scheduled. The zero value means unknown.
	Date time.Time `json:"date"`

	// CreatorID is the user who created the event.
	CreatorID string `json:"creatorId"`

	// Participants is the list of user IDs attending.
	// The creator is conventionally included.
	Participants []string `json:"participants"`

	// CreatedAt is the Unix timestamp when the event was recorded.
	CreatedAt int64 `json:"createdAt,omitempty"`
}

// HasParticipant reports whether userID attends the event.
func (e *Event) HasParticipant(userID string) bool {
	return contains(e.Participants, userID)
}

// HasDate reports whether the event carries a usable schedule.
func (e *Event) HasDate() bool {
	return !e.Date.IsZero()
}
