package domain

import "time"

// Event types published to the message bus
const (
	EventUserRegistered = "user.registered"
	EventVideoPublished = "video.published"
	EventVideoViewed    = "video.viewed"
	EventVideoDeleted   = "video.deleted"
	EventToggleChanged  = "toggle.changed"
	EventMediaDiscarded = "media.discarded"
)

// ActivityEvent records something a user did
type ActivityEvent struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	ActorID    string            `json:"actor_id"`
	TargetKind string            `json:"target_kind,omitempty"`
	TargetID   string            `json:"target_id,omitempty"`
	Active     *bool             `json:"active,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// MediaDiscardedEvent asks the janitor to delete an object that is no longer referenced
type MediaDiscardedEvent struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Reason     string    `json:"reason"`
	OwnerID    string    `json:"owner_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
