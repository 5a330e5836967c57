package model

// EventType identifies what kind of activity a notification describes.
type EventType string

const (
	EventLike    EventType = "like"
	EventComment EventType = "comment"
	EventReply   EventType = "reply"
	EventReport  EventType = "report"
	EventPost    EventType = "post"
	EventSystem  EventType = "system"
)

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case EventLike, EventComment, EventReply, EventReport, EventPost, EventSystem:
		return true
	default:
		return false
	}
}

// NotificationEvent is a single notification addressed to one recipient.
// It is never stored client-side; the backend owns the record.
type NotificationEvent struct {
	RecipientID string
	Type        EventType
	Content     string
}

// RecipientFailure records a recipient whose notification could not be created.
type RecipientFailure struct {
	RecipientID string
	Err         error
}

// FanoutResult summarises a batch of notification creations.
type FanoutResult struct {
	Attempted int
	Succeeded int
	Failed    []RecipientFailure
}

// Merge folds other into r.
func (r *FanoutResult) Merge(other FanoutResult) {
	r.Attempted += other.Attempted
	r.Succeeded += other.Succeeded
	r.Failed = append(r.Failed, other.Failed...)
}
