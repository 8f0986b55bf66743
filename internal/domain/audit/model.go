package audit

import "time"

type EventType string

const (
	EventCreated    EventType = "CREATED"
	EventAssigned   EventType = "ASSIGNED"
	EventUpdated    EventType = "UPDATED"
	EventReassigned EventType = "REASSIGNED"
)

// Event is one append-only entry in an asset's lifecycle trail. Entries are
// never edited or deleted once written.
type Event struct {
	ID          int64
	AssetID     int64
	Type        EventType
	Description string
	CreatedAt   time.Time
	CreatedBy   *int64
}
