package engine

// EventKind classifies a normalized inbound delivery.
type EventKind string

const (
	EventText   EventKind = "text"
	EventButton EventKind = "interactive_button"
	EventList   EventKind = "interactive_list"
	EventOther  EventKind = "other"
)

// InboundEvent is the canonical shape extracted from a webhook delivery.
// Exactly one of Text/SelectionID is populated, depending on Kind.
type InboundEvent struct {
	SenderID    string
	Kind        EventKind
	Text        string
	SelectionID string
	ChannelID   string // phone_number_id the message arrived on; addresses the reply
	MessageID   string // platform message id, used for duplicate suppression
}

// IsSelection reports whether the event carries a button or list reply.
func (e InboundEvent) IsSelection() bool {
	return e.Kind == EventButton || e.Kind == EventList
}
