package webhook

import (
	"github.com/Conversly/clinic-assist/internal/engine"
)

// Normalize extracts a canonical inbound event from a webhook delivery.
// It is total: ok=false means the delivery carries nothing for the
// engine (status callbacks, empty envelopes, missing sender) and must be
// acknowledged without side effects. Unsupported message types come back
// ok=true with Kind=EventOther so the caller can short-circuit them
// explicitly.
func Normalize(p *Payload) (engine.InboundEvent, bool) {
	if p == nil || len(p.Entry) == 0 {
		return engine.InboundEvent{}, false
	}
	entry := p.Entry[0]
	if len(entry.Changes) == 0 {
		return engine.InboundEvent{}, false
	}
	value := entry.Changes[0].Value
	if len(value.Messages) == 0 {
		// Delivery-status callbacks arrive with statuses only.
		return engine.InboundEvent{}, false
	}

	msg := value.Messages[0]
	if msg.From == "" {
		return engine.InboundEvent{}, false
	}

	ev := engine.InboundEvent{
		SenderID:  msg.From,
		ChannelID: value.Metadata.PhoneNumberID,
		MessageID: msg.ID,
		Kind:      engine.EventOther,
	}

	switch msg.Type {
	case "text":
		if msg.Text == nil || msg.Text.Body == "" {
			return engine.InboundEvent{}, false
		}
		ev.Kind = engine.EventText
		ev.Text = msg.Text.Body

	case "interactive":
		if msg.Interactive == nil {
			return engine.InboundEvent{}, false
		}
		switch {
		case msg.Interactive.Type == "button_reply" && msg.Interactive.ButtonReply != nil:
			ev.Kind = engine.EventButton
			ev.SelectionID = msg.Interactive.ButtonReply.ID
		case msg.Interactive.Type == "list_reply" && msg.Interactive.ListReply != nil:
			ev.Kind = engine.EventList
			ev.SelectionID = msg.Interactive.ListReply.ID
		default:
			return engine.InboundEvent{}, false
		}
		if ev.SelectionID == "" {
			return engine.InboundEvent{}, false
		}
	}

	return ev, true
}
