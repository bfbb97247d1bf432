package engine

import "context"

// Action is an outbound instruction produced by a transition. The engine
// never talks to the gateway itself; the dispatcher executes actions in
// order after the transition returns.
type Action interface {
	action()
}

// Button is one reply button (WhatsApp allows at most three per message).
type Button struct {
	ID    string
	Title string
}

// Row is one list entry.
type Row struct {
	ID          string
	Title       string
	Description string
}

// Section groups list rows under an optional title.
type Section struct {
	Title string
	Rows  []Row
}

// SendText sends a plain text message.
type SendText struct {
	Body string
}

// SendButtons sends an interactive button message.
type SendButtons struct {
	Header  string
	Body    string
	Buttons []Button
}

// SendList sends an interactive list message.
type SendList struct {
	Header      string
	Body        string
	ButtonLabel string
	Sections    []Section
}

func (SendText) action()    {}
func (SendButtons) action() {}
func (SendList) action()    {}

// Gateway renders and transmits outbound messages. Implemented by the
// Meta Graph API client; faked in tests.
type Gateway interface {
	SendText(ctx context.Context, to, channelID string, msg SendText) error
	SendButtons(ctx context.Context, to, channelID string, msg SendButtons) error
	SendList(ctx context.Context, to, channelID string, msg SendList) error
}
