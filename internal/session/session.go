package session

import "time"

// Step is the named state of a sender's conversation. The set is closed;
// every transition in the engine dispatches on one of these values.
type Step string

// Visitor steps.
const (
	StepHome              Step = "home"
	StepHomeWaiting       Step = "home_waiting"
	StepFAQMenu           Step = "faq_menu"
	StepApptDay           Step = "appt_day"
	StepApptPickDay       Step = "appt_pick_day_waiting"
	StepApptTime          Step = "appt_time_waiting"
	StepApptName          Step = "appt_name"
	StepApptPhone         Step = "appt_phone"
)

// Admin steps. Admin state is keyed per sender like visitor sessions;
// nothing here is process-wide.
const (
	StepAdminMenu     Step = "admin_menu"
	StepAdminDate     Step = "admin_date_waiting"
	StepAdminSlotText Step = "admin_slot_text"
)

// Session is one visitor conversation. Created lazily on first contact,
// mutated only by the engine, never deleted.
type Session struct {
	SenderID  string            `json:"sender_id"`
	Step      Step              `json:"step"`
	Data      map[string]string `json:"data,omitempty"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// NewSession returns a fresh visitor session at the home step.
func NewSession(senderID string) *Session {
	return &Session{
		SenderID:  senderID,
		Step:      StepHome,
		Data:      make(map[string]string),
		UpdatedAt: time.Now().UTC(),
	}
}

// Set stores a collected slot value.
func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	s.Data[key] = value
}

// Get reads a collected slot value.
func (s *Session) Get(key string) string {
	return s.Data[key]
}

// AdminSession is one admin's leave-scheduling state.
type AdminSession struct {
	SenderID    string    `json:"sender_id"`
	Step        Step      `json:"step"`
	PendingKind string    `json:"pending_kind,omitempty"` // which date list is open: "full" or "partial"
	PendingDate string    `json:"pending_date,omitempty"` // ISO date awaiting partial-leave time ranges
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAdminSession returns a fresh admin session at the menu step.
func NewAdminSession(senderID string) *AdminSession {
	return &AdminSession{
		SenderID:  senderID,
		Step:      StepAdminMenu,
		UpdatedAt: time.Now().UTC(),
	}
}
