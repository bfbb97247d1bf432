package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/llm"
	"github.com/Conversly/clinic-assist/internal/loaders"
	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/utils"
)

// OverrideStore persists schedule overrides. Implemented by the Postgres
// loader; faked in tests.
type OverrideStore interface {
	CreateOverride(ctx context.Context, rec loaders.OverrideRecord) (loaders.OverrideRecord, error)
	ListOverridesByDate(ctx context.Context, date string) ([]loaders.OverrideRecord, error)
}

// AppointmentStore persists completed bookings.
type AppointmentStore interface {
	CreateAppointment(ctx context.Context, rec loaders.AppointmentRecord) (loaders.AppointmentRecord, error)
}

// Engine computes conversation transitions. Given an inbound event and
// the sender's current session it decides the next step and the outbound
// actions; it never calls the gateway itself.
type Engine struct {
	sessions     session.Store
	overrides    OverrideStore
	appointments AppointmentStore
	ai           llm.Provider

	// now is swappable so date-dependent transitions are testable.
	now func() time.Time

	qaTemperature   float32
	slotTemperature float32
}

func New(sessions session.Store, overrides OverrideStore, appointments AppointmentStore, ai llm.Provider) *Engine {
	return &Engine{
		sessions:        sessions,
		overrides:       overrides,
		appointments:    appointments,
		ai:              ai,
		now:             time.Now,
		qaTemperature:   0.7,
		slotTemperature: 0,
	}
}

// answerQuestion runs the free-text Q&A path: the question plus the fixed
// knowledge document go to the model, and the answer is returned with the
// two primary menu entries. A failed call substitutes the apology text;
// this path never surfaces an error.
func (e *Engine) answerQuestion(ctx context.Context, ev InboundEvent) SendButtons {
	answer, err := e.ai.Complete(ctx, qaPrompt(ev.Text), e.qaTemperature, "")
	if err != nil {
		utils.Zlog.Warn("Q&A completion failed",
			zap.String("sender_id", ev.SenderID),
			zap.Error(err))
		answer = apologyBody
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = apologyBody
	}

	return SendButtons{
		Body:    answer,
		Buttons: mainMenuButtons(),
	}
}

// validName accepts non-empty text longer than one character.
func validName(text string) bool {
	return len(strings.TrimSpace(text)) > 1
}

// normalizePhone strips non-digit characters. The result is accepted iff
// it carries at least ten digits.
func normalizePhone(text string) (string, bool) {
	var digits strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	return d, len(d) >= 10
}
