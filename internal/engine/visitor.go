package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/loaders"
	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/utils"
)

// HandleVisitor runs one visitor transition: load (or lazily create) the
// session, compute the next step and actions, store the session back.
func (e *Engine) HandleVisitor(ctx context.Context, ev InboundEvent) []Action {
	sess, err := e.sessions.Get(ctx, ev.SenderID)
	if err != nil {
		utils.Zlog.Error("failed to load visitor session",
			zap.String("sender_id", ev.SenderID),
			zap.Error(err))
	}
	if sess == nil {
		sess = session.NewSession(ev.SenderID)
	}

	actions := e.visitorTransition(ctx, sess, ev)

	sess.UpdatedAt = e.now().UTC()
	if err := e.sessions.Put(ctx, sess); err != nil {
		utils.Zlog.Error("failed to store visitor session",
			zap.String("sender_id", ev.SenderID),
			zap.Error(err))
	}
	return actions
}

func (e *Engine) visitorTransition(ctx context.Context, sess *session.Session, ev InboundEvent) []Action {
	switch {
	case ev.Kind == EventText:
		return e.visitorText(ctx, sess, ev)
	case ev.IsSelection():
		return e.visitorSelection(ctx, sess, ev)
	default:
		return nil
	}
}

// visitorText handles a free-text event. The name and phone steps collect
// strictly; everywhere else the text is treated as an open question and
// answered against the knowledge document.
func (e *Engine) visitorText(ctx context.Context, sess *session.Session, ev InboundEvent) []Action {
	switch sess.Step {
	case session.StepApptName:
		if !validName(ev.Text) {
			return []Action{SendText{Body: nameRetryBody}}
		}
		sess.Set("name", strings.TrimSpace(ev.Text))
		sess.Step = session.StepApptPhone
		return []Action{SendText{Body: phonePromptBody}}

	case session.StepApptPhone:
		digits, ok := normalizePhone(ev.Text)
		if !ok {
			return []Action{SendText{Body: phoneRetryBody}}
		}
		sess.Set("phone", digits)
		return e.completeBooking(ctx, sess)

	default:
		sess.Step = session.StepHomeWaiting
		return []Action{e.answerQuestion(ctx, ev)}
	}
}

// visitorSelection handles a button or list reply. An unrecognized id for
// the current step re-renders that step's prompt; the step never changes.
func (e *Engine) visitorSelection(ctx context.Context, sess *session.Session, ev InboundEvent) []Action {
	id := ev.SelectionID

	switch sess.Step {
	case session.StepHome, session.StepHomeWaiting:
		return e.menuSelection(sess, id)

	case session.StepApptDay:
		switch id {
		case SelApptToday:
			return e.selectDay(sess, e.now().Weekday().String())
		case SelApptTomorrow:
			return e.selectDay(sess, e.now().AddDate(0, 0, 1).Weekday().String())
		case SelApptPickDay:
			sess.Step = session.StepApptPickDay
			return []Action{pickDayListAction()}
		default:
			return []Action{dayPromptAction()}
		}

	case session.StepApptPickDay:
		if name, ok := pickDayName(id); ok {
			return e.selectDay(sess, name)
		}
		return []Action{pickDayListAction()}

	case session.StepApptTime:
		if title, ok := timeSlotTitle(id); ok {
			sess.Set("time", title)
			sess.Step = session.StepApptName
			return []Action{SendText{Body: namePromptBody}}
		}
		return []Action{timeListAction()}

	case session.StepFAQMenu:
		if answer, ok := faqAnswer(id); ok {
			return []Action{SendButtons{
				Body:    answer,
				Buttons: faqFollowupButtons(),
			}}
		}
		switch id {
		case SelHome:
			sess.Step = session.StepHomeWaiting
			return []Action{mainMenuAction(welcomeBody)}
		case SelFAQ:
			return []Action{faqListAction()}
		default:
			return []Action{faqListAction()}
		}

	case session.StepApptName:
		return []Action{SendText{Body: namePromptBody}}

	case session.StepApptPhone:
		return []Action{SendText{Body: phonePromptBody}}

	default:
		return e.menuSelection(sess, id)
	}
}

// menuSelection handles the main menu. Day selections are accepted here
// too so a visitor tapping a stale day button still lands in the booking
// flow instead of a dead end.
func (e *Engine) menuSelection(sess *session.Session, id string) []Action {
	switch id {
	case SelBookAppointment:
		sess.Step = session.StepApptDay
		return []Action{dayPromptAction()}
	case SelFAQ:
		sess.Step = session.StepFAQMenu
		return []Action{faqListAction()}
	case SelApptToday:
		return e.selectDay(sess, e.now().Weekday().String())
	case SelApptTomorrow:
		return e.selectDay(sess, e.now().AddDate(0, 0, 1).Weekday().String())
	case SelApptPickDay:
		sess.Step = session.StepApptPickDay
		return []Action{pickDayListAction()}
	default:
		sess.Step = session.StepHomeWaiting
		return []Action{mainMenuAction(welcomeBody)}
	}
}

// selectDay stores the chosen weekday and moves to time selection.
func (e *Engine) selectDay(sess *session.Session, dayName string) []Action {
	sess.Set("day", dayName)
	sess.Step = session.StepApptTime
	return []Action{timeListAction()}
}

// completeBooking persists the collected appointment and resets to the
// main menu. A failed insert keeps the phone step so resending retries.
func (e *Engine) completeBooking(ctx context.Context, sess *session.Session) []Action {
	rec := loaders.AppointmentRecord{
		SenderID: sess.SenderID,
		Name:     sess.Get("name"),
		Phone:    sess.Get("phone"),
		Day:      sess.Get("day"),
		TimeSlot: sess.Get("time"),
	}

	if _, err := e.appointments.CreateAppointment(ctx, rec); err != nil {
		utils.Zlog.Error("failed to persist appointment",
			zap.String("sender_id", sess.SenderID),
			zap.Error(err))
		return []Action{SendText{Body: persistRetryBody}}
	}

	sess.Step = session.StepHomeWaiting
	body := fmt.Sprintf("You're booked for %s at %s, %s. See you then!",
		rec.Day, rec.TimeSlot, rec.Name)
	return []Action{SendButtons{
		Body:    body,
		Buttons: mainMenuButtons(),
	}}
}

func mainMenuAction(body string) SendButtons {
	return SendButtons{
		Body:    body,
		Buttons: mainMenuButtons(),
	}
}

func dayPromptAction() SendButtons {
	return SendButtons{
		Body:    dayPromptBody,
		Buttons: dayButtons(),
	}
}

func timeListAction() SendList {
	return SendList{
		Body:        timePromptBody,
		ButtonLabel: "Times",
		Sections: []Section{
			{Title: "Available times", Rows: timeSlots},
		},
	}
}

func pickDayListAction() SendList {
	return SendList{
		Body:        pickDayBody,
		ButtonLabel: "Days",
		Sections: []Section{
			{Title: "This week", Rows: pickDays()},
		},
	}
}

func faqListAction() SendList {
	return SendList{
		Body:        faqMenuBody,
		ButtonLabel: "Questions",
		Sections: []Section{
			{Title: "Common questions", Rows: faqRows()},
		},
	}
}

func faqFollowupButtons() []Button {
	return []Button{
		{ID: SelFAQ, Title: "More FAQs"},
		{ID: SelHome, Title: "Main menu"},
	}
}
