package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Conversly/clinic-assist/internal/loaders"
	"github.com/Conversly/clinic-assist/internal/session"
	"github.com/Conversly/clinic-assist/internal/utils"
)

// HandleAdmin runs one admin transition. Admin state is per sender, same
// lifecycle as visitor sessions; two admins scheduling leave at the same
// time cannot touch each other's pending date.
func (e *Engine) HandleAdmin(ctx context.Context, ev InboundEvent) []Action {
	sess, err := e.sessions.GetAdmin(ctx, ev.SenderID)
	if err != nil {
		utils.Zlog.Error("failed to load admin session",
			zap.String("sender_id", ev.SenderID),
			zap.Error(err))
	}
	if sess == nil {
		sess = session.NewAdminSession(ev.SenderID)
	}

	actions := e.adminTransition(ctx, sess, ev)

	sess.UpdatedAt = e.now().UTC()
	if err := e.sessions.PutAdmin(ctx, sess); err != nil {
		utils.Zlog.Error("failed to store admin session",
			zap.String("sender_id", ev.SenderID),
			zap.Error(err))
	}
	return actions
}

func (e *Engine) adminTransition(ctx context.Context, sess *session.AdminSession, ev InboundEvent) []Action {
	switch {
	case ev.Kind == EventText:
		return e.adminText(ctx, sess, ev)
	case ev.IsSelection():
		return e.adminSelection(ctx, sess, ev)
	default:
		return nil
	}
}

func (e *Engine) adminText(ctx context.Context, sess *session.AdminSession, ev InboundEvent) []Action {
	if sess.Step == session.StepAdminSlotText {
		return e.adminSlotText(ctx, sess, ev)
	}
	// Any other text is first contact (or a stray message): show the menu.
	sess.Step = session.StepAdminMenu
	return []Action{adminMenuAction("", adminMenuBody)}
}

// adminSelection dispatches a button or list reply. Unrecognized ids
// re-render the current step's prompt, matching the visitor discipline.
func (e *Engine) adminSelection(ctx context.Context, sess *session.AdminSession, ev InboundEvent) []Action {
	id := ev.SelectionID

	switch sess.Step {
	case session.StepAdminDate:
		if kind, date, ok := parseAdminDateID(id); ok {
			if kind == loaders.OverrideFullDayLeave {
				return e.adminFullDayLeave(ctx, sess, date)
			}
			sess.PendingDate = date
			sess.Step = session.StepAdminSlotText
			return []Action{SendText{
				Body: fmt.Sprintf("Send your available time ranges for %s, e.g. \"9am to 1pm and 3pm to 5pm\".", displayDate(date)),
			}}
		}
		// Menu buttons still work while a date list is open.
		if actions, ok := e.adminMenuSelection(sess, id); ok {
			return actions
		}
		return []Action{adminDateListAction(e.now(), pendingKind(sess))}

	default:
		if actions, ok := e.adminMenuSelection(sess, id); ok {
			return actions
		}
		return []Action{adminMenuAction("", adminMenuBody)}
	}
}

// adminMenuSelection handles the two top-level leave buttons.
func (e *Engine) adminMenuSelection(sess *session.AdminSession, id string) ([]Action, bool) {
	switch id {
	case SelSetFullDayLeave:
		sess.Step = session.StepAdminDate
		sess.PendingKind = "full"
		sess.PendingDate = ""
		return []Action{adminDateListAction(e.now(), loaders.OverrideFullDayLeave)}, true
	case SelSetPartialLeave:
		sess.Step = session.StepAdminDate
		sess.PendingKind = "partial"
		sess.PendingDate = ""
		return []Action{adminDateListAction(e.now(), loaders.OverrideCustomRanges)}, true
	default:
		return nil, false
	}
}

// pendingKind maps the open date list back to its override kind.
func pendingKind(sess *session.AdminSession) loaders.OverrideKind {
	if sess.PendingKind == "partial" {
		return loaders.OverrideCustomRanges
	}
	return loaders.OverrideFullDayLeave
}

// adminFullDayLeave persists a whole-day override and loops back to the menu.
func (e *Engine) adminFullDayLeave(ctx context.Context, sess *session.AdminSession, date string) []Action {
	_, err := e.overrides.CreateOverride(ctx, loaders.OverrideRecord{
		Date: date,
		Kind: loaders.OverrideFullDayLeave,
	})
	if err != nil {
		utils.Zlog.Error("failed to persist full-day override",
			zap.String("sender_id", sess.SenderID),
			zap.String("date", date),
			zap.Error(err))
		return []Action{SendText{Body: persistRetryBody}}
	}

	sess.Step = session.StepAdminMenu
	sess.PendingKind = ""
	sess.PendingDate = ""
	return []Action{leaveConfirmationAction(date)}
}

// adminSlotText converts the admin's free-form availability text into
// structured ranges through the model and persists them for the pending
// date. A parse failure re-prompts and keeps the step, so the admin can
// simply resend.
func (e *Engine) adminSlotText(ctx context.Context, sess *session.AdminSession, ev InboundEvent) []Action {
	raw, err := e.ai.Complete(ctx, slotParsePrompt(ev.Text), e.slotTemperature, "")
	if err != nil {
		utils.Zlog.Warn("slot extraction completion failed",
			zap.String("sender_id", sess.SenderID),
			zap.Error(err))
		return []Action{SendText{Body: adminSlotRetryBody}}
	}

	ranges, err := parseTimeRanges(raw)
	if err != nil {
		utils.Zlog.Warn("slot extraction output unusable",
			zap.String("sender_id", sess.SenderID),
			zap.String("raw", raw),
			zap.Error(err))
		return []Action{SendText{Body: adminSlotRetryBody}}
	}

	date := sess.PendingDate
	_, err = e.overrides.CreateOverride(ctx, loaders.OverrideRecord{
		Date:       date,
		Kind:       loaders.OverrideCustomRanges,
		TimeRanges: ranges,
	})
	if err != nil {
		utils.Zlog.Error("failed to persist partial-leave override",
			zap.String("sender_id", sess.SenderID),
			zap.String("date", date),
			zap.Error(err))
		return []Action{SendText{Body: persistRetryBody}}
	}

	sess.Step = session.StepAdminMenu
	sess.PendingKind = ""
	sess.PendingDate = ""
	return []Action{leaveConfirmationAction(date)}
}

// leaveConfirmationAction is the confirmation plus the two-button menu
// that loops the admin flow.
func leaveConfirmationAction(date string) SendButtons {
	return SendButtons{
		Header:  fmt.Sprintf("✅ Leave marked for %s", displayDate(date)),
		Body:    "How can I help you further?",
		Buttons: adminMenuButtons(),
	}
}

func adminMenuAction(header, body string) SendButtons {
	return SendButtons{
		Header:  header,
		Body:    body,
		Buttons: adminMenuButtons(),
	}
}

func adminDateListAction(now time.Time, kind loaders.OverrideKind) SendList {
	return SendList{
		Body:        adminDateListBody,
		ButtonLabel: "Dates",
		Sections: []Section{
			{Title: "Upcoming days", Rows: adminDateRows(now, kind)},
		},
	}
}
