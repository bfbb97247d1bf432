package engine

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conversly/clinic-assist/internal/loaders"
	"github.com/Conversly/clinic-assist/internal/session"
)

func TestAdminFirstContactShowsLeaveMenu(t *testing.T) {
	env := newTestEnv()

	actions := env.engine.HandleAdmin(context.Background(), textEvent("admin-1", "hi"))

	require.Len(t, actions, 1)
	btns, ok := actions[0].(SendButtons)
	require.True(t, ok, "expected a SendButtons action, got %T", actions[0])
	require.Len(t, btns.Buttons, 2)
	assert.Equal(t, SelSetFullDayLeave, btns.Buttons[0].ID)
	assert.Equal(t, SelSetPartialLeave, btns.Buttons[1].ID)

	assert.Equal(t, session.StepAdminMenu, mustAdminSession(env, "admin-1").Step)
}

func TestAdminFullDayLeaveFlow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, textEvent("admin-1", "hi"))

	actions := env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetFullDayLeave))
	require.Len(t, actions, 1)
	list, ok := actions[0].(SendList)
	require.True(t, ok)
	require.Len(t, list.Sections, 1)
	rows := list.Sections[0].Rows
	assert.Len(t, rows, adminDateWindow)
	for _, row := range rows {
		assert.True(t, strings.HasPrefix(row.ID, "02full"), "row id %q should carry the full-day kind", row.ID)
		assert.False(t, strings.HasPrefix(row.Title, "Sun"), "date list must not offer Sundays")
	}
	assert.Equal(t, session.StepAdminDate, mustAdminSession(env, "admin-1").Step)

	actions = env.engine.HandleAdmin(ctx, listEvent("admin-1", rows[0].ID))
	require.Len(t, actions, 1)
	btns, ok := actions[0].(SendButtons)
	require.True(t, ok)
	assert.Contains(t, btns.Header, "Leave marked for")
	require.Len(t, btns.Buttons, 2)

	records := env.overrides.all()
	require.Len(t, records, 1)
	assert.Equal(t, loaders.OverrideFullDayLeave, records[0].Kind)
	// fixedNow is 2025-07-09; the first offered date is today.
	assert.Equal(t, "2025-07-09", records[0].Date)
	assert.Empty(t, records[0].TimeRanges)

	assert.Equal(t, session.StepAdminMenu, mustAdminSession(env, "admin-1").Step)
}

func TestAdminPartialLeaveFlow(t *testing.T) {
	env := newTestEnv()
	env.ai.reply = `[{"start":"09:00","end":"11:00"}]`
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, textEvent("admin-1", "hi"))
	env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetPartialLeave))

	actions := env.engine.HandleAdmin(ctx, listEvent("admin-1", "02partial10072025"))
	require.Len(t, actions, 1)
	txt, ok := actions[0].(SendText)
	require.True(t, ok)
	assert.Contains(t, txt.Body, "time ranges")

	sess := mustAdminSession(env, "admin-1")
	assert.Equal(t, session.StepAdminSlotText, sess.Step)
	assert.Equal(t, "2025-07-10", sess.PendingDate)

	actions = env.engine.HandleAdmin(ctx, textEvent("admin-1", "available 9am to 11am"))
	require.Len(t, actions, 1)
	btns, ok := actions[0].(SendButtons)
	require.True(t, ok)
	assert.Contains(t, btns.Header, "Leave marked for")

	records := env.overrides.all()
	require.Len(t, records, 1)
	assert.Equal(t, loaders.OverrideCustomRanges, records[0].Kind)
	assert.Equal(t, "2025-07-10", records[0].Date)
	require.Len(t, records[0].TimeRanges, 1)
	assert.Equal(t, "09:00", records[0].TimeRanges[0].Start)
	assert.Equal(t, "11:00", records[0].TimeRanges[0].End)

	sess = mustAdminSession(env, "admin-1")
	assert.Equal(t, session.StepAdminMenu, sess.Step)
	assert.Empty(t, sess.PendingDate, "pending date must reset after persistence")
}

func TestAdminSlotParseFailureReprompts(t *testing.T) {
	env := newTestEnv()
	env.ai.reply = "sorry, I couldn't work that out"
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetPartialLeave))
	env.engine.HandleAdmin(ctx, listEvent("admin-1", "02partial10072025"))

	actions := env.engine.HandleAdmin(ctx, textEvent("admin-1", "whenever really"))

	require.Len(t, actions, 1)
	txt, ok := actions[0].(SendText)
	require.True(t, ok)
	assert.Equal(t, adminSlotRetryBody, txt.Body)

	// The step and pending date survive so the admin can just resend.
	sess := mustAdminSession(env, "admin-1")
	assert.Equal(t, session.StepAdminSlotText, sess.Step)
	assert.Equal(t, "2025-07-10", sess.PendingDate)
	assert.Empty(t, env.overrides.all())
}

func TestAdminCompletionFailureReprompts(t *testing.T) {
	env := newTestEnv()
	env.ai.err = errors.New("upstream down")
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetPartialLeave))
	env.engine.HandleAdmin(ctx, listEvent("admin-1", "02partial10072025"))
	actions := env.engine.HandleAdmin(ctx, textEvent("admin-1", "9 to 11"))

	require.Len(t, actions, 1)
	txt, ok := actions[0].(SendText)
	require.True(t, ok)
	assert.Equal(t, adminSlotRetryBody, txt.Body)
	assert.Equal(t, session.StepAdminSlotText, mustAdminSession(env, "admin-1").Step)
}

func TestAdminPersistFailureAsksToRetry(t *testing.T) {
	env := newTestEnv()
	env.overrides.err = errors.New("insert failed")
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetFullDayLeave))
	actions := env.engine.HandleAdmin(ctx, listEvent("admin-1", "02full10072025"))

	require.Len(t, actions, 1)
	txt, ok := actions[0].(SendText)
	require.True(t, ok)
	assert.Equal(t, persistRetryBody, txt.Body)
	assert.Equal(t, session.StepAdminDate, mustAdminSession(env, "admin-1").Step)
}

func TestAdminUnrecognizedSelectionRerendersDateList(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetPartialLeave))
	actions := env.engine.HandleAdmin(ctx, listEvent("admin-1", "bogus_id"))

	require.Len(t, actions, 1)
	list, ok := actions[0].(SendList)
	require.True(t, ok)
	for _, row := range list.Sections[0].Rows {
		assert.True(t, strings.HasPrefix(row.ID, "02partial"),
			"re-rendered list must keep the partial kind, got %q", row.ID)
	}
	assert.Equal(t, session.StepAdminDate, mustAdminSession(env, "admin-1").Step)
}

func TestAdminSendersDoNotShareState(t *testing.T) {
	env := newTestEnv()
	env.ai.reply = `[{"start":"09:00","end":"11:00"}]`
	ctx := context.Background()

	// Both admins open partial-leave flows with different dates.
	env.engine.HandleAdmin(ctx, buttonEvent("admin-a", SelSetPartialLeave))
	env.engine.HandleAdmin(ctx, listEvent("admin-a", "02partial10072025"))

	env.engine.HandleAdmin(ctx, buttonEvent("admin-b", SelSetPartialLeave))
	env.engine.HandleAdmin(ctx, listEvent("admin-b", "02partial11072025"))

	// admin-a's text must land on admin-a's date, not admin-b's.
	env.engine.HandleAdmin(ctx, textEvent("admin-a", "available 9am to 11am"))

	records := env.overrides.all()
	require.Len(t, records, 1)
	assert.Equal(t, "2025-07-10", records[0].Date)

	// admin-b's flow is untouched.
	sessB := mustAdminSession(env, "admin-b")
	assert.Equal(t, session.StepAdminSlotText, sessB.Step)
	assert.Equal(t, "2025-07-11", sessB.PendingDate)
}

func TestOverrideRoundTrip(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.engine.HandleAdmin(ctx, buttonEvent("admin-1", SelSetFullDayLeave))
	env.engine.HandleAdmin(ctx, listEvent("admin-1", "02full10072025"))

	records, err := env.overrides.ListOverridesByDate(ctx, "2025-07-10")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, loaders.OverrideFullDayLeave, records[0].Kind)
	assert.Empty(t, records[0].TimeRanges)
}
