package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/Conversly/clinic-assist/internal/loaders"
)

// adminDateWindow is how many upcoming dates the admin leave list offers.
const adminDateWindow = 8

// ddmmyyyy is the layout date row ids encode their payload in.
const ddmmyyyy = "02012006"

// pickDays returns the weekdays offered by "Pick a day". Sunday is
// excluded from every day listing; the clinic is closed.
func pickDays() []Row {
	days := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
	rows := make([]Row, 0, len(days))
	for _, d := range days {
		rows = append(rows, Row{
			ID:    "day_" + strings.ToLower(d.String()),
			Title: d.String(),
		})
	}
	return rows
}

// pickDayName resolves a day_<weekday> row id to its weekday name.
func pickDayName(id string) (string, bool) {
	for _, row := range pickDays() {
		if row.ID == id {
			return row.Title, true
		}
	}
	return "", false
}

// upcomingDates returns the next n calendar dates starting today,
// skipping Sundays.
func upcomingDates(now time.Time, n int) []time.Time {
	dates := make([]time.Time, 0, n)
	day := now
	for len(dates) < n {
		if day.Weekday() != time.Sunday {
			dates = append(dates, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return dates
}

// adminDateRows builds the leave-date list for one override kind. Row ids
// carry the kind and the date: 02full<DDMMYYYY> / 02partial<DDMMYYYY>.
func adminDateRows(now time.Time, kind loaders.OverrideKind) []Row {
	suffix := "full"
	if kind == loaders.OverrideCustomRanges {
		suffix = "partial"
	}

	dates := upcomingDates(now, adminDateWindow)
	rows := make([]Row, 0, len(dates))
	for _, d := range dates {
		rows = append(rows, Row{
			ID:          fmt.Sprintf("02%s%s", suffix, d.Format(ddmmyyyy)),
			Title:       d.Format("Mon, 02 Jan"),
			Description: d.Format("2006"),
		})
	}
	return rows
}

// parseAdminDateID decodes a leave-date row id into its kind and ISO date.
func parseAdminDateID(id string) (loaders.OverrideKind, string, bool) {
	var kind loaders.OverrideKind
	var raw string
	switch {
	case strings.HasPrefix(id, "02full"):
		kind = loaders.OverrideFullDayLeave
		raw = strings.TrimPrefix(id, "02full")
	case strings.HasPrefix(id, "02partial"):
		kind = loaders.OverrideCustomRanges
		raw = strings.TrimPrefix(id, "02partial")
	default:
		return "", "", false
	}

	t, err := time.Parse(ddmmyyyy, raw)
	if err != nil {
		return "", "", false
	}
	return kind, t.Format("2006-01-02"), true
}

// displayDate renders an ISO date for confirmation copy.
func displayDate(iso string) string {
	t, err := time.Parse("2006-01-02", iso)
	if err != nil {
		return iso
	}
	return t.Format("Mon, 02 Jan 2006")
}
