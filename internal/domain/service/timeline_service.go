package service

import (
	"time"

	"solelink/internal/domain/entity"
)

// MessageGroup is one run of messages sharing a calendar day, labeled for
// the date separator above it.
type MessageGroup struct {
	Label    string            `json:"label"`
	Messages []*entity.Message `json:"messages"`
}

// GroupMessagesByDay splits a timestamp-ordered message list into groups
// separated by calendar-day boundaries in loc. Labels age out from
// "Today" to "Yesterday" to the weekday name to a full date. Pure
// derivation over the ordered list; the store never sees separators.
func GroupMessagesByDay(messages []*entity.Message, now time.Time, loc *time.Location) []MessageGroup {
	var groups []MessageGroup
	var currentDay time.Time

	for _, message := range messages {
		day := startOfDay(message.Timestamp.In(loc))
		if len(groups) == 0 || !day.Equal(currentDay) {
			groups = append(groups, MessageGroup{Label: dayLabel(day, startOfDay(now.In(loc)))})
			currentDay = day
		}
		groups[len(groups)-1].Messages = append(groups[len(groups)-1].Messages, message)
	}

	return groups
}

// FormatClock renders the short time shown under a message bubble.
func FormatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func dayLabel(day, today time.Time) string {
	switch daysBetween(day, today) {
	case 0:
		return "Today"
	case 1:
		return "Yesterday"
	}

	if diff := daysBetween(day, today); diff > 1 && diff < 7 {
		return day.Weekday().String()
	}
	return day.Format("January 2, 2006")
}

// daysBetween counts calendar days, not elapsed hours. Re-anchoring both
// dates in UTC keeps DST-shortened or lengthened days from skewing the count.
func daysBetween(day, today time.Time) int {
	y1, m1, d1 := day.Date()
	y2, m2, d2 := today.Date()
	from := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	to := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return int(to.Sub(from).Hours() / 24)
}
