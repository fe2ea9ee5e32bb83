package models

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// TimeSlot is a bookable window on a date. It is derived per query, never stored.
type TimeSlot struct {
	Date              string `json:"date"`
	Start             int    `json:"start"` // minutes from midnight (e.g., 540 for 9:00 AM)
	End               int    `json:"end"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Category          string `json:"category"`
	Available         bool   `json:"available"`
	RemainingCapacity int    `json:"remainingCapacity"`
}

// NewTimeSlot builds a slot with formatted clock labels.
func NewTimeSlot(date string, start, end int, category string) TimeSlot {
	return TimeSlot{
		Date:      date,
		Start:     start,
		End:       end,
		StartTime: FormatMinute(start),
		EndTime:   FormatMinute(end),
		Category:  category,
	}
}

// Contains reports whether minute falls in [Start, End).
func (s TimeSlot) Contains(minute int) bool {
	return minute >= s.Start && minute < s.End
}

// Label renders "09:00 - 09:30".
func (s TimeSlot) Label() string {
	return s.StartTime + " - " + s.EndTime
}

// DateSlots groups the slots of one day.
type DateSlots struct {
	Date  string     `json:"date"`
	Slots []TimeSlot `json:"slots"`
}

// SlotGenerationInfo describes the slot shape resolved for a service type.
type SlotGenerationInfo struct {
	ServiceType         string `json:"serviceType"`
	ServiceCategory     string `json:"serviceCategory"`
	SlotDurationMinutes int    `json:"slotDurationMinutes"`
	MaxBookingsPerSlot  int    `json:"maxBookingsPerSlot"`
}

// FormatMinute renders minutes from midnight as "HH:MM".
func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ParseDate parses a "YYYY-MM-DD" calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "date", Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s)}
	}
	return d, nil
}

// ParseClock parses "HH:MM" into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, &ValidationError{Field: "time", Message: fmt.Sprintf("invalid time %q, expected HH:MM", s)}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// At combines a calendar date and a minute offset into a wall-clock instant.
func At(date time.Time, minute int) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, minute/60, minute%60, 0, 0, date.Location())
}
