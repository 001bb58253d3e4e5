// Package schedule computes the clinic's bookable time-slot grid.
package schedule

import (
	"fmt"
	"time"
)

// Schedule is the clinic's working-hours configuration. It is fixed at
// process start and safe for concurrent use.
type Schedule struct {
	OpenHour    int
	CloseHour   int
	SlotMinutes int
	WorkDays    map[time.Weekday]bool
}

// New builds a Schedule from configuration values.
func New(openHour, closeHour, slotMinutes int, workDays []time.Weekday) Schedule {
	days := make(map[time.Weekday]bool, len(workDays))
	for _, d := range workDays {
		days[d] = true
	}
	return Schedule{
		OpenHour:    openHour,
		CloseHour:   closeHour,
		SlotMinutes: slotMinutes,
		WorkDays:    days,
	}
}

// Availability partitions a day's slot grid against the booked set.
type Availability struct {
	All       []string
	Booked    []string
	Available []string
}

// Slots returns the ordered HH:MM grid for the given date, or an empty
// sequence when the clinic is closed that weekday. Slots step by
// SlotMinutes from the opening hour up to but excluding the closing hour;
// no slot crosses an hour boundary when SlotMinutes does not divide 60.
func (s Schedule) Slots(date time.Time) []string {
	if !s.WorkDays[date.Weekday()] {
		return []string{}
	}
	slots := make([]string, 0, (s.CloseHour-s.OpenHour)*60/s.SlotMinutes)
	for hour := s.OpenHour; hour < s.CloseHour; hour++ {
		for minute := 0; minute+s.SlotMinutes <= 60; minute += s.SlotMinutes {
			slots = append(slots, fmt.Sprintf("%02d:%02d", hour, minute))
		}
	}
	return slots
}

// Contains reports whether t is one of the date's generated slots.
func (s Schedule) Contains(date time.Time, t string) bool {
	for _, slot := range s.Slots(date) {
		if slot == t {
			return true
		}
	}
	return false
}

// Availability returns {all, booked, available} for a date. Available is
// the grid minus the booked times, order preserved. Booked times are
// reported as given, even when a stale schedule leaves them off the grid.
func (s Schedule) Availability(date time.Time, booked []string) Availability {
	all := s.Slots(date)
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}
	available := make([]string, 0, len(all))
	for _, slot := range all {
		if !taken[slot] {
			available = append(available, slot)
		}
	}
	if booked == nil {
		booked = []string{}
	}
	return Availability{All: all, Booked: booked, Available: available}
}
