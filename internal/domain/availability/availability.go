// Package availability computes which appointment start times a doctor can be
// booked at on a given date.
//
// The computation runs in three steps, each a pure function over values the
// caller has already fetched:
//
//	ResolveWindow    weekly schedule + date  -> window on that date
//	Candidates       window + granularity    -> candidate start times
//	FilterConflicts  candidates + bookings   -> slots marked available or blocked
//
// Nothing here touches storage or keeps state between calls.
package availability

import (
	"iter"
	"time"
)

// LabelLayout is the layout of Slot.Label
const LabelLayout = "15:04"

// Schedule is a doctor's weekly availability. The weekday range is closed and
// does not wrap: FromWeekday=5, ToWeekday=1 covers no day at all.
type Schedule struct {
	FromWeekday time.Weekday
	ToWeekday   time.Weekday
	FromTime    Clock
	ToTime      Clock
}

// Covers reports whether the weekday falls inside the schedule's weekday range
func (s Schedule) Covers(day time.Weekday) bool {
	return day >= s.FromWeekday && day <= s.ToWeekday
}

// Window is the bookable interval of one date. The zero Window is empty.
type Window struct {
	Start time.Time
	End   time.Time
}

// IsEmpty reports whether the window has no bookable time
func (w Window) IsEmpty() bool {
	return !w.Start.Before(w.End)
}

// Booking is an existing appointment as seen by the conflict filter
type Booking interface {
	StartTime() time.Time
	IsBlocking() bool
}

// Slot is one candidate start time
type Slot struct {
	Time      time.Time `json:"time"`
	Label     string    `json:"label"`
	Available bool      `json:"available"`
}

// ResolveWindow returns the window the doctor is bookable on the calendar date
// of date, in date's location. Dates outside the weekday range get the empty window.
func ResolveWindow(s Schedule, date time.Time) Window {
	if !s.Covers(date.Weekday()) {
		return Window{}
	}
	return Window{
		Start: s.FromTime.On(date),
		End:   s.ToTime.On(date),
	}
}

// Candidates yields start times from the window start, stepping by granularity.
// A start is yielded only when the whole slot fits, so the last one ends at or
// before the window end. The sequence can be ranged over any number of times.
func Candidates(w Window, granularity time.Duration) iter.Seq[time.Time] {
	return func(yield func(time.Time) bool) {
		if granularity <= 0 || w.IsEmpty() {
			return
		}
		for t := w.Start; !t.Add(granularity).After(w.End); t = t.Add(granularity) {
			if !yield(t) {
				return
			}
		}
	}
}

// FilterConflicts emits every candidate, marking it unavailable when a blocking
// booking starts at exactly the same instant. Durations are not compared.
func FilterConflicts[B Booking](candidates iter.Seq[time.Time], existing []B) []Slot {
	taken := make(map[int64]struct{}, len(existing))
	for _, b := range existing {
		if b.IsBlocking() {
			taken[b.StartTime().UnixNano()] = struct{}{}
		}
	}

	slots := []Slot{}
	for t := range candidates {
		_, blocked := taken[t.UnixNano()]
		slots = append(slots, Slot{
			Time:      t,
			Label:     t.Format(LabelLayout),
			Available: !blocked,
		})
	}
	return slots
}

// ComputeAvailableSlots runs the whole pipeline for one doctor and date
func ComputeAvailableSlots[B Booking](s Schedule, existing []B, date time.Time, granularity time.Duration) []Slot {
	return FilterConflicts(Candidates(ResolveWindow(s, date), granularity), existing)
}

// Lookup finds the slot starting at t
func Lookup(slots []Slot, t time.Time) (Slot, bool) {
	for _, slot := range slots {
		if slot.Time.Equal(t) {
			return slot, true
		}
	}
	return Slot{}, false
}
