package booking

import (
	"fmt"
	"iter"
	"time"

	"github.com/petcarehq/booking-api/internal/model"
)

// SlotInterval is the booking granularity.
const SlotInterval = 30 * time.Minute

// OperatingHours bounds the bookable grid for a clinic-day. Times are
// "HH:MM" on a 24-hour clock; Close is exclusive.
type OperatingHours struct {
	Open  string
	Close string
}

// DefaultOperatingHours is used when a clinic has no configuration of its own.
var DefaultOperatingHours = OperatingHours{Open: "09:00", Close: "17:00"}

func parseClock(s string) (time.Time, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t, nil
}

// Slots yields the ordered bookable start times at 30-minute granularity over
// the half-open interval [Open, Close). Malformed hours (close <= open, or
// unparseable) yield an empty sequence: "no options" is a valid state, not an
// error. The sequence is restartable; each range starts from the beginning.
func Slots(hours OperatingHours) iter.Seq[model.TimeSlot] {
	return func(yield func(model.TimeSlot) bool) {
		open, err := parseClock(hours.Open)
		if err != nil {
			return
		}
		close, err := parseClock(hours.Close)
		if err != nil {
			return
		}
		for t := open; t.Before(close); t = t.Add(SlotInterval) {
			slot := model.TimeSlot{
				Start: t.Format("15:04"),
				Label: t.Format("3:04 PM"),
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// SlotList materializes Slots into a slice for transport.
func SlotList(hours OperatingHours) []model.TimeSlot {
	var slots []model.TimeSlot
	for s := range Slots(hours) {
		slots = append(slots, s)
	}
	return slots
}

// IsBookable reports whether start is one of the grid's start times.
func IsBookable(hours OperatingHours, start string) bool {
	for s := range Slots(hours) {
		if s.Start == start {
			return true
		}
	}
	return false
}
