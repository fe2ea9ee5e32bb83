package slots

import (
	"time"

	"vehicleservice/models"
	"vehicleservice/services/strategy"
)

// Strategy generates the bookable windows for one service category.
type Strategy interface {
	strategy.Strategy
	SlotDuration() int
	MaxBookingsPerSlot() int
	GenerateSlots(date time.Time) []models.TimeSlot
}

// shape is a fixed working window cut into equal slots separated by an optional buffer.
type shape struct {
	category string
	duration int // minutes
	buffer   int // minutes between the end of one slot and the start of the next
	capacity int
	open     int // minutes from midnight
	close    int
}

func (s shape) Category() string        { return s.category }
func (s shape) SlotDuration() int       { return s.duration }
func (s shape) MaxBookingsPerSlot() int { return s.capacity }

// GenerateSlots never consults booking state. A trailing window shorter than the
// slot duration is dropped.
func (s shape) GenerateSlots(date time.Time) []models.TimeSlot {
	day := date.Format(models.DateLayout)
	var out []models.TimeSlot
	for cur := s.open; cur < s.close; cur += s.duration + s.buffer {
		end := cur + s.duration
		if end > s.close {
			break
		}
		slot := models.NewTimeSlot(day, cur, end, s.category)
		slot.Available = true
		slot.RemainingCapacity = s.capacity
		out = append(out, slot)
	}
	return out
}
