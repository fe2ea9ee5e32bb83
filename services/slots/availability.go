package slots

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"vehicleservice/models"
)

// BookingReader loads the bookings that fall on a local calendar day.
type BookingReader interface {
	FindByDate(ctx context.Context, date string) ([]models.Booking, error)
}

// Checker computes slot occupancy from stored bookings.
type Checker struct {
	engine   *Engine
	bookings BookingReader
	cache    SlotCache
	logger   *zap.Logger
}

func NewChecker(engine *Engine, bookings BookingReader, cache SlotCache, logger *zap.Logger) *Checker {
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{engine: engine, bookings: bookings, cache: cache, logger: logger}
}

func (c *Checker) Engine() *Engine { return c.engine }

// AvailableSlots returns every generated slot for the day, annotated with its
// remaining capacity. Results may come from the slot cache. The generation is
// read before the bookings, so a snapshot that races an invalidation is stored
// under a generation no later reader asks for.
func (c *Checker) AvailableSlots(ctx context.Context, date time.Time, serviceType string) ([]models.TimeSlot, error) {
	day := date.Format(models.DateLayout)
	gen, err := c.cache.Generation(ctx, day)
	if err != nil {
		c.logger.Warn("slot cache unavailable, computing live", zap.String("date", day), zap.Error(err))
		return c.RealTimeSlots(ctx, date, serviceType)
	}
	category := c.engine.Resolve(serviceType).Category()
	if cached, ok := c.cache.Get(ctx, day, gen, category); ok {
		return cached, nil
	}

	slots, err := c.RealTimeSlots(ctx, date, serviceType)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, day, gen, category, slots)
	return slots, nil
}

// RealTimeSlots always re-reads bookings before computing availability.
func (c *Checker) RealTimeSlots(ctx context.Context, date time.Time, serviceType string) ([]models.TimeSlot, error) {
	day := date.Format(models.DateLayout)
	bookings, err := c.bookings.FindByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("load bookings for %s: %w", day, err)
	}
	s := c.engine.Resolve(serviceType)
	slots := Annotate(s.GenerateSlots(date), bookings, s.MaxBookingsPerSlot())

	c.logger.Debug("slot availability computed",
		zap.String("date", day),
		zap.String("serviceType", serviceType),
		zap.String("category", s.Category()),
		zap.Int("bookings", len(bookings)),
		zap.Int("slots", len(slots)))
	return slots, nil
}

// WeekSlots returns seven consecutive days of availability starting at start.
func (c *Checker) WeekSlots(ctx context.Context, start time.Time, serviceType string) ([]models.DateSlots, error) {
	week := make([]models.DateSlots, 0, 7)
	for i := 0; i < 7; i++ {
		day := start.AddDate(0, 0, i)
		slots, err := c.AvailableSlots(ctx, day, serviceType)
		if err != nil {
			return nil, err
		}
		week = append(week, models.DateSlots{Date: day.Format(models.DateLayout), Slots: slots})
	}
	return week, nil
}

// Occupancy counts the bookings already in the window containing minute and
// returns that window and its capacity. It never reads the cache.
func (c *Checker) Occupancy(ctx context.Context, date time.Time, minute int, serviceType string) (models.TimeSlot, int, int, error) {
	day := date.Format(models.DateLayout)
	bookings, err := c.bookings.FindByDate(ctx, day)
	if err != nil {
		return models.TimeSlot{}, 0, 0, fmt.Errorf("load bookings for %s: %w", day, err)
	}
	window, capacity := c.Window(date, minute, serviceType)
	return window, CountInSlot(bookings, window), capacity, nil
}

// IsAvailable reports whether the window containing minute still has capacity.
func (c *Checker) IsAvailable(ctx context.Context, date time.Time, minute int, serviceType string) (bool, error) {
	_, count, capacity, err := c.Occupancy(ctx, date, minute, serviceType)
	if err != nil {
		return false, err
	}
	return count < capacity, nil
}

// Window finds the generated slot containing minute, or builds
// [minute, minute+duration) when the time is off the grid.
func (c *Checker) Window(date time.Time, minute int, serviceType string) (models.TimeSlot, int) {
	s := c.engine.Resolve(serviceType)
	for _, slot := range s.GenerateSlots(date) {
		if slot.Contains(minute) {
			return slot, s.MaxBookingsPerSlot()
		}
	}
	day := date.Format(models.DateLayout)
	return models.NewTimeSlot(day, minute, minute+s.SlotDuration(), s.Category()), s.MaxBookingsPerSlot()
}

// Invalidate drops cached availability for one day.
func (c *Checker) Invalidate(ctx context.Context, date string) {
	if err := c.cache.InvalidateDate(ctx, date); err != nil {
		c.logger.Warn("slot cache invalidation failed", zap.String("date", date), zap.Error(err))
		return
	}
	c.logger.Debug("slot cache invalidated", zap.String("date", date))
}

// InvalidateAll drops every cached day.
func (c *Checker) InvalidateAll(ctx context.Context) {
	if err := c.cache.Flush(ctx); err != nil {
		c.logger.Warn("slot cache flush failed", zap.Error(err))
	}
}

// CountInSlot counts bookings on the slot's date whose start instant lies in
// [slot.Start, slot.End). A booking's duration is not considered.
func CountInSlot(bookings []models.Booking, slot models.TimeSlot) int {
	n := 0
	for _, b := range bookings {
		if b.Date == slot.Date && slot.Contains(b.Minute) {
			n++
		}
	}
	return n
}

// Annotate sets Available and RemainingCapacity on each slot.
func Annotate(slots []models.TimeSlot, bookings []models.Booking, capacity int) []models.TimeSlot {
	out := make([]models.TimeSlot, len(slots))
	for i, slot := range slots {
		n := CountInSlot(bookings, slot)
		if n < capacity {
			slot.Available = true
			slot.RemainingCapacity = capacity - n
		} else {
			slot.Available = false
			slot.RemainingCapacity = 0
		}
		out[i] = slot
	}
	return out
}
