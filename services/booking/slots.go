package booking

import (
	"context"
	"strings"

	"vehicleservice/models"
)

func (s *DefaultBookingService) GetAvailableSlots(ctx context.Context, date, serviceType string) ([]models.TimeSlot, error) {
	day, err := models.ParseDate(date, s.Location)
	if err != nil {
		return nil, err
	}
	return s.Slots.AvailableSlots(ctx, day, serviceType)
}

// GetRealTimeAvailableSlots bypasses the slot cache.
func (s *DefaultBookingService) GetRealTimeAvailableSlots(ctx context.Context, date, serviceType string) ([]models.TimeSlot, error) {
	day, err := models.ParseDate(date, s.Location)
	if err != nil {
		return nil, err
	}
	return s.Slots.RealTimeSlots(ctx, day, serviceType)
}

// GetAvailableSlotsForWeek defaults to today when startDate is blank.
func (s *DefaultBookingService) GetAvailableSlotsForWeek(ctx context.Context, startDate, serviceType string) ([]models.DateSlots, error) {
	if strings.TrimSpace(startDate) == "" {
		startDate = s.now().In(s.Location).Format(models.DateLayout)
	}
	day, err := models.ParseDate(startDate, s.Location)
	if err != nil {
		return nil, err
	}
	return s.Slots.WeekSlots(ctx, day, serviceType)
}

// IsSlotAvailable checks live occupancy of the slot containing clock.
// A blank service type uses the default slot shape.
func (s *DefaultBookingService) IsSlotAvailable(ctx context.Context, date, clock, serviceType string) (bool, error) {
	day, err := models.ParseDate(date, s.Location)
	if err != nil {
		return false, err
	}
	minute, err := models.ParseClock(clock)
	if err != nil {
		return false, err
	}
	return s.Slots.IsAvailable(ctx, day, minute, serviceType)
}

// ForceRefreshSlotAvailability drops cached slots for one day, or for all days when date is blank.
func (s *DefaultBookingService) ForceRefreshSlotAvailability(ctx context.Context, date string) error {
	if strings.TrimSpace(date) == "" {
		s.Slots.InvalidateAll(ctx)
		return nil
	}
	day, err := models.ParseDate(date, s.Location)
	if err != nil {
		return err
	}
	s.Slots.Invalidate(ctx, day.Format(models.DateLayout))
	return nil
}
