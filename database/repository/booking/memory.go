package bookingRepo

import (
	"context"
	"sync"
	"time"

	"vehicleservice/models"
)

// MemoryBookingRepo is an in-process BookingRepository used by the memory store driver and tests.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	bookings map[string]models.Booking
}

func NewMemoryBookingRepo() *MemoryBookingRepo {
	return &MemoryBookingRepo{bookings: make(map[string]models.Booking)}
}

func (r *MemoryBookingRepo) Create(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bookings[booking.ID]; exists {
		return models.NewConflictError("booking %s already exists", booking.ID)
	}
	for _, b := range r.bookings {
		if b.BookingNumber == booking.BookingNumber {
			return models.NewConflictError("booking number %s already exists", booking.BookingNumber)
		}
	}
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepo) Update(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return models.NewNotFoundError("booking", booking.ID)
	}
	if stored.Version != booking.Version {
		return models.NewConflictError("booking %s was modified concurrently", booking.ID)
	}
	booking.Version++
	booking.UpdatedAt = time.Now()
	r.bookings[booking.ID] = *booking
	return nil
}

func (r *MemoryBookingRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return models.NewNotFoundError("booking", id)
	}
	delete(r.bookings, id)
	return nil
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, models.NewNotFoundError("booking", id)
	}
	return &b, nil
}

func (r *MemoryBookingRepo) FindByDate(ctx context.Context, date string) ([]models.Booking, error) {
	return r.collect(func(b models.Booking) bool { return b.Date == date }), nil
}

func (r *MemoryBookingRepo) FindAll(ctx context.Context) ([]models.Booking, error) {
	return r.collect(func(models.Booking) bool { return true }), nil
}

func (r *MemoryBookingRepo) Find(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return r.collect(func(b models.Booking) bool { return Matches(b, filter) }), nil
}

func (r *MemoryBookingRepo) ExistsByBookingNumber(_ context.Context, number string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.bookings {
		if b.BookingNumber == number {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryBookingRepo) collect(keep func(models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Booking, 0)
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	SortByDate(out)
	return out
}
