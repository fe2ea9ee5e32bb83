// File: database/repository/booking/interface.go
package bookingRepo

import (
	"context"

	"vehicleservice/models"
)

// BookingRepository persists bookings. FindByDate is keyed by the booking's
// local calendar day, not by a UTC range.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	// Update replaces the stored booking if its version still matches and bumps the version.
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	FindByDate(ctx context.Context, date string) ([]models.Booking, error)
	FindAll(ctx context.Context) ([]models.Booking, error)
	Find(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ExistsByBookingNumber(ctx context.Context, number string) (bool, error)
}
