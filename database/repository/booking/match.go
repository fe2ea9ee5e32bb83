package bookingRepo

import (
	"sort"
	"strings"

	"vehicleservice/models"
)

// Matches applies a BookingFilter in memory. Text fields match case-insensitively
// as substrings; Keyword matches customer name, vehicle number or booking number.
func Matches(b models.Booking, f models.BookingFilter) bool {
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(b.CustomerName), kw) &&
			!strings.Contains(strings.ToLower(b.VehicleNumber), kw) &&
			!strings.Contains(strings.ToLower(b.BookingNumber), kw) {
			return false
		}
	}
	if f.CustomerName != "" && !strings.Contains(strings.ToLower(b.CustomerName), strings.ToLower(f.CustomerName)) {
		return false
	}
	if f.VehicleNumber != "" && !strings.Contains(strings.ToLower(b.VehicleNumber), strings.ToLower(f.VehicleNumber)) {
		return false
	}
	if f.PaymentStatus != "" && b.PaymentStatus != f.PaymentStatus {
		return false
	}
	if f.From != nil && b.BookingDate.Before(*f.From) {
		return false
	}
	if f.To != nil && b.BookingDate.After(*f.To) {
		return false
	}
	return true
}

// SortByDate orders bookings by their scheduled instant.
func SortByDate(bookings []models.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].BookingDate.Before(bookings[j].BookingDate)
	})
}
