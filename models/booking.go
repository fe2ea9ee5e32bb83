package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus of a booking. It is always derived from paid and total amounts,
// except REFUNDED which is set by refund and cancellation.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPartial  PaymentStatus = "PARTIAL"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Booking is a customer's reservation of a service at a wall-clock date and time.
type Booking struct {
	ID                string          `bson:"id" json:"id"`
	BookingNumber     string          `bson:"bookingNumber" json:"bookingNumber"` // e.g. "BK482913"
	CustomerName      string          `bson:"customerName" json:"customerName"`
	VehicleNumber     string          `bson:"vehicleNumber" json:"vehicleNumber"`
	ServiceType       string          `bson:"serviceType" json:"serviceType"`
	BookingDate       time.Time       `bson:"bookingDate" json:"bookingDate"`
	Date              string          `bson:"date" json:"date"`     // local calendar day "YYYY-MM-DD"
	Minute            int             `bson:"minute" json:"minute"` // minutes from local midnight
	ServicePrice      decimal.Decimal `bson:"servicePrice" json:"servicePrice"`
	AdditionalCharges decimal.Decimal `bson:"additionalCharges" json:"additionalCharges"`
	ProcessingFees    decimal.Decimal `bson:"processingFees" json:"processingFees"`
	TotalPrice        decimal.Decimal `bson:"totalPrice" json:"totalPrice"`
	PaidAmount        decimal.Decimal `bson:"paidAmount" json:"paidAmount"`
	RemainingAmount   decimal.Decimal `bson:"remainingAmount" json:"remainingAmount"`
	PaymentMethod     string          `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentStatus     PaymentStatus   `bson:"paymentStatus" json:"paymentStatus"`
	Notes             string          `bson:"notes,omitempty" json:"notes,omitempty"`
	Version           int             `bson:"version" json:"version"`
	CreatedAt         time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Schedule sets the booking instant and its local calendar bucket.
func (b *Booking) Schedule(at time.Time, loc *time.Location) {
	local := at.In(loc)
	b.BookingDate = local
	b.Date = local.Format(DateLayout)
	b.Minute = local.Hour()*60 + local.Minute()
}

// ApplyPaid sets the paid amount and recomputes the remaining amount and status.
func (b *Booking) ApplyPaid(paid decimal.Decimal) {
	b.PaidAmount = paid
	b.RemainingAmount = RemainingAmount(b.TotalPrice, paid)
	b.PaymentStatus = DerivePaymentStatus(paid, b.TotalPrice)
}

// Refund returns the booking to unpaid with status REFUNDED.
func (b *Booking) Refund() {
	b.PaidAmount = decimal.Zero
	b.RemainingAmount = b.TotalPrice
	b.PaymentStatus = PaymentRefunded
}

// Outstanding is what is still owed on the booking.
func (b *Booking) Outstanding() decimal.Decimal {
	return RemainingAmount(b.TotalPrice, b.PaidAmount)
}

// RemainingAmount is max(0, total - paid).
func RemainingAmount(total, paid decimal.Decimal) decimal.Decimal {
	rem := total.Sub(paid)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// DerivePaymentStatus maps (paid, total) to PAID, PARTIAL or PENDING.
func DerivePaymentStatus(paid, total decimal.Decimal) PaymentStatus {
	switch {
	case total.Sub(paid).LessThanOrEqual(decimal.Zero):
		return PaymentPaid
	case paid.IsPositive():
		return PaymentPartial
	default:
		return PaymentPending
	}
}

// BookingInput is the request to create or update a booking.
type BookingInput struct {
	CustomerName      string          `json:"customerName" binding:"required"`
	VehicleNumber     string          `json:"vehicleNumber" binding:"required"`
	ServiceType       string          `json:"serviceType" binding:"required"`
	Date              string          `json:"date" binding:"required"` // "YYYY-MM-DD"
	Time              string          `json:"time" binding:"required"` // "HH:MM"
	AdditionalCharges decimal.Decimal `json:"additionalCharges"`       // on top of the catalogue surcharges
	PaymentMethod     string          `json:"paymentMethod"`
	InitialPayment    decimal.Decimal `json:"initialPayment"`
	Notes             string          `json:"notes"`
}

// BookingFilter narrows ListBookings. Empty fields are ignored.
type BookingFilter struct {
	Keyword       string
	CustomerName  string
	VehicleNumber string
	PaymentStatus PaymentStatus
	From          *time.Time
	To            *time.Time
}
