package booking

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	bookingRepo "vehicleservice/database/repository/booking"
	"vehicleservice/models"
	"vehicleservice/services/payment"
	"vehicleservice/services/pricing"
	"vehicleservice/services/slots"
)

const testDate = "2030-03-11"

type stubRemover struct {
	calls []string
	err   error
	// present reports whether the booking still existed when the remover ran.
	present func(bookingID string) bool
	seen    []bool
}

func (s *stubRemover) DeleteAssignmentsByBooking(_ context.Context, bookingID string) (int, error) {
	s.calls = append(s.calls, bookingID)
	if s.present != nil {
		s.seen = append(s.seen, s.present(bookingID))
	}
	if s.err != nil {
		return 0, s.err
	}
	return 1, nil
}

type failingDeleteRepo struct {
	bookingRepo.BookingRepository
}

func (failingDeleteRepo) Delete(context.Context, string) error {
	return errors.New("primary unavailable")
}

// newTestService wires real engines over the memory store. approve decides the
// card gateway outcome.
func newTestService(t *testing.T, approve bool) *DefaultBookingService {
	t.Helper()
	draw := 0.0
	if approve {
		draw = 0.99
	}
	gateway := payment.NewSimulatedGateway(payment.WithDelay(0), payment.WithRandom(func() float64 { return draw }))
	repo := bookingRepo.NewMemoryBookingRepo()
	checker := slots.NewChecker(slots.NewEngine(nil), repo, slots.NopCache{}, nil)
	svc := NewBookingService(repo, checker, pricing.NewEngine(nil), payment.NewEngine(nil, payment.DefaultStrategies(gateway)...), time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2030, 3, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

func oilChange(clock string) models.BookingInput {
	return models.BookingInput{
		CustomerName:  "Nimal Perera",
		VehicleNumber: "cab-1234",
		ServiceType:   "Oil Change",
		Date:          testDate,
		Time:          clock,
	}
}

func TestCreateBookingCash(t *testing.T) {
	svc := newTestService(t, true)
	in := oilChange("09:10")
	in.PaymentMethod = "cash"

	b, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if !regexp.MustCompile(`^BK\d{6}$`).MatchString(b.BookingNumber) {
		t.Errorf("booking number %q", b.BookingNumber)
	}
	if b.Date != testDate || b.Minute != 9*60+10 {
		t.Errorf("scheduled at %s minute %d", b.Date, b.Minute)
	}
	if b.VehicleNumber != "CAB-1234" {
		t.Errorf("vehicle number %q not normalised", b.VehicleNumber)
	}
	if !b.TotalPrice.Equal(decimal.NewFromInt(3600)) || !b.ProcessingFees.IsZero() {
		t.Errorf("total %s fees %s, want 3600 and 0", b.TotalPrice, b.ProcessingFees)
	}
	if b.PaymentStatus != models.PaymentPending || !b.RemainingAmount.Equal(b.TotalPrice) {
		t.Errorf("status %s remaining %s", b.PaymentStatus, b.RemainingAmount)
	}
}

func TestCreateBookingCardAddsFees(t *testing.T) {
	svc := newTestService(t, true)
	in := oilChange("10:00")
	in.PaymentMethod = "VISA"

	b, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	// 2.5% of 3600 = 90, above the 25 LKR minimum.
	if !b.ProcessingFees.Equal(decimal.NewFromInt(90)) || !b.TotalPrice.Equal(decimal.NewFromInt(3690)) {
		t.Fatalf("fees %s total %s, want 90 and 3690", b.ProcessingFees, b.TotalPrice)
	}
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
	svc := newTestService(t, true)
	cases := map[string]func(*models.BookingInput){
		"blank customer":   func(in *models.BookingInput) { in.CustomerName = " " },
		"bad date":         func(in *models.BookingInput) { in.Date = "11/03/2030" },
		"bad time":         func(in *models.BookingInput) { in.Time = "9am" },
		"unknown method":   func(in *models.BookingInput) { in.PaymentMethod = "BITCOIN" },
		"negative charges": func(in *models.BookingInput) { in.AdditionalCharges = decimal.NewFromInt(-1) },
		"payment too big":  func(in *models.BookingInput) { in.InitialPayment = decimal.NewFromInt(5000) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := oilChange("09:00")
			mutate(&in)
			if _, err := svc.CreateBooking(context.Background(), in); !models.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateBookingEnforcesSlotCapacity(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)

	for _, clock := range []string{"09:00", "09:10", "09:29"} {
		if _, err := svc.CreateBooking(ctx, oilChange(clock)); err != nil {
			t.Fatalf("booking at %s: %v", clock, err)
		}
	}
	if _, err := svc.CreateBooking(ctx, oilChange("09:15")); !models.IsConflict(err) {
		t.Fatalf("fourth booking in a full slot: got %v, want conflict", err)
	}
	ok, err := svc.IsSlotAvailable(ctx, testDate, "09:20", "Oil Change")
	if err != nil || ok {
		t.Fatalf("IsSlotAvailable = %v, %v; want false", ok, err)
	}
	if _, err := svc.CreateBooking(ctx, oilChange("09:30")); err != nil {
		t.Fatalf("next slot should be free: %v", err)
	}
}

func TestConcurrentCreatesNeverOverbook(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(ctx, oilChange("09:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case models.IsConflict(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if created != 3 || conflicts != 9 {
		t.Fatalf("created %d conflicts %d, want 3 and 9", created, conflicts)
	}
	all, _ := svc.Repo.FindByDate(ctx, testDate)
	if len(all) != 3 {
		t.Fatalf("stored %d bookings, want 3", len(all))
	}
}

func TestCreateBookingWithInitialPayment(t *testing.T) {
	svc := newTestService(t, true)
	in := oilChange("11:00")
	in.InitialPayment = decimal.NewFromInt(1000)

	b, err := svc.CreateBooking(context.Background(), in)
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.PaymentMethod != payment.MethodCash {
		t.Errorf("method %q, want CASH default", b.PaymentMethod)
	}
	if b.PaymentStatus != models.PaymentPartial || !b.RemainingAmount.Equal(decimal.NewFromInt(2600)) {
		t.Fatalf("status %s remaining %s, want PARTIAL 2600", b.PaymentStatus, b.RemainingAmount)
	}
}

func TestProcessPaymentDeclinedLeavesBookingUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, false)
	b, err := svc.CreateBooking(ctx, oilChange("12:00"))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}

	_, res, err := svc.ProcessPayment(ctx, b.ID, decimal.NewFromInt(1000), "VISA")
	if err != nil {
		t.Fatalf("ProcessPayment: %v", err)
	}
	if res.Success || res.Message != "Card payment processing failed. Please try again." {
		t.Fatalf("result %+v, want gateway failure", res)
	}
	stored, _ := svc.GetBooking(ctx, b.ID)
	if !stored.PaidAmount.IsZero() || stored.PaymentStatus != models.PaymentPending {
		t.Fatalf("stored booking changed: paid %s status %s", stored.PaidAmount, stored.PaymentStatus)
	}
}

func TestPaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	b, _ := svc.CreateBooking(ctx, oilChange("13:00"))

	b, res, err := svc.ProcessPayment(ctx, b.ID, decimal.NewFromInt(3600), "cash")
	if err != nil || !res.Success {
		t.Fatalf("ProcessPayment: %v %+v", err, res)
	}
	if b.PaymentStatus != models.PaymentPaid || !b.RemainingAmount.IsZero() {
		t.Fatalf("status %s remaining %s, want PAID 0", b.PaymentStatus, b.RemainingAmount)
	}

	b, err = svc.CancelBooking(ctx, b.ID, true)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if b.PaymentStatus != models.PaymentRefunded || !b.PaidAmount.IsZero() || !b.RemainingAmount.Equal(b.TotalPrice) {
		t.Fatalf("after refund: %s paid %s remaining %s", b.PaymentStatus, b.PaidAmount, b.RemainingAmount)
	}

	b, err = svc.UpdatePayment(ctx, b.ID, decimal.NewFromInt(1800))
	if err != nil {
		t.Fatalf("UpdatePayment: %v", err)
	}
	if b.PaymentStatus != models.PaymentPartial {
		t.Fatalf("status %s, want PARTIAL", b.PaymentStatus)
	}
	if _, err := svc.UpdatePayment(ctx, b.ID, decimal.NewFromInt(-1)); !models.IsValidation(err) {
		t.Fatalf("negative paid amount: %v", err)
	}
}

func TestCancelWithoutPaymentOnlyMarksRefunded(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	b, _ := svc.CreateBooking(ctx, oilChange("14:00"))

	b, err := svc.CancelBooking(ctx, b.ID, true)
	if err != nil {
		t.Fatalf("CancelBooking: %v", err)
	}
	if b.PaymentStatus != models.PaymentRefunded || !b.RemainingAmount.Equal(b.TotalPrice) {
		t.Fatalf("status %s remaining %s", b.PaymentStatus, b.RemainingAmount)
	}
}

func TestUpdateBookingReschedules(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)

	var moving *models.Booking
	for i, clock := range []string{"09:00", "09:05", "09:10"} {
		b, err := svc.CreateBooking(ctx, oilChange(clock))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if i == 0 {
			moving = b
		}
	}

	// Moving within its own full slot is allowed.
	if _, err := svc.UpdateBooking(ctx, moving.ID, oilChange("09:20")); err != nil {
		t.Fatalf("reschedule within slot: %v", err)
	}

	other, _ := svc.CreateBooking(ctx, oilChange("15:00"))
	if _, err := svc.UpdateBooking(ctx, other.ID, oilChange("09:15")); !models.IsConflict(err) {
		t.Fatalf("move into full slot: got %v, want conflict", err)
	}

	in := oilChange("16:00")
	in.Date = "2030-03-12"
	in.AdditionalCharges = decimal.NewFromInt(400)
	updated, err := svc.UpdateBooking(ctx, other.ID, in)
	if err != nil {
		t.Fatalf("move to next day: %v", err)
	}
	if updated.Date != "2030-03-12" || !updated.TotalPrice.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("updated %s total %s", updated.Date, updated.TotalPrice)
	}
	if updated.BookingNumber != other.BookingNumber || updated.Version != 1 {
		t.Fatalf("identity not preserved: %+v", updated)
	}
}

func TestDeleteBookingRemovesAssignments(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	remover := &stubRemover{}
	svc.Assignments = remover

	b, _ := svc.CreateBooking(ctx, oilChange("09:00"))
	if err := svc.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if len(remover.calls) != 1 || remover.calls[0] != b.ID {
		t.Fatalf("remover calls %v", remover.calls)
	}
	if _, err := svc.GetBooking(ctx, b.ID); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteBookingRemovesBookingFirst(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	remover := &stubRemover{present: func(id string) bool {
		_, err := svc.Repo.GetByID(ctx, id)
		return err == nil
	}}
	svc.Assignments = remover

	b, _ := svc.CreateBooking(ctx, oilChange("09:00"))
	if err := svc.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if len(remover.seen) != 1 || remover.seen[0] {
		t.Fatalf("assignments removed while booking still stored: %v", remover.seen)
	}
}

func TestDeleteBookingKeepsAssignmentsWhenDeleteFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	remover := &stubRemover{}
	svc.Assignments = remover

	b, _ := svc.CreateBooking(ctx, oilChange("09:00"))
	svc.Repo = failingDeleteRepo{BookingRepository: svc.Repo}
	if err := svc.DeleteBooking(ctx, b.ID); err == nil {
		t.Fatalf("expected delete error")
	}
	if len(remover.calls) != 0 {
		t.Fatalf("assignments removed for a booking that still exists: %v", remover.calls)
	}
	if _, err := svc.GetBooking(ctx, b.ID); err != nil {
		t.Fatalf("booking should remain: %v", err)
	}
}

func TestDeleteBookingSucceedsWhenAssignmentRemovalFails(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	svc.Assignments = &stubRemover{err: errors.New("assignments unavailable")}

	b, _ := svc.CreateBooking(ctx, oilChange("09:00"))
	if err := svc.DeleteBooking(ctx, b.ID); err != nil {
		t.Fatalf("DeleteBooking: %v", err)
	}
	if _, err := svc.GetBooking(ctx, b.ID); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBookingNumberFallsBackToClock(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	svc.random = func(int) int { return 0 }

	first, _ := svc.CreateBooking(ctx, oilChange("09:00"))
	second, err := svc.CreateBooking(ctx, oilChange("10:00"))
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.BookingNumber != "BK100000" {
		t.Fatalf("first number %q", first.BookingNumber)
	}
	want := "BK" + strconv.FormatInt(svc.now().UnixMilli(), 10)
	if second.BookingNumber != want {
		t.Fatalf("second number %q, want %q", second.BookingNumber, want)
	}
}

func TestQueries(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, true)
	_, _ = svc.CreateBooking(ctx, oilChange("09:00"))
	in := oilChange("10:00")
	in.CustomerName = "Kamala Silva"
	in.VehicleNumber = "WP-5678"
	in.InitialPayment = decimal.NewFromInt(3600)
	_, _ = svc.CreateBooking(ctx, in)

	if got, _ := svc.SearchBookings(ctx, "kamala"); len(got) != 1 {
		t.Errorf("search: %d results", len(got))
	}
	if got, _ := svc.BookingsByVehicle(ctx, "CAB"); len(got) != 1 {
		t.Errorf("by vehicle: %d results", len(got))
	}
	if got, _ := svc.BookingsByPaymentStatus(ctx, models.PaymentPaid); len(got) != 1 {
		t.Errorf("by status: %d results", len(got))
	}
	if _, err := svc.BookingsByPaymentStatus(ctx, "LOST"); !models.IsValidation(err) {
		t.Errorf("unknown status: %v", err)
	}
	if got, _ := svc.UpcomingBookings(ctx); len(got) != 2 {
		t.Errorf("upcoming: %d results", len(got))
	}
	week, err := svc.GetAvailableSlotsForWeek(ctx, "", "")
	if err != nil || len(week) != 7 || week[0].Date != "2030-03-10" {
		t.Errorf("week: %v %v", len(week), err)
	}
}
