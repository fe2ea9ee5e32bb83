package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vehicleservice/database/repository"
	"vehicleservice/models"
	"vehicleservice/services/assignment"
	"vehicleservice/services/booking"
	"vehicleservice/services/payment"
	"vehicleservice/services/pricing"
	"vehicleservice/services/slots"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router     *gin.Engine
	payments   *payment.Engine
	enqueued   []string
	enqueueErr error
}

// newTestServer mounts the handlers without auth; every request runs as staff-1.
func newTestServer(t *testing.T, approveCards bool) *testServer {
	t.Helper()
	draw := 0.0
	if approveCards {
		draw = 0.99
	}
	store := repository.NewMemoryStore()
	gateway := payment.NewSimulatedGateway(payment.WithDelay(0), payment.WithRandom(func() float64 { return draw }))
	slotEngine := slots.NewEngine(nil)
	pricingEngine := pricing.NewEngine(nil)
	paymentEngine := payment.NewEngine(nil, payment.DefaultStrategies(gateway)...)
	checker := slots.NewChecker(slotEngine, store.Bookings, slots.NopCache{}, nil)
	bookingSvc := booking.NewBookingService(store.Bookings, checker, pricingEngine, paymentEngine, time.UTC, nil)
	allocator := assignment.NewWorkloadAllocator(store.Assignments, store.Technicians, store.Bookings, 0, nil)
	bookingSvc.Assignments = allocator

	ts := &testServer{payments: paymentEngine}
	enqueue := func(_ context.Context, requestedBy string) (string, error) {
		if ts.enqueueErr != nil {
			return "", ts.enqueueErr
		}
		ts.enqueued = append(ts.enqueued, requestedBy)
		return "job-1", nil
	}

	sh := NewSlotHandler(bookingSvc, slotEngine)
	ch := NewCatalogHandler(pricingEngine, paymentEngine)
	bh := NewBookingHandler(bookingSvc, allocator, time.UTC)
	th := NewTechnicianHandler(allocator)
	ah := NewAssignmentHandler(allocator, enqueue)

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("userID", "staff-1") })
	r.GET("/slots", sh.GetSlots)
	r.GET("/slots/check", sh.CheckSlot)
	r.GET("/slots/info", sh.SlotInfo)
	r.GET("/payments/fees", ch.Fees)
	r.GET("/payments/methods", ch.Methods)
	r.GET("/pricing", ch.Price)
	r.POST("/bookings", bh.CreateBooking)
	r.GET("/bookings", bh.ListBookings)
	r.GET("/bookings/:id", bh.GetBooking)
	r.GET("/bookings/:id/assignments", bh.ListForBooking)
	r.DELETE("/bookings/:id", bh.DeleteBooking)
	r.POST("/bookings/:id/payments", bh.ProcessPayment)
	r.POST("/bookings/:id/cancel", bh.Cancel)
	r.POST("/technicians", th.CreateTechnician)
	r.GET("/technicians", th.ListTechnicians)
	r.GET("/technicians/:id/stats", th.Stats)
	r.POST("/assignments", ah.Assign)
	r.POST("/assignments/:id/complete", ah.Complete)
	r.PUT("/assignments/:id/status", ah.UpdateStatus)
	r.POST("/assignments/cleanup", ah.Cleanup)
	ts.router = r
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func oilChange(clock string) map[string]any {
	return map[string]any{
		"customerName":  "Nimal Perera",
		"vehicleNumber": "cab-1234",
		"serviceType":   "Oil Change",
		"date":          "2030-03-11",
		"time":          clock,
	}
}

type paymentResponse struct {
	Result  models.PaymentResult `json:"result"`
	Booking models.Booking       `json:"booking"`
}

func (ts *testServer) createBooking(t *testing.T, clock string) models.Booking {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/bookings", oilChange(clock))
	if w.Code != http.StatusCreated {
		t.Fatalf("create booking: %d %s", w.Code, w.Body.String())
	}
	return decode[models.Booking](t, w)
}

func TestCreateAndGetBooking(t *testing.T) {
	ts := newTestServer(t, true)
	b := ts.createBooking(t, "09:10")
	if b.VehicleNumber != "CAB-1234" || b.PaymentStatus != models.PaymentPending {
		t.Fatalf("unexpected booking %+v", b)
	}
	if !b.TotalPrice.Equal(decimal.NewFromInt(3600)) {
		t.Errorf("total %s, want 3600", b.TotalPrice)
	}

	w := ts.do(t, http.MethodGet, "/bookings/"+b.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}
	if got := decode[models.Booking](t, w); got.BookingNumber != b.BookingNumber {
		t.Errorf("got booking %s, want %s", got.BookingNumber, b.BookingNumber)
	}

	if w := ts.do(t, http.MethodGet, "/bookings/missing", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing booking: %d", w.Code)
	}
}

func TestCreateBookingRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, true)

	if w := ts.do(t, http.MethodPost, "/bookings", map[string]any{"customerName": "x"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing fields: %d", w.Code)
	}

	in := oilChange("09:00")
	in["date"] = "11/03/2030"
	w := ts.do(t, http.MethodPost, "/bookings", in)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date: %d", w.Code)
	}
	if resp := decode[utils.ErrorResponse](t, w); resp.Field != "date" {
		t.Errorf("field %q, want date", resp.Field)
	}
}

func TestFullSlotAnswersConflict(t *testing.T) {
	ts := newTestServer(t, true)
	for i := 0; i < 3; i++ {
		ts.createBooking(t, "10:00")
	}
	if w := ts.do(t, http.MethodPost, "/bookings", oilChange("10:15")); w.Code != http.StatusConflict {
		t.Fatalf("fourth booking in slot: %d %s", w.Code, w.Body.String())
	}

	w := ts.do(t, http.MethodGet, "/slots/check?date=2030-03-11&time=10:00&serviceType=Oil%20Change", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("check: %d", w.Code)
	}
	if got := decode[map[string]any](t, w); got["available"] != false {
		t.Errorf("slot reported available: %v", got)
	}

	w = ts.do(t, http.MethodGet, "/slots?date=2030-03-11&serviceType=Oil%20Change&realtime=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("slots: %d", w.Code)
	}
}

func TestListBookingsFilters(t *testing.T) {
	ts := newTestServer(t, true)
	ts.createBooking(t, "09:00")

	w := ts.do(t, http.MethodGet, "/bookings?vehicle=cab&from=2030-03-11&to=2030-03-11", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	if got := decode[map[string]any](t, w); got["count"] != float64(1) {
		t.Errorf("count %v, want 1", got["count"])
	}

	if w := ts.do(t, http.MethodGet, "/bookings?status=LOST", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad status filter: %d", w.Code)
	}
	if w := ts.do(t, http.MethodGet, "/bookings?from=yesterday", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad from: %d", w.Code)
	}
}

func TestProcessPayment(t *testing.T) {
	ts := newTestServer(t, true)
	b := ts.createBooking(t, "09:00")

	w := ts.do(t, http.MethodPost, "/bookings/"+b.ID+"/payments", map[string]any{"amount": "1000", "method": "CASH"})
	if w.Code != http.StatusOK {
		t.Fatalf("cash payment: %d %s", w.Code, w.Body.String())
	}
	paid := decode[paymentResponse](t, w)
	if !paid.Result.Success || paid.Booking.PaymentStatus != models.PaymentPartial {
		t.Errorf("unexpected payment outcome %+v", paid)
	}

	w = ts.do(t, http.MethodPost, "/bookings/"+b.ID+"/payments", map[string]any{"amount": "100", "method": "BITCOIN"})
	if w.Code != http.StatusPaymentRequired {
		t.Errorf("unsupported method: %d", w.Code)
	}
}

func TestDeclinedCardAnswersPaymentRequired(t *testing.T) {
	ts := newTestServer(t, false)
	b := ts.createBooking(t, "09:00")

	w := ts.do(t, http.MethodPost, "/bookings/"+b.ID+"/payments", map[string]any{"amount": "500", "method": "VISA"})
	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("declined card: %d %s", w.Code, w.Body.String())
	}

	got := decode[models.Booking](t, ts.do(t, http.MethodGet, "/bookings/"+b.ID, nil))
	if !got.PaidAmount.IsZero() {
		t.Errorf("declined payment stored %s", got.PaidAmount)
	}
}

func TestCancelWithRefund(t *testing.T) {
	ts := newTestServer(t, true)
	b := ts.createBooking(t, "09:00")
	ts.do(t, http.MethodPost, "/bookings/"+b.ID+"/payments", map[string]any{"amount": "3600", "method": "CASH"})

	w := ts.do(t, http.MethodPost, "/bookings/"+b.ID+"/cancel?refund=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %d", w.Code)
	}
	got := decode[models.Booking](t, w)
	if got.PaymentStatus != models.PaymentRefunded || !got.PaidAmount.IsZero() {
		t.Errorf("unexpected cancelled booking %+v", got)
	}
}

func TestAssignmentLifecycle(t *testing.T) {
	ts := newTestServer(t, true)
	b := ts.createBooking(t, "09:00")

	w := ts.do(t, http.MethodPost, "/technicians", map[string]any{"employeeId": "EMP001", "name": "Kasun"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create technician: %d %s", w.Code, w.Body.String())
	}
	tech := decode[models.Technician](t, w)

	w = ts.do(t, http.MethodPost, "/assignments", map[string]any{"bookingId": b.ID, "technicianId": tech.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("assign: %d %s", w.Code, w.Body.String())
	}
	a := decode[models.Assignment](t, w)
	if a.AssignedBy != "staff-1" || a.Status != models.AssignmentAssigned {
		t.Errorf("unexpected assignment %+v", a)
	}

	if w := ts.do(t, http.MethodPost, "/assignments", map[string]any{"bookingId": b.ID, "technicianId": tech.ID}); w.Code != http.StatusConflict {
		t.Errorf("duplicate assignment: %d", w.Code)
	}

	stats := decode[models.TechnicianWorkloadStats](t, ts.do(t, http.MethodGet, "/technicians/"+tech.ID+"/stats", nil))
	if stats.CurrentWorkload != 1 {
		t.Errorf("workload %d after assign, want 1", stats.CurrentWorkload)
	}

	if w := ts.do(t, http.MethodPost, "/assignments/"+a.ID+"/complete", nil); w.Code != http.StatusOK {
		t.Fatalf("complete: %d %s", w.Code, w.Body.String())
	}
	stats = decode[models.TechnicianWorkloadStats](t, ts.do(t, http.MethodGet, "/technicians/"+tech.ID+"/stats", nil))
	if stats.CurrentWorkload != 0 || stats.Completed != 1 {
		t.Errorf("stats after complete %+v", stats)
	}

	if w := ts.do(t, http.MethodPut, "/assignments/"+a.ID+"/status", map[string]any{"status": "ASSIGNED"}); w.Code != http.StatusConflict {
		t.Errorf("reopen completed assignment: %d", w.Code)
	}
}

func TestListTechniciansAvailable(t *testing.T) {
	ts := newTestServer(t, true)
	ts.do(t, http.MethodPost, "/technicians", map[string]any{"employeeId": "EMP001"})
	ts.do(t, http.MethodPost, "/technicians", map[string]any{"employeeId": "EMP002"})

	w := ts.do(t, http.MethodGet, "/technicians?available=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	if got := decode[map[string]any](t, w); got["count"] != float64(2) {
		t.Errorf("count %v, want 2", got["count"])
	}
}

func TestCleanupInlineAndAsync(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(t, http.MethodPost, "/assignments/cleanup", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("inline cleanup: %d", w.Code)
	}
	if got := decode[map[string]any](t, w); got["removed"] != float64(0) {
		t.Errorf("removed %v, want 0", got["removed"])
	}

	w = ts.do(t, http.MethodPost, "/assignments/cleanup?async=true", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("async cleanup: %d", w.Code)
	}
	if len(ts.enqueued) != 1 || ts.enqueued[0] != "staff-1" {
		t.Errorf("enqueued %v", ts.enqueued)
	}

	ts.enqueueErr = errors.New("redis down")
	if w := ts.do(t, http.MethodPost, "/assignments/cleanup?async=true", nil); w.Code != http.StatusOK {
		t.Errorf("fallback to inline cleanup: %d", w.Code)
	}
}

func TestDeleteBookingReleasesWorkload(t *testing.T) {
	ts := newTestServer(t, true)
	b := ts.createBooking(t, "09:00")
	tech := decode[models.Technician](t, ts.do(t, http.MethodPost, "/technicians", map[string]any{"employeeId": "EMP001"}))
	ts.do(t, http.MethodPost, "/assignments", map[string]any{"bookingId": b.ID, "technicianId": tech.ID})

	if w := ts.do(t, http.MethodDelete, "/bookings/"+b.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d %s", w.Code, w.Body.String())
	}
	stats := decode[models.TechnicianWorkloadStats](t, ts.do(t, http.MethodGet, "/technicians/"+tech.ID+"/stats", nil))
	if stats.CurrentWorkload != 0 || stats.Assigned != 0 {
		t.Errorf("stats after booking delete %+v", stats)
	}
}

func TestCatalogFees(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(t, http.MethodGet, "/payments/fees?amount=1000&method=VISA", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("fees: %d", w.Code)
	}
	got := decode[struct {
		ProcessingFees decimal.Decimal `json:"processingFees"`
	}](t, w)
	want := ts.payments.CalculateProcessingFees(decimal.NewFromInt(1000), "VISA")
	if !got.ProcessingFees.Equal(want) || !want.IsPositive() {
		t.Errorf("fees %s, want %s", got.ProcessingFees, want)
	}

	if w := ts.do(t, http.MethodGet, "/payments/fees?amount=lots", nil); w.Code != http.StatusBadRequest {
		t.Errorf("bad amount: %d", w.Code)
	}
}

func TestPricing(t *testing.T) {
	ts := newTestServer(t, true)

	w := ts.do(t, http.MethodGet, "/pricing?serviceType=Oil%20Change&additional=400", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pricing: %d %s", w.Code, w.Body.String())
	}
	got := decode[struct {
		TotalCost decimal.Decimal `json:"totalCost"`
	}](t, w)
	if !got.TotalCost.Equal(decimal.NewFromInt(4000)) {
		t.Errorf("total cost %s, want 4000", got.TotalCost)
	}

	w = ts.do(t, http.MethodGet, "/pricing", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("categories: %d", w.Code)
	}
	if cats := decode[map[string][]string](t, w)["categories"]; len(cats) != 3 {
		t.Errorf("categories %v, want 3", cats)
	}
}

func TestBookingAssignments(t *testing.T) {
	ts := newTestServer(t, true)
	b := ts.createBooking(t, "09:00")
	tech := decode[models.Technician](t, ts.do(t, http.MethodPost, "/technicians", map[string]any{"employeeId": "EMP001"}))
	ts.do(t, http.MethodPost, "/assignments", map[string]any{"bookingId": b.ID, "technicianId": tech.ID})

	w := ts.do(t, http.MethodGet, "/bookings/"+b.ID+"/assignments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("booking assignments: %d", w.Code)
	}
	if got := decode[map[string]any](t, w); got["count"] != float64(1) {
		t.Errorf("count %v, want 1", got["count"])
	}
}

func TestHealthReportsUnavailable(t *testing.T) {
	down := false
	h := NewHealthHandler(func(context.Context) utils.HealthStatus {
		return utils.HealthStatus{Store: "mongo", Mongo: &down}
	})
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status %d, want 503", w.Code)
	}
}
