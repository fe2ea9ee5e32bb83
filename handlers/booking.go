package handlers

import (
	"net/http"
	"time"

	"vehicleservice/models"
	"vehicleservice/services/assignment"
	"vehicleservice/services/booking"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Bookings    booking.BookingService
	Assignments assignment.WorkloadAllocator
	Location    *time.Location
}

func NewBookingHandler(bookings booking.BookingService, assignments assignment.WorkloadAllocator, loc *time.Location) *BookingHandler {
	if loc == nil {
		loc = time.Local
	}
	return &BookingHandler{Bookings: bookings, Assignments: assignments, Location: loc}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	logger := utils.GetLogger()
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.CreateBooking(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	logger.Info("booking created",
		zap.String("booking", b.ID),
		zap.String("number", b.BookingNumber),
		zap.String("date", b.Date),
		zap.String("user", c.GetString("userID")))
	c.JSON(http.StatusCreated, b)
}

// ListBookings handles GET /api/bookings with optional customer, vehicle,
// status, from and to filters.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	from, err := dateQuery(c, "from", h.Location, false)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	to, err := dateQuery(c, "to", h.Location, true)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	status := models.PaymentStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		utils.RespondError(c, models.NewValidationError("status", "unknown payment status %q", status))
		return
	}
	list, err := h.Bookings.ListBookings(c.Request.Context(), models.BookingFilter{
		Keyword:       c.Query("q"),
		CustomerName:  c.Query("customer"),
		VehicleNumber: c.Query("vehicle"),
		PaymentStatus: status,
		From:          from,
		To:            to,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// SearchBookings handles GET /api/bookings/search?q=.
func (h *BookingHandler) SearchBookings(c *gin.Context) {
	list, err := h.Bookings.SearchBookings(c.Request.Context(), c.Query("q"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// Upcoming handles GET /api/bookings/upcoming.
func (h *BookingHandler) Upcoming(c *gin.Context) {
	list, err := h.Bookings.UpcomingBookings(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Bookings.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// UpdateBooking handles PUT /api/bookings/:id. The new date and time are
// checked against slot capacity like a fresh booking.
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.UpdateBooking(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	if err := h.Bookings.DeleteBooking(c.Request.Context(), id); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.GetLogger().Info("booking deleted", zap.String("booking", id), zap.String("user", c.GetString("userID")))
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted"})
}

// ProcessPayment handles POST /api/bookings/:id/payments. A declined payment
// answers 402 with the gateway result.
func (h *BookingHandler) ProcessPayment(c *gin.Context) {
	var in models.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, res, err := h.Bookings.ProcessPayment(c.Request.Context(), c.Param("id"), in.Amount, in.Method)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if !res.Success {
		c.JSON(http.StatusPaymentRequired, gin.H{"result": res, "booking": b})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "booking": b})
}

type paidAmountInput struct {
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

// UpdatePayment handles PUT /api/bookings/:id/payment.
func (h *BookingHandler) UpdatePayment(c *gin.Context) {
	var in paidAmountInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Bookings.UpdatePayment(c.Request.Context(), c.Param("id"), in.PaidAmount)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Refund handles POST /api/bookings/:id/refund.
func (h *BookingHandler) Refund(c *gin.Context) {
	b, err := h.Bookings.ProcessRefund(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// Cancel handles POST /api/bookings/:id/cancel?refund=true.
func (h *BookingHandler) Cancel(c *gin.Context) {
	b, err := h.Bookings.CancelBooking(c.Request.Context(), c.Param("id"), boolQuery(c, "refund"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListForBooking handles GET /api/bookings/:id/assignments.
func (h *BookingHandler) ListForBooking(c *gin.Context) {
	list, err := h.Assignments.AssignmentsByBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": list, "count": len(list)})
}
