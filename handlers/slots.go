package handlers

import (
	"net/http"

	"vehicleservice/services/booking"
	"vehicleservice/services/slots"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
)

type SlotHandler struct {
	Bookings booking.BookingService
	Engine   *slots.Engine
}

func NewSlotHandler(bookings booking.BookingService, engine *slots.Engine) *SlotHandler {
	return &SlotHandler{Bookings: bookings, Engine: engine}
}

// GetSlots handles GET /api/slots?date=&serviceType=&realtime=.
func (h *SlotHandler) GetSlots(c *gin.Context) {
	date, serviceType := c.Query("date"), c.Query("serviceType")
	get := h.Bookings.GetAvailableSlots
	if boolQuery(c, "realtime") {
		get = h.Bookings.GetRealTimeAvailableSlots
	}
	result, err := get(c.Request.Context(), date, serviceType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "serviceType": serviceType, "slots": result})
}

// GetWeekSlots handles GET /api/slots/week?start=&serviceType=.
func (h *SlotHandler) GetWeekSlots(c *gin.Context) {
	week, err := h.Bookings.GetAvailableSlotsForWeek(c.Request.Context(), c.Query("start"), c.Query("serviceType"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// CheckSlot handles GET /api/slots/check?date=&time=&serviceType=.
func (h *SlotHandler) CheckSlot(c *gin.Context) {
	date, clock := c.Query("date"), c.Query("time")
	ok, err := h.Bookings.IsSlotAvailable(c.Request.Context(), date, clock, c.Query("serviceType"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "time": clock, "available": ok})
}

// SlotInfo handles GET /api/slots/info?serviceType=.
func (h *SlotHandler) SlotInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.Engine.Info(c.Query("serviceType")))
}

// RefreshSlots handles POST /api/slots/refresh?date=.
func (h *SlotHandler) RefreshSlots(c *gin.Context) {
	if err := h.Bookings.ForceRefreshSlotAvailability(c.Request.Context(), c.Query("date")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
