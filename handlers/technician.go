package handlers

import (
	"net/http"

	"vehicleservice/models"
	"vehicleservice/services/assignment"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TechnicianHandler struct {
	Allocator assignment.WorkloadAllocator
}

func NewTechnicianHandler(allocator assignment.WorkloadAllocator) *TechnicianHandler {
	return &TechnicianHandler{Allocator: allocator}
}

// CreateTechnician handles POST /api/technicians.
func (h *TechnicianHandler) CreateTechnician(c *gin.Context) {
	var in models.TechnicianInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Allocator.CreateTechnician(c.Request.Context(), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.GetLogger().Info("technician created", zap.String("technician", t.ID), zap.String("employeeId", t.EmployeeID))
	c.JSON(http.StatusCreated, t)
}

// ListTechnicians handles GET /api/technicians?available=&active=.
func (h *TechnicianHandler) ListTechnicians(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list []models.Technician
		err  error
	)
	switch {
	case boolQuery(c, "available"):
		list, err = h.Allocator.AvailableTechnicians(ctx)
	case boolQuery(c, "active"):
		list, err = h.Allocator.ActiveTechnicians(ctx)
	default:
		list, err = h.Allocator.ListTechnicians(ctx)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": list, "count": len(list)})
}

func (h *TechnicianHandler) GetTechnician(c *gin.Context) {
	t, err := h.Allocator.GetTechnician(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// UpdateTechnician handles PUT /api/technicians/:id. Workload is never set here.
func (h *TechnicianHandler) UpdateTechnician(c *gin.Context) {
	var in models.TechnicianInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Allocator.UpdateTechnician(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeactivateTechnician handles DELETE /api/technicians/:id. Technicians are
// deactivated rather than removed so their history stays intact.
func (h *TechnicianHandler) DeactivateTechnician(c *gin.Context) {
	if err := h.Allocator.DeactivateTechnician(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Technician deactivated"})
}

func (h *TechnicianHandler) Stats(c *gin.Context) {
	stats, err := h.Allocator.TechnicianStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Work handles GET /api/technicians/:id/assignments.
func (h *TechnicianHandler) Work(c *gin.Context) {
	view, err := h.Allocator.TechnicianWithAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Overview handles GET /api/technicians/overview.
func (h *TechnicianHandler) Overview(c *gin.Context) {
	list, err := h.Allocator.AllTechniciansWithAssignments(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": list, "count": len(list)})
}
