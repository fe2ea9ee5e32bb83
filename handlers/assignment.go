package handlers

import (
	"context"
	"net/http"

	"vehicleservice/models"
	"vehicleservice/services/assignment"
	"vehicleservice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CleanupEnqueuer schedules an orphan cleanup in the background and returns the job ID.
type CleanupEnqueuer func(ctx context.Context, requestedBy string) (string, error)

type AssignmentHandler struct {
	Allocator assignment.WorkloadAllocator
	Enqueue   CleanupEnqueuer // nil runs cleanup inline
}

func NewAssignmentHandler(allocator assignment.WorkloadAllocator, enqueue CleanupEnqueuer) *AssignmentHandler {
	return &AssignmentHandler{Allocator: allocator, Enqueue: enqueue}
}

// Assign handles POST /api/assignments.
func (h *AssignmentHandler) Assign(c *gin.Context) {
	var in models.AssignmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Allocator.Assign(c.Request.Context(), in, c.GetString("userID"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// ListAssignments handles GET /api/assignments?technicianId=&active=.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list []models.Assignment
		err  error
	)
	techID := c.Query("technicianId")
	switch {
	case techID != "" && boolQuery(c, "active"):
		list, err = h.Allocator.ActiveAssignmentsByTechnician(ctx, techID)
	case techID != "":
		list, err = h.Allocator.AssignmentsByTechnician(ctx, techID)
	default:
		list, err = h.Allocator.ListAssignments(ctx)
	}
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assignments": list, "count": len(list)})
}

func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	a, err := h.Allocator.GetAssignment(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *AssignmentHandler) Start(c *gin.Context) {
	h.respond(c)(h.Allocator.StartAssignment(c.Request.Context(), c.Param("id")))
}

func (h *AssignmentHandler) Complete(c *gin.Context) {
	h.respond(c)(h.Allocator.CompleteAssignment(c.Request.Context(), c.Param("id")))
}

func (h *AssignmentHandler) Cancel(c *gin.Context) {
	h.respond(c)(h.Allocator.CancelAssignment(c.Request.Context(), c.Param("id")))
}

type statusInput struct {
	Status models.AssignmentStatus `json:"status" binding:"required"`
}

// UpdateStatus handles PUT /api/assignments/:id/status.
func (h *AssignmentHandler) UpdateStatus(c *gin.Context) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}
	h.respond(c)(h.Allocator.UpdateAssignmentStatus(c.Request.Context(), c.Param("id"), in.Status))
}

func (h *AssignmentHandler) respond(c *gin.Context) func(*models.Assignment, error) {
	return func(a *models.Assignment, err error) {
		if err != nil {
			utils.RespondError(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// Remove handles DELETE /api/assignments/:id.
func (h *AssignmentHandler) Remove(c *gin.Context) {
	if err := h.Allocator.RemoveAssignment(c.Request.Context(), c.Param("id")); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment removed"})
}

// Cleanup handles POST /api/assignments/cleanup?async=. Async requests are
// enqueued on the job queue and answered with 202.
func (h *AssignmentHandler) Cleanup(c *gin.Context) {
	logger := utils.GetLogger()
	user := c.GetString("userID")
	if h.Enqueue != nil && boolQuery(c, "async") {
		jobID, err := h.Enqueue(c.Request.Context(), user)
		if err == nil {
			c.JSON(http.StatusAccepted, gin.H{"jobId": jobID})
			return
		}
		logger.Warn("could not enqueue orphan cleanup, running inline", zap.Error(err))
	}
	removed, err := h.Allocator.CleanupOrphanedAssignments(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	logger.Info("orphaned assignments removed", zap.Int("count", removed), zap.String("user", user))
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
