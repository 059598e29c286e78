package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type scheduleService interface {
	GetSchedule(ctx context.Context, userID string) (*service.ScheduleResult, error)
	ReplaceSchedule(ctx context.Context, userID string, req service.ReplaceScheduleRequest) (*service.ReplaceScheduleResult, error)
}

type conflictService interface {
	CheckConflicts(ctx context.Context, userID string, req service.CheckConflictsRequest) (*models.ConflictReport, error)
}

type scheduleExportService interface {
	RenderSchedule(slots []models.AvailableSlot, format string) (*service.ExportFile, error)
}

// ScheduleHandler manages the authenticated teacher's weekly availability.
type ScheduleHandler struct {
	schedule  scheduleService
	conflicts conflictService
	exports   scheduleExportService
	metrics   *service.MetricsService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(schedule scheduleService, conflicts conflictService, exports scheduleExportService, metrics *service.MetricsService) *ScheduleHandler {
	return &ScheduleHandler{schedule: schedule, conflicts: conflicts, exports: exports, metrics: metrics}
}

// Get godoc
// @Summary Get weekly availability
// @Tags Schedule
// @Produce json
// @Success 200 {object} service.ScheduleResult
// @Router /schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.schedule.GetSchedule(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Replace godoc
// @Summary Replace weekly availability
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body service.ReplaceScheduleRequest true "Full replacement slot set"
// @Success 200 {object} service.ReplaceScheduleResult
// @Router /schedule [put]
func (h *ScheduleHandler) Replace(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.schedule.ReplaceSchedule(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// CheckConflicts godoc
// @Summary Check reservation conflicts against availability
// @Tags Schedule
// @Produce json
// @Param from_date query string true "Start date YYYY-MM-DD"
// @Param to_date query string true "End date YYYY-MM-DD"
// @Param slot_ids query string false "Comma-separated slot ids"
// @Success 200 {object} models.ConflictReport
// @Router /schedule/conflicts [get]
func (h *ScheduleHandler) CheckConflicts(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	slotIDs, err := parseSlotIDs(c.Query("slot_ids"))
	if err != nil {
		response.Error(c, err)
		return
	}

	req := service.CheckConflictsRequest{
		FromDate: c.Query("from_date"),
		ToDate:   c.Query("to_date"),
		SlotIDs:  slotIDs,
	}
	report, err := h.conflicts.CheckConflicts(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveConflictCheck(report.TotalConflicts)
	}
	response.JSON(c, http.StatusOK, report)
}

// Export godoc
// @Summary Download weekly availability as CSV or PDF
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} binary
// @Router /schedule/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	result, err := h.schedule.GetSchedule(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.RenderSchedule(result.AvailableSlots, c.DefaultQuery("format", service.ExportFormatCSV))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

// parseSlotIDs splits the comma-separated slot_ids query parameter. Empty
// entries make the whole list malformed.
func parseSlotIDs(raw string) ([]string, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, appErrors.Validation("invalid slot_ids", map[string]string{
				"slot_ids": "slot_ids must be a comma-separated list of ids",
			})
		}
		ids = append(ids, id)
	}
	return ids, nil
}
