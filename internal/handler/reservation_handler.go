package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/internal/service"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
	"github.com/tutorhive/tutorhive-api/pkg/response"
)

type reservationService interface {
	Create(ctx context.Context, studentID string, req service.CreateReservationRequest) (*models.Reservation, error)
	ListForCaller(ctx context.Context, userID, role string) ([]models.Reservation, error)
}

// ReservationHandler manages booking endpoints.
type ReservationHandler struct {
	service reservationService
}

// NewReservationHandler constructs handler.
func NewReservationHandler(svc reservationService) *ReservationHandler {
	return &ReservationHandler{service: svc}
}

// Create godoc
// @Summary Book a lesson
// @Tags Reservations
// @Accept json
// @Produce json
// @Param payload body service.CreateReservationRequest true "Reservation payload"
// @Success 201 {object} models.Reservation
// @Router /reservations [post]
func (h *ReservationHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	reservation, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, reservation)
}

// List godoc
// @Summary List the caller's reservations
// @Tags Reservations
// @Produce json
// @Success 200 {array} models.Reservation
// @Router /reservations [get]
func (h *ReservationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	reservations, err := h.service.ListForCaller(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reservations)
}
