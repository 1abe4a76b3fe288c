package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/internal/middleware"
	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/internal/services"
	"github.com/mroshb/booking_api/pkg/response"
)

type BookingHandler struct {
	bookings *services.BookingService
}

func NewBookingHandler(bookings *services.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type createBookingRequest struct {
	ClientID       string `json:"client_id" binding:"required"`
	UserID         string `json:"user_id"`
	ProfessionalID string `json:"professional_id" binding:"required"`
	ServiceID      string `json:"service_id" binding:"required"`
	Date           string `json:"date" binding:"required"`
	Time           string `json:"time" binding:"required"`
	Notes          string `json:"notes"`
}

// CreateBooking handles POST /bookings. The booking belongs to the caller unless an admin books for someone else.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req createBookingRequest
	if !bind(c, &req) {
		return
	}

	userID := middleware.GetUserID(c)
	if req.UserID != "" && middleware.HasRole(c, models.RoleAdmin) {
		userID = req.UserID
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), &models.Booking{
		ClientID:       req.ClientID,
		UserID:         userID,
		ProfessionalID: req.ProfessionalID,
		ServiceID:      req.ServiceID,
		Date:           req.Date,
		Time:           req.Time,
		Notes:          req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Booking created", booking)
}

// GetMyBookings handles GET /bookings/mine.
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	bookings, err := h.bookings.GetMyBookings(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", bookings)
}

// CheckIn handles POST /bookings/:id/check-in (admin or professional).
func (h *BookingHandler) CheckIn(c *gin.Context) {
	result, err := h.bookings.CheckIn(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Checked in successfully", result)
}
