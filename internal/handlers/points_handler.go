package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/booking_api/internal/middleware"
	"github.com/mroshb/booking_api/internal/models"
	"github.com/mroshb/booking_api/internal/services"
	"github.com/mroshb/booking_api/pkg/errors"
	"github.com/mroshb/booking_api/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type PointsHandler struct {
	points *services.PointsService
	export *services.ExportService
}

func NewPointsHandler(points *services.PointsService, export *services.ExportService) *PointsHandler {
	return &PointsHandler{points: points, export: export}
}

type adjustPointsRequest struct {
	UserID      string `json:"userId" binding:"required"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type rewardBookingRequest struct {
	UserID       string  `json:"userId" binding:"required"`
	BookingPrice float64 `json:"bookingPrice"`
}

type redeemPointsRequest struct {
	UserID      string `json:"userId"`
	PointsToUse int64  `json:"pointsToUse"`
}

type checkInRewardRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// AdjustPoints handles POST /points/adjust (admin).
func (h *PointsHandler) AdjustPoints(c *gin.Context) {
	var req adjustPointsRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.points.AdjustPoints(c.Request.Context(), req.UserID, req.Amount, req.Description)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		response.Success(c, http.StatusOK, "No points adjusted", nil)
		return
	}
	response.Success(c, http.StatusOK, "Points adjusted successfully", result)
}

// RewardForBooking handles POST /points/reward-booking (admin).
func (h *PointsHandler) RewardForBooking(c *gin.Context) {
	var req rewardBookingRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.points.RewardForBooking(c.Request.Context(), req.UserID, req.BookingPrice)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result == nil {
		response.Success(c, http.StatusOK, "Booking price too low to earn points", nil)
		return
	}
	response.Success(c, http.StatusOK, "Booking reward added", result)
}

// RedeemPoints handles POST /points/redeem. Callers redeem their own points unless they are admins.
func (h *PointsHandler) RedeemPoints(c *gin.Context) {
	var req redeemPointsRequest
	if !bind(c, &req) {
		return
	}
	if req.UserID == "" {
		req.UserID = middleware.GetUserID(c)
	}
	if !authorizeUser(c, req.UserID) {
		return
	}

	result, err := h.points.RedeemPoints(c.Request.Context(), req.UserID, req.PointsToUse)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Points redeemed successfully", result)
}

// GiveCheckInPoints handles POST /points/check-in-reward (admin).
func (h *PointsHandler) GiveCheckInPoints(c *gin.Context) {
	var req checkInRewardRequest
	if !bind(c, &req) {
		return
	}

	result, err := h.points.GiveCheckInPoints(c.Request.Context(), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Check-in points awarded", result)
}

// GetUserPoints handles GET /points/:userId.
func (h *PointsHandler) GetUserPoints(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	result, err := h.points.GetUserPoints(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", result)
}

// ExportStatement handles GET /points/:userId/export.
func (h *PointsHandler) ExportStatement(c *gin.Context) {
	userID := c.Param("userId")
	if !authorizeUser(c, userID) {
		return
	}

	buf, err := h.export.ExportStatement(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+services.StatementFilename(userID, time.Now())+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// authorizeUser allows admins and the user themselves.
func authorizeUser(c *gin.Context, userID string) bool {
	if userID != "" && (userID == middleware.GetUserID(c) || middleware.HasRole(c, models.RoleAdmin)) {
		return true
	}
	response.Error(c, errors.New(errors.ErrCodeForbidden, "you can only access your own points"))
	return false
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, errors.Wrap(err, errors.ErrCodeValidation, "invalid request body"))
		return false
	}
	return true
}
