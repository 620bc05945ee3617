package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/factory"
	"github.com/oksasatya/vital-identity/internal/interface/middleware"
	"github.com/oksasatya/vital-identity/pkg/response"
)

type UserHandler struct {
	Svc    ProfileUseCases
	Logger *logrus.Logger
}

func NewUserHandler(svc ProfileUseCases, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type uploadDataRequest struct {
	Temperature     float64 `json:"temperature"`
	TemperatureUnit string  `json:"temperature_unit" binding:"required,oneof=C F"`
	HeartRate       float64 `json:"heart_rate"`
	BloodPressure   float64 `json:"blood_pressure"`
	IssuedAt        string  `json:"issued_at"`
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	u, err := h.Svc.Profile(c.Request.Context(), p.UserID)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toUserView(u), "profile", nil)
}

func (h *UserHandler) Deactivate(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	if err := h.Svc.Deactivate(c.Request.Context(), p.UserID); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"is_active": false}, "profile deactivated", nil)
}

// UploadData appends a vitals reading to the caller's history.
func (h *UserHandler) UploadData(c *gin.Context) {
	var req uploadDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	p, _ := middleware.PrincipalFrom(c)
	st, err := h.Svc.AppendStatus(c.Request.Context(), factory.UserStatusInput{
		UserID:          p.UserID,
		Temperature:     req.Temperature,
		TemperatureUnit: req.TemperatureUnit,
		HeartRate:       req.HeartRate,
		BloodPressure:   req.BloodPressure,
		IssuedAt:        req.IssuedAt,
	})
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toStatusView(*st), "data uploaded", nil)
}

func (h *UserHandler) Statuses(c *gin.Context) {
	p, _ := middleware.PrincipalFrom(c)
	list, err := h.Svc.Statuses(c.Request.Context(), p.UserID)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	out := make([]statusView, 0, len(list))
	for _, st := range list {
		out = append(out, toStatusView(st))
	}
	response.Success(c, http.StatusOK, out, "statuses", map[string]any{"count": len(out)})
}

// RegularUsers handles GET /analytics/get-regular-users?q=&size= for admins.
func (h *UserHandler) RegularUsers(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	users, err := h.Svc.RegularUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, users, "regular users", map[string]any{"count": len(users)})
}
