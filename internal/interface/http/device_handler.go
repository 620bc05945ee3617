package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	"github.com/oksasatya/vital-identity/pkg/response"
)

// DeviceHandler serves the admin device endpoints under /analytics.
type DeviceHandler struct {
	Svc    DeviceUseCases
	Logger *logrus.Logger
}

func NewDeviceHandler(svc DeviceUseCases, logger *logrus.Logger) *DeviceHandler {
	return &DeviceHandler{Svc: svc, Logger: logger}
}

type deviceRequest struct {
	UserID     string `json:"user_id" binding:"required"`
	IssuedAt   string `json:"issued_at"`
	LastActive string `json:"last_active"`
	Status     string `json:"status"`
	Insurance  struct {
		Name           string `json:"name" binding:"required"`
		ExpirationDate string `json:"expiration_date" binding:"required"`
	} `json:"insurance"`
	Model struct {
		Name         string  `json:"name" binding:"required"`
		Manufacturer string  `json:"manufacturer" binding:"required"`
		ReleaseDate  string  `json:"release_date" binding:"required"`
		LastUpdate   string  `json:"last_update" binding:"required"`
		Price        float64 `json:"price" binding:"gte=0"`
	} `json:"model"`
	PassCode *int `json:"pass_code" binding:"omitempty,passcode"`
}

// input maps the payload as sent. Blank status and timestamps stay blank so an update
// keeps the stored values.
func (r deviceRequest) input(id string) factory.DeviceInput {
	return factory.DeviceInput{
		ID:         id,
		IssuedAt:   r.IssuedAt,
		UserID:     r.UserID,
		Status:     r.Status,
		LastActive: r.LastActive,
		Insurance: factory.InsuranceInput{
			Name:           r.Insurance.Name,
			ExpirationDate: r.Insurance.ExpirationDate,
		},
		Model: factory.DeviceModelInput{
			Name:         r.Model.Name,
			Manufacturer: r.Model.Manufacturer,
			ReleaseDate:  r.Model.ReleaseDate,
			LastUpdate:   r.Model.LastUpdate,
			Price:        r.Model.Price,
		},
		PassCode: r.PassCode,
	}
}

// registration fills the defaults for a new device: status active, timestamps now.
func (r deviceRequest) registration(now time.Time) factory.DeviceInput {
	in := r.input("")
	if in.Status == "" {
		in.Status = string(entity.DeviceActive)
	}
	stamp := now.UTC().Format(time.RFC3339)
	if in.IssuedAt == "" {
		in.IssuedAt = stamp
	}
	if in.LastActive == "" {
		in.LastActive = stamp
	}
	return in
}

func (h *DeviceHandler) Register(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	d, err := h.Svc.Register(c.Request.Context(), req.registration(time.Now()))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, toDeviceView(d), "device registered", nil)
}

func (h *DeviceHandler) Update(c *gin.Context) {
	var req deviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}
	d, err := h.Svc.Update(c.Request.Context(), req.input(c.Param("id")))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toDeviceView(d), "device updated", nil)
}

func (h *DeviceHandler) Get(c *gin.Context) {
	d, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toDeviceView(d), "device", nil)
}

func (h *DeviceHandler) List(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toDeviceViews(list), "devices", map[string]any{"count": len(list)})
}

func (h *DeviceHandler) ListActive(c *gin.Context)   { h.listByStatus(c, entity.DeviceActive) }
func (h *DeviceHandler) ListInactive(c *gin.Context) { h.listByStatus(c, entity.DeviceInactive) }

func (h *DeviceHandler) listByStatus(c *gin.Context, status entity.DeviceStatus) {
	list, err := h.Svc.ListByStatus(c.Request.Context(), status)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, toDeviceViews(list), string(status)+" devices", map[string]any{"count": len(list)})
}

func (h *DeviceHandler) Activate(c *gin.Context) {
	if err := h.Svc.Activate(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"status": entity.DeviceActive}, "device activated", nil)
}

func (h *DeviceHandler) Deactivate(c *gin.Context) {
	if err := h.Svc.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, map[string]any{"status": entity.DeviceInactive}, "device deactivated", nil)
}

// Heartbeat records that the device was seen now.
func (h *DeviceHandler) Heartbeat(c *gin.Context) {
	if err := h.Svc.Touch(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
