package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/pkg/apperr"
	"github.com/oksasatya/vital-identity/pkg/helpers"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope, aborts the chain and returns the envelope.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

var statusByKind = map[apperr.Kind]int{
	apperr.InvalidArgument:    http.StatusBadRequest,
	apperr.NotFound:           http.StatusNotFound,
	apperr.AlreadyExists:      http.StatusConflict,
	apperr.PermissionDenied:   http.StatusForbidden,
	apperr.Unauthenticated:    http.StatusUnauthorized,
	apperr.FailedPrecondition: http.StatusBadRequest,
	apperr.Aborted:            http.StatusConflict,
	apperr.OutOfRange:         http.StatusBadRequest,
	apperr.Unimplemented:      http.StatusNotImplemented,
	apperr.Internal:           http.StatusInternalServerError,
	apperr.Unavailable:        http.StatusServiceUnavailable,
	apperr.DataLoss:           http.StatusInternalServerError,
}

// StatusOf maps a failure kind to its HTTP status.
func StatusOf(kind apperr.Kind) int {
	if s, ok := statusByKind[kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Fail writes err using its kind. Server failures and failures raised by a backing
// store or broker are logged; the client only sees the public message.
func Fail(ctx *gin.Context, logger *logrus.Logger, err error) APIResponse[any] {
	kind := apperr.KindOf(err)
	status := StatusOf(kind)
	if logger != nil && (status >= http.StatusInternalServerError || apperr.Unclassified(err)) {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": ctx.GetString("request_id"),
			"path":       ctx.FullPath(),
		})
	}
	var detail interface{}
	if field := apperr.Field(err); field != "" {
		detail = map[string]string{"field": field}
	}
	return Error[any](ctx, status, apperr.PublicMessage(err), detail)
}
