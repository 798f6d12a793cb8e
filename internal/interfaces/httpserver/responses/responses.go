// Package responses contains shared HTTP response helpers and DTOs.
package responses

import (
	"github.com/gin-gonic/gin"

	"github.com/daosail/daosail-server/internal/infrastructure/logger"
	"github.com/daosail/daosail-server/internal/utils/platformerrors"
)

// ErrorResponse is the standard error payload returned by every endpoint.
type ErrorResponse struct {
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleError renders err as JSON, mapping PlatformError types to HTTP
// status codes and logging the structured error.
func HandleError(c *gin.Context, err error, message string) {
	platformErr := platformerrors.AsError(c.Request.Context(), platformerrors.LayerHandler, err, message)
	writePlatformError(c, platformErr)
}

// HandleNewError renders a fresh error with an explicit type and stable code.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message string, code string) {
	platformErr := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, code)
	writePlatformError(c, platformErr)
}

// HandleErrorWithStatus renders err with a caller-chosen HTTP status,
// bypassing the type-to-status mapping.
func HandleErrorWithStatus(c *gin.Context, status int, err error, message string) {
	platformErr := platformerrors.AsError(c.Request.Context(), platformerrors.LayerHandler, err, message)
	if platformErr == nil {
		platformErr = platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, platformerrors.ErrorTypeInternal, message, nil, "")
	}
	platformerrors.LogError(logger.GetLogger(), platformErr)
	c.JSON(status, ErrorResponse{
		Code:      platformErr.UUID,
		Error:     platformErr.Message,
		RequestID: platformErr.RequestID,
	})
}

func writePlatformError(c *gin.Context, platformErr *platformerrors.PlatformError) {
	platformerrors.LogError(logger.GetLogger(), platformErr)
	c.JSON(platformerrors.ErrorTypeToHTTPStatus(platformErr.Type), ErrorResponse{
		Code:      platformErr.UUID,
		Error:     platformErr.Message,
		RequestID: platformErr.RequestID,
	})
}
