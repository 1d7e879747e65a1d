package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/urmzd/eyecare/pkg/api/types"
	"github.com/urmzd/eyecare/pkg/device"
)

// abortWithError writes the error response matching err.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, device.ErrNotFound):
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "not_found",
			Message: "Lamp not found",
		})
	case errors.Is(err, device.ErrNotReady):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "not_ready",
			Message: "Lamp has not completed its handshake yet",
		})
	case errors.Is(err, device.ErrNotConnected):
		c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{
			Error:   "controller_disconnected",
			Message: err.Error(),
		})
	case errors.Is(err, device.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{
			Error:   "timeout",
			Message: "Request timed out waiting for lamp response",
		})
	default:
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "controller_error",
			Message: err.Error(),
		})
	}
}
