// README: Base handler utilities (JSON helpers, planner error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voyage/internal/modules/invoke"
	"voyage/internal/modules/itinerary"
	"voyage/internal/modules/trip"
	"voyage/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

// writePlanError maps a planner failure to a status code and its
// caller-facing message.
func writePlanError(c *gin.Context, err error) {
	var perr *service.PlannerError
	if !errors.As(err, &perr) {
		writeError(c, http.StatusInternalServerError, service.MsgInternal)
		return
	}
	status := http.StatusInternalServerError
	switch {
	case perr.Canceled:
		status = http.StatusRequestTimeout
	case errors.Is(err, trip.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, invoke.ErrInvocation):
		status = http.StatusServiceUnavailable
	case errors.Is(err, itinerary.ErrAssembly):
		status = http.StatusBadGateway
	}
	writeError(c, status, perr.UserMessage())
}
