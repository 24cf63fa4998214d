// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"commute/internal/geo"
	"commute/internal/modules/pricing"
	"commute/internal/modules/zone"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(c *gin.Context, status int, msg string) {
	c.JSON(status, errorResponse{Error: msg})
}

func writeEngineError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, zone.ErrInvalidInput),
		errors.Is(err, geo.ErrInvalidCoordinate),
		errors.Is(err, geo.ErrInvalidSpeed):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, zone.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, zone.ErrConflict):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
