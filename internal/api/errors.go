package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
)

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

// storeError maps store sentinels to statuses. Anything else is logged and
// reported as a 500 without details.
func (s *Server) storeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, db.ErrNotFound):
		return errorJSON(c, http.StatusNotFound, "Not found")
	case errors.Is(err, db.ErrInsufficientCoins):
		return errorJSON(c, http.StatusPaymentRequired, "Insufficient coins")
	case errors.Is(err, db.ErrAlreadyEnrolled):
		return errorJSON(c, http.StatusConflict, "Already enrolled")
	case errors.Is(err, db.ErrDuplicate):
		return errorJSON(c, http.StatusConflict, "Already exists")
	}
	s.log.WithError(err).WithField("path", c.Path()).Error("store operation failed")
	return errorJSON(c, http.StatusInternalServerError, "Internal server error")
}
