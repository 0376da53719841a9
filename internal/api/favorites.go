package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (s *Server) handleAddFavorite(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	reportID, ok := uuidParam(c, "reportId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid report ID")
	}
	if err := s.store.AddFavorite(c.Request().Context(), userID, reportID); err != nil {
		return s.storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleRemoveFavorite(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	reportID, ok := uuidParam(c, "reportId")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid report ID")
	}
	if err := s.store.RemoveFavorite(c.Request().Context(), userID, reportID); err != nil {
		return s.storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleListFavorites(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	favorites, err := s.store.ListFavorites(c.Request().Context(), userID)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, favorites)
}

func (s *Server) handleDashboard(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	dashboard, err := s.store.GetDashboard(c.Request().Context(), userID)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
