package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/auth"
)

func (s *Server) handleSignup(c echo.Context) error {
	var req auth.SignupRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	resp, err := s.auth.Signup(c.Request().Context(), req)
	switch {
	case errors.Is(err, auth.ErrUserExists):
		return errorJSON(c, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidInput):
		return errorJSON(c, http.StatusBadRequest, err.Error())
	case err != nil:
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusCreated, resp)
}

func (s *Server) handleLogin(c echo.Context) error {
	var req auth.LoginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	resp, err := s.auth.Login(c.Request().Context(), req)
	if errors.Is(err, auth.ErrInvalidCreds) {
		return errorJSON(c, http.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return s.storeError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleMe(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := s.auth.Me(c.Request().Context(), userID)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
