package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/notify"
)

// Without a store the embedded catalog is served read-only.
func (s *Server) handleListCourses(c echo.Context) error {
	if s.store == nil {
		return c.JSON(http.StatusOK, s.courses)
	}
	list, err := s.store.ListCourses(c.Request().Context())
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (s *Server) handleGetCourse(c echo.Context) error {
	key := c.Param("id")
	if s.store == nil {
		for _, course := range s.courses {
			if course.Slug == key || course.ID.String() == key {
				return c.JSON(http.StatusOK, course)
			}
		}
		return errorJSON(c, http.StatusNotFound, "Not found")
	}
	course, err := s.store.GetCourse(c.Request().Context(), key)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (s *Server) handleEnroll(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	course, err := s.store.GetCourse(ctx, c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	enrollment, balance, err := s.store.Enroll(ctx, userID, *course)
	if err != nil {
		return s.storeError(c, err)
	}

	s.metrics.AddCoinsSpent("course", course.PriceCoins)
	s.publish(ctx, userID, notify.EventCourseEnrolled, map[string]any{"courseId": course.ID, "slug": course.Slug})
	if course.PriceCoins > 0 {
		s.publish(ctx, userID, notify.EventCoinsUpdated, map[string]any{"balance": balance, "delta": -course.PriceCoins})
	}

	return c.JSON(http.StatusCreated, map[string]any{"enrollment": enrollment, "balance": balance})
}

type progressRequest struct {
	Progress int `json:"progress"`
}

func (s *Server) handleUpdateProgress(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req progressRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}
	ctx := c.Request().Context()

	course, err := s.store.GetCourse(ctx, c.Param("id"))
	if err != nil {
		return s.storeError(c, err)
	}
	enrollment, err := s.store.UpdateProgress(ctx, userID, course.ID, req.Progress)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, enrollment)
}

func (s *Server) handleListEnrollments(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := s.store.ListEnrollments(c.Request().Context(), userID)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// handleSeedCourses upserts the embedded catalog.
func (s *Server) handleSeedCourses(c echo.Context) error {
	ctx := c.Request().Context()
	seeded := make([]models.Course, 0, len(s.courses))
	for _, course := range s.courses {
		saved, err := s.store.UpsertCourse(ctx, course)
		if err != nil {
			return s.storeError(c, err)
		}
		seeded = append(seeded, *saved)
	}
	s.log.WithField("count", len(seeded)).Info("courses seeded")
	return c.JSON(http.StatusOK, map[string]any{"seeded": len(seeded), "courses": seeded})
}
