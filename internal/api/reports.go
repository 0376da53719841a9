package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/ai"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/coins"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/metrics"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/notify"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/places"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

const maxQueryLength = 200

type createReportRequest struct {
	Query string `json:"query"`
}

type createReportResponse struct {
	Report   *models.StoredReport `json:"report"`
	Evidence []places.Evidence    `json:"evidence"`
	Chart    []places.ChartPoint  `json:"chart"`
	Balance  int                  `json:"balance"`
}

// handleCreateReport charges the report price, generates and stores the
// report. The charge is refunded when generation or storage fails.
func (s *Server) handleCreateReport(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createReportRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return errorJSON(c, http.StatusBadRequest, "query is required")
	}
	query = report.Clamp(query, maxQueryLength)

	ctx := c.Request().Context()
	started := time.Now()
	log := s.log.WithField("user_id", userID).WithField("query", query)

	cost := s.coins.Cost(coins.FeatureReport)
	balance := 0
	if cost > 0 {
		balance, err = s.store.SpendCoins(ctx, userID, cost, coins.FeatureReport)
		if errors.Is(err, db.ErrInsufficientCoins) {
			s.metrics.ObserveReportGeneration(metrics.OutcomeInsufficient, time.Since(started))
			return c.JSON(http.StatusPaymentRequired, map[string]any{"error": "Insufficient coins", "required": cost})
		}
		if err != nil {
			return s.storeError(c, err)
		}
	}

	gen, err := s.generator.Generate(ctx, query)
	if err != nil {
		outcome := metrics.OutcomeFailed
		if errors.Is(err, ai.ErrInvalidAIResponse) {
			outcome = metrics.OutcomeInvalid
		}
		s.metrics.ObserveReportGeneration(outcome, time.Since(started))
		s.refund(ctx, userID, cost)
		log.WithError(err).Warn("report generation failed")
		return errorJSON(c, http.StatusBadGateway, "Report generation failed, coins were refunded")
	}

	stored, err := s.store.SaveReport(ctx, userID, query, gen.Report, gen.Embedding)
	if err != nil {
		s.metrics.ObserveReportGeneration(metrics.OutcomeFailed, time.Since(started))
		s.refund(ctx, userID, cost)
		return s.storeError(c, err)
	}

	s.metrics.ObserveReportGeneration(metrics.OutcomeSuccess, time.Since(started))
	s.metrics.AddCoinsSpent(coins.FeatureReport, cost)
	s.metrics.AddPlacesGenerated(len(gen.Evidence))
	log.WithField("report_id", stored.ID).Info("report generated")

	s.publish(ctx, userID, notify.EventReportGenerated, map[string]any{"reportId": stored.ID, "title": stored.Report.Title})
	if cost > 0 {
		s.publish(ctx, userID, notify.EventCoinsUpdated, map[string]any{"balance": balance, "delta": -cost})
	}

	return c.JSON(http.StatusCreated, createReportResponse{
		Report:   stored,
		Evidence: gen.Evidence,
		Chart:    places.BuildVisibilityChartData(gen.Evidence),
		Balance:  balance,
	})
}

func (s *Server) refund(ctx context.Context, userID uuid.UUID, amount int) {
	if amount <= 0 {
		return
	}
	// Refunds outlive the request context.
	if _, err := s.store.CreditCoins(context.WithoutCancel(ctx), userID, amount, "refund:"+coins.FeatureReport); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("refund failed")
	}
}

func (s *Server) handleListReports(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	reports, err := s.store.ListReports(c.Request().Context(), userID, intQuery(c, "limit", 20), intQuery(c, "offset", 0))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, reports)
}

func (s *Server) handleGetReport(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid report ID")
	}
	stored, err := s.store.GetReport(c.Request().Context(), userID, id)
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, stored)
}

// handleUpdateReport accepts a client-edited report. The body goes through
// report.SanitizeEdit before it is merged into the stored one.
func (s *Server) handleUpdateReport(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid report ID")
	}

	var raw report.Raw
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil || raw == nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}

	stored, err := s.store.UpdateReport(c.Request().Context(), userID, id, report.SanitizeEdit(raw))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, stored)
}

func (s *Server) handleDeleteReport(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid report ID")
	}
	if err := s.store.DeleteReport(c.Request().Context(), userID, id); err != nil {
		return s.storeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleSimilarReports(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Invalid report ID")
	}
	similar, err := s.store.SimilarReports(c.Request().Context(), userID, id, intQuery(c, "limit", 5))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, similar)
}

// handleNormalizeReport returns the normalized form of an arbitrary raw
// report without storing it.
func (s *Server) handleNormalizeReport(c echo.Context) error {
	var raw report.Raw
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}
	if raw == nil {
		raw = report.Raw{}
	}
	return c.JSON(http.StatusOK, report.Normalize(raw))
}
