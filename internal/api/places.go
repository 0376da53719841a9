package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/places"
)

type placesResponse struct {
	Query    string              `json:"query"`
	Location string              `json:"location"`
	Source   string              `json:"source"`
	Places   []places.Place      `json:"places"`
	Evidence []places.Evidence   `json:"evidence"`
	Chart    []places.ChartPoint `json:"chart"`
}

// handlePlacesSearch serves mock competitor data for a niche query.
func (s *Server) handlePlacesSearch(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return errorJSON(c, http.StatusBadRequest, "q is required")
	}

	params := places.SearchParams{
		Query:    q,
		Location: c.QueryParam("location"),
		Limit:    intQuery(c, "limit", places.DefaultResults),
		Radius:   intQuery(c, "radius", places.DefaultRadius),
	}
	lat, latErr := strconv.ParseFloat(c.QueryParam("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if latErr == nil && lngErr == nil {
		params.Lat, params.Lng = &lat, &lng
	}
	for _, v := range c.QueryParams()["category"] {
		params.Categories = append(params.Categories, splitCSV(v)...)
	}

	resolved := params.Resolve()
	found := places.Generate(params)
	evidence := places.BuildCompetitorEvidence(found)
	s.metrics.AddPlacesGenerated(len(found))

	return c.JSON(http.StatusOK, placesResponse{
		Query:    resolved.Query,
		Location: resolved.Location,
		Source:   places.SourceMock,
		Places:   found,
		Evidence: evidence,
		Chart:    places.BuildVisibilityChartData(evidence),
	})
}
