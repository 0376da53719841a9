package api

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/ai"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/auth"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/coins"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/metrics"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/notify"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

// Store is the persistence used by the handlers. *db.Store implements it.
type Store interface {
	SaveReport(ctx context.Context, userID uuid.UUID, query string, rep report.Report, embedding []float32) (*models.StoredReport, error)
	GetReport(ctx context.Context, userID, id uuid.UUID) (*models.StoredReport, error)
	ListReports(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.ReportSummary, error)
	UpdateReport(ctx context.Context, userID, id uuid.UUID, edit report.Edit) (*models.StoredReport, error)
	DeleteReport(ctx context.Context, userID, id uuid.UUID) error
	SimilarReports(ctx context.Context, userID, id uuid.UUID, limit int) ([]models.ReportSummary, error)

	SpendCoins(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error)
	CreditCoins(ctx context.Context, userID uuid.UUID, amount int, reason string) (int, error)
	CoinHistory(ctx context.Context, userID uuid.UUID, limit int) ([]models.CoinTransaction, error)

	AddFavorite(ctx context.Context, userID, reportID uuid.UUID) error
	RemoveFavorite(ctx context.Context, userID, reportID uuid.UUID) error
	ListFavorites(ctx context.Context, userID uuid.UUID) ([]models.Favorite, error)

	UpsertCourse(ctx context.Context, c models.Course) (*models.Course, error)
	ListCourses(ctx context.Context) ([]models.Course, error)
	GetCourse(ctx context.Context, idOrSlug string) (*models.Course, error)
	Enroll(ctx context.Context, userID uuid.UUID, course models.Course) (*models.Enrollment, int, error)
	UpdateProgress(ctx context.Context, userID, courseID uuid.UUID, progress int) (*models.Enrollment, error)
	ListEnrollments(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error)

	GetDashboard(ctx context.Context, userID uuid.UUID) (*models.Dashboard, error)
}

var _ Store = (*db.Store)(nil)

type ReportGenerator interface {
	Generate(ctx context.Context, query string) (*ai.GeneratedReport, error)
}

// Deps are the collaborators of the HTTP server. Store may be nil (demo
// mode): routes that need persistence are then not registered.
type Deps struct {
	Store          Store
	Auth           *auth.Service
	Generator      ReportGenerator
	Coins          *coins.Catalog
	Courses        []models.Course
	Notifier       notify.Publisher
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
	Log            logrus.FieldLogger
}

type Server struct {
	Echo *echo.Echo

	cfg       config.ServerConfig
	store     Store
	auth      *auth.Service
	generator ReportGenerator
	coins     *coins.Catalog
	courses   []models.Course
	notifier  notify.Publisher
	metrics   metrics.Recorder
	log       logrus.FieldLogger
}

func NewServer(cfg config.ServerConfig, deps Deps) *Server {
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NoopRecorder{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(deps.Log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "X-Admin-Secret"},
	}))

	s := &Server{
		Echo:      e,
		cfg:       cfg,
		store:     deps.Store,
		auth:      deps.Auth,
		generator: deps.Generator,
		coins:     deps.Coins,
		courses:   deps.Courses,
		notifier:  deps.Notifier,
		metrics:   deps.Metrics,
		log:       deps.Log,
	}
	s.routes(deps.MetricsHandler)
	return s
}

// Start blocks serving on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.Echo.Shutdown(ctx)
}

func requestLogger(log logrus.FieldLogger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := log.WithFields(logrus.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency.String(),
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request failed")
				return nil
			}
			entry.Info("request")
			return nil
		},
	})
}

func (s *Server) routes(metricsHandler http.Handler) {
	s.Echo.GET("/health", s.handleHealth)
	if metricsHandler != nil {
		s.Echo.GET("/metrics", echo.WrapHandler(metricsHandler))
	}

	api := s.Echo.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/auth/signup", s.handleSignup)
	api.POST("/auth/login", s.handleLogin)
	api.GET("/courses", s.handleListCourses)
	api.GET("/courses/:id", s.handleGetCourse)
	api.GET("/places/search", s.handlePlacesSearch)
	api.GET("/coins/packages", s.handleCoinPackages)

	protected := api.Group("")
	protected.Use(auth.Middleware(s.auth.Tokens()))
	protected.GET("/auth/me", s.handleMe)
	protected.POST("/reports/normalize", s.handleNormalizeReport)

	if s.store == nil {
		return
	}

	protected.POST("/reports", s.handleCreateReport)
	protected.GET("/reports", s.handleListReports)
	protected.GET("/reports/:id", s.handleGetReport)
	protected.PUT("/reports/:id", s.handleUpdateReport)
	protected.DELETE("/reports/:id", s.handleDeleteReport)
	protected.GET("/reports/:id/similar", s.handleSimilarReports)

	protected.GET("/coins", s.handleCoins)
	protected.POST("/coins/purchase", s.handlePurchaseCoins)

	protected.POST("/courses/:id/enroll", s.handleEnroll)
	protected.PATCH("/courses/:id/progress", s.handleUpdateProgress)
	protected.GET("/enrollments", s.handleListEnrollments)

	protected.POST("/favorites/:reportId", s.handleAddFavorite)
	protected.DELETE("/favorites/:reportId", s.handleRemoveFavorite)
	protected.GET("/favorites", s.handleListFavorites)

	protected.GET("/dashboard", s.handleDashboard)

	admin := api.Group("/admin")
	admin.Use(s.adminMiddleware)
	admin.POST("/seed-courses", s.handleSeedCourses)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// adminMiddleware accepts the admin secret in X-Admin-Secret or as a Bearer
// token. The Bearer form shares the Authorization header with user JWTs, so
// a user token sent to /admin is simply compared and rejected.
func (s *Server) adminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		secret := s.cfg.AdminSecret
		if secret == "" {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Server admin configuration error"})
		}

		// Check X-Admin-Secret header or Bearer token
		candidate := c.Request().Header.Get("X-Admin-Secret")
		if candidate == "" {
			authHeader := c.Request().Header.Get("Authorization")
			if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
				candidate = authHeader[7:]
			}
		}
		if candidate != "" && subtle.ConstantTimeCompare([]byte(candidate), []byte(secret)) == 1 {
			return next(c)
		}
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized admin access"})
	}
}

func (s *Server) publish(ctx context.Context, userID uuid.UUID, eventType string, data map[string]any) {
	err := s.notifier.Publish(ctx, notify.Event{Type: eventType, UserID: userID, Data: data, CreatedAt: time.Now().UTC()})
	if err != nil {
		s.log.WithError(err).WithField("event", eventType).Warn("notification not delivered")
	}
}

// currentUser reads the id stored by auth.Middleware.
func currentUser(c echo.Context) (uuid.UUID, error) {
	id, err := auth.GetUserIDFromContext(c)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	return id, nil
}

func uuidParam(c echo.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	return id, err == nil
}

func intQuery(c echo.Context, name string, def int) int {
	if v, err := strconv.Atoi(c.QueryParam(name)); err == nil {
		return v
	}
	return def
}

// splitCSV splits a comma-separated query parameter into trimmed non-empty strings.
func splitCSV(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
