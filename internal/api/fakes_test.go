package api

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/ai"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/db"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/models"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/notify"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/places"
	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/report"
)

type fakeStore struct {
	mu          sync.Mutex
	balances    map[uuid.UUID]int
	ledger      []models.CoinTransaction
	reports     map[uuid.UUID]*models.StoredReport
	favorites   map[uuid.UUID]bool
	courses     map[string]*models.Course
	enrollments map[uuid.UUID]*models.Enrollment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		balances:    map[uuid.UUID]int{},
		reports:     map[uuid.UUID]*models.StoredReport{},
		favorites:   map[uuid.UUID]bool{},
		courses:     map[string]*models.Course{},
		enrollments: map[uuid.UUID]*models.Enrollment{},
	}
}

func (f *fakeStore) balance(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balances[userID]
}

func (f *fakeStore) SaveReport(_ context.Context, userID uuid.UUID, query string, rep report.Report, _ []float32) (*models.StoredReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	r := &models.StoredReport{ID: uuid.New(), UserID: userID, Query: query, Report: rep, CreatedAt: now, UpdatedAt: now}
	f.reports[r.ID] = r
	return r, nil
}

func (f *fakeStore) GetReport(_ context.Context, userID, id uuid.UUID) (*models.StoredReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok || r.UserID != userID {
		return nil, db.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) ListReports(_ context.Context, userID uuid.UUID, _, _ int) ([]models.ReportSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.ReportSummary{}
	for _, r := range f.reports {
		if r.UserID == userID {
			out = append(out, models.ReportSummary{ID: r.ID, Query: r.Query, Title: r.Report.Title, CreatedAt: r.CreatedAt})
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateReport(ctx context.Context, userID, id uuid.UUID, edit report.Edit) (*models.StoredReport, error) {
	r, err := f.GetReport(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	r.Report.ApplyEdit(edit)
	f.mu.Lock()
	f.reports[id] = r
	f.mu.Unlock()
	return r, nil
}

func (f *fakeStore) DeleteReport(_ context.Context, userID, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[id]
	if !ok || r.UserID != userID {
		return db.ErrNotFound
	}
	delete(f.reports, id)
	return nil
}

func (f *fakeStore) SimilarReports(context.Context, uuid.UUID, uuid.UUID, int) ([]models.ReportSummary, error) {
	return []models.ReportSummary{}, nil
}

func (f *fakeStore) SpendCoins(_ context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.spendLocked(userID, amount, reason)
}

func (f *fakeStore) spendLocked(userID uuid.UUID, amount int, reason string) (int, error) {
	if f.balances[userID] < amount {
		return 0, db.ErrInsufficientCoins
	}
	f.balances[userID] -= amount
	f.ledger = append(f.ledger, models.CoinTransaction{UserID: userID, Amount: -amount, Reason: reason, BalanceAfter: f.balances[userID]})
	return f.balances[userID], nil
}

func (f *fakeStore) CreditCoins(_ context.Context, userID uuid.UUID, amount int, reason string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[userID] += amount
	f.ledger = append(f.ledger, models.CoinTransaction{UserID: userID, Amount: amount, Reason: reason, BalanceAfter: f.balances[userID]})
	return f.balances[userID], nil
}

func (f *fakeStore) CoinHistory(_ context.Context, userID uuid.UUID, _ int) ([]models.CoinTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.CoinTransaction{}
	for _, t := range f.ledger {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) reasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, t := range f.ledger {
		out = append(out, t.Reason)
	}
	return out
}

func (f *fakeStore) AddFavorite(_ context.Context, userID, reportID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reports[reportID]
	if !ok || r.UserID != userID {
		return db.ErrNotFound
	}
	f.favorites[reportID] = true
	return nil
}

func (f *fakeStore) RemoveFavorite(_ context.Context, _, reportID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.favorites, reportID)
	return nil
}

func (f *fakeStore) ListFavorites(_ context.Context, userID uuid.UUID) ([]models.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Favorite{}
	for id := range f.favorites {
		r := f.reports[id]
		if r != nil && r.UserID == userID {
			out = append(out, models.Favorite{ReportID: id, Query: r.Query, Title: r.Report.Title})
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertCourse(_ context.Context, c models.Course) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.courses[c.Slug]; ok {
		c.ID = existing.ID
	} else {
		c.ID = uuid.New()
	}
	f.courses[c.Slug] = &c
	return &c, nil
}

func (f *fakeStore) ListCourses(context.Context) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Course{}
	for _, c := range f.courses {
		out = append(out, *c)
	}
	slices.SortFunc(out, func(a, b models.Course) int { return strings.Compare(a.Slug, b.Slug) })
	return out, nil
}

func (f *fakeStore) GetCourse(_ context.Context, idOrSlug string) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.courses {
		if c.Slug == idOrSlug || c.ID.String() == idOrSlug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeStore) Enroll(_ context.Context, userID uuid.UUID, course models.Course) (*models.Enrollment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.enrollments[course.ID]; ok {
		return nil, 0, db.ErrAlreadyEnrolled
	}
	balance, err := f.spendLocked(userID, course.PriceCoins, "course:"+course.Slug)
	if err != nil {
		return nil, 0, err
	}
	e := &models.Enrollment{CourseID: course.ID, CourseSlug: course.Slug, CourseTitle: course.Title, EnrolledAt: time.Now()}
	f.enrollments[course.ID] = e
	return e, balance, nil
}

func (f *fakeStore) UpdateProgress(_ context.Context, _, courseID uuid.UUID, progress int) (*models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.enrollments[courseID]
	if !ok {
		return nil, db.ErrNotFound
	}
	e.Progress = max(0, min(progress, 100))
	return e, nil
}

func (f *fakeStore) ListEnrollments(context.Context, uuid.UUID) ([]models.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Enrollment{}
	for _, e := range f.enrollments {
		out = append(out, *e)
	}
	return out, nil
}

func (f *fakeStore) GetDashboard(_ context.Context, userID uuid.UUID) (*models.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := &models.Dashboard{Coins: f.balances[userID], EnrollmentCount: len(f.enrollments)}
	for _, r := range f.reports {
		if r.UserID == userID {
			d.ReportCount++
		}
	}
	return d, nil
}

type fakeGenerator struct {
	err   error
	calls int
}

func (g *fakeGenerator) Generate(_ context.Context, query string) (*ai.GeneratedReport, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	evidence := places.BuildCompetitorEvidence(places.Generate(places.SearchParams{Query: query}))
	return &ai.GeneratedReport{
		Report: report.Normalize(report.Raw{
			"title":      "Mercado de " + query,
			"keyPlayers": []any{map[string]any{"name": evidence[0].Name, "market_share": 100.0}},
		}),
		Evidence: evidence,
	}, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e notify.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() {}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []string
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}
