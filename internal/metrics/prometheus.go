package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	reg             *prom.Registry
	reportDuration  *prom.HistogramVec
	reportOutcomes  *prom.CounterVec
	coinsSpent      *prom.CounterVec
	placesGenerated prom.Counter
}

// NewPrometheusRecorder registers the metrics on reg, or on a fresh registry
// when reg is nil.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		reg: reg,
		reportDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "compath",
			Name:      "report_generation_duration_seconds",
			Help:      "Duration of AI report generation",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		}, []string{"outcome"}),
		reportOutcomes: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "compath",
			Name:      "report_generations_total",
			Help:      "Report generation attempts by outcome",
		}, []string{"outcome"}),
		coinsSpent: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "compath",
			Name:      "coins_spent_total",
			Help:      "Coins spent by feature",
		}, []string{"feature"}),
		placesGenerated: prom.NewCounter(prom.CounterOpts{
			Namespace: "compath",
			Name:      "places_generated_total",
			Help:      "Mock places returned by place searches",
		}),
	}
	reg.MustRegister(pr.reportDuration, pr.reportOutcomes, pr.coinsSpent, pr.placesGenerated)
	return pr
}

func (p *PrometheusRecorder) ObserveReportGeneration(outcome string, d time.Duration) {
	p.reportDuration.WithLabelValues(outcome).Observe(d.Seconds())
	p.reportOutcomes.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) AddCoinsSpent(feature string, amount int) {
	if amount > 0 {
		p.coinsSpent.WithLabelValues(feature).Add(float64(amount))
	}
}

func (p *PrometheusRecorder) AddPlacesGenerated(n int) {
	if n > 0 {
		p.placesGenerated.Add(float64(n))
	}
}

// Handler serves the recorder's registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
