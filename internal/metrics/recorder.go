package metrics

import "time"

// Report generation outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid_response"
	OutcomeFailed       = "failed"
	OutcomeInsufficient = "insufficient_coins"
)

// Recorder collects application metrics. NoopRecorder is used when metrics
// are not wanted, e.g. in tests.
type Recorder interface {
	ObserveReportGeneration(outcome string, d time.Duration)
	AddCoinsSpent(feature string, amount int)
	AddPlacesGenerated(n int)
}

type NoopRecorder struct{}

func (NoopRecorder) ObserveReportGeneration(string, time.Duration) {}
func (NoopRecorder) AddCoinsSpent(string, int) {}
func (NoopRecorder) AddPlacesGenerated(int) {}
