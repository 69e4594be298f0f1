// Package metrics records engine activity: evaluator calls,
// challenge generation, resolutions and awarded points.
package metrics

import "time"

// Outcome labels for evaluator calls and generation passes.
const (
	OutcomeOK      = "ok"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomeEmpty   = "empty"
)

// Recorder defines the interface for recording engine metrics.
type Recorder interface {
	// EvaluatorCall records one evaluator invocation.
	EvaluatorCall(outcome string, duration time.Duration)
	// Generation records one challenge generation pass and the
	// number of challenges it presented.
	Generation(outcome string, presented int, duration time.Duration)
	// Resolution records a challenge reaching a terminal status.
	Resolution(challengeType, status string)
	// PointsAwarded adds points earned on a turn.
	PointsAwarded(points int)
	// SetActiveSessions sets the gauge of live game sessions.
	SetActiveSessions(count int)
}

// NoopRecorder is a no-op implementation of Recorder useful for
// testing or when metrics collection is disabled.
type NoopRecorder struct{}

func (NoopRecorder) EvaluatorCall(_ string, _ time.Duration)     {}
func (NoopRecorder) Generation(_ string, _ int, _ time.Duration) {}
func (NoopRecorder) Resolution(_, _ string)                      {}
func (NoopRecorder) PointsAwarded(_ int)                         {}
func (NoopRecorder) SetActiveSessions(_ int)                     {}
