package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "challenger"

// Prometheus implements Recorder with client_golang collectors.
type Prometheus struct {
	evaluatorCalls     *prometheus.CounterVec
	evaluatorDuration  *prometheus.HistogramVec
	generations        *prometheus.CounterVec
	generationDuration prometheus.Histogram
	presented          prometheus.Histogram
	resolutions        *prometheus.CounterVec
	points             prometheus.Counter
	activeSessions     prometheus.Gauge
}

// NewPrometheus registers the engine collectors with reg. Passing
// prometheus.DefaultRegisterer exposes them on the default
// /metrics handler; tests pass a fresh registry.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		evaluatorCalls: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluator_calls_total",
			Help:      "Move evaluator calls by outcome",
		}, []string{"outcome"}),

		evaluatorDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluator_call_duration_seconds",
			Help:      "Move evaluator call latency",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		}, []string{"outcome"}),

		generations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Challenge generation passes by outcome",
		}, []string{"outcome"}),

		generationDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Challenge generation latency",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),

		presented: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "challenges_presented",
			Help:      "Challenges presented per generation pass",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		}),

		resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "challenge_resolutions_total",
			Help:      "Challenges reaching a terminal status",
		}, []string{"type", "status"}),

		points: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Points awarded for completed challenges",
		}),

		activeSessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Live game sessions",
		}),
	}
}

func (p *Prometheus) EvaluatorCall(outcome string, duration time.Duration) {
	p.evaluatorCalls.WithLabelValues(outcome).Inc()
	p.evaluatorDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

func (p *Prometheus) Generation(outcome string, presented int, duration time.Duration) {
	p.generations.WithLabelValues(outcome).Inc()
	p.generationDuration.Observe(duration.Seconds())
	p.presented.Observe(float64(presented))
}

func (p *Prometheus) Resolution(challengeType, status string) {
	p.resolutions.WithLabelValues(challengeType, status).Inc()
}

func (p *Prometheus) PointsAwarded(points int) {
	if points > 0 {
		p.points.Add(float64(points))
	}
}

func (p *Prometheus) SetActiveSessions(count int) {
	p.activeSessions.Set(float64(count))
}
