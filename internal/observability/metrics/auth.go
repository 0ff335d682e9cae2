package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	obserrors "github.com/digieduhack/aula-api/internal/observability/errors"
)

// Auth holds the sign-in, sign-up and session collectors. A nil *Auth is a no-op.
type Auth struct {
	attempts       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	sessionsIssued prometheus.Counter
	sessionsEnded  prometheus.Counter
	verifications  *prometheus.CounterVec
}

func newAuth(f promauto.Factory) *Auth {
	return &Auth{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "attempts_total",
			Help:      "Authentication attempts, labeled by operation, result and error class.",
		}, []string{"op", "result", "error_class"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "duration_seconds",
			Help:      "Latency of authentication operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		sessionsIssued: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "issued_total",
			Help:      "Sessions issued.",
		}),
		sessionsEnded: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "revoked_total",
			Help:      "Sessions revoked by sign-out.",
		}),
		verifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "verifications_total",
			Help:      "Session verifications, labeled by outcome.",
		}, []string{"outcome"}),
	}
}

// AuthEvent captures a single authentication operation for metric emission.
type AuthEvent struct {
	Op       string
	Duration time.Duration
	Err      error
}

// ObserveAttempt records the outcome and latency of an authentication operation.
func (a *Auth) ObserveAttempt(in AuthEvent) {
	if a == nil {
		return
	}
	result, class := ResultSuccess, ""
	if in.Err != nil {
		result = ResultError
		class = obserrors.Classify(in.Err)
	}
	a.attempts.WithLabelValues(in.Op, result, class).Inc()
	if in.Duration > 0 {
		a.duration.WithLabelValues(in.Op).Observe(in.Duration.Seconds())
	}
}

// SessionIssued counts a newly minted session.
func (a *Auth) SessionIssued() {
	if a == nil {
		return
	}
	a.sessionsIssued.Inc()
}

// SessionRevoked counts a session ended by sign-out.
func (a *Auth) SessionRevoked() {
	if a == nil {
		return
	}
	a.sessionsEnded.Inc()
}

// ObserveVerification counts a verifier outcome such as "valid" or "invalid".
func (a *Auth) ObserveVerification(outcome string) {
	if a == nil {
		return
	}
	a.verifications.WithLabelValues(outcome).Inc()
}
