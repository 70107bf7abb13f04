// Package metrics counts parses for the /metrics endpoint and reports
// internal errors to Sentry when it is configured.
package metrics

import (
	"errors"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jsphweid/leadsheet/parser"
	"github.com/prometheus/client_golang/prometheus"
)

// outcomes of a parse
const (
	OutcomeOK      = "ok"
	OutcomeSyntax  = "syntax"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

type Metrics struct {
	Registry *prometheus.Registry

	parses   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bars     prometheus.Histogram
}

// New registers the collectors on a fresh registry, so tests and servers
// never share counters.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		parses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadsheet",
			Name:      "parses_total",
			Help:      "Parses by kind (song, chord, key) and outcome.",
		}, []string{"kind", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadsheet",
			Name:      "parse_duration_seconds",
			Help:      "Time spent matching and evaluating input.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		bars: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "leadsheet",
			Name:      "song_bars",
			Help:      "Bars per successfully parsed song.",
			Buckets:   prometheus.LinearBuckets(8, 8, 8),
		}),
	}
	m.Registry.MustRegister(m.parses, m.duration, m.bars)
	return m
}

// Outcome classifies the error returned by a parse.
func Outcome(err error) string {
	var pe *parser.ParseError
	var ve *parser.ValidationError
	switch {
	case err == nil:
		return OutcomeOK
	case errors.As(err, &pe):
		return OutcomeSyntax
	case errors.As(err, &ve):
		return OutcomeInvalid
	}
	return OutcomeError
}

// ObserveParse records one parse of the given kind that started at start.
func (m *Metrics) ObserveParse(kind string, start time.Time, err error) {
	m.parses.WithLabelValues(kind, Outcome(err)).Inc()
	m.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveSong(bars int) {
	m.bars.Observe(float64(bars))
}

// InitSentry enables error capture. An empty dsn leaves it disabled.
func InitSentry(dsn, release string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:     dsn,
		Release: release,
	})
}

// CaptureError reports err to Sentry with tags. It is a no-op until
// InitSentry has been called with a dsn.
func CaptureError(err error, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush waits for queued Sentry events.
func Flush() {
	sentry.Flush(2 * time.Second)
}
