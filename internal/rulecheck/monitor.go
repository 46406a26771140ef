package rulecheck

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"pointsgate/internal/rulecheck/metrics"
)

// Result is a rule-check verdict. It is immutable once created: callers
// replace a cached Result, never mutate it.
type Result struct {
	RulesMatch          bool      `json:"rules_match"`
	PreferDeterministic bool      `json:"prefer_deterministic"`
	ChangesDetected     []string  `json:"changes_detected"`
	OfficialSummary     Summary   `json:"official_summary,omitempty"`
	CheckedAt           time.Time `json:"checked_at"`
	// Err records an internal failure. The verdict still prefers the
	// deterministic engine in that case.
	Err string `json:"error,omitempty"`
}

// Checker is the monitor capability the method selector depends on.
type Checker interface {
	Check(ctx context.Context, forceRefresh bool) Result
}

// Monitor fetches the official rule text, extracts a structured summary,
// and compares it against the engine's known signature.
type Monitor struct {
	fetcher   *Fetcher
	extractor Extractor
	logger    *slog.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration
	now       func() time.Time
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithClock overrides the monitor's time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Monitor) { m.metrics = mx }
}

// NewMonitor builds a Monitor. The extractor may be nil (typed nil
// included), in which case every check resolves to "no official data".
func NewMonitor(fetcher *Fetcher, extractor Extractor, logger *slog.Logger, timeout time.Duration, opts ...Option) *Monitor {
	m := &Monitor{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
		timeout:   timeout,
		now:       time.Now,
	}
	if le, ok := extractor.(*LLMExtractor); ok && le == nil {
		m.extractor = nil
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var tracer = otel.Tracer("pointsgate/rulecheck")

// Check runs one full rule check. It never fails: fetch and extraction
// problems degrade to a "no official data" match verdict, and extraction
// errors are additionally recorded in the result's Err field.
func (m *Monitor) Check(ctx context.Context, forceRefresh bool) Result {
	start := m.now()
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "rulecheck.Check")
	defer span.End()
	span.SetAttributes(attribute.Bool("rulecheck.force_refresh", forceRefresh))

	var (
		summary Summary
		errMsg  string
	)

	pageText, fetched := m.fetcher.Fetch(ctx)
	switch {
	case !fetched:
		m.logger.InfoContext(ctx, "rule check: official page unavailable, treating as no data")
	case m.extractor == nil:
		m.logger.InfoContext(ctx, "rule check: extraction capability unavailable, treating as no data")
	default:
		extracted, err := m.extractor.Extract(ctx, pageText)
		if err != nil {
			errMsg = err.Error()
			m.logger.WarnContext(ctx, "rule check: extraction failed, treating as no data", "error", err)
		} else {
			summary = extracted
		}
	}

	match, changes := CompareSignature(summary, m.now())

	verdict := "match"
	switch {
	case errMsg != "":
		verdict = "error"
	case !match:
		verdict = "mismatch"
	}
	m.metrics.IncrementOutcome(verdict)
	m.metrics.ObserveCheckLatency(m.now().Sub(start))
	span.SetAttributes(attribute.String("rulecheck.verdict", verdict))

	m.logger.InfoContext(ctx, "rule check completed",
		"rules_match", match,
		"changes_detected", len(changes),
		"had_official_data", summary != nil,
	)

	return Result{
		RulesMatch:          match,
		PreferDeterministic: match,
		ChangesDetected:     changes,
		OfficialSummary:     summary,
		CheckedAt:           m.now(),
		Err:                 errMsg,
	}
}
