// Package selector decides, per score computation, whether to trust the
// deterministic engine or invoke the alternate computation, using a
// time-bounded cache of the last rule-check verdict.
package selector

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"pointsgate/internal/alternate"
	"pointsgate/internal/profile"
	"pointsgate/internal/rulecheck"
	"pointsgate/internal/scoring"
	"pointsgate/internal/selector/metrics"
)

// Calculation method tags reported on every breakdown.
const (
	MethodDeterministic              = "deterministic"
	MethodDeterministicForced        = "deterministic_forced"
	MethodDeterministicFallback      = "deterministic_fallback"
	MethodDeterministicErrorFallback = "deterministic_error_fallback"
	MethodAlternate                  = "alternate"
)

// MarkerAlternateFailed is appended to MissingOrDefaulted when the
// alternate computation failed and the engine result was used instead.
const MarkerAlternateFailed = "alternate_failed"

// staleWarning annotates a deterministic result produced while changes
// were reported but judged non-actionable.
const staleWarning = "Rules may have changed, but using deterministic implementation"

// DefaultCacheTTL bounds verdict reuse when no TTL is configured.
const DefaultCacheTTL = time.Hour

var tracer = otel.Tracer("pointsgate/selector")

// Overrides are the per-call flags callers may set. All default to false.
type Overrides struct {
	ForceDeterministic bool `json:"force_deterministic"`
	ForceAlternate     bool `json:"force_alternate"`
	ForceRuleRefresh   bool `json:"force_rule_refresh"`
}

// Status is the read-only view of the cached verdict for observability.
type Status struct {
	RulesMatch          bool       `json:"rules_match"`
	PreferDeterministic bool       `json:"prefer_deterministic"`
	ChangesDetected     []string   `json:"changes_detected"`
	LastCheckedAt       *time.Time `json:"last_checked_at,omitempty"`
	Error               string     `json:"error,omitempty"`
	CacheAgeSeconds     *float64   `json:"cache_age_seconds,omitempty"`
}

// Selector orchestrates the engine, the monitor and the alternate scorer.
// ComputeScore never fails; every failure mode resolves to a valid
// breakdown with an informative method tag.
type Selector struct {
	monitor   rulecheck.Checker
	alternate alternate.Scorer
	store     VerdictStore
	logger    *slog.Logger
	metrics   *metrics.Metrics
	ttl       time.Duration
	now       func() time.Time
	refreshes singleflight.Group
}

// Option configures a Selector.
type Option func(*Selector)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Selector) { s.now = now }
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(s *Selector) { s.metrics = mx }
}

// WithCacheTTL overrides the verdict cache lifetime.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Selector) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// New builds a Selector over the given collaborators.
func New(monitor rulecheck.Checker, alt alternate.Scorer, store VerdictStore, logger *slog.Logger, opts ...Option) *Selector {
	s := &Selector{
		monitor:   monitor,
		alternate: alt,
		store:     store,
		logger:    logger,
		ttl:       DefaultCacheTTL,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ComputeScore scores a profile under the decision policy. The policy is
// biased toward the deterministic path: ambiguity, fetch failure and parse
// failure all resolve to the engine.
func (s *Selector) ComputeScore(ctx context.Context, p profile.Profile, ov Overrides) (b scoring.Breakdown) {
	ctx, span := tracer.Start(ctx, "selector.ComputeScore")
	start := s.now()
	defer func() {
		s.metrics.ObserveComputeLatency(s.now().Sub(start))
		span.SetAttributes(
			attribute.String("score.method", b.CalculationMethod),
			attribute.Int("score.total", b.Total),
		)
		span.End()
	}()

	if ov.ForceDeterministic {
		s.logger.InfoContext(ctx, "score computation: deterministic method forced")
		return s.deterministic(p, MethodDeterministicForced, "")
	}

	if ov.ForceAlternate {
		verdict := s.refresh(ctx, true)
		b, err := s.alternate.Compute(ctx, p, verdict.OfficialSummary)
		if err != nil {
			s.logger.WarnContext(ctx, "score computation: forced alternate failed, falling back", "error", err)
			return s.alternateFailed(p)
		}
		b.CalculationMethod = MethodAlternate
		s.metrics.IncrementMethod(MethodAlternate)
		return b
	}

	verdict := s.verdict(ctx, ov.ForceRuleRefresh)

	if verdict.Err != "" {
		s.logger.WarnContext(ctx, "score computation: rule check errored, using engine", "error", verdict.Err)
		return s.deterministic(p, MethodDeterministicErrorFallback, "")
	}

	if verdict.RulesMatch || len(verdict.ChangesDetected) == 0 {
		warning := ""
		if len(verdict.ChangesDetected) > 0 {
			warning = staleWarning
		}
		return s.deterministic(p, MethodDeterministic, warning)
	}

	s.logger.WarnContext(ctx, "score computation: rule drift detected, using alternate method",
		"changes", verdict.ChangesDetected)
	b, err := s.alternate.Compute(ctx, p, verdict.OfficialSummary)
	if err != nil {
		s.logger.ErrorContext(ctx, "score computation: alternate method failed, falling back", "error", err)
		return s.alternateFailed(p)
	}
	b.CalculationMethod = MethodAlternate
	s.metrics.IncrementMethod(MethodAlternate)
	return b
}

// CheckRuleStatus reports the cached verdict without triggering a check.
func (s *Selector) CheckRuleStatus(ctx context.Context) Status {
	verdict, ok, err := s.store.Get(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "rule status: verdict store read failed", "error", err)
		return Status{RulesMatch: true, PreferDeterministic: true, Error: err.Error()}
	}
	if !ok {
		return Status{RulesMatch: true, PreferDeterministic: true}
	}

	age := s.now().Sub(verdict.CheckedAt).Seconds()
	checkedAt := verdict.CheckedAt
	return Status{
		RulesMatch:          verdict.RulesMatch,
		PreferDeterministic: verdict.PreferDeterministic,
		ChangesDetected:     verdict.ChangesDetected,
		LastCheckedAt:       &checkedAt,
		Error:               verdict.Err,
		CacheAgeSeconds:     &age,
	}
}

// RefreshRules forces a synchronous rule check and returns the fresh verdict.
func (s *Selector) RefreshRules(ctx context.Context) rulecheck.Result {
	return s.refresh(ctx, true)
}

// InvalidateRuleCache drops the cached verdict so the next computation
// refreshes it.
func (s *Selector) InvalidateRuleCache(ctx context.Context) error {
	return s.store.Clear(ctx)
}

func (s *Selector) deterministic(p profile.Profile, method, warning string) scoring.Breakdown {
	b := scoring.Score(p)
	b.CalculationMethod = method
	b.RuleCheckWarning = warning
	s.metrics.IncrementMethod(method)
	return b
}

func (s *Selector) alternateFailed(p profile.Profile) scoring.Breakdown {
	b := scoring.Score(p)
	b.CalculationMethod = MethodDeterministicFallback
	b.MissingOrDefaulted = append(b.MissingOrDefaulted, MarkerAlternateFailed)
	s.metrics.IncrementMethod(MethodDeterministicFallback)
	return b
}

// verdict returns a usable rule-check result, refreshing the cache when it
// is empty, stale, or a refresh is forced.
func (s *Selector) verdict(ctx context.Context, forceRefresh bool) rulecheck.Result {
	if !forceRefresh {
		cached, ok, err := s.store.Get(ctx)
		if err != nil {
			s.logger.WarnContext(ctx, "verdict cache read failed, refreshing", "error", err)
		} else if ok && s.now().Sub(cached.CheckedAt) <= s.ttl {
			return cached
		}
	}
	return s.refresh(ctx, forceRefresh)
}

// refresh runs the monitor and stores its verdict. Concurrent refreshes
// collapse onto a single in-flight check.
func (s *Selector) refresh(ctx context.Context, force bool) rulecheck.Result {
	v, _, _ := s.refreshes.Do(verdictKey, func() (any, error) {
		res := s.monitor.Check(ctx, force)
		if err := s.store.Put(ctx, res); err != nil {
			s.logger.WarnContext(ctx, "verdict cache write failed", "error", err)
		}
		s.metrics.IncrementCacheRefresh()
		return res, nil
	})
	return v.(rulecheck.Result)
}
