package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pointsgate/internal/platform/metrics"
	"pointsgate/internal/profile"
	"pointsgate/internal/rulecheck"
	"pointsgate/internal/scoring"
	"pointsgate/internal/selector"
	audit "pointsgate/pkg/platform/audit"
	"pointsgate/pkg/platform/httputil"
	"pointsgate/pkg/requestcontext"
)

// Service defines the selector operations the HTTP layer depends on.
type Service interface {
	ComputeScore(ctx context.Context, p profile.Profile, ov selector.Overrides) scoring.Breakdown
	CheckRuleStatus(ctx context.Context) selector.Status
	RefreshRules(ctx context.Context) rulecheck.Result
	InvalidateRuleCache(ctx context.Context) error
}

// Recorder emits audit events without blocking the request.
type Recorder interface {
	Record(ctx context.Context, event audit.Event)
}

// Handler wires eligibility endpoints to the method selector.
type Handler struct {
	service  Service
	logger   *slog.Logger
	metrics  *metrics.Metrics
	recorder Recorder
}

// New constructs an eligibility handler with its dependencies.
// Metrics and recorder may be nil; both degrade to no-ops.
func New(service Service, logger *slog.Logger, metrics *metrics.Metrics, recorder Recorder) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		metrics:  metrics,
		recorder: recorder,
	}
}

// Register mounts eligibility endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/v1/eligibility/score", h.HandleScore)
	r.Post("/v1/eligibility/requirements", h.HandleRequirements)
	r.Get("/v1/eligibility/rules/status", h.HandleRuleStatus)
	r.Post("/v1/eligibility/rules/refresh", h.HandleRuleRefresh)
}

// HandleScore handles POST /v1/eligibility/score requests.
func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ScoreRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	merged := req.MergedProfile()
	p := profile.NormalizeAt(merged, requestcontext.Now(ctx))

	breakdown := h.service.ComputeScore(ctx, p, selector.Overrides{
		ForceDeterministic: req.ForceDeterministic,
		ForceAlternate:     req.ForceAlternate,
		ForceRuleRefresh:   req.ForceRuleRefresh,
	})

	h.metrics.IncrementScoresComputed(breakdown.CalculationMethod)
	if h.recorder != nil {
		h.recorder.Record(ctx, audit.Event{
			Action:      audit.ActionScoreComputed,
			Method:      breakdown.CalculationMethod,
			Total:       breakdown.Total,
			SubjectHash: audit.HashSubject(merged),
		})
	}

	h.logger.InfoContext(ctx, "score computed",
		"request_id", requestID,
		"method", breakdown.CalculationMethod,
		"total", breakdown.Total,
		"missing_fields", len(breakdown.MissingOrDefaulted),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, breakdown)
}

// HandleRequirements handles POST /v1/eligibility/requirements requests.
func (h *Handler) HandleRequirements(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RequirementsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	p := profile.NormalizeAt(req.Profile, requestcontext.Now(ctx))
	report := profile.AnalyzeRequirements(p)

	h.logger.InfoContext(ctx, "requirements analyzed",
		"request_id", requestID,
		"can_calculate", report.CanCalculate,
		"missing_required", len(report.MissingRequired),
	)

	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleRuleStatus handles GET /v1/eligibility/rules/status requests.
// Reads the cached verdict only; it never triggers a network check.
func (h *Handler) HandleRuleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status := h.service.CheckRuleStatus(ctx)
	httputil.WriteJSON(w, http.StatusOK, status)
}

// HandleRuleRefresh handles POST /v1/eligibility/rules/refresh requests.
// Clears the cached verdict and runs a fresh check synchronously.
func (h *Handler) HandleRuleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := h.service.InvalidateRuleCache(ctx); err != nil {
		h.logger.WarnContext(ctx, "rule cache invalidation failed",
			"request_id", requestID,
			"error", err,
		)
	}

	result := h.service.RefreshRules(ctx)
	status := h.service.CheckRuleStatus(ctx)

	if h.recorder != nil {
		h.recorder.Record(ctx, audit.Event{Action: audit.ActionRulesRefreshed})
		if len(result.ChangesDetected) > 0 {
			h.recorder.Record(ctx, audit.Event{
				Action:      audit.ActionRulesDrift,
				ChangeCount: len(result.ChangesDetected),
			})
		}
	}

	h.logger.InfoContext(ctx, "rule cache refreshed",
		"request_id", requestID,
		"rules_match", result.RulesMatch,
		"changes_detected", len(result.ChangesDetected),
	)

	httputil.WriteJSON(w, http.StatusOK, RefreshResponse{Refreshed: true, Status: status})
}
