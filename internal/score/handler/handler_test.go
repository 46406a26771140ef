package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsgate/internal/alternate"
	"pointsgate/internal/platform/metrics"
	"pointsgate/internal/profile"
	"pointsgate/internal/rulecheck"
	"pointsgate/internal/scoring"
	"pointsgate/internal/selector"
	audit "pointsgate/pkg/platform/audit"
	"pointsgate/pkg/platform/middleware/requestid"
	"pointsgate/pkg/platform/middleware/requesttime"
	"pointsgate/pkg/testutil"
)

// stubChecker returns a canned verdict so handler tests exercise the real
// selector without network or external calls.
type stubChecker struct {
	result rulecheck.Result
	calls  int
}

func (c *stubChecker) Check(ctx context.Context, forceRefresh bool) rulecheck.Result {
	c.calls++
	r := c.result
	if r.CheckedAt.IsZero() {
		r.CheckedAt = time.Now()
	}
	return r
}

type stubScorer struct {
	breakdown scoring.Breakdown
	err       error
}

func (s *stubScorer) Compute(ctx context.Context, p profile.Profile, official rulecheck.Summary) (scoring.Breakdown, error) {
	if s.err != nil {
		return scoring.Breakdown{}, s.err
	}
	return s.breakdown, nil
}

var _ alternate.Scorer = (*stubScorer)(nil)

type recordedEvents struct {
	events []audit.Event
}

func (r *recordedEvents) Record(ctx context.Context, event audit.Event) {
	r.events = append(r.events, event)
}

type fixture struct {
	router   http.Handler
	checker  *stubChecker
	recorder *recordedEvents
}

func newFixture(t *testing.T, checker *stubChecker, scorer *stubScorer) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := selector.New(checker, scorer, selector.NewMemoryStore(), logger)
	recorder := &recordedEvents{}

	// Nil metrics: promauto registers against the default registry, which
	// panics on a second fixture in the same process.
	var m *metrics.Metrics
	h := New(svc, logger, m, recorder)
	r := chi.NewRouter()
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	h.Register(r)

	return &fixture{router: r, checker: checker, recorder: recorder}
}

func matchChecker() *stubChecker {
	return &stubChecker{result: rulecheck.Result{RulesMatch: true, PreferDeterministic: true}}
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, body))
}

func scoreBody() map[string]any {
	return map[string]any{
		"profile": map[string]any{
			"age":                 30,
			"marital_status":      "single",
			"education_level":     "bachelors",
			"canadian_work_years": 2,
			"foreign_work_years":  3,
			"language_scores": map[string]any{
				"test_type": "ielts",
				"speaking":  7.5,
				"listening": 8.0,
				"reading":   8.5,
				"writing":   7.0,
			},
		},
	}
}

func TestHandleScore(t *testing.T) {
	fix := newFixture(t, matchChecker(), &stubScorer{})

	rec := postJSON(t, fix.router, "/v1/eligibility/score", scoreBody())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(requestid.HeaderName))

	var got scoring.Breakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 508, got.Total)
	assert.Equal(t, selector.MethodDeterministic, got.CalculationMethod)
	assert.Empty(t, got.MissingOrDefaulted)

	require.Len(t, fix.recorder.events, 1)
	event := fix.recorder.events[0]
	assert.Equal(t, audit.ActionScoreComputed, event.Action)
	assert.Equal(t, 508, event.Total)
	assert.Equal(t, selector.MethodDeterministic, event.Method)
	assert.NotEmpty(t, event.SubjectHash)
}

func TestHandleScoreOverridesMergedOverProfile(t *testing.T) {
	fix := newFixture(t, matchChecker(), &stubScorer{})

	body := scoreBody()
	body["overrides"] = map[string]any{"age": 45}
	rec := postJSON(t, fix.router, "/v1/eligibility/score", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var got scoring.Breakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	// Age 45 earns zero age points against the same baseline.
	assert.Equal(t, 403, got.Total)
}

func TestHandleScoreForceDeterministicSkipsMonitor(t *testing.T) {
	checker := matchChecker()
	fix := newFixture(t, checker, &stubScorer{})

	body := scoreBody()
	body["force_deterministic"] = true
	rec := postJSON(t, fix.router, "/v1/eligibility/score", body)

	require.Equal(t, http.StatusOK, rec.Code)
	var got scoring.Breakdown
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, selector.MethodDeterministicForced, got.CalculationMethod)
	assert.Zero(t, checker.calls)
}

func TestHandleScoreValidation(t *testing.T) {
	fix := newFixture(t, matchChecker(), &stubScorer{})

	tests := []struct {
		name string
		body any
	}{
		{"missing profile", map[string]any{}},
		{"empty profile", map[string]any{"profile": map[string]any{}}},
		{"conflicting overrides", map[string]any{
			"profile":             map[string]any{"age": 30},
			"force_deterministic": true,
			"force_alternate":     true,
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, fix.router, "/v1/eligibility/score", tc.body)
			testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "validation_error")
			assert.Empty(t, fix.recorder.events)
		})
	}
}

func TestHandleScoreInvalidJSON(t *testing.T) {
	fix := newFixture(t, matchChecker(), &stubScorer{})

	req := httptest.NewRequest(http.MethodPost, "/v1/eligibility/score",
		bytes.NewReader([]byte("not valid json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	fix.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScoreTooManyAttributes(t *testing.T) {
	fix := newFixture(t, matchChecker(), &stubScorer{})

	huge := make(map[string]any, maxProfileAttributes+1)
	for i := 0; i <= maxProfileAttributes; i++ {
		huge[fmt.Sprintf("attr_%d", i)] = i
	}
	rec := postJSON(t, fix.router, "/v1/eligibility/score", map[string]any{"profile": huge})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRequirements(t *testing.T) {
	fix := newFixture(t, matchChecker(), &stubScorer{})

	rec := postJSON(t, fix.router, "/v1/eligibility/requirements", map[string]any{
		"profile": map[string]any{"age": 30},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var report profile.RequirementsReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.CanCalculate)
	assert.Contains(t, report.AvailableFields, "age")
	assert.Contains(t, report.MissingRequired, "education_level")
	assert.Contains(t, report.MissingRequired, "language_scores")
}

func TestHandleRuleStatusEmptyCache(t *testing.T) {
	checker := matchChecker()
	fix := newFixture(t, checker, &stubScorer{})

	req := httptest.NewRequest(http.MethodGet, "/v1/eligibility/rules/status", nil)
	rec := httptest.NewRecorder()
	fix.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status selector.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.RulesMatch)
	assert.True(t, status.PreferDeterministic)
	assert.Nil(t, status.LastCheckedAt)
	// Status reads are cache-only.
	assert.Zero(t, checker.calls)
}

func TestHandleRuleRefresh(t *testing.T) {
	checker := &stubChecker{result: rulecheck.Result{
		RulesMatch:      false,
		ChangesDetected: []string{"max_points: 1200 -> 1300", "sibling: 15 -> 20"},
	}}
	fix := newFixture(t, checker, &stubScorer{})

	rec := postJSON(t, fix.router, "/v1/eligibility/rules/refresh", map[string]any{})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp RefreshResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Refreshed)
	assert.False(t, resp.Status.RulesMatch)
	assert.Len(t, resp.Status.ChangesDetected, 2)
	assert.Equal(t, 1, checker.calls)

	var actions []audit.Action
	for _, e := range fix.recorder.events {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, audit.ActionRulesRefreshed)
	assert.Contains(t, actions, audit.ActionRulesDrift)
}
