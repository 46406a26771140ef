// Package audit captures key domain actions for operational visibility.
// Events are transport-agnostic so stores and sinks can fan out.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"
	"time"
)

// Action names an auditable domain action.
type Action string

const (
	// ActionScoreComputed records one completed eligibility score.
	ActionScoreComputed Action = "score.computed"

	// ActionRulesDrift records a rule check that found concrete
	// differences between published rules and the built-in tables.
	ActionRulesDrift Action = "rules.drift_detected"

	// ActionRulesRefreshed records an operator-triggered cache refresh.
	ActionRulesRefreshed Action = "rules.refreshed"
)

// Event is emitted from domain logic to capture key actions. Applicant
// attributes are never recorded raw; SubjectHash carries a stable
// fingerprint for correlation.
type Event struct {
	ID        string    `json:"id"`
	Action    Action    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`

	// Score events.
	Method string `json:"method,omitempty"`
	Total  int    `json:"total,omitempty"`

	// Drift events.
	ChangeCount int `json:"change_count,omitempty"`

	SubjectHash string `json:"subject_hash,omitempty"`
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// HashSubject derives a stable SHA-256 fingerprint from a raw applicant
// attribute bag. Keys are sorted so equivalent bags hash identically.
func HashSubject(attrs map[string]any) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		b, err := json.Marshal(attrs[k])
		if err != nil {
			continue
		}
		h.Write(b)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
