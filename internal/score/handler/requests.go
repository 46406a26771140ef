package handler

import (
	dErrors "pointsgate/pkg/domain-errors"
)

// maxProfileAttributes bounds the attribute bag so unbounded payloads
// fail fast before normalization.
const maxProfileAttributes = 200

// ScoreRequest is the HTTP request body for POST /v1/eligibility/score.
//
// Profile is a free-form attribute bag; the normalizer resolves aliases
// and fills what it can. Overrides are merged over the profile before
// normalization, letting callers adjust single attributes without
// resending the whole bag.
type ScoreRequest struct {
	Profile   map[string]any `json:"profile"`
	Overrides map[string]any `json:"overrides,omitempty"`

	ForceDeterministic bool `json:"force_deterministic,omitempty"`
	ForceAlternate     bool `json:"force_alternate,omitempty"`
	ForceRuleRefresh   bool `json:"force_rule_refresh,omitempty"`
}

// Validate validates the request.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ScoreRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Profile) == 0 {
		return dErrors.New(dErrors.CodeValidation, "profile is required")
	}
	if len(r.Profile)+len(r.Overrides) > maxProfileAttributes {
		return dErrors.New(dErrors.CodeValidation, "profile has too many attributes")
	}
	if r.ForceDeterministic && r.ForceAlternate {
		return dErrors.New(dErrors.CodeValidation, "force_deterministic and force_alternate are mutually exclusive")
	}
	return nil
}

// MergedProfile returns the profile with overrides applied on top.
func (r *ScoreRequest) MergedProfile() map[string]any {
	if len(r.Overrides) == 0 {
		return r.Profile
	}
	merged := make(map[string]any, len(r.Profile)+len(r.Overrides))
	for k, v := range r.Profile {
		merged[k] = v
	}
	for k, v := range r.Overrides {
		merged[k] = v
	}
	return merged
}

// RequirementsRequest is the HTTP request body for POST /v1/eligibility/requirements.
type RequirementsRequest struct {
	Profile map[string]any `json:"profile"`
}

// Validate validates the request.
func (r *RequirementsRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.Profile) == 0 {
		return dErrors.New(dErrors.CodeValidation, "profile is required")
	}
	if len(r.Profile) > maxProfileAttributes {
		return dErrors.New(dErrors.CodeValidation, "profile has too many attributes")
	}
	return nil
}
