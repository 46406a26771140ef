package handler

import (
	"pointsgate/internal/selector"
)

// RefreshResponse is the HTTP response for POST /v1/eligibility/rules/refresh.
type RefreshResponse struct {
	Refreshed bool            `json:"refreshed"`
	Status    selector.Status `json:"status"`
}

// ScoreBreakdown and the rules status are written as their domain types:
// scoring.Breakdown and selector.Status already carry the exact wire
// contract in their JSON tags, so no translation layer is needed here.
