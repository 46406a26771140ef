// Package alternate computes a point breakdown through an external model
// guided by the current official rules. It is the path the method selector
// takes when the deterministic engine's tables are suspected stale.
package alternate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"pointsgate/internal/llm"
	"pointsgate/internal/profile"
	"pointsgate/internal/rulecheck"
	"pointsgate/internal/scoring"
)

// Disclaimer replaces the engine's disclaimer on externally computed results.
const Disclaimer = "This score was calculated using AI based on current official rules. " +
	"Official IRCC system results govern. See Canada.ca Express Entry CRS calculator. Not legal advice."

// Scorer is the capability the method selector invokes.
type Scorer interface {
	Compute(ctx context.Context, p profile.Profile, official rulecheck.Summary) (scoring.Breakdown, error)
}

// resultSchema rejects structurally invalid model output before it can
// reach a consumer. A schema violation is a failure, never partial success.
const resultSchema = `{
  "type": "object",
  "required": ["total", "core_human_capital", "spouse_factors", "skill_transferability", "additional_points", "breakdown"],
  "properties": {
    "total": {"type": "integer", "minimum": 0, "maximum": 1200},
    "core_human_capital": {"type": "integer", "minimum": 0},
    "spouse_factors": {"type": "integer", "minimum": 0},
    "skill_transferability": {"type": "integer", "minimum": 0, "maximum": 100},
    "additional_points": {"type": "integer", "minimum": 0},
    "breakdown": {
      "type": "object",
      "additionalProperties": {"type": "integer"}
    },
    "missing_or_defaulted": {
      "type": "array",
      "items": {"type": "string"}
    }
  }
}`

var schema = gojsonschema.NewStringLoader(resultSchema)

// Client implements Scorer on top of a text-completion model.
type Client struct {
	completer llm.Completer
}

// NewClient wraps a completer. Nil means the capability is unavailable and
// every Compute call fails, which the selector resolves by falling back.
func NewClient(completer llm.Completer) *Client {
	if completer == nil {
		return nil
	}
	return &Client{completer: completer}
}

// Compute asks the model for a full breakdown and validates the reply
// against the result schema.
func (c *Client) Compute(ctx context.Context, p profile.Profile, official rulecheck.Summary) (scoring.Breakdown, error) {
	if c == nil {
		return scoring.Breakdown{}, fmt.Errorf("alternate computation unavailable")
	}

	raw, err := c.completer.Complete(ctx, buildScorePrompt(p, official))
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("alternate computation request: %w", err)
	}

	cleaned := llm.StripCodeFences(raw)
	result, err := gojsonschema.Validate(schema, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return scoring.Breakdown{}, fmt.Errorf("validate alternate output: %w", err)
	}
	if !result.Valid() {
		return scoring.Breakdown{}, fmt.Errorf("alternate output schema violation: %v", result.Errors())
	}

	var parsed struct {
		Total                int            `json:"total"`
		CoreHumanCapital     int            `json:"core_human_capital"`
		SpouseFactors        int            `json:"spouse_factors"`
		SkillTransferability int            `json:"skill_transferability"`
		AdditionalPoints     int            `json:"additional_points"`
		Factors              map[string]int `json:"breakdown"`
		MissingOrDefaulted   []string       `json:"missing_or_defaulted"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return scoring.Breakdown{}, fmt.Errorf("parse alternate output: %w", err)
	}

	missing := parsed.MissingOrDefaulted
	if missing == nil {
		missing = []string{}
	}
	return scoring.Breakdown{
		Total:                parsed.Total,
		CoreHumanCapital:     parsed.CoreHumanCapital,
		SpouseFactors:        parsed.SpouseFactors,
		SkillTransferability: parsed.SkillTransferability,
		AdditionalPoints:     parsed.AdditionalPoints,
		Factors:              parsed.Factors,
		MissingOrDefaulted:   missing,
		Disclaimer:           Disclaimer,
	}, nil
}

func buildScorePrompt(p profile.Profile, official rulecheck.Summary) string {
	profileJSON, _ := json.MarshalIndent(p, "", "  ")

	prompt := "Calculate the Express Entry CRS score for this profile:\n" + string(profileJSON) + "\n\n" +
		"Use the official IRCC CRS criteria from:\n" +
		"https://www.canada.ca/en/immigration-refugees-citizenship/services/immigrate-canada/express-entry/check-score.html\n\n"

	if official != nil {
		if rulesJSON, err := json.MarshalIndent(official, "", "  "); err == nil {
			prompt += "Current official rules:\n" + string(rulesJSON) + "\n\n"
		}
	}

	prompt += `Calculate points for:
1. Core human capital (age, education, language, Canadian work)
2. Spouse factors (if applicable)
3. Skill transferability (education+language, education+work, foreign work+language)
4. Additional points (provincial nomination, Canadian study, sibling, certificate, second language)

Output STRICT JSON ONLY:
{
  "total": number (0-1200),
  "core_human_capital": number,
  "spouse_factors": number,
  "skill_transferability": number,
  "additional_points": number,
  "breakdown": {
    "age": number,
    "education": number,
    "first_official_language": number,
    "canadian_work_experience": number,
    "spouse_factors": number,
    "skill_transferability": number,
    "provincial_nomination": number,
    "canadian_study_bonus": number,
    "sibling_in_canada": number,
    "certificate_of_qualification": number,
    "second_official_language": number
  },
  "missing_or_defaulted": ["list of missing fields"]
}
`
	return prompt
}
