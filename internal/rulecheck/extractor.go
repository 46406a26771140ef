package rulecheck

import (
	"context"
	"encoding/json"
	"fmt"

	"pointsgate/internal/llm"
)

// Extractor turns free-form official rule text into a structured Summary.
type Extractor interface {
	Extract(ctx context.Context, pageText string) (Summary, error)
}

// pageSnippetLimit bounds how much page text is forwarded to the model.
const pageSnippetLimit = 5000

// LLMExtractor implements Extractor on top of a text-completion model.
type LLMExtractor struct {
	completer llm.Completer
}

// NewLLMExtractor wraps a completer. A nil completer yields a nil extractor,
// which the monitor treats as "capability unavailable".
func NewLLMExtractor(completer llm.Completer) *LLMExtractor {
	if completer == nil {
		return nil
	}
	return &LLMExtractor{completer: completer}
}

// Extract asks the model for a structured rule summary and parses its JSON
// reply. Unparseable output is an error; the caller downgrades it to "no
// official data".
func (e *LLMExtractor) Extract(ctx context.Context, pageText string) (Summary, error) {
	raw, err := e.completer.Complete(ctx, buildExtractionPrompt(pageText))
	if err != nil {
		return nil, fmt.Errorf("extraction request: %w", err)
	}

	var summary Summary
	if err := json.Unmarshal([]byte(llm.StripCodeFences(raw)), &summary); err != nil {
		return nil, fmt.Errorf("parse extraction output: %w", err)
	}
	return summary, nil
}

func buildExtractionPrompt(pageText string) string {
	prompt := `Extract the current CRS (Comprehensive Ranking System) scoring rules from the official Canada.ca pages.

Focus on these key areas:
1. Maximum points (should be 1200)
2. Core human capital factors:
   - Age points (max for single vs with spouse)
   - Education points (max for single vs with spouse)
   - Language points (max for single vs with spouse)
   - Canadian work experience points (max for single vs with spouse)
3. Additional points:
   - Provincial nomination (should be 600)
   - Canadian study bonus (1-2 year vs 3+ year)
   - Sibling in Canada (should be 15)
   - Certificate of qualification (should be 50)
   - Second official language (should be 6)
4. Recent changes (ONLY changes from the last 1-2 months):
   - Do NOT report job offer removal (removed March 25, 2025 - already known)
   - Only report NEW changes from the last 1-2 months

`
	if pageText != "" {
		if len(pageText) > pageSnippetLimit {
			pageText = pageText[:pageSnippetLimit]
		}
		prompt += "Page content snippet:\n" + pageText + "\n\n"
	} else {
		prompt += "If page content is not available, use your knowledge of current CRS rules and check for any recent changes.\n\n"
	}

	prompt += `Output STRICT JSON ONLY:
{
  "max_points": 1200,
  "core_max_single": 500,
  "core_max_spouse": 460,
  "age_max_single": 110,
  "age_max_spouse": 100,
  "education_max_single": 150,
  "education_max_spouse": 140,
  "language_max_single": 160,
  "language_max_spouse": 150,
  "canadian_work_max_single": 80,
  "canadian_work_max_spouse": 70,
  "provincial_nomination": 600,
  "canadian_study_1_2yr": 15,
  "canadian_study_3plus": 30,
  "sibling": 15,
  "certificate_qualification": 50,
  "second_language": 6,
  "job_offer_points": "removed" or number,
  "recent_changes": ["list of NEW changes from last 1-2 months only"]
}
`
	return prompt
}
