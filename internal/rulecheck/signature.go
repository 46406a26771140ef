// Package rulecheck detects drift between the point values the scoring
// engine implements and the currently published official rules.
package rulecheck

import (
	"fmt"
	"strings"
	"time"

	platformstrings "pointsgate/pkg/platform/strings"
)

// JobOfferRemoved is the signature value recording the permanent removal
// of job-offer points.
const JobOfferRemoved = "removed_2025_03_25"

// jobOfferRemovalDate anchors the recency filter: mentions of the removal
// stop being flagged once it is older than the grace window.
var jobOfferRemovalDate = time.Date(2025, time.March, 25, 0, 0, 0, 0, time.UTC)

const jobOfferGraceMonths = 6

// KnownSignature records the rule values the engine currently implements.
// Update these alongside the scoring tables when the official grid changes.
var KnownSignature = map[string]any{
	"job_offer_points":          JobOfferRemoved,
	"max_points":                1200,
	"core_max_single":           500,
	"core_max_spouse":           460,
	"age_max_single":            110,
	"age_max_spouse":            100,
	"education_max_single":      150,
	"education_max_spouse":      140,
	"language_max_single":       160,
	"language_max_spouse":       150,
	"canadian_work_max_single":  80,
	"canadian_work_max_spouse":  70,
	"provincial_nomination":     600,
	"canadian_study_1_2yr":      15,
	"canadian_study_3plus":      30,
	"sibling":                   15,
	"certificate_qualification": 50,
	"second_language":           6,
}

// signatureKeys fixes the comparison order so detected changes come out in
// a stable, reviewable sequence.
var signatureKeys = []string{
	"job_offer_points",
	"max_points",
	"core_max_single",
	"core_max_spouse",
	"age_max_single",
	"age_max_spouse",
	"education_max_single",
	"education_max_spouse",
	"language_max_single",
	"language_max_spouse",
	"canadian_work_max_single",
	"canadian_work_max_spouse",
	"provincial_nomination",
	"canadian_study_1_2yr",
	"canadian_study_3plus",
	"sibling",
	"certificate_qualification",
	"second_language",
}

// Summary is a structured snapshot of the official rules as extracted from
// the published text. Keys mirror KnownSignature, plus an optional
// "recent_changes" list.
type Summary map[string]any

// RecentChanges returns the summary's reported recent-change entries.
func (s Summary) RecentChanges() []string {
	raw, ok := s["recent_changes"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if str, ok := v.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

// CompareSignature diffs the known signature against an official summary.
// A nil summary means no official data and counts as a match. Keys absent
// from the summary are skipped, not flagged.
func CompareSignature(official Summary, now time.Time) (bool, []string) {
	if official == nil {
		return true, nil
	}

	var changes []string
	for _, key := range signatureKeys {
		officialVal, ok := official[key]
		if !ok || officialVal == nil {
			continue
		}
		knownVal := KnownSignature[key]

		if key == "job_offer_points" && knownVal == JobOfferRemoved {
			if jobOfferEquivalent(officialVal) {
				continue
			}
			changes = append(changes, fmt.Sprintf("%s: known=removed, official=%v", key, officialVal))
			continue
		}

		if !valuesEqual(knownVal, officialVal) {
			changes = append(changes, fmt.Sprintf("%s: known=%v, official=%v", key, knownVal, officialVal))
		}
	}

	if filtered := filterRecentChanges(official.RecentChanges(), now); len(filtered) > 0 {
		changes = append(changes, "Recent changes reported: "+strings.Join(filtered, ", "))
	}

	return len(changes) == 0, changes
}

// jobOfferEquivalent accepts the different spellings of "no job-offer
// points" the official summary may use.
func jobOfferEquivalent(v any) bool {
	switch t := v.(type) {
	case string:
		return t == "removed" || t == "0" || t == JobOfferRemoved
	case float64:
		return t == 0
	case int:
		return t == 0
	default:
		return false
	}
}

// valuesEqual compares a signature value against its JSON-decoded official
// counterpart, tolerating the int/float64 mismatch json decoding introduces.
func valuesEqual(known, official any) bool {
	if kf, ok := toFloat(known); ok {
		of, ok := toFloat(official)
		return ok && kf == of
	}
	ks, ok := known.(string)
	if !ok {
		return false
	}
	os, ok := official.(string)
	return ok && ks == os
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case float64:
		return t, true
	default:
		return 0, false
	}
}

// filterRecentChanges suppresses mentions of the job-offer removal once it
// is older than the grace window, so absorbed history is not re-flagged on
// every check.
func filterRecentChanges(changes []string, now time.Time) []string {
	changes = platformstrings.DedupeAndTrim(changes)
	if len(changes) == 0 {
		return nil
	}

	monthsSinceRemoval := (now.Year()-jobOfferRemovalDate.Year())*12 + int(now.Month()) - int(jobOfferRemovalDate.Month())

	filtered := make([]string, 0, len(changes))
	for _, change := range changes {
		lower := strings.ToLower(change)
		if strings.Contains(lower, "job offer") &&
			(strings.Contains(lower, "removed") || strings.Contains(lower, "removal")) &&
			monthsSinceRemoval >= jobOfferGraceMonths {
			continue
		}
		filtered = append(filtered, change)
	}
	return filtered
}
