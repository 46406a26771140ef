// Package language converts raw language-test scores into standardized
// proficiency levels on the Canadian Language Benchmark (CLB) scale.
package language

import "strings"

// Level is a CLB proficiency level. Zero means the score could not be
// evaluated (unknown test type or out-of-range score); valid levels run 4-12.
type Level int

// Test families supported by the converter.
const (
	TestIELTS  = "ielts"
	TestCELPIP = "celpip"
	TestPTE    = "pte"
)

// breakpoint maps a raw-score bound to a level. Tables are ordered
// ascending; whether a bound is inclusive or exclusive is per table.
type breakpoint struct {
	max   float64
	level Level
}

var ieltsTable = []breakpoint{
	{3.5, 4},
	{4.5, 5},
	{5.5, 6},
	{6.0, 7},
	{6.5, 8},
	{7.5, 9},
	{8.5, 10},
	{9.0, 12},
}

// pteTable bounds are exclusive: a score strictly below the bound earns the
// level. The 90-point scale reports fractional scores, so 35.5 must stay in
// the bracket below 36.
var pteTable = []breakpoint{
	{36, 4},
	{47, 5},
	{55, 6},
	{63, 7},
	{75, 8},
	{83, 9},
}

// pteTopLevel is awarded at or above the last pteTable bound.
const pteTopLevel Level = 10

// FromScore converts a raw score for the given test family into a CLB level.
// It is a pure, total function: unrecognized test types and out-of-range
// scores map to level 0 rather than erroring.
func FromScore(testType string, score float64) Level {
	if score <= 0 {
		return 0
	}
	switch strings.ToLower(strings.TrimSpace(testType)) {
	case TestIELTS:
		return fromTable(ieltsTable, score)
	case TestCELPIP:
		// CELPIP bands are already CLB-aligned.
		band := Level(score)
		if band >= 4 && band <= 12 {
			return band
		}
		return 0
	case TestPTE:
		for _, bp := range pteTable {
			if score < bp.max {
				return bp.level
			}
		}
		return pteTopLevel
	default:
		return 0
	}
}

func fromTable(table []breakpoint, score float64) Level {
	for _, bp := range table {
		if score <= bp.max {
			return bp.level
		}
	}
	// Scores above the top ceiling still earn the top level.
	return table[len(table)-1].level
}

// Binding returns the level that gates threshold-based awards: the minimum
// of the non-zero levels. All-zero input yields 0 (not evaluable).
func Binding(levels ...Level) Level {
	var min Level
	for _, l := range levels {
		if l == 0 {
			continue
		}
		if min == 0 || l < min {
			min = l
		}
	}
	return min
}
