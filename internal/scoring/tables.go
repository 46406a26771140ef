package scoring

import (
	"pointsgate/internal/language"
	"pointsgate/internal/profile"
)

// pair holds the single / with-spouse variants of one grid cell.
type pair struct {
	Single     int
	WithSpouse int
}

func (p pair) pick(withSpouse bool) int {
	if withSpouse {
		return p.WithSpouse
	}
	return p.Single
}

// Age grid. Ages 20-29 earn the flat maximum; 30-44 decline per year.
var (
	ageUnder20 = map[int]int{18: 99, 19: 105}

	// ageDecline[i] is the single-applicant award at age 30+i; the last
	// entry also covers any tabulated overflow before the age-45 cutoff.
	ageDecline = []int{105, 99, 93, 87, 81, 75, 69, 63, 57, 51, 45, 39, 33, 27, 21, 15}
)

// spousePenalty is subtracted from age awards when scoring with a spouse,
// floored at zero.
const spousePenalty = 10

var ageTwenties = pair{Single: 110, WithSpouse: 100}

// Education grid per ordinal credential tier.
var educationGrid = map[profile.EducationLevel]pair{
	profile.EduSecondary: {30, 28},
	profile.EduOneYear:   {90, 84},
	profile.EduTwoYear:   {98, 91},
	profile.EduBachelors: {120, 112},
	profile.EduTwoOrMore: {128, 119},
	profile.EduMasters:   {135, 126},
	profile.EduDoctorate: {150, 140},
}

// First-official-language grid: points per skill by CLB level.
var langGrid = map[language.Level]pair{
	4:  {0, 0},
	5:  {1, 1},
	6:  {9, 8},
	7:  {17, 15},
	8:  {23, 21},
	9:  {31, 29},
	10: {34, 32},
	11: {34, 32},
	12: {34, 32},
}

// Canadian work experience grid, indexed by years clamped to [0,5].
var canadianWorkGrid = []pair{{0, 0}, {40, 35}, {53, 46}, {64, 56}, {72, 63}, {80, 70}}

// Spouse factor grids.
var spouseEducationGrid = map[profile.EducationLevel]int{
	profile.EduSecondary: 2,
	profile.EduOneYear:   6,
	profile.EduTwoYear:   7,
	profile.EduBachelors: 8,
	profile.EduTwoOrMore: 9,
	profile.EduMasters:   10,
	profile.EduDoctorate: 10,
}

var spouseWorkGrid = []int{0, 5, 7, 8, 9, 10}

// Additional point awards.
const (
	provincialNominationAward = 600
	siblingAward              = 15
	certificateAward          = 50
	secondLanguageAward       = 6
	canadianStudyShortAward   = 15
	canadianStudyLongAward    = 30
)

// transferableEducation reports whether the tier qualifies for the
// education-based transferability combinations (bachelor's or above).
func transferableEducation(level profile.EducationLevel) bool {
	switch level {
	case profile.EduBachelors, profile.EduTwoOrMore, profile.EduMasters, profile.EduDoctorate:
		return true
	}
	return false
}

func clampYears(years int) int {
	if years < 0 {
		return 0
	}
	if years > 5 {
		return 5
	}
	return years
}
