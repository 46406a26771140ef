// Package scoring implements the deterministic point engine: a pure
// function from a canonical applicant profile to a full point breakdown
// under the fixed published grids and caps.
package scoring

import (
	"strings"

	"pointsgate/internal/language"
	"pointsgate/internal/profile"
)

// Disclaimer accompanies every breakdown the engine produces.
const Disclaimer = "This tool is for general guidance only. Official IRCC system results govern. " +
	"See Canada.ca Express Entry CRS calculator. Not legal advice."

// MaxTotal caps the overall score; MaxTransferability caps the
// skill-transferability subtotal independently.
const (
	MaxTotal           = 1200
	MaxTransferability = 100
)

// Markers recorded in MissingOrDefaulted when a required input is absent.
const (
	MarkerMissingAge       = "age"
	MarkerMissingEducation = "education_level"
	MarkerMissingLanguage  = "language_scores"
)

// Breakdown is the scoring result contract. Field names and types are
// fixed; downstream consumers depend on them verbatim.
type Breakdown struct {
	Total                int            `json:"total"`
	CoreHumanCapital     int            `json:"core_human_capital"`
	SpouseFactors        int            `json:"spouse_factors"`
	SkillTransferability int            `json:"skill_transferability"`
	AdditionalPoints     int            `json:"additional_points"`
	Factors              map[string]int `json:"breakdown"`
	MissingOrDefaulted   []string       `json:"missing_or_defaulted"`
	Disclaimer           string         `json:"disclaimer"`
	CalculationMethod    string         `json:"calculation_method"`
	// RuleCheckWarning carries a non-fatal note when the rule monitor
	// reported changes judged non-actionable.
	RuleCheckWarning string `json:"rule_check_warning,omitempty"`
}

// Score computes the full point breakdown for a profile. It never fails:
// absent inputs contribute zero points and are recorded in
// MissingOrDefaulted. The CalculationMethod tag is left empty for the
// caller to fill in.
func Score(p profile.Profile) Breakdown {
	missing := []string{}
	if p.Age <= 0 {
		missing = append(missing, MarkerMissingAge)
	}

	eduLevel := p.EducationLevel
	if eduLevel == "" {
		missing = append(missing, MarkerMissingEducation)
		eduLevel = profile.EduSecondary
	}

	withSpouse := p.WithSpouse()

	agePts := agePoints(p.Age, withSpouse)
	eduPts := educationGrid[eduLevel].pick(withSpouse)

	levels := skillLevels(p.FirstLanguage)
	bindingLevel := language.Binding(levels...)
	if p.FirstLanguage.Empty() {
		missing = append(missing, MarkerMissingLanguage)
	}
	langPts := 0
	if bindingLevel > 0 {
		for _, l := range levels {
			langPts += langGrid[l].pick(withSpouse)
		}
	}

	cdnWorkPts := canadianWorkGrid[clampYears(p.CanadianWorkYears)].pick(withSpouse)

	core := agePts + eduPts + langPts + cdnWorkPts

	spousePts := 0
	if withSpouse && p.Spouse != nil {
		spousePts = spousePoints(*p.Spouse)
	}

	transferability := transferabilityPoints(eduLevel, bindingLevel, p.CanadianWorkYears, p.ForeignWorkYears)

	studyBonus := canadianStudyBonus(p.CanadianEducation, p.CanadianEducationDetail)
	secondLangPts := secondLanguagePoints(p.SecondLanguage)

	additional := 0
	nominationPts := 0
	if p.ProvincialNomination {
		nominationPts = provincialNominationAward
	}
	siblingPts := 0
	if p.SiblingInCanada {
		siblingPts = siblingAward
	}
	certificatePts := 0
	if p.CertificateOfQualification {
		certificatePts = certificateAward
	}
	additional = nominationPts + studyBonus + siblingPts + certificatePts + secondLangPts

	total := core + spousePts + transferability + additional
	if total > MaxTotal {
		total = MaxTotal
	}

	return Breakdown{
		Total:                total,
		CoreHumanCapital:     core,
		SpouseFactors:        spousePts,
		SkillTransferability: transferability,
		AdditionalPoints:     additional,
		Factors: map[string]int{
			"age":                          agePts,
			"education":                    eduPts,
			"first_official_language":      langPts,
			"canadian_work_experience":     cdnWorkPts,
			"spouse_factors":               spousePts,
			"skill_transferability":        transferability,
			"provincial_nomination":        nominationPts,
			"canadian_study_bonus":         studyBonus,
			"sibling_in_canada":            siblingPts,
			"certificate_of_qualification": certificatePts,
			"second_official_language":     secondLangPts,
		},
		MissingOrDefaulted: missing,
		Disclaimer:         Disclaimer,
	}
}

func skillLevels(ls profile.LanguageScores) []language.Level {
	return []language.Level{
		language.FromScore(ls.TestType, ls.Speaking),
		language.FromScore(ls.TestType, ls.Listening),
		language.FromScore(ls.TestType, ls.Reading),
		language.FromScore(ls.TestType, ls.Writing),
	}
}

func agePoints(age int, withSpouse bool) int {
	if age < 18 || age >= 45 {
		return 0
	}
	pts := 0
	switch {
	case age <= 19:
		pts = ageUnder20[age]
	case age <= 29:
		return ageTwenties.pick(withSpouse)
	default:
		idx := age - 30
		if idx >= len(ageDecline) {
			idx = len(ageDecline) - 1
		}
		pts = ageDecline[idx]
	}
	if withSpouse {
		pts -= spousePenalty
		if pts < 0 {
			pts = 0
		}
	}
	return pts
}

func spousePoints(sp profile.Spouse) int {
	pts := spouseEducationGrid[sp.EducationLevel]
	pts += spouseWorkGrid[clampYears(sp.CanadianWorkYears)]

	binding := language.Binding(skillLevels(sp.Language)...)
	switch {
	case binding >= 9:
		pts += 5
	case binding >= 5:
		pts += 1
	}
	return pts
}

// transferabilityPoints sums the three combination sub-scores and clamps
// the sum to MaxTransferability. The foreign-work tier awards the single
// highest matching combination, not a sum.
func transferabilityPoints(edu profile.EducationLevel, binding language.Level, cdnYears, foreignYears int) int {
	pts := 0

	if transferableEducation(edu) {
		switch {
		case binding >= 9:
			pts += 50
		case binding >= 7:
			pts += 25
		}
		switch {
		case cdnYears >= 2:
			pts += 50
		case cdnYears >= 1:
			pts += 25
		}
	}

	switch {
	case foreignYears >= 3 && binding >= 9:
		pts += 50
	case foreignYears >= 3 && binding >= 7:
		pts += 25
	case foreignYears >= 1 && binding >= 9:
		pts += 25
	case foreignYears >= 1 && binding >= 7:
		pts += 13
	}

	if pts > MaxTransferability {
		pts = MaxTransferability
	}
	return pts
}

// canadianStudyBonus sizes the study award by credential length: short
// programs (1-2 years or secondary) earn the lower award, 3+ year and
// graduate credentials the higher one.
func canadianStudyBonus(hasCanadianEdu bool, detail string) int {
	if !hasCanadianEdu {
		return 0
	}
	d := strings.ToLower(detail)
	for _, short := range []string{"secondary", "1", "2", "one", "two"} {
		if strings.Contains(d, short) {
			return canadianStudyShortAward
		}
	}
	return canadianStudyLongAward
}

func secondLanguagePoints(ls *profile.LanguageScores) int {
	if ls == nil {
		return 0
	}
	if language.Binding(skillLevels(*ls)...) >= 5 {
		return secondLanguageAward
	}
	return 0
}
