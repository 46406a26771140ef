package scoring

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pointsgate/internal/language"
	"pointsgate/internal/profile"
)

func baselineProfile() profile.Profile {
	return profile.Profile{
		Age:            30,
		MaritalStatus:  profile.StatusSingle,
		EducationLevel: profile.EduBachelors,
		FirstLanguage: profile.LanguageScores{
			TestType:  "ielts",
			Speaking:  7.5,
			Listening: 8.0,
			Reading:   8.5,
			Writing:   7.0,
		},
		CanadianWorkYears: 2,
		ForeignWorkYears:  3,
	}
}

func TestScore_SingleBachelorBaseline(t *testing.T) {
	b := Score(baselineProfile())

	assert.Equal(t, 105, b.Factors["age"])
	assert.Equal(t, 120, b.Factors["education"])
	assert.Equal(t, 130, b.Factors["first_official_language"])
	assert.Equal(t, 53, b.Factors["canadian_work_experience"])
	assert.Equal(t, 408, b.CoreHumanCapital)
	assert.Equal(t, 100, b.SkillTransferability, "50+50+50 clamps to 100")
	assert.Equal(t, 0, b.SpouseFactors)
	assert.Equal(t, 0, b.AdditionalPoints)
	assert.Equal(t, 508, b.Total)
	assert.Empty(t, b.MissingOrDefaulted)
	assert.Equal(t, Disclaimer, b.Disclaimer)
}

func TestScore_AgeBoundaryAt45(t *testing.T) {
	p := baselineProfile()
	p.Age = 45

	b := Score(p)

	assert.Equal(t, 0, b.Factors["age"])
	assert.Equal(t, 303, b.CoreHumanCapital)
	assert.Equal(t, 403, b.Total)
}

func TestScore_AgeCurve(t *testing.T) {
	tests := []struct {
		name       string
		age        int
		withSpouse bool
		want       int
	}{
		{"under 18", 17, false, 0},
		{"18 single", 18, false, 99},
		{"19 single", 19, false, 105},
		{"19 with spouse", 19, true, 95},
		{"20 single flat max", 20, false, 110},
		{"29 with spouse", 29, true, 100},
		{"30 single", 30, false, 105},
		{"30 with spouse", 30, true, 95},
		{"44 single", 44, false, 21},
		{"44 with spouse", 44, true, 11},
		{"45 cutoff", 45, false, 0},
		{"60 cutoff", 60, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, agePoints(tt.age, tt.withSpouse))
		})
	}
}

func TestScore_WithSpouseUsesSpouseGrids(t *testing.T) {
	p := baselineProfile()
	p.Age = 25
	p.MaritalStatus = profile.StatusMarried
	p.SpouseAccompanying = true
	p.Spouse = &profile.Spouse{
		EducationLevel:    profile.EduBachelors,
		CanadianWorkYears: 1,
		Language: profile.LanguageScores{
			TestType:  "ielts",
			Speaking:  7.0,
			Listening: 7.0,
			Reading:   7.0,
			Writing:   7.0,
		},
	}

	b := Score(p)

	assert.Equal(t, 100, b.Factors["age"], "spouse variant of the flat maximum")
	assert.Equal(t, 112, b.Factors["education"])
	assert.Equal(t, 29+32+32+29, b.Factors["first_official_language"])
	assert.Equal(t, 46, b.Factors["canadian_work_experience"])
	// Spouse: education 8, work 5, language CLB 9 across all skills -> 5.
	assert.Equal(t, 18, b.SpouseFactors)
}

func TestScore_SpouseAccompanyingGatesSpouseFactors(t *testing.T) {
	p := baselineProfile()
	p.MaritalStatus = profile.StatusMarried
	p.SpouseAccompanying = false
	p.Spouse = &profile.Spouse{EducationLevel: profile.EduMasters}

	b := Score(p)

	assert.Equal(t, 0, b.SpouseFactors)
	assert.Equal(t, 105, b.Factors["age"], "single grid applies without accompanying spouse")
}

func TestScore_MissingFieldMarkers(t *testing.T) {
	b := Score(profile.Profile{})

	assert.ElementsMatch(t,
		[]string{MarkerMissingAge, MarkerMissingEducation, MarkerMissingLanguage},
		b.MissingOrDefaulted)
	// Defaulted education still scores as secondary.
	assert.Equal(t, 30, b.Factors["education"])
	assert.Equal(t, 30, b.Total)
}

func TestScore_AdditionalPoints(t *testing.T) {
	p := baselineProfile()
	p.ProvincialNomination = true
	p.SiblingInCanada = true
	p.CertificateOfQualification = true
	p.CanadianEducation = true
	p.CanadianEducationDetail = "three year bachelor degree"
	p.SecondLanguage = &profile.LanguageScores{
		TestType:  "celpip",
		Speaking:  5,
		Listening: 5,
		Reading:   5,
		Writing:   5,
	}

	b := Score(p)

	assert.Equal(t, 600, b.Factors["provincial_nomination"])
	assert.Equal(t, 15, b.Factors["sibling_in_canada"])
	assert.Equal(t, 50, b.Factors["certificate_of_qualification"])
	assert.Equal(t, 30, b.Factors["canadian_study_bonus"])
	assert.Equal(t, 6, b.Factors["second_official_language"])
	assert.Equal(t, 600+15+50+30+6, b.AdditionalPoints)
	assert.LessOrEqual(t, b.Total, MaxTotal)
}

func TestScore_CanadianStudyBonusShortCredential(t *testing.T) {
	assert.Equal(t, 15, canadianStudyBonus(true, "2 year college diploma"))
	assert.Equal(t, 15, canadianStudyBonus(true, "one year certificate"))
	assert.Equal(t, 30, canadianStudyBonus(true, "masters degree"))
	assert.Equal(t, 0, canadianStudyBonus(false, "masters degree"))
}

func TestScore_SecondLanguageThreshold(t *testing.T) {
	low := &profile.LanguageScores{TestType: "ielts", Speaking: 4.0, Listening: 4.0, Reading: 4.0, Writing: 4.0}
	assert.Equal(t, 6, secondLanguagePoints(low), "IELTS 4.0 converts to level 5")

	lower := &profile.LanguageScores{TestType: "ielts", Speaking: 3.5, Listening: 3.5, Reading: 3.5, Writing: 3.5}
	assert.Equal(t, 0, secondLanguagePoints(lower))

	assert.Equal(t, 0, secondLanguagePoints(nil))
}

func TestScore_TransferabilityTiers(t *testing.T) {
	tests := []struct {
		name         string
		edu          profile.EducationLevel
		binding      int
		cdnYears     int
		foreignYears int
		want         int
	}{
		{"all top tiers clamp", profile.EduBachelors, 9, 2, 3, 100},
		{"mid language tier", profile.EduBachelors, 7, 0, 0, 25},
		{"education below bachelor earns nothing from edu combos", profile.EduTwoYear, 9, 2, 0, 0},
		{"foreign mid tier", profile.EduSecondary, 7, 0, 1, 13},
		{"foreign top tier standalone", profile.EduSecondary, 9, 0, 3, 50},
		{"one year canadian work", profile.EduMasters, 0, 1, 0, 25},
		{"no signals", profile.EduSecondary, 0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := transferabilityPoints(tt.edu, language.Level(tt.binding), tt.cdnYears, tt.foreignYears)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScore_TotalClampedAt1200(t *testing.T) {
	p := baselineProfile()
	p.ProvincialNomination = true
	p.CertificateOfQualification = true
	p.SiblingInCanada = true

	b := Score(p)

	assert.LessOrEqual(t, b.Total, MaxTotal)
	assert.GreaterOrEqual(t, b.Total, 0)
}

func TestScore_Deterministic(t *testing.T) {
	p := baselineProfile()

	first, err := json.Marshal(Score(p))
	require.NoError(t, err)
	second, err := json.Marshal(Score(p))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
