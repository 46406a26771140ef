package profile

import (
	"strconv"
	"strings"
	"time"
)

// Field aliases accepted by the normalizer. Upstream sources have
// accumulated several spellings per logical field; each canonical field
// resolves through exactly one alias list.
var (
	aliasAge            = []string{"age"}
	aliasDOB            = []string{"date_of_birth", "dob", "birth_date", "birthdate"}
	aliasMarital        = []string{"marital_status", "maritalstatus", "marital"}
	aliasSpouseAccomp   = []string{"spouse_accompanying", "spouse_will_accompany", "accompanying_spouse"}
	aliasSpouseResident = []string{"spouse_is_resident", "spouse_is_canadian", "spouse_is_pr"}
	aliasEducation      = []string{"education_level", "education", "highest_education"}
	aliasCdnEducation   = []string{"canadian_education", "canadian_study", "studied_in_canada"}
	aliasCdnEduDetail   = []string{"canadian_education_detail", "canadian_education_level", "canadian_credential"}
	aliasFirstLang      = []string{"language_scores", "first_language", "first_official_language"}
	aliasSecondLang     = []string{"second_language", "second_language_scores"}
	aliasTestType       = []string{"test_type", "language_test_type", "language_test"}
	aliasCdnWork        = []string{"canadian_work_years", "canadian_work_experience", "canadian_experience_years"}
	aliasForeignWork    = []string{"foreign_work_years", "foreign_work_experience", "foreign_experience_years"}
	aliasCertificate    = []string{"certificate_of_qualification", "trade_certificate", "certificate"}
	aliasNomination     = []string{"provincial_nomination", "province_nomination", "pnp", "has_provincial_nomination"}
	aliasSibling        = []string{"sibling_in_canada", "has_sibling_in_canada", "canadian_sibling"}
	aliasSpouse         = []string{"spouse", "spouse_profile"}
	aliasSpouseEdu      = []string{"spouse_education_level", "spouse_education"}
	aliasSpouseWork     = []string{"spouse_canadian_work_years", "spouse_canadian_work_experience"}
	aliasSpouseLang     = []string{"spouse_language_scores", "spouse_language"}
)

// Normalize maps a loosely-typed attribute bag into a canonical Profile.
// It never fails: unrecognized or unparseable fields resolve to documented
// defaults, yielding a less complete profile rather than an error.
func Normalize(raw map[string]any) Profile {
	return NormalizeAt(raw, time.Now())
}

// NormalizeAt is Normalize with an explicit reference time for age
// derivation from a date of birth.
func NormalizeAt(raw map[string]any, now time.Time) Profile {
	bag := foldKeys(raw)

	p := Profile{
		Age:                bagInt(bag, aliasAge),
		MaritalStatus:      parseMarital(bagString(bag, aliasMarital)),
		SpouseAccompanying: bagBool(bag, aliasSpouseAccomp),
		SpouseIsResident:   bagBool(bag, aliasSpouseResident),

		CanadianEducation:       bagBool(bag, aliasCdnEducation),
		CanadianEducationDetail: bagString(bag, aliasCdnEduDetail),

		CanadianWorkYears: bagInt(bag, aliasCdnWork),
		ForeignWorkYears:  bagInt(bag, aliasForeignWork),

		CertificateOfQualification: bagBool(bag, aliasCertificate),
		ProvincialNomination:       bagBool(bag, aliasNomination),
		SiblingInCanada:            bagBool(bag, aliasSibling),
	}

	// An empty education level marks "no signal"; the scoring engine
	// defaults it and records the gap.
	if edu := bagString(bag, aliasEducation); edu != "" {
		p.EducationLevel = ParseEducation(edu)
	}

	if p.Age <= 0 {
		if dob := bagString(bag, aliasDOB); dob != "" {
			if age, ok := ageFromDOB(dob, now); ok {
				p.Age = age
			}
		}
	}
	if p.Age < 0 {
		p.Age = 0
	}
	if p.CanadianWorkYears < 0 {
		p.CanadianWorkYears = 0
	}
	if p.ForeignWorkYears < 0 {
		p.ForeignWorkYears = 0
	}

	if first, ok := parseLanguage(bag, aliasFirstLang); ok {
		p.FirstLanguage = first
	} else {
		p.FirstLanguage = flatLanguage(bag)
	}
	if second, ok := parseLanguage(bag, aliasSecondLang); ok && !second.Empty() {
		p.SecondLanguage = &second
	}

	if sp := parseSpouse(bag); sp != nil {
		p.Spouse = sp
	}

	return p
}

// foldKeys lowercases keys and strips separators so "EducationLevel",
// "education-level" and "education_level" all land on the same slot.
// First occurrence wins.
func foldKeys(raw map[string]any) map[string]any {
	bag := make(map[string]any, len(raw))
	for k, v := range raw {
		fk := foldKey(k)
		if _, exists := bag[fk]; !exists {
			bag[fk] = v
		}
	}
	return bag
}

func foldKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	k = strings.ReplaceAll(k, "-", "_")
	k = strings.ReplaceAll(k, " ", "_")
	return k
}

func bagLookup(bag map[string]any, aliases []string) (any, bool) {
	for _, a := range aliases {
		if v, ok := bag[a]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func bagString(bag map[string]any, aliases []string) string {
	v, ok := bagLookup(bag, aliases)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func bagInt(bag map[string]any, aliases []string) int {
	v, ok := bagLookup(bag, aliases)
	if !ok {
		return 0
	}
	return asInt(v)
}

func bagBool(bag map[string]any, aliases []string) bool {
	v, ok := bagLookup(bag, aliases)
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "y", "1":
			return true
		}
		return false
	case float64:
		return t != 0
	case int:
		return t != 0
	default:
		return false
	}
}

func asInt(v any) int {
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return int(f)
		}
	}
	return 0
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return 0
}

func parseMarital(s string) MaritalStatus {
	s = strings.ToLower(s)
	switch {
	case strings.Contains(s, "married"), strings.Contains(s, "common"):
		return StatusMarried
	case strings.Contains(s, "divorc"), strings.Contains(s, "separat"),
		strings.Contains(s, "widow"), strings.Contains(s, "annul"):
		return StatusDissolved
	default:
		return StatusSingle
	}
}

// educationKeywords resolve free-text credential descriptions, checked in
// order from highest tier to lowest. Anything unmatched falls back to
// secondary so a profile never loses its education factor entirely.
var educationKeywords = []struct {
	substrings []string
	level      EducationLevel
}{
	{[]string{"phd", "doctor"}, EduDoctorate},
	{[]string{"master"}, EduMasters},
	{[]string{"two_or_more", "two or more", "double"}, EduTwoOrMore},
	{[]string{"bachelor", "degree"}, EduBachelors},
	{[]string{"two_year", "two year", "two-year", "2 year", "associate"}, EduTwoYear},
	{[]string{"one_year", "one year", "one-year", "1 year", "certificate", "diploma"}, EduOneYear},
}

// ParseEducation maps a credential string onto the ordinal education scale.
// Exact canonical names match first; otherwise keyword fallback applies,
// defaulting to secondary.
func ParseEducation(s string) EducationLevel {
	folded := foldKey(s)
	switch EducationLevel(folded) {
	case EduSecondary, EduOneYear, EduTwoYear, EduBachelors, EduTwoOrMore, EduMasters, EduDoctorate:
		return EducationLevel(folded)
	}
	lower := strings.ToLower(s)
	for _, kw := range educationKeywords {
		for _, sub := range kw.substrings {
			if strings.Contains(lower, sub) {
				return kw.level
			}
		}
	}
	return EduSecondary
}

func parseLanguage(bag map[string]any, aliases []string) (LanguageScores, bool) {
	v, ok := bagLookup(bag, aliases)
	if !ok {
		return LanguageScores{}, false
	}
	nested, ok := v.(map[string]any)
	if !ok {
		return LanguageScores{}, false
	}
	return flatLanguage(foldKeys(nested)), true
}

// flatLanguage picks up language skills spelled as direct keys of the bag.
func flatLanguage(bag map[string]any) LanguageScores {
	return LanguageScores{
		TestType:  strings.ToLower(bagString(bag, aliasTestType)),
		Speaking:  asFloat(bag["speaking"]),
		Listening: asFloat(bag["listening"]),
		Reading:   asFloat(bag["reading"]),
		Writing:   asFloat(bag["writing"]),
	}
}

func parseSpouse(bag map[string]any) *Spouse {
	if v, ok := bagLookup(bag, aliasSpouse); ok {
		if nested, ok := v.(map[string]any); ok {
			sub := foldKeys(nested)
			lang, found := parseLanguage(sub, aliasFirstLang)
			if !found {
				lang = flatLanguage(sub)
			}
			sp := Spouse{
				EducationLevel:    ParseEducation(bagString(sub, aliasEducation)),
				CanadianWorkYears: bagInt(sub, aliasCdnWork),
				Language:          lang,
			}
			return &sp
		}
	}

	edu := bagString(bag, aliasSpouseEdu)
	work := bagInt(bag, aliasSpouseWork)
	lang, _ := parseLanguage(bag, aliasSpouseLang)
	if edu == "" && work == 0 && lang.Empty() {
		return nil
	}
	return &Spouse{
		EducationLevel:    ParseEducation(edu),
		CanadianWorkYears: work,
		Language:          lang,
	}
}

var dobLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"January 2, 2006",
	"2 January 2006",
}

func ageFromDOB(dob string, now time.Time) (int, bool) {
	for _, layout := range dobLayouts {
		t, err := time.Parse(layout, dob)
		if err != nil {
			continue
		}
		age := now.Year() - t.Year()
		if now.YearDay() < t.YearDay() {
			age--
		}
		if age >= 0 && age <= 120 {
			return age, true
		}
	}
	return 0, false
}
