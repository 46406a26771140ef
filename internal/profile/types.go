// Package profile defines the canonical applicant profile and the
// normalization pipeline that builds one from loosely-typed input.
package profile

// MaritalStatus is the applicant's declared marital situation.
type MaritalStatus string

const (
	StatusSingle    MaritalStatus = "single"
	StatusMarried   MaritalStatus = "married_or_common_law"
	StatusDissolved MaritalStatus = "other_dissolved"
)

// EducationLevel is an ordinal credential tier, lowest first.
type EducationLevel string

const (
	EduSecondary EducationLevel = "secondary"
	EduOneYear   EducationLevel = "one_year_diploma"
	EduTwoYear   EducationLevel = "two_year_diploma"
	EduBachelors EducationLevel = "bachelors"
	EduTwoOrMore EducationLevel = "two_or_more_credentials"
	EduMasters   EducationLevel = "masters"
	EduDoctorate EducationLevel = "doctorate"
)

// LanguageScores carries the raw per-skill results of one language test.
// A zero score means the skill was not reported.
type LanguageScores struct {
	TestType  string  `json:"test_type"`
	Speaking  float64 `json:"speaking"`
	Listening float64 `json:"listening"`
	Reading   float64 `json:"reading"`
	Writing   float64 `json:"writing"`
}

// Empty reports whether no skill score was provided at all.
func (s LanguageScores) Empty() bool {
	return s.Speaking == 0 && s.Listening == 0 && s.Reading == 0 && s.Writing == 0
}

// Spouse mirrors the subset of attributes scored for an accompanying spouse.
type Spouse struct {
	EducationLevel    EducationLevel `json:"education_level"`
	CanadianWorkYears int            `json:"canadian_work_years"`
	Language          LanguageScores `json:"language"`
}

// Profile is the canonical applicant record every scoring path consumes.
// It is treated as an immutable value once built.
type Profile struct {
	Age                int           `json:"age"`
	MaritalStatus      MaritalStatus `json:"marital_status"`
	SpouseAccompanying bool          `json:"spouse_accompanying"`
	SpouseIsResident   bool          `json:"spouse_is_resident"`

	EducationLevel    EducationLevel `json:"education_level"`
	CanadianEducation bool           `json:"canadian_education"`
	// CanadianEducationDetail is free text describing the Canadian
	// credential, used to size the study bonus.
	CanadianEducationDetail string `json:"canadian_education_detail,omitempty"`

	FirstLanguage  LanguageScores  `json:"first_language"`
	SecondLanguage *LanguageScores `json:"second_language,omitempty"`

	CanadianWorkYears int `json:"canadian_work_years"`
	ForeignWorkYears  int `json:"foreign_work_years"`

	CertificateOfQualification bool `json:"certificate_of_qualification"`
	ProvincialNomination       bool `json:"provincial_nomination"`
	SiblingInCanada            bool `json:"sibling_in_canada"`

	Spouse *Spouse `json:"spouse,omitempty"`
}

// WithSpouse reports whether spouse-aware tables apply: the spouse must be
// accompanying and the status married or common-law. The accompanying flag,
// not marital status alone, gates every spouse-aware lookup.
func (p Profile) WithSpouse() bool {
	return p.SpouseAccompanying && p.MaritalStatus == StatusMarried
}
