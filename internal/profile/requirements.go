package profile

// FieldRequirement describes one profile field the scoring grid consumes,
// which documents can supply it, and whether this profile already has it.
type FieldRequirement struct {
	FieldName       string   `json:"field_name"`
	FieldType       string   `json:"field_type"`
	Description     string   `json:"description"`
	SourceDocuments []string `json:"source_documents"`
	IsPresent       bool     `json:"is_present"`
}

// RequirementsReport summarizes how complete a profile is for scoring.
// CanCalculate means every required field is present; IsComplete means
// the optional fields are present too.
type RequirementsReport struct {
	CanCalculate    bool               `json:"can_calculate"`
	IsComplete      bool               `json:"is_complete"`
	AvailableFields []string           `json:"available_fields"`
	MissingRequired []string           `json:"missing_required"`
	MissingOptional []string           `json:"missing_optional"`
	Requirements    []FieldRequirement `json:"requirements"`
}

const (
	fieldRequired = "required"
	fieldOptional = "optional"
)

// AnalyzeRequirements inspects a canonical profile and reports which scoring
// inputs are available, which are missing, and whether a meaningful
// calculation is possible at all.
func AnalyzeRequirements(p Profile) RequirementsReport {
	hasLanguage := p.FirstLanguage.TestType != "" && !p.FirstLanguage.Empty()

	fields := []FieldRequirement{
		{
			FieldName:       "age",
			FieldType:       fieldRequired,
			Description:     "Age (or DOB to calculate age), needed for age points",
			SourceDocuments: []string{"passport"},
			IsPresent:       p.Age > 0,
		},
		{
			FieldName:       "education_level",
			FieldType:       fieldRequired,
			Description:     "Education level, needed for education points",
			SourceDocuments: []string{"degree", "diploma", "transcript", "education_credential"},
			IsPresent:       p.EducationLevel != "",
		},
		{
			FieldName:       "language_scores",
			FieldType:       fieldRequired,
			Description:     "Language test scores (test type plus at least one skill), needed for language points",
			SourceDocuments: []string{"language_test", "ielts", "celpip", "pte"},
			IsPresent:       hasLanguage,
		},
		{
			FieldName:       "marital_status",
			FieldType:       fieldOptional,
			Description:     "Marital status, affects scoring if a spouse is accompanying",
			SourceDocuments: []string{"passport", "marriage_certificate"},
			IsPresent:       p.MaritalStatus != "" && p.MaritalStatus != StatusSingle,
		},
		{
			FieldName:       "canadian_work_years",
			FieldType:       fieldOptional,
			Description:     "Canadian work experience years, adds significant points",
			SourceDocuments: []string{"work_permit", "employment_letter", "pay_stubs", "work_reference"},
			IsPresent:       p.CanadianWorkYears > 0,
		},
		{
			FieldName:       "foreign_work_years",
			FieldType:       fieldOptional,
			Description:     "Foreign work experience years, adds points via transferability",
			SourceDocuments: []string{"work_reference", "employment_letter"},
			IsPresent:       p.ForeignWorkYears > 0,
		},
		{
			FieldName:       "canadian_education",
			FieldType:       fieldOptional,
			Description:     "Canadian education indicator, adds bonus points",
			SourceDocuments: []string{"transcript", "degree", "diploma"},
			IsPresent:       p.CanadianEducation,
		},
		{
			FieldName:       "second_language_scores",
			FieldType:       fieldOptional,
			Description:     "Second official language test scores, adds bonus points",
			SourceDocuments: []string{"language_test", "ielts", "celpip", "pte"},
			IsPresent:       p.SecondLanguage != nil && !p.SecondLanguage.Empty(),
		},
		{
			FieldName:       "provincial_nomination",
			FieldType:       fieldOptional,
			Description:     "Provincial nomination certificate, adds 600 points",
			SourceDocuments: []string{"provincial_nomination"},
			IsPresent:       p.ProvincialNomination,
		},
		{
			FieldName:       "certificate_of_qualification",
			FieldType:       fieldOptional,
			Description:     "Certificate of qualification, adds points",
			SourceDocuments: []string{"certificate_of_qualification"},
			IsPresent:       p.CertificateOfQualification,
		},
		{
			FieldName:       "sibling_in_canada",
			FieldType:       fieldOptional,
			Description:     "Sibling in Canada, adds points",
			SourceDocuments: []string{"sibling_documents"},
			IsPresent:       p.SiblingInCanada,
		},
	}

	report := RequirementsReport{
		AvailableFields: []string{},
		MissingRequired: []string{},
		MissingOptional: []string{},
		Requirements:    fields,
	}
	for _, f := range fields {
		switch {
		case f.IsPresent:
			report.AvailableFields = append(report.AvailableFields, f.FieldName)
		case f.FieldType == fieldRequired:
			report.MissingRequired = append(report.MissingRequired, f.FieldName)
		default:
			report.MissingOptional = append(report.MissingOptional, f.FieldName)
		}
	}
	report.CanCalculate = len(report.MissingRequired) == 0
	report.IsComplete = report.CanCalculate && len(report.MissingOptional) == 0
	return report
}
