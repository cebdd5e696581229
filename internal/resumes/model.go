package resumes

import (
	"fmt"
	"strings"

	"resume-builder/resume/model"
)

// Kind filters resumes by whether they are base or tailored.
type Kind string

const (
	KindAll      Kind = "all"
	KindBase     Kind = "base"
	KindTailored Kind = "tailored"
)

// ParseKind maps a query value to a Kind. Empty selects KindAll.
func ParseKind(raw string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(raw))) {
	case "", KindAll:
		return KindAll, nil
	case KindBase:
		return KindBase, nil
	case KindTailored:
		return KindTailored, nil
	default:
		return "", fmt.Errorf("%w: unknown resume type %q", ErrInvalidInput, raw)
	}
}

func (k Kind) matches(r model.Resume) bool {
	switch k {
	case KindBase:
		return r.IsBaseResume
	case KindTailored:
		return !r.IsBaseResume
	default:
		return true
	}
}

func kindOf(r model.Resume) Kind {
	if r.IsBaseResume {
		return KindBase
	}
	return KindTailored
}

// ImportOption selects where a new base resume takes its content from.
type ImportOption string

const (
	ImportProfile ImportOption = "import-profile"
	ImportFresh   ImportOption = "fresh"
	ImportResume  ImportOption = "import-resume"
)

// ParseImportOption maps a request value to an ImportOption. Empty selects ImportProfile.
func ParseImportOption(raw string) (ImportOption, error) {
	switch ImportOption(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ImportProfile:
		return ImportProfile, nil
	case ImportFresh:
		return ImportFresh, nil
	case ImportResume:
		return ImportResume, nil
	default:
		return "", fmt.Errorf("%w: unknown import option %q", ErrInvalidInput, raw)
	}
}

// Content is caller-selected resume content.
type Content struct {
	model.BasicInfo
	ProfessionalSummary string                 `json:"professional_summary,omitempty"`
	WorkExperience      []model.WorkExperience `json:"work_experience"`
	Education           []model.Education      `json:"education"`
	Skills              []model.Skill          `json:"skills"`
	Projects            []model.Project        `json:"projects"`
	Certifications      []model.Certification  `json:"certifications,omitempty"`
}

// CreateBaseInput describes a new base resume.
type CreateBaseInput struct {
	Name       string
	TargetRole string
	Option     ImportOption
	// Content is the selected content. For ImportProfile a nil Content means the whole profile.
	Content *Content
}

// CreateTailoredInput describes a resume tailored from a base for a job.
type CreateTailoredInput struct {
	JobID       string
	JobTitle    string
	CompanyName string
	Content     Content
}

// Limits caps the number of resumes per kind. Zero means unlimited.
type Limits struct {
	MaxBase     int
	MaxTailored int
}

func (l Limits) forKind(k Kind) int {
	switch k {
	case KindBase:
		return l.MaxBase
	case KindTailored:
		return l.MaxTailored
	default:
		return 0
	}
}

// Patch is a partial resume update. Nil fields are left unchanged.
type Patch struct {
	Name                *string                               `json:"name,omitempty"`
	TargetRole          *string                               `json:"target_role,omitempty"`
	FirstName           *string                               `json:"first_name,omitempty"`
	LastName            *string                               `json:"last_name,omitempty"`
	Email               *string                               `json:"email,omitempty"`
	PhoneNumber         *string                               `json:"phone_number,omitempty"`
	Location            *string                               `json:"location,omitempty"`
	Website             *string                               `json:"website,omitempty"`
	LinkedInURL         *string                               `json:"linkedin_url,omitempty"`
	GitHubURL           *string                               `json:"github_url,omitempty"`
	ProfessionalSummary *string                               `json:"professional_summary,omitempty"`
	WorkExperience      *[]model.WorkExperience               `json:"work_experience,omitempty"`
	Education           *[]model.Education                    `json:"education,omitempty"`
	Skills              *[]model.Skill                        `json:"skills,omitempty"`
	Projects            *[]model.Project                      `json:"projects,omitempty"`
	Certifications      *[]model.Certification                `json:"certifications,omitempty"`
	SectionOrder        *[]model.Section                      `json:"section_order,omitempty"`
	SectionConfigs      map[model.Section]model.SectionConfig `json:"section_configs,omitempty"`
	DocumentSettings    *model.DocumentSettings               `json:"document_settings,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Name == nil && p.TargetRole == nil && p.FirstName == nil && p.LastName == nil &&
		p.Email == nil && p.PhoneNumber == nil && p.Location == nil && p.Website == nil &&
		p.LinkedInURL == nil && p.GitHubURL == nil && p.ProfessionalSummary == nil &&
		p.WorkExperience == nil && p.Education == nil && p.Skills == nil && p.Projects == nil &&
		p.Certifications == nil && p.SectionOrder == nil && p.SectionConfigs == nil && p.DocumentSettings == nil
}

// Apply writes the non-nil patch fields onto r.
func (p Patch) Apply(r *model.Resume) {
	setString(&r.Name, p.Name)
	setString(&r.TargetRole, p.TargetRole)
	setString(&r.FirstName, p.FirstName)
	setString(&r.LastName, p.LastName)
	setString(&r.Email, p.Email)
	setString(&r.PhoneNumber, p.PhoneNumber)
	setString(&r.Location, p.Location)
	setString(&r.Website, p.Website)
	setString(&r.LinkedInURL, p.LinkedInURL)
	setString(&r.GitHubURL, p.GitHubURL)
	setString(&r.ProfessionalSummary, p.ProfessionalSummary)
	if p.WorkExperience != nil {
		r.WorkExperience = *p.WorkExperience
	}
	if p.Education != nil {
		r.Education = *p.Education
	}
	if p.Skills != nil {
		r.Skills = *p.Skills
	}
	if p.Projects != nil {
		r.Projects = *p.Projects
	}
	if p.Certifications != nil {
		r.Certifications = *p.Certifications
	}
	if p.SectionOrder != nil {
		r.SectionOrder = *p.SectionOrder
	}
	if p.SectionConfigs != nil {
		r.SectionConfigs = p.SectionConfigs
	}
	if p.DocumentSettings != nil {
		settings := *p.DocumentSettings
		r.DocumentSettings = &settings
	}
}

// ContentPatch builds a patch that replaces the contact block and every section of r.
func ContentPatch(r model.Resume) Patch {
	return Patch{
		FirstName:           &r.FirstName,
		LastName:            &r.LastName,
		Email:               &r.Email,
		PhoneNumber:         &r.PhoneNumber,
		Location:            &r.Location,
		Website:             &r.Website,
		LinkedInURL:         &r.LinkedInURL,
		GitHubURL:           &r.GitHubURL,
		ProfessionalSummary: &r.ProfessionalSummary,
		WorkExperience:      &r.WorkExperience,
		Education:           &r.Education,
		Skills:              &r.Skills,
		Projects:            &r.Projects,
		Certifications:      &r.Certifications,
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
