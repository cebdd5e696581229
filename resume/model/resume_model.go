package model

import "time"

// Section names a structured resume content category.
type Section string

const (
	SectionBasicInfo      Section = "basic_info"
	SectionWorkExperience Section = "work_experience"
	SectionEducation      Section = "education"
	SectionSkills         Section = "skills"
	SectionProjects       Section = "projects"
	SectionCertifications Section = "certifications"
)

// MergeableSections lists the sections that participate in content merging, in traversal order.
var MergeableSections = []Section{
	SectionWorkExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
}

// DefaultSectionOrder is the section order given to newly created resumes.
var DefaultSectionOrder = []Section{
	SectionWorkExperience,
	SectionEducation,
	SectionSkills,
	SectionProjects,
	SectionCertifications,
}

// Resume is the canonical resume document. Base resumes are reusable templates;
// tailored resumes are derived from a base for a specific job.
type Resume struct {
	ID                  string                    `json:"id"`
	UserID              string                    `json:"user_id"`
	Name                string                    `json:"name"`
	TargetRole          string                    `json:"target_role"`
	IsBaseResume        bool                      `json:"is_base_resume"`
	BaseResumeID        string                    `json:"base_resume_id,omitempty"`
	JobID               string                    `json:"job_id,omitempty"`
	FirstName           string                    `json:"first_name"`
	LastName            string                    `json:"last_name"`
	Email               string                    `json:"email"`
	PhoneNumber         string                    `json:"phone_number,omitempty"`
	Location            string                    `json:"location,omitempty"`
	Website             string                    `json:"website,omitempty"`
	LinkedInURL         string                    `json:"linkedin_url,omitempty"`
	GitHubURL           string                    `json:"github_url,omitempty"`
	ProfessionalSummary string                    `json:"professional_summary,omitempty"`
	WorkExperience      []WorkExperience          `json:"work_experience"`
	Education           []Education               `json:"education"`
	Skills              []Skill                   `json:"skills"`
	Projects            []Project                 `json:"projects"`
	Certifications      []Certification           `json:"certifications"`
	SectionOrder        []Section                 `json:"section_order,omitempty"`
	SectionConfigs      map[Section]SectionConfig `json:"section_configs,omitempty"`
	DocumentSettings    *DocumentSettings         `json:"document_settings,omitempty"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// WorkExperience is a single employment entry.
type WorkExperience struct {
	Company      string   `json:"company"`
	Position     string   `json:"position"`
	Location     string   `json:"location,omitempty"`
	Date         string   `json:"date"`
	Description  []string `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
}

// Education is a single education entry.
type Education struct {
	School       string   `json:"school"`
	Degree       string   `json:"degree"`
	Field        string   `json:"field"`
	Location     string   `json:"location,omitempty"`
	Date         string   `json:"date"`
	GPA          string   `json:"gpa,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

// Skill groups the skill names of one category.
type Skill struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

// Project is a notable project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  []string `json:"description"`
	Date         string   `json:"date,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	URL          string   `json:"url,omitempty"`
	GitHubURL    string   `json:"github_url,omitempty"`
}

// Certification is a certificate entry. Certifications are not merged.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	DateAcquired string `json:"date_acquired,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	URL          string `json:"url,omitempty"`
}

// SectionConfig controls how a section is rendered.
type SectionConfig struct {
	Visible bool `json:"visible"`
}

// DocumentSettings holds the typographic spacing of a rendered resume, in points.
type DocumentSettings struct {
	HeaderNameSize          float64 `json:"header_name_size"`
	HeaderNameBottomSpacing float64 `json:"header_name_bottom_spacing"`
	SkillsMarginTop         float64 `json:"skills_margin_top"`
	SkillsMarginBottom      float64 `json:"skills_margin_bottom"`
	SkillsItemSpacing       float64 `json:"skills_item_spacing"`
	ExperienceMarginTop     float64 `json:"experience_margin_top"`
	ExperienceMarginBottom  float64 `json:"experience_margin_bottom"`
	ExperienceItemSpacing   float64 `json:"experience_item_spacing"`
	ProjectsMarginTop       float64 `json:"projects_margin_top"`
	ProjectsMarginBottom    float64 `json:"projects_margin_bottom"`
	ProjectsItemSpacing     float64 `json:"projects_item_spacing"`
	EducationMarginTop      float64 `json:"education_margin_top"`
	EducationMarginBottom   float64 `json:"education_margin_bottom"`
	EducationItemSpacing    float64 `json:"education_item_spacing"`
}

// DefaultDocumentSettings returns the spacing used when a resume has none.
func DefaultDocumentSettings() DocumentSettings {
	return DocumentSettings{
		HeaderNameSize:          24,
		HeaderNameBottomSpacing: 4,
		SkillsMarginTop:         2,
		SkillsMarginBottom:      2,
		SkillsItemSpacing:       2,
		ExperienceMarginTop:     2,
		ExperienceMarginBottom:  2,
		ExperienceItemSpacing:   4,
		ProjectsMarginTop:       2,
		ProjectsMarginBottom:    2,
		ProjectsItemSpacing:     4,
		EducationMarginTop:      2,
		EducationMarginBottom:   2,
		EducationItemSpacing:    4,
	}
}

// BasicInfo is the contact block of a resume.
type BasicInfo struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Location    string `json:"location,omitempty"`
	Website     string `json:"website,omitempty"`
	LinkedInURL string `json:"linkedin_url,omitempty"`
	GitHubURL   string `json:"github_url,omitempty"`
}

// BasicInfo returns the resume's contact block.
func (r Resume) BasicInfo() BasicInfo {
	return BasicInfo{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Location:    r.Location,
		Website:     r.Website,
		LinkedInURL: r.LinkedInURL,
		GitHubURL:   r.GitHubURL,
	}
}

// ApplyBasicInfo overwrites the resume's contact block.
func (r *Resume) ApplyBasicInfo(info BasicInfo) {
	r.FirstName = info.FirstName
	r.LastName = info.LastName
	r.Email = info.Email
	r.PhoneNumber = info.PhoneNumber
	r.Location = info.Location
	r.Website = info.Website
	r.LinkedInURL = info.LinkedInURL
	r.GitHubURL = info.GitHubURL
}

// VisibleSections derives section visibility from whether each section has content.
func VisibleSections(work []WorkExperience, edu []Education, skills []Skill, projects []Project, certs []Certification) map[Section]SectionConfig {
	return map[Section]SectionConfig{
		SectionWorkExperience: {Visible: len(work) > 0},
		SectionEducation:      {Visible: len(edu) > 0},
		SectionSkills:         {Visible: len(skills) > 0},
		SectionProjects:       {Visible: len(projects) > 0},
		SectionCertifications: {Visible: len(certs) > 0},
	}
}
