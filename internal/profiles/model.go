package profiles

import (
	"time"

	"resume-builder/resume/model"
)

// Profile is a user's master record of contact details and every section entry.
// Base resumes are created from a selection of it.
type Profile struct {
	UserID string `json:"user_id"`
	model.BasicInfo
	WorkExperience []model.WorkExperience `json:"work_experience"`
	Education      []model.Education      `json:"education"`
	Skills         []model.Skill          `json:"skills"`
	Projects       []model.Project        `json:"projects"`
	Certifications []model.Certification  `json:"certifications"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

func (p Profile) normalized() Profile {
	if p.WorkExperience == nil {
		p.WorkExperience = []model.WorkExperience{}
	}
	if p.Education == nil {
		p.Education = []model.Education{}
	}
	if p.Skills == nil {
		p.Skills = []model.Skill{}
	}
	if p.Projects == nil {
		p.Projects = []model.Project{}
	}
	if p.Certifications == nil {
		p.Certifications = []model.Certification{}
	}
	return p
}
