package model

import (
	"maps"
	"slices"
)

// Clone returns a copy of r that shares no slices or maps with it.
func (r Resume) Clone() Resume {
	out := r
	out.WorkExperience = make([]WorkExperience, len(r.WorkExperience))
	for i, w := range r.WorkExperience {
		w.Description = slices.Clone(w.Description)
		w.Technologies = slices.Clone(w.Technologies)
		out.WorkExperience[i] = w
	}
	out.Education = make([]Education, len(r.Education))
	for i, e := range r.Education {
		e.Achievements = slices.Clone(e.Achievements)
		out.Education[i] = e
	}
	out.Skills = make([]Skill, len(r.Skills))
	for i, s := range r.Skills {
		s.Items = slices.Clone(s.Items)
		out.Skills[i] = s
	}
	out.Projects = make([]Project, len(r.Projects))
	for i, p := range r.Projects {
		p.Description = slices.Clone(p.Description)
		p.Technologies = slices.Clone(p.Technologies)
		out.Projects[i] = p
	}
	out.Certifications = slices.Clone(r.Certifications)
	if out.Certifications == nil {
		out.Certifications = []Certification{}
	}
	out.SectionOrder = slices.Clone(r.SectionOrder)
	out.SectionConfigs = maps.Clone(r.SectionConfigs)
	if r.DocumentSettings != nil {
		settings := *r.DocumentSettings
		out.DocumentSettings = &settings
	}
	return out
}
