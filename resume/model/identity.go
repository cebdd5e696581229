package model

import (
	"regexp"
	"strings"
)

// whitespaceRun matches ASCII whitespace, vertical tab, every Unicode space separator
// (no-break space included) and the byte order mark.
var whitespaceRun = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)

// NormalizeKey lowercases raw and replaces every whitespace run with a single hyphen.
func NormalizeKey(raw string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(raw), "-")
}

// Section reports the section a work experience belongs to.
func (WorkExperience) Section() Section { return SectionWorkExperience }

// IdentityKey derives the dedup key from company, position and date. Differently
// formatted dates for the same job produce different keys.
func (w WorkExperience) IdentityKey() string {
	return NormalizeKey(w.Company + "-" + w.Position + "-" + w.Date)
}

// Section reports the section an education entry belongs to.
func (Education) Section() Section { return SectionEducation }

// IdentityKey derives the dedup key from school, degree and field of study.
func (e Education) IdentityKey() string {
	return NormalizeKey(e.School + "-" + e.Degree + "-" + e.Field)
}

// Section reports the section a skill group belongs to.
func (Skill) Section() Section { return SectionSkills }

// IdentityKey derives the dedup key from the category and the full item list, so only
// identical category+list combinations collide.
func (s Skill) IdentityKey() string {
	return NormalizeKey(s.Category + "-" + strings.Join(s.Items, "-"))
}

// Section reports the section a project belongs to.
func (Project) Section() Section { return SectionProjects }

// IdentityKey derives the dedup key from the project name.
func (p Project) IdentityKey() string {
	return NormalizeKey(p.Name)
}
