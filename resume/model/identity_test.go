package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := map[string]string{
		"Company A":           "company-a",
		"  Lots   of\tspace ": "-lots-of-space-",
		"Already-Normal":      "already-normal",
		"":                    "",
		"Line\nBreak":         "line-break",
		"Project\u00a0X":      "project-x",
		"Project\vX":          "project-x",
		"Wide\u3000\u2003Gap": "wide-gap",
		"\ufeffBOM":           "-bom",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeKey(in), "input %q", in)
	}
}

func TestIdentityKeys(t *testing.T) {
	work := WorkExperience{Company: "Company A", Position: "Developer", Date: "2020 - 2022", Description: []string{"ignored"}}
	assert.Equal(t, "company-a-developer-2020---2022", work.IdentityKey())
	assert.Equal(t, SectionWorkExperience, work.Section())

	edu := Education{School: "University A", Degree: "BS", Field: "Computer Science", Date: "ignored"}
	assert.Equal(t, "university-a-bs-computer-science", edu.IdentityKey())
	assert.Equal(t, SectionEducation, edu.Section())

	skill := Skill{Category: "Programming", Items: []string{"Go", "Type Script"}}
	assert.Equal(t, "programming-go-type-script", skill.IdentityKey())
	assert.Equal(t, SectionSkills, skill.Section())

	project := Project{Name: "Project X", Description: []string{"ignored"}}
	assert.Equal(t, "project-x", project.IdentityKey())
	assert.Equal(t, SectionProjects, project.Section())
}

func TestIdentityKeyIgnoresCase(t *testing.T) {
	a := WorkExperience{Company: "ACME", Position: "Engineer", Date: "2021"}
	b := WorkExperience{Company: "acme", Position: "engineer", Date: "2021", Location: "Berlin"}
	assert.Equal(t, a.IdentityKey(), b.IdentityKey())

	c := WorkExperience{Company: "ACME", Position: "Engineer", Date: "Jan 2021"}
	assert.NotEqual(t, a.IdentityKey(), c.IdentityKey())
}

func TestSkillKeyDependsOnItemOrder(t *testing.T) {
	a := Skill{Category: "Languages", Items: []string{"Go", "Rust"}}
	b := Skill{Category: "Languages", Items: []string{"Rust", "Go"}}
	assert.NotEqual(t, a.IdentityKey(), b.IdentityKey())
}

func TestVisibleSections(t *testing.T) {
	got := VisibleSections([]WorkExperience{{Company: "A"}}, nil, []Skill{}, nil, nil)
	assert.True(t, got[SectionWorkExperience].Visible)
	assert.False(t, got[SectionEducation].Visible)
	assert.False(t, got[SectionSkills].Visible)
	assert.Len(t, got, 5)
}

func TestBasicInfoRoundTrip(t *testing.T) {
	var r Resume
	info := BasicInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Location: "London"}
	r.ApplyBasicInfo(info)
	assert.Equal(t, info, r.BasicInfo())
}

func TestIdentityKeysWithMissingFields(t *testing.T) {
	assert.Equal(t, "--", WorkExperience{}.IdentityKey())
	assert.Equal(t, "--", Education{}.IdentityKey())
	assert.Equal(t, "-", Skill{}.IdentityKey())
	assert.Equal(t, "tools-", Skill{Category: "Tools", Items: nil}.IdentityKey())
	assert.Equal(t, "", Project{}.IdentityKey())

	// Partially filled entries keep their position in the key.
	assert.Equal(t, "-engineer-", WorkExperience{Position: "Engineer"}.IdentityKey())
}

func TestNoBreakSpaceProjectsShareKey(t *testing.T) {
	assert.Equal(t, Project{Name: "Project X"}.IdentityKey(), Project{Name: "Project\u00a0X"}.IdentityKey())
}
