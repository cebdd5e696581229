package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneSharesNothing(t *testing.T) {
	settings := DefaultDocumentSettings()
	r := Resume{
		ID:               "r1",
		WorkExperience:   []WorkExperience{{Company: "A", Description: []string{"one"}}},
		Skills:           []Skill{{Category: "Go", Items: []string{"generics"}}},
		SectionConfigs:   map[Section]SectionConfig{SectionSkills: {Visible: true}},
		DocumentSettings: &settings,
	}

	c := r.Clone()
	assert.Equal(t, r.WorkExperience, c.WorkExperience)

	c.WorkExperience[0].Description[0] = "changed"
	c.Skills[0].Items[0] = "changed"
	c.SectionConfigs[SectionSkills] = SectionConfig{Visible: false}
	c.DocumentSettings.HeaderNameSize = 1

	assert.Equal(t, "one", r.WorkExperience[0].Description[0])
	assert.Equal(t, "generics", r.Skills[0].Items[0])
	assert.True(t, r.SectionConfigs[SectionSkills].Visible)
	assert.Equal(t, float64(24), r.DocumentSettings.HeaderNameSize)
}

func TestCloneNormalizesNilSections(t *testing.T) {
	c := Resume{ID: "empty"}.Clone()
	assert.NotNil(t, c.WorkExperience)
	assert.NotNil(t, c.Education)
	assert.NotNil(t, c.Skills)
	assert.NotNil(t, c.Projects)
	assert.NotNil(t, c.Certifications)
}
