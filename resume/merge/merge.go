// Package merge combines the section content of several resumes into one deduplicated
// document while recording which resume contributed each entry.
//
// Entries are deduplicated per section by identity key. The first occurrence of a key
// wins; later occurrences only add provenance. Inputs are never mutated and the result
// never shares slices with them, so Merge is safe to call concurrently.
package merge

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"resume-builder/resume/model"
)

var (
	// ErrInvalidInput indicates the merge input cannot produce a result.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnrelatedResumes indicates a lineage merge over resumes without a common base.
	ErrUnrelatedResumes = fmt.Errorf("%w: resumes do not share a base resume", ErrInvalidInput)
)

// Item is a section entry that can be deduplicated.
type Item interface {
	Section() model.Section
	IdentityKey() string
}

var (
	_ Item = model.WorkExperience{}
	_ Item = model.Education{}
	_ Item = model.Skill{}
	_ Item = model.Project{}
)

// Policy selects how work experience entries are keyed.
type Policy int

const (
	// PolicyContent keys every section by item content.
	PolicyContent Policy = iota
	// PolicyLineage keys work experience by position (exp1, exp2, ...). It is only valid
	// when all resumes descend from the same base resume, where positions line up.
	PolicyLineage
)

// String returns the wire name of the policy.
func (p Policy) String() string {
	switch p {
	case PolicyLineage:
		return "lineage"
	default:
		return "content"
	}
}

// ParsePolicy maps a wire name to a Policy. An empty name selects PolicyContent.
func ParsePolicy(raw string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "content":
		return PolicyContent, nil
	case "lineage":
		return PolicyLineage, nil
	default:
		return PolicyContent, fmt.Errorf("%w: unknown merge policy %q", ErrInvalidInput, raw)
	}
}

type options struct {
	policy Policy
}

// Option configures Merge.
type Option func(*options)

// WithPolicy selects the work experience key policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// Source is the provenance of one input resume: the keys it contributed per section,
// duplicates included.
type Source struct {
	Name     string                     `json:"name"`
	Sections map[model.Section][]string `json:"sections"`
}

// Result is the merged document.
type Result struct {
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Email          string                 `json:"email"`
	WorkExperience []model.WorkExperience `json:"work_experience"`
	Education      []model.Education      `json:"education"`
	Skills         []model.Skill          `json:"skills"`
	Projects       []model.Project        `json:"projects"`
	Sources        map[string]Source      `json:"sources"`
	// Contributors maps section -> kept key -> resume ids credited with the entry.
	// Duplicate skill groups are not credited to later resumes.
	Contributors map[model.Section]map[string][]string `json:"contributors"`
}

// Merge folds resumes, in order, into a single Result. The first resume is the primary
// one: its name and email seed the result regardless of the others.
func Merge(resumes []model.Resume, opts ...Option) (Result, error) {
	if len(resumes) == 0 {
		return Result{}, fmt.Errorf("%w: at least one resume is required", ErrInvalidInput)
	}
	cfg := options{policy: PolicyContent}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.policy == PolicyLineage {
		if err := checkLineage(resumes); err != nil {
			return Result{}, err
		}
	}

	workKey := contentKey[model.WorkExperience]
	positionalWork := cfg.policy == PolicyLineage
	if positionalWork {
		workKey = positionalKey
	}

	work := newOrdered[model.WorkExperience]()
	edu := newOrdered[model.Education]()
	skills := newOrdered[model.Skill]()
	projects := newOrdered[model.Project]()
	sources := make(map[string]Source, len(resumes))

	for _, r := range resumes {
		src, repeat := sources[r.ID]
		if !repeat {
			src = newSource(r.Name)
		}
		// A repeated resume adds nothing new under content keys. Positional keys are
		// listed once per occurrence.
		fold(work, src, r.ID, r.WorkExperience, workKey, true, repeat && !positionalWork)
		fold(edu, src, r.ID, r.Education, contentKey[model.Education], true, repeat)
		fold(skills, src, r.ID, r.Skills, contentKey[model.Skill], false, repeat)
		fold(projects, src, r.ID, r.Projects, contentKey[model.Project], true, repeat)
		sources[r.ID] = src
	}

	primary := resumes[0]
	return Result{
		FirstName:      primary.FirstName,
		LastName:       primary.LastName,
		Email:          primary.Email,
		WorkExperience: work.project(cloneWorkExperience),
		Education:      edu.project(cloneEducation),
		Skills:         skills.project(cloneSkill),
		Projects:       projects.project(cloneProject),
		Sources:        sources,
		Contributors: map[model.Section]map[string][]string{
			model.SectionWorkExperience: work.contributors(),
			model.SectionEducation:      edu.contributors(),
			model.SectionSkills:         skills.contributors(),
			model.SectionProjects:       projects.contributors(),
		},
	}, nil
}

func newSource(name string) Source {
	sections := make(map[model.Section][]string, len(model.MergeableSections))
	for _, s := range model.MergeableSections {
		sections[s] = []string{}
	}
	return Source{Name: name, Sections: sections}
}

// fold adds one resume's section items to acc and records their keys on src.
// creditDuplicates controls whether a repeated key credits resumeID on the kept entry.
// With skipKnown, keys src already lists are skipped entirely.
func fold[T Item](acc *ordered[T], src Source, resumeID string, items []T, key func(int, T) string, creditDuplicates, skipKnown bool) {
	var zero T
	section := zero.Section()
	for i, item := range items {
		k := key(i, item)
		if skipKnown && slices.Contains(src.Sections[section], k) {
			continue
		}
		acc.add(k, item, resumeID, creditDuplicates)
		src.Sections[section] = append(src.Sections[section], k)
	}
}

func contentKey[T Item](_ int, item T) string {
	return item.IdentityKey()
}

func positionalKey(idx int, _ model.WorkExperience) string {
	return fmt.Sprintf("exp%d", idx+1)
}

func checkLineage(resumes []model.Resume) error {
	root := familyRoot(resumes[0])
	for _, r := range resumes[1:] {
		if familyRoot(r) != root {
			return fmt.Errorf("%w: %s is not derived from %s", ErrUnrelatedResumes, r.ID, root)
		}
	}
	return nil
}

func familyRoot(r model.Resume) string {
	if r.BaseResumeID != "" {
		return r.BaseResumeID
	}
	return r.ID
}

func cloneWorkExperience(w model.WorkExperience) model.WorkExperience {
	w.Description = slices.Clone(w.Description)
	w.Technologies = slices.Clone(w.Technologies)
	return w
}

func cloneEducation(e model.Education) model.Education {
	e.Achievements = slices.Clone(e.Achievements)
	return e
}

func cloneSkill(s model.Skill) model.Skill {
	s.Items = slices.Clone(s.Items)
	return s
}

func cloneProject(p model.Project) model.Project {
	p.Description = slices.Clone(p.Description)
	p.Technologies = slices.Clone(p.Technologies)
	return p
}
