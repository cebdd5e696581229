// Package tools implements the resume functions a chat model can call. Each call takes JSON
// arguments and returns a JSON string for the model to read.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

// Updater is told about every field a call changes.
type Updater func(field string, value any)

// FunctionHandler runs function calls against a working copy of one resume.
type FunctionHandler struct {
	resume   model.Resume
	onUpdate Updater
	llm      llm.Client
}

// NewFunctionHandler wraps a copy of res. onUpdate and client may be nil.
func NewFunctionHandler(res model.Resume, onUpdate Updater, client llm.Client) *FunctionHandler {
	if client == nil {
		client = llm.PlaceholderClient{}
	}
	return &FunctionHandler{resume: res.Clone(), onUpdate: onUpdate, llm: client}
}

// Resume returns a copy of the working resume, including changes made by calls.
func (h *FunctionHandler) Resume() model.Resume {
	return h.resume.Clone()
}

// Call validates name and rawArgs and executes the function.
func (h *FunctionHandler) Call(ctx context.Context, name, rawArgs string) (string, error) {
	if !slices.Contains([]string{FuncReadResume, FuncUpdateName, FuncModifyResume, FuncSuggestModifications}, name) {
		return "", fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	if rawArgs == "" {
		rawArgs = "{}"
	}
	metrics.IncToolCalls()

	var out any
	var err error
	switch name {
	case FuncReadResume:
		var args struct {
			Section string `json:"section"`
		}
		if err := decodeArgs(rawArgs, &args); err != nil {
			return "", err
		}
		out, err = h.readResume(args.Section)
	case FuncUpdateName:
		var args struct {
			FirstName string `json:"first_name"`
			LastName  string `json:"last_name"`
		}
		if err := decodeArgs(rawArgs, &args); err != nil {
			return "", err
		}
		out = h.updateName(args.FirstName, args.LastName)
	case FuncModifyResume:
		var args modifyArgs
		if err := decodeArgs(rawArgs, &args); err != nil {
			return "", err
		}
		out = h.modifyResume(args)
	case FuncSuggestModifications:
		var args struct {
			Section string `json:"section"`
			Prompt  string `json:"prompt"`
		}
		if err := decodeArgs(rawArgs, &args); err != nil {
			return "", err
		}
		out = h.suggestModifications(ctx, args.Section, args.Prompt)
	}
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	telemetry.Info("tool.call", map[string]any{
		"resume_id": h.resume.ID,
		"tool":      name,
	})
	return string(raw), nil
}

func decodeArgs(raw string, dst any) error {
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}

func (h *FunctionHandler) notify(field string, value any) {
	if h.onUpdate != nil {
		h.onUpdate(field, value)
	}
}

func (h *FunctionHandler) readResume(section string) (any, error) {
	r := h.resume
	switch section {
	case "all":
		return r, nil
	case string(model.SectionBasicInfo):
		return r.BasicInfo(), nil
	case string(model.SectionWorkExperience):
		return r.WorkExperience, nil
	case string(model.SectionEducation):
		return r.Education, nil
	case string(model.SectionSkills):
		return r.Skills, nil
	case string(model.SectionProjects):
		return r.Projects, nil
	case string(model.SectionCertifications):
		return r.Certifications, nil
	default:
		return nil, fmt.Errorf("%w: invalid section %q", ErrInvalidArguments, section)
	}
}

type nameUpdate struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	UpdatedValues map[string]string `json:"updated_values"`
}

func (h *FunctionHandler) updateName(first, last string) nameUpdate {
	h.resume.FirstName = first
	h.resume.LastName = last
	h.notify("first_name", first)
	h.notify("last_name", last)
	return nameUpdate{
		Success:       true,
		Message:       "Name updated successfully",
		UpdatedValues: map[string]string{"first_name": first, "last_name": last},
	}
}

type suggestion struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message"`
	Modifications []model.WorkExperience `json:"modifications"`
}

func (h *FunctionHandler) suggestModifications(ctx context.Context, section, instruction string) suggestion {
	if section != string(model.SectionWorkExperience) {
		return suggestion{
			Message:       fmt.Sprintf("Section %s modifications not yet implemented", section),
			Modifications: []model.WorkExperience{},
		}
	}
	entries, err := json.Marshal(h.resume.WorkExperience)
	if err != nil {
		return suggestion{Message: err.Error(), Modifications: []model.WorkExperience{}}
	}
	var resp struct {
		WorkExperience []model.WorkExperience `json:"work_experience"`
	}
	if err := llm.CompleteJSON(ctx, h.llm, llm.WorkExperiencePrompt(string(entries), instruction), &resp); err != nil {
		telemetry.Warn("tool.suggest.failed", map[string]any{
			"resume_id": h.resume.ID,
			"error":     err,
		})
		return suggestion{
			Message:       fmt.Sprintf("Failed to modify work experience: %v", err),
			Modifications: []model.WorkExperience{},
		}
	}
	if resp.WorkExperience == nil {
		resp.WorkExperience = []model.WorkExperience{}
	}
	return suggestion{
		Success:       true,
		Message:       "Generated improvements for work experience",
		Modifications: resp.WorkExperience,
	}
}
