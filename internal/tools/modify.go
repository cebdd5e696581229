package tools

import (
	"encoding/json"
	"fmt"
	"slices"

	"resume-builder/resume/model"
)

type modifyArgs struct {
	Section string          `json:"section"`
	Action  string          `json:"action"`
	Index   *int            `json:"index,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

type modification struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Section string `json:"section"`
	Action  string `json:"action"`
	Index   *int   `json:"index,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (h *FunctionHandler) modifyResume(args modifyArgs) modification {
	out := modification{Section: args.Section, Action: args.Action, Index: args.Index}
	fail := func(format string, a ...any) modification {
		out.Message = fmt.Sprintf(format, a...)
		return out
	}

	switch args.Action {
	case "add", "update", "delete":
	default:
		return fail("Unknown action %q", args.Action)
	}

	r := &h.resume
	var value any
	var err error
	switch model.Section(args.Section) {
	case model.SectionBasicInfo:
		if args.Action != "update" {
			return fail("basic_info only supports update")
		}
		if len(args.Data) == 0 {
			return fail("data is required to update basic_info")
		}
		info := r.BasicInfo()
		if err := json.Unmarshal(args.Data, &info); err != nil {
			return fail("Invalid basic_info data: %v", err)
		}
		r.ApplyBasicInfo(info)
		h.notify(args.Section, info)
		out.Success = true
		out.Message = "Updated basic_info"
		out.Data = info
		return out
	case model.SectionWorkExperience:
		r.WorkExperience, value, err = modifyList(r.WorkExperience, args)
	case model.SectionEducation:
		r.Education, value, err = modifyList(r.Education, args)
	case model.SectionSkills:
		r.Skills, value, err = modifyList(r.Skills, args)
	case model.SectionProjects:
		r.Projects, value, err = modifyList(r.Projects, args)
	case model.SectionCertifications:
		r.Certifications, value, err = modifyList(r.Certifications, args)
	default:
		return fail("Unknown section %q", args.Section)
	}
	if err != nil {
		return fail("%v", err)
	}

	h.notify(args.Section, h.sectionValue(model.Section(args.Section)))
	out.Success = true
	out.Message = fmt.Sprintf("%s %s", actionPast(args.Action), args.Section)
	out.Data = value
	return out
}

// modifyList applies an add, update or delete to items. The input slice is not modified.
// It returns the new list and the added, updated or removed item.
func modifyList[T any](items []T, args modifyArgs) ([]T, any, error) {
	if args.Action == "add" {
		item, err := decodeItem[T](args)
		if err != nil {
			return items, nil, err
		}
		return append(slices.Clone(items), item), item, nil
	}

	if args.Index == nil {
		return items, nil, fmt.Errorf("index is required for %s", args.Action)
	}
	idx := *args.Index
	if idx < 0 || idx >= len(items) {
		return items, nil, fmt.Errorf("index %d out of range for %s (%d entries)", idx, args.Section, len(items))
	}

	if args.Action == "delete" {
		removed := items[idx]
		return slices.Delete(slices.Clone(items), idx, idx+1), removed, nil
	}
	item, err := decodeItem[T](args)
	if err != nil {
		return items, nil, err
	}
	out := slices.Clone(items)
	out[idx] = item
	return out, item, nil
}

func decodeItem[T any](args modifyArgs) (T, error) {
	var item T
	if len(args.Data) == 0 || string(args.Data) == "null" {
		return item, fmt.Errorf("data is required for %s", args.Action)
	}
	if err := json.Unmarshal(args.Data, &item); err != nil {
		return item, fmt.Errorf("invalid %s data: %v", args.Section, err)
	}
	return item, nil
}

func (h *FunctionHandler) sectionValue(section model.Section) any {
	switch section {
	case model.SectionWorkExperience:
		return h.resume.WorkExperience
	case model.SectionEducation:
		return h.resume.Education
	case model.SectionSkills:
		return h.resume.Skills
	case model.SectionProjects:
		return h.resume.Projects
	case model.SectionCertifications:
		return h.resume.Certifications
	default:
		return nil
	}
}

func actionPast(action string) string {
	switch action {
	case "add":
		return "Added entry to"
	case "update":
		return "Updated entry in"
	default:
		return "Deleted entry from"
	}
}
