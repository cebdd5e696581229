package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/import_resume.txt
	importResumePrompt string
	//go:embed prompts/work_experience.txt
	workExperiencePrompt string
	//go:embed prompts/fix_json.txt
	fixJSONPrompt string
)

// ImportResumePrompt asks the model to structure extracted resume text into resume sections.
func ImportResumePrompt(resumeText string) string {
	return strings.NewReplacer("{{RESUME_TEXT}}", strings.TrimSpace(resumeText)).Replace(importResumePrompt)
}

// WorkExperiencePrompt asks the model to rewrite work experience entries following instruction.
func WorkExperiencePrompt(entriesJSON, instruction string) string {
	return strings.NewReplacer(
		"{{ENTRIES}}", entriesJSON,
		"{{INSTRUCTION}}", strings.TrimSpace(instruction),
	).Replace(workExperiencePrompt)
}

// FixJSONPrompt asks the model to repair a malformed JSON response.
func FixJSONPrompt(raw string) string {
	return strings.NewReplacer("{{RAW}}", raw).Replace(fixJSONPrompt)
}
