package tools

// Schema describes one callable function in the JSON-schema form chat completion APIs accept.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

const (
	FuncReadResume           = "read_resume"
	FuncUpdateName           = "update_name"
	FuncModifyResume         = "modify_resume"
	FuncSuggestModifications = "suggest_modifications"
)

var readableSections = []string{"all", "basic_info", "work_experience", "education", "skills", "projects", "certifications"}

var editableSections = []string{"basic_info", "work_experience", "education", "skills", "projects", "certifications"}

func str(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func strList(description string) map[string]any {
	return map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": description}
}

func enum(values []string, description string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

// Schemas returns the function definitions in a stable order.
func Schemas() []Schema {
	return []Schema{
		{
			Name:        FuncReadResume,
			Description: "Read the current resume content to understand and analyze it",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"section": enum(readableSections, "The section of the resume to read"),
				},
				"required": []string{"section"},
			},
		},
		{
			Name:        FuncUpdateName,
			Description: "Update the first and last name in the resume",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"first_name": str("The new first name"),
					"last_name":  str("The new last name"),
				},
				"required": []string{"first_name", "last_name"},
			},
		},
		{
			Name: FuncModifyResume,
			Description: "Modify a specific section of the resume (add, update, or delete entries). " +
				"For update/delete actions, index is required. For add/update actions, data is required with the appropriate fields for the section.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"section": enum(editableSections, "The section of the resume to modify"),
					"action":  enum([]string{"add", "update", "delete"}, "The type of modification to perform"),
					"index": map[string]any{
						"type":        "number",
						"description": "The index of the item to update or delete (required for update and delete actions)",
					},
					"data": map[string]any{
						"type":        "object",
						"description": "The data to add or update. Include only the fields of the chosen section.",
						"properties": map[string]any{
							"company":       str("Company name (for work_experience)"),
							"position":      str("Job position (for work_experience)"),
							"location":      str("Location"),
							"date":          str("Date or date range"),
							"description":   strList("Bullet points"),
							"technologies":  strList("Technologies used"),
							"school":        str("School name (for education)"),
							"degree":        str("Degree type (for education)"),
							"field":         str("Field of study (for education)"),
							"gpa":           str("GPA (for education)"),
							"achievements":  strList("Academic achievements"),
							"category":      str("Skill category (for skills)"),
							"items":         strList("Skills in this category"),
							"name":          str("Project or certification name"),
							"url":           str("Project or certification URL"),
							"issuer":        str("Certificate issuer (for certifications)"),
							"date_acquired": str("Date the certificate was acquired"),
							"expiry_date":   str("Certificate expiration date"),
							"credential_id": str("Certificate credential ID"),
							"first_name":    str("First name (for basic_info)"),
							"last_name":     str("Last name (for basic_info)"),
							"email":         str("Email address (for basic_info)"),
							"phone_number":  str("Phone number"),
							"website":       str("Personal website URL"),
							"linkedin_url":  str("LinkedIn profile URL"),
							"github_url":    str("GitHub profile or project URL"),
						},
					},
				},
				"required": []string{"section", "action"},
			},
		},
		{
			Name:        FuncSuggestModifications,
			Description: "Propose modifications to a resume section by providing the section and a clear rewrite instruction",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"section": enum(append(append([]string(nil), editableSections...), "professional_summary"), "The section to improve"),
					"prompt":  str("Instructions starting with 'Rewrite this section to...' followed by specific improvements needed"),
				},
				"required": []string{"section", "prompt"},
			},
		},
	}
}
