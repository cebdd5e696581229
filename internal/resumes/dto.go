package resumes

import (
	"resume-builder/resume/merge"
	"resume-builder/resume/model"
)

type createBaseRequest struct {
	Name         string   `json:"name"`
	TargetRole   string   `json:"targetRole"`
	ImportOption string   `json:"importOption"`
	Content      *Content `json:"content"`
}

type createTailoredRequest struct {
	JobID       string  `json:"jobId"`
	JobTitle    string  `json:"jobTitle"`
	CompanyName string  `json:"companyName"`
	Content     Content `json:"content"`
}

type mergeRequest struct {
	ResumeIDs  []string `json:"resumeIds"`
	Policy     string   `json:"policy"`
	CreateName string   `json:"createName"`
}

// ListResponse is a page of resumes.
type ListResponse struct {
	Resumes []model.Resume `json:"resumes"`
	Type    Kind           `json:"type"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// CountResponse reports how many resumes of a kind the user has.
type CountResponse struct {
	Type  Kind `json:"type"`
	Count int  `json:"count"`
}

// MergeResponse carries the merged document and, when one was created, the stored resume.
type MergeResponse struct {
	Policy string        `json:"policy"`
	Result merge.Result  `json:"result"`
	Resume *model.Resume `json:"resume,omitempty"`
}
