package resumes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resume-builder/internal/profiles"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/merge"
	"resume-builder/resume/model"
)

// ProfileSource supplies the master profile used by ImportProfile.
type ProfileSource interface {
	Get(ctx context.Context, userID string) (profiles.Profile, error)
}

// JobRemover deletes the job a tailored resume was written for.
type JobRemover interface {
	Delete(ctx context.Context, userID, jobID string) error
}

// Service contains business logic for resumes.
type Service struct {
	Repo     Repo
	Profiles ProfileSource
	Jobs     JobRemover
	Limits   Limits
	Now      func() time.Time
}

// NewService constructs a Service backed by repo.
func NewService(repo Repo, profiles ProfileSource, jobs JobRemover, limits Limits) *Service {
	return &Service{Repo: repo, Profiles: profiles, Jobs: jobs, Limits: limits}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) ready() error {
	if s == nil || s.Repo == nil {
		return errors.New("resumes service not configured")
	}
	return nil
}

// Get returns a resume owned by userID.
func (s *Service) Get(ctx context.Context, userID, resumeID string) (model.Resume, error) {
	if err := s.ready(); err != nil {
		return model.Resume{}, err
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(resumeID) == "" {
		return model.Resume{}, fmt.Errorf("%w: user id and resume id are required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, resumeID)
}

// List returns the user's resumes of the given kind, newest first.
func (s *Service) List(ctx context.Context, userID string, kind Kind, limit, offset int) ([]model.Resume, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.Repo.ListByUser(ctx, userID, kind, limit, offset)
}

// Count returns the number of the user's resumes of the given kind.
func (s *Service) Count(ctx context.Context, userID string, kind Kind) (int, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	return s.Repo.Count(ctx, userID, kind)
}

// Update applies patch to a resume and bumps UpdatedAt.
func (s *Service) Update(ctx context.Context, userID, resumeID string, patch Patch) (model.Resume, error) {
	res, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return model.Resume{}, err
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return model.Resume{}, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	patch.Apply(&res)
	res.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, res); err != nil {
		return model.Resume{}, err
	}
	return res, nil
}

// Delete removes a resume. Deleting a tailored resume also deletes its job; a failed job
// deletion is logged and does not block the resume deletion.
func (s *Service) Delete(ctx context.Context, userID, resumeID string) error {
	res, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return err
	}
	if !res.IsBaseResume && res.JobID != "" && s.Jobs != nil {
		if err := s.Jobs.Delete(ctx, userID, res.JobID); err != nil {
			telemetry.Warn("resume.delete.job_failed", map[string]any{
				"user_id":   userID,
				"resume_id": resumeID,
				"job_id":    res.JobID,
				"error":     err,
			})
		}
	}
	return s.Repo.Delete(ctx, userID, resumeID)
}

// CreateBase creates a base resume from the profile, from caller content, or empty.
func (s *Service) CreateBase(ctx context.Context, userID string, in CreateBaseInput) (model.Resume, error) {
	if err := s.ready(); err != nil {
		return model.Resume{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Resume{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	option := in.Option
	if option == "" {
		option = ImportProfile
	}
	if option == ImportResume && in.Content == nil {
		return model.Resume{}, fmt.Errorf("%w: content is required for %s", ErrInvalidInput, ImportResume)
	}
	if err := s.checkLimit(ctx, userID, KindBase); err != nil {
		return model.Resume{}, err
	}

	var content Content
	switch option {
	case ImportResume:
		content = *in.Content
	case ImportProfile:
		profile, err := s.loadProfile(ctx, userID)
		if err != nil {
			return model.Resume{}, err
		}
		if in.Content != nil {
			content = *in.Content
		} else {
			content = Content{
				WorkExperience: profile.WorkExperience,
				Education:      profile.Education,
				Skills:         profile.Skills,
				Projects:       profile.Projects,
			}
		}
		content.BasicInfo = profile.BasicInfo
	}

	targetRole := strings.TrimSpace(in.TargetRole)
	if targetRole == "" {
		targetRole = name
	}
	now := s.now()
	settings := model.DefaultDocumentSettings()
	res := model.Resume{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Name:                name,
		TargetRole:          targetRole,
		IsBaseResume:        true,
		ProfessionalSummary: content.ProfessionalSummary,
		WorkExperience:      content.WorkExperience,
		Education:           content.Education,
		Skills:              content.Skills,
		Projects:            content.Projects,
		Certifications:      []model.Certification{},
		SectionOrder:        append([]model.Section(nil), model.DefaultSectionOrder...),
		SectionConfigs:      model.VisibleSections(content.WorkExperience, content.Education, content.Skills, content.Projects, nil),
		DocumentSettings:    &settings,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	res.ApplyBasicInfo(content.BasicInfo)
	res = res.Clone()

	if err := s.Repo.Create(ctx, res); err != nil {
		return model.Resume{}, err
	}
	telemetry.Info("resume.created", map[string]any{
		"user_id":       userID,
		"resume_id":     res.ID,
		"kind":          KindBase,
		"import_option": option,
	})
	return res, nil
}

// A missing profile yields empty contact and section content.
func (s *Service) loadProfile(ctx context.Context, userID string) (profiles.Profile, error) {
	if s.Profiles == nil {
		return profiles.Profile{UserID: userID}, nil
	}
	profile, err := s.Profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			telemetry.Warn("resume.create.profile_missing", map[string]any{"user_id": userID})
			return profiles.Profile{UserID: userID}, nil
		}
		return profiles.Profile{}, err
	}
	return profile, nil
}

// CreateTailored creates a resume for a job from a base resume. Contact and presentation
// fields come from the base; section content comes from in.Content.
func (s *Service) CreateTailored(ctx context.Context, userID, baseResumeID string, in CreateTailoredInput) (model.Resume, error) {
	jobTitle := strings.TrimSpace(in.JobTitle)
	company := strings.TrimSpace(in.CompanyName)
	if jobTitle == "" || company == "" {
		return model.Resume{}, fmt.Errorf("%w: job title and company name are required", ErrInvalidInput)
	}
	base, err := s.Get(ctx, userID, baseResumeID)
	if err != nil {
		return model.Resume{}, err
	}
	if err := s.checkLimit(ctx, userID, KindTailored); err != nil {
		return model.Resume{}, err
	}

	now := s.now()
	res := model.Resume{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Name:                fmt.Sprintf("%s at %s", jobTitle, company),
		TargetRole:          jobTitle,
		IsBaseResume:        false,
		BaseResumeID:        base.ID,
		JobID:               strings.TrimSpace(in.JobID),
		ProfessionalSummary: in.Content.ProfessionalSummary,
		WorkExperience:      in.Content.WorkExperience,
		Education:           in.Content.Education,
		Skills:              in.Content.Skills,
		Projects:            in.Content.Projects,
		Certifications:      in.Content.Certifications,
		SectionOrder:        base.SectionOrder,
		SectionConfigs:      base.SectionConfigs,
		DocumentSettings:    base.DocumentSettings,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if res.Certifications == nil {
		res.Certifications = base.Certifications
	}
	res.ApplyBasicInfo(base.BasicInfo())
	res = res.Clone()

	if err := s.Repo.Create(ctx, res); err != nil {
		return model.Resume{}, err
	}
	telemetry.Info("resume.created", map[string]any{
		"user_id":        userID,
		"resume_id":      res.ID,
		"base_resume_id": base.ID,
		"job_id":         res.JobID,
		"kind":           KindTailored,
	})
	return res, nil
}

// Copy duplicates a resume under a new ID with " (Copy)" appended to its name.
func (s *Service) Copy(ctx context.Context, userID, resumeID string) (model.Resume, error) {
	src, err := s.Get(ctx, userID, resumeID)
	if err != nil {
		return model.Resume{}, err
	}
	if err := s.checkLimit(ctx, userID, kindOf(src)); err != nil {
		return model.Resume{}, err
	}
	now := s.now()
	res := src.Clone()
	res.ID = uuid.NewString()
	res.Name = src.Name + " (Copy)"
	res.CreatedAt = now
	res.UpdatedAt = now
	if err := s.Repo.Create(ctx, res); err != nil {
		return model.Resume{}, err
	}
	return res, nil
}

// Merge loads the resumes concurrently and merges them in the requested order.
func (s *Service) Merge(ctx context.Context, userID string, resumeIDs []string, policy merge.Policy) (merge.Result, error) {
	if err := s.ready(); err != nil {
		return merge.Result{}, err
	}
	if len(resumeIDs) == 0 {
		return merge.Result{}, fmt.Errorf("%w: at least one resume id is required", ErrInvalidInput)
	}

	loaded := make([]model.Resume, len(resumeIDs))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range resumeIDs {
		i, id := i, id
		g.Go(func() error {
			res, err := s.Get(gctx, userID, id)
			if err != nil {
				return fmt.Errorf("load resume %s: %w", id, err)
			}
			loaded[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		metrics.IncMergeFailures()
		return merge.Result{}, err
	}

	start := time.Now()
	result, err := merge.Merge(loaded, merge.WithPolicy(policy))
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		metrics.IncMergeFailures()
		telemetry.Warn("resume.merge.failed", map[string]any{
			"user_id":    userID,
			"resume_ids": resumeIDs,
			"policy":     policy.String(),
			"error":      err,
		})
		return merge.Result{}, err
	}
	metrics.IncMerges()
	metrics.ObserveMergeDurationMs(elapsed)
	telemetry.Info("resume.merge", map[string]any{
		"user_id":         userID,
		"resume_count":    len(resumeIDs),
		"policy":          policy.String(),
		"work_experience": len(result.WorkExperience),
		"education":       len(result.Education),
		"skills":          len(result.Skills),
		"projects":        len(result.Projects),
		"duration_ms":     elapsed,
	})
	return result, nil
}

// CreateFromMerge merges the resumes and stores the result as a new base resume.
func (s *Service) CreateFromMerge(ctx context.Context, userID string, resumeIDs []string, name string, policy merge.Policy) (model.Resume, merge.Result, error) {
	if strings.TrimSpace(name) == "" {
		return model.Resume{}, merge.Result{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	result, err := s.Merge(ctx, userID, resumeIDs, policy)
	if err != nil {
		return model.Resume{}, merge.Result{}, err
	}
	res, err := s.CreateBase(ctx, userID, CreateBaseInput{
		Name:    name,
		Option:  ImportResume,
		Content: ContentFromMerge(result),
	})
	if err != nil {
		return model.Resume{}, merge.Result{}, err
	}
	return res, result, nil
}

// ContentFromMerge converts a merge result into resume content.
func ContentFromMerge(result merge.Result) *Content {
	return &Content{
		BasicInfo: model.BasicInfo{
			FirstName: result.FirstName,
			LastName:  result.LastName,
			Email:     result.Email,
		},
		WorkExperience: result.WorkExperience,
		Education:      result.Education,
		Skills:         result.Skills,
		Projects:       result.Projects,
	}
}

func (s *Service) checkLimit(ctx context.Context, userID string, kind Kind) error {
	limit := s.Limits.forKind(kind)
	if limit <= 0 {
		return nil
	}
	n, err := s.Repo.Count(ctx, userID, kind)
	if err != nil {
		return err
	}
	if n >= limit {
		return fmt.Errorf("%w: %d %s resumes allowed", ErrLimitReached, limit, kind)
	}
	return nil
}
