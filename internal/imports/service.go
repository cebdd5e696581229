package imports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-builder/internal/llm"
	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/storage/object"
	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/model"
)

const maxUploadSize = 10 << 20 // 10MB

// ResumeCreator stores the imported resume.
type ResumeCreator interface {
	CreateBase(ctx context.Context, userID string, in resumes.CreateBaseInput) (model.Resume, error)
}

// Service turns uploaded resume files into base resumes. With a Queue the structuring step
// runs in a worker through Process; without one it runs inline.
type Service struct {
	Store   object.ObjectStore
	LLM     llm.Client
	Resumes ResumeCreator
	Repo    Repo
	Queue   queue.Client
	Now     func() time.Time
}

// NewService constructs a synchronous Service.
func NewService(store object.ObjectStore, client llm.Client, creator ResumeCreator, repo Repo) *Service {
	return &Service{Store: store, LLM: client, Resumes: creator, Repo: repo}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Upload is one uploaded file.
type Upload struct {
	UserID    string
	Name      string
	FileName  string
	RequestID string
	Body      io.Reader
}

// Result is the import record and, once structuring finished, the created resume.
type Result struct {
	Import Import        `json:"import"`
	Resume *model.Resume `json:"resume,omitempty"`
}

// Import stores the upload and either structures it now or queues it.
func (s *Service) Import(ctx context.Context, in Upload) (Result, error) {
	if s == nil || s.Store == nil || s.Resumes == nil {
		return Result{}, errors.New("imports service not configured")
	}
	if s.Queue != nil && s.Repo == nil {
		return Result{}, errors.New("queued imports require a repository")
	}
	fileName := strings.TrimSpace(in.FileName)
	if fileName == "" {
		return Result{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if in.Body == nil {
		return Result{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}

	data, err := readUpload(in.Body)
	if err != nil {
		return Result{}, err
	}

	info, err := s.Store.Save(ctx, in.UserID, fileName, bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("store upload: %w", err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName))
	}
	now := s.now()
	imp := Import{
		ID:        uuid.NewString(),
		UserID:    in.UserID,
		Name:      name,
		FileName:  fileName,
		SourceKey: info.Key,
		MimeType:  info.MimeType,
		SizeBytes: info.Size,
		Status:    StatusProcessing,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if s.Queue != nil {
		imp.Status = StatusQueued
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, imp); err != nil {
			return Result{}, fmt.Errorf("record import: %w", err)
		}
	}

	if s.Queue != nil {
		err := s.Queue.Send(ctx, queue.Message{
			ImportID:   imp.ID,
			RequestID:  in.RequestID,
			EnqueuedAt: now.Format(time.RFC3339),
			Version:    queue.MessageVersion,
		})
		if err != nil {
			s.fail(ctx, &imp, err)
			return Result{}, fmt.Errorf("enqueue import: %w", err)
		}
		telemetry.Info("import.queued", map[string]any{
			"user_id":    imp.UserID,
			"import_id":  imp.ID,
			"request_id": in.RequestID,
			"mime_type":  imp.MimeType,
		})
		return Result{Import: imp}, nil
	}

	res, err := s.structure(ctx, &imp, data)
	if err != nil {
		s.fail(ctx, &imp, err)
		return Result{}, err
	}
	return Result{Import: imp, Resume: &res}, nil
}

// Get returns the caller's import.
func (s *Service) Get(ctx context.Context, userID, importID string) (Import, error) {
	if s == nil || s.Repo == nil {
		return Import{}, ErrNotFound
	}
	if strings.TrimSpace(importID) == "" {
		return Import{}, fmt.Errorf("%w: import id is required", ErrInvalidInput)
	}
	return s.Repo.Get(ctx, userID, importID)
}

// ProcessImport structures a queued import. Imports that already finished are skipped so
// redelivered messages are harmless. Failures that a retry cannot fix are recorded on the
// import and reported as success; anything else is returned for redelivery.
func (s *Service) ProcessImport(ctx context.Context, importID string) error {
	if s == nil || s.Repo == nil || s.Store == nil || s.Resumes == nil {
		return errors.New("imports service not configured")
	}
	imp, err := s.Repo.GetByID(ctx, importID)
	if err != nil {
		return err
	}
	if imp.Done() {
		telemetry.Info("import.skipped", map[string]any{"import_id": imp.ID, "status": imp.Status})
		return nil
	}

	imp.Status = StatusProcessing
	imp.UpdatedAt = s.now()
	if err := s.Repo.Update(ctx, imp); err != nil {
		return err
	}

	data, err := s.load(ctx, imp.SourceKey)
	if err == nil {
		_, err = s.structure(ctx, &imp, data)
	}
	if err == nil {
		return nil
	}
	if permanent(err) {
		s.fail(ctx, &imp, err)
		return nil
	}

	imp.Status = StatusQueued
	imp.UpdatedAt = s.now()
	if updateErr := s.Repo.Update(ctx, imp); updateErr != nil {
		telemetry.Warn("import.requeue_update_failed", map[string]any{"import_id": imp.ID, "error": updateErr})
	}
	return err
}

func (s *Service) load(ctx context.Context, key string) ([]byte, error) {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close()
	return readUpload(rc)
}

// structure extracts text, asks the LLM for resume JSON and creates the base resume.
// On success imp is marked completed.
func (s *Service) structure(ctx context.Context, imp *Import, data []byte) (model.Resume, error) {
	text, err := ExtractText(ctx, data, imp.MimeType, imp.FileName)
	if err != nil {
		return model.Resume{}, err
	}
	if text == "" {
		return model.Resume{}, fmt.Errorf("%w: no text found in %s", ErrInvalidInput, imp.FileName)
	}
	if _, err := s.Store.Put(ctx, imp.SourceKey+".extracted.txt", "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
		telemetry.Warn("import.extracted_save_failed", map[string]any{
			"import_id": imp.ID,
			"key":       imp.SourceKey,
			"error":     err,
		})
	}

	var content resumes.Content
	if err := llm.CompleteJSON(ctx, s.LLM, llm.ImportResumePrompt(text), &content); err != nil {
		return model.Resume{}, fmt.Errorf("structure resume: %w", err)
	}

	res, err := s.Resumes.CreateBase(ctx, imp.UserID, resumes.CreateBaseInput{
		Name:    imp.Name,
		Option:  resumes.ImportResume,
		Content: &content,
	})
	if err != nil {
		return model.Resume{}, err
	}

	imp.Status = StatusCompleted
	imp.ResumeID = res.ID
	imp.Error = ""
	imp.UpdatedAt = s.now()
	if s.Repo != nil {
		if err := s.Repo.Update(ctx, *imp); err != nil {
			telemetry.Warn("import.update_failed", map[string]any{"import_id": imp.ID, "error": err})
		}
	}

	metrics.IncImports()
	telemetry.Info("import.completed", map[string]any{
		"user_id":         imp.UserID,
		"import_id":       imp.ID,
		"resume_id":       res.ID,
		"mime_type":       imp.MimeType,
		"size_bytes":      imp.SizeBytes,
		"text_chars":      len(text),
		"work_experience": len(res.WorkExperience),
	})
	return res, nil
}

func (s *Service) fail(ctx context.Context, imp *Import, cause error) {
	imp.Status = StatusFailed
	imp.Error = cause.Error()
	imp.UpdatedAt = s.now()
	telemetry.Warn("import.failed", map[string]any{
		"user_id":   imp.UserID,
		"import_id": imp.ID,
		"error":     cause,
	})
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Update(ctx, *imp); err != nil {
		telemetry.Warn("import.update_failed", map[string]any{"import_id": imp.ID, "error": err})
	}
}

// permanent reports whether retrying the import cannot change the outcome.
func permanent(err error) bool {
	for _, target := range []error{
		ErrInvalidInput,
		ErrUnsupportedType,
		llm.ErrInvalidJSON,
		llm.ErrNotImplemented,
		resumes.ErrInvalidInput,
		resumes.ErrLimitReached,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func readUpload(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if len(data) > maxUploadSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, maxUploadSize)
	}
	return data, nil
}
