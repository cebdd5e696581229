package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	googleauth "resume-builder/internal/auth"
	"resume-builder/internal/imports"
	"resume-builder/internal/jobs"
	"resume-builder/internal/llm"
	openai "resume-builder/internal/llm/openai"
	"resume-builder/internal/profiles"
	"resume-builder/internal/queue"
	"resume-builder/internal/resumes"
	"resume-builder/internal/services/health"
	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/server"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/storage/db"
	"resume-builder/internal/shared/storage/object"
	localstore "resume-builder/internal/shared/storage/object/local"
	s3store "resume-builder/internal/shared/storage/object/s3"
	"resume-builder/internal/tools"
	"resume-builder/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	DB              *sql.DB
	Store           object.ObjectStore
	LLM             llm.Client
	Queue           queue.Client
	ProfilesService *profiles.Service
	JobsService     *jobs.Service
	ResumesService  *resumes.Service
	ImportsService  *imports.Service
	UsersService    *users.Service
	GoogleAuth      *googleauth.GoogleService
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	importQueue, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		LLM:    client,
		Queue:  importQueue,
	}
	deps := buildServices(app)
	app.Router = server.NewRouter(deps)
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	// Deployed environments migrate through cmd/migrate.
	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.LLMProvider)) {
	case "openai":
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel)
		if err != nil {
			return nil, err
		}
		return llm.WithRetry(client), nil
	default:
		log.Printf("bootstrap: LLM_PROVIDER=%q; imports and suggestions are disabled", cfg.LLMProvider)
		return llm.PlaceholderClient{}, nil
	}
}

// buildQueue returns nil when no queue is configured; imports then run inline.
func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if cfg.ImportQueueURL == "" {
		return nil, nil
	}
	client, err := queue.NewSQSClient(ctx, cfg.ImportQueueURL, cfg.AWSRegion)
	if err != nil {
		return nil, fmt.Errorf("build import queue: %w", err)
	}
	return client, nil
}

func buildServices(app *App) server.RouterDeps {
	var (
		profileRepo profiles.Repo
		jobRepo     jobs.Repo
		resumeRepo  resumes.Repo
		userRepo    users.Repo
		importRepo  imports.Repo
	)
	if app.DB != nil {
		profileRepo = &profiles.PGRepo{DB: app.DB}
		jobRepo = &jobs.PGRepo{DB: app.DB}
		resumeRepo = &resumes.PGRepo{DB: app.DB}
		userRepo = &users.PGRepo{DB: app.DB}
		importRepo = &imports.PGRepo{DB: app.DB}
	} else {
		profileRepo = profiles.NewMemoryRepo()
		jobRepo = jobs.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		importRepo = imports.NewMemoryRepo()
	}

	profileSvc := profiles.NewService(profileRepo)
	jobSvc := jobs.NewService(jobRepo)
	resumeSvc := resumes.NewService(resumeRepo, profileSvc, jobSvc, resumes.Limits{
		MaxBase:     app.Config.MaxBaseResumes,
		MaxTailored: app.Config.MaxTailoredResumes,
	})
	importSvc := imports.NewService(app.Store, app.LLM, resumeSvc, importRepo)
	if app.Queue != nil {
		importSvc.Queue = app.Queue
	}
	userSvc := users.NewService(userRepo)
	googleAuthSvc := googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		userSvc,
	)

	app.ProfilesService = profileSvc
	app.JobsService = jobSvc
	app.ResumesService = resumeSvc
	app.ImportsService = importSvc
	app.UsersService = userSvc
	app.GoogleAuth = googleAuthSvc

	var pinger health.Pinger
	if app.DB != nil {
		pinger = app.DB
	}
	return server.RouterDeps{
		Config:         app.Config,
		Health:         health.NewService(pinger),
		ResumeHandler:  resumes.NewHandler(resumeSvc),
		ProfileHandler: profiles.NewHandler(profileSvc),
		JobHandler:     jobs.NewHandler(jobSvc),
		ToolHandler:    tools.NewHandler(resumeSvc, app.LLM),
		ImportHandler:  imports.NewHandler(importSvc),
		UserHandler:    users.NewHandler(userSvc),
		GoogleAuth:     googleAuthSvc,
		RateLimiter:    middleware.NewRateLimiter(nil),
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
