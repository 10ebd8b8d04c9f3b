package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lms-api/internal/config"
	"github.com/phrazzld/lms-api/internal/platform/postgres"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/service/auth"
	"github.com/phrazzld/lms-api/internal/store"
)

// appStores holds the Postgres-backed stores shared by the services.
type appStores struct {
	accounts      store.AccountStore
	profiles      store.ProfileStore
	courses       store.CourseStore
	modules       store.ModuleStore
	lessons       store.LessonStore
	teaching      store.TeachingStore
	enrollments   store.EnrollmentStore
	completions   store.CompletionStore
	prerequisites store.PrerequisiteStore
	homework      store.HomeworkStore
	tags          store.TagStore
}

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	stores appStores

	jwtService  auth.JWTService
	identities  service.IdentityService
	catalog     service.CatalogService
	enrollments service.EnrollmentService
	homework    service.HomeworkService
	tags        service.TagService
	dashboards  service.DashboardService
}

// newApplication wires stores and services on top of an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.stores = newAppStores(db, logger)
	tx := store.NewDBTransactor(db)
	s := app.stores

	app.identities = service.NewIdentityService(
		tx,
		s.accounts,
		s.profiles,
		auth.NewBcryptHasher(cfg.Auth.BCryptCost),
		logger,
	)
	app.catalog = service.NewCatalogService(tx, service.CatalogStores{
		Courses:     s.courses,
		Modules:     s.modules,
		Lessons:     s.lessons,
		Tags:        s.tags,
		Teaching:    s.teaching,
		Enrollments: s.enrollments,
		Completions: s.completions,
		Homework:    s.homework,
	}, logger)
	app.enrollments = service.NewEnrollmentService(service.EnrollmentStores{
		Courses:       s.courses,
		Modules:       s.modules,
		Lessons:       s.lessons,
		Teaching:      s.teaching,
		Enrollments:   s.enrollments,
		Completions:   s.completions,
		Prerequisites: s.prerequisites,
	}, logger)
	app.homework = service.NewHomeworkService(service.HomeworkStores{
		Modules:     s.modules,
		Lessons:     s.lessons,
		Teaching:    s.teaching,
		Enrollments: s.enrollments,
		Homework:    s.homework,
	}, logger)
	app.tags = service.NewTagService(s.tags, s.courses, logger)
	app.dashboards = service.NewDashboardService(service.DashboardStores{
		Courses:     s.courses,
		Modules:     s.modules,
		Lessons:     s.lessons,
		Teaching:    s.teaching,
		Enrollments: s.enrollments,
		Completions: s.completions,
		Homework:    s.homework,
	}, logger)

	logger.Info("Application initialized successfully")
	return app, nil
}

func newAppStores(db *sql.DB, logger *slog.Logger) appStores {
	return appStores{
		accounts:      postgres.NewPostgresAccountStore(db, logger),
		profiles:      postgres.NewPostgresProfileStore(db, logger),
		courses:       postgres.NewPostgresCourseStore(db, logger),
		modules:       postgres.NewPostgresModuleStore(db, logger),
		lessons:       postgres.NewPostgresLessonStore(db, logger),
		teaching:      postgres.NewPostgresTeachingStore(db, logger),
		enrollments:   postgres.NewPostgresEnrollmentStore(db, logger),
		completions:   postgres.NewPostgresCompletionStore(db, logger),
		prerequisites: postgres.NewPostgresPrerequisiteStore(db, logger),
		homework:      postgres.NewPostgresHomeworkStore(db, logger),
		tags:          postgres.NewPostgresTagStore(db, logger),
	}
}

// Run starts the HTTP server and blocks until it shuts down.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// seedTags inserts the default tag set.
func (app *application) seedTags(ctx context.Context) error {
	created, err := app.tags.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("failed to seed tags: %w", err)
	}
	app.logger.Info("Default tags seeded", "created", created)
	return nil
}

// recountTags recomputes every tag's course count.
func (app *application) recountTags(ctx context.Context) error {
	if err := app.tags.RecomputeCounts(ctx); err != nil {
		return fmt.Errorf("failed to recount tags: %w", err)
	}
	app.logger.Info("Tag course counts recomputed")
	return nil
}

// cleanup releases application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}
	app.logger.Info("Application shutdown completed")
}
