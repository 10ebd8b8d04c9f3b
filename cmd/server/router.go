package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/lms-api/internal/api"
	apiMiddleware "github.com/phrazzld/lms-api/internal/api/middleware"
)

// healthCheckTimeout bounds the dependency probe behind /health.
const healthCheckTimeout = 2 * time.Second

// routeHandlers groups everything registerRoutes mounts.
type routeHandlers struct {
	auth        *api.AuthHandler
	courses     *api.CourseHandler
	enrollments *api.EnrollmentHandler
	homework    *api.HomeworkHandler
	tags        *api.TagHandler
	dashboards  *api.DashboardHandler
	authMW      *apiMiddleware.AuthMiddleware
}

// setupRouter builds the handlers from the application services and returns
// the configured router.
func (app *application) setupRouter() http.Handler {
	h := routeHandlers{
		auth:        api.NewAuthHandler(app.identities, app.jwtService, &app.config.Auth, app.logger),
		courses:     api.NewCourseHandler(app.catalog, app.enrollments, app.logger),
		enrollments: api.NewEnrollmentHandler(app.enrollments, app.logger),
		homework:    api.NewHomeworkHandler(app.homework, app.logger),
		tags:        api.NewTagHandler(app.tags, app.logger),
		dashboards:  api.NewDashboardHandler(app.dashboards, app.logger),
		authMW:      apiMiddleware.NewAuthMiddleware(app.jwtService, app.identities),
	}
	return newRouter(h, app.logger, app.db.PingContext)
}

// newRouter applies the standard middleware, mounts the API under /api and
// adds the health endpoint. ping reports whether dependencies are reachable.
func newRouter(h routeHandlers, logger *slog.Logger, ping func(context.Context) error) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		registerRoutes(r, h)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		status, body := http.StatusOK, "OK"
		if ping != nil {
			if err := ping(ctx); err != nil {
				logger.Error("Health check failed", "error", err)
				status, body = http.StatusServiceUnavailable, "UNAVAILABLE"
			}
		}
		w.WriteHeader(status)
		if _, err := w.Write([]byte(body)); err != nil {
			logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// registerRoutes mounts every API endpoint. Catalog reads accept anonymous
// callers; everything else requires a token.
func registerRoutes(r chi.Router, h routeHandlers) {
	r.Post("/auth/register", h.auth.Register)
	r.Post("/auth/login", h.auth.Login)
	r.Post("/auth/refresh", h.auth.RefreshToken)

	// Public reads, personalised when a token is present
	r.Group(func(r chi.Router) {
		r.Use(h.authMW.Optional)

		r.Get("/courses", h.courses.ListCourses)
		r.Get("/courses/{id}", h.courses.GetCourse)
		r.Get("/courses/{id}/prerequisites", h.enrollments.Prerequisites)

		r.Get("/tags", h.tags.ListTags)
		r.Get("/tags/cloud", h.tags.TagCloud)
		r.Get("/tags/{slug}/courses", h.tags.CoursesByTag)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authMW.Authenticate)

		r.Get("/me", h.auth.Me)
		r.Post("/reviewers/{id}/approve", h.auth.ApproveReviewer)

		r.Post("/courses", h.courses.CreateCourse)
		r.Put("/courses/{id}", h.courses.UpdateCourse)
		r.Delete("/courses/{id}", h.courses.DeleteCourse)
		r.Post("/courses/{id}/modules", h.courses.CreateModule)
		r.Post("/courses/{id}/prerequisites", h.enrollments.AddPrerequisite)
		r.Delete("/courses/{id}/prerequisites/{reqID}", h.enrollments.RemovePrerequisite)
		r.Post("/courses/{id}/enroll", h.enrollments.Enroll)
		r.Get("/courses/{id}/progress", h.enrollments.Progress)

		r.Put("/modules/{id}", h.courses.UpdateModule)
		r.Delete("/modules/{id}", h.courses.DeleteModule)
		r.Post("/modules/{id}/lessons", h.courses.CreateLesson)

		r.Get("/lessons/{id}", h.courses.GetLesson)
		r.Put("/lessons/{id}", h.courses.UpdateLesson)
		r.Delete("/lessons/{id}", h.courses.DeleteLesson)
		r.Post("/lessons/{id}/complete", h.enrollments.CompleteLesson)
		r.Delete("/lessons/{id}/complete", h.enrollments.UncompleteLesson)
		r.Get("/lessons/{id}/homework", h.homework.ListHomework)
		r.Post("/lessons/{id}/homework", h.homework.CreateHomework)

		r.Post("/homework/{id}/submissions", h.homework.Submit)
		r.Post("/submissions/{id}/claim", h.homework.Claim)
		r.Post("/submissions/{id}/review", h.homework.Review)
		r.Post("/submissions/{id}/resubmit", h.homework.Resubmit)

		r.Patch("/enrollments/{id}", h.enrollments.UpdateEnrollment)

		r.Post("/tags", h.tags.CreateTag)
		r.Put("/tags/{id}", h.tags.UpdateTag)
		r.Delete("/tags/{id}", h.tags.DeleteTag)

		r.Get("/dashboard/student", h.dashboards.Student)
		r.Get("/dashboard/student/stats", h.dashboards.StudentStats)
		r.Get("/dashboard/reviewer", h.dashboards.Reviewer)
	})
}
