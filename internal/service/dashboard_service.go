package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// Dashboard limits.
const (
	RecentCompletionLimit = 10
	RecentSubmissionLimit = 5

	// dashboardConcurrency bounds the parallel progress reads of one dashboard.
	dashboardConcurrency = 4
)

// EnrollmentSummary is one enrollment as listed on the student dashboard.
type EnrollmentSummary struct {
	Enrollment domain.Enrollment     `json:"enrollment"`
	Course     domain.Course         `json:"course"`
	Progress   domain.CourseProgress `json:"progress"`
}

// StudentDashboard lists a student's active and completed enrollments.
type StudentDashboard struct {
	Student   *domain.Student     `json:"student"`
	Active    []EnrollmentSummary `json:"active_enrollments"`
	Completed []EnrollmentSummary `json:"completed_enrollments"`
}

// StudentStats aggregates a student's learning activity.
type StudentStats struct {
	TotalCourses      int                      `json:"total_courses"`
	CompletedCourses  int                      `json:"completed_courses"`
	LessonsCompleted  int                      `json:"lessons_completed"`
	TotalScore        int                      `json:"total_score"`
	MaxScore          int                      `json:"max_score"`
	RecentCompletions []store.CompletionRecord `json:"recent_completions"`
}

// ReviewerDashboard summarizes a reviewer's workload. An unapproved reviewer
// gets Approved unset, a notice and no data.
type ReviewerDashboard struct {
	Reviewer      *domain.Reviewer          `json:"reviewer"`
	Approved      bool                      `json:"approved"`
	Notice        string                    `json:"notice,omitempty"`
	Pending       int                       `json:"pending"`
	Total         int                       `json:"total"`
	RecentPending []store.SubmissionSummary `json:"recent_pending,omitempty"`
	Courses       []store.CourseReviewStats `json:"courses,omitempty"`
}

// DashboardService assembles the student and reviewer dashboards.
type DashboardService interface {
	StudentDashboard(ctx context.Context, actor domain.Identity) (*StudentDashboard, error)
	StudentStats(ctx context.Context, actor domain.Identity) (*StudentStats, error)
	ReviewerDashboard(ctx context.Context, actor domain.Identity) (*ReviewerDashboard, error)
}

// DashboardStores groups the stores the dashboards read.
type DashboardStores struct {
	Courses     store.CourseStore
	Modules     store.ModuleStore
	Lessons     store.LessonStore
	Teaching    store.TeachingStore
	Enrollments store.EnrollmentStore
	Completions store.CompletionStore
	Homework    store.HomeworkStore
}

type dashboardService struct {
	s      DashboardStores
	logger *slog.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(stores DashboardStores, logger *slog.Logger) DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &dashboardService{
		s:      stores,
		logger: logger.With(slog.String("component", "dashboard_service")),
	}
}

func (d *dashboardService) StudentDashboard(ctx context.Context, actor domain.Identity) (*StudentDashboard, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, err
	}

	summaries, err := d.summaries(ctx, student.ID)
	if err != nil {
		return nil, NewServiceError("dashboard", "student", err)
	}

	dash := &StudentDashboard{
		Student:   student,
		Active:    []EnrollmentSummary{},
		Completed: []EnrollmentSummary{},
	}
	for _, s := range summaries {
		switch s.Enrollment.Status {
		case domain.EnrollmentActive:
			dash.Active = append(dash.Active, s)
		case domain.EnrollmentCompleted:
			dash.Completed = append(dash.Completed, s)
		}
	}
	return dash, nil
}

func (d *dashboardService) StudentStats(ctx context.Context, actor domain.Identity) (*StudentStats, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, err
	}

	var (
		summaries []EnrollmentSummary
		recent    []store.CompletionRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summaries, err = d.summaries(gctx, student.ID)
		return err
	})
	g.Go(func() error {
		var err error
		recent, err = d.s.Completions.ListRecentByStudent(gctx, student.ID, RecentCompletionLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewServiceError("dashboard", "student_stats", err)
	}

	stats := &StudentStats{TotalCourses: len(summaries), RecentCompletions: recent}
	if stats.RecentCompletions == nil {
		stats.RecentCompletions = []store.CompletionRecord{}
	}
	for _, s := range summaries {
		if s.Progress.IsCompleted {
			stats.CompletedCourses++
		}
		stats.LessonsCompleted += s.Progress.CompletedLessons
		stats.TotalScore += s.Progress.UserScore
		stats.MaxScore += s.Progress.MaxPossibleScore
	}
	return stats, nil
}

// summaries loads every enrollment of a student with its course and progress.
func (d *dashboardService) summaries(ctx context.Context, studentID uuid.UUID) ([]EnrollmentSummary, error) {
	enrollments, err := d.s.Enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.CourseID
	}
	courses, err := d.s.Courses.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	summaries := make([]EnrollmentSummary, len(enrollments))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for i, e := range enrollments {
		i, e := i, e
		g.Go(func() error {
			progress, err := d.progress(gctx, e)
			if err != nil {
				return err
			}
			summaries[i] = EnrollmentSummary{Enrollment: e, Course: byID[e.CourseID], Progress: progress}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (d *dashboardService) progress(ctx context.Context, e domain.Enrollment) (domain.CourseProgress, error) {
	lessons, err := d.s.Lessons.ListByCourse(ctx, e.CourseID)
	if err != nil {
		return domain.CourseProgress{}, err
	}
	completions, err := d.s.Completions.ListByEnrollment(ctx, e.ID)
	if err != nil {
		return domain.CourseProgress{}, err
	}
	return domain.ComputeCourseProgress(lessons, completions), nil
}

func (d *dashboardService) ReviewerDashboard(ctx context.Context, actor domain.Identity) (*ReviewerDashboard, error) {
	if !actor.IsReviewer() {
		return nil, domain.ErrReviewerProfileRequired
	}
	reviewer := actor.Reviewer

	dash := &ReviewerDashboard{Reviewer: reviewer, Approved: reviewer.IsApproved}
	if !reviewer.IsApproved {
		dash.Notice = domain.NoticeReviewerPending
		return dash, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		dash.Pending, err = d.s.Homework.CountUnderReview(gctx, reviewer.ID)
		return err
	})
	g.Go(func() error {
		var err error
		dash.Total, err = d.s.Homework.CountByReviewer(gctx, reviewer.ID)
		return err
	})
	g.Go(func() error {
		var err error
		dash.RecentPending, err = d.s.Homework.ListRecentUnderReview(gctx, reviewer.ID, RecentSubmissionLimit)
		return err
	})
	g.Go(func() error {
		courseIDs, err := d.s.Teaching.ListCourseIDs(gctx, reviewer.ID)
		if err != nil || len(courseIDs) == 0 {
			return err
		}
		dash.Courses, err = d.s.Homework.CourseStats(gctx, reviewer.ID, courseIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, NewServiceError("dashboard", "reviewer", err)
	}
	return dash, nil
}
