package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// ModuleProgress is the completion share of one module.
type ModuleProgress struct {
	ModuleID uuid.UUID `json:"module_id"`
	Title    string    `json:"title"`
	Percent  int       `json:"percent"`
}

// ProgressReport is a student's progress in one course. A student without an
// enrollment gets a zero report with Enrolled unset.
type ProgressReport struct {
	domain.CourseProgress
	Enrolled bool             `json:"enrolled"`
	Modules  []ModuleProgress `json:"modules"`
}

// CourseAccess describes what the acting identity can do with a course.
type CourseAccess struct {
	CanManage           bool                      `json:"can_manage"`
	NeedsStudentProfile bool                      `json:"needs_student_profile"`
	Enrollment          *domain.Enrollment        `json:"enrollment,omitempty"`
	Prerequisites       *domain.PrerequisiteCheck `json:"prerequisites,omitempty"`
	Progress            *domain.CourseProgress    `json:"progress,omitempty"`
}

// CompletionOutcome is the result of marking a lesson complete. A repeated
// completion sets AlreadyCompleted and returns the existing record.
type CompletionOutcome struct {
	Completion       *domain.LessonCompletion `json:"completion"`
	AlreadyCompleted bool                     `json:"already_completed"`
	ModuleCompleted  bool                     `json:"module_completed"`
	CourseCompleted  bool                     `json:"course_completed"`
	NextLesson       *domain.Lesson           `json:"next_lesson,omitempty"`
	Progress         domain.CourseProgress    `json:"progress"`
}

// PrerequisiteParams describes a prerequisite to attach to a course.
type PrerequisiteParams struct {
	RequiredCourseID uuid.UUID
	RequirementType  domain.RequirementType
	MinScore         int
}

// EnrollmentService handles enrollment, lesson completion and prerequisites.
type EnrollmentService interface {
	// Enroll enrolls the acting student. Missing mandatory prerequisites yield
	// a *PrerequisitesNotMetError.
	Enroll(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*domain.Enrollment, error)
	CheckPrerequisites(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (domain.PrerequisiteCheck, error)
	CourseAccess(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*CourseAccess, error)
	CourseProgress(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*ProgressReport, error)

	// CompleteLesson marks an active lesson complete. rawScore is parsed
	// leniently; an unusable score is stored as null.
	CompleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID, rawScore string) (*CompletionOutcome, error)
	// UncompleteLesson removes a completion and reports whether one existed.
	UncompleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (bool, error)

	UpdateEnrollment(
		ctx context.Context,
		actor domain.Identity,
		enrollmentID uuid.UUID,
		status domain.EnrollmentStatus,
		overallScore *int,
	) (*domain.Enrollment, error)

	AddPrerequisite(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p PrerequisiteParams) (*domain.CoursePrerequisite, error)
	RemovePrerequisite(ctx context.Context, actor domain.Identity, courseID, prereqID uuid.UUID) error
	ListPrerequisites(ctx context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error)
}

// EnrollmentStores groups the stores the enrollment service uses.
type EnrollmentStores struct {
	Courses       store.CourseStore
	Modules       store.ModuleStore
	Lessons       store.LessonStore
	Teaching      store.TeachingStore
	Enrollments   store.EnrollmentStore
	Completions   store.CompletionStore
	Prerequisites store.PrerequisiteStore
}

type enrollmentService struct {
	s      EnrollmentStores
	guard  courseGuard
	logger *slog.Logger
}

// NewEnrollmentService creates an EnrollmentService.
func NewEnrollmentService(stores EnrollmentStores, logger *slog.Logger) EnrollmentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &enrollmentService{
		s:      stores,
		guard:  courseGuard{teaching: stores.Teaching},
		logger: logger.With(slog.String("component", "enrollment_service")),
	}
}

func (e *enrollmentService) Enroll(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*domain.Enrollment, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, err
	}

	course, err := e.s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, NewServiceError("enrollment", "enroll", err)
	}
	if !course.IsActive {
		return nil, ErrCourseNotOpen
	}

	check, err := e.checkPrerequisites(ctx, student.ID, courseID)
	if err != nil {
		return nil, NewServiceError("enrollment", "enroll", err)
	}
	if !check.CanEnroll {
		return nil, &PrerequisitesNotMetError{Check: check}
	}

	enrollment := domain.NewEnrollment(student.ID, courseID)
	if err := e.s.Enrollments.Create(ctx, enrollment); err != nil {
		return nil, NewServiceError("enrollment", "enroll", err)
	}

	logger.FromContextOrDefault(ctx, e.logger).Info("student enrolled",
		slog.String("student_id", student.ID.String()),
		slog.String("course_id", courseID.String()))
	return enrollment, nil
}

func (e *enrollmentService) CheckPrerequisites(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
) (domain.PrerequisiteCheck, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return domain.PrerequisiteCheck{}, err
	}
	check, err := e.checkPrerequisites(ctx, student.ID, courseID)
	return check, NewServiceError("enrollment", "check_prerequisites", err)
}

func (e *enrollmentService) checkPrerequisites(ctx context.Context, studentID, courseID uuid.UUID) (domain.PrerequisiteCheck, error) {
	prereqs, err := e.s.Prerequisites.ListByCourse(ctx, courseID)
	if err != nil {
		return domain.PrerequisiteCheck{}, err
	}
	if len(prereqs) == 0 {
		return domain.EvaluatePrerequisites(nil, nil), nil
	}

	enrollments, err := e.s.Enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return domain.PrerequisiteCheck{}, err
	}
	byCourse := make(map[uuid.UUID]domain.Enrollment, len(enrollments))
	for _, en := range enrollments {
		byCourse[en.CourseID] = en
	}
	return domain.EvaluatePrerequisites(prereqs, byCourse), nil
}

func (e *enrollmentService) CourseAccess(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*CourseAccess, error) {
	access := &CourseAccess{CanManage: e.guard.authorize(ctx, actor, courseID) == nil}

	student, err := actor.ActingStudent()
	if err != nil {
		access.NeedsStudentProfile = !access.CanManage
		return access, nil
	}

	enrollment, err := e.s.Enrollments.Get(ctx, student.ID, courseID)
	switch {
	case err == nil:
		access.Enrollment = enrollment
		report, err := e.progress(ctx, enrollment)
		if err != nil {
			return nil, NewServiceError("enrollment", "course_access", err)
		}
		access.Progress = &report.CourseProgress
	case errors.Is(err, store.ErrEnrollmentNotFound):
		check, err := e.checkPrerequisites(ctx, student.ID, courseID)
		if err != nil {
			return nil, NewServiceError("enrollment", "course_access", err)
		}
		access.Prerequisites = &check
	default:
		return nil, NewServiceError("enrollment", "course_access", err)
	}
	return access, nil
}

func (e *enrollmentService) CourseProgress(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*ProgressReport, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, err
	}

	enrollment, err := e.s.Enrollments.Get(ctx, student.ID, courseID)
	if errors.Is(err, store.ErrEnrollmentNotFound) {
		return &ProgressReport{Modules: []ModuleProgress{}}, nil
	}
	if err != nil {
		return nil, NewServiceError("enrollment", "course_progress", err)
	}

	report, err := e.progress(ctx, enrollment)
	if err != nil {
		return nil, NewServiceError("enrollment", "course_progress", err)
	}
	return report, nil
}

// progress computes course and per-module progress for one enrollment.
func (e *enrollmentService) progress(ctx context.Context, enrollment *domain.Enrollment) (*ProgressReport, error) {
	modules, err := e.s.Modules.ListByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	lessons, err := e.s.Lessons.ListByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	completions, err := e.s.Completions.ListByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, err
	}
	return buildProgressReport(modules, lessons, completions), nil
}

func buildProgressReport(modules []domain.Module, lessons []domain.Lesson, completions []domain.LessonCompletion) *ProgressReport {
	byModule := make(map[uuid.UUID][]domain.Lesson, len(modules))
	for _, l := range lessons {
		byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
	}

	report := &ProgressReport{
		CourseProgress: domain.ComputeCourseProgress(lessons, completions),
		Enrolled:       true,
		Modules:        make([]ModuleProgress, 0, len(modules)),
	}
	for _, m := range modules {
		if !m.IsActive {
			continue
		}
		report.Modules = append(report.Modules, ModuleProgress{
			ModuleID: m.ID,
			Title:    m.Title,
			Percent:  domain.ComputeModuleProgress(byModule[m.ID], completions),
		})
	}
	return report
}

func (e *enrollmentService) CompleteLesson(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
	rawScore string,
) (*CompletionOutcome, error) {
	lesson, enrollment, err := e.lessonEnrollment(ctx, actor, lessonID)
	if err != nil {
		return nil, err
	}
	if !lesson.IsActive {
		return nil, ErrLessonNotActive
	}

	outcome := &CompletionOutcome{}
	completion := domain.NewLessonCompletion(enrollment.ID, lesson.ID, domain.ParseCompletionScore(rawScore, lesson))
	err = e.s.Completions.Create(ctx, completion)
	switch {
	case err == nil:
		outcome.Completion = completion
	case errors.Is(err, store.ErrAlreadyCompleted):
		outcome.AlreadyCompleted = true
	default:
		return nil, NewServiceError("enrollment", "complete_lesson", err)
	}

	lessons, err := e.s.Lessons.ListByCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, NewServiceError("enrollment", "complete_lesson", err)
	}
	completions, err := e.s.Completions.ListByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, NewServiceError("enrollment", "complete_lesson", err)
	}

	var moduleLessons []domain.Lesson
	for _, l := range lessons {
		if l.ModuleID == lesson.ModuleID {
			moduleLessons = append(moduleLessons, l)
		}
	}
	if outcome.AlreadyCompleted {
		for i := range completions {
			if completions[i].LessonID == lesson.ID {
				outcome.Completion = &completions[i]
				break
			}
		}
	}

	outcome.Progress = domain.ComputeCourseProgress(lessons, completions)
	outcome.CourseCompleted = outcome.Progress.IsCompleted
	outcome.ModuleCompleted = domain.ComputeModuleProgress(moduleLessons, completions) == 100
	outcome.NextLesson = domain.NextActiveLesson(moduleLessons, lesson.LessonOrder)

	if !outcome.AlreadyCompleted {
		logger.FromContextOrDefault(ctx, e.logger).Info("lesson completed",
			slog.String("enrollment_id", enrollment.ID.String()),
			slog.String("lesson_id", lesson.ID.String()),
			slog.Bool("course_completed", outcome.CourseCompleted))
	}
	return outcome, nil
}

func (e *enrollmentService) UncompleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (bool, error) {
	_, enrollment, err := e.lessonEnrollment(ctx, actor, lessonID)
	if err != nil {
		return false, err
	}
	deleted, err := e.s.Completions.Delete(ctx, enrollment.ID, lessonID)
	return deleted, NewServiceError("enrollment", "uncomplete_lesson", err)
}

// lessonEnrollment loads a lesson and the acting student's enrollment in the
// lesson's course.
func (e *enrollmentService) lessonEnrollment(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
) (*domain.Lesson, *domain.Enrollment, error) {
	student, err := actor.ActingStudent()
	if err != nil {
		return nil, nil, err
	}

	lesson, err := e.s.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, nil, NewServiceError("enrollment", "load_lesson", err)
	}
	module, err := e.s.Modules.GetByID(ctx, lesson.ModuleID)
	if err != nil {
		return nil, nil, NewServiceError("enrollment", "load_lesson", err)
	}

	enrollment, err := e.s.Enrollments.Get(ctx, student.ID, module.CourseID)
	if errors.Is(err, store.ErrEnrollmentNotFound) {
		return nil, nil, ErrNotEnrolled
	}
	if err != nil {
		return nil, nil, NewServiceError("enrollment", "load_enrollment", err)
	}
	return lesson, enrollment, nil
}

func (e *enrollmentService) UpdateEnrollment(
	ctx context.Context,
	actor domain.Identity,
	enrollmentID uuid.UUID,
	status domain.EnrollmentStatus,
	overallScore *int,
) (*domain.Enrollment, error) {
	enrollment, err := e.s.Enrollments.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, NewServiceError("enrollment", "update", err)
	}
	if err := e.guard.authorize(ctx, actor, enrollment.CourseID); err != nil {
		return nil, err
	}

	if err := enrollment.Update(status, overallScore); err != nil {
		return nil, err
	}
	if err := e.s.Enrollments.Update(ctx, enrollment); err != nil {
		return nil, NewServiceError("enrollment", "update", err)
	}

	logger.FromContextOrDefault(ctx, e.logger).Info("enrollment updated",
		slog.String("enrollment_id", enrollment.ID.String()),
		slog.String("status", string(enrollment.Status)))
	return enrollment, nil
}

func (e *enrollmentService) AddPrerequisite(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
	p PrerequisiteParams,
) (*domain.CoursePrerequisite, error) {
	if err := e.guard.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}

	prereq, err := domain.NewCoursePrerequisite(courseID, p.RequiredCourseID, p.RequirementType, p.MinScore)
	if err != nil {
		return nil, err
	}

	required, err := e.s.Courses.GetByID(ctx, p.RequiredCourseID)
	if err != nil {
		return nil, NewServiceError("enrollment", "add_prerequisite", err)
	}
	prereq.RequiredCourseTitle = required.Title

	if err := e.s.Prerequisites.Create(ctx, prereq); err != nil {
		return nil, NewServiceError("enrollment", "add_prerequisite", err)
	}
	return prereq, nil
}

func (e *enrollmentService) RemovePrerequisite(ctx context.Context, actor domain.Identity, courseID, prereqID uuid.UUID) error {
	if err := e.guard.authorize(ctx, actor, courseID); err != nil {
		return err
	}
	return NewServiceError("enrollment", "remove_prerequisite", e.s.Prerequisites.Delete(ctx, courseID, prereqID))
}

func (e *enrollmentService) ListPrerequisites(ctx context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error) {
	prereqs, err := e.s.Prerequisites.ListByCourse(ctx, courseID)
	return prereqs, NewServiceError("enrollment", "list_prerequisites", err)
}
