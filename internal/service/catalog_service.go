package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/platform/logger"
	"github.com/phrazzld/lms-api/internal/store"
)

// ModuleParams holds the editable attributes of a module.
type ModuleParams struct {
	Title       string
	Description string
	ModuleOrder int
	IsActive    bool
}

// CourseDetail is a course with its content tree and statistics.
type CourseDetail struct {
	Course  *domain.Course     `json:"course"`
	Modules []domain.Module    `json:"modules"`
	Stats   domain.CourseStats `json:"stats"`
}

// LessonView is a lesson placed in its module, as shown to a learner.
type LessonView struct {
	Lesson        *domain.Lesson           `json:"lesson"`
	CourseID      uuid.UUID                `json:"course_id"`
	Navigation    domain.LessonNavigation  `json:"navigation"`
	ModuleLessons []domain.Lesson          `json:"module_lessons"`
	Homework      []domain.Homework        `json:"homework,omitempty"`
	Completion    *domain.LessonCompletion `json:"completion,omitempty"`
}

// CatalogService manages courses, modules and lessons.
type CatalogService interface {
	ListCourses(ctx context.Context, filter store.CourseFilter) ([]domain.Course, error)
	GetCourseDetail(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*CourseDetail, error)

	// CreateCourse creates a course with tags and makes the creating reviewer
	// its main teacher. Approved reviewers and admins only.
	CreateCourse(ctx context.Context, actor domain.Identity, p domain.CourseParams, tagIDs []uuid.UUID) (*domain.Course, error)

	// UpdateCourse overwrites a course's attributes; a nil tagIDs keeps the tag set.
	UpdateCourse(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p domain.CourseParams, tagIDs []uuid.UUID) (*domain.Course, error)
	DeleteCourse(ctx context.Context, actor domain.Identity, courseID uuid.UUID) error

	CreateModule(ctx context.Context, actor domain.Identity, courseID uuid.UUID, p ModuleParams) (*domain.Module, error)
	UpdateModule(ctx context.Context, actor domain.Identity, moduleID uuid.UUID, p ModuleParams) (*domain.Module, error)
	DeleteModule(ctx context.Context, actor domain.Identity, moduleID uuid.UUID) error

	CreateLesson(ctx context.Context, actor domain.Identity, moduleID uuid.UUID, p domain.LessonParams) (*domain.Lesson, error)
	UpdateLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID, p domain.LessonParams) (*domain.Lesson, error)
	DeleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) error

	// GetLesson returns a lesson with its navigation. Course managers see any
	// lesson; students must be enrolled and the lesson must be active.
	GetLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (*LessonView, error)
}

// CatalogStores groups the stores the catalog service reads and writes.
type CatalogStores struct {
	Courses     store.CourseStore
	Modules     store.ModuleStore
	Lessons     store.LessonStore
	Tags        store.TagStore
	Teaching    store.TeachingStore
	Enrollments store.EnrollmentStore
	Completions store.CompletionStore
	Homework    store.HomeworkStore
}

type catalogService struct {
	tx     store.Transactor
	s      CatalogStores
	guard  courseGuard
	logger *slog.Logger
}

// NewCatalogService creates a CatalogService.
func NewCatalogService(tx store.Transactor, stores CatalogStores, logger *slog.Logger) CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{
		tx:     tx,
		s:      stores,
		guard:  courseGuard{teaching: stores.Teaching},
		logger: logger.With(slog.String("component", "catalog_service")),
	}
}

func (c *catalogService) ListCourses(ctx context.Context, filter store.CourseFilter) ([]domain.Course, error) {
	courses, err := c.s.Courses.List(ctx, filter)
	if err != nil {
		return nil, NewServiceError("catalog", "list_courses", err)
	}
	return courses, nil
}

func (c *catalogService) GetCourseDetail(ctx context.Context, actor domain.Identity, courseID uuid.UUID) (*CourseDetail, error) {
	course, err := c.s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_course", err)
	}

	manager := c.guard.authorize(ctx, actor, courseID) == nil
	if !course.IsActive && !manager {
		return nil, NewServiceError("catalog", "get_course", store.ErrCourseNotFound)
	}

	modules, err := c.s.Modules.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_course", err)
	}
	lessons, err := c.s.Lessons.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_course", err)
	}
	stats, err := c.s.Courses.Stats(ctx, courseID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_course", err)
	}

	byModule := make(map[uuid.UUID][]domain.Lesson, len(modules))
	for _, l := range lessons {
		if l.IsActive || manager {
			byModule[l.ModuleID] = append(byModule[l.ModuleID], l)
		}
	}

	tree := make([]domain.Module, 0, len(modules))
	for _, m := range modules {
		if !m.IsActive && !manager {
			continue
		}
		m.Lessons = byModule[m.ID]
		tree = append(tree, m)
	}

	return &CourseDetail{Course: course, Modules: tree, Stats: stats}, nil
}

func (c *catalogService) CreateCourse(
	ctx context.Context,
	actor domain.Identity,
	p domain.CourseParams,
	tagIDs []uuid.UUID,
) (*domain.Course, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	var teacher *domain.Reviewer
	if !actor.IsAdmin() {
		reviewer, err := actor.ActingReviewer()
		if err != nil {
			return nil, err
		}
		teacher = reviewer
	} else if actor.Reviewer != nil && actor.Reviewer.IsApproved {
		teacher = actor.Reviewer
	}

	course, err := domain.NewCourse(p)
	if err != nil {
		return nil, err
	}

	err = c.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		courses := c.s.Courses.WithTx(tx)
		if err := courses.Create(ctx, course); err != nil {
			return err
		}
		if err := courses.SetTags(ctx, course.ID, tagIDs); err != nil {
			return err
		}
		if teacher != nil {
			return c.s.Teaching.WithTx(tx).Assign(ctx, domain.NewTeacherCourse(teacher.ID, course.ID, true))
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("catalog", "create_course", err)
	}

	c.recountTags(ctx)
	log.Info("course created",
		slog.String("course_id", course.ID.String()),
		slog.String("created_by", actor.AccountID().String()))
	return c.reload(ctx, course.ID, "create_course")
}

func (c *catalogService) UpdateCourse(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
	p domain.CourseParams,
	tagIDs []uuid.UUID,
) (*domain.Course, error) {
	if err := c.guard.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}

	err := c.tx.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		courses := c.s.Courses.WithTx(tx)
		course, err := courses.GetByID(ctx, courseID)
		if err != nil {
			return err
		}
		if err := course.Apply(p); err != nil {
			return err
		}
		if err := courses.Update(ctx, course); err != nil {
			return err
		}
		if tagIDs != nil {
			return courses.SetTags(ctx, courseID, tagIDs)
		}
		return nil
	})
	if err != nil {
		return nil, NewServiceError("catalog", "update_course", err)
	}

	c.recountTags(ctx)
	return c.reload(ctx, courseID, "update_course")
}

func (c *catalogService) DeleteCourse(ctx context.Context, actor domain.Identity, courseID uuid.UUID) error {
	if err := c.guard.authorize(ctx, actor, courseID); err != nil {
		return err
	}
	if err := c.s.Courses.Delete(ctx, courseID); err != nil {
		return NewServiceError("catalog", "delete_course", err)
	}

	c.recountTags(ctx)
	logger.FromContextOrDefault(ctx, c.logger).Info("course deleted",
		slog.String("course_id", courseID.String()),
		slog.String("deleted_by", actor.AccountID().String()))
	return nil
}

func (c *catalogService) reload(ctx context.Context, courseID uuid.UUID, op string) (*domain.Course, error) {
	course, err := c.s.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, NewServiceError("catalog", op, err)
	}
	return course, nil
}

// recountTags refreshes the derived tag course counts. A failure leaves the
// counts stale until the next recount and does not fail the caller.
func (c *catalogService) recountTags(ctx context.Context) {
	if err := c.s.Tags.RecomputeCourseCounts(ctx); err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("failed to recompute tag course counts",
			slog.String("error", err.Error()))
	}
}

func (c *catalogService) CreateModule(
	ctx context.Context,
	actor domain.Identity,
	courseID uuid.UUID,
	p ModuleParams,
) (*domain.Module, error) {
	if err := c.guard.authorize(ctx, actor, courseID); err != nil {
		return nil, err
	}
	if _, err := c.s.Courses.GetByID(ctx, courseID); err != nil {
		return nil, NewServiceError("catalog", "create_module", err)
	}

	module, err := domain.NewModule(courseID, p.Title, p.Description, p.ModuleOrder)
	if err != nil {
		return nil, err
	}
	if err := c.s.Modules.Create(ctx, module); err != nil {
		return nil, NewServiceError("catalog", "create_module", err)
	}
	return module, nil
}

func (c *catalogService) UpdateModule(
	ctx context.Context,
	actor domain.Identity,
	moduleID uuid.UUID,
	p ModuleParams,
) (*domain.Module, error) {
	module, err := c.s.Modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, NewServiceError("catalog", "update_module", err)
	}
	if err := c.guard.authorize(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	module.Title = strings.TrimSpace(p.Title)
	module.Description = p.Description
	module.ModuleOrder = p.ModuleOrder
	module.IsActive = p.IsActive
	if err := module.Validate(); err != nil {
		return nil, err
	}

	if err := c.s.Modules.Update(ctx, module); err != nil {
		return nil, NewServiceError("catalog", "update_module", err)
	}
	return module, nil
}

func (c *catalogService) DeleteModule(ctx context.Context, actor domain.Identity, moduleID uuid.UUID) error {
	module, err := c.s.Modules.GetByID(ctx, moduleID)
	if err != nil {
		return NewServiceError("catalog", "delete_module", err)
	}
	if err := c.guard.authorize(ctx, actor, module.CourseID); err != nil {
		return err
	}
	return NewServiceError("catalog", "delete_module", c.s.Modules.Delete(ctx, moduleID))
}

func (c *catalogService) CreateLesson(
	ctx context.Context,
	actor domain.Identity,
	moduleID uuid.UUID,
	p domain.LessonParams,
) (*domain.Lesson, error) {
	module, err := c.s.Modules.GetByID(ctx, moduleID)
	if err != nil {
		return nil, NewServiceError("catalog", "create_lesson", err)
	}
	if err := c.guard.authorize(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	lesson, err := domain.NewLesson(moduleID, p)
	if err != nil {
		return nil, err
	}
	if err := c.s.Lessons.Create(ctx, lesson); err != nil {
		return nil, NewServiceError("catalog", "create_lesson", err)
	}
	return lesson, nil
}

func (c *catalogService) UpdateLesson(
	ctx context.Context,
	actor domain.Identity,
	lessonID uuid.UUID,
	p domain.LessonParams,
) (*domain.Lesson, error) {
	lesson, module, err := c.lessonWithModule(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("catalog", "update_lesson", err)
	}
	if err := c.guard.authorize(ctx, actor, module.CourseID); err != nil {
		return nil, err
	}

	if err := lesson.Apply(p); err != nil {
		return nil, err
	}
	if err := c.s.Lessons.Update(ctx, lesson); err != nil {
		return nil, NewServiceError("catalog", "update_lesson", err)
	}
	return lesson, nil
}

func (c *catalogService) DeleteLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) error {
	_, module, err := c.lessonWithModule(ctx, lessonID)
	if err != nil {
		return NewServiceError("catalog", "delete_lesson", err)
	}
	if err := c.guard.authorize(ctx, actor, module.CourseID); err != nil {
		return err
	}
	return NewServiceError("catalog", "delete_lesson", c.s.Lessons.Delete(ctx, lessonID))
}

func (c *catalogService) GetLesson(ctx context.Context, actor domain.Identity, lessonID uuid.UUID) (*LessonView, error) {
	lesson, module, err := c.lessonWithModule(ctx, lessonID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_lesson", err)
	}

	view := &LessonView{Lesson: lesson, CourseID: module.CourseID}

	if authErr := c.guard.authorize(ctx, actor, module.CourseID); authErr != nil {
		student, err := actor.ActingStudent()
		if err != nil {
			return nil, authErr
		}
		if !lesson.IsActive {
			return nil, NewServiceError("catalog", "get_lesson", store.ErrLessonNotFound)
		}
		enrollment, err := c.s.Enrollments.Get(ctx, student.ID, module.CourseID)
		if err != nil {
			if errors.Is(err, store.ErrEnrollmentNotFound) {
				return nil, ErrNotEnrolled
			}
			return nil, NewServiceError("catalog", "get_lesson", err)
		}
		completions, err := c.s.Completions.ListByEnrollment(ctx, enrollment.ID)
		if err != nil {
			return nil, NewServiceError("catalog", "get_lesson", err)
		}
		for i := range completions {
			if completions[i].LessonID == lessonID {
				view.Completion = &completions[i]
				break
			}
		}
	}

	siblings, err := c.s.Lessons.ListByModule(ctx, module.ID)
	if err != nil {
		return nil, NewServiceError("catalog", "get_lesson", err)
	}
	view.Navigation = domain.Navigate(siblings, lesson.LessonOrder)
	view.ModuleLessons = make([]domain.Lesson, 0, len(siblings))
	for _, l := range siblings {
		if l.IsActive {
			view.ModuleLessons = append(view.ModuleLessons, l)
		}
	}

	if lesson.HasHomework {
		view.Homework, err = c.s.Homework.ListByLesson(ctx, lessonID)
		if err != nil {
			return nil, NewServiceError("catalog", "get_lesson", err)
		}
	}
	return view, nil
}

func (c *catalogService) lessonWithModule(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, *domain.Module, error) {
	lesson, err := c.s.Lessons.GetByID(ctx, lessonID)
	if err != nil {
		return nil, nil, err
	}
	module, err := c.s.Modules.GetByID(ctx, lesson.ModuleID)
	if err != nil {
		return nil, nil, err
	}
	return lesson, module, nil
}
