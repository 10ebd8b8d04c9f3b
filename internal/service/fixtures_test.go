package service

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// plainHasher stores passwords with a visible prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) {
	return "plain:" + password, nil
}

func (plainHasher) Compare(hash, password string) error {
	if hash != "plain:"+password {
		return errors.New("password mismatch")
	}
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires every service to one in-memory database.
type fixture struct {
	db *memDB
	tx *fakeTx

	identity   IdentityService
	catalog    CatalogService
	tags       TagService
	enrollment EnrollmentService
	homework   HomeworkService
	dashboard  DashboardService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newMemDB()
	tx := &fakeTx{}
	log := quietLogger()

	accounts := fakeAccountStore{db}
	profiles := fakeProfileStore{db}
	courses := fakeCourseStore{db}
	modules := fakeModuleStore{db}
	lessons := fakeLessonStore{db}
	tags := fakeTagStore{db}
	teaching := fakeTeachingStore{db}
	enrollments := fakeEnrollmentStore{db}
	completions := fakeCompletionStore{db}
	prereqs := fakePrerequisiteStore{db}
	homework := fakeHomeworkStore{db}

	return &fixture{
		db:       db,
		tx:       tx,
		identity: NewIdentityService(tx, accounts, profiles, plainHasher{}, log),
		catalog: NewCatalogService(tx, CatalogStores{
			Courses:     courses,
			Modules:     modules,
			Lessons:     lessons,
			Tags:        tags,
			Teaching:    teaching,
			Enrollments: enrollments,
			Completions: completions,
			Homework:    homework,
		}, log),
		tags: NewTagService(tags, courses, log),
		enrollment: NewEnrollmentService(EnrollmentStores{
			Courses:       courses,
			Modules:       modules,
			Lessons:       lessons,
			Teaching:      teaching,
			Enrollments:   enrollments,
			Completions:   completions,
			Prerequisites: prereqs,
		}, log),
		homework: NewHomeworkService(HomeworkStores{
			Modules:     modules,
			Lessons:     lessons,
			Teaching:    teaching,
			Enrollments: enrollments,
			Homework:    homework,
		}, log),
		dashboard: NewDashboardService(DashboardStores{
			Courses:     courses,
			Modules:     modules,
			Lessons:     lessons,
			Teaching:    teaching,
			Enrollments: enrollments,
			Completions: completions,
			Homework:    homework,
		}, log),
	}
}

func (f *fixture) account(t *testing.T, role domain.Role) *domain.Account {
	t.Helper()
	a, err := domain.NewAccount(strings.ReplaceAll(uuid.NewString(), "-", "")+"@example.com", "password123", role)
	require.NoError(t, err)
	a.HashedPassword = "plain:password123"
	a.Password = ""
	f.db.accounts[a.ID] = *a
	return a
}

func (f *fixture) student(t *testing.T) domain.Identity {
	t.Helper()
	a := f.account(t, domain.RoleStudent)
	s, err := domain.NewStudent(a.ID, domain.PersonName{FirstName: "Ada", LastName: "Lovelace"}, nil)
	require.NoError(t, err)
	f.db.students[s.ID] = *s
	return domain.ResolveIdentity(a, s, nil)
}

func (f *fixture) reviewer(t *testing.T, approved bool) domain.Identity {
	t.Helper()
	a := f.account(t, domain.RoleReviewer)
	r, err := domain.NewReviewer(a.ID, domain.PersonName{FirstName: "Alan", LastName: "Turing"}, "math")
	require.NoError(t, err)
	r.IsApproved = approved
	f.db.reviewers[r.ID] = *r
	return domain.ResolveIdentity(a, nil, r)
}

func (f *fixture) admin(t *testing.T) domain.Identity {
	t.Helper()
	return domain.ResolveIdentity(f.account(t, domain.RoleAdmin), nil, nil)
}

// course stores a course directly, assigning teacher when given.
func (f *fixture) course(t *testing.T, title string, active bool, teacher *domain.Reviewer) *domain.Course {
	t.Helper()
	c, err := domain.NewCourse(domain.CourseParams{Title: title, DurationWeeks: 4, IsActive: active})
	require.NoError(t, err)
	f.db.courses[c.ID] = *c
	if teacher != nil {
		f.db.teaching = append(f.db.teaching, *domain.NewTeacherCourse(teacher.ID, c.ID, true))
	}
	return c
}

func (f *fixture) module(t *testing.T, courseID uuid.UUID, order int) *domain.Module {
	t.Helper()
	m, err := domain.NewModule(courseID, "Module", "", order)
	require.NoError(t, err)
	f.db.modules[m.ID] = *m
	return m
}

func (f *fixture) lesson(t *testing.T, moduleID uuid.UUID, order int, lt domain.LessonType, active bool) *domain.Lesson {
	t.Helper()
	l, err := domain.NewLesson(moduleID, domain.LessonParams{
		Title:       "Lesson",
		LessonOrder: order,
		LessonType:  lt,
		IsActive:    active,
	})
	require.NoError(t, err)
	f.db.lessons[l.ID] = *l
	return l
}

func (f *fixture) enroll(studentID, courseID uuid.UUID, status domain.EnrollmentStatus, score *int) *domain.Enrollment {
	e := domain.NewEnrollment(studentID, courseID)
	e.Status = status
	e.OverallScore = score
	f.db.enrollments[e.ID] = *e
	return e
}

func intPtr(v int) *int { return &v }
