package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
)

// fakeTx runs the function without a real transaction; fake stores ignore tx.
type fakeTx struct {
	calls int
	err   error
}

func (f *fakeTx) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return fn(ctx, nil)
}

// memDB is an in-memory database shared by the fake stores. It enforces the
// same uniqueness rules as the Postgres schema.
type memDB struct {
	mu sync.Mutex

	accounts      map[uuid.UUID]domain.Account
	students      map[uuid.UUID]domain.Student
	reviewers     map[uuid.UUID]domain.Reviewer
	courses       map[uuid.UUID]domain.Course
	courseTags    map[uuid.UUID][]uuid.UUID
	modules       map[uuid.UUID]domain.Module
	lessons       map[uuid.UUID]domain.Lesson
	tags          map[uuid.UUID]domain.Tag
	teaching      []domain.TeacherCourse
	enrollments   map[uuid.UUID]domain.Enrollment
	completions   map[uuid.UUID]domain.LessonCompletion
	prereqs       map[uuid.UUID]domain.CoursePrerequisite
	homework      map[uuid.UUID]domain.Homework
	submissions   map[uuid.UUID]domain.HomeworkSubmission
	recountCalls  int
	recountErr    error
	createTagErrs []error
}

func newMemDB() *memDB {
	return &memDB{
		accounts:    map[uuid.UUID]domain.Account{},
		students:    map[uuid.UUID]domain.Student{},
		reviewers:   map[uuid.UUID]domain.Reviewer{},
		courses:     map[uuid.UUID]domain.Course{},
		courseTags:  map[uuid.UUID][]uuid.UUID{},
		modules:     map[uuid.UUID]domain.Module{},
		lessons:     map[uuid.UUID]domain.Lesson{},
		tags:        map[uuid.UUID]domain.Tag{},
		enrollments: map[uuid.UUID]domain.Enrollment{},
		completions: map[uuid.UUID]domain.LessonCompletion{},
		prereqs:     map[uuid.UUID]domain.CoursePrerequisite{},
		homework:    map[uuid.UUID]domain.Homework{},
		submissions: map[uuid.UUID]domain.HomeworkSubmission{},
	}
}

// accounts

type fakeAccountStore struct{ db *memDB }

func (f fakeAccountStore) Create(_ context.Context, a *domain.Account) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.accounts {
		if existing.Email == a.Email {
			return store.ErrEmailExists
		}
	}
	f.db.accounts[a.ID] = *a
	return nil
}

func (f fakeAccountStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	a, ok := f.db.accounts[id]
	if !ok {
		return nil, store.ErrAccountNotFound
	}
	return &a, nil
}

func (f fakeAccountStore) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	email = domain.NormalizeEmail(email)
	for _, a := range f.db.accounts {
		if a.Email == email {
			return &a, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

func (f fakeAccountStore) WithTx(*sql.Tx) store.AccountStore { return f }

// profiles

type fakeProfileStore struct{ db *memDB }

func (f fakeProfileStore) CreateStudent(_ context.Context, s *domain.Student) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.students {
		if existing.AccountID == s.AccountID {
			return store.ErrProfileExists
		}
	}
	f.db.students[s.ID] = *s
	return nil
}

func (f fakeProfileStore) CreateReviewer(_ context.Context, r *domain.Reviewer) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.reviewers {
		if existing.AccountID == r.AccountID {
			return store.ErrProfileExists
		}
	}
	f.db.reviewers[r.ID] = *r
	return nil
}

func (f fakeProfileStore) GetStudentByAccount(_ context.Context, accountID uuid.UUID) (*domain.Student, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, s := range f.db.students {
		if s.AccountID == accountID {
			return &s, nil
		}
	}
	return nil, store.ErrStudentNotFound
}

func (f fakeProfileStore) GetReviewerByAccount(_ context.Context, accountID uuid.UUID) (*domain.Reviewer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, r := range f.db.reviewers {
		if r.AccountID == accountID {
			return &r, nil
		}
	}
	return nil, store.ErrReviewerNotFound
}

func (f fakeProfileStore) GetReviewerByID(_ context.Context, id uuid.UUID) (*domain.Reviewer, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.reviewers[id]
	if !ok {
		return nil, store.ErrReviewerNotFound
	}
	return &r, nil
}

func (f fakeProfileStore) SetReviewerApproval(_ context.Context, id uuid.UUID, approved bool) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	r, ok := f.db.reviewers[id]
	if !ok {
		return store.ErrReviewerNotFound
	}
	r.IsApproved = approved
	f.db.reviewers[id] = r
	return nil
}

func (f fakeProfileStore) WithTx(*sql.Tx) store.ProfileStore { return f }

// courses

type fakeCourseStore struct{ db *memDB }

func (f fakeCourseStore) Create(_ context.Context, c *domain.Course) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.courses[c.ID] = *c
	return nil
}

func (f fakeCourseStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Course, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	c, ok := f.db.courses[id]
	if !ok {
		return nil, store.ErrCourseNotFound
	}
	c.Tags = f.db.tagsOf(id)
	return &c, nil
}

func (f fakeCourseStore) Update(_ context.Context, c *domain.Course) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.courses[c.ID]; !ok {
		return store.ErrCourseNotFound
	}
	f.db.courses[c.ID] = *c
	return nil
}

func (f fakeCourseStore) Delete(_ context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.courses[id]; !ok {
		return store.ErrCourseNotFound
	}
	delete(f.db.courses, id)
	delete(f.db.courseTags, id)
	return nil
}

func (f fakeCourseStore) List(_ context.Context, filter store.CourseFilter) ([]domain.Course, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Course
	for id, c := range f.db.courses {
		if filter.ActiveOnly && !c.IsActive {
			continue
		}
		if filter.Difficulty != "" && c.Difficulty != filter.Difficulty {
			continue
		}
		c.Tags = f.db.tagsOf(id)
		if len(filter.TagSlugs) > 0 && !hasAnySlug(c.Tags, filter.TagSlugs) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (f fakeCourseStore) ListByIDs(_ context.Context, ids []uuid.UUID) ([]domain.Course, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Course
	for _, id := range ids {
		if c, ok := f.db.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeCourseStore) SetTags(_ context.Context, courseID uuid.UUID, tagIDs []uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.courseTags[courseID] = append([]uuid.UUID(nil), tagIDs...)
	return nil
}

func (f fakeCourseStore) Stats(_ context.Context, courseID uuid.UUID) (domain.CourseStats, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var stats domain.CourseStats
	for _, m := range f.db.modules {
		if m.CourseID != courseID {
			continue
		}
		stats.TotalModules++
		for _, l := range f.db.lessons {
			if l.ModuleID == m.ID {
				stats.TotalLessons++
			}
		}
	}
	return stats, nil
}

func (f fakeCourseStore) WithTx(*sql.Tx) store.CourseStore { return f }

func (db *memDB) tagsOf(courseID uuid.UUID) []domain.Tag {
	var tags []domain.Tag
	for _, id := range db.courseTags[courseID] {
		if t, ok := db.tags[id]; ok {
			tags = append(tags, t)
		}
	}
	return tags
}

func hasAnySlug(tags []domain.Tag, slugs []string) bool {
	for _, t := range tags {
		for _, s := range slugs {
			if t.Slug == s {
				return true
			}
		}
	}
	return false
}

// modules

type fakeModuleStore struct{ db *memDB }

func (f fakeModuleStore) Create(_ context.Context, m *domain.Module) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.modules {
		if existing.CourseID == m.CourseID && existing.ModuleOrder == m.ModuleOrder {
			return store.ErrModuleOrderExists
		}
	}
	f.db.modules[m.ID] = *m
	return nil
}

func (f fakeModuleStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Module, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	m, ok := f.db.modules[id]
	if !ok {
		return nil, store.ErrModuleNotFound
	}
	return &m, nil
}

func (f fakeModuleStore) Update(_ context.Context, m *domain.Module) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.modules[m.ID] = *m
	return nil
}

func (f fakeModuleStore) Delete(_ context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.modules[id]; !ok {
		return store.ErrModuleNotFound
	}
	delete(f.db.modules, id)
	return nil
}

func (f fakeModuleStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]domain.Module, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Module
	for _, m := range f.db.modules {
		if m.CourseID == courseID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleOrder < out[j].ModuleOrder })
	return out, nil
}

func (f fakeModuleStore) WithTx(*sql.Tx) store.ModuleStore { return f }

// lessons

type fakeLessonStore struct{ db *memDB }

func (f fakeLessonStore) Create(_ context.Context, l *domain.Lesson) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.lessons {
		if existing.ModuleID == l.ModuleID && existing.LessonOrder == l.LessonOrder {
			return store.ErrLessonOrderExists
		}
	}
	f.db.lessons[l.ID] = *l
	return nil
}

func (f fakeLessonStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Lesson, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	l, ok := f.db.lessons[id]
	if !ok {
		return nil, store.ErrLessonNotFound
	}
	return &l, nil
}

func (f fakeLessonStore) Update(_ context.Context, l *domain.Lesson) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.lessons[l.ID] = *l
	return nil
}

func (f fakeLessonStore) Delete(_ context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.lessons[id]; !ok {
		return store.ErrLessonNotFound
	}
	delete(f.db.lessons, id)
	return nil
}

func (f fakeLessonStore) ListByModule(_ context.Context, moduleID uuid.UUID) ([]domain.Lesson, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Lesson
	for _, l := range f.db.lessons {
		if l.ModuleID == moduleID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LessonOrder < out[j].LessonOrder })
	return out, nil
}

func (f fakeLessonStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Lesson
	for _, l := range f.db.lessons {
		if m, ok := f.db.modules[l.ModuleID]; ok && m.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		mi, mj := f.db.modules[out[i].ModuleID], f.db.modules[out[j].ModuleID]
		if mi.ModuleOrder != mj.ModuleOrder {
			return mi.ModuleOrder < mj.ModuleOrder
		}
		return out[i].LessonOrder < out[j].LessonOrder
	})
	return out, nil
}

func (f fakeLessonStore) WithTx(*sql.Tx) store.LessonStore { return f }

// tags

type fakeTagStore struct{ db *memDB }

func (f fakeTagStore) Create(_ context.Context, t *domain.Tag) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if len(f.db.createTagErrs) > 0 {
		err := f.db.createTagErrs[0]
		f.db.createTagErrs = f.db.createTagErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range f.db.tags {
		switch {
		case existing.Slug == t.Slug:
			return store.ErrSlugExists
		case existing.Name == t.Name:
			return store.ErrTagNameExists
		case existing.Color == t.Color:
			return store.ErrTagColorExists
		}
	}
	f.db.tags[t.ID] = *t
	return nil
}

func (f fakeTagStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	t, ok := f.db.tags[id]
	if !ok {
		return nil, store.ErrTagNotFound
	}
	return &t, nil
}

func (f fakeTagStore) GetBySlug(_ context.Context, slug string) (*domain.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, t := range f.db.tags {
		if t.Slug == slug {
			return &t, nil
		}
	}
	return nil, store.ErrTagNotFound
}

func (f fakeTagStore) GetByName(_ context.Context, name string) (*domain.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, t := range f.db.tags {
		if t.Name == name {
			return &t, nil
		}
	}
	return nil, store.ErrTagNotFound
}

func (f fakeTagStore) Update(_ context.Context, t *domain.Tag) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for id, existing := range f.db.tags {
		if id != t.ID && existing.Slug == t.Slug {
			return store.ErrSlugExists
		}
	}
	f.db.tags[t.ID] = *t
	return nil
}

func (f fakeTagStore) Delete(_ context.Context, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.tags[id]; !ok {
		return store.ErrTagNotFound
	}
	delete(f.db.tags, id)
	return nil
}

func (f fakeTagStore) List(_ context.Context) ([]domain.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]domain.Tag, 0, len(f.db.tags))
	for _, t := range f.db.tags {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f fakeTagStore) ListPopular(ctx context.Context, limit int) ([]domain.Tag, error) {
	tags, _ := f.List(ctx)
	var out []domain.Tag
	for _, t := range tags {
		if t.IsFeatured && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f fakeTagStore) ListSimilar(_ context.Context, tagID uuid.UUID, limit int) ([]domain.Tag, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	seen := map[uuid.UUID]bool{tagID: true}
	var out []domain.Tag
	for courseID, ids := range f.db.courseTags {
		if !containsID(ids, tagID) || !f.db.courses[courseID].IsActive {
			continue
		}
		for _, id := range ids {
			if !seen[id] && len(out) < limit {
				seen[id] = true
				out = append(out, f.db.tags[id])
			}
		}
	}
	return out, nil
}

func (f fakeTagStore) RecomputeCourseCounts(_ context.Context) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.recountCalls++
	if f.db.recountErr != nil {
		return f.db.recountErr
	}
	for id, t := range f.db.tags {
		t.CourseCount = 0
		for courseID, ids := range f.db.courseTags {
			if containsID(ids, id) && f.db.courses[courseID].IsActive {
				t.CourseCount++
			}
		}
		f.db.tags[id] = t
	}
	return nil
}

func (f fakeTagStore) WithTx(*sql.Tx) store.TagStore { return f }

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// teaching

type fakeTeachingStore struct{ db *memDB }

func (f fakeTeachingStore) Assign(_ context.Context, a *domain.TeacherCourse) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.teaching {
		if existing.ReviewerID == a.ReviewerID && existing.CourseID == a.CourseID {
			return store.ErrAlreadyAssigned
		}
	}
	f.db.teaching = append(f.db.teaching, *a)
	return nil
}

func (f fakeTeachingStore) IsAssigned(_ context.Context, reviewerID, courseID uuid.UUID) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, a := range f.db.teaching {
		if a.ReviewerID == reviewerID && a.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeTeachingStore) ListCourseIDs(_ context.Context, reviewerID uuid.UUID) ([]uuid.UUID, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var ids []uuid.UUID
	for _, a := range f.db.teaching {
		if a.ReviewerID == reviewerID {
			ids = append(ids, a.CourseID)
		}
	}
	return ids, nil
}

func (f fakeTeachingStore) WithTx(*sql.Tx) store.TeachingStore { return f }

// enrollments

type fakeEnrollmentStore struct{ db *memDB }

func (f fakeEnrollmentStore) Create(_ context.Context, e *domain.Enrollment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.enrollments {
		if existing.StudentID == e.StudentID && existing.CourseID == e.CourseID {
			return store.ErrAlreadyEnrolled
		}
	}
	f.db.enrollments[e.ID] = *e
	return nil
}

func (f fakeEnrollmentStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Enrollment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	e, ok := f.db.enrollments[id]
	if !ok {
		return nil, store.ErrEnrollmentNotFound
	}
	return &e, nil
}

func (f fakeEnrollmentStore) Get(_ context.Context, studentID, courseID uuid.UUID) (*domain.Enrollment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, e := range f.db.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return &e, nil
		}
	}
	return nil, store.ErrEnrollmentNotFound
}

func (f fakeEnrollmentStore) Update(_ context.Context, e *domain.Enrollment) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.enrollments[e.ID] = *e
	return nil
}

func (f fakeEnrollmentStore) ListByStudent(_ context.Context, studentID uuid.UUID) ([]domain.Enrollment, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Enrollment
	for _, e := range f.db.enrollments {
		if e.StudentID == studentID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EnrollmentDate.Before(out[j].EnrollmentDate) })
	return out, nil
}

func (f fakeEnrollmentStore) WithTx(*sql.Tx) store.EnrollmentStore { return f }

// completions

type fakeCompletionStore struct{ db *memDB }

func (f fakeCompletionStore) Create(_ context.Context, c *domain.LessonCompletion) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.completions {
		if existing.EnrollmentID == c.EnrollmentID && existing.LessonID == c.LessonID {
			return store.ErrAlreadyCompleted
		}
	}
	f.db.completions[c.ID] = *c
	return nil
}

func (f fakeCompletionStore) Delete(_ context.Context, enrollmentID, lessonID uuid.UUID) (bool, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for id, c := range f.db.completions {
		if c.EnrollmentID == enrollmentID && c.LessonID == lessonID {
			delete(f.db.completions, id)
			return true, nil
		}
	}
	return false, nil
}

func (f fakeCompletionStore) ListByEnrollment(_ context.Context, enrollmentID uuid.UUID) ([]domain.LessonCompletion, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.LessonCompletion
	for _, c := range f.db.completions {
		if c.EnrollmentID == enrollmentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f fakeCompletionStore) ListRecentByStudent(_ context.Context, studentID uuid.UUID, limit int) ([]store.CompletionRecord, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []store.CompletionRecord
	for _, c := range f.db.completions {
		e := f.db.enrollments[c.EnrollmentID]
		if e.StudentID != studentID {
			continue
		}
		out = append(out, store.CompletionRecord{
			LessonID:    c.LessonID,
			LessonTitle: f.db.lessons[c.LessonID].Title,
			CourseID:    e.CourseID,
			CourseTitle: f.db.courses[e.CourseID].Title,
			Score:       c.Score,
			CompletedAt: c.CompletedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeCompletionStore) WithTx(*sql.Tx) store.CompletionStore { return f }

// prerequisites

type fakePrerequisiteStore struct{ db *memDB }

func (f fakePrerequisiteStore) Create(_ context.Context, p *domain.CoursePrerequisite) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	for _, existing := range f.db.prereqs {
		if existing.CourseID == p.CourseID && existing.RequiredCourseID == p.RequiredCourseID {
			return store.ErrPrerequisiteExists
		}
	}
	f.db.prereqs[p.ID] = *p
	return nil
}

func (f fakePrerequisiteStore) Delete(_ context.Context, courseID, id uuid.UUID) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	p, ok := f.db.prereqs[id]
	if !ok || p.CourseID != courseID {
		return store.ErrPrerequisiteNotFound
	}
	delete(f.db.prereqs, id)
	return nil
}

func (f fakePrerequisiteStore) ListByCourse(_ context.Context, courseID uuid.UUID) ([]domain.CoursePrerequisite, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.CoursePrerequisite
	for _, p := range f.db.prereqs {
		if p.CourseID == courseID {
			p.RequiredCourseTitle = f.db.courses[p.RequiredCourseID].Title
			out = append(out, p)
		}
	}
	return out, nil
}

func (f fakePrerequisiteStore) WithTx(*sql.Tx) store.PrerequisiteStore { return f }

// homework

type fakeHomeworkStore struct{ db *memDB }

func (f fakeHomeworkStore) Create(_ context.Context, h *domain.Homework) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.homework[h.ID] = *h
	return nil
}

func (f fakeHomeworkStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Homework, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	h, ok := f.db.homework[id]
	if !ok {
		return nil, store.ErrHomeworkNotFound
	}
	return &h, nil
}

func (f fakeHomeworkStore) ListByLesson(_ context.Context, lessonID uuid.UUID) ([]domain.Homework, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []domain.Homework
	for _, h := range f.db.homework {
		if h.LessonID == lessonID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f fakeHomeworkStore) CreateSubmission(_ context.Context, s *domain.HomeworkSubmission) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	f.db.submissions[s.ID] = *s
	return nil
}

func (f fakeHomeworkStore) GetSubmission(_ context.Context, id uuid.UUID) (*domain.HomeworkSubmission, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	s, ok := f.db.submissions[id]
	if !ok {
		return nil, store.ErrSubmissionNotFound
	}
	return &s, nil
}

func (f fakeHomeworkStore) UpdateSubmission(_ context.Context, s *domain.HomeworkSubmission) error {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	if _, ok := f.db.submissions[s.ID]; !ok {
		return store.ErrSubmissionNotFound
	}
	f.db.submissions[s.ID] = *s
	return nil
}

func (f fakeHomeworkStore) CountUnderReview(_ context.Context, reviewerID uuid.UUID) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, s := range f.db.submissions {
		if s.ReviewerID != nil && *s.ReviewerID == reviewerID && s.Status == domain.SubmissionUnderReview {
			n++
		}
	}
	return n, nil
}

func (f fakeHomeworkStore) CountByReviewer(_ context.Context, reviewerID uuid.UUID) (int, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	n := 0
	for _, s := range f.db.submissions {
		if s.ReviewerID != nil && *s.ReviewerID == reviewerID {
			n++
		}
	}
	return n, nil
}

func (f fakeHomeworkStore) ListRecentUnderReview(_ context.Context, reviewerID uuid.UUID, limit int) ([]store.SubmissionSummary, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	var out []store.SubmissionSummary
	for _, s := range f.db.submissions {
		if s.ReviewerID == nil || *s.ReviewerID != reviewerID || s.Status != domain.SubmissionUnderReview {
			continue
		}
		out = append(out, store.SubmissionSummary{
			ID:            s.ID,
			HomeworkTitle: f.db.homework[s.HomeworkID].Title,
			CourseID:      f.db.enrollments[s.EnrollmentID].CourseID,
			Status:        s.Status,
			Urgency:       s.Urgency,
			SubmittedAt:   s.SubmittedAt,
		})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f fakeHomeworkStore) CourseStats(_ context.Context, reviewerID uuid.UUID, courseIDs []uuid.UUID) ([]store.CourseReviewStats, error) {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	out := make([]store.CourseReviewStats, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		stats := store.CourseReviewStats{CourseID: courseID, CourseTitle: f.db.courses[courseID].Title}
		for _, s := range f.db.submissions {
			if f.db.enrollments[s.EnrollmentID].CourseID != courseID || s.ReviewerID == nil || *s.ReviewerID != reviewerID {
				continue
			}
			stats.Total++
			if s.Status == domain.SubmissionUnderReview {
				stats.Pending++
			}
		}
		for _, e := range f.db.enrollments {
			if e.CourseID == courseID && e.Status == domain.EnrollmentActive {
				stats.ActiveStudents++
			}
		}
		out = append(out, stats)
	}
	return out, nil
}

func (f fakeHomeworkStore) WithTx(*sql.Tx) store.HomeworkStore { return f }
