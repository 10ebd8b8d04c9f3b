package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_CreateCourse(t *testing.T) {
	ctx := context.Background()
	params := domain.CourseParams{Title: "Go in Practice", DurationWeeks: 6, IsActive: true}

	t.Run("approved reviewer becomes main teacher", func(t *testing.T) {
		f := newFixture(t)
		reviewer := f.reviewer(t, true)
		tag, err := domain.NewTag(domain.TagParams{Name: "Go"})
		require.NoError(t, err)
		f.db.tags[tag.ID] = *tag

		course, err := f.catalog.CreateCourse(ctx, reviewer, params, []uuid.UUID{tag.ID})
		require.NoError(t, err)

		assert.Equal(t, "Go in Practice", course.Title)
		require.Len(t, course.Tags, 1)
		assert.Equal(t, tag.ID, course.Tags[0].ID)
		require.Len(t, f.db.teaching, 1)
		assert.True(t, f.db.teaching[0].IsMainTeacher)
		assert.Equal(t, reviewer.Reviewer.ID, f.db.teaching[0].ReviewerID)
		assert.Equal(t, 1, f.db.tags[tag.ID].CourseCount, "tag counts are recomputed")
		assert.Equal(t, 1, f.tx.calls)
	})

	t.Run("admin without reviewer profile", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.catalog.CreateCourse(ctx, f.admin(t), params, nil)
		require.NoError(t, err)
		assert.Empty(t, f.db.teaching)
	})

	t.Run("unapproved reviewer", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.catalog.CreateCourse(ctx, f.reviewer(t, false), params, nil)
		assert.ErrorIs(t, err, domain.ErrReviewerNotApproved)
		assert.Empty(t, f.db.courses)
	})

	t.Run("student", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.catalog.CreateCourse(ctx, f.student(t), params, nil)
		assert.ErrorIs(t, err, domain.ErrReviewerProfileRequired)
	})

	t.Run("invalid course", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.catalog.CreateCourse(ctx, f.admin(t), domain.CourseParams{DurationWeeks: 1}, nil)
		assert.ErrorIs(t, err, domain.ErrEmptyCourseTitle)
	})

	t.Run("recount failure does not fail the caller", func(t *testing.T) {
		f := newFixture(t)
		f.db.recountErr = assert.AnError

		_, err := f.catalog.CreateCourse(ctx, f.admin(t), params, nil)
		require.NoError(t, err)
		assert.Equal(t, 1, f.db.recountCalls)
	})
}

func TestCatalogService_UpdateCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	teacher := f.reviewer(t, true)
	other := f.reviewer(t, true)
	course := f.course(t, "Old title", true, teacher.Reviewer)

	params := domain.CourseParams{Title: "New title", DurationWeeks: 2, IsActive: false}

	_, err := f.catalog.UpdateCourse(ctx, other, course.ID, params, nil)
	assert.ErrorIs(t, err, ErrNotCourseTeacher)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.catalog.UpdateCourse(ctx, teacher, course.ID, params, nil)
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.False(t, updated.IsActive)

	_, err = f.catalog.UpdateCourse(ctx, f.admin(t), uuid.New(), params, nil)
	assert.ErrorIs(t, err, store.ErrCourseNotFound)
}

func TestCatalogService_GetCourseDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	teacher := f.reviewer(t, true)
	course := f.course(t, "Course", true, teacher.Reviewer)
	m1 := f.module(t, course.ID, 1)
	m2 := f.module(t, course.ID, 2)
	m2.IsActive = false
	f.db.modules[m2.ID] = *m2
	f.lesson(t, m1.ID, 1, domain.LessonLecture, true)
	f.lesson(t, m1.ID, 2, domain.LessonLecture, false)

	detail, err := f.catalog.GetCourseDetail(ctx, f.student(t), course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Modules, 1, "inactive modules are hidden")
	assert.Len(t, detail.Modules[0].Lessons, 1, "inactive lessons are hidden")

	detail, err = f.catalog.GetCourseDetail(ctx, teacher, course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Modules, 2)
	assert.Len(t, detail.Modules[0].Lessons, 2)
	assert.Equal(t, 2, detail.Stats.TotalModules)
	assert.Equal(t, 2, detail.Stats.TotalLessons)

	hidden := f.course(t, "Hidden", false, teacher.Reviewer)
	_, err = f.catalog.GetCourseDetail(ctx, f.student(t), hidden.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.catalog.GetCourseDetail(ctx, teacher, hidden.ID)
	assert.NoError(t, err)
}

func TestCatalogService_Modules(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	teacher := f.reviewer(t, true)
	course := f.course(t, "Course", true, teacher.Reviewer)

	module, err := f.catalog.CreateModule(ctx, teacher, course.ID, ModuleParams{Title: "Basics", ModuleOrder: 1})
	require.NoError(t, err)

	_, err = f.catalog.CreateModule(ctx, teacher, course.ID, ModuleParams{Title: "Again", ModuleOrder: 1})
	assert.ErrorIs(t, err, store.ErrModuleOrderExists)
	assert.ErrorIs(t, err, store.ErrDuplicate)

	_, err = f.catalog.CreateModule(ctx, f.student(t), course.ID, ModuleParams{Title: "X", ModuleOrder: 2})
	assert.ErrorIs(t, err, ErrNotCourseTeacher)

	updated, err := f.catalog.UpdateModule(ctx, teacher, module.ID, ModuleParams{Title: " Renamed ", ModuleOrder: 3})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.False(t, updated.IsActive)

	require.NoError(t, f.catalog.DeleteModule(ctx, teacher, module.ID))
	assert.ErrorIs(t, f.catalog.DeleteModule(ctx, teacher, module.ID), store.ErrModuleNotFound)
}

func TestCatalogService_Lessons(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	teacher := f.reviewer(t, true)
	course := f.course(t, "Course", true, teacher.Reviewer)
	module := f.module(t, course.ID, 1)

	lesson, err := f.catalog.CreateLesson(ctx, teacher, module.ID, domain.LessonParams{
		Title:       "Practice",
		LessonOrder: 1,
		LessonType:  domain.LessonPractice,
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.True(t, lesson.HasHomework)
	assert.Equal(t, 100, lesson.MaxScore)

	updated, err := f.catalog.UpdateLesson(ctx, teacher, lesson.ID, domain.LessonParams{
		Title:       "Now a lecture",
		LessonOrder: 1,
		LessonType:  domain.LessonLecture,
		IsActive:    true,
	})
	require.NoError(t, err)
	assert.False(t, updated.HasHomework, "derived fields follow the new type")
	assert.Equal(t, 0, updated.MaxScore)

	_, err = f.catalog.CreateLesson(ctx, teacher, module.ID, domain.LessonParams{Title: "Dup", LessonOrder: 1})
	assert.ErrorIs(t, err, store.ErrLessonOrderExists)

	assert.ErrorIs(t, f.catalog.DeleteLesson(ctx, f.reviewer(t, true), lesson.ID), ErrNotCourseTeacher)
	require.NoError(t, f.catalog.DeleteLesson(ctx, teacher, lesson.ID))
}

func TestCatalogService_GetLesson(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	teacher := f.reviewer(t, true)
	course := f.course(t, "Course", true, teacher.Reviewer)
	module := f.module(t, course.ID, 1)
	first := f.lesson(t, module.ID, 1, domain.LessonLecture, true)
	draft := f.lesson(t, module.ID, 2, domain.LessonLecture, false)
	practice := f.lesson(t, module.ID, 3, domain.LessonPractice, true)
	hw, err := domain.NewHomework(practice, domain.HomeworkParams{Title: "Exercise"})
	require.NoError(t, err)
	f.db.homework[hw.ID] = *hw

	student := f.student(t)

	t.Run("not enrolled", func(t *testing.T) {
		_, err := f.catalog.GetLesson(ctx, student, first.ID)
		assert.ErrorIs(t, err, ErrNotEnrolled)
	})

	enrollment := f.enroll(student.Student.ID, course.ID, domain.EnrollmentActive, nil)
	completion := domain.NewLessonCompletion(enrollment.ID, first.ID, intPtr(80))
	f.db.completions[completion.ID] = *completion

	t.Run("enrolled student", func(t *testing.T) {
		view, err := f.catalog.GetLesson(ctx, student, first.ID)
		require.NoError(t, err)

		assert.Equal(t, course.ID, view.CourseID)
		assert.Nil(t, view.Navigation.Previous)
		require.NotNil(t, view.Navigation.Next)
		assert.Equal(t, practice.ID, view.Navigation.Next.ID, "inactive lessons are skipped")
		assert.Len(t, view.ModuleLessons, 2)
		require.NotNil(t, view.Completion)
		assert.Equal(t, 80, *view.Completion.Score)
		assert.Empty(t, view.Homework)
	})

	t.Run("homework is attached", func(t *testing.T) {
		view, err := f.catalog.GetLesson(ctx, student, practice.ID)
		require.NoError(t, err)
		require.Len(t, view.Homework, 1)
		assert.Equal(t, hw.ID, view.Homework[0].ID)
		assert.Nil(t, view.Completion)
	})

	t.Run("inactive lesson hidden from students", func(t *testing.T) {
		_, err := f.catalog.GetLesson(ctx, student, draft.ID)
		assert.ErrorIs(t, err, store.ErrLessonNotFound)
	})

	t.Run("teacher sees inactive lesson", func(t *testing.T) {
		view, err := f.catalog.GetLesson(ctx, teacher, draft.ID)
		require.NoError(t, err)
		assert.Equal(t, draft.ID, view.Lesson.ID)
	})

	t.Run("reviewer of another course", func(t *testing.T) {
		_, err := f.catalog.GetLesson(ctx, f.reviewer(t, true), first.ID)
		assert.ErrorIs(t, err, ErrNotCourseTeacher)
	})
}
