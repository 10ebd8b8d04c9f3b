package service

import (
	"context"
	"testing"
	"time"

	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type homeworkSetup struct {
	f        *fixture
	teacher  domain.Identity
	student  domain.Identity
	course   *domain.Course
	lesson   *domain.Lesson
	homework *domain.Homework
}

func newHomeworkSetup(t *testing.T) homeworkSetup {
	t.Helper()
	ctx := context.Background()
	f := newFixture(t)
	teacher := f.reviewer(t, true)
	course := f.course(t, "Course", true, teacher.Reviewer)
	module := f.module(t, course.ID, 1)
	lesson := f.lesson(t, module.ID, 1, domain.LessonPractice, true)

	homework, err := f.homework.CreateHomework(ctx, teacher, lesson.ID, domain.HomeworkParams{Title: "Build a CLI", MaxScore: 50})
	require.NoError(t, err)

	student := f.student(t)
	f.enroll(student.Student.ID, course.ID, domain.EnrollmentActive, nil)

	return homeworkSetup{f: f, teacher: teacher, student: student, course: course, lesson: lesson, homework: homework}
}

func TestHomeworkService_CreateHomework(t *testing.T) {
	ctx := context.Background()
	s := newHomeworkSetup(t)

	assert.Equal(t, 50, s.homework.MaxScore)

	_, err := s.f.homework.CreateHomework(ctx, s.f.reviewer(t, true), s.lesson.ID, domain.HomeworkParams{Title: "X"})
	assert.ErrorIs(t, err, ErrNotCourseTeacher)

	lecture := s.f.lesson(t, s.lesson.ModuleID, 2, domain.LessonLecture, true)
	_, err = s.f.homework.CreateHomework(ctx, s.teacher, lecture.ID, domain.HomeworkParams{Title: "X"})
	assert.ErrorIs(t, err, domain.ErrLessonHasNoHomework)

	list, err := s.f.homework.ListHomework(ctx, s.lesson.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestHomeworkService_ReviewCycle(t *testing.T) {
	ctx := context.Background()
	s := newHomeworkSetup(t)

	sub, err := s.f.homework.Submit(ctx, s.student, s.homework.ID, SubmissionParams{Text: "my answer"})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionSubmitted, sub.Status)
	assert.Equal(t, domain.UrgencyNormal, sub.Urgency)
	assert.Nil(t, sub.Score)

	_, err = s.f.homework.Review(ctx, s.teacher, sub.ID, ReviewParams{Status: domain.SubmissionApproved})
	assert.ErrorIs(t, err, ErrNotAssignedReviewer, "unclaimed submissions cannot be reviewed")

	sub, err = s.f.homework.Claim(ctx, s.teacher, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionUnderReview, sub.Status)

	_, err = s.f.homework.Claim(ctx, s.teacher, sub.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.f.homework.Review(ctx, s.teacher, sub.ID, ReviewParams{Status: domain.SubmissionApproved, Score: intPtr(51)})
	assert.ErrorIs(t, err, domain.ErrInvalidSubmissionScore, "scores above the homework max are rejected")

	sub, err = s.f.homework.Review(ctx, s.teacher, sub.ID, ReviewParams{
		Status:   domain.SubmissionNeedsRevision,
		Score:    intPtr(20),
		Feedback: " add tests ",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionNeedsRevision, sub.Status)
	assert.Equal(t, "add tests", sub.Feedback)
	require.NotNil(t, sub.ReviewedAt)

	_, err = s.f.homework.Resubmit(ctx, s.f.student(t), sub.ID, SubmissionParams{Text: "not mine"})
	assert.ErrorIs(t, err, ErrNotSubmissionOwner)

	sub, err = s.f.homework.Resubmit(ctx, s.student, sub.ID, SubmissionParams{Text: "with tests"})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionResubmitted, sub.Status)
	assert.Nil(t, sub.Score)

	sub, err = s.f.homework.Claim(ctx, s.teacher, sub.ID)
	require.NoError(t, err)

	sub, err = s.f.homework.Review(ctx, s.f.admin(t), sub.ID, ReviewParams{Status: domain.SubmissionApproved, Score: intPtr(50)})
	require.NoError(t, err)
	assert.Equal(t, domain.SubmissionApproved, sub.Status)
	assert.Equal(t, 50, *sub.Score)

	_, err = s.f.homework.Resubmit(ctx, s.student, sub.ID, SubmissionParams{Text: "again"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestHomeworkService_ReviewTimeIsNeverBeforeSubmission(t *testing.T) {
	ctx := context.Background()
	s := newHomeworkSetup(t)
	svc := s.f.homework.(*homeworkService)

	sub, err := svc.Submit(ctx, s.student, s.homework.ID, SubmissionParams{Text: "answer"})
	require.NoError(t, err)
	_, err = svc.Claim(ctx, s.teacher, sub.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return sub.SubmittedAt.Add(-time.Hour) }
	_, err = svc.Review(ctx, s.teacher, sub.ID, ReviewParams{Status: domain.SubmissionRejected})
	assert.ErrorIs(t, err, domain.ErrReviewBeforeSubmission)
}

func TestHomeworkService_Permissions(t *testing.T) {
	ctx := context.Background()
	s := newHomeworkSetup(t)

	_, err := s.f.homework.Submit(ctx, s.f.student(t), s.homework.ID, SubmissionParams{Text: "x"})
	assert.ErrorIs(t, err, ErrNotEnrolled)

	_, err = s.f.homework.Submit(ctx, s.student, s.homework.ID, SubmissionParams{})
	assert.ErrorIs(t, err, domain.ErrEmptySubmission)

	_, err = s.f.homework.Submit(ctx, s.teacher, s.homework.ID, SubmissionParams{Text: "x"})
	assert.ErrorIs(t, err, domain.ErrStudentProfileRequired)

	sub, err := s.f.homework.Submit(ctx, s.student, s.homework.ID, SubmissionParams{Text: "x", Urgency: domain.UrgencyHigh})
	require.NoError(t, err)

	_, err = s.f.homework.Claim(ctx, s.f.reviewer(t, true), sub.ID)
	assert.ErrorIs(t, err, ErrNotCourseTeacher)

	_, err = s.f.homework.Claim(ctx, s.f.reviewer(t, false), sub.ID)
	assert.ErrorIs(t, err, domain.ErrReviewerNotApproved)

	_, err = s.f.homework.Claim(ctx, s.teacher, sub.ID)
	require.NoError(t, err)

	coTeacher := s.f.reviewer(t, true)
	s.f.db.teaching = append(s.f.db.teaching, *domain.NewTeacherCourse(coTeacher.Reviewer.ID, s.course.ID, false))

	_, err = s.f.homework.Review(ctx, coTeacher, sub.ID, ReviewParams{Status: domain.SubmissionApproved})
	assert.ErrorIs(t, err, ErrNotAssignedReviewer)

	_, err = s.f.homework.Claim(ctx, s.teacher, sub.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.f.homework.Review(ctx, s.teacher, sub.ID, ReviewParams{Status: domain.SubmissionResubmitted})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = s.f.homework.Claim(ctx, s.teacher, s.homework.ID)
	assert.ErrorIs(t, err, store.ErrSubmissionNotFound)
}
