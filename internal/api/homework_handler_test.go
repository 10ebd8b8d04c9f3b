package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/mocks"
	"github.com/phrazzld/lms-api/internal/service"
	"github.com/phrazzld/lms-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomeworkHandler_CreateAndList(t *testing.T) {
	lessonID := uuid.New()
	var created []domain.Homework
	hw := &mocks.MockHomeworkService{
		CreateHomeworkFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID, p domain.HomeworkParams) (*domain.Homework, error) {
			h := domain.Homework{ID: uuid.New(), LessonID: id, Title: p.Title, MaxScore: p.MaxScore}
			created = append(created, h)
			return &h, nil
		},
		ListHomeworkFn: func(ctx context.Context, id uuid.UUID) ([]domain.Homework, error) {
			return created, nil
		},
	}
	h := NewHomeworkHandler(hw, nil)
	req := func(method string, body any) *http.Request {
		r := asActor(newRequest(t, method, "/", body), reviewerActor(true))
		return withURLParams(r, map[string]string{"id": lessonID.String()})
	}

	w := serve(h.ListHomework, req(http.MethodGet, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = serve(h.CreateHomework, req(http.MethodPost, map[string]any{"title": "Write a parser", "max_score": 20}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 20, decodeResponse[domain.Homework](t, w).MaxScore)

	w = serve(h.CreateHomework, req(http.MethodPost, map[string]any{"title": "Too generous", "max_score": 5000}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "max_score", errorBody(t, w).Field)

	w = serve(h.ListHomework, req(http.MethodGet, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeResponse[[]domain.Homework](t, w), 1)
}

func TestHomeworkHandler_Submit(t *testing.T) {
	homeworkID := uuid.New()
	var got service.SubmissionParams
	hw := &mocks.MockHomeworkService{
		SubmitFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID, p service.SubmissionParams) (*domain.HomeworkSubmission, error) {
			if p.Text == "" && p.AttachmentURL == "" {
				return nil, domain.ErrEmptySubmission
			}
			got = p
			return &domain.HomeworkSubmission{ID: uuid.New(), HomeworkID: id, Status: domain.SubmissionSubmitted, Urgency: p.Urgency}, nil
		},
	}
	h := NewHomeworkHandler(hw, nil)
	req := func(body any) *http.Request {
		r := asActor(newRequest(t, http.MethodPost, "/", body), studentActor())
		return withURLParams(r, map[string]string{"id": homeworkID.String()})
	}

	w := serve(h.Submit, req(map[string]any{"submission_text": "done", "urgency": "high"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decodeResponse[domain.HomeworkSubmission](t, w)
	assert.Equal(t, domain.SubmissionSubmitted, sub.Status)
	assert.Equal(t, domain.UrgencyHigh, got.Urgency)

	w = serve(h.Submit, req(map[string]any{}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h.Submit, req(map[string]any{"submission_text": "x", "urgency": "whenever"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "urgency", errorBody(t, w).Field)

	w = serve(h.Submit, req(map[string]any{"attachment_url": "not a url"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "attachment_url", errorBody(t, w).Field)
}

func TestHomeworkHandler_ReviewWorkflow(t *testing.T) {
	subID := uuid.New()
	teacher := reviewerActor(true)
	hw := &mocks.MockHomeworkService{
		ClaimFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID) (*domain.HomeworkSubmission, error) {
			if actor.AccountID() != teacher.AccountID() {
				return nil, service.ErrNotCourseTeacher
			}
			return &domain.HomeworkSubmission{ID: id, Status: domain.SubmissionUnderReview, ReviewerID: &teacher.Reviewer.ID}, nil
		},
		ReviewFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID, p service.ReviewParams) (*domain.HomeworkSubmission, error) {
			if p.Score != nil && *p.Score > 10 {
				return nil, domain.ErrInvalidSubmissionScore
			}
			return &domain.HomeworkSubmission{ID: id, Status: p.Status, Score: p.Score, Feedback: p.Feedback}, nil
		},
		ResubmitFn: func(ctx context.Context, actor domain.Identity, id uuid.UUID, p service.SubmissionParams) (*domain.HomeworkSubmission, error) {
			return nil, domain.ErrInvalidTransition
		},
	}
	h := NewHomeworkHandler(hw, nil)
	req := func(actor domain.Identity, body any) *http.Request {
		r := asActor(newRequest(t, http.MethodPost, "/", body), actor)
		return withURLParams(r, map[string]string{"id": subID.String()})
	}

	w := serve(h.Claim, req(reviewerActor(true), nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(h.Claim, req(teacher, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.SubmissionUnderReview, decodeResponse[domain.HomeworkSubmission](t, w).Status)

	w = serve(h.Review, req(teacher, map[string]any{"status": "approved", "score": 9, "feedback": "nice"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	reviewed := decodeResponse[domain.HomeworkSubmission](t, w)
	assert.Equal(t, domain.SubmissionApproved, reviewed.Status)
	assert.Equal(t, 9, *reviewed.Score)

	w = serve(h.Review, req(teacher, map[string]any{"status": "approved", "score": 11}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(h.Review, req(teacher, map[string]any{"status": "under_review"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status", errorBody(t, w).Field)

	w = serve(h.Resubmit, req(studentActor(), map[string]any{"submission_text": "again"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "status transition not allowed", errorBody(t, w).Error)

	w = serve(h.Claim, withURLParams(asActor(newRequest(t, http.MethodPost, "/", nil), teacher), map[string]string{"id": "x"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	hw.ClaimFn = func(ctx context.Context, actor domain.Identity, id uuid.UUID) (*domain.HomeworkSubmission, error) {
		return nil, store.ErrSubmissionNotFound
	}
	w = serve(h.Claim, req(teacher, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
