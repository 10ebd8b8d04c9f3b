package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/phrazzld/lms-api/internal/domain"
	"github.com/phrazzld/lms-api/internal/store"
)

// courseGuard decides whether an identity may manage a course's content,
// enrollments and homework.
type courseGuard struct {
	teaching store.TeachingStore
}

// authorize allows admins and approved reviewers assigned to the course.
func (g courseGuard) authorize(ctx context.Context, actor domain.Identity, courseID uuid.UUID) error {
	if actor.IsAdmin() {
		return nil
	}

	reviewer, err := actor.ActingReviewer()
	if err != nil {
		if errors.Is(err, domain.ErrReviewerProfileRequired) {
			return ErrNotCourseTeacher
		}
		return err
	}

	assigned, err := g.teaching.IsAssigned(ctx, reviewer.ID, courseID)
	if err != nil {
		return err
	}
	if !assigned {
		return ErrNotCourseTeacher
	}
	return nil
}

func requireAdmin(actor domain.Identity) error {
	if !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}
