package services

import (
	"context"
	"time"

	"renewal-review-api/models"
)

// ReviewUpdate is the reviewer PATCH surface on one assessment. Only the
// review-state fields appear here; recommendation, justification and the
// snapshot fields are write-once.
type ReviewUpdate struct {
	ReviewStatus  *string `json:"review_status"`
	AdminNotes    *string `json:"admin_notes"`
	OutcomeNotes  *string `json:"outcome_notes"`
	FinalDecision *string `json:"final_decision"`
}

// AssessmentService serves reads over individual assessments and the
// role-gated review mutations.
type AssessmentService struct {
	Assessments AssessmentStore
}

func (s *AssessmentService) Get(ctx context.Context, id int) (*models.Assessment, error) {
	return s.Assessments.GetByID(ctx, id)
}

func (s *AssessmentService) List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error) {
	return s.Assessments.List(ctx, filter)
}

// Review applies a reviewer-or-above update to the review-state fields of
// one assessment and stamps the reviewer identity.
func (s *AssessmentService) Review(ctx context.Context, caller Caller, id int, update ReviewUpdate) (*models.Assessment, error) {
	if err := requireRole(caller, models.RoleReviewer, "review assessment"); err != nil {
		return nil, err
	}

	if update.ReviewStatus != nil {
		switch *update.ReviewStatus {
		case models.AssessmentReviewPending, models.AssessmentReviewReviewed, models.AssessmentReviewFlagged:
		default:
			return nil, validationf("invalid review status %q", *update.ReviewStatus)
		}
	}
	if update.FinalDecision != nil && !models.ValidRecommendation(*update.FinalDecision) {
		return nil, validationf("invalid final decision %q", *update.FinalDecision)
	}

	assessment, err := s.Assessments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.ReviewStatus != nil {
		assessment.ReviewStatus = *update.ReviewStatus
	}
	if update.AdminNotes != nil {
		assessment.AdminNotes = update.AdminNotes
	}
	if update.OutcomeNotes != nil {
		assessment.OutcomeNotes = update.OutcomeNotes
	}
	if update.FinalDecision != nil {
		assessment.FinalDecision = update.FinalDecision
	}

	now := time.Now()
	assessment.ReviewedBy = &caller.UserID
	assessment.ReviewedAt = &now

	if err := s.Assessments.Save(ctx, assessment); err != nil {
		return nil, err
	}
	return assessment, nil
}

// Delete hard-deletes one assessment. Admin only; the aggregate for its
// product must be recomputed by the caller afterwards.
func (s *AssessmentService) Delete(ctx context.Context, caller Caller, id int) (int, error) {
	if err := requireRole(caller, models.RoleAdmin, "delete assessment"); err != nil {
		return 0, err
	}
	assessment, err := s.Assessments.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	if err := s.Assessments.Delete(ctx, id); err != nil {
		return 0, err
	}
	return assessment.ProductID, nil
}
