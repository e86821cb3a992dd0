package services

import (
	"context"
	"errors"
	"log"
	"time"

	"renewal-review-api/models"
)

var errProviderNotConfigured = errors.New("generative-text provider is not configured")

// Decision PATCH actions.
const (
	ActionTicReview        = "tic_review"
	ActionGenerateSummary  = "generate_summary"
	ActionDirectorDecision = "director_decision"
	ActionImplement        = "implement"
	ActionAdminEdit        = "admin_edit"
)

// DecisionService owns the per-product aggregate row, its status and the
// role-gated transitions between statuses.
type DecisionService struct {
	Products    ProductStore
	Assessments AssessmentStore
	Decisions   DecisionStore

	// Summaries is nil when no generative-text provider is configured;
	// summary generation then fails with a DependencyError.
	Summaries      SummaryProvider
	SummaryTimeout time.Duration
}

// ActionRequest is the payload of the action-discriminated decision PATCH.
type ActionRequest struct {
	Action string `json:"action" binding:"required"`

	// tic_review
	Recommendation string `json:"recommendation"`
	Comment        string `json:"comment"`

	// director_decision
	FinalDecision string `json:"final_decision"`
	DecisionTerms string `json:"decision_terms"`

	// admin_edit
	Edit *AdminEdit `json:"edit"`
}

// AdminEdit is the admin-only correction surface. There is no backward
// transition in the workflow; an admin fixes mistakes by editing fields
// directly.
type AdminEdit struct {
	Status                 *string `json:"status"`
	Summary                *string `json:"summary"`
	ReviewerRecommendation *string `json:"reviewer_recommendation"`
	ReviewerComment        *string `json:"reviewer_comment"`
	FinalDecision          *string `json:"final_decision"`
	DecisionTerms          *string `json:"decision_terms"`
}

// Refresh recomputes the aggregate for a product and upserts the decision
// row. It never moves the status: feedback arriving after the review has
// advanced updates the counts only. The write always goes through the
// counts-only upsert, never a full-row save, so a recompute racing a
// reviewer transition cannot write its stale read over the transition.
func (s *DecisionService) Refresh(ctx context.Context, productID int) (*models.Decision, error) {
	if _, err := s.Products.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	assessments, err := s.Assessments.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	agg := ComputeAggregate(assessments)

	decision := &models.Decision{
		ProductID: productID,
		Status:    models.StatusCollecting,
	}
	agg.Apply(decision)
	if err := s.Decisions.Upsert(ctx, decision); err != nil {
		return nil, err
	}

	// Re-read so callers get the authoritative row, not the insert
	// template; an existing row keeps its status and review fields.
	return s.Decisions.GetByProduct(ctx, productID)
}

// CreateOrRefresh is the idempotent POST entry point. With generateSummary
// set it synchronously invokes the synthesizer before returning, which
// requires reviewer role.
func (s *DecisionService) CreateOrRefresh(ctx context.Context, caller Caller, productID int, generateSummary bool) (*models.Decision, error) {
	decision, err := s.Refresh(ctx, productID)
	if err != nil {
		return nil, err
	}
	if generateSummary {
		if err := s.generateSummary(ctx, caller, decision); err != nil {
			return decision, err
		}
	}
	return decision, nil
}

// Get returns one decision by id.
func (s *DecisionService) Get(ctx context.Context, id int) (*models.Decision, error) {
	return s.Decisions.GetByID(ctx, id)
}

// List returns decisions matching the filter.
func (s *DecisionService) List(ctx context.Context, filter DecisionFilter) ([]models.Decision, error) {
	return s.Decisions.List(ctx, filter)
}

// Act dispatches an action-discriminated PATCH against one decision. Role
// and state guards run before any persistence; a rejected action mutates
// nothing.
func (s *DecisionService) Act(ctx context.Context, caller Caller, id int, req ActionRequest) (*models.Decision, error) {
	decision, err := s.Decisions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case ActionGenerateSummary:
		if err := s.generateSummary(ctx, caller, decision); err != nil {
			return nil, err
		}
	case ActionTicReview:
		if err := s.ticReview(ctx, caller, decision, req.Recommendation, req.Comment); err != nil {
			return nil, err
		}
	case ActionDirectorDecision:
		if err := s.directorDecision(ctx, caller, decision, req.FinalDecision, req.DecisionTerms); err != nil {
			return nil, err
		}
	case ActionImplement:
		if err := s.implement(ctx, caller, decision); err != nil {
			return nil, err
		}
	case ActionAdminEdit:
		if err := s.adminEdit(ctx, caller, decision, req.Edit); err != nil {
			return nil, err
		}
	default:
		return nil, validationf("unknown action %q", req.Action)
	}
	return decision, nil
}

// Purge removes a decision row entirely. Admin only.
func (s *DecisionService) Purge(ctx context.Context, caller Caller, id int) error {
	if err := requireRole(caller, models.RoleAdmin, "purge decision"); err != nil {
		return err
	}
	if _, err := s.Decisions.GetByID(ctx, id); err != nil {
		return err
	}
	return s.Decisions.Delete(ctx, id)
}

// generateSummary synthesizes the executive summary and advances the status
// toward assessor_review. A decision already past assessor_review keeps its
// status; regeneration only replaces the text. On any provider failure the
// decision is left exactly as it was.
func (s *DecisionService) generateSummary(ctx context.Context, caller Caller, d *models.Decision) error {
	if err := requireRole(caller, models.RoleReviewer, ActionGenerateSummary); err != nil {
		return err
	}
	if s.Summaries == nil {
		return &DependencyError{Op: "generate summary", Err: errProviderNotConfigured}
	}

	product, err := s.Products.GetByID(ctx, d.ProductID)
	if err != nil {
		return err
	}
	assessments, err := s.Assessments.ListByProduct(ctx, d.ProductID)
	if err != nil {
		return err
	}
	if len(assessments) == 0 {
		return validationf("no assessments to summarize for product %d", d.ProductID)
	}

	prior := d.Status
	transient := models.StatusRank(prior) < models.StatusRank(models.StatusSummarizing)
	if transient {
		d.Status = models.StatusSummarizing
		if err := s.Decisions.Save(ctx, d); err != nil {
			d.Status = prior
			return err
		}
	}

	timeout := s.SummaryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := s.Summaries.Summarize(callCtx, BuildSummaryPrompt(product, assessments))
	if err != nil {
		if transient {
			d.Status = prior
			if saveErr := s.Decisions.Save(ctx, d); saveErr != nil {
				log.Printf("Failed to restore decision %d status after summary failure: %v", d.DecisionID, saveErr)
			}
		}
		return &DependencyError{Op: "generate summary", Err: err}
	}

	now := time.Now()
	d.Summary = &text
	d.SummaryGeneratedAt = &now
	if models.StatusRank(prior) < models.StatusRank(models.StatusAssessorReview) {
		d.Status = models.StatusAssessorReview
	} else {
		d.Status = prior
	}
	return s.Decisions.Save(ctx, d)
}

// ticReview records the reviewer recommendation and moves the decision into
// final_review.
func (s *DecisionService) ticReview(ctx context.Context, caller Caller, d *models.Decision, recommendation, comment string) error {
	if err := requireRole(caller, models.RoleReviewer, ActionTicReview); err != nil {
		return err
	}
	if recommendation == "" {
		return validationf("reviewer recommendation is required")
	}
	if !models.ValidRecommendation(recommendation) {
		return validationf("invalid reviewer recommendation %q", recommendation)
	}
	if d.Status != models.StatusAssessorReview {
		return conflictf("tic_review requires status %s (decision is %s)", models.StatusAssessorReview, d.Status)
	}

	now := time.Now()
	d.ReviewerRecommendation = &recommendation
	if comment != "" {
		d.ReviewerComment = &comment
	}
	d.ReviewedBy = &caller.UserID
	d.ReviewedAt = &now
	d.Status = models.StatusFinalReview
	return s.Decisions.Save(ctx, d)
}

// directorDecision records the binding call and moves the decision into
// decided.
func (s *DecisionService) directorDecision(ctx context.Context, caller Caller, d *models.Decision, finalDecision, terms string) error {
	if err := requireRole(caller, models.RoleApprover, ActionDirectorDecision); err != nil {
		return err
	}
	if finalDecision == "" {
		return validationf("final decision is required")
	}
	if !models.ValidRecommendation(finalDecision) {
		return validationf("invalid final decision %q", finalDecision)
	}
	if d.Status != models.StatusFinalReview {
		return conflictf("director_decision requires status %s (decision is %s)", models.StatusFinalReview, d.Status)
	}

	now := time.Now()
	d.FinalDecision = &finalDecision
	if terms != "" {
		d.DecisionTerms = &terms
	}
	d.DecidedBy = &caller.UserID
	d.DecidedAt = &now
	d.Status = models.StatusDecided
	return s.Decisions.Save(ctx, d)
}

// implement marks the decided outcome as executed.
func (s *DecisionService) implement(ctx context.Context, caller Caller, d *models.Decision) error {
	if err := requireRole(caller, models.RoleAdmin, ActionImplement); err != nil {
		return err
	}
	if d.Status != models.StatusDecided {
		return conflictf("implement requires status %s (decision is %s)", models.StatusDecided, d.Status)
	}

	now := time.Now()
	d.ImplementedBy = &caller.UserID
	d.ImplementedAt = &now
	d.Status = models.StatusImplemented
	return s.Decisions.Save(ctx, d)
}

// adminEdit applies direct field overrides without a transition.
func (s *DecisionService) adminEdit(ctx context.Context, caller Caller, d *models.Decision, edit *AdminEdit) error {
	if err := requireRole(caller, models.RoleAdmin, ActionAdminEdit); err != nil {
		return err
	}
	if edit == nil {
		return validationf("admin_edit requires an edit payload")
	}
	if edit.Status != nil {
		if !models.ValidStatus(*edit.Status) {
			return validationf("invalid status %q", *edit.Status)
		}
		d.Status = *edit.Status
	}
	if edit.Summary != nil {
		d.Summary = edit.Summary
	}
	if edit.ReviewerRecommendation != nil {
		if !models.ValidRecommendation(*edit.ReviewerRecommendation) {
			return validationf("invalid reviewer recommendation %q", *edit.ReviewerRecommendation)
		}
		d.ReviewerRecommendation = edit.ReviewerRecommendation
	}
	if edit.ReviewerComment != nil {
		d.ReviewerComment = edit.ReviewerComment
	}
	if edit.FinalDecision != nil {
		if !models.ValidRecommendation(*edit.FinalDecision) {
			return validationf("invalid final decision %q", *edit.FinalDecision)
		}
		d.FinalDecision = edit.FinalDecision
	}
	if edit.DecisionTerms != nil {
		d.DecisionTerms = edit.DecisionTerms
	}
	return s.Decisions.Save(ctx, d)
}
