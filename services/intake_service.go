package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"renewal-review-api/models"
	"renewal-review-api/utils"
)

// SubmitRequest is the raw intake payload for one assessment.
type SubmitRequest struct {
	ProductID      int      `json:"product_id" binding:"required"`
	SubmitterEmail string   `json:"submitter_email" binding:"required"`
	SubmitterName  string   `json:"submitter_name" binding:"required"`
	OrgUnits       []string `json:"org_units"`
	Division       string   `json:"division"`
	Recommendation string   `json:"recommendation" binding:"required"`
	Justification  string   `json:"justification"`

	UsageFrequency         *string  `json:"usage_frequency"`
	PrimaryUseCases        *string  `json:"primary_use_cases"`
	LearningImpact         *string  `json:"learning_impact"`
	WorkflowIntegration    *string  `json:"workflow_integration"`
	AlternativesConsidered *string  `json:"alternatives_considered"`
	UniqueValue            *string  `json:"unique_value"`
	StakeholderFeedback    *string  `json:"stakeholder_feedback"`
	ProposedChanges        *string  `json:"proposed_changes"`
	ProposedCost           *float64 `json:"proposed_cost"`
	ProposedLicenses       *int     `json:"proposed_licenses"`
}

// IntakeService validates public submissions, snapshots product terms onto
// them and hands the follow-up work (aggregate recompute, notification) to
// the background queue. The submitter gets success as soon as their own row
// is durably written.
type IntakeService struct {
	Products    ProductStore
	Assessments AssessmentStore
	Submitters  SubmitterStore
	Decisions   *DecisionService
	Notifier    Notifier
	Queue       *TaskQueue

	// EmailDomain is the institutional suffix submissions must carry,
	// e.g. "@school.edu".
	EmailDomain string
}

// Submit validates and stores one assessment. Every rejection happens
// before any write.
func (s *IntakeService) Submit(ctx context.Context, req SubmitRequest) (*models.Assessment, error) {
	product, err := s.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if product.IsRetired {
		return nil, validationf("product %d is retired and no longer accepts assessments", product.ProductID)
	}

	email := strings.ToLower(strings.TrimSpace(req.SubmitterEmail))
	if !utils.IsInstitutionalEmail(email, s.EmailDomain) {
		return nil, validationf("submitter email must belong to %s", s.EmailDomain)
	}
	if !models.ValidRecommendation(req.Recommendation) {
		return nil, validationf("invalid recommendation %q", req.Recommendation)
	}
	if strings.TrimSpace(req.Justification) == "" {
		return nil, validationf("justification is required")
	}

	name := strings.TrimSpace(req.SubmitterName)
	orgUnits := utils.JoinOrgUnits(req.OrgUnits)
	division := strings.TrimSpace(req.Division)
	if name == "" {
		return nil, validationf("submitter name is required")
	}
	if orgUnits == "" {
		return nil, validationf("at least one organizational unit is required")
	}
	if division == "" {
		return nil, validationf("division is required")
	}

	now := time.Now()
	assessment := &models.Assessment{
		Reference:      uuid.NewString(),
		ProductID:      product.ProductID,
		SubmitterEmail: email,
		SubmitterName:  name,
		OrgUnits:       orgUnits,
		Division:       division,
		Recommendation: req.Recommendation,
		Justification:  strings.TrimSpace(req.Justification),

		UsageFrequency:         req.UsageFrequency,
		PrimaryUseCases:        req.PrimaryUseCases,
		LearningImpact:         req.LearningImpact,
		WorkflowIntegration:    req.WorkflowIntegration,
		AlternativesConsidered: req.AlternativesConsidered,
		UniqueValue:            req.UniqueValue,
		StakeholderFeedback:    req.StakeholderFeedback,
		ProposedChanges:        req.ProposedChanges,
		ProposedCost:           req.ProposedCost,
		ProposedLicenses:       req.ProposedLicenses,

		RenewalDateAtSubmission:  product.RenewalDate,
		AnnualCostAtSubmission:   product.AnnualCost,
		LicenseCountAtSubmission: product.LicenseCount,

		SubmittedAt:  now,
		ReviewStatus: models.AssessmentReviewPending,
	}
	if err := s.Assessments.Create(ctx, assessment); err != nil {
		return nil, err
	}

	// The profile counter follows the assessment insert so a failed insert
	// cannot leave the counter drifted from the rows it counts. Once the
	// assessment is durable the request must not fail: a retry would
	// duplicate the submission, so a missed counter bump is only logged.
	if err := s.Submitters.RecordSubmission(ctx, email, name, orgUnits, division, now); err != nil {
		log.Printf("Failed to update submitter profile for %s: %v", email, err)
	}

	s.enqueueFollowUp(assessment, product)
	return assessment, nil
}

// enqueueFollowUp schedules the aggregate recompute and the notification.
// Both are best-effort relative to the intake response; failures land in the
// log, never on the submitter.
func (s *IntakeService) enqueueFollowUp(assessment *models.Assessment, product *models.Product) {
	if s.Queue == nil {
		return
	}

	productID := product.ProductID
	s.Queue.Enqueue(fmt.Sprintf("recompute decision for product %d", productID), func(ctx context.Context) error {
		_, err := s.Decisions.Refresh(ctx, productID)
		return err
	})

	if s.Notifier != nil {
		a := *assessment
		p := *product
		s.Queue.Enqueue(fmt.Sprintf("notify assessment %s", assessment.Reference), func(ctx context.Context) error {
			return s.Notifier.AssessmentReceived(&a, &p)
		})
	}
}
