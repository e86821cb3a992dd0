package models

import (
	"time"
)

// Recommendation values accepted on an assessment. The enum is closed; the
// intake validator rejects anything else before it reaches storage.
const (
	RecommendRenew            = "renew"
	RecommendRenewWithChanges = "renew_with_changes"
	RecommendReplace          = "replace"
	RecommendRetire           = "retire"
)

// Recommendations lists the enum members in aggregation order.
var Recommendations = []string{
	RecommendRenew,
	RecommendRenewWithChanges,
	RecommendReplace,
	RecommendRetire,
}

// ValidRecommendation reports whether value is a member of the enum.
func ValidRecommendation(value string) bool {
	for _, r := range Recommendations {
		if value == r {
			return true
		}
	}
	return false
}

// Review status values assigned by reviewers on individual assessments.
const (
	AssessmentReviewPending  = "pending"
	AssessmentReviewReviewed = "reviewed"
	AssessmentReviewFlagged  = "flagged"
)

// Assessment is one person's opinion about one product. The recommendation,
// justification and snapshot fields are write-once: only the review fields
// may change after creation, and only through the reviewer PATCH path.
type Assessment struct {
	AssessmentID int    `gorm:"primaryKey;column:assessment_id" json:"assessment_id"`
	Reference    string `gorm:"column:reference;unique" json:"reference"`
	ProductID    int    `gorm:"column:product_id" json:"product_id"`

	// Submitter identity
	SubmitterEmail string `gorm:"column:submitter_email" json:"submitter_email"`
	SubmitterName  string `gorm:"column:submitter_name" json:"submitter_name"`
	OrgUnits       string `gorm:"column:org_units" json:"org_units"`
	Division       string `gorm:"column:division" json:"division"`

	// Content
	Recommendation         string   `gorm:"column:recommendation" json:"recommendation"`
	Justification          string   `gorm:"column:justification" json:"justification"`
	UsageFrequency         *string  `gorm:"column:usage_frequency" json:"usage_frequency,omitempty"`
	PrimaryUseCases        *string  `gorm:"column:primary_use_cases" json:"primary_use_cases,omitempty"`
	LearningImpact         *string  `gorm:"column:learning_impact" json:"learning_impact,omitempty"`
	WorkflowIntegration    *string  `gorm:"column:workflow_integration" json:"workflow_integration,omitempty"`
	AlternativesConsidered *string  `gorm:"column:alternatives_considered" json:"alternatives_considered,omitempty"`
	UniqueValue            *string  `gorm:"column:unique_value" json:"unique_value,omitempty"`
	StakeholderFeedback    *string  `gorm:"column:stakeholder_feedback" json:"stakeholder_feedback,omitempty"`
	ProposedChanges        *string  `gorm:"column:proposed_changes" json:"proposed_changes,omitempty"`
	ProposedCost           *float64 `gorm:"column:proposed_cost" json:"proposed_cost,omitempty"`
	ProposedLicenses       *int     `gorm:"column:proposed_licenses" json:"proposed_licenses,omitempty"`

	// Product terms captured at submission time. Later edits to the product
	// record must not change what this assessment was evaluating.
	RenewalDateAtSubmission  *time.Time `gorm:"column:renewal_date_at_submission" json:"renewal_date_at_submission,omitempty"`
	AnnualCostAtSubmission   float64    `gorm:"column:annual_cost_at_submission" json:"annual_cost_at_submission"`
	LicenseCountAtSubmission int        `gorm:"column:license_count_at_submission" json:"license_count_at_submission"`

	SubmittedAt time.Time `gorm:"column:submitted_at" json:"submitted_at"`

	// Review fields, set only by reviewer-or-above actions
	ReviewStatus  string     `gorm:"column:review_status" json:"review_status"`
	AdminNotes    *string    `gorm:"column:admin_notes" json:"admin_notes,omitempty"`
	ReviewedBy    *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	OutcomeNotes  *string    `gorm:"column:outcome_notes" json:"outcome_notes,omitempty"`
	FinalDecision *string    `gorm:"column:final_decision" json:"final_decision,omitempty"`

	// Relations
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}
