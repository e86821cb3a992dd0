package models

import (
	"time"
)

// Decision lifecycle statuses, in workflow order. Statuses only ever move
// forward through the public transition actions; corrections happen through
// admin-only direct edits, never a backward transition.
const (
	StatusCollecting     = "collecting"
	StatusSummarizing    = "summarizing"
	StatusAssessorReview = "assessor_review"
	StatusFinalReview    = "final_review"
	StatusDecided        = "decided"
	StatusImplemented    = "implemented"
)

var statusRank = map[string]int{
	StatusCollecting:     0,
	StatusSummarizing:    1,
	StatusAssessorReview: 2,
	StatusFinalReview:    3,
	StatusDecided:        4,
	StatusImplemented:    5,
}

// StatusRank returns the ordering position of a decision status, or -1 for
// an unknown value.
func StatusRank(status string) int {
	rank, ok := statusRank[status]
	if !ok {
		return -1
	}
	return rank
}

// ValidStatus reports whether status is a known lifecycle value.
func ValidStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

// Decision is the single aggregate row per product. The counts are derived
// by full recompute over the product's assessments, never incremented.
type Decision struct {
	DecisionID int `gorm:"primaryKey;column:decision_id" json:"decision_id"`
	ProductID  int `gorm:"column:product_id;unique" json:"product_id"`

	// Aggregate counts
	TotalSubmissions      int `gorm:"column:total_submissions" json:"total_submissions"`
	RenewCount            int `gorm:"column:renew_count" json:"renew_count"`
	RenewWithChangesCount int `gorm:"column:renew_with_changes_count" json:"renew_with_changes_count"`
	ReplaceCount          int `gorm:"column:replace_count" json:"replace_count"`
	RetireCount           int `gorm:"column:retire_count" json:"retire_count"`

	// Synthesized narrative
	Summary            *string    `gorm:"column:summary" json:"summary,omitempty"`
	SummaryGeneratedAt *time.Time `gorm:"column:summary_generated_at" json:"summary_generated_at,omitempty"`

	// Reviewer (TIC) stage
	ReviewerRecommendation *string    `gorm:"column:reviewer_recommendation" json:"reviewer_recommendation,omitempty"`
	ReviewerComment        *string    `gorm:"column:reviewer_comment" json:"reviewer_comment,omitempty"`
	ReviewedBy             *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt             *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`

	// Approver stage
	FinalDecision *string    `gorm:"column:final_decision" json:"final_decision,omitempty"`
	DecisionTerms *string    `gorm:"column:decision_terms" json:"decision_terms,omitempty"`
	DecidedBy     *int       `gorm:"column:decided_by" json:"decided_by,omitempty"`
	DecidedAt     *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`

	// Implementation stage
	ImplementedBy *int       `gorm:"column:implemented_by" json:"implemented_by,omitempty"`
	ImplementedAt *time.Time `gorm:"column:implemented_at" json:"implemented_at,omitempty"`

	Status   string     `gorm:"column:status" json:"status"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`

	// Relations
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Decision) TableName() string {
	return "decisions"
}

// CountFor returns the aggregate count column matching a recommendation.
func (d *Decision) CountFor(recommendation string) int {
	switch recommendation {
	case RecommendRenew:
		return d.RenewCount
	case RecommendRenewWithChanges:
		return d.RenewWithChangesCount
	case RecommendReplace:
		return d.ReplaceCount
	case RecommendRetire:
		return d.RetireCount
	default:
		return 0
	}
}
