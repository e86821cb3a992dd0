package services

import (
	"context"
	"time"

	"renewal-review-api/models"
)

// Store interfaces consumed by the workflow engine. The MySQL-backed
// implementations live in store_gorm.go; tests substitute in-memory fakes.

// AssessmentFilter narrows assessment listings.
type AssessmentFilter struct {
	ProductID    int
	ReviewStatus string
}

// DecisionFilter narrows decision listings.
type DecisionFilter struct {
	ProductID int
	Status    string
}

type ProductStore interface {
	GetByID(ctx context.Context, id int) (*models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

type AssessmentStore interface {
	Create(ctx context.Context, a *models.Assessment) error
	GetByID(ctx context.Context, id int) (*models.Assessment, error)
	List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error)
	ListByProduct(ctx context.Context, productID int) ([]models.Assessment, error)
	Save(ctx context.Context, a *models.Assessment) error
	Delete(ctx context.Context, id int) error
}

type SubmitterStore interface {
	// RecordSubmission upserts the profile keyed by email, incrementing its
	// submission counter and bumping the last-submission timestamp.
	RecordSubmission(ctx context.Context, email, name, orgUnits, division string, at time.Time) error
}

type DecisionStore interface {
	GetByID(ctx context.Context, id int) (*models.Decision, error)
	GetByProduct(ctx context.Context, productID int) (*models.Decision, error)
	List(ctx context.Context, filter DecisionFilter) ([]models.Decision, error)
	// Upsert inserts the decision or, when a row for the product already
	// exists, refreshes only the aggregate count columns. Keying on the
	// product reference keeps concurrent first submissions from creating
	// duplicate rows.
	Upsert(ctx context.Context, d *models.Decision) error
	Save(ctx context.Context, d *models.Decision) error
	Delete(ctx context.Context, id int) error
}

// Notifier delivers the best-effort submission notification.
type Notifier interface {
	AssessmentReceived(a *models.Assessment, p *models.Product) error
}

// SummaryProvider turns a prompt into executive-summary text. It fails
// closed: any provider problem surfaces as an error and nothing is written.
type SummaryProvider interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}
