package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"renewal-review-api/models"
)

// MySQL-backed stores. Each wraps the shared GORM handle and maps
// gorm.ErrRecordNotFound onto the service-level NotFoundError.

type productDB struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) ProductStore {
	return &productDB{db: db}
}

func (s *productDB) GetByID(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND delete_at IS NULL", id).
		First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "product", ID: id}
		}
		return nil, &DependencyError{Op: "load product", Err: err}
	}
	return &product, nil
}

func (s *productDB) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Where("delete_at IS NULL").
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, &DependencyError{Op: "list products", Err: err}
	}
	return products, nil
}

type assessmentDB struct {
	db *gorm.DB
}

func NewAssessmentStore(db *gorm.DB) AssessmentStore {
	return &assessmentDB{db: db}
}

func (s *assessmentDB) Create(ctx context.Context, a *models.Assessment) error {
	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		return &DependencyError{Op: "create assessment", Err: err}
	}
	return nil
}

func (s *assessmentDB) GetByID(ctx context.Context, id int) (*models.Assessment, error) {
	var assessment models.Assessment
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("assessment_id = ?", id).
		First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "assessment", ID: id}
		}
		return nil, &DependencyError{Op: "load assessment", Err: err}
	}
	return &assessment, nil
}

func (s *assessmentDB) List(ctx context.Context, filter AssessmentFilter) ([]models.Assessment, error) {
	query := s.db.WithContext(ctx).Preload("Product")
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.ReviewStatus != "" {
		query = query.Where("review_status = ?", filter.ReviewStatus)
	}

	var assessments []models.Assessment
	if err := query.Order("submitted_at DESC").Find(&assessments).Error; err != nil {
		return nil, &DependencyError{Op: "list assessments", Err: err}
	}
	return assessments, nil
}

func (s *assessmentDB) ListByProduct(ctx context.Context, productID int) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("submitted_at ASC").
		Find(&assessments).Error
	if err != nil {
		return nil, &DependencyError{Op: "list assessments", Err: err}
	}
	return assessments, nil
}

func (s *assessmentDB) Save(ctx context.Context, a *models.Assessment) error {
	if err := s.db.WithContext(ctx).Save(a).Error; err != nil {
		return &DependencyError{Op: "save assessment", Err: err}
	}
	return nil
}

func (s *assessmentDB) Delete(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Delete(&models.Assessment{}, "assessment_id = ?", id).Error; err != nil {
		return &DependencyError{Op: "delete assessment", Err: err}
	}
	return nil
}

type submitterDB struct {
	db *gorm.DB
}

func NewSubmitterStore(db *gorm.DB) SubmitterStore {
	return &submitterDB{db: db}
}

func (s *submitterDB) RecordSubmission(ctx context.Context, email, name, orgUnits, division string, at time.Time) error {
	submitter := models.Submitter{
		Email:            email,
		Name:             name,
		OrgUnits:         orgUnits,
		Division:         division,
		SubmissionCount:  1,
		LastSubmissionAt: &at,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"name":               name,
			"org_units":          orgUnits,
			"division":           division,
			"submission_count":   gorm.Expr("submission_count + 1"),
			"last_submission_at": at,
		}),
	}).Create(&submitter).Error
	if err != nil {
		return &DependencyError{Op: "upsert submitter", Err: err}
	}
	return nil
}

type decisionDB struct {
	db *gorm.DB
}

func NewDecisionStore(db *gorm.DB) DecisionStore {
	return &decisionDB{db: db}
}

func (s *decisionDB) GetByID(ctx context.Context, id int) (*models.Decision, error) {
	var decision models.Decision
	err := s.db.WithContext(ctx).
		Preload("Product").
		Where("decision_id = ?", id).
		First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "decision", ID: id}
		}
		return nil, &DependencyError{Op: "load decision", Err: err}
	}
	return &decision, nil
}

func (s *decisionDB) GetByProduct(ctx context.Context, productID int) (*models.Decision, error) {
	var decision models.Decision
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&decision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "decision for product", ID: productID}
		}
		return nil, &DependencyError{Op: "load decision", Err: err}
	}
	return &decision, nil
}

func (s *decisionDB) List(ctx context.Context, filter DecisionFilter) ([]models.Decision, error) {
	query := s.db.WithContext(ctx).Preload("Product")
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var decisions []models.Decision
	if err := query.Order("update_at DESC").Find(&decisions).Error; err != nil {
		return nil, &DependencyError{Op: "list decisions", Err: err}
	}
	return decisions, nil
}

func (s *decisionDB) Upsert(ctx context.Context, d *models.Decision) error {
	// Racing first submissions insert against the unique product_id key;
	// the loser falls through to refreshing the count columns only, so a
	// concurrent reviewer action is never clobbered.
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"total_submissions":        d.TotalSubmissions,
			"renew_count":              d.RenewCount,
			"renew_with_changes_count": d.RenewWithChangesCount,
			"replace_count":            d.ReplaceCount,
			"retire_count":             d.RetireCount,
		}),
	}).Create(d).Error
	if err != nil {
		return &DependencyError{Op: "upsert decision", Err: err}
	}
	return nil
}

func (s *decisionDB) Save(ctx context.Context, d *models.Decision) error {
	if err := s.db.WithContext(ctx).Save(d).Error; err != nil {
		return &DependencyError{Op: "save decision", Err: err}
	}
	return nil
}

func (s *decisionDB) Delete(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Delete(&models.Decision{}, "decision_id = ?", id).Error; err != nil {
		return &DependencyError{Op: "delete decision", Err: err}
	}
	return nil
}
