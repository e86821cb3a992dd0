package services

import (
	"context"
	"sync"
	"time"

	"renewal-review-api/models"
)

// In-memory stores standing in for MySQL so the workflow engine is
// exercised without a network-backed database.

type fakeProducts struct {
	mu       sync.Mutex
	products map[int]models.Product
}

func newFakeProducts(products ...models.Product) *fakeProducts {
	f := &fakeProducts{products: make(map[int]models.Product)}
	for _, p := range products {
		f.products[p.ProductID] = p
	}
	return f
}

func (f *fakeProducts) GetByID(_ context.Context, id int) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[id]
	if !ok {
		return nil, &NotFoundError{Resource: "product", ID: id}
	}
	c := p
	return &c, nil
}

func (f *fakeProducts) List(_ context.Context) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Product
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

type fakeAssessments struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.Assessment
}

func newFakeAssessments() *fakeAssessments {
	return &fakeAssessments{rows: make(map[int]models.Assessment)}
}

func (f *fakeAssessments) Create(_ context.Context, a *models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.AssessmentID = f.nextID
	f.rows[a.AssessmentID] = *a
	return nil
}

func (f *fakeAssessments) GetByID(_ context.Context, id int) (*models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.rows[id]
	if !ok {
		return nil, &NotFoundError{Resource: "assessment", ID: id}
	}
	c := a
	return &c, nil
}

func (f *fakeAssessments) List(_ context.Context, filter AssessmentFilter) ([]models.Assessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Assessment
	for _, a := range f.rows {
		if filter.ProductID != 0 && a.ProductID != filter.ProductID {
			continue
		}
		if filter.ReviewStatus != "" && a.ReviewStatus != filter.ReviewStatus {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeAssessments) ListByProduct(ctx context.Context, productID int) ([]models.Assessment, error) {
	return f.List(ctx, AssessmentFilter{ProductID: productID})
}

func (f *fakeAssessments) Save(_ context.Context, a *models.Assessment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[a.AssessmentID]; !ok {
		return &NotFoundError{Resource: "assessment", ID: a.AssessmentID}
	}
	f.rows[a.AssessmentID] = *a
	return nil
}

func (f *fakeAssessments) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type submitterRecord struct {
	Name            string
	OrgUnits        string
	Division        string
	SubmissionCount int
	LastAt          time.Time
}

type fakeSubmitters struct {
	mu   sync.Mutex
	rows map[string]submitterRecord
}

func newFakeSubmitters() *fakeSubmitters {
	return &fakeSubmitters{rows: make(map[string]submitterRecord)}
}

func (f *fakeSubmitters) RecordSubmission(_ context.Context, email, name, orgUnits, division string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.rows[email]
	rec.Name = name
	rec.OrgUnits = orgUnits
	rec.Division = division
	rec.SubmissionCount++
	rec.LastAt = at
	f.rows[email] = rec
	return nil
}

type fakeDecisions struct {
	mu     sync.Mutex
	nextID int
	rows   map[int]models.Decision
}

func newFakeDecisions() *fakeDecisions {
	return &fakeDecisions{rows: make(map[int]models.Decision)}
}

func (f *fakeDecisions) GetByID(_ context.Context, id int) (*models.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.rows[id]
	if !ok {
		return nil, &NotFoundError{Resource: "decision", ID: id}
	}
	c := d
	return &c, nil
}

func (f *fakeDecisions) GetByProduct(_ context.Context, productID int) (*models.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.rows {
		if d.ProductID == productID {
			c := d
			return &c, nil
		}
	}
	return nil, &NotFoundError{Resource: "decision for product", ID: productID}
}

func (f *fakeDecisions) List(_ context.Context, filter DecisionFilter) ([]models.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Decision
	for _, d := range f.rows {
		if filter.ProductID != 0 && d.ProductID != filter.ProductID {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeDecisions) Upsert(_ context.Context, d *models.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, existing := range f.rows {
		if existing.ProductID == d.ProductID {
			existing.TotalSubmissions = d.TotalSubmissions
			existing.RenewCount = d.RenewCount
			existing.RenewWithChangesCount = d.RenewWithChangesCount
			existing.ReplaceCount = d.ReplaceCount
			existing.RetireCount = d.RetireCount
			f.rows[id] = existing
			*d = existing
			return nil
		}
	}
	f.nextID++
	d.DecisionID = f.nextID
	f.rows[d.DecisionID] = *d
	return nil
}

func (f *fakeDecisions) Save(_ context.Context, d *models.Decision) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[d.DecisionID]; !ok {
		return &NotFoundError{Resource: "decision", ID: d.DecisionID}
	}
	f.rows[d.DecisionID] = *d
	return nil
}

func (f *fakeDecisions) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	return nil
}

type fakeSummaries struct {
	mu         sync.Mutex
	text       string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeSummaries) Summarize(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeNotifier) AssessmentReceived(*models.Assessment, *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeNotifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
