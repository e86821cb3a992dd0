package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"renewal-review-api/models"
)

var (
	staff    = Caller{UserID: 10, Email: "staff@school.edu", Role: models.RoleStaff, Active: true}
	reviewer = Caller{UserID: 20, Email: "tic@school.edu", Role: models.RoleReviewer, Active: true}
	approver = Caller{UserID: 30, Email: "director@school.edu", Role: models.RoleApprover, Active: true}
	admin    = Caller{UserID: 40, Email: "admin@school.edu", Role: models.RoleAdmin, Active: true}
)

type decisionFixture struct {
	svc         *DecisionService
	products    *fakeProducts
	assessments *fakeAssessments
	decisionDB  *fakeDecisions
	summaries   *fakeSummaries
}

func newDecisionFixture() *decisionFixture {
	f := &decisionFixture{
		products:    newFakeProducts(renewalProduct()),
		assessments: newFakeAssessments(),
		decisionDB:  newFakeDecisions(),
		summaries:   &fakeSummaries{text: "Overall the community favors renewal."},
	}
	f.svc = &DecisionService{
		Products:    f.products,
		Assessments: f.assessments,
		Decisions:   f.decisionDB,
		Summaries:   f.summaries,
	}
	return f
}

func (f *decisionFixture) addAssessment(t *testing.T, recommendation string) {
	t.Helper()
	err := f.assessments.Create(context.Background(), &models.Assessment{
		ProductID:      1,
		Recommendation: recommendation,
		Justification:  "justification",
	})
	require.NoError(t, err)
}

func (f *decisionFixture) refreshed(t *testing.T) *models.Decision {
	t.Helper()
	d, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)
	return d
}

func TestRefreshCreatesDecisionInCollecting(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)

	d := f.refreshed(t)
	assert.Equal(t, models.StatusCollecting, d.Status)
	assert.Equal(t, 1, d.TotalSubmissions)
	assert.Equal(t, 1, d.RenewCount)
}

func TestRefreshIsIdempotent(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	f.addAssessment(t, models.RecommendRetire)

	first := f.refreshed(t)
	second := f.refreshed(t)

	assert.Equal(t, first.DecisionID, second.DecisionID)
	assert.Equal(t, first.TotalSubmissions, second.TotalSubmissions)
	assert.Equal(t, first.RenewCount, second.RenewCount)
	assert.Equal(t, first.RetireCount, second.RetireCount)
}

func TestRefreshDoesNotRegressStatus(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	require.NoError(t, err)

	// Late feedback arrives after the review moved on
	f.addAssessment(t, models.RecommendRetire)
	d = f.refreshed(t)

	assert.Equal(t, models.StatusAssessorReview, d.Status)
	assert.Equal(t, 2, d.TotalSubmissions)
	assert.Equal(t, 1, d.RetireCount)
}

// interleavingDecisions lets a test run another operation between a
// Refresh's recompute and its write, the way a reviewer transition can land
// mid-recompute under concurrency.
type interleavingDecisions struct {
	*fakeDecisions
	beforeUpsert func()
}

func (s *interleavingDecisions) Upsert(ctx context.Context, d *models.Decision) error {
	if s.beforeUpsert != nil {
		hook := s.beforeUpsert
		s.beforeUpsert = nil
		hook()
	}
	return s.fakeDecisions.Upsert(ctx, d)
}

func TestRefreshDoesNotClobberConcurrentTransition(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	// A reviewer advances the decision while a late-feedback recompute is
	// in flight between its read and its write.
	store := &interleavingDecisions{fakeDecisions: f.decisionDB}
	store.beforeUpsert = func() {
		_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
		require.NoError(t, err)
	}
	f.svc.Decisions = store

	f.addAssessment(t, models.RecommendRetire)
	refreshed, err := f.svc.Refresh(context.Background(), 1)
	require.NoError(t, err)

	// The recompute refreshed the counts without regressing the transition
	// or erasing the summary it persisted
	assert.Equal(t, models.StatusAssessorReview, refreshed.Status)
	require.NotNil(t, refreshed.Summary)
	assert.Equal(t, 2, refreshed.TotalSubmissions)
	assert.Equal(t, 1, refreshed.RetireCount)

	stored, err := f.decisionDB.GetByID(context.Background(), d.DecisionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssessorReview, stored.Status)
	require.NotNil(t, stored.Summary)
	assert.NotNil(t, stored.SummaryGeneratedAt)
}

func TestRefreshUnknownProduct(t *testing.T) {
	f := newDecisionFixture()

	_, err := f.svc.Refresh(context.Background(), 99)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGenerateSummaryAdvancesToAssessorReview(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	updated, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	require.NoError(t, err)

	assert.Equal(t, models.StatusAssessorReview, updated.Status)
	require.NotNil(t, updated.Summary)
	assert.Equal(t, "Overall the community favors renewal.", *updated.Summary)
	assert.NotNil(t, updated.SummaryGeneratedAt)
	assert.Contains(t, f.summaries.lastPrompt, "Readly Campus")
}

func TestGenerateSummaryFailureLeavesDecisionUnchanged(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)
	f.summaries.err = errors.New("upstream returned 503")

	_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	var dependency *DependencyError
	require.ErrorAs(t, err, &dependency)

	stored, getErr := f.decisionDB.GetByID(context.Background(), d.DecisionID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusCollecting, stored.Status)
	assert.Nil(t, stored.Summary)
	assert.Nil(t, stored.SummaryGeneratedAt)
}

func TestGenerateSummaryWithoutProvider(t *testing.T) {
	f := newDecisionFixture()
	f.svc.Summaries = nil
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	var dependency *DependencyError
	require.ErrorAs(t, err, &dependency)
}

func TestGenerateSummaryWithoutAssessments(t *testing.T) {
	f := newDecisionFixture()
	d := f.refreshed(t)

	_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestRegenerateSummaryKeepsLaterStatus(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	require.NoError(t, err)
	_, err = f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{
		Action:         ActionTicReview,
		Recommendation: models.RecommendRenew,
	})
	require.NoError(t, err)

	f.summaries.text = "Revised summary."
	updated, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	require.NoError(t, err)

	assert.Equal(t, models.StatusFinalReview, updated.Status)
	assert.Equal(t, "Revised summary.", *updated.Summary)
}

func TestRoleGating(t *testing.T) {
	advance := func(t *testing.T, f *decisionFixture, id int, upTo string) {
		t.Helper()
		steps := []ActionRequest{
			{Action: ActionGenerateSummary},
			{Action: ActionTicReview, Recommendation: models.RecommendRenew},
			{Action: ActionDirectorDecision, FinalDecision: models.RecommendRenew},
		}
		callers := []Caller{reviewer, reviewer, approver}
		targets := []string{models.StatusAssessorReview, models.StatusFinalReview, models.StatusDecided}
		for i, step := range steps {
			if models.StatusRank(targets[i]) > models.StatusRank(upTo) {
				return
			}
			_, err := f.svc.Act(context.Background(), callers[i], id, step)
			require.NoError(t, err)
		}
	}

	tests := []struct {
		name    string
		from    string
		caller  Caller
		request ActionRequest
	}{
		{"staff cannot generate summary", models.StatusCollecting, staff, ActionRequest{Action: ActionGenerateSummary}},
		{"staff cannot tic_review", models.StatusAssessorReview, staff, ActionRequest{Action: ActionTicReview, Recommendation: models.RecommendRenew}},
		{"reviewer cannot director_decision", models.StatusFinalReview, reviewer, ActionRequest{Action: ActionDirectorDecision, FinalDecision: models.RecommendRenew}},
		{"approver cannot implement", models.StatusDecided, approver, ActionRequest{Action: ActionImplement}},
		{"staff cannot admin_edit", models.StatusCollecting, staff, ActionRequest{Action: ActionAdminEdit, Edit: &AdminEdit{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDecisionFixture()
			f.addAssessment(t, models.RecommendRenew)
			d := f.refreshed(t)
			advance(t, f, d.DecisionID, tt.from)

			before, err := f.decisionDB.GetByID(context.Background(), d.DecisionID)
			require.NoError(t, err)

			_, err = f.svc.Act(context.Background(), tt.caller, d.DecisionID, tt.request)
			var authz *AuthorizationError
			require.ErrorAs(t, err, &authz)
			assert.Equal(t, tt.caller.Role, authz.Role)

			after, err := f.decisionDB.GetByID(context.Background(), d.DecisionID)
			require.NoError(t, err)
			assert.Equal(t, before, after, "rejected action must not mutate the decision")
		})
	}
}

func TestInactiveCallerRejected(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	inactive := admin
	inactive.Active = false

	_, err := f.svc.Act(context.Background(), inactive, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	var authz *AuthorizationError
	require.ErrorAs(t, err, &authz)
	assert.True(t, authz.Inactive)
}

func TestAdminMayPerformAnyTransition(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	for _, step := range []ActionRequest{
		{Action: ActionGenerateSummary},
		{Action: ActionTicReview, Recommendation: models.RecommendRenewWithChanges, Comment: "Trim licenses."},
		{Action: ActionDirectorDecision, FinalDecision: models.RecommendRenewWithChanges, DecisionTerms: "Renew at 300 seats."},
		{Action: ActionImplement},
	} {
		_, err := f.svc.Act(context.Background(), admin, d.DecisionID, step)
		require.NoError(t, err, "action %s", step.Action)
	}

	final, err := f.decisionDB.GetByID(context.Background(), d.DecisionID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusImplemented, final.Status)
}

func TestTicReviewRequiresRecommendation(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)
	_, err := f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionGenerateSummary})
	require.NoError(t, err)

	_, err = f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{Action: ActionTicReview})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	stored, getErr := f.decisionDB.GetByID(context.Background(), d.DecisionID)
	require.NoError(t, getErr)
	assert.Equal(t, models.StatusAssessorReview, stored.Status)
}

func TestTransitionsRejectWrongState(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	// All of these need a later state than collecting
	for _, req := range []ActionRequest{
		{Action: ActionTicReview, Recommendation: models.RecommendRenew},
		{Action: ActionDirectorDecision, FinalDecision: models.RecommendRenew},
		{Action: ActionImplement},
	} {
		_, err := f.svc.Act(context.Background(), admin, d.DecisionID, req)
		var conflict *ConflictError
		require.ErrorAs(t, err, &conflict, "action %s", req.Action)
	}
}

// Full lifecycle: two submissions, summary, review, decision, implement,
// then a staff attempt on the finished record.
func TestDecisionLifecycleScenario(t *testing.T) {
	f := newDecisionFixture()

	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)
	assert.Equal(t, models.StatusCollecting, d.Status)
	assert.Equal(t, 1, d.TotalSubmissions)
	assert.Equal(t, 1, d.RenewCount)

	f.addAssessment(t, models.RecommendRetire)
	d = f.refreshed(t)
	assert.Equal(t, models.StatusCollecting, d.Status)
	assert.Equal(t, 2, d.TotalSubmissions)
	assert.Equal(t, 1, d.CountFor(models.RecommendRenew))
	assert.Equal(t, 1, d.CountFor(models.RecommendRetire))
	assert.Equal(t, 0, d.CountFor(models.RecommendReplace))

	d, err := f.svc.CreateOrRefresh(context.Background(), reviewer, 1, true)
	require.NoError(t, err)
	require.NotNil(t, d.Summary)
	assert.Equal(t, models.StatusAssessorReview, d.Status)

	d, err = f.svc.Act(context.Background(), reviewer, d.DecisionID, ActionRequest{
		Action:         ActionTicReview,
		Recommendation: models.RecommendRenew,
		Comment:        "Feedback strongly favors keeping it.",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFinalReview, d.Status)

	d, err = f.svc.Act(context.Background(), approver, d.DecisionID, ActionRequest{
		Action:        ActionDirectorDecision,
		FinalDecision: models.RecommendRenew,
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusDecided, d.Status)

	d, err = f.svc.Act(context.Background(), admin, d.DecisionID, ActionRequest{Action: ActionImplement})
	require.NoError(t, err)
	assert.Equal(t, models.StatusImplemented, d.Status)

	_, err = f.svc.Act(context.Background(), staff, d.DecisionID, ActionRequest{Action: ActionImplement})
	var authz *AuthorizationError
	require.ErrorAs(t, err, &authz)
}

func TestAdminEditOverridesFields(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	status := models.StatusAssessorReview
	summary := "Manually supplied summary."
	updated, err := f.svc.Act(context.Background(), admin, d.DecisionID, ActionRequest{
		Action: ActionAdminEdit,
		Edit:   &AdminEdit{Status: &status, Summary: &summary},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssessorReview, updated.Status)
	assert.Equal(t, summary, *updated.Summary)

	bad := "mid_review"
	_, err = f.svc.Act(context.Background(), admin, d.DecisionID, ActionRequest{
		Action: ActionAdminEdit,
		Edit:   &AdminEdit{Status: &bad},
	})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestPurgeDecision(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	err := f.svc.Purge(context.Background(), reviewer, d.DecisionID)
	var authz *AuthorizationError
	require.ErrorAs(t, err, &authz)

	require.NoError(t, f.svc.Purge(context.Background(), admin, d.DecisionID))
	_, err = f.svc.Get(context.Background(), d.DecisionID)
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUnknownAction(t *testing.T) {
	f := newDecisionFixture()
	f.addAssessment(t, models.RecommendRenew)
	d := f.refreshed(t)

	_, err := f.svc.Act(context.Background(), admin, d.DecisionID, ActionRequest{Action: "escalate"})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
}
