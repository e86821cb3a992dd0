package services

import (
	"fmt"
	"strings"

	"renewal-review-api/models"
)

const summarySystemPrompt = `You are an analyst supporting an institution's annual software renewal review. You will receive every end-user assessment submitted for one subscribed product. Write a concise executive summary (3-5 paragraphs, plain prose, no markdown) covering: the overall balance of recommendations, the strongest recurring arguments for and against renewal, notable usage patterns or workflow dependencies, and any proposed changes or alternatives the reviewers should weigh. Do not invent facts that are not present in the assessments.`

// SummarySystemPrompt returns the fixed system instruction for the
// synthesizer.
func SummarySystemPrompt() string {
	return summarySystemPrompt
}

// BuildSummaryPrompt renders the product identity plus every assessment's
// recommendation and key free-text fields into the user message.
func BuildSummaryPrompt(product *models.Product, assessments []models.Assessment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Product: %s (vendor: %s)\n", product.Name, product.Vendor)
	fmt.Fprintf(&b, "Annual cost: %.2f, licenses: %d\n", product.AnnualCost, product.LicenseCount)
	fmt.Fprintf(&b, "Assessments submitted: %d\n\n", len(assessments))

	for i, a := range assessments {
		fmt.Fprintf(&b, "Assessment %d (%s, %s):\n", i+1, a.Division, a.OrgUnits)
		fmt.Fprintf(&b, "Recommendation: %s\n", a.Recommendation)
		fmt.Fprintf(&b, "Justification: %s\n", a.Justification)
		writeOptional(&b, "Usage frequency", a.UsageFrequency)
		writeOptional(&b, "Primary use cases", a.PrimaryUseCases)
		writeOptional(&b, "Learning impact", a.LearningImpact)
		writeOptional(&b, "Workflow integration", a.WorkflowIntegration)
		writeOptional(&b, "Alternatives considered", a.AlternativesConsidered)
		writeOptional(&b, "Unique value", a.UniqueValue)
		writeOptional(&b, "Stakeholder feedback", a.StakeholderFeedback)
		writeOptional(&b, "Proposed changes", a.ProposedChanges)
		b.WriteString("\n")
	}

	b.WriteString("Summarize the feedback above for the renewal review committee.")
	return b.String()
}

func writeOptional(b *strings.Builder, label string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, *value)
}
