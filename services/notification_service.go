package services

import (
	"fmt"
	"html/template"
	"os"
	"strings"

	"renewal-review-api/config"
	"renewal-review-api/models"
)

// EmailNotifier sends the best-effort "new assessment" email to the review
// inbox. It runs on the background queue; a send failure is logged there
// and never reaches the submitter.
type EmailNotifier struct {
	Recipients []string
}

// NewEmailNotifier reads the recipient list from REVIEW_NOTIFY_EMAILS
// (comma separated). An empty list disables notification.
func NewEmailNotifier() *EmailNotifier {
	raw := os.Getenv("REVIEW_NOTIFY_EMAILS")
	var recipients []string
	for _, addr := range strings.Split(raw, ",") {
		addr = strings.TrimSpace(addr)
		if addr != "" {
			recipients = append(recipients, addr)
		}
	}
	if len(recipients) == 0 {
		return nil
	}
	return &EmailNotifier{Recipients: recipients}
}

func (n *EmailNotifier) AssessmentReceived(a *models.Assessment, p *models.Product) error {
	subject := fmt.Sprintf("New renewal assessment for %s", p.Name)
	body := buildAssessmentEmailHTML(a, p)
	return config.SendMail(n.Recipients, subject, body)
}

func buildAssessmentEmailHTML(a *models.Assessment, p *models.Product) string {
	esc := template.HTMLEscapeString
	var b strings.Builder
	b.WriteString(`<div style="font-family:Arial,sans-serif;max-width:640px">`)
	fmt.Fprintf(&b, `<h2 style="margin-bottom:4px">New assessment: %s</h2>`, esc(p.Name))
	fmt.Fprintf(&b, `<p><strong>Submitter:</strong> %s (%s)<br>`, esc(a.SubmitterName), esc(a.SubmitterEmail))
	fmt.Fprintf(&b, `<strong>Division:</strong> %s<br>`, esc(a.Division))
	fmt.Fprintf(&b, `<strong>Recommendation:</strong> %s</p>`, esc(a.Recommendation))
	fmt.Fprintf(&b, `<p><strong>Justification:</strong><br>%s</p>`, esc(a.Justification))
	fmt.Fprintf(&b, `<p style="color:#888;font-size:12px">Reference %s</p>`, esc(a.Reference))
	b.WriteString(`</div>`)
	return b.String()
}
