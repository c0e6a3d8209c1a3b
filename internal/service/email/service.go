package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/resend/resend-go/v3"

	"github.com/z3by/arabtree-sub000/internal/config"
)

type Service interface {
	SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error
	SendContributionSubmittedEmail(ctx context.Context, toEmail, recipientName, authorName, contributionType string) error
	SendContributionReviewedEmail(ctx context.Context, toEmail, recipientName, contributionType, status string, note *string) error
}

type service struct {
	client *resend.Client
	config *config.Config
}

func NewService(cfg *config.Config) Service {
	return &service{
		client: resend.NewClient(cfg.ResendAPIKey),
		config: cfg,
	}
}

var emailTemplates = template.Must(template.New("emails").Parse(`
{{define "welcome"}}
<h2>أهلاً بك — Welcome, {{.Name}}</h2>
<p>Your account is ready. Browse the lineage tree and submit contributions
for review.</p>
{{end}}

{{define "submitted"}}
<h2>New contribution awaiting review</h2>
<p>{{.AuthorName}} submitted a <strong>{{.Type}}</strong> contribution.</p>
<p><a href="https://{{.Domain}}/contributions">Open the review queue</a></p>
{{end}}

{{define "reviewed"}}
<h2>Your contribution was {{.Status}}</h2>
<p>Your <strong>{{.Type}}</strong> contribution has been {{.Status}}.</p>
{{if .Note}}<p>Reviewer note: {{.Note}}</p>{{end}}
{{end}}
`))

func (s *service) send(toEmail, subject, templateName string, data interface{}) error {
	// No API key means email is disabled (local development).
	if s.config.ResendAPIKey == "" {
		return nil
	}

	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, templateName, data); err != nil {
		return fmt.Errorf("failed to render email template %s: %w", templateName, err)
	}

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Arab Tree <%s>", s.config.FromEmail),
		To:      []string{toEmail},
		Html:    body.String(),
		Subject: subject,
	}

	if _, err := s.client.Emails.SendWithContext(context.Background(), params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *service) SendWelcomeEmail(ctx context.Context, toEmail, fullName string) error {
	return s.send(toEmail, "Welcome to Arab Tree", "welcome", map[string]string{
		"Name": fullName,
	})
}

func (s *service) SendContributionSubmittedEmail(ctx context.Context, toEmail, recipientName, authorName, contributionType string) error {
	return s.send(toEmail, "New contribution awaiting review", "submitted", map[string]string{
		"Recipient":  recipientName,
		"AuthorName": authorName,
		"Type":       contributionType,
		"Domain":     s.config.Domain,
	})
}

func (s *service) SendContributionReviewedEmail(ctx context.Context, toEmail, recipientName, contributionType, status string, note *string) error {
	data := map[string]interface{}{
		"Recipient": recipientName,
		"Type":      contributionType,
		"Status":    status,
	}
	if note != nil {
		data["Note"] = *note
	}
	return s.send(toEmail, fmt.Sprintf("Your contribution was %s", status), "reviewed", data)
}
