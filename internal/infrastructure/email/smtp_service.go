package email

import (
	"context"
	"fmt"
	"net/smtp"

	"humanglue-backend/internal/shared"
	"humanglue-backend/pkg/logger"
)

// EmailService sends expert-application lifecycle emails.
type EmailService interface {
	SendApplicationConfirmation(ctx context.Context, data shared.ApplicationEmailPayload) error
	SendAdminNotification(ctx context.Context, data shared.ApplicationEmailPayload) error
	SendDecisionEmail(ctx context.Context, data shared.ApplicationEmailPayload) error
}

type smtpEmailService struct {
	smtpAddr   string
	smtpFrom   string
	adminEmail string
	baseURL    string
}

func NewSMTPEmailService(smtpHost, smtpPort, from, adminEmail, baseURL string) EmailService {
	return &smtpEmailService{
		smtpAddr:   smtpHost + ":" + smtpPort,
		smtpFrom:   from,
		adminEmail: adminEmail,
		baseURL:    baseURL,
	}
}

func (s *smtpEmailService) SendApplicationConfirmation(ctx context.Context, data shared.ApplicationEmailPayload) error {
	subject := "We received your HumanGlue expert application"
	body := fmt.Sprintf(`Hi %s,

Thanks for applying to join the HumanGlue expert network.

Your application has been submitted and our team will review it shortly.
You can check its status anytime:
%s/experts/applications/%s

The HumanGlue Team`, data.FullName, s.baseURL, data.ApplicationID)

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) SendAdminNotification(ctx context.Context, data shared.ApplicationEmailPayload) error {
	subject := fmt.Sprintf("New expert application: %s", data.FullName)
	body := fmt.Sprintf(`A new expert application has been submitted.

Name:  %s
Title: %s
Email: %s

Review it here:
%s/admin/expert-applications/%s`, data.FullName, data.ProfessionalTitle, data.Email, s.baseURL, data.ApplicationID)

	return s.send(s.adminEmail, subject, body)
}

func (s *smtpEmailService) SendDecisionEmail(ctx context.Context, data shared.ApplicationEmailPayload) error {
	var subject, body string

	switch data.Decision {
	case shared.DecisionApproved:
		subject = "Welcome to the HumanGlue expert network!"
		body = fmt.Sprintf(`Hi %s,

Great news - your expert application has been approved.
%s
Log in to finish setting up your expert profile:
%s/experts/onboarding

The HumanGlue Team`, data.FullName, noteBlock(data.ReviewNotes), s.baseURL)

	case shared.DecisionRejected:
		subject = "Update on your HumanGlue expert application"
		body = fmt.Sprintf(`Hi %s,

Thank you for your interest in the HumanGlue expert network.
After careful review, we are unable to move forward with your application at this time.

Reason: %s
%s
You are welcome to apply again in the future.

The HumanGlue Team`, data.FullName, data.RejectionReason, noteBlock(data.ReviewNotes))

	case shared.DecisionChangesRequested:
		subject = "Your HumanGlue expert application needs changes"
		body = fmt.Sprintf(`Hi %s,

Our review team has looked at your application and needs a few changes
before it can proceed:

%s

Update your application here:
%s/experts/applications/%s

The HumanGlue Team`, data.FullName, data.ReviewNotes, s.baseURL, data.ApplicationID)

	default:
		return fmt.Errorf("unknown decision kind: %q", data.Decision)
	}

	return s.send(data.Email, subject, body)
}

func (s *smtpEmailService) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		s.smtpFrom, to, subject, body))

	if err := smtp.SendMail(s.smtpAddr, nil, s.smtpFrom, []string{to}, msg); err != nil {
		logger.Info("Failed to send email", map[string]interface{}{
			"error":     err.Error(),
			"to":        to,
			"smtp_addr": s.smtpAddr,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func noteBlock(notes string) string {
	if notes == "" {
		return ""
	}
	return fmt.Sprintf("\nNotes from the review team:\n%s\n", notes)
}
