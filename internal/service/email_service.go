package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/yasinhessnawi1/Jobboard_Backend/internal/constants"
	"github.com/yasinhessnawi1/Jobboard_Backend/internal/mailer"
)

// EmailSender sends the transactional emails of the job board.
type EmailSender interface {
	SendPasswordResetEmail(ctx context.Context, to, token string) error
	SendApplicationNotification(ctx context.Context, employerEmail, jobTitle string) error
	SendApplicationConfirmation(ctx context.Context, candidateEmail, jobTitle string) error
}

// EmailService composes email texts and hands them to a mailer.Sender.
type EmailService struct {
	sender      mailer.Sender
	frontendURL string
}

// NewEmailService creates a new EmailService.
func NewEmailService(sender mailer.Sender, frontendURL string) *EmailService {
	return &EmailService{
		sender:      sender,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// ResetURL returns the frontend link that carries a raw reset token.
func (s *EmailService) ResetURL(token string) string {
	return s.frontendURL + constants.ResetPasswordFrontendPrefix + token
}

// SendPasswordResetEmail mails the reset link for token.
func (s *EmailService) SendPasswordResetEmail(ctx context.Context, to, token string) error {
	body := fmt.Sprintf(constants.EmailBodyPasswordReset, s.ResetURL(token))
	return s.sender.Send(ctx, to, constants.EmailSubjectPasswordReset, body)
}

// SendApplicationNotification tells an employer that a candidate applied.
func (s *EmailService) SendApplicationNotification(ctx context.Context, employerEmail, jobTitle string) error {
	body := fmt.Sprintf(constants.EmailBodyNewApplication, jobTitle)
	return s.sender.Send(ctx, employerEmail, constants.EmailSubjectNewApplication, body)
}

// SendApplicationConfirmation confirms a submitted application to the candidate.
func (s *EmailService) SendApplicationConfirmation(ctx context.Context, candidateEmail, jobTitle string) error {
	body := fmt.Sprintf(constants.EmailBodyApplicationSubmit, jobTitle)
	return s.sender.Send(ctx, candidateEmail, constants.EmailSubjectApplicationSubmit, body)
}
