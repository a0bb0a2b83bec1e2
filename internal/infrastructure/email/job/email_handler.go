package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"humanglue-backend/internal/infrastructure/email"
	"humanglue-backend/internal/shared"
)

// ============================================
// Application Confirmation Handler
// ============================================

type ConfirmationHandler struct {
	emailService email.EmailService
}

func NewConfirmationHandler(emailService email.EmailService) *ConfirmationHandler {
	return &ConfirmationHandler{emailService: emailService}
}

func (h *ConfirmationHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ApplicationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal confirmation payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("application_id", payload.ApplicationID).
		Str("email", payload.Email).
		Msg("Sending application confirmation")

	if err := h.emailService.SendApplicationConfirmation(ctx, payload); err != nil {
		return fmt.Errorf("send confirmation email: %w", err)
	}
	return nil
}

// ============================================
// Admin Notification Handler
// ============================================

type AdminNotifyHandler struct {
	emailService email.EmailService
}

func NewAdminNotifyHandler(emailService email.EmailService) *AdminNotifyHandler {
	return &AdminNotifyHandler{emailService: emailService}
}

func (h *AdminNotifyHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ApplicationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal admin-notify payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("application_id", payload.ApplicationID).
		Msg("Notifying admins of new application")

	if err := h.emailService.SendAdminNotification(ctx, payload); err != nil {
		return fmt.Errorf("send admin notification: %w", err)
	}
	return nil
}

// ============================================
// Decision Handler (approve / reject / request changes)
// ============================================

type DecisionHandler struct {
	emailService email.EmailService
}

func NewDecisionHandler(emailService email.EmailService) *DecisionHandler {
	return &DecisionHandler{emailService: emailService}
}

func (h *DecisionHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ApplicationEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal decision payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("application_id", payload.ApplicationID).
		Str("decision", payload.Decision).
		Msg("Sending decision email")

	if err := h.emailService.SendDecisionEmail(ctx, payload); err != nil {
		return fmt.Errorf("send decision email: %w", err)
	}
	return nil
}
