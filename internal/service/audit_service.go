package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/favourites-api/internal/config"
	"github.com/spec-kit/favourites-api/internal/events"
)

const defaultWebhookTimeout = 2 * time.Second

// AuditService records account and favourites activity and forwards it to
// the audit webhook when one is configured.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	webhookURL string
	timeout    time.Duration
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.AuditConfig) *AuditService {
	timeout := cfg.WebhookTimeout()
	if timeout <= 0 {
		timeout = defaultWebhookTimeout
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
		webhookURL: strings.TrimSpace(cfg.WebhookURL),
		timeout:    timeout,
	}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventFavouriteAdded, a.handleFavouriteChanged)
	a.dispatcher.Subscribe(events.EventFavouriteRemoved, a.handleFavouriteChanged)
}

func (a *AuditService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.String("username", event.Username))
	return a.deliver(ctx, event)
}

func (a *AuditService) handleLoginFailed(ctx context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed", zap.String("username", event.Username), zap.Any("payload", event.Payload))
	return a.deliver(ctx, event)
}

func (a *AuditService) handleFavouriteChanged(ctx context.Context, event events.Event) error {
	a.logger.Info(string(event.Type), zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	return a.deliver(ctx, event)
}

// deliver POSTs the event as JSON to the webhook. Anything but a 2xx is a failure.
func (a *AuditService) deliver(ctx context.Context, event events.Event) error {
	if a.webhookURL == "" {
		return nil
	}

	err := a.post(ctx, event)
	if err != nil {
		a.logger.Error("audit webhook delivery failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
	return err
}

func (a *AuditService) post(ctx context.Context, event events.Event) error {
	timeout := a.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return fmt.Errorf("audit webhook: %w", context.DeadlineExceeded)
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	agent := fiber.Post(a.webhookURL)
	agent.Timeout(timeout)
	agent.JSON(event)
	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return fmt.Errorf("audit webhook: %w", err)
	}

	status, _, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("audit webhook: %w", errors.Join(errs...))
	}
	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("audit webhook: unexpected status %d", status)
	}
	return nil
}
