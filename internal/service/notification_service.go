package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/quocphungccq1911h/mobi/internal/config"
	"github.com/quocphungccq1911h/mobi/internal/events"
	"github.com/quocphungccq1911h/mobi/internal/notify"
)

// NotificationService turns domain events into outbound notifications.
// Delivery failures are logged and dropped; nothing upstream waits on them.
type NotificationService struct {
	dispatcher events.Dispatcher
	outbound   notify.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, outbound notify.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		outbound:   outbound,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		n.logger.Warn("unexpected payload", zap.String("event_id", event.ID), zap.String("event_type", string(event.Type)))
		return nil
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", n.cfg.FrontendURL, payload.Token)
	notification := notify.Notification{
		From:      n.cfg.EmailFrom,
		Recipient: payload.Email,
		Subject:   "Password recovery",
		Body:      fmt.Sprintf("To recover your password, please follow this link: %s", resetLink),
	}

	if err := n.outbound.Send(ctx, notification); err != nil {
		n.logger.Error("password reset notification failed",
			zap.String("event_id", event.ID),
			zap.Int64("user_id", payload.UserID),
			zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}
	n.logger.Info("user registered",
		zap.Int64("user_id", payload.UserID),
		zap.String("username", payload.Username))
	return nil
}
