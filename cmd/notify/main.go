package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/stayloop/hotel-bookings/internal/platform/mailer"
	"github.com/stayloop/hotel-bookings/pkg/config"
	"github.com/stayloop/hotel-bookings/pkg/events"
	"github.com/stayloop/hotel-bookings/pkg/logger"
)

// The notify worker drains the notification queue: payloads land here
// when a synchronous send failed during request handling, and on
// registration and booking events for follow-up mail.
func main() {
	cfg := config.Load()

	bus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	mailSvc := mailer.New(cfg.Email)

	err = bus.QueueSubscribe(events.NotifySend, "notify-workers", func(msg *events.Message) {
		var event events.NotificationEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			logger.Error("failed to decode notification", "error", err)
			return
		}

		switch event.Type {
		case "confirmation":
			err = mailSvc.SendConfirmationEmail(event.Recipient, event.Data["name"], event.Data["code"])
		case "password_reset":
			err = mailSvc.SendPasswordResetEmail(event.Recipient, event.Data["reset_url"])
		default:
			logger.Warn("unknown notification type", "type", event.Type)
			return
		}
		if err != nil {
			logger.Error("failed to deliver notification", "error", err, "type", event.Type)
			return
		}
		logger.Info("notification delivered", "type", event.Type)
	})
	if err != nil {
		logger.Error("failed to subscribe", "error", err)
		os.Exit(1)
	}

	logger.Info("notify worker started", "subject", events.NotifySend)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("notify worker stopped")
}
