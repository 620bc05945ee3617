package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/config"
	"github.com/oksasatya/vital-identity/internal/container"
	"github.com/oksasatya/vital-identity/pkg/helpers"
	"github.com/oksasatya/vital-identity/pkg/mailer"
	mailtpl "github.com/oksasatya/vital-identity/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if !cfg.MailgunConfigured() {
		logger.Fatal("Mailgun not configured")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue, 16)
	if err != nil {
		logger.WithError(err).Fatal("amqp setup failed")
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	msgs, err := consumer.Deliveries(ctx)
	if err != nil {
		logger.WithError(err).Fatal("consume failed")
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	branding := container.Branding(cfg)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, mg, branding, msg)
		}
	}()

	logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("email worker listening")
	<-ctx.Done()
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle acks delivered mail, drops malformed jobs and requeues send failures once.
func handle(ctx context.Context, logger *logrus.Logger, s mailer.Sender, b mailtpl.Branding, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		helpers.LogError(logger, "bad message", err, nil)
		_ = msg.Nack(false, false)
		return
	}
	fields := logrus.Fields{"to": job.To, "template": job.Template}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := mailer.Deliver(c, s, b, job); err != nil {
		helpers.LogError(logger, "send failed", err, fields)
		_ = msg.Nack(false, !msg.Redelivered)
		return
	}
	_ = msg.Ack(false)
	logger.WithFields(fields).Info("email sent")
}
