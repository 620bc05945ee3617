package mailer

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/notification"
	mailtpl "github.com/oksasatya/vital-identity/pkg/mailer/templates"
)

// Publisher puts a JSON document on a queue. *helpers.RabbitPublisher implements it.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier hands messages to the email worker through RabbitMQ.
type QueueNotifier struct {
	pub Publisher
}

func NewQueueNotifier(pub Publisher) *QueueNotifier {
	return &QueueNotifier{pub: pub}
}

func (n *QueueNotifier) Send(ctx context.Context, msg notification.Message) error {
	return n.pub.PublishJSON(ctx, JobFromMessage(msg))
}

// DirectNotifier renders and sends within the request.
type DirectNotifier struct {
	sender   Sender
	branding mailtpl.Branding
}

func NewDirectNotifier(sender Sender, branding mailtpl.Branding) *DirectNotifier {
	return &DirectNotifier{sender: sender, branding: branding}
}

func (n *DirectNotifier) Send(ctx context.Context, msg notification.Message) error {
	return Deliver(ctx, n.sender, n.branding, JobFromMessage(msg))
}

// LogNotifier only logs. It is used when mail sending is disabled.
type LogNotifier struct {
	logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(_ context.Context, msg notification.Message) error {
	n.logger.WithFields(logrus.Fields{"to": msg.To, "template": msg.Template}).Info("mail disabled, message dropped")
	n.logger.WithField("url", msg.Context.URL).Debug("dropped message link")
	return nil
}

var (
	_ notification.Notifier = (*QueueNotifier)(nil)
	_ notification.Notifier = (*DirectNotifier)(nil)
	_ notification.Notifier = (*LogNotifier)(nil)
)
