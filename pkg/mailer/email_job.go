package mailer

import (
	"github.com/oksasatya/vital-identity/internal/domain/notification"
	mailtpl "github.com/oksasatya/vital-identity/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Template selects the <name>.*.tmpl files rendered by the worker.
type EmailJob struct {
	To       string `json:"to"`
	Subject  string `json:"subject,omitempty"`
	Template string `json:"template"`
	URL      string `json:"url"`
	Code     string `json:"code"`
}

func JobFromMessage(msg notification.Message) EmailJob {
	return EmailJob{
		To:       msg.To,
		Subject:  msg.Subject,
		Template: msg.Template,
		URL:      msg.Context.URL,
		Code:     msg.Context.Code,
	}
}

func (j EmailJob) data(b mailtpl.Branding) mailtpl.EmailData {
	return mailtpl.NewEmailData(b, j.Template, j.To, j.URL, j.Code)
}
