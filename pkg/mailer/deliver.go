package mailer

import (
	"context"
	"strings"

	"github.com/samber/oops"

	mailtpl "github.com/oksasatya/vital-identity/pkg/mailer/templates"
)

// Sender delivers a rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// Deliver renders job and hands it to s. A subject set on the job wins over the
// template subject.
func Deliver(ctx context.Context, s Sender, b mailtpl.Branding, job EmailJob) error {
	if strings.TrimSpace(job.To) == "" {
		return oops.With("template", job.Template).Errorf("email job without recipient")
	}
	subject, text, html, err := mailtpl.Render(job.Template, job.data(b))
	if err != nil {
		return oops.With("template", job.Template).Wrap(err)
	}
	if strings.TrimSpace(job.Subject) != "" {
		subject = job.Subject
	}
	if err := s.Send(ctx, job.To, subject, text, html); err != nil {
		return oops.With("template", job.Template).Wrapf(err, "send email")
	}
	return nil
}
