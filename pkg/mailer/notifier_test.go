package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vital-identity/internal/domain/notification"
	mailtpl "github.com/oksasatya/vital-identity/pkg/mailer/templates"
)

type fakePublisher struct {
	bodies []any
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	if p.err != nil {
		return p.err
	}
	p.bodies = append(p.bodies, body)
	return nil
}

type sentMail struct{ to, subject, text, html string }

type fakeSender struct {
	sent []sentMail
	err  error
}

func (s *fakeSender) Send(_ context.Context, to, subject, text, html string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentMail{to, subject, text, html})
	return nil
}

var testMessage = notification.Message{
	To:       "a@b.co",
	Subject:  "Verify your account",
	Template: notification.TemplateVerification,
	Context:  notification.Context{URL: "https://api.example.com/auth/verify-account?email=a%40b.co&verificationCode=01H", Code: "01H"},
}

func TestQueueNotifier(t *testing.T) {
	pub := &fakePublisher{}
	require.NoError(t, NewQueueNotifier(pub).Send(context.Background(), testMessage))
	require.Len(t, pub.bodies, 1)

	job, ok := pub.bodies[0].(EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@b.co", job.To)
	assert.Equal(t, "verification", job.Template)
	assert.Equal(t, "01H", job.Code)

	pub.err = errors.New("channel closed")
	assert.Error(t, NewQueueNotifier(pub).Send(context.Background(), testMessage))
}

func TestDirectNotifier(t *testing.T) {
	s := &fakeSender{}
	n := NewDirectNotifier(s, mailtpl.Branding{AppName: "MyVital"})

	require.NoError(t, n.Send(context.Background(), testMessage))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "a@b.co", s.sent[0].to)
	assert.Equal(t, "Verify your account", s.sent[0].subject)
	assert.Contains(t, s.sent[0].text, "01H")
	assert.Contains(t, s.sent[0].html, "verificationCode=01H")
}

func TestDeliver_TemplateSubjectWhenUnset(t *testing.T) {
	s := &fakeSender{}
	job := JobFromMessage(testMessage)
	job.Subject = ""
	job.Template = notification.TemplatePasswordReset

	require.NoError(t, Deliver(context.Background(), s, mailtpl.Branding{AppName: "MyVital"}, job))
	assert.Equal(t, "Reset your password for MyVital", s.sent[0].subject)
}

func TestDeliver_Failures(t *testing.T) {
	ctx := context.Background()
	s := &fakeSender{}

	job := JobFromMessage(testMessage)
	job.To = ""
	assert.Error(t, Deliver(ctx, s, mailtpl.Branding{}, job))

	job = JobFromMessage(testMessage)
	job.Template = "unknown"
	assert.Error(t, Deliver(ctx, s, mailtpl.Branding{}, job))

	s.err = errors.New("mailgun down")
	assert.Error(t, Deliver(ctx, s, mailtpl.Branding{}, JobFromMessage(testMessage)))
	assert.Empty(t, s.sent)
}

func TestLogNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.InfoLevel)

	require.NoError(t, NewLogNotifier(logger).Send(context.Background(), testMessage))
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "a@b.co", hook.LastEntry().Data["to"])
	assert.NotContains(t, hook.LastEntry().Message, "01H")
}
