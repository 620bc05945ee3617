package container

import (
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vital-identity/config"
	"github.com/oksasatya/vital-identity/pkg/mailer"
)

func TestNew_WiresEverything(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	logger, _ := test.NewNullLogger()

	cfg := config.Load()
	cfg.RefreshMultiplier = 30
	c := New(cfg, logger, Infra{DB: mock, Notifier: mailer.NewLogNotifier(logger)})

	assert.NotNil(t, c.Auth)
	assert.NotNil(t, c.Users)
	assert.NotNil(t, c.Devices)
	assert.NotNil(t, c.FAQs)
	assert.NotNil(t, c.AuthHandler)
	assert.NotNil(t, c.UserHandler)
	assert.NotNil(t, c.DeviceHandler)
	assert.NotNil(t, c.FAQHandler)
	assert.Equal(t, cfg.AccessTTL*30, c.JWT.RefreshTTL)
	assert.Nil(t, c.Users.Directory)
}

func TestNewNotifier(t *testing.T) {
	logger, hook := test.NewNullLogger()

	n, closeFn, err := NewNotifier(&config.Config{MailSendEnabled: false}, logger)
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &mailer.LogNotifier{}, n)
	assert.NotEmpty(t, hook.Entries)

	n, _, err = NewNotifier(&config.Config{
		MailSendEnabled: true, MailTransport: "direct",
		MailgunDomain: "mg.example.com", MailgunAPIKey: "key", MailgunSender: "no-reply@example.com",
	}, logger)
	require.NoError(t, err)
	assert.IsType(t, &mailer.DirectNotifier{}, n)

	_, _, err = NewNotifier(&config.Config{MailSendEnabled: true, MailTransport: "direct"}, logger)
	assert.Error(t, err)

	_, _, err = NewNotifier(&config.Config{MailSendEnabled: true, MailTransport: "pigeon"}, logger)
	assert.Error(t, err)
}
