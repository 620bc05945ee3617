// Package container builds the object graph once at startup. Nothing in it is global;
// cmd/main.go owns the Container and hands it to the router.
package container

import (
	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/config"
	"github.com/oksasatya/vital-identity/internal/application"
	"github.com/oksasatya/vital-identity/internal/domain/notification"
	pginfra "github.com/oksasatya/vital-identity/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/vital-identity/internal/interface/http"
	"github.com/oksasatya/vital-identity/pkg/helpers"
	"github.com/oksasatya/vital-identity/pkg/mailer"
	mailtpl "github.com/oksasatya/vital-identity/pkg/mailer/templates"
)

// Infra are the externally owned clients the container wires in. Redis and
// Directory may be nil; the rate limiter and the user directory are then disabled.
type Infra struct {
	DB        pginfra.DB
	Redis     *redis.Client
	Notifier  notification.Notifier
	Directory application.UserDirectory
}

type Container struct {
	Config *config.Config
	Logger *logrus.Logger
	Redis  *redis.Client

	UserRepo *pginfra.UserRepository

	JWT     *helpers.JWTManager
	Creds   *helpers.CredentialManager
	Cookies *helpers.CookieManager

	Auth    *application.AuthService
	Users   *application.UserService
	Devices *application.DeviceService
	FAQs    *application.FAQService

	AuthHandler   *handlers.AuthHandler
	UserHandler   *handlers.UserHandler
	DeviceHandler *handlers.DeviceHandler
	FAQHandler    *handlers.FAQHandler
}

func New(cfg *config.Config, logger *logrus.Logger, infra Infra) *Container {
	userRepo := pginfra.NewUserRepository(infra.DB)
	deviceRepo := pginfra.NewDeviceRepository(infra.DB)
	faqRepo := pginfra.NewFAQRepository(infra.DB)

	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshMultiplier)
	creds := helpers.NewCredentialManager(cfg.PasswordMinLength, cfg.PasswordMaxLength, cfg.BcryptCost)
	codes := application.NewCodeManager(userRepo, cfg.VerificationPurpose, cfg.ResetPurpose)

	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Redis:    infra.Redis,
		UserRepo: userRepo,
		JWT:      jwt,
		Creds:    creds,
		Cookies:  helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
	}
	c.Auth = application.NewAuthService(userRepo, codes, creds, jwt, infra.Notifier, infra.Directory, logger, application.AuthConfig{
		APIURL:              cfg.APIURL,
		VerificationPurpose: cfg.VerificationPurpose,
		ResetPurpose:        cfg.ResetPurpose,
	})
	c.Users = application.NewUserService(userRepo, infra.Directory, logger)
	c.Devices = application.NewDeviceService(deviceRepo, userRepo, logger)
	c.FAQs = application.NewFAQService(faqRepo, logger)

	c.AuthHandler = handlers.NewAuthHandler(c.Auth, logger, c.Cookies)
	c.UserHandler = handlers.NewUserHandler(c.Users, logger)
	c.DeviceHandler = handlers.NewDeviceHandler(c.Devices, logger)
	c.FAQHandler = handlers.NewFAQHandler(c.FAQs, logger)
	return c
}

// Branding returns the values shown in every email.
func Branding(cfg *config.Config) mailtpl.Branding {
	return mailtpl.Branding{AppName: cfg.AppName, CompanyName: cfg.CompanyName, SupportURL: cfg.SupportURL}
}

// NewNotifier picks the notification transport from MAIL_SEND_ENABLED and
// MAIL_TRANSPORT. The returned close func releases the broker connection, if any.
func NewNotifier(cfg *config.Config, logger *logrus.Logger) (notification.Notifier, func(), error) {
	noop := func() {}
	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; codes are logged, not sent")
		return mailer.NewLogNotifier(logger), noop, nil
	}
	switch cfg.MailTransport {
	case "direct":
		if !cfg.MailgunConfigured() {
			return nil, noop, oops.Errorf("mailgun not configured")
		}
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		return mailer.NewDirectNotifier(mg, Branding(cfg)), noop, nil
	case "queue", "":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			return nil, noop, err
		}
		return mailer.NewQueueNotifier(pub), pub.Close, nil
	default:
		return nil, noop, oops.With("transport", cfg.MailTransport).Errorf("unknown mail transport")
	}
}
