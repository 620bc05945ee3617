package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/oksasatya/vital-identity/config"
	"github.com/oksasatya/vital-identity/internal/container"
	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	pginfra "github.com/oksasatya/vital-identity/internal/infrastructure/postgres"
	"github.com/oksasatya/vital-identity/pkg/apperr"
	"github.com/oksasatya/vital-identity/pkg/helpers"
	"github.com/oksasatya/vital-identity/pkg/mailer"
)

// seed creates the first super-admin through the regular registration path and
// marks it verified and active.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	if cfg.SeedAdminPassword == "" {
		logger.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()

	c := container.New(cfg, logger, container.Infra{DB: pool, Notifier: mailer.NewLogNotifier(logger)})

	u, err := c.Auth.Register(ctx, factory.UserInput{
		Email:       cfg.SeedAdminEmail,
		Password:    cfg.SeedAdminPassword,
		FirstName:   "Super",
		LastName:    "Admin",
		Location:    "Headquarters",
		Gender:      string(entity.GenderOther),
		Role:        string(entity.RoleSuperAdmin),
		DateOfBirth: "1990-01-01",
		PhoneNumber: "0000000000",
	})
	if apperr.Is(err, apperr.AlreadyExists) {
		logger.WithField("email", cfg.SeedAdminEmail).Info("super-admin already seeded")
		return
	}
	if err != nil {
		helpers.LogError(logger, "failed to seed super-admin", err, nil)
		os.Exit(1)
	}

	active, verified := true, true
	if err := c.UserRepo.Update(ctx, u.ID, entity.UserPatch{IsActive: &active, IsVerified: &verified}); err != nil {
		helpers.LogError(logger, "failed to activate super-admin", err, nil)
		os.Exit(1)
	}
	logger.WithFields(map[string]any{"id": u.ID, "email": u.Email}).Info("seeded super-admin")
}
