package application

import (
	"context"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	"github.com/oksasatya/vital-identity/internal/domain/notification"
	repo "github.com/oksasatya/vital-identity/internal/domain/repository"
	"github.com/oksasatya/vital-identity/pkg/apperr"
	"github.com/oksasatya/vital-identity/pkg/helpers"
)

const (
	verifyAccountPath = "/auth/verify-account"
	passwordResetPath = "/auth/password-reset"
)

type TokenPair struct {
	AccessToken        string    `json:"access_token"`
	RefreshToken       string    `json:"refresh_token"`
	ExpiresIn          int64     `json:"expires_in"`
	AccessTokenExpiry  time.Time `json:"access_token_expiry"`
	RefreshTokenExpiry time.Time `json:"refresh_token_expiry"`
}

// Callback tells the client where to submit a code it received out of band.
type Callback struct {
	URL    string `json:"url"`
	Method string `json:"method"`
}

// AuthConfig carries the immutable settings of the orchestrator.
type AuthConfig struct {
	APIURL              string
	VerificationPurpose string
	ResetPurpose        string
}

type AuthService struct {
	Users     repo.UserRepository
	Codes     *CodeManager
	Creds     *helpers.CredentialManager
	JWT       *helpers.JWTManager
	Notifier  notification.Notifier
	Directory UserDirectory
	Logger    *logrus.Logger
	cfg       AuthConfig
}

func NewAuthService(users repo.UserRepository, codes *CodeManager, creds *helpers.CredentialManager, jwt *helpers.JWTManager, notifier notification.Notifier, directory UserDirectory, logger *logrus.Logger, cfg AuthConfig) *AuthService {
	if cfg.VerificationPurpose == "" {
		cfg.VerificationPurpose = helpers.PurposeVerification
	}
	if cfg.ResetPurpose == "" {
		cfg.ResetPurpose = helpers.PurposeReset
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	return &AuthService{
		Users:     users,
		Codes:     codes,
		Creds:     creds,
		JWT:       jwt,
		Notifier:  notifier,
		Directory: directory,
		Logger:    orDiscard(logger),
		cfg:       cfg,
	}
}

func orDiscard(l *logrus.Logger) *logrus.Logger {
	if l != nil {
		return l
	}
	l = logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Register validates in, hashes the password and stores an inactive, unverified user.
func (s *AuthService) Register(ctx context.Context, in factory.UserInput) (*entity.User, error) {
	u, err := factory.NewUser(in, s.Creds)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "create user")
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	indexUser(ctx, s.Directory, s.Logger, u)
	return u, nil
}

// Login checks the credential and returns a token pair. Unknown emails are NotFound,
// wrong passwords Unauthenticated.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return TokenPair{}, err
	}
	if !s.Creds.Verify(password, u.PasswordHash) {
		s.Logger.WithField("user_id", u.ID).Warn("login rejected: credential mismatch")
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "invalid credentials")
	}
	return s.issue(ctx, u)
}

// Refresh issues a new access token bound to the subject's stored refresh token. The
// refresh token is reused as long as an unexpired one is on record.
func (s *AuthService) Refresh(ctx context.Context, userID string) (TokenPair, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return TokenPair{}, apperr.Wrap(err, apperr.FailedPrecondition, "load user")
	}
	return s.issue(ctx, u)
}

// RefreshWithToken resolves the subject from a presented refresh token and refreshes it,
// rejecting tokens that are no longer the one on record.
func (s *AuthService) RefreshWithToken(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}
	pair, err := s.Refresh(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, err
	}
	if pair.RefreshToken != refreshToken {
		return TokenPair{}, apperr.New(apperr.Unauthenticated, "refresh token revoked")
	}
	return pair, nil
}

func (s *AuthService) VerifyAccessToken(_ context.Context, token string) (*helpers.AccessClaims, error) {
	return s.JWT.VerifyAccessToken(token)
}

func (s *AuthService) issue(ctx context.Context, u *entity.User) (TokenPair, error) {
	sub := helpers.Subject{ID: u.ID, Email: u.Email, Role: string(u.Role)}

	var (
		refresh string
		rexp    time.Time
	)
	if u.RefreshToken != nil && *u.RefreshToken != "" {
		refresh = *u.RefreshToken
		rexp = s.JWT.RefreshExpiry(refresh)
	}
	// A lapsed or unreadable stored token counts as absent.
	if !rexp.After(time.Now()) {
		var err error
		refresh, rexp, err = s.JWT.IssueRefreshToken(sub)
		if err != nil {
			return TokenPair{}, err
		}
		if err := s.Users.Update(ctx, u.ID, entity.UserPatch{RefreshToken: &refresh}); err != nil {
			return TokenPair{}, apperr.Wrap(err, apperr.FailedPrecondition, "persist refresh token")
		}
		u.RefreshToken = &refresh
		s.Logger.WithField("user_id", u.ID).Info("refresh token issued")
	}

	access, aexp, err := s.JWT.IssueAccessToken(sub, refresh)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:        access,
		RefreshToken:       refresh,
		ExpiresIn:          int64(s.JWT.AccessTTL / time.Second),
		AccessTokenExpiry:  aexp,
		RefreshTokenExpiry: rexp,
	}, nil
}

// GenerateVerificationCode stores a fresh verification code and mails it. The returned
// callback does not contain the code.
func (s *AuthService) GenerateVerificationCode(ctx context.Context, email string) (Callback, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return Callback{}, err
	}
	if u.IsVerified {
		return Callback{}, apperr.New(apperr.AlreadyExists, "account already verified")
	}
	return s.sendCode(ctx, u, s.cfg.VerificationPurpose, verifyAccountPath, "verificationCode",
		"Verify your account", notification.TemplateVerification)
}

// VerifyAccount consumes the verification code and marks the user verified and active.
func (s *AuthService) VerifyAccount(ctx context.Context, email, code string) error {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u.IsVerified {
		return apperr.New(apperr.AlreadyExists, "account already verified")
	}
	if err := s.Codes.Consume(ctx, u.ID, s.cfg.VerificationPurpose, code); err != nil {
		return err
	}
	yes := true
	if err := s.Users.Update(ctx, u.ID, entity.UserPatch{IsVerified: &yes, IsActive: &yes}); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "mark user verified")
	}
	u.IsVerified, u.IsActive, u.VerificationCode = true, true, nil
	s.Logger.WithField("user_id", u.ID).Info("account verified")
	indexUser(ctx, s.Directory, s.Logger, u)
	return nil
}

func (s *AuthService) GeneratePasswordResetCode(ctx context.Context, email string) (Callback, error) {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return Callback{}, err
	}
	return s.sendCode(ctx, u, s.cfg.ResetPurpose, passwordResetPath, "passwordResetCode",
		"Reset your password", notification.TemplatePasswordReset)
}

// PasswordReset replaces the credential when code matches the stored reset code. The
// code is consumed only after the new hash is stored, so a rejected password or a failed
// write leaves the code usable.
func (s *AuthService) PasswordReset(ctx context.Context, email, code, newPassword string) error {
	u, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !s.Codes.Matches(u, s.cfg.ResetPurpose, code) {
		return apperr.New(apperr.Unauthenticated, "invalid code")
	}
	hash, err := s.Creds.Rotate(newPassword, u.PasswordHash)
	if err != nil {
		return err
	}
	if err := s.Users.Update(ctx, u.ID, entity.UserPatch{PasswordHash: &hash}); err != nil {
		return apperr.Wrap(err, apperr.FailedPrecondition, "store password")
	}
	if err := s.Codes.Consume(ctx, u.ID, s.cfg.ResetPurpose, code); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("password reset")
	return nil
}

func (s *AuthService) sendCode(ctx context.Context, u *entity.User, purpose, path, codeParam, subject, template string) (Callback, error) {
	code := s.Codes.Generate()
	if err := s.Codes.Store(ctx, u.ID, purpose, code); err != nil {
		return Callback{}, err
	}

	callback := s.cfg.APIURL + path + "?" + url.Values{"email": {u.Email}}.Encode()
	link := callback + "&" + url.Values{codeParam: {code}}.Encode()

	msg := notification.Message{
		To:       u.Email,
		Subject:  subject,
		Template: template,
		Context:  notification.Context{URL: link, Code: code},
	}
	if err := s.Notifier.Send(ctx, msg); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{"user_id": u.ID, "template": template}).Error("notification failed")
		return Callback{}, apperr.Wrap(err, apperr.FailedPrecondition, "send %s code", purpose)
	}
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "purpose": purpose}).Info("one-time code sent")
	return Callback{URL: callback, Method: "POST"}, nil
}

func (s *AuthService) userByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.FailedPrecondition, "load user")
	}
	return u, nil
}
