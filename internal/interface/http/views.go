package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/vital-identity/internal/application"
	"github.com/oksasatya/vital-identity/internal/domain/entity"
	"github.com/oksasatya/vital-identity/internal/domain/factory"
	"github.com/oksasatya/vital-identity/pkg/response"
	"github.com/oksasatya/vital-identity/pkg/validation"
)

// Use cases consumed by the handlers. The application services implement them.
type (
	AuthUseCases interface {
		Register(ctx context.Context, in factory.UserInput) (*entity.User, error)
		Login(ctx context.Context, email, password string) (application.TokenPair, error)
		RefreshWithToken(ctx context.Context, refreshToken string) (application.TokenPair, error)
		GenerateVerificationCode(ctx context.Context, email string) (application.Callback, error)
		VerifyAccount(ctx context.Context, email, code string) error
		GeneratePasswordResetCode(ctx context.Context, email string) (application.Callback, error)
		PasswordReset(ctx context.Context, email, code, newPassword string) error
	}

	ProfileUseCases interface {
		Profile(ctx context.Context, userID string) (*entity.User, error)
		Deactivate(ctx context.Context, userID string) error
		AppendStatus(ctx context.Context, in factory.UserStatusInput) (*entity.UserStatus, error)
		Statuses(ctx context.Context, userID string) ([]entity.UserStatus, error)
		RegularUsers(ctx context.Context, q string, size int) ([]application.DirectoryEntry, error)
	}

	DeviceUseCases interface {
		Register(ctx context.Context, in factory.DeviceInput) (*entity.Device, error)
		Update(ctx context.Context, in factory.DeviceInput) (*entity.Device, error)
		Get(ctx context.Context, id string) (*entity.Device, error)
		List(ctx context.Context) ([]entity.Device, error)
		ListByStatus(ctx context.Context, status entity.DeviceStatus) ([]entity.Device, error)
		Activate(ctx context.Context, id string) error
		Deactivate(ctx context.Context, id string) error
		Touch(ctx context.Context, id string) error
	}

	FAQUseCases interface {
		List(ctx context.Context, category string) ([]entity.FAQ, error)
		Get(ctx context.Context, id string) (*entity.FAQ, error)
		Create(ctx context.Context, in application.FAQInput) (*entity.FAQ, error)
		Update(ctx context.Context, id string, in application.FAQInput) (*entity.FAQ, error)
		Delete(ctx context.Context, id string) error
	}
)

var (
	_ AuthUseCases    = (*application.AuthService)(nil)
	_ ProfileUseCases = (*application.UserService)(nil)
	_ DeviceUseCases  = (*application.DeviceService)(nil)
	_ FAQUseCases     = (*application.FAQService)(nil)
)

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

type userView struct {
	ID          string       `json:"id"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Location    string       `json:"location"`
	Gender      string       `json:"gender"`
	Role        string       `json:"role"`
	PhoneNumber string       `json:"phone_number"`
	IDNumber    *string      `json:"id_number,omitempty"`
	DateOfBirth string       `json:"date_of_birth"`
	IsActive    bool         `json:"is_active"`
	IsVerified  bool         `json:"is_verified"`
	DeviceID    *string      `json:"device_id,omitempty"`
	Statuses    []statusView `json:"statuses,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// toUserView never exposes the credential hash, the codes or the refresh token.
func toUserView(u *entity.User) userView {
	v := userView{
		ID:          u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Location:    u.Location,
		Gender:      string(u.Gender),
		Role:        string(u.Role),
		PhoneNumber: u.PhoneNumber,
		IDNumber:    u.IDNumber,
		DateOfBirth: u.DateOfBirth.Format(time.DateOnly),
		IsActive:    u.IsActive,
		IsVerified:  u.IsVerified,
		DeviceID:    u.DeviceID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	for _, st := range u.Statuses {
		v.Statuses = append(v.Statuses, toStatusView(st))
	}
	return v
}

type statusView struct {
	ID            string    `json:"id"`
	Temperature   float64   `json:"temperature"`
	HeartRate     float64   `json:"heart_rate"`
	BloodPressure float64   `json:"blood_pressure"`
	Metrics       metrics   `json:"metrics"`
	Status        string    `json:"status"`
	IssuedAt      time.Time `json:"issued_at"`
}

type metrics struct {
	Temperature   string `json:"temperature"`
	HeartRate     string `json:"heart_rate"`
	BloodPressure string `json:"blood_pressure"`
}

func toStatusView(st entity.UserStatus) statusView {
	return statusView{
		ID:            st.ID,
		Temperature:   st.Temperature,
		HeartRate:     st.HeartRate,
		BloodPressure: st.BloodPressure,
		Metrics: metrics{
			Temperature:   string(st.Metrics.Temperature),
			HeartRate:     st.Metrics.HeartRate,
			BloodPressure: st.Metrics.BloodPressure,
		},
		Status:   string(st.Status),
		IssuedAt: st.IssuedAt,
	}
}

type deviceView struct {
	ID        string    `json:"id"`
	IssuedAt  time.Time `json:"issued_at"`
	UserID    string    `json:"user_id"`
	Insurance struct {
		Name           string `json:"name"`
		ExpirationDate string `json:"expiration_date"`
	} `json:"insurance"`
	Status     string    `json:"status"`
	LastActive time.Time `json:"last_active"`
	Model      struct {
		Name         string  `json:"name"`
		Manufacturer string  `json:"manufacturer"`
		ReleaseDate  string  `json:"release_date"`
		LastUpdate   string  `json:"last_update"`
		Price        float64 `json:"price"`
	} `json:"model"`
	HasPassCode bool `json:"has_pass_code"`
}

func toDeviceView(d *entity.Device) deviceView {
	v := deviceView{
		ID:          d.ID,
		IssuedAt:    d.IssuedAt,
		UserID:      d.UserID,
		Status:      string(d.Status),
		LastActive:  d.LastActive,
		HasPassCode: d.PassCode != nil,
	}
	v.Insurance.Name = d.Insurance.Name
	v.Insurance.ExpirationDate = d.Insurance.ExpirationDate.Format(time.DateOnly)
	v.Model.Name = d.Model.Name
	v.Model.Manufacturer = d.Model.Manufacturer
	v.Model.ReleaseDate = d.Model.ReleaseDate.Format(time.DateOnly)
	v.Model.LastUpdate = d.Model.LastUpdate.Format(time.DateOnly)
	v.Model.Price = d.Model.Price
	return v
}

func toDeviceViews(ds []entity.Device) []deviceView {
	out := make([]deviceView, 0, len(ds))
	for i := range ds {
		out = append(out, toDeviceView(&ds[i]))
	}
	return out
}

type faqView struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

func toFAQView(f *entity.FAQ) faqView {
	return faqView{ID: f.ID, Question: f.Question, Answer: f.Answer, Category: f.Category}
}
