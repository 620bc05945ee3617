package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Email    string `json:"email" validate:"required,email"`
	Gender   string `json:"gender" validate:"gender"`
	Phone    string `json:"phone_number" validate:"phone10"`
	PassCode int    `json:"pass_code" validate:"omitempty,passcode"`
	Name     string `json:"first_name" validate:"min=2"`
}

func TestToDetails(t *testing.T) {
	v := validator.New()
	Configure(v)

	err := v.Struct(sample{Email: "nope", Gender: "X", Phone: "12ab", PassCode: 12, Name: "a"})
	got := ToDetails(err)

	assert.Equal(t, "must be a valid email", got["email"])
	assert.Equal(t, "must be one of: M, F, O", got["gender"])
	assert.Equal(t, "must be exactly 10 digits", got["phone_number"])
	assert.Equal(t, "must be between 1000 and 9999", got["pass_code"])
	assert.Equal(t, "must be at least 2 characters long", got["first_name"])
}

func TestToDetails_Payload(t *testing.T) {
	var dst map[string]any
	err := json.Unmarshal([]byte("{"), &dst)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	assert.Nil(t, ToDetails(nil))
}

func TestConfigure_ValidStruct(t *testing.T) {
	v := validator.New()
	Configure(v)
	assert.NoError(t, v.Struct(sample{Email: "a@b.co", Gender: "F", Phone: "0123456789", Name: "Al"}))
}
