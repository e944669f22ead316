package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Gin's validator resolves rules from the binding tag.
type credentialPayload struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	OTPCode  string `json:"otp_code" binding:"omitempty,otp"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	Init()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	return v
}

func TestPasswordAlias(t *testing.T) {
	v := newValidator(t)

	ok := credentialPayload{Email: "a@b.com", Password: "passw0rd"}
	assert.NoError(t, v.Struct(ok))

	for _, pwd := range []string{"short1", "allletters", "12345678"} {
		bad := credentialPayload{Email: "a@b.com", Password: pwd}
		assert.Error(t, v.Struct(bad), "password %q should fail", pwd)
	}
}

func TestOTPAlias(t *testing.T) {
	v := newValidator(t)

	ok := credentialPayload{Email: "a@b.com", Password: "passw0rd", OTPCode: "012345"}
	assert.NoError(t, v.Struct(ok))

	for _, code := range []string{"12345", "1234567", "12a456", "aaaaaa"} {
		bad := credentialPayload{Email: "a@b.com", Password: "passw0rd", OTPCode: code}
		assert.Error(t, v.Struct(bad), "otp %q should fail", code)
	}
}

func TestToDetails(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(credentialPayload{Email: "not-an-email", Password: ""})
	require.Error(t, err)

	details := ToDetails(err)
	assert.Equal(t, "must be a valid email", details["email"])
	assert.Equal(t, "is required", details["password"])
}

func TestToDetails_NonValidationError(t *testing.T) {
	details := ToDetails(assert.AnError)
	assert.Equal(t, map[string]string{"payload": "invalid payload"}, details)
	assert.Nil(t, ToDetails(nil))
}
