package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerifyEmail(t *testing.T) {
	data := EmailData{Name: "Alice", AppName: "Frontfolio", Code: "042137", ExpiresMinutes: 10}

	subject, text, html, err := Render(VerifyEmail, data)
	require.NoError(t, err)

	assert.NotEmpty(t, subject)
	assert.False(t, strings.ContainsAny(subject, "\r\n"))
	assert.Contains(t, text, "042137")
	assert.Contains(t, text, "Alice")
	assert.Contains(t, html, "042137")
	assert.Contains(t, html, "10")
}

func TestRenderForgotPassword(t *testing.T) {
	data := EmailData{Name: "Bob", AppName: "Frontfolio", Code: "900001", ExpiresMinutes: 10}

	subject, text, html, err := Render(ForgotPassword, data)
	require.NoError(t, err)

	assert.NotEmpty(t, subject)
	assert.Contains(t, text, "900001")
	assert.Contains(t, html, "900001")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("no_such_template", EmailData{})
	assert.Error(t, err)
}
