package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplateManager_RendersBuiltins(t *testing.T) {
	tm := NewTemplateManager()

	html, err := tm.Render(TemplateApplicationRejected, TemplateData{"Name": "Ann", "Reason": "<script>"})
	require.NoError(t, err)
	assert.Contains(t, html, "Hi Ann")
	assert.Contains(t, html, "&lt;script&gt;")

	html, err = tm.Render(TemplateApplicationApproved, TemplateData{"Name": "Bob"})
	require.NoError(t, err)
	assert.Contains(t, html, "approved")
}

func TestTemplateManager_UnknownTemplate(t *testing.T) {
	_, err := NewTemplateManager().Render("missing", nil)
	assert.Error(t, err)
}

func TestSMTPProvider_Validate(t *testing.T) {
	p := NewSMTPProvider(SMTPConfig{Port: 587, FromEmail: "a@b.c"}, nil)
	assert.Error(t, p.Validate())

	p = NewSMTPProvider(SMTPConfig{Host: "smtp.local", Port: 587, FromEmail: "a@b.c"}, nil)
	assert.NoError(t, p.Validate())
	assert.Error(t, p.Send(&Email{Subject: "no recipients"}))
}
