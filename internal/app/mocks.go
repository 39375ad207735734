package app

import (
	"creatorhub_backend/internal/email"
	"creatorhub_backend/internal/logger"
)

// MockEmailProvider используется, когда email.enabled = false: письма только логируются.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error {
	logger.Debug("email suppressed", "to", msg.To, "subject", msg.Subject)
	return nil
}

func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	logger.Debug("templated email suppressed", "to", to, "subject", subject, "template", templateName)
	return nil
}

func (m *MockEmailProvider) Validate() error { return nil }
