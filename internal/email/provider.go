package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет готовое письмо
	Send(email *Email) error

	// SendTemplate рендерит шаблон и отправляет письмо
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// Validate проверяет конфигурацию провайдера
	Validate() error
}

// TemplateRenderer рендерит HTML-шаблоны писем
type TemplateRenderer interface {
	Render(templateName string, data TemplateData) (string, error)
}
