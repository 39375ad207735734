package email

// Email - исходящее письмо
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// TemplateData - данные для шаблонов писем
type TemplateData map[string]interface{}

// Имена встроенных шаблонов
const (
	TemplateApplicationApproved = "application_approved"
	TemplateApplicationRejected = "application_rejected"
	TemplateChannelReviewed     = "channel_reviewed"
)
