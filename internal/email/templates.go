package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateManager хранит распарсенные html/template шаблоны
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		// встроенные шаблоны статичны, ошибка парсинга = баг
		if err := tm.AddTemplate(name, body); err != nil {
			panic(err)
		}
	}
	return tm
}

func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

func (tm *TemplateManager) AddTemplate(name string, body string) error {
	tpl, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

var builtinTemplates = map[string]string{
	TemplateApplicationApproved: `<p>Hi {{.Name}},</p>
<p>Your application has been <strong>approved</strong>. Your creator dashboard is now available.</p>`,
	TemplateApplicationRejected: `<p>Hi {{.Name}},</p>
<p>Unfortunately your application has been rejected.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`,
	TemplateChannelReviewed: `<p>Hi {{.Name}},</p>
<p>Your channel {{.ChannelURL}} has been {{.Status}}.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}`,
}
