package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type leadNotificationEmailData struct {
	BusinessName string
	LeadName     string
	LeadEmail    string
	LeadPhone    string
	CityName     string
	StateAbbr    string
	Message      string
}

// renderEmailTemplate renders the named template against data.
func renderEmailTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.New(name).ParseFS(templateFS, "templates/"+name)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render email template %s: %w", name, err)
	}

	return buf.String(), nil
}
