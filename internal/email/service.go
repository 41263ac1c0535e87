package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/dukerupert/stshop/internal/telemetry"
)

//go:embed templates/*.html
var templateFS embed.FS

// Service composes templated emails and hands them to a Sender.
type Service struct {
	sender       Sender
	managerEmail string
	templates    map[string]*template.Template
}

// NewService parses the embedded templates. Notifications about orders go to
// managerEmail.
func NewService(sender Sender, managerEmail string) (*Service, error) {
	layout, err := template.ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email layout: %w", err)
	}

	templates := make(map[string]*template.Template)
	for _, name := range []string{OrderPlacedEmail{}.TemplateName()} {
		tmpl, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone email layout: %w", err)
		}
		if tmpl, err = tmpl.ParseFS(templateFS, "templates/"+name); err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		templates[name] = tmpl
	}

	return &Service{
		sender:       sender,
		managerEmail: managerEmail,
		templates:    templates,
	}, nil
}

// SendOrderPlaced notifies the shop manager about a new order.
func (s *Service) SendOrderPlaced(ctx context.Context, data OrderPlacedEmail) error {
	err := s.send(ctx, []string{s.managerEmail}, data.CustomerEmail, data)
	if err != nil {
		return fmt.Errorf("failed to send order notification: %w", err)
	}
	return nil
}

func (s *Service) send(ctx context.Context, to []string, replyTo string, data EmailTemplate) error {
	htmlBody, textBody, err := s.renderTemplate(data.TemplateName(), data)
	if err != nil {
		s.recordFailure(data)
		return err
	}

	_, err = s.sender.Send(ctx, &Email{
		To:       to,
		ReplyTo:  replyTo,
		Subject:  data.Subject(),
		HTMLBody: htmlBody,
		TextBody: textBody,
	})
	if err != nil {
		s.recordFailure(data)
		return err
	}

	if telemetry.Business != nil {
		telemetry.Business.EmailSent.WithLabelValues(data.TemplateName()).Inc()
	}
	return nil
}

func (s *Service) recordFailure(data EmailTemplate) {
	if telemetry.Business != nil {
		telemetry.Business.EmailFailed.WithLabelValues(data.TemplateName()).Inc()
	}
}

func (s *Service) renderTemplate(name string, data interface{}) (string, string, error) {
	tmpl, ok := s.templates[name]
	if !ok {
		return "", "", fmt.Errorf("email template %s not found", name)
	}

	var htmlBuf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&htmlBuf, "email_layout", data); err != nil {
		return "", "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	htmlBody := htmlBuf.String()
	return htmlBody, generatePlainText(htmlBody), nil
}

// generatePlainText creates a simple plain text version from HTML
func generatePlainText(html string) string {
	text := html

	for _, tag := range []string{"<br>", "<br/>", "<br />", "</div>"} {
		text = strings.ReplaceAll(text, tag, "\n")
	}
	for _, tag := range []string{"</p>", "</h1>", "</h2>", "</h3>"} {
		text = strings.ReplaceAll(text, tag, "\n\n")
	}

	for {
		start := strings.Index(text, "<")
		if start < 0 {
			break
		}
		end := strings.Index(text[start:], ">")
		if end < 0 {
			break
		}
		text = text[:start] + text[start+end+1:]
	}

	text = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", "\"",
		"&#34;", "\"",
		"&#39;", "'",
	).Replace(text)

	lines := strings.Split(text, "\n")
	cleaned := lines[:0]
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
