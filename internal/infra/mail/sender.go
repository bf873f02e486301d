package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/arpitk/portfolio-backend/internal/infra/queue"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

var templateByKind = map[string]string{
	queue.KindContactAck:       "contact_acknowledgment.html",
	queue.KindCVDelivery:       "cv_delivery.html",
	queue.KindRecruiterWelcome: "recruiter_welcome.html",
	queue.KindAdminAlert:       "admin_alert.html",
}

// EmailSender renders notification templates and sends them over SMTP. It is
// the delivery side of the dispatcher contract; callers that need
// fire-and-forget semantics go through the queue, not through this directly.
type EmailSender struct {
	smtp SMTPConfig
	opts SenderOptions
}

func NewEmailSender(smtp SMTPConfig, opts SenderOptions) *EmailSender {
	return &EmailSender{smtp: smtp, opts: opts}
}

// Deliver implements queue.Deliverer.
func (s *EmailSender) Deliver(_ context.Context, n queue.Notification) error {
	subject, body, err := s.render(n)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.opts.From)
	m.SetHeader("To", n.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if len(n.Attachment) > 0 {
		content := n.Attachment
		m.Attach(n.AttachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(content)
			return err
		}))
	}

	d := gomail.NewDialer(s.smtp.Host, s.smtp.Port, s.smtp.User, s.smtp.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send %s email: %w", n.Kind, err)
	}

	return nil
}

func (s *EmailSender) render(n queue.Notification) (subject, body string, err error) {
	name, ok := templateByKind[n.Kind]
	if !ok {
		return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}

	data := templateData{
		Name:         n.Name,
		Subject:      n.Subject,
		Message:      n.Message,
		Company:      n.Company,
		Role:         n.Role,
		LeadEmail:    n.LeadEmail,
		FrontendURL:  s.opts.FrontendURL,
		CalendlyLink: s.opts.CalendlyLink,
		Phone:        s.opts.Phone,
		LoginLink:    s.opts.FrontendURL + "/recruiter-dashboard",
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", "", fmt.Errorf("render %s template: %w", n.Kind, err)
	}

	switch n.Kind {
	case queue.KindContactAck:
		subject = fmt.Sprintf("Re: %s | Arpit Kumar", n.Subject)
	case queue.KindCVDelivery:
		subject = fmt.Sprintf("Technical CV - Arpit Kumar | For %s", n.Company)
	case queue.KindRecruiterWelcome:
		subject = fmt.Sprintf("Your recruiter access, %s", n.Name)
	case queue.KindAdminAlert:
		subject = fmt.Sprintf("New lead: %s (%s)", n.Name, n.Subject)
	}

	return subject, buf.String(), nil
}
