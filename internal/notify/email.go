package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/scaninstead/api/internal/config"
	"github.com/scaninstead/api/internal/entity"
)

var tmplFuncs = template.FuncMap{
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

var pitchAlertTmpl = template.Must(template.New("pitchAlert").Funcs(tmplFuncs).Parse(`<h2>New pitch received</h2>
<p><strong>{{.Pitch.VisitorName}}</strong>{{if .Pitch.Company}} from <strong>{{deref .Pitch.Company}}</strong>{{end}} left you a pitch instead of knocking.</p>
<p><strong>Offer:</strong> {{.Pitch.Offer}}</p>
<p><strong>Reason:</strong> {{.Pitch.Reason}}</p>
{{if .Pitch.Analysis}}<p><strong>Summary:</strong> {{.Pitch.Analysis.Summary}}</p>
<p><strong>Business type:</strong> {{.Pitch.Analysis.BusinessType}} &middot; <strong>Urgency:</strong> {{.Pitch.Analysis.Urgency}}</p>{{end}}
{{if .Pitch.VisitorEmail}}<p><strong>Contact:</strong> {{deref .Pitch.VisitorEmail}}</p>{{end}}
{{if .Pitch.FileURL}}<p><a href="{{deref .Pitch.FileURL}}">Attached file</a></p>{{end}}`))

var welcomeTmpl = template.Must(template.New("welcome").Parse(`<h2>Welcome to ScanInstead, {{.Owner.FullName}}</h2>
<p>Your pitch page is live. Print the QR code below and put it by your door; visitors scan it and pitch you digitally.</p>
<p><a href="{{.Owner.PitchURL}}">{{.Owner.PitchURL}}</a></p>
<p><img src="{{.QR}}" alt="Your QR code"/></p>`))

// EmailSender delivers notifications over SMTP.
type EmailSender struct {
	cfg  config.SMTPConfig
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender builds an SMTP-backed sender.
func NewEmailSender(cfg config.SMTPConfig) *EmailSender {
	return &EmailSender{cfg: cfg, send: smtp.SendMail}
}

// SendPitchAlert emails the homeowner about a new pitch.
func (s *EmailSender) SendPitchAlert(_ context.Context, owner *entity.Homeowner, pitch *entity.Pitch) error {
	var body bytes.Buffer
	if err := pitchAlertTmpl.Execute(&body, map[string]any{"Pitch": pitch}); err != nil {
		return fmt.Errorf("render pitch alert: %w", err)
	}
	subject := fmt.Sprintf("New pitch from %s", pitch.VisitorName)
	return s.sendTo(owner.Email, subject, body.String())
}

// SendWelcome emails a new homeowner their pitch page link and QR code.
func (s *EmailSender) SendWelcome(_ context.Context, owner *entity.Homeowner) error {
	var body bytes.Buffer
	// The QR code is a data URL we generated ourselves; mark it trusted so
	// the template does not strip it.
	if err := welcomeTmpl.Execute(&body, map[string]any{"Owner": owner, "QR": template.URL(owner.QRUrl)}); err != nil {
		return fmt.Errorf("render welcome email: %w", err)
	}
	return s.sendTo(owner.Email, "Your ScanInstead pitch page is ready", body.String())
}

func (s *EmailSender) sendTo(to, subject, htmlBody string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.cfg.From, to, subject, htmlBody)

	addr := s.cfg.Host + ":" + s.cfg.Port
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	if err := s.send(addr, auth, s.cfg.User, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
