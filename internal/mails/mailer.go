package mails

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/go-mail/mail/v2"
)

//go:embed "templates"
var templateFS embed.FS

type Mailer struct {
	Dialer       *mail.Dialer
	Sender       string
	RetriesCount int
	RetryDelay   time.Duration
}

func New(host string, port int, timeout time.Duration, username, password, sender string, retriesCount int) *Mailer {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = timeout
	if retriesCount < 1 {
		retriesCount = 1
	}
	return &Mailer{
		Dialer:       dialer,
		Sender:       sender,
		RetriesCount: retriesCount,
		RetryDelay:   500 * time.Millisecond,
	}
}

func parseEmailTmpl(tmplName string, tmplData any) (map[string]string, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/"+tmplName)
	if err != nil {
		return nil, err
	}
	tmplPartials := map[string]string{
		"subject":   "",
		"plainBody": "",
		"htmlBody":  "",
	}
	for key := range tmplPartials {
		buff := new(bytes.Buffer)
		if err = tmpl.ExecuteTemplate(buff, key, tmplData); err != nil {
			return nil, err
		}
		tmplPartials[key] = buff.String()
	}
	return tmplPartials, nil
}

func (m *Mailer) newMessage(recipient string, tmplName string, tmplData any) (*mail.Message, error) {
	tmplPartials, err := parseEmailTmpl(tmplName, tmplData)
	if err != nil {
		return nil, err
	}
	msg := mail.NewMessage()
	msg.SetHeader("To", recipient)
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("Subject", tmplPartials["subject"])
	msg.SetBody("text/plain", tmplPartials["plainBody"])
	msg.AddAlternative("text/html", tmplPartials["htmlBody"])
	return msg, nil
}

func (m *Mailer) Send(recipient string, tmplName string, tmplData any) error {
	msg, err := m.newMessage(recipient, tmplName, tmplData)
	if err != nil {
		return err
	}
	for i := 0; i < m.RetriesCount; i++ {
		err = m.Dialer.DialAndSend(msg)
		if err == nil {
			return nil
		}
		time.Sleep(m.RetryDelay)
	}
	return err
}
