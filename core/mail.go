package core

import (
	"bytes"
	"net/mail"
)

type (
	Attachment struct {
		Content     *bytes.Buffer
		ContentType string
		Filename    string
	}

	EmailMessage struct {
		To          []mail.Address
		Cc          []mail.Address
		Bcc         []mail.Address
		Subject     string
		BodyStr     string // text/plain content
		Attachments []Attachment
	}

	EmailService interface {
		SendMessages(messages ...*EmailMessage) error
	}
)

// HasRecipients reports whether at least one To/Cc/Bcc address is set.
func (m *EmailMessage) HasRecipients() bool {
	return len(m.To) > 0 || len(m.Cc) > 0 || len(m.Bcc) > 0
}
