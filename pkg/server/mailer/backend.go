/* Copyright 2025 Habitboard Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package mailer

import (
	"time"

	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// ErrSMTPNotConfigured is an error for an SMTP configuration without a host
var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

// Backend delivers emails
type Backend interface {
	SendEmail(emailType, from string, to []string, data interface{}) error
}

// SMTPConfig is the address and credentials of an SMTP server
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Configured reports whether an SMTP server was given
func (c SMTPConfig) Configured() bool {
	return c.Host != ""
}

// Dialer sends messages to an SMTP server
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPBackend renders emails and delivers them over SMTP as they are sent
type SMTPBackend struct {
	Dialer    Dialer
	Templates Templates
}

// NewSMTPBackend returns a backend delivering to the given server
func NewSMTPBackend(c SMTPConfig) (*SMTPBackend, error) {
	if !c.Configured() {
		return nil, ErrSMTPNotConfigured
	}
	if c.Port <= 0 {
		return nil, errors.Errorf("invalid SMTP port %d", c.Port)
	}

	return &SMTPBackend{
		Dialer:    gomail.NewDialer(c.Host, c.Port, c.Username, c.Password),
		Templates: NewTemplates(),
	}, nil
}

func newMessage(e Email) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To...)
	m.SetHeader("Subject", e.Subject)
	m.SetDateHeader("Date", time.Now())
	m.SetBody("text/plain", e.Body)

	return m
}

// SendEmail renders the email and delivers it
func (b *SMTPBackend) SendEmail(emailType, from string, to []string, data interface{}) error {
	e, err := b.Templates.Render(emailType, from, to, data)
	if err != nil {
		return errors.Wrap(err, "rendering email")
	}

	if err := b.Dialer.DialAndSend(newMessage(e)); err != nil {
		return errors.Wrap(err, "delivering email")
	}

	return nil
}

// LogBackend renders emails and writes them to the log instead of
// delivering them. It serves setups without SMTP.
type LogBackend struct {
	Templates Templates
}

// NewLogBackend returns a log backend
func NewLogBackend() *LogBackend {
	return &LogBackend{
		Templates: NewTemplates(),
	}
}

// SendEmail renders the email and logs it
func (b *LogBackend) SendEmail(emailType, from string, to []string, data interface{}) error {
	e, err := b.Templates.Render(emailType, from, to, data)
	if err != nil {
		return errors.Wrap(err, "rendering email")
	}

	log.WithFields(log.Fields{
		"type":    emailType,
		"from":    e.From,
		"to":      e.To,
		"subject": e.Subject,
		"body":    e.Body,
	}).Info("Email not delivered without SMTP.")

	return nil
}
