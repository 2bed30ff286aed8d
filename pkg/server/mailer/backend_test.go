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
	"bytes"
	"errors"
	"strings"
	"testing"

	"gopkg.in/gomail.v2"
)

type mockDialer struct {
	sentMessages []*gomail.Message
	err          error
}

func (m *mockDialer) DialAndSend(msgs ...*gomail.Message) error {
	m.sentMessages = append(m.sentMessages, msgs...)
	return m.err
}

func TestSMTPBackendSendEmail(t *testing.T) {
	t.Run("delivers rendered email", func(t *testing.T) {
		mock := &mockDialer{}
		backend := &SMTPBackend{
			Dialer:    mock,
			Templates: NewTemplates(),
		}

		data := ReminderTmplData{Name: "Bob", Date: "2024-04-15", Pending: []string{"Read"}, BaseURL: "http://localhost:3000"}
		if err := backend.SendEmail(EmailTypeReminder, "noreply@example.com", []string{"bob@example.com"}, data); err != nil {
			t.Fatalf("SendEmail failed: %v", err)
		}

		if len(mock.sentMessages) != 1 {
			t.Fatalf("expected 1 message sent, got %d", len(mock.sentMessages))
		}

		m := mock.sentMessages[0]
		if got := m.GetHeader("To"); len(got) != 1 || got[0] != "bob@example.com" {
			t.Errorf("unexpected recipients %v", got)
		}
		if got := m.GetHeader("Subject"); len(got) != 1 || got[0] != "1 habit waiting for 2024-04-15" {
			t.Errorf("unexpected subject %v", got)
		}
		if got := m.GetHeader("Date"); len(got) != 1 {
			t.Errorf("expected a Date header, got %v", got)
		}

		var buf bytes.Buffer
		if _, err := m.WriteTo(&buf); err != nil {
			t.Fatalf("writing message: %v", err)
		}
		if !strings.Contains(buf.String(), "- Read") {
			t.Errorf("message did not contain the pending habit")
		}
	})

	t.Run("dial failure", func(t *testing.T) {
		backend := &SMTPBackend{
			Dialer:    &mockDialer{err: errors.New("connection refused")},
			Templates: NewTemplates(),
		}

		err := backend.SendEmail(EmailTypeWelcome, "noreply@example.com", []string{"bob@example.com"}, WelcomeTmplData{})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		mock := &mockDialer{}
		backend := &SMTPBackend{Dialer: mock, Templates: NewTemplates()}

		if err := backend.SendEmail("unknown", "noreply@example.com", []string{"bob@example.com"}, nil); err == nil {
			t.Fatal("expected error, got nil")
		}
		if len(mock.sentMessages) != 0 {
			t.Errorf("expected nothing sent, got %d", len(mock.sentMessages))
		}
	})
}

func TestNewSMTPBackend(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		backend, err := NewSMTPBackend(SMTPConfig{Host: "smtp.example.com", Port: 587, Username: "user", Password: "secret"})
		if err != nil {
			t.Fatalf("NewSMTPBackend failed: %v", err)
		}
		if backend.Dialer == nil {
			t.Error("expected Dialer to be set")
		}
	})

	t.Run("without host", func(t *testing.T) {
		if _, err := NewSMTPBackend(SMTPConfig{Port: 587}); err != ErrSMTPNotConfigured {
			t.Errorf("expected ErrSMTPNotConfigured, got %v", err)
		}
	})

	t.Run("invalid port", func(t *testing.T) {
		if _, err := NewSMTPBackend(SMTPConfig{Host: "smtp.example.com"}); err == nil {
			t.Error("expected error for invalid port")
		}
	})
}

func TestLogBackendSendEmail(t *testing.T) {
	backend := NewLogBackend()

	if err := backend.SendEmail(EmailTypeWelcome, "noreply@example.com", []string{"bob@example.com"}, WelcomeTmplData{AccountEmail: "bob@example.com"}); err != nil {
		t.Fatalf("SendEmail failed: %v", err)
	}
	if err := backend.SendEmail("unknown", "noreply@example.com", []string{"bob@example.com"}, nil); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
