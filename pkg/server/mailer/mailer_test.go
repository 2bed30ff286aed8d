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
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func TestNewTemplates(t *testing.T) {
	tmpl := NewTemplates()

	for _, emailType := range emailTypes {
		if _, ok := tmpl[emailType]; !ok {
			t.Errorf("template %s not initialized", emailType)
		}
	}
}

func TestRender_unknownType(t *testing.T) {
	if _, err := NewTemplates().Render("unknown", "a@example.com", nil, nil); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestWelcomeEmail(t *testing.T) {
	testCases := []struct {
		name         string
		accountEmail string
		baseURL      string
		greeting     string
	}{
		{
			name:         "Alice",
			accountEmail: "alice@example.com",
			baseURL:      "http://localhost:3000",
			greeting:     "Hi Alice,",
		},
		{
			name:         "",
			accountEmail: "user@example.org",
			baseURL:      "https://habits.example.org",
			greeting:     "Hi there,",
		},
	}

	tmpl := NewTemplates()

	for _, tc := range testCases {
		t.Run(tc.accountEmail, func(t *testing.T) {
			dat := WelcomeTmplData{
				Name:         tc.name,
				AccountEmail: tc.accountEmail,
				Buckets:      []string{"Exercise", "Read", "Sleep by 11"},
				MaxBuckets:   5,
				BaseURL:      tc.baseURL,
			}
			e, err := tmpl.Render(EmailTypeWelcome, "noreply@example.com", []string{tc.accountEmail}, dat)
			if err != nil {
				t.Fatal(errors.Wrap(err, "rendering"))
			}

			if e.Subject != "Welcome to Habitboard!" {
				t.Errorf("expected subject 'Welcome to Habitboard!', got '%s'", e.Subject)
			}
			if !strings.HasPrefix(e.Body, tc.greeting) {
				t.Errorf("email body should start with %q:\n%s", tc.greeting, e.Body)
			}
			for _, want := range []string{tc.baseURL, tc.accountEmail, "3 habits", "Exercise, Read, Sleep by 11", "up to 5"} {
				if !strings.Contains(e.Body, want) {
					t.Errorf("email body did not contain %q", want)
				}
			}
		})
	}
}

func TestReminderEmail(t *testing.T) {
	testCases := []struct {
		pending []string
		subject string
		summary string
	}{
		{
			pending: []string{"Read"},
			subject: "1 habit waiting for 2024-04-15",
			summary: "1 habit to check off for 2024-04-15",
		},
		{
			pending: []string{"Exercise", "Read"},
			subject: "2 habits waiting for 2024-04-15",
			summary: "2 habits to check off for 2024-04-15",
		},
	}

	tmpl := NewTemplates()

	for _, tc := range testCases {
		t.Run(tc.summary, func(t *testing.T) {
			dat := ReminderTmplData{
				Name:    "Bob",
				Date:    "2024-04-15",
				Pending: tc.pending,
				BaseURL: "http://localhost:3000",
			}
			e, err := tmpl.Render(EmailTypeReminder, "noreply@example.com", []string{"bob@example.com"}, dat)
			if err != nil {
				t.Fatal(errors.Wrap(err, "rendering"))
			}

			if e.Subject != tc.subject {
				t.Errorf("expected subject %q, got %q", tc.subject, e.Subject)
			}
			if !strings.Contains(e.Body, tc.summary) {
				t.Errorf("email body did not contain %q:\n%s", tc.summary, e.Body)
			}
			for _, p := range tc.pending {
				if !strings.Contains(e.Body, "- "+p) {
					t.Errorf("email body did not list %s", p)
				}
			}
		})
	}
}
