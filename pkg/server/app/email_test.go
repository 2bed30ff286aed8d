/* Copyright (C) 2019, 2020, 2021, 2022, 2023, 2024, 2025 Dnote contributors
 *
 * This file is part of Dnote.
 *
 * Dnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Dnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Dnote.  If not, see <https://www.gnu.org/licenses/>.
 */

package app

import (
	"fmt"
	"testing"

	"github.com/habitboard/habitboard/pkg/assert"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/mailer"
	"github.com/habitboard/habitboard/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestGetSenderEmail(t *testing.T) {
	testCases := []struct {
		baseURL  string
		expected string
	}{
		{baseURL: "https://www.habitboard.io", expected: "noreply@habitboard.io"},
		{baseURL: "https://habitboard.io", expected: "noreply@habitboard.io"},
		{baseURL: "https://board.example.com:8080", expected: "noreply@example.com"},
		{baseURL: "http://localhost:3000", expected: "noreply@localhost"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("base url %s", tc.baseURL), func(t *testing.T) {
			got, err := GetSenderEmail(tc.baseURL)
			if err != nil {
				t.Fatal(errors.Wrap(err, "getting sender email"))
			}

			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestSendWelcomeEmail(t *testing.T) {
	a := NewTest()
	a.BaseURL = "https://habitboard.io"
	backend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)

	user := database.User{Email: "alice@example.com", Name: "Alice"}
	if err := a.SendWelcomeEmail(user); err != nil {
		t.Fatal(errors.Wrap(err, "sending"))
	}

	sent := backend.Sent()
	assert.Equal(t, len(sent), 1, "email count mismatch")
	assert.Equal(t, sent[0].TemplateType, mailer.EmailTypeWelcome, "template mismatch")
	assert.Equal(t, sent[0].From, "noreply@habitboard.io", "sender mismatch")
	assert.DeepEqual(t, sent[0].To, []string{"alice@example.com"}, "recipient mismatch")
	assert.DeepEqual(t, sent[0].Data, mailer.WelcomeTmplData{
		Name:         "Alice",
		AccountEmail: "alice@example.com",
		Buckets:      database.DefaultBucketNames,
		MaxBuckets:   database.MaxBucketsPerUser,
		BaseURL:      "https://habitboard.io",
	}, "data mismatch")
}

func TestSendReminderEmail(t *testing.T) {
	a := NewTest()
	backend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)

	user := database.User{Email: "alice@example.com", Name: "Alice"}
	if err := a.SendReminderEmail(user, "2024-04-15", []string{"Read"}); err != nil {
		t.Fatal(errors.Wrap(err, "sending"))
	}

	sent := backend.Sent()
	assert.Equal(t, len(sent), 1, "email count mismatch")
	assert.Equal(t, sent[0].TemplateType, mailer.EmailTypeReminder, "template mismatch")
	assert.DeepEqual(t, sent[0].Data, mailer.ReminderTmplData{
		Name:    "Alice",
		Date:    "2024-04-15",
		Pending: []string{"Read"},
		BaseURL: "http://127.0.0.1",
	}, "data mismatch")
}
