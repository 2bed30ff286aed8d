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

package app

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/mailer"
	"github.com/pkg/errors"
)

// GetSenderEmail returns the noreply address on the domain of the given base URL
func GetSenderEmail(baseURL string) (string, error) {
	domain, err := getDomainFromURL(baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing base url")
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return host, nil
	}

	return parts[len(parts)-2] + "." + parts[len(parts)-1], nil
}

// SendWelcomeEmail sends welcome email
func (a *App) SendWelcomeEmail(user database.User) error {
	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.WelcomeTmplData{
		Name:         user.Name,
		AccountEmail: user.Email,
		Buckets:      database.DefaultBucketNames,
		MaxBuckets:   database.MaxBucketsPerUser,
		BaseURL:      a.BaseURL,
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeWelcome, from, []string{user.Email}, data); err != nil {
		return errors.Wrapf(err, "sending welcome email for %s", user.Email)
	}

	return nil
}

// SendReminderEmail sends a reminder listing the buckets still unchecked on the given date
func (a *App) SendReminderEmail(user database.User, date string, pending []string) error {
	from, err := GetSenderEmail(a.BaseURL)
	if err != nil {
		return errors.Wrap(err, "getting the sender email")
	}

	data := mailer.ReminderTmplData{
		Name:    user.Name,
		Date:    date,
		Pending: pending,
		BaseURL: a.BaseURL,
	}

	if err := a.EmailBackend.SendEmail(mailer.EmailTypeReminder, from, []string{user.Email}, data); err != nil {
		return errors.Wrapf(err, "sending reminder email for %s", user.Email)
	}

	return nil
}
