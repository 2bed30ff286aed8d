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

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/habitboard/habitboard/pkg/assert"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/pkg/errors"
)

var configEnvKeys = []string{
	"APP_ENV", "PORT", "WebURL", "DBPath", "LOG_LEVEL", "GOOGLE_CLIENT_ID",
	"DEV_AUTH_SECRET", "ADMIN_EMAILS", "EPOCH_DATE", "CSRF_KEY",
	"REMINDER_SCHEDULE", "STREAK_MODE", "SmtpHost", "SmtpPort",
	"SmtpUsername", "SmtpPassword", "TRUSTED_PROXY",
}

// clearEnv unsets the configuration variables for the duration of the test
func clearEnv(t *testing.T) {
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		config      Config
		expectedErr error
	}{
		{
			config: Config{
				DBPath:         "test.db",
				WebURL:         "http://mock.url",
				Port:           "3000",
				GoogleClientID: "client-id",
			},
			expectedErr: nil,
		},
		{
			config: Config{
				DBPath:         "",
				WebURL:         "http://mock.url",
				Port:           "3000",
				GoogleClientID: "client-id",
			},
			expectedErr: ErrDBMissingPath,
		},
		{
			config: Config{
				DBPath: "test.db",
			},
			expectedErr: ErrWebURLInvalid,
		},
		{
			config: Config{
				DBPath: "test.db",
				WebURL: "http://mock.url",
			},
			expectedErr: ErrPortInvalid,
		},
		{
			config: Config{
				DBPath: "test.db",
				WebURL: "http://mock.url",
				Port:   "3000",
			},
			expectedErr: ErrNoIdentityProvider,
		},
		{
			config: Config{
				AppEnv:        AppEnvProduction,
				DBPath:        "test.db",
				WebURL:        "http://mock.url",
				Port:          "3000",
				DevAuthSecret: "secret",
			},
			expectedErr: ErrDevAuthInProduction,
		},
		{
			config: Config{
				AppEnv:        "DEVELOPMENT",
				DBPath:        "test.db",
				WebURL:        "http://mock.url",
				Port:          "3000",
				DevAuthSecret: "secret",
			},
			expectedErr: nil,
		},
		{
			config: Config{
				DBPath:           "test.db",
				WebURL:           "http://mock.url",
				Port:             "3000",
				GoogleClientID:   "client-id",
				ReminderSchedule: "every evening",
			},
			expectedErr: ErrScheduleInvalid,
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			err := validate(tc.config)

			assert.ErrorIs(t, err, tc.expectedErr, "error mismatch")
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		c, err := New(Params{GoogleClientID: "client-id"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.AppEnv, AppEnvProduction, "app env mismatch")
		assert.Equal(t, c.Port, "3001", "port mismatch")
		assert.Equal(t, c.DBPath, DefaultDBPath, "db path mismatch")
		assert.Equal(t, c.LogLevel, "info", "log level mismatch")
		assert.Equal(t, c.Epoch, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC), "epoch mismatch")
		assert.Equal(t, c.StreakMode, stats.StreakCurrentSet, "streak mode mismatch")
		assert.Equal(t, len(c.CSRFKey), 0, "csrf key mismatch")
		assert.DeepEqual(t, c.AdminEmails, []string{}, "admin emails mismatch")
		assert.Equal(t, len(c.TrustedProxies), 0, "trusted proxies mismatch")
	})

	t.Run("precedence", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "4000")
		t.Setenv("LOG_LEVEL", "warn")
		t.Setenv("ADMIN_EMAILS", " Admin@Example.com, ,ops@example.com")

		c, err := New(Params{
			GoogleClientID: "client-id",
			LogLevel:       "debug",
			File: File{
				Port:      "5000",
				DBPath:    "/var/lib/habitboard.db",
				LogLevel:  "error",
				EpochDate: "2024-05-01",
			},
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		// flag over env over file
		assert.Equal(t, c.LogLevel, "debug", "log level mismatch")
		assert.Equal(t, c.Port, "4000", "port mismatch")
		assert.Equal(t, c.DBPath, "/var/lib/habitboard.db", "db path mismatch")
		assert.Equal(t, c.Epoch, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC), "epoch mismatch")
		assert.DeepEqual(t, c.AdminEmails, []string{"admin@example.com", "ops@example.com"}, "admin emails mismatch")
	})

	t.Run("csrf key and streak mode", func(t *testing.T) {
		clearEnv(t)

		c, err := New(Params{
			GoogleClientID: "client-id",
			CSRFKey:        "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
			StreakMode:     "historical",
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, len(c.CSRFKey), 32, "csrf key length mismatch")
		assert.Equal(t, c.StreakMode, stats.StreakHistorical, "streak mode mismatch")
	})

	t.Run("smtp", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SmtpPassword", "secret")

		c, err := New(Params{
			GoogleClientID: "client-id",
			File: File{
				SMTP: SMTPFile{Host: "smtp.example.com", Port: "2525", Username: "mailer"},
			},
		})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.SMTP.Host, "smtp.example.com", "host mismatch")
		assert.Equal(t, c.SMTP.Port, 2525, "port mismatch")
		assert.Equal(t, c.SMTP.Username, "mailer", "username mismatch")
		assert.Equal(t, c.SMTP.Password, "secret", "password mismatch")
		assert.Equal(t, c.SMTP.Configured(), true, "smtp should be configured")
	})

	t.Run("without smtp", func(t *testing.T) {
		clearEnv(t)

		c, err := New(Params{GoogleClientID: "client-id"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		assert.Equal(t, c.SMTP.Configured(), false, "smtp should not be configured")
		assert.Equal(t, c.SMTP.Port, 587, "default port mismatch")
	})

	t.Run("trusted proxy", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TRUSTED_PROXY", "10.0.0.0/8, 192.168.1.5, ::1")

		c, err := New(Params{GoogleClientID: "client-id"})
		if err != nil {
			t.Fatal(errors.Wrap(err, "creating config"))
		}

		var got []string
		for _, n := range c.TrustedProxies {
			got = append(got, n.String())
		}
		assert.DeepEqual(t, got, []string{"10.0.0.0/8", "192.168.1.5/32", "::1/128"}, "trusted proxies mismatch")
	})

	testCases := []struct {
		name        string
		params      Params
		expectedErr error
	}{
		{
			name:        "invalid trusted proxy",
			params:      Params{GoogleClientID: "client-id", TrustedProxy: "10.0.0.1, proxy.local"},
			expectedErr: ErrTrustedProxyInvalid,
		},
		{
			name:        "invalid smtp port",
			params:      Params{GoogleClientID: "client-id", SMTPPort: "smtp"},
			expectedErr: ErrSMTPPortInvalid,
		},
		{
			name:        "invalid epoch",
			params:      Params{GoogleClientID: "client-id", EpochDate: "April 1st"},
			expectedErr: ErrEpochInvalid,
		},
		{
			name:        "short csrf key",
			params:      Params{GoogleClientID: "client-id", CSRFKey: "abcd"},
			expectedErr: ErrCSRFKeyInvalid,
		},
		{
			name:        "unknown streak mode",
			params:      Params{GoogleClientID: "client-id", StreakMode: "lenient"},
			expectedErr: ErrStreakModeInvalid,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)

			_, err := New(tc.params)
			assert.ErrorIs(t, err, tc.expectedErr, "error mismatch")
		})
	}
}

func TestReadFile(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		f, err := ReadFile("")
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading file"))
		}

		assert.DeepEqual(t, f, File{}, "file mismatch")
	})

	t.Run("valid", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "habitboard.yml")
		content := "port: \"3002\"\nadmin_emails:\n  - admin@example.com\nreminder_schedule: \"0 0 20 * * *\"\nsmtp:\n  host: smtp.example.com\n  port: \"25\"\n"
		if err := os.WriteFile(p, []byte(content), 0600); err != nil {
			t.Fatal(errors.Wrap(err, "writing file"))
		}

		f, err := ReadFile(p)
		if err != nil {
			t.Fatal(errors.Wrap(err, "reading file"))
		}

		assert.Equal(t, f.Port, "3002", "port mismatch")
		assert.DeepEqual(t, f.AdminEmails, []string{"admin@example.com"}, "admin emails mismatch")
		assert.Equal(t, f.ReminderSchedule, "0 0 20 * * *", "schedule mismatch")
		assert.Equal(t, f.SMTP, SMTPFile{Host: "smtp.example.com", Port: "25"}, "smtp mismatch")
	})

	t.Run("unknown key", func(t *testing.T) {
		p := filepath.Join(t.TempDir(), "habitboard.yml")
		if err := os.WriteFile(p, []byte("prot: 3002\n"), 0600); err != nil {
			t.Fatal(errors.Wrap(err, "writing file"))
		}

		_, err := ReadFile(p)
		assert.Equal(t, err != nil, true, "error should be returned")
	})
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "4000")

	p := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(p, []byte("PORT=5000\nLOG_LEVEL=debug\n"), 0600); err != nil {
		t.Fatal(errors.Wrap(err, "writing file"))
	}

	if err := LoadDotEnv(p, filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatal(errors.Wrap(err, "loading .env"))
	}

	assert.Equal(t, os.Getenv("PORT"), "4000", "existing variable should be kept")
	assert.Equal(t, os.Getenv("LOG_LEVEL"), "debug", "variable should be loaded")
}
