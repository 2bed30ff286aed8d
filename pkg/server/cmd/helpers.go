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

package cmd

import (
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/habitboard/habitboard/pkg/clock"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/config"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/identity"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/habitboard/habitboard/pkg/server/mailer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	colorGreen  = color.New(color.FgGreen)
	colorYellow = color.New(color.FgYellow)
	colorRed    = color.New(color.FgRed)
	colorGray   = color.New(color.FgHiBlack)
)

// loadParams reads the .env and the configuration files and returns the
// params carrying the global flags
func loadParams(gf *globalFlags) (config.Params, error) {
	if err := config.LoadDotEnv(gf.envPath); err != nil {
		return config.Params{}, err
	}

	f, err := config.ReadFile(gf.configPath)
	if err != nil {
		return config.Params{}, err
	}

	return config.Params{
		DBPath:   gf.dbPath,
		LogLevel: gf.logLevel,
		File:     f,
	}, nil
}

// openDB opens the store, creating the directory of a SQLite file if needed.
// The schema is left untouched.
func openDB(dbPath string) (*gorm.DB, error) {
	if !database.IsPostgresDSN(dbPath) {
		if dir := filepath.Dir(dbPath); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, errors.Wrapf(err, "creating the directory %s", dir)
			}
		}
	}

	return database.Open(dbPath), nil
}

// initSchema brings the store up to the current schema
func initSchema(db *gorm.DB) error {
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		return errors.Wrap(err, "running migrations")
	}

	return nil
}

func newVerifier(cfg config.Config) (identity.Verifier, error) {
	if cfg.GoogleClientID != "" {
		return identity.NewGoogleVerifier(cfg.GoogleClientID)
	}

	log.Warn("GOOGLE_CLIENT_ID is not set. Signing in with development assertions.")
	return identity.NewDevVerifier(cfg.DevAuthSecret)
}

func getEmailBackend(cfg config.Config) (mailer.Backend, error) {
	if !cfg.SMTP.Configured() {
		log.Warn("SmtpHost is not set. Emails are written to the log.")
		return mailer.NewLogBackend(), nil
	}

	b, err := mailer.NewSMTPBackend(cfg.SMTP)
	if err != nil {
		return nil, errors.Wrap(err, "initializing the SMTP backend")
	}

	log.WithFields(log.Fields{
		"host": cfg.SMTP.Host,
	}).Debug("Email backend configured.")
	return b, nil
}

// newApp returns an app for the maintenance commands. It has no identity
// verifier and logs emails.
func newApp(db *gorm.DB) *app.App {
	return &app.App{
		DB:           db,
		Clock:        clock.New(),
		EmailBackend: mailer.NewLogBackend(),
		Readiness:    app.NewReadiness(),
	}
}

// initApp returns an app for serving the given configuration
func initApp(cfg config.Config, db *gorm.DB) (*app.App, error) {
	verifier, err := newVerifier(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "initializing the identity verifier")
	}
	emailBackend, err := getEmailBackend(cfg)
	if err != nil {
		return nil, err
	}

	return &app.App{
		DB:             db,
		Clock:          clock.New(),
		Verifier:       verifier,
		EmailBackend:   emailBackend,
		HTTP500Page:    cfg.HTTP500Page,
		BaseURL:        cfg.WebURL,
		AppEnv:         cfg.AppEnv,
		Port:           cfg.Port,
		DBPath:         cfg.DBPath,
		AdminEmails:    cfg.AdminEmails,
		Epoch:          cfg.Epoch,
		StreakMode:     cfg.StreakMode,
		Readiness:      app.NewReadiness(),
		CSRFKey:        cfg.CSRFKey,
		GoogleClientID: cfg.GoogleClientID,
		TrustedProxies: cfg.TrustedProxies,
	}, nil
}
