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
	"net"
	"strings"
	"sync"
	"time"

	"github.com/habitboard/habitboard/pkg/clock"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/identity"
	"github.com/habitboard/habitboard/pkg/server/mailer"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// AppEnvTest is the environment of the test suites. Rate limits are off in it.
const AppEnvTest = "TEST"

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyBaseURL is an error for missing BaseURL content in the app configuration
	ErrEmptyBaseURL = errors.New("No BaseURL was provided")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
	// ErrEmptyHTTP500Page is an error for missing HTTP 500 page content
	ErrEmptyHTTP500Page = errors.New("No HTTP 500 error page was set")
	// ErrEmptyVerifier is an error for missing identity verifier in the app configuration
	ErrEmptyVerifier = errors.New("No identity verifier was provided")
	// ErrEmptyEpoch is an error for missing epoch date in the app configuration
	ErrEmptyEpoch = errors.New("No epoch date was provided")
	// ErrEmptyReadiness is an error for missing readiness check in the app configuration
	ErrEmptyReadiness = errors.New("No readiness check was provided")
)

// App is an application context
type App struct {
	DB           *gorm.DB
	Clock        clock.Clock
	Verifier     identity.Verifier
	EmailBackend mailer.Backend
	HTTP500Page  []byte
	BaseURL      string
	AppEnv       string
	Port         string
	DBPath       string
	// AdminEmails are the emails allowed to reset the whole board
	AdminEmails []string
	// Epoch is the first day counted in the statistics
	Epoch      time.Time
	StreakMode stats.StreakMode
	Readiness  *Readiness
	// CSRFKey enables CSRF protection of the web forms when set
	CSRFKey []byte
	// GoogleClientID is rendered in the sign-in page when set
	GoogleClientID string
	// TrustedProxies are the reverse proxies whose forwarding headers
	// identify the client
	TrustedProxies []*net.IPNet
}

// IsSecure reports whether the app is served over HTTPS
func (a *App) IsSecure() bool {
	return strings.HasPrefix(a.BaseURL, "https://")
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.BaseURL == "" {
		return ErrEmptyBaseURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.HTTP500Page == nil {
		return ErrEmptyHTTP500Page
	}
	if a.Verifier == nil {
		return ErrEmptyVerifier
	}
	if a.Epoch.IsZero() {
		return ErrEmptyEpoch
	}
	if a.Readiness == nil {
		return ErrEmptyReadiness
	}

	return nil
}

// Readiness remembers the outcome of the one-time layout check of the store
type Readiness struct {
	once sync.Once
	err  error
}

// NewReadiness returns a readiness check that has not run yet
func NewReadiness() *Readiness {
	return &Readiness{}
}

// EnsureReady verifies that buckets are owned per user. The check runs once
// per process; later and concurrent calls return the first outcome.
func (a *App) EnsureReady() error {
	a.Readiness.once.Do(func() {
		a.Readiness.err = checkLayout(a.DB)
	})

	return a.Readiness.err
}

func checkLayout(db *gorm.DB) error {
	legacy, err := database.IsLegacyLayout(db)
	if err != nil {
		return errors.Wrap(err, "inspecting the buckets table")
	}
	if legacy {
		return ErrLegacyLayout
	}

	return nil
}

// Today returns the current calendar day of the app clock
func (a *App) Today() time.Time {
	return clock.Today(a.Clock)
}
