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
	"time"

	"github.com/habitboard/habitboard/pkg/clock"
	"github.com/habitboard/habitboard/pkg/server/assets"
	"github.com/habitboard/habitboard/pkg/server/identity"
	"github.com/habitboard/habitboard/pkg/server/testutils"
)

// TestDevSecret is the secret of the identity verifier of the test app
const TestDevSecret = "test-dev-secret"

// NewTest returns an app for a testing environment
func NewTest() App {
	verifier, err := identity.NewDevVerifier(TestDevSecret)
	if err != nil {
		panic(err)
	}

	return App{
		Clock:        clock.NewMock(),
		Verifier:     verifier,
		EmailBackend: &testutils.MockEmailbackendImplementation{},
		HTTP500Page:  assets.MustGetHTTP500ErrorPage(),
		AppEnv:       AppEnvTest,
		BaseURL:      "http://127.0.0.1",
		Port:         "3000",
		DBPath:       ":memory:",
		AdminEmails:  []string{"admin@example.com"},
		Epoch:        time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC),
		Readiness:    NewReadiness(),
	}
}
