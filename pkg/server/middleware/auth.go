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

package middleware

import (
	"net/http"
	"net/url"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/context"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/helpers"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
)

// AuthParams is the params for the authentication middleware
type AuthParams struct {
	// RedirectGuestsToLogin sends guests to the login page instead of
	// responding with unauthorized
	RedirectGuestsToLogin bool
}

// authenticate returns the user of the session presented by the request,
// or nil for a guest
func authenticate(a *app.App, r *http.Request) (*database.User, Credential, error) {
	cred := GetCredential(r)
	if cred.Key == "" {
		return nil, cred, nil
	}

	user, err := a.AuthenticateSession(cred.Key)
	if errors.Is(err, app.ErrUnauthenticated) {
		return nil, cred, nil
	} else if err != nil {
		return nil, cred, errors.Wrap(err, "authenticating session")
	}

	return &user, cred, nil
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	q := url.Values{}
	q.Set("referrer", r.URL.RequestURI())

	http.Redirect(w, r, helpers.GetPath("/login", &q), http.StatusFound)
}

// Auth lets through requests with a valid session and puts the user in the
// request context. A stale session cookie is cleared.
func Auth(a *app.App, next http.HandlerFunc, p *AuthParams) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, cred, err := authenticate(a, r)
		if err != nil {
			DoError(w, "authenticating with session", err, http.StatusInternalServerError)
			return
		}

		if user == nil {
			if cred.FromCookie {
				ClearSessionCookie(w, a.IsSecure())
			}

			if p != nil && p.RedirectGuestsToLogin {
				redirectToLogin(w, r)
				return
			}

			RespondUnauthorized(w)
			return
		}

		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r.WithContext(context.WithUser(r.Context(), user)))
	})
}

// GuestOnly redirects authenticated users to the home page
func GuestOnly(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, _, err := authenticate(a, r)
		if err != nil {
			log.WithFields(log.Fields{
				"request_id": context.RequestID(r.Context()),
			}).ErrorWrap(err, "authenticating guest")
		}

		if user != nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
