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
	"strings"
	"time"
)

// SessionCookieName is the name of the cookie holding the session key
const SessionCookieName = "id"

// Credential is a session key presented by a request
type Credential struct {
	Key string
	// FromCookie is set when the key came from the session cookie
	FromCookie bool
}

// bearerToken returns the token of a Bearer authorization header, or an
// empty string for any other scheme
func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

// GetCredential extracts the session key of the request. The authorization
// header takes precedence over the cookie.
func GetCredential(r *http.Request) Credential {
	if token := bearerToken(r); token != "" {
		return Credential{Key: token}
	}

	if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
		return Credential{Key: c.Value, FromCookie: true}
	}

	return Credential{}
}

func sessionCookie(value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie stores the session key in the browser until the session
// expires
func SetSessionCookie(w http.ResponseWriter, key string, expires time.Time, secure bool) {
	http.SetCookie(w, sessionCookie(key, expires, secure))
}

// ClearSessionCookie removes the session cookie from the browser
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	c := sessionCookie("", time.Unix(0, 0), secure)
	c.MaxAge = -1

	w.Header().Set("Cache-Control", "no-store")
	http.SetCookie(w, c)
}
