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
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/context"
	"github.com/habitboard/habitboard/pkg/server/log"
)

// RequestIDHeader is the header carrying the id of a request
const RequestIDHeader = "X-Request-ID"

// Middleware is a middleware for request handlers
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// WebMw is the middleware for the web
func WebMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	framed := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "DENY")
		h(w, r)
	}

	return Instrument(ApplyLimit(framed, app, rateLimit))
}

// APIMw is the middleware for the API
func APIMw(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return Instrument(ApplyLimit(h, app, rateLimit))
}

// CSRF protects the unsafe methods of cookie-authenticated forms. Requests
// to the exempt paths are let through unchecked. Without secure, requests
// are treated as plain HTTP and the Referer is not required.
func CSRF(key []byte, secure bool, exempt ...string) mux.MiddlewareFunc {
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !secure {
				r = csrf.PlaintextHTTPRequest(r)
			}

			for _, p := range exempt {
				if r.URL.Path == p {
					r = csrf.UnsafeSkipCheck(r)
					break
				}
			}

			protected.ServeHTTP(w, r)
		})
	}
}

// Global is the middleware for all routes
func Global(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, requestID)
		r = r.WithContext(context.WithRequestID(r.Context(), requestID))

		rec := newStatusRecorder(w)
		h.ServeHTTP(rec, r)

		log.WithFields(log.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"duration":   time.Since(start).String(),
		}).Debug("Served request.")
	})
}
