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
	"encoding/json"
	"net/http"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
)

// ErrorResponse is the body of an error response
type ErrorResponse struct {
	Kind    app.Kind `json:"kind"`
	Message string   `json:"message"`
}

// StatusFor returns the HTTP status code for the kind of an error
func StatusFor(kind app.Kind) int {
	switch kind {
	case app.KindUnauthenticated:
		return http.StatusUnauthorized
	case app.KindForbidden:
		return http.StatusForbidden
	case app.KindNotFound:
		return http.StatusNotFound
	case app.KindValidation:
		return http.StatusBadRequest
	case app.KindConflict:
		return http.StatusConflict
	case app.KindRateLimited:
		return http.StatusTooManyRequests
	}

	return http.StatusInternalServerError
}

// RespondError writes the kind and the message of the error as JSON.
// Errors without a kind are logged and reported as internal errors.
func RespondError(w http.ResponseWriter, err error, msg string) {
	kind := app.KindOf(err)
	statusCode := StatusFor(kind)

	if statusCode == http.StatusInternalServerError {
		log.WithFields(log.Fields{
			"kind": string(kind),
		}).ErrorWrap(err, msg)
	}

	RespondJSON(w, statusCode, ErrorResponse{
		Kind:    kind,
		Message: app.Message(err),
	})
}

// RespondJSON encodes the payload as JSON with the given status code
func RespondJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	RespondError(w, app.ErrUnauthenticated, "")
}

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	var message string
	if err == nil {
		message = msg
	} else {
		message = errors.Wrap(err, msg).Error()
	}

	log.WithFields(log.Fields{
		"statusCode": statusCode,
	}).Error(message)

	statusText := http.StatusText(statusCode)
	http.Error(w, statusText, statusCode)
}
