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

package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/habitboard/habitboard/pkg/server/app"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/habitboard/habitboard/pkg/server/views"
	"github.com/pkg/errors"
)

var (
	// errInvalidPayload is an error for a request body that cannot be decoded
	errInvalidPayload = &app.Error{Kind: app.KindValidation, Message: "invalid payload"}
	// errInvalidBucketID is an error for a malformed bucket id in the path
	errInvalidBucketID = &app.Error{Kind: app.KindNotFound, Message: "bucket not found"}
)

var formDecoder = newFormDecoder()

var validate = validator.New(validator.WithRequiredStructEnabled())

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// parseForm decodes the form values of the request into dst
func parseForm(r *http.Request, dst interface{}) error {
	if err := r.ParseForm(); err != nil {
		return errInvalidPayload
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return errInvalidPayload
	}

	return nil
}

// parseJSON decodes the JSON body of the request into dst
func parseJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return errInvalidPayload
	}

	return nil
}

// parseRequestData decodes the request body according to its content type
// and validates the result
func parseRequestData(r *http.Request, dst interface{}) error {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		err = parseForm(r, dst)
	} else {
		err = parseJSON(r, dst)
	}
	if err != nil {
		return err
	}

	return validatePayload(dst)
}

// validatePayload reports the first failed constraint of the payload as a
// validation error
func validatePayload(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "validating payload")
	}

	fe := verrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min", "gte":
		msg = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}

	return &app.Error{Kind: app.KindValidation, Message: msg}
}

// getMonthKey returns the month of the query or the current month
func getMonthKey(r *http.Request, a *app.App) string {
	if m := r.URL.Query().Get("month"); m != "" {
		return m
	}

	return stats.MonthOf(a.Today()).String()
}

func getBucketID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["bucketID"])
	if err != nil || id <= 0 {
		return 0, errInvalidBucketID
	}

	return id, nil
}

// SessionResponse is the response of a successful sign-in
type SessionResponse struct {
	Key       string `json:"key"`
	ExpiresAt int64  `json:"expires_at"`
}

func respondWithSession(w http.ResponseWriter, a *app.App, statusCode int, key string, expiresAt time.Time) {
	mw.SetSessionCookie(w, key, expiresAt, a.IsSecure())

	mw.RespondJSON(w, statusCode, SessionResponse{
		Key:       key,
		ExpiresAt: expiresAt.Unix(),
	})
}

func handleJSONError(w http.ResponseWriter, err error, msg string) {
	mw.RespondError(w, err, msg)
}

func handleHTMLError(w http.ResponseWriter, r *http.Request, err error, msg string, v *views.View, d views.Data) {
	d.SetAlert(errors.Wrap(err, msg), v.AlertInBody)
	v.Render(w, r, &d, mw.StatusFor(app.KindOf(err)))
}
