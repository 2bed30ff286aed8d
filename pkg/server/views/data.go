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

package views

import (
	"net/http"
	"net/url"
	"time"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
)

const (
	// AlertLvlError is an alert level for error
	AlertLvlError = "danger"
	// AlertLvlWarning is an alert level for warning
	AlertLvlWarning = "warning"
	// AlertLvlInfo is an alert level for info
	AlertLvlInfo = "info"
	// AlertLvlSuccess is an alert level for success
	AlertLvlSuccess = "success"

	// AlertMsgGeneric is a generic message for an error that should not be shown to users
	AlertMsgGeneric = "Something went wrong. Please try again."

	alertLevelCookie   = "alert_level"
	alertMessageCookie = "alert_message"
)

// Alert is used to render Bootstrap-style alert messages in templates
type Alert struct {
	Level   string
	Message string
}

// Data is the top level structure that views expect for data
type Data struct {
	Alert *Alert
	User  *database.User
	Yield map[string]interface{}
}

// PutAlert puts an alert in the data
func (d *Data) PutAlert(alert Alert, alertInBody bool) {
	if alertInBody {
		if d.Yield == nil {
			d.Yield = map[string]interface{}{}
		}
		d.Yield["Alert"] = &alert
	} else {
		d.Alert = &alert
	}
}

// SetAlert sets an alert for the error. Application errors show their
// message; other errors are logged and shown as a generic message.
func (d *Data) SetAlert(err error, alertInBody bool) {
	msg := AlertMsgGeneric
	if app.KindOf(err) != app.KindInternal {
		msg = app.Message(err)
	} else {
		log.ErrorWrap(err, "rendering alert")
	}

	d.PutAlert(Alert{
		Level:   AlertLvlError,
		Message: msg,
	}, alertInBody)
}

// AlertError returns a new error alert using the given message
func (d *Data) AlertError(msg string) {
	d.Alert = &Alert{
		Level:   AlertLvlError,
		Message: msg,
	}
}

func persistAlert(w http.ResponseWriter, alert Alert) {
	expiresAt := time.Now().Add(5 * time.Minute)
	lvl := http.Cookie{
		Name:     alertLevelCookie,
		Value:    alert.Level,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
	}
	msg := http.Cookie{
		Name:     alertMessageCookie,
		Value:    url.QueryEscape(alert.Message),
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
	}

	http.SetCookie(w, &lvl)
	http.SetCookie(w, &msg)
}

func clearAlert(w http.ResponseWriter) {
	lvl := http.Cookie{
		Name:     alertLevelCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		HttpOnly: true,
	}
	msg := http.Cookie{
		Name:     alertMessageCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now(),
		HttpOnly: true,
	}

	http.SetCookie(w, &lvl)
	http.SetCookie(w, &msg)
}

func getAlert(r *http.Request) *Alert {
	lvl, err := r.Cookie(alertLevelCookie)
	if err != nil {
		return nil
	}
	msg, err := r.Cookie(alertMessageCookie)
	if err != nil {
		return nil
	}

	message, err := url.QueryUnescape(msg.Value)
	if err != nil {
		return nil
	}

	return &Alert{
		Level:   lvl.Value,
		Message: message,
	}
}

// RedirectAlert redirects to the given URL with an alert that is shown on
// the next page
func RedirectAlert(w http.ResponseWriter, r *http.Request, urlStr string, code int, alert Alert) {
	persistAlert(w, alert)
	http.Redirect(w, r, urlStr, code)
}
