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
	"net/http"
	"net/url"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/context"
	"github.com/habitboard/habitboard/pkg/server/helpers"
	"github.com/habitboard/habitboard/pkg/server/log"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/habitboard/habitboard/pkg/server/presenters"
	"github.com/habitboard/habitboard/pkg/server/views"
	"github.com/pkg/errors"
)

// googleCSRFCookie is the double-submit cookie set by Google Identity Services
const googleCSRFCookie = "g_csrf_token"

// errCSRFMismatch is an error for a Google redirect whose double-submit token does not match
var errCSRFMismatch = &app.Error{Kind: app.KindForbidden, Message: "failed to verify the sign-in request"}

func getPathWithReferrer(base string, referrer string) string {
	if referrer == "" {
		return base
	}

	query := url.Values{}
	query.Set("referrer", referrer)

	return helpers.GetPath(base, &query)
}

var commonHelpers = map[string]interface{}{
	"getPathWithReferrer": getPathWithReferrer,
}

// NewUsers creates a new Users controller.
// It panics if the necessary templates are not parsed.
func NewUsers(app *app.App, viewEngine *views.Engine) *Users {
	return &Users{
		LoginView: viewEngine.NewView(app,
			views.Config{Title: "Sign In", Layout: "base", HelperFuncs: commonHelpers, AlertInBody: true},
			"users/login",
		),
		app: app,
	}
}

// Users is a user controller.
type Users struct {
	LoginView *views.View
	app       *app.App
}

func getPathOrReferrer(path string, r *http.Request) string {
	q := r.URL.Query()
	referrer := q.Get("referrer")

	// only local paths are followed
	if referrer == "" || referrer[0] != '/' || (len(referrer) > 1 && referrer[1] == '/') {
		return path
	}

	return referrer
}

func (u *Users) getLoginData(r *http.Request) views.Data {
	referrer := r.URL.Query().Get("referrer")

	vd := views.Data{}
	vd.Yield = map[string]interface{}{
		"Referrer": referrer,
		"LoginURI": u.app.BaseURL + getPathWithReferrer("/login", referrer),
	}

	return vd
}

// NewLogin renders user login page
func (u *Users) NewLogin(w http.ResponseWriter, r *http.Request) {
	vd := u.getLoginData(r)
	u.LoginView.Render(w, r, &vd, http.StatusOK)
}

// LoginForm is the form posted by the Google redirect flow
type LoginForm struct {
	Credential string `schema:"credential" json:"credential" validate:"required"`
	CSRFToken  string `schema:"g_csrf_token" json:"-"`
}

func checkGoogleCSRF(r *http.Request, token string) error {
	c, err := r.Cookie(googleCSRFCookie)
	if err != nil || c.Value == "" || c.Value != token {
		return errCSRFMismatch
	}

	return nil
}

// Login handles the credential posted by Google after the user signs in
func (u *Users) Login(w http.ResponseWriter, r *http.Request) {
	vd := u.getLoginData(r)

	var form LoginForm
	if err := parseForm(r, &form); err != nil {
		handleHTMLError(w, r, err, "parsing login form", u.LoginView, vd)
		return
	}
	if err := checkGoogleCSRF(r, form.CSRFToken); err != nil {
		handleHTMLError(w, r, err, "verifying the double-submit token", u.LoginView, vd)
		return
	}
	if err := validatePayload(form); err != nil {
		handleHTMLError(w, r, err, "validating login form", u.LoginView, vd)
		return
	}

	_, session, key, err := u.app.SignIn(r.Context(), form.Credential)
	if err != nil {
		handleHTMLError(w, r, err, "signing in", u.LoginView, vd)
		return
	}

	mw.SetSessionCookie(w, key, session.ExpiresAt, u.app.IsSecure())

	dest := getPathOrReferrer("/", r)
	http.Redirect(w, r, dest, http.StatusFound)
}

func (u *Users) signOut(r *http.Request) (bool, error) {
	cred := mw.GetCredential(r)
	if cred.Key == "" {
		return false, nil
	}

	if err := u.app.SignOut(cred.Key); err != nil {
		return false, errors.Wrap(err, "signing out")
	}

	return true, nil
}

// Logout handles logout
func (u *Users) Logout(w http.ResponseWriter, r *http.Request) {
	var vd views.Data

	ok, err := u.signOut(r)
	if err != nil {
		handleHTMLError(w, r, err, "logging out", u.LoginView, vd)
		return
	}

	if ok {
		mw.ClearSessionCookie(w, u.app.IsSecure())
	}

	http.Redirect(w, r, "/login", http.StatusFound)
}

// V1SignIn signs in with a credential posted as JSON and returns the session
func (u *Users) V1SignIn(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}

	user, session, key, err := u.app.SignIn(r.Context(), form.Credential)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
	}).Info("Signed in via API.")

	respondWithSession(w, u.app, http.StatusOK, key, session.ExpiresAt)
}

// V1SignOut deletes the session of the request
func (u *Users) V1SignOut(w http.ResponseWriter, r *http.Request) {
	ok, err := u.signOut(r)
	if err != nil {
		handleJSONError(w, err, "signing out")
		return
	}

	if ok {
		mw.ClearSessionCookie(w, u.app.IsSecure())
	}

	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user
func (u *Users) Me(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentMe(*user, u.app.IsAdmin(*user)))
}

// Members returns every user along with their current buckets
func (u *Users) Members(w http.ResponseWriter, r *http.Request) {
	users, err := u.app.ListUsers()
	if err != nil {
		handleJSONError(w, err, "listing users")
		return
	}

	buckets, err := u.app.ListAllBuckets()
	if err != nil {
		handleJSONError(w, err, "listing buckets")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentMembers(users, buckets))
}
