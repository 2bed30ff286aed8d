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

	"github.com/gorilla/mux"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/assets"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers *Controllers
	WebRoutes   []Route
	APIRoutes   []Route
}

// NewDefaultRouter returns the router serving every web and API route of
// the app
func NewDefaultRouter(a *app.App) (http.Handler, error) {
	ctl := New(a)

	return NewRouter(a, RouteConfig{
		WebRoutes:   NewWebRoutes(a, ctl),
		APIRoutes:   NewAPIRoutes(a, ctl),
		Controllers: ctl,
	})
}

// NewWebRoutes returns a new web routes
func NewWebRoutes(a *app.App, c *Controllers) []Route {
	redirectGuest := &mw.AuthParams{RedirectGuestsToLogin: true}

	return []Route{
		{"GET", "/", mw.Auth(a, c.Progress.Home, redirectGuest), true},
		{"GET", "/login", mw.GuestOnly(a, c.Users.NewLogin), true},
		{"POST", "/login", mw.GuestOnly(a, c.Users.Login), true},
		{"POST", "/logout", c.Users.Logout, true},
		{"GET", "/health", c.Health.Index, false},
	}
}

// NewAPIRoutes returns a new api routes
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"POST", "/v1/signin", c.Users.V1SignIn, true},
		{"POST", "/v1/signout", c.Users.V1SignOut, true},
		{"GET", "/v1/me", mw.Auth(a, c.Users.Me, nil), true},
		{"GET", "/v1/users", mw.Auth(a, c.Users.Members, nil), true},
		{"GET", "/v1/buckets", mw.Auth(a, c.Buckets.V1Index, nil), true},
		{"POST", "/v1/buckets", mw.Auth(a, c.Buckets.V1Create, nil), true},
		{"PATCH", "/v1/buckets/{bucketID}", mw.Auth(a, c.Buckets.V1Update, nil), true},
		{"DELETE", "/v1/buckets/{bucketID}", mw.Auth(a, c.Buckets.V1Delete, nil), true},
		{"GET", "/v1/entries", mw.Auth(a, c.Entries.V1Index, nil), true},
		{"PUT", "/v1/entries", mw.Auth(a, c.Entries.V1Upsert, nil), true},
		{"GET", "/v1/notes", mw.Auth(a, c.Notes.V1Index, nil), true},
		{"PUT", "/v1/notes", mw.Auth(a, c.Notes.V1Upsert, nil), true},
		{"GET", "/v1/progress", mw.Auth(a, c.Progress.V1Index, nil), true},
		{"POST", "/v1/admin/reset", mw.Auth(a, c.Admin.V1Reset, nil), true},
	}
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter().StrictSlash(true)

	webRouter := router.PathPrefix("/").Subrouter()
	apiRouter := router.PathPrefix("/api").Subrouter()
	if len(app.CSRFKey) > 0 {
		// Google posts the sign-in credential cross-site with its own double-submit token
		webRouter.Use(mw.CSRF(app.CSRFKey, app.IsSecure(), "/login"))
	}
	registerRoutes(webRouter, mw.WebMw, app, rc.WebRoutes)
	registerRoutes(apiRouter, mw.APIMw, app, rc.APIRoutes)

	router.PathPrefix("/api/").HandlerFunc(rc.Controllers.Static.APINotFound)

	router.Handle("/metrics", mw.MetricsHandler()).Methods("GET")

	// static
	staticHandler, err := assets.NewStaticHandler("/static/")
	if err != nil {
		return nil, errors.Wrap(err, "getting the handler for static files")
	}
	router.PathPrefix("/static/").Handler(staticHandler)

	router.HandleFunc("/robots.txt", rc.Controllers.Static.Robots)

	// catch-all
	router.PathPrefix("/").HandlerFunc(rc.Controllers.Static.NotFound)

	return mw.Global(router), nil
}
