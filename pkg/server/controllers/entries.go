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

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/context"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/habitboard/habitboard/pkg/server/presenters"
)

// NewEntries creates a new Entries controller
func NewEntries(app *app.App) *Entries {
	return &Entries{
		app: app,
	}
}

// Entries is an entry controller
type Entries struct {
	app *app.App
}

// V1Index lists the entries of every user in a month
func (e *Entries) V1Index(w http.ResponseWriter, r *http.Request) {
	entries, err := e.app.GetEntriesForMonth(getMonthKey(r, e.app))
	if err != nil {
		handleJSONError(w, err, "getting entries")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentEntries(entries))
}

type upsertEntryPayload struct {
	BucketID int    `json:"bucket_id" validate:"required"`
	Date     string `json:"date" validate:"required"`
	Checked  bool   `json:"checked"`
}

// UpsertEntryResp is the response of checking or unchecking a bucket
type UpsertEntryResp struct {
	Entry presenters.Entry `json:"entry"`
}

// V1Upsert checks or unchecks a bucket of the authenticated user on a day
func (e *Entries) V1Upsert(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	var params upsertEntryPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}

	entry, err := e.app.UpsertEntry(*user, app.UpsertEntryParams{
		BucketID: params.BucketID,
		Date:     params.Date,
		Checked:  params.Checked,
	})
	if err != nil {
		handleJSONError(w, err, "upserting entry")
		return
	}

	mw.RespondJSON(w, http.StatusOK, UpsertEntryResp{
		Entry: presenters.PresentEntry(entry),
	})
}
