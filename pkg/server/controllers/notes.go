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

// NewNotes creates a new Notes controller
func NewNotes(app *app.App) *Notes {
	return &Notes{
		app: app,
	}
}

// Notes is a day note controller
type Notes struct {
	app *app.App
}

// V1Index lists the notes of every user in a month
func (n *Notes) V1Index(w http.ResponseWriter, r *http.Request) {
	notes, err := n.app.GetDayNotesForMonth(getMonthKey(r, n.app))
	if err != nil {
		handleJSONError(w, err, "getting notes")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentDayNotes(notes))
}

type upsertNotePayload struct {
	Date string `json:"date" validate:"required"`
	Text string `json:"text"`
}

// UpsertNoteResp is the response of writing a note
type UpsertNoteResp struct {
	Note presenters.DayNote `json:"note"`
}

// V1Upsert writes the note of the authenticated user on a day. A blank text
// deletes the note and responds with no content.
func (n *Notes) V1Upsert(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	var params upsertNotePayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}

	note, stored, err := n.app.UpsertDayNote(*user, params.Date, params.Text)
	if err != nil {
		handleJSONError(w, err, "upserting note")
		return
	}

	if !stored {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	mw.RespondJSON(w, http.StatusOK, UpsertNoteResp{
		Note: presenters.PresentDayNote(note),
	})
}
