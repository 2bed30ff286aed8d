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
	"testing"

	"github.com/habitboard/habitboard/pkg/assert"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/presenters"
	"github.com/habitboard/habitboard/pkg/server/testutils"
)

func TestGetNotes(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)
	server := MustNewServer(t, &a)

	alice := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "Bob")
	testutils.SetupDayNote(a.DB, alice, "2024-04-02", "felt great")
	testutils.SetupDayNote(a.DB, bob, "2024-04-02", "tired")
	testutils.SetupDayNote(a.DB, bob, "2024-03-30", "old")

	req := testutils.MakeReq(server.URL, "GET", "/api/v1/notes?month=2024-04", "")
	res := testutils.HTTPAuthDo(t, a.DB, req, alice)

	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var body []presenters.DayNote
	testutils.MustDecodeJSON(t, res, &body)

	assert.Equal(t, len(body), 2, "note count mismatch")
	assert.Equal(t, body[0].UserID, alice.ID, "first note user mismatch")
	assert.Equal(t, body[0].Body, "felt great", "first note body mismatch")
	assert.Equal(t, body[1].Body, "tired", "second note body mismatch")
}

func TestUpsertNote(t *testing.T) {
	t.Run("write then overwrite", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")

		for _, text := range []string{"first", "  second  "} {
			req := testutils.MakeReq(server.URL, "PUT", "/api/v1/notes", `{"date": "2024-04-10", "text": "`+text+`"}`)
			res := testutils.HTTPAuthDo(t, a.DB, req, user)

			assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")
		}

		var notes []database.DayNote
		testutils.MustExec(t, a.DB.Find(&notes), "finding notes")
		assert.Equal(t, len(notes), 1, "note count mismatch")
		assert.Equal(t, notes[0].Body, "second", "body mismatch")
	})

	t.Run("blank text deletes", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
		testutils.SetupDayNote(a.DB, user, "2024-04-10", "something")

		// the second call deletes an absent note
		for i := 0; i < 2; i++ {
			req := testutils.MakeReq(server.URL, "PUT", "/api/v1/notes", `{"date": "2024-04-10", "text": "   "}`)
			res := testutils.HTTPAuthDo(t, a.DB, req, user)

			assert.StatusCodeEquals(t, res, http.StatusNoContent, "status code mismatch")
		}

		var count int64
		testutils.MustExec(t, a.DB.Model(&database.DayNote{}).Count(&count), "counting notes")
		assert.Equal(t, count, int64(0), "note count mismatch")
	})

	t.Run("invalid date", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")

		req := testutils.MakeReq(server.URL, "PUT", "/api/v1/notes", `{"date": "2024-02-30", "text": "hi"}`)
		res := testutils.HTTPAuthDo(t, a.DB, req, user)

		assert.StatusCodeEquals(t, res, http.StatusBadRequest, "status code mismatch")
	})

	t.Run("guest", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		req := testutils.MakeReq(server.URL, "PUT", "/api/v1/notes", `{"date": "2024-04-10", "text": "hi"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}
