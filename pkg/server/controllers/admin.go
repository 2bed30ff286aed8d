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
)

// NewAdmin creates a new Admin controller
func NewAdmin(app *app.App) *Admin {
	return &Admin{
		app: app,
	}
}

// Admin is a controller for privileged operations
type Admin struct {
	app *app.App
}

// ResetResp is the response of resetting the board
type ResetResp struct {
	DeletedEntries int64 `json:"deleted_entries"`
	DeletedBuckets int64 `json:"deleted_buckets"`
	SeededUsers    int   `json:"seeded_users"`
}

// V1Reset deletes every entry and bucket and seeds the default buckets for
// every user. Only admins may call it.
func (a *Admin) V1Reset(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	report, err := a.app.ResetAllAs(*user)
	if err != nil {
		handleJSONError(w, err, "resetting the board")
		return
	}

	mw.RespondJSON(w, http.StatusOK, ResetResp{
		DeletedEntries: report.DeletedEntries,
		DeletedBuckets: report.DeletedBuckets,
		SeededUsers:    report.SeededUsers,
	})
}
