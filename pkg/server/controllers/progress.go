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
	"fmt"
	"net/http"
	"time"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/context"
	"github.com/habitboard/habitboard/pkg/server/database"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/habitboard/habitboard/pkg/server/presenters"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/habitboard/habitboard/pkg/server/views"
)

// NewProgress creates a new Progress controller.
// It panics if the necessary templates are not parsed.
func NewProgress(app *app.App, viewEngine *views.Engine) *Progress {
	return &Progress{
		HomeView: viewEngine.NewView(app,
			views.Config{Layout: "base", HeaderTemplate: "navbar", Clock: app.Clock},
			"home/index",
		),
		app: app,
	}
}

// Progress is a progress controller. It also serves the home page.
type Progress struct {
	HomeView *views.View
	app      *app.App
}

// V1Index returns the progress of every user in a month
func (p *Progress) V1Index(w http.ResponseWriter, r *http.Request) {
	progress, err := p.app.GetProgress(getMonthKey(r, p.app))
	if err != nil {
		handleJSONError(w, err, "getting progress")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentProgress(progress))
}

func editableDays(today time.Time) []string {
	from, to := stats.EditableWindow(today)

	ret := []string{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		ret = append(ret, stats.FormatDay(d))
	}

	return ret
}

// dayKey identifies a bucket's or a user's calendar day in template lookups
func dayKey(id int, date string) string {
	return fmt.Sprintf("%d/%s", id, date)
}

// Home renders the checklist of the authenticated user and the board of
// every user in a month
func (p *Progress) Home(w http.ResponseWriter, r *http.Request) {
	vd := views.Data{Yield: map[string]interface{}{}}

	user := context.User(r.Context())
	if user == nil {
		handleHTMLError(w, r, app.ErrUnauthenticated, "getting user", p.HomeView, vd)
		return
	}

	month, err := stats.ParseMonth(getMonthKey(r, p.app))
	if err != nil {
		handleHTMLError(w, r, app.ErrInvalidMonth, "parsing month", p.HomeView, vd)
		return
	}

	buckets, err := p.app.ListBuckets(user.ID)
	if err != nil {
		handleHTMLError(w, r, err, "listing buckets", p.HomeView, vd)
		return
	}

	entries, err := p.app.GetEditableEntries(user.ID)
	if err != nil {
		handleHTMLError(w, r, err, "getting editable entries", p.HomeView, vd)
		return
	}

	progress, err := p.app.GetProgress(month.String())
	if err != nil {
		handleHTMLError(w, r, err, "getting progress", p.HomeView, vd)
		return
	}

	dayNotes, err := p.app.GetDayNotesForMonth(month.String())
	if err != nil {
		handleHTMLError(w, r, err, "getting notes", p.HomeView, vd)
		return
	}

	checked := map[string]bool{}
	for _, e := range entries {
		if e.Checked {
			checked[dayKey(e.BucketID, e.Date)] = true
		}
	}

	notes := map[string]string{}
	for _, n := range dayNotes {
		notes[dayKey(n.UserID, n.Date)] = n.Body
	}

	today := stats.FormatDay(p.app.Today())
	todayNote, err := p.app.GetDayNote(user.ID, today)
	if err != nil {
		handleHTMLError(w, r, err, "getting today's note", p.HomeView, vd)
		return
	}

	vd.Yield["PrevMonth"] = stats.MonthOf(month.First().AddDate(0, -1, 0)).String()
	vd.Yield["NextMonth"] = stats.MonthOf(month.First().AddDate(0, 1, 0)).String()
	vd.Yield["MonthLabel"] = month.First().Format("January 2006")
	vd.Yield["EditableDays"] = editableDays(p.app.Today())
	vd.Yield["Checked"] = checked
	vd.Yield["Buckets"] = buckets
	vd.Yield["Progress"] = progress
	vd.Yield["Notes"] = notes
	vd.Yield["Today"] = today
	vd.Yield["TodayNote"] = todayNote
	vd.Yield["CanAddBucket"] = len(buckets) < database.MaxBucketsPerUser
	vd.Yield["MaxBuckets"] = database.MaxBucketsPerUser

	p.HomeView.Render(w, r, &vd, http.StatusOK)
}
