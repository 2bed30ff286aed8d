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

package app

import (
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/pkg/errors"
)

// pendingBuckets returns the names of the buckets without a checked entry on the date
func pendingBuckets(buckets []database.Bucket, entries []database.Entry) []string {
	done := map[int]bool{}
	for _, e := range entries {
		if e.Checked {
			done[e.BucketID] = true
		}
	}

	var ret []string
	for _, b := range buckets {
		if !done[b.ID] {
			ret = append(ret, b.Name)
		}
	}

	return ret
}

// SendReminders emails every user who has not checked all of their buckets
// today. A failure for one user does not stop the others. It returns the
// number of reminders sent.
func (a *App) SendReminders() (int, error) {
	today := stats.FormatDay(a.Today())

	users, err := a.ListUsers()
	if err != nil {
		return 0, err
	}
	buckets, err := a.ListAllBuckets()
	if err != nil {
		return 0, err
	}

	var entries []database.Entry
	if err := currentEntries(a.DB).Where("entries.date = ?", today).Find(&entries).Error; err != nil {
		return 0, errors.Wrap(err, "finding today's entries")
	}

	bucketsByUser := map[int][]database.Bucket{}
	for _, b := range buckets {
		bucketsByUser[b.UserID] = append(bucketsByUser[b.UserID], b)
	}
	entriesByUser := map[int][]database.Entry{}
	for _, e := range entries {
		entriesByUser[e.UserID] = append(entriesByUser[e.UserID], e)
	}

	sent := 0
	for _, u := range users {
		pending := pendingBuckets(bucketsByUser[u.ID], entriesByUser[u.ID])
		if len(pending) == 0 {
			continue
		}

		if err := a.SendReminderEmail(u, today, pending); err != nil {
			log.WithFields(log.Fields{
				"user_id": u.ID,
			}).ErrorWrap(err, "sending reminder")
			continue
		}

		sent++
	}

	return sent, nil
}
