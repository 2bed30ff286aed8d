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
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/pkg/errors"
)

// UserProgress is the progress of a single user in a month
type UserProgress struct {
	User        database.User
	Buckets     []database.Bucket
	BucketCount int
	Streak      int
	Percentage  int
	Days        []stats.Day
}

// Progress is the progress of every user in a month
type Progress struct {
	Month stats.Month
	Today string
	Epoch string
	Users []UserProgress
}

func snapshotOf(buckets []database.Bucket, entries []database.Entry) stats.Snapshot {
	s := stats.Snapshot{
		Buckets: make([]stats.Bucket, 0, len(buckets)),
		Entries: make([]stats.Entry, 0, len(entries)),
	}
	for _, b := range buckets {
		s.Buckets = append(s.Buckets, stats.Bucket{ID: b.ID, CreatedAt: b.CreatedAt})
	}
	for _, e := range entries {
		s.Entries = append(s.Entries, stats.Entry{BucketID: e.BucketID, Date: e.Date, Checked: e.Checked})
	}

	return s
}

// GetProgress computes the streak, the monthly percentage and the heatmap of
// every user for the given month. Nothing is cached.
func (a *App) GetProgress(monthKey string) (Progress, error) {
	m, err := stats.ParseMonth(monthKey)
	if err != nil {
		return Progress{}, ErrInvalidMonth
	}

	today := a.Today()
	_, last := m.Range()
	until := stats.FormatDay(today)
	if last > until {
		until = last
	}

	users, err := a.ListUsers()
	if err != nil {
		return Progress{}, err
	}
	buckets, err := a.ListAllBuckets()
	if err != nil {
		return Progress{}, err
	}
	entries, err := a.listCheckedEntries(until)
	if err != nil {
		return Progress{}, err
	}

	bucketsByUser := map[int][]database.Bucket{}
	for _, b := range buckets {
		bucketsByUser[b.UserID] = append(bucketsByUser[b.UserID], b)
	}
	entriesByUser := map[int][]database.Entry{}
	for _, e := range entries {
		entriesByUser[e.UserID] = append(entriesByUser[e.UserID], e)
	}

	ret := Progress{
		Month: m,
		Today: stats.FormatDay(today),
		Epoch: stats.FormatDay(a.Epoch),
		Users: make([]UserProgress, 0, len(users)),
	}
	for _, u := range users {
		ub := bucketsByUser[u.ID]
		s := snapshotOf(ub, entriesByUser[u.ID])

		ret.Users = append(ret.Users, UserProgress{
			User:        u,
			Buckets:     ub,
			BucketCount: len(ub),
			Streak:      stats.Streak(s, today, a.StreakMode),
			Percentage:  stats.MonthlyPercentage(s, m, a.Epoch, today),
			Days:        stats.Heatmap(s, m, a.Epoch, today),
		})
	}

	return ret, nil
}

// GetUserProgress returns the progress of a single user for the given month
func (a *App) GetUserProgress(userID int, monthKey string) (UserProgress, error) {
	p, err := a.GetProgress(monthKey)
	if err != nil {
		return UserProgress{}, err
	}

	for _, u := range p.Users {
		if u.User.ID == userID {
			return u, nil
		}
	}

	return UserProgress{}, errors.Wrapf(ErrUserNotFound, "user %d", userID)
}
