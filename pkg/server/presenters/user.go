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

package presenters

import (
	"time"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/stats"
)

// User is a result of PresentUser. The email is only shown to the user.
type User struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	AvatarURL   string     `json:"avatar_url"`
	Email       string     `json:"email,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at"`
}

// PresentUser presents a user as seen by other members
func PresentUser(u database.User) User {
	return User{
		ID:          u.ID,
		Name:        u.Name,
		AvatarURL:   u.AvatarURL,
		LastLoginAt: formatOptionalTS(u.LastLoginAt),
	}
}

// PresentMe presents the authenticated user
func PresentMe(u database.User, isAdmin bool) Me {
	return Me{
		User:    withEmail(PresentUser(u), u.Email),
		IsAdmin: isAdmin,
	}
}

func withEmail(u User, email string) User {
	u.Email = email
	return u
}

// Me is a result of PresentMe
type Me struct {
	User    User `json:"user"`
	IsAdmin bool `json:"is_admin"`
}

// Member is a user along with their current buckets
type Member struct {
	User    User     `json:"user"`
	Buckets []Bucket `json:"buckets"`
}

// PresentMembers groups the buckets by their owners
func PresentMembers(users []database.User, buckets []database.Bucket) []Member {
	byUser := map[int][]database.Bucket{}
	for _, b := range buckets {
		byUser[b.UserID] = append(byUser[b.UserID], b)
	}

	ret := []Member{}
	for _, u := range users {
		ret = append(ret, Member{
			User:    PresentUser(u),
			Buckets: PresentBuckets(byUser[u.ID]),
		})
	}

	return ret
}

// Day is a heatmap cell
type Day struct {
	Date      string     `json:"date"`
	Checked   int        `json:"checked"`
	Intensity float64    `json:"intensity"`
	Tier      stats.Tier `json:"tier"`
	Active    bool       `json:"active"`
}

// UserProgress is a result of PresentUserProgress
type UserProgress struct {
	User        User  `json:"user"`
	BucketCount int   `json:"bucket_count"`
	Streak      int   `json:"streak"`
	Percentage  int   `json:"percentage"`
	Days        []Day `json:"days"`
}

// Progress is a result of PresentProgress
type Progress struct {
	Month string         `json:"month"`
	Today string         `json:"today"`
	Epoch string         `json:"epoch"`
	Users []UserProgress `json:"users"`
}

// PresentUserProgress presents the progress of a user
func PresentUserProgress(p app.UserProgress) UserProgress {
	days := make([]Day, 0, len(p.Days))
	for _, d := range p.Days {
		days = append(days, Day{
			Date:      d.Date,
			Checked:   d.Checked,
			Intensity: d.Intensity,
			Tier:      d.Tier,
			Active:    d.Active,
		})
	}

	return UserProgress{
		User:        PresentUser(p.User),
		BucketCount: p.BucketCount,
		Streak:      p.Streak,
		Percentage:  p.Percentage,
		Days:        days,
	}
}

// PresentProgress presents the progress of every user
func PresentProgress(p app.Progress) Progress {
	users := []UserProgress{}
	for _, u := range p.Users {
		users = append(users, PresentUserProgress(u))
	}

	return Progress{
		Month: p.Month.String(),
		Today: p.Today,
		Epoch: p.Epoch,
		Users: users,
	}
}
