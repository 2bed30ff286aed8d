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

	"github.com/habitboard/habitboard/pkg/server/database"
)

// Bucket is a result of PresentBucket
type Bucket struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Name      string    `json:"name"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PresentBucket presents a bucket
func PresentBucket(b database.Bucket) Bucket {
	return Bucket{
		ID:        b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		SortOrder: b.SortOrder,
		CreatedAt: FormatTS(b.CreatedAt),
		UpdatedAt: FormatTS(b.UpdatedAt),
	}
}

// PresentBuckets presents buckets
func PresentBuckets(buckets []database.Bucket) []Bucket {
	ret := []Bucket{}

	for _, b := range buckets {
		ret = append(ret, PresentBucket(b))
	}

	return ret
}

// Entry is a result of PresentEntry
type Entry struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	BucketID  int       `json:"bucket_id"`
	Date      string    `json:"date"`
	Checked   bool      `json:"checked"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PresentEntry presents an entry
func PresentEntry(e database.Entry) Entry {
	return Entry{
		ID:        e.ID,
		UserID:    e.UserID,
		BucketID:  e.BucketID,
		Date:      e.Date,
		Checked:   e.Checked,
		UpdatedAt: FormatTS(e.UpdatedAt),
	}
}

// PresentEntries presents entries
func PresentEntries(entries []database.Entry) []Entry {
	ret := []Entry{}

	for _, e := range entries {
		ret = append(ret, PresentEntry(e))
	}

	return ret
}

// DayNote is a result of PresentDayNote
type DayNote struct {
	UserID    int       `json:"user_id"`
	Date      string    `json:"date"`
	Body      string    `json:"body"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PresentDayNote presents a note
func PresentDayNote(n database.DayNote) DayNote {
	return DayNote{
		UserID:    n.UserID,
		Date:      n.Date,
		Body:      n.Body,
		UpdatedAt: FormatTS(n.UpdatedAt),
	}
}

// PresentDayNotes presents notes
func PresentDayNotes(notes []database.DayNote) []DayNote {
	ret := []DayNote{}

	for _, n := range notes {
		ret = append(ret, PresentDayNote(n))
	}

	return ret
}
