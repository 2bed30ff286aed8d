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

// Package stats derives streaks, monthly percentages and heatmap
// intensities from a user's buckets and entries. Every function is pure
// and safe for concurrent use.
package stats

import (
	"math"
	"time"

	"github.com/habitboard/habitboard/pkg/clock"
)

// EditableDays is the number of days before today whose entries can still be changed
const EditableDays = 2

// Bucket is a bucket currently owned by the user
type Bucket struct {
	ID        int
	CreatedAt time.Time
}

// Entry is the checked state of a bucket on a day
type Entry struct {
	BucketID int
	Date     string
	Checked  bool
}

// Snapshot is the state of a single user that statistics are computed over
type Snapshot struct {
	Buckets []Bucket
	Entries []Entry
}

// StreakMode decides how many buckets a past day needs to be complete
type StreakMode int

const (
	// StreakCurrentSet requires every current bucket on every day
	StreakCurrentSet StreakMode = iota
	// StreakHistorical only requires the buckets that existed on the day
	StreakHistorical
)

// index maps a date to the set of current buckets checked on it
type index map[string]map[int]struct{}

func newIndex(s Snapshot) index {
	current := make(map[int]struct{}, len(s.Buckets))
	for _, b := range s.Buckets {
		current[b.ID] = struct{}{}
	}

	idx := index{}
	for _, e := range s.Entries {
		if !e.Checked {
			continue
		}
		if _, ok := current[e.BucketID]; !ok {
			continue
		}

		set, ok := idx[e.Date]
		if !ok {
			set = map[int]struct{}{}
			idx[e.Date] = set
		}
		set[e.BucketID] = struct{}{}
	}

	return idx
}

func (idx index) count(day time.Time) int {
	return len(idx[FormatDay(day)])
}

// CompletionSet returns the IDs of the current buckets checked on the given day
func CompletionSet(s Snapshot, day time.Time) map[int]bool {
	ret := map[int]bool{}
	for id := range newIndex(s)[FormatDay(day)] {
		ret[id] = true
	}

	return ret
}

// CheckedCount returns the number of current buckets checked on the given day
func CheckedCount(s Snapshot, day time.Time) int {
	return newIndex(s).count(day)
}

func requiredCount(s Snapshot, day time.Time, mode StreakMode) int {
	if mode != StreakHistorical {
		return len(s.Buckets)
	}

	n := 0
	for _, b := range s.Buckets {
		if !clock.Midnight(b.CreatedAt).After(day) {
			n++
		}
	}

	return n
}

// Streak counts the consecutive complete days ending at today, or at
// yesterday when today is not complete yet. The walk stops at the first
// incomplete day.
func Streak(s Snapshot, today time.Time, mode StreakMode) int {
	if len(s.Buckets) == 0 {
		return 0
	}

	idx := newIndex(s)
	complete := func(day time.Time) bool {
		required := requiredCount(s, day, mode)
		if required == 0 {
			return false
		}

		return idx.count(day) >= required
	}

	day := clock.Midnight(today)
	if !complete(day) {
		day = day.AddDate(0, 0, -1)
	}

	streak := 0
	for complete(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak
}

// IsActiveDay reports whether the day falls within [epoch, today]
func IsActiveDay(day, epoch, today time.Time) bool {
	day = clock.Midnight(day)

	return !day.Before(clock.Midnight(epoch)) && !day.After(clock.Midnight(today))
}

// ActiveDays returns the number of days of the month within [epoch, today]
func ActiveDays(m Month, epoch, today time.Time) int {
	n := 0
	for _, day := range m.Dates() {
		if IsActiveDay(day, epoch, today) {
			n++
		}
	}

	return n
}

// MonthlyPercentage returns the share of possible check-ins made in the
// month, as a whole percentage. Only current buckets and active days count.
func MonthlyPercentage(s Snapshot, m Month, epoch, today time.Time) int {
	active := ActiveDays(m, epoch, today)
	denominator := len(s.Buckets) * active
	if denominator == 0 {
		return 0
	}

	idx := newIndex(s)
	checked := 0
	for _, day := range m.Dates() {
		if IsActiveDay(day, epoch, today) {
			checked += idx.count(day)
		}
	}

	return int(math.Round(float64(checked) / float64(denominator) * 100))
}

// Intensity returns the share of current buckets checked on the day, in [0, 1]
func Intensity(s Snapshot, day time.Time) float64 {
	return intensity(newIndex(s).count(day), len(s.Buckets))
}

func intensity(checked, total int) float64 {
	if total == 0 {
		return 0
	}

	return math.Min(1, math.Max(0, float64(checked)/float64(total)))
}

// Tier is a presentation bucket for a heatmap intensity
type Tier string

const (
	// TierNone is a day with nothing checked
	TierNone Tier = "none"
	// TierLow is a day with less than half checked
	TierLow Tier = "low"
	// TierHalf is a day with at least half but not all checked
	TierHalf Tier = "half"
	// TierFull is a fully complete day
	TierFull Tier = "full"
)

// TierOf maps an intensity to its tier
func TierOf(i float64) Tier {
	switch {
	case i <= 0:
		return TierNone
	case i < 0.5:
		return TierLow
	case i < 1:
		return TierHalf
	default:
		return TierFull
	}
}

// Day is the heatmap cell of a single day
type Day struct {
	Date      string
	Checked   int
	Intensity float64
	Tier      Tier
	Active    bool
}

// Heatmap returns a cell for every day of the month. Inactive days are
// reported with zero intensity.
func Heatmap(s Snapshot, m Month, epoch, today time.Time) []Day {
	idx := newIndex(s)

	dates := m.Dates()
	ret := make([]Day, 0, len(dates))
	for _, day := range dates {
		d := Day{
			Date:   FormatDay(day),
			Active: IsActiveDay(day, epoch, today),
			Tier:   TierNone,
		}
		if d.Active {
			d.Checked = idx.count(day)
			d.Intensity = intensity(d.Checked, len(s.Buckets))
			d.Tier = TierOf(d.Intensity)
		}

		ret = append(ret, d)
	}

	return ret
}
