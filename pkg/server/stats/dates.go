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

package stats

import (
	"fmt"
	"time"

	"github.com/habitboard/habitboard/pkg/clock"
	"github.com/pkg/errors"
)

const (
	dayLayout   = "2006-01-02"
	monthLayout = "2006-01"
)

var (
	// ErrInvalidDay is returned when a date is not in YYYY-MM-DD form
	ErrInvalidDay = errors.New("invalid date")
	// ErrInvalidMonth is returned when a month key is not in YYYY-MM form
	ErrInvalidMonth = errors.New("invalid month")
)

// ParseDay parses a YYYY-MM-DD date as a UTC calendar day
func ParseDay(s string) (time.Time, error) {
	if len(s) != len(dayLayout) {
		return time.Time{}, errors.Wrap(ErrInvalidDay, s)
	}

	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, errors.Wrap(ErrInvalidDay, s)
	}

	return t, nil
}

// FormatDay formats the UTC calendar day of the given time as YYYY-MM-DD
func FormatDay(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// Month is a calendar month in UTC
type Month struct {
	Year  int
	Month time.Month
}

// ParseMonth parses a YYYY-MM month key
func ParseMonth(s string) (Month, error) {
	if len(s) != len(monthLayout) {
		return Month{}, errors.Wrap(ErrInvalidMonth, s)
	}

	t, err := time.ParseInLocation(monthLayout, s, time.UTC)
	if err != nil {
		return Month{}, errors.Wrap(ErrInvalidMonth, s)
	}

	return MonthOf(t), nil
}

// MonthOf returns the month containing the given time
func MonthOf(t time.Time) Month {
	y, m, _ := t.UTC().Date()
	return Month{Year: y, Month: m}
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// First returns the first day of the month
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

// Days returns the number of days in the month
func (m Month) Days() int {
	return m.Last().Day()
}

// Dates returns every day of the month in order
func (m Month) Dates() []time.Time {
	n := m.Days()
	ret := make([]time.Time, n)
	for i := 0; i < n; i++ {
		ret[i] = m.First().AddDate(0, 0, i)
	}

	return ret
}

// Contains reports whether the day falls in the month
func (m Month) Contains(day time.Time) bool {
	return MonthOf(day) == m
}

// Range returns the first and the last date of the month as YYYY-MM-DD.
// Dates are stored in that form so the range can be compared as text.
func (m Month) Range() (string, string) {
	return FormatDay(m.First()), FormatDay(m.Last())
}

// EditableWindow returns the first and the last day whose entries can be edited
func EditableWindow(today time.Time) (time.Time, time.Time) {
	today = clock.Midnight(today)

	return today.AddDate(0, 0, -EditableDays), today
}

// InEditableWindow reports whether the day can be edited as of today
func InEditableWindow(day, today time.Time) bool {
	from, to := EditableWindow(today)
	day = clock.Midnight(day)

	return !day.Before(from) && !day.After(to)
}
