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

package views

import (
	"fmt"
	"time"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// units are walked from the largest. A month is four weeks and a year is
// 52 weeks.
var units = []struct {
	size time.Duration
	name string
}{
	{52 * week, "year"},
	{4 * week, "month"},
	{week, "week"},
	{day, "day"},
	{time.Hour, "hour"},
	{time.Minute, "minute"},
}

// humanizeDuration returns the duration in its largest whole unit, or an
// empty string under a minute
func humanizeDuration(d time.Duration) string {
	if d < 0 {
		d = -d
	}

	for _, u := range units {
		n := int64(d / u.size)
		if n < 1 {
			continue
		}

		if n == 1 {
			return "1 " + u.name
		}
		return fmt.Sprintf("%d %ss", n, u.name)
	}

	return ""
}

// lastSeen describes when the given time happened relative to now
func lastSeen(now time.Time, t *time.Time) string {
	if t == nil {
		return "never"
	}

	diff := now.Sub(*t)
	text := humanizeDuration(diff)

	switch {
	case text == "":
		return "Just now"
	case diff > 0:
		return text + " ago"
	default:
		return "in " + text
	}
}
