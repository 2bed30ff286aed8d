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

package clock

import (
	"testing"
	"time"

	"github.com/habitboard/habitboard/pkg/assert"
)

func TestToday(t *testing.T) {
	testCases := []struct {
		name     string
		now      time.Time
		expected time.Time
	}{
		{
			name:     "afternoon",
			now:      time.Date(2024, time.April, 15, 13, 0, 0, 0, time.UTC),
			expected: time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "just before midnight",
			now:      time.Date(2024, time.April, 15, 23, 59, 59, 999, time.UTC),
			expected: time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "non-UTC zone is normalized",
			now:      time.Date(2024, time.April, 16, 1, 0, 0, 0, time.FixedZone("KST", 9*60*60)),
			expected: time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewMock()
			c.SetNow(tc.now)

			assert.Equal(t, Today(c), tc.expected, "today mismatch")
		})
	}
}

func TestMockAdvance(t *testing.T) {
	c := NewMock()
	start := c.Now()

	c.Advance(11 * time.Hour)

	assert.Equal(t, c.Now(), start.Add(11*time.Hour), "now mismatch")
	assert.Equal(t, Today(c), time.Date(2024, time.April, 16, 0, 0, 0, 0, time.UTC), "advancing past midnight should move today")
}
