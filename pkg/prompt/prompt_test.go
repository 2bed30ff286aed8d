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

package prompt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/habitboard/habitboard/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	assert.Equal(t, FormatQuestion("Delete bucket?", false), "Delete bucket? (y/N)", "pessimistic mismatch")
	assert.Equal(t, FormatQuestion("Continue?", true), "Continue? (Y/n)", "optimistic mismatch")
}

func TestReadYesNo(t *testing.T) {
	testCases := []struct {
		name       string
		input      string
		optimistic bool
		expected   bool
	}{
		{"pessimistic with y", "y\n", false, true},
		{"pessimistic with yes", "yes\n", false, true},
		{"pessimistic with Y", "Y\n", false, true},
		{"pessimistic with n", "n\n", false, false},
		{"pessimistic with empty", "\n", false, false},
		{"optimistic with empty", "\n", true, true},
		{"optimistic with n", "n\n", true, false},
		{"no trailing newline", "y", false, true},
		{"invalid input defaults to no", "maybe\n", false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := ReadYesNo(strings.NewReader(tc.input), tc.optimistic)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assert.Equal(t, result, tc.expected, "ReadYesNo result mismatch")
		})
	}
}

func TestReadYesNo_Error(t *testing.T) {
	if _, err := ReadYesNo(strings.NewReader(""), false); err == nil {
		t.Fatal("expected error when reading from empty reader")
	}
}

func TestConfirmPhrase(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
	}{
		{"reset\n", true},
		{"  reset  \n", true},
		{"RESET\n", false},
		{"y\n", false},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			var out bytes.Buffer
			ok, err := ConfirmPhrase(strings.NewReader(tc.input), &out, "Wipe everything?", "reset")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			assert.Equal(t, ok, tc.expected, "confirmation mismatch")
			assert.Equal(t, out.String(), "Wipe everything? Type 'reset' to continue: ", "prompt mismatch")
		})
	}
}
