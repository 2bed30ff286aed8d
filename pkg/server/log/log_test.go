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

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/pkg/errors"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelDebug)
	if Level() != LevelDebug {
		t.Errorf("Expected level %s, got %s", LevelDebug, Level())
	}

	SetLevel(LevelError)
	if Level() != LevelError {
		t.Errorf("Expected level %s, got %s", LevelError, Level())
	}
}

func TestShouldLog(t *testing.T) {
	defer SetLevel(LevelInfo)

	testCases := []struct {
		currentLevel string
		logLevel     string
		expected     bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelDebug, LevelError, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelInfo, LevelWarn, true},
		{LevelWarn, LevelInfo, false},
		{LevelWarn, LevelError, true},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
		{"bogus", LevelInfo, true},
	}

	for _, tc := range testCases {
		SetLevel(tc.currentLevel)
		if result := shouldLog(tc.logLevel); result != tc.expected {
			t.Errorf("level %s logging %s: expected %v, got %v", tc.currentLevel, tc.logLevel, tc.expected, result)
		}
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	defer SetLevel(LevelInfo)

	t.Run("fields are written as JSON", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelInfo)

		WithFields(Fields{"user_id": 7, "bucket": "Read"}).Info("bucket created")

		var got map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("decoding log line %q: %v", buf.String(), err)
		}

		if got["message"] != "bucket created" {
			t.Errorf("message mismatch: %v", got["message"])
		}
		if got["level"] != "info" {
			t.Errorf("level mismatch: %v", got["level"])
		}
		if got["bucket"] != "Read" {
			t.Errorf("bucket field mismatch: %v", got["bucket"])
		}
		if _, ok := got[fieldKeyUnixTimestamp]; !ok {
			t.Errorf("missing %s", fieldKeyUnixTimestamp)
		}
	})

	t.Run("errors are stringified", func(t *testing.T) {
		buf.Reset()

		ErrorWrap(errors.New("disk full"), "saving entry")

		var got map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("decoding log line %q: %v", buf.String(), err)
		}
		if got["error"] != "disk full" {
			t.Errorf("error field mismatch: %v", got["error"])
		}
	})

	t.Run("below level is dropped", func(t *testing.T) {
		buf.Reset()
		SetLevel(LevelWarn)

		Info("not written")

		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}
