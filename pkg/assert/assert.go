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

// Package assert provides functions to assert a condition in tests
package assert

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
)

func getErrorMessage(message string) string {
	if message == "" {
		return ""
	}

	return fmt.Sprintf("%s. ", message)
}

// Equal errors a test if the actual does not match the expected
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if cmp.Equal(a, b) {
		return
	}

	t.Errorf("%sPayload mismatch (-want +got):\n%s", getErrorMessage(message), cmp.Diff(b, a))
}

// NotEqual fails a test if the actual matches the expected
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if !cmp.Equal(a, b) {
		return
	}

	t.Errorf("%s%+v == %+v", getErrorMessage(message), a, b)
}

// DeepEqual fails a test if the actual does not deeply equal the expected
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if cmp.Equal(a, b) {
		return
	}

	t.Errorf("%sPayload mismatch (-want +got):\n%s", getErrorMessage(message), cmp.Diff(b, a))
}

// ErrorIs fails a test if err does not match the target in its chain
func ErrorIs(t *testing.T, err, target error, message string) {
	t.Helper()

	if errors.Is(err, target) {
		return
	}

	t.Errorf("%sexpected error %v, got %v", getErrorMessage(message), target, err)
}

// StatusCodeEquals fails a test if the status code of the response
// does not match the expected code
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode == expected {
		return
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatal(errors.Wrap(err, "reading body"))
	}

	t.Errorf("%sstatus code mismatch. Expected %d, got %d. Body: %s", getErrorMessage(message), expected, res.StatusCode, string(body))
}
