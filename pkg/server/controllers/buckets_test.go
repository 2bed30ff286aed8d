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

package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/habitboard/habitboard/pkg/assert"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/database"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/habitboard/habitboard/pkg/server/presenters"
	"github.com/habitboard/habitboard/pkg/server/testutils"
)

func TestGetBuckets(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)
	server := MustNewServer(t, &a)

	alice := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "Bob")
	testutils.SetupBucket(a.DB, alice, "Run", 1)
	testutils.SetupBucket(a.DB, alice, "Read", 0)
	testutils.SetupBucket(a.DB, bob, "Sleep", 0)

	// execute
	req := testutils.MakeReq(server.URL, "GET", "/api/v1/buckets", "")
	res := testutils.HTTPAuthDo(t, a.DB, req, alice)

	// test
	assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

	var body []presenters.Bucket
	testutils.MustDecodeJSON(t, res, &body)

	assert.Equal(t, len(body), 2, "bucket count mismatch")
	assert.Equal(t, body[0].Name, "Read", "first bucket mismatch")
	assert.Equal(t, body[1].Name, "Run", "second bucket mismatch")
}

func TestCreateBucket(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
		testutils.SetupBucket(a.DB, user, "Read", 0)

		req := testutils.MakeReq(server.URL, "POST", "/api/v1/buckets", `{"name": "  Meditate  "}`)
		res := testutils.HTTPAuthDo(t, a.DB, req, user)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")

		var body CreateBucketResp
		testutils.MustDecodeJSON(t, res, &body)
		assert.Equal(t, body.Bucket.Name, "Meditate", "name mismatch")
		assert.Equal(t, body.Bucket.SortOrder, 1, "sort order mismatch")
		assert.Equal(t, body.Bucket.UserID, user.ID, "user id mismatch")
	})

	t.Run("form payload", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")

		req := testutils.MakeReq(server.URL, "POST", "/api/v1/buckets", "name=Stretch")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		res := testutils.HTTPAuthDo(t, a.DB, req, user)

		assert.StatusCodeEquals(t, res, http.StatusCreated, "status code mismatch")
	})

	testCases := []struct {
		name         string
		existing     []string
		payload      string
		expectedCode int
		expectedKind app.Kind
	}{
		{
			name:         "blank name",
			payload:      `{"name": "   "}`,
			expectedCode: http.StatusBadRequest,
			expectedKind: app.KindValidation,
		},
		{
			name:         "missing name",
			payload:      `{}`,
			expectedCode: http.StatusBadRequest,
			expectedKind: app.KindValidation,
		},
		{
			name:         "duplicate name",
			existing:     []string{"Read"},
			payload:      `{"name": "Read"}`,
			expectedCode: http.StatusConflict,
			expectedKind: app.KindConflict,
		},
		{
			name:         "limit reached",
			existing:     []string{"a", "b", "c", "d", "e"},
			payload:      `{"name": "f"}`,
			expectedCode: http.StatusBadRequest,
			expectedKind: app.KindValidation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := app.NewTest()
			a.DB = testutils.InitMemoryDB(t)
			server := MustNewServer(t, &a)

			user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
			for i, name := range tc.existing {
				testutils.SetupBucket(a.DB, user, name, i)
			}

			req := testutils.MakeReq(server.URL, "POST", "/api/v1/buckets", tc.payload)
			res := testutils.HTTPAuthDo(t, a.DB, req, user)

			assert.StatusCodeEquals(t, res, tc.expectedCode, "status code mismatch")

			var body mw.ErrorResponse
			testutils.MustDecodeJSON(t, res, &body)
			assert.Equal(t, body.Kind, tc.expectedKind, "kind mismatch")

			var count int64
			testutils.MustExec(t, a.DB.Model(&database.Bucket{}).Count(&count), "counting buckets")
			assert.Equal(t, count, int64(len(tc.existing)), "bucket count mismatch")
		})
	}

	t.Run("guest", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		req := testutils.MakeReq(server.URL, "POST", "/api/v1/buckets", `{"name": "Read"}`)
		res := testutils.HTTPDo(t, req)

		assert.StatusCodeEquals(t, res, http.StatusUnauthorized, "status code mismatch")
	})
}

func TestUpdateBucket(t *testing.T) {
	t.Run("rename and reorder", func(t *testing.T) {
		a := app.NewTest()
		a.DB = testutils.InitMemoryDB(t)
		server := MustNewServer(t, &a)

		user := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
		b := testutils.SetupBucket(a.DB, user, "Read", 0)

		endpoint := fmt.Sprintf("/api/v1/buckets/%d", b.ID)
		req := testutils.MakeReq(server.URL, "PATCH", endpoint, `{"name": "Read 20 pages", "sort_order": 3}`)
		res := testutils.HTTPAuthDo(t, a.DB, req, user)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var bucket database.Bucket
		testutils.MustExec(t, a.DB.First(&bucket, b.ID), "finding bucket")
		assert.Equal(t, bucket.Name, "Read 20 pages", "name mismatch")
		assert.Equal(t, bucket.SortOrder, 3, "sort order mismatch")
	})

	testCases := []struct {
		name         string
		path         func(own, foreign database.Bucket) string
		payload      string
		expectedCode int
	}{
		{
			name:         "bucket of another user",
			path:         func(own, foreign database.Bucket) string { return fmt.Sprintf("/api/v1/buckets/%d", foreign.ID) },
			payload:      `{"name": "Mine now"}`,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "malformed id",
			path:         func(own, foreign database.Bucket) string { return "/api/v1/buckets/abc" },
			payload:      `{"name": "Mine now"}`,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "negative sort order",
			path:         func(own, foreign database.Bucket) string { return fmt.Sprintf("/api/v1/buckets/%d", own.ID) },
			payload:      `{"sort_order": -1}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := app.NewTest()
			a.DB = testutils.InitMemoryDB(t)
			server := MustNewServer(t, &a)

			alice := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
			bob := testutils.SetupUserData(a.DB, "bob@example.com", "Bob")
			own := testutils.SetupBucket(a.DB, alice, "Read", 0)
			foreign := testutils.SetupBucket(a.DB, bob, "Run", 0)

			req := testutils.MakeReq(server.URL, "PATCH", tc.path(own, foreign), tc.payload)
			res := testutils.HTTPAuthDo(t, a.DB, req, alice)

			assert.StatusCodeEquals(t, res, tc.expectedCode, "status code mismatch")

			var bucket database.Bucket
			testutils.MustExec(t, a.DB.First(&bucket, foreign.ID), "finding foreign bucket")
			assert.Equal(t, bucket.Name, "Run", "foreign bucket should be untouched")
		})
	}
}

func TestDeleteBucket(t *testing.T) {
	a := app.NewTest()
	a.DB = testutils.InitMemoryDB(t)
	server := MustNewServer(t, &a)

	alice := testutils.SetupUserData(a.DB, "alice@example.com", "Alice")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "Bob")
	b1 := testutils.SetupBucket(a.DB, alice, "Read", 0)
	b2 := testutils.SetupBucket(a.DB, bob, "Run", 0)
	testutils.SetupEntry(a.DB, b1, "2024-04-14", true)
	testutils.SetupEntry(a.DB, b1, "2024-04-15", true)
	testutils.SetupEntry(a.DB, b2, "2024-04-15", true)

	t.Run("bucket of another user", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/buckets/%d", b2.ID), "")
		res := testutils.HTTPAuthDo(t, a.DB, req, alice)

		assert.StatusCodeEquals(t, res, http.StatusNotFound, "status code mismatch")
	})

	t.Run("own bucket", func(t *testing.T) {
		req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("/api/v1/buckets/%d", b1.ID), "")
		res := testutils.HTTPAuthDo(t, a.DB, req, alice)

		assert.StatusCodeEquals(t, res, http.StatusOK, "status code mismatch")

		var bucketCount, entryCount int64
		testutils.MustExec(t, a.DB.Model(&database.Bucket{}).Count(&bucketCount), "counting buckets")
		testutils.MustExec(t, a.DB.Model(&database.Entry{}).Count(&entryCount), "counting entries")
		assert.Equal(t, bucketCount, int64(1), "bucket count mismatch")
		assert.Equal(t, entryCount, int64(1), "entry count mismatch")
	})
}
