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

package context

import (
	"context"
	"testing"

	"github.com/habitboard/habitboard/pkg/assert"
	"github.com/habitboard/habitboard/pkg/server/database"
)

func TestUser(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, User(ctx) == nil, true, "guest should have no user")

	u := &database.User{Email: "alice@example.com"}
	got := User(WithUser(ctx, u))
	assert.Equal(t, got == u, true, "user mismatch")
}

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, RequestID(ctx), "", "missing request id mismatch")
	assert.Equal(t, RequestID(WithRequestID(ctx, "abc-123")), "abc-123", "request id mismatch")

	// values do not collide with each other
	ctx = WithRequestID(WithUser(ctx, &database.User{}), "abc-123")
	assert.Equal(t, User(ctx) != nil, true, "user should survive")
}
