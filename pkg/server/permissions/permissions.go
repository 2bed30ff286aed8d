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

package permissions

import (
	"strings"

	"github.com/habitboard/habitboard/pkg/server/database"
)

// OwnsBucket checks if the given user owns the given bucket
func OwnsBucket(user *database.User, bucket database.Bucket) bool {
	if user == nil {
		return false
	}
	if bucket.UserID == 0 {
		return false
	}

	return bucket.UserID == user.ID
}

// IsAdmin checks if the email of the given user is in the admin allow-list
func IsAdmin(user *database.User, adminEmails []string) bool {
	if user == nil || user.Email == "" {
		return false
	}

	for _, e := range adminEmails {
		if strings.EqualFold(strings.TrimSpace(e), user.Email) {
			return true
		}
	}

	return false
}
