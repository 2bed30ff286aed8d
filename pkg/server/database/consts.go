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

package database

import "time"

const (
	// MaxBucketsPerUser is the maximum number of buckets a user can own
	MaxBucketsPerUser = 5
	// SessionDuration is how long a session stays valid after sign-in
	SessionDuration = 45 * 24 * time.Hour
)

// DefaultBucketNames are the buckets every new user starts with
var DefaultBucketNames = []string{
	"Exercise",
	"Read",
	"Sleep by 11",
}

const (
	// TableBuckets is the name of the table holding buckets
	TableBuckets = "buckets"
	// ColumnBucketOwner is the ownership column of the buckets table
	ColumnBucketOwner = "user_id"
)
