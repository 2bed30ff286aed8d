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

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user. Users are identified by the email address
// asserted by the identity provider.
type User struct {
	Model
	Email       string     `gorm:"uniqueIndex;not null"`
	Name        string
	AvatarURL   string
	LastLoginAt *time.Time `json:"-"`
}

// Session represents a user session. Only a one-way hash of the
// session key is persisted.
type Session struct {
	Model
	UserID     int    `gorm:"index"`
	KeyHash    string `gorm:"uniqueIndex;not null"`
	LastUsedAt time.Time
	ExpiresAt  time.Time
}

// Bucket is a model for a daily habit owned by a user
type Bucket struct {
	Model
	UserID    int    `json:"user_id" gorm:"not null;uniqueIndex:idx_buckets_user_name"`
	Name      string `json:"name" gorm:"not null;uniqueIndex:idx_buckets_user_name"`
	SortOrder int    `json:"sort_order" gorm:"not null"`
}

// Entry is a model for the checked state of a bucket on a calendar day
type Entry struct {
	Model
	UserID   int    `json:"user_id" gorm:"not null;uniqueIndex:idx_entries_user_bucket_date"`
	BucketID int    `json:"bucket_id" gorm:"not null;uniqueIndex:idx_entries_user_bucket_date;index"`
	Date     string `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_entries_user_bucket_date;index"`
	Checked  bool   `json:"checked" gorm:"not null"`
}

// DayNote is a model for a free-text note attached to a user's calendar day
type DayNote struct {
	Model
	UserID int    `json:"user_id" gorm:"not null;uniqueIndex:idx_notes_user_date"`
	Date   string `json:"date" gorm:"type:varchar(10);not null;uniqueIndex:idx_notes_user_date"`
	Body   string `json:"body" gorm:"not null"`
}

// TableName overrides the table name of DayNote
func (DayNote) TableName() string {
	return "notes"
}
