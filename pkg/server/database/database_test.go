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
	"testing"

	"github.com/habitboard/habitboard/pkg/assert"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestGetDBLogLevel(t *testing.T) {
	testCases := []struct {
		level    string
		expected logger.LogLevel
	}{
		{level: log.LevelDebug, expected: logger.Info},
		{level: log.LevelInfo, expected: logger.Silent},
		{level: log.LevelWarn, expected: logger.Warn},
		{level: log.LevelError, expected: logger.Error},
		{level: "unknown", expected: logger.Silent},
		{level: "", expected: logger.Silent},
	}

	for _, tc := range testCases {
		t.Run(tc.level, func(t *testing.T) {
			assert.Equal(t, getDBLogLevel(tc.level), tc.expected, "log level mismatch")
		})
	}
}

func TestIsPostgresDSN(t *testing.T) {
	assert.Equal(t, IsPostgresDSN("postgres://u:p@localhost:5432/habits"), true, "postgres scheme")
	assert.Equal(t, IsPostgresDSN("postgresql://localhost/habits"), true, "postgresql scheme")
	assert.Equal(t, IsPostgresDSN("/var/lib/habitboard/habitboard.db"), false, "file path")
	assert.Equal(t, IsPostgresDSN(":memory:"), false, "memory")
}

func TestIsLegacyLayout(t *testing.T) {
	t.Run("fresh install", func(t *testing.T) {
		db := openTestDB(t)

		legacy, err := IsLegacyLayout(db)
		assert.Equal(t, err, nil, "unexpected error")
		assert.Equal(t, legacy, false, "fresh database is not legacy")
	})

	t.Run("current layout", func(t *testing.T) {
		db := openTestDB(t)
		InitSchema(db)

		legacy, err := IsLegacyLayout(db)
		assert.Equal(t, err, nil, "unexpected error")
		assert.Equal(t, legacy, false, "current layout is not legacy")
	})

	t.Run("global buckets", func(t *testing.T) {
		db := openTestDB(t)
		if err := db.Exec("CREATE TABLE buckets (id INTEGER PRIMARY KEY, name TEXT NOT NULL, sort_order INTEGER NOT NULL)").Error; err != nil {
			t.Fatalf("creating legacy table: %v", err)
		}

		legacy, err := IsLegacyLayout(db)
		assert.Equal(t, err, nil, "unexpected error")
		assert.Equal(t, legacy, true, "buckets without owner is legacy")
	})
}

func TestIsUniqueViolation(t *testing.T) {
	db := openTestDB(t)
	InitSchema(db)

	u := User{Email: "alice@example.com"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("creating user: %v", err)
	}

	err := db.Create(&User{Email: "alice@example.com"}).Error
	assert.Equal(t, IsUniqueViolation(err), true, "duplicate email")
	assert.Equal(t, IsUniqueViolation(errors.Wrap(err, "creating user")), true, "wrapped duplicate email")

	assert.Equal(t, IsUniqueViolation(nil), false, "nil error")
	assert.Equal(t, IsUniqueViolation(gorm.ErrRecordNotFound), false, "not found")
}
