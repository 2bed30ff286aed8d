/* Copyright (C) 2019, 2020, 2021, 2022, 2023, 2024, 2025 Dnote contributors
 *
 * This file is part of Dnote.
 *
 * Dnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU Affero General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Dnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU Affero General Public License for more details.
 *
 * You should have received a copy of the GNU Affero General Public License
 * along with Dnote.  If not, see <https://www.gnu.org/licenses/>.
 */

package database

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	// ErrLegacyLayout is returned when the buckets table still has the global layout
	ErrLegacyLayout = errors.New("buckets table has no owner column; run the ownership migration first")
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Session{},
		&Bucket{},
		&Entry{},
		&DayNote{},
	); err != nil {
		panic(err)
	}
}

// IsPostgresDSN reports whether the given database path is a PostgreSQL connection URL
func IsPostgresDSN(dbPath string) bool {
	return strings.HasPrefix(dbPath, "postgres://") || strings.HasPrefix(dbPath, "postgresql://")
}

func getDialector(dbPath string) (gorm.Dialector, error) {
	if IsPostgresDSN(dbPath) {
		return postgres.Open(dbPath), nil
	}

	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "creating database directory at %s", dir)
		}
	}

	return sqlite.Open(dbPath), nil
}

// getDBLogLevel maps the application log level to the gorm log level.
// SQL statements are only logged in debug mode.
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

// Config returns the gorm configuration shared by every connection
func Config() *gorm.Config {
	return &gorm.Config{
		Logger:         logger.Default.LogMode(getDBLogLevel(log.Level())),
		TranslateError: true,
	}
}

// Open initializes the database connection. A PostgreSQL URL selects the
// postgres driver; anything else is treated as a SQLite file path.
func Open(dbPath string) *gorm.DB {
	dialector, err := getDialector(dbPath)
	if err != nil {
		panic(err)
	}

	db, err := gorm.Open(dialector, Config())
	if err != nil {
		panic(errors.Wrap(err, "opening database conection"))
	}

	return db
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

// IsLegacyLayout reports whether the buckets table exists without the owner column.
// It only reads the schema.
func IsLegacyLayout(db *gorm.DB) (bool, error) {
	m := db.Migrator()
	if !m.HasTable(TableBuckets) {
		return false, nil
	}

	return !m.HasColumn(TableBuckets, ColumnBucketOwner), nil
}

// IsUniqueViolation reports whether the given error was caused by a unique constraint
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	return false
}
