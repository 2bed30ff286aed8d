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

package app

import (
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/operations"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpsertEntryParams is the params for checking a bucket on a day
type UpsertEntryParams struct {
	BucketID int
	Date     string
	Checked  bool
}

// currentEntries scopes a query on entries to the ones whose bucket still
// exists and belongs to the owner of the entry
func currentEntries(db *gorm.DB) *gorm.DB {
	return db.Model(&database.Entry{}).
		Select("entries.*").
		Joins("JOIN buckets ON buckets.id = entries.bucket_id AND buckets.user_id = entries.user_id")
}

// UpsertEntry sets the checked state of a bucket of the user on a day.
// Only days within the editable window can be changed. The last write wins.
func (a *App) UpsertEntry(user database.User, p UpsertEntryParams) (database.Entry, error) {
	day, err := stats.ParseDay(p.Date)
	if err != nil {
		return database.Entry{}, ErrInvalidDate
	}

	bucket, ok, err := operations.GetBucket(a.DB, p.BucketID, &user)
	if err != nil {
		return database.Entry{}, err
	}
	if !ok {
		return database.Entry{}, ErrBucketNotOwned
	}

	// the window moves daily so it is derived from the clock on every call
	if !stats.InEditableWindow(day, a.Today()) {
		return database.Entry{}, ErrDateOutOfRange
	}

	now := a.Clock.Now().UTC()
	entry := database.Entry{
		Model: database.Model{
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:   user.ID,
		BucketID: bucket.ID,
		Date:     stats.FormatDay(day),
		Checked:  p.Checked,
	}

	if err := a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "bucket_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"checked", "updated_at"}),
	}).Create(&entry).Error; err != nil {
		return database.Entry{}, errors.Wrap(err, "upserting entry")
	}

	var ret database.Entry
	if err := a.DB.Where("user_id = ? AND bucket_id = ? AND date = ?", entry.UserID, entry.BucketID, entry.Date).
		First(&ret).Error; err != nil {
		return database.Entry{}, errors.Wrap(err, "finding the upserted entry")
	}

	return ret, nil
}

// GetEntriesForMonth returns the entries of every user in the given month.
// Entries of deleted buckets are never returned.
func (a *App) GetEntriesForMonth(monthKey string) ([]database.Entry, error) {
	m, err := stats.ParseMonth(monthKey)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	from, to := m.Range()

	var entries []database.Entry
	if err := currentEntries(a.DB).
		Where("entries.date >= ? AND entries.date <= ?", from, to).
		Order("entries.date ASC, entries.user_id ASC, entries.bucket_id ASC").
		Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "finding entries")
	}

	return entries, nil
}

// listCheckedEntries returns every checked entry of a current bucket dated on or before the given day
func (a *App) listCheckedEntries(until string) ([]database.Entry, error) {
	var entries []database.Entry
	if err := currentEntries(a.DB).
		Where("entries.checked = ? AND entries.date <= ?", true, until).
		Order("entries.user_id ASC, entries.date DESC").
		Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "finding checked entries")
	}

	return entries, nil
}

// GetEditableEntries returns the entries of the user within the editable window
func (a *App) GetEditableEntries(userID int) ([]database.Entry, error) {
	from, to := stats.EditableWindow(a.Today())

	var entries []database.Entry
	if err := currentEntries(a.DB).
		Where("entries.user_id = ? AND entries.date >= ? AND entries.date <= ?", userID, stats.FormatDay(from), stats.FormatDay(to)).
		Order("entries.date ASC, entries.bucket_id ASC").
		Find(&entries).Error; err != nil {
		return nil, errors.Wrap(err, "finding editable entries")
	}

	return entries, nil
}
