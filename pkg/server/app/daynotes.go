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
	"strings"

	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/stats"
	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

// UpsertDayNote sets the note of the user on a day. A blank text deletes the
// note; deleting an absent note is a no-op. It reports whether a note is
// stored after the call.
func (a *App) UpsertDayNote(user database.User, date, text string) (database.DayNote, bool, error) {
	day, err := stats.ParseDay(date)
	if err != nil {
		return database.DayNote{}, false, ErrInvalidDate
	}
	date = stats.FormatDay(day)

	body := strings.TrimSpace(text)
	if body == "" {
		if err := a.DB.Where("user_id = ? AND date = ?", user.ID, date).Delete(&database.DayNote{}).Error; err != nil {
			return database.DayNote{}, false, errors.Wrap(err, "deleting note")
		}

		return database.DayNote{}, false, nil
	}

	now := a.Clock.Now().UTC()
	note := database.DayNote{
		Model: database.Model{
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: user.ID,
		Date:   date,
		Body:   body,
	}
	if err := a.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&note).Error; err != nil {
		return database.DayNote{}, false, errors.Wrap(err, "upserting note")
	}

	var ret database.DayNote
	if err := a.DB.Where("user_id = ? AND date = ?", user.ID, date).First(&ret).Error; err != nil {
		return database.DayNote{}, false, errors.Wrap(err, "finding the upserted note")
	}

	return ret, true, nil
}

// GetDayNote returns the text of the user's note on a day, or an empty
// string when there is none
func (a *App) GetDayNote(userID int, date string) (string, error) {
	day, err := stats.ParseDay(date)
	if err != nil {
		return "", ErrInvalidDate
	}

	var bodies []string
	if err := a.DB.Model(&database.DayNote{}).
		Where("user_id = ? AND date = ?", userID, stats.FormatDay(day)).
		Limit(1).
		Pluck("body", &bodies).Error; err != nil {
		return "", errors.Wrap(err, "finding note")
	}
	if len(bodies) == 0 {
		return "", nil
	}

	return bodies[0], nil
}

// GetDayNotesForMonth returns the notes of every user in the given month
func (a *App) GetDayNotesForMonth(monthKey string) ([]database.DayNote, error) {
	m, err := stats.ParseMonth(monthKey)
	if err != nil {
		return nil, ErrInvalidMonth
	}
	from, to := m.Range()

	var notes []database.DayNote
	if err := a.DB.Where("date >= ? AND date <= ?", from, to).
		Order("date ASC, user_id ASC").
		Find(&notes).Error; err != nil {
		return nil, errors.Wrap(err, "finding notes")
	}

	return notes, nil
}
