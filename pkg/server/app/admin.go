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

package app

import (
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/habitboard/habitboard/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// ResetReport summarizes a reset of the board
type ResetReport struct {
	DeletedEntries int64
	DeletedBuckets int64
	SeededUsers    int
}

// IsAdmin reports whether the user may perform privileged operations
func (a *App) IsAdmin(user database.User) bool {
	return permissions.IsAdmin(&user, a.AdminEmails)
}

// ResetAllAs resets the board on behalf of the given user, who must be an admin
func (a *App) ResetAllAs(user database.User) (ResetReport, error) {
	if !a.IsAdmin(user) {
		return ResetReport{}, ErrForbidden
	}

	r, err := a.ResetAll()
	if err != nil {
		return r, err
	}

	log.WithFields(log.Fields{
		"user_id": user.ID,
	}).Warn("Board reset by admin.")

	return r, nil
}

// ResetAll deletes every entry and every bucket, then gives every user the
// default buckets again. Notes are kept.
func (a *App) ResetAll() (ResetReport, error) {
	var r ResetReport

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("1 = 1").Delete(&database.Entry{})
		if err := res.Error; err != nil {
			return errors.Wrap(err, "deleting entries")
		}
		r.DeletedEntries = res.RowsAffected

		res = tx.Where("1 = 1").Delete(&database.Bucket{})
		if err := res.Error; err != nil {
			return errors.Wrap(err, "deleting buckets")
		}
		r.DeletedBuckets = res.RowsAffected

		var userIDs []int
		if err := tx.Model(&database.User{}).Order("id ASC").Pluck("id", &userIDs).Error; err != nil {
			return errors.Wrap(err, "finding users")
		}
		for _, id := range userIDs {
			n, err := SeedDefaultBuckets(tx, id)
			if err != nil {
				return errors.Wrapf(err, "seeding buckets for user %d", id)
			}
			if n > 0 {
				r.SeededUsers++
			}
		}

		return nil
	})
	if err != nil {
		return ResetReport{}, err
	}

	log.WithFields(log.Fields{
		"entries": r.DeletedEntries,
		"buckets": r.DeletedBuckets,
		"users":   r.SeededUsers,
	}).Info("Reset the board.")

	return r, nil
}
