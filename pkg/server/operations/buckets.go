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

package operations

import (
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// GetBucket retrieves a bucket owned by the given user. It reports false
// when the bucket does not exist or belongs to someone else.
func GetBucket(db *gorm.DB, bucketID int, user *database.User) (database.Bucket, bool, error) {
	zeroBucket := database.Bucket{}
	if bucketID <= 0 {
		return zeroBucket, false, nil
	}

	var bucket database.Bucket
	err := db.Where("id = ?", bucketID).First(&bucket).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return zeroBucket, false, nil
	} else if err != nil {
		return zeroBucket, false, errors.Wrap(err, "finding bucket")
	}

	if ok := permissions.OwnsBucket(user, bucket); !ok {
		return zeroBucket, false, nil
	}

	return bucket, true, nil
}
