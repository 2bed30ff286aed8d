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
	"strings"

	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/habitboard/habitboard/pkg/server/operations"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// UpdateBucketParams is the params for updating a bucket. Nil fields are left untouched.
type UpdateBucketParams struct {
	Name      *string
	SortOrder *int
}

// normalizeBucketName trims the name and rejects a blank one
func normalizeBucketName(name string) (string, error) {
	ret := strings.TrimSpace(name)
	if ret == "" {
		return "", ErrBucketNameRequired
	}

	return ret, nil
}

func bucketNameTaken(tx *gorm.DB, userID int, name string, exceptID int) (bool, error) {
	var count int64
	if err := tx.Model(&database.Bucket{}).
		Where("user_id = ? AND name = ? AND id <> ?", userID, name, exceptID).
		Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "counting buckets with the name")
	}

	return count > 0, nil
}

// ListBuckets returns the buckets of the user ordered by sort order, then id
func (a *App) ListBuckets(userID int) ([]database.Bucket, error) {
	var buckets []database.Bucket
	if err := a.DB.Where("user_id = ?", userID).
		Order("sort_order ASC, id ASC").
		Find(&buckets).Error; err != nil {
		return nil, errors.Wrap(err, "finding buckets")
	}

	return buckets, nil
}

// ListAllBuckets returns the buckets of every user, grouped by user and ordered
// the same way ListBuckets orders them
func (a *App) ListAllBuckets() ([]database.Bucket, error) {
	var buckets []database.Bucket
	if err := a.DB.Order("user_id ASC, sort_order ASC, id ASC").Find(&buckets).Error; err != nil {
		return nil, errors.Wrap(err, "finding buckets")
	}

	return buckets, nil
}

// CreateBucket appends a bucket to the buckets of the user
func (a *App) CreateBucket(user database.User, name string) (database.Bucket, error) {
	name, err := normalizeBucketName(name)
	if err != nil {
		return database.Bucket{}, err
	}

	var bucket database.Bucket
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.Bucket{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting buckets")
		}
		if count >= database.MaxBucketsPerUser {
			return ErrBucketLimitExceeded
		}

		taken, err := bucketNameTaken(tx, user.ID, name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicateBucketName
		}

		var next int
		if err := tx.Model(&database.Bucket{}).
			Select("COALESCE(MAX(sort_order), -1) + 1").
			Where("user_id = ?", user.ID).
			Row().Scan(&next); err != nil {
			return errors.Wrap(err, "finding next sort order")
		}

		bucket = database.Bucket{
			UserID:    user.ID,
			Name:      name,
			SortOrder: next,
		}
		if err := tx.Create(&bucket).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrDuplicateBucketName
			}

			return errors.Wrap(err, "inserting bucket")
		}

		return nil
	})
	if err != nil {
		return database.Bucket{}, err
	}

	return bucket, nil
}

// UpdateBucket renames or reorders a bucket of the user
func (a *App) UpdateBucket(user database.User, bucketID int, p UpdateBucketParams) (database.Bucket, error) {
	var name string
	if p.Name != nil {
		n, err := normalizeBucketName(*p.Name)
		if err != nil {
			return database.Bucket{}, err
		}
		name = n
	}
	if p.SortOrder != nil && *p.SortOrder < 0 {
		return database.Bucket{}, ErrInvalidSortOrder
	}

	var bucket database.Bucket
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		b, ok, err := operations.GetBucket(tx, bucketID, &user)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBucketNotFound
		}

		if p.Name != nil && name != b.Name {
			taken, err := bucketNameTaken(tx, user.ID, name, b.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicateBucketName
			}

			b.Name = name
		}
		if p.SortOrder != nil {
			b.SortOrder = *p.SortOrder
		}

		if err := tx.Save(&b).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return ErrDuplicateBucketName
			}

			return errors.Wrap(err, "updating the bucket")
		}

		bucket = b
		return nil
	})
	if err != nil {
		return database.Bucket{}, err
	}

	return bucket, nil
}

// DeleteBucket deletes a bucket of the user together with all of its entries.
// The deletion cannot be undone.
func (a *App) DeleteBucket(user database.User, bucketID int) (database.Bucket, error) {
	var bucket database.Bucket
	var deleted int64

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		b, ok, err := operations.GetBucket(tx, bucketID, &user)
		if err != nil {
			return err
		}
		if !ok {
			return ErrBucketNotFound
		}

		res := tx.Where("bucket_id = ?", b.ID).Delete(&database.Entry{})
		if err := res.Error; err != nil {
			return errors.Wrap(err, "deleting entries of the bucket")
		}
		deleted = res.RowsAffected

		if err := tx.Delete(&b).Error; err != nil {
			return errors.Wrap(err, "deleting the bucket")
		}

		bucket = b
		return nil
	})
	if err != nil {
		return database.Bucket{}, err
	}

	log.WithFields(log.Fields{
		"user_id":   user.ID,
		"bucket_id": bucket.ID,
		"entries":   deleted,
	}).Info("Deleted bucket.")

	return bucket, nil
}

// SeedDefaultBuckets creates the default buckets for a user without any
// buckets and returns how many were created
func SeedDefaultBuckets(tx *gorm.DB, userID int) (int, error) {
	var count int64
	if err := tx.Model(&database.Bucket{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "counting buckets")
	}
	if count > 0 {
		return 0, nil
	}

	for i, name := range database.DefaultBucketNames {
		b := database.Bucket{
			UserID:    userID,
			Name:      name,
			SortOrder: i,
		}
		if err := tx.Create(&b).Error; err != nil {
			return 0, errors.Wrapf(err, "inserting default bucket %s", name)
		}
	}

	return len(database.DefaultBucketNames), nil
}
