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

// Package ownership moves a store from globally shared buckets to buckets
// owned by a single user. The migration runs as three phases, Check,
// Backfill and Tighten, each of which can be re-run safely.
package ownership

import (
	"context"
	"fmt"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Phase is a step of the ownership migration
type Phase string

const (
	// PhaseCheck inspects the layout of the store
	PhaseCheck Phase = "check"
	// PhaseBackfill clones the global buckets for every user and re-links entries
	PhaseBackfill Phase = "backfill"
	// PhaseTighten makes ownership mandatory and unique per user
	PhaseTighten Phase = "tighten"
)

// State is the layout detected by the check phase
type State int

const (
	// StateFresh is a store without a buckets table
	StateFresh State = iota
	// StateLegacy is a store whose buckets have no owner column
	StateLegacy
	// StateMigrated is a store whose buckets have an owner column
	StateMigrated
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateLegacy:
		return "legacy"
	case StateMigrated:
		return "migrated"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

const legacyIndexName = "idx_buckets_name"
const ownerIndexName = "idx_buckets_user_name"

// UnlinkedEntry is an entry that still references a global bucket after backfill
type UnlinkedEntry struct {
	ID       int
	UserID   int
	BucketID int
	Date     string
}

// OverLimitUser is a user who would own more than the allowed number of
// buckets once the global buckets are cloned
type OverLimitUser struct {
	UserID  int
	Buckets int
}

// Report summarizes a run of the migration
type Report struct {
	Phases    []Phase
	State     State
	Legacy    int
	Cloned    int
	Relinked  int64
	Deleted   int64
	Seeded    int
	Unlinked  []UnlinkedEntry
	OverLimit []OverLimitUser
}

// Migrator runs the ownership migration against a store. It assumes
// exclusive access to the store while it runs.
type Migrator struct {
	db *gorm.DB
}

// New returns a migrator for the given store
func New(db *gorm.DB) *Migrator {
	return &Migrator{db: db}
}

// Run executes every phase needed to bring the store to the per-user layout.
// When backfill finds entries it cannot re-link, nothing is changed and the
// returned error wraps app.ErrDataIntegrity; the report lists those entries.
func (m *Migrator) Run(ctx context.Context) (Report, error) {
	var r Report
	if err := ctx.Err(); err != nil {
		return r, err
	}

	state, err := m.Check(ctx)
	if err != nil {
		return r, errors.Wrap(err, "checking layout")
	}
	r.Phases = append(r.Phases, PhaseCheck)
	r.State = state

	log.WithFields(log.Fields{
		"state": state.String(),
	}).Info("Checked bucket layout.")

	if state == StateFresh {
		return r, nil
	}

	if state == StateLegacy {
		if err := ctx.Err(); err != nil {
			return r, err
		}

		r.Phases = append(r.Phases, PhaseBackfill)
		if err := m.Backfill(ctx, &r); err != nil {
			return r, errors.Wrap(err, "backfilling owners")
		}
	}

	if err := ctx.Err(); err != nil {
		return r, err
	}

	r.Phases = append(r.Phases, PhaseTighten)
	if err := m.Tighten(ctx, &r); err != nil {
		return r, errors.Wrap(err, "tightening constraints")
	}

	log.WithFields(log.Fields{
		"cloned":   r.Cloned,
		"relinked": r.Relinked,
		"deleted":  r.Deleted,
		"seeded":   r.Seeded,
	}).Info("Migrated bucket ownership.")

	return r, nil
}

// Check detects the layout of the store
func (m *Migrator) Check(ctx context.Context) (State, error) {
	mg := m.db.WithContext(ctx).Migrator()

	if !mg.HasTable(database.TableBuckets) {
		return StateFresh, nil
	}
	if !mg.HasColumn(database.TableBuckets, database.ColumnBucketOwner) {
		return StateLegacy, nil
	}

	return StateMigrated, nil
}

type legacyBucket struct {
	ID        int
	Name      string
	SortOrder int
}

type cloneKey struct {
	userID int
	name   string
}

// Backfill gives every user a copy of every global bucket and points their
// entries at the copies. The global buckets are deleted only after a scan
// confirms no entry references them. It runs in a single transaction.
func (m *Migrator) Backfill(ctx context.Context, r *Report) error {
	var cloned int
	var relinked, deleted int64
	var unlinked []UnlinkedEntry
	var overLimit []OverLimitUser

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		mg := tx.Migrator()

		if !mg.HasColumn(database.TableBuckets, database.ColumnBucketOwner) {
			sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s INTEGER", database.TableBuckets, database.ColumnBucketOwner)
			if err := tx.Exec(sql).Error; err != nil {
				return errors.Wrap(err, "adding owner column")
			}
		}
		if err := tx.Exec(fmt.Sprintf("DROP INDEX IF EXISTS %s", legacyIndexName)).Error; err != nil {
			return errors.Wrap(err, "dropping global name index")
		}

		var legacy []legacyBucket
		if err := tx.Table(database.TableBuckets).
			Select("id, name, sort_order").
			Where("user_id IS NULL").
			Order("sort_order ASC, id ASC").
			Find(&legacy).Error; err != nil {
			return errors.Wrap(err, "finding global buckets")
		}

		var userIDs []int
		if err := tx.Model(&database.User{}).Order("id ASC").Pluck("id", &userIDs).Error; err != nil {
			return errors.Wrap(err, "finding users")
		}
		r.Legacy = len(legacy)

		over, err := findOverLimit(tx, userIDs, legacy)
		if err != nil {
			return err
		}
		if len(over) > 0 {
			overLimit = over
			return errors.Wrapf(app.ErrDataIntegrity, "%d users would own more than %d buckets", len(over), database.MaxBucketsPerUser)
		}

		clones := map[cloneKey]int{}
		for _, userID := range userIDs {
			for _, lb := range legacy {
				id, created, err := cloneBucket(tx, userID, lb)
				if err != nil {
					return errors.Wrapf(err, "cloning bucket %d for user %d", lb.ID, userID)
				}
				if created {
					cloned++
				}

				clones[cloneKey{userID, lb.Name}] = id
			}
		}

		for _, lb := range legacy {
			for _, userID := range userIDs {
				res := tx.Model(&database.Entry{}).
					Where("bucket_id = ? AND user_id = ?", lb.ID, userID).
					Update("bucket_id", clones[cloneKey{userID, lb.Name}])
				if err := res.Error; err != nil {
					return errors.Wrapf(err, "re-linking entries of bucket %d for user %d", lb.ID, userID)
				}

				relinked += res.RowsAffected
			}
		}

		if len(legacy) == 0 {
			return nil
		}

		legacyIDs := make([]int, 0, len(legacy))
		for _, lb := range legacy {
			legacyIDs = append(legacyIDs, lb.ID)
		}

		var remaining []database.Entry
		if err := tx.Where("bucket_id IN ?", legacyIDs).Order("id ASC").Find(&remaining).Error; err != nil {
			return errors.Wrap(err, "scanning for unlinked entries")
		}
		if len(remaining) > 0 {
			for _, e := range remaining {
				unlinked = append(unlinked, UnlinkedEntry{
					ID:       e.ID,
					UserID:   e.UserID,
					BucketID: e.BucketID,
					Date:     e.Date,
				})
			}

			return errors.Wrapf(app.ErrDataIntegrity, "%d entries still reference global buckets", len(remaining))
		}

		res := tx.Where("id IN ?", legacyIDs).Delete(&database.Bucket{})
		if err := res.Error; err != nil {
			return errors.Wrap(err, "deleting global buckets")
		}
		deleted = res.RowsAffected

		return nil
	})
	if err != nil {
		r.Unlinked = unlinked
		r.OverLimit = overLimit
		for _, u := range overLimit {
			log.WithFields(log.Fields{
				"user_id": u.UserID,
				"buckets": u.Buckets,
			}).Warn("Too many buckets after cloning.")
		}
		for _, e := range unlinked {
			log.WithFields(log.Fields{
				"entry_id":  e.ID,
				"user_id":   e.UserID,
				"bucket_id": e.BucketID,
				"date":      e.Date,
			}).Warn("Unlinked entry.")
		}

		return err
	}

	r.Cloned += cloned
	r.Relinked += relinked
	r.Deleted += deleted

	return nil
}

// findOverLimit returns the users whose buckets, counting the copies the
// backfill would create, exceed the per-user limit
func findOverLimit(tx *gorm.DB, userIDs []int, legacy []legacyBucket) ([]OverLimitUser, error) {
	var ret []OverLimitUser

	for _, userID := range userIDs {
		var owned []string
		if err := tx.Model(&database.Bucket{}).Where("user_id = ?", userID).Pluck("name", &owned).Error; err != nil {
			return nil, errors.Wrapf(err, "finding buckets of user %d", userID)
		}

		names := map[string]bool{}
		for _, n := range owned {
			names[n] = true
		}
		for _, lb := range legacy {
			names[lb.Name] = true
		}

		if len(names) > database.MaxBucketsPerUser {
			ret = append(ret, OverLimitUser{UserID: userID, Buckets: len(names)})
		}
	}

	return ret, nil
}

// cloneBucket returns the id of the user's copy of the global bucket,
// creating it when missing
func cloneBucket(tx *gorm.DB, userID int, lb legacyBucket) (int, bool, error) {
	var existing database.Bucket
	err := tx.Where("user_id = ? AND name = ?", userID, lb.Name).First(&existing).Error
	if err == nil {
		return existing.ID, false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, errors.Wrap(err, "finding existing copy")
	}

	b := database.Bucket{
		UserID:    userID,
		Name:      lb.Name,
		SortOrder: lb.SortOrder,
	}
	if err := tx.Create(&b).Error; err != nil {
		return 0, false, errors.Wrap(err, "inserting copy")
	}

	return b.ID, true, nil
}

// Tighten makes the owner column mandatory, enforces unique names per user
// and seeds the default buckets for users without any
func (m *Migrator) Tighten(ctx context.Context, r *Report) error {
	var seeded int

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orphans int64
		if err := tx.Model(&database.Bucket{}).Where("user_id IS NULL").Count(&orphans).Error; err != nil {
			return errors.Wrap(err, "counting buckets without owner")
		}
		if orphans > 0 {
			return errors.Wrapf(app.ErrDataIntegrity, "%d buckets have no owner", orphans)
		}

		nullable, err := ownerNullable(tx)
		if err != nil {
			return err
		}
		mg := tx.Migrator()
		if nullable {
			if err := mg.AlterColumn(&database.Bucket{}, "UserID"); err != nil {
				return errors.Wrap(err, "making owner mandatory")
			}
		}
		if !mg.HasIndex(&database.Bucket{}, ownerIndexName) {
			if err := mg.CreateIndex(&database.Bucket{}, ownerIndexName); err != nil {
				return errors.Wrap(err, "creating per-user name index")
			}
		}

		var userIDs []int
		if err := tx.Model(&database.User{}).Order("id ASC").Pluck("id", &userIDs).Error; err != nil {
			return errors.Wrap(err, "finding users")
		}
		for _, id := range userIDs {
			n, err := app.SeedDefaultBuckets(tx, id)
			if err != nil {
				return errors.Wrapf(err, "seeding buckets for user %d", id)
			}
			if n > 0 {
				seeded++
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	r.Seeded += seeded

	return nil
}

func ownerNullable(tx *gorm.DB) (bool, error) {
	cols, err := tx.Migrator().ColumnTypes(&database.Bucket{})
	if err != nil {
		return false, errors.Wrap(err, "reading bucket columns")
	}

	for _, c := range cols {
		if c.Name() != database.ColumnBucketOwner {
			continue
		}

		nullable, ok := c.Nullable()
		return !ok || nullable, nil
	}

	return false, errors.Errorf("column %s not found", database.ColumnBucketOwner)
}
