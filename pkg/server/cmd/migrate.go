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

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/config"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/habitboard/habitboard/pkg/server/ownership"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newMigrateCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move shared buckets to per-user ownership and update the schema",
		Long: `Move shared buckets to per-user ownership and update the schema.

Stop the server before running it. Running it again after it succeeded
changes nothing.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			return runMigrate(ctx, gf, cmd.OutOrStdout())
		},
	}
}

func runMigrate(ctx context.Context, gf *globalFlags, w io.Writer) error {
	p, err := loadParams(gf)
	if err != nil {
		return err
	}
	log.SetLevel(config.LogLevelOf(p))

	db, err := openDB(config.DBPathOf(p))
	if err != nil {
		return err
	}
	defer database.Close(db)

	report, err := ownership.New(db).Run(ctx)
	printMigrationReport(w, report)
	if err != nil {
		return errors.Wrap(err, "migrating bucket ownership")
	}

	if err := initSchema(db); err != nil {
		return err
	}

	colorGreen.Fprintln(w, "Migration complete.")
	return nil
}

func printMigrationReport(w io.Writer, r ownership.Report) {
	fmt.Fprintf(w, "Store: %s\n", r.State)
	for _, ph := range r.Phases {
		fmt.Fprintf(w, "  %s %s\n", colorGreen.Sprint("✔"), ph)
	}

	if r.State == ownership.StateLegacy {
		fmt.Fprintf(w, "Cloned buckets: %d\n", r.Cloned)
		fmt.Fprintf(w, "Relinked entries: %d\n", r.Relinked)
		fmt.Fprintf(w, "Deleted shared buckets: %d\n", r.Deleted)
	}
	if r.Seeded > 0 {
		fmt.Fprintf(w, "Users given default buckets: %d\n", r.Seeded)
	}

	if len(r.OverLimit) > 0 {
		colorRed.Fprintf(w, "%d users would own more than %d buckets after cloning %d shared buckets. Nothing was changed.\n", len(r.OverLimit), database.MaxBucketsPerUser, r.Legacy)
		for _, u := range r.OverLimit {
			fmt.Fprintf(w, "  user %d: %d buckets\n", u.UserID, u.Buckets)
		}
	}

	if len(r.Unlinked) > 0 {
		colorRed.Fprintf(w, "%d entries could not be linked to a bucket of their owner. Nothing was changed.\n", len(r.Unlinked))
		for _, e := range r.Unlinked {
			fmt.Fprintf(w, "  entry %d: user %d, bucket %d, %s\n", e.ID, e.UserID, e.BucketID, e.Date)
		}
	}
}

func newResetCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every bucket and check-in and give every user the default buckets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReset(gf, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// resetPhrase must be typed to confirm a reset
const resetPhrase = "reset"

func runReset(gf *globalFlags, r io.Reader, w io.Writer) error {
	p, err := loadParams(gf)
	if err != nil {
		return err
	}
	log.SetLevel(config.LogLevelOf(p))

	db, err := openDB(config.DBPathOf(p))
	if err != nil {
		return err
	}
	defer database.Close(db)

	a := newApp(db)
	if err := a.EnsureReady(); err != nil {
		return errors.Wrap(err, "checking the store")
	}
	if err := initSchema(db); err != nil {
		return err
	}

	ok, err := confirmReset(r, w)
	if err != nil {
		return err
	}
	if !ok {
		colorYellow.Fprintln(w, "Aborted.")
		return nil
	}

	report, err := a.ResetAll()
	if err != nil {
		return errors.Wrap(err, "resetting the board")
	}

	printResetReport(w, report)
	return nil
}

func printResetReport(w io.Writer, report app.ResetReport) {
	colorGreen.Fprintln(w, "Board reset.")
	fmt.Fprintf(w, "Deleted check-ins: %d\n", report.DeletedEntries)
	fmt.Fprintf(w, "Deleted buckets: %d\n", report.DeletedBuckets)
	fmt.Fprintf(w, "Users given default buckets: %d\n", report.SeededUsers)
}
