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

package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/habitboard/habitboard/pkg/server/config"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/spf13/cobra"
)

func newUserCmd(gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the users with their bucket counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUserList(gf, cmd.OutOrStdout())
		},
	})

	return cmd
}

func runUserList(gf *globalFlags, w io.Writer) error {
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
		return err
	}
	if err := initSchema(db); err != nil {
		return err
	}

	users, err := a.ListUsers()
	if err != nil {
		return err
	}
	buckets, err := a.ListAllBuckets()
	if err != nil {
		return err
	}

	if len(users) == 0 {
		colorYellow.Fprintln(w, "No users.")
		return nil
	}

	counts := map[int]int{}
	for _, b := range buckets {
		counts[b.UserID]++
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tBUCKETS\tLAST LOGIN")
	for _, u := range users {
		lastLogin := colorGray.Sprint("never")
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.UTC().Format("2006-01-02 15:04")
		}

		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\n", u.ID, u.Email, u.Name, counts[u.ID], lastLogin)
	}

	return tw.Flush()
}
