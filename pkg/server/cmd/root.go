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

// Package cmd provides the command line interface of the server
package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// globalFlags are the flags shared by every command
type globalFlags struct {
	configPath string
	envPath    string
	dbPath     string
	logLevel   string
}

// newRootCmd returns the root command with every subcommand registered
func newRootCmd() *cobra.Command {
	gf := &globalFlags{}

	root := &cobra.Command{
		Use:           "habitboard",
		Short:         "Habitboard - a shared daily habit tracker",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&gf.configPath, "config", "", "path to a YAML configuration file")
	f.StringVar(&gf.envPath, "env", ".env", "path to a .env file loaded into the environment if present")
	f.StringVar(&gf.dbPath, "dbPath", "", "SQLite file path or postgres:// URL (env: DBPath, default: $XDG_DATA_HOME/habitboard/server.db)")
	f.StringVar(&gf.logLevel, "logLevel", "", "log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	root.AddCommand(
		newStartCmd(gf),
		newMigrateCmd(gf),
		newResetCmd(gf),
		newUserCmd(gf),
		newVersionCmd(),
	)

	return root
}

// Execute is the main entry point for the CLI
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
