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
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/habitboard/habitboard/pkg/server/buildinfo"
	"github.com/habitboard/habitboard/pkg/server/config"
	"github.com/habitboard/habitboard/pkg/server/controllers"
	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/habitboard/habitboard/pkg/server/reminder"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type startFlags struct {
	appEnv           string
	port             string
	webURL           string
	googleClientID   string
	adminEmails      string
	epochDate        string
	reminderSchedule string
	streakMode       string
	trustedProxy     string
}

func newStartCmd(gf *globalFlags) *cobra.Command {
	sf := &startFlags{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the server",
		Example: `
  habitboard start --port 3001 --webUrl https://habits.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStart(cmd.Context(), gf, sf)
		},
	}

	f := cmd.Flags()
	f.StringVar(&sf.appEnv, "appEnv", "", "application environment (env: APP_ENV, default: PRODUCTION)")
	f.StringVar(&sf.port, "port", "", "server port (env: PORT, default: 3001)")
	f.StringVar(&sf.webURL, "webUrl", "", "full URL to the server without trailing slash (env: WebURL, default: http://localhost:3001)")
	f.StringVar(&sf.googleClientID, "googleClientId", "", "OAuth client ID for Google sign-in (env: GOOGLE_CLIENT_ID)")
	f.StringVar(&sf.adminEmails, "adminEmails", "", "comma separated emails allowed to reset the board (env: ADMIN_EMAILS)")
	f.StringVar(&sf.epochDate, "epoch", "", "first day counted in the statistics, YYYY-MM-DD (env: EPOCH_DATE, default: "+config.DefaultEpoch+")")
	f.StringVar(&sf.reminderSchedule, "reminderSchedule", "", "cron spec with seconds for the reminder emails, empty disables (env: REMINDER_SCHEDULE)")
	f.StringVar(&sf.streakMode, "streakMode", "", "current or historical (env: STREAK_MODE, default: current)")
	f.StringVar(&sf.trustedProxy, "trustedProxy", "", "comma separated reverse proxy IPs or CIDR ranges whose X-Forwarded-For is honored (env: TRUSTED_PROXY)")

	return cmd
}

func runStart(ctx context.Context, gf *globalFlags, sf *startFlags) error {
	p, err := loadParams(gf)
	if err != nil {
		return err
	}
	p.AppEnv = sf.appEnv
	p.Port = sf.port
	p.WebURL = sf.webURL
	p.GoogleClientID = sf.googleClientID
	p.AdminEmails = sf.adminEmails
	p.EpochDate = sf.epochDate
	p.ReminderSchedule = sf.reminderSchedule
	p.StreakMode = sf.streakMode
	p.TrustedProxy = sf.trustedProxy

	cfg, err := config.New(p)
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	log.SetLevel(cfg.LogLevel)

	db, err := openDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer database.Close(db)

	a, err := initApp(cfg, db)
	if err != nil {
		return err
	}

	// the layout must be checked before the schema is brought up to date
	if err := a.EnsureReady(); err != nil {
		return errors.Wrap(err, "checking the store")
	}
	if err := initSchema(db); err != nil {
		return err
	}

	scheduler, err := reminder.New(a, cfg.ReminderSchedule)
	if err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	r, err := controllers.NewDefaultRouter(a)
	if err != nil {
		return errors.Wrap(err, "initializing router")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
		"env":     cfg.AppEnv,
	}).Info("Habitboard server starting")

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, srv)
}

// serve runs the server until it fails or the context is done, then shuts
// it down gracefully
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down")
	}

	return nil
}
