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

// Package reminder runs the periodic jobs of the server
package reminder

import (
	"time"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
)

// SessionCleanupSchedule is the schedule of the expired session cleanup
const SessionCleanupSchedule = "@hourly"

// Scheduler runs the reminder emails and the session cleanup on their schedules
type Scheduler struct {
	cron *cron.Cron
	app  *app.App
}

// New returns a scheduler for the app. An empty reminder schedule disables
// the reminder emails; expired sessions are cleaned up regardless.
func New(a *app.App, reminderSchedule string) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.NewWithLocation(time.UTC),
		app:  a,
	}

	if reminderSchedule != "" {
		if err := s.cron.AddFunc(reminderSchedule, s.SendReminders); err != nil {
			return nil, errors.Wrapf(err, "scheduling reminders with '%s'", reminderSchedule)
		}
	}
	if err := s.cron.AddFunc(SessionCleanupSchedule, s.DeleteExpiredSessions); err != nil {
		return nil, errors.Wrap(err, "scheduling session cleanup")
	}

	return s, nil
}

// Start runs the scheduler in the background
func (s *Scheduler) Start() {
	s.cron.Start()

	log.WithFields(log.Fields{
		"jobs": len(s.cron.Entries()),
	}).Info("Scheduler started.")
}

// Stop stops the scheduler. Running jobs are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}

// SendReminders emails the users who have unchecked buckets today
func (s *Scheduler) SendReminders() {
	start := time.Now()

	n, err := s.app.SendReminders()
	if err != nil {
		log.ErrorWrap(err, "sending reminders")
		return
	}

	log.WithFields(log.Fields{
		"sent":     n,
		"duration": time.Since(start).String(),
	}).Info("Sent reminders.")
}

// DeleteExpiredSessions removes the sessions past their expiry
func (s *Scheduler) DeleteExpiredSessions() {
	n, err := s.app.DeleteExpiredSessions()
	if err != nil {
		log.ErrorWrap(err, "deleting expired sessions")
		return
	}

	if n > 0 {
		log.WithFields(log.Fields{
			"deleted": n,
		}).Info("Deleted expired sessions.")
	}
}
