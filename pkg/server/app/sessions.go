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
	"github.com/habitboard/habitboard/pkg/server/token"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// CreateSession creates a session for the user of the given id. It returns
// the session and its key. Only the hash of the key is stored.
func (a *App) CreateSession(userID int) (database.Session, string, error) {
	key, err := token.Generate()
	if err != nil {
		return database.Session{}, "", errors.Wrap(err, "generating key")
	}

	now := a.Clock.Now().UTC()
	session := database.Session{
		UserID:     userID,
		KeyHash:    token.Hash(key),
		LastUsedAt: now,
		ExpiresAt:  now.Add(database.SessionDuration),
	}
	if err := a.DB.Create(&session).Error; err != nil {
		return database.Session{}, "", errors.Wrap(err, "saving session")
	}

	return session, key, nil
}

// AuthenticateSession returns the user of the session identified by the given key.
// An expired session is deleted and treated as unknown.
func (a *App) AuthenticateSession(key string) (database.User, error) {
	if key == "" {
		return database.User{}, ErrUnauthenticated
	}

	var session database.Session
	err := a.DB.Where("key_hash = ?", token.Hash(key)).First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrUnauthenticated
	} else if err != nil {
		return database.User{}, errors.Wrap(err, "finding session")
	}

	now := a.Clock.Now()
	if !session.ExpiresAt.After(now) {
		if err := a.DB.Delete(&session).Error; err != nil {
			log.WithFields(log.Fields{
				"session_id": session.ID,
			}).ErrorWrap(err, "deleting expired session")
		}

		return database.User{}, ErrUnauthenticated
	}

	var user database.User
	err = a.DB.Where("id = ?", session.UserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.User{}, ErrUnauthenticated
	} else if err != nil {
		return database.User{}, errors.Wrap(err, "finding user from session")
	}

	if err := a.DB.Model(&session).UpdateColumn("last_used_at", now.UTC()).Error; err != nil {
		log.ErrorWrap(err, "touching session")
	}

	return user, nil
}

// DeleteUserSessions deletes all existing sessions for the given user. It effectively
// invalidates all existing sessions.
func (a *App) DeleteUserSessions(db *gorm.DB, userID int) error {
	if err := db.Where("user_id = ?", userID).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting sessions")
	}

	return nil
}

// DeleteSession deletes the session identified by the given key
func (a *App) DeleteSession(key string) error {
	if err := a.DB.Where("key_hash = ?", token.Hash(key)).Delete(&database.Session{}).Error; err != nil {
		return errors.Wrap(err, "deleting the session")
	}

	return nil
}

// DeleteExpiredSessions deletes every session past its expiry and returns how many were removed
func (a *App) DeleteExpiredSessions() (int64, error) {
	res := a.DB.Where("expires_at <= ?", a.Clock.Now().UTC()).Delete(&database.Session{})
	if err := res.Error; err != nil {
		return 0, errors.Wrap(err, "deleting expired sessions")
	}

	return res.RowsAffected, nil
}
