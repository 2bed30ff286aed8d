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

package app

import (
	"context"

	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/habitboard/habitboard/pkg/server/identity"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now().UTC()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return errors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// UpsertUser finds the user with the email of the given identity or creates one
// with the default buckets. The name and the avatar are refreshed either way.
// It reports whether the user was created.
func (a *App) UpsertUser(i identity.Identity) (database.User, bool, error) {
	if i.Email == "" {
		return database.User{}, false, ErrInvalidCredential
	}

	user, created, err := a.upsertUser(i)
	// a concurrent first sign-in created the user in the meantime
	if database.IsUniqueViolation(err) {
		return a.upsertUser(i)
	}

	return user, created, err
}

func (a *App) upsertUser(i identity.Identity) (database.User, bool, error) {
	var user database.User
	var created bool

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", i.Email).First(&user).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			user = database.User{
				Email:     i.Email,
				Name:      i.Name,
				AvatarURL: i.Picture,
			}
			if err := tx.Create(&user).Error; err != nil {
				return errors.Wrap(err, "creating user")
			}
			if _, err := SeedDefaultBuckets(tx, user.ID); err != nil {
				return errors.Wrap(err, "seeding default buckets")
			}

			created = true
		} else if err != nil {
			return errors.Wrap(err, "finding user")
		} else {
			if err := tx.Model(&user).Updates(map[string]interface{}{
				"name":       i.Name,
				"avatar_url": i.Picture,
			}).Error; err != nil {
				return errors.Wrap(err, "updating profile")
			}
		}

		return a.TouchLastLoginAt(user, tx)
	})
	if err != nil {
		return database.User{}, false, err
	}

	return user, created, nil
}

// SignIn verifies the credential, upserts the user it asserts and creates a
// session. It returns the user, the session and the session key.
func (a *App) SignIn(ctx context.Context, credential string) (database.User, database.Session, string, error) {
	i, err := a.Verifier.Verify(ctx, credential)
	if err != nil {
		log.WithFields(log.Fields{
			"reason": err.Error(),
		}).Info("Rejected sign-in.")

		return database.User{}, database.Session{}, "", ErrInvalidCredential
	}

	user, created, err := a.UpsertUser(i)
	if err != nil {
		return database.User{}, database.Session{}, "", errors.Wrap(err, "upserting user")
	}

	session, key, err := a.CreateSession(user.ID)
	if err != nil {
		return database.User{}, database.Session{}, "", errors.Wrap(err, "creating session")
	}

	if created {
		if err := a.SendWelcomeEmail(user); err != nil {
			log.WithFields(log.Fields{
				"user_id": user.ID,
			}).ErrorWrap(err, "sending welcome email")
		}
	}

	return user, session, key, nil
}

// SignOut deletes the session identified by the given key
func (a *App) SignOut(key string) error {
	if key == "" {
		return nil
	}

	return a.DeleteSession(key)
}

// ListUsers returns every user in the order they joined
func (a *App) ListUsers() ([]database.User, error) {
	var users []database.User
	if err := a.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "finding users")
	}

	return users, nil
}

// GetUserByEmail returns the user with the given email
func (a *App) GetUserByEmail(email string) (database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, ErrUserNotFound
	} else if err != nil {
		return user, errors.Wrap(err, "finding user")
	}

	return user, nil
}
