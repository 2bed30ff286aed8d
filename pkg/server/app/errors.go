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
	"fmt"

	"github.com/habitboard/habitboard/pkg/server/database"
	"github.com/pkg/errors"
)

// Kind classifies an application error
type Kind string

const (
	// KindUnauthenticated is an error for a request without a valid session
	KindUnauthenticated Kind = "unauthenticated"
	// KindForbidden is an error for a request lacking a privilege
	KindForbidden Kind = "forbidden"
	// KindNotFound is an error for a resource absent or outside the caller's ownership
	KindNotFound Kind = "not_found"
	// KindValidation is an error for a malformed or disallowed input
	KindValidation Kind = "validation"
	// KindConflict is an error for a uniqueness conflict
	KindConflict Kind = "conflict"
	// KindDataIntegrity is an error for stored data that breaks an invariant
	KindDataIntegrity Kind = "data_integrity_violation"
	// KindRateLimited is an error for a client sending too many requests
	KindRateLimited Kind = "rate_limited"
	// KindInternal is the kind of every error that is not an Error
	KindInternal Kind = "internal"
)

// Error is an error with a kind and a message that is safe to show to users
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	// ErrUnauthenticated is an error for a missing, unknown or expired session
	ErrUnauthenticated = newError(KindUnauthenticated, "authentication required")
	// ErrInvalidCredential is an error for a sign-in assertion that could not be verified
	ErrInvalidCredential = newError(KindUnauthenticated, "invalid credential")
	// ErrForbidden is an error for a caller lacking the required privilege
	ErrForbidden = newError(KindForbidden, "forbidden")

	// ErrUserNotFound is an error for an unknown user
	ErrUserNotFound = newError(KindNotFound, "user not found")
	// ErrBucketNotFound is an error for a bucket that does not exist or belongs to someone else
	ErrBucketNotFound = newError(KindNotFound, "bucket not found")
	// ErrBucketNotOwned is an error for an entry referencing a bucket the user does not own
	ErrBucketNotOwned = newError(KindNotFound, "bucket not found")

	// ErrBucketNameRequired is an error for an empty bucket name
	ErrBucketNameRequired = newError(KindValidation, "bucket name is required")
	// ErrBucketLimitExceeded is an error for creating a bucket beyond the limit
	ErrBucketLimitExceeded = newError(KindValidation, fmt.Sprintf("a user can have at most %d buckets", database.MaxBucketsPerUser))
	// ErrInvalidDate is an error for a malformed date
	ErrInvalidDate = newError(KindValidation, "invalid date: expected YYYY-MM-DD")
	// ErrInvalidMonth is an error for a malformed month key
	ErrInvalidMonth = newError(KindValidation, "invalid month: expected YYYY-MM")
	// ErrDateOutOfRange is an error for editing an entry outside the editable window
	ErrDateOutOfRange = newError(KindValidation, "only today and the two previous days can be edited")
	// ErrInvalidSortOrder is an error for a negative sort order
	ErrInvalidSortOrder = newError(KindValidation, "sort order must not be negative")

	// ErrDuplicateBucketName is an error for a bucket name already used by the user
	ErrDuplicateBucketName = newError(KindConflict, "a bucket with that name already exists")

	// ErrRateLimited is an error for a client over its request rate
	ErrRateLimited = newError(KindRateLimited, "too many requests")

	// ErrDataIntegrity is an error for stored data that would be lost or orphaned
	ErrDataIntegrity = newError(KindDataIntegrity, "data integrity violation")
	// ErrLegacyLayout is an error for a store whose buckets are not owned per user
	ErrLegacyLayout = newError(KindDataIntegrity, "buckets are not owned per user yet; run the migrate command")
)

// KindOf returns the kind of the given error, or KindInternal when it is
// not an application error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

// Message returns the user facing message of the given error
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return "internal server error"
}
