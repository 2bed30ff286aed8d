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

package controllers

import (
	"net/http"

	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/context"
	mw "github.com/habitboard/habitboard/pkg/server/middleware"
	"github.com/habitboard/habitboard/pkg/server/presenters"
)

// NewBuckets creates a new Buckets controller
func NewBuckets(app *app.App) *Buckets {
	return &Buckets{
		app: app,
	}
}

// Buckets is a bucket controller
type Buckets struct {
	app *app.App
}

// V1Index lists the buckets of the authenticated user
func (b *Buckets) V1Index(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	buckets, err := b.app.ListBuckets(user.ID)
	if err != nil {
		handleJSONError(w, err, "listing buckets")
		return
	}

	mw.RespondJSON(w, http.StatusOK, presenters.PresentBuckets(buckets))
}

type createBucketPayload struct {
	Name string `schema:"name" json:"name" validate:"required,max=100"`
}

// CreateBucketResp is the response of creating a bucket
type CreateBucketResp struct {
	Bucket presenters.Bucket `json:"bucket"`
}

// V1Create creates a bucket for the authenticated user
func (b *Buckets) V1Create(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	var params createBucketPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}

	bucket, err := b.app.CreateBucket(*user, params.Name)
	if err != nil {
		handleJSONError(w, err, "creating bucket")
		return
	}

	mw.RespondJSON(w, http.StatusCreated, CreateBucketResp{
		Bucket: presenters.PresentBucket(bucket),
	})
}

type updateBucketPayload struct {
	Name      *string `schema:"name" json:"name" validate:"omitempty,max=100"`
	SortOrder *int    `schema:"sort_order" json:"sort_order" validate:"omitempty,gte=0"`
}

// UpdateBucketResp is the response of updating a bucket
type UpdateBucketResp struct {
	Bucket presenters.Bucket `json:"bucket"`
}

// V1Update renames or reorders a bucket of the authenticated user
func (b *Buckets) V1Update(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	bucketID, err := getBucketID(r)
	if err != nil {
		handleJSONError(w, err, "parsing bucket id")
		return
	}

	var params updateBucketPayload
	if err := parseRequestData(r, &params); err != nil {
		handleJSONError(w, err, "parsing request payload")
		return
	}

	bucket, err := b.app.UpdateBucket(*user, bucketID, app.UpdateBucketParams{
		Name:      params.Name,
		SortOrder: params.SortOrder,
	})
	if err != nil {
		handleJSONError(w, err, "updating bucket")
		return
	}

	mw.RespondJSON(w, http.StatusOK, UpdateBucketResp{
		Bucket: presenters.PresentBucket(bucket),
	})
}

// DeleteBucketResp is the response of deleting a bucket
type DeleteBucketResp struct {
	Bucket presenters.Bucket `json:"bucket"`
}

// V1Delete deletes a bucket of the authenticated user along with its entries
func (b *Buckets) V1Delete(w http.ResponseWriter, r *http.Request) {
	user := context.User(r.Context())
	if user == nil {
		handleJSONError(w, app.ErrUnauthenticated, "getting user")
		return
	}

	bucketID, err := getBucketID(r)
	if err != nil {
		handleJSONError(w, err, "parsing bucket id")
		return
	}

	bucket, err := b.app.DeleteBucket(*user, bucketID)
	if err != nil {
		handleJSONError(w, err, "deleting bucket")
		return
	}

	mw.RespondJSON(w, http.StatusOK, DeleteBucketResp{
		Bucket: presenters.PresentBucket(bucket),
	})
}
