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

package identity

import (
	"context"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// ErrEmptyClientID is returned when no OAuth client ID is configured
var ErrEmptyClientID = errors.New("no Google client ID was provided")

type validateFunc func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

// GoogleVerifier verifies Google ID tokens issued to the configured client
type GoogleVerifier struct {
	clientID string
	validate validateFunc
}

// NewGoogleVerifier returns a verifier for ID tokens issued to the given client ID
func NewGoogleVerifier(clientID string) (*GoogleVerifier, error) {
	if clientID == "" {
		return nil, ErrEmptyClientID
	}

	return &GoogleVerifier{
		clientID: clientID,
		validate: idtoken.Validate,
	}, nil
}

// Verify validates the signature, audience and expiry of the ID token
// and returns the identity it asserts
func (v *GoogleVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	if credential == "" {
		return Identity{}, ErrInvalidCredential
	}

	payload, err := v.validate(ctx, credential, v.clientID)
	if err != nil {
		return Identity{}, errors.Wrap(ErrInvalidCredential, err.Error())
	}

	if verified, ok := payload.Claims["email_verified"].(bool); ok && !verified {
		return Identity{}, errors.Wrap(ErrInvalidCredential, "email is not verified")
	}

	return normalize(Identity{
		Email:   stringClaim(payload.Claims, "email"),
		Name:    stringClaim(payload.Claims, "name"),
		Picture: stringClaim(payload.Claims, "picture"),
	})
}
