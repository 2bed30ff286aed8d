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
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const devIssuer = "habitboard-dev"

// ErrEmptySecret is returned when no signing secret is configured
var ErrEmptySecret = errors.New("no development auth secret was provided")

type devClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// DevVerifier verifies HS256 assertions signed with a shared secret.
// It stands in for Google sign-in on local setups and in tests.
type DevVerifier struct {
	secret []byte
}

// NewDevVerifier returns a verifier for assertions signed with the given secret
func NewDevVerifier(secret string) (*DevVerifier, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &DevVerifier{secret: []byte(secret)}, nil
}

// Verify validates the assertion and returns the identity it carries
func (v *DevVerifier) Verify(ctx context.Context, credential string) (Identity, error) {
	var claims devClaims

	_, err := jwt.ParseWithClaims(credential, &claims, func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(devIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Identity{}, errors.Wrap(ErrInvalidCredential, err.Error())
	}

	return normalize(Identity{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	})
}

// Sign issues an assertion for the given identity that expires at the given time
func (v *DevVerifier) Sign(i Identity, expiresAt time.Time) (string, error) {
	claims := devClaims{
		Email:   i.Email,
		Name:    i.Name,
		Picture: i.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    devIssuer,
			Subject:   i.Email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing assertion")
	}

	return signed, nil
}
