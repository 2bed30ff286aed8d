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

// Package identity verifies sign-in assertions issued by an identity provider
package identity

import (
	"context"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrInvalidCredential is returned when an assertion cannot be verified
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrMissingEmail is returned when a verified assertion carries no email
	ErrMissingEmail = errors.New("credential has no email")
)

// Identity is a verified identity
type Identity struct {
	Email   string
	Name    string
	Picture string
}

// Verifier verifies an identity assertion
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}

// normalize trims the identity and rejects one without an email
func normalize(i Identity) (Identity, error) {
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	i.Name = strings.TrimSpace(i.Name)
	i.Picture = strings.TrimSpace(i.Picture)

	if i.Email == "" {
		return Identity{}, errors.Wrap(ErrInvalidCredential, ErrMissingEmail.Error())
	}

	return i, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	v, ok := claims[key].(string)
	if !ok {
		return ""
	}

	return v
}
