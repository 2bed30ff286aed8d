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

// Package token generates session keys and derives the hashes stored in place of them
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// KeyBytes is the number of random bytes in a session key
const KeyBytes = 32

// generateRandom generates random bytes of given length
func generateRandom(n int) (string, error) {
	b := make([]byte, n)

	if _, err := rand.Read(b); err != nil {
		return "", errors.Wrap(err, "reading random bytes")
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Generate returns a new session key. The key is handed to the client
// once and is never persisted.
func Generate() (string, error) {
	key, err := generateRandom(KeyBytes)
	if err != nil {
		return "", errors.Wrap(err, "generating session key")
	}

	return key, nil
}

// Hash returns the hex encoded BLAKE2b-256 digest of the given key
func Hash(key string) string {
	sum := blake2b.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}
