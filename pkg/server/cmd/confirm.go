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
	"fmt"
	"io"

	"github.com/habitboard/habitboard/pkg/prompt"
	"github.com/pkg/errors"
)

// confirmReset asks the user to type the reset phrase
func confirmReset(r io.Reader, w io.Writer) (bool, error) {
	question := colorRed.Sprint("This deletes every bucket and check-in of every user and cannot be undone.")

	ok, err := prompt.ConfirmPhrase(r, w, question, resetPhrase)
	if err != nil {
		return false, errors.Wrap(err, "getting confirmation")
	}
	fmt.Fprintln(w)

	return ok, nil
}
