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

// Package prompt provides interactive confirmations for destructive commands
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// FormatQuestion formats a yes/no question with the appropriate choice indicator
func FormatQuestion(question string, optimistic bool) string {
	choices := "(y/N)"
	if optimistic {
		choices = "(Y/n)"
	}
	return fmt.Sprintf("%s %s", question, choices)
}

func readLine(r io.Reader) (string, error) {
	reader := bufio.NewReader(r)
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}

	return strings.TrimSpace(input), nil
}

// ReadYesNo reads and parses a yes/no response from the given reader.
// In optimistic mode, empty input is treated as confirmation.
func ReadYesNo(r io.Reader, optimistic bool) (bool, error) {
	input, err := readLine(r)
	if err != nil {
		return false, err
	}

	input = strings.ToLower(input)
	confirmed := input == "y" || input == "yes"

	if optimistic {
		confirmed = confirmed || input == ""
	}

	return confirmed, nil
}

// Confirm writes the question to w and reads a yes/no answer from r
func Confirm(r io.Reader, w io.Writer, question string, optimistic bool) (bool, error) {
	if _, err := fmt.Fprint(w, FormatQuestion(question, optimistic)+" "); err != nil {
		return false, errors.Wrap(err, "writing question")
	}

	ok, err := ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading answer")
	}

	return ok, nil
}

// ConfirmPhrase asks the user to type the given phrase verbatim. It is used
// before irreversible operations where a single keystroke is too easy.
func ConfirmPhrase(r io.Reader, w io.Writer, question, phrase string) (bool, error) {
	if _, err := fmt.Fprintf(w, "%s Type '%s' to continue: ", question, phrase); err != nil {
		return false, errors.Wrap(err, "writing question")
	}

	input, err := readLine(r)
	if err != nil {
		return false, errors.Wrap(err, "reading answer")
	}

	return input == phrase, nil
}
