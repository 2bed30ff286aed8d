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

// Package mailer renders and delivers the emails of the server
package mailer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/habitboard/habitboard/pkg/server/mailer/templates"
	"github.com/pkg/errors"
)

const (
	// EmailTypeWelcome is the email sent on the first sign-in
	EmailTypeWelcome = "welcome"
	// EmailTypeReminder is the email listing the habits left unchecked today
	EmailTypeReminder = "reminder"
)

// emailTypes are the email types with a template
var emailTypes = []string{EmailTypeWelcome, EmailTypeReminder}

// Email is a rendered email ready to be delivered
type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

var funcs = template.FuncMap{
	"join": strings.Join,
	"plural": func(n int, one, many string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s", one)
		}
		return fmt.Sprintf("%d %s", n, many)
	},
}

// Templates holds a parsed template per email type. Every template defines
// a "subject" and a "body".
type Templates map[string]*template.Template

// NewTemplates parses the embedded templates. It panics on a malformed
// template.
func NewTemplates() Templates {
	t := Templates{}

	for _, name := range emailTypes {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templates.Files, name+".txt")
		if err != nil {
			panic(errors.Wrapf(err, "parsing %s template", name))
		}

		for _, part := range []string{"subject", "body"} {
			if tmpl.Lookup(part) == nil {
				panic(errors.Errorf("template %s does not define %s", name, part))
			}
		}

		t[name] = tmpl
	}

	return t
}

func execute(tmpl *template.Template, part string, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, part, data); err != nil {
		return "", errors.Wrapf(err, "executing %s", part)
	}

	return buf.String(), nil
}

// Render renders the email of the given type
func (t Templates) Render(emailType, from string, to []string, data any) (Email, error) {
	tmpl, ok := t[emailType]
	if !ok {
		return Email{}, errors.Errorf("unsupported email type '%s'", emailType)
	}

	subject, err := execute(tmpl, "subject", data)
	if err != nil {
		return Email{}, err
	}
	body, err := execute(tmpl, "body", data)
	if err != nil {
		return Email{}, err
	}

	return Email{
		From:    from,
		To:      to,
		Subject: strings.TrimSpace(subject),
		Body:    body,
	}, nil
}
