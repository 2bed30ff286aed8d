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

package views

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/habitboard/habitboard/pkg/server/buildinfo"
	"github.com/habitboard/habitboard/pkg/server/context"
	"github.com/habitboard/habitboard/pkg/server/log"
	"github.com/pkg/errors"
)

// View is a page rendered inside a layout
type View struct {
	// Template is never executed itself. Every render works on a clone.
	Template    *template.Template
	Layout      string
	AlertInBody bool
	App         *app.App
}

func (v *View) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v.Render(w, r, nil, http.StatusOK)
}

// pageData fills the data every layout expects
func (v *View) pageData(w http.ResponseWriter, r *http.Request, data *Data) Data {
	var vd Data
	if data != nil {
		vd = *data
	}
	if vd.Yield == nil {
		vd.Yield = map[string]interface{}{}
	}

	if alert := getAlert(r); alert != nil {
		vd.PutAlert(*alert, v.AlertInBody)
		clearAlert(w)
	}

	vd.User = context.User(r.Context())
	if vd.User != nil {
		vd.Yield["Email"] = vd.User.Email
		vd.Yield["IsAdmin"] = v.App.IsAdmin(*vd.User)
	}
	vd.Yield["CurrentPath"] = r.URL.Path
	vd.Yield["Version"] = buildinfo.Version
	vd.Yield["GoogleClientID"] = v.App.GoogleClientID

	return vd
}

func (v *View) execute(buf *bytes.Buffer, r *http.Request, vd Data) error {
	tpl, err := v.Template.Clone()
	if err != nil {
		return errors.Wrap(err, "cloning template")
	}

	field := csrf.TemplateField(r)
	tpl.Funcs(template.FuncMap{
		"csrfField": func() template.HTML { return field },
	})

	return tpl.ExecuteTemplate(buf, v.Layout, vd)
}

// Render renders the view with the given data and status code. The page is
// rendered fully before anything is written so that a failing template
// yields the error page.
func (v *View) Render(w http.ResponseWriter, r *http.Request, data *Data, statusCode int) {
	vd := v.pageData(w, r, data)

	var buf bytes.Buffer
	if err := v.execute(&buf, r, vd); err != nil {
		log.WithFields(log.Fields{
			"request_id": context.RequestID(r.Context()),
			"uri":        r.RequestURI,
			"layout":     v.Layout,
		}).ErrorWrap(err, "rendering view")

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write(v.App.HTTP500Page)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := buf.WriteTo(w); err != nil {
		log.ErrorWrap(err, "writing view")
	}
}
