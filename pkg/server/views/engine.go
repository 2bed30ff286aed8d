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
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"time"

	"github.com/habitboard/habitboard/pkg/clock"
	"github.com/habitboard/habitboard/pkg/server/app"
	"github.com/pkg/errors"
)

const (
	// TemplateExt is the extension of the template files
	TemplateExt = ".gohtml"

	siteTitle     = "Habitboard"
	defaultLayout = "base"
)

//go:embed templates
var templateFiles embed.FS

// Config configures a view
type Config struct {
	Title string
	// Layout is the template wrapping the page. It defaults to base.
	Layout string
	// HeaderTemplate is rendered by the layout above the page when set
	HeaderTemplate string
	HelperFuncs    map[string]interface{}
	// AlertInBody puts the alert in the page instead of the layout
	AlertInBody bool
	// Clock drives the relative times. It defaults to the real clock.
	Clock clock.Clock
}

// Engine parses templates into views
type Engine struct {
	files fs.FS
}

// NewEngine returns an engine reading the templates from the given filesystem
func NewEngine(files fs.FS) *Engine {
	return &Engine{files: files}
}

// NewDefaultEngine returns an engine reading the embedded templates
func NewDefaultEngine() *Engine {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(errors.Wrap(err, "getting the template filesystem"))
	}

	return NewEngine(sub)
}

func (e *Engine) baseFuncs(c Config) template.FuncMap {
	clk := c.Clock
	if clk == nil {
		clk = clock.New()
	}

	ret := template.FuncMap{
		// replaced with the request's field at render time
		"csrfField": func() template.HTML {
			return ""
		},
		"title": func() string {
			if c.Title == "" {
				return siteTitle
			}

			return fmt.Sprintf("%s | %s", c.Title, siteTitle)
		},
		"lastSeen": func(t *time.Time) string {
			return lastSeen(clk.Now(), t)
		},
		"percent": func(f float64) int {
			return int(f*100 + 0.5)
		},
		"headerTemplate": func() string {
			return c.HeaderTemplate
		},
	}

	for k, v := range c.HelperFuncs {
		ret[k] = v
	}

	return ret
}

// NewView returns a view that renders the page with the given name inside
// the layout of the config. It panics if the templates cannot be parsed.
func (e *Engine) NewView(a *app.App, c Config, name string) *View {
	patterns := []string{
		"layouts/*" + TemplateExt,
		"partials/*" + TemplateExt,
		name + TemplateExt,
	}

	t, err := template.New("").Funcs(e.baseFuncs(c)).ParseFS(e.files, patterns...)
	if err != nil {
		panic(errors.Wrapf(err, "parsing templates for %s", name))
	}

	layout := c.Layout
	if layout == "" {
		layout = defaultLayout
	}

	return &View{
		Template:    t,
		Layout:      layout,
		AlertInBody: c.AlertInBody,
		App:         a,
	}
}
