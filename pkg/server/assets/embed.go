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

// Package assets embeds the static files of the web interface
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"io/fs"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

//go:embed static
var staticFiles embed.FS

// GetStaticFS returns the static files with the static directory as root
func GetStaticFS() (fs.FS, error) {
	subFs, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, errors.Wrap(err, "getting sub filesystem")
	}

	return subFs, nil
}

// etags hashes the content of every file. Embedded files carry no
// modification time to revalidate with.
func etags(fsys fs.FS) (map[string]string, error) {
	ret := map[string]string{}

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		b, err := fs.ReadFile(fsys, path)
		if err != nil {
			return errors.Wrapf(err, "reading %s", path)
		}
		sum := sha256.Sum256(b)
		ret[path] = `"` + hex.EncodeToString(sum[:8]) + `"`

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "hashing static files")
	}

	return ret, nil
}

// NewStaticHandler returns a handler serving the static files under the
// given prefix. Responses may be cached for an hour and revalidated with
// their ETag.
func NewStaticHandler(prefix string) (http.Handler, error) {
	staticFs, err := GetStaticFS()
	if err != nil {
		return nil, err
	}
	tags, err := etags(staticFs)
	if err != nil {
		return nil, err
	}

	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(staticFs)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tag, ok := tags[strings.TrimPrefix(r.URL.Path, prefix)]; ok {
			w.Header().Set("ETag", tag)
		}
		w.Header().Set("Cache-Control", "public, max-age=3600")

		fileServer.ServeHTTP(w, r)
	}), nil
}

// MustGetHTTP500ErrorPage returns the page served when rendering fails
func MustGetHTTP500ErrorPage() []byte {
	ret, err := staticFiles.ReadFile("static/500.html")
	if err != nil {
		panic(errors.Wrap(err, "reading HTML file for 500 HTTP error"))
	}

	return ret
}
