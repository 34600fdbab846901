// Package web holds the embedded HTML templates and static assets, and
// renders pages for the browser-facing handlers.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
)

//go:embed templates static
var assets embed.FS

// Page is the envelope every template receives.
type Page struct {
	Title    string
	Heading  string
	Username string // logged-in account name, empty for anonymous visitors
	Data     any
}

var pages = map[string]*template.Template{}

func init() {
	names := []string{"index", "manual", "gallery_list", "gallery", "user", "error"}
	for _, name := range names {
		pages[name] = template.Must(template.ParseFS(assets,
			"templates/base.html",
			"templates/"+name+".html",
		))
	}
}

// Render writes the named page. Unknown names are a programming error and
// fail loudly.
func Render(w io.Writer, name string, p Page) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("web: unknown template %q", name)
	}
	return t.ExecuteTemplate(w, "base", p)
}

// StaticHandler serves the embedded /static assets.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// Favicon returns the embedded favicon bytes.
func Favicon() []byte {
	data, err := assets.ReadFile("static/favicon.png")
	if err != nil {
		panic(err)
	}
	return data
}
