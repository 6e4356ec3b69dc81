// Package templates holds the server-rendered operator pages.
package templates

import (
	"embed"
	"html/template"
	"io"
	"log/slog"

	"github.com/myrjola/spbot/internal/errors"
)

//go:embed base.gohtml pages/*.gohtml
var files embed.FS

// Page renders one page inside the base layout.
type Page struct {
	name string
	tmpl *template.Template
}

// Parse loads the page pages/<name>.gohtml. The page must define a template named "page".
//
// Pages may call "nonce" to tag inline scripts and styles. It is bound per render by [Page.Render].
func Parse(name string) (*Page, error) {
	t, err := template.New(name).Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr { return "" },
	}).ParseFS(files, "base.gohtml", "pages/"+name+".gohtml")
	if err != nil {
		return nil, errors.Wrap(err, "parse page template", slog.String("page", name))
	}
	return &Page{name: name, tmpl: t}, nil
}

// Render executes the page with data. nonce is the CSP nonce of the response.
func (p *Page) Render(w io.Writer, nonce string, data any) error {
	t, err := p.tmpl.Clone()
	if err != nil {
		return errors.Wrap(err, "clone page template", slog.String("page", p.name))
	}
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(`nonce="` + nonce + `"`) //nolint:gosec // server generated
		},
	})
	if err = t.ExecuteTemplate(w, "base", data); err != nil {
		return errors.Wrap(err, "execute page template", slog.String("page", p.name))
	}
	return nil
}
