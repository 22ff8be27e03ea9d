package render

import (
	"embed"
	"html/template"
	"io"

	ginrender "github.com/gin-gonic/gin/render"

	"eczane_backend/internal/pharmacy/form"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/app.js
var appJS []byte

const indexTemplate = "index"

// PageData is everything the index page shows.
type PageData struct {
	Form    form.View
	Status  string
	Seq     uint64
	Loading bool
	Error   string
	Results *ResultsView
	Sources []SourceLink
	Located bool
	Notice  string
}

// Idle reports whether the page should show the getting-started hint.
func (d PageData) Idle() bool {
	return d.Results == nil && !d.Loading && d.Error == ""
}

// Pages holds the parsed page templates.
type Pages struct {
	tmpl *template.Template
}

// NewPages parses the embedded templates.
func NewPages() (*Pages, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, err
	}
	return &Pages{tmpl: tmpl}, nil
}

// Index writes the search page.
func (p *Pages) Index(w io.Writer, data PageData) error {
	return p.tmpl.ExecuteTemplate(w, indexTemplate, data)
}

// IndexRender adapts Index to gin's Context.Render.
func (p *Pages) IndexRender(data PageData) ginrender.Render {
	return ginrender.HTML{Template: p.tmpl, Name: indexTemplate, Data: data}
}

// AppJS is the browser script served at /static/app.js.
func AppJS() []byte {
	return appJS
}
