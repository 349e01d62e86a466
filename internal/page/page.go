package page

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/SergeyParamoshkin/gaefun/internal/logging"
)

// Page templates.
const (
	Main     = "main.html"
	Blog     = "blog.html"
	LonePost = "lonepost.html"
	NewPost  = "newpost.html"
	Signup   = "signup.html"
	Welcome  = "welcome.html"
	Error    = "error.html"
)

const layout = "base.html"

//go:embed templates
var templateFiles embed.FS

// Data populates a template.
type Data map[string]interface{}

var funcs = template.FuncMap{
	"markdown": Markdown,
	"datetime": FormatDateTime,
}

// FormatDateTime formats t for display; the zero time renders as "N/A".
func FormatDateTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	return t.Format("January 2, 2006 at 3:04 PM")
}

// Renderer executes the embedded page templates. Every page is parsed
// together with the shared layout.
type Renderer struct {
	pages       map[string]*template.Template
	cacheMaxAge int
}

// New parses every page. cacheMaxAge is sent as Cache-Control max-age
// on rendered pages; zero or less omits the header.
func New(cacheMaxAge int) (*Renderer, error) {
	p := &Renderer{
		pages:       map[string]*template.Template{},
		cacheMaxAge: cacheMaxAge,
	}

	for _, name := range []string{Main, Blog, LonePost, NewPost, Signup, Welcome, Error} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFiles,
			"templates/"+layout,
			"templates/"+name,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		p.pages[name] = t
	}

	return p, nil
}

// Render writes the named page populated with data.
func (p *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name string, data Data) {
	t, ok := p.pages[name]
	if !ok {
		logging.FromContext(r.Context()).Errorw("unknown template", "template", name)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, layout, data); err != nil {
		logging.FromContext(r.Context()).Errorw("render template", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if p.cacheMaxAge > 0 {
		w.Header().Add("Cache-Control", "max-age="+strconv.Itoa(p.cacheMaxAge))
	}
	w.WriteHeader(status)

	if _, err := buf.WriteTo(w); err != nil {
		logging.FromContext(r.Context()).Errorw("write response", "error", err)
	}
}

// Error renders the error page.
func (p *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	p.Render(w, r, status, Error, Data{
		"status":  status,
		"title":   http.StatusText(status),
		"message": message,
	})
}

// Grab collects the named request parameters; missing ones are "".
func Grab(r *http.Request, names ...string) Data {
	data := make(Data, len(names))
	for _, name := range names {
		data[name] = r.FormValue(name)
	}

	return data
}
