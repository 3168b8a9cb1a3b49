package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"weather-dashboard/models"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var funcs = template.FuncMap{
	"num":         formatNumber,
	"temp":        formatOptional,
	"weatherPath": models.WeatherPath,
	"partialPath": partialPath,
}

// renderer holds one template set per page plus the fragment set
type renderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func newRenderer() (*renderer, error) {
	r := &renderer{pages: make(map[string]*template.Template)}

	for _, page := range []string{"index", "forecast"} {
		tmpl, err := template.New(page).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	partials, err := template.New("partials").Funcs(funcs).ParseFS(templateFS, "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parse partials: %w", err)
	}
	r.partials = partials

	return r, nil
}

func (r *renderer) page(w http.ResponseWriter, name string, data interface{}) {
	tmpl, ok := r.pages[name]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	execute(w, tmpl, "layout", data)
}

func (r *renderer) partial(w http.ResponseWriter, name string, data interface{}) {
	execute(w, r.partials, name, data)
}

// execute renders into a buffer first so a template error never leaves a half-written page
func execute(w http.ResponseWriter, tmpl *template.Template, name string, data interface{}) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering %s: %v", name, err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func staticFiles() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

// formatNumber prints the shortest decimal form, e.g. -3.4 or 12
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatOptional prints nothing for a value the upstream did not report
func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return formatNumber(*v)
}

func partialPath(kind, city string) string {
	return "/partials/" + kind + "/" + url.PathEscape(city)
}
