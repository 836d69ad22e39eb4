package template

import (
	"embed"
	"io"
	"net/http"
	"strconv"
	"time"

	stdtemplate "html/template"

	humanize "github.com/dustin/go-humanize"
)

//go:embed views/*.html
var views embed.FS

const dateLayout = "Jan 2, 03:04 PM"

type Template struct {
	templates *stdtemplate.Template
}

func NewTemplate() *Template {
	funcMap := stdtemplate.FuncMap{
		"humantime": humanize.Time,
		"humannumber": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"formatdate": func(t time.Time) string {
			if t.IsZero() {
				return "N/A"
			}
			return t.Format(dateLayout)
		},
		"isodate": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
		"duration": func(d time.Duration) string {
			if d < time.Second {
				return d.Round(time.Millisecond).String()
			}
			return d.Round(100 * time.Millisecond).String()
		},
		"decimal": func(f float64) string {
			return strconv.FormatFloat(f, 'f', -1, 64)
		},
	}
	return &Template{
		templates: stdtemplate.Must(stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(views, "views/*.html")),
	}
}

func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return t.templates.ExecuteTemplate(w, name, data)
}

func (t *Template) Execute(w io.Writer, name string, data interface{}) error {
	return t.templates.ExecuteTemplate(w, name, data)
}
