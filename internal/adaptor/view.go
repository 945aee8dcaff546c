package adaptor

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"catalog-console/internal/dto/response"
	"catalog-console/pkg/utils"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// consolePages render inside the sidebar layout; the auth page stands alone.
var consolePages = []string{"dashboard", "genres", "watch_age", "upload"}

type View struct {
	pages map[string]*template.Template
	log   *zap.Logger
}

func NewView(log *zap.Logger) (*View, error) {
	funcs := template.FuncMap{
		"active": func(current, path string) bool { return current == path },
	}

	pages := make(map[string]*template.Template, len(consolePages)+1)
	for _, name := range consolePages {
		tpl, err := template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = tpl
	}

	auth, err := template.New("auth.html").Funcs(funcs).ParseFS(templateFS, "templates/auth.html")
	if err != nil {
		return nil, fmt.Errorf("parse auth template: %w", err)
	}
	pages["auth"] = auth

	return &View{pages: pages, log: log.With(zap.String("component", "view"))}, nil
}

// Render executes the named page into a buffer first so a template error
// never leaves a half-written response.
func (v *View) Render(w http.ResponseWriter, r *http.Request, status int, name string, page response.Page) {
	tpl, ok := v.pages[name]
	if !ok {
		v.log.Error("Unknown template", zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if page.Path == "" {
		page.Path = r.URL.Path
	}
	if page.Email == "" {
		page.Email = utils.GetEmailFromContext(r.Context())
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		v.log.Error("Failed to render template", zap.Error(err), zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
