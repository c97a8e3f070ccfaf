package render

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"gitlab.com/ranfdev/mascotas/internal/domain"
	"gitlab.com/ranfdev/mascotas/internal/models"
)

type Templates struct {
	templates *template.Template
	envConfig *models.EnvConfig
	fs        fs.FS
	funcs     template.FuncMap
	log       zerolog.Logger
}

func (tmpls *Templates) RenderHTML(w http.ResponseWriter, tmplName string, data interface{}) {
	tmpls.Render(w, http.StatusOK, tmplName, data)
}

func (tmpls *Templates) Render(w http.ResponseWriter, status int, tmplName string, data interface{}) {
	// Reload templates every time when developing locally.
	if tmpls.envConfig.Debug {
		if err := tmpls.load(); err != nil {
			tmpls.log.Error().Err(err).Msg("Error reloading templates")
		}
	}
	buff := bytes.NewBuffer([]byte{})
	err := tmpls.templates.ExecuteTemplate(buff, tmplName, data)
	if err != nil {
		tmpls.log.Error().Err(err).Str("template", tmplName).Msg("Error rendering template")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buff.Bytes())
}

func markdown(s string) template.HTML {
	var b bytes.Buffer
	if err := goldmark.Convert([]byte(s), &b); err != nil {
		return template.HTML(template.HTMLEscapeString(s))
	}
	return template.HTML(b.String())
}

func markdownPreview(s string) template.HTML {
	i := strings.Index(s, "\n\n")
	maxLen := len(s)
	if 300 < maxLen {
		maxLen = 300
	}
	if i < 0 || i > maxLen {
		i = maxLen
		// Don't cut a multi-byte character in half
		for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
			i--
		}
	}
	return markdown(s[0:i])
}

var stateLabels = map[domain.ReportState]string{
	domain.StatePending:  "Pendiente",
	domain.StateApproved: "Aprobado",
	domain.StateRejected: "Rechazado",
	domain.StateFound:    "Encontrado",
}

func stateLabel(s domain.ReportState) string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return string(s)
}

func (tmpls *Templates) load() error {
	funcs := template.FuncMap{
		"markdown":        markdown,
		"markdownPreview": markdownPreview,
		"stateLabel":      stateLabel,
	}
	for k, v := range tmpls.funcs {
		funcs[k] = v
	}
	t, err := template.New("").Funcs(funcs).ParseFS(tmpls.fs, "templates/*.html")
	if err != nil {
		return err
	}
	tmpls.templates = t
	return nil
}

// GetTemplates parses the templates found in fsys. In debug mode they are
// read from the web directory on disk instead, and reloaded on every render.
func GetTemplates(envConfig *models.EnvConfig, fsys fs.FS, funcs template.FuncMap, log zerolog.Logger) (*Templates, error) {
	if envConfig.Debug {
		if _, err := os.Stat("web/templates"); err == nil {
			fsys = os.DirFS("web")
		}
	}
	tmpls := &Templates{
		envConfig: envConfig,
		fs:        fsys,
		funcs:     funcs,
		log:       log,
	}
	if err := tmpls.load(); err != nil {
		return nil, err
	}
	return tmpls, nil
}
