package routes

import (
	"context"
	"io/fs"
	"net/http"
	"strings"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/ranfdev/mascotas/internal/domain"
	"gitlab.com/ranfdev/mascotas/internal/models"
	"gitlab.com/ranfdev/mascotas/internal/render"
	"gitlab.com/ranfdev/mascotas/web"
)

type ContextKey int

const (
	SessionCtxKey ContextKey = iota
)

// Pinger reports whether the database is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Routes struct {
	envConfig *models.EnvConfig
	log       zerolog.Logger
	tmpls     *render.Templates
	sessions  *SessionManager
	accounts  *domain.AccountService
	reports   *domain.ReportService
	db        Pinger
	decoder   *schema.Decoder
}

// page is the data shared by every template
type page struct {
	Session  *domain.Session
	Message  string
	Error    string
	Username string
	Form     domain.ReportFields
	Report   *domain.Report
	Reports  []domain.Report
	Views    []domain.ReportView
}

func NewRouter(
	envConfig *models.EnvConfig,
	log zerolog.Logger,
	tmpls *render.Templates,
	accounts *domain.AccountService,
	reports *domain.ReportService,
	db Pinger,
) chi.Router {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	routes := &Routes{
		envConfig: envConfig,
		log:       log,
		tmpls:     tmpls,
		sessions:  NewSessionManager([]byte(envConfig.SessionKey), envConfig.CookieSecure),
		accounts:  accounts,
		reports:   reports,
		db:        db,
		decoder:   decoder,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Send()
	}))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(middleware.Recoverer)
	if envConfig.SentryDSN != "" {
		r.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	r.Use(routes.SessionCtx)

	// Serve static files
	staticFS, err := fs.Sub(web.FS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	if envConfig.PhotoBackend == "local" {
		prefix := "/" + strings.Trim(envConfig.UploadURLPrefix, "/") + "/"
		uploads := filesOnly{http.Dir(envConfig.UploadDir)}
		r.Handle(prefix+"*", http.StripPrefix(prefix, http.FileServer(uploads)))
	}
	r.Get("/healthz", routes.AppHandler(routes.GetHealth))

	r.Get("/", routes.AppHandler(routes.GetIndex))
	routes.AccountRouter(r)
	routes.ReportsRouter(r)
	routes.PagesRouter(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "No encontrado", http.StatusNotFound)
	})
	return r
}

// filesOnly hides directories, so uploaded photos can't be listed.
type filesOnly struct {
	fs http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, err
	}
	if info.IsDir() {
		file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

func (routes *Routes) newPage(r *http.Request) page {
	return page{Session: GetSession(r)}
}

func (routes *Routes) GetHealth(w http.ResponseWriter, r *http.Request) error {
	if err := routes.db.PingContext(r.Context()); err != nil {
		return &ErrInternal{Message: "Database unreachable", Cause: err}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
	return nil
}
