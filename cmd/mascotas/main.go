package main

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"gitlab.com/ranfdev/mascotas/internal/adapters"
	"gitlab.com/ranfdev/mascotas/internal/db"
	"gitlab.com/ranfdev/mascotas/internal/domain"
	"gitlab.com/ranfdev/mascotas/internal/models"
	"gitlab.com/ranfdev/mascotas/internal/render"
	"gitlab.com/ranfdev/mascotas/internal/routes"
	"gitlab.com/ranfdev/mascotas/internal/storage"
	"gitlab.com/ranfdev/mascotas/web"
)

const usage = `Usage:
	- start
	- migrate [up/down/drop]
`

func main() {
	if len(os.Args) == 1 {
		fmt.Println(usage)
		return
	}
	envConfig, err := models.ReadEnvConfig()
	if err != nil {
		fmt.Println("Error reading configuration:", err)
		os.Exit(1)
	}
	switch os.Args[1] {
	case "start":
		server := MascotasServer{EnvConfig: envConfig}
		server.Setup()
		server.Run()
	case "migrate":
		if len(os.Args) < 3 {
			fmt.Println(usage)
			return
		}
		switch os.Args[2] {
		case "up":
			err = db.MigrateUp(envConfig.DatabaseURL)
		case "down":
			err = db.MigrateDown(envConfig.DatabaseURL)
		case "drop":
			err = db.Drop(envConfig.DatabaseURL)
		default:
			fmt.Println(usage)
			return
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		fmt.Println("Done")
	default:
		fmt.Println(usage)
	}
}

type MascotasServer struct {
	models.EnvConfig
	addr       string
	logger     zerolog.Logger
	router     chi.Router
	httpServer *http.Server
	database   *db.SharedDB
	photos     domain.PhotoStore
	accounts   *domain.AccountService
	reports    *domain.ReportService
	templates  *render.Templates
}

func (server *MascotasServer) setupLogger() {
	var writer io.Writer
	if server.Debug {
		writer = zerolog.ConsoleWriter{Out: os.Stdout}
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		writer = os.Stdout
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	server.logger = zerolog.New(writer).With().Timestamp().Logger()
}
func (server *MascotasServer) setupSentry() {
	if server.SentryDSN == "" {
		return
	}
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              server.SentryDSN,
		TracesSampleRate: 0.2,
		Debug:            server.Debug,
	})
	if err != nil {
		server.logger.Error().Err(err).Msg("Sentry init failed")
	}
}
func (server *MascotasServer) setupDB() {
	err := db.MigrateUp(server.DatabaseURL)
	if err != nil {
		server.logger.Fatal().Err(err).Send()
	}
	database, err := db.Connect(context.Background(), server.DatabaseURL)
	if err != nil {
		server.logger.Fatal().AnErr("Connecting to db", err).Send()
	}
	server.database = database
}
func (server *MascotasServer) setupPhotoStore() {
	switch server.PhotoBackend {
	case "cloudinary":
		store, err := storage.NewCloudinaryStore(server.CloudinaryURL, server.CloudinaryFolder)
		if err != nil {
			server.logger.Fatal().Err(err).Send()
		}
		server.photos = store
	default:
		server.photos = storage.NewLocalStore(server.UploadDir, server.UploadURLPrefix)
	}
	server.logger.Info().Str("backend", server.PhotoBackend).Msg("Photo store ready")
}
func (server *MascotasServer) setupServices() {
	admin := domain.AdminCredential{
		Username: server.AdminUsername,
		Password: server.AdminPassword,
	}
	server.accounts = domain.NewAccountService(adapters.NewUserRepo(server.database), admin, server.BcryptCost())
	server.reports = domain.NewReportService(
		adapters.NewReportRepo(server.database),
		server.photos,
		server.logger.With().Str("service", "reports").Logger(),
	)
}
func (server *MascotasServer) setupTemplates() {
	funcs := template.FuncMap{"photoURL": server.reports.PhotoURL}
	tmpls, err := render.GetTemplates(&server.EnvConfig, web.FS, funcs, server.logger)
	if err != nil {
		server.logger.Fatal().AnErr("Parsing templates", err).Send()
	}
	server.templates = tmpls
}
func (server *MascotasServer) setupRouter() {
	server.router = routes.NewRouter(
		&server.EnvConfig,
		server.logger,
		server.templates,
		server.accounts,
		server.reports,
		server.database,
	)
}
func (server *MascotasServer) setupHttpServer() {
	server.addr = fmt.Sprintf(":%s", server.EnvConfig.Port)
	server.httpServer = &http.Server{
		Addr:         server.addr,
		Handler:      server.router,
		ReadTimeout:  1 * time.Minute,
		WriteTimeout: 1 * time.Minute,
	}
}
func (server *MascotasServer) Setup() {
	server.setupLogger()
	server.setupSentry()
	server.setupDB()
	server.setupPhotoStore()
	server.setupServices()
	server.setupTemplates()
	server.setupRouter()
	server.setupHttpServer()
}
func (server *MascotasServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.httpServer.Shutdown(ctx); err != nil {
		server.logger.Error().
			Err(err).
			Msg("Error shutting down")
	}
	if err := server.database.Close(); err != nil {
		server.logger.Error().Err(err).Msg("Error closing database")
	}
	sentry.Flush(2 * time.Second)
}
func (server *MascotasServer) Run() {
	server.logger.Info().Str("server_address", server.addr).Msg("Server is starting")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		err := server.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			server.logger.Fatal().Err(err).Msg("Server failed")
		}
	}()
	server.logger.Info().Msg("Ready")

	<-ctx.Done()
	stop() // Stop listening for signals
	server.logger.Info().Msg("Shutting down gracefully")
	server.Shutdown()
}
