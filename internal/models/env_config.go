package models

import (
	"errors"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

type EnvConfig struct {
	Debug            bool   `yaml:"debug" env:"MASCOTAS_DEBUG" env-default:"false"`
	Port             string `yaml:"port" env:"MASCOTAS_PORT" env-default:"5000"`
	DatabaseURL      string `yaml:"database_url" env:"MASCOTAS_DATABASE_URL" env-default:"sqlite3://mascotas.db"`
	SessionKey       string `yaml:"session_key" env:"MASCOTAS_SESSION_KEY"`
	CookieSecure     bool   `yaml:"cookie_secure" env:"MASCOTAS_COOKIE_SECURE" env-default:"false"`
	AdminUsername    string `yaml:"admin_username" env:"MASCOTAS_ADMIN_USERNAME" env-default:"admin"`
	AdminPassword    string `yaml:"admin_password" env:"MASCOTAS_ADMIN_PASSWORD"`
	PhotoBackend     string `yaml:"photo_backend" env:"MASCOTAS_PHOTO_BACKEND" env-default:"local"`
	UploadDir        string `yaml:"upload_dir" env:"MASCOTAS_UPLOAD_DIR" env-default:"uploads"`
	UploadURLPrefix  string `yaml:"upload_url_prefix" env:"MASCOTAS_UPLOAD_URL_PREFIX" env-default:"/uploads/"`
	CloudinaryURL    string `yaml:"cloudinary_url" env:"MASCOTAS_CLOUDINARY_URL"`
	CloudinaryFolder string `yaml:"cloudinary_folder" env:"MASCOTAS_CLOUDINARY_FOLDER" env-default:"mascotas"`
	MaxUploadMB      int64  `yaml:"max_upload_mb" env:"MASCOTAS_MAX_UPLOAD_MB" env-default:"8"`
	SentryDSN        string `yaml:"sentry_dsn" env:"MASCOTAS_SENTRY_DSN"`
}

const (
	debugSessionKey    = "mascotas-debug-session-key"
	debugAdminPassword = "1234"
)

var (
	ErrMissingSessionKey    = errors.New("MASCOTAS_SESSION_KEY is required")
	ErrMissingAdminPassword = errors.New("MASCOTAS_ADMIN_PASSWORD is required")
	ErrBadPhotoBackend      = errors.New("MASCOTAS_PHOTO_BACKEND must be local or cloudinary")
	ErrMissingCloudinaryURL = errors.New("MASCOTAS_CLOUDINARY_URL is required by the cloudinary backend")
)

// ReadEnvConfig loads a .env file if there's one, then the yaml file
// pointed by MASCOTAS_CONFIG if set, then the environment.
func ReadEnvConfig() (EnvConfig, error) {
	_ = godotenv.Load()

	var cfg EnvConfig
	var err error
	if path := os.Getenv("MASCOTAS_CONFIG"); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return cfg, err
	}
	cfg.applyDebugDefaults()
	return cfg, cfg.Validate()
}

func (cfg *EnvConfig) applyDebugDefaults() {
	if !cfg.Debug {
		return
	}
	if cfg.SessionKey == "" {
		cfg.SessionKey = debugSessionKey
	}
	if cfg.AdminPassword == "" {
		cfg.AdminPassword = debugAdminPassword
	}
}

func (cfg *EnvConfig) Validate() error {
	if cfg.SessionKey == "" {
		return ErrMissingSessionKey
	}
	if cfg.AdminPassword == "" {
		return ErrMissingAdminPassword
	}
	switch cfg.PhotoBackend {
	case "local":
	case "cloudinary":
		if cfg.CloudinaryURL == "" {
			return ErrMissingCloudinaryURL
		}
	default:
		return ErrBadPhotoBackend
	}
	return nil
}

func (cfg *EnvConfig) BcryptCost() int {
	if cfg.Debug {
		return bcrypt.MinCost
	}
	return bcrypt.DefaultCost + 2
}

func (cfg *EnvConfig) MaxUploadBytes() int64 {
	return cfg.MaxUploadMB << 20
}
