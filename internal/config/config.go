package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port     string
	GinMode  string
	AppEnv   string
	LogLevel string

	StoreDriver string
	MongoURI    string
	DBName      string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	UploadDir         string
	PublicMediaPath   string
	MaxUploadBytes    int64
	AccessKeyAttempts int

	CORSOrigins []string

	SMTP SMTPConfig
}

// SMTPConfig is considered disabled when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg(".env not loaded")
	}

	return Config{
		Port:     getEnvOrDefault("PORT", "8080"),
		GinMode:  getEnvOrDefault("GIN_MODE", ""),
		AppEnv:   getEnvOrDefault("APP_ENV", "development"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),

		StoreDriver: strings.ToLower(getEnvOrDefault("STORE_DRIVER", StoreMongo)),
		MongoURI:    getEnvOrDefault("MONGO_URI", ""),
		DBName:      getEnvOrDefault("DB_NAME", "foodapp"),

		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RefreshTokenTTL: getDurationEnv("REFRESH_TOKEN_TTL", 7, 24*time.Hour),

		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		PublicMediaPath:   normalizePublicPath(getEnvOrDefault("PUBLIC_MEDIA_PATH", "/uploads")),
		MaxUploadBytes:    int64(getIntEnv("MAX_UPLOAD_MB", 5)) << 20,
		AccessKeyAttempts: getIntEnv("ACCESS_KEY_ATTEMPTS", 10),

		CORSOrigins: getListEnv("CORS_ORIGINS", []string{"*"}),

		SMTP: SMTPConfig{
			Host:     getEnvOrDefault("SMTP_HOST", ""),
			Port:     getIntEnv("SMTP_PORT", 587),
			User:     getEnvOrDefault("SMTP_USER", ""),
			Password: getEnvOrDefault("SMTP_PASSWORD", ""),
			From:     getEnvOrDefault("MAIL_FROM", ""),
		},
	}
}

func normalizePublicPath(p string) string {
	p = "/" + strings.Trim(p, "/")
	if p == "/" {
		return "/uploads"
	}
	return p
}
