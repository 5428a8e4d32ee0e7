package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	envProduction  = "production"
	envDevelopment = "development"
)

// DevJWTSecret signs sessions when JWT_SECRET is unset in development.
const DevJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env            string
	ServerPort     string
	DBDriver       string
	DBDSN          string
	ResetDB        bool
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	JWTSecret      string
	AdminName      string
	AdminPassword  string
	AdminStudentID string
	ExportTimezone string
	WebDir         string
	LogLevel       string
	LogFormat      string
	SwaggerHost    string
}

// IsProduction reports whether cookies must be marked Secure.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, envProduction)
}

// IsDevelopment reports whether insecure local defaults are allowed.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, envDevelopment)
}

// Load builds Config from the environment (and an optional .env file) with sensible defaults.
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Env:            v.GetString("APP_ENV"),
		ServerPort:     v.GetString("SERVER_PORT"),
		DBDriver:       strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:          v.GetString("DB_DSN"),
		ResetDB:        v.GetBool("RESET_DB"),
		RedisAddr:      v.GetString("REDIS_ADDR"),
		RedisDB:        v.GetInt("REDIS_DB"),
		RedisPass:      v.GetString("REDIS_PASSWORD"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		AdminName:      v.GetString("ADMIN_NAME"),
		AdminPassword:  v.GetString("ADMIN_PASSWORD"),
		AdminStudentID: v.GetString("ADMIN_STUDENT_ID"),
		ExportTimezone: v.GetString("EXPORT_TIMEZONE"),
		WebDir:         v.GetString("WEB_DIR"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFormat:      v.GetString("LOG_FORMAT"),
		SwaggerHost:    v.GetString("SWAGGER_HOST"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_DSN", "user:password@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local")
	v.SetDefault("RESET_DB", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("ADMIN_NAME", "admin")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_STUDENT_ID", "admin")
	v.SetDefault("EXPORT_TIMEZONE", "Asia/Bangkok")
	v.SetDefault("WEB_DIR", "web")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("SWAGGER_HOST", "")
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres", "sqlite":
	default:
		return errors.New("DB_DRIVER must be one of mysql, postgres, sqlite")
	}
	if c.JWTSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("JWT_SECRET is required unless APP_ENV=development")
		}
		c.JWTSecret = DevJWTSecret
	}
	if c.AdminStudentID == "" {
		return errors.New("ADMIN_STUDENT_ID must not be empty")
	}
	return nil
}
