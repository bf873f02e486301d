package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service. Values come from the
// environment; a .env file is loaded by main before this runs.
type Config struct {
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	Port        int    `mapstructure:"port"`

	DatabaseURL string `mapstructure:"database_url"`
	AMQPURL     string `mapstructure:"amqp_url"`

	AdminSecretKey string        `mapstructure:"admin_secret_key"`
	JWTSecretKey   string        `mapstructure:"jwt_secret_key"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`

	MailHost string `mapstructure:"mail_host"`
	MailPort int    `mapstructure:"mail_port"`
	MailUser string `mapstructure:"mail_user"`
	MailPass string `mapstructure:"mail_pass"`

	EmailFrom    string `mapstructure:"email_from"`
	AdminEmail   string `mapstructure:"admin_email"`
	FrontendURL  string `mapstructure:"frontend_url"`
	CalendlyLink string `mapstructure:"calendly_link"`
	ContactPhone string `mapstructure:"contact_phone"`
	CVPath       string `mapstructure:"cv_path"`

	CORSOrigins []string `mapstructure:"cors_origins"`

	MailWorkers int `mapstructure:"mail_workers"`
}

// Load reads configuration from environment variables with defaults applied.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("environment", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("port", 8080)
	v.SetDefault("token_ttl", time.Hour)
	v.SetDefault("mail_port", 587)
	v.SetDefault("email_from", "Arpit Kumar <contact@arpitkumar.dev>")
	v.SetDefault("frontend_url", "https://arpitkumar.dev")
	v.SetDefault("calendly_link", "https://calendly.com/kumararpit17773/30min")
	v.SetDefault("cv_path", "assets/Arpit_Kumar_CV.pdf")
	v.SetDefault("cors_origins", []string{"http://localhost:5173", "https://arpitkumar.dev"})
	v.SetDefault("mail_workers", 4)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv alone does not surface env vars through Unmarshal; bind
	// each key explicitly.
	keys := []string{
		"environment", "log_level", "port", "database_url", "amqp_url",
		"admin_secret_key", "jwt_secret_key", "token_ttl",
		"mail_host", "mail_port", "mail_user", "mail_pass",
		"email_from", "admin_email", "frontend_url", "calendly_link",
		"contact_phone", "cv_path", "cors_origins", "mail_workers",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
