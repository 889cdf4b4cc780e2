package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Stripe StripeConfig `mapstructure:"stripe"`
	SMTP   SMTPConfig   `mapstructure:"smtp"`
	Jobs   JobsConfig   `mapstructure:"jobs"`
}

type ServerConfig struct {
	Port     string `mapstructure:"port"`
	Origin   string `mapstructure:"origin"`
	LogLevel string `mapstructure:"log_level"`
}

type MongoConfig struct {
	URI          string        `mapstructure:"uri"`
	DatabaseName string        `mapstructure:"database"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
	BaseURL   string `mapstructure:"base_url"`
	Currency  string `mapstructure:"currency"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether outgoing mail is configured at all.
func (c SMTPConfig) Enabled() bool {
	return c.Host != ""
}

type JobsConfig struct {
	ReconcileSchedule string        `mapstructure:"reconcile_schedule"`
	ReconcileGrace    time.Duration `mapstructure:"reconcile_grace"`
}

var bindings = map[string]string{
	"server.port":             "PORT",
	"server.origin":           "CLIENT_ORIGIN",
	"server.log_level":        "LOG_LEVEL",
	"mongo.uri":               "MONGODB_URI",
	"mongo.database":          "DATABASE_NAME",
	"mongo.timeout":           "MONGO_TIMEOUT",
	"auth.secret":             "ACCESS_TOKEN",
	"auth.token_ttl":          "ACCESS_TOKEN_TTL",
	"stripe.secret_key":       "PAYMENT_SECRET_KEY",
	"stripe.base_url":         "STRIPE_API_BASE",
	"stripe.currency":         "PAYMENT_CURRENCY",
	"smtp.host":               "SMTP_HOST",
	"smtp.port":               "SMTP_PORT",
	"smtp.username":           "SMTP_USERNAME",
	"smtp.password":           "SMTP_PASSWORD",
	"smtp.from":               "SMTP_FROM",
	"jobs.reconcile_schedule": "RECONCILE_SCHEDULE",
	"jobs.reconcile_grace":    "RECONCILE_GRACE",
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "loading .env file")
	}

	v := viper.New()
	v.SetDefault("server.port", "5000")
	v.SetDefault("server.origin", "*")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "musicCampDB")
	v.SetDefault("mongo.timeout", 10*time.Second)
	v.SetDefault("auth.token_ttl", 2*time.Hour)
	v.SetDefault("stripe.base_url", "https://api.stripe.com")
	v.SetDefault("stripe.currency", "usd")
	v.SetDefault("smtp.port", 587)
	v.SetDefault("jobs.reconcile_schedule", "@every 5m")
	v.SetDefault("jobs.reconcile_grace", time.Minute)

	v.AutomaticEnv()
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, errors.Wrapf(err, "binding %s", env)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}

	if cfg.Auth.Secret == "" {
		return nil, errors.New("ACCESS_TOKEN must be set")
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.Username
	}
	return cfg, nil
}
