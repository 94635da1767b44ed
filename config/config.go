package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the service.
type Config struct {
	Port    string `yaml:"port"`
	GinMode string `yaml:"gin_mode"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	JWTSecret      string        `yaml:"jwt_secret"`
	JWTTTL         time.Duration `yaml:"jwt_ttl"`
	CustomerJWTTTL time.Duration `yaml:"customer_jwt_ttl"`
	OTPTTL         time.Duration `yaml:"otp_ttl"`

	Currency string `yaml:"currency"`

	MidtransServerKey string `yaml:"midtrans_server_key"`
	MidtransClientKey string `yaml:"midtrans_client_key"`
	MidtransEnv       string `yaml:"midtrans_env"`

	CORSOrigins []string `yaml:"cors_origins"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	SuperadminEmail    string `yaml:"superadmin_email"`
	SuperadminPassword string `yaml:"superadmin_password"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Port:           "8080",
		GinMode:        "debug",
		DBDriver:       "mysql",
		JWTSecret:      "TestSecretKeyAUTH1945",
		JWTTTL:         24 * time.Hour,
		CustomerJWTTTL: 12 * time.Hour,
		OTPTTL:         10 * time.Minute,
		Currency:       "idr",
		MidtransEnv:    "sandbox",
		CORSOrigins:    []string{"http://127.0.0.1:5500"},
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment. A .env file in the working directory is loaded first if present.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env bersifat opsional
	_ = godotenv.Load()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	setString(&c.Port, "PORT")
	setString(&c.GinMode, "GIN_MODE")
	setString(&c.DBDriver, "DB_DRIVER")
	setString(&c.DBDSN, "DB_DSN")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.Currency, "CURRENCY")
	setString(&c.MidtransServerKey, "MIDTRANS_SERVER_KEY")
	setString(&c.MidtransClientKey, "MIDTRANS_CLIENT_KEY")
	setString(&c.MidtransEnv, "MIDTRANS_ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFormat, "LOG_FORMAT")
	setString(&c.SuperadminEmail, "SUPERADMIN_EMAIL")
	setString(&c.SuperadminPassword, "SUPERADMIN_PASSWORD")

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	for key, dst := range map[string]*time.Duration{
		"JWT_TTL":          &c.JWTTTL,
		"CUSTOMER_JWT_TTL": &c.CustomerJWTTTL,
		"OTP_TTL":          &c.OTPTTL,
	} {
		if err := setDuration(dst, key); err != nil {
			return err
		}
	}

	// Legacy variables of the old deployment.
	if c.DBDSN == "" && os.Getenv("DB_HOST") != "" {
		c.DBDSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_HOST"),
			envOr("DB_PORT", "3306"), os.Getenv("DB_NAME"))
	}
	return nil
}

// Validate rejects configurations the service cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.OTPTTL <= 0 {
		return fmt.Errorf("OTP_TTL must be positive")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid PORT %q", c.Port)
	}
	return nil
}

// MidtransProduction reports whether the production Midtrans environment is selected.
func (c Config) MidtransProduction() bool {
	return strings.EqualFold(c.MidtransEnv, "production")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
