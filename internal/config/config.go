package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret         string `yaml:"secret"`
	Issuer         string `yaml:"issuer"`
	AccessTTL      string `yaml:"access_ttl"`
	RefreshTTLDays int    `yaml:"refresh_ttl_days"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type SecretsConfig struct {
	TokenTTL string `yaml:"token_ttl"`
}

type LoginLimitConfig struct {
	Attempts int    `yaml:"attempts"`
	Window   string `yaml:"window"`
	Store    string `yaml:"store"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type ConfigFile struct {
	App        AppConfig        `yaml:"app"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	JWT        JWTConfig        `yaml:"jwt"`
	OTP        OTPConfig        `yaml:"otp"`
	Secrets    SecretsConfig    `yaml:"secrets"`
	LoginLimit LoginLimitConfig `yaml:"login_limit"`
	Twilio     TwilioConfig     `yaml:"twilio"`
}

type Config struct {
	Port    string
	GinMode string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret  string
	JWTIssuer  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	OTPTTL          time.Duration
	OTPLength       int
	OTPMaxAttempts  int
	OTPResendWindow time.Duration

	SecretTokenTTL time.Duration

	LoginLimitAttempts int
	LoginLimitWindow   time.Duration
	LoginLimitStore    string

	TwilioSID   string
	TwilioToken string
	TwilioFrom  string
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// Load reads the optional YAML config file and applies environment
// overrides. A missing file is not an error; env and defaults cover it.
func Load() (*Config, error) {
	path := env("CONFIG_PATH", "config/config.yml")

	file := defaultConfigFile()
	if bytes, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(bytes, file); err != nil {
			return nil, fmt.Errorf("could not parse config yaml: %w", err)
		}
	}

	accTTL, err := time.ParseDuration(orDefault(file.JWT.AccessTTL, "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(orDefault(file.OTP.TTL, "3m"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	resWnd, err := time.ParseDuration(orDefault(file.OTP.ResendWindow, "60s"))
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}
	secretTTL, err := time.ParseDuration(orDefault(file.Secrets.TokenTTL, "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid secret token TTL: %w", err)
	}
	limitWnd, err := time.ParseDuration(orDefault(file.LoginLimit.Window, "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid login limit window: %w", err)
	}

	refreshDays := file.JWT.RefreshTTLDays
	if refreshDays <= 0 {
		refreshDays = 14
	}
	refreshDays = envInt("REFRESH_TOKEN_TTL_DAYS", refreshDays)

	return &Config{
		Port:    env("PORT", fmt.Sprintf("%d", orDefaultInt(file.App.Port, 3000))),
		GinMode: orDefault(file.App.GinMode, "release"),

		DSN: env("DATABASE_URL", file.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", orDefault(file.Redis.Addr, "localhost:6379")),
		RedisPassword: env("REDIS_PASSWORD", file.Redis.Password),
		RedisDB:       file.Redis.DB,

		JWTSecret:  env("JWT_SECRET", file.JWT.Secret),
		JWTIssuer:  orDefault(file.JWT.Issuer, "charge-one"),
		AccessTTL:  accTTL,
		RefreshTTL: time.Duration(refreshDays) * 24 * time.Hour,

		OTPTTL:          otpTTL,
		OTPLength:       orDefaultInt(file.OTP.Length, 6),
		OTPMaxAttempts:  orDefaultInt(file.OTP.MaxAttempts, 5),
		OTPResendWindow: resWnd,

		SecretTokenTTL: secretTTL,

		LoginLimitAttempts: orDefaultInt(file.LoginLimit.Attempts, 5),
		LoginLimitWindow:   limitWnd,
		LoginLimitStore:    orDefault(file.LoginLimit.Store, "memory"),

		TwilioSID:   env("TWILIO_ACCOUNT_SID", file.Twilio.AccountSID),
		TwilioToken: env("TWILIO_AUTH_TOKEN", file.Twilio.AuthToken),
		TwilioFrom:  env("TWILIO_FROM_NUMBER", file.Twilio.FromNumber),
	}, nil
}

func defaultConfigFile() *ConfigFile {
	return &ConfigFile{}
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orDefaultInt(v, def int) int {
	if v != 0 {
		return v
	}
	return def
}
