package config

import (
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	ErrMissingDBHost         = errors.New("DB_HOST is not set")
	ErrMissingRestaurantFile = errors.New("RESTAURANT_FILE is not set")
	ErrMissingSessionSecret  = errors.New("SESSION_SECRET is not set")
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	AppPort  string
	AppEnv   string
	LogLevel string

	SessionSecret     string
	SessionTTL        time.Duration
	InternalSecretKey string
	AllowedOrigins    []string

	RestaurantFile string
	RestaurantTZ   string

	OrderAPIURL             string
	ReservationAPIURL       string
	ReservationCodeSMSURL   string
	ReservationCodeEmailURL string
	CallWaiterURL           string
	UpstreamTimeout         time.Duration

	LocalCountryCode   string
	GeolocationTimeout time.Duration
	CartTTL            time.Duration
}

// LoadConfig reads .env and the environment, exiting when a required
// setting is missing.
func LoadConfig() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("Environment variables not loaded properly: %v", err)
	}
	return cfg
}

// LoadDatabaseConfig is LoadConfig for tools that only touch the
// database, such as the migrator.
func LoadDatabaseConfig() *Config {
	cfg := read()
	if cfg.DBHost == "" {
		log.Fatalf("Environment variables not loaded properly: %v", ErrMissingDBHost)
	}
	return cfg
}

func Load() (*Config, error) {
	cfg := read()
	if cfg.DBHost == "" {
		return nil, ErrMissingDBHost
	}
	if cfg.RestaurantFile == "" {
		return nil, ErrMissingRestaurantFile
	}
	if cfg.SessionSecret == "" {
		return nil, ErrMissingSessionSecret
	}
	return cfg, nil
}

func read() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		AppPort:  getEnv("APP_PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: os.Getenv("LOG_LEVEL"),

		SessionSecret:     os.Getenv("SESSION_SECRET"),
		SessionTTL:        getDuration("SESSION_TTL", 12*time.Hour),
		InternalSecretKey: os.Getenv("INTERNAL_SECRET_KEY"),
		AllowedOrigins:    getList("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),

		RestaurantFile: os.Getenv("RESTAURANT_FILE"),
		RestaurantTZ:   getEnv("RESTAURANT_TZ", "Europe/Istanbul"),

		OrderAPIURL:             os.Getenv("ORDER_API_URL"),
		ReservationAPIURL:       os.Getenv("RESERVATION_API_URL"),
		ReservationCodeSMSURL:   os.Getenv("RESERVATION_CODE_SMS_URL"),
		ReservationCodeEmailURL: os.Getenv("RESERVATION_CODE_EMAIL_URL"),
		CallWaiterURL:           os.Getenv("CALL_WAITER_URL"),
		UpstreamTimeout:         getDuration("UPSTREAM_TIMEOUT", 15*time.Second),

		LocalCountryCode:   strings.ToUpper(getEnv("LOCAL_COUNTRY_CODE", "TR")),
		GeolocationTimeout: getDuration("GEOLOCATION_TIMEOUT", 10*time.Second),
		CartTTL:            getDuration("CART_TTL", 6*time.Hour),
	}
	return cfg
}

// Location resolves RestaurantTZ, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.RestaurantTZ)
	if err != nil {
		log.Printf("unknown RESTAURANT_TZ %q, using UTC", c.RestaurantTZ)
		return time.UTC
	}
	return loc
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
