package config

import (
	"strings"
	"testing"
	"time"

	"spaces/pkg/logger"

	"github.com/shopspring/decimal"
)

func validConfig() *Config {
	return &Config{
		MongoURI:            DefaultMongoURI,
		MongoDatabaseName:   DefaultMongoDatabaseName,
		MongoConnTimeout:    DefaultMongoConnTimeout,
		StorageBackend:      StorageMongo,
		Port:                DefaultPort,
		RateLimitRequests:   DefaultRateLimitRequests,
		RateLimitWindow:     DefaultRateLimitWindow,
		RequestTimeout:      DefaultRequestTimeout,
		IdempotencyTTL:      DefaultIdempotencyTTL,
		MaxRequestSize:      DefaultMaxRequestSize,
		ReadTimeout:         DefaultReadTimeout,
		WriteTimeout:        DefaultWriteTimeout,
		IdleTimeout:         DefaultIdleTimeout,
		ShutdownTimeout:     DefaultShutdownTimeout,
		DefaultHourlyRate:   decimal.Zero,
		MaxReservationHours: DefaultMaxReservationHours,
		BookingHorizonDays:  DefaultBookingHorizonDays,
		Log:                 logger.Discard(),
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "memory backend ignores mongo settings", mutate: func(c *Config) {
			c.StorageBackend = StorageMemory
			c.MongoURI = ""
		}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "Port must be between"},
		{name: "unknown backend", mutate: func(c *Config) { c.StorageBackend = "redis" }, wantErr: "StorageBackend must be"},
		{name: "bad mongo scheme", mutate: func(c *Config) { c.MongoURI = "postgres://localhost" }, wantErr: "MongoURI must start with"},
		{name: "negative rate", mutate: func(c *Config) { c.DefaultHourlyRate = decimal.NewFromInt(-1) }, wantErr: "DefaultHourlyRate cannot be negative"},
		{name: "zero reservation hours", mutate: func(c *Config) { c.MaxReservationHours = 0 }, wantErr: "MaxReservationHours must be positive"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "RequestTimeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNumbersEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "x"
	cfg.IdleTimeout = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "1. Port") || !strings.Contains(err.Error(), "2. IdleTimeout") {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SPACES_TEST_NUM", "42")
	t.Setenv("SPACES_TEST_BAD_NUM", "forty")
	t.Setenv("SPACES_TEST_DURATION", "90s")
	t.Setenv("SPACES_TEST_BOOL", "true")
	t.Setenv("SPACES_TEST_DECIMAL", "12.50")

	if got := getEnvNum("SPACES_TEST_NUM", 1); got != 42 {
		t.Errorf("getEnvNum = %d, want 42", got)
	}
	if got := getEnvNum("SPACES_TEST_BAD_NUM", 7); got != 7 {
		t.Errorf("getEnvNum fallback = %d, want 7", got)
	}
	if got := getEnvDuration("SPACES_TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("getEnvDuration = %s, want 90s", got)
	}
	if !getEnvBool("SPACES_TEST_BOOL", false) {
		t.Error("getEnvBool = false, want true")
	}
	if got := getEnvDecimal("SPACES_TEST_DECIMAL", "0"); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("getEnvDecimal = %s, want 12.5", got)
	}
	if got := getEnvDecimal("SPACES_TEST_UNSET", "3"); !got.Equal(decimal.NewFromInt(3)) {
		t.Errorf("getEnvDecimal fallback = %s, want 3", got)
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:secret@db:27017")
	if got != "mongodb://***:***@db:27017" {
		t.Errorf("redactMongoURI = %s", got)
	}
}

func TestNormalizePagination(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, 10},
		{-5, 10},
		{50, 50},
		{1000, DefaultPaginationLimit},
	}
	for _, tt := range tests {
		if got := NormalizePaginationLimit(tt.in); got != tt.want {
			t.Errorf("NormalizePaginationLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := NormalizeOffset(-3); got != 0 {
		t.Errorf("NormalizeOffset(-3) = %d, want 0", got)
	}
}
