package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/md-rashed-zaman/gymdesk/libs/config"
)

type settings struct {
	Service  string
	Port     string
	GRPCPort string

	DatabaseURL string

	JWTSecret       string
	JWTTTL          time.Duration
	RegistrationKey string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	PlanCacheTTL  time.Duration

	KafkaBrokers string

	StripeSecretKey string
	StripeCurrency  string

	CORSOrigins        []string
	CORSCredentials    bool
	RateLimitPerMinute int
	RateLimitFailOpen  bool
	BodyLimitBytes     int
	RequestTimeout     time.Duration
}

// loadSettings reads the environment. Every problem is reported, not just the first.
func loadSettings() (settings, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	s := settings{
		Service:         config.String("SERVICE_NAME", "gym-service"),
		RegistrationKey: config.String("ADMIN_REGISTRATION_KEY", ""),
		RedisAddr:       config.String("REDIS_ADDR", ""),
		RedisPassword:   config.String("REDIS_PASSWORD", ""),
		KafkaBrokers:    config.String("KAFKA_BROKERS", ""),
		StripeSecretKey: config.String("STRIPE_SECRET_KEY", ""),
		StripeCurrency:  config.String("STRIPE_CURRENCY", "usd"),
		CORSOrigins:     config.List("CORS_ALLOWED_ORIGINS"),
		CORSCredentials: config.Bool("CORS_ALLOW_CREDENTIALS", false),
		// Public writes keep working when Redis is down.
		RateLimitFailOpen: config.Bool("RATE_LIMIT_FAIL_OPEN", true),
	}

	var err error
	s.Port, err = config.Port("PORT", "8080")
	collect(err)
	s.GRPCPort, err = config.OptionalPort("GRPC_PORT", "9090")
	collect(err)
	s.DatabaseURL, err = config.RequiredString("DATABASE_URL")
	collect(err)
	s.JWTSecret, err = config.RequiredString("JWT_SECRET")
	collect(err)
	s.JWTTTL, err = config.Duration("JWT_TTL", 24*time.Hour)
	collect(err)
	s.RedisDB, err = config.Int("REDIS_DB", 0)
	collect(err)
	s.PlanCacheTTL, err = config.Duration("PLAN_CACHE_TTL", time.Minute)
	collect(err)
	s.RateLimitPerMinute, err = config.Int("RATE_LIMIT_PER_MINUTE", 30)
	collect(err)
	s.BodyLimitBytes, err = config.Int("REQUEST_BODY_LIMIT_BYTES", 1<<20)
	collect(err)
	s.RequestTimeout, err = config.Duration("REQUEST_TIMEOUT", 10*time.Second)
	collect(err)

	if s.RateLimitPerMinute < 0 {
		collect(fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative (got %d)", s.RateLimitPerMinute))
	}
	if s.BodyLimitBytes <= 0 {
		collect(fmt.Errorf("REQUEST_BODY_LIMIT_BYTES must be positive (got %d)", s.BodyLimitBytes))
	}
	return s, errors.Join(errs...)
}
