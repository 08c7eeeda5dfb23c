package config

import (
	"delivery-assign-service/internal/services"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the process configuration read from the environment
// (optionally primed from a .env file by the caller).
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	AMQPURL     string

	RoutingProvider string
	MapboxToken     string
	MapboxBaseURL   string
	ProviderTimeout time.Duration
	ProviderRPS     float64
	CacheTTL        time.Duration

	HaversineSpeedKmh float64
	HaversineDetour   float64

	SlotsFile          string
	BatchSize          int
	PickupMinutes      int
	HandoverMinutes    int
	OrderCutoffMinutes int
}

const (
	ProviderMapbox    = "mapbox"
	ProviderHaversine = "haversine"
)

// Get returns the value of key, or fallback when it is unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func GetFloat(key string, fallback float64) (float64, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

// Load reads the service configuration from the environment.
func Load() (Config, error) {
	defaults := services.DefaultConfig()

	cfg := Config{
		Port:            Get("PORT", "8080"),
		DatabaseURL:     Get("DATABASE_URL", ""),
		RedisURL:        Get("REDIS_URL", ""),
		AMQPURL:         Get("AMQP_URL", ""),
		RoutingProvider: strings.ToLower(Get("ROUTING_PROVIDER", ProviderMapbox)),
		MapboxToken:     Get("MAPBOX_TOKEN", ""),
		MapboxBaseURL:   Get("MAPBOX_BASE_URL", ""),
		SlotsFile:       Get("SLOTS_FILE", ""),
	}

	var err error
	if cfg.ProviderTimeout, err = GetDuration("PROVIDER_TIMEOUT", defaults.ProviderTimeout); err != nil {
		return Config{}, err
	}
	if cfg.ProviderRPS, err = GetFloat("PROVIDER_RPS", 0); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = GetDuration("CACHE_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.HaversineSpeedKmh, err = GetFloat("HAVERSINE_SPEED_KMH", 30); err != nil {
		return Config{}, err
	}
	if cfg.HaversineDetour, err = GetFloat("HAVERSINE_DETOUR_FACTOR", 1.3); err != nil {
		return Config{}, err
	}
	if cfg.BatchSize, err = GetInt("BATCH_SIZE", defaults.BatchSize); err != nil {
		return Config{}, err
	}
	if cfg.PickupMinutes, err = GetInt("PICKUP_MINUTES_PER_ORDER", int(defaults.PickupPerOrder/time.Minute)); err != nil {
		return Config{}, err
	}
	if cfg.HandoverMinutes, err = GetInt("HANDOVER_MINUTES_PER_ORDER", int(defaults.HandoverPerOrder/time.Minute)); err != nil {
		return Config{}, err
	}
	if cfg.OrderCutoffMinutes, err = GetInt("ORDER_CUTOFF_MINUTES", int(defaults.OrderCutoff/time.Minute)); err != nil {
		return Config{}, err
	}

	switch cfg.RoutingProvider {
	case ProviderMapbox:
		if cfg.MapboxToken == "" {
			return Config{}, fmt.Errorf("config: MAPBOX_TOKEN is required when ROUTING_PROVIDER=%s", ProviderMapbox)
		}
	case ProviderHaversine:
	default:
		return Config{}, fmt.Errorf("config: unknown ROUTING_PROVIDER %q", cfg.RoutingProvider)
	}

	return cfg, nil
}

// ServiceConfig builds the engine configuration, loading the slot table from
// SlotsFile when one is configured.
func (c Config) ServiceConfig() (services.Config, error) {
	sc := services.DefaultConfig()
	sc.BatchSize = c.BatchSize
	sc.PickupPerOrder = time.Duration(c.PickupMinutes) * time.Minute
	sc.HandoverPerOrder = time.Duration(c.HandoverMinutes) * time.Minute
	sc.OrderCutoff = time.Duration(c.OrderCutoffMinutes) * time.Minute
	sc.ProviderTimeout = c.ProviderTimeout

	if c.SlotsFile != "" {
		table, err := LoadSlots(c.SlotsFile)
		if err != nil {
			return services.Config{}, err
		}
		sc.Slots = table
	}

	if err := sc.Validate(); err != nil {
		return services.Config{}, err
	}
	return sc, nil
}
