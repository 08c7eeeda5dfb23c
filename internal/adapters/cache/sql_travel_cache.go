package cache

import (
	"context"
	"database/sql"
	"delivery-assign-service/internal/domain"
	"delivery-assign-service/internal/platform/obs"
	"delivery-assign-service/internal/ports"
	"errors"
	"fmt"
	"time"
)

// SQLTravelCache is a Postgres-backed cache of point-to-point travel estimates.
type SQLTravelCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLTravelCache(db *sql.DB, ttl time.Duration) *SQLTravelCache {
	return &SQLTravelCache{DB: db, TTL: ttl}
}

// Fetch a cached estimate; ports.ErrCacheMiss when absent or expired.
func (s *SQLTravelCache) Get(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
) (_ ports.TravelResult, err error) {
	defer obs.Time(ctx, "travel.cache.sql.Get")(&err)

	if s.DB == nil {
		return ports.TravelResult{}, errors.New("travel cache: db is nil")
	}

	// A zero TTL keeps entries forever.
	notBefore := time.Time{}
	if s.TTL > 0 {
		notBefore = time.Now().Add(-s.TTL)
	}

	q := `
	SELECT duration_minutes, distance_km
	FROM travel_cache
	WHERE origin_key = $1
		AND destination_key = $2
		AND updated_at >= $3;
	`

	var r ports.TravelResult
	err = s.DB.QueryRowContext(ctx, q, coordKey(origin), coordKey(destination), notBefore).
		Scan(&r.DurationMinutes, &r.DistanceKm)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.TravelResult{}, ports.ErrCacheMiss
	}
	if err != nil {
		return ports.TravelResult{}, fmt.Errorf("get travel cache: query travel_cache table: %w", err)
	}

	return r, nil
}

// Store one estimate, replacing any previous value for the pair.
func (s *SQLTravelCache) Put(
	ctx context.Context,
	origin domain.Coordinates,
	destination domain.Coordinates,
	r ports.TravelResult,
) error {
	if s.DB == nil {
		return errors.New("travel cache: db is nil")
	}

	q := `
	INSERT INTO travel_cache (origin_key, destination_key, duration_minutes, distance_km, updated_at)
	VALUES ($1, $2, $3, $4, now())
	ON CONFLICT (origin_key, destination_key) DO UPDATE
	SET duration_minutes = EXCLUDED.duration_minutes,
		distance_km = EXCLUDED.distance_km,
		updated_at = EXCLUDED.updated_at;
	`

	if _, err := s.DB.ExecContext(ctx, q, coordKey(origin), coordKey(destination), r.DurationMinutes, r.DistanceKm); err != nil {
		return fmt.Errorf("insert travel cache %s -> %s: %w", coordKey(origin), coordKey(destination), err)
	}

	return nil
}
