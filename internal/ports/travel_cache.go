package ports

import (
	"context"
	"delivery-assign-service/internal/domain"
	"errors"
)

var ErrCacheMiss = errors.New("cache miss")

// Port: persistent store of point-to-point travel estimates.
type TravelCache interface {
	Get(ctx context.Context, origin, destination domain.Coordinates) (TravelResult, error)
	Put(ctx context.Context, origin, destination domain.Coordinates, r TravelResult) error
}
