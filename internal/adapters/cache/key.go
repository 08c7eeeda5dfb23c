package cache

import (
	"delivery-assign-service/internal/domain"
	"fmt"
)

// coordKey rounds to 5 decimals (~1 m) so repeated uploads of the same
// addresses share cache entries.
func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lon, c.Lat)
}
