package repository

import (
	"errors"
	"fmt"
	"testing"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError(nil))
	assert.ErrorIs(t, mapError(pgx.ErrNoRows), errs.ErrNotFound)
	assert.ErrorIs(t, mapError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), errs.ErrNotFound)

	unique := &pgconn.PgError{Code: "23505", ConstraintName: "users_nickname_key"}
	err := mapError(unique)
	assert.ErrorIs(t, err, errs.ErrConflict)
	assert.Contains(t, err.Error(), "users_nickname_key")

	fk := &pgconn.PgError{Code: "23503"}
	assert.ErrorIs(t, mapError(fk), errs.ErrNotFound)

	other := errors.New("boom")
	assert.Equal(t, other, mapError(other))
}

func TestBoundingBox(t *testing.T) {
	b := boundingBox(models.NearbyQuery{Latitude: 37.5665, Longitude: 126.978, RadiusKm: 10})
	assert.InDelta(t, 37.5665-10/kmPerDegree, b.minLat, 1e-9)
	assert.InDelta(t, 37.5665+10/kmPerDegree, b.maxLat, 1e-9)
	assert.Less(t, b.minLng, 126.978)
	assert.Greater(t, b.maxLng, 126.978)
	assert.Greater(t, b.maxLng-b.minLng, b.maxLat-b.minLat)

	// Crossing the antimeridian falls back to the full longitude range.
	wrap := boundingBox(models.NearbyQuery{Latitude: 0, Longitude: 179.99, RadiusKm: 50})
	assert.Equal(t, -180.0, wrap.minLng)
	assert.Equal(t, 180.0, wrap.maxLng)

	pole := boundingBox(models.NearbyQuery{Latitude: 90, Longitude: 0, RadiusKm: 50})
	assert.Equal(t, 90.0, pole.maxLat)
	assert.Equal(t, -180.0, pole.minLng)
}

func TestDistanceSQL(t *testing.T) {
	assert.Contains(t, distanceSQL, "6371.0 * 2 * asin(")
	assert.NotContains(t, distanceSQL, "acos")
}

func TestNearbyLimit(t *testing.T) {
	assert.Equal(t, models.DefaultPageLimit, nearbyLimit(0))
	assert.Equal(t, 5, nearbyLimit(5))
	assert.Equal(t, models.MaxPageLimit, nearbyLimit(1000))
}
