package repository

import (
	"errors"
	"fmt"
	"math"

	"pocaswap-api/internal/errs"
	"pocaswap-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	earthRadiusKm       = 6371.0
	kmPerDegree         = 111.045
)

// mapError translates driver errors into the shared sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%w: %s", errs.ErrConflict, pgErr.ConstraintName)
		case foreignKeyViolation:
			return fmt.Errorf("%w: %s", errs.ErrNotFound, pgErr.ConstraintName)
		}
	}
	return err
}

// requireAffected turns a zero-row update into ErrNotFound.
func requireAffected(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

type bounds struct {
	minLat, maxLat, minLng, maxLng float64
}

// boundingBox returns a lat/lng rectangle enclosing the search circle so the
// distance expression only runs on nearby rows.
func boundingBox(q models.NearbyQuery) bounds {
	latDelta := q.RadiusKm / kmPerDegree
	b := bounds{
		minLat: math.Max(-90, q.Latitude-latDelta),
		maxLat: math.Min(90, q.Latitude+latDelta),
		minLng: -180,
		maxLng: 180,
	}

	cosLat := math.Cos(q.Latitude * math.Pi / 180)
	if cosLat < 0.01 {
		return b
	}
	lngDelta := q.RadiusKm / (kmPerDegree * cosLat)
	if q.Longitude-lngDelta < -180 || q.Longitude+lngDelta > 180 {
		return b
	}
	b.minLng = q.Longitude - lngDelta
	b.maxLng = q.Longitude + lngDelta
	return b
}

// distanceSQL is the haversine distance in km from ($1, $2) to the row's latitude/longitude.
var distanceSQL = fmt.Sprintf(`%.1f * 2 * asin(LEAST(1.0, sqrt(
	power(sin(radians(latitude - $1) / 2), 2) +
	cos(radians($1)) * cos(radians(latitude)) * power(sin(radians(longitude - $2) / 2), 2))))`, earthRadiusKm)

func nearbyLimit(limit int) int {
	if limit < 1 {
		return models.DefaultPageLimit
	}
	if limit > models.MaxPageLimit {
		return models.MaxPageLimit
	}
	return limit
}
