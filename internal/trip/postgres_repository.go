package trip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/roamcast/roamcast/internal/schedule"
)

// PostgresRepository is a PostgreSQL implementation of Repository. The
// itinerary is stored as a jsonb column since the monitor only ever reads it
// whole.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL trip repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a trip by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Trip, error) {
	query := `
		SELECT
			id, city, country, lat, lon,
			start_date, end_date, monitoring, activities,
			created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip Trip
	var activities []byte
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.City,
		&trip.Country,
		&trip.Lat,
		&trip.Lon,
		&trip.StartDate,
		&trip.EndDate,
		&trip.Monitoring,
		&activities,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}

	if err := unmarshalActivities(activities, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

// ListMonitoring retrieves every trip with the monitoring flag set.
func (r *PostgresRepository) ListMonitoring(ctx context.Context) ([]*Trip, error) {
	query := `
		SELECT
			id, city, country, lat, lon,
			start_date, end_date, monitoring, activities,
			created_at, updated_at
		FROM trips
		WHERE monitoring = TRUE
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*Trip
	for rows.Next() {
		var trip Trip
		var activities []byte
		err := rows.Scan(
			&trip.ID,
			&trip.City,
			&trip.Country,
			&trip.Lat,
			&trip.Lon,
			&trip.StartDate,
			&trip.EndDate,
			&trip.Monitoring,
			&activities,
			&trip.CreatedAt,
			&trip.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := unmarshalActivities(activities, &trip); err != nil {
			return nil, err
		}
		trips = append(trips, &trip)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return trips, nil
}

// Create creates a new trip.
func (r *PostgresRepository) Create(ctx context.Context, trip *Trip) error {
	query := `
		INSERT INTO trips (
			id, city, country, lat, lon,
			start_date, end_date, monitoring, activities,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	activities, err := marshalActivities(trip.Activities)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		trip.ID,
		trip.City,
		trip.Country,
		trip.Lat,
		trip.Lon,
		trip.StartDate,
		trip.EndDate,
		trip.Monitoring,
		activities,
		trip.CreatedAt,
		trip.UpdatedAt,
	)
	return err
}

// Update updates an existing trip.
func (r *PostgresRepository) Update(ctx context.Context, trip *Trip) error {
	query := `
		UPDATE trips SET
			city = $2,
			country = $3,
			lat = $4,
			lon = $5,
			start_date = $6,
			end_date = $7,
			monitoring = $8,
			activities = $9,
			updated_at = $10
		WHERE id = $1
	`

	activities, err := marshalActivities(trip.Activities)
	if err != nil {
		return err
	}

	result, err := r.pool.Exec(ctx, query,
		trip.ID,
		trip.City,
		trip.Country,
		trip.Lat,
		trip.Lon,
		trip.StartDate,
		trip.EndDate,
		trip.Monitoring,
		activities,
		trip.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// SetMonitoring flips the trip's monitoring flag.
func (r *PostgresRepository) SetMonitoring(ctx context.Context, id string, monitoring bool) error {
	query := `UPDATE trips SET monitoring = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id, monitoring)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrTripNotFound
	}
	return nil
}

// Delete deletes a trip by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trips WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func marshalActivities(activities []schedule.Activity) ([]byte, error) {
	if activities == nil {
		activities = []schedule.Activity{}
	}
	data, err := json.Marshal(activities)
	if err != nil {
		return nil, fmt.Errorf("encoding activities: %w", err)
	}
	return data, nil
}

func unmarshalActivities(data []byte, trip *Trip) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, &trip.Activities); err != nil {
		return fmt.Errorf("decoding activities for trip %s: %w", trip.ID, err)
	}
	return nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
