package db

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/onnwee/raid-herald/telemetry"
)

// Gym is one persisted location record. Name is unique case-insensitively.
type Gym struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// InsertGym registers a gym location. First write wins: if a record with the
// same name (case-insensitively) already exists, the insert is a logged
// no-op and the stored coordinates are left untouched. Returns whether a row
// was actually inserted.
func InsertGym(ctx context.Context, dbx *sql.DB, name string, lat, lng float64) (bool, error) {
	res, err := dbx.ExecContext(ctx,
		`INSERT INTO gyms (name, latitude, longitude) VALUES ($1,$2,$3)
		 ON CONFLICT (LOWER(name)) DO NOTHING`, name, lat, lng)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	inserted := n > 0
	if !inserted {
		slog.Debug("gym already registered", slog.String("name", name))
	}
	telemetry.CountGymInsert(inserted)
	return inserted, nil
}

// SearchGyms returns gyms whose name contains query, case-insensitively.
// ILIKE metacharacters in query pass through to the match; callers wanting
// literal semantics must escape them. Natural storage order, no sort.
func SearchGyms(ctx context.Context, dbx *sql.DB, query string) ([]Gym, error) {
	rows, err := dbx.QueryContext(ctx,
		`SELECT name, latitude, longitude FROM gyms WHERE name ILIKE '%' || $1 || '%'`, query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Warn("failed to close rows", slog.Any("err", err))
		}
	}()

	var gyms []Gym
	for rows.Next() {
		var g Gym
		if err := rows.Scan(&g.Name, &g.Latitude, &g.Longitude); err != nil {
			return nil, err
		}
		gyms = append(gyms, g)
	}
	return gyms, rows.Err()
}

// CountGyms returns the number of registered gyms.
func CountGyms(ctx context.Context, dbx *sql.DB) (int, error) {
	var n int
	err := dbx.QueryRowContext(ctx, `SELECT COUNT(*) FROM gyms`).Scan(&n)
	return n, err
}
