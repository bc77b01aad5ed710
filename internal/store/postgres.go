package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"aid-safeguard/tracking/internal/config"
	"aid-safeguard/tracking/internal/domain"
)

// DB is the pgx surface the store needs. *pgxpool.Pool satisfies it; tests
// substitute a mock pool.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

type PostgresStore struct {
	db DB
}

func NewPostgresStore(ctx context.Context, cfg *config.Config) (*PostgresStore, error) {
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?pool_max_conns=%d",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBMaxConns,
	)

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to create db pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

// NewPostgresStoreWithDB wraps an existing connection surface. Used by tests.
func NewPostgresStoreWithDB(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const truckColumns = `id, truck_id, license_plate, driver_name, driver_phone,
	cargo_type, capacity, status,
	current_latitude, current_longitude,
	destination_latitude, destination_longitude,
	speed, fuel_level, last_updated, server_id`

func scanTruck(row pgx.Row) (domain.Truck, error) {
	var t domain.Truck
	err := row.Scan(
		&t.ID,
		&t.TruckID,
		&t.LicensePlate,
		&t.DriverName,
		&t.DriverPhone,
		&t.CargoType,
		&t.Capacity,
		&t.Status,
		&t.CurrentLatitude,
		&t.CurrentLongitude,
		&t.DestinationLatitude,
		&t.DestinationLongitude,
		&t.Speed,
		&t.FuelLevel,
		&t.LastUpdated,
		&t.ServerID,
	)
	return t, err
}

// FindByTruckID looks a truck up by its business key. The boolean reports
// whether the truck exists; absence is not an error.
func (s *PostgresStore) FindByTruckID(ctx context.Context, truckID string) (domain.Truck, bool, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks WHERE truck_id = $1`

	t, err := scanTruck(s.db.QueryRow(ctx, query, truckID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Truck{}, false, nil
	}
	if err != nil {
		return domain.Truck{}, false, fmt.Errorf("find truck %s failed: %w", truckID, err)
	}
	return t, true, nil
}

// UpsertWithHistory persists the truck state and its paired history entry as
// one transaction. The insert takes a row lock on conflict, so two concurrent
// updates for the same business key serialize instead of interleaving. The
// history row always references the persisted truck identity via RETURNING.
func (s *PostgresStore) UpsertWithHistory(
	ctx context.Context,
	truck domain.Truck,
	entry domain.HistoryEntry,
) (domain.Truck, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.Truck{}, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	upsert := `
		INSERT INTO trucks
			(truck_id, license_plate, driver_name, driver_phone,
			 cargo_type, capacity, status,
			 current_latitude, current_longitude,
			 destination_latitude, destination_longitude,
			 speed, fuel_level, last_updated, server_id)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (truck_id) DO UPDATE SET
			current_latitude  = EXCLUDED.current_latitude,
			current_longitude = EXCLUDED.current_longitude,
			speed             = EXCLUDED.speed,
			fuel_level        = EXCLUDED.fuel_level,
			last_updated      = EXCLUDED.last_updated
		RETURNING ` + truckColumns

	saved, err := scanTruck(tx.QueryRow(
		ctx,
		upsert,
		truck.TruckID,
		truck.LicensePlate,
		truck.DriverName,
		truck.DriverPhone,
		truck.CargoType,
		truck.Capacity,
		string(truck.Status),
		truck.CurrentLatitude,
		truck.CurrentLongitude,
		truck.DestinationLatitude,
		truck.DestinationLongitude,
		truck.Speed,
		truck.FuelLevel,
		truck.LastUpdated,
		truck.ServerID,
	))
	if err != nil {
		return domain.Truck{}, fmt.Errorf("upsert truck %s failed: %w", truck.TruckID, err)
	}

	appendHistory := `
		INSERT INTO location_history
			(truck_id, latitude, longitude, speed, fuel_level, timestamp, server_id)
		VALUES
			($1, $2, $3, $4, $5, $6, $7)`

	_, err = tx.Exec(
		ctx,
		appendHistory,
		saved.ID,
		entry.Latitude,
		entry.Longitude,
		entry.Speed,
		entry.FuelLevel,
		entry.Timestamp,
		entry.ServerID,
	)
	if err != nil {
		return domain.Truck{}, fmt.Errorf("append history for %s failed: %w", truck.TruckID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Truck{}, fmt.Errorf("commit upsert for %s failed: %w", truck.TruckID, err)
	}

	return saved, nil
}

func (s *PostgresStore) ListTrucks(ctx context.Context) ([]domain.Truck, error) {
	query := `SELECT ` + truckColumns + ` FROM trucks ORDER BY last_updated DESC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trucks failed: %w", err)
	}
	defer rows.Close()

	trucks := []domain.Truck{}
	for rows.Next() {
		t, err := scanTruck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan truck row: %w", err)
		}
		trucks = append(trucks, t)
	}
	return trucks, rows.Err()
}

// TruckHistory returns the most recent history entries for a business key,
// newest first.
func (s *PostgresStore) TruckHistory(ctx context.Context, truckID string, limit int) ([]domain.HistoryEntry, error) {
	query := `
		SELECT h.id, h.truck_id, h.latitude, h.longitude,
		       h.speed, h.fuel_level, h.timestamp, h.server_id
		FROM location_history h
		JOIN trucks t ON t.id = h.truck_id
		WHERE t.truck_id = $1
		ORDER BY h.timestamp DESC
		LIMIT $2`

	rows, err := s.db.Query(ctx, query, truckID, limit)
	if err != nil {
		return nil, fmt.Errorf("history for %s failed: %w", truckID, err)
	}
	defer rows.Close()

	entries := []domain.HistoryEntry{}
	for rows.Next() {
		var e domain.HistoryEntry
		err := rows.Scan(
			&e.ID,
			&e.TruckRef,
			&e.Latitude,
			&e.Longitude,
			&e.Speed,
			&e.FuelLevel,
			&e.Timestamp,
			&e.ServerID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
