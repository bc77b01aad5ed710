package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"aid-safeguard/tracking/internal/domain"
)

var savedAt = time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

func truckRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "truck_id", "license_plate", "driver_name", "driver_phone",
		"cargo_type", "capacity", "status",
		"current_latitude", "current_longitude",
		"destination_latitude", "destination_longitude",
		"speed", "fuel_level", "last_updated", "server_id",
	})
}

func addTruckRow(rows *pgxmock.Rows, id, truckID string) *pgxmock.Rows {
	return rows.AddRow(
		id, truckID, "ETH-AB12CD34", "Unknown Driver", "+251XXXXXXXXX",
		"General Supplies", 5000.0, domain.StatusActive,
		9.03, 38.74,
		(*float64)(nil), (*float64)(nil),
		40.0, 70.0, savedAt, "server-1",
	)
}

func TestFindByTruckIDFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool failed: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM trucks WHERE truck_id").
		WithArgs("T-100").
		WillReturnRows(addTruckRow(truckRows(), "uuid-1", "T-100"))

	s := NewPostgresStoreWithDB(mock)

	truck, found, err := s.FindByTruckID(context.Background(), "T-100")
	if err != nil {
		t.Fatalf("FindByTruckID failed: %v", err)
	}
	if !found {
		t.Fatalf("expected truck to be found")
	}
	if truck.ID != "uuid-1" || truck.TruckID != "T-100" || truck.Status != domain.StatusActive {
		t.Fatalf("unexpected truck: %+v", truck)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindByTruckIDAbsentIsNotAnError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool failed: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery("FROM trucks WHERE truck_id").
		WithArgs("T-404").
		WillReturnError(pgx.ErrNoRows)

	s := NewPostgresStoreWithDB(mock)

	_, found, err := s.FindByTruckID(context.Background(), "T-404")
	if err != nil {
		t.Fatalf("absence must not be an error, got %v", err)
	}
	if found {
		t.Fatalf("expected found=false")
	}
}

func TestUpsertWithHistoryCommitsPair(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool failed: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO trucks").
		WithArgs(
			"T-100", "ETH-AB12CD34", "Unknown Driver", "+251XXXXXXXXX",
			"General Supplies", 5000.0, "ACTIVE",
			9.03, 38.74,
			(*float64)(nil), (*float64)(nil),
			40.0, 70.0, savedAt, "server-1",
		).
		WillReturnRows(addTruckRow(truckRows(), "uuid-1", "T-100"))
	mock.ExpectExec("INSERT INTO location_history").
		WithArgs("uuid-1", 9.03, 38.74, 40.0, 70.0, savedAt, "server-1").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	s := NewPostgresStoreWithDB(mock)

	truck := domain.Truck{
		TruckID:          "T-100",
		LicensePlate:     "ETH-AB12CD34",
		DriverName:       "Unknown Driver",
		DriverPhone:      "+251XXXXXXXXX",
		CargoType:        "General Supplies",
		Capacity:         5000,
		Status:           domain.StatusActive,
		CurrentLatitude:  9.03,
		CurrentLongitude: 38.74,
		Speed:            40,
		FuelLevel:        70,
		LastUpdated:      savedAt,
		ServerID:         "server-1",
	}
	entry := domain.HistoryEntry{
		Latitude:  9.03,
		Longitude: 38.74,
		Speed:     40,
		FuelLevel: 70,
		Timestamp: savedAt,
		ServerID:  "server-1",
	}

	saved, err := s.UpsertWithHistory(context.Background(), truck, entry)
	if err != nil {
		t.Fatalf("UpsertWithHistory failed: %v", err)
	}
	if saved.ID != "uuid-1" {
		t.Fatalf("expected persisted identity, got %+v", saved)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertWithHistoryRollsBackOnHistoryFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool failed: %v", err)
	}
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO trucks").
		WithArgs(
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnRows(addTruckRow(truckRows(), "uuid-1", "T-100"))
	mock.ExpectExec("INSERT INTO location_history").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	s := NewPostgresStoreWithDB(mock)

	_, err = s.UpsertWithHistory(context.Background(), domain.Truck{TruckID: "T-100"}, domain.HistoryEntry{})
	if err == nil {
		t.Fatalf("expected the transaction to fail")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTruckHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool failed: %v", err)
	}
	defer mock.Close()

	rows := pgxmock.NewRows([]string{
		"id", "truck_id", "latitude", "longitude", "speed", "fuel_level", "timestamp", "server_id",
	}).
		AddRow("h-2", "uuid-1", 9.05, 38.76, 45.0, 68.0, savedAt.Add(time.Minute), "server-1").
		AddRow("h-1", "uuid-1", 9.03, 38.74, 40.0, 70.0, savedAt, "server-1")

	mock.ExpectQuery("FROM location_history").
		WithArgs("T-100", 50).
		WillReturnRows(rows)

	s := NewPostgresStoreWithDB(mock)

	history, err := s.TruckHistory(context.Background(), "T-100", 50)
	if err != nil {
		t.Fatalf("TruckHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].ID != "h-2" || history[0].TruckRef != "uuid-1" {
		t.Fatalf("unexpected entry order: %+v", history)
	}
}
