package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"aid-safeguard/tracking/internal/domain"
	"aid-safeguard/tracking/internal/metrics"
)

// ErrStorage marks transient store failures. Nothing was committed; the whole
// request may be retried.
var ErrStorage = errors.New("storage unavailable")

// TruckRepository is durable truck state plus its append-only history.
// UpsertWithHistory must persist both records or neither.
type TruckRepository interface {
	FindByTruckID(ctx context.Context, truckID string) (domain.Truck, bool, error)
	UpsertWithHistory(ctx context.Context, truck domain.Truck, entry domain.HistoryEntry) (domain.Truck, error)
	ListTrucks(ctx context.Context) ([]domain.Truck, error)
	TruckHistory(ctx context.Context, truckID string, limit int) ([]domain.HistoryEntry, error)
}

// CacheRefresher accepts truck snapshots for asynchronous cache write-through.
type CacheRefresher interface {
	Enqueue(truck domain.Truck)
}

const (
	defaultDriverName  = "Unknown Driver"
	defaultDriverPhone = "+251XXXXXXXXX"
	defaultCargoType   = "General Supplies"
	defaultCapacity    = 5000.0
)

type Service struct {
	repo         TruckRepository
	cache        CacheRefresher
	serverID     string
	storeTimeout time.Duration
	logger       *log.Logger
	now          func() time.Time
}

func NewService(
	repo TruckRepository,
	cache CacheRefresher,
	serverID string,
	storeTimeout time.Duration,
	logger *log.Logger,
) *Service {
	return &Service{
		repo:         repo,
		cache:        cache,
		serverID:     serverID,
		storeTimeout: storeTimeout,
		logger:       logger,
		now:          time.Now,
	}
}

// RecordSample applies one validated telemetry sample: find-or-create the
// truck, overwrite its mutable fields, append the paired history entry in the
// same transaction, then hand the result to the cache writer. Returns the
// persisted truck state.
func (s *Service) RecordSample(ctx context.Context, sample domain.TelemetrySample) (domain.Truck, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	now := s.now()

	existing, found, err := s.repo.FindByTruckID(ctx, sample.TruckID)
	if err != nil {
		metrics.UpsertFailures.Inc()
		return domain.Truck{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	var truck domain.Truck
	if found {
		truck = existing
		truck.CurrentLatitude = sample.Latitude
		truck.CurrentLongitude = sample.Longitude
		truck.Speed = sample.Speed
		truck.FuelLevel = sample.FuelLevel
		truck.LastUpdated = now
	} else {
		s.logger.Printf("creating new truck with ID: %s", sample.TruckID)
		truck = s.newTruck(sample, now)
	}

	entry := domain.HistoryEntry{
		Latitude:  sample.Latitude,
		Longitude: sample.Longitude,
		Speed:     sample.Speed,
		FuelLevel: sample.FuelLevel,
		Timestamp: now,
		ServerID:  s.serverID,
	}

	saved, err := s.repo.UpsertWithHistory(ctx, truck, entry)
	if err != nil {
		metrics.UpsertFailures.Inc()
		return domain.Truck{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	metrics.HistoryAppends.Inc()
	if !found {
		metrics.TrucksCreated.Inc()
	}

	s.cache.Enqueue(saved)

	return saved, nil
}

// newTruck builds the first record for an unseen business key. Only location,
// speed and fuel come from the sample; assignment fields get placeholders
// until dispatch fills them in.
func (s *Service) newTruck(sample domain.TelemetrySample, now time.Time) domain.Truck {
	return domain.Truck{
		TruckID:          sample.TruckID,
		LicensePlate:     "ETH-" + strings.ToUpper(uuid.NewString()[:8]),
		DriverName:       defaultDriverName,
		DriverPhone:      defaultDriverPhone,
		CargoType:        defaultCargoType,
		Capacity:         defaultCapacity,
		Status:           domain.StatusActive,
		CurrentLatitude:  sample.Latitude,
		CurrentLongitude: sample.Longitude,
		Speed:            sample.Speed,
		FuelLevel:        sample.FuelLevel,
		LastUpdated:      now,
		ServerID:         s.serverID,
	}
}

func (s *Service) Trucks(ctx context.Context) ([]domain.Truck, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	trucks, err := s.repo.ListTrucks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return trucks, nil
}

// TruckWithHistory returns one truck and its most recent history entries.
// The boolean reports whether the business key is known.
func (s *Service) TruckWithHistory(ctx context.Context, truckID string, limit int) (domain.Truck, []domain.HistoryEntry, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	truck, found, err := s.repo.FindByTruckID(ctx, truckID)
	if err != nil {
		return domain.Truck{}, nil, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if !found {
		return domain.Truck{}, nil, false, nil
	}

	history, err := s.repo.TruckHistory(ctx, truckID, limit)
	if err != nil {
		return domain.Truck{}, nil, false, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return truck, history, true, nil
}
