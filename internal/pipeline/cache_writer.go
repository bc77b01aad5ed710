package pipeline

import (
	"context"
	"log"
	"time"

	"aid-safeguard/tracking/internal/domain"
	"aid-safeguard/tracking/internal/metrics"
)

// Cache is the write side of the read-optimized truck state mirror.
type Cache interface {
	Put(ctx context.Context, truckID string, truck domain.Truck) error
}

// CacheWriter refreshes cache entries off the request path. Enqueue never
// blocks: when the channel is full the refresh is dropped and counted, since a
// later sample for the same truck supersedes it anyway.
type CacheWriter struct {
	ch      chan domain.Truck
	cache   Cache
	timeout time.Duration
	logger  *log.Logger
}

func NewCacheWriter(cache Cache, size int, timeout time.Duration, logger *log.Logger) *CacheWriter {
	return &CacheWriter{
		ch:      make(chan domain.Truck, size),
		cache:   cache,
		timeout: timeout,
		logger:  logger,
	}
}

func (w *CacheWriter) Enqueue(truck domain.Truck) {
	select {
	case w.ch <- truck:
	default:
		metrics.CacheQueueDrops.Inc()
	}
}

func (w *CacheWriter) Run(ctx context.Context) {
	for {
		select {
		case truck, ok := <-w.ch:
			if !ok {
				return
			}
			w.write(truck)

		case <-ctx.Done():
			// Drain what is already queued before stopping.
			for {
				select {
				case truck := <-w.ch:
					w.write(truck)
				default:
					return
				}
			}
		}
	}
}

func (w *CacheWriter) write(truck domain.Truck) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.cache.Put(ctx, truck.TruckID, truck); err != nil {
		metrics.CacheWriteFailures.Inc()
		w.logger.Printf("cache refresh failed for %s: %v", truck.TruckID, err)
	}
}
