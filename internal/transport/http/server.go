package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aid-safeguard/tracking/internal/domain"
	"aid-safeguard/tracking/internal/metrics"
)

const healthMessage = "ETHIO Safeguard Backend is UP!"

// TruckService is the subset of the tracker the transport needs.
type TruckService interface {
	RecordSample(ctx context.Context, sample domain.TelemetrySample) (domain.Truck, error)
	Trucks(ctx context.Context) ([]domain.Truck, error)
	TruckWithHistory(ctx context.Context, truckID string, limit int) (domain.Truck, []domain.HistoryEntry, bool, error)
}

type Server struct {
	service      TruckService
	subscriber   Subscriber
	historyLimit int
	logger       *log.Logger
	mux          *http.ServeMux
}

func NewServer(service TruckService, subscriber Subscriber, historyLimit int, logger *log.Logger) *Server {
	s := &Server{
		service:      service,
		subscriber:   subscriber,
		historyLimit: historyLimit,
		logger:       logger,
		mux:          http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/v1/tracking/location", s.handleUpdateLocation)
	s.mux.HandleFunc("GET /api/v1/tracking/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/v1/tracking/trucks", s.handleListTrucks)
	s.mux.HandleFunc("GET /api/v1/tracking/trucks/{truckId}", s.handleGetTruck)
	s.mux.HandleFunc("GET /api/v1/tracking/stream", s.handleStream)
	s.mux.Handle("GET /metrics", promhttp.Handler())
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	metrics.SamplesReceived.Inc()

	var sample domain.TelemetrySample
	if err := json.NewDecoder(r.Body).Decode(&sample); err != nil {
		metrics.SamplesRejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if errs := sample.Validate(); errs != nil {
		metrics.SamplesRejected.Inc()
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	truck, err := s.service.RecordSample(r.Context(), sample)
	if err != nil {
		s.logger.Printf("location update failed for %s: %v", sample.TruckID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, truck)
}

// handleHealth reports process liveness only. It must answer even when the
// stores are down.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(healthMessage))
}

func (s *Server) handleListTrucks(w http.ResponseWriter, r *http.Request) {
	trucks, err := s.service.Trucks(r.Context())
	if err != nil {
		s.logger.Printf("list trucks failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, trucks)
}

func (s *Server) handleGetTruck(w http.ResponseWriter, r *http.Request) {
	truckID := r.PathValue("truckId")

	truck, history, found, err := s.service.TruckWithHistory(r.Context(), truckID, s.historyLimit)
	if err != nil {
		s.logger.Printf("get truck %s failed: %v", truckID, err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "truck not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"truck":   truck,
		"history": history,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
