package domain

import "time"

type TruckStatus string

const (
	StatusActive      TruckStatus = "ACTIVE"
	StatusIdle        TruckStatus = "IDLE"
	StatusMaintenance TruckStatus = "MAINTENANCE"
	StatusEmergency   TruckStatus = "EMERGENCY"
	StatusOffline     TruckStatus = "OFFLINE"
)

// Truck is the current state of one aid-delivery truck. ID is the internal
// storage identity (generated by Postgres); TruckID is the external business
// key and is unique across the fleet.
type Truck struct {
	ID           string      `json:"id"`
	TruckID      string      `json:"truckId"`
	LicensePlate string      `json:"licensePlate"`
	DriverName   string      `json:"driverName"`
	DriverPhone  string      `json:"driverPhone"`
	CargoType    string      `json:"cargoType"`
	Capacity     float64     `json:"capacity"`
	Status       TruckStatus `json:"status"`

	CurrentLatitude  float64 `json:"currentLatitude"`
	CurrentLongitude float64 `json:"currentLongitude"`

	DestinationLatitude  *float64 `json:"destinationLatitude,omitempty"`
	DestinationLongitude *float64 `json:"destinationLongitude,omitempty"`

	Speed       float64   `json:"speed"`
	FuelLevel   float64   `json:"fuelLevel"`
	LastUpdated time.Time `json:"lastUpdated"`
	ServerID    string    `json:"serverId"`
}

// HistoryEntry is one past position of a truck. TruckRef holds the owning
// truck's internal id only; the truck does not hold its history in memory.
// Entries are written once and never updated or deleted.
type HistoryEntry struct {
	ID        string    `json:"id"`
	TruckRef  string    `json:"truckRef"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	FuelLevel float64   `json:"fuelLevel"`
	Timestamp time.Time `json:"timestamp"`
	ServerID  string    `json:"serverId"`
}
