package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"aid-safeguard/tracking/internal/domain"
)

// Warms the truck:<id> cache from Postgres so dashboards have data right
// after a restart, before fresh telemetry arrives.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file — using system environment variables")
	}

	ctx := context.Background()

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		seedGetEnv("DB_USER", "tracking_user"),
		seedGetEnv("DB_PASSWORD", "tracking_password"),
		seedGetEnv("DB_HOST", "localhost"),
		seedGetEnv("DB_PORT", "5432"),
		seedGetEnv("DB_NAME", "aid_tracking"),
	)

	fmt.Println("Connecting to Postgres...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✓ Connected")

	fmt.Println("Connecting to Redis...")
	client := redis.NewClient(&redis.Options{
		Addr:     seedGetEnv("REDIS_ADDR", "localhost:6379"),
		Password: seedGetEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})
	defer client.Close()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Connection failed: %v\n\nMake sure Redis is running:\n  docker-compose up -d redis", err)
	}
	fmt.Println("✓ Connected")

	trucks := step1_load_trucks(ctx, conn)
	step2_warm_cache(ctx, client, trucks)
	step3_verify(ctx, client, trucks)

	fmt.Println("\n✅ Cache warmed successfully")
}

func step1_load_trucks(ctx context.Context, conn *pgx.Conn) []domain.Truck {
	fmt.Println("\n── Step 1: Loading trucks from Postgres ────────")

	rows, err := conn.Query(ctx, `
		SELECT id, truck_id, license_plate, driver_name, driver_phone,
		       cargo_type, capacity, status,
		       current_latitude, current_longitude,
		       destination_latitude, destination_longitude,
		       speed, fuel_level, last_updated, server_id
		FROM trucks
	`)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	var trucks []domain.Truck
	for rows.Next() {
		var t domain.Truck
		err := rows.Scan(
			&t.ID, &t.TruckID, &t.LicensePlate, &t.DriverName, &t.DriverPhone,
			&t.CargoType, &t.Capacity, &t.Status,
			&t.CurrentLatitude, &t.CurrentLongitude,
			&t.DestinationLatitude, &t.DestinationLongitude,
			&t.Speed, &t.FuelLevel, &t.LastUpdated, &t.ServerID,
		)
		if err != nil {
			log.Fatalf("Scan failed: %v", err)
		}
		trucks = append(trucks, t)
	}

	fmt.Printf("  ✓ %d trucks loaded\n", len(trucks))
	return trucks
}

func step2_warm_cache(ctx context.Context, client *redis.Client, trucks []domain.Truck) {
	fmt.Println("\n── Step 2: Writing snapshots to Redis ──────────")

	ttl := time.Duration(seedGetEnvInt("CACHE_TTL_SECONDS", 300)) * time.Second

	for _, t := range trucks {
		payload, err := json.Marshal(t)
		if err != nil {
			log.Fatalf("Marshal failed for %s: %v", t.TruckID, err)
		}
		key := fmt.Sprintf("truck:%s", t.TruckID)
		if err := client.Set(ctx, key, payload, ttl).Err(); err != nil {
			log.Fatalf("Failed to set key %s: %v", key, err)
		}
		fmt.Printf("  ✓ %-30s (%s)\n", key, t.LicensePlate)
	}
}

func step3_verify(ctx context.Context, client *redis.Client, trucks []domain.Truck) {
	fmt.Println("\n── Step 3: Verification ────────────────────────")

	keys, err := client.Keys(ctx, "truck:*").Result()
	if err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
	fmt.Printf("  ✓ %d truck snapshots in Redis\n", len(keys))

	if len(trucks) > 0 {
		key := fmt.Sprintf("truck:%s", trucks[0].TruckID)
		val, err := client.Get(ctx, key).Result()
		if err != nil {
			log.Fatalf("Spot check failed: %v", err)
		}
		var t domain.Truck
		if err := json.Unmarshal([]byte(val), &t); err != nil {
			log.Fatalf("Spot check unmarshal failed: %v", err)
		}
		fmt.Printf("  ✓ spot check: %s → %s\n", key, t.TruckID)
	}
}

func seedGetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seedGetEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var n int
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}
