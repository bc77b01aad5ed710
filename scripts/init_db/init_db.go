package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found — using system environment variables")
	}

	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s",
		dbGetEnv("DB_USER", "tracking_user"),
		dbGetEnv("DB_PASSWORD", "tracking_password"),
		dbGetEnv("DB_HOST", "localhost"),
		dbGetEnv("DB_PORT", "5432"),
		dbGetEnv("DB_NAME", "aid_tracking"),
	)

	ctx := context.Background()

	fmt.Println("Connecting to Postgres...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Connection failed: %v\n\nMake sure Postgres is running:\n  docker-compose up -d postgres", err)
	}
	defer conn.Close(ctx)
	fmt.Println("✓ Connected")

	step1_extensions(ctx, conn)
	step2_trucks_table(ctx, conn)
	step3_history_table(ctx, conn)
	step4_indexes(ctx, conn)
	step5_verify(ctx, conn)

	fmt.Println("\n✅ Database initialised successfully")
	fmt.Println("   Run next: go run ./scripts/seed_redis")
}

// ─────────────────────────────────────────────────────────────
// Step 1 — Extensions
// ─────────────────────────────────────────────────────────────
func step1_extensions(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 1: Extensions ──────────────────────────")

	// pgcrypto — gen_random_uuid() for record identities
	execOrFatal(ctx, conn,
		"CREATE EXTENSION IF NOT EXISTS pgcrypto;",
		"pgcrypto extension",
	)
}

// ─────────────────────────────────────────────────────────────
// Step 2 — trucks table (current state, one row per business key)
// ─────────────────────────────────────────────────────────────
func step2_trucks_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 2: trucks table ────────────────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS trucks (

			-- Internal identity — opaque, stable, never reused
			id                    UUID             PRIMARY KEY DEFAULT gen_random_uuid(),

			-- External business key — exactly one row per truck
			truck_id              TEXT             NOT NULL UNIQUE,

			-- Assignment fields — untouched by telemetry updates
			license_plate         TEXT             NOT NULL,
			driver_name           TEXT             NOT NULL,
			driver_phone          TEXT             NOT NULL,
			cargo_type            TEXT             NOT NULL,
			capacity              DOUBLE PRECISION NOT NULL,
			status                TEXT             NOT NULL,

			-- Mutable telemetry state
			current_latitude      DOUBLE PRECISION NOT NULL,
			current_longitude     DOUBLE PRECISION NOT NULL,
			destination_latitude  DOUBLE PRECISION,
			destination_longitude DOUBLE PRECISION,
			speed                 DOUBLE PRECISION NOT NULL,
			fuel_level            DOUBLE PRECISION NOT NULL,
			last_updated          TIMESTAMPTZ      NOT NULL,

			-- Which deployment instance wrote this record
			server_id             TEXT             NOT NULL,

			CONSTRAINT chk_status CHECK (
				status IN ('ACTIVE', 'IDLE', 'MAINTENANCE', 'EMERGENCY', 'OFFLINE')
			),

			CONSTRAINT chk_fuel_level CHECK (
				fuel_level >= 0 AND fuel_level <= 100
			)
		);
	`, "trucks table created")
}

// ─────────────────────────────────────────────────────────────
// Step 3 — location_history table (append-only)
// ─────────────────────────────────────────────────────────────
func step3_history_table(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 3: location_history table ──────────────")

	execOrFatal(ctx, conn, `
		CREATE TABLE IF NOT EXISTS location_history (

			id          UUID             PRIMARY KEY DEFAULT gen_random_uuid(),

			-- Owning truck's internal id. Rows go away with their truck,
			-- though no delete path exists in the service itself.
			truck_id    UUID             NOT NULL
			            REFERENCES trucks(id) ON DELETE CASCADE,

			latitude    DOUBLE PRECISION NOT NULL,
			longitude   DOUBLE PRECISION NOT NULL,
			speed       DOUBLE PRECISION NOT NULL,
			fuel_level  DOUBLE PRECISION NOT NULL,
			timestamp   TIMESTAMPTZ      NOT NULL,
			server_id   TEXT             NOT NULL
		);
	`, "location_history table created")
}

// ─────────────────────────────────────────────────────────────
// Step 4 — Indexes
// ─────────────────────────────────────────────────────────────
func step4_indexes(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 4: Indexes ─────────────────────────────")

	indexes := []struct {
		name string
		sql  string
		why  string
	}{
		{
			name: "idx_history_truck_time",
			sql: `CREATE INDEX IF NOT EXISTS idx_history_truck_time
				  ON location_history (truck_id, timestamp DESC);`,
			why: "query: recent history for one truck",
		},
		{
			name: "idx_trucks_last_updated",
			sql: `CREATE INDEX IF NOT EXISTS idx_trucks_last_updated
				  ON trucks (last_updated DESC);`,
			why: "query: fleet overview ordered by freshness",
		},
	}

	for _, idx := range indexes {
		execOrFatal(ctx, conn, idx.sql,
			fmt.Sprintf("%-30s ← %s", idx.name, idx.why),
		)
	}
}

// ─────────────────────────────────────────────────────────────
// Step 5 — Verify everything was created
// ─────────────────────────────────────────────────────────────
func step5_verify(ctx context.Context, conn *pgx.Conn) {
	fmt.Println("\n── Step 5: Verification ────────────────────────")

	tables := []string{"trucks", "location_history"}
	for _, table := range tables {
		var exists bool
		err := conn.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.tables
				WHERE table_name = $1
			)
		`, table).Scan(&exists)
		if err != nil || !exists {
			log.Fatalf("Table %s was not created: %v", table, err)
		}
		fmt.Printf("  ✓ table: %s\n", table)
	}

	// The unique constraint on truck_id is what makes the upsert safe
	var unique bool
	err := conn.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_constraint
			WHERE conrelid = 'trucks'::regclass AND contype = 'u'
		)
	`).Scan(&unique)
	if err != nil || !unique {
		log.Fatalf("trucks.truck_id unique constraint missing: %v", err)
	}
	fmt.Println("  ✓ unique constraint: trucks.truck_id")

	var indexCount int
	err = conn.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM pg_indexes
		WHERE tablename IN ('trucks', 'location_history')
		AND indexname LIKE 'idx_%'
	`).Scan(&indexCount)
	if err != nil {
		log.Fatalf("Index check failed: %v", err)
	}
	fmt.Printf("  ✓ indexes created: %d\n", indexCount)
}

// ─────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────

// execOrFatal runs a SQL statement and prints result or exits on error
func execOrFatal(ctx context.Context, conn *pgx.Conn, sql, label string) {
	_, err := conn.Exec(ctx, sql)
	if err != nil {
		log.Fatalf("FAILED — %s\nError: %v\nSQL: %s", label, err, sql)
	}
	fmt.Printf("  ✓ %s\n", label)
}

func dbGetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
