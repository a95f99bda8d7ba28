// Package main provides a CLI tool for seeding the database with an
// admin account and optional demo catalogs.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"bodega/internal/core/id"
	"bodega/internal/infrastructure/storage/postgres"
	"bodega/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	if err := seedAdminUser(ctx, pool, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding complete")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	adminDNI := envOr("ADMIN_DNI", "00000000")
	adminPassword := envOr("ADMIN_PASSWORD", "change-me-now")

	var existing string
	err := pool.QueryRow(ctx, "SELECT dni FROM users WHERE dni = $1", adminDNI).Scan(&existing)
	if err == nil {
		log.Infow("admin user already exists", "dni", adminDNI)
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = pool.Exec(ctx,
		"INSERT INTO users (dni, name, role, password_hash, active, created_at) VALUES ($1, $2, $3, $4, true, $5)",
		adminDNI, "Administrator", "admin", string(hash), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created", "dni", adminDNI)
	return nil
}

func seedDemoData(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	now := time.Now().UTC()

	categoryID := id.New()
	if _, err := pool.Exec(ctx,
		"INSERT INTO categories (id, name, created_at) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING",
		categoryID, "General", now); err != nil {
		return fmt.Errorf("insert demo category: %w", err)
	}

	for _, name := range []string{"Central", "North Site"} {
		if _, err := pool.Exec(ctx,
			"INSERT INTO warehouses (id, name, location, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING",
			id.New(), name, "", now); err != nil {
			return fmt.Errorf("insert demo warehouse: %w", err)
		}
	}

	if _, err := pool.Exec(ctx,
		"INSERT INTO suppliers (id, name, tax_id, phone, address, created_at) VALUES ($1, $2, $3, $4, $5, $6) ON CONFLICT DO NOTHING",
		id.New(), "Demo Supplier SAC", "20123456789", "", "", now); err != nil {
		return fmt.Errorf("insert demo supplier: %w", err)
	}

	log.Info("demo data seeded")
	return nil
}

func envOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
