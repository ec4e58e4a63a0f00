package db

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"farmacia-compras/logger"
)

//go:embed schema.sql
var schema string

// DB holds the database connection
var DB *sql.DB

// InitDB opens and pings the PostgreSQL connection through the pgx driver
func InitDB(ctx context.Context, connStr string) (*sql.DB, error) {
	if connStr == "" {
		return nil, fmt.Errorf("database connection variables not set. Set DATABASE_URL or DB_HOST, DB_USER, DB_NAME")
	}

	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	DB = conn
	logger.Log.Infof("✓ Database connection established successfully")
	return conn, nil
}

// Migrate creates the tables the service needs when they do not exist
func Migrate(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Log.Infof("✓ Database schema applied")
	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
