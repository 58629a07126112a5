package config

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/lib/pq"
)

// InitDatabase creates the key-value table on startup.
// dropExisting wipes the table first (DROP_TABLES_ON_STARTUP=true).
func InitDatabase(db *sql.DB, dropExisting bool) error {
	// Only drop tables if explicitly requested
	// This prevents accidental data loss on restart
	if dropExisting {
		log.Println("Dropping existing tables (DROP_TABLES_ON_STARTUP=true)...")
		if _, err := db.Exec("DROP TABLE IF EXISTS kv_store"); err != nil {
			log.Printf("Warning: Failed to drop kv_store table: %v", err)
		}
	}

	log.Println("Creating kv_store table...")
	schema := `
	CREATE TABLE IF NOT EXISTS kv_store (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT now()
	);`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create kv_store table: %w", err)
	}

	// Per-user keys share the "user:<name>:" prefix
	if _, err := db.Exec("CREATE INDEX IF NOT EXISTS idx_kv_store_key_prefix ON kv_store (key text_pattern_ops)"); err != nil {
		log.Printf("Warning: Failed to create index: %v", err)
	}

	log.Println("Database schema initialized successfully")
	return nil
}

// ConnectDatabase establishes a connection to PostgreSQL with retry logic
func ConnectDatabase(databaseURL string, maxRetries int, retryDelay time.Duration) (*sql.DB, error) {
	var db *sql.DB
	var err error

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			log.Printf("Failed to open database connection (attempt %d/%d): %v", i+1, maxRetries, err)
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
		}

		// Test the connection
		if err = db.Ping(); err != nil {
			log.Printf("Failed to ping database (attempt %d/%d): %v", i+1, maxRetries, err)
			db.Close()
			if i < maxRetries-1 {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf("failed to ping database after %d attempts: %w", maxRetries, err)
		}

		// Configure connection pool
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		log.Println("Database connection established successfully")
		return db, nil
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}
