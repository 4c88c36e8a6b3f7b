package database

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection with pooling
type DB struct {
	*sql.DB
	pool     *ConnectionPool
	prepared map[string]*sql.Stmt
	mutex    sync.RWMutex
}

// ConnectionPool manages database connection pooling
type ConnectionPool struct {
	db           *sql.DB
	maxOpenConns int
	maxIdleConns int
	maxLifetime  time.Duration
}

// NewConnectionPool creates a new database connection pool
func NewConnectionPool(db *sql.DB, maxOpen, maxIdle int, maxLifetime time.Duration) *ConnectionPool {
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(maxLifetime)

	return &ConnectionPool{
		db:           db,
		maxOpenConns: maxOpen,
		maxIdleConns: maxIdle,
		maxLifetime:  maxLifetime,
	}
}

// GetStats returns connection pool statistics
func (cp *ConnectionPool) GetStats() map[string]interface{} {
	stats := cp.db.Stats()

	return map[string]interface{}{
		"open_connections":     stats.OpenConnections,
		"in_use":               stats.InUse,
		"idle":                 stats.Idle,
		"max_open_connections": cp.maxOpenConns,
		"max_idle_connections": cp.maxIdleConns,
		"max_lifetime_seconds": cp.maxLifetime.Seconds(),
		"wait_count":           stats.WaitCount,
		"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
	}
}

// NewDB creates a new database connection with optimized pooling
func NewDB(dataDir string) (*DB, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "roadmap_prioritizer.db")

	connStr := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	pool := NewConnectionPool(db, 25, 5, 5*time.Minute)

	database := &DB{
		DB:       db,
		pool:     pool,
		prepared: make(map[string]*sql.Stmt),
	}

	if err := database.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := database.initPreparedStatements(); err != nil {
		return nil, fmt.Errorf("failed to initialize prepared statements: %w", err)
	}

	slog.Info("Database initialized with connection pooling",
		"max_open_conns", pool.maxOpenConns,
		"max_idle_conns", pool.maxIdleConns,
		"max_lifetime", pool.maxLifetime)

	return database, nil
}

// migrate creates the necessary tables
func (db *DB) migrate() error {
	queries := []string{
		// Customer feedback: one row per feature request from a stakeholder
		`CREATE TABLE IF NOT EXISTS customer_feedback (
			id TEXT PRIMARY KEY,
			customer_id TEXT,
			feature_request TEXT NOT NULL,
			feedback_type TEXT,
			priority_level TEXT,
			source TEXT,
			customer_segment TEXT,
			revenue_impact REAL,
			effort_estimate INTEGER,
			business_value_score INTEGER,
			created_at DATETIME NOT NULL
		)`,

		// Usage metrics: per-user observations of shipped feature usage
		`CREATE TABLE IF NOT EXISTS usage_metrics (
			id TEXT PRIMARY KEY,
			feature_name TEXT NOT NULL,
			user_id TEXT NOT NULL,
			usage_count INTEGER,
			session_duration REAL,
			date_recorded DATE,
			user_segment TEXT,
			conversion_impact REAL,
			retention_impact REAL,
			created_at DATETIME NOT NULL
		)`,

		// Stakeholder assistant query log
		`CREATE TABLE IF NOT EXISTS assistant_queries (
			id TEXT PRIMARY KEY,
			query_text TEXT NOT NULL,
			stakeholder_role TEXT,
			response TEXT,
			created_at DATETIME NOT NULL
		)`,

		// Indexes for the aggregation queries
		`CREATE INDEX IF NOT EXISTS idx_feedback_feature ON customer_feedback(feature_request)`,
		`CREATE INDEX IF NOT EXISTS idx_feedback_created ON customer_feedback(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_feature ON usage_metrics(feature_name)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_user ON usage_metrics(feature_name, user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_assistant_created ON assistant_queries(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	return nil
}

// initPreparedStatements initializes frequently used prepared statements
func (db *DB) initPreparedStatements() error {
	statements := map[string]string{
		"insert_feedback": `INSERT INTO customer_feedback (
			id, customer_id, feature_request, feedback_type, priority_level,
			source, customer_segment, revenue_impact, effort_estimate,
			business_value_score, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"insert_usage": `INSERT INTO usage_metrics (
			id, feature_name, user_id, usage_count, session_duration,
			date_recorded, user_segment, conversion_impact, retention_impact,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,

		"insert_assistant_query": `INSERT INTO assistant_queries (
			id, query_text, stakeholder_role, response, created_at
		) VALUES (?, ?, ?, ?, ?)`,

		"feedback_aggregates": `SELECT
			feature_request,
			COUNT(*) AS request_count,
			AVG(business_value_score) AS avg_business_value,
			AVG(revenue_impact) AS avg_revenue_impact,
			AVG(effort_estimate) AS avg_effort,
			SUM(CASE WHEN priority_level = 'critical' THEN 1 ELSE 0 END) AS critical_requests,
			SUM(CASE WHEN priority_level = 'high' THEN 1 ELSE 0 END) AS high_requests
			FROM customer_feedback
			GROUP BY feature_request`,

		"segment_priorities": `SELECT
			customer_segment,
			COUNT(*) AS request_count,
			AVG(revenue_impact) AS avg_revenue_impact,
			AVG(business_value_score) AS avg_business_value
			FROM customer_feedback
			WHERE customer_segment != ''
			GROUP BY customer_segment`,

		"segment_feature_demand": `SELECT
			customer_segment,
			feature_request,
			COUNT(*) AS request_count,
			AVG(revenue_impact) AS avg_revenue_impact,
			AVG(business_value_score) AS avg_business_value
			FROM customer_feedback
			WHERE customer_segment != ''
			GROUP BY customer_segment, feature_request
			ORDER BY customer_segment, request_count DESC`,

		"usage_aggregates": `SELECT
			feature_name,
			COUNT(DISTINCT user_id) AS unique_users,
			AVG(usage_count) AS avg_usage,
			AVG(session_duration) AS avg_session_duration,
			AVG(conversion_impact) AS avg_conversion_impact,
			AVG(retention_impact) AS avg_retention_impact
			FROM usage_metrics
			GROUP BY feature_name`,
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, query := range statements {
		stmt, err := db.Prepare(query)
		if err != nil {
			return fmt.Errorf("failed to prepare statement %s: %w", name, err)
		}
		db.prepared[name] = stmt

		slog.Debug("Prepared statement initialized", "name", name)
	}

	return nil
}

// GetPreparedStatement retrieves a prepared statement
func (db *DB) GetPreparedStatement(name string) (*sql.Stmt, error) {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	stmt, exists := db.prepared[name]
	if !exists {
		return nil, fmt.Errorf("prepared statement %s not found", name)
	}

	return stmt, nil
}

// GetPoolStats returns database connection pool statistics
func (db *DB) GetPoolStats() map[string]interface{} {
	return db.pool.GetStats()
}

// Close closes the database connection and prepared statements
func (db *DB) Close() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	for name, stmt := range db.prepared {
		if err := stmt.Close(); err != nil {
			slog.Warn("Failed to close prepared statement", "name", name, "error", err)
		}
	}

	db.prepared = make(map[string]*sql.Stmt)

	return db.DB.Close()
}
