/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

var supportedTypes = []string{TypeSQLite, "sqlite3", TypePostgres, "postgresql", TypePgx, TypeMySQL}

// ContextFactory hands out data contexts over one connection pool.
type ContextFactory struct {
	manager AbstractDatabaseManager
	db      *bun.DB
	logger  Logger
	sink    DiagnosticSink
	shared  *DbContext
}

// FactoryOption customizes a ContextFactory.
type FactoryOption func(*ContextFactory)

// WithDiagnosticSink routes every executed query to sink.
func WithDiagnosticSink(sink DiagnosticSink) FactoryOption {
	return func(f *ContextFactory) {
		f.sink = sink
	}
}

// WithLogger sets the logger used by the factory and its manager.
func WithLogger(logger Logger) FactoryOption {
	return func(f *ContextFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewContextFactory connects to the database described by cfg, after
// applying environment overrides, and returns a factory over its pool.
func NewContextFactory(ctx context.Context, cfg *ConnectionConfig, opts ...FactoryOption) (*ContextFactory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database configuration cannot be empty")
	}
	overrideFromEnv(cfg)
	if !slices.Contains(supportedTypes, cfg.Type) {
		return nil, fmt.Errorf("unsupported database type: %s, supported types: %v", cfg.Type, supportedTypes)
	}

	f := newContextFactory(opts)
	manager := NewDatabaseManager(cfg)
	manager.SetLogger(f.logger)
	if err := manager.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	f.manager = manager
	f.db = manager.GetDB()
	f.installHooks()
	return f, nil
}

// NewContextFactoryFromDB wraps an already opened Bun database. Closing the
// factory closes db.
func NewContextFactoryFromDB(db *bun.DB, opts ...FactoryOption) *ContextFactory {
	f := newContextFactory(opts)
	f.db = db
	f.installHooks()
	return f
}

func newContextFactory(opts []FactoryOption) *ContextFactory {
	f := &ContextFactory{logger: GetLogger()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *ContextFactory) installHooks() {
	for _, model := range RegisteredModelInstances() {
		f.db.RegisterModel(model)
	}
	if f.sink != nil {
		f.db.AddQueryHook(&diagnosticHook{sink: f.sink})
	}
}

// overrideFromEnv overrides configuration values from environment variables.
func overrideFromEnv(cfg *ConnectionConfig) {
	if typ := os.Getenv("DB_TYPE"); typ != "" {
		cfg.Type = typ
	}
	if dsn := os.Getenv("DB_CONNECTION_STRING"); dsn != "" {
		cfg.DSN = dsn
	}
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.Port = p
		}
	}
	if username := os.Getenv("DB_USERNAME"); username != "" {
		cfg.Username = username
	}
	if password := os.Getenv("DB_PASSWORD"); password != "" {
		cfg.Password = password
	}
	if dbname := os.Getenv("DB_NAME"); dbname != "" {
		cfg.DBName = dbname
	}
	if sslmode := os.Getenv("DB_SSLMODE"); sslmode != "" {
		cfg.SSLMode = sslmode
	}
	// Connection pool config
	if maxIdle := os.Getenv("DB_MAX_IDLE_CONNS"); maxIdle != "" {
		if val, err := strconv.Atoi(maxIdle); err == nil {
			cfg.MaxIdleConns = val
		}
	}
	if maxOpen := os.Getenv("DB_MAX_OPEN_CONNS"); maxOpen != "" {
		if val, err := strconv.Atoi(maxOpen); err == nil {
			cfg.MaxOpenConns = val
		}
	}
	if maxLifetime := os.Getenv("DB_CONN_MAX_LIFETIME"); maxLifetime != "" {
		if val, err := strconv.Atoi(maxLifetime); err == nil {
			cfg.ConnMaxLifetime = time.Duration(val) * time.Second
		}
	}
	if enableQueryLog := os.Getenv("DB_ENABLE_QUERY_LOG"); enableQueryLog != "" {
		cfg.EnableQueryLog = enableQueryLog == "true"
	}
}

// Open starts a session on a dedicated pooled connection. Closing the
// returned context hands the connection back to the pool.
func (f *ContextFactory) Open(ctx context.Context) (Context, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, NewQueryFailure("open", "", err)
	}
	return NewContext(&conn, conn.Close), nil
}

// Shared returns the long-lived session over the pool itself. Every call
// returns the same context; it is released by Close.
func (f *ContextFactory) Shared() Context {
	if f.shared == nil {
		f.shared = NewContext(f.db, nil)
	}
	return f.shared
}

// DB returns the underlying Bun database.
func (f *ContextFactory) DB() *bun.DB {
	return f.db
}

func (f *ContextFactory) Logger() Logger {
	return f.logger
}

// EnsureSchema creates any missing table of the registered models.
func (f *ContextFactory) EnsureSchema(ctx context.Context) error {
	return EnsureSchema(ctx, f.db)
}

// HealthCheck pings the pool and reports connection usage.
func (f *ContextFactory) HealthCheck(ctx context.Context) *HealthStatus {
	if f.manager != nil {
		return f.manager.HealthCheck(ctx)
	}
	start := time.Now()
	status := &HealthStatus{LastCheckTime: start}
	err := f.db.PingContext(ctx)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = err.Error()
		return status
	}
	status.Healthy = true
	status.Connected = true
	stats := f.db.DB.Stats()
	status.ActiveConns = stats.InUse
	status.IdleConns = stats.Idle
	status.MaxOpenConns = stats.MaxOpenConnections
	return status
}

// Stats returns connection pool statistics.
func (f *ContextFactory) Stats() *DBStats {
	if f.manager != nil {
		return f.manager.GetStats()
	}
	return statsOf(f.db.DB)
}

// Close releases the shared session and closes the pool.
func (f *ContextFactory) Close() error {
	if f.shared != nil {
		_ = f.shared.Close()
		f.shared = nil
	}
	if f.manager != nil {
		return f.manager.Disconnect()
	}
	return f.db.Close()
}
