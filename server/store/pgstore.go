/*
 * Copyright 2024 The NATS Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats-account-lookup/server/conf"
)

// the token column of the first row matching the account, duplicates are not checked
const accountJWTQuery = "SELECT account_jwt FROM nats WHERE nsc_account_id = $1"

// PostgresJWTStore implements JWTStore on top of a shared pgx connection pool
type PostgresJWTStore struct {
	pool *pgxpool.Pool
}

// NewPostgresJWTStore opens the pool described by config and pings it once.
// An error here means the server cannot start.
func NewPostgresJWTStore(ctx context.Context, config conf.StoreConfig) (*PostgresJWTStore, error) {
	if config.ConnectionString == "" {
		return nil, conf.ErrMissingConnectionString
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if config.MaxConns > 0 {
		poolConfig.MaxConns = config.MaxConns
	}
	if config.MinConns > 0 {
		poolConfig.MinConns = config.MinConns
	}
	if config.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(config.MaxConnLifetime) * time.Millisecond
	}
	if config.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = time.Duration(config.HealthCheckPeriod) * time.Millisecond
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx := ctx
	if config.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, time.Duration(config.ConnectTimeout)*time.Millisecond)
		defer cancel()
	}

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &PostgresJWTStore{pool: pool}, nil
}

// Load runs the lookup query and scans the first row
func (store *PostgresJWTStore) Load(ctx context.Context, accountID string) (string, error) {
	var theJWT string
	err := store.pool.QueryRow(ctx, accountJWTQuery, accountID).Scan(&theJWT)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", NewQueryError(accountID, err)
	}
	return theJWT, nil
}

// Stats exposes the pool counters, mostly useful for tests and debugging
func (store *PostgresJWTStore) Stats() *pgxpool.Stat {
	return store.pool.Stat()
}

// Close releases every connection in the pool
func (store *PostgresJWTStore) Close() {
	store.pool.Close()
}
