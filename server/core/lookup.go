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

package core

import (
	"context"
	"errors"
	"time"

	"github.com/nats-io/nats-account-lookup/server/store"
)

// transports, used as the "transport" label
const (
	TransportHTTP = "http"
	TransportNATS = "nats"
)

const healthOK = "OK"

// Resolver maps an account identifier to its JWT using a shared store.
// A Resolver holds no per-request state and is safe for concurrent use.
type Resolver struct {
	store   store.JWTStore
	timeout time.Duration
}

// NewResolver creates a resolver over jwtStore, a positive timeout bounds every query
func NewResolver(jwtStore store.JWTStore, timeout time.Duration) *Resolver {
	return &Resolver{
		store:   jwtStore,
		timeout: timeout,
	}
}

// Resolve issues a single query for accountID. The identifier is passed through untouched.
// The error is store.ErrNotFound when no record exists and a *store.QueryError when the
// store failed or the query timed out. Neither the identifier nor the token is logged here,
// callers decide how to report the outcome.
func (r *Resolver) Resolve(ctx context.Context, transport string, accountID string) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	theJWT, err := r.store.Load(ctx, accountID)
	LookupDuration.WithLabelValues(transport).Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		LookupsTotal.WithLabelValues(transport, OutcomeFound).Inc()
		return theJWT, nil
	case errors.Is(err, store.ErrNotFound):
		LookupsTotal.WithLabelValues(transport, OutcomeNotFound).Inc()
		return "", store.ErrNotFound
	default:
		LookupsTotal.WithLabelValues(transport, OutcomeQueryFailed).Inc()
		if !store.IsQueryError(err) {
			err = store.NewQueryError(accountID, err)
		}
		return "", err
	}
}

// Health never touches the store, it only tells the caller the process is serving
func (r *Resolver) Health() string {
	return healthOK
}
