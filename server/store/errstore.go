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
	"sync/atomic"
)

// ErrStoreUnavailable is the cause reported by ErrJWTStore
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrJWTStore fails every load with a QueryError and counts the calls
type ErrJWTStore struct {
	loads  int64
	closes int64
}

// NewErrJWTStore returns a store that is never able to answer
func NewErrJWTStore() *ErrJWTStore {
	return &ErrJWTStore{}
}

// Load always fails
func (store *ErrJWTStore) Load(ctx context.Context, accountID string) (string, error) {
	atomic.AddInt64(&store.loads, 1)
	return "", NewQueryError(accountID, ErrStoreUnavailable)
}

// Loads returns the number of Load calls so far
func (store *ErrJWTStore) Loads() int {
	return int(atomic.LoadInt64(&store.loads))
}

// Close counts the call
func (store *ErrJWTStore) Close() {
	atomic.AddInt64(&store.closes, 1)
}

// Closes returns the number of Close calls so far
func (store *ErrJWTStore) Closes() int {
	return int(atomic.LoadInt64(&store.closes))
}
