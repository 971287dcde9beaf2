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
	"sync"
)

// MemJWTStore implements the JWT Store interface, keeping all data in memory.
// Records can be added and removed, which the read path never does, so tests
// can play the part of the external issuer.
type MemJWTStore struct {
	sync.RWMutex
	jwts map[string]string
}

// NewMemJWTStore returns an empty in-memory JWT store
func NewMemJWTStore() *MemJWTStore {
	return &MemJWTStore{
		jwts: map[string]string{},
	}
}

// NewMemJWTStoreFromMap returns a store holding a copy of the provided map
func NewMemJWTStoreFromMap(theJWTs map[string]string) *MemJWTStore {
	store := NewMemJWTStore()
	for k, v := range theJWTs {
		store.jwts[k] = v
	}
	return store
}

// Load checks the memory store and returns the matching JWT or ErrNotFound
func (store *MemJWTStore) Load(ctx context.Context, accountID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewQueryError(accountID, err)
	}

	store.RLock()
	defer store.RUnlock()

	theJWT, ok := store.jwts[accountID]
	if !ok {
		return "", ErrNotFound
	}
	return theJWT, nil
}

// Save puts the JWT in the map, replacing any previous record for the account
func (store *MemJWTStore) Save(accountID string, theJWT string) {
	store.Lock()
	defer store.Unlock()
	store.jwts[accountID] = theJWT
}

// Delete removes the record for the account, if any
func (store *MemJWTStore) Delete(accountID string) {
	store.Lock()
	defer store.Unlock()
	delete(store.jwts, accountID)
}

// Close is a no-op for a mem store
func (store *MemJWTStore) Close() {
}
