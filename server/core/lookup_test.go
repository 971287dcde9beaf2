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
	"fmt"
	"testing"
	"time"

	"github.com/nats-io/nats-account-lookup/server/store"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

// failingStore returns a plain error, not a QueryError
type failingStore struct {
	err error
}

func (s *failingStore) Load(ctx context.Context, accountID string) (string, error) {
	return "", s.err
}

func (s *failingStore) Close() {}

func lookups(transport string, outcome string) float64 {
	return testutil.ToFloat64(LookupsTotal.WithLabelValues(transport, outcome))
}

func TestResolveFound(t *testing.T) {
	resolver := NewResolver(store.NewMemJWTStoreFromMap(map[string]string{"acct-1": "abc.def.ghi"}), time.Second)

	before := lookups(TransportHTTP, OutcomeFound)
	theJWT, err := resolver.Resolve(context.Background(), TransportHTTP, "acct-1")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", theJWT)
	require.Equal(t, before+1, lookups(TransportHTTP, OutcomeFound))
}

func TestResolveNotFound(t *testing.T) {
	resolver := NewResolver(store.NewMemJWTStore(), time.Second)

	before := lookups(TransportNATS, OutcomeNotFound)
	theJWT, err := resolver.Resolve(context.Background(), TransportNATS, "nobody")
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrNotFound))
	require.False(t, store.IsQueryError(err))
	require.Equal(t, "", theJWT)
	require.Equal(t, before+1, lookups(TransportNATS, OutcomeNotFound))
}

func TestResolveQueryFailed(t *testing.T) {
	errStore := store.NewErrJWTStore()
	resolver := NewResolver(errStore, time.Second)

	failed := lookups(TransportHTTP, OutcomeQueryFailed)
	missing := lookups(TransportHTTP, OutcomeNotFound)

	_, err := resolver.Resolve(context.Background(), TransportHTTP, "acct-1")
	require.Error(t, err)
	require.True(t, store.IsQueryError(err))
	require.True(t, errors.Is(err, store.ErrStoreUnavailable))
	require.False(t, errors.Is(err, store.ErrNotFound))
	require.Equal(t, 1, errStore.Loads())

	require.Equal(t, failed+1, lookups(TransportHTTP, OutcomeQueryFailed))
	require.Equal(t, missing, lookups(TransportHTTP, OutcomeNotFound))
}

func TestResolveWrapsPlainErrors(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	resolver := NewResolver(&failingStore{err: cause}, 0)

	_, err := resolver.Resolve(context.Background(), TransportHTTP, "acct-1")
	require.Error(t, err)

	var qe *store.QueryError
	require.True(t, errors.As(err, &qe))
	require.Equal(t, "acct-1", qe.AccountID)
	require.True(t, errors.Is(err, cause))
}

func TestResolveTimeout(t *testing.T) {
	blocking := newBlockingStore()
	resolver := NewResolver(blocking, 50*time.Millisecond)

	start := time.Now()
	_, err := resolver.Resolve(context.Background(), TransportHTTP, "slow")
	require.Error(t, err)
	require.True(t, store.IsQueryError(err))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
	require.Less(t, time.Since(start), time.Second)
}

func TestResolvePassesIdentifierVerbatim(t *testing.T) {
	ids := []string{"", " padded ", "with/slash", "ünïcode", "x'; DROP TABLE nats; --"}
	jwts := map[string]string{}
	for i, id := range ids {
		jwts[id] = fmt.Sprintf("jwt-%d", i)
	}
	resolver := NewResolver(store.NewMemJWTStoreFromMap(jwts), time.Second)

	for i, id := range ids {
		theJWT, err := resolver.Resolve(context.Background(), TransportHTTP, id)
		require.NoError(t, err)
		require.Equal(t, fmt.Sprintf("jwt-%d", i), theJWT)
	}

	_, err := resolver.Resolve(context.Background(), TransportHTTP, "padded")
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestHealthDoesNotTouchStore(t *testing.T) {
	errStore := store.NewErrJWTStore()
	resolver := NewResolver(errStore, time.Second)

	for i := 0; i < 3; i++ {
		require.Equal(t, "OK", resolver.Health())
	}
	require.Equal(t, 0, errStore.Loads())
}
