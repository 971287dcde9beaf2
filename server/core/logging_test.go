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
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/nats-io/nats-account-lookup/server/conf"
	"github.com/nats-io/nats-account-lookup/server/store"
	"github.com/stretchr/testify/require"
)

// captureLogger keeps error and trace lines for inspection
type captureLogger struct {
	sync.Mutex
	NilLogger
	errors []string
	traces []string
}

func (l *captureLogger) Errorf(format string, v ...interface{}) {
	l.Lock()
	defer l.Unlock()
	l.errors = append(l.errors, fmt.Sprintf(format, v...))
}

func (l *captureLogger) Tracef(format string, v ...interface{}) {
	l.Lock()
	defer l.Unlock()
	l.traces = append(l.traces, fmt.Sprintf(format, v...))
}

func (l *captureLogger) contains(lines []string, s string) bool {
	l.Lock()
	defer l.Unlock()
	for _, line := range lines {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}

func TestNewLoggerPrefersCustom(t *testing.T) {
	custom := &captureLogger{}
	require.Equal(t, custom, NewLogger(conf.LogConfig{Custom: custom}))
	require.NotNil(t, NewLogger(conf.LogConfig{}))
}

func TestMissingAccountIsTracedNotAnError(t *testing.T) {
	logger := &captureLogger{}
	config := conf.DefaultServerConfig()
	config.Logging.Custom = logger

	testEnv, err := SetupTestServer(config, false, false, store.NewMemJWTStore())
	defer testEnv.Cleanup()
	require.NoError(t, err)

	status, _ := getBody(t, testEnv.HTTP, testEnv.URLForPath("/jwt/v1/accounts/missing-acct"))
	require.Equal(t, http.StatusNotFound, status)

	require.True(t, logger.contains(logger.traces, "missing-acct - Account not found"))
	require.False(t, logger.contains(logger.errors, "missing-acct"))
}

func TestQueryFailureIsLoggedAsError(t *testing.T) {
	logger := &captureLogger{}
	config := conf.DefaultServerConfig()
	config.Logging.Custom = logger

	testEnv, err := SetupTestServer(config, false, false, store.NewErrJWTStore())
	defer testEnv.Cleanup()
	require.NoError(t, err)

	status, _ := getBody(t, testEnv.HTTP, testEnv.URLForPath("/jwt/v1/accounts/broken-acct"))
	require.Equal(t, http.StatusNotFound, status)

	require.True(t, logger.contains(logger.errors, store.ErrStoreUnavailable.Error()))
}

func TestTokensAreNotLogged(t *testing.T) {
	logger := &captureLogger{}
	config := conf.DefaultServerConfig()
	config.Logging.Custom = logger

	testEnv, err := SetupTestServer(config, false, false, store.NewMemJWTStoreFromMap(map[string]string{"acct-1": "secret.token.value"}))
	defer testEnv.Cleanup()
	require.NoError(t, err)

	status, _ := getBody(t, testEnv.HTTP, testEnv.URLForPath("/jwt/v1/accounts/acct-1"))
	require.Equal(t, http.StatusOK, status)

	require.False(t, logger.contains(logger.traces, "secret.token.value"))
	require.False(t, logger.contains(logger.errors, "secret.token.value"))
}

func TestShortKey(t *testing.T) {
	require.Equal(t, "", ShortKey(""))
	require.Equal(t, "acct-1", ShortKey("acct-1"))
	require.Equal(t, "ABCDEFGHIJKL", ShortKey("ABCDEFGHIJKLMNOP"))
}
