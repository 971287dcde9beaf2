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
	"io"
	"net/http"
	"testing"

	"github.com/nats-io/nats-account-lookup/server/conf"
	"github.com/nats-io/nats-account-lookup/server/store"
	"github.com/stretchr/testify/require"
)

func TestJWTHelp(t *testing.T) {
	testEnv, err := SetupTestServer(conf.DefaultServerConfig(), false, false, store.NewMemJWTStore())
	defer testEnv.Cleanup()
	require.NoError(t, err)

	resp, err := testEnv.HTTP.Get(testEnv.URLForPath("/jwt/v1/help"))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, TextPlain, resp.Header.Get(ContentType))

	help, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, jwtAPIHelp, string(help))
}

func TestUnknownPath(t *testing.T) {
	testEnv, err := SetupTestServer(conf.DefaultServerConfig(), false, false, store.NewMemJWTStore())
	defer testEnv.Cleanup()
	require.NoError(t, err)

	resp, err := testEnv.HTTP.Get(testEnv.URLForPath("/jwt/v1/operators/x"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = testEnv.HTTP.Post(testEnv.URLForPath("/jwt/v1/accounts/acct-1"), TextPlain, nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
