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

const jwtAPIHelp = `
# NATS Account Lookup Server JWT API HELP

This document describes the URL paths of the read-only HTTP API of the
NATS Account Lookup Server. Account JWTs are issued elsewhere and stored
in the account database, this server only hands them out.

## GET /jwt/v1/help

Returns this page.

## GET /jwt/v1/accounts/<account id>

Retrieve the account JWT recorded for the account id. The id is passed to
the database as is.

The response has content type application/jwt and the body is the stored
JWT, byte for byte. The JWT is not decoded, validated or checked for expiration.

A status 404 with the body "Account not found" is returned if there is no
JWT for the account, or if the database could not be queried.

## GET /jwt/v1/accounts/

Resolver check used by the nats-server. Always returns status 200 with the
body "OK", the database is not consulted.

## GET /metrics

Prometheus metrics, including lookups by outcome (found, not_found, query_failed).
`
