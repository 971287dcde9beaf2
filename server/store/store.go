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
)

// ErrNotFound is returned by Load when no record matches the account
var ErrNotFound = errors.New("no matching JWT found")

// QueryError reports a failure talking to the backing store, as opposed to
// a lookup that completed without a match.
type QueryError struct {
	AccountID string
	Err       error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query for account %q failed: %v", e.AccountID, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError wraps err, a nil err stays nil
func NewQueryError(accountID string, err error) error {
	if err == nil {
		return nil
	}
	return &QueryError{AccountID: accountID, Err: err}
}

// IsQueryError reports whether err carries a QueryError
func IsQueryError(err error) bool {
	var qe *QueryError
	return errors.As(err, &qe)
}

// JWTStore is the interface for all store implementations in the lookup server.
// The store returns the JWT recorded for an account identifier. The data doesn't
// really have to be a JWT, no validation is expected at this level.
//
// Implementations must be safe for concurrent Load calls.
type JWTStore interface {
	// Load returns the JWT for accountID, ErrNotFound when there is no record
	// or a *QueryError when the store could not answer.
	Load(ctx context.Context, accountID string) (string, error)
	Close()
}
