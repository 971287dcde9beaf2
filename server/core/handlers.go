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
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/nats-io/nats-account-lookup/server/store"
)

// http headers
const (
	ContentType    = "Content-Type"
	TextPlain      = "text/plain"
	ApplicationJWT = "application/jwt"
)

// JWTHelp handles get requests for JWT help
func (server *AccountLookupServer) JWTHelp(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	server.logger.Tracef("%s: %s", r.RemoteAddr, r.URL.String())
	w.Header().Add(ContentType, TextPlain)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(jwtAPIHelp))
}

// sendErrorResponse writes msg verbatim, the cause only goes to the log. Missing
// accounts are routine and traced, anything else is an error for the operator.
func (server *AccountLookupServer) sendErrorResponse(httpStatus int, msg string, account string, err error, w http.ResponseWriter) {
	account = ShortKey(account)
	switch {
	case err == nil:
		server.logger.Errorf("%s - %s", account, msg)
	case errors.Is(err, store.ErrNotFound):
		server.logger.Tracef("%s - %s", account, msg)
	default:
		server.logger.Errorf("%s - %s - %s", account, msg, err.Error())
	}

	w.Header().Set(ContentType, TextPlain)
	w.WriteHeader(httpStatus)
	w.Write([]byte(msg))
}
