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
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// body for both a missing account and a failed query, the log tells them apart
const accountNotFound = "Account not found"

// GetAccountJWT looks up an account JWT by its identifier and returns it untouched
func (server *AccountLookupServer) GetAccountJWT(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	server.logger.Tracef("%s: %s", r.RemoteAddr, r.URL.String())
	accountID := params.ByName("account")
	shortCode := ShortKey(accountID)

	server.logger.Tracef("request for JWT for - %s", shortCode)

	theJWT, err := server.resolver.Resolve(r.Context(), TransportHTTP, accountID)

	if err != nil {
		if r.Context().Err() != nil {
			server.logger.Tracef("%s - client went away during lookup", shortCode)
			return
		}
		server.sendErrorResponse(http.StatusNotFound, accountNotFound, accountID, err, w)
		return
	}

	w.Header().Add(ContentType, ApplicationJWT)
	w.WriteHeader(http.StatusOK)
	_, err = w.Write([]byte(theJWT))

	if err != nil {
		server.logger.Errorf("error writing JWT for %s - %s", shortCode, err.Error())
	} else {
		server.logger.Tracef("returning JWT for - %s", shortCode)
	}
}

// AccountsHealth answers the nats-server resolver check, the store is not consulted
func (server *AccountLookupServer) AccountsHealth(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	server.logger.Tracef("server sent resolver check")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
	w.Header().Set(ContentType, TextPlain)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(server.resolver.Health()))
}
