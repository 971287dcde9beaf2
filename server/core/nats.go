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
	"strings"
	"time"

	"github.com/nats-io/nats-account-lookup/server/store"
	"github.com/nats-io/nats.go"
)

const (
	accountLookupPrefix  = "$SYS.REQ.ACCOUNT."
	accountLookupSuffix  = ".CLAIMS.LOOKUP"
	accountLookupRequest = accountLookupPrefix + "%s" + accountLookupSuffix
)

func (server *AccountLookupServer) natsError(nc *nats.Conn, sub *nats.Subscription, err error) {
	server.logger.Warnf("nats error %s", err.Error())
}

func (server *AccountLookupServer) natsDisconnected(nc *nats.Conn) {
	if !server.checkRunning() {
		return
	}
	server.logger.Warnf("nats disconnected")
}

func (server *AccountLookupServer) natsReconnected(nc *nats.Conn) {
	server.logger.Warnf("nats reconnected")
}

func (server *AccountLookupServer) natsClosed(nc *nats.Conn) {
	if server.checkRunning() {
		server.logger.Errorf("nats connection closed, lookups are only served over http")
	}
}

func (server *AccountLookupServer) natsDiscoveredServers(nc *nats.Conn) {
	server.logger.Debugf("discovered servers: %v", nc.DiscoveredServers())
	server.logger.Debugf("known servers: %v", nc.Servers())
}

// assumes the lock is held by the caller
func (server *AccountLookupServer) connectToNATS() error {
	if !server.running {
		return nil // already stopped
	}

	config := server.config.NATS

	if len(config.Servers) == 0 {
		server.logger.Noticef("NATS is not configured, lookups are only served over http")
		return nil
	}

	server.logger.Noticef("connecting to NATS for account lookups")

	options := []nats.Option{nats.MaxReconnects(config.MaxReconnects),
		nats.ReconnectWait(time.Duration(config.ReconnectWait) * time.Millisecond),
		nats.Timeout(time.Duration(config.ConnectTimeout) * time.Millisecond),
		nats.ErrorHandler(server.natsError),
		nats.DiscoveredServersHandler(server.natsDiscoveredServers),
		nats.DisconnectHandler(server.natsDisconnected),
		nats.ReconnectHandler(server.natsReconnected),
		nats.ClosedHandler(server.natsClosed),
		nats.Name("nats-account-lookup"),
	}

	if config.TLS.Root != "" {
		options = append(options, nats.RootCAs(config.TLS.Root))
	}

	if config.TLS.Cert != "" {
		options = append(options, nats.ClientCert(config.TLS.Cert, config.TLS.Key))
	}

	if config.UserCredentials != "" {
		options = append(options, nats.UserCredentials(config.UserCredentials))
	}

	nc, err := nats.Connect(strings.Join(config.Servers, ","),
		options...,
	)

	if err != nil {
		reconnectWait := config.ReconnectWait
		server.logger.Errorf("failed to connect to NATS %v: %v", config.Servers, err)
		server.logger.Errorf("will try to connect again in %d milliseconds", reconnectWait)
		server.natsTimer = time.AfterFunc(time.Duration(reconnectWait)*time.Millisecond, func() {
			server.Lock()
			defer server.Unlock()
			server.natsTimer = nil
			server.connectToNATS()
		})
		return nil // we will retry, don't stop server running
	}

	subject := strings.Replace(accountLookupRequest, "%s", "*", -1)
	if _, err := nc.Subscribe(subject, server.lookupHandler(server.resolver)); err != nil {
		nc.Close()
		return err
	}

	server.nats = nc
	server.logger.Noticef("connected to NATS, answering %s", subject)
	return nil
}

func (server *AccountLookupServer) getNatsConnection() *nats.Conn {
	server.Lock()
	defer server.Unlock()
	return server.nats
}

// lookupHandler answers a lookup request with the JWT, missing accounts and store
// failures get no reply so the requester times out like it would on a silent resolver.
// nats.go delivers a subscription's messages one at a time, each lookup gets its own
// goroutine so a slow query only holds up its own requester.
func (server *AccountLookupServer) lookupHandler(resolver *Resolver) nats.MsgHandler {
	return func(msg *nats.Msg) {
		account := strings.TrimPrefix(msg.Subject, accountLookupPrefix)
		account = strings.TrimSuffix(account, accountLookupSuffix)
		if len(account) == len(msg.Subject) || len(account) == 0 {
			server.logger.Errorf("lookup %s failed parsing", msg.Subject)
			return
		} else if len(msg.Reply) == 0 {
			server.logger.Tracef("lookup is not a request")
			return
		}

		go server.respondToLookup(resolver, msg, account)
	}
}

func (server *AccountLookupServer) respondToLookup(resolver *Resolver, msg *nats.Msg, account string) {
	theJWT, err := resolver.Resolve(context.Background(), TransportNATS, account)
	switch {
	case errors.Is(err, store.ErrNotFound):
		server.logger.Tracef("lookup of account %s - not found", ShortKey(account))
	case err != nil:
		server.logger.Errorf("lookup of account %s - failed %v", ShortKey(account), err)
	default:
		server.logger.Tracef("lookup of account %s - respond %d bytes", ShortKey(account), len(theJWT))
		if err := msg.Respond([]byte(theJWT)); err != nil {
			server.logger.Errorf("lookup of account %s - reply failed %v", ShortKey(account), err)
		}
	}
}
