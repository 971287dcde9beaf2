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
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/nats-io/nats-account-lookup/server/conf"
	"github.com/nats-io/nats-account-lookup/server/store"
	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nkeys"
)

const version = "1.0.0"

// AccountLookupServer is the core structure for the server.
type AccountLookupServer struct {
	sync.Mutex
	running bool

	startTime time.Time

	logger natsserver.Logger
	config *conf.Config

	nats      *nats.Conn
	natsTimer *time.Timer

	listener net.Listener
	http     *http.Server
	protocol string
	port     int
	hostPort string

	jwtStore  store.JWTStore
	ownsStore bool
	resolver  *Resolver
	id        string
}

// NewAccountLookupServer creates a new lookup server with a default logger
func NewAccountLookupServer() *AccountLookupServer {
	kp, _ := nkeys.CreateServer()
	pub, _ := kp.PublicKey()
	return &AccountLookupServer{
		logger: NewNilLogger(),
		config: conf.DefaultServerConfig(),
		id:     pub,
	}
}

// Config returns the configuration the server was initialized with
func (server *AccountLookupServer) Config() *conf.Config {
	return server.config
}

// Logger hosts a shared logger
func (server *AccountLookupServer) Logger() natsserver.Logger {
	server.Lock()
	defer server.Unlock()
	return server.logger
}

func (server *AccountLookupServer) checkRunning() bool {
	server.Lock()
	defer server.Unlock()
	return server.running
}

// InitializeFromFlags is called from main to configure the server. The defaults are
// overlaid with the environment, then with the flags. On reload the same flags are passed.
func (server *AccountLookupServer) InitializeFromFlags(flags Flags) error {
	server.config = conf.DefaultServerConfig()

	if err := conf.LoadConfigFromEnv(server.config); err != nil {
		return err
	}

	if flags.ConnectionString != "" {
		server.config.Store.ConnectionString = flags.ConnectionString
	}

	if flags.NATSURL != "" {
		server.config.NATS.Servers = []string{flags.NATSURL}
	}

	if flags.Creds != "" {
		server.config.NATS.UserCredentials = flags.Creds
	}

	if flags.Debug || flags.DebugAndVerbose {
		server.config.Logging.Debug = true
	}

	if flags.Verbose || flags.DebugAndVerbose {
		server.config.Logging.Trace = true
	}

	if flags.HostPort != "" {
		h, p, err := net.SplitHostPort(flags.HostPort)
		if err != nil {
			return fmt.Errorf("error parsing hostport: %v", err)
		}
		server.config.HTTP.Host = h
		server.config.HTTP.Port, err = strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("error parsing hostport: %v", err)
		}
	}

	if err := server.config.ExpandPaths(); err != nil {
		return err
	}

	return server.config.Validate()
}

// InitializeFromConfig initialize the server's configuration to an existing config object, useful for tests
// Does not change the config at all, use DefaultServerConfig() to create a default config
func (server *AccountLookupServer) InitializeFromConfig(config *conf.Config) error {
	server.config = config
	return nil
}

// UseStore hands the server an already open store instead of connecting to PostgreSQL
// on Start. The caller keeps ownership, Stop does not close it.
func (server *AccountLookupServer) UseStore(jwtStore store.JWTStore) {
	server.Lock()
	defer server.Unlock()
	server.jwtStore = jwtStore
	server.ownsStore = false
}

// Start the server, will lock the server, assumes the config is loaded.
// Any error is fatal, the caller is expected to Stop and exit.
func (server *AccountLookupServer) Start() error {
	server.Lock()
	defer server.Unlock()

	server.logger = NewLogger(server.config.Logging)
	server.running = true
	server.startTime = time.Now()

	server.logger.Noticef("starting NATS Account Lookup server, version %s", version)
	server.logger.Noticef("server id is %s", server.id)
	server.logger.Noticef("server time is %s", server.startTime.Format(time.UnixDate))

	if server.jwtStore == nil {
		jwtStore, err := server.createStore()
		if err != nil {
			return err
		}
		server.jwtStore = jwtStore
		server.ownsStore = true
	}

	server.resolver = NewResolver(server.jwtStore, time.Duration(server.config.Store.QueryTimeout)*time.Millisecond)

	if err := server.connectToNATS(); err != nil {
		return err
	}

	if err := server.startHTTP(); err != nil {
		return err
	}

	server.logger.Noticef("nats-account-lookup is running")
	server.logger.Noticef("configure the nats-server with:")
	server.logger.Noticef("  resolver: URL(%s://%s/jwt/v1/accounts/)", server.protocol, server.hostPort)

	return nil
}

// assumes the lock is held by the caller
func (server *AccountLookupServer) createStore() (store.JWTStore, error) {
	config := server.config.Store
	if config.ConnectionString == "" {
		return nil, conf.ErrMissingConnectionString
	}

	server.logger.Noticef("connecting to the account database")

	jwtStore, err := store.NewPostgresJWTStore(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("error opening account database: %w", err)
	}

	server.logger.Noticef("account database pool ready, max %d connections", config.MaxConns)
	return jwtStore, nil
}

// Stop the lookup server
func (server *AccountLookupServer) Stop() {
	server.Lock()
	defer server.Unlock()

	if !server.running {
		return // already stopped
	}

	server.logger.Noticef("stopping account lookup server")

	server.running = false

	if server.natsTimer != nil {
		server.natsTimer.Stop()
		server.natsTimer = nil
	}

	if server.nats != nil {
		server.nats.Close()
		server.nats = nil
		server.logger.Noticef("disconnected from NATS")
	}

	server.stopHTTP()

	if server.jwtStore != nil && server.ownsStore {
		server.jwtStore.Close()
		server.jwtStore = nil
		server.logger.Noticef("closed account database pool")
	}
}

// ReadyForConnections waits up to dur for the http listener
func (server *AccountLookupServer) ReadyForConnections(dur time.Duration) bool {
	end := time.Now().Add(dur)
	for time.Now().Before(end) {
		server.Lock()
		ok := server.listener != nil
		server.Unlock()
		if ok {
			return true
		}
		time.Sleep(25 * time.Millisecond)
	}
	return false
}

// URL returns the base url clients should use, resolved after the listener is bound
func (server *AccountLookupServer) URL() string {
	server.Lock()
	defer server.Unlock()
	return fmt.Sprintf("%s://%s", server.protocol, server.hostPort)
}
