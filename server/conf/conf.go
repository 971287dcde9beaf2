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

package conf

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/mitchellh/go-homedir"
	natsserver "github.com/nats-io/nats-server/v2/server"
)

// ErrMissingConnectionString is returned by Validate when no store connection string is set
var ErrMissingConnectionString = errors.New("store connection string is required, set $AUTHORIZATION_DB_CONNECTION_STRING")

// LogConfig allows configuration of the logging details
type LogConfig struct {
	Time   bool
	Debug  bool `env:"AUTHORIZATION_DEBUG"`
	Trace  bool `env:"AUTHORIZATION_TRACE"`
	Colors bool
	PID    bool
	Custom natsserver.Logger
}

// Config is the root structure for the lookup server configuration.
type Config struct {
	Logging LogConfig
	HTTP    HTTPConfig
	Store   StoreConfig
	NATS    NATSConfig
}

// TLSConf holds the configuration for a TLS connection/server
type TLSConf struct {
	Key  string `env:"KEY"`
	Cert string `env:"CERT"`
	Root string `env:"ROOT"`
}

// HTTPConfig is used to specify the host/port/tls for an HTTP server
type HTTPConfig struct {
	Host         string  `env:"AUTHORIZATION_HOST"`
	Port         int     `env:"AUTHORIZATION_PORT"`
	TLS          TLSConf `envPrefix:"AUTHORIZATION_TLS_"`
	ReadTimeout  int //milliseconds
	WriteTimeout int //milliseconds
}

// HostPort returns the address the listener binds to
func (h HTTPConfig) HostPort() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// StoreConfig holds the settings for the shared PostgreSQL pool
type StoreConfig struct {
	ConnectionString string `env:"AUTHORIZATION_DB_CONNECTION_STRING"`

	MaxConns          int32 `env:"AUTHORIZATION_DB_MAX_CONNS"`
	MinConns          int32 `env:"AUTHORIZATION_DB_MIN_CONNS"`
	MaxConnLifetime   int   //milliseconds
	HealthCheckPeriod int   //milliseconds
	ConnectTimeout    int   //milliseconds, bounds the initial ping
	QueryTimeout      int   `env:"AUTHORIZATION_QUERY_TIMEOUT"` //milliseconds, 0 disables
}

// NATSConfig configuration for the optional NATS lookup responder
type NATSConfig struct {
	Servers []string `env:"AUTHORIZATION_NATS_URL" envSeparator:","`

	ConnectTimeout int //milliseconds
	ReconnectWait  int //milliseconds
	MaxReconnects  int

	TLS             TLSConf `envPrefix:"AUTHORIZATION_NATS_TLS_"`
	UserCredentials string  `env:"AUTHORIZATION_NATS_CREDS"`
}

// DefaultServerConfig generates a default configuration, the connection
// string is left empty and must come from the environment or flags
func DefaultServerConfig() *Config {
	return &Config{
		Logging: LogConfig{
			Colors: true,
			Time:   true,
			Debug:  false,
			Trace:  false,
		},
		HTTP: HTTPConfig{
			ReadTimeout:  5000,
			WriteTimeout: 5000,
			Host:         "127.0.0.1",
			Port:         9091,
		},
		Store: StoreConfig{
			MaxConns:          25,
			MaxConnLifetime:   5 * 60 * 1000,
			HealthCheckPeriod: 60 * 1000,
			ConnectTimeout:    5000,
			QueryTimeout:      5000,
		},
		NATS: NATSConfig{
			ConnectTimeout: 5000,
			ReconnectWait:  1000,
			MaxReconnects:  -1,
		},
	}
}

// Validate checks the settings that would otherwise only fail once the server is running
func (c *Config) Validate() error {
	if c.Store.ConnectionString == "" {
		return ErrMissingConnectionString
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http port %d is out of range", c.HTTP.Port)
	}
	if c.Store.MinConns > c.Store.MaxConns && c.Store.MaxConns > 0 {
		return fmt.Errorf("store min connections (%d) exceeds max connections (%d)", c.Store.MinConns, c.Store.MaxConns)
	}
	return nil
}

// ExpandPaths resolves a leading tilde in the file settings, they usually come from the environment
func (c *Config) ExpandPaths() error {
	paths := []*string{
		&c.HTTP.TLS.Cert, &c.HTTP.TLS.Key, &c.HTTP.TLS.Root,
		&c.NATS.TLS.Cert, &c.NATS.TLS.Key, &c.NATS.TLS.Root,
		&c.NATS.UserCredentials,
	}
	for _, p := range paths {
		if *p == "" {
			continue
		}
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("error expanding path %q: %v", *p, err)
		}
		*p = expanded
	}
	return nil
}
