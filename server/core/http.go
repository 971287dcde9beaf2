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
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/nats-io/nats-account-lookup/server/conf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// assumes the lock is held by the caller
func (server *AccountLookupServer) startHTTP() error {
	var err error

	config := server.config.HTTP

	err = server.createHTTPListener(config)
	if err != nil {
		server.logger.Errorf("error creating listener: %v", err)
		return err
	}

	router := server.buildRouter()

	xrs := cors.New(cors.Options{
		AllowOriginFunc: func(orig string) bool {
			return true
		},
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})

	httpServer := &http.Server{
		Handler:      xrs.Handler(router),
		ReadTimeout:  time.Duration(config.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(config.WriteTimeout) * time.Millisecond,
	}

	server.http = httpServer
	listener := server.listener

	go func() {
		if err := httpServer.Serve(listener); err != nil {
			if err != http.ErrServerClosed {
				server.logger.Errorf("error attempting to serve requests: %v", err)
				go server.Stop()
			}
		}
	}()

	server.logger.Noticef("%s listening on port %d", server.protocol, server.port)

	return nil
}

// assumes the lock is held by the caller
func (server *AccountLookupServer) stopHTTP() {
	if server.http != nil {
		server.logger.Noticef("stopping http server")
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(5*time.Second))
		defer cancel()

		if err := server.http.Shutdown(ctx); err != nil {
			server.logger.Errorf("error closing http server: %v", err)
		} else {
			server.logger.Noticef("http server stopped")
		}
		server.http = nil
	}

	if server.listener != nil {
		// Shutdown already closed it, the error is expected in that case
		server.listener.Close()
		server.listener = nil
	}

	server.logger.Noticef("http stopped")
}

func (server *AccountLookupServer) createHTTPListener(config conf.HTTPConfig) error {
	var listen net.Listener
	var err error

	hp := config.HostPort()
	tlsConf := config.TLS

	if tlsConf.Cert == "" {
		listen, err = net.Listen("tcp", hp)
		if err != nil {
			return err
		}
		server.protocol = "http"
	} else {
		tlsConfig, err := server.makeTLSConfig(tlsConf)
		if err != nil {
			return err
		}
		if tlsConfig == nil {
			return fmt.Errorf("TLS certificate %q has no key", tlsConf.Cert)
		}

		listen, err = tls.Listen("tcp", hp, tlsConfig)
		if err != nil {
			return err
		}
		server.protocol = "https"
	}

	// report the bound port, the configured one may be 0
	server.port = listen.Addr().(*net.TCPAddr).Port
	host := config.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	server.hostPort = net.JoinHostPort(host, strconv.Itoa(server.port))
	server.listener = listen
	return nil
}

func (server *AccountLookupServer) makeTLSConfig(tlsConf conf.TLSConf) (*tls.Config, error) {
	if tlsConf.Cert == "" || tlsConf.Key == "" {
		server.logger.Noticef("TLS is not configured")
		return nil, nil
	}

	cert, err := tls.LoadX509KeyPair(tlsConf.Cert, tlsConf.Key)
	if err != nil {
		return nil, fmt.Errorf("error loading X509 certificate/key pair: %v", err)
	}
	cert.Leaf, err = x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("error parsing certificate: %v", err)
	}
	config := tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   tls.NoClientCert,
	}
	return &config, nil
}

const accountsPath = "/jwt/v1/accounts/"

// nginx convention for a client that went away before the response
const statusClientClosedRequest = 499

// buildRouter creates the http.Router for the lookup server
func (server *AccountLookupServer) buildRouter() *httprouter.Router {
	r := httprouter.New()
	// identifiers are passed through as is, no cleaned or trimmed redirects
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.NotFound = http.HandlerFunc(server.encodedAccountLookup)

	r.GET("/jwt/v1/help", server.instrument("help", server.JWTHelp))

	r.GET(accountsPath+":account", server.instrument("account", server.GetAccountJWT))
	r.GET(accountsPath, server.instrument("accounts", server.AccountsHealth)) // Server test point
	r.GET("/jwt/v1/accounts", server.instrument("accounts", server.AccountsHealth))  // Server test point

	r.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// encodedAccountLookup catches identifiers holding an escaped slash, httprouter matches on
// the decoded path so "a%2Fb" never reaches the :account route. The escaped path must still
// be a single segment, anything else is a plain not found.
func (server *AccountLookupServer) encodedAccountLookup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		rest, ok := strings.CutPrefix(r.URL.EscapedPath(), accountsPath)
		if ok && rest != "" && !strings.Contains(rest, "/") {
			if accountID, err := url.PathUnescape(rest); err == nil {
				params := httprouter.Params{{Key: "account", Value: accountID}}
				server.instrument("account", server.GetAccountJWT)(w, r, params)
				return
			}
		}
	}
	http.NotFound(w, r)
}

// instrument counts requests per route, the route name keeps identifiers out of the labels
func (server *AccountLookupServer) instrument(route string, handle httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		handle(sw, r, params)
		status := sw.status
		if !sw.written && r.Context().Err() != nil {
			status = statusClientClosedRequest
		}
		HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) WriteHeader(status int) {
	if !w.written {
		w.status = status
		w.written = true
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.written = true
	return w.ResponseWriter.Write(b)
}
