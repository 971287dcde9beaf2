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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/mitchellh/go-homedir"
	"github.com/nats-io/nats-account-lookup/server/core"
)

func expandPath(p string) string {
	var err error
	if p != "" {
		p, err = homedir.Expand(p)
		if err != nil {
			panic(fmt.Sprintf("error parsing path: %s", p))
		}
		p, err = filepath.Abs(p)
		if err != nil {
			panic(fmt.Sprintf("error resolving path: %s", p))
		}
	}
	return p
}

func exitWithError(server *core.AccountLookupServer, err error) {
	if server.Logger() != nil {
		server.Logger().Errorf("%s", err.Error())
	} else {
		log.Printf("%s", err.Error())
	}
	server.Stop()
	os.Exit(1)
}

func startServer(flags core.Flags) *core.AccountLookupServer {
	server := core.NewAccountLookupServer()
	if err := server.InitializeFromFlags(flags); err != nil {
		exitWithError(server, err)
	}
	if err := server.Start(); err != nil {
		exitWithError(server, err)
	}
	return server
}

func main() {
	flags := core.Flags{}
	flag.StringVar(&flags.ConnectionString, "db", "", "the account database connection string, overrides $AUTHORIZATION_DB_CONNECTION_STRING")
	flag.StringVar(&flags.NATSURL, "nats", "", "the NATS server to answer account lookups on, the default is http only")
	flag.StringVar(&flags.Creds, "creds", "", "the creds file for connecting to NATS")
	flag.BoolVar(&flags.Debug, "D", false, "turn on debug logging")
	flag.BoolVar(&flags.Verbose, "V", false, "turn on verbose logging")
	flag.BoolVar(&flags.DebugAndVerbose, "DV", false, "turn on debug and verbose logging")
	flag.StringVar(&flags.HostPort, "hp", "", "http hostport, overrides $AUTHORIZATION_HOST and $AUTHORIZATION_PORT, defaults to 127.0.0.1:9091")
	flag.Parse()

	// resolve paths with dots/tildes
	flags.Creds = expandPath(flags.Creds)

	server := startServer(flags)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

		for {
			signal := <-sigChan

			if signal == os.Interrupt || signal == syscall.SIGTERM {
				fmt.Println() // clear the line for the control-C
				server.Logger().Noticef("received %s, shutting down", signal)
				server.Stop()
				os.Exit(0)
			}

			if signal == syscall.SIGHUP {
				server.Logger().Noticef("received sig-hup, restarting")
				server.Stop()
				server = startServer(flags)
			}
		}
	}()

	// exit main but keep running goroutines
	runtime.Goexit()
}
