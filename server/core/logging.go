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
	"github.com/nats-io/nats-account-lookup/server/conf"
	srvlogger "github.com/nats-io/nats-server/v2/logger"
	natsserver "github.com/nats-io/nats-server/v2/server"
)

// NewLogger returns the custom logger from the config, or a nats-server
// standard logger built from the logging flags
func NewLogger(opts conf.LogConfig) natsserver.Logger {
	if opts.Custom != nil {
		return opts.Custom
	}
	return srvlogger.NewStdLogger(opts.Time, opts.Debug, opts.Trace, opts.Colors, opts.PID)
}

// NilLogger drops everything, used until the configuration is applied
type NilLogger struct {
}

func NewNilLogger() natsserver.Logger {
	return &NilLogger{}
}

func (l *NilLogger) Noticef(format string, v ...interface{}) {}
func (l *NilLogger) Warnf(format string, v ...interface{})   {}
func (l *NilLogger) Errorf(format string, v ...interface{})  {}
func (l *NilLogger) Fatalf(format string, v ...interface{})  {}
func (l *NilLogger) Debugf(format string, v ...interface{})  {}
func (l *NilLogger) Tracef(format string, v ...interface{})  {}
