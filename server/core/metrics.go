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
	"github.com/prometheus/client_golang/prometheus"
)

// lookup outcomes, used as the "outcome" label
const (
	OutcomeFound       = "found"
	OutcomeNotFound    = "not_found"
	OutcomeQueryFailed = "query_failed"
)

var (
	// LookupsTotal counts resolutions by outcome and transport, this is where a
	// missing account and a failing store stay distinguishable
	LookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_lookup_requests_total",
			Help: "Account JWT lookups",
		},
		[]string{"transport", "outcome"},
	)

	// LookupDuration records the store round trip in seconds
	LookupDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "account_lookup_duration_seconds",
			Help:    "Account JWT lookup latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
		},
		[]string{"transport"},
	)

	// HTTPRequestsTotal counts HTTP requests by route and status code
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "account_lookup_http_requests_total",
			Help: "HTTP requests",
		},
		[]string{"route", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		LookupsTotal,
		LookupDuration,
		HTTPRequestsTotal,
	)
}
