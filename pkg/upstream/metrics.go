// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package upstream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeOK      = "ok"
	outcomeStatus  = "status"
	outcomeTimeout = "timeout"
	outcomeError   = "error"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "agrirelay_upstream_requests_total",
			Help: "Total number of outbound calls to hosted models and third-party APIs",
		},
		[]string{"upstream", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "agrirelay_upstream_request_duration_seconds",
			Help:    "Outbound call latency in seconds, until response headers",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"upstream"},
	)
)

func observe(name, outcome string, start time.Time) {
	upstreamRequestsTotal.WithLabelValues(name, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
}
