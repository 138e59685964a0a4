// Copyright 2025 UMH Systems GmbH
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

package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/safejson"
	"github.com/worker-safety/safety-client/pkg/sentry"
)

// Request outcomes.
const (
	OutcomeSuccess        = "success"
	OutcomeRequestError   = "request_error"
	OutcomeDecodeError    = "decode_error"
	OutcomeJSONParseError = "json_parse_error"
	OutcomeOtherError     = "error"
)

// Transport labels.
const (
	TransportGraphQL = "graphql"
	TransportREST    = "rest"
	TransportStorage = "storage"
)

var (
	namespace = "safety"
	subsystem = "client"

	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Total number of API operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Duration of API operations including decoding",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	httpResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_responses_total",
			Help:      "HTTP responses received per transport and status code (0 means no response)",
		},
		[]string{"transport", "code"},
	)

	uploadedBytes = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "uploaded_bytes_total",
			Help:      "Bytes sent to object storage through signed upload policies",
		},
	)
)

// Outcome maps a request result to its outcome label.
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}

	apiErr, ok := apierror.As(err)
	if !ok {
		return OutcomeOtherError
	}

	switch apiErr.(type) {
	case *apierror.RequestError:
		return OutcomeRequestError
	case *apierror.JSONParseError:
		return OutcomeJSONParseError
	default:
		return OutcomeDecodeError
	}
}

// ObserveRequest records one finished operation.
func ObserveRequest(operation string, err error, duration time.Duration) {
	requestsTotal.WithLabelValues(operation, Outcome(err)).Inc()
	requestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func ObserveHTTPResponse(transport string, statusCode int) {
	httpResponses.WithLabelValues(transport, statusLabel(statusCode)).Inc()
}

func AddUploadedBytes(n int64) {
	uploadedBytes.Add(float64(n))
}

func statusLabel(code int) string {
	if code <= 0 {
		return "0"
	}

	return strconv.Itoa(code)
}

// RequestCount returns the counter for tests and debug output.
func RequestCount(operation, outcome string) prometheus.Counter {
	return requestsTotal.WithLabelValues(operation, outcome)
}

// DebugProvider supplies JSON-serialisable data for /debug/latency.
type DebugProvider interface {
	GetDebugInfo() interface{}
}

var debugRegistry struct {
	providers map[string]DebugProvider
	mu        sync.RWMutex
}

func RegisterDebugProvider(name string, provider DebugProvider) {
	debugRegistry.mu.Lock()
	defer debugRegistry.mu.Unlock()

	if debugRegistry.providers == nil {
		debugRegistry.providers = make(map[string]DebugProvider)
	}

	debugRegistry.providers[name] = provider
}

func UnregisterDebugProvider(name string) {
	debugRegistry.mu.Lock()
	defer debugRegistry.mu.Unlock()

	delete(debugRegistry.providers, name)
}

func handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)

		return
	}

	debugRegistry.mu.RLock()
	response := make(map[string]interface{}, len(debugRegistry.providers))

	for name, provider := range debugRegistry.providers {
		response[name] = provider.GetDebugInfo()
	}
	debugRegistry.mu.RUnlock()

	body, err := safejson.MarshalIndent(response, "", "  ")
	if err != nil {
		http.Error(w, "Failed to encode debug info", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// Handler serves /metrics and /debug/latency.
func Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/debug/latency", handleDebug)

	return mux
}

// SetupMetricsEndpoint starts an HTTP server exposing Handler on addr.
func SetupMetricsEndpoint(addr string) *http.Server {
	server := &http.Server{
		Addr:        addr,
		Handler:     Handler(),
		ReadTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.ReportIssue(err, sentry.IssueTypeError, logger.For(logger.ComponentMetrics))
		}
	}()

	return server
}
