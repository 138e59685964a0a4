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

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/sentry"
)

// transientErrorThreshold is how many transient failures with the same
// status are tolerated before one is reported.
const transientErrorThreshold = 10

var (
	transientErrorCount    = make(map[int]int)
	transientErrorCountMux sync.Mutex
)

// report sends failures that point at a bug or an outage to sentry. Domain
// errors such as "does not exist" and auth failures stay local.
func report(operation string, err error, elapsed time.Duration) {
	if errors.Is(err, context.Canceled) {
		return
	}

	apiErr, ok := apierror.As(err)
	if !ok {
		return
	}

	log := logger.For(logger.ComponentAPI)
	reportContext := map[string]interface{}{
		"Operation": map[string]interface{}{
			"name":        operation,
			"duration_ms": elapsed.Milliseconds(),
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		},
	}

	switch e := apiErr.(type) {
	case *apierror.RequestError:
		reportRequestError(operation, e, log, reportContext)
	case *apierror.JSONParseError:
		sentry.ReportIssueWithContext(fmt.Errorf("%s: %w", operation, e), sentry.IssueTypeError, log, reportContext)
	default:
		// Response shape drifted from the codecs.
		sentry.ReportIssueWithContext(fmt.Errorf("%s: %w", operation, err), sentry.IssueTypeError, log, reportContext)
	}
}

func reportRequestError(operation string, e *apierror.RequestError, log *zap.SugaredLogger, reportContext map[string]interface{}) {
	switch {
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return
	case e.StatusCode >= 200 && e.StatusCode <= 299:
		// GraphQL errors array: the server understood and refused.
		return
	case e.Transient():
		transientErrorCountMux.Lock()
		transientErrorCount[e.StatusCode]++
		count := transientErrorCount[e.StatusCode]
		transientErrorCountMux.Unlock()

		if count >= transientErrorThreshold {
			sentry.ReportIssuef(sentry.IssueTypeWarning, log,
				"[HTTP Error] %s - Status: %d - Error: %v (occurred %d times)", operation, e.StatusCode, e.Err, count)
		}
	case e.StatusCode == 0:
		log.Debugf("%s: no response: %v", operation, e.Err)
	default:
		sentry.ReportIssueWithContext(fmt.Errorf("%s: %w", operation, e), sentry.IssueTypeError, log, reportContext)
	}
}

// resetTransientCounter clears the counters after a successful request.
func resetTransientCounter() {
	transientErrorCountMux.Lock()
	clear(transientErrorCount)
	transientErrorCountMux.Unlock()
}
