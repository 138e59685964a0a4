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

package sentry

import (
	"fmt"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// IssueType selects the sentry level an issue is reported with.
type IssueType string

const (
	IssueTypeWarning IssueType = "warning"
	IssueTypeError   IssueType = "error"
	IssueTypeFatal   IssueType = "fatal"
)

const debounceWindow = 2 * time.Hour

var (
	shouldDebounce = true

	lastSent   = make(map[string]time.Time)
	lastSentMu sync.Mutex
)

// EnableTestMode turns debouncing off so every report reaches the logger.
func EnableTestMode() {
	shouldDebounce = false
}

// ReportIssue logs err and forwards it to sentry. Warnings and errors with the
// same title are forwarded at most once per debounce window.
func ReportIssue(err error, issueType IssueType, log *zap.SugaredLogger) {
	ReportIssueWithContext(err, issueType, log, nil)
}

// ReportIssuef is ReportIssue with fmt.Errorf formatting.
func ReportIssuef(issueType IssueType, log *zap.SugaredLogger, template string, args ...interface{}) {
	ReportIssue(fmt.Errorf(template, args...), issueType, log)
}

// ReportIssueWithContext attaches context as tags (scalars) or extra data.
func ReportIssueWithContext(err error, issueType IssueType, log *zap.SugaredLogger, context map[string]interface{}) {
	if err == nil {
		return
	}

	if log == nil {
		log = zap.NewNop().Sugar()
	}

	switch issueType {
	case IssueTypeFatal:
		log.Errorf("Fatal error: %s", err)
		sendEvent(createEventWithContext(sentry.LevelFatal, err, context))
		Flush(5 * time.Second)
	case IssueTypeError:
		log.Error(err)

		if debounced(issueType, err) {
			return
		}

		sendEvent(createEventWithContext(sentry.LevelError, err, context))
	case IssueTypeWarning:
		log.Warn(err)

		if debounced(issueType, err) {
			return
		}

		sendEvent(createEventWithContext(sentry.LevelWarning, err, context))
	}
}

func debounced(issueType IssueType, err error) bool {
	if !shouldDebounce {
		return false
	}

	key := string(issueType) + ":" + errorTitle(err)

	lastSentMu.Lock()
	defer lastSentMu.Unlock()

	if sent, ok := lastSent[key]; ok && time.Since(sent) < debounceWindow {
		return true
	}

	lastSent[key] = time.Now()

	return false
}
