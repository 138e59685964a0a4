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

// Package status guards form mutations with the JSB/EBO lifecycle so that
// requests the server would refuse are never sent.
package status

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/logger"
)

const (
	StateNew        = "new"
	StateInProgress = "in_progress"
	StateComplete   = "complete"
	StateDeleted    = "deleted"
)

const (
	EventSave     = "save"
	EventComplete = "complete"
	EventReopen   = "reopen"
	EventDelete   = "delete"
)

var ErrNotAllowed = errors.New("action not allowed in current form state")

var transitions = fsm.Events{
	{Name: EventSave, Src: []string{StateNew, StateInProgress}, Dst: StateInProgress},
	{Name: EventComplete, Src: []string{StateNew, StateInProgress}, Dst: StateComplete},
	{Name: EventReopen, Src: []string{StateComplete}, Dst: StateInProgress},
	{Name: EventDelete, Src: []string{StateNew, StateInProgress, StateComplete}, Dst: StateDeleted},
}

// Lifecycle tracks one form. It is safe for concurrent use.
type Lifecycle struct {
	mu  sync.Mutex
	id  string
	fsm *fsm.FSM
	log *zap.SugaredLogger
}

// New starts a lifecycle for a form that has not been saved yet.
func New(id string) *Lifecycle {
	return newLifecycle(id, StateNew)
}

// FromStatus resumes the lifecycle of a saved form.
func FromStatus(id string, status entities.FormStatus) *Lifecycle {
	return newLifecycle(id, stateOf(status))
}

func newLifecycle(id, initial string) *Lifecycle {
	l := &Lifecycle{id: id, log: logger.For(logger.ComponentForms)}

	l.fsm = fsm.NewFSM(initial, transitions, fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			l.log.Debugf("Form %s: %s -> %s (%s)", l.id, e.Src, e.Dst, e.Event)
		},
	})

	return l
}

func stateOf(status entities.FormStatus) string {
	if status == entities.FormStatusComplete {
		return StateComplete
	}

	return StateInProgress
}

func (l *Lifecycle) Current() string {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.fsm.Current()
}

func (l *Lifecycle) Can(event string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.fsm.Can(event)
}

// Guard returns ErrNotAllowed when event cannot fire from the current state.
func (l *Lifecycle) Guard(event string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.fsm.Can(event) {
		return fmt.Errorf("%w: cannot %s a form that is %s", ErrNotAllowed, event, l.fsm.Current())
	}

	return nil
}

// Fire moves the lifecycle along event.
func (l *Lifecycle) Fire(ctx context.Context, event string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.fsm.Event(ctx, event)

	var noTransition fsm.NoTransitionError
	if err == nil || errors.As(err, &noTransition) {
		return nil
	}

	var invalid fsm.InvalidEventError
	if errors.As(err, &invalid) {
		return fmt.Errorf("%w: cannot %s a form that is %s", ErrNotAllowed, event, invalid.State)
	}

	return err
}

// Sync adopts the status the server reported.
func (l *Lifecycle) Sync(status entities.FormStatus) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.fsm.SetState(stateOf(status))
}

// Run issues mutation only if event is allowed and fires event once it
// succeeded. A failed mutation leaves the state unchanged.
func Run[T any](ctx context.Context, l *Lifecycle, event string, mutation func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if err := l.Guard(event); err != nil {
		return zero, err
	}

	result, err := mutation(ctx)
	if err != nil {
		return zero, err
	}

	if err := l.Fire(ctx, event); err != nil {
		return zero, err
	}

	return result, nil
}
