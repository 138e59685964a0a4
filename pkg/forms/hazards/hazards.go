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

// Package hazards assembles the hazards and controls a worker selects for a
// form from the library hazards of the tasks in scope.
package hazards

import (
	"errors"
	"fmt"
	"slices"

	"github.com/worker-safety/safety-client/pkg/entities"
)

var (
	ErrUnknownHazard  = errors.New("hazard is not offered by the selected tasks")
	ErrUnknownControl = errors.New("control is not offered for hazard")
	ErrNotSelected    = errors.New("hazard is not selected")
)

type Control struct {
	ID       entities.LibraryControlID
	Name     string
	Selected bool
}

type Hazard struct {
	ID         entities.LibraryHazardID
	Name       string
	Applicable bool
	Controls   []Control
}

// Selection is an immutable value. Every change returns a new Selection.
type Selection struct {
	library []entities.LibraryHazard
	chosen  []Hazard
}

// New offers the library hazards of tasks. A hazard shared by several tasks
// is offered once with the union of its controls.
func New(tasks ...entities.LibraryTask) Selection {
	var library []entities.LibraryHazard

	for _, task := range tasks {
		for _, h := range task.Hazards {
			i := slices.IndexFunc(library, func(l entities.LibraryHazard) bool { return l.ID == h.ID })
			if i < 0 {
				h.Controls = slices.Clone(h.Controls)
				library = append(library, h)

				continue
			}

			for _, c := range h.Controls {
				if !slices.ContainsFunc(library[i].Controls, func(l entities.LibraryControl) bool { return l.ID == c.ID }) {
					library[i].Controls = append(library[i].Controls, c)
				}
			}
		}
	}

	return Selection{library: library}
}

// Restore rebuilds the selection of a saved form. Recorded hazards that do
// not come from the library are skipped.
func Restore(tasks []entities.LibraryTask, recorded []entities.Hazard) Selection {
	s := New(tasks...)

	for _, h := range recorded {
		in, ok := h.Input()
		if !ok || s.indexOf(in.ID) >= 0 {
			continue
		}

		hazard := Hazard{ID: in.ID, Name: in.Name, Applicable: in.IsApplicable}
		for _, c := range in.Controls {
			hazard.Controls = append(hazard.Controls, Control{ID: c.ID, Name: c.Name, Selected: c.IsApplicable})
		}

		if lib, ok := s.libraryHazard(in.ID); ok {
			for _, c := range lib.Controls {
				if !hasControl(hazard, c.ID) {
					hazard.Controls = append(hazard.Controls, Control{ID: c.ID, Name: c.Name})
				}
			}
		}

		s.chosen = append(s.chosen, hazard)
	}

	return s
}

// Available lists the library hazards that can still be added.
func (s Selection) Available() []entities.LibraryHazard {
	var out []entities.LibraryHazard

	for _, h := range s.library {
		if s.indexOf(h.ID) < 0 {
			out = append(out, h)
		}
	}

	return out
}

// Hazards returns a copy of the chosen hazards.
func (s Selection) Hazards() []Hazard {
	return s.clone().chosen
}

// AddHazards adds library hazards with all their controls unselected.
// Hazards already chosen are left as they are.
func (s Selection) AddHazards(ids ...entities.LibraryHazardID) (Selection, error) {
	next := s.clone()

	for _, id := range ids {
		lib, ok := next.libraryHazard(id)
		if !ok {
			return s, fmt.Errorf("%w: %s", ErrUnknownHazard, id)
		}

		if next.indexOf(id) >= 0 {
			continue
		}

		hazard := Hazard{ID: lib.ID, Name: lib.Name, Applicable: true, Controls: []Control{}}
		for _, c := range lib.Controls {
			hazard.Controls = append(hazard.Controls, Control{ID: c.ID, Name: c.Name})
		}

		next.chosen = append(next.chosen, hazard)
	}

	return next, nil
}

func (s Selection) RemoveHazard(id entities.LibraryHazardID) Selection {
	next := s.clone()
	next.chosen = slices.DeleteFunc(next.chosen, func(h Hazard) bool { return h.ID == id })

	return next
}

// AddControls selects controls of a chosen hazard.
func (s Selection) AddControls(hazard entities.LibraryHazardID, controls ...entities.LibraryControlID) (Selection, error) {
	return s.update(hazard, func(h *Hazard) error {
		for _, id := range controls {
			i := slices.IndexFunc(h.Controls, func(c Control) bool { return c.ID == id })
			if i < 0 {
				return fmt.Errorf("%w %s: %s", ErrUnknownControl, h.ID, id)
			}

			h.Controls[i].Selected = true
		}

		return nil
	})
}

func (s Selection) ToggleControl(hazard entities.LibraryHazardID, control entities.LibraryControlID) (Selection, error) {
	return s.update(hazard, func(h *Hazard) error {
		i := slices.IndexFunc(h.Controls, func(c Control) bool { return c.ID == control })
		if i < 0 {
			return fmt.Errorf("%w %s: %s", ErrUnknownControl, h.ID, control)
		}

		h.Controls[i].Selected = !h.Controls[i].Selected

		return nil
	})
}

func (s Selection) SetApplicable(hazard entities.LibraryHazardID, applicable bool) (Selection, error) {
	return s.update(hazard, func(h *Hazard) error {
		h.Applicable = applicable

		return nil
	})
}

// Inputs renders the selection as mutation input. Unselected controls are
// sent with isApplicable false so the server keeps them on record.
func (s Selection) Inputs() []entities.HazardInput {
	out := make([]entities.HazardInput, 0, len(s.chosen))

	for _, h := range s.chosen {
		in := entities.HazardInput{ID: h.ID, Name: h.Name, IsApplicable: h.Applicable, Controls: []entities.ControlInput{}}
		for _, c := range h.Controls {
			in.Controls = append(in.Controls, entities.ControlInput{ID: c.ID, Name: c.Name, IsApplicable: c.Selected})
		}

		out = append(out, in)
	}

	return out
}

func (s Selection) update(id entities.LibraryHazardID, fn func(*Hazard) error) (Selection, error) {
	next := s.clone()

	i := next.indexOf(id)
	if i < 0 {
		return s, fmt.Errorf("%w: %s", ErrNotSelected, id)
	}

	if err := fn(&next.chosen[i]); err != nil {
		return s, err
	}

	return next, nil
}

func (s Selection) clone() Selection {
	next := Selection{library: s.library, chosen: make([]Hazard, len(s.chosen))}

	for i, h := range s.chosen {
		h.Controls = slices.Clone(h.Controls)
		next.chosen[i] = h
	}

	return next
}

func (s Selection) indexOf(id entities.LibraryHazardID) int {
	return slices.IndexFunc(s.chosen, func(h Hazard) bool { return h.ID == id })
}

func (s Selection) libraryHazard(id entities.LibraryHazardID) (entities.LibraryHazard, bool) {
	return entities.FindByID(s.library, id)
}

func hasControl(h Hazard, id entities.LibraryControlID) bool {
	return slices.ContainsFunc(h.Controls, func(c Control) bool { return c.ID == id })
}
