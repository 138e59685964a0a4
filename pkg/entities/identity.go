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

package entities

import (
	"slices"
	"strings"

	"github.com/worker-safety/safety-client/pkg/codec"
)

// Identified is implemented by every entity. Entities are value objects, so
// the id is their whole identity.
type Identified interface {
	Key() string
}

func Equal[E Identified](a, b E) bool {
	return a.Key() == b.Key()
}

// SortByID returns a copy of items ordered by id.
func SortByID[E Identified](items []E) []E {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b E) int {
		return strings.Compare(a.Key(), b.Key())
	})

	return sorted
}

// FindByID returns the entity with the given id.
func FindByID[K codec.Kind, E interface{ Identity() codec.ID[K] }](items []E, id codec.ID[K]) (E, bool) {
	for _, item := range items {
		if item.Identity() == id {
			return item, true
		}
	}

	var zero E

	return zero, false
}
