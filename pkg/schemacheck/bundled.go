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

package schemacheck

import (
	"slices"

	"github.com/worker-safety/safety-client/pkg/api"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/operations"
)

// CheckBundled runs Check for every entity and response codec against the
// embedded schema.
func CheckBundled() error {
	schema, err := operations.LoadSchema()
	if err != nil {
		return err
	}

	shapes := entities.Shapes()

	responses := api.ResponseShapes()
	for _, name := range sortedKeys(responses) {
		shapes = append(shapes, responses[name])
	}

	logger.For(logger.ComponentSchemaChk).Debugf("Checking %d codecs against the schema", len(shapes))

	return Check(schema, shapes...)
}

func sortedKeys(m map[string]codec.ObjectShape) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}
