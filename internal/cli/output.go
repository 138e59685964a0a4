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

package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
)

// printJSON writes v indented to the command's stdout.
func printJSON(cmd *cobra.Command, v any) error {
	encoded, err := safejson.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(encoded))

	return err
}

func parseID[K codec.Kind](raw string) (codec.ID[K], error) {
	id, err := codec.NewID[K](raw)
	if err != nil {
		return id, fmt.Errorf("invalid id %q: %w", raw, err)
	}

	return id, nil
}

func parseDate(raw string) (codec.LocalDate, error) {
	d, err := codec.ParseLocalDate(raw)
	if err != nil {
		return d, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", raw, err)
	}

	return d, nil
}

func parseDecimal(name, raw string) (codec.Decimal, error) {
	var d codec.Decimal
	if err := d.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, raw, err)
	}

	return d, nil
}
