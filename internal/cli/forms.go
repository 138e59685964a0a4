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
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/worker-safety/safety-client/pkg/api"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/forms/status"
	"github.com/worker-safety/safety-client/pkg/graphql"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

// formOps binds one form type (briefing or observation) to its operations so
// both share the same commands.
type formOps[K codec.Kind, F any, In any] struct {
	use      string
	title    string
	get      func(ctx context.Context, c *graphql.Client, id codec.ID[K]) (F, error)
	status   func(F) entities.FormStatus
	input    func(F) In
	save     func(ctx context.Context, c *graphql.Client, id codec.ID[K], in In) (F, error)
	complete func(ctx context.Context, c *graphql.Client, id codec.ID[K], in In) (F, error)
	reopen   func(ctx context.Context, c *graphql.Client, id codec.ID[K]) (F, error)
	remove   func(ctx context.Context, c *graphql.Client, id codec.ID[K]) error
}

func (a *app) jsbCmd() *cobra.Command {
	return formCmd(a, formOps[entities.JsbKind, entities.Jsb, entities.SaveJsbInput]{
		use:    "jsb",
		title:  "job safety briefing",
		get:    api.GetJsb,
		status: func(j entities.Jsb) entities.FormStatus { return j.Status },
		input:  entities.Jsb.Input,
		save: func(ctx context.Context, c *graphql.Client, id entities.JsbID, in entities.SaveJsbInput) (entities.Jsb, error) {
			in.JsbID = id

			return api.SaveJsb(ctx, c, in)
		},
		complete: func(ctx context.Context, c *graphql.Client, id entities.JsbID, in entities.SaveJsbInput) (entities.Jsb, error) {
			in.JsbID = id

			return api.CompleteJsb(ctx, c, in)
		},
		reopen: api.ReopenJsb,
		remove: api.DeleteJsb,
	})
}

func (a *app) eboCmd() *cobra.Command {
	return formCmd(a, formOps[entities.EboKind, entities.Ebo, entities.EboInput]{
		use:      "ebo",
		title:    "energy-based observation",
		get:      api.GetEbo,
		status:   func(e entities.Ebo) entities.FormStatus { return e.Status },
		input:    entities.Ebo.Input,
		save:     api.SaveEbo,
		complete: api.CompleteEbo,
		reopen:   api.ReopenEbo,
		remove:   api.DeleteEbo,
	})
}

func formCmd[K codec.Kind, F any, In any](a *app, ops formOps[K, F, In]) *cobra.Command {
	cmd := &cobra.Command{
		Use:   ops.use,
		Short: fmt.Sprintf("Manage %ss", ops.title),
	}

	// load fetches the form and the lifecycle matching its server status.
	load := func(cmd *cobra.Command, raw string) (*graphql.Client, codec.ID[K], F, *status.Lifecycle, error) {
		var form F

		id, err := parseID[K](raw)
		if err != nil {
			return nil, id, form, nil, err
		}

		c, err := a.clients(cmd.Context())
		if err != nil {
			return nil, id, form, nil, err
		}

		form, err = ops.get(cmd.Context(), c.GraphQL, id)
		if err != nil {
			return nil, id, form, nil, err
		}

		return c.GraphQL, id, form, status.FromStatus(id.String(), ops.status(form)), nil
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: fmt.Sprintf("Show a %s", ops.title),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, form, _, err := load(cmd, args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd, form)
		},
	}

	save := &cobra.Command{
		Use:   "save [id]",
		Short: fmt.Sprintf("Create a %s, or update one in progress, from a JSON input file", ops.title),
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput[In](cmd)
			if err != nil {
				return err
			}

			var (
				c         *graphql.Client
				id        codec.ID[K]
				lifecycle = status.New("new " + ops.use)
			)

			if len(args) == 1 {
				if c, id, _, lifecycle, err = load(cmd, args[0]); err != nil {
					return err
				}
			} else {
				clients, err := a.clients(cmd.Context())
				if err != nil {
					return err
				}

				c = clients.GraphQL
			}

			form, err := status.Run(cmd.Context(), lifecycle, status.EventSave, func(ctx context.Context) (F, error) {
				return ops.save(ctx, c, id, in)
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, form)
		},
	}
	save.Flags().StringP("input", "i", "", "JSON file holding the form input")
	_ = save.MarkFlagRequired("input")

	complete := &cobra.Command{
		Use:   "complete <id>",
		Short: fmt.Sprintf("Complete a %s, keeping its saved contents unless --input is given", ops.title),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, id, form, lifecycle, err := load(cmd, args[0])
			if err != nil {
				return err
			}

			in := ops.input(form)
			if path, _ := cmd.Flags().GetString("input"); path != "" {
				if in, err = readInput[In](cmd); err != nil {
					return err
				}
			}

			completed, err := status.Run(cmd.Context(), lifecycle, status.EventComplete, func(ctx context.Context) (F, error) {
				return ops.complete(ctx, c, id, in)
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, completed)
		},
	}
	complete.Flags().StringP("input", "i", "", "JSON file holding the form input")

	reopen := &cobra.Command{
		Use:   "reopen <id>",
		Short: fmt.Sprintf("Reopen a completed %s", ops.title),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, id, _, lifecycle, err := load(cmd, args[0])
			if err != nil {
				return err
			}

			reopened, err := status.Run(cmd.Context(), lifecycle, status.EventReopen, func(ctx context.Context) (F, error) {
				return ops.reopen(ctx, c, id)
			})
			if err != nil {
				return err
			}

			return printJSON(cmd, reopened)
		},
	}

	remove := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s", ops.title),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, id, _, lifecycle, err := load(cmd, args[0])
			if err != nil {
				return err
			}

			_, err = status.Run(cmd.Context(), lifecycle, status.EventDelete, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, ops.remove(ctx, c, id)
			})
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s Deleted %s %s\n", okMark, ops.title, id)

			return err
		},
	}

	cmd.AddCommand(get, save, complete, reopen, remove)

	return cmd
}

func readInput[In any](cmd *cobra.Command) (In, error) {
	var in In

	path, _ := cmd.Flags().GetString("input")

	data, err := os.ReadFile(path)
	if err != nil {
		return in, fmt.Errorf("read input: %w", err)
	}

	if err := safejson.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("parse input %s: %w", path, err)
	}

	return in, nil
}
