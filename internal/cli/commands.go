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
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/worker-safety/safety-client/internal/fakeapi"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/operations"
	"github.com/worker-safety/safety-client/pkg/rest"
	"github.com/worker-safety/safety-client/pkg/safejson"
	"github.com/worker-safety/safety-client/pkg/schemacheck"
	"github.com/worker-safety/safety-client/pkg/upload"
)

func (a *app) uploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload attachments and print the file references forms accept",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			concurrency, _ := cmd.Flags().GetInt("concurrency")

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			files := make([]upload.LocalFile, 0, len(args))
			for _, path := range args {
				files = append(files, upload.FromPath(path))
			}

			uploader := upload.NewUploader(c.GraphQL,
				upload.WithConcurrency(concurrency),
				upload.WithLogger(logger.For(logger.ComponentUpload)),
			)

			uploaded, err := uploader.Upload(cmd.Context(), files...)
			if err != nil {
				return err
			}

			return printJSON(cmd, uploaded)
		},
	}

	cmd.Flags().Int("concurrency", 4, "parallel uploads")

	return cmd
}

func (a *app) restCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rest <method> <endpoint> [json]",
		Short: "Call a REST endpoint of the platform directly",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			method := strings.ToUpper(args[0])

			var payload any
			if len(args) == 3 {
				value, err := safejson.DecodeValue([]byte(args[2]))
				if err != nil {
					return fmt.Errorf("payload is not valid JSON: %w", err)
				}

				payload = value
			}

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			result, code, err := rest.Do[any](cmd.Context(), c.REST, method, args[1], payload)
			if err != nil {
				return err
			}

			if result == nil {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %d (no content)\n", okMark, code)

				return err
			}

			return printJSON(cmd, *result)
		},
	}
}

func (a *app) schemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Inspect the bundled GraphQL schema and operations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Check that every decoder agrees with the bundled schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := schemacheck.CheckBundled()

			var drift *schemacheck.DriftError
			if errors.As(err, &drift) {
				for _, d := range drift.Drifts {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", failMark, d)
				}

				return fmt.Errorf("%d decoder(s) drifted from the schema", len(drift.Drifts))
			}

			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s decoders match the schema\n", okMark)

			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "operations",
		Short: "List the bundled operations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := operations.Default()
			if err != nil {
				return err
			}

			bold := color.New(color.Bold)

			for _, name := range catalog.Names() {
				op, err := catalog.Get(name)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%-26s %-8s %s\n", bold.Sprint(name), op.Kind, op.Field)
			}

			return nil
		},
	})

	return cmd
}

func (a *app) devServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Serve a local fake API with sample data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, _ := cmd.Flags().GetString("addr")
			token, _ := cmd.Flags().GetString("token")

			catalog, err := operations.Default()
			if err != nil {
				return err
			}

			server := fakeapi.New(catalog, fakeapi.WithToken(token))
			server.Seed()

			if err := server.Start(addr); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s fake API on %s%s (token %q)\n", okMark, server.BaseURL(), fakeapi.GraphQLPath, token)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
			defer cancel()

			return server.Stop(shutdownCtx)
		},
	}

	cmd.Flags().String("addr", "127.0.0.1:8000", "listen address")
	cmd.Flags().String("token", "dev-token", "bearer token the fake API accepts")

	return cmd
}
