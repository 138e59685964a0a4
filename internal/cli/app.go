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

// Package cli implements the safetyctl command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/config"
	"github.com/worker-safety/safety-client/pkg/logger"
	"github.com/worker-safety/safety-client/pkg/metrics"
	"github.com/worker-safety/safety-client/pkg/sentry"
	"github.com/worker-safety/safety-client/pkg/session"
)

var ErrNoToken = errors.New("no auth token configured: set AUTH_TOKEN or client.authToken")

// app carries what the commands share for one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg     config.FullConfig
	log     *zap.SugaredLogger
	manager *session.Manager
	metrics *http.Server
}

// NewRootCmd builds a fresh command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "safetyctl",
		Short:         "Work with the worker-safety platform from the command line",
		Long:          "safetyctl reads tasks, manages job safety briefings and energy-based observations, uploads attachments and runs a local fake API.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.setup()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "print detailed errors")

	root.AddCommand(a.meCmd())
	root.AddCommand(a.taskCmd())
	root.AddCommand(a.locationCmd())
	root.AddCommand(a.siteConditionsCmd())
	root.AddCommand(a.medicalFacilitiesCmd())
	root.AddCommand(a.jsbCmd())
	root.AddCommand(a.eboCmd())
	root.AddCommand(a.uploadCmd())
	root.AddCommand(a.restCmd())
	root.AddCommand(a.schemaCmd())
	root.AddCommand(a.devServerCmd())

	return root
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{}
	defer a.teardown()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	fmt.Fprintln(stderr, color.New(color.FgRed).Sprint(FormatError(err, a.verbose)))

	return 1
}

// FormatError renders API errors for users, or in full when verbose is set.
// Other errors are printed as they are.
func FormatError(err error, verbose bool) string {
	if _, ok := apierror.As(err); !ok {
		return err.Error()
	}

	if verbose {
		return apierror.Verbose(err)
	}

	return apierror.UserMessage(err)
}

func (a *app) setup() error {
	logger.Initialize()
	a.log = logger.For(logger.ComponentCLI)

	cfg, err := config.LoadWithEnvOverrides(a.configPath, logger.For(logger.ComponentConfig))
	if err != nil {
		return err
	}

	a.cfg = cfg

	sentry.InitSentry(cfg.Sentry.AppVersion, cfg.Sentry.DSN, true)

	if cfg.Metrics.Addr != "" {
		a.metrics = metrics.SetupMetricsEndpoint(cfg.Metrics.Addr)
	}

	a.manager = session.NewManager(cfg.Client,
		session.WithLogger(logger.For(logger.ComponentSession)),
		session.WithReauth(func(_ context.Context, reason error) {
			a.log.Warnf("Session ended (%v); export a fresh AUTH_TOKEN and run the command again", reason)
		}),
	)

	return nil
}

func (a *app) teardown() {
	if a.manager != nil {
		a.manager.SignOut()
	}

	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		if err := a.metrics.Shutdown(ctx); err != nil {
			sentry.ReportIssuef(sentry.IssueTypeError, a.log, "Failed to shutdown metrics server: %w", err)
		}
	}

	sentry.Flush(2 * time.Second)
	_ = logger.Sync()
}

// clients signs in with the configured token on first use.
func (a *app) clients(ctx context.Context) (*session.Clients, error) {
	if c, err := a.manager.Clients(); err == nil {
		return c, nil
	}

	if a.cfg.Client.AuthToken == "" {
		return nil, ErrNoToken
	}

	return a.manager.SignIn(ctx, session.StaticProvider{Token: a.cfg.Client.AuthToken})
}
