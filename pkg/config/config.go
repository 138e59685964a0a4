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

// Package config loads the client configuration from a YAML file and lets
// environment variables override individual values.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/tiendc/go-deepcopy"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/worker-safety/safety-client/pkg/env"
	"github.com/worker-safety/safety-client/pkg/sentry"
)

const DefaultRequestTimeout = 30 * time.Second

type FullConfig struct {
	Client  ClientConfig  `yaml:"client"`
	Metrics MetricsConfig `yaml:"metrics,omitempty"`
	Sentry  SentryConfig  `yaml:"sentry,omitempty"`
}

type ClientConfig struct {
	APIURL  string `yaml:"apiUrl"`            // GraphQL endpoint
	RESTURL string `yaml:"restUrl,omitempty"` // base URL of the REST escape hatch
	// AuthToken seeds a static session. Leave empty to sign in interactively.
	AuthToken        string        `yaml:"authToken,omitempty"`
	AllowInsecureTLS bool          `yaml:"allowInsecureTLS,omitempty"`
	RequestTimeout   time.Duration `yaml:"requestTimeout,omitempty"`
	// StrictOperations validates every document against the bundled schema before sending.
	StrictOperations bool `yaml:"strictOperations,omitempty"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr,omitempty"` // e.g. ":8081"; empty disables the endpoint
}

type SentryConfig struct {
	DSN        string `yaml:"dsn,omitempty"`
	AppVersion string `yaml:"appVersion,omitempty"`
}

func Default() FullConfig {
	return FullConfig{
		Client: ClientConfig{
			APIURL:         "http://localhost:8000/graphql",
			RequestTimeout: DefaultRequestTimeout,
		},
		Sentry: SentryConfig{AppVersion: sentry.DefaultAppVersion},
	}
}

// Clone returns a deep copy of the config.
func (c FullConfig) Clone() FullConfig {
	var clone FullConfig

	if err := deepcopy.Copy(&clone, &c); err != nil {
		return c
	}

	return clone
}

// RESTBaseURL falls back to the origin of the GraphQL endpoint.
func (c ClientConfig) RESTBaseURL() string {
	if c.RESTURL != "" {
		return c.RESTURL
	}

	u, err := url.Parse(c.APIURL)
	if err != nil {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// Parse reads a YAML document on top of the defaults. Unknown keys are an
// error so typos do not silently fall back to defaults.
func Parse(r io.Reader) (FullConfig, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return FullConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadFile parses the file at path. An empty path yields the defaults.
func LoadFile(path string) (FullConfig, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return FullConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(bytes.NewReader(data))
}

// LoadWithEnvOverrides loads path and applies environment overrides.
//
// Order of precedence (highest to lowest):
//  1. Environment variables (API_URL, REST_URL, AUTH_TOKEN, ALLOW_INSECURE_TLS,
//     REQUEST_TIMEOUT, STRICT_OPERATIONS, METRICS_ADDR, SENTRY_DSN, APP_VERSION)
//  2. Config file values
//  3. Defaults
//
// Malformed environment values are reported and ignored. The result is validated.
func LoadWithEnvOverrides(path string, log *zap.SugaredLogger) (FullConfig, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return FullConfig{}, err
	}

	cfg = ApplyEnvOverrides(cfg, log)

	if err := cfg.Validate(); err != nil {
		return FullConfig{}, err
	}

	return cfg, nil
}

func ApplyEnvOverrides(cfg FullConfig, log *zap.SugaredLogger) FullConfig {
	out := cfg.Clone()

	warn := func(err error) {
		sentry.ReportIssuef(sentry.IssueTypeWarning, log, "ignoring environment override: %w", err)
	}

	if v, err := env.GetAsURL("API_URL", false, ""); err != nil {
		warn(err)
	} else if v != "" {
		out.Client.APIURL = v
	}

	if v, err := env.GetAsURL("REST_URL", false, ""); err != nil {
		warn(err)
	} else if v != "" {
		out.Client.RESTURL = v
	}

	if v, err := env.GetAsString("AUTH_TOKEN", false, ""); err != nil {
		warn(err)
	} else if v != "" {
		out.Client.AuthToken = v
	}

	if v, err := env.GetAsBool("ALLOW_INSECURE_TLS", false, out.Client.AllowInsecureTLS); err != nil {
		warn(err)
	} else {
		out.Client.AllowInsecureTLS = v
	}

	if v, err := env.GetAsDuration("REQUEST_TIMEOUT", false, out.Client.RequestTimeout); err != nil {
		warn(err)
	} else {
		out.Client.RequestTimeout = v
	}

	if v, err := env.GetAsBool("STRICT_OPERATIONS", false, out.Client.StrictOperations); err != nil {
		warn(err)
	} else {
		out.Client.StrictOperations = v
	}

	if v, err := env.GetAsString("METRICS_ADDR", false, ""); err != nil {
		warn(err)
	} else if v != "" {
		out.Metrics.Addr = v
	}

	if v, err := env.GetAsString("SENTRY_DSN", false, ""); err != nil {
		warn(err)
	} else if v != "" {
		out.Sentry.DSN = v
	}

	if v, err := env.GetAsString("APP_VERSION", false, ""); err != nil {
		warn(err)
	} else if v != "" {
		out.Sentry.AppVersion = v
	}

	return out
}

func (c FullConfig) Validate() error {
	var errs []error

	if err := validateURL("client.apiUrl", c.Client.APIURL, true); err != nil {
		errs = append(errs, err)
	}

	if err := validateURL("client.restUrl", c.Client.RESTURL, false); err != nil {
		errs = append(errs, err)
	}

	if c.Client.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("client.requestTimeout must be positive, got %s", c.Client.RequestTimeout))
	}

	return errors.Join(errs...)
}

func validateURL(field, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", field)
		}

		return nil
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", field, value)
	}

	return nil
}

// Marshal renders the config as YAML with the auth token masked.
func Marshal(c FullConfig) ([]byte, error) {
	out := c.Clone()
	if out.Client.AuthToken != "" {
		out.Client.AuthToken = "********"
	}

	return yaml.Marshal(out)
}
