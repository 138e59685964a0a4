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

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/worker-safety/safety-client/pkg/config"
)

var _ = Describe("Config", func() {
	log := zap.NewNop().Sugar()

	overrides := []string{
		"API_URL", "REST_URL", "AUTH_TOKEN", "ALLOW_INSECURE_TLS", "REQUEST_TIMEOUT",
		"STRICT_OPERATIONS", "METRICS_ADDR", "SENTRY_DSN", "APP_VERSION",
	}

	BeforeEach(func() {
		for _, key := range overrides {
			GinkgoT().Setenv(key, "")
		}
	})

	Describe("Parse", func() {
		It("layers the file over the defaults", func() {
			cfg, err := config.Parse(strings.NewReader(`
client:
  apiUrl: https://api.example.com/graphql
  strictOperations: true
`))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Client.APIURL).To(Equal("https://api.example.com/graphql"))
			Expect(cfg.Client.StrictOperations).To(BeTrue())
			Expect(cfg.Client.RequestTimeout).To(Equal(config.DefaultRequestTimeout))
		})

		It("reads durations in Go syntax", func() {
			cfg, err := config.Parse(strings.NewReader("client:\n  requestTimeout: 5s\n"))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Client.RequestTimeout).To(Equal(5 * time.Second))
		})

		It("rejects unknown keys", func() {
			_, err := config.Parse(strings.NewReader("client:\n  apiURL: https://typo.example.com\n"))
			Expect(err).To(HaveOccurred())
		})

		It("accepts an empty document", func() {
			cfg, err := config.Parse(strings.NewReader(""))
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg).To(Equal(config.Default()))
		})
	})

	Describe("LoadWithEnvOverrides", func() {
		var path string

		BeforeEach(func() {
			path = filepath.Join(GinkgoT().TempDir(), "config.yaml")
			Expect(os.WriteFile(path, []byte(`
client:
  apiUrl: https://file.example.com/graphql
  authToken: from-file
`), 0o600)).To(Succeed())
		})

		It("prefers environment values over the file", func() {
			GinkgoT().Setenv("API_URL", "https://env.example.com/graphql")
			GinkgoT().Setenv("REQUEST_TIMEOUT", "10s")
			GinkgoT().Setenv("ALLOW_INSECURE_TLS", "true")

			cfg, err := config.LoadWithEnvOverrides(path, log)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Client.APIURL).To(Equal("https://env.example.com/graphql"))
			Expect(cfg.Client.AuthToken).To(Equal("from-file"))
			Expect(cfg.Client.RequestTimeout).To(Equal(10 * time.Second))
			Expect(cfg.Client.AllowInsecureTLS).To(BeTrue())
		})

		It("ignores malformed overrides", func() {
			GinkgoT().Setenv("API_URL", "not a url")
			GinkgoT().Setenv("REQUEST_TIMEOUT", "soon")

			cfg, err := config.LoadWithEnvOverrides(path, log)
			Expect(err).ToNot(HaveOccurred())
			Expect(cfg.Client.APIURL).To(Equal("https://file.example.com/graphql"))
			Expect(cfg.Client.RequestTimeout).To(Equal(config.DefaultRequestTimeout))
		})

		It("fails for a missing file", func() {
			_, err := config.LoadWithEnvOverrides(filepath.Join(GinkgoT().TempDir(), "nope.yaml"), log)
			Expect(err).To(MatchError(ContainSubstring("failed to read config file")))
		})
	})

	Describe("Validate", func() {
		It("collects every problem", func() {
			cfg := config.Default()
			cfg.Client.APIURL = "ftp://example.com"
			cfg.Client.RESTURL = "/relative"
			cfg.Client.RequestTimeout = 0

			err := cfg.Validate()
			Expect(err).To(MatchError(ContainSubstring("client.apiUrl")))
			Expect(err).To(MatchError(ContainSubstring("client.restUrl")))
			Expect(err).To(MatchError(ContainSubstring("client.requestTimeout")))
		})

		It("accepts the defaults", func() {
			Expect(config.Default().Validate()).To(Succeed())
		})
	})

	It("derives the REST base from the GraphQL endpoint", func() {
		cfg := config.Default()
		cfg.Client.APIURL = "https://api.example.com/graphql"
		Expect(cfg.Client.RESTBaseURL()).To(Equal("https://api.example.com"))

		cfg.Client.RESTURL = "https://rest.example.com/v1"
		Expect(cfg.Client.RESTBaseURL()).To(Equal("https://rest.example.com/v1"))
	})

	It("masks the auth token when rendering", func() {
		cfg := config.Default()
		cfg.Client.AuthToken = "secret"

		out, err := config.Marshal(cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(out)).ToNot(ContainSubstring("secret"))
		Expect(cfg.Client.AuthToken).To(Equal("secret"))
	})
})
