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

package rest_test

import (
	"context"
	"errors"
	"net/http"

	"github.com/h2non/gock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/httpclient"
	"github.com/worker-safety/safety-client/pkg/rest"
)

const baseURL = "https://rest.safety.test/rest"

type pdfStatus struct {
	Ready bool   `json:"ready"`
	URL   string `json:"url"`
}

var _ = Describe("REST client", func() {
	var (
		httpClient *http.Client
		client     *rest.Client
		ctx        context.Context
	)

	BeforeEach(func() {
		httpClient = &http.Client{}
		gock.InterceptClient(httpClient)
		ctx = context.Background()

		var err error
		client, err = rest.NewClient(baseURL+"/", httpclient.StaticToken("tok"), rest.WithHTTPClient(httpClient))
		Expect(err).ToNot(HaveOccurred())
	})

	AfterEach(func() {
		gock.RestoreClient(httpClient)
		gock.OffAll()
	})

	It("rejects relative base URLs", func() {
		_, err := rest.NewClient("/rest", nil)
		Expect(err).To(HaveOccurred())
	})

	It("sends JSON with the bearer token and decodes the result", func() {
		gock.New("https://rest.safety.test").
			Post("/rest/jsbs/j-1/pdf").
			MatchHeader("Authorization", "^Bearer tok$").
			MatchType("json").
			JSON(map[string]any{"locale": "en"}).
			Reply(200).
			JSON(map[string]any{"ready": true, "url": "https://files.test/j-1.pdf"})

		result, status, err := rest.Do[pdfStatus](ctx, client, http.MethodPost, "/jsbs/j-1/pdf", map[string]any{"locale": "en"})
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(200))
		Expect(*result).To(Equal(pdfStatus{Ready: true, URL: "https://files.test/j-1.pdf"}))
	})

	It("returns nil for an empty body", func() {
		gock.New("https://rest.safety.test").
			Delete("/rest/drafts/d-1").
			Reply(204)

		result, status, err := rest.Do[pdfStatus](ctx, client, http.MethodDelete, "drafts/d-1", nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(status).To(Equal(204))
		Expect(result).To(BeNil())
	})

	It("maps non-2xx responses to request errors with the server detail", func() {
		gock.New("https://rest.safety.test").
			Get("/rest/jsbs/j-2").
			Reply(404).
			JSON(map[string]any{"detail": "Job safety briefing j-2 does not exist"})

		_, status, err := rest.Do[pdfStatus](ctx, client, http.MethodGet, "/jsbs/j-2", nil)
		Expect(status).To(Equal(404))

		var requestErr *apierror.RequestError
		Expect(errors.As(err, &requestErr)).To(BeTrue())
		Expect(apierror.UserMessage(err)).To(Equal(apierror.MessageDeleted))
	})

	It("reports unparseable bodies as JSON parse errors", func() {
		gock.New("https://rest.safety.test").
			Get("/rest/health").
			Reply(200).
			BodyString("ok")

		_, _, err := rest.Do[pdfStatus](ctx, client, http.MethodGet, "/health", nil)

		var parseErr *apierror.JSONParseError
		Expect(errors.As(err, &parseErr)).To(BeTrue())
	})

	It("validates responses through a codec", func() {
		gock.New("https://rest.safety.test").
			Get("/rest/version").
			Reply(200).
			JSON(map[string]any{"version": ""})

		versionCodec := codec.Object("Version", func(f *codec.Fields) string {
			return codec.Required(f, "version", codec.NonEmptyString)
		})

		_, _, err := rest.Decode[string](ctx, client, http.MethodGet, "/version", nil, versionCodec)

		var decodeErr *apierror.DecodeError
		Expect(errors.As(err, &decodeErr)).To(BeTrue())
		Expect(decodeErr.HasPath("version")).To(BeTrue())
	})
})
