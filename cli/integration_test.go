// Copyright 2025 The Rivaas Authors
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

//go:build integration

package cli_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/consul/api"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/testcontainers/testcontainers-go/modules/consul"

	"rivaas.dev/jsonschema/cli"
)

type run struct {
	code   int
	stdout string
	stderr string
}

func execute(stdin string, args ...string) run {
	var stdout, stderr bytes.Buffer
	cmd := &cli.Command{
		Stdin:  strings.NewReader(stdin),
		Stdout: &stdout,
		Stderr: &stderr,
		Dir:    GinkgoT().TempDir(),
	}
	code := cmd.Run(context.Background(), args)

	return run{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeSchema(content string) string {
	path := filepath.Join(GinkgoT().TempDir(), "schema.json")
	Expect(os.WriteFile(path, []byte(content), 0o600)).To(Succeed())

	return path
}

var _ = Describe("CLI Integration", func() {
	Describe("Remote references", func() {
		var server *httptest.Server

		BeforeEach(func() {
			mux := http.NewServeMux()
			mux.HandleFunc("/defs.json", func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"definitions": {"port": {"type": "integer", "maximum": 65535}}}`))
			})
			mux.HandleFunc("/slow.json", func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-time.After(2 * time.Second):
				case <-r.Context().Done():
				}
				_, _ = w.Write([]byte(`{}`))
			})
			server = httptest.NewServer(mux)
			DeferCleanup(server.Close)
		})

		It("should validate against a schema fetched over HTTP", func() {
			schema := writeSchema(`{"properties": {"port": {"$ref": "` + server.URL + `/defs.json#/definitions/port"}}}`)

			Expect(execute(`{"port": 8080}`, schema).code).To(Equal(cli.ExitOK))

			got := execute(`{"port": 70000}`, schema)
			Expect(got.code).To(Equal(cli.ExitInvalid))
			Expect(got.stderr).To(Equal("70000: 70000 is greater than the maximum of 65535\n"))
		})

		It("should log fetches when verbose", func() {
			schema := writeSchema(`{"$ref": "` + server.URL + `/defs.json#/definitions/port"}`)

			got := execute(`1`, "--verbose", schema)
			Expect(got.code).To(Equal(cli.ExitOK))
			Expect(got.stderr).To(ContainSubstring("fetched remote reference"))
			Expect(got.stderr).To(ContainSubstring(server.URL + "/defs.json"))
		})

		It("should give up on slow servers after the timeout", func() {
			schema := writeSchema(`{"$ref": "` + server.URL + `/slow.json"}`)

			got := execute(`1`, "--timeout", "100ms", "-o", "pretty", schema)
			Expect(got.code).To(Equal(cli.ExitInvalid))
			Expect(got.stderr).To(HavePrefix("╒══[RefResolutionError]"))
		})
	})

	Describe("Consul references", Ordered, func() {
		var client *api.Client

		BeforeAll(func(ctx SpecContext) {
			container, err := consul.Run(ctx, "hashicorp/consul:1.15")
			Expect(err).NotTo(HaveOccurred())
			DeferCleanup(func(ctx SpecContext) {
				Expect(container.Terminate(ctx)).To(Succeed())
			})

			endpoint, err := container.ApiEndpoint(ctx)
			Expect(err).NotTo(HaveOccurred())
			GinkgoT().Setenv("CONSUL_HTTP_ADDR", endpoint)

			config := api.DefaultConfig()
			config.Address = endpoint
			client, err = api.NewClient(config)
			Expect(err).NotTo(HaveOccurred())

			_, err = client.KV().Put(&api.KVPair{
				Key:   "schemas/name.yaml",
				Value: []byte("type: string\nminLength: 2\n"),
			}, nil)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should resolve consul:// references", func() {
			schema := writeSchema(`{"properties": {"name": {"$ref": "consul://schemas/name.yaml"}}}`)

			Expect(execute(`{"name": "Ada"}`, schema).code).To(Equal(cli.ExitOK))

			got := execute(`{"name": "A"}`, "-o", "json", schema)
			Expect(got.code).To(Equal(cli.ExitInvalid))
			Expect(got.stdout).To(ContainSubstring(`"message":"'A' is too short"`))
		})

		It("should report missing keys", func() {
			schema := writeSchema(`{"$ref": "consul://schemas/absent.json"}`)

			got := execute(`1`, "-o", "pretty", schema)
			Expect(got.code).To(Equal(cli.ExitInvalid))
			Expect(got.stderr).To(ContainSubstring("document not found"))
		})
	})
})
