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

package loader

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/log"
	"github.com/testcontainers/testcontainers-go/modules/consul"
)

// ConsulLoaderTestSuite exercises the consul:// loader against a real Consul agent.
type ConsulLoaderTestSuite struct {
	suite.Suite
	consul *consul.ConsulContainer
	client *api.Client
}

// SetupSuite starts a Consul container.
func (s *ConsulLoaderTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := consul.Run(ctx, "hashicorp/consul:1.15", testcontainers.WithLogger(log.TestLogger(s.T())))
	s.Require().NoError(err)
	s.consul = container

	endpoint, err := container.ApiEndpoint(ctx)
	s.Require().NoError(err)

	s.T().Setenv("CONSUL_HTTP_ADDR", endpoint)

	config := api.DefaultConfig()
	config.Address = endpoint
	s.client, err = api.NewClient(config)
	s.Require().NoError(err)
}

// TearDownSuite stops the container.
func (s *ConsulLoaderTestSuite) TearDownSuite() {
	if s.consul != nil {
		s.Require().NoError(s.consul.Terminate(context.Background()))
	}
}

func TestConsulLoaderTestSuite(t *testing.T) {
	suite.Run(t, new(ConsulLoaderTestSuite))
}

func (s *ConsulLoaderTestSuite) put(key, value string) {
	_, err := s.client.KV().Put(&api.KVPair{Key: key, Value: []byte(value)}, nil)
	s.Require().NoError(err)
}

func (s *ConsulLoaderTestSuite) TestLoad_ValuePresent() {
	s.put("schemas/person.json", `{"type": "object", "required": ["name"]}`)

	kv, err := NewConsulKV()
	s.Require().NoError(err)

	doc, err := Consul(kv)(context.Background(), "consul://schemas/person.json")
	s.Require().NoError(err)
	s.Equal(map[string]any{"type": "object", "required": []any{"name"}}, doc)
}

func (s *ConsulLoaderTestSuite) TestLoad_YAMLValue() {
	s.put("schemas/limits.yaml", "maximum: 10\n")

	doc, err := Consul(s.client.KV())(context.Background(), "consul://schemas/limits.yaml")
	s.Require().NoError(err)
	s.Equal(map[string]any{"maximum": json.Number("10")}, doc)
}

func (s *ConsulLoaderTestSuite) TestLoad_ValueAbsent() {
	_, err := Consul(s.client.KV())(context.Background(), "consul://schemas/absent.json")
	s.Require().ErrorIs(err, ErrNotFound)
}
