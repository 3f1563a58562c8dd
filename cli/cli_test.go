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

//go:build !integration

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"type": "object",
	"properties": {
		"name": {"type": "string"},
		"age": {"type": "integer", "minimum": 0}
	},
	"required": ["name"]
}`

type outcome struct {
	code   int
	stdout string
	stderr string
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func runCommand(t *testing.T, stdin string, environ []string, args ...string) outcome {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := &Command{
		Stdin:   strings.NewReader(stdin),
		Stdout:  &stdout,
		Stderr:  &stderr,
		Environ: environ,
		Dir:     t.TempDir(),
	}
	code := cmd.Run(context.Background(), args)

	return outcome{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestRun_Plain(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", personSchema)
	valid := writeFile(t, dir, "valid.json", `{"name": "Ada", "age": 36}`)
	invalid := writeFile(t, dir, "invalid.yaml", "name: Ada\nage: -1\n")
	missing := filepath.Join(dir, "missing.json")
	broken := writeFile(t, dir, "broken.json", `{"name": `)

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStderr string
	}{
		{
			name:     "valid instance",
			args:     []string{"-i", valid, schema},
			wantCode: ExitOK,
		},
		{
			name:       "invalid instance",
			args:       []string{"-i", invalid, schema},
			wantCode:   ExitInvalid,
			wantStderr: "-1: -1 is less than the minimum of 0\n",
		},
		{
			name:       "one of several invalid",
			args:       []string{"--instance", valid, "-i", invalid, schema},
			wantCode:   ExitInvalid,
			wantStderr: "-1: -1 is less than the minimum of 0\n",
		},
		{
			name:       "custom error format",
			args:       []string{"-F", "{{.Path}} {{.Keyword}} {{.SchemaPath}}\n", "-i", invalid, schema},
			wantCode:   ExitInvalid,
			wantStderr: "/age minimum /properties/age/minimum\n",
		},
		{
			name:       "missing instance",
			args:       []string{"-i", missing, schema},
			wantCode:   ExitInvalid,
			wantStderr: "'" + missing + "' does not exist.\n",
		},
		{
			name:       "missing schema",
			args:       []string{"-i", valid, missing},
			wantCode:   ExitInvalid,
			wantStderr: "'" + missing + "' does not exist.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runCommand(t, "", nil, tt.args...)
			assert.Equal(t, tt.wantCode, got.code)
			assert.Equal(t, tt.wantStderr, got.stderr)
			assert.Empty(t, got.stdout)
		})
	}

	t.Run("unparsable instance", func(t *testing.T) {
		t.Parallel()

		got := runCommand(t, "", nil, "-i", broken, schema)
		assert.Equal(t, ExitInvalid, got.code)
		assert.True(t, strings.HasPrefix(got.stderr, "Failed to parse '"+broken+"': "), got.stderr)
	})
}

func TestRun_Stdin(t *testing.T) {
	t.Parallel()

	schema := writeFile(t, t.TempDir(), "schema.json", personSchema)

	got := runCommand(t, `{"name": "Ada"}`, nil, schema)
	assert.Equal(t, ExitOK, got.code)
	assert.Empty(t, got.stderr)

	got = runCommand(t, `{"age": 3}`, nil, schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Equal(t, "{'age': 3}: 'name' is a required property\n", got.stderr)

	got = runCommand(t, `not json`, nil, schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.True(t, strings.HasPrefix(got.stderr, "Failed to parse <stdin>: "), got.stderr)
}

func TestRun_InvalidSchema(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"minLength": "3"}`)

	got := runCommand(t, `"abc"`, nil, schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Equal(t, "'3': '3' is not of type 'integer'\n", got.stderr)

	got = runCommand(t, `"abc"`, nil, "-o", "json", schema)
	assert.Equal(t, ExitInvalid, got.code)

	var res jsonResult
	require.NoError(t, json.Unmarshal([]byte(got.stdout), &res))
	assert.False(t, res.Valid)
	assert.True(t, res.Schema)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/minLength", res.Errors[0].Path)
}

func TestRun_Validator(t *testing.T) {
	t.Parallel()

	// exclusiveMinimum is a boolean modifier in draft 4 and a number in draft 6.
	schema := writeFile(t, t.TempDir(), "schema.json", `{"minimum": 5, "exclusiveMinimum": true}`)

	got := runCommand(t, `5`, nil, "-V", "draft4", schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Equal(t, "5: 5 is less than or equal to the minimum of 5\n", got.stderr)

	got = runCommand(t, `5`, nil, "--validator", "draft7", schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Contains(t, got.stderr, "True is not of type 'number'")
}

func TestRun_FormatAndNullable(t *testing.T) {
	t.Parallel()

	schema := writeFile(t, t.TempDir(), "schema.json", `{"type": "string", "format": "email"}`)

	got := runCommand(t, `"nope"`, nil, schema)
	assert.Equal(t, ExitOK, got.code)

	got = runCommand(t, `"nope"`, nil, "--format", schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Equal(t, "'nope': 'nope' is not a 'email'\n", got.stderr)

	got = runCommand(t, `null`, nil, schema)
	assert.Equal(t, ExitInvalid, got.code)

	got = runCommand(t, `null`, nil, "--nullable", schema)
	assert.Equal(t, ExitOK, got.code)

	got = runCommand(t, `null`, []string{"JSONSCHEMA_NULLABLE=true"}, schema)
	assert.Equal(t, ExitOK, got.code)
}

func TestRun_JSONOutput(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", personSchema)
	valid := writeFile(t, dir, "valid.json", `{"name": "Ada"}`)
	invalid := writeFile(t, dir, "invalid.toml", "age = -1\n")

	got := runCommand(t, "", nil, "-o", "json", "-i", valid, "-i", invalid, schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Empty(t, got.stderr)

	dec := json.NewDecoder(strings.NewReader(got.stdout))
	var first, second jsonResult
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, jsonResult{Instance: valid, Valid: true}, first)
	assert.Equal(t, invalid, second.Instance)
	assert.False(t, second.Valid)
	assert.Equal(t, []jsonError{
		{Message: "-1 is less than the minimum of 0", Path: "/age", SchemaPath: "/properties/age/minimum", Keyword: "minimum"},
		{Message: "'name' is a required property", Path: "", SchemaPath: "/required", Keyword: "required"},
	}, second.Errors)
}

func TestRun_PrettyOutput(t *testing.T) {
	t.Parallel()

	schema := writeFile(t, t.TempDir(), "schema.json", personSchema)

	got := runCommand(t, `{"name": 1}`, nil, "-o", "pretty", schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Empty(t, got.stdout)

	lines := strings.Split(got.stderr, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "╒══[ValidationError]═══(<stdin>)═"), lines[0])
	assert.True(t, strings.HasSuffix(lines[0], "╕"), lines[0])
	assert.Equal(t, prettyWidth, utf8.RuneCountInString(lines[0]))
	assert.Equal(t, "1 is not of type 'string'", lines[1])
	assert.Contains(t, got.stderr, "└"+strings.Repeat("─", prettyWidth-2)+"┘")

	got = runCommand(t, `{"name": "Ada"}`, nil, "--output=pretty", schema)
	assert.Equal(t, ExitOK, got.code)
	assert.Empty(t, got.stderr)
	assert.True(t, strings.HasPrefix(got.stdout, "═══[SUCCESS]═══(<stdin>)═"), got.stdout)
}

func TestRun_PrettyLoadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", personSchema)

	got := runCommand(t, `{`, nil, "-o", "pretty", schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.True(t, strings.HasPrefix(got.stderr, "╒══[ParseError]═══(<stdin>)"), got.stderr)
}

func TestRun_UnresolvableRef(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.json", `{"$ref": "missing.json"}`)

	got := runCommand(t, `1`, nil, "-o", "pretty", schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.True(t, strings.HasPrefix(got.stderr, "╒══[RefResolutionError]═══(<stdin>)"), got.stderr)
}

func TestRun_RelativeFileRef(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "name.yaml", "type: string\nminLength: 2\n")
	schema := writeFile(t, dir, "schema.json", `{"properties": {"name": {"$ref": "name.yaml"}}}`)

	got := runCommand(t, `{"name": "A"}`, nil, schema)
	assert.Equal(t, ExitInvalid, got.code)
	assert.Equal(t, "'A': 'A' is too short\n", got.stderr)
}

func TestRun_Usage(t *testing.T) {
	t.Parallel()

	schema := writeFile(t, t.TempDir(), "schema.json", personSchema)

	tests := []struct {
		name    string
		args    []string
		environ []string
		want    string
	}{
		{name: "no schema", args: nil, want: "exactly one schema argument is required"},
		{name: "two schemas", args: []string{schema, schema}, want: "exactly one schema argument is required"},
		{name: "unknown flag", args: []string{"--bogus", schema}, want: "flag provided but not defined: -bogus"},
		{name: "error format with json", args: []string{"-o", "json", "-F", "{{.Message}}", schema}, want: "--error-format can only be used with plain output"},
		{name: "unknown output", args: []string{"-o", "xml", schema}, want: "invalid settings"},
		{name: "unknown validator", args: []string{"-V", "draft5", schema}, want: "invalid settings"},
		{name: "bad template", args: []string{"-F", "{{.Nope", schema}, want: "invalid error format"},
		{name: "bad environment", args: []string{schema}, environ: []string{"JSONSCHEMA_MAX_REF_DEPTH=deep"}, want: "JSONSCHEMA_MAX_REF_DEPTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := runCommand(t, "", tt.environ, tt.args...)
			assert.Equal(t, ExitUsage, got.code)
			assert.Contains(t, got.stderr, tt.want)
		})
	}
}

func TestRun_Version(t *testing.T) {
	t.Parallel()

	got := runCommand(t, "", nil, "--version")
	assert.Equal(t, ExitOK, got.code)
	assert.Equal(t, "jsonschema dev\n", got.stdout)
}
