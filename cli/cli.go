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

package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"

	"rivaas.dev/jsonschema"
	"rivaas.dev/jsonschema/codec"
	"rivaas.dev/jsonschema/loader"
)

// Version is reported by --version. It is set at build time with
// -ldflags "-X rivaas.dev/jsonschema/cli.Version=...".
var Version = "dev"

// Exit codes.
const (
	ExitOK      = 0
	ExitInvalid = 1
	ExitUsage   = 2
)

const stdinName = "<stdin>"

// flagSettings maps flag names to the setting they override.
var flagSettings = map[string]string{
	"o":             "output",
	"output":        "output",
	"F":             "error_format",
	"error-format":  "error_format",
	"V":             "validator",
	"validator":     "validator",
	"format":        "format",
	"nullable":      "nullable",
	"verbose":       "verbose",
	"max-ref-depth": "max_ref_depth",
	"timeout":       "timeout",
}

// Command is one invocation of the jsonschema command with its streams and
// environment. The zero value reads from nothing and writes nowhere.
type Command struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Environ []string
	Dir     string
}

// Run runs the command with the process's standard streams, environment and
// working directory.
func Run(ctx context.Context, args []string) int {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	cmd := &Command{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ(),
		Dir:     dir,
	}

	return cmd.Run(ctx, args)
}

// stringList collects a repeatable string flag.
type stringList []string

func (l *stringList) String() string { return strings.Join(*l, ",") }

func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func (l *stringList) Get() any { return []string(*l) }

// invocation is a parsed command line.
type invocation struct {
	schemaPath string
	instances  []string
	configPath string
	version    bool
	flags      map[string]any
}

func (c *Command) parse(args []string) (*invocation, error) {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	fs.SetOutput(c.stderr())
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintln(out, "Usage: jsonschema [options] <schema>")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Validates JSON, YAML, TOML or MessagePack instances against a JSON Schema.")
		fmt.Fprintln(out, "Instances are read from stdin when no -i is given.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Options:")
		fs.PrintDefaults()
	}

	var (
		inv      invocation
		instance stringList
		output   string
		errFmt   string
		draft    string
	)
	fs.Var(&instance, "i", "instance `file` to validate (repeatable)")
	fs.Var(&instance, "instance", "instance `file` to validate (repeatable)")
	fs.StringVar(&output, "o", "plain", "output format: plain, pretty or json")
	fs.StringVar(&output, "output", "plain", "output format: plain, pretty or json")
	fs.StringVar(&errFmt, "F", "", "Go template for each error in plain output")
	fs.StringVar(&errFmt, "error-format", "", "Go template for each error in plain output")
	fs.StringVar(&draft, "V", "", "dialect to validate with: draft3, draft4, draft6 or draft7")
	fs.StringVar(&draft, "validator", "", "dialect to validate with: draft3, draft4, draft6 or draft7")
	fs.Bool("format", false, "check the format keyword")
	fs.Bool("nullable", false, "accept null wherever a schema is not satisfied")
	fs.Bool("verbose", false, "log debug records to stderr")
	fs.Int("max-ref-depth", jsonschema.DefaultMaxRefDepth, "maximum nesting of $ref evaluation")
	fs.Duration("timeout", 0, "timeout for fetching remote references")
	fs.StringVar(&inv.configPath, "config", "", "settings `file` (default .jsonschema.{yaml,toml,json})")
	fs.BoolVar(&inv.version, "version", false, "print the version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	inv.flags = make(map[string]any)
	fs.Visit(func(f *flag.Flag) {
		key, ok := flagSettings[f.Name]
		if !ok {
			return
		}
		if g, ok := f.Value.(flag.Getter); ok {
			inv.flags[key] = g.Get()
		}
	})
	inv.instances = instance

	if inv.version {
		return &inv, nil
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return nil, errors.New("exactly one schema argument is required")
	}
	inv.schemaPath = fs.Arg(0)

	return &inv, nil
}

// Run parses args, validates every instance and returns the exit code: 0 when
// everything is valid, 1 when a document is invalid or cannot be loaded and 2
// for usage errors.
func (c *Command) Run(ctx context.Context, args []string) int {
	inv, err := c.parse(args)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(c.stderr(), "error: %v\n", err)
		}
		return ExitUsage
	}
	if inv.version {
		fmt.Fprintf(c.stdout(), "jsonschema %s\n", Version)
		return ExitOK
	}

	settings, err := loadSettings(settingsSources{
		configPath: inv.configPath,
		dir:        c.Dir,
		environ:    c.Environ,
		flags:      inv.flags,
	})
	if err != nil {
		fmt.Fprintf(c.stderr(), "error: %v\n", err)
		return ExitUsage
	}
	if settings.ErrorFormat != "" && settings.Output != "plain" {
		fmt.Fprintln(c.stderr(), "error: --error-format can only be used with plain output")
		return ExitUsage
	}

	rep, err := c.reporter(settings)
	if err != nil {
		fmt.Fprintf(c.stderr(), "error: %v\n", err)
		return ExitUsage
	}

	logger := slog.New(slog.DiscardHandler)
	if settings.Verbose {
		logger = slog.New(slog.NewTextHandler(c.stderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	code, err := c.validate(ctx, inv, settings, rep, logger)
	if err != nil {
		fmt.Fprintf(c.stderr(), "error: %v\n", err)
		return max(code, ExitInvalid)
	}

	return code
}

func (c *Command) reporter(s *Settings) (reporter, error) {
	switch s.Output {
	case "pretty":
		return newPrettyReporter(c.stdout(), c.stderr(), c.Environ), nil
	case "json":
		return newJSONReporter(c.stdout()), nil
	default:
		return newPlainReporter(s.ErrorFormat, c.stderr())
	}
}

// validate checks the schema and then each instance, reporting every result.
// The returned error is only set when writing a report fails.
func (c *Command) validate(ctx context.Context, inv *invocation, s *Settings, rep reporter, logger *slog.Logger) (int, error) {
	schema, err := loader.LoadFile(inv.schemaPath)
	if err != nil {
		return ExitInvalid, rep.report(result{name: inv.schemaPath, err: &loadError{path: inv.schemaPath, err: err}})
	}

	dialect := jsonschema.DialectFor(schema, nil)
	if s.Validator != "" {
		d, ok := jsonschema.DialectByName(s.Validator)
		if !ok {
			return ExitUsage, fmt.Errorf("unknown validator %q", s.Validator)
		}
		dialect = d
	}
	logger.Debug("checking schema", "schema", inv.schemaPath, "dialect", dialect.Name())

	if err = dialect.CheckSchema(schema); err != nil {
		var serr *jsonschema.SchemaError
		if errors.As(err, &serr) {
			return ExitInvalid, rep.report(result{name: inv.schemaPath, schemaError: serr})
		}
		return ExitInvalid, rep.report(result{name: inv.schemaPath, err: err})
	}

	v, err := c.newValidator(ctx, inv.schemaPath, schema, dialect, s, logger)
	if err != nil {
		return ExitInvalid, rep.report(result{name: inv.schemaPath, err: err})
	}

	code := ExitOK
	for name, doc := range c.instances(inv.instances) {
		r := result{name: name, err: doc.err}
		if doc.err == nil {
			r.errors, r.err = v.Errors(doc.value)
		}
		if !r.valid() {
			code = ExitInvalid
		}
		if err = rep.report(r); err != nil {
			return ExitInvalid, err
		}
	}

	return code, nil
}

func (c *Command) newValidator(ctx context.Context, schemaPath string, schema any, d *jsonschema.Dialect, s *Settings, logger *slog.Logger) (*jsonschema.Validator, error) {
	fileURI, err := loader.FileURI(schemaPath)
	if err != nil {
		return nil, err
	}
	baseURI := d.IDOf(schema)
	if baseURI == "" {
		baseURI = fileURI
	}

	if s.Nullable {
		d = jsonschema.Nullable(d)
	}

	opts := []jsonschema.Option{
		jsonschema.WithDialect(d),
		jsonschema.WithDocument(fileURI, schema),
		jsonschema.WithContext(ctx),
		jsonschema.WithLogger(logger),
		jsonschema.WithMaxRefDepth(s.MaxRefDepth),
		jsonschema.WithHTTPClient(&http.Client{Timeout: s.Timeout}),
		jsonschema.WithHandler("consul", consulHandler()),
	}
	if s.Format {
		opts = append(opts, jsonschema.WithFormatChecker(d.FormatChecker()))
	}

	resolver, err := jsonschema.NewResolver(baseURI, schema, opts...)
	if err != nil {
		return nil, err
	}

	return jsonschema.New(schema, append(opts, jsonschema.WithResolver(resolver))...)
}

// consulHandler connects to Consul on the first consul:// reference, so
// schemas that never use one do not need an agent.
func consulHandler() loader.Func {
	var (
		once  sync.Once
		fetch loader.Func
		err   error
	)

	return func(ctx context.Context, uri string) (any, error) {
		once.Do(func() {
			var kv loader.ConsulKV
			if kv, err = loader.NewConsulKV(); err == nil {
				fetch = loader.Consul(kv)
			}
		})
		if err != nil {
			return nil, err
		}

		return fetch(ctx, uri)
	}
}

// document is a loaded instance, or the reason it could not be loaded.
type document struct {
	value any
	err   error
}

// instances yields each named instance document, or stdin when none is named.
func (c *Command) instances(paths []string) iter.Seq2[string, document] {
	return func(yield func(string, document) bool) {
		if len(paths) == 0 {
			yield(stdinName, load(stdinName, func() (any, error) {
				return loader.LoadReader(c.stdin(), codec.TypeJSON)
			}))
			return
		}

		for _, path := range paths {
			doc := load(path, func() (any, error) { return loader.LoadFile(path) })
			if !yield(path, doc) {
				return
			}
		}
	}
}

func load(name string, fn func() (any, error)) document {
	value, err := fn()
	if err != nil {
		return document{err: &loadError{path: name, err: err}}
	}

	return document{value: value}
}

func (c *Command) stdin() io.Reader {
	if c.Stdin == nil {
		return strings.NewReader("")
	}
	return c.Stdin
}

func (c *Command) stdout() io.Writer {
	if c.Stdout == nil {
		return io.Discard
	}
	return c.Stdout
}

func (c *Command) stderr() io.Writer {
	if c.Stderr == nil {
		return io.Discard
	}
	return c.Stderr
}
