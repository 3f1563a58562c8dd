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
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"rivaas.dev/jsonschema"
	"rivaas.dev/jsonschema/jsonvalue"
	"rivaas.dev/jsonschema/loader"
)

// defaultErrorFormat is the plain output template used when -F is not given.
const defaultErrorFormat = "{{.Instance}}: {{.Message}}\n"

// result is the outcome of checking one document: the schema itself or an
// instance.
type result struct {
	name        string
	errors      []*jsonschema.ValidationError
	schemaError *jsonschema.SchemaError
	err         error
}

func (r result) valid() bool {
	return r.err == nil && r.schemaError == nil && len(r.errors) == 0
}

// loadError reports a document that could not be read or parsed.
type loadError struct {
	path string
	err  error
}

func (e *loadError) Error() string { return e.err.Error() }
func (e *loadError) Unwrap() error { return e.err }

// reporter writes results in one of the output formats.
type reporter interface {
	report(r result) error
}

// errorView is the data passed to the -F template.
type errorView struct {
	File       string
	Instance   string
	Message    string
	Path       string
	SchemaPath string
	Keyword    string
	Error      string
}

func newErrorView(file string, e *jsonschema.ValidationError, rendered string) errorView {
	return errorView{
		File:       file,
		Instance:   jsonvalue.Repr(e.Instance),
		Message:    e.Message,
		Path:       e.Path.Pointer(),
		SchemaPath: e.SchemaPath.Pointer(),
		Keyword:    e.Keyword,
		Error:      rendered,
	}
}

// plainReporter writes one templated line per error to stderr and nothing
// for valid documents.
type plainReporter struct {
	tmpl   *template.Template
	stderr io.Writer
}

func newPlainReporter(format string, stderr io.Writer) (*plainReporter, error) {
	if format == "" {
		format = defaultErrorFormat
	}
	tmpl, err := template.New("error").Parse(format)
	if err != nil {
		return nil, fmt.Errorf("invalid error format: %w", err)
	}

	return &plainReporter{tmpl: tmpl, stderr: stderr}, nil
}

func (p *plainReporter) report(r result) error {
	switch {
	case r.err != nil:
		_, err := io.WriteString(p.stderr, plainFailure(r.name, r.err))
		return err
	case r.schemaError != nil:
		return p.tmpl.Execute(p.stderr, newErrorView(r.name, &r.schemaError.ValidationError, r.schemaError.Error()))
	}

	for _, e := range r.errors {
		if err := p.tmpl.Execute(p.stderr, newErrorView(r.name, e, e.Error())); err != nil {
			return err
		}
	}

	return nil
}

func plainFailure(name string, err error) string {
	var lerr *loadError
	switch {
	case errors.As(err, &lerr) && errors.Is(err, loader.ErrNotFound):
		return fmt.Sprintf("%s does not exist.\n", jsonvalue.QuoteString(lerr.path))
	case errors.As(err, &lerr):
		if name == stdinName {
			return fmt.Sprintf("Failed to parse %s: %v\n", name, err)
		}
		return fmt.Sprintf("Failed to parse %s: %v\n", jsonvalue.QuoteString(name), err)
	default:
		return fmt.Sprintf("%s: %v\n", name, err)
	}
}

// prettyReporter draws a box per error and a banner per valid document.
type prettyReporter struct {
	stdout io.Writer
	stderr io.Writer
	width  int
}

const (
	prettyWidth   = 79
	prettyMinimum = 40
)

var (
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	borderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func newPrettyReporter(stdout, stderr io.Writer, environ []string) *prettyReporter {
	return &prettyReporter{
		stdout: colorprofile.NewWriter(stdout, environ),
		stderr: colorprofile.NewWriter(stderr, environ),
		width:  lineWidth(stdout),
	}
}

// lineWidth narrows the boxes to the terminal when stdout is a narrow terminal.
func lineWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prettyWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width < prettyMinimum {
		return prettyWidth
	}

	return min(width, prettyWidth)
}

func (p *prettyReporter) report(r result) error {
	switch {
	case r.err != nil:
		return p.box(r.name, failureType(r.err), r.err.Error())
	case r.schemaError != nil:
		return p.box(r.name, "SchemaError", r.schemaError.Error())
	case len(r.errors) == 0:
		_, err := fmt.Fprint(p.stdout, successStyle.Render(p.header(r.name, "SUCCESS", false))+"\n\n")
		return err
	}

	for _, e := range r.errors {
		if err := p.box(r.name, "ValidationError", e.Error()); err != nil {
			return err
		}
	}

	return nil
}

func (p *prettyReporter) box(name, kind, body string) error {
	footer := "└" + strings.Repeat("─", p.width-2) + "┘"
	_, err := fmt.Fprintf(p.stderr, "%s\n%s\n%s\n\n",
		failureStyle.Render(p.header(name, kind, true)), body, borderStyle.Render(footer))

	return err
}

// header renders ╒══[kind]═══(name)═══...╕, padded to the reporter width.
func (p *prettyReporter) header(name, kind string, top bool) string {
	begin, end := "═", "═"
	if top {
		begin, end = "╒", "╕"
	}
	line := fmt.Sprintf("%s══[%s]═══(%s)", begin, kind, name)
	if pad := p.width - 1 - lipgloss.Width(line); pad > 0 {
		line += strings.Repeat("═", pad)
	}

	return line + end
}

func failureType(err error) string {
	var (
		lerr *loadError
		rerr *jsonschema.RefResolutionError
		uerr *jsonschema.UnknownTypeError
	)
	switch {
	case errors.As(err, &lerr) && errors.Is(err, loader.ErrNotFound):
		return "FileNotFoundError"
	case errors.As(err, &lerr):
		return "ParseError"
	case errors.As(err, &rerr):
		return "RefResolutionError"
	case errors.As(err, &uerr):
		return "UnknownTypeError"
	default:
		return "Error"
	}
}

// jsonReporter writes one JSON object per document to stdout.
type jsonReporter struct {
	enc *json.Encoder
}

type jsonResult struct {
	Instance string      `json:"instance"`
	Valid    bool        `json:"valid"`
	Schema   bool        `json:"schemaError,omitempty"`
	Errors   []jsonError `json:"errors,omitempty"`
	Error    string      `json:"error,omitempty"`
}

type jsonError struct {
	Message    string `json:"message"`
	Path       string `json:"path"`
	SchemaPath string `json:"schemaPath"`
	Keyword    string `json:"keyword"`
}

func newJSONReporter(stdout io.Writer) *jsonReporter {
	return &jsonReporter{enc: json.NewEncoder(stdout)}
}

func (j *jsonReporter) report(r result) error {
	out := jsonResult{Instance: r.name, Valid: r.valid()}

	errs := r.errors
	if r.schemaError != nil {
		out.Schema = true
		errs = []*jsonschema.ValidationError{&r.schemaError.ValidationError}
	}
	for _, e := range errs {
		out.Errors = append(out.Errors, jsonError{
			Message:    e.Message,
			Path:       e.Path.Pointer(),
			SchemaPath: e.SchemaPath.Pointer(),
			Keyword:    e.Keyword,
		})
	}
	if r.err != nil {
		out.Error = r.err.Error()
	}

	return j.enc.Encode(out)
}
