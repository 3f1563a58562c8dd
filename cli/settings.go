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
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"

	"rivaas.dev/jsonschema/loader"
)

// envPrefix is the prefix of environment variables read as settings, e.g.
// JSONSCHEMA_OUTPUT=pretty.
const envPrefix = "JSONSCHEMA_"

// configFileNames are looked up in the working directory when --config is not given.
var configFileNames = []string{".jsonschema.yaml", ".jsonschema.yml", ".jsonschema.toml", ".jsonschema.json"}

// Settings holds the command's configuration after all layers are merged.
type Settings struct {
	Output      string        `config:"output" validate:"oneof=plain pretty json"`
	ErrorFormat string        `config:"error_format"`
	Validator   string        `config:"validator" validate:"omitempty,oneof=draft3 draft4 draft6 draft7"`
	Format      bool          `config:"format"`
	Nullable    bool          `config:"nullable"`
	Verbose     bool          `config:"verbose"`
	MaxRefDepth int           `config:"max_ref_depth" validate:"gte=1"`
	Timeout     time.Duration `config:"timeout" validate:"gte=0"`
}

// settingCasts coerces raw environment strings per setting. Settings not
// listed are kept as strings.
var settingCasts = map[string]func(any) (any, error){
	"format":        func(v any) (any, error) { return cast.ToBoolE(v) },
	"nullable":      func(v any) (any, error) { return cast.ToBoolE(v) },
	"verbose":       func(v any) (any, error) { return cast.ToBoolE(v) },
	"max_ref_depth": func(v any) (any, error) { return cast.ToIntE(v) },
	"timeout":       func(v any) (any, error) { return cast.ToDurationE(v) },
}

var settingKeys = []string{
	"output", "error_format", "validator", "format", "nullable", "verbose", "max_ref_depth", "timeout",
}

func defaultSettings() map[string]any {
	return map[string]any{
		"output":        "plain",
		"max_ref_depth": 1000,
		"timeout":       30 * time.Second,
	}
}

// settingsSources describes where settings come from, lowest precedence first:
// defaults, the config file, the environment and finally explicit flags.
type settingsSources struct {
	configPath string
	dir        string
	environ    []string
	flags      map[string]any
}

var settingsValidator = validator.New(validator.WithRequiredStructEnabled())

// loadSettings merges every layer and binds the result to [Settings].
//
// Errors:
//   - Returns error if an explicit config file cannot be read or is not an object
//   - Returns error if an environment value cannot be coerced
//   - Returns error if the merged settings contain unknown keys or fail validation
func loadSettings(src settingsSources) (*Settings, error) {
	layers := []map[string]any{defaultSettings()}

	file, err := configFileValues(src.configPath, src.dir)
	if err != nil {
		return nil, err
	}
	layers = append(layers, file)

	env, err := envValues(src.environ)
	if err != nil {
		return nil, err
	}
	layers = append(layers, env, src.flags)

	merged := make(map[string]any)
	for _, layer := range layers {
		if err = mergo.Map(&merged, normalizeKeys(layer), mergo.WithOverride, mergo.WithOverwriteWithEmptyValue); err != nil {
			return nil, fmt.Errorf("failed to merge settings: %w", err)
		}
	}

	var s Settings
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		Result:           &s,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err = decoder.Decode(merged); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	if err = settingsValidator.Struct(&s); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}

	return &s, nil
}

// configFileValues reads the explicit config file, or the first config file
// found in dir. A missing implicit file is not an error.
func configFileValues(path, dir string) (map[string]any, error) {
	if path == "" {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return map[string]any{}, nil
		}
	}

	doc, err := loader.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	values, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("config file %s must contain an object", path)
	}

	return values, nil
}

// envValues extracts JSONSCHEMA_* variables for known settings.
func envValues(environ []string) (map[string]any, error) {
	values := make(map[string]any)
	for _, kv := range environ {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, envPrefix))
		if !slices.Contains(settingKeys, key) {
			continue
		}

		coerce, ok := settingCasts[key]
		if !ok {
			values[key] = raw
			continue
		}
		v, err := coerce(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		values[key] = v
	}

	return values, nil
}

// normalizeKeys lowercases keys and maps dashes to underscores so that
// "error-format" in a config file and --error-format on the command line name
// the same setting.
func normalizeKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ReplaceAll(strings.ToLower(k), "-", "_")] = v
	}

	return out
}
