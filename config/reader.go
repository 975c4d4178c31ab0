package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"
	"gopkg.in/yaml.v2"
)

// Config file formats.
const (
	FormatJSON  = "json"
	FormatJSON5 = "json5"
	FormatYAML  = "yaml"
)

// FormatFromPath picks a format by file extension. Anything that is not YAML or JSON5 is read as
// JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json5":
		return FormatJSON5
	default:
		return FormatJSON
	}
}

// Read reads a config from the given file, expanding environment variables first. The config is
// validated.
func Read(filePath string) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	cfg, err := FromReader(FormatFromPath(filePath), bytes.NewReader(buf))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read config %q", filePath)
	}
	return cfg, nil
}

// FromReader reads and validates a config in the given format.
func FromReader(format string, r io.Reader) (*Config, error) {
	var cfg Config
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode Config from json")
		}
	case FormatJSON5:
		if err := decodeJSON5(r, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode Config from json5")
		}
	case FormatYAML:
		if err := decodeYAML(r, &cfg); err != nil {
			return nil, errors.Wrap(err, "failed to decode Config from yaml")
		}
	default:
		return nil, errors.Errorf("unknown config format %q", format)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeJSON5 decodes hand edited JSON that may carry comments and unquoted keys.
func decodeJSON5(r io.Reader, cfg *Config) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var raw map[string]interface{}
	if err := json5.Unmarshal(data, &raw); err != nil {
		return err
	}
	return decodeMap(raw, cfg)
}

func decodeYAML(r io.Reader, cfg *Config) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var raw map[interface{}]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	return decodeMap(stringKeys(raw), cfg)
}

// decodeMap decodes a generic document into cfg matching keys by json tag, so every format shares
// the JSON field names. Unknown fields are an error.
func decodeMap(raw interface{}, cfg *Config) error {
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:  "json",
		Result:   cfg,
		Metadata: &md,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return err
	}
	if len(md.Unused) != 0 {
		return errors.Errorf("unknown fields %v", md.Unused)
	}
	return nil
}

// stringKeys converts the map[interface{}]interface{} values yaml.v2 produces into
// map[string]interface{}, recursively.
func stringKeys(v interface{}) interface{} {
	switch v := v.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = stringKeys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = stringKeys(val)
		}
		return out
	default:
		return v
	}
}
