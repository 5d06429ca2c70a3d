package application

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ianchesal/keybase-go/utils"
)

// ConfigLoader provides an interface for implementing
// different keybase-go application configuration encodings.
type ConfigLoader interface {
	Encode(conf AppConfig) error
	Decode(conf AppConfig) error
}

// newConfigLoader constructs a new ConfigLoader for the given encoding.
// If the encoding is unsupported, newConfigLoader() returns a loader
// for the default encoding (TOML).
func newConfigLoader(encoding string) ConfigLoader {
	loader := configEncodings[encoding]
	if loader == nil {
		loader = new(TomlLoader)
	}
	return loader
}

// TomlLoader implements a ConfigLoader for toml-encoded keybase-go
// application configurations.
type TomlLoader struct{}

var _ ConfigLoader = (*TomlLoader)(nil)

// Encode saves the given configuration conf in toml encoding.
// If there is any encoding or IO error, Encode() returns an error.
func (ld *TomlLoader) Encode(conf AppConfig) error {
	var confBuf bytes.Buffer

	e := toml.NewEncoder(&confBuf)
	if err := e.Encode(conf); err != nil {
		return err
	}
	if err := utils.WriteFile(conf.GetPath(), confBuf.Bytes(), 0644); err != nil {
		return err
	}
	return nil
}

// Decode reads an application configuration from the given toml-encoded
// file. If there is any decoding error, Decode() returns an error.
func (ld *TomlLoader) Decode(conf AppConfig) error {
	if _, err := toml.DecodeFile(conf.GetPath(), conf); err != nil {
		return fmt.Errorf("Failed to load config: %v", err)
	}
	return nil
}

// JSONLoader implements a ConfigLoader for json-encoded keybase-go
// application configurations.
type JSONLoader struct{}

var _ ConfigLoader = (*JSONLoader)(nil)

// Encode saves the given configuration conf in json encoding.
// If there is any encoding or IO error, Encode() returns an error.
func (ld *JSONLoader) Encode(conf AppConfig) error {
	confBuf, err := json.MarshalIndent(conf, "", "  ")
	if err != nil {
		return err
	}
	if err := utils.WriteFile(conf.GetPath(), confBuf, 0644); err != nil {
		return err
	}
	return nil
}

// Decode reads an application configuration from the given json-encoded
// file. If there is any decoding error, Decode() returns an error.
func (ld *JSONLoader) Decode(conf AppConfig) error {
	buf, err := os.ReadFile(conf.GetPath())
	if err != nil {
		return fmt.Errorf("Failed to load config: %v", err)
	}
	if err := json.Unmarshal(buf, conf); err != nil {
		return fmt.Errorf("Failed to load config: %v", err)
	}
	return nil
}

var configEncodings = map[string]ConfigLoader{
	"toml": new(TomlLoader),
	"json": new(JSONLoader),
}
