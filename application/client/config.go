package client

import (
	"time"

	"github.com/ianchesal/keybase-go/application"
	"github.com/ianchesal/keybase-go/pgp"
)

// defaultTimeout bounds a directory request when the config doesn't
// say otherwise.
const defaultTimeout = 10 * time.Second

// Config contains the directory client's configuration: the keybase.io
// API base URL and version, the request timeout, and the cryptographic
// engine to verify and encrypt with.
//
// Note that empty APIBaseURL and APIVersion fall back to the hosted
// keybase.io defaults, and a nil Engine selects the in-process
// OpenPGP engine.
type Config struct {
	*application.CommonConfig

	APIBaseURL string `toml:"api_base_url,omitempty"`
	APIVersion string `toml:"api_version,omitempty"`

	// RequestTimeoutSecs bounds each directory request, in seconds.
	RequestTimeoutSecs int `toml:"request_timeout,omitempty"`

	Engine *pgp.Config `toml:"engine,omitempty"`
}

var _ application.AppConfig = (*Config)(nil)

// NewConfig initializes a new client configuration at the given file
// path, with the given config encoding, API base URL and version, and
// engine configuration.
func NewConfig(file, encoding, baseURL, apiVersion string,
	engine *pgp.Config) *Config {
	conf := Config{
		CommonConfig: application.NewCommonConfig(file, encoding, nil),
		APIBaseURL:   baseURL,
		APIVersion:   apiVersion,
		Engine:       engine,
	}
	return &conf
}

// Load initializes a client's configuration from the given file
// using the given encoding.
func (conf *Config) Load(file, encoding string) error {
	conf.CommonConfig = application.NewCommonConfig(file, encoding, nil)
	return conf.GetLoader().Decode(conf)
}

// Save writes a client's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}

// GetPath returns the client's configuration file path.
func (conf *Config) GetPath() string {
	return conf.Path
}

// RequestTimeout returns the configured directory request timeout,
// or the default when unset.
func (conf *Config) RequestTimeout() time.Duration {
	if conf.RequestTimeoutSecs <= 0 {
		return defaultTimeout
	}
	return time.Duration(conf.RequestTimeoutSecs) * time.Second
}

// NewLogger builds the logger described by the config, or a no-op
// logger when the config has no logger section.
func (conf *Config) NewLogger() *application.Logger {
	if conf.CommonConfig == nil || conf.Logger == nil {
		return application.NewNopLogger()
	}
	return application.NewLogger(conf.Logger)
}
