package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Load when the merged configuration does
// not validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load builds the configuration from defaults, the file at path (skipped
// when empty) and the environment.
func Load(path string) (*Config, error) {
	return newBuilder().
		withDefaults().
		withFile(path).
		withEnv().
		build()
}

type builder struct {
	configs []*Config
	err     error
}

func newBuilder() *builder {
	return &builder{
		configs: make([]*Config, 0, 3),
	}
}

func (b *builder) build() (*Config, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occurred during building config: %w", b.err)
	}

	cfg := new(Config)
	for _, layer := range b.configs {
		if err := mergo.Merge(cfg, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging configs: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(fmt.Errorf("%w: %w", ErrInvalidConfig, err), goerrors.CategoryValidation, "invalid configuration").
			WithTextCode("INVALID_CONFIGURATION")
	}

	return cfg, nil
}

func (b *builder) withDefaults() *builder {
	cfg := Default()
	b.configs = append(b.configs, &cfg)
	return b
}

func (b *builder) withFile(path string) *builder {
	if path == "" {
		return b
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error reading config file %s: %w", path, err))
		return b
	}

	fileCfg := &Config{}
	if err := v.Unmarshal(fileCfg); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error decoding config file %s: %w", path, err))
		return b
	}

	b.configs = append(b.configs, fileCfg)
	return b
}

func (b *builder) withEnv() *builder {
	envCfg := &Config{}
	if err := env.ParseWithOptions(envCfg, env.Options{Prefix: EnvPrefix}); err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("error getting env configs: %w", err))
		return b
	}

	b.configs = append(b.configs, envCfg)
	return b
}
