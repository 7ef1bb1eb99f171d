// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package agen

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope of the package's metrics.
const meterName = "code.hybscloud.com/agen"

// maxDisposeTimeout bounds how long Dispose may wait for a generator.
const maxDisposeTimeout = time.Minute

// Config tunes the sessions created by a Seq.
type Config struct {
	// Capacity bounds the number of queued items per session.
	// 0 means unbounded.
	Capacity int `yaml:"capacity" mapstructure:"capacity"`

	// DisposeTimeout is how long Dispose waits for the generator to
	// return after cancelling it. 0 means Dispose does not wait.
	DisposeTimeout time.Duration `yaml:"dispose_timeout" mapstructure:"dispose_timeout"`
}

// ApplyDefaults normalizes out-of-range values.
func (c *Config) ApplyDefaults() {
	if c.Capacity < 0 {
		c.Capacity = 0
	}
	c.DisposeTimeout = min(max(c.DisposeTimeout, 0), maxDisposeTimeout)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Capacity < 0 {
		return fmt.Errorf("capacity must be >= 0 (got: %d)", c.Capacity)
	}
	if c.DisposeTimeout < 0 || c.DisposeTimeout > maxDisposeTimeout {
		return fmt.Errorf("dispose_timeout must be within [0, %s] (got: %s)", maxDisposeTimeout, c.DisposeTimeout)
	}
	return nil
}

// LoadConfig reads the sub-tree at key from v. An empty key reads the
// root. Durations accept strings such as "250ms".
func LoadConfig(v *viper.Viper, key string) (Config, error) {
	var cfg Config
	var err error
	if key == "" {
		err = v.Unmarshal(&cfg)
	} else {
		err = v.UnmarshalKey(key, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("agen: decoding config %q: %w", key, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("agen: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// options holds the resolved settings of a Seq.
type options struct {
	cfg    Config
	logger zerolog.Logger
	meter  metric.Meter
}

func defaultOptions() options {
	return options{
		logger: zerolog.Nop(),
		meter:  otel.Meter(meterName),
	}
}

// Option configures a Seq.
type Option func(*options)

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		cfg.ApplyDefaults()
		o.cfg = cfg
	}
}

// WithCapacity bounds each session's queue; 0 means unbounded.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.cfg.Capacity = max(n, 0)
	}
}

// WithDisposeTimeout sets how long Dispose waits for the generator.
func WithDisposeTimeout(d time.Duration) Option {
	return func(o *options) {
		o.cfg.DisposeTimeout = min(max(d, 0), maxDisposeTimeout)
	}
}

// WithLogger sets the logger for session lifecycle events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMeter sets the meter used to create the session instruments.
func WithMeter(m metric.Meter) Option {
	return func(o *options) {
		if m != nil {
			o.meter = m
		}
	}
}
