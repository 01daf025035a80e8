// Package config assembles an SMTConfig from (in ascending priority)
// built-in defaults, an optional YAML config file, and CLI flags, in the
// same viper/pflag/go-playground-validator layering flow-go's own config
// package uses for its FlowConfig.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// errPflagsNotParsed is returned by BindPFlags when called before the given
// FlagSet has been parsed — the bound values would otherwise silently read
// back as zero values.
var errPflagsNotParsed = errors.New("failed to bind flags to configuration values: pflags must be parsed before binding")

// configFileFlagName is the flag used to override which YAML file Unmarshall
// reads configuration from.
const configFileFlagName = "config-file"

// conf is the package-level viper instance every exported function reads
// from and writes to. Tests that need a clean slate call initialize().
var conf = viper.New()

func init() {
	initialize()
}

// BackendKind selects which merkle.Backend implementation the tree is
// constructed against.
type BackendKind string

const (
	BackendMemory BackendKind = "memory"
	BackendBadger BackendKind = "badger"
)

// HasherKind selects which merkle.Hasher implementation the tree is
// constructed against.
type HasherKind string

const (
	HasherBlake2b HasherKind = "blake2b"
	HasherSHA3    HasherKind = "sha3"
)

// BackendConfig configures the storage backend the tree reads and writes
// nodes through.
type BackendConfig struct {
	Kind      BackendKind `validate:"required,oneof=memory badger" mapstructure:"kind"`
	BadgerDir string      `validate:"required_if=Kind badger" mapstructure:"badger-dir"`
}

// CircuitBreakerConfig configures the circuit breaker middleware wrapped
// around the backend. See resilience.CircuitBreakerConfig, which this is
// converted into.
type CircuitBreakerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	RestoreTimeout time.Duration `validate:"required_if=Enabled true" mapstructure:"restore-timeout"`
	MaxFailures    uint32        `validate:"required_if=Enabled true" mapstructure:"max-failures"`
	MaxRequests    uint32        `validate:"required_if=Enabled true" mapstructure:"max-requests"`
}

// RetryConfig configures the retry middleware wrapped around the backend.
// See resilience.RetryConfig, which this is converted into.
type RetryConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseDelay  time.Duration `validate:"required_if=Enabled true" mapstructure:"base-delay"`
	MaxDelay   time.Duration `validate:"required_if=Enabled true" mapstructure:"max-delay"`
	MaxRetries uint64        `mapstructure:"max-retries"`
}

// SMTConfig is the top-level configuration for the tree engine and its
// supporting middleware, assembled from defaults, an optional config file,
// and CLI flags.
type SMTConfig struct {
	ConfigFile     string               `validate:"required" mapstructure:"config-file"`
	Hasher         HasherKind           `validate:"required,oneof=blake2b sha3" mapstructure:"hasher"`
	Backend        BackendConfig        `mapstructure:"backend"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit-breaker"`
	Retry          RetryConfig          `mapstructure:"retry"`
	MetricsEnabled bool                 `mapstructure:"metrics-enabled"`
}

// initialize resets conf to the package's built-in defaults. Called once at
// package init, and again by tests that need an isolated viper instance.
func initialize() {
	conf = viper.New()
	conf.SetConfigName("default-config")
	conf.SetConfigType("yml")
	conf.AddConfigPath(".")

	conf.SetDefault(configFileFlagName, "./default-config.yml")
	conf.SetDefault("hasher", string(HasherBlake2b))
	conf.SetDefault("backend.kind", string(BackendMemory))
	conf.SetDefault("backend.badger-dir", "./data/smt")
	conf.SetDefault("circuit-breaker.enabled", false)
	conf.SetDefault("circuit-breaker.restore-timeout", 30*time.Second)
	conf.SetDefault("circuit-breaker.max-failures", uint32(5))
	conf.SetDefault("circuit-breaker.max-requests", uint32(1))
	conf.SetDefault("retry.enabled", false)
	conf.SetDefault("retry.base-delay", 10*time.Millisecond)
	conf.SetDefault("retry.max-delay", time.Second)
	conf.SetDefault("retry.max-retries", uint64(0))
	conf.SetDefault("metrics-enabled", false)
}

// DefaultConfig returns the package defaults as an SMTConfig.
func DefaultConfig() (*SMTConfig, error) {
	c := &SMTConfig{}
	if err := Unmarshall(c); err != nil {
		return nil, err
	}
	return c, nil
}

// InitializePFlagSet registers one CLI flag per configuration field, seeded
// with c's current values, onto flags.
func InitializePFlagSet(flags *pflag.FlagSet, c *SMTConfig) {
	flags.String(configFileFlagName, c.ConfigFile, "path to a YAML config file")
	flags.String("hasher", string(c.Hasher), "hash function: blake2b or sha3")
	flags.String("backend.kind", string(c.Backend.Kind), "storage backend: memory or badger")
	flags.String("backend.badger-dir", c.Backend.BadgerDir, "directory for the badger backend")
	flags.Bool("circuit-breaker.enabled", c.CircuitBreaker.Enabled, "enable the circuit breaker around the backend")
	flags.Duration("circuit-breaker.restore-timeout", c.CircuitBreaker.RestoreTimeout, "circuit breaker open-state duration")
	flags.Uint32("circuit-breaker.max-failures", c.CircuitBreaker.MaxFailures, "consecutive failures before the breaker trips")
	flags.Uint32("circuit-breaker.max-requests", c.CircuitBreaker.MaxRequests, "probe requests allowed while half-open")
	flags.Bool("retry.enabled", c.Retry.Enabled, "enable retrying backend operations")
	flags.Duration("retry.base-delay", c.Retry.BaseDelay, "initial retry backoff")
	flags.Duration("retry.max-delay", c.Retry.MaxDelay, "maximum retry backoff")
	flags.Uint64("retry.max-retries", c.Retry.MaxRetries, "maximum retry attempts (0 = unbounded)")
	flags.Bool("metrics-enabled", c.MetricsEnabled, "report tree/backend metrics")
}

// BindPFlags binds flags (which must already be parsed) onto conf, then
// overrides conf from a config file if --config-file was set, then
// unmarshalls the result into c. It returns whether a config file override
// took effect.
func BindPFlags(c *SMTConfig, flags *pflag.FlagSet) (bool, error) {
	if !flags.Parsed() {
		return false, errPflagsNotParsed
	}
	if err := conf.BindPFlags(flags); err != nil {
		return false, fmt.Errorf("failed to bind pflags: %w", err)
	}

	overridden, err := overrideConfigFile(flags)
	if err != nil {
		return false, err
	}

	if err := Unmarshall(c); err != nil {
		return overridden, err
	}
	return overridden, nil
}

// overrideConfigFile reads the --config-file flag, and if it was set, merges
// the YAML file it points at into conf. The file must end in .yml or .yaml.
func overrideConfigFile(flags *pflag.FlagSet) (bool, error) {
	path, err := flags.GetString(configFileFlagName)
	if err != nil {
		return false, fmt.Errorf("failed to read %s flag: %w", configFileFlagName, err)
	}
	if !flags.Changed(configFileFlagName) {
		return false, nil
	}
	ext := filepath.Ext(path)
	if ext != ".yml" && ext != ".yaml" {
		return false, fmt.Errorf("invalid config file extension %q: expected .yml or .yaml", ext)
	}
	conf.SetConfigFile(path)
	if err := conf.MergeInConfig(); err != nil {
		return false, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return true, nil
}

// Unmarshall decodes conf into c, erroring out if any field of c has no
// corresponding key in conf — a config store missing an expected key
// indicates a bug in defaulting, not a valid empty configuration.
func Unmarshall(c *SMTConfig) error {
	hooks := mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
	)
	err := conf.Unmarshal(c, viper.DecodeHook(hooks), func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnset = true
	})
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// Validate checks c against its struct tags using go-playground/validator.
func (c *SMTConfig) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
