package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug          = "debug"
	ConfigThreads        = "threads"
	ConfigMaxSolutions   = "max-solutions"
	ConfigMemoryFraction = "memory-fraction"
	ConfigSearchLog      = "search-log"
	ConfigHistoryFile    = "history-file"
	ConfigPollInterval   = "poll-interval"
	ConfigCPUProfile     = "cpu-profile"
	ConfigMemProfile     = "mem-profile"
	ConfigFile           = "config-file"
)

// DefaultMaxSolutions matches what the interactive host has always asked for.
const DefaultMaxSolutions = 100

type Config struct {
	*viper.Viper
}

// DefaultConfig returns a config with only the defaults set. It's handy for
// tests.
func DefaultConfig() *Config {
	c := &Config{Viper: viper.New()}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	c.SetDefault(ConfigDebug, false)
	c.SetDefault(ConfigThreads, 1)
	c.SetDefault(ConfigMaxSolutions, DefaultMaxSolutions)
	c.SetDefault(ConfigMemoryFraction, 0.0)
	c.SetDefault(ConfigSearchLog, "")
	c.SetDefault(ConfigHistoryFile, "/tmp/onlyoneleft-readline.tmp")
	c.SetDefault(ConfigPollInterval, time.Second)
	c.SetDefault(ConfigCPUProfile, "")
	c.SetDefault(ConfigMemProfile, "")
}

// Load reads the configuration. Precedence is flags, then environment
// variables (ONLYONELEFT_MAX_SOLUTIONS etc.), then an optional config file,
// then defaults.
func (c *Config) Load(args []string) error {
	c.Viper = viper.New()
	c.setDefaults()

	fs := pflag.NewFlagSet("onlyoneleft", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigThreads, 1, "number of search threads; 1 means single-worker search")
	fs.Int(ConfigMaxSolutions, DefaultMaxSolutions, "maximum number of solutions to return")
	fs.Float64(ConfigMemoryFraction, 0, "fraction of system memory used to presize visited sets (0 disables)")
	fs.String(ConfigSearchLog, "", "path to a file to write YAML search events to")
	fs.String(ConfigHistoryFile, "/tmp/onlyoneleft-readline.tmp", "readline history file")
	fs.Duration(ConfigPollInterval, time.Second, "how often the shell reports search progress")
	fs.String(ConfigCPUProfile, "", "write a CPU profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file on exit")
	fs.String(ConfigFile, "", "optional config file (yaml, toml, json)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.BindPFlags(fs); err != nil {
		return err
	}

	c.SetEnvPrefix("onlyoneleft")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()

	if path := c.GetString(ConfigFile); path != "" {
		c.SetConfigFile(path)
		if err := c.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %v: %w", path, err)
		}
	}
	return c.Validate()
}

var (
	errBadThreads        = errors.New("threads must be at least 1")
	errBadMaxSolutions   = errors.New("max-solutions must be at least 1")
	errBadMemoryFraction = errors.New("memory-fraction must be between 0 and 1")
)

func (c *Config) Validate() error {
	if c.GetInt(ConfigThreads) < 1 {
		return errBadThreads
	}
	if c.GetInt(ConfigMaxSolutions) < 1 {
		return errBadMaxSolutions
	}
	if f := c.GetFloat64(ConfigMemoryFraction); f < 0 || f > 1 {
		return errBadMemoryFraction
	}
	return nil
}

// SanitizedSettings returns the settings as a string for logging.
func (c *Config) SanitizedSettings() string {
	keys := c.AllKeys()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, c.Get(k)))
	}
	return strings.Join(parts, " ")
}
