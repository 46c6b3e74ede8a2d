package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ConfigLexiconPath        = "lexicon-path"
	ConfigDistributionPath   = "distribution-path"
	ConfigRackSize           = "rack-size"
	ConfigMode               = "mode"
	ConfigSeed               = "seed"
	ConfigPenaltyPolicy      = "penalty-policy"
	ConfigAutoPlayCap        = "autoplay-cap"
	ConfigOpeningCandidates  = "opening-candidates"
	ConfigSearchThreads      = "search-threads"
	ConfigCandidateCacheSize = "candidate-cache-size"
	ConfigHonorDelays        = "honor-delays"
	ConfigCollapseDelay      = "collapse-delay"
	ConfigWellDelay          = "well-delay"
	ConfigPortalDelay        = "portal-delay"
	ConfigLogLevel           = "log-level"
)

var ErrBadConfig = errors.New("bad configuration")

type Config struct {
	LexiconPath      string `mapstructure:"lexicon-path"`
	DistributionPath string `mapstructure:"distribution-path"`
	RackSize         int    `mapstructure:"rack-size"`
	Mode             string `mapstructure:"mode"`
	// Seed makes a game reproducible. 0 means seed from the system.
	Seed          uint64 `mapstructure:"seed"`
	PenaltyPolicy string `mapstructure:"penalty-policy"`
	AutoPlayCap   int    `mapstructure:"autoplay-cap"`

	OpeningCandidates  int `mapstructure:"opening-candidates"`
	SearchThreads      int `mapstructure:"search-threads"`
	// CandidateCacheSize of 0 sizes the cache from system memory.
	CandidateCacheSize int `mapstructure:"candidate-cache-size"`

	// Delays only pace perceivable effects; they never change outcomes.
	HonorDelays   bool          `mapstructure:"honor-delays"`
	CollapseDelay time.Duration `mapstructure:"collapse-delay"`
	WellDelay     time.Duration `mapstructure:"well-delay"`
	PortalDelay   time.Duration `mapstructure:"portal-delay"`

	LogLevel string `mapstructure:"log-level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigLexiconPath, "./data/words.txt")
	v.SetDefault(ConfigDistributionPath, "")
	v.SetDefault(ConfigRackSize, 7)
	v.SetDefault(ConfigMode, "classic")
	v.SetDefault(ConfigSeed, 0)
	v.SetDefault(ConfigPenaltyPolicy, "per-word")
	v.SetDefault(ConfigAutoPlayCap, 7)
	v.SetDefault(ConfigOpeningCandidates, 50)
	v.SetDefault(ConfigSearchThreads, runtime.NumCPU())
	v.SetDefault(ConfigCandidateCacheSize, 256)
	v.SetDefault(ConfigHonorDelays, false)
	v.SetDefault(ConfigCollapseDelay, 300*time.Millisecond)
	v.SetDefault(ConfigWellDelay, 500*time.Millisecond)
	v.SetDefault(ConfigPortalDelay, 300*time.Millisecond)
	v.SetDefault(ConfigLogLevel, "info")
}

// DefaultConfig returns the configuration with every default applied and
// nothing read from the environment.
func DefaultConfig() *Config {
	v := viper.New()
	setDefaults(v)
	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		panic(err)
	}
	return c
}

// Load builds a Config from defaults, an optional config file, and
// QXWORD_-prefixed environment variables, in increasing precedence.
func (c *Config) Load(configFile string) error {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("qxword")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading %v: %w", configFile, err)
		}
	}
	if err := v.Unmarshal(c); err != nil {
		return err
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.RackSize < 1 {
		return fmt.Errorf("%w: rack size must be positive, got %d", ErrBadConfig, c.RackSize)
	}
	if c.AutoPlayCap < 1 {
		return fmt.Errorf("%w: autoplay cap must be positive, got %d", ErrBadConfig, c.AutoPlayCap)
	}
	if c.OpeningCandidates < 1 {
		return fmt.Errorf("%w: opening candidates must be positive", ErrBadConfig)
	}
	if c.SearchThreads < 1 {
		c.SearchThreads = 1
	}
	switch c.PenaltyPolicy {
	case "per-word", "per-turn":
	default:
		return fmt.Errorf("%w: unknown penalty policy %q", ErrBadConfig, c.PenaltyPolicy)
	}
	return nil
}
