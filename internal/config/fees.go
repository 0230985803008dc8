package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// FeesConfig is the platform's cut of gross revenue, kept out of code so
// finance can tune it without a deploy.
type FeesConfig struct {
	PlatformFeePercent float64 `mapstructure:"platformFeePercent"`
}

func DefaultFeesConfig() FeesConfig {
	return FeesConfig{PlatformFeePercent: 2.9}
}

type FeesConfigHolder struct {
	current atomic.Value // holds FeesConfig
}

func NewFeesConfigHolder() (*FeesConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("fees")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/gatherpay/config")
	v.AddConfigPath("/etc/gatherpay")
	v.AddConfigPath(".")

	v.SetEnvPrefix("GATHERPAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultFeesConfig()
		v.SetDefault("fees.platformFeePercent", defaults.PlatformFeePercent)
	}

	var cfg FeesConfig
	if err := v.UnmarshalKey("fees", &cfg); err != nil {
		return nil, err
	}
	if err := validateFeesConfig(cfg); err != nil {
		return nil, err
	}

	holder := &FeesConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated FeesConfig
		if err := v.UnmarshalKey("fees", &updated); err != nil {
			log.Printf("[fees-config] reload failed: %v", err)
			return
		}
		if err := validateFeesConfig(updated); err != nil {
			log.Printf("[fees-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[fees-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticFeesConfig pins the holder to cfg with no file watching.
func StaticFeesConfig(cfg FeesConfig) (*FeesConfigHolder, error) {
	if err := validateFeesConfig(cfg); err != nil {
		return nil, err
	}
	holder := &FeesConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func (h *FeesConfigHolder) Get() FeesConfig {
	return h.current.Load().(FeesConfig)
}

func validateFeesConfig(cfg FeesConfig) error {
	if cfg.PlatformFeePercent < 0 || cfg.PlatformFeePercent > 100 {
		return errors.New("fees.platformFeePercent must be within [0, 100]")
	}
	return nil
}
