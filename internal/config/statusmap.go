package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// StatusMapConfig declares which gateway transaction statuses count as a
// successful payment and how each status translates into a WooCommerce order
// status. Lookups are case-insensitive; unrecognized statuses fall back to
// DefaultStatus.
type StatusMapConfig struct {
	Success       []string          `mapstructure:"success"`
	Statuses      map[string]string `mapstructure:"statuses"`
	DefaultStatus string            `mapstructure:"defaultStatus"`
}

func DefaultStatusMapConfig() StatusMapConfig {
	return StatusMapConfig{
		Success: []string{"PAID", "AUTHORISED", "CAPTURED"},
		Statuses: map[string]string{
			"PAID":       "processing",
			"AUTHORISED": "processing",
			"CAPTURED":   "processing",
			"UNPAID":     "failed",
			"DECLINED":   "failed",
			"REFUSED":    "failed",
			"ABANDONED":  "cancelled",
			"EXPIRED":    "cancelled",
			"PENDING":    "on-hold",
			"WAITING":    "on-hold",
			"RUNNING":    "on-hold",
		},
		DefaultStatus: "pending",
	}
}

type StatusMapHolder struct {
	current atomic.Value // holds StatusMapConfig
}

func NewStatusMapHolder() (*StatusMapHolder, error) {
	v := viper.New()

	v.SetConfigName("statusmap")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/izibridge")
	v.AddConfigPath(".")

	v.SetEnvPrefix("IZIBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultStatusMapConfig()
		v.SetDefault("statusmap.success", defaults.Success)
		v.SetDefault("statusmap.statuses", defaults.Statuses)
		v.SetDefault("statusmap.defaultStatus", defaults.DefaultStatus)
	}

	var cfg StatusMapConfig
	if err := v.UnmarshalKey("statusmap", &cfg); err != nil {
		return nil, err
	}
	if err := validateStatusMapConfig(cfg); err != nil {
		return nil, err
	}

	holder := &StatusMapHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated StatusMapConfig
		if err := v.UnmarshalKey("statusmap", &updated); err != nil {
			log.Printf("[statusmap-config] reload failed: %v", err)
			return
		}
		if err := validateStatusMapConfig(updated); err != nil {
			log.Printf("[statusmap-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[statusmap-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *StatusMapHolder) Get() StatusMapConfig {
	return h.current.Load().(StatusMapConfig)
}

// NewStaticStatusMapHolder returns a holder pinned to cfg. Test fixture.
func NewStaticStatusMapHolder(cfg StatusMapConfig) *StatusMapHolder {
	holder := &StatusMapHolder{}
	holder.current.Store(cfg)
	return holder
}

func validateStatusMapConfig(cfg StatusMapConfig) error {
	if len(cfg.Success) == 0 {
		return errors.New("statusmap.success cannot be empty")
	}
	if strings.TrimSpace(cfg.DefaultStatus) == "" {
		return errors.New("statusmap.defaultStatus cannot be empty")
	}
	return nil
}
