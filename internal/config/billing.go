package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BillingPolicy controls invoice due dates and reminder cadence. It lives in
// billing.yml so operators can tune it without a redeploy.
type BillingPolicy struct {
	DueDays              int `mapstructure:"dueDays"`
	ReminderIntervalDays int `mapstructure:"reminderIntervalDays"`
	MaxReminders         int `mapstructure:"maxReminders"`
}

func DefaultBillingPolicy() BillingPolicy {
	return BillingPolicy{
		DueDays:              30,
		ReminderIntervalDays: 7,
		MaxReminders:         3,
	}
}

type BillingPolicyHolder struct {
	current atomic.Value // holds BillingPolicy
}

func NewBillingPolicyHolder() (*BillingPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("billing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/vendora/config")
	v.AddConfigPath("/etc/vendora")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VENDORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultBillingPolicy()
		v.SetDefault("billing.dueDays", defaults.DueDays)
		v.SetDefault("billing.reminderIntervalDays", defaults.ReminderIntervalDays)
		v.SetDefault("billing.maxReminders", defaults.MaxReminders)
	}

	var policy BillingPolicy
	if err := v.UnmarshalKey("billing", &policy); err != nil {
		return nil, err
	}
	if err := validateBillingPolicy(policy); err != nil {
		return nil, err
	}

	holder := &BillingPolicyHolder{}
	holder.current.Store(policy)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BillingPolicy
		if err := v.UnmarshalKey("billing", &updated); err != nil {
			log.Printf("[billing-policy] reload failed: %v", err)
			return
		}
		if err := validateBillingPolicy(updated); err != nil {
			log.Printf("[billing-policy] invalid policy ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[billing-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BillingPolicyHolder) Get() BillingPolicy {
	if v, ok := h.current.Load().(BillingPolicy); ok {
		return v
	}
	return DefaultBillingPolicy()
}

// Store replaces the active policy. Used by tests.
func (h *BillingPolicyHolder) Store(p BillingPolicy) {
	h.current.Store(p)
}

func validateBillingPolicy(p BillingPolicy) error {
	if p.DueDays <= 0 {
		return errors.New("billing.dueDays must be positive")
	}
	if p.ReminderIntervalDays <= 0 {
		return errors.New("billing.reminderIntervalDays must be positive")
	}
	return nil
}
