package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// ReportingConfig holds the thresholds used by the reporting builders.
type ReportingConfig struct {
	OverdueHighSeverityDays int `mapstructure:"overdueHighSeverityDays"`
	MaxOverdueAlerts        int `mapstructure:"maxOverdueAlerts"`
	UpcomingWindowDays      int `mapstructure:"upcomingWindowDays"`
	MaxUpcomingAlerts       int `mapstructure:"maxUpcomingAlerts"`
	TopPerformersLimit      int `mapstructure:"topPerformersLimit"`
	ExpiringContractDays    int `mapstructure:"expiringContractDays"`
	PropertyLookbackMonths  int `mapstructure:"propertyLookbackMonths"`
}

const maxTopPerformersLimit = 5

func DefaultReportingConfig() ReportingConfig {
	return ReportingConfig{
		OverdueHighSeverityDays: 7,
		MaxOverdueAlerts:        5,
		UpcomingWindowDays:      3,
		MaxUpcomingAlerts:       3,
		TopPerformersLimit:      5,
		ExpiringContractDays:    30,
		PropertyLookbackMonths:  6,
	}
}

type ReportingConfigHolder struct {
	current atomic.Value // holds ReportingConfig
}

// NewReportingConfigHolder loads reporting.yml from the standard search paths and
// keeps it hot-reloaded.
func NewReportingConfigHolder() (*ReportingConfigHolder, error) {
	return LoadReportingConfig("/var/lib/lodgely/config", "/etc/lodgely", ".")
}

// LoadReportingConfig loads reporting.yml from the given directories.
func LoadReportingConfig(paths ...string) (*ReportingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("reporting")
	v.SetConfigType("yml")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	v.SetEnvPrefix("LODGELY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultReportingConfig()
	v.SetDefault("reporting.overdueHighSeverityDays", defaults.OverdueHighSeverityDays)
	v.SetDefault("reporting.maxOverdueAlerts", defaults.MaxOverdueAlerts)
	v.SetDefault("reporting.upcomingWindowDays", defaults.UpcomingWindowDays)
	v.SetDefault("reporting.maxUpcomingAlerts", defaults.MaxUpcomingAlerts)
	v.SetDefault("reporting.topPerformersLimit", defaults.TopPerformersLimit)
	v.SetDefault("reporting.expiringContractDays", defaults.ExpiringContractDays)
	v.SetDefault("reporting.propertyLookbackMonths", defaults.PropertyLookbackMonths)

	found := true
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		found = false
	}

	cfg, err := decodeReportingConfig(v)
	if err != nil {
		return nil, err
	}
	if err := validateReportingConfig(cfg); err != nil {
		return nil, err
	}

	holder := NewStaticReportingConfig(cfg)
	if !found {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeReportingConfig(v)
		if err != nil {
			log.Printf("[reporting-config] reload failed: %v", err)
			return
		}
		if err := validateReportingConfig(updated); err != nil {
			log.Printf("[reporting-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[reporting-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticReportingConfig returns a holder that never reloads.
func NewStaticReportingConfig(cfg ReportingConfig) *ReportingConfigHolder {
	holder := &ReportingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *ReportingConfigHolder) Get() ReportingConfig {
	if h == nil {
		return DefaultReportingConfig()
	}
	cfg, ok := h.current.Load().(ReportingConfig)
	if !ok {
		return DefaultReportingConfig()
	}
	return cfg
}

// decodeReportingConfig goes through AllSettings so partial files keep defaults
// for the keys they omit.
func decodeReportingConfig(v *viper.Viper) (ReportingConfig, error) {
	var wrapper struct {
		Reporting ReportingConfig `mapstructure:"reporting"`
	}
	if err := v.Unmarshal(&wrapper); err != nil {
		return ReportingConfig{}, err
	}
	return wrapper.Reporting, nil
}

func validateReportingConfig(cfg ReportingConfig) error {
	if cfg.OverdueHighSeverityDays < 0 {
		return errors.New("reporting.overdueHighSeverityDays cannot be negative")
	}
	if cfg.MaxOverdueAlerts < 0 || cfg.MaxUpcomingAlerts < 0 {
		return errors.New("reporting alert limits cannot be negative")
	}
	if cfg.UpcomingWindowDays < 0 {
		return errors.New("reporting.upcomingWindowDays cannot be negative")
	}
	if cfg.TopPerformersLimit < 1 || cfg.TopPerformersLimit > maxTopPerformersLimit {
		return errors.New("reporting.topPerformersLimit must be between 1 and 5")
	}
	if cfg.ExpiringContractDays <= 0 {
		return errors.New("reporting.expiringContractDays must be positive")
	}
	if cfg.PropertyLookbackMonths <= 0 {
		return errors.New("reporting.propertyLookbackMonths must be positive")
	}
	return nil
}
