package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// ProviderConfig stores provider-specific configuration as key-value pairs.
type ProviderConfig map[string]interface{}

// Config wraps viper and provides typed accessors.
type Config struct {
	v         *viper.Viper
	providers map[string]ProviderConfig
}

// Load reads an INI config file and prepares defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VIBESTREAM")
	v.AutomaticEnv()

	setDefaults(v)

	if strings.EqualFold(filepath.Ext(path), ".ini") {
		cfg, err := loadINI(v, path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		c := &Config{
			v:         v,
			providers: make(map[string]ProviderConfig),
		}

		loadProviders(cfg, c)
		return c, nil
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	return &Config{
		v:         v,
		providers: make(map[string]ProviderConfig),
	}, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ListenAddr", ":3001")
	v.SetDefault("PublicBaseURL", "")
	v.SetDefault("LogLevel", "info")
	v.SetDefault("LogFormat", "text")
	v.SetDefault("LogSource", false)
	v.SetDefault("GormLogLevel", "warn")
	v.SetDefault("AudioDeliveryMode", "proxy")
	v.SetDefault("SearchLimit", 20)
	v.SetDefault("FallbackSearchLimit", 10)
	v.SetDefault("StreamBufferKB", 128)
	v.SetDefault("RequestTimeoutSec", 30)
	v.SetDefault("ShutdownTimeoutSec", 10)
	v.SetDefault("RateLimitPerSecond", 5.0)
	v.SetDefault("RateLimitBurst", 10)
	v.SetDefault("WorkerPoolSize", 4)
	v.SetDefault("Database", "library.db")
	v.SetDefault("DBMaxOpenConns", 1)
	v.SetDefault("DBMaxIdleConns", 1)
	v.SetDefault("DBConnMaxLifetimeSec", 3600)
	v.SetDefault("PrimaryProvider", "youtube")
	v.SetDefault("FallbackProvider", "jiosaavn")
	v.SetDefault("LastResortProvider", "itunes")
	v.SetDefault("ProviderOrder", "youtube,jiosaavn,itunes")
	v.SetDefault("ConnectivityProbeTimeoutSec", 10)
}

// GetString returns a string value.
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt returns an int value.
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 returns a float64 value.
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool returns a bool value.
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice returns a comma-separated value as a slice.
func (c *Config) GetStringSlice(key string) []string {
	raw := c.v.GetString(key)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// GetProviderConfig retrieves provider-specific configuration by name.
// Returns the configuration map and true if found, or nil and false if not found.
func (c *Config) GetProviderConfig(name string) (ProviderConfig, bool) {
	cfg, ok := c.providers[name]
	return cfg, ok
}

// ProviderNames returns the configured provider names.
func (c *Config) ProviderNames() []string {
	if len(c.providers) == 0 {
		return nil
	}
	nameList := make([]string, 0, len(c.providers))
	for name := range c.providers {
		nameList = append(nameList, name)
	}
	sort.Strings(nameList)
	return nameList
}

// GetProviderString returns a string value from provider configuration.
// Returns empty string if provider or key not found.
func (c *Config) GetProviderString(provider, key string) string {
	cfg, ok := c.providers[provider]
	if !ok {
		return ""
	}
	val, ok := cfg[key]
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", val)
}

// GetProviderInt returns an int value from provider configuration.
// Returns 0 if provider or key not found, or value cannot be converted to int.
func (c *Config) GetProviderInt(provider, key string) int {
	cfg, ok := c.providers[provider]
	if !ok {
		return 0
	}
	val, ok := cfg[key]
	if !ok {
		return 0
	}
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case string:
		num, _ := strconv.Atoi(v)
		return num
	default:
		return 0
	}
}

// GetProviderBool returns a bool value from provider configuration.
// Returns false if provider or key not found, or value cannot be converted to bool.
func (c *Config) GetProviderBool(provider, key string) bool {
	cfg, ok := c.providers[provider]
	if !ok {
		return false
	}
	val, ok := cfg[key]
	if !ok {
		return false
	}
	switch v := val.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true") || v == "1"
	case int, int64:
		return v != 0
	default:
		return false
	}
}

func loadINI(v *viper.Viper, path string) (*ini.File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	for _, key := range cfg.Section("").Keys() {
		v.Set(key.Name(), key.Value())
	}

	return cfg, nil
}

func loadProviders(cfg *ini.File, c *Config) {
	const providerPrefix = "providers."

	for _, section := range cfg.Sections() {
		sectionName := section.Name()
		if sectionName == "" || sectionName == "DEFAULT" {
			continue
		}

		if strings.HasPrefix(sectionName, providerPrefix) {
			providerName := strings.TrimPrefix(sectionName, providerPrefix)
			providerCfg := make(ProviderConfig)

			for _, key := range section.Keys() {
				providerCfg[key.Name()] = key.Value()
			}

			c.providers[providerName] = providerCfg
		}
	}
}
