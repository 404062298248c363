package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/rateaudit/internal/core"
)

// ProfileEnvPrefix prefixes environment overrides for the CLI profile,
// e.g. RATEAUDIT_ENGINE_URL or RATEAUDIT_SETTINGS_MARKUP_PCT.
const ProfileEnvPrefix = "RATEAUDIT"

// Profile is the rateaudit CLI configuration.
type Profile struct {
	EngineURL        string                       `mapstructure:"engine_url" yaml:"engine_url"`
	EngineTimeoutSec int                          `mapstructure:"engine_timeout_sec" yaml:"engine_timeout_sec"`
	Offline          bool                         `mapstructure:"offline" yaml:"offline"`
	LogLevel         string                       `mapstructure:"log_level" yaml:"log_level"`
	Settings         core.RateCalculationSettings `mapstructure:"settings" yaml:"settings"`
}

// EngineTimeout returns the engine timeout as a duration.
func (p *Profile) EngineTimeout() time.Duration {
	return time.Duration(p.EngineTimeoutSec) * time.Second
}

// DefaultProfile returns the profile written by `rateaudit config init`.
func DefaultProfile() *Profile {
	return &Profile{
		EngineURL:        "http://localhost:8001",
		EngineTimeoutSec: int(core.DefaultEngineTimeout / time.Second),
		LogLevel:         "warn",
		Settings:         core.DefaultSettings(),
	}
}

// DefaultProfilePath returns ~/.rateaudit/config.yaml.
func DefaultProfilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".rateaudit", "config.yaml"), nil
}

// LoadProfile reads the CLI profile.
// Precedence: env (RATEAUDIT_*) > config file > defaults. Command flags are
// applied by the caller on top. A missing file is not an error.
func LoadProfile(path string) (*Profile, error) {
	v := viper.New()
	v.SetEnvPrefix(ProfileEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := DefaultProfile()
	v.SetDefault("engine_url", def.EngineURL)
	v.SetDefault("engine_timeout_sec", def.EngineTimeoutSec)
	v.SetDefault("offline", def.Offline)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("settings.weight_unit", string(def.Settings.WeightUnit))
	v.SetDefault("settings.fuel_surcharge_pct", def.Settings.FuelSurchargePct)
	v.SetDefault("settings.markup_pct", def.Settings.MarkupPct)
	v.SetDefault("settings.dim_divisor", def.Settings.DimDivisor)
	v.SetDefault("settings.das_surcharge", def.Settings.DASSurcharge)
	v.SetDefault("settings.edas_surcharge", def.Settings.EDASSurcharge)
	v.SetDefault("settings.remote_surcharge", def.Settings.RemoteSurcharge)
	v.SetDefault("settings.discount_percent", def.Settings.DiscountPercent)
	v.SetDefault("settings.origin_zip", def.Settings.OriginZip)
	v.SetDefault("settings.min_margin", def.Settings.MinMargin)

	if path == "" {
		p, err := DefaultProfilePath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read profile %s: %w", path, err)
		}
	}

	var p Profile
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("unmarshal profile: %w", err)
	}
	if err := p.Settings.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return &p, nil
}

// SaveProfile writes p as YAML, creating the parent directory.
// An empty path writes to DefaultProfilePath.
func SaveProfile(p *Profile, path string) (string, error) {
	if path == "" {
		def, err := DefaultProfilePath()
		if err != nil {
			return "", err
		}
		path = def
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}

	b, err := yaml.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
