// Package config loads gameterm settings from defaults, an optional YAML file,
// an optional .env file and GAMETERM_* environment variables, in increasing
// order of precedence. Command-line flags bound to the same viper instance
// win over all of them.
package config

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"gameterm/internal/terminal"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GAMETERM"

// Config is the effective configuration. Width and Height are in the units of
// the renderer that draws the terminal: cells for the console binary.
type Config struct {
	Width         int     `mapstructure:"width" yaml:"width"`
	Height        int     `mapstructure:"height" yaml:"height"`
	FPS           int     `mapstructure:"fps" yaml:"fps"`
	Background    string  `mapstructure:"background" yaml:"background"`
	Foreground    string  `mapstructure:"foreground" yaml:"foreground"`
	CursorGlyph   string  `mapstructure:"cursor-glyph" yaml:"cursor-glyph"`
	CursorPeriod  int     `mapstructure:"cursor-period" yaml:"cursor-period"`
	AddSafe       bool    `mapstructure:"add-safe" yaml:"add-safe"`
	Prompt        string  `mapstructure:"prompt" yaml:"prompt"`
	CommandPrefix string  `mapstructure:"command-prefix" yaml:"command-prefix"`
	FontSize      float64 `mapstructure:"font-size" yaml:"font-size"`
	Threaded      bool    `mapstructure:"threaded" yaml:"threaded"`
	LogLevel      string  `mapstructure:"log-level" yaml:"log-level"`
	LogFile       string  `mapstructure:"log-file" yaml:"log-file"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("width", 80)
	v.SetDefault("height", 24)
	v.SetDefault("fps", 60)
	v.SetDefault("background", "#000000")
	v.SetDefault("foreground", "#ffffff")
	v.SetDefault("cursor-glyph", terminal.DefaultCursorGlyph)
	v.SetDefault("cursor-period", terminal.DefaultCursorPeriod)
	v.SetDefault("add-safe", true)
	v.SetDefault("prompt", "> ")
	v.SetDefault("command-prefix", "")
	v.SetDefault("font-size", 12.0)
	v.SetDefault("threaded", false)
	v.SetDefault("log-level", "")
	v.SetDefault("log-file", "")
}

// Load reads configuration into v and returns the decoded result. configFile
// and envFile may be empty; a missing envFile is not an error.
func Load(v *viper.Viper, configFile, envFile string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	if envFile != "" {
		if err := mergeDotEnv(v, envFile); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// mergeDotEnv layers GAMETERM_* entries of a .env file over the config file.
// Real environment variables still win since viper checks them first.
func mergeDotEnv(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read .env file %s: %w", path, err)
	}

	envMap, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("failed to parse .env file %s: %w", path, err)
	}

	values := make(map[string]interface{})
	for key, value := range envMap {
		name, ok := strings.CutPrefix(key, EnvPrefix+"_")
		if !ok {
			continue
		}
		values[strings.ReplaceAll(strings.ToLower(name), "_", "-")] = value
	}
	if len(values) == 0 {
		return nil
	}
	return v.MergeConfigMap(values)
}

// Validate checks ranges and colours.
func (c *Config) Validate() error {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Errorf("size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.FPS < 0 {
		return fmt.Errorf("fps must not be negative, got %d", c.FPS)
	}
	if c.FontSize <= 0 {
		return fmt.Errorf("font-size must be positive, got %v", c.FontSize)
	}
	if _, err := ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := ParseColor(c.Foreground); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	return nil
}

// Terminal converts the configuration into device settings.
func (c *Config) Terminal() (terminal.Config, error) {
	bg, err := ParseColor(c.Background)
	if err != nil {
		return terminal.Config{}, fmt.Errorf("background: %w", err)
	}
	fg, err := ParseColor(c.Foreground)
	if err != nil {
		return terminal.Config{}, fmt.Errorf("foreground: %w", err)
	}
	return terminal.Config{
		FPS:          c.FPS,
		Background:   bg,
		Foreground:   fg,
		Size:         image.Pt(c.Width, c.Height),
		AddSafe:      c.AddSafe,
		CursorGlyph:  c.CursorGlyph,
		CursorPeriod: c.CursorPeriod,
	}, nil
}

// Dump renders the configuration as YAML.
func (c *Config) Dump() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(data), nil
}

// ParseColor parses "#rrggbb", "#rgb" or "#rrggbbaa". Colours without an
// alpha byte are opaque.
func ParseColor(s string) (color.NRGBA, error) {
	switch len(s) {
	case 4, 7, 9:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}

	alpha := uint8(255)
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in colour %q", s)
		}
		alpha = uint8(a)
		s = s[:7]
	}

	c, err := colorful.Hex(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}
