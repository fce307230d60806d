// Package config loads the game configuration: the tradable assets with
// their seed prices, the duration and capital presets, feed tuning, and the
// history journal settings.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/MinSungJe/coin-clash-crew/game"
	"github.com/MinSungJe/coin-clash-crew/market"
)

type Config struct {
	Assets  []AssetConfig `json:"assets" yaml:"assets"`
	Game    GameConfig    `json:"game" yaml:"game"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
}

// AssetConfig seeds one tradable asset.
type AssetConfig struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Name   string  `json:"name" yaml:"name"`
	Price  float64 `json:"price" yaml:"price"`
}

// GameConfig holds session presets and feed tuning.
type GameConfig struct {
	DurationOptions  []int     `json:"duration_options" yaml:"duration_options"`
	CapitalOptions   []float64 `json:"capital_options" yaml:"capital_options"`
	CountdownSec     int       `json:"countdown_sec" yaml:"countdown_sec"`
	HistoryWindow    int       `json:"history_window" yaml:"history_window"`
	PriceIntervalSec int       `json:"price_interval_sec" yaml:"price_interval_sec"`
	MaxDeltaPct      float64   `json:"max_delta_pct" yaml:"max_delta_pct"`
}

// JournalConfig selects the history backend.
type JournalConfig struct {
	Type      string `json:"type" yaml:"type"` // "sqlite", "csv" or "none"
	DBPath    string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	GamesFile string `json:"games_file,omitempty" yaml:"games_file,omitempty"`
	Keep      int    `json:"keep,omitempty" yaml:"keep,omitempty"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, YAML for .yaml/.yml and JSON
// otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before a session is built from it.
func (c *Config) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("at least one asset is required")
	}
	seen := map[string]bool{}
	for _, a := range c.Assets {
		if a.Symbol == "" {
			return fmt.Errorf("asset symbol is required")
		}
		if seen[a.Symbol] {
			return fmt.Errorf("duplicate asset symbol: %s", a.Symbol)
		}
		seen[a.Symbol] = true
		if a.Price <= 0 {
			return fmt.Errorf("asset %s: seed price must be positive", a.Symbol)
		}
	}

	if len(c.Game.DurationOptions) == 0 {
		return fmt.Errorf("game.duration_options is required")
	}
	for _, d := range c.Game.DurationOptions {
		if d <= 0 {
			return fmt.Errorf("duration option %d: must be positive", d)
		}
	}
	if len(c.Game.CapitalOptions) == 0 {
		return fmt.Errorf("game.capital_options is required")
	}
	for _, v := range c.Game.CapitalOptions {
		if v <= 0 {
			return fmt.Errorf("capital option %v: must be positive", v)
		}
	}
	if c.Game.CountdownSec < 0 {
		return fmt.Errorf("game.countdown_sec must not be negative")
	}
	if c.Game.HistoryWindow < 1 {
		return fmt.Errorf("game.history_window must be at least 1")
	}
	if c.Game.PriceIntervalSec < 1 {
		return fmt.Errorf("game.price_interval_sec must be at least 1")
	}
	if c.Game.MaxDeltaPct <= 0 || c.Game.MaxDeltaPct >= 1 {
		return fmt.Errorf("game.max_delta_pct must be in (0, 1)")
	}

	switch c.Journal.Type {
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.GamesFile == "" {
			return fmt.Errorf("journal.games_file required for csv type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv' or 'none'")
	}
	if c.Journal.Keep < 0 {
		return fmt.Errorf("journal.keep must not be negative")
	}
	return nil
}

// Settings converts the config into session settings.
func (c *Config) Settings() game.Settings {
	assets := make([]market.Asset, 0, len(c.Assets))
	for _, a := range c.Assets {
		assets = append(assets, market.Asset{
			Symbol: a.Symbol,
			Name:   a.Name,
			Price:  a.Price,
		})
	}
	return game.Settings{
		Assets:        assets,
		HistoryWindow: c.Game.HistoryWindow,
		MaxDeltaPct:   c.Game.MaxDeltaPct,
		PriceInterval: time.Duration(c.Game.PriceIntervalSec) * time.Second,
		CountdownSec:  c.Game.CountdownSec,
	}
}

// Default returns the stock configuration: three coins, the classic
// duration and capital presets, and a local SQLite history.
func Default() *Config {
	return &Config{
		Assets: []AssetConfig{
			{Symbol: "BTC", Name: "Bitcoin", Price: 45_000_000},
			{Symbol: "ETH", Name: "Ethereum", Price: 3_200_000},
			{Symbol: "DOGE", Name: "Dogecoin", Price: 150},
		},
		Game: GameConfig{
			DurationOptions:  []int{60, 120, 180, 300},
			CapitalOptions:   []float64{10_000, 50_000, 100_000},
			CountdownSec:     3,
			HistoryWindow:    20,
			PriceIntervalSec: 2,
			MaxDeltaPct:      0.05,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./coinclash.sqlite",
		},
	}
}
