package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Packs struct {
		TTL string `yaml:"ttl"`
	} `yaml:"packs"`
	Game struct {
		// SendPolicy is "overwrite" (the default) or "reject".
		SendPolicy string `yaml:"sendPolicy"`
	} `yaml:"game"`
	Bot struct {
		SendDelayMin   string `yaml:"sendDelayMin"`
		SendDelayMax   string `yaml:"sendDelayMax"`
		AnswerDelayMin string `yaml:"answerDelayMin"`
		AnswerDelayMax string `yaml:"answerDelayMax"`
	} `yaml:"bot"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// malformed.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
