package config

import "github.com/caarlos0/env/v11"

// LogConfig controls the zerolog bootstrap. Move-by-move play makes
// info logging chatty, so LOG_SAMPLE_EVERY can thin it; LOG_FILE
// redirects output to a size-capped file for bare-metal deploys.
type LogConfig struct {
	Level       string `env:"LOG_LEVEL" envDefault:"info"`
	Pretty      bool   `env:"LOG_PRETTY" envDefault:"false"`
	SampleEvery int    `env:"LOG_SAMPLE_EVERY" envDefault:"0"`
	File        string `env:"LOG_FILE"`
	MaxMB       int    `env:"LOG_MAX_MB" envDefault:"10"`
}

func LoadLog() (LogConfig, error) {
	var cfg LogConfig
	err := env.Parse(&cfg)
	return cfg, err
}
