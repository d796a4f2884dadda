package config

import "github.com/caarlos0/env/v11"

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	EscrowURL      string  `env:"ESCROW_URL,required,notEmpty"`
	PriceOracleURL string  `env:"PRICE_ORACLE_URL"`
	StaticPriceUSD float64 `env:"STATIC_PRICE_USD" envDefault:"0"`

	PlatformCutPercent       int64 `env:"PLATFORM_CUT_PERCENT" envDefault:"3"`
	TurnClockSeconds         int   `env:"TURN_CLOCK_SECONDS" envDefault:"300"`
	FundsPauseSeconds        int   `env:"FUNDS_PAUSE_SECONDS" envDefault:"60"`
	ReconnectGraceSeconds    int   `env:"RECONNECT_GRACE_SECONDS" envDefault:"120"`
	FinishedRetentionMinutes int   `env:"FINISHED_RETENTION_MINUTES" envDefault:"10"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
