package config

// AppConfig bundles everything the game server reads from the
// environment at boot: the HTTP/game-manager settings and the logging
// setup.
type AppConfig struct {
	Server ServerConfig
	Log    LogConfig
}

// LoadApp parses the full environment. Logging config loads first so
// a bad server config can still be reported through the chosen sink.
func LoadApp() (AppConfig, error) {
	var app AppConfig
	var err error
	if app.Log, err = LoadLog(); err != nil {
		return AppConfig{}, err
	}
	if app.Server, err = LoadServer(); err != nil {
		return AppConfig{}, err
	}
	return app, nil
}
