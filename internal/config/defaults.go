package config

const (
	defaultDataDir              = "~/.local/share/stint"
	defaultLogDir               = "~/.local/share/stint/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultNotifyRequestTimeout = 10
	defaultDisplayLocale        = "en-US"
	defaultDisplayTimeFormat    = "2006-01-02 15:04"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Sessions:       true,
			History:        true,
		},
		Display: Display{
			Locale:     defaultDisplayLocale,
			TimeFormat: defaultDisplayTimeFormat,
		},
	}
}
