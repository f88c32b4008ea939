package config

const (
	defaultWatchFile      = "~/.local/share/logwatch/app.log"
	defaultStateDir       = "~/.local/state/logwatch"
	defaultAPIBind        = "127.0.0.1:8000"
	defaultPollIntervalMS = 100
	defaultReplayLines    = 10
	defaultClientBuffer   = 256
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"

	daemonLogName = "logwatch.log"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchFile: defaultWatchFile,
			StateDir:  defaultStateDir,
			APIBind:   defaultAPIBind,
		},
		Tail: Tail{
			PollIntervalMS: defaultPollIntervalMS,
			ReplayLines:    defaultReplayLines,
			ClientBuffer:   defaultClientBuffer,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
