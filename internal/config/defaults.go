package config

const (
	defaultDataDir             = "~/.local/share/meridian"
	defaultLogDir              = "~/.local/share/meridian/logs"
	defaultLogRetentionDays    = 30
	defaultQueryTimeoutSeconds = 5
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultSlewRate            = 6.0
	defaultHomeSeconds         = 4.0
	defaultMinAltitude         = 10.0
	defaultSocketName          = "meridiand.sock"
)

// Default returns a Config populated with repository defaults. The daemon
// endpoint is derived from the data directory during normalization when
// left empty.
func Default() Config {
	return Config{
		Daemon: Daemon{
			QueryTimeoutSeconds: defaultQueryTimeoutSeconds,
			LogLevel:            defaultLogLevel,
			LogFormat:           defaultLogFormat,
		},
		Mount: Mount{
			SlewRate:    defaultSlewRate,
			HomeSeconds: defaultHomeSeconds,
			MinAltitude: defaultMinAltitude,
		},
		Paths: Paths{
			DataDir:          defaultDataDir,
			LogDir:           defaultLogDir,
			LogRetentionDays: defaultLogRetentionDays,
		},
	}
}
