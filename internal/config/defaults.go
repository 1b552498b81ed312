package config

const (
	defaultConfigPath = "~/.config/shelf/config.toml"
	defaultBackend    = BackendJSON
	defaultDataPath   = "library.json"
	defaultLogFormat  = "console"
	defaultLogLevel   = "warn"
	defaultLogDir     = "~/.local/share/shelf/logs"
	defaultColorMode  = ColorAuto
)

// Storage backend names.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Display color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Storage: Storage{
			Backend: defaultBackend,
			Path:    defaultDataPath,
			Lock:    true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
			Dir:    defaultLogDir,
		},
		Display: Display{
			Color: defaultColorMode,
		},
	}
}
