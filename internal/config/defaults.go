package config

const (
	defaultLibraryDB     = "~/.local/share/shelfmark/library.db"
	defaultLogDir        = "~/.local/share/shelfmark/logs"
	defaultMaskThreshold = 70
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LibraryDB: defaultLibraryDB,
			LogDir:    defaultLogDir,
		},
		Detection: Detection{
			MaskThreshold: defaultMaskThreshold,
		},
		Batch: Batch{
			DelayMS: 0,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
