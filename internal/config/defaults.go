package config

const (
	defaultLogDir          = "~/.local/share/srtkit/logs"
	defaultHistoryDB       = "~/.local/share/srtkit/history.db"
	defaultBackupDir       = ""
	defaultSourceEncoding  = ""
	defaultDetector        = "auto"
	defaultFileBinary      = "file"
	defaultStatsFormat     = "table"
	defaultStatsRecord     = false
	defaultOutputBackup    = true
	defaultOutputStripTags = false
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir:    defaultLogDir,
			HistoryDB: defaultHistoryDB,
			BackupDir: defaultBackupDir,
		},
		Encoding: Encoding{
			Source:     defaultSourceEncoding,
			Detector:   defaultDetector,
			FileBinary: defaultFileBinary,
		},
		Output: Output{
			StripTags: defaultOutputStripTags,
			Backup:    defaultOutputBackup,
		},
		Stats: Stats{
			Format: defaultStatsFormat,
			Record: defaultStatsRecord,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
