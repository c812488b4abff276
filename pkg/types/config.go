package types

// ArchiveConfig holds the settings for locating observation files.
type ArchiveConfig struct {
	// DataRoot is the root directory of the magnetogram archive. Each
	// instrument has a subdirectory named by Instrument.StorageName.
	DataRoot string `json:"data_root" yaml:"data_root"`

	// Debug enables search-spec trace output on stderr.
	Debug bool `json:"debug" yaml:"debug"`
}

// MatchConfig holds the settings for temporal pair matching.
type MatchConfig struct {
	// ToleranceDays is the number of days before and after a target date
	// within which a second instrument's file still counts as a match
	// (default 1).
	ToleranceDays int `json:"tolerance_days" yaml:"tolerance_days"`
}

// CacheConfig holds the settings for the precomputed overlap cache.
type CacheConfig struct {
	// CacheDir is the directory holding the overlap SQLite database.
	CacheDir string `json:"cache_dir" yaml:"cache_dir"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
	Match   MatchConfig   `json:"match" yaml:"match"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
}
