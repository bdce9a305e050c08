package types

// Config is the BlueWriter configuration. Files are JSON or JSONC and later
// layers overwrite only the keys they set.
type Config struct {
	// Schema reference (for editor support)
	Schema string `json:"$schema,omitempty"`

	// Database is the sqlite file. Empty selects the data directory default.
	Database string `json:"database,omitempty"`

	Server   ServerConfig   `json:"server"`
	Dispatch DispatchConfig `json:"dispatch"`
	Log      LogConfig      `json:"log"`
	Canvas   CanvasConfig   `json:"canvas"`
}

// ServerConfig configures the HTTP front end.
type ServerConfig struct {
	Host       string `json:"host"`
	Port       int    `json:"port"`
	EnableCORS bool   `json:"enable_cors"`
}

// DispatchConfig configures the dispatch loop.
type DispatchConfig struct {
	// PollIntervalMs is how often queued events are drained.
	PollIntervalMs int `json:"poll_interval_ms"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `json:"level"`
	Pretty bool   `json:"pretty"`
	File   string `json:"file,omitempty"`
}

// CanvasConfig bounds the canvas zoom.
type CanvasConfig struct {
	MinZoom float64 `json:"min_zoom"`
	MaxZoom float64 `json:"max_zoom"`
}
