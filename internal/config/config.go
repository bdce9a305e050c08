package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bluewriter/bluewriter/pkg/types"
	"github.com/tidwall/jsonc"
)

// Defaults.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8765
	DefaultPollIntervalMs = 50
	DefaultLogLevel       = "info"
)

var envPattern = regexp.MustCompile(`\{env:([^}]+)\}`)

// Default returns the built-in configuration.
func Default() *types.Config {
	return &types.Config{
		Server: types.ServerConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			EnableCORS: true,
		},
		Dispatch: types.DispatchConfig{PollIntervalMs: DefaultPollIntervalMs},
		Log:      types.LogConfig{Level: DefaultLogLevel},
		Canvas:   types.CanvasConfig{MinZoom: 0.1, MaxZoom: 3.0},
	}
}

// Load loads configuration from multiple sources (priority order):
// 1. Built-in defaults
// 2. Global config (~/.config/bluewriter/)
// 3. Project config (bluewriter.json[c] in directory)
// 4. BLUEWRITER_CONFIG file
// 5. Environment variables
//
// Missing files are skipped; malformed ones are an error.
func Load(directory string) (*types.Config, error) {
	config := Default()

	// Track loaded files to avoid duplicates
	loaded := make(map[string]bool)

	loadOnce := func(path string) error {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return nil
		}
		if loaded[absPath] {
			return nil
		}
		err = loadConfigFile(path, config)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		loaded[absPath] = true
		return nil
	}

	for _, p := range Files(directory) {
		if err := loadOnce(p); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}
	return config, nil
}

// Files returns the config files Load reads, lowest precedence first.
// They need not exist.
func Files(directory string) []string {
	globalPath := GetPaths().Config
	paths := []string{
		filepath.Join(globalPath, "bluewriter.json"),
		filepath.Join(globalPath, "bluewriter.jsonc"),
	}
	if directory != "" {
		paths = append(paths,
			filepath.Join(directory, "bluewriter.json"),
			filepath.Join(directory, "bluewriter.jsonc"))
	}
	if configPath := os.Getenv("BLUEWRITER_CONFIG"); configPath != "" {
		paths = append(paths, configPath)
	}
	return paths
}

// loadConfigFile decodes a file over config, so only the keys present in
// the file change.
func loadConfigFile(path string, config *types.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Strip JSONC comments using tidwall/jsonc
	data = jsonc.ToJSON(data)
	data = interpolate(data)

	return json.Unmarshal(data, config)
}

// interpolate expands {env:VAR_NAME} placeholders.
func interpolate(data []byte) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		name := envPattern.FindSubmatch(match)[1]
		value, _ := json.Marshal(os.Getenv(string(name)))
		// Drop the quotes: the placeholder already sits inside a JSON string.
		return value[1 : len(value)-1]
	})
}

// applyEnvOverrides applies BLUEWRITER_* environment variables.
func applyEnvOverrides(config *types.Config) error {
	if v := os.Getenv("BLUEWRITER_DB"); v != "" {
		config.Database = v
	}
	if v := os.Getenv("BLUEWRITER_HOST"); v != "" {
		config.Server.Host = v
	}
	if v := os.Getenv("BLUEWRITER_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return types.Invalid("BLUEWRITER_PORT: %v", err)
		}
		config.Server.Port = port
	}
	if v := os.Getenv("BLUEWRITER_CORS"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return types.Invalid("BLUEWRITER_CORS: %v", err)
		}
		config.Server.EnableCORS = enabled
	}
	if v := os.Getenv("BLUEWRITER_POLL_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return types.Invalid("BLUEWRITER_POLL_INTERVAL_MS: %v", err)
		}
		config.Dispatch.PollIntervalMs = ms
	}
	if v := os.Getenv("BLUEWRITER_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("BLUEWRITER_LOG_FILE"); v != "" {
		config.Log.File = v
	}
	return nil
}

// Validate reports the first invalid setting as an InvalidInput error.
func Validate(config *types.Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return types.Invalid("server.port %d out of range", config.Server.Port)
	}
	if config.Dispatch.PollIntervalMs <= 0 {
		return types.Invalid("dispatch.poll_interval_ms must be positive, got %d", config.Dispatch.PollIntervalMs)
	}
	switch strings.ToLower(config.Log.Level) {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return types.Invalid("log.level %q is not one of debug, info, warn, error, fatal", config.Log.Level)
	}
	if config.Canvas.MinZoom <= 0 || config.Canvas.MaxZoom < config.Canvas.MinZoom {
		return types.Invalid("canvas zoom range [%v, %v] is invalid", config.Canvas.MinZoom, config.Canvas.MaxZoom)
	}
	return nil
}

// PollInterval returns the dispatch poll interval.
func PollInterval(config *types.Config) time.Duration {
	return time.Duration(config.Dispatch.PollIntervalMs) * time.Millisecond
}

// DatabasePath returns the configured database or the data directory default.
func DatabasePath(config *types.Config) string {
	if config.Database != "" {
		return config.Database
	}
	return GetPaths().DatabasePath()
}

// Save saves the configuration to a file.
func Save(config *types.Config, path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
