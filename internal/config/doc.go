// Package config provides configuration loading, merging, and path management for BlueWriter.
//
// # Configuration Loading
//
// Load starts from Default and decodes each source over the result, so a
// later source only changes the keys it sets:
//
//  1. Global config (~/.config/bluewriter/bluewriter.json[c])
//  2. Project config (bluewriter.json[c] in the given directory)
//  3. BLUEWRITER_CONFIG file
//  4. Environment variables
//
// Missing files are skipped. A file that exists but does not parse fails
// the load.
//
// # Supported Formats
//
// Both JSON and JSONC (JSON with Comments) are accepted; comments and
// trailing commas are stripped with tidwall/jsonc before decoding.
//
// # Variable Interpolation
//
// String values may contain {env:VAR_NAME} placeholders, which expand to the
// JSON-escaped value of the environment variable (empty when unset).
//
// # Environment Variables
//
//   - BLUEWRITER_CONFIG: extra config file, applied after the project file
//   - BLUEWRITER_DB: database path
//   - BLUEWRITER_HOST, BLUEWRITER_PORT: HTTP listen address
//   - BLUEWRITER_CORS: enable CORS (true/false)
//   - BLUEWRITER_POLL_INTERVAL_MS: dispatch drain interval
//   - BLUEWRITER_LOG_LEVEL, BLUEWRITER_LOG_FILE: logging
//
// # Paths
//
// GetPaths follows the XDG base directory layout: the database lives under
// the data directory and logs under the state directory.
//
// # Example
//
//	{
//	  // local development
//	  "database": "{env:HOME}/writing/saga.db",
//	  "server": { "port": 9000 },
//	  "canvas": { "max_zoom": 4 }
//	}
package config
