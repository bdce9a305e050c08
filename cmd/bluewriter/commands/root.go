// Package commands provides the CLI commands for BlueWriter.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bluewriter/bluewriter/internal/config"
	"github.com/bluewriter/bluewriter/internal/logging"
	"github.com/bluewriter/bluewriter/pkg/types"
)

var (
	// Version information set at build time
	Version   = "0.1.0"
	BuildTime = "dev"
)

// Global flags
var (
	printLogs bool
	logLevel  string
	dbPath    string
	workDir   string
)

// appConfig is loaded once per invocation by the root PersistentPreRunE.
var appConfig *types.Config

var rootCmd = &cobra.Command{
	Use:   "bluewriter",
	Short: "BlueWriter - story planning workspace",
	Long: `BlueWriter keeps projects, stories, chapter cards and an encyclopedia
in a local database and exposes them over HTTP and MCP.

Run 'bluewriter serve' to start the HTTP server, or 'bluewriter mcp'
to serve the MCP tools over stdio.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&printLogs, "print-logs", false, "Print logs to stderr")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Database file (overrides config)")
	rootCmd.PersistentFlags().StringVar(&workDir, "directory", "", "Directory whose bluewriter.json is loaded")

	rootCmd.SetVersionTemplate(fmt.Sprintf("bluewriter %s (%s)\n", Version, BuildTime))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(debugCmd)
}

// Execute runs the root command. The log file opened by setup is closed
// on return.
func Execute() error {
	defer logging.Close()
	return rootCmd.Execute()
}

// GetWorkDir returns the working directory from flag or current directory.
func GetWorkDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	return os.Getwd()
}

// setup loads .env, the configuration and the logger. Flags win over the
// config files and the environment.
func setup(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	dir, err := GetWorkDir(workDir)
	if err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	appConfig = cfg

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.Log.Level)
	logCfg.Pretty = cfg.Log.Pretty
	logCfg.File = cfg.Log.File
	if !printLogs {
		logCfg.Output = io.Discard
		if logCfg.File == "" {
			logCfg.File = config.GetPaths().LogPath()
		}
	}
	return logging.Init(logCfg)
}
