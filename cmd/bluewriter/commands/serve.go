package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bluewriter/bluewriter/internal/app"
	"github.com/bluewriter/bluewriter/internal/config"
	"github.com/bluewriter/bluewriter/internal/logging"
	"github.com/bluewriter/bluewriter/pkg/types"
)

var (
	servePort     int
	serveHostname string
	serveWatch    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the BlueWriter HTTP server",
	Long: `Start BlueWriter as a server that exposes the project, story, chapter,
encyclopedia and state APIs over HTTP, with a server-sent event stream at
/event.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveHostname, "hostname", "", "Hostname to listen on (overrides config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "Reload the log level when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if serveHostname != "" {
		cfg.Server.Host = serveHostname
	}

	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if serveWatch {
		dir, err := GetWorkDir(workDir)
		if err != nil {
			return err
		}
		w, err := config.NewWatcher(dir, func(c *types.Config) { applyLogLevel(c) })
		if err != nil {
			logging.Warn().Err(err).Msg("config watcher unavailable")
		} else {
			w.Start()
			defer w.Stop()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("version", Version).Str("addr", cfg.Server.Host).Int("port", cfg.Server.Port).Msg("starting server")
	if err := a.Run(ctx); err != nil {
		return err
	}
	logging.Info().Msg("server stopped")
	return nil
}

// applyLogLevel switches the log level to the one in c. It reports whether
// the level changed.
func applyLogLevel(c *types.Config) bool {
	level := logging.ParseLevel(c.Log.Level)
	prev := logging.GetLevel()
	if level == prev {
		return false
	}
	logging.SetLevel(level)
	logging.Info().Str("from", prev.String()).Str("to", level.String()).Msg("log level changed")
	return true
}
