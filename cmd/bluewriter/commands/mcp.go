package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bluewriter/bluewriter/internal/app"
	"github.com/bluewriter/bluewriter/internal/logging"
	"github.com/bluewriter/bluewriter/pkg/mcpserver/bluewriter"
)

var mcpSSEAddr string

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the BlueWriter MCP tools",
	Long: `Serve the BlueWriter tools to an MCP client. The server speaks the
protocol over stdin/stdout unless --sse is given, in which case it listens
for SSE clients on that address.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpSSEAddr, "sse", "", "Serve over SSE on this address instead of stdio (e.g. 127.0.0.1:8931)")
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := app.New(appConfig)
	if err != nil {
		return err
	}
	defer a.Close()

	mcpServer := bluewriter.NewServer(bluewriter.Services{
		Projects:     a.Projects,
		Stories:      a.Stories,
		Chapters:     a.Chapters,
		Encyclopedia: a.Encyclopedia,
		Canvas:       a.Canvas,
		Editors:      a.Editors,
	}, Version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Loop.Run(gctx)
	})

	if mcpSSEAddr == "" {
		g.Go(func() error {
			err := server.NewStdioServer(mcpServer).Listen(gctx, cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("mcp stdio: %w", err)
			}
			// stdin closed: the client is gone.
			stop()
			return nil
		})
	} else {
		sse := server.NewSSEServer(mcpServer, server.WithBaseURL("http://"+mcpSSEAddr))
		g.Go(func() error {
			logging.Info().Str("addr", mcpSSEAddr).Msg("mcp sse server listening")
			if err := sse.Start(mcpSSEAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("mcp sse: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return sse.Shutdown(sctx)
		})
	}

	return g.Wait()
}
