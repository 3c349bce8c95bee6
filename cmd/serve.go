package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard web server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		srv := server.New(server.Options{
			Dashboard:      dashboard.Options{Analysis: cfg.AnalysisOptions()},
			MaxUploadBytes: cfg.MaxUploadBytes(),
			ReadTimeout:    cfg.ReadTimeout(),
			WriteTimeout:   cfg.WriteTimeout(),
		}, logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Dashboard listening on %s (Ctrl+C to stop)\n", addr)
		defer func() { _ = logger.Sync() }()
		return srv.ListenAndServe(ctx, addr, cfg.ShutdownTimeout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
