package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/kejionglee/iphall-landing-page/api"
	configx "github.com/kejionglee/iphall-landing-page/pkg/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat and catalog HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := buildApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		httpCfg, err := configx.New[api.Config]("HTTP")
		if err != nil {
			return err
		}
		srv, err := api.NewServer(a.engine, a.catalog, a.composer, a.documents, *httpCfg)
		if err != nil {
			return err
		}
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
