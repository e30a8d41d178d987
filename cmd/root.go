// Package cmd wires the quotation assistant into a command line.
package cmd

import (
	configx "github.com/kejionglee/iphall-landing-page/pkg/config"
	logx "github.com/kejionglee/iphall-landing-page/pkg/logger"
	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "iphall",
	Short: "IP services instant quotation assistant",
	Long: `iphall serves the instant quotation assistant that walks a visitor
through service, country and billable items to a priced quotation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		configx.SetEnvFile(envFile)
		logCfg, err := configx.New[logx.Config]("LOG")
		if err != nil {
			return err
		}
		logx.Init(*logCfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "path to .env file")
}

func Execute() error {
	return rootCmd.Execute()
}
